package log

import (
	"encoding/json"
	//nolint:depguard
	"log"
	"os"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/imtaco/live-signal/internal/errors"
)

const (
	ErrConfig errors.Code = "log_config"
)

// Fatal is for start-up failures, before any Logger exists.
func Fatal(v ...any) {
	log.Fatal(v...)
}

// Logger is a zap logger with a dotted module name. Each module resolves its
// own level from the environment, see moduleLevel.
type Logger struct {
	*zap.Logger
	names      []string
	moduleFunc func(names []string) *zap.Logger
}

func (l *Logger) Module(name string) *Logger {
	names := append(slices.Clone(l.names), name)

	return &Logger{
		names:      names,
		Logger:     l.moduleFunc(names),
		moduleFunc: l.moduleFunc,
	}
}

// NewLogger builds a console logger on stdout, or a logger from a zap JSON
// config file when configFile is set.
func NewLogger(configFile string) (*Logger, error) {
	if configFile == "" {
		return newConsoleLogger(zapcore.AddSync(os.Stdout)), nil
	}
	return loadLoggerFromFile(configFile)
}

func loadLoggerFromFile(configFile string) (*Logger, error) {
	bs, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrapf(ErrConfig, err, "read %s", configFile)
	}

	cfg := zap.Config{}
	if err := json.Unmarshal(bs, &cfg); err != nil {
		return nil, errors.Wrapf(ErrConfig, err, "parse %s", configFile)
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(ErrConfig, err, "build logger")
	}

	// the file fixes one level for every module
	return &Logger{
		Logger: zapLogger.Named("main"),
		moduleFunc: func(names []string) *zap.Logger {
			return zapLogger.Named(strings.Join(names, "."))
		},
	}, nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName: func(name string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + name + "]")
		},
	}
}

func newConsoleLogger(out zapcore.WriteSyncer) *Logger {
	encoder := zapcore.NewConsoleEncoder(consoleEncoderConfig())
	build := func(lv zapcore.Level) *zap.Logger {
		core := zapcore.NewCore(encoder, out, zap.NewAtomicLevelAt(lv))
		return zap.New(core, zap.AddStacktrace(zapcore.FatalLevel))
	}

	return &Logger{
		Logger: build(moduleLevel(nil)).Named("main"),
		moduleFunc: func(names []string) *zap.Logger {
			return build(moduleLevel(names)).Named(strings.Join(names, "."))
		},
	}
}

func NewTest(t *testing.T) *Logger {
	logger := zaptest.NewLogger(t)
	return &Logger{
		Logger: logger,
		moduleFunc: func(names []string) *zap.Logger {
			return logger.Named(strings.Join(names, "."))
		},
	}
}

func NewNop() *Logger {
	logger := zap.NewNop()
	return &Logger{
		Logger: logger,
		moduleFunc: func(_ []string) *zap.Logger {
			return logger
		},
	}
}
