package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zapcore"

	"github.com/imtaco/live-signal/internal/errors"
)

type LevelTestSuite struct {
	suite.Suite
	originalEnvFunc func(string) (string, bool)
	testEnv         map[string]string
}

func TestLevelTestSuite(t *testing.T) {
	suite.Run(t, new(LevelTestSuite))
}

func (s *LevelTestSuite) SetupTest() {
	s.originalEnvFunc = envFunc
	s.testEnv = make(map[string]string)
	envFunc = func(key string) (string, bool) {
		v, ok := s.testEnv[key]
		return v, ok && v != ""
	}
}

func (s *LevelTestSuite) TearDownTest() {
	envFunc = s.originalEnvFunc
}

func (s *LevelTestSuite) TestLevelKeys() {
	s.Equal([]string{"LOG_LEVEL"}, levelKeys(nil))
	s.Equal([]string{
		"LOG_LEVEL__SIGNAL__CONN_MGR",
		"LOG_LEVEL__SIGNAL",
		"LOG_LEVEL",
	}, levelKeys([]string{"Signal", "ConnMgr"}))
	s.Equal([]string{
		"LOG_LEVEL__HTTP_SERVER__WS_RPC",
		"LOG_LEVEL__HTTP_SERVER",
		"LOG_LEVEL",
	}, levelKeys([]string{"HTTPServer", "WsRpc"}))
}

func (s *LevelTestSuite) TestModuleLevel() {
	tests := []struct {
		name  string
		env   map[string]string
		names []string
		want  zapcore.Level
	}{
		{
			name:  "defaults to info",
			names: []string{"RoomCtrl"},
			want:  zapcore.InfoLevel,
		},
		{
			name:  "global level",
			env:   map[string]string{"LOG_LEVEL": "debug"},
			names: []string{"RoomCtrl"},
			want:  zapcore.DebugLevel,
		},
		{
			name: "module overrides global",
			env: map[string]string{
				"LOG_LEVEL":            "warn",
				"LOG_LEVEL__ROOM_CTRL": "debug",
			},
			names: []string{"RoomCtrl"},
			want:  zapcore.DebugLevel,
		},
		{
			name: "most specific wins",
			env: map[string]string{
				"LOG_LEVEL":                      "warn",
				"LOG_LEVEL__ROOM_CTRL":           "info",
				"LOG_LEVEL__ROOM_CTRL__REGISTRY": "error",
			},
			names: []string{"RoomCtrl", "Registry"},
			want:  zapcore.ErrorLevel,
		},
		{
			name:  "inherits parent",
			env:   map[string]string{"LOG_LEVEL__ROOM_CTRL": "debug"},
			names: []string{"RoomCtrl", "Registry"},
			want:  zapcore.DebugLevel,
		},
		{
			name: "invalid value falls through",
			env: map[string]string{
				"LOG_LEVEL__SIGNAL": "loud",
				"LOG_LEVEL":         "warn",
			},
			names: []string{"Signal"},
			want:  zapcore.WarnLevel,
		},
		{
			name: "empty value is unset",
			env: map[string]string{
				"LOG_LEVEL__SIGNAL": "",
				"LOG_LEVEL":         "error",
			},
			names: []string{"Signal"},
			want:  zapcore.ErrorLevel,
		},
		{
			name:  "case insensitive",
			env:   map[string]string{"LOG_LEVEL__SIGNAL": "DEBUG"},
			names: []string{"Signal"},
			want:  zapcore.DebugLevel,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.testEnv = tt.env
			if s.testEnv == nil {
				s.testEnv = map[string]string{}
			}
			s.Equal(tt.want, moduleLevel(tt.names))
		})
	}
}

func (s *LevelTestSuite) TestModuleLoggerFiltersByLevel() {
	s.testEnv["LOG_LEVEL"] = "warn"
	s.testEnv["LOG_LEVEL__SIGNAL"] = "debug"

	var buf bytes.Buffer
	root := newConsoleLogger(zapcore.AddSync(&buf))

	root.Info("hidden")
	root.Module("RoomCtrl").Info("hidden too")
	root.Module("Signal").Module("ConnMgr").Debug("client added", String("connId", "c1"))

	out := buf.String()
	s.NotContains(out, "hidden")
	s.Contains(out, "[Signal.ConnMgr]")
	s.Contains(out, "client added")
	s.Contains(out, "c1")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input  string
		want   zapcore.Level
		wantOK bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"INFO", zapcore.InfoLevel, true},
		{"Warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"fatal", zapcore.FatalLevel, true},
		{"trace", zapcore.InfoLevel, false},
		{"verbose", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseLevel(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("parseLevel(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEnvTrimsBlank(t *testing.T) {
	t.Setenv("LIVE_SIGNAL_TEST_LEVEL", "  debug \n")
	v, ok := env("LIVE_SIGNAL_TEST_LEVEL")
	if !ok || v != "debug" {
		t.Fatalf("env() = %q, %v", v, ok)
	}

	t.Setenv("LIVE_SIGNAL_TEST_LEVEL", "   ")
	if _, ok := env("LIVE_SIGNAL_TEST_LEVEL"); ok {
		t.Fatal("blank value should be unset")
	}
}

func TestLoggerFromFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "log.json")
	cfg := `{"level":"warn","encoding":"json","outputPaths":["stderr"],"encoderConfig":{"messageKey":"msg"}}`
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger.Module("RoomCtrl").Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("file level should apply to modules")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLogger(bad); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if _, err := NewLogger(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
