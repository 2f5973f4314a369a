package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/iancoleman/strcase"
	"go.uber.org/zap/zapcore"
)

const levelEnv = "LOG_LEVEL"

var (
	envFunc = env
)

func parseLevel(s string) (zapcore.Level, bool) {
	var lvl zapcore.Level
	if err := lvl.Set(strings.ToLower(s)); err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

// env treats blank values as unset.
func env(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// levelKeys lists the env keys consulted for a module, most specific first:
// ["Signal", "ConnMgr"] -> LOG_LEVEL__SIGNAL__CONN_MGR, LOG_LEVEL__SIGNAL, LOG_LEVEL.
func levelKeys(names []string) []string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = strcase.ToScreamingSnake(n)
	}

	keys := make([]string, 0, len(parts)+1)
	for i := len(parts); i > 0; i-- {
		keys = append(keys, fmt.Sprintf("%s__%s", levelEnv, strings.Join(parts[:i], "__")))
	}
	return append(keys, levelEnv)
}

// moduleLevel picks the first valid level among levelKeys, info otherwise.
func moduleLevel(names []string) zapcore.Level {
	for _, k := range levelKeys(names) {
		v, ok := envFunc(k)
		if !ok {
			continue
		}
		if lv, ok := parseLevel(v); ok {
			return lv
		}
	}
	return zapcore.InfoLevel
}
