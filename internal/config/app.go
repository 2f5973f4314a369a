package config

import (
	"time"

	"github.com/spf13/viper"
)

// App holds process level settings shared by every binary.
type App struct {
	// LogConfigFile is a zap JSON config; empty means console logging.
	LogConfigFile   string        `mapstructure:"log_config_file"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("log_config_file"), "")
	v.SetDefault(p("shutdown_timeout"), "10s")
}
