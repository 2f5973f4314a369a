package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/imtaco/live-signal/internal/errors"
)

const (
	ErrInvalid errors.Code = "invalid_config"
)

var validate = validator.New()

// NewViper reads every key from the environment, "http.addr" -> HTTP_ADDR.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	return v
}

// Load registers defaults through configure, decodes into c and checks its
// validate tags. Only keys with a default are looked up in the environment.
func Load[T any](c *T, configure func(v *viper.Viper)) (*T, error) {
	v := NewViper()
	configure(v)

	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(ErrInvalid, err, "decode config")
	}
	if err := validate.Struct(c); err != nil {
		return nil, errors.Wrap(ErrInvalid, err, "validate config")
	}
	return c, nil
}
