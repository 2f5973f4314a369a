package control

import (
	"github.com/spf13/viper"

	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/livestream"
)

const (
	ErrInvalidConfig errors.Code = "invalid_rooms_config"
)

const (
	// DuplicateReject refuses create-room for an id that is already live.
	DuplicateReject = "reject"
	// DuplicateReplace ends the existing room, then creates the new one.
	DuplicateReplace = "replace"
)

type Config struct {
	MaxViewers      int    `mapstructure:"max_viewers"`
	DuplicatePolicy string `mapstructure:"duplicate_policy"`
	ShareLinkBase   string `mapstructure:"share_link_base"`
	QueueSize       int    `mapstructure:"queue_size"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("max_viewers"), livestream.DefaultMaxViewers)
	v.SetDefault(p("duplicate_policy"), DuplicateReject)
	v.SetDefault(p("share_link_base"), "http://localhost:5173")
	v.SetDefault(p("queue_size"), 256)
}

func (c *Config) validate() error {
	switch c.DuplicatePolicy {
	case DuplicateReject, DuplicateReplace:
	default:
		return errors.Newf(ErrInvalidConfig, "unknown duplicate policy %q", c.DuplicatePolicy)
	}
	if c.QueueSize <= 0 {
		return errors.Newf(ErrInvalidConfig, "queue size must be positive, got %d", c.QueueSize)
	}
	return nil
}
