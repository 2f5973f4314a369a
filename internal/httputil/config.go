package httputil

import (
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/imtaco/live-signal/internal/errors"
)

const (
	ErrTLSConfig errors.Code = "tls_config"
)

type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type Config struct {
	Addr              string        `mapstructure:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	TLS               TLSConfig     `mapstructure:"tls"`
}

// Server is an http.Server that picks plain or TLS listening from Config.
type Server struct {
	*http.Server
	cfg *Config
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("addr"), ":8080")
	v.SetDefault(p("read_header_timeout"), "10s")
	v.SetDefault(p("tls.enabled"), false)
	v.SetDefault(p("tls.cert_file"), "")
	v.SetDefault(p("tls.key_file"), "")
}

func NewServer(cfg *Config, handler http.Handler) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		cfg: cfg,
	}
}

// Listen blocks like ListenAndServe and returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Listen() error {
	tls := s.cfg.TLS
	if !tls.Enabled {
		return s.ListenAndServe()
	}

	if tls.CertFile == "" || tls.KeyFile == "" {
		return errors.New(ErrTLSConfig, "TLS is enabled but cert_file or key_file is not set")
	}
	return s.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
}
