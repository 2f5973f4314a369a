package websocket

import (
	"net/http"
	"net/url"

	"github.com/coder/websocket"

	"github.com/imtaco/live-signal/internal/jsonrpc"
	"github.com/imtaco/live-signal/internal/log"
)

// Server accepts websocket connections and serves JSON-RPC on each of them.
type Server[T any] struct {
	jsonrpc.Handler[T]
	hooks          ConnectionHooks[T]
	originPatterns []string
	logger         *log.Logger
}

// NewServer creates a websocket JSON-RPC server. allowedOrigins are origins
// such as "http://localhost:5173" or bare host patterns such as "*".
func NewServer[T any](
	hooks ConnectionHooks[T],
	allowedOrigins []string,
	logger *log.Logger,
) *Server[T] {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if hooks == nil {
		hooks = &defaultHooks[T]{}
	}
	return &Server[T]{
		Handler:        jsonrpc.NewHandler[T](logger),
		originPatterns: OriginPatterns(allowedOrigins),
		hooks:          hooks,
		logger:         logger,
	}
}

// OriginPatterns turns configured origins into the host patterns the
// websocket handshake matches against.
func OriginPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, origin)
	}
	return patterns
}

// HandleWebSocket upgrades the request and blocks until the connection is gone.
func (s *Server[T]) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	initValue, passed, err := s.hooks.OnVerify(r)
	if err != nil {
		s.logger.Warn("Connection verification error",
			log.String("remote_addr", r.RemoteAddr),
			log.Error(err))
		http.Error(w, "fail to verify", http.StatusInternalServerError)
		return
	} else if !passed {
		s.logger.Info("Connection verification failed",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		s.logger.Warn("WebSocket open failed",
			log.String("remote_addr", r.RemoteAddr),
			log.Error(err))
		return
	}

	stream := newStream(r.Context(), wsConn, s.logger)
	rpcConn := s.Handler.NewConn(stream, initValue)

	s.logger.Debug("WebSocket connection established",
		log.String("remote_addr", r.RemoteAddr),
		log.String("user_agent", r.UserAgent()))

	s.hooks.OnConnect(rpcConn.Context())
	if err := rpcConn.Open(r.Context()); err != nil {
		s.logger.Error("Failed to open RPC connection",
			log.String("remote_addr", r.RemoteAddr),
			log.Error(err))
		_ = wsConn.CloseNow()
		s.hooks.OnDisconnect(rpcConn.Context(), int(websocket.StatusInternalError))
		return
	}

	stream.wait()
	s.hooks.OnDisconnect(rpcConn.Context(), int(stream.closeCode()))
}
