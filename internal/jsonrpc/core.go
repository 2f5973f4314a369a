package jsonrpc

import (
	"context"

	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/log"
)

type handlerImpl[T any] struct {
	methods map[string]MethodHandler[T]
	logger  *log.Logger
}

func NewHandler[T any](logger *log.Logger) Handler[T] {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &handlerImpl[T]{
		methods: make(map[string]MethodHandler[T]),
		logger:  logger,
	}
}

// Def is not goroutine-safe, call it before any connection is opened.
func (s *handlerImpl[T]) Def(method string, handler MethodHandler[T]) {
	if _, ok := s.methods[method]; ok {
		panic("method already defined: " + method)
	}
	s.methods[method] = handler
}

func (s *handlerImpl[T]) NewConn(stream ObjectStream, v *T) Conn[T] {
	return newConn(stream, v, s.handle, s.logger)
}

func (s *handlerImpl[T]) handle(ctx context.Context, conn *connImpl[T], req *Request) {
	s.logger.Debug("RPC request received",
		log.String("method", req.Method),
		log.Any("id", req.ID))

	handler, ok := s.methods[req.Method]
	if !ok {
		s.logger.Warn("Method not found",
			log.String("method", req.Method),
			log.Any("id", req.ID))

		_ = conn.replyError(ctx, req.ID, ErrMethodNotFound(req.Method))
		return
	}

	result, err := handler(conn.mctx, req.Params)
	if err := s.reply(ctx, conn, req, result, err); err != nil {
		s.logger.Warn("Failed to send RPC reply",
			log.String("method", req.Method),
			log.Any("id", req.ID),
			log.Error(err))
	}
}

func (s *handlerImpl[T]) reply(
	ctx context.Context,
	conn *connImpl[T],
	req *Request,
	result any,
	err error,
) error {
	if err == nil {
		if req.ID.IsSet() {
			s.logger.Debug("RPC request completed", log.Any("id", req.ID))
		}
		return conn.reply(ctx, req.ID, result)
	}

	if rpcErr, ok := errors.As[*Error](err); ok {
		// client mistakes, not server faults
		logf := s.logger.Error
		if (*rpcErr).Code == CodeInvalidParams || (*rpcErr).Code == CodeInvalidRequest {
			logf = s.logger.Warn
		}
		logf("RPC handler returned error",
			log.String("method", req.Method),
			log.Any("id", req.ID),
			log.Int64("error_code", (*rpcErr).Code),
			log.String("error_message", (*rpcErr).Message))
		return conn.replyError(ctx, req.ID, *rpcErr)
	}
	s.logger.Error("RPC handler returned unexpected error",
		log.String("method", req.Method),
		log.Any("id", req.ID),
		log.Error(err))

	// do not disclose internal error details to client
	return conn.replyError(ctx, req.ID, ErrInternal("unknown error"))
}
