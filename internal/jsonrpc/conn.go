package jsonrpc

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/log"
)

type handlerFunc[T any] func(context.Context, *connImpl[T], *Request)

type connImpl[T any] struct {
	stream   ObjectStream
	mctx     MethodContext[T]
	handler  handlerFunc[T]
	sendLock sync.Mutex
	closed   atomic.Bool
	logger   *log.Logger
}

func newConn[T any](
	stream ObjectStream,
	v *T,
	handler handlerFunc[T],
	logger *log.Logger,
) *connImpl[T] {
	c := &connImpl[T]{
		stream:  stream,
		handler: handler,
		logger:  logger,
	}
	c.mctx = NewContext[T](c, v)
	return c
}

func (c *connImpl[T]) Open(ctx context.Context) error {
	if err := c.stream.Open(ctx); err != nil {
		return err
	}

	go c.readLoop(ctx)
	return nil
}

func (c *connImpl[T]) Close() error {
	return c.close()
}

func (c *connImpl[T]) Context() MethodContext[T] {
	return c.mctx
}

func (c *connImpl[T]) Notify(ctx context.Context, method string, params any) error {
	m, err := newNotificationMessage(method, params)
	if err != nil {
		return err
	}
	return c.send(ctx, m)
}

// reply sends a successful response. Notifications (no id) get none.
func (c *connImpl[T]) reply(ctx context.Context, id *ID, result any) error {
	if !id.IsSet() {
		return nil
	}
	resp, err := newResponseMessage(*id, result, nil)
	if err != nil {
		return err
	}
	return c.send(ctx, resp)
}

func (c *connImpl[T]) replyError(ctx context.Context, id *ID, respErr *Error) error {
	if !id.IsSet() {
		return nil
	}
	resp, err := newResponseMessage(*id, nil, respErr)
	if err != nil {
		return err
	}
	return c.send(ctx, resp)
}

// close is idempotent. The stream logs why it went away.
func (c *connImpl[T]) close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return c.stream.Close()
}

func (c *connImpl[T]) readLoop(ctx context.Context) {
	for {
		var m message
		err := c.stream.Read(ctx, &m)
		if errors.Is(err, ErrCodeParseError) {
			c.logger.Warn("ignore malformed message", log.Error(err))
			continue
		}
		if err != nil {
			_ = c.close()
			return
		}

		m.validate()

		switch m.msgType {
		case typeRequest, typeNotification:
			c.handler(ctx, c, &Request{
				ID:     m.ID,
				Method: *m.Method,
				Params: m.Params,
			})

		case typeResponse:
			// this side never issues calls
			c.logger.Debug("ignore response", log.Any("id", m.ID))

		default:
			c.logger.Warn("ignore invalid message: neither request nor response is set")
			_ = c.replyError(ctx, m.ID, ErrInvalidRequest("invalid message"))
		}
	}
}

func (c *connImpl[T]) send(ctx context.Context, m *message) error {
	// not allow concurrent sends
	c.sendLock.Lock()
	defer c.sendLock.Unlock()

	if c.closed.Load() {
		return ErrClosed
	}
	return c.stream.Write(ctx, m)
}
