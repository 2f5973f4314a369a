package jsonrpc

import (
	"context"
	"encoding/json"
	"io"
)

type Handler[T any] interface {
	// Def registers a method handler. All connections created by this
	// handler share the same methods; register before serving.
	Def(method string, handler MethodHandler[T])
	NewConn(stream ObjectStream, v *T) Conn[T]
}

type Conn[T any] interface {
	// Notify sends a notification (no id, no reply expected).
	Notify(ctx context.Context, method string, params any) error
	Open(ctx context.Context) error
	Context() MethodContext[T]
	io.Closer
}

// MethodHandler handles one JSON-RPC method. It runs on the connection's
// read loop, so the next message is read only after it returns.
type MethodHandler[T any] func(mctx MethodContext[T], params *json.RawMessage) (any, error)

type ObjectStream interface {
	Open(ctx context.Context) error
	Read(ctx context.Context, v any) error
	Write(ctx context.Context, obj any) error
	io.Closer
}
