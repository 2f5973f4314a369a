package websocket

import (
	"net/http"

	"github.com/imtaco/live-signal/internal/jsonrpc"
)

// ConnectionHooks customizes the connection lifecycle.
type ConnectionHooks[T any] interface {
	// OnVerify is called before upgrading to WebSocket.
	// Return false to reject the connection.
	OnVerify(r *http.Request) (*T, bool, error)

	// OnConnect is called once the connection is established, before its
	// first message is read.
	OnConnect(mctx jsonrpc.MethodContext[T])

	// OnDisconnect is called once the connection is closed. closeCode is the
	// websocket close status (1000 normal, 1001 going away, 1006 abnormal...).
	OnDisconnect(mctx jsonrpc.MethodContext[T], closeCode int)
}

// defaultHooks rejects every connection.
type defaultHooks[T any] struct{}

func (h *defaultHooks[T]) OnVerify(*http.Request) (*T, bool, error) {
	return nil, false, nil
}

func (h *defaultHooks[T]) OnConnect(jsonrpc.MethodContext[T]) {}

func (h *defaultHooks[T]) OnDisconnect(jsonrpc.MethodContext[T], int) {}
