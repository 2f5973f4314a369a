package signal

import "context"

// peerContext is the per-connection state kept in the jsonrpc method context.
type peerContext struct {
	connID string
	// reqCtx lives as long as the websocket connection
	reqCtx context.Context
}
