package signal

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/jsonrpc"
	wsrpc "github.com/imtaco/live-signal/internal/jsonrpc/websocket"
	"github.com/imtaco/live-signal/internal/log"
	"github.com/imtaco/live-signal/livestream"
	"github.com/imtaco/live-signal/livestream/control"
)

var _ wsrpc.ConnectionHooks[peerContext] = (*WSHook)(nil)

// WSHook registers connections with the ConnManager and hands their
// disconnects to the room controller.
type WSHook struct {
	connMgr    *ConnManager
	controller livestream.RoomController
	newConnID  func() string
	// connections whose disconnect cleanup has not finished
	pending sync.WaitGroup
	logger  *log.Logger
}

func NewWSHook(
	connMgr *ConnManager,
	controller livestream.RoomController,
	logger *log.Logger,
) *WSHook {
	return &WSHook{
		connMgr:    connMgr,
		controller: controller,
		newConnID:  uuid.NewString,
		logger:     logger,
	}
}

// Hooks returns h typed for the websocket JSON-RPC server.
func (h *WSHook) Hooks() wsrpc.ConnectionHooks[peerContext] {
	return h
}

// OnVerify accepts every connection; clients are anonymous.
func (h *WSHook) OnVerify(r *http.Request) (*peerContext, bool, error) {
	return &peerContext{
		reqCtx: r.Context(),
	}, true, nil
}

func (h *WSHook) OnConnect(mctx jsonrpc.MethodContext[peerContext]) {
	pctx := mctx.Get()
	pctx.connID = h.newConnID()

	h.pending.Add(1)
	h.connMgr.AddClient(pctx.connID, mctx.Peer())
	wsConnectionsActive.Add(pctx.reqCtx, 1)
	wsConnectionsTotal.Add(pctx.reqCtx, 1)

	h.logger.Info("Client connected", log.String("connId", pctx.connID))
}

func (h *WSHook) OnDisconnect(mctx jsonrpc.MethodContext[peerContext], closeCode int) {
	defer h.pending.Done()

	pctx := mctx.Get()
	connID := pctx.connID

	// forget the connection first, so the cleanup below cannot reach it
	h.connMgr.RemoveClient(connID)
	wsConnectionsActive.Add(context.Background(), -1)
	wsDisconnectsTotal.Add(context.Background(), 1)

	h.logger.Info("Client disconnected",
		log.String("connId", connID),
		log.Int("closeCode", closeCode))

	// the request context is already done here
	err := h.controller.Disconnect(context.Background(), connID)
	switch {
	case err == nil:
	case errors.Is(err, control.ErrStopped):
		// shutting down, the rooms go away with the controller
		h.logger.Debug("Skip room cleanup", log.String("connId", connID))
	default:
		h.logger.Error("Failed to clean up rooms",
			log.String("connId", connID),
			log.Error(err))
	}
}

// Drain waits until every connected client went through OnDisconnect.
// Call it once the HTTP server no longer accepts connections.
func (h *WSHook) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
