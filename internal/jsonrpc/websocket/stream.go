package websocket

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/jsonrpc"
	"github.com/imtaco/live-signal/internal/log"
)

const (
	ErrBufferFull errors.Code = "buffer_full"
)

const (
	pingInterval = 10 * time.Second
	pingTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
	bufMessages  = 64
)

// newStream binds the stream lifetime to ctx, normally the upgrade request
// context.
func newStream(ctx context.Context, conn *websocket.Conn, logger *log.Logger) *wsStream {
	ws := &wsStream{
		conn:   conn,
		chBuf:  make(chan func() error, bufMessages),
		logger: logger,
	}
	ws.connCtx, ws.cancel = context.WithCancel(ctx)
	ws.status.Store(int32(websocket.StatusNormalClosure))
	return ws
}

// wsStream wraps a WebSocket connection to implement jsonrpc.ObjectStream.
// Writes are queued to a single write pump; a peer that cannot keep up with
// bufMessages pending writes is disconnected.
type wsStream struct {
	conn  *websocket.Conn
	chBuf chan func() error

	connCtx   context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	status    atomic.Int32 // websocket.StatusCode seen on close
	logger    *log.Logger
}

// Write only fails on a closed stream or a full buffer.
func (ws *wsStream) Write(_ context.Context, obj any) error {
	if ws.connCtx.Err() != nil {
		return net.ErrClosed
	}

	action := func() error {
		ctx, cancel := context.WithTimeout(ws.connCtx, writeTimeout)
		defer cancel()
		return wsjson.Write(ctx, ws.conn, obj)
	}

	select {
	case ws.chBuf <- action:
		return nil
	default:
		ws.close(ErrBufferFull)
		return ErrBufferFull
	}
}

// Read returns jsonrpc.ErrCodeParseError for a frame that is not valid JSON
// and keeps the connection open. Any other failure closes it.
func (ws *wsStream) Read(ctx context.Context, v any) error {
	_, data, err := ws.conn.Read(ctx)
	if err != nil {
		ws.close(err)
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(jsonrpc.ErrCodeParseError, err, "invalid json frame")
	}
	return nil
}

func (ws *wsStream) Open(_ context.Context) error {
	go func() {
		err := ws.writePump(ws.connCtx)
		ws.close(err)
	}()
	return nil
}

func (ws *wsStream) Close() error {
	ws.close(nil)
	return nil
}

func (ws *wsStream) close(err error) {
	ws.closeOnce.Do(func() {
		peerGone := false
		code := websocket.StatusNormalClosure

		switch {
		case err == nil:
			ws.logger.Debug("connection closed by server")
		case websocket.CloseStatus(err) != -1:
			code = websocket.CloseStatus(err)
			ws.logger.Debug("connection closed by peer", log.Int("code", int(code)))
			peerGone = true
		case errors.Is(err, net.ErrClosed),
			errors.Is(err, io.EOF),
			errors.Is(err, context.Canceled):
			code = websocket.StatusAbnormalClosure
			ws.logger.Debug("connection dropped", log.Error(err))
			peerGone = true
		case errors.Is(err, ErrBufferFull):
			code = websocket.StatusPolicyViolation
			ws.logger.Warn("connection closed due to buffer full")
		default:
			code = websocket.StatusInternalError
			ws.logger.Warn("connection closed due to unknown error", log.Error(err))
		}

		ws.status.Store(int32(code))
		ws.cancel()

		if peerGone {
			_ = ws.conn.CloseNow()
			return
		}
		// the close handshake waits for the peer, never block the caller on it
		go func() { _ = ws.conn.Close(code, "bye") }()
	})
}

func (ws *wsStream) closeCode() websocket.StatusCode {
	return websocket.StatusCode(ws.status.Load())
}

func (ws *wsStream) wait() {
	<-ws.connCtx.Done()
}

func (ws *wsStream) writePump(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ws.ping(ctx); err != nil {
				return err
			}
		case action := <-ws.chBuf:
			if err := action(); err != nil {
				return err
			}
		}
	}
}

func (ws *wsStream) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return ws.conn.Ping(ctx)
}
