package signal

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/jsonrpc"
	"github.com/imtaco/live-signal/internal/log"
	intsync "github.com/imtaco/live-signal/internal/sync"
	"github.com/imtaco/live-signal/livestream"
)

const (
	ErrConnNotFound errors.Code = "conn_not_found"
)

var _ livestream.Transport = (*ConnManager)(nil)

// ConnManager tracks live websocket connections and the broadcast groups
// they belong to. A group is named after the room it serves.
type ConnManager struct {
	conns      *intsync.Map[string, jsonrpc.Conn[peerContext]] // connId -> conn
	groups     map[string]map[string]struct{}                  // group -> connIds
	connGroups map[string]map[string]struct{}                  // connId -> groups
	groupsMux  sync.RWMutex
	logger     *log.Logger
}

func NewConnManager(logger *log.Logger) *ConnManager {
	return &ConnManager{
		conns:      intsync.NewMap[string, jsonrpc.Conn[peerContext]](),
		groups:     make(map[string]map[string]struct{}),
		connGroups: make(map[string]map[string]struct{}),
		logger:     logger,
	}
}

func (m *ConnManager) AddClient(connID string, conn jsonrpc.Conn[peerContext]) {
	m.conns.Store(connID, conn)
	m.logger.Debug("Client added", log.String("connId", connID))
}

// RemoveClient forgets connID and all of its group memberships. Nothing is
// delivered to it afterwards.
func (m *ConnManager) RemoveClient(connID string) {
	if _, ok := m.conns.LoadAndDelete(connID); !ok {
		return
	}

	m.groupsMux.Lock()
	defer m.groupsMux.Unlock()

	for group := range m.connGroups[connID] {
		m.leave(connID, group)
	}
	delete(m.connGroups, connID)

	m.logger.Debug("Client removed", log.String("connId", connID))
}

func (m *ConnManager) Alive(connID string) bool {
	_, ok := m.conns.Load(connID)
	return ok
}

func (m *ConnManager) JoinGroup(connID, group string) bool {
	m.groupsMux.Lock()
	defer m.groupsMux.Unlock()

	// checked under the group lock, so a concurrent RemoveClient either
	// runs first or sees the new membership
	if !m.Alive(connID) {
		return false
	}

	members, ok := m.groups[group]
	if !ok {
		members = make(map[string]struct{})
		m.groups[group] = members
	}
	members[connID] = struct{}{}

	joined, ok := m.connGroups[connID]
	if !ok {
		joined = make(map[string]struct{})
		m.connGroups[connID] = joined
	}
	joined[group] = struct{}{}

	return true
}

func (m *ConnManager) LeaveGroup(connID, group string) {
	m.groupsMux.Lock()
	defer m.groupsMux.Unlock()

	m.leave(connID, group)
	if joined, ok := m.connGroups[connID]; ok {
		delete(joined, group)
		if len(joined) == 0 {
			delete(m.connGroups, connID)
		}
	}
}

func (m *ConnManager) DropGroup(group string) {
	m.groupsMux.Lock()
	defer m.groupsMux.Unlock()

	for connID := range m.groups[group] {
		if joined, ok := m.connGroups[connID]; ok {
			delete(joined, group)
			if len(joined) == 0 {
				delete(m.connGroups, connID)
			}
		}
	}
	delete(m.groups, group)

	m.logger.Debug("Group dropped", log.String("group", group))
}

// leave removes connID from the group members only. Caller holds groupsMux.
func (m *ConnManager) leave(connID, group string) {
	members, ok := m.groups[group]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(m.groups, group)
	}
}

func (m *ConnManager) members(group string) []jsonrpc.Conn[peerContext] {
	m.groupsMux.RLock()
	defer m.groupsMux.RUnlock()

	members := m.groups[group]
	conns := make([]jsonrpc.Conn[peerContext], 0, len(members))
	for connID := range members {
		if conn, ok := m.conns.Load(connID); ok {
			conns = append(conns, conn)
		}
	}
	return conns
}

// Send notifies a single connection. The write is bound to the recipient's
// connection context, not to the caller's.
func (m *ConnManager) Send(ctx context.Context, connID, event string, payload any) error {
	conn, ok := m.conns.Load(connID)
	if !ok {
		return errors.Newf(ErrConnNotFound, "connection %s not found", connID)
	}
	return m.notify(ctx, conn, event, payload)
}

func (m *ConnManager) Broadcast(ctx context.Context, group, event string, payload any) {
	conns := m.members(group)
	for _, conn := range conns {
		// failures are logged in notify, other members still get the event
		_ = m.notify(ctx, conn, event, payload)
	}

	m.logger.Debug("Broadcast",
		log.String("group", group),
		log.String("event", event),
		log.Int("members", len(conns)))
}

func (m *ConnManager) notify(ctx context.Context, conn jsonrpc.Conn[peerContext], event string, payload any) error {
	attrs := metric.WithAttributes(attribute.String("event", event))

	pctx := conn.Context().Get()
	if err := conn.Notify(pctx.reqCtx, event, payload); err != nil {
		notificationsFailed.Add(ctx, 1, attrs)
		m.logger.Warn("Failed to notify client",
			log.String("connId", pctx.connID),
			log.String("event", event),
			log.Error(err))
		return err
	}
	notificationsSent.Add(ctx, 1, attrs)
	return nil
}

// CloseAll closes every live connection. Their disconnect hooks run as usual.
func (m *ConnManager) CloseAll() {
	conns := m.conns.Values()
	for _, conn := range conns {
		_ = conn.Close()
	}
	m.logger.Info("Closed all connections", log.Int("count", len(conns)))
}
