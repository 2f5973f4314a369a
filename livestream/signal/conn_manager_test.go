package signal

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/imtaco/live-signal/internal/jsonrpc"
	"github.com/imtaco/live-signal/internal/log"
)

type notification struct {
	method string
	params json.RawMessage
}

// fakeConn records notifications instead of writing them to a socket.
type fakeConn struct {
	mctx      jsonrpc.MethodContext[peerContext]
	mu        sync.Mutex
	notified  []notification
	notifyErr error
	closed    bool
}

func newFakeConn(connID string) *fakeConn {
	c := &fakeConn{}
	c.mctx = jsonrpc.NewContext[peerContext](c, &peerContext{
		connID: connID,
		reqCtx: context.Background(),
	})
	return c
}

func (c *fakeConn) Notify(_ context.Context, method string, params any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.notifyErr != nil {
		return c.notifyErr
	}
	bs, err := json.Marshal(params)
	if err != nil {
		return err
	}
	c.notified = append(c.notified, notification{method: method, params: bs})
	return nil
}

func (c *fakeConn) Open(context.Context) error { return nil }

func (c *fakeConn) Context() jsonrpc.MethodContext[peerContext] { return c.mctx }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) methods() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.notified))
	for _, n := range c.notified {
		out = append(out, n.method)
	}
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type ConnManagerTestSuite struct {
	suite.Suite
	mgr   *ConnManager
	conns map[string]*fakeConn
}

func TestConnManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ConnManagerTestSuite))
}

func (s *ConnManagerTestSuite) SetupTest() {
	s.mgr = NewConnManager(log.NewTest(s.T()))
	s.conns = make(map[string]*fakeConn)
	for _, id := range []string{"c1", "c2", "c3"} {
		s.conns[id] = newFakeConn(id)
		s.mgr.AddClient(id, s.conns[id])
	}
}

func (s *ConnManagerTestSuite) TestAddAndRemove() {
	s.Equal(3, s.mgr.conns.Len())
	s.True(s.mgr.Alive("c1"))

	s.mgr.RemoveClient("c1")
	s.False(s.mgr.Alive("c1"))
	s.Equal(2, s.mgr.conns.Len())

	// unknown ids are ignored
	s.mgr.RemoveClient("c1")
	s.mgr.RemoveClient("nope")
	s.Equal(2, s.mgr.conns.Len())
}

func (s *ConnManagerTestSuite) TestSend() {
	ctx := context.Background()

	s.Require().NoError(s.mgr.Send(ctx, "c2", "viewer-left", map[string]any{"viewerId": "c3"}))

	s.Equal([]string{"viewer-left"}, s.conns["c2"].methods())
	s.JSONEq(`{"viewerId":"c3"}`, string(s.conns["c2"].notified[0].params))
	s.Empty(s.conns["c1"].methods())
}

func (s *ConnManagerTestSuite) TestSendUnknownConn() {
	err := s.mgr.Send(context.Background(), "nope", "room-full", nil)
	s.ErrorIs(err, ErrConnNotFound)
}

func (s *ConnManagerTestSuite) TestSendFailure() {
	boom := errors.New("boom")
	s.conns["c1"].notifyErr = boom

	err := s.mgr.Send(context.Background(), "c1", "room-full", nil)
	s.ErrorIs(err, boom)
}

func (s *ConnManagerTestSuite) TestBroadcastReachesMembersOnly() {
	s.True(s.mgr.JoinGroup("c1", "r1"))
	s.True(s.mgr.JoinGroup("c2", "r1"))
	s.True(s.mgr.JoinGroup("c3", "r2"))

	s.mgr.Broadcast(context.Background(), "r1", "chat-message", map[string]string{"id": "m1"})

	s.Equal([]string{"chat-message"}, s.conns["c1"].methods())
	s.Equal([]string{"chat-message"}, s.conns["c2"].methods())
	s.Empty(s.conns["c3"].methods())
}

func (s *ConnManagerTestSuite) TestBroadcastSurvivesFailingMember() {
	s.mgr.JoinGroup("c1", "r1")
	s.mgr.JoinGroup("c2", "r1")
	s.conns["c1"].notifyErr = errors.New("write failed")

	s.mgr.Broadcast(context.Background(), "r1", "stream-ended", nil)

	s.Equal([]string{"stream-ended"}, s.conns["c2"].methods())
}

func (s *ConnManagerTestSuite) TestBroadcastUnknownGroup() {
	s.NotPanics(func() {
		s.mgr.Broadcast(context.Background(), "none", "stream-ended", nil)
	})
}

func (s *ConnManagerTestSuite) TestJoinGroupRequiresLiveConn() {
	s.mgr.RemoveClient("c3")

	s.False(s.mgr.JoinGroup("c3", "r1"))
	s.False(s.mgr.JoinGroup("ghost", "r1"))

	s.mgr.Broadcast(context.Background(), "r1", "chat-message", nil)
	s.Empty(s.conns["c3"].methods())
}

func (s *ConnManagerTestSuite) TestJoinGroupIsIdempotent() {
	s.True(s.mgr.JoinGroup("c1", "r1"))
	s.True(s.mgr.JoinGroup("c1", "r1"))

	s.mgr.Broadcast(context.Background(), "r1", "chat-message", nil)
	s.Equal([]string{"chat-message"}, s.conns["c1"].methods())
}

func (s *ConnManagerTestSuite) TestLeaveGroup() {
	s.mgr.JoinGroup("c1", "r1")
	s.mgr.JoinGroup("c2", "r1")
	s.mgr.JoinGroup("c1", "r2")

	s.mgr.LeaveGroup("c1", "r1")
	s.mgr.Broadcast(context.Background(), "r1", "chat-message", nil)
	s.mgr.Broadcast(context.Background(), "r2", "viewer-count-update", nil)

	s.Equal([]string{"viewer-count-update"}, s.conns["c1"].methods())
	s.Equal([]string{"chat-message"}, s.conns["c2"].methods())

	// leaving twice or leaving an unknown group is a no-op
	s.mgr.LeaveGroup("c1", "r1")
	s.mgr.LeaveGroup("c1", "none")
}

func (s *ConnManagerTestSuite) TestDropGroup() {
	s.mgr.JoinGroup("c1", "r1")
	s.mgr.JoinGroup("c2", "r1")
	s.mgr.JoinGroup("c2", "r2")

	s.mgr.DropGroup("r1")
	s.mgr.Broadcast(context.Background(), "r1", "chat-message", nil)
	s.mgr.Broadcast(context.Background(), "r2", "chat-message", nil)

	s.Empty(s.conns["c1"].methods())
	s.Equal([]string{"chat-message"}, s.conns["c2"].methods())
	s.NotContains(s.mgr.connGroups, "c1")
}

func (s *ConnManagerTestSuite) TestRemoveClientDropsMemberships() {
	s.mgr.JoinGroup("c1", "r1")
	s.mgr.JoinGroup("c1", "r2")
	s.mgr.JoinGroup("c2", "r1")

	s.mgr.RemoveClient("c1")

	s.NotContains(s.mgr.connGroups, "c1")
	s.NotContains(s.mgr.groups, "r2")
	s.Len(s.mgr.groups["r1"], 1)
}

func (s *ConnManagerTestSuite) TestCloseAll() {
	s.mgr.CloseAll()

	for id, conn := range s.conns {
		s.True(conn.isClosed(), id)
	}
}

func (s *ConnManagerTestSuite) TestConcurrentMembership() {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			s.mgr.JoinGroup("c1", "r1")
		}()
		go func() {
			defer wg.Done()
			s.mgr.LeaveGroup("c1", "r1")
		}()
		go func() {
			defer wg.Done()
			s.mgr.Broadcast(context.Background(), "r1", "chat-message", nil)
		}()
	}
	wg.Wait()
}
