package signal

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	intErrors "github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/log"
	"github.com/imtaco/live-signal/livestream/control"
	"github.com/imtaco/live-signal/livestream/mocks"
)

type WSHookTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	controller *mocks.MockRoomController
	connMgr    *ConnManager
	hook       *WSHook
}

func TestWSHookTestSuite(t *testing.T) {
	suite.Run(t, new(WSHookTestSuite))
}

func (s *WSHookTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.controller = mocks.NewMockRoomController(s.ctrl)
	s.connMgr = NewConnManager(log.NewTest(s.T()))
	s.hook = NewWSHook(s.connMgr, s.controller, log.NewTest(s.T()))
	s.hook.newConnID = func() string { return "conn-1" }
}

func (s *WSHookTestSuite) TestOnVerifyAcceptsAnonymous() {
	req := httptest.NewRequest("GET", "/ws", nil)

	pctx, ok, err := s.hook.OnVerify(req)

	s.Require().NoError(err)
	s.True(ok)
	s.Require().NotNil(pctx)
	s.Empty(pctx.connID)
	s.Equal(req.Context(), pctx.reqCtx)
}

func (s *WSHookTestSuite) TestOnConnectRegistersConnection() {
	conn := newFakeConn("")

	s.hook.OnConnect(conn.Context())

	s.Equal("conn-1", conn.Context().Get().connID)
	s.True(s.connMgr.Alive("conn-1"))
}

func (s *WSHookTestSuite) TestOnDisconnectCleansUp() {
	conn := newFakeConn("")
	s.hook.OnConnect(conn.Context())
	s.connMgr.JoinGroup("conn-1", "r1")

	s.controller.EXPECT().
		Disconnect(gomock.Any(), "conn-1").
		DoAndReturn(func(context.Context, string) error {
			// the connection is unreachable by the time rooms are cleaned up
			s.False(s.connMgr.Alive("conn-1"))
			return nil
		})

	s.hook.OnDisconnect(conn.Context(), 1001)

	s.NotContains(s.connMgr.groups, "r1")
}

func (s *WSHookTestSuite) TestOnDisconnectControllerError() {
	conn := newFakeConn("")
	s.hook.OnConnect(conn.Context())

	s.controller.EXPECT().
		Disconnect(gomock.Any(), "conn-1").
		Return(errors.New("controller stopped"))

	s.NotPanics(func() {
		s.hook.OnDisconnect(conn.Context(), 1006)
	})
	s.False(s.connMgr.Alive("conn-1"))
}

func (s *WSHookTestSuite) TestOnDisconnectStoppedController() {
	conn := newFakeConn("")
	s.hook.OnConnect(conn.Context())

	s.controller.EXPECT().
		Disconnect(gomock.Any(), "conn-1").
		Return(intErrors.New(control.ErrStopped, "room controller stopped"))

	s.NotPanics(func() {
		s.hook.OnDisconnect(conn.Context(), 1001)
	})
	s.NoError(s.hook.Drain(context.Background()))
}

func (s *WSHookTestSuite) TestDrainWaitsForDisconnects() {
	conn := newFakeConn("")
	s.hook.OnConnect(conn.Context())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s.ErrorIs(s.hook.Drain(ctx), context.DeadlineExceeded)

	s.controller.EXPECT().Disconnect(gomock.Any(), "conn-1").Return(nil)
	s.hook.OnDisconnect(conn.Context(), 1000)

	s.NoError(s.hook.Drain(context.Background()))
}

func (s *WSHookTestSuite) TestDrainWithoutConnections() {
	s.NoError(s.hook.Drain(context.Background()))
}
