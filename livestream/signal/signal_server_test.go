package signal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/imtaco/live-signal/internal/jsonrpc"
	"github.com/imtaco/live-signal/internal/log"
	"github.com/imtaco/live-signal/livestream"
	"github.com/imtaco/live-signal/livestream/mocks"
)

// methodTable captures registered handlers so tests can call them directly.
type methodTable struct {
	methods map[string]jsonrpc.MethodHandler[peerContext]
}

func (t *methodTable) Def(method string, handler jsonrpc.MethodHandler[peerContext]) {
	t.methods[method] = handler
}

func (t *methodTable) NewConn(jsonrpc.ObjectStream, *peerContext) jsonrpc.Conn[peerContext] {
	return nil
}

type SignalServerTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	controller *mocks.MockRoomController
	table      *methodTable
	server     *Server
	mctx       jsonrpc.MethodContext[peerContext]
}

func TestSignalServerTestSuite(t *testing.T) {
	suite.Run(t, new(SignalServerTestSuite))
}

func (s *SignalServerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.controller = mocks.NewMockRoomController(s.ctrl)
	s.table = &methodTable{methods: make(map[string]jsonrpc.MethodHandler[peerContext])}
	s.server = NewServer(s.table, s.controller, log.NewTest(s.T()))
	s.Require().NoError(s.server.Open(context.Background()))

	s.mctx = jsonrpc.NewContext[peerContext](nil, &peerContext{
		connID: "c1",
		reqCtx: context.Background(),
	})
}

func (s *SignalServerTestSuite) TearDownTest() {
	s.NoError(s.server.Close())
}

func (s *SignalServerTestSuite) invoke(method, params string) error {
	handler, ok := s.table.methods[method]
	s.Require().True(ok, "method %s not registered", method)

	var raw *json.RawMessage
	if params != "" {
		r := json.RawMessage(params)
		raw = &r
	}
	result, err := handler(s.mctx, raw)
	s.Nil(result)
	return err
}

func (s *SignalServerTestSuite) TestRegistersEveryEvent() {
	for _, event := range []string{
		livestream.EventCreateRoom,
		livestream.EventJoinRoom,
		livestream.EventJoinRequest,
		livestream.EventJoinRequestResponse,
		livestream.EventJoinRoomDirect,
		livestream.EventKickViewer,
		livestream.EventEndStream,
		livestream.EventChatMessage,
		livestream.EventWebRTCOffer,
		livestream.EventWebRTCAnswer,
		livestream.EventWebRTCICECandidate,
	} {
		s.Contains(s.table.methods, event)
	}
	s.Len(s.table.methods, 11)
}

func (s *SignalServerTestSuite) TestCreateRoom() {
	s.controller.EXPECT().
		CreateRoom(gomock.Any(), "c1", &livestream.CreateRoomRequest{
			RoomID:      "r1",
			CreatorInfo: json.RawMessage(`{"name":"Ann"}`),
		}).
		Return(nil)

	s.NoError(s.invoke(livestream.EventCreateRoom, `{"roomId":"r1","creatorInfo":{"name":"Ann"}}`))
}

func (s *SignalServerTestSuite) TestBoundEvents() {
	tests := []struct {
		event  string
		params string
		expect func()
	}{
		{
			event:  livestream.EventJoinRoom,
			params: `{"roomId":"r1","viewerInfo":{"name":"Bo"}}`,
			expect: func() {
				s.controller.EXPECT().JoinRoom(gomock.Any(), "c1", &livestream.JoinRoomRequest{
					RoomID:     "r1",
					ViewerInfo: json.RawMessage(`{"name":"Bo"}`),
				}).Return(nil)
			},
		},
		{
			event:  livestream.EventJoinRequest,
			params: `{"roomId":"r1","userInfo":{"name":"Cy"}}`,
			expect: func() {
				s.controller.EXPECT().JoinRequest(gomock.Any(), "c1", &livestream.JoinRequestRequest{
					RoomID:   "r1",
					UserInfo: json.RawMessage(`{"name":"Cy"}`),
				}).Return(nil)
			},
		},
		{
			event:  livestream.EventJoinRequestResponse,
			params: `{"roomId":"r1","requestId":"c9","approved":true}`,
			expect: func() {
				s.controller.EXPECT().RespondJoinRequest(gomock.Any(), "c1", &livestream.JoinRequestResponseRequest{
					RoomID:    "r1",
					RequestID: "c9",
					Approved:  true,
				}).Return(nil)
			},
		},
		{
			event:  livestream.EventJoinRoomDirect,
			params: `{"roomId":"r1"}`,
			expect: func() {
				s.controller.EXPECT().JoinRoomDirect(gomock.Any(), "c1", &livestream.JoinRoomRequest{
					RoomID: "r1",
				}).Return(nil)
			},
		},
		{
			event:  livestream.EventKickViewer,
			params: `{"roomId":"r1","viewerId":"c2"}`,
			expect: func() {
				s.controller.EXPECT().KickViewer(gomock.Any(), "c1", &livestream.KickViewerRequest{
					RoomID:   "r1",
					ViewerID: "c2",
				}).Return(nil)
			},
		},
		{
			event:  livestream.EventEndStream,
			params: `{"roomId":"r1"}`,
			expect: func() {
				s.controller.EXPECT().EndStream(gomock.Any(), "c1", &livestream.EndStreamRequest{
					RoomID: "r1",
				}).Return(nil)
			},
		},
		{
			event:  livestream.EventChatMessage,
			params: `{"roomId":"r1","message":"hi","senderInfo":{"name":"Ann"}}`,
			expect: func() {
				s.controller.EXPECT().ChatMessage(gomock.Any(), "c1", &livestream.ChatMessageRequest{
					RoomID:     "r1",
					Message:    json.RawMessage(`"hi"`),
					SenderInfo: json.RawMessage(`{"name":"Ann"}`),
				}).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.event, func() {
			tt.expect()
			s.NoError(s.invoke(tt.event, tt.params))
		})
	}
}

func (s *SignalServerTestSuite) TestInvalidParams() {
	tests := []struct {
		name   string
		event  string
		params string
	}{
		{"missing params", livestream.EventCreateRoom, ""},
		{"not an object", livestream.EventJoinRoom, `"r1"`},
		{"missing room id", livestream.EventEndStream, `{}`},
		{"missing viewer id", livestream.EventKickViewer, `{"roomId":"r1"}`},
		{"missing request id", livestream.EventJoinRequestResponse, `{"roomId":"r1","approved":true}`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			// the controller mock fails the test on any call
			err := s.invoke(tt.event, tt.params)

			rpcErr, ok := err.(*jsonrpc.Error)
			s.Require().True(ok, "unexpected error %v", err)
			s.EqualValues(jsonrpc.CodeInvalidParams, rpcErr.Code)
		})
	}
}

func (s *SignalServerTestSuite) TestControllerErrorIsReturned() {
	stopped := errors.New("stopped")
	s.controller.EXPECT().EndStream(gomock.Any(), "c1", gomock.Any()).Return(stopped)

	s.ErrorIs(s.invoke(livestream.EventEndStream, `{"roomId":"r1"}`), stopped)
}

func (s *SignalServerTestSuite) TestRelay() {
	tests := []struct {
		event   string
		key     string
		params  string
		payload string
	}{
		{livestream.EventWebRTCOffer, livestream.RelayKeyOffer, `{"target":"c2","offer":{"type":"offer","sdp":"v=0"}}`, `{"type":"offer","sdp":"v=0"}`},
		{livestream.EventWebRTCAnswer, livestream.RelayKeyAnswer, `{"target":"c2","answer":{"type":"answer"}}`, `{"type":"answer"}`},
		{livestream.EventWebRTCICECandidate, livestream.RelayKeyCandidate, `{"target":"c2","candidate":{"candidate":"a=1"}}`, `{"candidate":"a=1"}`},
	}

	for _, tt := range tests {
		s.Run(tt.event, func() {
			s.controller.EXPECT().
				Relay(gomock.Any(), "c1", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, req *livestream.RelayRequest) error {
					s.Equal(tt.event, req.Event)
					s.Equal(tt.key, req.Key)
					s.Equal("c2", req.Target)
					s.JSONEq(tt.payload, string(req.Payload))
					return nil
				})

			s.NoError(s.invoke(tt.event, tt.params))
		})
	}
}

func (s *SignalServerTestSuite) TestRelayWithoutPayload() {
	s.controller.EXPECT().
		Relay(gomock.Any(), "c1", &livestream.RelayRequest{
			Event:  livestream.EventWebRTCOffer,
			Key:    livestream.RelayKeyOffer,
			Target: "c2",
		}).
		Return(nil)

	s.NoError(s.invoke(livestream.EventWebRTCOffer, `{"target":"c2"}`))
}

func (s *SignalServerTestSuite) TestRelayRequiresTarget() {
	for _, params := range []string{
		"",
		`[]`,
		`{}`,
		`{"target":""}`,
		`{"target":42}`,
	} {
		s.Run(params, func() {
			err := s.invoke(livestream.EventWebRTCAnswer, params)

			rpcErr, ok := err.(*jsonrpc.Error)
			s.Require().True(ok, "unexpected error %v", err)
			s.EqualValues(jsonrpc.CodeInvalidParams, rpcErr.Code)
		})
	}
}
