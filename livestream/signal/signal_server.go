package signal

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/live-signal/internal/jsonrpc"
	"github.com/imtaco/live-signal/internal/log"
	"github.com/imtaco/live-signal/livestream"
)

// Server maps inbound client events onto the room controller.
type Server struct {
	jsonrpc.Handler[peerContext]
	controller livestream.RoomController
	logger     *log.Logger
}

func NewServer(
	handler jsonrpc.Handler[peerContext],
	controller livestream.RoomController,
	logger *log.Logger,
) *Server {
	return &Server{
		Handler:    handler,
		controller: controller,
		logger:     logger,
	}
}

func (s *Server) Open(_ context.Context) error {
	s.logger.Info("Opening Signal Server")
	s.register()
	return nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing Signal Server")
	return nil
}

func (s *Server) register() {
	// sync handlers: the read loop waits for each event before the next one,
	// which keeps per-connection ordering
	s.Def(livestream.EventCreateRoom, bind(s, livestream.EventCreateRoom, s.controller.CreateRoom))
	s.Def(livestream.EventJoinRoom, bind(s, livestream.EventJoinRoom, s.controller.JoinRoom))
	s.Def(livestream.EventJoinRequest, bind(s, livestream.EventJoinRequest, s.controller.JoinRequest))
	s.Def(livestream.EventJoinRequestResponse, bind(s, livestream.EventJoinRequestResponse, s.controller.RespondJoinRequest))
	s.Def(livestream.EventJoinRoomDirect, bind(s, livestream.EventJoinRoomDirect, s.controller.JoinRoomDirect))
	s.Def(livestream.EventKickViewer, bind(s, livestream.EventKickViewer, s.controller.KickViewer))
	s.Def(livestream.EventEndStream, bind(s, livestream.EventEndStream, s.controller.EndStream))
	s.Def(livestream.EventChatMessage, bind(s, livestream.EventChatMessage, s.controller.ChatMessage))

	s.Def(livestream.EventWebRTCOffer, s.relay(livestream.EventWebRTCOffer, livestream.RelayKeyOffer))
	s.Def(livestream.EventWebRTCAnswer, s.relay(livestream.EventWebRTCAnswer, livestream.RelayKeyAnswer))
	s.Def(livestream.EventWebRTCICECandidate, s.relay(livestream.EventWebRTCICECandidate, livestream.RelayKeyCandidate))
}

// bind decodes and validates params into R before handing them to op.
func bind[R any](
	s *Server,
	event string,
	op func(ctx context.Context, connID string, req *R) error,
) jsonrpc.MethodHandler[peerContext] {
	attrs := metric.WithAttributes(attribute.String("event", event))

	return func(mctx jsonrpc.MethodContext[peerContext], params *json.RawMessage) (any, error) {
		pctx := mctx.Get()
		eventsReceived.Add(pctx.reqCtx, 1, attrs)

		req := new(R)
		if err := jsonrpc.ShouldBindParams(params, req); err != nil {
			eventsRejected.Add(pctx.reqCtx, 1, attrs)
			s.logger.Warn("Invalid event params",
				log.String("event", event),
				log.String("connId", pctx.connID),
				log.Error(err))
			return nil, err
		}

		if err := op(pctx.reqCtx, pctx.connID, req); err != nil {
			return nil, err
		}
		//nolint:nilnil
		return nil, nil
	}
}

func (s *Server) relay(event, key string) jsonrpc.MethodHandler[peerContext] {
	attrs := metric.WithAttributes(attribute.String("event", event))

	return func(mctx jsonrpc.MethodContext[peerContext], params *json.RawMessage) (any, error) {
		pctx := mctx.Get()
		eventsReceived.Add(pctx.reqCtx, 1, attrs)

		var data map[string]json.RawMessage
		var target string
		if params == nil ||
			json.Unmarshal(*params, &data) != nil ||
			json.Unmarshal(data["target"], &target) != nil ||
			target == "" {

			eventsRejected.Add(pctx.reqCtx, 1, attrs)
			s.logger.Warn("Invalid relay params",
				log.String("event", event),
				log.String("connId", pctx.connID))
			return nil, jsonrpc.ErrInvalidParams("target required")
		}

		if err := s.controller.Relay(pctx.reqCtx, pctx.connID, &livestream.RelayRequest{
			Event:   event,
			Key:     key,
			Target:  target,
			Payload: data[key],
		}); err != nil {
			return nil, err
		}
		//nolint:nilnil
		return nil, nil
	}
}
