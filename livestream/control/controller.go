package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/log"
	intotel "github.com/imtaco/live-signal/internal/otel"
	"github.com/imtaco/live-signal/livestream"
	"github.com/imtaco/live-signal/livestream/room"
)

const (
	ErrStopped errors.Code = "controller_stopped"

	messageIDLen = 9
)

var _ livestream.RoomController = (*Controller)(nil)

// Controller serializes every room mutation through a single loop goroutine.
// Handlers block until their command has run, so events from one connection
// are applied in the order they arrived.
type Controller struct {
	cfg       *Config
	rooms     *room.Registry
	transport livestream.Transport
	clock     clockwork.Clock
	newID     func() string

	cmdCh     chan *command
	roomCount atomic.Int64
	cancel    context.CancelFunc
	done      chan struct{}
	logger    *log.Logger
}

type command struct {
	name   string
	action func(ctx context.Context) error
	done   chan error
}

func NewController(
	cfg *Config,
	transport livestream.Transport,
	logger *log.Logger,
) (*Controller, error) {
	return newControllerWithClock(cfg, transport, clockwork.NewRealClock(), newMessageID, logger)
}

func newControllerWithClock(
	cfg *Config,
	transport livestream.Transport,
	clock clockwork.Clock,
	newID func() string,
	logger *log.Logger,
) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Controller{
		cfg:       cfg,
		rooms:     room.NewRegistry(cfg.MaxViewers, logger.Module("Registry")),
		transport: transport,
		clock:     clock,
		newID:     newID,
		cmdCh:     make(chan *command, cfg.QueueSize),
		done:      make(chan struct{}),
		logger:    logger,
	}, nil
}

func newMessageID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:messageIDLen]
}

func (c *Controller) Start(ctx context.Context) error {
	c.logger.Info("Starting",
		log.Int("maxViewers", c.cfg.MaxViewers),
		log.String("duplicatePolicy", c.cfg.DuplicatePolicy))

	ctx, c.cancel = context.WithCancel(ctx)
	go c.loop(ctx)
	return nil
}

func (c *Controller) Stop() error {
	c.logger.Info("Closing")

	if c.cancel == nil {
		return nil
	}
	c.cancel()
	<-c.done
	return nil
}

func (c *Controller) RoomCount() int {
	return int(c.roomCount.Load())
}

func (c *Controller) loop(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.cmdCh:
			cmd.done <- c.run(ctx, cmd)
		}
	}
}

func (c *Controller) run(ctx context.Context, cmd *command) error {
	attrs := metric.WithAttributes(attribute.String("event", cmd.name))
	eventsProcessed.Add(ctx, 1, attrs)

	spanCtx, span := intotel.StartSpan(ctx, tracer, "room_ctrl."+cmd.name)
	defer span.End()

	start := c.clock.Now()
	err := cmd.action(spanCtx)
	eventDuration.Record(ctx, float64(c.clock.Since(start).Microseconds())/1000, attrs)

	if err != nil {
		intotel.RecordError(span, err)
		eventsFailed.Add(ctx, 1, attrs)
		c.logger.Error("Failed to process room event",
			log.String("event", cmd.name),
			log.Error(err))
	}
	return err
}

// submit queues action for the loop and waits until it has run.
func (c *Controller) submit(ctx context.Context, name string, action func(ctx context.Context) error) error {
	cmd := &command{
		name:   name,
		action: action,
		done:   make(chan error, 1),
	}

	select {
	case c.cmdCh <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return errors.New(ErrStopped, "room controller stopped")
	}

	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return errors.New(ErrStopped, "room controller stopped")
	}
}

func (c *Controller) CreateRoom(ctx context.Context, connID string, req *livestream.CreateRoomRequest) error {
	return c.submit(ctx, livestream.EventCreateRoom, func(ctx context.Context) error {
		if !c.stillConnected(connID, livestream.EventCreateRoom) {
			return nil
		}

		if old, ok := c.rooms.Get(req.RoomID); ok && c.cfg.DuplicatePolicy == DuplicateReplace {
			c.logger.Info("Replace existing room",
				log.String("roomId", old.ID),
				log.String("oldCreator", old.CreatorConn),
				log.String("newCreator", connID))
			c.rooms.Remove(old.ID)
			c.closeRoom(ctx, old, "replaced")
		}

		rm, err := c.rooms.Create(req.RoomID, connID, req.CreatorInfo, c.clock.Now())
		if err != nil {
			return c.reject(ctx, connID, req.RoomID, err)
		}
		c.transport.JoinGroup(connID, rm.ID)
		c.roomCount.Store(int64(c.rooms.Len()))
		roomsActive.Add(ctx, 1)
		roomsCreated.Add(ctx, 1)

		c.logger.Info("Room created",
			log.String("roomId", rm.ID),
			log.String("connId", connID),
			log.String("creator", displayName(rm.CreatorInfo)))

		c.send(ctx, connID, livestream.EventRoomCreated, &livestream.RoomCreated{
			RoomID:    rm.ID,
			IsCreator: true,
			ShareLink: c.shareLink(rm.ID),
		})
		return nil
	})
}

func (c *Controller) JoinRoom(ctx context.Context, connID string, req *livestream.JoinRoomRequest) error {
	return c.submit(ctx, livestream.EventJoinRoom, func(ctx context.Context) error {
		if !c.stillConnected(connID, livestream.EventJoinRoom) {
			return nil
		}

		rm, added, err := c.join(ctx, connID, req, "join")
		if err != nil {
			return c.reject(ctx, connID, req.RoomID, err)
		}

		total := rm.TotalViewers()
		c.logger.Info("Viewer joined",
			log.String("roomId", rm.ID),
			log.String("connId", connID),
			log.String("viewer", displayName(req.ViewerInfo)),
			log.Bool("rejoin", !added),
			log.Int("totalViewers", total))

		c.send(ctx, rm.CreatorConn, livestream.EventViewerJoined, &livestream.ViewerJoined{
			ViewerID:     connID,
			ViewerInfo:   req.ViewerInfo,
			TotalViewers: total,
		})
		c.send(ctx, connID, livestream.EventRoomJoined, &livestream.RoomJoined{
			RoomID:       rm.ID,
			CreatorInfo:  rm.CreatorInfo,
			IsCreator:    false,
			TotalViewers: total,
		})
		return nil
	})
}

func (c *Controller) JoinRequest(ctx context.Context, connID string, req *livestream.JoinRequestRequest) error {
	return c.submit(ctx, livestream.EventJoinRequest, func(ctx context.Context) error {
		rm, err := c.rooms.Live(req.RoomID)
		if err != nil {
			rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "not_found")))
			c.send(ctx, connID, livestream.EventRoomNotFound, &livestream.RoomNotice{RoomID: req.RoomID})
			return nil
		}

		c.logger.Info("Join request",
			log.String("roomId", rm.ID),
			log.String("requestId", connID),
			log.String("user", displayName(req.UserInfo)))

		c.send(ctx, rm.CreatorConn, livestream.EventJoinRequest, &livestream.JoinRequested{
			UserInfo:  req.UserInfo,
			RoomID:    rm.ID,
			RequestID: connID,
		})
		return nil
	})
}

func (c *Controller) RespondJoinRequest(ctx context.Context, connID string, req *livestream.JoinRequestResponseRequest) error {
	return c.submit(ctx, livestream.EventJoinRequestResponse, func(ctx context.Context) error {
		rm, err := c.rooms.Creator(req.RoomID, connID)
		if err != nil {
			c.ignore(livestream.EventJoinRequestResponse, connID, req.RoomID, err)
			return nil
		}
		if !c.transport.Alive(req.RequestID) {
			c.logger.Debug("Requester already gone",
				log.String("roomId", rm.ID),
				log.String("requestId", req.RequestID))
			return nil
		}

		c.logger.Info("Join request answered",
			log.String("roomId", rm.ID),
			log.String("requestId", req.RequestID),
			log.Bool("approved", req.Approved))

		c.send(ctx, req.RequestID, livestream.EventJoinRequestResponse, &livestream.JoinRequestAnswered{
			RoomID:   rm.ID,
			Approved: req.Approved,
		})
		if req.Approved {
			c.send(ctx, req.RequestID, livestream.EventJoinApproved, &livestream.RoomNotice{RoomID: rm.ID})
		}
		return nil
	})
}

func (c *Controller) JoinRoomDirect(ctx context.Context, connID string, req *livestream.JoinRoomRequest) error {
	return c.submit(ctx, livestream.EventJoinRoomDirect, func(ctx context.Context) error {
		if !c.stillConnected(connID, livestream.EventJoinRoomDirect) {
			return nil
		}

		rm, _, err := c.join(ctx, connID, req, "direct")
		switch {
		case err == nil:
		case errors.Is(err, room.ErrRoomFull):
			return c.reject(ctx, connID, req.RoomID, err)
		default:
			c.ignore(livestream.EventJoinRoomDirect, connID, req.RoomID, err)
			return nil
		}

		total := rm.TotalViewers()
		c.logger.Info("Viewer joined directly",
			log.String("roomId", rm.ID),
			log.String("connId", connID),
			log.Int("totalViewers", total))

		c.send(ctx, rm.CreatorConn, livestream.EventViewerJoined, &livestream.ViewerJoined{
			ViewerID:     connID,
			ViewerInfo:   req.ViewerInfo,
			TotalViewers: total,
		})
		c.transport.Broadcast(ctx, rm.ID, livestream.EventViewerCountUpdate, &livestream.ViewerCount{
			TotalViewers: total,
		})
		return nil
	})
}

func (c *Controller) KickViewer(ctx context.Context, connID string, req *livestream.KickViewerRequest) error {
	return c.submit(ctx, livestream.EventKickViewer, func(ctx context.Context) error {
		rm, err := c.rooms.Creator(req.RoomID, connID)
		if err != nil {
			c.ignore(livestream.EventKickViewer, connID, req.RoomID, err)
			return nil
		}
		if rm.IsCreator(req.ViewerID) {
			c.logger.Debug("Creator cannot kick itself", log.String("roomId", rm.ID))
			return nil
		}

		_, removed, err := c.rooms.Kick(rm.ID, connID, req.ViewerID)
		if err != nil {
			return err
		}
		if removed {
			c.transport.LeaveGroup(req.ViewerID, rm.ID)
			viewersActive.Add(ctx, -1)
		}

		c.logger.Info("Viewer kicked",
			log.String("roomId", rm.ID),
			log.String("viewerId", req.ViewerID),
			log.Bool("removed", removed))

		c.send(ctx, req.ViewerID, livestream.EventKickedFromRoom, &livestream.RoomNotice{RoomID: rm.ID})
		c.send(ctx, connID, livestream.EventViewerKicked, &livestream.ViewerKicked{ViewerID: req.ViewerID})
		return nil
	})
}

func (c *Controller) EndStream(ctx context.Context, connID string, req *livestream.EndStreamRequest) error {
	return c.submit(ctx, livestream.EventEndStream, func(ctx context.Context) error {
		rm, err := c.rooms.End(req.RoomID, connID)
		if err != nil {
			c.ignore(livestream.EventEndStream, connID, req.RoomID, err)
			return nil
		}

		c.logger.Info("Stream ended",
			log.String("roomId", rm.ID),
			log.Int("totalViewers", rm.TotalViewers()))

		c.closeRoom(ctx, rm, "ended")
		return nil
	})
}

func (c *Controller) ChatMessage(ctx context.Context, connID string, req *livestream.ChatMessageRequest) error {
	return c.submit(ctx, livestream.EventChatMessage, func(ctx context.Context) error {
		c.logger.Debug("Chat message",
			log.String("roomId", req.RoomID),
			log.String("connId", connID))

		chatMessages.Add(ctx, 1)
		c.transport.Broadcast(ctx, req.RoomID, livestream.EventChatMessage, &livestream.ChatPosted{
			Message:    req.Message,
			SenderInfo: req.SenderInfo,
			Timestamp:  c.clock.Now().UnixMilli(),
			ID:         c.newID(),
		})
		return nil
	})
}

// Relay forwards a negotiation message straight to its target. It touches no
// room state and does not go through the loop.
func (c *Controller) Relay(ctx context.Context, connID string, req *livestream.RelayRequest) error {
	attrs := metric.WithAttributes(attribute.String("event", req.Event))

	payload := map[string]any{
		req.Key:  req.Payload,
		"sender": connID,
	}
	if err := c.transport.Send(ctx, req.Target, req.Event, payload); err != nil {
		relaysDropped.Add(ctx, 1, attrs)
		c.logger.Debug("Drop relay to unknown target",
			log.String("event", req.Event),
			log.String("sender", connID),
			log.String("target", req.Target),
			log.Error(err))
		return nil
	}
	relaysSent.Add(ctx, 1, attrs)
	return nil
}

// Disconnect removes connID from every room it belongs to. Rooms it created
// end exactly as if their creator had sent end-stream.
func (c *Controller) Disconnect(ctx context.Context, connID string) error {
	return c.submit(ctx, "disconnect", func(ctx context.Context) error {
		departures := c.rooms.Leave(connID)

		for _, dep := range departures {
			rm := dep.Room
			if dep.AsCreator {
				c.logger.Info("Creator left, ending room",
					log.String("roomId", rm.ID),
					log.String("connId", connID))
				c.closeRoom(ctx, rm, "creator_left")
				continue
			}

			total := rm.TotalViewers()
			viewersActive.Add(ctx, -1)
			c.logger.Info("Viewer left",
				log.String("roomId", rm.ID),
				log.String("connId", connID),
				log.Int("totalViewers", total))

			c.send(ctx, rm.CreatorConn, livestream.EventViewerLeft, &livestream.ViewerLeft{
				ViewerID:     connID,
				TotalViewers: total,
			})
		}
		return nil
	})
}

func (c *Controller) join(
	ctx context.Context,
	connID string,
	req *livestream.JoinRoomRequest,
	path string,
) (*room.Room, bool, error) {
	existing, _ := c.rooms.Get(req.RoomID)
	wasViewer := existing != nil && existing.HasViewer(connID)

	rm, err := c.rooms.Join(req.RoomID, connID, req.ViewerInfo, c.clock.Now())
	if err != nil {
		return nil, false, err
	}
	if wasViewer {
		return rm, false, nil
	}

	c.transport.JoinGroup(connID, rm.ID)
	viewersActive.Add(ctx, 1)
	viewersJoined.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
	return rm, true, nil
}

// closeRoom notifies a room that has just been removed from the registry.
// The broadcast group is owned by the transport, so every member still
// receives stream-ended before the group is dropped.
func (c *Controller) closeRoom(ctx context.Context, rm *room.Room, reason string) {
	c.transport.Broadcast(ctx, rm.ID, livestream.EventStreamEnded, &livestream.RoomNotice{RoomID: rm.ID})
	c.transport.DropGroup(rm.ID)

	c.roomCount.Store(int64(c.rooms.Len()))
	roomsActive.Add(ctx, -1)
	roomsEnded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	viewersActive.Add(ctx, -int64(rm.TotalViewers()))
}

// reject answers connID with the event matching err. Errors without a
// matching event are returned unchanged.
func (c *Controller) reject(ctx context.Context, connID, roomID string, err error) error {
	var event, reason string
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		event, reason = livestream.EventRoomNotFound, "not_found"
	case errors.Is(err, room.ErrStreamEnded):
		event, reason = livestream.EventStreamEnded, "ended"
	case errors.Is(err, room.ErrRoomFull):
		event, reason = livestream.EventRoomFull, "full"
	case errors.Is(err, room.ErrRoomExists):
		event, reason = livestream.EventRoomExists, "exists"
	case errors.Is(err, room.ErrForbidden):
		c.logger.Debug("Ignore forbidden operation",
			log.String("connId", connID),
			log.String("roomId", roomID),
			log.Error(err))
		return nil
	default:
		return err
	}

	rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	c.logger.Debug("Reject room operation",
		log.String("connId", connID),
		log.String("roomId", roomID),
		log.String("reason", reason))

	c.send(ctx, connID, event, &livestream.RoomNotice{RoomID: roomID})
	return nil
}

func (c *Controller) ignore(event, connID, roomID string, err error) {
	code, _ := errors.CodeOf(err)
	c.logger.Debug("Ignore room operation",
		log.String("event", event),
		log.String("connId", connID),
		log.String("roomId", roomID),
		log.String("reason", string(code)))
}

// stillConnected reports false when connID disconnected while its command
// was queued, so no state is created for a connection that is already gone.
func (c *Controller) stillConnected(connID, event string) bool {
	if c.transport.Alive(connID) {
		return true
	}
	c.logger.Debug("Drop event from stale connection",
		log.String("event", event),
		log.String("connId", connID))
	return false
}

func (c *Controller) send(ctx context.Context, connID, event string, payload any) {
	if err := c.transport.Send(ctx, connID, event, payload); err != nil {
		c.logger.Debug("Drop event for unreachable connection",
			log.String("event", event),
			log.String("connId", connID),
			log.Error(err))
	}
}

func (c *Controller) shareLink(roomID string) string {
	return fmt.Sprintf("%s/live/%s", strings.TrimRight(c.cfg.ShareLinkBase, "/"), url.PathEscape(roomID))
}

// displayName extracts a "name" field for logging only.
func displayName(info json.RawMessage) string {
	var v struct {
		Name string `json:"name"`
	}
	if len(info) == 0 || json.Unmarshal(info, &v) != nil {
		return ""
	}
	return v.Name
}
