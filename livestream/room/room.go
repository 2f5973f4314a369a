package room

import (
	"encoding/json"
	"time"

	"github.com/imtaco/live-signal/internal/errors"
)

const (
	ErrRoomNotFound errors.Code = "room_not_found"
	ErrRoomExists   errors.Code = "room_exists"
	ErrStreamEnded  errors.Code = "stream_ended"
	ErrRoomFull     errors.Code = "room_full"
	ErrForbidden    errors.Code = "forbidden"
)

type Viewer struct {
	Info     json.RawMessage
	JoinedAt time.Time
}

type Room struct {
	ID          string
	CreatorConn string
	CreatorInfo json.RawMessage
	Viewers     map[string]*Viewer // connId -> viewer
	CreatedAt   time.Time
	IsLive      bool
	MaxViewers  int
}

func (r *Room) IsCreator(connID string) bool {
	return r != nil && r.CreatorConn == connID
}

func (r *Room) TotalViewers() int {
	return len(r.Viewers)
}

func (r *Room) HasViewer(connID string) bool {
	_, ok := r.Viewers[connID]
	return ok
}

func (r *Room) full() bool {
	return len(r.Viewers) >= r.MaxViewers
}

// Departure describes what a disconnect did to one room.
type Departure struct {
	Room *Room
	// AsCreator means the room has been removed from the registry.
	AsCreator bool
}
