package room

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/imtaco/live-signal/internal/errors"
	"github.com/imtaco/live-signal/internal/log"
	"github.com/imtaco/live-signal/livestream"
)

// Registry holds every live room. It is not goroutine-safe: all calls are
// expected from the room controller loop only.
type Registry struct {
	rooms map[string]*Room // roomId -> room
	// connId -> roomIds where the connection is creator or viewer
	connRooms  map[string]map[string]struct{}
	maxViewers int
	logger     *log.Logger
}

func NewRegistry(maxViewers int, logger *log.Logger) *Registry {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if maxViewers <= 0 {
		maxViewers = livestream.DefaultMaxViewers
	}
	return &Registry{
		rooms:      make(map[string]*Room),
		connRooms:  make(map[string]map[string]struct{}),
		maxViewers: maxViewers,
		logger:     logger,
	}
}

func (r *Registry) Len() int {
	return len(r.rooms)
}

func (r *Registry) Get(roomID string) (*Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// Create inserts a new live room owned by connID.
func (r *Registry) Create(roomID, connID string, info json.RawMessage, now time.Time) (*Room, error) {
	if _, ok := r.rooms[roomID]; ok {
		return nil, errors.Newf(ErrRoomExists, "room %s already exists", roomID)
	}

	room := &Room{
		ID:          roomID,
		CreatorConn: connID,
		CreatorInfo: info,
		Viewers:     make(map[string]*Viewer),
		CreatedAt:   now,
		IsLive:      true,
		MaxViewers:  r.maxViewers,
	}
	r.rooms[roomID] = room
	r.index(connID, roomID)

	return room, nil
}

// Live returns the room if it exists and is still live.
func (r *Registry) Live(roomID string) (*Room, error) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, errors.Newf(ErrRoomNotFound, "room %s not found", roomID)
	}
	if !room.IsLive {
		return nil, errors.Newf(ErrStreamEnded, "room %s has ended", roomID)
	}
	return room, nil
}

// Creator returns the room only when connID is its creator.
func (r *Registry) Creator(roomID, connID string) (*Room, error) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, errors.Newf(ErrRoomNotFound, "room %s not found", roomID)
	}
	if !room.IsCreator(connID) {
		return nil, errors.Newf(ErrForbidden, "connection %s does not own room %s", connID, roomID)
	}
	return room, nil
}

// Join adds connID as a viewer. The capacity check and the insertion happen
// in the same call. A viewer joining again only refreshes its record.
func (r *Registry) Join(roomID, connID string, info json.RawMessage, now time.Time) (*Room, error) {
	room, err := r.Live(roomID)
	if err != nil {
		return nil, err
	}
	if room.IsCreator(connID) {
		return room, errors.Newf(ErrForbidden, "creator cannot join own room %s", roomID)
	}
	if v, ok := room.Viewers[connID]; ok {
		v.Info = info
		v.JoinedAt = now
		return room, nil
	}
	if room.full() {
		return room, errors.Newf(ErrRoomFull, "room %s reached %d viewers", roomID, room.MaxViewers)
	}

	room.Viewers[connID] = &Viewer{
		Info:     info,
		JoinedAt: now,
	}
	r.index(connID, roomID)

	return room, nil
}

// Kick removes viewerID from a room owned by connID. removed is false when
// viewerID was not a viewer.
func (r *Registry) Kick(roomID, connID, viewerID string) (room *Room, removed bool, err error) {
	room, err = r.Creator(roomID, connID)
	if err != nil {
		return nil, false, err
	}
	if !room.HasViewer(viewerID) {
		return room, false, nil
	}
	delete(room.Viewers, viewerID)
	r.unindex(viewerID, roomID)
	return room, true, nil
}

// End removes a room owned by connID.
func (r *Registry) End(roomID, connID string) (*Room, error) {
	room, err := r.Creator(roomID, connID)
	if err != nil {
		return nil, err
	}
	r.remove(room)
	return room, nil
}

// Remove deletes a room regardless of who asks.
func (r *Registry) Remove(roomID string) (*Room, bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	r.remove(room)
	return room, true
}

// Leave applies a disconnect of connID to every room it belongs to. Rooms it
// created are removed, rooms it watched lose one viewer. Calling it again
// for the same connection returns nothing.
func (r *Registry) Leave(connID string) []Departure {
	roomIDs := r.Rooms(connID)
	if len(roomIDs) == 0 {
		return nil
	}

	departures := make([]Departure, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		room, ok := r.rooms[roomID]
		if !ok {
			r.logger.Warn("Stale connection index entry",
				log.String("connId", connID),
				log.String("roomId", roomID))
			continue
		}

		switch {
		case room.IsCreator(connID):
			r.remove(room)
			departures = append(departures, Departure{Room: room, AsCreator: true})
		case room.HasViewer(connID):
			delete(room.Viewers, connID)
			departures = append(departures, Departure{Room: room})
		}
	}
	delete(r.connRooms, connID)

	return departures
}

// Rooms lists, sorted, the rooms connID is creator or viewer of.
func (r *Registry) Rooms(connID string) []string {
	set := r.connRooms[connID]
	if len(set) == 0 {
		return nil
	}
	roomIDs := make([]string, 0, len(set))
	for roomID := range set {
		roomIDs = append(roomIDs, roomID)
	}
	sort.Strings(roomIDs)
	return roomIDs
}

func (r *Registry) remove(room *Room) {
	room.IsLive = false
	delete(r.rooms, room.ID)

	r.unindex(room.CreatorConn, room.ID)
	for viewerID := range room.Viewers {
		r.unindex(viewerID, room.ID)
	}
}

func (r *Registry) index(connID, roomID string) {
	set, ok := r.connRooms[connID]
	if !ok {
		set = make(map[string]struct{})
		r.connRooms[connID] = set
	}
	set[roomID] = struct{}{}
}

func (r *Registry) unindex(connID, roomID string) {
	set, ok := r.connRooms[connID]
	if !ok {
		return
	}
	delete(set, roomID)
	if len(set) == 0 {
		delete(r.connRooms, connID)
	}
}
