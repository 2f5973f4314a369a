//go:generate mockgen -source=types.go -destination=mocks/mock_types.go -package=mocks

package livestream

import (
	"context"
)

const (
	// DefaultMaxViewers is the capacity ceiling applied to rooms when none is configured.
	DefaultMaxViewers = 1000
)

// Transport is the connection layer the room controller sends through.
// Connection ids are the ones allocated by the transport on connect and are
// never reused while a room references them.
type Transport interface {
	// Send delivers one event to a single live connection.
	Send(ctx context.Context, connID, event string, payload any) error
	// Broadcast delivers one event to every member of a group.
	Broadcast(ctx context.Context, group, event string, payload any)
	// JoinGroup adds a live connection to a group, false if the connection is gone.
	JoinGroup(connID, group string) bool
	LeaveGroup(connID, group string)
	// DropGroup removes the group and all its memberships.
	DropGroup(group string)
	// Alive reports whether connID still names a live connection.
	Alive(connID string) bool
}

// RoomController handles inbound client events. Every call returns once the
// event has been fully applied.
type RoomController interface {
	CreateRoom(ctx context.Context, connID string, req *CreateRoomRequest) error
	JoinRoom(ctx context.Context, connID string, req *JoinRoomRequest) error
	JoinRequest(ctx context.Context, connID string, req *JoinRequestRequest) error
	RespondJoinRequest(ctx context.Context, connID string, req *JoinRequestResponseRequest) error
	JoinRoomDirect(ctx context.Context, connID string, req *JoinRoomRequest) error
	KickViewer(ctx context.Context, connID string, req *KickViewerRequest) error
	EndStream(ctx context.Context, connID string, req *EndStreamRequest) error
	ChatMessage(ctx context.Context, connID string, req *ChatMessageRequest) error
	Relay(ctx context.Context, connID string, req *RelayRequest) error
	Disconnect(ctx context.Context, connID string) error
	RoomCount() int
}
