package livestream

import "encoding/json"

// Info fields are opaque client metadata and are relayed untouched.

type CreateRoomRequest struct {
	RoomID      string          `json:"roomId" validate:"required"`
	CreatorInfo json.RawMessage `json:"creatorInfo"`
}

// JoinRoomRequest is used by both join-room and join-room-direct.
type JoinRoomRequest struct {
	RoomID     string          `json:"roomId" validate:"required"`
	ViewerInfo json.RawMessage `json:"viewerInfo"`
}

type JoinRequestRequest struct {
	RoomID   string          `json:"roomId" validate:"required"`
	UserInfo json.RawMessage `json:"userInfo"`
}

type JoinRequestResponseRequest struct {
	RoomID    string `json:"roomId" validate:"required"`
	RequestID string `json:"requestId" validate:"required"`
	Approved  bool   `json:"approved"`
}

type KickViewerRequest struct {
	RoomID   string `json:"roomId" validate:"required"`
	ViewerID string `json:"viewerId" validate:"required"`
}

type EndStreamRequest struct {
	RoomID string `json:"roomId" validate:"required"`
}

type ChatMessageRequest struct {
	RoomID     string          `json:"roomId" validate:"required"`
	Message    json.RawMessage `json:"message"`
	SenderInfo json.RawMessage `json:"senderInfo"`
}

// RelayRequest forwards one negotiation payload. Event is the inbound event
// name, Key the payload field it travels under (offer, answer or candidate).
type RelayRequest struct {
	Event   string
	Key     string
	Target  string
	Payload json.RawMessage
}
