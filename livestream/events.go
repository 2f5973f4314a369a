package livestream

import "encoding/json"

// Inbound event names.
const (
	EventCreateRoom          = "create-room"
	EventJoinRoom            = "join-room"
	EventWebRTCOffer         = "webrtc-offer"
	EventWebRTCAnswer        = "webrtc-answer"
	EventWebRTCICECandidate  = "webrtc-ice-candidate"
	EventChatMessage         = "chat-message"
	EventKickViewer          = "kick-viewer"
	EventJoinRequest         = "join-request"
	EventJoinRequestResponse = "join-request-response"
	EventJoinRoomDirect      = "join-room-direct"
	EventEndStream           = "end-stream"
)

// Outbound event names. The relay and chat events reuse the inbound names.
const (
	EventRoomCreated       = "room-created"
	EventRoomExists        = "room-exists"
	EventRoomNotFound      = "room-not-found"
	EventStreamEnded       = "stream-ended"
	EventRoomFull          = "room-full"
	EventRoomJoined        = "room-joined"
	EventViewerJoined      = "viewer-joined"
	EventViewerKicked      = "viewer-kicked"
	EventKickedFromRoom    = "kicked-from-room"
	EventJoinApproved      = "join-approved"
	EventViewerCountUpdate = "viewer-count-update"
	EventViewerLeft        = "viewer-left"
)

// Payload keys of the negotiation relay events.
const (
	RelayKeyOffer     = "offer"
	RelayKeyAnswer    = "answer"
	RelayKeyCandidate = "candidate"
)

type RoomCreated struct {
	RoomID    string `json:"roomId"`
	IsCreator bool   `json:"isCreator"`
	ShareLink string `json:"shareLink"`
}

// RoomNotice is the body of room-not-found, room-full, room-exists and stream-ended.
type RoomNotice struct {
	RoomID string `json:"roomId"`
}

type RoomJoined struct {
	RoomID       string          `json:"roomId"`
	CreatorInfo  json.RawMessage `json:"creatorInfo"`
	IsCreator    bool            `json:"isCreator"`
	TotalViewers int             `json:"totalViewers"`
}

type ViewerJoined struct {
	ViewerID     string          `json:"viewerId"`
	ViewerInfo   json.RawMessage `json:"viewerInfo"`
	TotalViewers int             `json:"totalViewers"`
}

type ViewerLeft struct {
	ViewerID     string `json:"viewerId"`
	TotalViewers int    `json:"totalViewers"`
}

type ViewerKicked struct {
	ViewerID string `json:"viewerId"`
}

type ViewerCount struct {
	TotalViewers int `json:"totalViewers"`
}

type JoinRequested struct {
	UserInfo  json.RawMessage `json:"userInfo"`
	RoomID    string          `json:"roomId"`
	RequestID string          `json:"requestId"`
}

type JoinRequestAnswered struct {
	RoomID   string `json:"roomId"`
	Approved bool   `json:"approved"`
}

type ChatPosted struct {
	Message    json.RawMessage `json:"message"`
	SenderInfo json.RawMessage `json:"senderInfo"`
	Timestamp  int64           `json:"timestamp"`
	ID         string          `json:"id"`
}
