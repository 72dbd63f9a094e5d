package domain

import "time"

type PresenceEventType string

const (
	PresenceJoined       PresenceEventType = "joined"
	PresenceLeft         PresenceEventType = "left"
	PresenceDisconnected PresenceEventType = "disconnected"
)

func (t PresenceEventType) Valid() bool {
	switch t {
	case PresenceJoined, PresenceLeft, PresenceDisconnected:
		return true
	}
	return false
}

// OnlineUser is one entry of a room presence snapshot.
type OnlineUser struct {
	UserID      string    `json:"userId"`
	Connections int       `json:"connections"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// PresenceDelta is multicast to a room every time its presence changes.
type PresenceDelta struct {
	RoomID      string            `json:"roomId"`
	UserID      string            `json:"userId"`
	EventType   PresenceEventType `json:"eventType"`
	OnlineCount int               `json:"onlineCount"`
	OnlineUsers []OnlineUser      `json:"onlineUsers"`
	Timestamp   time.Time         `json:"timestamp"`
}

// PresenceRelease is the presence an expired instance held in a room, now given back.
type PresenceRelease struct {
	RoomID    string
	UserID    string
	Released  int
	Remaining int
}
