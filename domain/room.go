// Package domain contains core concepts of the chat hub.
// This file defines Room entities and the virtual room key rules.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RoomKind string

const (
	PublicRoom RoomKind = "public"
	EventRoom  RoomKind = "event"
	DirectRoom RoomKind = "direct"
)

const (
	// EventRoomPrefix marks a virtual key that resolves to the room linked to an event.
	EventRoomPrefix  = "meetup_"
	DirectRoomPrefix = "direct_"

	DefaultEventRoomTitle = "Event Chat"
)

type Room struct {
	ID            string    `json:"id"`
	Kind          RoomKind  `json:"kind"`
	LinkedEventID string    `json:"linkedEventId,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	IsPublic      bool      `json:"isPublic"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RoomView is a Room enriched with counters for listings.
type RoomView struct {
	Room
	TotalMembers int `json:"totalMembers"`
	OnlineUsers  int `json:"onlineUsers"`
}

// RoomKey is the parsed form of an externally visible room identifier.
type RoomKey struct {
	Raw           string
	LinkedEventID string
}

// IsVirtual reports whether the key designates an event-linked room by event id.
func (k RoomKey) IsVirtual() bool {
	return k.LinkedEventID != ""
}

// ParseRoomKey parses either a canonical room id or a virtual event key ("meetup_{eventId}").
// The prefix only makes a virtual key when the rest is a UUID; anything else is looked up
// as a canonical id.
func ParseRoomKey(raw string) (RoomKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RoomKey{}, fmt.Errorf("empty room key")
	}
	if !strings.HasPrefix(raw, EventRoomPrefix) {
		return RoomKey{Raw: raw}, nil
	}
	eventID, ok := NormalizeEventID(strings.TrimPrefix(raw, EventRoomPrefix))
	if !ok {
		return RoomKey{Raw: raw}, nil
	}
	return RoomKey{Raw: raw, LinkedEventID: eventID}, nil
}

// NormalizeEventID returns the canonical lowercase form of an event UUID.
func NormalizeEventID(raw string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// VirtualRoomKey builds the externally visible key of an event-linked room.
func VirtualRoomKey(eventID string) string {
	return EventRoomPrefix + eventID
}

// DirectRoomID is deterministic so both participants resolve to the same room.
func DirectRoomID(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return DirectRoomPrefix + ids[0] + "_" + ids[1]
}

// NewEventRoom builds the room linked to an event, before it is persisted.
func NewEventRoom(id, eventID, title, eventType, createdBy string, at time.Time) Room {
	if strings.TrimSpace(title) == "" {
		title = DefaultEventRoomTitle
	}
	description := "Event Chat"
	if eventType != "" {
		description = fmt.Sprintf("%s Event Chat", eventType)
	}
	return Room{
		ID:            id,
		Kind:          EventRoom,
		LinkedEventID: eventID,
		Title:         title,
		Description:   description,
		CreatedBy:     createdBy,
		IsPublic:      false,
		CreatedAt:     at,
	}
}

// Live group names. A room group is named after the room id itself.
func UserGroup(userID string) string           { return "user-" + userID }
func CityGroup(cityID string) string           { return "city-" + cityID }
func CoworkingGroup(coworkingID string) string { return "coworking-" + coworkingID }
