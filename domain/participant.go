// Package domain contains core concepts of the chat hub.
// This file defines Membership entities and related invariants.
package domain

import "time"

type Role string

const (
	OwnerRole  Role = "owner"
	MemberRole Role = "member"
)

// Membership is the durable fact that a user belongs to a room.
// It is independent of the user's live connections.
type Membership struct {
	RoomID      string    `json:"roomId"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// Merge applies a re-join on top of an existing membership.
// The join date is kept and an owner is never downgraded.
func (m Membership) Merge(next Membership) Membership {
	merged := m
	if next.DisplayName != "" {
		merged.DisplayName = next.DisplayName
	}
	if next.AvatarURL != "" {
		merged.AvatarURL = next.AvatarURL
	}
	if next.Role == OwnerRole {
		merged.Role = OwnerRole
	}
	if next.LastSeenAt.After(merged.LastSeenAt) {
		merged.LastSeenAt = next.LastSeenAt
	}
	return merged
}

// Profile identifies a user acting on a room.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type MemberView struct {
	UserID      string     `json:"userId"`
	DisplayName string     `json:"displayName"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	Role        Role       `json:"role"`
	IsOnline    bool       `json:"isOnline"`
	LastSeenAt  *time.Time `json:"lastSeenAt,omitempty"`
}
