// Package domain contains core concepts of the chat hub.
// This file defines Message entities and related rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	TextMessage     MessageType = "text"
	ImageMessage    MessageType = "image"
	FileMessage     MessageType = "file"
	LocationMessage MessageType = "location"
	VoiceMessage    MessageType = "voice"
	VideoMessage    MessageType = "video"
	SystemMessage   MessageType = "system"
)

// ReplyPreviewLength is the number of runes of a replied message kept in the preview.
const ReplyPreviewLength = 100

func (t MessageType) Valid() bool {
	switch t {
	case TextMessage, ImageMessage, FileMessage, LocationMessage, VoiceMessage, VideoMessage, SystemMessage:
		return true
	}
	return false
}

type Attachment struct {
	URL          string   `json:"url"`
	FileName     string   `json:"fileName,omitempty"`
	FileSize     *int64   `json:"fileSize,omitempty"`
	MimeType     string   `json:"mimeType,omitempty"`
	Extension    string   `json:"extension,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	LocationName string   `json:"locationName,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
	Width        *int     `json:"width,omitempty"`
	Height       *int     `json:"height,omitempty"`
}

type ReplyPreview struct {
	MessageID  uuid.UUID `json:"messageId"`
	Body       string    `json:"body"`
	AuthorName string    `json:"authorName"`
}

// Message is owned by its author; DeletedAt marks a soft delete.
type Message struct {
	ID           uuid.UUID     `json:"id"`
	RoomID       string        `json:"roomId"`
	AuthorID     string        `json:"authorId"`
	AuthorName   string        `json:"authorName"`
	AuthorAvatar string        `json:"authorAvatar,omitempty"`
	Body         string        `json:"body"`
	Type         MessageType   `json:"type"`
	ReplyToID    *uuid.UUID    `json:"replyToId,omitempty"`
	ReplyTo      *ReplyPreview `json:"replyTo,omitempty"`
	Mentions     []string      `json:"mentions"`
	Attachment   *Attachment   `json:"attachment,omitempty"`
	Language     string        `json:"language,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	DeletedAt    *time.Time    `json:"deletedAt,omitempty"`
}

func (m Message) IsDeleted() bool {
	return m.DeletedAt != nil
}

// Preview truncates the body for a reply quote.
func (m Message) Preview() ReplyPreview {
	body := []rune(m.Body)
	text := m.Body
	if len(body) > ReplyPreviewLength {
		text = string(body[:ReplyPreviewLength]) + "..."
	}
	return ReplyPreview{MessageID: m.ID, Body: text, AuthorName: m.AuthorName}
}
