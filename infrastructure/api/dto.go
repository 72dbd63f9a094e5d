package api

import (
	"chat-hub/auth"
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IdentityFields are the body fallbacks used when the session carries no identity.
type IdentityFields struct {
	UserID      string `json:"userId" validate:"omitempty,max=128"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url"`
}

type ProfileDTO struct {
	UserID      string `json:"userId" validate:"required,max=128"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url"`
}

func (p ProfileDTO) toDomain() domain.Profile {
	return domain.Profile{UserID: p.UserID, DisplayName: strings.TrimSpace(p.DisplayName), AvatarURL: p.AvatarURL}
}

type EventRoomRequest struct {
	LinkedEventID string      `json:"linkedEventId" validate:"required,uuid"`
	Title         string      `json:"title" validate:"omitempty,max=200"`
	EventType     string      `json:"eventType" validate:"omitempty,max=50"`
	Organizer     *ProfileDTO `json:"organizer"`
}

type CreateRoomRequest struct {
	IdentityFields
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

type DirectRoomRequest struct {
	IdentityFields
	Other ProfileDTO `json:"other"`
}

type MembershipRequest struct {
	IdentityFields
}

type AttachmentDTO struct {
	URL          string   `json:"url" validate:"omitempty,url"`
	FileName     string   `json:"fileName" validate:"omitempty,max=255"`
	FileSize     *int64   `json:"fileSize" validate:"omitempty,min=0"`
	MimeType     string   `json:"mimeType" validate:"omitempty,max=100"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
	LocationName string   `json:"locationName" validate:"omitempty,max=200"`
	Duration     *int     `json:"duration" validate:"omitempty,min=0"`
	Width        *int     `json:"width" validate:"omitempty,min=0"`
	Height       *int     `json:"height" validate:"omitempty,min=0"`
}

func (a *AttachmentDTO) toDomain() *domain.Attachment {
	if a == nil {
		return nil
	}
	return &domain.Attachment{
		URL:          a.URL,
		FileName:     a.FileName,
		FileSize:     a.FileSize,
		MimeType:     a.MimeType,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		LocationName: a.LocationName,
		Duration:     a.Duration,
		Width:        a.Width,
		Height:       a.Height,
	}
}

type PostMessageRequest struct {
	IdentityFields
	Body       string         `json:"body"`
	Type       string         `json:"type" validate:"omitempty,oneof=text image file location voice video system"`
	ReplyToID  *string        `json:"replyToId" validate:"omitempty,uuid"`
	Mentions   []string       `json:"mentions" validate:"omitempty,max=50,dive,required,max=128"`
	Attachment *AttachmentDTO `json:"attachment"`
}

// replyTo parses the reply id, already validated as a uuid.
func (r PostMessageRequest) replyTo() *uuid.UUID {
	if r.ReplyToID == nil {
		return nil
	}
	id, err := uuid.Parse(*r.ReplyToID)
	if err != nil {
		return nil
	}
	return &id
}

// bind decodes and validates a JSON body.
func (s *Server) bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
		}
	}
	if err := s.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}
	return nil
}

// caller resolves the acting profile: the session identity first, then the body fields.
func caller(c *fiber.Ctx, fields IdentityFields) (domain.Profile, error) {
	if profile, ok := auth.ProfileFrom(c); ok {
		if profile.DisplayName == "" {
			profile.DisplayName = strings.TrimSpace(fields.DisplayName)
		}
		if profile.AvatarURL == "" {
			profile.AvatarURL = fields.AvatarURL
		}
		return profile, nil
	}
	userID := strings.TrimSpace(fields.UserID)
	if userID == "" {
		return domain.Profile{}, apperrors.ErrMissingIdentity
	}
	return domain.Profile{UserID: userID, DisplayName: strings.TrimSpace(fields.DisplayName), AvatarURL: fields.AvatarURL}, nil
}

func pageOf(c *fiber.Ctx, defaultSize int) domain.Page {
	return domain.NewPage(c.QueryInt("page", 1), c.QueryInt("pageSize", defaultSize), defaultSize)
}

type ListResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func list[T any](items []T, page domain.Page) ListResponse[T] {
	return ListResponse[T]{Items: lo.Ternary(items == nil, []T{}, items), Page: page.Number, PageSize: page.Size}
}
