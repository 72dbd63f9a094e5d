package api

import (
	"chat-hub/auth"
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"chat-hub/services"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultSearchLimit = 20

// getMessages handles GET /rooms/:roomId/messages, newest first.
func (s *Server) getMessages(c *fiber.Ctx) error {
	page := pageOf(c, domain.DefaultMessagePage)
	messages, err := s.messages.GetMessages(c.UserContext(), c.Params("roomId"), page)
	if err != nil {
		return err
	}
	return c.JSON(list(messages, page))
}

func (s *Server) postMessage(c *fiber.Ctx) error {
	var body PostMessageRequest
	if err := s.bind(c, &body); err != nil {
		return err
	}
	author, err := caller(c, body.IdentityFields)
	if err != nil {
		return err
	}
	message, err := s.messages.PostMessage(c.UserContext(), services.PostMessageRequest{
		RoomKey:    c.Params("roomId"),
		Author:     author,
		Body:       body.Body,
		Type:       domain.MessageType(body.Type),
		ReplyToID:  body.replyTo(),
		Mentions:   body.Mentions,
		Attachment: body.Attachment.toDomain(),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// deleteMessage handles DELETE /rooms/:roomId/messages/:messageId?userId=.
func (s *Server) deleteMessage(c *fiber.Ctx) error {
	messageID, err := uuid.Parse(c.Params("messageId"))
	if err != nil {
		return fmt.Errorf("%w: message id %q", apperrors.ErrInvalidRequest, c.Params("messageId"))
	}
	userID := strings.TrimSpace(c.Query("userId"))
	if profile, ok := auth.ProfileFrom(c); ok {
		userID = profile.UserID
	}
	if err = s.messages.DeleteMessage(c.UserContext(), c.Params("roomId"), messageID, userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) searchMessages(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fmt.Errorf("%w: q is required", apperrors.ErrInvalidRequest)
	}
	limit := c.QueryInt("limit", defaultSearchLimit)
	if limit < 1 || limit > domain.MaxPageSize {
		limit = defaultSearchLimit
	}
	result, err := s.messages.SearchMessages(c.UserContext(), c.Params("roomId"), query, limit)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
