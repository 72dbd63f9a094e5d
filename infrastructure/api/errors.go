package api

import (
	apperrors "chat-hub/errors"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorStatus maps a service error to its HTTP status and public code.
func errorStatus(err error) (int, string) {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, "http_error"
	case errors.Is(err, apperrors.ErrRoomNotFound),
		errors.Is(err, apperrors.ErrMessageNotFound),
		errors.Is(err, apperrors.ErrMembershipNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrMissingIdentity),
		errors.Is(err, apperrors.ErrInvalidRequest),
		errors.Is(err, apperrors.ErrInvalidRoomKey),
		errors.Is(err, apperrors.ErrReplyTargetMissing):
		return fiber.StatusBadRequest, "bad_request"
	case errors.Is(err, apperrors.ErrNotMessageOwner):
		return fiber.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrInvalidToken):
		return fiber.StatusUnauthorized, "unauthorized"
	}
	return fiber.StatusInternalServerError, "internal_error"
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		s.log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		message = "internal server error"
	}
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: message})
}
