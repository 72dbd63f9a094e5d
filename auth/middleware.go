// Package auth resolves the identity the upstream gateway attached to a request.
package auth

import (
	"chat-hub/domain"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	IdentityKey    = "identity"
)

// Identity stores the caller profile in the request locals, when one can be resolved:
//  1. a Bearer token signed with secret, or the access_token query parameter
//  2. the gateway headers
//
// A request without identity goes through; handlers needing one fall back to
// body fields and reject the call otherwise. An invalid token is a 401.
func Identity(log *slog.Logger, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		// Browsers cannot set headers on a websocket upgrade
		if token := c.Query("access_token"); header == "" && token != "" {
			header = "Bearer " + token
		}
		if strings.HasPrefix(header, "Bearer ") && len(secret) > 0 {
			claims, err := ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Debug("Token rejected", "path", c.Path(), "error", err)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": err.Error()})
			}
			c.Locals(IdentityKey, domain.Profile{UserID: claims.UserID, DisplayName: claims.Name, AvatarURL: claims.AvatarURL})
			return c.Next()
		}
		if userID := strings.TrimSpace(c.Get(HeaderUserID)); userID != "" {
			c.Locals(IdentityKey, domain.Profile{UserID: userID, DisplayName: c.Get(HeaderUserName)})
		}
		return c.Next()
	}
}

// ProfileFrom returns the identity resolved by Identity.
func ProfileFrom(c *fiber.Ctx) (domain.Profile, bool) {
	return ProfileOf(c.Locals(IdentityKey))
}

// ProfileOf reads an identity out of a locals value, as websocket connections expose them.
func ProfileOf(local interface{}) (domain.Profile, bool) {
	profile, ok := local.(domain.Profile)
	return profile, ok && profile.UserID != ""
}
