package auth

import (
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-with-enough-length")

func TestValidateToken(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken(secret, "alice", "Alice", []string{"user"}, time.Hour)
	req.NoError(err)
	claims, err := ValidateToken(secret, token)
	req.NoError(err)
	req.Equal("alice", claims.UserID)
	req.Equal("Alice", claims.Name)

	_, err = ValidateToken([]byte("another-secret"), token)
	req.ErrorIs(err, apperrors.ErrInvalidToken)

	expired, err := GenerateToken(secret, "alice", "Alice", nil, -time.Minute)
	req.NoError(err)
	_, err = ValidateToken(secret, expired)
	req.ErrorIs(err, apperrors.ErrInvalidToken)

	_, err = ValidateToken(secret, "invalid-token-string")
	req.ErrorIs(err, apperrors.ErrInvalidToken)
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(Identity(logs.GetLoggerFromLevel(slog.LevelDebug), secret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		profile, ok := ProfileFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(profile)
	})
	return app
}

func TestIdentity(t *testing.T) {
	token, err := GenerateToken(secret, "alice", "Alice", nil, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
		query   string
		status  int
		userID  string
	}{
		{"bearer token", map[string]string{"Authorization": "Bearer " + token}, "", fiber.StatusOK, "alice"},
		{"query token", nil, "?access_token=" + token, fiber.StatusOK, "alice"},
		{"gateway headers", map[string]string{HeaderUserID: "bob", HeaderUserName: "Bob"}, "", fiber.StatusOK, "bob"},
		{"invalid token", map[string]string{"Authorization": "Bearer nope"}, "", fiber.StatusUnauthorized, ""},
		{"anonymous", nil, "", fiber.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			r := httptest.NewRequest("GET", "/whoami"+tt.query, nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			resp, err := newApp().Test(r)

			req.NoError(err)
			req.Equal(tt.status, resp.StatusCode)
			if tt.userID == "" {
				return
			}
			body, err := io.ReadAll(resp.Body)
			req.NoError(err)
			var profile domain.Profile
			req.NoError(json.Unmarshal(body, &profile))
			req.Equal(tt.userID, profile.UserID)
		})
	}
}
