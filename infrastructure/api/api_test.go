package api

import (
	"bytes"
	"chat-hub/auth"
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"chat-hub/moderation"
	"chat-hub/observability"
	"chat-hub/presence"
	"chat-hub/repositories"
	"chat-hub/runtime"
	"chat-hub/services"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	basePath = "/api/v1/chats"
	secret   = "test-secret"
)

func newTestServer(t *testing.T) *Server {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })
	moderator, err := moderation.NewModerator([]string{"badger"}, '*', log)
	req.NoError(err)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	hub := runtime.NewHub(log, metrics)
	tracker := presence.NewTracker(log, presence.NewMemoryStore(), hub, metrics)
	chats := services.NewChatService(log, repositories.NewRoomRepository(db, log), tracker, hub)
	messages := services.NewMessageService(log, chats, repositories.NewMessageRepository(db, log),
		repositories.NewSearchIndex(writer, log), moderator, hub, 4000)

	return NewServer(log, Config{BasePath: basePath, JWTSecret: []byte(secret), WriteTimeout: time.Second},
		chats, messages, tracker, hub, observability.NewMonitoringManager(), registry)
}

func do(t *testing.T, s *Server, method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	resp, err := s.App().Test(r, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func as(id string) map[string]string {
	return map[string]string{auth.HeaderUserID: id, auth.HeaderUserName: id}
}

func TestServer_Health(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	resp, raw := do(t, s, http.MethodGet, "/health", nil, nil)

	req.Equal(http.StatusOK, resp.StatusCode)
	var body map[string]any
	req.NoError(json.Unmarshal(raw, &body))
	req.Equal("healthy", body["status"])
}

func TestServer_Unknown_Room_Is_Not_Found(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	resp, raw := do(t, s, http.MethodGet, basePath+"/rooms/does-not-exist", nil, nil)

	req.Equal(http.StatusNotFound, resp.StatusCode)
	var body ErrorResponse
	req.NoError(json.Unmarshal(raw, &body))
	req.Equal("not_found", body.Error)
}

func TestServer_Join_Without_Identity_Is_Bad_Request(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	// Given an existing public room
	resp, raw := do(t, s, http.MethodPost, basePath+"/rooms", jsonBody{"title": "Lobby"}, as("alice"))
	req.Equal(http.StatusCreated, resp.StatusCode)
	var room domain.Room
	req.NoError(json.Unmarshal(raw, &room))

	// When someone joins without session nor body identity
	resp, _ = do(t, s, http.MethodPost, basePath+"/rooms/"+room.ID+"/join", nil, nil)

	// Then the call is rejected
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Virtual_Key_Resolves_To_One_Room(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)
	eventID := uuid.NewString()

	// When the virtual key is fetched twice
	resp, raw := do(t, s, http.MethodGet, basePath+"/rooms/meetup_"+eventID, nil, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var first domain.RoomView
	req.NoError(json.Unmarshal(raw, &first))
	_, raw = do(t, s, http.MethodGet, basePath+"/rooms/meetup_"+eventID, nil, nil)
	var second domain.RoomView
	req.NoError(json.Unmarshal(raw, &second))

	// Then the same event room comes back
	req.Equal(first.ID, second.ID)
	req.Equal(domain.EventRoom, first.Kind)
	req.Equal(eventID, first.LinkedEventID)
	req.Equal(domain.DefaultEventRoomTitle, first.Title)
}

func TestServer_Join_Post_And_Read_Messages(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)
	_, raw := do(t, s, http.MethodPost, basePath+"/rooms", jsonBody{"title": "Lobby"}, as("alice"))
	var room domain.Room
	req.NoError(json.Unmarshal(raw, &room))

	// Given bob joins with body identity only
	resp, _ := do(t, s, http.MethodPost, basePath+"/rooms/"+room.ID+"/join",
		jsonBody{"userId": "bob", "displayName": "Bob"}, nil)
	req.Equal(http.StatusOK, resp.StatusCode)

	// When bob posts twice
	for _, text := range []string{"hello there", "a badger again"} {
		resp, _ = do(t, s, http.MethodPost, basePath+"/rooms/"+room.ID+"/messages",
			jsonBody{"userId": "bob", "displayName": "Bob", "body": text}, nil)
		req.Equal(http.StatusCreated, resp.StatusCode)
	}

	// Then messages come back newest first, censored
	resp, raw = do(t, s, http.MethodGet, basePath+"/rooms/"+room.ID+"/messages?page=1&pageSize=10", nil, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var page ListResponse[domain.Message]
	req.NoError(json.Unmarshal(raw, &page))
	req.Len(page.Items, 2)
	req.Equal("a ****** again", page.Items[0].Body)
	req.Equal("hello there", page.Items[1].Body)
	req.Equal("bob", page.Items[0].AuthorID)

	// And bob is listed among members
	_, raw = do(t, s, http.MethodGet, basePath+"/rooms/"+room.ID+"/members", nil, nil)
	var members ListResponse[domain.MemberView]
	req.NoError(json.Unmarshal(raw, &members))
	req.NotEmpty(members.Items)
}

func TestServer_Delete_By_Someone_Else_Is_Forbidden(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)
	_, raw := do(t, s, http.MethodPost, basePath+"/rooms", jsonBody{"title": "Lobby"}, as("alice"))
	var room domain.Room
	req.NoError(json.Unmarshal(raw, &room))
	_, raw = do(t, s, http.MethodPost, basePath+"/rooms/"+room.ID+"/messages", jsonBody{"body": "mine"}, as("alice"))
	var message domain.Message
	req.NoError(json.Unmarshal(raw, &message))

	// When mallory deletes alice's message
	resp, _ := do(t, s, http.MethodDelete, basePath+"/rooms/"+room.ID+"/messages/"+message.ID.String(), nil, as("mallory"))
	req.Equal(http.StatusForbidden, resp.StatusCode)

	// Then alice still can
	resp, _ = do(t, s, http.MethodDelete, basePath+"/rooms/"+room.ID+"/messages/"+message.ID.String(), nil, as("alice"))
	req.Equal(http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, s, http.MethodDelete, basePath+"/rooms/"+room.ID+"/messages/"+message.ID.String(), nil, as("alice"))
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestServer_Invalid_Token_Is_Unauthorized(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	resp, _ := do(t, s, http.MethodGet, basePath+"/rooms", nil, map[string]string{"Authorization": "Bearer nope"})
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	token, err := auth.GenerateToken([]byte(secret), "alice", "Alice", nil, time.Minute)
	req.NoError(err)
	resp, _ = do(t, s, http.MethodGet, basePath+"/rooms", nil, map[string]string{"Authorization": "Bearer " + token})
	req.Equal(http.StatusOK, resp.StatusCode)
}

func TestServer_Search_Requires_Query(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	resp, _ := do(t, s, http.MethodGet, basePath+"/rooms/meetup_E2/messages/search", nil, nil)
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

type jsonBody map[string]any

func TestServer_Virtual_Key_Without_UUID_Is_Not_Found(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	resp, raw := do(t, s, http.MethodGet, basePath+"/rooms/meetup_whatever", nil, nil)
	req.Equal(http.StatusNotFound, resp.StatusCode)
	req.Contains(string(raw), "not_found")
}

func TestServer_Subscribe_Frame_Channels(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	var frame SubscribeFrame
	req.NoError(s.decodeFrame(json.RawMessage(`{"channel":"city","ids":["paris"]}`), &frame))
	req.Equal(domain.CityGroup("paris"), channelGroup(frame.Channel, frame.IDs[0]))

	// Task updates belong to their owner, nobody can follow them
	err := s.decodeFrame(json.RawMessage(`{"channel":"task","ids":["task-9"]}`), &SubscribeFrame{})
	req.ErrorIs(err, apperrors.ErrInvalidRequest)
}
