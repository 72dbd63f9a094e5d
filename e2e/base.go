package e2e

import (
	"bytes"
	"chat-hub/domain/event"
	"chat-hub/infrastructure/bus"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// BaseHubSuite talks to a running hub over HTTP, the live channel and the bus.
type BaseHubSuite struct {
	suite.Suite
	Config Config
	client *http.Client
	bus    *bus.Client
}

// Frame is a decoded live channel frame, with the data left raw.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHubSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.HubAddr == "" {
		s.T().Skip("HUB_ADDR not set, skipping end to end suite")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
	if s.Config.NatsURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.bus = bus.NewClient(logs.GetLoggerFromLevel(slog.LevelWarn), bus.Config{
			URL:    s.Config.NatsURL,
			Stream: s.Config.BusStream,
			MaxAge: 24 * time.Hour,
		})
		s.Require().NoError(s.bus.Connect(ctx))
	}
}

func (s *BaseHubSuite) TearDownSuite() {
	if s.bus != nil {
		s.bus.Close()
	}
}

// Step prints a colorized header for a scenario step.
func (s *BaseHubSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Call sends a JSON request as userID and decodes the response into out when given.
func (s *BaseHubSuite) Call(method, path, userID string, body, out any) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, "http://"+s.Config.HubAddr+s.Config.BasePath+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
		req.Header.Set("X-User-Name", userID)
	}
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// Dial opens a live channel as userID and waits for the Authenticated frame.
func (s *BaseHubSuite) Dial(userID string) *websocket.Conn {
	target := url.URL{Scheme: "ws", Host: s.Config.HubAddr, Path: "/ws", RawQuery: url.Values{"userId": {userID}}.Encode()}
	conn, _, err := websocket.DefaultDialer.Dial(target.String(), nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	s.Expect(conn, "Authenticated", 5*time.Second)
	return conn
}

func (s *BaseHubSuite) Send(conn *websocket.Conn, frameType string, data any) {
	raw, err := json.Marshal(data)
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteJSON(Frame{Type: frameType, Data: raw}))
}

// Expect reads frames until one of the wanted type arrives, skipping the others.
func (s *BaseHubSuite) Expect(conn *websocket.Conn, frameType string, timeout time.Duration) Frame {
	deadline := time.Now().Add(timeout)
	for {
		s.Require().NoError(conn.SetReadDeadline(deadline))
		var frame Frame
		s.Require().NoError(conn.ReadJSON(&frame), "waiting for %s", frameType)
		if frame.Type == frameType {
			return frame
		}
	}
}

// Publish puts an event on the bus. The scenario is skipped without NATS_URL.
func (s *BaseHubSuite) Publish(id string, t event.Type, payload any) {
	if s.bus == nil {
		s.T().Skip("NATS_URL not set, skipping bus scenario")
	}
	e, err := event.New(id, t, payload)
	s.Require().NoError(err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.bus.Publish(ctx, e))
}
