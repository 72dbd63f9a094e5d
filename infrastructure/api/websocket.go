package api

import (
	"chat-hub/auth"
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"chat-hub/services"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ClientFrame is what a client writes on the live channel.
type ClientFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type RoomFrame struct {
	RoomID string `json:"roomId" validate:"required,max=200"`
}

type MessageFrame struct {
	RoomFrame
	PostMessageRequest
}

type DeleteFrame struct {
	RoomFrame
	MessageID string `json:"messageId" validate:"required,uuid"`
}

type SubscribeFrame struct {
	Channel string   `json:"channel" validate:"required,oneof=city coworking"`
	IDs     []string `json:"ids" validate:"required,min=1,max=100,dive,required,max=128"`
}

// session is one websocket connection. Writes are serialized and bounded by a deadline;
// rooms is only touched by the read loop.
type session struct {
	id           string
	profile      domain.Profile
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
	rooms        map[string]struct{}
}

func (s *session) ID() string     { return s.id }
func (s *session) UserID() string { return s.profile.UserID }

func (s *session) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *session) reply(t domain.OutboundType, data any) {
	payload, err := json.Marshal(domain.NewOutbound(t, data))
	if err == nil {
		err = s.Send(payload)
	}
	if err != nil {
		s.conn.Close()
	}
}

// serveSession runs the live channel of one connection until the client goes away.
func (s *Server) serveSession(conn *websocket.Conn) {
	profile, ok := auth.ProfileOf(conn.Locals(auth.IdentityKey))
	if !ok {
		profile = domain.Profile{UserID: conn.Query("userId"), DisplayName: conn.Query("displayName")}
	}
	sess := &session{
		id:           uuid.NewString(),
		profile:      profile,
		conn:         conn,
		writeTimeout: s.cfg.WriteTimeout,
		rooms:        make(map[string]struct{}),
	}
	if profile.UserID == "" {
		sess.reply(domain.ErrorOutbound, ErrorResponse{Error: "bad_request", Message: apperrors.ErrMissingIdentity.Error()})
		_ = conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.hub.Register(sess)
	s.monitoring.ConnectionOpened()
	if err := s.presence.Connect(ctx, profile.UserID, sess.id); err != nil {
		s.log.Warn("Failed to register connection presence", "conn_id", sess.id, "error", err)
	}
	defer func() {
		s.hub.Unregister(sess.id)
		s.monitoring.ConnectionClosed()
		rooms := lo.Keys(sess.rooms)
		if err := s.presence.Disconnect(context.WithoutCancel(ctx), profile.UserID, sess.id, rooms); err != nil {
			s.log.Warn("Failed to release presence", "conn_id", sess.id, "rooms", len(rooms), "error", err)
		}
		_ = conn.Close()
		s.log.Info("WebSocket disconnected", "conn_id", sess.id, "user_id", profile.UserID)
	}()

	s.log.Info("WebSocket connected", "conn_id", sess.id, "user_id", profile.UserID)
	sess.reply(domain.Authenticated, fiber.Map{"connectionId": sess.id, "userId": profile.UserID})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("WebSocket read failed", "conn_id", sess.id, "error", err)
			}
			return
		}
		var frame ClientFrame
		if err = json.Unmarshal(raw, &frame); err != nil {
			s.replyError(sess, fmt.Errorf("%w: malformed frame", apperrors.ErrInvalidRequest))
			continue
		}
		if err = s.handleFrame(ctx, sess, frame); err != nil {
			s.replyError(sess, err)
		}
	}
}

func (s *Server) handleFrame(ctx context.Context, sess *session, frame ClientFrame) error {
	switch frame.Type {
	case "join":
		return s.wsJoin(ctx, sess, frame.Data)
	case "leave":
		return s.wsLeave(ctx, sess, frame.Data)
	case "message":
		return s.wsMessage(ctx, sess, frame.Data)
	case "delete":
		return s.wsDelete(ctx, sess, frame.Data)
	case "typing":
		return s.wsTyping(ctx, sess, frame.Data)
	case "subscribe":
		return s.wsSubscribe(sess, frame.Data, true)
	case "unsubscribe":
		return s.wsSubscribe(sess, frame.Data, false)
	case "online_count":
		return s.wsOnlineCount(ctx, sess, frame.Data)
	}
	return fmt.Errorf("%w: unknown frame type %q", apperrors.ErrInvalidRequest, frame.Type)
}

func (s *Server) decodeFrame(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}
	if err := s.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}
	return nil
}

// wsJoin enters the room live group. A connection counts once per room.
func (s *Server) wsJoin(ctx context.Context, sess *session, data json.RawMessage) error {
	var body RoomFrame
	if err := s.decodeFrame(data, &body); err != nil {
		return err
	}
	room, err := s.chats.ResolveRoom(ctx, body.RoomID)
	if err != nil {
		return err
	}
	if _, ok := sess.rooms[room.ID]; !ok {
		s.hub.Join(sess.id, room.ID)
		if _, err = s.presence.EnterRoom(ctx, sess.profile.UserID, room.ID); err != nil {
			s.hub.Leave(sess.id, room.ID)
			return err
		}
		sess.rooms[room.ID] = struct{}{}
	}
	sess.reply(domain.JoinedRoom, fiber.Map{"roomId": room.ID, "key": body.RoomID})
	return nil
}

func (s *Server) wsLeave(ctx context.Context, sess *session, data json.RawMessage) error {
	var body RoomFrame
	if err := s.decodeFrame(data, &body); err != nil {
		return err
	}
	room, err := s.chats.ResolveRoom(ctx, body.RoomID)
	if err != nil {
		return err
	}
	if _, ok := sess.rooms[room.ID]; ok {
		delete(sess.rooms, room.ID)
		s.hub.Leave(sess.id, room.ID)
		if _, err = s.presence.ExitRoom(ctx, sess.profile.UserID, room.ID); err != nil {
			return err
		}
	}
	sess.reply(domain.LeftRoom, fiber.Map{"roomId": room.ID})
	return nil
}

func (s *Server) wsMessage(ctx context.Context, sess *session, data json.RawMessage) error {
	var body MessageFrame
	if err := s.decodeFrame(data, &body); err != nil {
		return err
	}
	_, err := s.messages.PostMessage(ctx, services.PostMessageRequest{
		RoomKey:    body.RoomID,
		Author:     sess.profile,
		Body:       body.Body,
		Type:       domain.MessageType(body.Type),
		ReplyToID:  body.replyTo(),
		Mentions:   body.Mentions,
		Attachment: body.Attachment.toDomain(),
	})
	return err
}

func (s *Server) wsDelete(ctx context.Context, sess *session, data json.RawMessage) error {
	var body DeleteFrame
	if err := s.decodeFrame(data, &body); err != nil {
		return err
	}
	return s.messages.DeleteMessage(ctx, body.RoomID, uuid.MustParse(body.MessageID), sess.profile.UserID)
}

func (s *Server) wsTyping(ctx context.Context, sess *session, data json.RawMessage) error {
	var body RoomFrame
	if err := s.decodeFrame(data, &body); err != nil {
		return err
	}
	room, err := s.chats.ResolveRoom(ctx, body.RoomID)
	if err != nil {
		return err
	}
	return s.chats.Typing(ctx, room.ID, sess.profile, sess.id)
}

// wsSubscribe follows city or coworking update channels without presence.
// Task updates are never subscribed to, they only reach the task owner.
func (s *Server) wsSubscribe(sess *session, data json.RawMessage, subscribe bool) error {
	var body SubscribeFrame
	if err := s.decodeFrame(data, &body); err != nil {
		return err
	}
	for _, id := range body.IDs {
		group := channelGroup(body.Channel, id)
		if subscribe {
			s.hub.Join(sess.id, group)
		} else {
			s.hub.Leave(sess.id, group)
		}
	}
	sess.reply(lo.Ternary(subscribe, domain.Subscribed, domain.Unsubscribed), body)
	return nil
}

func (s *Server) wsOnlineCount(ctx context.Context, sess *session, data json.RawMessage) error {
	var body RoomFrame
	if err := s.decodeFrame(data, &body); err != nil {
		return err
	}
	room, err := s.chats.ResolveRoom(ctx, body.RoomID)
	if err != nil {
		return err
	}
	online, err := s.presence.OnlineUsers(ctx, room.ID)
	if err != nil {
		return err
	}
	sess.reply(domain.OnlineCount, fiber.Map{"roomId": room.ID, "count": len(online)})
	return nil
}

func (s *Server) replyError(sess *session, err error) {
	status, code := errorStatus(err)
	message := err.Error()
	if status >= 500 {
		s.log.Error("Live frame failed", "conn_id", sess.id, "error", err)
		message = "internal server error"
	}
	sess.reply(domain.ErrorOutbound, ErrorResponse{Error: code, Message: message})
}

func channelGroup(channel, id string) string {
	switch channel {
	case "city":
		return domain.CityGroup(id)
	}
	return domain.CoworkingGroup(id)
}
