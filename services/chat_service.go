package services

import (
	"chat-hub/contract"
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"chat-hub/repositories"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	ResolveRoom(ctx context.Context, roomKey string) (domain.Room, error)
	ListPublicRooms(ctx context.Context, page domain.Page) ([]domain.RoomView, error)
	GetRoom(ctx context.Context, roomKey string) (domain.RoomView, error)
	GetOrCreateEventRoom(ctx context.Context, req EventRoomRequest) (domain.Room, error)
	GetOrCreateDirectRoom(ctx context.Context, a, b domain.Profile) (domain.Room, error)
	CreatePublicRoom(ctx context.Context, req PublicRoomRequest) (domain.Room, error)
	ListUserRooms(ctx context.Context, userID string, page domain.Page) ([]domain.RoomView, error)
	JoinRoom(ctx context.Context, roomKey string, profile domain.Profile) (domain.Membership, error)
	LeaveRoom(ctx context.Context, roomKey, userID string) error
	ListMembers(ctx context.Context, roomKey string, page domain.Page) ([]domain.MemberView, error)
	ListOnlineMembers(ctx context.Context, roomKey string) ([]domain.MemberView, error)
	ListParticipants(ctx context.Context, roomKey string, onlineOnly bool, page domain.Page) ([]domain.MemberView, error)
	Typing(ctx context.Context, roomID string, profile domain.Profile, exceptConnID string) error
}

type EventRoomRequest struct {
	LinkedEventID string
	Title         string
	EventType     string
	Organizer     *domain.Profile
}

type PublicRoomRequest struct {
	Title       string
	Description string
	ImageURL    string
	Creator     domain.Profile
}

// MemberEvent is the payload of UserJoined, UserLeft and UserTyping frames.
type MemberEvent struct {
	RoomID      string    `json:"roomId"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ChatService owns rooms and memberships. Every entry point resolves room keys
// through ResolveRoom, so a virtual event key always maps to the same room.
type ChatService struct {
	log        *slog.Logger
	rooms      repositories.IRoomRepository
	presence   contract.IPresenceTracker
	dispatcher contract.IDispatcher
	now        func() time.Time
}

func NewChatService(log *slog.Logger, rooms repositories.IRoomRepository,
	presence contract.IPresenceTracker, dispatcher contract.IDispatcher) *ChatService {
	return &ChatService{
		log:        log,
		rooms:      rooms,
		presence:   presence,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ResolveRoom maps a canonical id or a virtual "meetup_{eventId}" key to a durable room.
// A virtual key creates the event room on first use.
func (s *ChatService) ResolveRoom(ctx context.Context, roomKey string) (domain.Room, error) {
	if strings.TrimSpace(roomKey) == "" {
		return domain.Room{}, apperrors.ErrInvalidRoomKey
	}
	key, err := domain.ParseRoomKey(roomKey)
	if err != nil {
		return domain.Room{}, fmt.Errorf("%w: %v", apperrors.ErrRoomNotFound, err)
	}
	if key.IsVirtual() {
		return s.GetOrCreateEventRoom(ctx, EventRoomRequest{LinkedEventID: key.LinkedEventID})
	}
	return s.rooms.GetRoom(ctx, key.Raw)
}

func (s *ChatService) ListPublicRooms(ctx context.Context, page domain.Page) ([]domain.RoomView, error) {
	rooms, err := s.rooms.ListPublicRooms(ctx, page)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, rooms)
}

func (s *ChatService) GetRoom(ctx context.Context, roomKey string) (domain.RoomView, error) {
	room, err := s.ResolveRoom(ctx, roomKey)
	if err != nil {
		return domain.RoomView{}, err
	}
	return s.view(ctx, room)
}

// GetOrCreateEventRoom is safe under concurrent callers: the store inserts conditionally
// and every caller gets the winner's room. The organizer is (re)upserted as owner each time.
func (s *ChatService) GetOrCreateEventRoom(ctx context.Context, req EventRoomRequest) (domain.Room, error) {
	eventID, ok := domain.NormalizeEventID(req.LinkedEventID)
	if !ok {
		return domain.Room{}, fmt.Errorf("%w: linked event id %q is not a UUID", apperrors.ErrInvalidRequest, req.LinkedEventID)
	}
	req.LinkedEventID = eventID
	createdBy := ""
	if req.Organizer != nil {
		createdBy = req.Organizer.UserID
	}
	candidate := domain.NewEventRoom(uuid.NewString(), req.LinkedEventID, req.Title, req.EventType, createdBy, s.now())
	room, created, err := s.rooms.GetOrCreateRoom(ctx, candidate)
	if err != nil {
		return domain.Room{}, fmt.Errorf("get or create event room %s: %w", req.LinkedEventID, err)
	}
	if created {
		s.log.Info("Event room created", "room_id", room.ID, "linked_event_id", req.LinkedEventID)
	}
	if req.Organizer != nil && req.Organizer.UserID != "" {
		if _, err = s.upsert(ctx, room.ID, *req.Organizer, domain.OwnerRole); err != nil {
			return domain.Room{}, err
		}
	}
	return room, nil
}

func (s *ChatService) GetOrCreateDirectRoom(ctx context.Context, a, b domain.Profile) (domain.Room, error) {
	if a.UserID == "" || b.UserID == "" || a.UserID == b.UserID {
		return domain.Room{}, fmt.Errorf("%w: two distinct users required", apperrors.ErrInvalidRequest)
	}
	id := domain.DirectRoomID(a.UserID, b.UserID)
	room, created, err := s.rooms.GetOrCreateRoom(ctx, domain.Room{
		ID:          id,
		Kind:        domain.DirectRoom,
		Title:       id,
		Description: fmt.Sprintf("Private chat between %s and %s", displayName(a), displayName(b)),
		CreatedBy:   a.UserID,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return domain.Room{}, fmt.Errorf("get or create direct room %s: %w", id, err)
	}
	if created {
		s.log.Info("Direct room created", "room_id", room.ID)
	}
	for _, profile := range []domain.Profile{a, b} {
		if _, err = s.upsert(ctx, room.ID, profile, domain.MemberRole); err != nil {
			return domain.Room{}, err
		}
	}
	return room, nil
}

func (s *ChatService) CreatePublicRoom(ctx context.Context, req PublicRoomRequest) (domain.Room, error) {
	if strings.TrimSpace(req.Title) == "" {
		return domain.Room{}, fmt.Errorf("%w: title required", apperrors.ErrInvalidRequest)
	}
	room, _, err := s.rooms.GetOrCreateRoom(ctx, domain.Room{
		ID:          uuid.NewString(),
		Kind:        domain.PublicRoom,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedBy:   req.Creator.UserID,
		IsPublic:    true,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return domain.Room{}, fmt.Errorf("create public room: %w", err)
	}
	if req.Creator.UserID != "" {
		if _, err = s.upsert(ctx, room.ID, req.Creator, domain.OwnerRole); err != nil {
			return domain.Room{}, err
		}
	}
	s.log.Info("Public room created", "room_id", room.ID, "created_by", req.Creator.UserID)
	return room, nil
}

func (s *ChatService) ListUserRooms(ctx context.Context, userID string, page domain.Page) ([]domain.RoomView, error) {
	if userID == "" {
		return nil, apperrors.ErrMissingIdentity
	}
	rooms, err := s.rooms.ListUserRooms(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, rooms)
}

// JoinRoom upserts the membership, then announces it. Presence refcounts are left to the
// live connections.
func (s *ChatService) JoinRoom(ctx context.Context, roomKey string, profile domain.Profile) (domain.Membership, error) {
	if profile.UserID == "" {
		return domain.Membership{}, apperrors.ErrMissingIdentity
	}
	room, err := s.ResolveRoom(ctx, roomKey)
	if err != nil {
		return domain.Membership{}, err
	}
	member, err := s.upsert(ctx, room.ID, profile, domain.MemberRole)
	if err != nil {
		return domain.Membership{}, err
	}
	s.log.Info("User joined room", "room_id", room.ID, "user_id", profile.UserID, "role", member.Role)
	s.announce(ctx, room.ID, member.UserID, member.DisplayName, member.AvatarURL, domain.PresenceJoined, domain.UserJoined)
	return member, nil
}

func (s *ChatService) LeaveRoom(ctx context.Context, roomKey, userID string) error {
	if userID == "" {
		return apperrors.ErrMissingIdentity
	}
	room, err := s.ResolveRoom(ctx, roomKey)
	if err != nil {
		return err
	}
	if err = s.rooms.RemoveMember(ctx, room.ID, userID); err != nil {
		return err
	}
	s.log.Info("User left room", "room_id", room.ID, "user_id", userID)
	s.announce(ctx, room.ID, userID, "", "", domain.PresenceLeft, domain.UserLeft)
	return nil
}

func (s *ChatService) ListMembers(ctx context.Context, roomKey string, page domain.Page) ([]domain.MemberView, error) {
	room, err := s.ResolveRoom(ctx, roomKey)
	if err != nil {
		return nil, err
	}
	members, err := s.rooms.ListMembers(ctx, room.ID, page)
	if err != nil {
		return nil, err
	}
	online, err := s.presence.OnlineUsers(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	onlineByID := lo.SliceToMap(online, func(u domain.OnlineUser) (string, bool) { return u.UserID, true })
	return lo.Map(members, func(m domain.Membership, _ int) domain.MemberView {
		return memberView(m, onlineByID[m.UserID])
	}), nil
}

// ListOnlineMembers lists users present in the room, with their membership display data
// when they have one.
func (s *ChatService) ListOnlineMembers(ctx context.Context, roomKey string) ([]domain.MemberView, error) {
	room, err := s.ResolveRoom(ctx, roomKey)
	if err != nil {
		return nil, err
	}
	online, err := s.presence.OnlineUsers(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.MemberView, 0, len(online))
	for _, user := range online {
		member, err := s.rooms.GetMember(ctx, room.ID, user.UserID)
		switch {
		case err == nil:
			view := memberView(member, true)
			view.LastSeenAt = lo.ToPtr(user.LastSeenAt)
			views = append(views, view)
		case errors.Is(err, apperrors.ErrMembershipNotFound):
			views = append(views, domain.MemberView{
				UserID:      user.UserID,
				DisplayName: user.UserID,
				Role:        domain.MemberRole,
				IsOnline:    true,
				LastSeenAt:  lo.ToPtr(user.LastSeenAt),
			})
		default:
			return nil, err
		}
	}
	return views, nil
}

func (s *ChatService) ListParticipants(ctx context.Context, roomKey string, onlineOnly bool,
	page domain.Page) ([]domain.MemberView, error) {
	if !onlineOnly {
		return s.ListMembers(ctx, roomKey, page)
	}
	online, err := s.ListOnlineMembers(ctx, roomKey)
	if err != nil {
		return nil, err
	}
	return lo.Subset(online, page.Offset(), uint(page.Size)), nil
}

// Typing notifies the room except the typing connection itself.
func (s *ChatService) Typing(ctx context.Context, roomID string, profile domain.Profile, exceptConnID string) error {
	return s.dispatcher.GroupMulticastExcept(ctx, roomID, exceptConnID, domain.NewOutbound(domain.UserTyping, MemberEvent{
		RoomID:      roomID,
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		Timestamp:   s.now(),
	}))
}

func (s *ChatService) upsert(ctx context.Context, roomID string, profile domain.Profile, role domain.Role) (domain.Membership, error) {
	at := s.now()
	member, _, err := s.rooms.UpsertMember(ctx, domain.Membership{
		RoomID:      roomID,
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		Role:        role,
		JoinedAt:    at,
		LastSeenAt:  at,
	})
	if err != nil {
		return domain.Membership{}, fmt.Errorf("upsert member %s in %s: %w", profile.UserID, roomID, err)
	}
	return member, nil
}

// announce is fire-and-forget: the membership change is already durable.
func (s *ChatService) announce(ctx context.Context, roomID, userID, name, avatar string,
	eventType domain.PresenceEventType, outbound domain.OutboundType) {
	if _, err := s.presence.Announce(ctx, userID, roomID, eventType); err != nil {
		s.log.Warn("Failed to announce presence", "room_id", roomID, "user_id", userID, "error", err)
	}
	err := s.dispatcher.GroupMulticast(ctx, roomID, domain.NewOutbound(outbound, MemberEvent{
		RoomID:      roomID,
		UserID:      userID,
		DisplayName: name,
		AvatarURL:   avatar,
		Timestamp:   s.now(),
	}))
	if err != nil {
		s.log.Warn("Failed to multicast membership change", "room_id", roomID, "type", outbound, "error", err)
	}
}

func (s *ChatService) views(ctx context.Context, rooms []domain.Room) ([]domain.RoomView, error) {
	views := make([]domain.RoomView, 0, len(rooms))
	for _, room := range rooms {
		view, err := s.view(ctx, room)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *ChatService) view(ctx context.Context, room domain.Room) (domain.RoomView, error) {
	total, err := s.rooms.CountMembers(ctx, room.ID)
	if err != nil {
		return domain.RoomView{}, err
	}
	online, err := s.presence.OnlineUsers(ctx, room.ID)
	if err != nil {
		return domain.RoomView{}, err
	}
	return domain.RoomView{Room: room, TotalMembers: total, OnlineUsers: len(online)}, nil
}

func memberView(m domain.Membership, online bool) domain.MemberView {
	return domain.MemberView{
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		AvatarURL:   m.AvatarURL,
		Role:        m.Role,
		IsOnline:    online,
		LastSeenAt:  lo.ToPtr(m.LastSeenAt),
	}
}

func displayName(p domain.Profile) string {
	if strings.TrimSpace(p.DisplayName) == "" {
		return p.UserID
	}
	return p.DisplayName
}
