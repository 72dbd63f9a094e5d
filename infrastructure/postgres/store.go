// Package postgres is the PostgreSQL implementation of the room and message repositories.
// It is selected with STORAGE_DRIVER=postgres.
package postgres

import (
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"chat-hub/repositories"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS chat_rooms (
		id              TEXT PRIMARY KEY,
		kind            TEXT NOT NULL,
		linked_event_id TEXT UNIQUE,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		image_url       TEXT NOT NULL DEFAULT '',
		created_by      TEXT NOT NULL DEFAULT '',
		is_public       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_rooms_public_created ON chat_rooms (created_at DESC) WHERE is_public`,
	`CREATE TABLE IF NOT EXISTS chat_members (
		room_id      TEXT NOT NULL REFERENCES chat_rooms (id) ON DELETE CASCADE,
		user_id      TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		avatar_url   TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL,
		joined_at    TIMESTAMPTZ NOT NULL,
		last_seen_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (room_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS chat_members_user ON chat_members (user_id)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id            UUID PRIMARY KEY,
		room_id       TEXT NOT NULL,
		author_id     TEXT NOT NULL,
		author_name   TEXT NOT NULL DEFAULT '',
		author_avatar TEXT NOT NULL DEFAULT '',
		body          TEXT NOT NULL,
		type          TEXT NOT NULL,
		reply_to_id   UUID,
		reply_to      JSONB,
		mentions      JSONB NOT NULL DEFAULT '[]',
		attachment    JSONB,
		language      TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		deleted_at    TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS chat_messages_room_created ON chat_messages (room_id, created_at DESC) WHERE deleted_at IS NULL`,
}

const roomColumns = `id, kind, COALESCE(linked_event_id, ''), title, description, image_url, created_by, is_public, created_at`

const memberColumns = `room_id, user_id, display_name, avatar_url, role, joined_at, last_seen_at`

const messageColumns = `id, room_id, author_id, author_name, author_avatar, body, type,
	reply_to_id, reply_to, mentions, attachment, language, created_at, deleted_at`

var (
	_ repositories.IRoomRepository    = (*Store)(nil)
	_ repositories.IMessageRepository = (*Store)(nil)
)

type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewStore(ctx context.Context, log *slog.Logger, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

// Migrate creates the schema when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, statement := range migrations {
		if _, err := s.pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	s.log.Info("Postgres schema ready", "statements", len(migrations))
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func scanRoom(row pgx.Row) (domain.Room, error) {
	var room domain.Room
	err := row.Scan(&room.ID, &room.Kind, &room.LinkedEventID, &room.Title, &room.Description,
		&room.ImageURL, &room.CreatedBy, &room.IsPublic, &room.CreatedAt)
	room.CreatedAt = room.CreatedAt.UTC()
	return room, err
}

func (s *Store) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	room, err := scanRoom(s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM chat_rooms WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Room{}, fmt.Errorf("room %s: %w", id, apperrors.ErrRoomNotFound)
	}
	return room, err
}

func (s *Store) GetRoomByEvent(ctx context.Context, eventID string) (domain.Room, error) {
	room, err := scanRoom(s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM chat_rooms WHERE linked_event_id = $1`, eventID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Room{}, fmt.Errorf("room of event %s: %w", eventID, apperrors.ErrRoomNotFound)
	}
	return room, err
}

// GetOrCreateRoom relies on the primary key and the unique linked_event_id:
// the losing inserts of a race do nothing and read the winner's row.
func (s *Store) GetOrCreateRoom(ctx context.Context, room domain.Room) (domain.Room, bool, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat_rooms (id, kind, linked_event_id, title, description, image_url, created_by, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING
		RETURNING id
	`, room.ID, room.Kind, lo.EmptyableToPtr(room.LinkedEventID), room.Title, room.Description,
		room.ImageURL, room.CreatedBy, room.IsPublic, room.CreatedAt).Scan(&id)
	switch {
	case err == nil:
		return room, true, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Room{}, false, fmt.Errorf("insert room %s: %w", room.ID, err)
	}
	var existing domain.Room
	if room.LinkedEventID != "" {
		existing, err = s.GetRoomByEvent(ctx, room.LinkedEventID)
	} else {
		existing, err = s.GetRoom(ctx, room.ID)
	}
	return existing, false, err
}

func (s *Store) ListPublicRooms(ctx context.Context, page domain.Page) ([]domain.Room, error) {
	return s.queryRooms(ctx, `
		SELECT `+roomColumns+` FROM chat_rooms
		WHERE is_public
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, page.Size, page.Offset())
}

func (s *Store) ListUserRooms(ctx context.Context, userID string, page domain.Page) ([]domain.Room, error) {
	return s.queryRooms(ctx, `
		SELECT r.id, r.kind, COALESCE(r.linked_event_id, ''), r.title, r.description, r.image_url,
		       r.created_by, r.is_public, r.created_at
		FROM chat_rooms r
		JOIN chat_members m ON m.room_id = r.id
		WHERE m.user_id = $1
		ORDER BY r.created_at DESC, r.id
		LIMIT $2 OFFSET $3
	`, userID, page.Size, page.Offset())
}

func (s *Store) queryRooms(ctx context.Context, sql string, args ...any) ([]domain.Room, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// UpsertMember merges a re-join the same way domain.Membership.Merge does.
func (s *Store) UpsertMember(ctx context.Context, member domain.Membership) (domain.Membership, bool, error) {
	var stored domain.Membership
	var inserted bool
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat_members (`+memberColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (room_id, user_id) DO UPDATE SET
			display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE chat_members.display_name END,
			avatar_url   = CASE WHEN EXCLUDED.avatar_url <> '' THEN EXCLUDED.avatar_url ELSE chat_members.avatar_url END,
			role         = CASE WHEN EXCLUDED.role = 'owner' THEN 'owner' ELSE chat_members.role END,
			last_seen_at = GREATEST(chat_members.last_seen_at, EXCLUDED.last_seen_at)
		RETURNING `+memberColumns+`, (xmax = 0)
	`, member.RoomID, member.UserID, member.DisplayName, member.AvatarURL, member.Role,
		member.JoinedAt, member.LastSeenAt).Scan(
		&stored.RoomID, &stored.UserID, &stored.DisplayName, &stored.AvatarURL, &stored.Role,
		&stored.JoinedAt, &stored.LastSeenAt, &inserted)
	if err != nil {
		return domain.Membership{}, false, fmt.Errorf("upsert member %s in %s: %w", member.UserID, member.RoomID, err)
	}
	return normalizeMember(stored), inserted, nil
}

func (s *Store) RemoveMember(ctx context.Context, roomID, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chat_members WHERE room_id = $1 AND user_id = $2`, roomID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s in room %s: %w", userID, roomID, apperrors.ErrMembershipNotFound)
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, roomID, userID string) (domain.Membership, error) {
	var m domain.Membership
	err := s.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM chat_members WHERE room_id = $1 AND user_id = $2`,
		roomID, userID).Scan(&m.RoomID, &m.UserID, &m.DisplayName, &m.AvatarURL, &m.Role, &m.JoinedAt, &m.LastSeenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Membership{}, fmt.Errorf("user %s in room %s: %w", userID, roomID, apperrors.ErrMembershipNotFound)
	}
	return normalizeMember(m), err
}

func (s *Store) ListMembers(ctx context.Context, roomID string, page domain.Page) ([]domain.Membership, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+memberColumns+` FROM chat_members
		WHERE room_id = $1
		ORDER BY (role = 'owner') DESC, joined_at, user_id
		LIMIT $2 OFFSET $3
	`, roomID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []domain.Membership{}
	for rows.Next() {
		var m domain.Membership
		if err = rows.Scan(&m.RoomID, &m.UserID, &m.DisplayName, &m.AvatarURL, &m.Role, &m.JoinedAt, &m.LastSeenAt); err != nil {
			return nil, err
		}
		members = append(members, normalizeMember(m))
	}
	return members, rows.Err()
}

func (s *Store) CountMembers(ctx context.Context, roomID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chat_members WHERE room_id = $1`, roomID).Scan(&count)
	return count, err
}

func (s *Store) StoreMessage(ctx context.Context, m domain.Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, m.ID, m.RoomID, m.AuthorID, m.AuthorName, m.AuthorAvatar, m.Body, m.Type,
		m.ReplyToID, m.ReplyTo, lo.Ternary(m.Mentions == nil, []string{}, m.Mentions), m.Attachment,
		m.Language, m.CreatedAt, m.DeletedAt)
	if err != nil {
		return fmt.Errorf("insert message %s: %w", m.ID, err)
	}
	return nil
}

func scanMessage(row pgx.Row) (domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.RoomID, &m.AuthorID, &m.AuthorName, &m.AuthorAvatar, &m.Body, &m.Type,
		&m.ReplyToID, &m.ReplyTo, &m.Mentions, &m.Attachment, &m.Language, &m.CreatedAt, &m.DeletedAt)
	m.CreatedAt = m.CreatedAt.UTC()
	return m, err
}

func (s *Store) GetMessage(ctx context.Context, roomID string, id uuid.UUID) (domain.Message, error) {
	m, err := scanMessage(s.pool.QueryRow(ctx, `
		SELECT `+messageColumns+` FROM chat_messages
		WHERE id = $1 AND room_id = $2 AND deleted_at IS NULL
	`, id, roomID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Message{}, fmt.Errorf("message %s in room %s: %w", id, roomID, apperrors.ErrMessageNotFound)
	}
	return m, err
}

func (s *Store) GetMessages(ctx context.Context, roomID string, page domain.Page) ([]domain.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM chat_messages
		WHERE room_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, roomID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteMessage locks the row, checks the owner, then soft deletes it.
func (s *Store) DeleteMessage(ctx context.Context, roomID string, id uuid.UUID,
	userID string, at time.Time) (domain.Message, error) {
	var deleted domain.Message
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		m, err := scanMessage(tx.QueryRow(ctx, `
			SELECT `+messageColumns+` FROM chat_messages
			WHERE id = $1 AND room_id = $2 AND deleted_at IS NULL
			FOR UPDATE
		`, id, roomID))
		if err != nil {
			return err
		}
		if m.AuthorID != userID {
			return fmt.Errorf("message %s by %s: %w", id, userID, apperrors.ErrNotMessageOwner)
		}
		if _, err = tx.Exec(ctx, `UPDATE chat_messages SET deleted_at = $1 WHERE id = $2`, at, id); err != nil {
			return err
		}
		m.DeletedAt = &at
		deleted = m
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Message{}, fmt.Errorf("message %s in room %s: %w", id, roomID, apperrors.ErrMessageNotFound)
	}
	return deleted, err
}

func normalizeMember(m domain.Membership) domain.Membership {
	m.JoinedAt = m.JoinedAt.UTC()
	m.LastSeenAt = m.LastSeenAt.UTC()
	return m
}
