package cache

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	_ contract.IPresenceStore = (*PresenceStore)(nil)
	_ contract.IPresenceLease = (*PresenceStore)(nil)
)

const instancesKey = KeyPrefix + "instances"

// enterScript bumps the refcount of a user in a room and records when it was seen.
// KEYS[3] holds the share of every refcount owned by this instance.
var enterScript = redis.NewScript(`
	local count = redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
	redis.call('HSET', KEYS[2], ARGV[1], ARGV[2])
	redis.call('HINCRBY', KEYS[3], ARGV[3], 1)
	return count
`)

// exitScript never lets a refcount go below zero.
// It returns {count, applied}.
var exitScript = redis.NewScript(`
	local current = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
	if current <= 0 then
		return {0, 0}
	end
	if redis.call('HINCRBY', KEYS[3], ARGV[3], -1) <= 0 then
		redis.call('HDEL', KEYS[3], ARGV[3])
	end
	local count = redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
	if count <= 0 then
		redis.call('HDEL', KEYS[1], ARGV[1])
		redis.call('HDEL', KEYS[2], ARGV[1])
		return {0, 1}
	end
	redis.call('HSET', KEYS[2], ARGV[1], ARGV[2])
	return {count, 1}
`)

// releaseScript takes back up to ARGV[2] references of a user, floored at zero.
// It returns {released, remaining}.
var releaseScript = redis.NewScript(`
	local current = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
	local released = math.min(current, tonumber(ARGV[2]))
	if released <= 0 then
		return {0, current}
	end
	local count = redis.call('HINCRBY', KEYS[1], ARGV[1], -released)
	if count <= 0 then
		redis.call('HDEL', KEYS[1], ARGV[1])
		redis.call('HDEL', KEYS[2], ARGV[1])
		count = 0
	end
	return {released, count}
`)

// PresenceStore shares presence between every instance of the hub.
// Each instance records its own share of the refcounts and connections under a lease.
// When the lease expires, another instance gives that share back.
type PresenceStore struct {
	client   *redis.Client
	instance string
	leaseTTL time.Duration
}

func NewPresenceStore(client *redis.Client, instance string, leaseTTL time.Duration) *PresenceStore {
	return &PresenceStore{client: client, instance: instance, leaseTTL: leaseTTL}
}

func connectionsKey(userID string) string { return KeyPrefix + "conn:" + userID }
func presenceKey(roomID string) string    { return KeyPrefix + "presence:" + roomID }
func seenKey(roomID string) string        { return KeyPrefix + "seen:" + roomID }

func leaseKey(instance string) string         { return KeyPrefix + "instance:" + instance + ":alive" }
func reapKey(instance string) string          { return KeyPrefix + "instance:" + instance + ":reaping" }
func ownedPresenceKey(instance string) string { return KeyPrefix + "instance:" + instance + ":presence" }
func ownedConnsKey(instance string) string    { return KeyPrefix + "instance:" + instance + ":conns" }

// pairField encodes two ids in one hash field. The first id is length prefixed.
func pairField(a, b string) string {
	return strconv.Itoa(len(a)) + ":" + a + ":" + b
}

func splitPairField(field string) (string, string, bool) {
	sep := strings.IndexByte(field, ':')
	if sep < 0 {
		return "", "", false
	}
	n, err := strconv.Atoi(field[:sep])
	rest := field[sep+1:]
	if err != nil || n < 0 || len(rest) < n+1 || rest[n] != ':' {
		return "", "", false
	}
	return rest[:n], rest[n+1:], true
}

func (s *PresenceStore) AddConnection(ctx context.Context, userID, connID string) (int, error) {
	var card *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, connectionsKey(userID), connID)
		pipe.SAdd(ctx, ownedConnsKey(s.instance), pairField(userID, connID))
		card = pipe.SCard(ctx, connectionsKey(userID))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("add connection %s of %s: %w", connID, userID, err)
	}
	return int(card.Val()), nil
}

func (s *PresenceStore) RemoveConnection(ctx context.Context, userID, connID string) (int, error) {
	var card *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, connectionsKey(userID), connID)
		pipe.SRem(ctx, ownedConnsKey(s.instance), pairField(userID, connID))
		card = pipe.SCard(ctx, connectionsKey(userID))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("remove connection %s of %s: %w", connID, userID, err)
	}
	return int(card.Val()), nil
}

func (s *PresenceStore) Connections(ctx context.Context, userID string) (int, error) {
	count, err := s.client.SCard(ctx, connectionsKey(userID)).Result()
	return int(count), err
}

func (s *PresenceStore) Enter(ctx context.Context, roomID, userID string, at time.Time) (int, error) {
	count, err := enterScript.Run(ctx, s.client,
		[]string{presenceKey(roomID), seenKey(roomID), ownedPresenceKey(s.instance)},
		userID, at.UnixMilli(), pairField(roomID, userID)).Int()
	if err != nil {
		return 0, fmt.Errorf("enter %s in %s: %w", userID, roomID, err)
	}
	return count, nil
}

func (s *PresenceStore) Exit(ctx context.Context, roomID, userID string, at time.Time) (int, bool, error) {
	result, err := exitScript.Run(ctx, s.client,
		[]string{presenceKey(roomID), seenKey(roomID), ownedPresenceKey(s.instance)},
		userID, at.UnixMilli(), pairField(roomID, userID)).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("exit %s from %s: %w", userID, roomID, err)
	}
	if len(result) != 2 {
		return 0, false, fmt.Errorf("unexpected exit result length: %d", len(result))
	}
	return int(result[0]), result[1] == 1, nil
}

func (s *PresenceStore) Count(ctx context.Context, roomID, userID string) (int, error) {
	count, err := s.client.HGet(ctx, presenceKey(roomID), userID).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

func (s *PresenceStore) Online(ctx context.Context, roomID string) ([]domain.OnlineUser, error) {
	var counts, seen *redis.MapStringStringCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		counts = pipe.HGetAll(ctx, presenceKey(roomID))
		seen = pipe.HGetAll(ctx, seenKey(roomID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("online users of %s: %w", roomID, err)
	}
	lastSeen := seen.Val()
	online := make([]domain.OnlineUser, 0, len(counts.Val()))
	for userID, raw := range counts.Val() {
		count, err := strconv.Atoi(raw)
		if err != nil || count <= 0 {
			continue
		}
		user := domain.OnlineUser{UserID: userID, Connections: count}
		if ms, err := strconv.ParseInt(lastSeen[userID], 10, 64); err == nil {
			user.LastSeenAt = time.UnixMilli(ms).UTC()
		}
		online = append(online, user)
	}
	sort.Slice(online, func(i, j int) bool { return online[i].UserID < online[j].UserID })
	return online, nil
}

// Renew extends the lease of this instance.
func (s *PresenceStore) Renew(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, leaseKey(s.instance), "1", s.leaseTTL)
		pipe.SAdd(ctx, instancesKey, s.instance)
		return nil
	})
	if err != nil {
		return fmt.Errorf("renew presence lease of %s: %w", s.instance, err)
	}
	return nil
}

// ReapExpired gives back the presence of every instance whose lease expired.
// A short reap lock keeps two instances from releasing the same share twice.
func (s *PresenceStore) ReapExpired(ctx context.Context) ([]domain.PresenceRelease, error) {
	instances, err := s.client.SMembers(ctx, instancesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	var released []domain.PresenceRelease
	for _, instance := range instances {
		if instance == s.instance {
			continue
		}
		alive, err := s.client.Exists(ctx, leaseKey(instance)).Result()
		if err != nil {
			return released, fmt.Errorf("lease of %s: %w", instance, err)
		}
		if alive > 0 {
			continue
		}
		ok, err := s.client.SetNX(ctx, reapKey(instance), s.instance, s.leaseTTL).Result()
		if err != nil {
			return released, fmt.Errorf("reap lock of %s: %w", instance, err)
		}
		if !ok {
			continue
		}
		freed, err := s.release(ctx, instance)
		released = append(released, freed...)
		if err != nil {
			return released, err
		}
	}
	return released, nil
}

func (s *PresenceStore) release(ctx context.Context, instance string) ([]domain.PresenceRelease, error) {
	owned, err := s.client.HGetAll(ctx, ownedPresenceKey(instance)).Result()
	if err != nil {
		return nil, fmt.Errorf("presence of %s: %w", instance, err)
	}
	var released []domain.PresenceRelease
	for field, raw := range owned {
		roomID, userID, ok := splitPairField(field)
		count, err := strconv.Atoi(raw)
		if !ok || err != nil || count <= 0 {
			continue
		}
		result, err := releaseScript.Run(ctx, s.client, []string{presenceKey(roomID), seenKey(roomID)},
			userID, count).Int64Slice()
		if err != nil {
			return released, fmt.Errorf("release %s from %s: %w", userID, roomID, err)
		}
		if len(result) != 2 || result[0] == 0 {
			continue
		}
		released = append(released, domain.PresenceRelease{
			RoomID: roomID, UserID: userID, Released: int(result[0]), Remaining: int(result[1]),
		})
	}

	conns, err := s.client.SMembers(ctx, ownedConnsKey(instance)).Result()
	if err != nil {
		return released, fmt.Errorf("connections of %s: %w", instance, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, member := range conns {
			if userID, connID, ok := splitPairField(member); ok {
				pipe.SRem(ctx, connectionsKey(userID), connID)
			}
		}
		pipe.Del(ctx, ownedPresenceKey(instance), ownedConnsKey(instance))
		pipe.SRem(ctx, instancesKey, instance)
		return nil
	})
	if err != nil {
		return released, fmt.Errorf("forget instance %s: %w", instance, err)
	}
	return released, nil
}
