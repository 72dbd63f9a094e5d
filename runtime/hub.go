package runtime

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/observability"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

type Set map[string]struct{}

type DeliveryKind string

const (
	KindUnicast         DeliveryKind = "unicast"
	KindMulticast       DeliveryKind = "multicast"
	KindMulticastExcept DeliveryKind = "multicast_except"
	KindBroadcast       DeliveryKind = "broadcast"
)

// Frame is an encoded delivery request. The backplane ships frames between instances
// and each instance replays them into its own Hub.
type Frame struct {
	Kind    DeliveryKind    `json:"kind"`
	Target  string          `json:"target,omitempty"`
	Except  string          `json:"except,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Hub is the local dispatcher: it knows every live session of this instance,
// the user owning each of them and the groups they subscribed to.
type Hub struct {
	mu         sync.RWMutex
	log        *slog.Logger
	metrics    *observability.Metrics
	sessions   map[string]contract.Session // connection -> session
	users      map[string]Set              // user -> connections
	groups     map[string]Set              // group -> connections
	connGroups map[string]Set              // connection -> groups
}

func NewHub(log *slog.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		log:        log,
		metrics:    metrics,
		sessions:   make(map[string]contract.Session),
		users:      make(map[string]Set),
		groups:     make(map[string]Set),
		connGroups: make(map[string]Set),
	}
}

// Register makes a session reachable through its user.
func (h *Hub) Register(session contract.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	connID := session.ID()
	h.sessions[connID] = session
	add(h.users, session.UserID(), connID)
	h.metrics.Connections.Inc()
}

// Unregister forgets a session and every group it was part of.
// It returns the groups the session left, sorted.
func (h *Hub) Unregister(connID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[connID]
	if !ok {
		return nil
	}
	delete(h.sessions, connID)
	remove(h.users, session.UserID(), connID)

	groups := keys(h.connGroups[connID])
	for _, group := range groups {
		remove(h.groups, group, connID)
	}
	delete(h.connGroups, connID)
	h.metrics.Connections.Dec()
	return groups
}

// Join subscribes a registered session to a group. Unknown sessions are ignored.
func (h *Hub) Join(connID, group string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[connID]; !ok {
		return false
	}
	add(h.groups, group, connID)
	add(h.connGroups, connID, group)
	return true
}

func (h *Hub) Leave(connID, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	remove(h.groups, group, connID)
	remove(h.connGroups, connID, group)
}

// Groups lists the groups a session is part of, sorted.
func (h *Hub) Groups(connID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return keys(h.connGroups[connID])
}

// Connections counts the live sessions of a user on this instance.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func (h *Hub) Unicast(ctx context.Context, userID string, msg domain.Outbound) error {
	return h.encodeAndDeliver(ctx, KindUnicast, userID, "", msg)
}

func (h *Hub) GroupMulticast(ctx context.Context, group string, msg domain.Outbound) error {
	return h.encodeAndDeliver(ctx, KindMulticast, group, "", msg)
}

func (h *Hub) GroupMulticastExcept(ctx context.Context, group, exceptConnID string, msg domain.Outbound) error {
	return h.encodeAndDeliver(ctx, KindMulticastExcept, group, exceptConnID, msg)
}

func (h *Hub) Broadcast(ctx context.Context, msg domain.Outbound) error {
	return h.encodeAndDeliver(ctx, KindBroadcast, "", "", msg)
}

// Deliver writes an already encoded frame to the matching local sessions.
// Failing sessions are logged and skipped: delivery is fire-and-forget.
func (h *Hub) Deliver(_ context.Context, frame Frame) error {
	targets := h.targets(frame)
	h.metrics.Deliveries.WithLabelValues(string(frame.Kind)).Inc()
	for _, session := range targets {
		if err := session.Send(frame.Payload); err != nil {
			h.metrics.DeliveryFailures.Inc()
			h.log.Warn("Delivery to session failed, skipped",
				"conn_id", session.ID(), "user_id", session.UserID(), "kind", frame.Kind, "error", err)
		}
	}
	return nil
}

func (h *Hub) encodeAndDeliver(ctx context.Context, kind DeliveryKind, target, except string, msg domain.Outbound) error {
	frame, err := NewFrame(kind, target, except, msg)
	if err != nil {
		return err
	}
	return h.Deliver(ctx, frame)
}

// NewFrame encodes an outbound payload once for every recipient.
func NewFrame(kind DeliveryKind, target, except string, msg domain.Outbound) (Frame, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return Frame{}, fmt.Errorf("encode %s payload: %w", msg.Type, err)
	}
	return Frame{Kind: kind, Target: target, Except: except, Payload: payload}, nil
}

// targets snapshots the recipients under the read lock; sends happen outside of it.
func (h *Hub) targets(frame Frame) []contract.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var connIDs Set
	switch frame.Kind {
	case KindUnicast:
		connIDs = h.users[frame.Target]
	case KindMulticast, KindMulticastExcept:
		connIDs = h.groups[frame.Target]
	case KindBroadcast:
		out := make([]contract.Session, 0, len(h.sessions))
		for _, session := range h.sessions {
			out = append(out, session)
		}
		return out
	}
	out := make([]contract.Session, 0, len(connIDs))
	for connID := range connIDs {
		if frame.Kind == KindMulticastExcept && connID == frame.Except {
			continue
		}
		if session, ok := h.sessions[connID]; ok {
			out = append(out, session)
		}
	}
	return out
}

func add(index map[string]Set, key, value string) {
	if _, ok := index[key]; !ok {
		index[key] = make(Set)
	}
	index[key][value] = struct{}{}
}

func remove(index map[string]Set, key, value string) {
	if set, ok := index[key]; ok {
		delete(set, value)
		// No empty set left behind
		if len(set) == 0 {
			delete(index, key)
		}
	}
}

func keys(set Set) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
