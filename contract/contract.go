//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-hub/domain"
	"chat-hub/domain/event"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Session is one live connection of a user.
// Send must be safe to call from several goroutines.
type Session interface {
	ID() string
	UserID() string
	Send(payload []byte) error
}

// IDispatcher delivers payloads to live sessions.
// Per-connection failures are logged and skipped; only system failures are returned.
type IDispatcher interface {
	Unicast(ctx context.Context, userID string, msg domain.Outbound) error
	GroupMulticast(ctx context.Context, group string, msg domain.Outbound) error
	GroupMulticastExcept(ctx context.Context, group, exceptConnID string, msg domain.Outbound) error
	Broadcast(ctx context.Context, msg domain.Outbound) error
}

// IPresenceStore keeps room refcounts and user connections.
// Every method is atomic per (room, user) or per user.
type IPresenceStore interface {
	AddConnection(ctx context.Context, userID, connID string) (int, error)
	RemoveConnection(ctx context.Context, userID, connID string) (int, error)
	Connections(ctx context.Context, userID string) (int, error)
	Enter(ctx context.Context, roomID, userID string, at time.Time) (int, error)
	// Exit returns false when the refcount was already zero.
	Exit(ctx context.Context, roomID, userID string, at time.Time) (int, bool, error)
	Count(ctx context.Context, roomID, userID string) (int, error)
	Online(ctx context.Context, roomID string) ([]domain.OnlineUser, error)
}

// IPresenceLease keeps the presence held by this instance alive, and gives back the presence
// held by instances that stopped renewing their lease.
type IPresenceLease interface {
	Renew(ctx context.Context) error
	ReapExpired(ctx context.Context) ([]domain.PresenceRelease, error)
}

// ISequencerStore keeps stream sequencing state.
// Load and Save must only be called while holding the lock of the key.
type ISequencerStore interface {
	Lock(ctx context.Context, key domain.StreamKey) (unlock func(), err error)
	Load(ctx context.Context, key domain.StreamKey) (*domain.StreamState, error)
	Save(ctx context.Context, state domain.StreamState) error
	// Close drops the buffer and keeps a closed marker for the retention period.
	Close(ctx context.Context, key domain.StreamKey) error
	Idle(ctx context.Context, before time.Time) ([]domain.StreamKey, error)
}

// IDedupStore remembers handled event ids.
type IDedupStore interface {
	Seen(ctx context.Context, id string) (bool, error)
	Mark(ctx context.Context, id string) error
}

type IPresenceTracker interface {
	Connect(ctx context.Context, userID, connID string) error
	Disconnect(ctx context.Context, userID, connID string, rooms []string) error
	EnterRoom(ctx context.Context, userID, roomID string) (*domain.PresenceDelta, error)
	ExitRoom(ctx context.Context, userID, roomID string) (*domain.PresenceDelta, error)
	Announce(ctx context.Context, userID, roomID string, eventType domain.PresenceEventType) (domain.PresenceDelta, error)
	OnlineUsers(ctx context.Context, roomID string) ([]domain.OnlineUser, error)
	IsOnline(ctx context.Context, userID, roomID string) (bool, error)
}

type ISequencer interface {
	Submit(ctx context.Context, chunk domain.StreamChunk) error
	EvictIdle(ctx context.Context, now time.Time) (int, error)
}

// Delivery is one bus message waiting to be settled.
type Delivery interface {
	Data() []byte
	Ack() error
	NakWithDelay(delay time.Duration) error
	Term() error
}

type DeliveryIterator interface {
	Next() (Delivery, error)
	Stop()
}

type ISubscriber interface {
	Subscribe(ctx context.Context) (DeliveryIterator, error)
}

type IEventRouter interface {
	Route(ctx context.Context, e event.Event) error
}
