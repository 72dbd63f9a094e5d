package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrInvalidRoomKey     = fmt.Errorf("invalid room key")
	ErrMembershipNotFound = fmt.Errorf("membership not found")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrNotMessageOwner    = fmt.Errorf("message is not owned by the caller")
	ErrReplyTargetMissing = fmt.Errorf("replied message does not exist in this room")

	ErrMissingIdentity = fmt.Errorf("user id required")
	ErrInvalidRequest  = fmt.Errorf("invalid request")
	ErrInvalidToken    = fmt.Errorf("invalid or expired token")

	ErrInvalidPayload   = fmt.Errorf("invalid event payload")
	ErrUnknownEventType = fmt.Errorf("unknown event type")
	ErrMissingHandler   = fmt.Errorf("event type without handler")

	ErrStreamBufferFull = fmt.Errorf("stream reorder buffer is full")
	ErrStreamLockTaken  = fmt.Errorf("stream lock could not be acquired")

	ErrInvalidCensorCharacter = fmt.Errorf("censor character must be a single rune")
	ErrUnknownStorageDriver   = fmt.Errorf("unknown storage driver")
	ErrQueueUnavailable       = fmt.Errorf("message bus unavailable")
)
