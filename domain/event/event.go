package event

import (
	"encoding/json"
	"time"
)

// Type is the closed set of event types consumed from the bus.
type Type string

const (
	AIChatChunkType           Type = "ai.chat.chunk"
	AITaskProgressType        Type = "ai.task.progress"
	AITaskCompletedType       Type = "ai.task.completed"
	AITaskFailedType          Type = "ai.task.failed"
	CityImageGeneratedType    Type = "city.image.generated"
	RoomPresenceChangedType   Type = "chat.room.presence"
	CityRatingUpdatedType     Type = "city.rating.updated"
	CityReviewUpdatedType     Type = "city.review.updated"
	CityModeratorUpdatedType  Type = "city.moderator.updated"
	CoworkingVerificationType Type = "coworking.verification.votes"
	NotificationType          Type = "notification"
)

// AllTypes lists every Type. The router refuses to start unless each has a handler.
var AllTypes = []Type{
	AIChatChunkType,
	AITaskProgressType,
	AITaskCompletedType,
	AITaskFailedType,
	CityImageGeneratedType,
	RoomPresenceChangedType,
	CityRatingUpdatedType,
	CityReviewUpdatedType,
	CityModeratorUpdatedType,
	CoworkingVerificationType,
	NotificationType,
}

func (t Type) Known() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Subject is the bus subject an event of this type is published on.
func (t Type) Subject(prefix string) string {
	return prefix + "." + string(t)
}

// Event is the envelope carried by the bus. ID is the idempotency key.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// New wraps a payload into an envelope.
func New(id string, t Type, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{ID: id, Type: t, OccurredAt: time.Now().UTC(), Payload: raw}, nil
}
