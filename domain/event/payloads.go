package event

import (
	"time"
)

// AIChatChunk is a fragment of a streamed AI answer.
type AIChatChunk struct {
	ConversationID string     `json:"conversationId" validate:"required"`
	MessageID      *string    `json:"messageId"`
	UserID         string     `json:"userId" validate:"required"`
	RequestID      string     `json:"requestId" validate:"required"`
	Delta          string     `json:"delta"`
	IsComplete     bool       `json:"isComplete"`
	FinishReason   *string    `json:"finishReason" validate:"omitempty,oneof=stop length error"`
	TokenCount     *int       `json:"tokenCount" validate:"omitempty,min=0"`
	Error          *string    `json:"error"`
	SequenceNumber *int64     `json:"sequenceNumber" validate:"required,min=0"`
	Timestamp      *time.Time `json:"timestamp"`
}

type AITaskProgress struct {
	TaskID      string  `json:"taskId" validate:"required"`
	UserID      string  `json:"userId" validate:"required"`
	Progress    int     `json:"progress" validate:"min=0,max=100"`
	Status      string  `json:"status"`
	CurrentStep string  `json:"currentStep"`
	Message     string  `json:"message"`
	Result      *string `json:"result"`
	Error       *string `json:"error"`
}

type AITaskCompleted struct {
	TaskID          string     `json:"taskId" validate:"required"`
	UserID          string     `json:"userId" validate:"required"`
	TaskType        string     `json:"taskType"`
	ResultID        *string    `json:"resultId"`
	Result          any        `json:"result"`
	CompletedAt     *time.Time `json:"completedAt"`
	DurationSeconds *float64   `json:"durationSeconds"`
}

type AITaskFailed struct {
	TaskID       string     `json:"taskId" validate:"required"`
	UserID       string     `json:"userId" validate:"required"`
	TaskType     string     `json:"taskType"`
	ErrorMessage string     `json:"errorMessage"`
	ErrorCode    *string    `json:"errorCode"`
	FailedAt     *time.Time `json:"failedAt"`
}

type CityImageGenerated struct {
	TaskID        string   `json:"taskId" validate:"required"`
	UserID        string   `json:"userId" validate:"required"`
	CityID        string   `json:"cityId" validate:"required"`
	CityName      string   `json:"cityName"`
	Success       bool     `json:"success"`
	PortraitURL   *string  `json:"portraitImageUrl"`
	LandscapeURLs []string `json:"landscapeImageUrls"`
	ErrorMessage  *string  `json:"errorMessage"`
}

// RoomPresenceChanged is an external presence trigger for a room.
type RoomPresenceChanged struct {
	RoomID    string `json:"roomId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	EventType string `json:"eventType" validate:"required,oneof=joined left"`
}

type CityRatingUpdated struct {
	CityID       string     `json:"cityId" validate:"required"`
	CityName     *string    `json:"cityName"`
	CityNameEn   *string    `json:"cityNameEn"`
	OverallScore float64    `json:"overallScore"`
	ReviewCount  int        `json:"reviewCount"`
	UserID       *string    `json:"userId"`
	UpdatedAt    *time.Time `json:"updatedAt"`
}

type CityReviewUpdated struct {
	CityID      string     `json:"cityId" validate:"required"`
	ChangeType  string     `json:"changeType" validate:"required"`
	ReviewID    *string    `json:"reviewId"`
	UserID      *string    `json:"userId"`
	ReviewCount int        `json:"reviewCount"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

type CityModeratorUpdated struct {
	CityID     string     `json:"cityId" validate:"required"`
	ChangeType string     `json:"changeType" validate:"required"`
	UserID     *string    `json:"userId"`
	UpdatedAt  *time.Time `json:"updatedAt"`
}

type CoworkingVerificationVotes struct {
	CoworkingID       string     `json:"coworkingId" validate:"required"`
	VerificationVotes int        `json:"verificationVotes" validate:"min=0"`
	IsVerified        bool       `json:"isVerified"`
	Timestamp         *time.Time `json:"timestamp"`
}

type Notification struct {
	UserID    *string        `json:"userId"`
	Type      string         `json:"type" validate:"required"`
	Title     string         `json:"title" validate:"required"`
	Content   string         `json:"content"`
	Data      map[string]any `json:"data"`
	CreatedAt *time.Time     `json:"createdAt"`
}
