package domain

import "time"

// OutboundType names a payload pushed to live sessions.
type OutboundType string

const (
	Authenticated                OutboundType = "Authenticated"
	JoinedRoom                   OutboundType = "JoinedRoom"
	LeftRoom                     OutboundType = "LeftRoom"
	UserJoined                   OutboundType = "UserJoined"
	UserLeft                     OutboundType = "UserLeft"
	NewMessage                   OutboundType = "NewMessage"
	MessageDeleted               OutboundType = "MessageDeleted"
	UserTyping                   OutboundType = "UserTyping"
	OnlineStatusUpdated          OutboundType = "OnlineStatusUpdated"
	OnlineCount                  OutboundType = "OnlineCount"
	Subscribed                   OutboundType = "Subscribed"
	Unsubscribed                 OutboundType = "Unsubscribed"
	AIChatChunk                  OutboundType = "AIChatChunk"
	TaskProgress                 OutboundType = "TaskProgress"
	TaskCompleted                OutboundType = "TaskCompleted"
	TaskFailed                   OutboundType = "TaskFailed"
	ReceiveNotification          OutboundType = "ReceiveNotification"
	CityImageUpdated             OutboundType = "CityImageUpdated"
	CityRatingUpdated            OutboundType = "CityRatingUpdated"
	CityReviewUpdated            OutboundType = "CityReviewUpdated"
	CityModeratorUpdated         OutboundType = "CityModeratorUpdated"
	CoworkingVerificationUpdated OutboundType = "CoworkingVerificationUpdated"
	ErrorOutbound                OutboundType = "Error"
)

// Outbound is the frame written to live sessions.
type Outbound struct {
	Type      OutboundType `json:"type"`
	Data      any          `json:"data,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewOutbound(t OutboundType, data any) Outbound {
	return Outbound{Type: t, Data: data, Timestamp: time.Now().UTC()}
}

// Notification is a live notification; durable storage is handled elsewhere.
type Notification struct {
	UserID    string         `json:"userId,omitempty"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Progress is the payload of TaskProgress frames.
type Progress struct {
	TaskID      string    `json:"taskId"`
	UserID      string    `json:"userId"`
	Progress    int       `json:"progress"`
	Status      string    `json:"status"`
	CurrentStep string    `json:"currentStep,omitempty"`
	Result      string    `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	ProgressProcessing = "processing"
	ProgressCompleted  = "completed"
	ProgressFailed     = "failed"
)
