package router

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	apperrors "chat-hub/errors"
	"chat-hub/services"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Handlers translates bus payloads into calls on the hub components.
type Handlers struct {
	log        *slog.Logger
	validate   *validator.Validate
	sequencer  contract.ISequencer
	presence   contract.IPresenceTracker
	rooms      services.RoomResolver
	dispatcher contract.IDispatcher
}

func NewHandlers(log *slog.Logger, sequencer contract.ISequencer, presence contract.IPresenceTracker,
	rooms services.RoomResolver, dispatcher contract.IDispatcher) *Handlers {
	return &Handlers{
		log:        log,
		validate:   validator.New(),
		sequencer:  sequencer,
		presence:   presence,
		rooms:      rooms,
		dispatcher: dispatcher,
	}
}

// Table returns one handler per event type.
func (h *Handlers) Table() map[event.Type]Handler {
	rating := cityUpdate(h, domain.CityRatingUpdated, func(p event.CityRatingUpdated) string { return p.CityID })
	review := cityUpdate(h, domain.CityReviewUpdated, func(p event.CityReviewUpdated) string { return p.CityID })
	moderator := cityUpdate(h, domain.CityModeratorUpdated, func(p event.CityModeratorUpdated) string { return p.CityID })
	return map[event.Type]Handler{
		event.AIChatChunkType:           h.chatChunk,
		event.AITaskProgressType:        h.taskProgress,
		event.AITaskCompletedType:       h.taskCompleted,
		event.AITaskFailedType:          h.taskFailed,
		event.CityImageGeneratedType:    h.cityImageGenerated,
		event.RoomPresenceChangedType:   h.roomPresence,
		event.CityRatingUpdatedType:     rating,
		event.CityReviewUpdatedType:     review,
		event.CityModeratorUpdatedType:  moderator,
		event.CoworkingVerificationType: h.coworkingVerification,
		event.NotificationType:          h.notification,
	}
}

func (h *Handlers) chatChunk(ctx context.Context, e event.Event) error {
	p, err := decode[event.AIChatChunk](h.validate, e.Payload)
	if err != nil {
		return err
	}
	chunk := domain.StreamChunk{
		ConversationID: p.ConversationID,
		RequestID:      p.RequestID,
		MessageID:      lo.FromPtr(p.MessageID),
		UserID:         p.UserID,
		SequenceNumber: *p.SequenceNumber,
		Delta:          p.Delta,
		IsComplete:     p.IsComplete,
		TokenCount:     p.TokenCount,
		ErrorMessage:   p.Error,
		Timestamp:      lo.FromPtrOr(p.Timestamp, e.OccurredAt),
	}
	if p.FinishReason != nil {
		chunk.FinishReason = lo.ToPtr(domain.FinishReason(*p.FinishReason))
	}
	return h.sequencer.Submit(ctx, chunk)
}

func (h *Handlers) taskProgress(ctx context.Context, e event.Event) error {
	p, err := decode[event.AITaskProgress](h.validate, e.Payload)
	if err != nil {
		return err
	}
	progress := domain.Progress{
		TaskID:      p.TaskID,
		UserID:      p.UserID,
		Progress:    p.Progress,
		Status:      lo.Ternary(p.Status == "", domain.ProgressProcessing, p.Status),
		CurrentStep: lo.Ternary(p.CurrentStep == "", p.Message, p.CurrentStep),
		Result:      lo.FromPtr(p.Result),
		Error:       lo.FromPtr(p.Error),
		Timestamp:   e.OccurredAt,
	}
	return h.toTask(ctx, p.UserID, domain.NewOutbound(domain.TaskProgress, progress))
}

func (h *Handlers) taskCompleted(ctx context.Context, e event.Event) error {
	p, err := decode[event.AITaskCompleted](h.validate, e.Payload)
	if err != nil {
		return err
	}
	if err = h.toTask(ctx, p.UserID, domain.NewOutbound(domain.TaskCompleted, p)); err != nil {
		return err
	}
	err = h.toTask(ctx, p.UserID, domain.NewOutbound(domain.TaskProgress, domain.Progress{
		TaskID:    p.TaskID,
		UserID:    p.UserID,
		Progress:  100,
		Status:    domain.ProgressCompleted,
		Result:    lo.FromPtr(p.ResultID),
		Timestamp: e.OccurredAt,
	}))
	if err != nil {
		return err
	}
	return h.notify(ctx, domain.Notification{
		UserID:    p.UserID,
		Type:      domain.NotificationSuccess,
		Title:     "Task completed",
		Content:   fmt.Sprintf("Your %s task is ready.", lo.Ternary(p.TaskType == "", "AI", p.TaskType)),
		Data:      map[string]any{"taskId": p.TaskID, "resultId": lo.FromPtr(p.ResultID)},
		CreatedAt: e.OccurredAt,
	})
}

func (h *Handlers) taskFailed(ctx context.Context, e event.Event) error {
	p, err := decode[event.AITaskFailed](h.validate, e.Payload)
	if err != nil {
		return err
	}
	if err = h.toTask(ctx, p.UserID, domain.NewOutbound(domain.TaskFailed, p)); err != nil {
		return err
	}
	err = h.toTask(ctx, p.UserID, domain.NewOutbound(domain.TaskProgress, domain.Progress{
		TaskID:    p.TaskID,
		UserID:    p.UserID,
		Status:    domain.ProgressFailed,
		Error:     p.ErrorMessage,
		Timestamp: e.OccurredAt,
	}))
	if err != nil {
		return err
	}
	return h.notify(ctx, domain.Notification{
		UserID:    p.UserID,
		Type:      domain.NotificationError,
		Title:     "Task failed",
		Content:   p.ErrorMessage,
		Data:      map[string]any{"taskId": p.TaskID, "errorCode": lo.FromPtr(p.ErrorCode)},
		CreatedAt: e.OccurredAt,
	})
}

func (h *Handlers) cityImageGenerated(ctx context.Context, e event.Event) error {
	p, err := decode[event.CityImageGenerated](h.validate, e.Payload)
	if err != nil {
		return err
	}
	msg := domain.NewOutbound(domain.CityImageUpdated, p)
	if err = h.dispatcher.Unicast(ctx, p.UserID, msg); err != nil {
		return err
	}
	if err = h.dispatcher.GroupMulticast(ctx, domain.CityGroup(p.CityID), msg); err != nil {
		return err
	}

	progress := domain.Progress{TaskID: p.TaskID, UserID: p.UserID, Progress: 100, Status: domain.ProgressCompleted, Timestamp: e.OccurredAt}
	notification := domain.Notification{
		UserID:    p.UserID,
		Type:      domain.NotificationSuccess,
		Title:     "City images ready",
		Content:   fmt.Sprintf("New images were generated for %s.", lo.Ternary(p.CityName == "", p.CityID, p.CityName)),
		Data:      map[string]any{"cityId": p.CityID, "taskId": p.TaskID},
		CreatedAt: e.OccurredAt,
	}
	if !p.Success {
		progress.Progress = 0
		progress.Status = domain.ProgressFailed
		progress.Error = lo.FromPtr(p.ErrorMessage)
		notification.Type = domain.NotificationError
		notification.Title = "City image generation failed"
		notification.Content = lo.FromPtrOr(p.ErrorMessage, "Image generation failed.")
	}
	if err = h.toTask(ctx, p.UserID, domain.NewOutbound(domain.TaskProgress, progress)); err != nil {
		return err
	}
	return h.notify(ctx, notification)
}

// roomPresence applies an external presence trigger. Exits below zero are ignored by the tracker.
func (h *Handlers) roomPresence(ctx context.Context, e event.Event) error {
	p, err := decode[event.RoomPresenceChanged](h.validate, e.Payload)
	if err != nil {
		return err
	}
	room, err := h.rooms.ResolveRoom(ctx, p.RoomID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRoomNotFound) || errors.Is(err, apperrors.ErrInvalidRoomKey) {
			return fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
		}
		return err
	}
	switch domain.PresenceEventType(p.EventType) {
	case domain.PresenceJoined:
		_, err = h.presence.EnterRoom(ctx, p.UserID, room.ID)
	default:
		_, err = h.presence.ExitRoom(ctx, p.UserID, room.ID)
	}
	return err
}

// cityUpdate multicasts the payload to the city channel as the latest snapshot.
func cityUpdate[T any](h *Handlers, outbound domain.OutboundType, city func(T) string) Handler {
	return func(ctx context.Context, e event.Event) error {
		p, err := decode[T](h.validate, e.Payload)
		if err != nil {
			return err
		}
		return h.dispatcher.GroupMulticast(ctx, domain.CityGroup(city(p)), domain.NewOutbound(outbound, p))
	}
}

func (h *Handlers) coworkingVerification(ctx context.Context, e event.Event) error {
	p, err := decode[event.CoworkingVerificationVotes](h.validate, e.Payload)
	if err != nil {
		return err
	}
	p.Timestamp = lo.ToPtr(lo.FromPtrOr(p.Timestamp, e.OccurredAt))
	return h.dispatcher.GroupMulticast(ctx, domain.CoworkingGroup(p.CoworkingID),
		domain.NewOutbound(domain.CoworkingVerificationUpdated, p))
}

// notification is unicast when it targets a user and broadcast otherwise.
func (h *Handlers) notification(ctx context.Context, e event.Event) error {
	p, err := decode[event.Notification](h.validate, e.Payload)
	if err != nil {
		return err
	}
	return h.notify(ctx, domain.Notification{
		UserID:    lo.FromPtr(p.UserID),
		Type:      p.Type,
		Title:     p.Title,
		Content:   p.Content,
		Data:      p.Data,
		CreatedAt: lo.FromPtrOr(p.CreatedAt, e.OccurredAt),
	})
}

func (h *Handlers) notify(ctx context.Context, n domain.Notification) error {
	msg := domain.NewOutbound(domain.ReceiveNotification, n)
	if n.UserID == "" {
		return h.dispatcher.Broadcast(ctx, msg)
	}
	return h.dispatcher.Unicast(ctx, n.UserID, msg)
}

// toTask reaches the owner of the task only.
func (h *Handlers) toTask(ctx context.Context, userID string, msg domain.Outbound) error {
	return h.dispatcher.Unicast(ctx, userID, msg)
}

// decode unmarshals and validates a payload. Both failures wrap ErrInvalidPayload,
// redelivering such an event cannot succeed.
func decode[T any](validate *validator.Validate, raw json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	if err := validate.Struct(payload); err != nil {
		return payload, fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	return payload, nil
}
