package worker

import (
	"context"
	"fmt"
	"log"

	"lorehub/internal/queue"
)

// UpdateNotifier delivers a refresh signal to connected clients.
// The websocket hub implements it; workers never touch connections directly.
type UpdateNotifier interface {
	NotifyUsers(ctx context.Context, userIDs []int64) error
}

// Handler processes update events from the queue.
type Handler struct {
	notifier UpdateNotifier
}

// NewHandler creates a new event handler.
func NewHandler(notifier UpdateNotifier) *Handler {
	return &Handler{notifier: notifier}
}

// HandleEvent dispatches a single event. Unknown event types are logged and
// acknowledged; the stream must keep draining.
func (h *Handler) HandleEvent(ctx context.Context, event queue.UpdateEvent) error {
	switch event.Type {
	case queue.EventUserUpdate:
		return h.handleUserUpdate(ctx, event)
	default:
		log.Printf("[Handler] Unknown event type: %s", event.Type)
		return nil
	}
}

func (h *Handler) handleUserUpdate(ctx context.Context, event queue.UpdateEvent) error {
	if len(event.UserIDs) == 0 {
		return nil
	}
	if err := h.notifier.NotifyUsers(ctx, event.UserIDs); err != nil {
		return fmt.Errorf("notify users: %w", err)
	}
	return nil
}
