package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lorehub/internal/httputil"
	"lorehub/internal/model"
	"lorehub/internal/service"
	"lorehub/internal/transport/http/middleware"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// Send handles POST /messages/send
// Fans a message out to one or many recipients; an all_users announcement
// reaches every user.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	result, err := h.messageService.Send(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Message title is required")
		case errors.Is(err, model.ErrBodyRequired):
			httputil.WriteBadRequest(w, "Message content is required")
		case errors.Is(err, model.ErrInvalidMessageType):
			httputil.WriteBadRequest(w, "Invalid message type")
		default:
			log.Printf("[ERROR] Send message handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to send message")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}

// List handles GET /messages?unread=&limit=
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	result, err := h.messageService.List(r.Context(), userID, unreadOnly, limit)
	if err != nil {
		log.Printf("[ERROR] List messages handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get messages")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// UnreadCount handles GET /messages/unread-count
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	count, err := h.messageService.UnreadCount(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Unread count handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get unread count")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// MarkRead handles POST /messages/{id}/read
// Only the owning recipient can mark their copy as read.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	if err := h.messageService.MarkRead(r.Context(), messageID, userID); err != nil {
		if errors.Is(err, model.ErrMessageNotFound) {
			httputil.WriteNotFound(w, "Message not found")
			return
		}
		log.Printf("[ERROR] Mark read handler: user=%d message=%d err=%v", userID, messageID, err)
		httputil.WriteInternalError(w, "Failed to mark message read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"id": messageID})
}

// Delete handles DELETE /messages/{id}
// For a broadcast seed id owned by the sender, the whole sibling set goes; a
// recipient only deletes their own row. A zero count means no permission.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	deleted, err := h.messageService.Delete(r.Context(), messageID, userID)
	if err != nil {
		if errors.Is(err, model.ErrMessageNotFound) {
			httputil.WriteNotFound(w, "Message not found")
			return
		}
		log.Printf("[ERROR] Delete message handler: user=%d message=%d err=%v", userID, messageID, err)
		httputil.WriteInternalError(w, "Failed to delete message")
		return
	}
	if deleted == 0 {
		httputil.WriteForbidden(w, "Only the message recipient or the broadcast sender can delete it")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"deleted_count": deleted})
}

// Update handles PUT /messages/{id}
// Updates every row of a broadcast identically; sender only.
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	var req model.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	updated, err := h.messageService.UpdateBroadcast(r.Context(), messageID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMessageNotFound):
			httputil.WriteNotFound(w, "Message not found")
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Message title is required")
		case errors.Is(err, model.ErrBodyRequired):
			httputil.WriteBadRequest(w, "Message content is required")
		default:
			log.Printf("[ERROR] Update message handler: user=%d message=%d err=%v", userID, messageID, err)
			httputil.WriteInternalError(w, "Failed to update message")
		}
		return
	}
	if updated == 0 {
		httputil.WriteForbidden(w, "Only the broadcast sender can update it")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"updated_count": updated})
}

// Stats handles GET /messages/{id}/stats
// Read statistics across a broadcast's rows; sender only.
func (h *MessageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	messageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid message ID")
		return
	}

	stats, err := h.messageService.BroadcastStats(r.Context(), messageID, userID)
	if err != nil {
		if errors.Is(err, model.ErrMessageNotFound) {
			httputil.WriteNotFound(w, "Message not found")
			return
		}
		log.Printf("[ERROR] Broadcast stats handler: user=%d message=%d err=%v", userID, messageID, err)
		httputil.WriteInternalError(w, "Failed to get broadcast stats")
		return
	}
	if stats.TotalSent == 0 {
		httputil.WriteForbidden(w, "Only the broadcast sender can view its stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}
