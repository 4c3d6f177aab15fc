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

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List handles GET /comments?target_type=&target_id=
// Public with optional auth; authenticated callers get my_reaction annotations.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	targetType := r.URL.Query().Get("target_type")
	targetID, err := strconv.ParseInt(r.URL.Query().Get("target_id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid target ID")
		return
	}

	var viewerID *int64
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &userID
	}

	comments, err := h.commentService.List(r.Context(), targetType, targetID, viewerID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTargetType):
			httputil.WriteBadRequest(w, "target_type must be knowledge or persona")
		case errors.Is(err, model.ErrTargetNotFound):
			httputil.WriteNotFound(w, "Target not found")
		default:
			log.Printf("[ERROR] List comments handler: target=%s/%d err=%v", targetType, targetID, err)
			httputil.WriteInternalError(w, "Failed to get comments")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// Create handles POST /comments
// Creates a comment (or a one-level reply) for the authenticated user.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Content cannot exceed 500 characters")
		case errors.Is(err, model.ErrInvalidTargetType):
			httputil.WriteBadRequest(w, "target_type must be knowledge or persona")
		case errors.Is(err, model.ErrContentRejected):
			httputil.WriteBadRequest(w, "Content was rejected by moderation")
		case errors.Is(err, model.ErrTargetNotFound):
			httputil.WriteNotFound(w, "Target not found")
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Parent comment not found")
		case errors.Is(err, model.ErrParentNotTopLevel):
			httputil.WriteBadRequest(w, "Replies cannot be nested: parent must be a top-level comment")
		case errors.Is(err, model.ErrParentWrongTarget):
			httputil.WriteBadRequest(w, "Parent comment belongs to a different target")
		case errors.Is(err, model.ErrUserMutedPermanently):
			httputil.WriteForbidden(w, "Your account is permanently muted (永久禁言)")
		case errors.Is(err, model.ErrUserMuted):
			httputil.WriteForbidden(w, "Your account is temporarily muted")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// React handles POST /comments/{id}/react
// Applies a like/dislike/clear action and returns the updated counts.
func (h *CommentHandler) React(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	var req model.ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	result, err := h.commentService.React(r.Context(), commentID, userID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrInvalidReaction):
			httputil.WriteBadRequest(w, "Action must be like, dislike, or clear")
		default:
			log.Printf("[ERROR] React handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to react to comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /comments/{id}
// Soft-deletes a comment; top-level deletes cascade to direct replies.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.setDeleted(w, r, true)
}

// Restore handles POST /comments/{id}/restore
// Un-deletes a comment; top-level restores cascade to direct replies.
func (h *CommentHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setDeleted(w, r, false)
}

func (h *CommentHandler) setDeleted(w http.ResponseWriter, r *http.Request, deleted bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if deleted {
		err = h.commentService.Delete(r.Context(), commentID, userID)
	} else {
		err = h.commentService.Restore(r.Context(), commentID, userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrPermissionDenied):
			httputil.WriteForbidden(w, "Requires comment author, target owner, or moderator role")
		default:
			log.Printf("[ERROR] Set comment deleted handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to update comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"id": commentID})
}
