package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lorehub/internal/httputil"
	"lorehub/internal/model"
	"lorehub/internal/service"
)

type TargetHandler struct {
	targetService *service.TargetService
}

func NewTargetHandler(targetService *service.TargetService) *TargetHandler {
	return &TargetHandler{
		targetService: targetService,
	}
}

func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

// ListKnowledgeBases handles GET /knowledge-bases
func (h *TargetHandler) ListKnowledgeBases(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	items, err := h.targetService.ListKnowledgeBases(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[ERROR] List knowledge bases handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list knowledge bases")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.TargetListResponse{Items: items, Count: len(items)})
}

// GetKnowledgeBase handles GET /knowledge-bases/{id}
func (h *TargetHandler) GetKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid knowledge base ID")
		return
	}

	kb, err := h.targetService.GetKnowledgeBase(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrTargetNotFound) {
			httputil.WriteNotFound(w, "Knowledge base not found")
			return
		}
		log.Printf("[ERROR] Get knowledge base handler: id=%d err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to get knowledge base")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, kb)
}

// ListPersonaCards handles GET /personas
func (h *TargetHandler) ListPersonaCards(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	items, err := h.targetService.ListPersonaCards(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[ERROR] List persona cards handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list persona cards")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.TargetListResponse{Items: items, Count: len(items)})
}

// GetPersonaCard handles GET /personas/{id}
func (h *TargetHandler) GetPersonaCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid persona card ID")
		return
	}

	pc, err := h.targetService.GetPersonaCard(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrTargetNotFound) {
			httputil.WriteNotFound(w, "Persona card not found")
			return
		}
		log.Printf("[ERROR] Get persona card handler: id=%d err=%v", id, err)
		httputil.WriteInternalError(w, "Failed to get persona card")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pc)
}
