package service

import (
	"context"

	"lorehub/internal/model"
	"lorehub/internal/repository"
)

// TargetService serves the thin browsing surface for knowledge bases and
// persona cards. Upload, packaging, and parsing are external concerns.
type TargetService struct {
	targetRepo repository.TargetRepository
}

func NewTargetService(targetRepo repository.TargetRepository) *TargetService {
	return &TargetService{targetRepo: targetRepo}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListKnowledgeBases returns public knowledge bases, newest first.
func (s *TargetService) ListKnowledgeBases(ctx context.Context, limit, offset int) ([]model.KnowledgeBase, error) {
	limit, offset = clampPage(limit, offset)
	return s.targetRepo.ListKnowledgeBases(ctx, limit, offset)
}

// GetKnowledgeBase returns a single knowledge base.
func (s *TargetService) GetKnowledgeBase(ctx context.Context, id int64) (*model.KnowledgeBase, error) {
	return s.targetRepo.GetKnowledgeBase(ctx, id)
}

// ListPersonaCards returns public persona cards, newest first.
func (s *TargetService) ListPersonaCards(ctx context.Context, limit, offset int) ([]model.PersonaCard, error) {
	limit, offset = clampPage(limit, offset)
	return s.targetRepo.ListPersonaCards(ctx, limit, offset)
}

// GetPersonaCard returns a single persona card.
func (s *TargetService) GetPersonaCard(ctx context.Context, id int64) (*model.PersonaCard, error) {
	return s.targetRepo.GetPersonaCard(ctx, id)
}
