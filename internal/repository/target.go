package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lorehub/internal/model"
)

type targetRepository struct {
	db *sqlx.DB
}

func NewTargetRepository(db *sqlx.DB) TargetRepository {
	return &targetRepository{db: db}
}

// GetOwnerID returns the owner of the given target.
// The target_type is validated by the service layer before this is called,
// but an unknown value still fails safely as not found.
func (r *targetRepository) GetOwnerID(ctx context.Context, targetType string, targetID int64) (int64, error) {
	var table string
	switch targetType {
	case model.TargetKnowledge:
		table = "knowledge_bases"
	case model.TargetPersona:
		table = "persona_cards"
	default:
		return 0, model.ErrTargetNotFound
	}

	var ownerID int64
	query := fmt.Sprintf(`SELECT user_id FROM %s WHERE id = $1`, table)
	err := r.db.GetContext(ctx, &ownerID, query, targetID)
	if err == sql.ErrNoRows {
		return 0, model.ErrTargetNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get target owner: %w", err)
	}
	return ownerID, nil
}

// ListKnowledgeBases returns public knowledge bases, newest first.
func (r *targetRepository) ListKnowledgeBases(ctx context.Context, limit, offset int) ([]model.KnowledgeBase, error) {
	query := `
		SELECT k.id, k.user_id, k.name, k.description, k.is_public, k.created_at, k.updated_at,
		       u.id as "author.id", u.username as "author.username",
		       u.display_name as "author.display_name", u.avatar_url as "author.avatar_url"
		FROM knowledge_bases k
		JOIN users u ON u.id = k.user_id
		WHERE k.is_public = TRUE
		ORDER BY k.created_at DESC
		LIMIT $1 OFFSET $2
	`
	var rows []struct {
		model.KnowledgeBase
		Author model.UserSummary `db:"author"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list knowledge bases: %w", err)
	}

	items := make([]model.KnowledgeBase, len(rows))
	for i, row := range rows {
		items[i] = row.KnowledgeBase
		author := row.Author
		items[i].Author = &author
	}
	return items, nil
}

// GetKnowledgeBase retrieves a single knowledge base.
func (r *targetRepository) GetKnowledgeBase(ctx context.Context, id int64) (*model.KnowledgeBase, error) {
	query := `
		SELECT id, user_id, name, description, is_public, created_at, updated_at
		FROM knowledge_bases
		WHERE id = $1
	`
	var kb model.KnowledgeBase
	err := r.db.GetContext(ctx, &kb, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get knowledge base: %w", err)
	}
	return &kb, nil
}

// ListPersonaCards returns public persona cards, newest first.
func (r *targetRepository) ListPersonaCards(ctx context.Context, limit, offset int) ([]model.PersonaCard, error) {
	query := `
		SELECT p.id, p.user_id, p.name, p.tagline, p.description, p.is_public, p.created_at, p.updated_at,
		       u.id as "author.id", u.username as "author.username",
		       u.display_name as "author.display_name", u.avatar_url as "author.avatar_url"
		FROM persona_cards p
		JOIN users u ON u.id = p.user_id
		WHERE p.is_public = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	var rows []struct {
		model.PersonaCard
		Author model.UserSummary `db:"author"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list persona cards: %w", err)
	}

	items := make([]model.PersonaCard, len(rows))
	for i, row := range rows {
		items[i] = row.PersonaCard
		author := row.Author
		items[i].Author = &author
	}
	return items, nil
}

// GetPersonaCard retrieves a single persona card.
func (r *targetRepository) GetPersonaCard(ctx context.Context, id int64) (*model.PersonaCard, error) {
	query := `
		SELECT id, user_id, name, tagline, description, is_public, created_at, updated_at
		FROM persona_cards
		WHERE id = $1
	`
	var pc model.PersonaCard
	err := r.db.GetContext(ctx, &pc, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get persona card: %w", err)
	}
	return &pc, nil
}
