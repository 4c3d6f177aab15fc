package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lorehub/internal/model"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by their ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, display_name, avatar_url, bio, role,
		       is_muted, muted_until, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

// GetSummaries returns lightweight user info for the given ids, keyed by id.
func (r *userRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	result := make(map[int64]model.UserSummary)
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, username, display_name, avatar_url
		FROM users
		WHERE id = ANY($1)
	`
	var summaries []model.UserSummary
	if err := r.db.SelectContext(ctx, &summaries, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("get user summaries: %w", err)
	}

	for _, s := range summaries {
		result[s.ID] = s
	}
	return result, nil
}

// GetAllIDs returns every user id, used to resolve all_users broadcasts.
func (r *userRepository) GetAllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("get all user ids: %w", err)
	}
	return ids, nil
}
