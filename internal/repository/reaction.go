package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lorehub/internal/model"
)

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// GetType returns the user's reaction to a comment, or ReactionNone when the
// (user, comment) pair has no row.
func (r *reactionRepository) GetType(ctx context.Context, userID, commentID int64) (string, error) {
	var reactionType string
	query := `
		SELECT reaction_type FROM comment_reactions
		WHERE user_id = $1 AND comment_id = $2
	`
	err := r.db.GetContext(ctx, &reactionType, query, userID, commentID)
	if err == sql.ErrNoRows {
		return model.ReactionNone, nil
	}
	if err != nil {
		return model.ReactionNone, fmt.Errorf("get reaction: %w", err)
	}
	return reactionType, nil
}

// GetForComments returns the user's reactions across many comments, keyed by
// comment id. Comments without a reaction row are simply absent from the map.
func (r *reactionRepository) GetForComments(ctx context.Context, userID int64, commentIDs []int64) (map[int64]string, error) {
	result := make(map[int64]string)
	if len(commentIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT comment_id, reaction_type FROM comment_reactions
		WHERE user_id = $1 AND comment_id = ANY($2)
	`
	var rows []struct {
		CommentID    int64  `db:"comment_id"`
		ReactionType string `db:"reaction_type"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, userID, pq.Array(commentIDs)); err != nil {
		return nil, fmt.Errorf("get reactions for comments: %w", err)
	}

	for _, row := range rows {
		result[row.CommentID] = row.ReactionType
	}
	return result, nil
}

// Create inserts a reaction row for a first like/dislike.
func (r *reactionRepository) Create(ctx context.Context, tx *sqlx.Tx, userID, commentID int64, reactionType string) error {
	query := `
		INSERT INTO comment_reactions (user_id, comment_id, reaction_type)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, query, userID, commentID, reactionType); err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	return nil
}

// UpdateType mutates the row in place when switching like <-> dislike.
func (r *reactionRepository) UpdateType(ctx context.Context, tx *sqlx.Tx, userID, commentID int64, reactionType string) error {
	query := `
		UPDATE comment_reactions
		SET reaction_type = $1
		WHERE user_id = $2 AND comment_id = $3
	`
	if _, err := tx.ExecContext(ctx, query, reactionType, userID, commentID); err != nil {
		return fmt.Errorf("update reaction: %w", err)
	}
	return nil
}

// Delete removes the row when a reaction is cleared or toggled off.
// Reactions are hard-deleted, never soft-deleted.
func (r *reactionRepository) Delete(ctx context.Context, tx *sqlx.Tx, userID, commentID int64) error {
	query := `
		DELETE FROM comment_reactions
		WHERE user_id = $1 AND comment_id = $2
	`
	if _, err := tx.ExecContext(ctx, query, userID, commentID); err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return nil
}
