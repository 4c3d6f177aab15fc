package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lorehub/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment and fills the generated fields.
func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, c *model.Comment) error {
	query := `
		INSERT INTO comments (user_id, target_type, target_id, parent_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	row := tx.QueryRowxContext(ctx, query, c.UserID, c.TargetType, c.TargetID, c.ParentID, c.Content)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// GetByID fetches a comment row regardless of its is_deleted flag.
// Delete/restore permission checks need the row even when it is soft-deleted.
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `
		SELECT id, user_id, target_type, target_id, parent_id, content,
		       is_deleted, like_count, dislike_count, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var c model.Comment
	err := r.db.GetContext(ctx, &c, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

// ListByTarget returns all non-deleted comments for a target, top-level and
// replies flattened, oldest first. The ascending order governs the UI's
// conversation order and must be preserved.
func (r *commentRepository) ListByTarget(ctx context.Context, targetType string, targetID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.user_id, c.target_type, c.target_id, c.parent_id, c.content,
		       c.is_deleted, c.like_count, c.dislike_count, c.created_at, c.updated_at,
		       u.id as "author.id", u.username as "author.username",
		       u.display_name as "author.display_name", u.avatar_url as "author.avatar_url"
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.target_type = $1 AND c.target_id = $2 AND c.is_deleted = FALSE
		ORDER BY c.created_at ASC, c.id ASC
	`

	type commentRow struct {
		ID            int64     `db:"id"`
		UserID        int64     `db:"user_id"`
		TargetType    string    `db:"target_type"`
		TargetID      int64     `db:"target_id"`
		ParentID      *int64    `db:"parent_id"`
		Content       string    `db:"content"`
		IsDeleted     bool      `db:"is_deleted"`
		LikeCount     int       `db:"like_count"`
		DislikeCount  int       `db:"dislike_count"`
		CreatedAt     time.Time `db:"created_at"`
		UpdatedAt     time.Time `db:"updated_at"`
		AuthorID      int64     `db:"author.id"`
		AuthorName    string    `db:"author.username"`
		AuthorDisplay *string   `db:"author.display_name"`
		AuthorAvatar  *string   `db:"author.avatar_url"`
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, targetType, targetID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = model.Comment{
			ID:           row.ID,
			UserID:       row.UserID,
			TargetType:   row.TargetType,
			TargetID:     row.TargetID,
			ParentID:     row.ParentID,
			Content:      row.Content,
			IsDeleted:    row.IsDeleted,
			LikeCount:    row.LikeCount,
			DislikeCount: row.DislikeCount,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
			Author: &model.UserSummary{
				ID:          row.AuthorID,
				Username:    row.AuthorName,
				DisplayName: row.AuthorDisplay,
				AvatarURL:   row.AuthorAvatar,
			},
		}
	}
	return comments, nil
}

// SetDeleted flips the soft-delete flag for a single comment.
// Writing the same value again is a no-op at the row level.
func (r *commentRepository) SetDeleted(ctx context.Context, tx *sqlx.Tx, commentID int64, deleted bool) error {
	query := `
		UPDATE comments
		SET is_deleted = $1, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, query, deleted, commentID); err != nil {
		return fmt.Errorf("set comment deleted: %w", err)
	}
	return nil
}

// SetDeletedByParent cascades the identical is_deleted value to every direct
// child of a top-level comment.
func (r *commentRepository) SetDeletedByParent(ctx context.Context, tx *sqlx.Tx, parentID int64, deleted bool) (int64, error) {
	query := `
		UPDATE comments
		SET is_deleted = $1, updated_at = NOW()
		WHERE parent_id = $2
	`
	res, err := tx.ExecContext(ctx, query, deleted, parentID)
	if err != nil {
		return 0, fmt.Errorf("cascade comment deleted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cascade rows affected: %w", err)
	}
	return n, nil
}

// AddReactionCounts adjusts the cosmetic like/dislike counters.
// GREATEST clamps at zero so pre-existing drift can never push a count negative.
func (r *commentRepository) AddReactionCounts(ctx context.Context, tx *sqlx.Tx, commentID int64, likeDelta, dislikeDelta int) error {
	query := `
		UPDATE comments
		SET like_count = GREATEST(like_count + $1, 0),
		    dislike_count = GREATEST(dislike_count + $2, 0),
		    updated_at = NOW()
		WHERE id = $3
	`
	if _, err := tx.ExecContext(ctx, query, likeDelta, dislikeDelta, commentID); err != nil {
		return fmt.Errorf("update reaction counts: %w", err)
	}
	return nil
}

// GetCounts returns the current like/dislike counts for a comment.
func (r *commentRepository) GetCounts(ctx context.Context, commentID int64) (int, int, error) {
	var counts struct {
		LikeCount    int `db:"like_count"`
		DislikeCount int `db:"dislike_count"`
	}
	query := `SELECT like_count, dislike_count FROM comments WHERE id = $1`
	err := r.db.GetContext(ctx, &counts, query, commentID)
	if err == sql.ErrNoRows {
		return 0, 0, model.ErrCommentNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get comment counts: %w", err)
	}
	return counts.LikeCount, counts.DislikeCount, nil
}
