package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lorehub/internal/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	// GetAllIDs returns every user id, for all_users broadcast resolution.
	GetAllIDs(ctx context.Context) ([]int64, error)
}

type TargetRepository interface {
	// GetOwnerID returns the owning user of a knowledge base or persona card.
	// Returns model.ErrTargetNotFound when the target does not exist.
	GetOwnerID(ctx context.Context, targetType string, targetID int64) (int64, error)
	ListKnowledgeBases(ctx context.Context, limit, offset int) ([]model.KnowledgeBase, error)
	GetKnowledgeBase(ctx context.Context, id int64) (*model.KnowledgeBase, error)
	ListPersonaCards(ctx context.Context, limit, offset int) ([]model.PersonaCard, error)
	GetPersonaCard(ctx context.Context, id int64) (*model.PersonaCard, error)
}

type CommentRepository interface {
	// Create inserts the comment and fills ID/CreatedAt/UpdatedAt.
	Create(ctx context.Context, tx *sqlx.Tx, c *model.Comment) error
	// GetByID fetches the row regardless of its is_deleted flag.
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	// ListByTarget returns non-deleted comments (top-level and replies
	// flattened) ordered by created_at ascending, with joined authors.
	ListByTarget(ctx context.Context, targetType string, targetID int64) ([]model.Comment, error)
	SetDeleted(ctx context.Context, tx *sqlx.Tx, commentID int64, deleted bool) error
	// SetDeletedByParent applies the flag to every direct child of parentID
	// and returns the number of rows touched.
	SetDeletedByParent(ctx context.Context, tx *sqlx.Tx, parentID int64, deleted bool) (int64, error)
	// AddReactionCounts adjusts like/dislike counts, clamped at zero.
	AddReactionCounts(ctx context.Context, tx *sqlx.Tx, commentID int64, likeDelta, dislikeDelta int) error
	GetCounts(ctx context.Context, commentID int64) (likeCount, dislikeCount int, err error)
}

type ReactionRepository interface {
	// GetType returns the reaction for (user, comment), or model.ReactionNone
	// when no row exists.
	GetType(ctx context.Context, userID, commentID int64) (string, error)
	// GetForComments returns the user's reactions keyed by comment id.
	GetForComments(ctx context.Context, userID int64, commentIDs []int64) (map[int64]string, error)
	Create(ctx context.Context, tx *sqlx.Tx, userID, commentID int64, reactionType string) error
	UpdateType(ctx context.Context, tx *sqlx.Tx, userID, commentID int64, reactionType string) error
	Delete(ctx context.Context, tx *sqlx.Tx, userID, commentID int64) error
}

type MessageRepository interface {
	// CreateBatch inserts one row per message in a single statement and
	// returns the assigned ids in input order.
	CreateBatch(ctx context.Context, tx *sqlx.Tx, msgs []model.Message) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]model.Message, error)
	UnreadCount(ctx context.Context, recipientID int64) (int, error)
	// MarkRead flips is_read for the recipient's own row.
	MarkRead(ctx context.Context, id, recipientID int64) error
	// DeleteForRecipient removes the recipient's own row, returning rows deleted.
	DeleteForRecipient(ctx context.Context, id, recipientID int64) (int64, error)
	// FindSiblings resolves the seed's broadcast equivalence class: rows with
	// the same sender, title, announcement type and all_users scope whose
	// created_at lies within model.BroadcastWindow of the seed's.
	FindSiblings(ctx context.Context, seed *model.Message) ([]model.Message, error)
	DeleteSiblings(ctx context.Context, seed *model.Message) (int64, error)
	UpdateSiblings(ctx context.Context, seed *model.Message, title, content, summary string) (int64, error)
}
