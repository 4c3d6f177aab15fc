package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a knowledge base or persona card.
type Comment struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	TargetType   string    `db:"target_type" json:"target_type"`
	TargetID     int64     `db:"target_id" json:"target_id"`
	ParentID     *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Content      string    `db:"content" json:"content"`
	IsDeleted    bool      `db:"is_deleted" json:"-"`
	LikeCount    int       `db:"like_count" json:"like_count"`
	DislikeCount int       `db:"dislike_count" json:"dislike_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Joined/annotated fields (not in comments table)
	Author     *UserSummary `json:"author,omitempty"`
	MyReaction string       `json:"my_reaction"`
}

// CommentReaction is a user's like/dislike opinion on a single comment.
// At most one row exists per (user_id, comment_id) pair; the row is
// hard-deleted when the reaction is cleared or toggled off.
type CommentReaction struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	CommentID    int64     `db:"comment_id" json:"comment_id"`
	ReactionType string    `db:"reaction_type" json:"reaction_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Reaction states. The absence of a reaction row is ReactionNone.
const (
	ReactionNone    = ""
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Reaction actions a user can issue against a comment.
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
	ActionClear   = "clear"
)

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Content    string `json:"content"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	ParentID   *int64 `json:"parent_id,omitempty"`
}

// ReactRequest is the request body for reacting to a comment.
type ReactRequest struct {
	Action string `json:"action"`
}

// ReactResponse carries the updated counts and the caller's reaction.
type ReactResponse struct {
	CommentID    int64  `json:"comment_id"`
	LikeCount    int    `json:"like_count"`
	DislikeCount int    `json:"dislike_count"`
	MyReaction   string `json:"my_reaction"`
}

// CommentListResponse is the comment list response for a target.
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// Comment constraints
const (
	MaxCommentLength = 500
)

// Comment errors
var (
	ErrCommentNotFound   = errors.New("comment not found")
	ErrContentRequired   = errors.New("comment content is required")
	ErrContentTooLong    = errors.New("content cannot exceed 500 characters")
	ErrParentNotTopLevel = errors.New("replies cannot be nested: parent must be a top-level comment")
	ErrParentWrongTarget = errors.New("parent comment belongs to a different target")
	ErrInvalidReaction   = errors.New("action must be like, dislike, or clear")
	ErrContentRejected   = errors.New("content rejected by moderation")
)
