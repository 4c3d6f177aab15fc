package model

import (
	"errors"
	"time"
)

// Comment target types
const (
	TargetKnowledge = "knowledge"
	TargetPersona   = "persona"
)

// ValidTargetType reports whether s names a commentable entity type.
func ValidTargetType(s string) bool {
	return s == TargetKnowledge || s == TargetPersona
}

// KnowledgeBase represents an uploaded knowledge base.
type KnowledgeBase struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Author *UserSummary `json:"author,omitempty"` // Joined field
}

// PersonaCard represents an uploaded persona card.
type PersonaCard struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Tagline     *string   `db:"tagline" json:"tagline"`
	Description *string   `db:"description" json:"description"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Author *UserSummary `json:"author,omitempty"` // Joined field
}

// TargetListResponse is the paginated target list response.
type TargetListResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}

// Target errors
var (
	ErrTargetNotFound    = errors.New("target not found")
	ErrInvalidTargetType = errors.New("target_type must be knowledge or persona")
)
