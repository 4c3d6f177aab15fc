package model

import (
	"errors"
	"time"
)

// Message types
const (
	MessageTypeDirect       = "direct"
	MessageTypeAnnouncement = "announcement"
	MessageTypeComment      = "comment"
	MessageTypeReaction     = "reaction"
	MessageTypeSystem       = "system"
)

// ValidMessageType reports whether s is a known message type.
func ValidMessageType(s string) bool {
	switch s {
	case MessageTypeDirect, MessageTypeAnnouncement, MessageTypeComment,
		MessageTypeReaction, MessageTypeSystem:
		return true
	}
	return false
}

// Broadcast scope values. Only meaningful when message_type is announcement.
const (
	BroadcastScopeAllUsers = "all_users"
)

// Message constraints
const (
	MaxSummaryLength = 150

	// BroadcastWindow bounds the created_at spread of rows belonging to one
	// logical broadcast. There is no broadcast entity in the schema; rows
	// produced by one send share sender, title, type, scope and a created_at
	// within this window of each other.
	BroadcastWindow = time.Second
)

// Message represents a single per-recipient message row. A broadcast send
// produces one row per recipient; the rows are identified post-hoc as an
// equivalence class (see MessageRepository.FindSiblings).
type Message struct {
	ID             int64     `db:"id" json:"id"`
	SenderID       int64     `db:"sender_id" json:"sender_id"`
	RecipientID    int64     `db:"recipient_id" json:"-"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"`
	Summary        string    `db:"summary" json:"summary"`
	MessageType    string    `db:"message_type" json:"message_type"`
	BroadcastScope *string   `db:"broadcast_scope" json:"broadcast_scope,omitempty"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	Sender *UserSummary `json:"sender,omitempty"` // Joined field
}

// SendMessageRequest is the request body for sending a message or broadcast.
type SendMessageRequest struct {
	RecipientID    *int64  `json:"recipient_id,omitempty"`
	RecipientIDs   []int64 `json:"recipient_ids,omitempty"`
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	Summary        string  `json:"summary,omitempty"`
	MessageType    string  `json:"message_type"`
	BroadcastScope string  `json:"broadcast_scope,omitempty"`
}

// SendMessageResponse reports the created rows.
type SendMessageResponse struct {
	MessageIDs []int64 `json:"message_ids"`
	Count      int     `json:"count"`
}

// UpdateMessageRequest is the request body for updating a broadcast.
type UpdateMessageRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// BroadcastStats summarizes read state across one broadcast's rows.
type BroadcastStats struct {
	TotalSent   int `json:"total_sent"`
	TotalRead   int `json:"total_read"`
	TotalUnread int `json:"total_unread"`
}

// MessageListResponse is the inbox listing response.
type MessageListResponse struct {
	Messages    []Message `json:"messages"`
	UnreadCount int       `json:"unread_count"`
}

// Message errors
var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrTitleRequired      = errors.New("message title is required")
	ErrBodyRequired       = errors.New("message content is required")
)
