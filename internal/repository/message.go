package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"lorehub/internal/model"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

// CreateBatch inserts one row per recipient in a single multi-row statement.
// All rows carry the created_at set on the models, so a broadcast's rows share
// one timestamp and stay inside the sibling-resolution window.
func (r *messageRepository) CreateBatch(ctx context.Context, tx *sqlx.Tx, msgs []model.Message) ([]int64, error) {
	if len(msgs) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO messages (sender_id, recipient_id, title, content, summary,
		                      message_type, broadcast_scope, created_at)
		VALUES `)

	args := make([]interface{}, 0, len(msgs)*8)
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args, m.SenderID, m.RecipientID, m.Title, m.Content,
			m.Summary, m.MessageType, m.BroadcastScope, m.CreatedAt)
	}
	sb.WriteString(" RETURNING id")

	var ids []int64
	if err := tx.SelectContext(ctx, &ids, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("insert messages: %w", err)
	}
	return ids, nil
}

// GetByID retrieves a single message row.
func (r *messageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, title, content, summary,
		       message_type, broadcast_scope, is_read, created_at
		FROM messages
		WHERE id = $1
	`
	var m model.Message
	err := r.db.GetContext(ctx, &m, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &m, nil
}

// ListByRecipient returns a user's inbox, newest first, with joined senders.
func (r *messageRepository) ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]model.Message, error) {
	query := `
		SELECT m.id, m.sender_id, m.recipient_id, m.title, m.content, m.summary,
		       m.message_type, m.broadcast_scope, m.is_read, m.created_at,
		       u.id as "sender.id", u.username as "sender.username",
		       u.display_name as "sender.display_name", u.avatar_url as "sender.avatar_url"
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.recipient_id = $1
	`
	args := []interface{}{recipientID}
	if unreadOnly {
		query += ` AND m.is_read = FALSE`
	}
	query += ` ORDER BY m.created_at DESC, m.id DESC LIMIT $2`
	args = append(args, limit)

	var rows []struct {
		model.Message
		SenderInfo model.UserSummary `db:"sender"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]model.Message, len(rows))
	for i, row := range rows {
		messages[i] = row.Message
		sender := row.SenderInfo
		messages[i].Sender = &sender
	}
	return messages, nil
}

// UnreadCount returns the number of unread messages in a user's inbox.
func (r *messageRepository) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND is_read = FALSE`
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

// MarkRead flips is_read on the recipient's own row. A row belonging to a
// different recipient surfaces as not found, never as someone else's message.
func (r *messageRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	query := `
		UPDATE messages SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark read rows affected: %w", err)
	}
	if n == 0 {
		return model.ErrMessageNotFound
	}
	return nil
}

// DeleteForRecipient removes the recipient's own copy of a message.
func (r *messageRepository) DeleteForRecipient(ctx context.Context, id, recipientID int64) (int64, error) {
	query := `DELETE FROM messages WHERE id = $1 AND recipient_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return 0, fmt.Errorf("delete message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete rows affected: %w", err)
	}
	return n, nil
}

// siblingClause matches the seed's broadcast equivalence class: same sender,
// title, announcement type and all_users scope, created within
// model.BroadcastWindow of the seed row. The schema has no broadcast entity,
// so this time-window join is how one logical send is treated as one unit.
const siblingClause = `
	sender_id = $1
	AND title = $2
	AND message_type = 'announcement'
	AND broadcast_scope = 'all_users'
	AND created_at > $3::timestamptz - INTERVAL '1 second'
	AND created_at < $3::timestamptz + INTERVAL '1 second'
`

// FindSiblings resolves every row of the seed's broadcast, including the seed.
func (r *messageRepository) FindSiblings(ctx context.Context, seed *model.Message) ([]model.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, title, content, summary,
		       message_type, broadcast_scope, is_read, created_at
		FROM messages
		WHERE ` + siblingClause + `
		ORDER BY id
	`
	var siblings []model.Message
	err := r.db.SelectContext(ctx, &siblings, query, seed.SenderID, seed.Title, seed.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find broadcast siblings: %w", err)
	}
	return siblings, nil
}

// DeleteSiblings removes every row of the seed's broadcast.
func (r *messageRepository) DeleteSiblings(ctx context.Context, seed *model.Message) (int64, error) {
	query := `DELETE FROM messages WHERE ` + siblingClause
	res, err := r.db.ExecContext(ctx, query, seed.SenderID, seed.Title, seed.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("delete broadcast siblings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete siblings rows affected: %w", err)
	}
	return n, nil
}

// UpdateSiblings mutates every row of the seed's broadcast identically.
func (r *messageRepository) UpdateSiblings(ctx context.Context, seed *model.Message, title, content, summary string) (int64, error) {
	query := `
		UPDATE messages
		SET title = $4, content = $5, summary = $6
		WHERE ` + siblingClause
	res, err := r.db.ExecContext(ctx, query, seed.SenderID, seed.Title, seed.CreatedAt, title, content, summary)
	if err != nil {
		return 0, fmt.Errorf("update broadcast siblings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update siblings rows affected: %w", err)
	}
	return n, nil
}
