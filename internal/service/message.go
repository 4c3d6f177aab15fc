package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"lorehub/internal/database"
	"lorehub/internal/model"
	"lorehub/internal/repository"
)

// UpdatePublisher signals connected clients that a user's data changed.
// Best-effort: failures are logged and swallowed by callers.
type UpdatePublisher interface {
	PublishUserUpdate(ctx context.Context, userIDs []int64) (string, error)
}

// MessageService owns the notification fan-out and the broadcast identity
// resolver. A broadcast has no row of its own; it is the equivalence class of
// per-recipient message rows produced by one Send call.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	tx          database.TxManager
	publisher   UpdatePublisher // Can be nil if live updates not wired
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	tx database.TxManager,
	publisher UpdatePublisher,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		tx:          tx,
		publisher:   publisher,
	}
}

// Send fans one logical message out to its recipients: one row per recipient,
// identical fields, one shared created_at, one transaction. An empty recipient
// set is a no-op, not an error.
func (s *MessageService) Send(ctx context.Context, senderID int64, req model.SendMessageRequest) (*model.SendMessageResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, model.ErrBodyRequired
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = model.MessageTypeDirect
	}
	if !model.ValidMessageType(messageType) {
		return nil, model.ErrInvalidMessageType
	}

	recipients, err := s.resolveRecipients(ctx, senderID, messageType, req)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return &model.SendMessageResponse{MessageIDs: []int64{}, Count: 0}, nil
	}

	summary := req.Summary
	if summary == "" {
		summary = GenerateSummary(req.Content)
	}

	// broadcast_scope is only meaningful on announcements; for any other type
	// a caller-supplied scope is normalized away, not rejected.
	var scope *string
	if messageType == model.MessageTypeAnnouncement && req.BroadcastScope != "" {
		sc := req.BroadcastScope
		scope = &sc
	}

	createdAt := time.Now().UTC()
	msgs := make([]model.Message, 0, len(recipients))
	for _, recipientID := range recipients {
		msgs = append(msgs, model.Message{
			SenderID:       senderID,
			RecipientID:    recipientID,
			Title:          title,
			Content:        req.Content,
			Summary:        summary,
			MessageType:    messageType,
			BroadcastScope: scope,
			CreatedAt:      createdAt,
		})
	}

	var ids []int64
	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		var txErr error
		ids, txErr = s.messageRepo.CreateBatch(ctx, tx, msgs)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[MessageService] Sent type=%s sender=%d recipients=%d", messageType, senderID, len(ids))

	// Post-commit live-update signal. At-most-once and fire-and-forget: a
	// publish failure can never fail the fan-out.
	if s.publisher != nil {
		if _, err := s.publisher.PublishUserUpdate(ctx, recipients); err != nil {
			log.Printf("[MessageService] Live-update publish failed (ignored): %v", err)
		}
	}

	return &model.SendMessageResponse{MessageIDs: ids, Count: len(ids)}, nil
}

// resolveRecipients turns the request into a deduplicated recipient set.
// Invalid ids are dropped per-recipient rather than aborting the batch.
func (s *MessageService) resolveRecipients(ctx context.Context, senderID int64, messageType string, req model.SendMessageRequest) ([]int64, error) {
	if messageType == model.MessageTypeAnnouncement && req.BroadcastScope == model.BroadcastScopeAllUsers {
		all, err := s.userRepo.GetAllIDs(ctx)
		if err != nil {
			return nil, err
		}
		recipients := make([]int64, 0, len(all))
		for _, id := range all {
			if id != senderID {
				recipients = append(recipients, id)
			}
		}
		return recipients, nil
	}

	candidates := req.RecipientIDs
	if req.RecipientID != nil {
		candidates = append(candidates, *req.RecipientID)
	}

	seen := make(map[int64]bool, len(candidates))
	recipients := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		if id <= 0 {
			log.Printf("[MessageService] Skipping invalid recipient id %d", id)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		recipients = append(recipients, id)
	}
	return recipients, nil
}

// Notify is the fan-out pathway shared with the comment engine: it creates
// one notification message per recipient with a derived summary.
func (s *MessageService) Notify(ctx context.Context, senderID int64, recipients []int64, title, content, messageType string) error {
	if len(recipients) == 0 {
		return nil
	}
	_, err := s.Send(ctx, senderID, model.SendMessageRequest{
		RecipientIDs: recipients,
		Title:        title,
		Content:      content,
		MessageType:  messageType,
	})
	return err
}

// List returns the caller's inbox plus their unread count.
func (s *MessageService) List(ctx context.Context, userID int64, unreadOnly bool, limit int) (*model.MessageListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	messages, err := s.messageRepo.ListByRecipient(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.messageRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.MessageListResponse{Messages: messages, UnreadCount: unread}, nil
}

// UnreadCount returns the caller's unread message count (for badge display).
func (s *MessageService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.messageRepo.UnreadCount(ctx, userID)
}

// MarkRead marks the caller's own copy of a message as read.
func (s *MessageService) MarkRead(ctx context.Context, messageID, userID int64) error {
	return s.messageRepo.MarkRead(ctx, messageID, userID)
}

// Delete removes a message. When the id belongs to a broadcast and the caller
// is its original sender, the whole sibling set is removed; a recipient only
// ever removes their own row. Callers who are neither get a zero count, which
// the route layer turns into a permission error.
func (s *MessageService) Delete(ctx context.Context, messageID, actorID int64) (int64, error) {
	m, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return 0, err
	}

	if isBroadcast(m) && m.SenderID == actorID {
		deleted, err := s.messageRepo.DeleteSiblings(ctx, m)
		if err != nil {
			return 0, err
		}
		log.Printf("[MessageService] Broadcast deleted: seed=%d sender=%d rows=%d", messageID, actorID, deleted)
		return deleted, nil
	}

	if m.RecipientID == actorID {
		return s.messageRepo.DeleteForRecipient(ctx, messageID, actorID)
	}

	return 0, nil
}

// UpdateBroadcast mutates every row of a broadcast identically. Only the
// original sender gets a non-zero count.
func (s *MessageService) UpdateBroadcast(ctx context.Context, messageID, actorID int64, req model.UpdateMessageRequest) (int64, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, model.ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return 0, model.ErrBodyRequired
	}

	m, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return 0, err
	}
	if !isBroadcast(m) || m.SenderID != actorID {
		return 0, nil
	}

	summary := req.Summary
	if summary == "" {
		summary = GenerateSummary(req.Content)
	}

	updated, err := s.messageRepo.UpdateSiblings(ctx, m, title, req.Content, summary)
	if err != nil {
		return 0, err
	}
	log.Printf("[MessageService] Broadcast updated: seed=%d sender=%d rows=%d", messageID, actorID, updated)
	return updated, nil
}

// BroadcastStats summarizes read state across a broadcast. A zero total_sent
// means the caller is not the sender (or the id is not a broadcast).
func (s *MessageService) BroadcastStats(ctx context.Context, messageID, actorID int64) (*model.BroadcastStats, error) {
	m, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !isBroadcast(m) || m.SenderID != actorID {
		return &model.BroadcastStats{}, nil
	}

	siblings, err := s.messageRepo.FindSiblings(ctx, m)
	if err != nil {
		return nil, err
	}

	stats := &model.BroadcastStats{TotalSent: len(siblings)}
	for _, sib := range siblings {
		if sib.IsRead {
			stats.TotalRead++
		}
	}
	stats.TotalUnread = stats.TotalSent - stats.TotalRead
	return stats, nil
}

// isBroadcast reports whether the row belongs to an all_users announcement.
func isBroadcast(m *model.Message) bool {
	return m.MessageType == model.MessageTypeAnnouncement &&
		m.BroadcastScope != nil &&
		*m.BroadcastScope == model.BroadcastScopeAllUsers
}
