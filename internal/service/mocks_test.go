package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lorehub/internal/model"
)

// =============================================================================
// SHARED MOCKS
// =============================================================================
//
// Services depend on repository interfaces and database.TxManager, so unit
// tests swap in mocks with per-test function fields. The no-op tx manager just
// runs the callback; mock repositories ignore the tx argument.

type noopTxManager struct{}

func (noopTxManager) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type mockUserRepository struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.User, error)
	getSummariesFn func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	getAllIDsFn    func(ctx context.Context) ([]int64, error)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	if m.getSummariesFn != nil {
		return m.getSummariesFn(ctx, ids)
	}
	return map[int64]model.UserSummary{}, nil
}

func (m *mockUserRepository) GetAllIDs(ctx context.Context) ([]int64, error) {
	if m.getAllIDsFn != nil {
		return m.getAllIDsFn(ctx)
	}
	return nil, nil
}

type mockTargetRepository struct {
	getOwnerIDFn func(ctx context.Context, targetType string, targetID int64) (int64, error)
}

func (m *mockTargetRepository) GetOwnerID(ctx context.Context, targetType string, targetID int64) (int64, error) {
	if m.getOwnerIDFn != nil {
		return m.getOwnerIDFn(ctx, targetType, targetID)
	}
	return 0, model.ErrTargetNotFound
}

func (m *mockTargetRepository) ListKnowledgeBases(ctx context.Context, limit, offset int) ([]model.KnowledgeBase, error) {
	return nil, nil
}

func (m *mockTargetRepository) GetKnowledgeBase(ctx context.Context, id int64) (*model.KnowledgeBase, error) {
	return nil, model.ErrTargetNotFound
}

func (m *mockTargetRepository) ListPersonaCards(ctx context.Context, limit, offset int) ([]model.PersonaCard, error) {
	return nil, nil
}

func (m *mockTargetRepository) GetPersonaCard(ctx context.Context, id int64) (*model.PersonaCard, error) {
	return nil, model.ErrTargetNotFound
}

type setDeletedCall struct {
	CommentID int64
	Deleted   bool
}

type addCountsCall struct {
	CommentID    int64
	LikeDelta    int
	DislikeDelta int
}

type mockCommentRepository struct {
	createFn       func(ctx context.Context, tx *sqlx.Tx, c *model.Comment) error
	getByIDFn      func(ctx context.Context, id int64) (*model.Comment, error)
	listByTargetFn func(ctx context.Context, targetType string, targetID int64) ([]model.Comment, error)
	getCountsFn    func(ctx context.Context, commentID int64) (int, int, error)

	createCalls         []*model.Comment
	setDeletedCalls     []setDeletedCall
	cascadeCalls        []setDeletedCall
	cascadeRows         int64
	addCountsCalls      []addCountsCall
	addReactionCountsFn func(ctx context.Context, tx *sqlx.Tx, commentID int64, likeDelta, dislikeDelta int) error
}

func (m *mockCommentRepository) Create(ctx context.Context, tx *sqlx.Tx, c *model.Comment) error {
	m.createCalls = append(m.createCalls, c)
	if m.createFn != nil {
		return m.createFn(ctx, tx, c)
	}
	c.ID = int64(len(m.createCalls))
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) ListByTarget(ctx context.Context, targetType string, targetID int64) ([]model.Comment, error) {
	if m.listByTargetFn != nil {
		return m.listByTargetFn(ctx, targetType, targetID)
	}
	return nil, nil
}

func (m *mockCommentRepository) SetDeleted(ctx context.Context, tx *sqlx.Tx, commentID int64, deleted bool) error {
	m.setDeletedCalls = append(m.setDeletedCalls, setDeletedCall{CommentID: commentID, Deleted: deleted})
	return nil
}

func (m *mockCommentRepository) SetDeletedByParent(ctx context.Context, tx *sqlx.Tx, parentID int64, deleted bool) (int64, error) {
	m.cascadeCalls = append(m.cascadeCalls, setDeletedCall{CommentID: parentID, Deleted: deleted})
	return m.cascadeRows, nil
}

func (m *mockCommentRepository) AddReactionCounts(ctx context.Context, tx *sqlx.Tx, commentID int64, likeDelta, dislikeDelta int) error {
	m.addCountsCalls = append(m.addCountsCalls, addCountsCall{CommentID: commentID, LikeDelta: likeDelta, DislikeDelta: dislikeDelta})
	if m.addReactionCountsFn != nil {
		return m.addReactionCountsFn(ctx, tx, commentID, likeDelta, dislikeDelta)
	}
	return nil
}

func (m *mockCommentRepository) GetCounts(ctx context.Context, commentID int64) (int, int, error) {
	if m.getCountsFn != nil {
		return m.getCountsFn(ctx, commentID)
	}
	return 0, 0, nil
}

type reactionRowCall struct {
	UserID       int64
	CommentID    int64
	ReactionType string
}

type mockReactionRepository struct {
	getTypeFn        func(ctx context.Context, userID, commentID int64) (string, error)
	getForCommentsFn func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]string, error)

	createCalls []reactionRowCall
	updateCalls []reactionRowCall
	deleteCalls []reactionRowCall
}

func (m *mockReactionRepository) GetType(ctx context.Context, userID, commentID int64) (string, error) {
	if m.getTypeFn != nil {
		return m.getTypeFn(ctx, userID, commentID)
	}
	return model.ReactionNone, nil
}

func (m *mockReactionRepository) GetForComments(ctx context.Context, userID int64, commentIDs []int64) (map[int64]string, error) {
	if m.getForCommentsFn != nil {
		return m.getForCommentsFn(ctx, userID, commentIDs)
	}
	return map[int64]string{}, nil
}

func (m *mockReactionRepository) Create(ctx context.Context, tx *sqlx.Tx, userID, commentID int64, reactionType string) error {
	m.createCalls = append(m.createCalls, reactionRowCall{UserID: userID, CommentID: commentID, ReactionType: reactionType})
	return nil
}

func (m *mockReactionRepository) UpdateType(ctx context.Context, tx *sqlx.Tx, userID, commentID int64, reactionType string) error {
	m.updateCalls = append(m.updateCalls, reactionRowCall{UserID: userID, CommentID: commentID, ReactionType: reactionType})
	return nil
}

func (m *mockReactionRepository) Delete(ctx context.Context, tx *sqlx.Tx, userID, commentID int64) error {
	m.deleteCalls = append(m.deleteCalls, reactionRowCall{UserID: userID, CommentID: commentID})
	return nil
}

type mockMessageRepository struct {
	createBatchFn     func(ctx context.Context, tx *sqlx.Tx, msgs []model.Message) ([]int64, error)
	getByIDFn         func(ctx context.Context, id int64) (*model.Message, error)
	listByRecipientFn func(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]model.Message, error)
	unreadCountFn     func(ctx context.Context, recipientID int64) (int, error)
	markReadFn        func(ctx context.Context, id, recipientID int64) error
	findSiblingsFn    func(ctx context.Context, seed *model.Message) ([]model.Message, error)

	createBatchCalls    [][]model.Message
	deleteForRecipient  []int64
	deleteSiblingsCalls []*model.Message
	deleteSiblingsRows  int64
	updateSiblingsCalls []*model.Message
	updateSiblingsRows  int64
}

func (m *mockMessageRepository) CreateBatch(ctx context.Context, tx *sqlx.Tx, msgs []model.Message) ([]int64, error) {
	m.createBatchCalls = append(m.createBatchCalls, msgs)
	if m.createBatchFn != nil {
		return m.createBatchFn(ctx, tx, msgs)
	}
	ids := make([]int64, len(msgs))
	for i := range msgs {
		ids[i] = int64(i + 1)
	}
	return ids, nil
}

func (m *mockMessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrMessageNotFound
}

func (m *mockMessageRepository) ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool, limit int) ([]model.Message, error) {
	if m.listByRecipientFn != nil {
		return m.listByRecipientFn(ctx, recipientID, unreadOnly, limit)
	}
	return nil, nil
}

func (m *mockMessageRepository) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	if m.unreadCountFn != nil {
		return m.unreadCountFn(ctx, recipientID)
	}
	return 0, nil
}

func (m *mockMessageRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, id, recipientID)
	}
	return nil
}

func (m *mockMessageRepository) DeleteForRecipient(ctx context.Context, id, recipientID int64) (int64, error) {
	m.deleteForRecipient = append(m.deleteForRecipient, id)
	return 1, nil
}

func (m *mockMessageRepository) FindSiblings(ctx context.Context, seed *model.Message) ([]model.Message, error) {
	if m.findSiblingsFn != nil {
		return m.findSiblingsFn(ctx, seed)
	}
	return nil, nil
}

func (m *mockMessageRepository) DeleteSiblings(ctx context.Context, seed *model.Message) (int64, error) {
	m.deleteSiblingsCalls = append(m.deleteSiblingsCalls, seed)
	return m.deleteSiblingsRows, nil
}

func (m *mockMessageRepository) UpdateSiblings(ctx context.Context, seed *model.Message, title, content, summary string) (int64, error) {
	m.updateSiblingsCalls = append(m.updateSiblingsCalls, seed)
	return m.updateSiblingsRows, nil
}

type notifyCall struct {
	SenderID    int64
	Recipients  []int64
	Title       string
	Content     string
	MessageType string
}

type mockNotifier struct {
	notifyFn func(ctx context.Context, senderID int64, recipients []int64, title, content, messageType string) error

	calls []notifyCall
}

func (m *mockNotifier) Notify(ctx context.Context, senderID int64, recipients []int64, title, content, messageType string) error {
	m.calls = append(m.calls, notifyCall{
		SenderID:    senderID,
		Recipients:  recipients,
		Title:       title,
		Content:     content,
		MessageType: messageType,
	})
	if m.notifyFn != nil {
		return m.notifyFn(ctx, senderID, recipients, title, content, messageType)
	}
	return nil
}

type mockModerationClient struct {
	moderateFn func(ctx context.Context, content, contentType string) (*ModerationResult, error)
}

func (m *mockModerationClient) Moderate(ctx context.Context, content, contentType string) (*ModerationResult, error) {
	if m.moderateFn != nil {
		return m.moderateFn(ctx, content, contentType)
	}
	return &ModerationResult{Decision: DecisionCompliant, Confidence: 1}, nil
}

type publishCall struct {
	UserIDs []int64
}

type mockUpdatePublisher struct {
	publishFn func(ctx context.Context, userIDs []int64) (string, error)

	calls []publishCall
}

func (m *mockUpdatePublisher) PublishUserUpdate(ctx context.Context, userIDs []int64) (string, error) {
	m.calls = append(m.calls, publishCall{UserIDs: userIDs})
	if m.publishFn != nil {
		return m.publishFn(ctx, userIDs)
	}
	return "1-0", nil
}

func int64Ptr(v int64) *int64 { return &v }

func plainUser(id int64) *model.User {
	return &model.User{ID: id, Username: "user", Role: model.RoleUser}
}
