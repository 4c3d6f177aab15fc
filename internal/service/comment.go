package service

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"lorehub/internal/cache"
	"lorehub/internal/database"
	"lorehub/internal/model"
	"lorehub/internal/repository"
)

// Notifier creates notification messages for a set of recipients.
// MessageService implements it; the comment engine only sees this slice.
type Notifier interface {
	Notify(ctx context.Context, senderID int64, recipients []int64, title, content, messageType string) error
}

// moderationBlockConfidence is the minimum classifier confidence required to
// reject content. Below it, and on any classifier failure, moderation fails open.
const moderationBlockConfidence = 0.8

// CommentService manages the comment tree: one level of nesting, cascading
// soft-delete/restore between a top-level comment and its direct children,
// and the reaction toggle with its notification rules.
type CommentService struct {
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	targetRepo   repository.TargetRepository
	userRepo     repository.UserRepository
	tx           database.TxManager
	notifier     Notifier           // Can be nil if notifications not wired
	moderation   ModerationClient   // Can be nil if moderation not configured
	listCache    cache.CommentCache // Can be nil if Redis not configured
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
	targetRepo repository.TargetRepository,
	userRepo repository.UserRepository,
	tx database.TxManager,
	notifier Notifier,
	moderation ModerationClient,
	listCache cache.CommentCache,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		targetRepo:   targetRepo,
		userRepo:     userRepo,
		tx:           tx,
		notifier:     notifier,
		moderation:   moderation,
		listCache:    listCache,
	}
}

// List returns all non-deleted comments for a target, top-level and replies
// flattened, oldest first, each annotated with the viewer's own reaction when
// a viewer is present. Anonymous listings are served through the cache.
func (s *CommentService) List(ctx context.Context, targetType string, targetID int64, viewerID *int64) (*model.CommentListResponse, error) {
	if !model.ValidTargetType(targetType) {
		return nil, model.ErrInvalidTargetType
	}
	if _, err := s.targetRepo.GetOwnerID(ctx, targetType, targetID); err != nil {
		return nil, err
	}

	if viewerID == nil && s.listCache != nil {
		if comments, ok := s.listCache.Get(ctx, targetType, targetID); ok {
			return &model.CommentListResponse{Comments: comments, Total: len(comments)}, nil
		}
	}

	comments, err := s.commentRepo.ListByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		ids := make([]int64, len(comments))
		for i, c := range comments {
			ids[i] = c.ID
		}
		reactions, err := s.reactionRepo.GetForComments(ctx, *viewerID, ids)
		if err != nil {
			return nil, err
		}
		for i := range comments {
			comments[i].MyReaction = reactions[comments[i].ID]
		}
	} else if s.listCache != nil {
		s.listCache.Set(ctx, targetType, targetID, comments)
	}

	return &model.CommentListResponse{Comments: comments, Total: len(comments)}, nil
}

// Create validates and inserts a comment, then notifies the parent author and
// target owner (deduplicated, self excluded) through the shared fan-out.
func (s *CommentService) Create(ctx context.Context, authorID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}
	if !model.ValidTargetType(req.TargetType) {
		return nil, model.ErrInvalidTargetType
	}

	ownerID, err := s.targetRepo.GetOwnerID(ctx, req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if muted, permanent := author.MuteState(time.Now()); muted {
		if permanent {
			return nil, model.ErrUserMutedPermanently
		}
		return nil, model.ErrUserMuted
	}

	// Optional pre-check gate against the external classifier. Only a
	// confident violation blocks; errors and unknown verdicts fail open.
	if s.moderation != nil {
		result, err := s.moderation.Moderate(ctx, content, "comment")
		if err != nil {
			log.Printf("[CommentService] Moderation unavailable, allowing content: %v", err)
		} else if result.Decision == DecisionViolation && result.Confidence >= moderationBlockConfidence {
			log.Printf("[CommentService] Content rejected: user=%d violations=%v", authorID, result.ViolationTypes)
			return nil, model.ErrContentRejected
		}
	}

	// Replies nest exactly one level: the parent must itself be top-level
	// and live on the same target.
	var parent *model.Comment
	if req.ParentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.IsDeleted {
			return nil, model.ErrCommentNotFound
		}
		if parent.ParentID != nil {
			return nil, model.ErrParentNotTopLevel
		}
		if parent.TargetType != req.TargetType || parent.TargetID != req.TargetID {
			return nil, model.ErrParentWrongTarget
		}
	}

	comment := &model.Comment{
		UserID:     authorID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ParentID:   req.ParentID,
		Content:    content,
	}
	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		return s.commentRepo.Create(ctx, tx, comment)
	})
	if err != nil {
		return nil, err
	}

	comment.Author = &model.UserSummary{
		ID:          author.ID,
		Username:    author.Username,
		DisplayName: author.DisplayName,
		AvatarURL:   author.AvatarURL,
	}

	log.Printf("[CommentService] User %d commented on %s %d", authorID, req.TargetType, req.TargetID)

	// Recipients: set union of {parent author} and {target owner}, self
	// excluded. Notification failure never fails the comment write.
	recipients := commentRecipients(authorID, parent, ownerID)
	if s.notifier != nil && len(recipients) > 0 {
		title := "New comment on your " + targetLabel(req.TargetType)
		if parent != nil {
			title = "New reply to your comment"
		}
		if err := s.notifier.Notify(ctx, authorID, recipients, title, content, model.MessageTypeComment); err != nil {
			log.Printf("[CommentService] Failed to send comment notifications: %v", err)
		}
	}

	if s.listCache != nil {
		s.listCache.Invalidate(ctx, req.TargetType, req.TargetID)
	}

	return comment, nil
}

// Delete soft-deletes a comment, cascading to direct children when the
// comment is top-level.
func (s *CommentService) Delete(ctx context.Context, commentID, actorID int64) error {
	return s.setDeleted(ctx, commentID, actorID, true)
}

// Restore un-deletes a comment, cascading restore to direct children when the
// comment is top-level. Restoring an already-restored comment is a no-op.
func (s *CommentService) Restore(ctx context.Context, commentID, actorID int64) error {
	return s.setDeleted(ctx, commentID, actorID, false)
}

func (s *CommentService) setDeleted(ctx context.Context, commentID, actorID int64, deleted bool) error {
	// Lookup is by id regardless of is_deleted: delete and restore both need
	// the row for their permission check, and re-applying the current state
	// still succeeds.
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if err := s.checkModeratePermission(ctx, comment, actorID); err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.commentRepo.SetDeleted(ctx, tx, commentID, deleted); err != nil {
			return err
		}
		// Only top-level comments cascade; replies have no children.
		if comment.ParentID == nil {
			n, err := s.commentRepo.SetDeletedByParent(ctx, tx, commentID, deleted)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("[CommentService] Cascaded is_deleted=%v to %d replies of comment %d", deleted, n, commentID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[CommentService] User %d set comment %d is_deleted=%v", actorID, commentID, deleted)

	if s.listCache != nil {
		s.listCache.Invalidate(ctx, comment.TargetType, comment.TargetID)
	}
	return nil
}

// checkModeratePermission grants delete/restore to the comment author, the
// target owner, and admin/moderator roles.
func (s *CommentService) checkModeratePermission(ctx context.Context, comment *model.Comment, actorID int64) error {
	if comment.UserID == actorID {
		return nil
	}

	ownerID, err := s.targetRepo.GetOwnerID(ctx, comment.TargetType, comment.TargetID)
	if err == nil && ownerID == actorID {
		return nil
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.CanModerate() {
		return nil
	}
	return model.ErrPermissionDenied
}

// React applies a like/dislike/clear action to a comment. The state engine's
// result drives exactly one of create, mutate, or delete of the reaction row.
// The comment owner is notified iff the reaction changed to a positive opinion
// and the actor is not the owner; clear never notifies.
func (s *CommentService) React(ctx context.Context, commentID, actorID int64, action string) (*model.ReactResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	// Reacting to a soft-deleted comment surfaces the same way as a missing one.
	if comment.IsDeleted {
		return nil, model.ErrCommentNotFound
	}

	current, err := s.reactionRepo.GetType(ctx, actorID, commentID)
	if err != nil {
		return nil, err
	}

	next, likeDelta, dislikeDelta, err := ApplyReaction(current, action)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		switch {
		case next == model.ReactionNone && current != model.ReactionNone:
			if err := s.reactionRepo.Delete(ctx, tx, actorID, commentID); err != nil {
				return err
			}
		case next != model.ReactionNone && current == model.ReactionNone:
			if err := s.reactionRepo.Create(ctx, tx, actorID, commentID, next); err != nil {
				return err
			}
		case next != current:
			if err := s.reactionRepo.UpdateType(ctx, tx, actorID, commentID, next); err != nil {
				return err
			}
		}

		if likeDelta != 0 || dislikeDelta != 0 {
			return s.commentRepo.AddReactionCounts(ctx, tx, commentID, likeDelta, dislikeDelta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	likeCount, dislikeCount, err := s.commentRepo.GetCounts(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && next != current && next != model.ReactionNone && actorID != comment.UserID {
		title := "Someone liked your comment"
		if next == model.ReactionDislike {
			title = "Someone disliked your comment"
		}
		if err := s.notifier.Notify(ctx, actorID, []int64{comment.UserID}, title, comment.Content, model.MessageTypeReaction); err != nil {
			log.Printf("[CommentService] Failed to send reaction notification: %v", err)
		}
	}

	if s.listCache != nil {
		s.listCache.Invalidate(ctx, comment.TargetType, comment.TargetID)
	}

	return &model.ReactResponse{
		CommentID:    commentID,
		LikeCount:    likeCount,
		DislikeCount: dislikeCount,
		MyReaction:   next,
	}, nil
}

// commentRecipients computes the notification recipient set for a new
// comment: parent author and target owner, deduplicated, author excluded.
func commentRecipients(authorID int64, parent *model.Comment, targetOwnerID int64) []int64 {
	var recipients []int64
	if parent != nil && parent.UserID != authorID {
		recipients = append(recipients, parent.UserID)
	}
	if targetOwnerID != authorID && (parent == nil || parent.UserID != targetOwnerID) {
		recipients = append(recipients, targetOwnerID)
	}
	return recipients
}

func targetLabel(targetType string) string {
	if targetType == model.TargetPersona {
		return "persona card"
	}
	return "knowledge base"
}
