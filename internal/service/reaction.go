package service

import (
	"lorehub/internal/model"
)

// ApplyReaction computes the next reaction state and count deltas for a user
// acting on a comment. The three states (none/like/dislike) and three actions
// (like/dislike/clear) admit exactly nine transitions; no other exist.
//
// Issuing an action equal to the current state toggles it off. Switching
// like <-> dislike moves both counters in one step. Clear always lands on
// none. The caller turns the result into exactly one of: create the reaction
// row, mutate its type, or delete it.
func ApplyReaction(current, action string) (next string, likeDelta, dislikeDelta int, err error) {
	switch action {
	case model.ActionLike:
		switch current {
		case model.ReactionLike:
			return model.ReactionNone, -1, 0, nil
		case model.ReactionDislike:
			return model.ReactionLike, +1, -1, nil
		default:
			return model.ReactionLike, +1, 0, nil
		}
	case model.ActionDislike:
		switch current {
		case model.ReactionDislike:
			return model.ReactionNone, 0, -1, nil
		case model.ReactionLike:
			return model.ReactionDislike, -1, +1, nil
		default:
			return model.ReactionDislike, 0, +1, nil
		}
	case model.ActionClear:
		switch current {
		case model.ReactionLike:
			return model.ReactionNone, -1, 0, nil
		case model.ReactionDislike:
			return model.ReactionNone, 0, -1, nil
		default:
			return model.ReactionNone, 0, 0, nil
		}
	default:
		return model.ReactionNone, 0, 0, model.ErrInvalidReaction
	}
}
