package service

import (
	"errors"
	"testing"

	"lorehub/internal/model"
)

func TestApplyReaction_AllTransitions(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		action      string
		wantNext    string
		wantLike    int
		wantDislike int
	}{
		{"like from none", model.ReactionNone, model.ActionLike, model.ReactionLike, +1, 0},
		{"like toggles off", model.ReactionLike, model.ActionLike, model.ReactionNone, -1, 0},
		{"like over dislike", model.ReactionDislike, model.ActionLike, model.ReactionLike, +1, -1},
		{"dislike from none", model.ReactionNone, model.ActionDislike, model.ReactionDislike, 0, +1},
		{"dislike toggles off", model.ReactionDislike, model.ActionDislike, model.ReactionNone, 0, -1},
		{"dislike over like", model.ReactionLike, model.ActionDislike, model.ReactionDislike, -1, +1},
		{"clear from none", model.ReactionNone, model.ActionClear, model.ReactionNone, 0, 0},
		{"clear from like", model.ReactionLike, model.ActionClear, model.ReactionNone, -1, 0},
		{"clear from dislike", model.ReactionDislike, model.ActionClear, model.ReactionNone, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, likeDelta, dislikeDelta, err := ApplyReaction(tt.current, tt.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if next != tt.wantNext {
				t.Errorf("next = %q, want %q", next, tt.wantNext)
			}
			if likeDelta != tt.wantLike {
				t.Errorf("likeDelta = %d, want %d", likeDelta, tt.wantLike)
			}
			if dislikeDelta != tt.wantDislike {
				t.Errorf("dislikeDelta = %d, want %d", dislikeDelta, tt.wantDislike)
			}
		})
	}
}

func TestApplyReaction_InvalidAction(t *testing.T) {
	for _, action := range []string{"", "love", "LIKE", "clear "} {
		_, _, _, err := ApplyReaction(model.ReactionNone, action)
		if !errors.Is(err, model.ErrInvalidReaction) {
			t.Errorf("action %q: err = %v, want ErrInvalidReaction", action, err)
		}
	}
}

// Issuing the same action twice always returns to where it started; the
// deltas cancel out.
func TestApplyReaction_DoubleToggleCancels(t *testing.T) {
	for _, action := range []string{model.ActionLike, model.ActionDislike} {
		mid, l1, d1, err := ApplyReaction(model.ReactionNone, action)
		if err != nil {
			t.Fatalf("first apply: %v", err)
		}
		next, l2, d2, err := ApplyReaction(mid, action)
		if err != nil {
			t.Fatalf("second apply: %v", err)
		}
		if next != model.ReactionNone {
			t.Errorf("double %s: next = %q, want none", action, next)
		}
		if l1+l2 != 0 || d1+d2 != 0 {
			t.Errorf("double %s: deltas did not cancel: likes=%d dislikes=%d", action, l1+l2, d1+d2)
		}
	}
}
