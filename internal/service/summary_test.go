package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"lorehub/internal/model"
)

func TestGenerateSummary_ShortContentPassesThrough(t *testing.T) {
	got := GenerateSummary("A short update about the new persona card.")
	want := "A short update about the new persona card."
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestGenerateSummary_Empty(t *testing.T) {
	if got := GenerateSummary(""); got != "" {
		t.Errorf("summary = %q, want empty", got)
	}
	if got := GenerateSummary("   \n\t  "); got != "" {
		t.Errorf("whitespace-only summary = %q, want empty", got)
	}
}

func TestGenerateSummary_StripsHTML(t *testing.T) {
	got := GenerateSummary("<p>Hello <b>world</b></p>")
	if got != "Hello world" {
		t.Errorf("summary = %q, want %q", got, "Hello world")
	}
}

func TestGenerateSummary_CollapsesWhitespace(t *testing.T) {
	got := GenerateSummary("line one\n\n  line two\t\tend")
	if got != "line one line two end" {
		t.Errorf("summary = %q, want %q", got, "line one line two end")
	}
}

// With no sentence boundary available, the text is hard-cut at the rune limit
// and suffixed with an ellipsis.
func TestGenerateSummary_HardCutWithEllipsis(t *testing.T) {
	content := strings.Repeat("a", 400)
	got := GenerateSummary(content)

	if !strings.HasSuffix(got, "...") {
		t.Errorf("summary %q should end with ellipsis", got)
	}
	if n := utf8.RuneCountInString(got); n != model.MaxSummaryLength+3 {
		t.Errorf("summary length = %d runes, want %d", n, model.MaxSummaryLength+3)
	}
	if !strings.HasPrefix(got, strings.Repeat("a", model.MaxSummaryLength)) {
		t.Error("summary should be a prefix of the content")
	}
}

// A sentence ender inside the truncation window becomes the cut point and is
// kept; no ellipsis is added.
func TestGenerateSummary_CutsAtSentenceBoundary(t *testing.T) {
	content := strings.Repeat("a", 100) + ". " + strings.Repeat("b", 300)
	got := GenerateSummary(content)

	want := strings.Repeat("a", 100) + "."
	if got != want {
		t.Errorf("summary = %q, want cut at the period", got)
	}
}

// Sentence enders before the minimum cut position are ignored; the cut falls
// back to the hard truncation.
func TestGenerateSummary_IgnoresEarlyBoundary(t *testing.T) {
	content := strings.Repeat("a", 30) + ". " + strings.Repeat("b", 300)
	got := GenerateSummary(content)

	if !strings.HasSuffix(got, "...") {
		t.Errorf("summary %q should fall back to hard cut", got)
	}
}

// CJK text truncates on rune boundaries and accepts CJK punctuation.
func TestGenerateSummary_CJKBoundary(t *testing.T) {
	content := strings.Repeat("知", 100) + "。" + strings.Repeat("识", 300)
	got := GenerateSummary(content)

	want := strings.Repeat("知", 100) + "。"
	if got != want {
		t.Errorf("summary = %q, want cut at the CJK period", got)
	}
	if !utf8.ValidString(got) {
		t.Error("summary is not valid UTF-8")
	}
}
