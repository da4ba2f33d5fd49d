package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/quill/internal/event"
	"github.com/bethropolis/quill/internal/mode"
	"github.com/bethropolis/quill/internal/types"
	"github.com/rivo/uniseg"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"pads", "ab", 4, "ab  "},
		{"truncates", "abcdef", 3, "abc"},
		{"wide runes stay whole", "日本語", 5, "日本 "},
		{"combining mark kept with base", "e\u0301x", 1, "e\u0301"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.text, tt.width)
			if got != tt.want {
				t.Errorf("Fit(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
			if w := uniseg.StringWidth(got); w != tt.width {
				t.Errorf("width = %d", w)
			}
		})
	}
}

func TestIndicatorFollowsEvents(t *testing.T) {
	sb := New(DefaultConfig())
	em := event.NewManager()
	sb.Subscribe(em)

	sb.SetTitle("Quill 2/3")
	sb.SetCursorInfo(types.Position{Line: 4, Col: 2})
	em.Dispatch(event.TypeTabChanged, event.TabChangedData{Index: 1, Count: 3, Title: "main.py"})
	em.Dispatch(event.TypeModeChanged, event.ModeChangedData{From: mode.Normal, To: mode.Search})

	want := "Quill 2/3 -- main.py -- Tab 2/3 -- Line: 4, Col: 2 -- SEARCH"
	if got := sb.Text(); got != want {
		t.Errorf("Text() = %q\nwant     %q", got, want)
	}
}

func TestTemporaryMessageExpires(t *testing.T) {
	sb := New(Config{MessageTimeout: time.Second})
	now := time.Unix(100, 0)
	sb.now = func() time.Time { return now }

	sb.SetTemporaryMessage("Found: %d matches", 3)
	if got := sb.Text(); got != "Found: 3 matches" {
		t.Errorf("Text() = %q", got)
	}
	now = now.Add(2 * time.Second)
	if got := sb.Text(); strings.HasPrefix(got, "Found") {
		t.Errorf("message should have expired, got %q", got)
	}
}

func TestBell(t *testing.T) {
	sb := New(DefaultConfig())
	sb.Bell()
	sb.Bell()
	if sb.Bells() != 2 {
		t.Errorf("bells = %d", sb.Bells())
	}
}
