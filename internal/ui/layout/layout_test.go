package layout

import (
	"strings"
	"testing"
	"time"
)

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-5 * time.Second, "0:00"},
		{59 * time.Second, "0:59"},
		{10 * time.Minute, "10:00"},
		{61*time.Minute + 5*time.Second, "1:01:05"},
		{1500 * time.Millisecond, "0:02"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.in); got != tt.want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderHeaderIncludesStatus(t *testing.T) {
	h := RenderHeader("Results", "7.5 / 10", 80)
	for _, want := range []string{"AnkiQuiz", "Results", "7.5 / 10"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("narrow terminal should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
}

func TestRenderFooterDropsHintsThatDoNotFit(t *testing.T) {
	hints := []KeyHint{
		{Key: "↑↓", Description: "Review"},
		{Key: "F", Description: "Filter: incorrect"},
		{Key: "R", Description: "Retry"},
		{Key: "S", Description: "Export"},
		{Key: "Esc", Description: "Done"},
	}
	wide := RenderFooter(hints, 120)
	if !strings.Contains(wide, "Done") {
		t.Errorf("wide footer should show every hint:\n%s", wide)
	}

	narrow := RenderFooter(hints, 40)
	if !strings.Contains(narrow, "Review") {
		t.Errorf("narrow footer should keep the first hint:\n%s", narrow)
	}
	if strings.Contains(narrow, "Done") {
		t.Errorf("narrow footer should drop trailing hints:\n%s", narrow)
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Quiz", "", 70)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 70)
	frame := RenderFrame(header, "body", footer, 70, 24)
	if got := strings.Count(frame, "\n") + 1; got != 24 {
		t.Errorf("frame has %d lines, want 24", got)
	}
}
