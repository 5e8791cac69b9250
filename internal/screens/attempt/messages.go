package attempt

import (
	"time"

	"github.com/cuongduong73/ankiquiz/internal/explain"
)

// timerTickMsg carries the remaining time from the quiz timer.
type timerTickMsg struct {
	Remaining time.Duration
}

// timerExpiredMsg is sent once when the countdown reaches zero.
type timerExpiredMsg struct{}

// explainDoneMsg is sent when explanations for one or more results arrive.
type explainDoneMsg struct {
	Explanations []explain.Explanation
	Err          error
}

// exportDoneMsg is sent after the quiz document has been written.
type exportDoneMsg struct {
	Path string
	Err  error
}

// noteOpenedMsg is sent after asking Anki to show a note.
type noteOpenedMsg struct {
	NoteID int64
	Err    error
}
