package execution

import (
	"strings"
	"time"
)

// DefaultLogCapacity bounds the number of retained log lines.
const DefaultLogCapacity = 500

// LogLine is a single timestamped output line.
type LogLine struct {
	At   time.Time
	Text string
}

// String renders the line as it appears in the output pane.
func (l LogLine) String() string { return l.Text }

// OutputLog is a bounded, ordered buffer of log lines. The most recent lines
// are kept when capacity is exceeded. It is not safe for concurrent use; the
// Controller serialises access.
type OutputLog struct {
	lines []LogLine
	cap   int
}

// NewOutputLog creates a log with the given capacity.
func NewOutputLog(capacity int) *OutputLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &OutputLog{lines: make([]LogLine, 0, 16), cap: capacity}
}

// Append adds a line, trimming the oldest lines past capacity.
func (b *OutputLog) Append(at time.Time, text string) {
	b.lines = append(b.lines, LogLine{At: at, Text: text})
	if len(b.lines) > b.cap {
		b.lines = b.lines[len(b.lines)-b.cap:]
	}
}

// Reset replaces the contents with a single line.
func (b *OutputLog) Reset(at time.Time, text string) {
	b.lines = b.lines[:0]
	b.Append(at, text)
}

// Lines returns a copy of all lines.
func (b *OutputLog) Lines() []LogLine {
	out := make([]LogLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of lines.
func (b *OutputLog) Len() int { return len(b.lines) }

// String joins the lines with newlines.
func (b *OutputLog) String() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

// stamp formats a time the way status lines are prefixed.
func stamp(t time.Time) string {
	return "[" + t.Format("15:04:05") + "]"
}
