package editor

import "github.com/lvillar/bizdoc/template"

// DefaultHistoryLimit bounds the undo stack. Oldest snapshots are
// evicted past the cap.
const DefaultHistoryLimit = 50

// History is a bounded stack of template snapshots with a cursor.
// Snapshots are deep copies; callers can keep mutating their own
// value after pushing it.
type History struct {
	snaps []template.Template
	index int
	limit int
}

// NewHistory creates a history seeded with the initial snapshot.
// limit <= 0 selects DefaultHistoryLimit.
func NewHistory(initial template.Template, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		snaps: []template.Template{initial.Clone()},
		index: 0,
		limit: limit,
	}
}

// Current returns a copy of the snapshot under the cursor.
func (h *History) Current() template.Template {
	return h.snaps[h.index].Clone()
}

// Push records a new snapshot: any redo tail beyond the cursor is
// discarded, the snapshot is appended, and the oldest entry is evicted
// if the stack is over its cap.
func (h *History) Push(t template.Template) {
	h.snaps = append(h.snaps[:h.index+1], t.Clone())
	h.index++
	if len(h.snaps) > h.limit {
		h.snaps = h.snaps[1:]
		h.index--
	}
}

// Undo moves the cursor back and returns the newly current snapshot.
// Reports false at the oldest entry.
func (h *History) Undo() (template.Template, bool) {
	if h.index == 0 {
		return template.Template{}, false
	}
	h.index--
	return h.Current(), true
}

// Redo moves the cursor forward and returns the newly current
// snapshot. Reports false at the newest entry.
func (h *History) Redo() (template.Template, bool) {
	if h.index >= len(h.snaps)-1 {
		return template.Template{}, false
	}
	h.index++
	return h.Current(), true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.index < len(h.snaps)-1 }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.snaps) }
