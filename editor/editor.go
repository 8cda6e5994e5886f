// Package editor drives interactive template editing: every mutation
// flows through a bounded history stack so undo and redo never desync
// from the visible state.
package editor

import (
	"context"
	"reflect"

	"github.com/lvillar/bizdoc/template"
)

// Editor wraps a History with a persistence baseline. Not safe for
// concurrent use; the editing surface is single-threaded.
type Editor struct {
	hist     *History
	store    TemplateStore
	saved    template.Template
	onChange func(template.Template)
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(n int) EditorOption {
	return func(e *Editor) { e.hist.limit = n }
}

// WithOnChange registers a callback fired after every state change
// (mutate, undo, redo, preset). Typically this feeds the preview
// pipeline's Update.
func WithOnChange(fn func(template.Template)) EditorOption {
	return func(e *Editor) { e.onChange = fn }
}

// New creates an editor over an initial template. The initial value is
// repaired through validation and becomes both the first snapshot and
// the clean baseline.
func New(initial template.Template, store TemplateStore, opts ...EditorOption) *Editor {
	initial = template.Validate(initial)
	e := &Editor{
		hist:  NewHistory(initial, DefaultHistoryLimit),
		store: store,
		saved: initial.Clone(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Current returns the template under the cursor.
func (e *Editor) Current() template.Template {
	return e.hist.Current()
}

// Mutate applies fn to a copy of the current template, validates the
// result, and pushes it as a new snapshot. Direct field edits must
// never bypass this path.
func (e *Editor) Mutate(fn func(t *template.Template)) template.Template {
	next := e.hist.Current()
	fn(&next)
	next = template.Validate(next)
	e.hist.Push(next)
	e.changed(next)
	return next
}

// ApplyPreset replaces styling with a named preset, recorded as a
// single undoable step.
func (e *Editor) ApplyPreset(name string) (template.Template, error) {
	next, err := template.ApplyPreset(e.hist.Current(), name)
	if err != nil {
		return template.Template{}, err
	}
	e.hist.Push(next)
	e.changed(next)
	return next, nil
}

// Undo steps back one snapshot. Reports false at the oldest entry.
func (e *Editor) Undo() (template.Template, bool) {
	t, ok := e.hist.Undo()
	if ok {
		e.changed(t)
	}
	return t, ok
}

// Redo steps forward one snapshot. Reports false at the newest entry.
func (e *Editor) Redo() (template.Template, bool) {
	t, ok := e.hist.Redo()
	if ok {
		e.changed(t)
	}
	return t, ok
}

// CanUndo reports whether Undo would succeed.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Dirty reports whether the current snapshot differs from the last
// saved baseline. The UI warns on navigation away while dirty.
func (e *Editor) Dirty() bool {
	cur := e.hist.Current()
	return !reflect.DeepEqual(cur, e.saved)
}

// Save persists the current snapshot and resets the dirty baseline.
func (e *Editor) Save(ctx context.Context) error {
	cur := e.hist.Current()
	if err := e.store.SaveTemplate(ctx, cur); err != nil {
		return err
	}
	e.saved = cur
	return nil
}

func (e *Editor) changed(t template.Template) {
	if e.onChange != nil {
		e.onChange(t)
	}
}
