package bizdoc

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy shared across packages.
var (
	// ErrMissingRecord reports a render requested against a document
	// record that does not exist or lacks its required party. This is a
	// caller contract violation and is never silently defaulted.
	ErrMissingRecord = errors.New("bizdoc: document record is missing or incomplete")

	// ErrInvalidImport reports an imported template payload that fails
	// the minimal shape check (an identifier and a colors block). The
	// in-memory template is left untouched.
	ErrInvalidImport = errors.New("bizdoc: imported template is not a valid template payload")

	// ErrRenderFailure reports a renderer or rasterizer failure (bad
	// asset, unsupported font). Callers surface it as a visible error
	// state rather than leaving a stale preview.
	ErrRenderFailure = errors.New("bizdoc: document render failed")

	// ErrClosed reports an operation on a preview pipeline that has
	// been shut down.
	ErrClosed = errors.New("bizdoc: pipeline is closed")

	// ErrTemplateNotFound reports a template id unknown to the backing
	// store.
	ErrTemplateNotFound = errors.New("bizdoc: template not found")
)

// Error represents an error that occurred during a specific operation.
// It wraps an underlying error and includes the operation name for
// context.
type Error struct {
	Op  string // operation name, e.g. "layout.Build", "render.PDF"
	Err error  // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bizdoc.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("bizdoc.%s: unknown error", e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error wrapping err with operation context.
func E(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}
