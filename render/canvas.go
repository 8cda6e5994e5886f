package render

import (
	"image"

	"github.com/lvillar/bizdoc/layout"
)

// Canvas receives layout ops in document order. Implementations carry
// a sticky error: drawing calls after a failure are no-ops and Err
// reports the first failure.
type Canvas interface {
	// BeginPage starts a fresh page of the given size in millimeters.
	BeginPage(w, h float64)
	Text(op layout.TextOp)
	Line(op layout.LineOp)
	Rect(op layout.RectOp)
	// Image draws a resolved bitmap into the op's box. img is nil when
	// the asset could not be resolved; implementations skip it.
	Image(op layout.ImageOp, img image.Image)
	Err() error
}

// Recorder is a Canvas that records every call instead of drawing.
// Two identical (template, record) inputs must produce identical logs;
// the tests rely on that.
type Recorder struct {
	Calls []RecordedCall
}

// RecordedCall is one canvas invocation. Exactly one of the op fields
// is set, matching Kind.
type RecordedCall struct {
	Kind  string // "page", "text", "line", "rect", "image"
	W, H  float64
	Text  layout.TextOp
	Line  layout.LineOp
	Rect  layout.RectOp
	Image layout.ImageOp
}

func (r *Recorder) BeginPage(w, h float64) {
	r.Calls = append(r.Calls, RecordedCall{Kind: "page", W: w, H: h})
}

func (r *Recorder) Text(op layout.TextOp) {
	r.Calls = append(r.Calls, RecordedCall{Kind: "text", Text: op})
}

func (r *Recorder) Line(op layout.LineOp) {
	r.Calls = append(r.Calls, RecordedCall{Kind: "line", Line: op})
}

func (r *Recorder) Rect(op layout.RectOp) {
	r.Calls = append(r.Calls, RecordedCall{Kind: "rect", Rect: op})
}

func (r *Recorder) Image(op layout.ImageOp, _ image.Image) {
	r.Calls = append(r.Calls, RecordedCall{Kind: "image", Image: op})
}

func (r *Recorder) Err() error { return nil }
