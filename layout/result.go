// Package layout computes the geometric placement of every visual
// element of a document. Given a template and a document record it
// produces a Result: an ordered display list of placed primitives,
// each tagged with the page it belongs to.
//
// The engine is a pure function of its inputs. It never consults
// ambient state, which is what makes renders deterministic: the same
// (template, record) pair always yields an identical Result.
package layout

import (
	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/template"
)

// FontSpec is a fully resolved font selection carried by a text
// primitive. Ref, when non-empty, names an uploaded font asset that
// replaces the built-in family.
type FontSpec struct {
	Family string  // Helvetica, Times, Courier
	Style  string  // "", "B", "I"
	Size   float64 // pt
	Ref    string  // custom font asset, optional
}

// Op is one placed visual primitive. Coordinates are page-space
// millimeters from the top-left corner of the op's page.
type Op interface {
	Page() int
}

// TextOp places a single run of text. Y is the baseline. For
// AlignLeft, X is the left edge; for AlignCenter, the center; for
// AlignRight, the right edge. MaxWidth is advisory: text is wrapped
// during layout, so a run never exceeds it.
type TextOp struct {
	PageIndex int
	X, Y      float64
	MaxWidth  float64
	Text      string
	Font      FontSpec
	Color     template.Color
	Align     template.Align
}

func (op TextOp) Page() int { return op.PageIndex }

// LineOp strokes a straight line.
type LineOp struct {
	PageIndex      int
	X1, Y1, X2, Y2 float64
	Width          float64 // mm
	Color          template.Color
}

func (op LineOp) Page() int { return op.PageIndex }

// RectOp fills and/or strokes a rectangle, optionally rounded.
type RectOp struct {
	PageIndex   int
	X, Y, W, H  float64
	Radius      float64
	Fill        *template.Color
	Stroke      *template.Color
	StrokeWidth float64
}

func (op RectOp) Page() int { return op.PageIndex }

// ImageSource distinguishes how an image op's pixels are produced.
type ImageSource int

const (
	// ImageAsset draws an uploaded asset (logo, signature, background)
	// resolved by Ref at paint time.
	ImageAsset ImageSource = iota
	// ImageQR draws a QR code generated from Payload.
	ImageQR
	// ImagePDF417 draws a PDF417 strip generated from Payload.
	ImagePDF417
)

// ImageOp places an image scaled into its bounding box.
type ImageOp struct {
	PageIndex  int
	X, Y, W, H float64
	Source     ImageSource
	Ref        string  // asset reference, ImageAsset only
	Payload    string  // encoded content, ImageQR/ImagePDF417 only
	Opacity    float64 // 0..1; 0 means fully opaque (unset)
}

func (op ImageOp) Page() int { return op.PageIndex }

// Result is the engine's output: the display list plus page geometry.
// It is created fresh on every build and owned by whoever consumes it;
// nothing here is retained by the engine.
type Result struct {
	Kind       bizdoc.DocKind
	PageWidth  float64 // mm
	PageHeight float64 // mm
	PageCount  int
	Ops        []Op
}

// PageOps returns the ops belonging to one page, in draw order.
func (r *Result) PageOps(page int) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Page() == page {
			out = append(out, op)
		}
	}
	return out
}
