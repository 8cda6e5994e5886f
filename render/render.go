// Package render turns layout results into PDF bytes and raster
// preview frames. The layout engine decides where everything goes;
// canvases here only draw.
package render

import (
	"image"
	"io"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/layout"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/template"
)

// Renderer renders documents against a template. Safe for concurrent
// use; each render gets its own canvas.
type Renderer struct {
	engine *layout.Engine
	assets AssetStore
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAssets supplies the store that resolves logo, signature,
// background, and font references.
func WithAssets(s AssetStore) Option {
	return func(r *Renderer) { r.assets = s }
}

// WithEngine replaces the default layout engine.
func WithEngine(e *layout.Engine) Option {
	return func(r *Renderer) { r.engine = e }
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{engine: layout.NewEngine()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layout computes the layout without drawing. Callers that render the
// same document at several zoom levels build once and draw many times.
func (r *Renderer) Layout(tpl template.Template, doc *record.Document) (*layout.Result, error) {
	return r.engine.Build(tpl, doc)
}

// PDF renders doc styled by tpl and writes the PDF to w.
func (r *Renderer) PDF(w io.Writer, tpl template.Template, doc *record.Document) error {
	res, err := r.engine.Build(tpl, doc)
	if err != nil {
		return err
	}
	return r.WritePDF(w, res)
}

// WritePDF draws an already-built layout to w as a PDF.
func (r *Renderer) WritePDF(w io.Writer, res *layout.Result) error {
	c := NewPDFCanvas(r.assets)
	for p := 0; p < res.PageCount; p++ {
		c.BeginPage(res.PageWidth, res.PageHeight)
		r.DrawPage(c, res, p)
	}
	if err := c.Err(); err != nil {
		return bizdoc.E("render.WritePDF", err)
	}
	if err := c.Output(w); err != nil {
		return bizdoc.E("render.WritePDF", err)
	}
	return nil
}

// PNG renders one page of doc styled by tpl and writes a PNG to w.
// pxPerMM controls the preview resolution; 4 gives roughly screen DPI.
func (r *Renderer) PNG(w io.Writer, tpl template.Template, doc *record.Document, page int, pxPerMM float64) error {
	res, err := r.engine.Build(tpl, doc)
	if err != nil {
		return err
	}
	return r.WritePNG(w, res, page, pxPerMM)
}

// WritePNG draws one page of an already-built layout to w as a PNG.
func (r *Renderer) WritePNG(w io.Writer, res *layout.Result, page int, pxPerMM float64) error {
	c, err := NewRasterCanvas(pxPerMM, r.assets)
	if err != nil {
		return err
	}
	if page < 0 || page >= res.PageCount {
		page = 0
	}
	c.BeginPage(res.PageWidth, res.PageHeight)
	r.DrawPage(c, res, page)
	if err := c.Err(); err != nil {
		return bizdoc.E("render.WritePNG", err)
	}
	if err := c.EncodePNG(w); err != nil {
		return bizdoc.E("render.WritePNG", err)
	}
	return nil
}

// DrawPage replays one page of ops onto a canvas, resolving image
// sources as it goes. Unresolvable assets are skipped so a missing
// logo never sinks the document.
func (r *Renderer) DrawPage(c Canvas, res *layout.Result, page int) {
	for _, op := range res.PageOps(page) {
		switch op := op.(type) {
		case layout.TextOp:
			c.Text(op)
		case layout.LineOp:
			c.Line(op)
		case layout.RectOp:
			c.Rect(op)
		case layout.ImageOp:
			c.Image(op, r.resolveImage(op))
		}
	}
}

func (r *Renderer) resolveImage(op layout.ImageOp) image.Image {
	switch op.Source {
	case layout.ImageQR:
		img, err := qrImage(op.Payload)
		if err != nil {
			bizdoc.Logger().Warn("qr encode failed", "err", err)
			return nil
		}
		return img
	case layout.ImagePDF417:
		return pdf417Image(op.Payload)
	default:
		if r.assets == nil || op.Ref == "" {
			return nil
		}
		data, err := r.assets.Image(op.Ref)
		if err != nil {
			bizdoc.Logger().Warn("asset unavailable", "ref", op.Ref, "err", err)
			return nil
		}
		img, err := decodeImage(data)
		if err != nil {
			bizdoc.Logger().Warn("asset undecodable", "ref", op.Ref, "err", err)
			return nil
		}
		return img
	}
}
