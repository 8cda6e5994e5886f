package layout

import (
	"fmt"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/template"
)

// Engine turns (template, record) pairs into layout Results.
// An Engine is stateless between builds and safe for concurrent use.
type Engine struct {
	maxPages    int
	pageNumbers bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxPages caps the number of pages a single build may produce.
// The cap guards against degenerate templates; rows beyond it are
// still counted in totals but not placed.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

// WithPageNumbers toggles the "Page i of n" footer on multi-page
// documents.
func WithPageNumbers(on bool) Option {
	return func(e *Engine) {
		e.pageNumbers = on
	}
}

// NewEngine creates a layout engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxPages:    50,
		pageNumbers: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build computes the full layout of doc styled by tpl.
//
// A malformed template never fails a build: it is repaired through the
// template package's Validate before anything is measured. A missing
// or party-less record does fail, since that is a caller contract
// violation rather than a template problem.
func (e *Engine) Build(tpl template.Template, doc *record.Document) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, bizdoc.E("layout.Build", err)
	}
	tpl = template.Validate(tpl)

	b := &builder{
		e:       e,
		tpl:     tpl,
		doc:     doc,
		tot:     doc.ComputeTotals(),
		receipt: tpl.Kind == bizdoc.KindReceipt,
	}
	if b.receipt {
		b.pageW = template.ReceiptWidth
		b.pageH = receiptDraftHeight
	} else {
		b.pageW, b.pageH = paperSize(tpl.Layout.Paper)
	}
	b.margin = tpl.Layout.Margin
	b.density = tpl.Layout.Density
	b.page = -1
	b.newPage()

	for _, sec := range tpl.Layout.SectionOrder {
		switch sec {
		case template.SectionHeader:
			b.header()
		case template.SectionTitle:
			b.title()
		case template.SectionDetails:
			b.details()
		case template.SectionTable:
			b.table()
		case template.SectionTotals:
			b.totals()
		case template.SectionTerms:
			b.terms()
		case template.SectionSignature:
			b.signature()
		case template.SectionFooter:
			b.footer()
		}
	}

	res := &Result{
		Kind:      tpl.Kind,
		PageWidth: b.pageW,
		PageCount: b.page + 1,
		Ops:       b.ops,
	}
	if b.receipt {
		res.PageHeight = b.y + b.margin
	} else {
		res.PageHeight = b.pageH
		if e.pageNumbers && res.PageCount > 1 {
			b.stampPageNumbers(res)
		}
	}
	return res, nil
}

// builder accumulates ops for one build. It owns the vertical cursor:
// flow sections advance it, absolute overrides do not.
type builder struct {
	e   *Engine
	tpl template.Template
	doc *record.Document
	tot record.Totals

	receipt              bool
	pageW, pageH, margin float64
	density              float64

	page int // 0-based
	y    float64
	ops  []Op
}

func (b *builder) contentW() float64 {
	return b.pageW - 2*b.margin
}

// newPage starts a new page and re-emits the background watermark.
func (b *builder) newPage() {
	if b.page+1 >= b.e.maxPages {
		return
	}
	b.page++
	b.y = b.margin
	if bg := b.tpl.Background; bg != nil && !b.receipt {
		b.ops = append(b.ops, ImageOp{
			PageIndex: b.page,
			X:         0, Y: 0, W: b.pageW, H: b.pageH,
			Source:  ImageAsset,
			Ref:     bg.Ref,
			Opacity: bg.Opacity,
		})
	}
}

// space advances the cursor by v millimeters scaled by the global
// density multiplier.
func (b *builder) space(v float64) {
	b.y += v * b.density
}

// spacing returns the configured override when non-zero, else the
// default gap.
func spacing(override, def float64) float64 {
	if override > 0 {
		return override
	}
	return def
}

// ensure guarantees h millimeters of vertical room, starting a new
// page when the current one cannot fit them. Receipts grow instead of
// paginating.
func (b *builder) ensure(h float64) {
	if b.receipt {
		return
	}
	if b.y+h > b.pageH-b.margin {
		b.newPage()
	}
}

func (b *builder) bodyFont() FontSpec {
	return FontSpec{
		Family: b.tpl.Fonts.Body,
		Size:   b.tpl.Fonts.BodySize,
		Ref:    b.tpl.Fonts.CustomRef,
	}
}

func (b *builder) boldFont() FontSpec {
	f := b.bodyFont()
	f.Style = "B"
	return f
}

func (b *builder) titleFont() FontSpec {
	return FontSpec{
		Family: b.tpl.Fonts.Title,
		Style:  "B",
		Size:   b.tpl.Fonts.HeaderSize,
		Ref:    b.tpl.Fonts.CustomRef,
	}
}

func (b *builder) smallFont() FontSpec {
	f := b.bodyFont()
	f.Size = f.Size * 0.85
	return f
}

// text emits one text run at the cursor and advances past it.
func (b *builder) text(s string, f FontSpec, c template.Color, align template.Align) {
	if s == "" {
		return
	}
	lh := lineHeight(f)
	b.ensure(lh)
	x := b.margin
	switch align {
	case template.AlignCenter:
		x = b.pageW / 2
	case template.AlignRight:
		x = b.pageW - b.margin
	}
	b.ops = append(b.ops, TextOp{
		PageIndex: b.page,
		X:         x,
		Y:         b.y + ascent(f),
		MaxWidth:  b.contentW(),
		Text:      s,
		Font:      f,
		Color:     c,
		Align:     align,
	})
	b.y += lh
}

// paragraph wraps s into the content width and emits each line.
func (b *builder) paragraph(s string, f FontSpec, c template.Color, align template.Align) {
	for _, line := range wrap(s, f, b.contentW()) {
		b.text(line, f, c, align)
	}
}

// anchorX returns the left edge for a box of width w at a named
// anchor inside the content area.
func (b *builder) anchorX(a template.Anchor, w float64) float64 {
	switch a {
	case template.AnchorCenter:
		return (b.pageW - w) / 2
	case template.AnchorRight:
		return b.pageW - b.margin - w
	default:
		return b.margin
	}
}

// stampPageNumbers emits a small "Page i of n" run on every page.
func (b *builder) stampPageNumbers(res *Result) {
	f := FontSpec{Family: b.tpl.Fonts.Body, Size: 7}
	for p := 0; p < res.PageCount; p++ {
		res.Ops = append(res.Ops, TextOp{
			PageIndex: p,
			X:         b.pageW / 2,
			Y:         b.pageH - b.margin/2,
			MaxWidth:  b.contentW(),
			Text:      pageLabel(p+1, res.PageCount),
			Font:      f,
			Color:     b.tpl.Colors.Secondary,
			Align:     template.AlignCenter,
		})
	}
}

func pageLabel(i, n int) string {
	return fmt.Sprintf("Page %d of %d", i, n)
}
