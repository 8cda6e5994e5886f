// Package bundle concatenates rendered documents into a single PDF,
// optionally stamping a diagonal watermark and bundle-wide page
// numbers. Pages are imported as form XObjects, so the source
// documents are never re-laid-out.
package bundle

import (
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	realgofpdi "github.com/phpdave11/gofpdi"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/template"
)

// Default page geometry in points for pages whose media box cannot be
// read.
const (
	a4WidthPt  = 595.28
	a4HeightPt = 841.89
)

// Stamp is a translucent diagonal text overlay drawn on every bundled
// page, e.g. "DRAFT" across an estimate bundle.
type Stamp struct {
	Text     string
	FontSize float64        // points; default 72
	Opacity  float64        // 0..1; default 0.12
	Angle    float64        // degrees counter-clockwise; default 45
	Color    template.Color // default grey
}

// Bundle accumulates documents. Not safe for concurrent use.
type Bundle struct {
	pdf     *gofpdf.Fpdf
	pages   int
	stamp   *Stamp
	nbAlias bool
	numFmt  string
}

// Option configures a Bundle.
type Option func(*Bundle)

// WithStamp draws the stamp on every page.
func WithStamp(s Stamp) Option {
	return func(b *Bundle) { b.stamp = &s }
}

// WithPageNumbers stamps running page numbers across the whole bundle.
// format receives the page number and the gofpdf total-pages alias,
// e.g. "Page %d of %s". An empty format selects that default.
func WithPageNumbers(format string) Option {
	return func(b *Bundle) {
		if format == "" {
			format = "Page %d of %s"
		}
		b.numFmt = format
		b.nbAlias = true
	}
}

// New creates an empty bundle.
func New(opts ...Option) *Bundle {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	b := &Bundle{pdf: pdf}
	for _, opt := range opts {
		opt(b)
	}
	if b.nbAlias {
		pdf.AliasNbPages("{nb}")
	}
	return b
}

// Append imports every page of a rendered PDF into the bundle.
func (b *Bundle) Append(rs io.ReadSeeker) (err error) {
	// The underlying PDF parser panics on malformed input; surface
	// that as an error instead.
	defer func() {
		if r := recover(); r != nil {
			err = bizdoc.E("bundle.Append",
				fmt.Errorf("%w: %v", bizdoc.ErrInvalidImport, r))
		}
	}()

	n, err := pageCount(rs)
	if err != nil {
		return bizdoc.E("bundle.Append", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return bizdoc.E("bundle.Append", err)
	}

	imp := gofpdi.NewImporter()
	for i := 1; i <= n; i++ {
		tplID := imp.ImportPageFromStream(b.pdf, &rs, i, "/MediaBox")
		pw, ph := pageDims(imp, i)

		b.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pw, Ht: ph})
		imp.UseImportedTemplate(b.pdf, tplID, 0, 0, pw, ph)
		b.pages++

		if b.stamp != nil {
			b.drawStamp(pw, ph)
		}
		if b.nbAlias {
			b.drawPageNumber(pw, ph)
		}
	}
	if b.pdf.Err() {
		return bizdoc.E("bundle.Append", b.pdf.Error())
	}
	return nil
}

// AppendFile imports every page of a PDF file into the bundle.
func (b *Bundle) AppendFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return bizdoc.E("bundle.AppendFile", err)
	}
	defer f.Close()
	return b.Append(f)
}

// Pages returns the number of pages bundled so far.
func (b *Bundle) Pages() int { return b.pages }

// Output writes the merged PDF to w. The bundle must contain at least
// one page.
func (b *Bundle) Output(w io.Writer) error {
	if b.pages == 0 {
		return bizdoc.E("bundle.Output", fmt.Errorf("empty bundle"))
	}
	if err := b.pdf.Output(w); err != nil {
		return bizdoc.E("bundle.Output", err)
	}
	return nil
}

func (b *Bundle) drawStamp(pw, ph float64) {
	s := b.stamp
	size := s.FontSize
	if size <= 0 {
		size = 72
	}
	opacity := s.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 0.12
	}
	angle := s.Angle
	if angle == 0 {
		angle = 45
	}
	col := s.Color
	if !col.Valid() {
		col = "#9e9e9e"
	}
	r, g, bl := col.RGB()

	b.pdf.SetFont("Helvetica", "B", size)
	b.pdf.SetTextColor(r, g, bl)
	b.pdf.SetAlpha(opacity, "Normal")

	textW := b.pdf.GetStringWidth(s.Text)
	cx, cy := pw/2, ph/2
	b.pdf.TransformBegin()
	b.pdf.TransformRotate(angle, cx, cy)
	b.pdf.Text(cx-textW/2, cy+size/3, s.Text)
	b.pdf.TransformEnd()
	b.pdf.SetAlpha(1.0, "Normal")
}

func (b *Bundle) drawPageNumber(pw, ph float64) {
	text := fmt.Sprintf(b.numFmt, b.pages, "{nb}")
	b.pdf.SetFont("Helvetica", "", 9)
	b.pdf.SetTextColor(120, 120, 120)
	textW := b.pdf.GetStringWidth(text)
	b.pdf.Text((pw-textW)/2, ph-18, text)
}

// pageDims reads the imported page's media box, falling back to A4.
func pageDims(imp *gofpdi.Importer, page int) (w, h float64) {
	sizes := imp.GetPageSizes()
	if dims, ok := sizes[page]; ok {
		if mb, ok := dims["/MediaBox"]; ok {
			w, h = mb["w"], mb["h"]
		}
	}
	if w == 0 || h == 0 {
		w, h = a4WidthPt, a4HeightPt
	}
	return w, h
}

// pageCount parses the stream just far enough to count pages.
func pageCount(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	imp := realgofpdi.NewImporter()
	imp.SetSourceStream(&rs)
	n := imp.GetNumPages()
	if n <= 0 {
		return 0, fmt.Errorf("%w: no pages", bizdoc.ErrInvalidImport)
	}
	return n, nil
}

// Merge concatenates already-rendered PDFs and writes the result to w.
func Merge(w io.Writer, parts ...io.ReadSeeker) error {
	if len(parts) == 0 {
		return bizdoc.E("bundle.Merge", fmt.Errorf("no input documents"))
	}
	b := New()
	for i, p := range parts {
		if err := b.Append(p); err != nil {
			return fmt.Errorf("part %d: %w", i+1, err)
		}
	}
	return b.Output(w)
}

// MergeFiles concatenates PDF files into outputPath.
func MergeFiles(outputPath string, inputPaths []string, opts ...Option) error {
	if len(inputPaths) == 0 {
		return bizdoc.E("bundle.MergeFiles", fmt.Errorf("no input files"))
	}
	b := New(opts...)
	for _, p := range inputPaths {
		if err := b.AppendFile(p); err != nil {
			return fmt.Errorf("merging %s: %w", p, err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return bizdoc.E("bundle.MergeFiles", err)
	}
	defer f.Close()
	return b.Output(f)
}
