package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/layout"
	"github.com/lvillar/bizdoc/template"
)

// PDFCanvas draws layout ops into a PDF document. The underlying
// fpdf object carries the sticky error; Err surfaces it.
type PDFCanvas struct {
	pdf    *gofpdf.Fpdf
	assets AssetStore

	// custom font families registered so far, keyed by ref
	fonts  map[string]bool
	images int
}

// NewPDFCanvas creates a PDF canvas. assets may be nil when the
// template references no custom fonts or images.
func NewPDFCanvas(assets AssetStore) *PDFCanvas {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: layout.A4Width, Ht: layout.A4Height},
	})
	// The layout engine owns pagination; automatic breaks would fight it.
	pdf.SetAutoPageBreak(false, 0)
	// Pin the creation date so identical inputs produce identical bytes.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetProducer("bizdoc", true)
	return &PDFCanvas{
		pdf:    pdf,
		assets: assets,
		fonts:  make(map[string]bool),
	}
}

func (c *PDFCanvas) BeginPage(w, h float64) {
	c.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
}

// setFont selects the op's font, registering a custom TTF on first
// use. A ref that cannot be loaded falls back to the built-in family.
func (c *PDFCanvas) setFont(f layout.FontSpec) {
	family := f.Family
	if f.Ref != "" && c.assets != nil {
		if !c.fonts[f.Ref] {
			if data, err := c.assets.Font(f.Ref); err == nil {
				c.pdf.AddUTF8FontFromBytes(f.Ref, "", data)
				c.pdf.AddUTF8FontFromBytes(f.Ref, "B", data)
				c.fonts[f.Ref] = true
			} else {
				bizdoc.Logger().Warn("custom font unavailable",
					"ref", f.Ref, "err", err)
				c.fonts[f.Ref] = false
			}
		}
		if c.fonts[f.Ref] {
			family = f.Ref
		}
	}
	c.pdf.SetFont(family, f.Style, f.Size)
}

func (c *PDFCanvas) Text(op layout.TextOp) {
	c.setFont(op.Font)
	r, g, b := op.Color.RGB()
	c.pdf.SetTextColor(r, g, b)

	x := op.X
	switch op.Align {
	case template.AlignCenter:
		x -= c.pdf.GetStringWidth(op.Text) / 2
	case template.AlignRight:
		x -= c.pdf.GetStringWidth(op.Text)
	}
	c.pdf.Text(x, op.Y, op.Text)
}

func (c *PDFCanvas) Line(op layout.LineOp) {
	r, g, b := op.Color.RGB()
	c.pdf.SetDrawColor(r, g, b)
	c.pdf.SetLineWidth(op.Width)
	c.pdf.Line(op.X1, op.Y1, op.X2, op.Y2)
}

func (c *PDFCanvas) Rect(op layout.RectOp) {
	style := ""
	if op.Fill != nil {
		r, g, b := (*op.Fill).RGB()
		c.pdf.SetFillColor(r, g, b)
		style += "F"
	}
	if op.Stroke != nil {
		r, g, b := (*op.Stroke).RGB()
		c.pdf.SetDrawColor(r, g, b)
		w := op.StrokeWidth
		if w <= 0 {
			w = 0.2
		}
		c.pdf.SetLineWidth(w)
		style += "D"
	}
	if style == "" {
		return
	}
	if op.Radius > 0 {
		c.pdf.RoundedRect(op.X, op.Y, op.W, op.H, op.Radius, "1234", style)
	} else {
		c.pdf.Rect(op.X, op.Y, op.W, op.H, style)
	}
}

func (c *PDFCanvas) Image(op layout.ImageOp, img image.Image) {
	if img == nil {
		return
	}
	// gofpdf cannot read 16-bit PNGs; re-sample 16-bit color models
	// down to 8-bit RGBA before encoding.
	switch img.ColorModel() {
	case color.Gray16Model, color.RGBA64Model, color.NRGBA64Model:
		rgba := image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
		img = rgba
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		bizdoc.Logger().Warn("image encode failed", "ref", op.Ref, "err", err)
		return
	}
	c.images++
	name := fmt.Sprintf("bizdoc-img-%d", c.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	c.pdf.RegisterImageOptionsReader(name, opts, &buf)

	translucent := op.Opacity > 0 && op.Opacity < 1
	if translucent {
		c.pdf.SetAlpha(op.Opacity, "Normal")
	}
	c.pdf.ImageOptions(name, op.X, op.Y, op.W, op.H, false, opts, 0, "")
	if translucent {
		c.pdf.SetAlpha(1.0, "Normal")
	}
}

func (c *PDFCanvas) Err() error {
	if c.pdf.Err() {
		return c.pdf.Error()
	}
	return nil
}

// Output writes the finished PDF to w.
func (c *PDFCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
