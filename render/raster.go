package render

import (
	"image"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/layout"
	"github.com/lvillar/bizdoc/template"
)

const mmPerPt = 25.4 / 72.0

// RasterCanvas draws layout ops into a gg pixmap for on-screen
// preview. One canvas renders one page; EncodePNG emits the result.
//
// The built-in families all map onto the bundled Go fonts: the preview
// only needs to show proportions and color, the PDF canvas is the
// typographic ground truth.
type RasterCanvas struct {
	dc     *gg.Context
	scale  float64 // pixels per millimeter
	assets AssetStore

	regular *text.FontSource
	bold    *text.FontSource
	custom  map[string]*text.FontSource

	err error
}

// NewRasterCanvas creates a raster canvas at the given pixel density.
// assets may be nil.
func NewRasterCanvas(pxPerMM float64, assets AssetStore) (*RasterCanvas, error) {
	if pxPerMM <= 0 {
		pxPerMM = 4
	}
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, bizdoc.E("render.NewRasterCanvas", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, bizdoc.E("render.NewRasterCanvas", err)
	}
	return &RasterCanvas{
		scale:   pxPerMM,
		assets:  assets,
		regular: regular,
		bold:    bold,
		custom:  make(map[string]*text.FontSource),
	}, nil
}

func (c *RasterCanvas) BeginPage(w, h float64) {
	c.dc = gg.NewContext(int(w*c.scale+0.5), int(h*c.scale+0.5))
	c.dc.SetRGB(1, 1, 1)
	c.dc.DrawRectangle(0, 0, w*c.scale, h*c.scale)
	c.fill()
}

func (c *RasterCanvas) fill() {
	c.dc.Fill()
}

func (c *RasterCanvas) stroke() {
	c.dc.Stroke()
}

func (c *RasterCanvas) source(f layout.FontSpec) *text.FontSource {
	if f.Ref != "" && c.assets != nil {
		if src, ok := c.custom[f.Ref]; ok {
			if src != nil {
				return src
			}
		} else {
			data, err := c.assets.Font(f.Ref)
			if err == nil {
				src, err2 := text.NewFontSource(data)
				if err2 == nil {
					c.custom[f.Ref] = src
					return src
				}
				err = err2
			}
			bizdoc.Logger().Warn("custom font unavailable", "ref", f.Ref, "err", err)
			c.custom[f.Ref] = nil
		}
	}
	if f.Style == "B" {
		return c.bold
	}
	return c.regular
}

func (c *RasterCanvas) Text(op layout.TextOp) {
	if c.dc == nil || op.Text == "" {
		return
	}
	face := c.source(op.Font).Face(op.Font.Size * mmPerPt * c.scale)
	c.dc.SetFont(face)
	c.dc.SetHexColor(op.Color.Hex())

	x := op.X * c.scale
	w, _ := c.dc.MeasureString(op.Text)
	switch op.Align {
	case template.AlignCenter:
		x -= w / 2
	case template.AlignRight:
		x -= w
	}
	c.dc.DrawString(op.Text, x, op.Y*c.scale)
}

func (c *RasterCanvas) Line(op layout.LineOp) {
	if c.dc == nil {
		return
	}
	c.dc.SetHexColor(op.Color.Hex())
	c.dc.SetLineWidth(op.Width * c.scale)
	c.dc.DrawLine(op.X1*c.scale, op.Y1*c.scale, op.X2*c.scale, op.Y2*c.scale)
	c.stroke()
}

func (c *RasterCanvas) Rect(op layout.RectOp) {
	if c.dc == nil {
		return
	}
	x, y := op.X*c.scale, op.Y*c.scale
	w, h := op.W*c.scale, op.H*c.scale
	drawPath := func() {
		if op.Radius > 0 {
			c.dc.DrawRoundedRectangle(x, y, w, h, op.Radius*c.scale)
		} else {
			c.dc.DrawRectangle(x, y, w, h)
		}
	}
	if op.Fill != nil {
		c.dc.SetHexColor(op.Fill.Hex())
		drawPath()
		c.fill()
	}
	if op.Stroke != nil {
		c.dc.SetHexColor(op.Stroke.Hex())
		sw := op.StrokeWidth
		if sw <= 0 {
			sw = 0.2
		}
		c.dc.SetLineWidth(sw * c.scale)
		drawPath()
		c.stroke()
	}
}

func (c *RasterCanvas) Image(op layout.ImageOp, img image.Image) {
	if c.dc == nil || img == nil {
		return
	}
	opacity := op.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	c.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:         op.X * c.scale,
		Y:         op.Y * c.scale,
		DstWidth:  op.W * c.scale,
		DstHeight: op.H * c.scale,
		Opacity:   opacity,
	})
}

func (c *RasterCanvas) Err() error { return c.err }

// Image returns the rendered page bitmap.
func (c *RasterCanvas) Bitmap() image.Image {
	if c.dc == nil {
		return nil
	}
	return c.dc.Image()
}

// EncodePNG writes the rendered page to w.
func (c *RasterCanvas) EncodePNG(w io.Writer) error {
	if c.dc == nil {
		return bizdoc.E("render.EncodePNG", bizdoc.ErrRenderFailure)
	}
	return png.Encode(w, c.dc.Image())
}
