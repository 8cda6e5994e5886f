package template

import (
	"github.com/google/uuid"

	"github.com/lvillar/bizdoc"
)

// Geometry bounds enforced by Validate. Out-of-range values are
// clamped, never rejected: templates are user-editable and a bad
// slider value must not break the preview.
const (
	MinMargin  = 0.0
	MaxMargin  = 40.0
	MinLogo    = 5.0
	MaxLogo    = 60.0
	MinQR      = 10.0
	MaxQR      = 60.0
	MinDensity = 0.5
	MaxDensity = 2.0
	MaxRadius  = 10.0
	MinColumn  = 10.0
	MaxColumn  = 60.0

	// ReceiptWidth is the fixed paper width for receipts, in mm.
	ReceiptWidth = 80.0
	// ReceiptMargin is forced onto receipt templates.
	ReceiptMargin = 4.0
	// ReceiptMaxLogo caps the logo size on the narrow receipt paper.
	ReceiptMaxLogo = 24.0
)

// Default returns the built-in template for a document kind.
func Default(kind bizdoc.DocKind) Template {
	t := Template{
		ID:   uuid.NewString(),
		Kind: kind,
		Colors: Colors{
			Primary:         "#3f51b5",
			Secondary:       "#5c6bc0",
			Text:            "#212121",
			TableHeaderBG:   "#3f51b5",
			TableHeaderText: "#ffffff",
			Border:          "#9e9e9e",
			AlternateRow:    "#f5f5f5",
			BannerBG:        "#3f51b5",
			BannerText:      "#ffffff",
		},
		Fonts: Fonts{
			Title:      "Helvetica",
			Body:       "Helvetica",
			HeaderSize: 16,
			BodySize:   10,
		},
		Layout: Layout{
			Margin:       12,
			Logo:         Anchored(AnchorLeft),
			LogoSize:     22,
			HeaderStyle:  HeaderStandard,
			HeaderAlign:  AlignLeft,
			Paper:        PaperA4,
			Density:      1.0,
			CornerRadius: 2,
			QR:           Anchored(AnchorRight),
			QRSize:       26,
			Table: TableLayout{
				QtyWidth:    20,
				RateWidth:   28,
				AmountWidth: 32,
				HeaderAlign: AlignLeft,
				Bordered:    true,
				Banded:      true,
			},
			SectionOrder: CanonicalOrder(),
		},
		Content: Content{
			ShowQR: true,
		},
	}

	switch kind {
	case bizdoc.KindReceipt:
		t.Layout.Margin = ReceiptMargin
		t.Layout.LogoSize = 16
		t.Layout.Logo = Anchored(AnchorCenter)
		t.Layout.HeaderAlign = AlignCenter
		t.Layout.HeaderStyle = HeaderMinimal
		t.Fonts.HeaderSize = 12
		t.Fonts.BodySize = 8
		t.Layout.Table = TableLayout{
			QtyWidth:    10,
			RateWidth:   14,
			AmountWidth: 16,
			HeaderAlign: AlignLeft,
		}
		t.Content.ShowQR = false
	case bizdoc.KindEstimate:
		t.Content.ShowStatusStamp = false
	case bizdoc.KindInvoice:
		t.Content.ShowAmountWords = true
		t.Content.ShowStatusStamp = true
	case bizdoc.KindReport:
		t.Content.ShowQR = false
	}
	return t
}

// Validate repairs missing or legacy fields by merging against the
// built-in defaults for the template's kind, and clamps known-bad
// numeric values. It never fails; the result is always renderable.
func Validate(t Template) Template {
	kind := t.Kind
	if !kind.Valid() {
		kind = bizdoc.KindInvoice
	}
	def := Default(kind)
	out := t.Clone()
	out.Kind = kind

	if out.ID == "" {
		out.ID = def.ID
	}

	out.Colors.Primary = out.Colors.Primary.or(def.Colors.Primary)
	out.Colors.Secondary = out.Colors.Secondary.or(def.Colors.Secondary)
	out.Colors.Text = out.Colors.Text.or(def.Colors.Text)
	out.Colors.TableHeaderBG = out.Colors.TableHeaderBG.or(def.Colors.TableHeaderBG)
	out.Colors.TableHeaderText = out.Colors.TableHeaderText.or(def.Colors.TableHeaderText)
	out.Colors.Border = out.Colors.Border.or(def.Colors.Border)
	out.Colors.AlternateRow = out.Colors.AlternateRow.or(def.Colors.AlternateRow)
	out.Colors.BannerBG = out.Colors.BannerBG.or(def.Colors.BannerBG)
	out.Colors.BannerText = out.Colors.BannerText.or(def.Colors.BannerText)

	if !builtinFamily(out.Fonts.Title) {
		out.Fonts.Title = def.Fonts.Title
	}
	if !builtinFamily(out.Fonts.Body) {
		out.Fonts.Body = def.Fonts.Body
	}
	if out.Fonts.HeaderSize <= 0 {
		out.Fonts.HeaderSize = def.Fonts.HeaderSize
	}
	if out.Fonts.BodySize <= 0 {
		out.Fonts.BodySize = def.Fonts.BodySize
	}
	out.Fonts.HeaderSize = clamp(out.Fonts.HeaderSize, 8, 32)
	out.Fonts.BodySize = clamp(out.Fonts.BodySize, 6, 16)

	out.Layout = validateLayout(out.Layout, def.Layout, kind)

	if out.Background != nil {
		out.Background.Opacity = clamp(out.Background.Opacity, 0, 1)
		if out.Background.Ref == "" {
			out.Background = nil
		}
	}

	return out
}

func validateLayout(l, def Layout, kind bizdoc.DocKind) Layout {
	l.Margin = clamp(l.Margin, MinMargin, MaxMargin)
	if l.LogoSize <= 0 {
		l.LogoSize = def.LogoSize
	}
	l.LogoSize = clamp(l.LogoSize, MinLogo, MaxLogo)
	l.Logo = l.Logo.normalize(def.Logo.Anchor)

	switch l.HeaderStyle {
	case HeaderStandard, HeaderBanner, HeaderMinimal:
	default:
		l.HeaderStyle = def.HeaderStyle
	}
	switch l.HeaderAlign {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		l.HeaderAlign = def.HeaderAlign
	}
	switch l.Paper {
	case PaperA4, PaperLetter:
	default:
		l.Paper = def.Paper
	}
	if l.Density == 0 {
		l.Density = def.Density
	}
	l.Density = clamp(l.Density, MinDensity, MaxDensity)
	l.CornerRadius = clamp(l.CornerRadius, 0, MaxRadius)

	if l.QRSize <= 0 {
		l.QRSize = def.QRSize
	}
	l.QRSize = clamp(l.QRSize, MinQR, MaxQR)
	l.QR = l.QR.normalize(def.QR.Anchor)

	if l.Table.QtyWidth <= 0 {
		l.Table.QtyWidth = def.Table.QtyWidth
	}
	if l.Table.RateWidth <= 0 {
		l.Table.RateWidth = def.Table.RateWidth
	}
	if l.Table.AmountWidth <= 0 {
		l.Table.AmountWidth = def.Table.AmountWidth
	}
	l.Table.QtyWidth = clamp(l.Table.QtyWidth, MinColumn, MaxColumn)
	l.Table.RateWidth = clamp(l.Table.RateWidth, MinColumn, MaxColumn)
	l.Table.AmountWidth = clamp(l.Table.AmountWidth, MinColumn, MaxColumn)
	switch l.Table.HeaderAlign {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		l.Table.HeaderAlign = def.Table.HeaderAlign
	}

	l.Spacing.BelowLogo = clamp(l.Spacing.BelowLogo, 0, 30)
	l.Spacing.BelowBusiness = clamp(l.Spacing.BelowBusiness, 0, 30)
	l.Spacing.BelowAddress = clamp(l.Spacing.BelowAddress, 0, 30)
	l.Spacing.BelowHeader = clamp(l.Spacing.BelowHeader, 0, 30)

	// Fail closed on a corrupted ordering: fall back to the canonical
	// order wholesale instead of silently dropping a section.
	if !ValidOrder(l.SectionOrder) {
		l.SectionOrder = CanonicalOrder()
	}

	// Receipts always use the narrow fixed paper.
	if kind == bizdoc.KindReceipt {
		l.Margin = clamp(l.Margin, MinMargin, ReceiptMargin*2)
		if l.LogoSize > ReceiptMaxLogo {
			l.LogoSize = ReceiptMaxLogo
		}
	}

	return l
}

func builtinFamily(f string) bool {
	switch f {
	case "Helvetica", "Times", "Courier":
		return true
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
