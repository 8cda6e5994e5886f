// Package template defines the declarative template model for business
// documents: colors, fonts, layout geometry, content labels, and
// section ordering for one document kind.
//
// A Template is a pure value. Every operation here (Validate,
// ApplyPreset, Import) returns a new value rather than mutating in
// place, so editors can snapshot templates cheaply for undo/redo.
//
// Example JSON:
//
//	{
//	  "id": "2f6b49e8-6f0f-4f20-a6a3-4f1d17a5b0aa",
//	  "kind": "invoice",
//	  "colors": {"primary": "#3F51B5", "text": "#212121"},
//	  "layout": {"margin": 12, "sectionOrder": ["header", "title",
//	              "details", "table", "totals", "terms", "signature",
//	              "footer"]}
//	}
package template

import (
	"github.com/lvillar/bizdoc"
)

// Template is the root configuration for one document kind.
type Template struct {
	ID         string       `json:"id"`
	Kind       bizdoc.DocKind `json:"kind"`
	Colors     Colors       `json:"colors"`
	Fonts      Fonts        `json:"fonts"`
	Layout     Layout       `json:"layout"`
	Content    Content      `json:"content"`
	Background *Background  `json:"background,omitempty"`
}

// Colors holds the named color roles used throughout a document.
// Each value is a "#RRGGBB" string; invalid values fall back to the
// role's default at parse time rather than failing a render.
type Colors struct {
	Primary         Color `json:"primary"`
	Secondary       Color `json:"secondary"`
	Text            Color `json:"text"`
	TableHeaderBG   Color `json:"tableHeaderBg"`
	TableHeaderText Color `json:"tableHeaderText"`
	Border          Color `json:"border"`
	AlternateRow    Color `json:"alternateRow"`
	BannerBG        Color `json:"bannerBg"`
	BannerText      Color `json:"bannerText"`
}

// Fonts selects the font families and base sizes for a document.
// Family names come from the closed built-in set (Helvetica, Times,
// Courier); CustomRef, when non-empty, names an uploaded font asset
// that overrides the body family.
type Fonts struct {
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	CustomRef  string  `json:"customRef,omitempty"`
	HeaderSize float64 `json:"headerSize"` // pt
	BodySize   float64 `json:"bodySize"`   // pt
}

// HeaderStyle selects the visual treatment of the header section.
type HeaderStyle string

const (
	HeaderStandard HeaderStyle = "standard"
	HeaderBanner   HeaderStyle = "banner"
	HeaderMinimal  HeaderStyle = "minimal"
)

// PaperSize selects the page geometry. Receipts ignore it and always
// use a fixed narrow width.
type PaperSize string

const (
	PaperA4     PaperSize = "A4"
	PaperLetter PaperSize = "Letter"
)

// Align is a horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Layout holds the geometry and structural parameters of a template.
// All lengths are document-space millimeters.
type Layout struct {
	Margin            float64     `json:"margin"`
	Logo              Placement   `json:"logo"`
	LogoSize          float64     `json:"logoSize"`
	HeaderStyle       HeaderStyle `json:"headerStyle"`
	HeaderAlign       Align       `json:"headerAlign"`
	Paper             PaperSize   `json:"paper"`
	Density           float64     `json:"density"` // global vertical spacing multiplier
	CornerRadius      float64     `json:"cornerRadius"`
	Spacing           Spacing     `json:"spacing"`
	QR                Placement   `json:"qr"`
	QRSize            float64     `json:"qrSize"`
	Table             TableLayout `json:"table"`
	UppercaseHeadings bool        `json:"uppercaseHeadings"`
	SectionOrder      []Section   `json:"sectionOrder"`
}

// Spacing holds per-element vertical spacing overrides, in millimeters
// before scaling by the density multiplier. Zero means "use default".
type Spacing struct {
	BelowLogo     float64 `json:"belowLogo,omitempty"`
	BelowBusiness float64 `json:"belowBusiness,omitempty"`
	BelowAddress  float64 `json:"belowAddress,omitempty"`
	BelowHeader   float64 `json:"belowHeader,omitempty"`
}

// TableLayout configures the item table's columns and header row.
type TableLayout struct {
	QtyWidth    float64 `json:"qtyWidth"`    // mm
	RateWidth   float64 `json:"rateWidth"`   // mm
	AmountWidth float64 `json:"amountWidth"` // mm
	HeaderAlign Align   `json:"headerAlign"`
	Bordered    bool    `json:"bordered"`
	Banded      bool    `json:"banded"` // alternate-row fill
}

// Content holds the free-text template fields and per-kind toggles.
type Content struct {
	BusinessName    string            `json:"businessName,omitempty"`
	BusinessAddress string            `json:"businessAddress,omitempty"`
	BusinessPhone   string            `json:"businessPhone,omitempty"`
	Terms           string            `json:"terms,omitempty"`
	FooterMessage   string            `json:"footerMessage,omitempty"`
	Labels          map[string]string `json:"labels,omitempty"`
	LogoRef         string            `json:"logoRef,omitempty"`
	SignatureRef    string            `json:"signatureRef,omitempty"`
	ShowAmountWords bool              `json:"showAmountWords"`
	ShowStatusStamp bool              `json:"showStatusStamp"`
	ShowQR          bool              `json:"showQr"`
	ReceiptBarcode  bool              `json:"receiptBarcode"` // PDF417 strip on receipts
}

// Label returns the relabeled text for a standard field name, or the
// fallback when no relabeling is configured.
func (c Content) Label(key, fallback string) string {
	if v, ok := c.Labels[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Background is an optional watermark image drawn under every page.
type Background struct {
	Ref     string  `json:"ref"`
	Opacity float64 `json:"opacity"` // 0..1
}

// Section identifies one vertical slice of a document.
type Section string

const (
	SectionHeader    Section = "header"
	SectionTitle     Section = "title"
	SectionDetails   Section = "details"
	SectionTable     Section = "table"
	SectionTotals    Section = "totals"
	SectionTerms     Section = "terms"
	SectionSignature Section = "signature"
	SectionFooter    Section = "footer"
)

// CanonicalOrder returns the canonical section ordering. A template's
// SectionOrder is a duplicate-free subset of this set: reordering
// changes the vertical flow and leaving a section out skips it. A
// corrupted ordering (duplicates, unknown identifiers, or an empty
// list) falls back to the canonical order wholesale rather than
// silently dropping sections.
func CanonicalOrder() []Section {
	return []Section{
		SectionHeader, SectionTitle, SectionDetails, SectionTable,
		SectionTotals, SectionTerms, SectionSignature, SectionFooter,
	}
}

// ValidOrder reports whether order is a non-empty, duplicate-free
// subset of the canonical section set.
func ValidOrder(order []Section) bool {
	if len(order) == 0 {
		return false
	}
	canon := make(map[Section]bool, 8)
	for _, s := range CanonicalOrder() {
		canon[s] = true
	}
	seen := make(map[Section]bool, len(order))
	for _, s := range order {
		if !canon[s] || seen[s] {
			return false
		}
		seen[s] = true
	}
	return true
}

// Clone returns a deep copy of the template. Slices and maps are
// copied so mutating the clone never aliases the original.
func (t Template) Clone() Template {
	out := t
	if t.Layout.SectionOrder != nil {
		out.Layout.SectionOrder = append([]Section(nil), t.Layout.SectionOrder...)
	}
	if t.Content.Labels != nil {
		out.Content.Labels = make(map[string]string, len(t.Content.Labels))
		for k, v := range t.Content.Labels {
			out.Content.Labels[k] = v
		}
	}
	if t.Background != nil {
		bg := *t.Background
		out.Background = &bg
	}
	return out
}
