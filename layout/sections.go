package layout

import (
	"strings"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/template"
)

// heading applies the uppercase-headings toggle.
func (b *builder) heading(s string) string {
	if b.tpl.Layout.UppercaseHeadings {
		return strings.ToUpper(s)
	}
	return s
}

// header lays out the logo, business name, and address block. The
// banner style paints a full-width band behind them; minimal drops the
// address block entirely.
func (b *builder) header() {
	lay := b.tpl.Layout
	content := b.tpl.Content

	// Keep the whole header on one page so the banner band stays in
	// one piece.
	b.ensure(40)
	bannerTop := b.y
	bannerPage := b.page
	textColor := b.tpl.Colors.Text
	nameColor := b.tpl.Colors.Primary
	if lay.HeaderStyle == template.HeaderBanner {
		textColor = b.tpl.Colors.BannerText
		nameColor = b.tpl.Colors.BannerText
	}
	var bannerAt int
	if lay.HeaderStyle == template.HeaderBanner {
		// Reserve the op slot now so the band paints under the text;
		// its height is patched once the section is measured.
		bannerAt = len(b.ops)
		b.ops = append(b.ops, RectOp{})
	}

	// Logo. An absolute override is pinned at its literal coordinates
	// and does not advance the cursor; an anchored logo flows.
	if content.LogoRef != "" {
		op := ImageOp{
			PageIndex: b.page,
			W:         lay.LogoSize,
			H:         lay.LogoSize,
			Source:    ImageAsset,
			Ref:       content.LogoRef,
		}
		if lay.Logo.IsAbsolute() {
			op.X, op.Y = lay.Logo.X, lay.Logo.Y
			b.ops = append(b.ops, op)
		} else {
			op.X = b.anchorX(lay.Logo.Anchor, lay.LogoSize)
			op.Y = b.y
			b.ops = append(b.ops, op)
			b.y += lay.LogoSize
			b.space(spacing(lay.Spacing.BelowLogo, 2))
		}
	}

	name := content.BusinessName
	if name == "" {
		name = "Your Business"
	}
	nameFont := b.titleFont()
	if lay.HeaderStyle == template.HeaderMinimal {
		nameFont.Size = b.tpl.Fonts.BodySize * 1.3
	}
	b.text(b.heading(name), nameFont, nameColor, lay.HeaderAlign)
	b.space(spacing(lay.Spacing.BelowBusiness, 1))

	if lay.HeaderStyle != template.HeaderMinimal {
		if content.BusinessAddress != "" {
			b.paragraph(content.BusinessAddress, b.smallFont(), textColor, lay.HeaderAlign)
		}
		if content.BusinessPhone != "" {
			b.text(content.BusinessPhone, b.smallFont(), textColor, lay.HeaderAlign)
		}
		b.space(spacing(lay.Spacing.BelowAddress, 1))
	}

	if lay.HeaderStyle == template.HeaderBanner {
		bg := b.tpl.Colors.BannerBG
		b.ops[bannerAt] = RectOp{
			PageIndex: bannerPage,
			X:         0,
			Y:         bannerTop - b.margin/2,
			W:         b.pageW,
			H:         b.y - bannerTop + b.margin,
			Fill:      &bg,
		}
		b.space(b.margin / 2)
	}

	b.space(spacing(lay.Spacing.BelowHeader, 4))
}

// title lays out the document heading ("Tax Invoice", "Estimate", ...)
// with a rule underneath except in banner style.
func (b *builder) title() {
	label := b.tpl.Content.Label("title", b.tpl.Kind.Title())
	f := b.titleFont()
	f.Size = b.tpl.Fonts.HeaderSize * 0.85
	b.text(b.heading(label), f, b.tpl.Colors.Primary, template.AlignCenter)
	if b.tpl.Layout.HeaderStyle != template.HeaderBanner {
		b.ops = append(b.ops, LineOp{
			PageIndex: b.page,
			X1:        b.margin,
			Y1:        b.y,
			X2:        b.pageW - b.margin,
			Y2:        b.y,
			Width:     0.4,
			Color:     b.tpl.Colors.Primary,
		})
		b.space(1.5)
	}
	b.space(2)
}

// details lays out the party block on the left and the document
// number, date, and tax id on the right. Receipts stack the two
// blocks vertically instead.
func (b *builder) details() {
	c := b.tpl.Content
	doc := b.doc
	body := b.bodyFont()
	bold := b.boldFont()
	small := b.smallFont()
	text := b.tpl.Colors.Text

	metaLines := []string{
		c.Label("number", numberLabel(b.tpl.Kind)) + ": " + doc.Number,
		c.Label("date", "Date") + ": " + doc.Date.Format("02 Jan 2006"),
	}
	if doc.Party.TaxID != "" {
		metaLines = append(metaLines, c.Label("taxId", "GSTIN")+": "+doc.Party.TaxID)
	}

	if b.receipt {
		for _, l := range metaLines {
			b.text(l, small, text, template.AlignLeft)
		}
		b.text(b.heading(c.Label("billTo", "Bill To")), bold, b.tpl.Colors.Secondary, template.AlignLeft)
		b.text(doc.Party.Name, body, text, template.AlignLeft)
		b.space(2)
		return
	}

	// Two columns sharing the band; the cursor advances past the
	// taller of them. Break up front so restoring the cursor for the
	// right column never crosses a page boundary.
	half := b.contentW() / 2
	bandH := 2 * lineHeight(bold)
	if doc.Party.Address != "" {
		bandH += float64(len(wrap(doc.Party.Address, small, half))) * lineHeight(small)
	}
	if doc.Party.Phone != "" {
		bandH += lineHeight(small)
	}
	if metaH := float64(len(metaLines)) * lineHeight(body); metaH > bandH {
		bandH = metaH
	}
	b.ensure(bandH)

	top := b.y
	b.text(b.heading(c.Label("billTo", "Bill To")), bold, b.tpl.Colors.Secondary, template.AlignLeft)
	b.text(doc.Party.Name, bold, text, template.AlignLeft)
	if doc.Party.Address != "" {
		for _, line := range wrap(doc.Party.Address, small, half) {
			b.text(line, small, text, template.AlignLeft)
		}
	}
	if doc.Party.Phone != "" {
		b.text(doc.Party.Phone, small, text, template.AlignLeft)
	}
	leftBottom := b.y

	b.y = top
	for _, l := range metaLines {
		b.text(l, body, text, template.AlignRight)
	}
	if b.y < leftBottom {
		b.y = leftBottom
	}
	b.space(3)
}

func numberLabel(kind bizdoc.DocKind) string {
	return kind.Title() + " No."
}

// totals lays out the aggregate block right-aligned, the QR code, the
// amount in words, and the status stamp.
func (b *builder) totals() {
	lay := b.tpl.Layout
	c := b.tpl.Content
	body := b.bodyFont()
	bold := b.boldFont()

	type row struct {
		label string
		value string
		grand bool
	}
	rows := []row{{c.Label("subtotal", "Subtotal"), record.FormatAmount(b.tot.Subtotal), false}}
	if !b.tot.Discount.IsZero() {
		rows = append(rows, row{c.Label("discount", "Discount"), "-" + record.FormatAmount(b.tot.Discount), false})
	}
	if !b.tot.Tax.IsZero() {
		rows = append(rows, row{c.Label("tax", "GST (incl.)"), record.FormatAmount(b.tot.Tax), false})
	}
	rows = append(rows, row{c.Label("total", "Grand Total"), record.FormatMoney(b.tot.Grand), true})

	rowH := lineHeight(body) + 1
	blockH := float64(len(rows))*rowH + 2
	qrVisible := c.ShowQR && !b.receipt
	bandH := blockH
	if qrVisible && !lay.QR.IsAbsolute() {
		if lay.QRSize > bandH {
			bandH = lay.QRSize
		}
	}
	b.ensure(bandH + 4)
	top := b.y

	// QR code: anchored shares the totals band; absolute is pinned and
	// leaves the cursor alone.
	if qrVisible {
		qr := ImageOp{
			PageIndex: b.page,
			W:         lay.QRSize,
			H:         lay.QRSize,
			Source:    ImageQR,
			Payload:   qrPayload(b.doc, b.tot),
		}
		if lay.QR.IsAbsolute() {
			qr.X, qr.Y = lay.QR.X, lay.QR.Y
		} else {
			anchor := lay.QR.Anchor
			if anchor == template.AnchorRight {
				// Totals occupy the right edge; push the code left.
				anchor = template.AnchorLeft
			}
			qr.X = b.anchorX(anchor, lay.QRSize)
			qr.Y = top
		}
		b.ops = append(b.ops, qr)
	}

	labelX := b.pageW - b.margin - lay.Table.AmountWidth - lay.Table.RateWidth
	valueX := b.pageW - b.margin
	for _, r := range rows {
		f := body
		color := b.tpl.Colors.Text
		if r.grand {
			f = bold
			color = b.tpl.Colors.Primary
			grandBG := b.tpl.Colors.AlternateRow
			b.ops = append(b.ops, RectOp{
				PageIndex: b.page,
				X:         labelX - 2,
				Y:         b.y - 0.5,
				W:         valueX - labelX + 4,
				H:         rowH + 1,
				Radius:    lay.CornerRadius,
				Fill:      &grandBG,
			})
		}
		baseline := b.y + ascent(f)
		b.ops = append(b.ops, TextOp{
			PageIndex: b.page,
			X:         labelX,
			Y:         baseline,
			MaxWidth:  valueX - labelX,
			Text:      r.label,
			Font:      f,
			Color:     color,
			Align:     template.AlignLeft,
		})
		b.ops = append(b.ops, TextOp{
			PageIndex: b.page,
			X:         valueX,
			Y:         baseline,
			MaxWidth:  valueX - labelX,
			Text:      r.value,
			Font:      f,
			Color:     color,
			Align:     template.AlignRight,
		})
		b.y += rowH
	}

	if qrVisible && !lay.QR.IsAbsolute() && top+lay.QRSize > b.y {
		b.y = top + lay.QRSize
	}
	b.space(2)

	if c.ShowAmountWords {
		words := c.Label("amountWords", "Amount in words") + ": " +
			record.AmountInWords(b.tot.Grand)
		b.paragraph(words, b.smallFont(), b.tpl.Colors.Secondary, template.AlignLeft)
	}

	if c.ShowStatusStamp && b.doc.Status != "" && b.doc.Status != record.StatusDraft {
		b.statusStamp()
	}

	if b.receipt && c.ReceiptBarcode {
		b.ops = append(b.ops, ImageOp{
			PageIndex: b.page,
			X:         b.margin,
			Y:         b.y,
			W:         b.contentW(),
			H:         10,
			Source:    ImagePDF417,
			Payload:   qrPayload(b.doc, b.tot),
		})
		b.y += 10
		b.space(2)
	}

	b.space(3)
}

// statusStamp draws a small outlined badge with the payment status.
func (b *builder) statusStamp() {
	label := strings.ToUpper(string(b.doc.Status))
	f := b.boldFont()
	f.Size = b.tpl.Fonts.BodySize * 1.1
	w := textWidth(label, f) + 6
	h := lineHeight(f) + 2.5
	b.ensure(h + 2)

	color := b.tpl.Colors.Secondary
	if b.doc.Status == record.StatusPaid {
		color = b.tpl.Colors.Primary
	}
	x := b.margin
	b.ops = append(b.ops, RectOp{
		PageIndex:   b.page,
		X:           x,
		Y:           b.y,
		W:           w,
		H:           h,
		Radius:      b.tpl.Layout.CornerRadius,
		Stroke:      &color,
		StrokeWidth: 0.5,
	})
	b.ops = append(b.ops, TextOp{
		PageIndex: b.page,
		X:         x + w/2,
		Y:         b.y + ascent(f) + 1,
		MaxWidth:  w,
		Text:      label,
		Font:      f,
		Color:     color,
		Align:     template.AlignCenter,
	})
	b.y += h
	b.space(2)
}

// terms lays out the terms & conditions block, skipped entirely when
// the template has no terms text.
func (b *builder) terms() {
	if b.tpl.Content.Terms == "" {
		return
	}
	b.text(b.heading(b.tpl.Content.Label("terms", "Terms & Conditions")),
		b.boldFont(), b.tpl.Colors.Secondary, template.AlignLeft)
	b.paragraph(b.tpl.Content.Terms, b.smallFont(), b.tpl.Colors.Text, template.AlignLeft)
	b.space(3)
}

// signature lays out the signature image (or a blank rule) with its
// caption, right-aligned.
func (b *builder) signature() {
	const sigW, sigH = 40.0, 16.0
	b.ensure(sigH + lineHeight(b.smallFont()) + 4)

	x := b.pageW - b.margin - sigW
	if b.receipt {
		x = (b.pageW - sigW) / 2
	}
	if ref := b.tpl.Content.SignatureRef; ref != "" {
		b.ops = append(b.ops, ImageOp{
			PageIndex: b.page,
			X:         x,
			Y:         b.y,
			W:         sigW,
			H:         sigH,
			Source:    ImageAsset,
			Ref:       ref,
		})
	}
	b.y += sigH
	b.ops = append(b.ops, LineOp{
		PageIndex: b.page,
		X1:        x,
		Y1:        b.y,
		X2:        x + sigW,
		Y2:        b.y,
		Width:     0.3,
		Color:     b.tpl.Colors.Border,
	})
	b.space(1)
	f := b.smallFont()
	b.ops = append(b.ops, TextOp{
		PageIndex: b.page,
		X:         x + sigW/2,
		Y:         b.y + ascent(f),
		MaxWidth:  sigW,
		Text:      b.tpl.Content.Label("signature", "Authorized Signatory"),
		Font:      f,
		Color:     b.tpl.Colors.Text,
		Align:     template.AlignCenter,
	})
	b.y += lineHeight(f)
	b.space(3)
}

// footer lays out the closing message.
func (b *builder) footer() {
	msg := b.tpl.Content.FooterMessage
	if msg == "" {
		msg = "Thank you for your business!"
	}
	b.paragraph(msg, b.smallFont(), b.tpl.Colors.Secondary, template.AlignCenter)
}

// qrPayload builds the scannable summary encoded into QR and PDF417
// codes: kind, number, date, party, and grand total.
func qrPayload(doc *record.Document, tot record.Totals) string {
	return strings.Join([]string{
		string(doc.Kind),
		doc.Number,
		doc.Date.Format("2006-01-02"),
		doc.Party.Name,
		record.FormatAmount(tot.Grand),
	}, "|")
}
