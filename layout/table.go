package layout

import (
	"strconv"

	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/template"
)

const (
	cellPadX   = 1.5
	cellPadY   = 1.2
	serialW    = 9.0 // "#" column, mm
	minItemCol = 20.0
)

// column is one resolved table column.
type column struct {
	key   string
	label string
	width float64
	align template.Align // body alignment; header follows HeaderAlign
}

// columns resolves the table geometry from the template. The item
// column absorbs whatever width the fixed columns leave over.
func (b *builder) columns() []column {
	t := b.tpl.Layout.Table
	c := b.tpl.Content
	itemW := b.contentW() - serialW - t.QtyWidth - t.RateWidth - t.AmountWidth
	if itemW < minItemCol {
		itemW = minItemCol
	}
	return []column{
		{key: "serial", label: "#", width: serialW, align: template.AlignLeft},
		{key: "item", label: c.Label("item", "Item"), width: itemW, align: template.AlignLeft},
		{key: "qty", label: c.Label("qty", "Qty"), width: t.QtyWidth, align: template.AlignRight},
		{key: "rate", label: c.Label("rate", "Rate"), width: t.RateWidth, align: template.AlignRight},
		{key: "amount", label: c.Label("amount", "Amount"), width: t.AmountWidth, align: template.AlignRight},
	}
}

// table lays out the item rows, paginating when a row would overflow
// the page. The header row is repeated at the top of every
// continuation page and no row is ever split across a boundary.
func (b *builder) table() {
	cols := b.columns()
	body := b.bodyFont()
	headerH := lineHeight(b.boldFont()) + 2*cellPadY

	b.ensure(headerH + lineHeight(body) + 2*cellPadY)
	b.tableHeader(cols)

	for i, li := range b.doc.Items {
		lines := b.cellLines(li, cols)
		rowH := float64(maxLen(lines))*lineHeight(body) + 2*cellPadY

		if !b.receipt && b.y+rowH > b.pageH-b.margin {
			page := b.page
			b.newPage()
			if b.page == page {
				// Page cap reached; remaining rows are dropped but the
				// totals still cover them.
				return
			}
			b.tableHeader(cols)
		}
		b.tableRow(i, lines, rowH, cols)
	}
	b.space(3)
}

// tableHeader emits the header band at the cursor.
func (b *builder) tableHeader(cols []column) {
	t := b.tpl.Layout.Table
	bold := b.boldFont()
	h := lineHeight(bold) + 2*cellPadY

	bg := b.tpl.Colors.TableHeaderBG
	b.ops = append(b.ops, RectOp{
		PageIndex: b.page,
		X:         b.margin,
		Y:         b.y,
		W:         b.contentW(),
		H:         h,
		Radius:    b.tpl.Layout.CornerRadius,
		Fill:      &bg,
	})

	x := b.margin
	for _, col := range cols {
		b.cellText(b.heading(col.label), bold, b.tpl.Colors.TableHeaderText,
			x, col.width, t.HeaderAlign)
		x += col.width
	}
	b.y += h
}

// cellLines wraps each cell of a row to its column width.
func (b *builder) cellLines(li record.LineItem, cols []column) [][]string {
	body := b.bodyFont()
	qty := record.FormatQty(li.Qty)
	if li.Unit != "" {
		qty += " " + li.Unit
	}
	values := []string{
		"", // serial filled in by tableRow
		li.Name,
		qty,
		record.FormatAmount(li.Rate),
		record.FormatAmount(li.Total().Round(2)),
	}
	lines := make([][]string, len(cols))
	for i, v := range values {
		if i == 1 {
			lines[i] = wrap(v, body, cols[i].width-2*cellPadX)
			continue
		}
		lines[i] = []string{truncate(v, body, cols[i].width-2*cellPadX)}
	}
	return lines
}

// tableRow emits one body row at the cursor: optional banding fill,
// optional border, then the cell text runs.
func (b *builder) tableRow(idx int, lines [][]string, rowH float64, cols []column) {
	t := b.tpl.Layout.Table
	body := b.bodyFont()

	if t.Banded && idx%2 == 1 {
		fill := b.tpl.Colors.AlternateRow
		b.ops = append(b.ops, RectOp{
			PageIndex: b.page,
			X:         b.margin,
			Y:         b.y,
			W:         b.contentW(),
			H:         rowH,
			Fill:      &fill,
		})
	}
	if t.Bordered {
		border := b.tpl.Colors.Border
		x := b.margin
		for _, col := range cols {
			b.ops = append(b.ops, RectOp{
				PageIndex:   b.page,
				X:           x,
				Y:           b.y,
				W:           col.width,
				H:           rowH,
				Stroke:      &border,
				StrokeWidth: 0.2,
			})
			x += col.width
		}
	}

	lines[0] = []string{fmtSerial(idx + 1)}
	x := b.margin
	for c, col := range cols {
		yy := b.y
		for _, line := range lines[c] {
			b.cellTextAt(line, body, b.tpl.Colors.Text, x, yy, col.width, col.align)
			yy += lineHeight(body)
		}
		x += col.width
	}
	b.y += rowH
}

// cellText emits a run inside a cell at the current cursor row.
func (b *builder) cellText(s string, f FontSpec, c template.Color, x, w float64, align template.Align) {
	b.cellTextAt(s, f, c, x, b.y, w, align)
}

// cellTextAt emits a run inside a cell at an explicit row position.
func (b *builder) cellTextAt(s string, f FontSpec, c template.Color, x, y, w float64, align template.Align) {
	tx := x + cellPadX
	switch align {
	case template.AlignCenter:
		tx = x + w/2
	case template.AlignRight:
		tx = x + w - cellPadX
	}
	b.ops = append(b.ops, TextOp{
		PageIndex: b.page,
		X:         tx,
		Y:         y + cellPadY + ascent(f),
		MaxWidth:  w - 2*cellPadX,
		Text:      s,
		Font:      f,
		Color:     c,
		Align:     align,
	})
}

func fmtSerial(n int) string {
	return strconv.Itoa(n)
}

func maxLen(lines [][]string) int {
	m := 1
	for _, l := range lines {
		if len(l) > m {
			m = len(l)
		}
	}
	return m
}
