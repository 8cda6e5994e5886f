package layout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/template"
)

func testDoc(items int) *record.Document {
	doc := &record.Document{
		ID:     "doc-1",
		Kind:   bizdoc.KindInvoice,
		Number: "INV-100",
		Date:   time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		Party: &record.Party{
			Name:    "Acme Traders",
			Address: "5 High Street\nMumbai 400001",
		},
		Status: record.StatusUnpaid,
	}
	for i := 0; i < items; i++ {
		doc.Items = append(doc.Items, record.LineItem{
			Name:       fmt.Sprintf("Line item %03d", i+1),
			Qty:        decimal.NewFromInt(int64(i%5 + 1)),
			Rate:       decimal.NewFromFloat(99.50),
			TaxRatePct: decimal.NewFromInt(18),
		})
	}
	return doc
}

func texts(res *Result) []string {
	var out []string
	for _, op := range res.Ops {
		if t, ok := op.(TextOp); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

func TestBuildMissingRecord(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)

	if _, err := e.Build(tpl, nil); !errors.Is(err, bizdoc.ErrMissingRecord) {
		t.Errorf("nil record: err = %v", err)
	}
	doc := testDoc(2)
	doc.Party = nil
	if _, err := e.Build(tpl, doc); !errors.Is(err, bizdoc.ErrMissingRecord) {
		t.Errorf("no party: err = %v", err)
	}
}

func TestDetailsBandNeverStraddlesPages(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	// Place details after the table so the band starts wherever the
	// table left the cursor, including just above the page bottom.
	tpl.Layout.SectionOrder = []template.Section{
		template.SectionHeader, template.SectionTable, template.SectionDetails,
	}

	pageOf := func(res *Result, needle string) (int, float64) {
		for _, op := range res.Ops {
			if tx, ok := op.(TextOp); ok && strings.Contains(tx.Text, needle) {
				return tx.PageIndex, tx.Y
			}
		}
		return -1, 0
	}

	// Sweep table lengths so some run pushes the band into the break
	// zone; the two columns must land on the same page every time.
	for items := 20; items <= 44; items++ {
		doc := testDoc(items)
		doc.Party.Address = "Unit 7, Industrial Estate\nOld Factory Lane\nBehind Central Market\nPune 411001"
		doc.Party.Phone = "+91 98200 00000"

		res, err := e.Build(tpl, doc)
		if err != nil {
			t.Fatalf("items=%d: Build: %v", items, err)
		}

		billPage, billY := pageOf(res, "Bill To")
		metaPage, metaY := pageOf(res, "Invoice No.")
		if billPage < 0 || metaPage < 0 {
			t.Fatalf("items=%d: band text missing", items)
		}
		if billPage != metaPage {
			t.Fatalf("items=%d: left column on page %d, meta on page %d", items, billPage, metaPage)
		}
		if metaY+1 < billY {
			t.Fatalf("items=%d: meta baseline %.1f above band top %.1f", items, metaY, billY)
		}
	}
}

func TestBuildMalformedTemplateNeverFails(t *testing.T) {
	e := NewEngine()
	tpl := template.Template{Kind: "garbage"}
	tpl.Layout.Margin = -100
	tpl.Layout.SectionOrder = []template.Section{"x", "x"}

	res, err := e.Build(tpl, testDoc(3))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.PageCount < 1 || len(res.Ops) == 0 {
		t.Fatal("empty result from repaired template")
	}
}

func TestFlowCursorMonotonic(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	res, err := e.Build(tpl, testDoc(3))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Text baselines on a page never move upward between ops that the
	// flow emits in order, except for the details section's two-column
	// band. Verify per page that the final baseline is the maximum.
	for p := 0; p < res.PageCount; p++ {
		var last, max float64
		for _, op := range res.PageOps(p) {
			tOp, ok := op.(TextOp)
			if !ok {
				continue
			}
			last = tOp.Y
			if tOp.Y > max {
				max = tOp.Y
			}
		}
		if last < max-20 {
			t.Errorf("page %d: cursor regressed far above flow maximum (last %.1f, max %.1f)", p, last, max)
		}
	}
}

func TestSectionsPlacedOnce(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	tpl.Content.Terms = "Goods once sold will not be taken back."
	res, err := e.Build(tpl, testDoc(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	all := strings.Join(texts(res), "\n")
	for _, needle := range []string{"Bill To", "Terms & Conditions", "Grand Total", "Authorized Signatory"} {
		if got := strings.Count(all, needle); got != 1 {
			t.Errorf("%q appears %d times, want 1", needle, got)
		}
	}
}

func TestAbsoluteLogoIgnoresMarginChange(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	tpl.Content.LogoRef = "logo.png"
	tpl.Layout.Logo = template.Absolute(150, 9)

	logoAt := func(res *Result) (ImageOp, bool) {
		for _, op := range res.Ops {
			if img, ok := op.(ImageOp); ok && img.Ref == "logo.png" {
				return img, true
			}
		}
		return ImageOp{}, false
	}

	res1, err := e.Build(tpl, testDoc(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tpl.Layout.Margin = 30
	res2, err := e.Build(tpl, testDoc(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	l1, ok1 := logoAt(res1)
	l2, ok2 := logoAt(res2)
	if !ok1 || !ok2 {
		t.Fatal("logo op missing")
	}
	if l1.X != l2.X || l1.Y != l2.Y {
		t.Errorf("absolute logo moved: (%v,%v) -> (%v,%v)", l1.X, l1.Y, l2.X, l2.Y)
	}
	if l1.X != 150 || l1.Y != 9 {
		t.Errorf("absolute logo at (%v,%v), want (150,9)", l1.X, l1.Y)
	}
}

func TestAnchoredLogoFollowsMargin(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	tpl.Content.LogoRef = "logo.png"
	tpl.Layout.Logo = template.Anchored(template.AnchorLeft)

	build := func() float64 {
		res, err := e.Build(tpl, testDoc(1))
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		for _, op := range res.Ops {
			if img, ok := op.(ImageOp); ok && img.Ref == "logo.png" {
				return img.X
			}
		}
		t.Fatal("logo op missing")
		return 0
	}

	x1 := build()
	tpl.Layout.Margin = 25
	x2 := build()
	if x1 == x2 {
		t.Error("anchored logo did not follow the margin")
	}
	if x2 != 25 {
		t.Errorf("anchored-left logo at %v, want 25", x2)
	}
}

func TestTablePagination(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	const items = 80
	res, err := e.Build(tpl, testDoc(items))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.PageCount < 2 {
		t.Fatalf("expected pagination, got %d page(s)", res.PageCount)
	}

	// The header band is repeated on every page the table touches.
	headerBands := 0
	pagesWithRows := map[int]bool{}
	var names []string
	for _, op := range res.Ops {
		if tOp, ok := op.(TextOp); ok {
			if tOp.Text == "Item" && tOp.Font.Style == "B" {
				headerBands++
			}
			if strings.HasPrefix(tOp.Text, "Line item ") {
				names = append(names, tOp.Text)
				pagesWithRows[tOp.Page()] = true
			}
		}
	}
	if headerBands != len(pagesWithRows) {
		t.Errorf("header repeated %d times over %d table pages", headerBands, len(pagesWithRows))
	}

	// Concatenating the pages' rows reproduces the input order with no
	// duplicates or omissions.
	if len(names) != items {
		t.Fatalf("%d rows placed, want %d", len(names), items)
	}
	for i, n := range names {
		want := fmt.Sprintf("Line item %03d", i+1)
		if n != want {
			t.Fatalf("row %d = %q, want %q", i, n, want)
		}
	}

	// No row strays into the bottom margin and none starts above the
	// top margin.
	for _, op := range res.Ops {
		if tOp, ok := op.(TextOp); ok && strings.HasPrefix(tOp.Text, "Line item ") {
			if tOp.Y > res.PageHeight-tpl.Layout.Margin || tOp.Y < tpl.Layout.Margin {
				t.Fatalf("row %q at y=%.1f outside the content area", tOp.Text, tOp.Y)
			}
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	tpl.Content.Terms = "Payment due in 15 days."
	doc := testDoc(40)

	res1, err := e.Build(tpl, doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res2, err := e.Build(tpl, doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(res1, res2) {
		t.Fatal("two builds of identical inputs differ")
	}
}

func TestOmittedSectionsAreSkipped(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	tpl.Content.Terms = "Should never appear."
	tpl.Layout.SectionOrder = []template.Section{
		template.SectionHeader, template.SectionTable,
		template.SectionTotals, template.SectionFooter,
	}
	res, err := e.Build(tpl, testDoc(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	all := strings.Join(texts(res), "\n")
	if strings.Contains(all, "Should never appear") {
		t.Error("terms rendered despite being omitted from the order")
	}
	if strings.Contains(all, "Authorized Signatory") {
		t.Error("signature rendered despite being omitted from the order")
	}
	if !strings.Contains(all, "Grand Total") {
		t.Error("totals missing")
	}
}

func TestReceiptAutoHeight(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindReceipt)
	doc := testDoc(30)
	doc.Kind = bizdoc.KindReceipt

	res, err := e.Build(tpl, doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.PageWidth != template.ReceiptWidth {
		t.Errorf("receipt width = %v, want %v", res.PageWidth, template.ReceiptWidth)
	}
	if res.PageCount != 1 {
		t.Errorf("receipt paginated to %d pages", res.PageCount)
	}
	if res.PageHeight <= 0 || res.PageHeight >= receiptDraftHeight {
		t.Errorf("receipt height = %v", res.PageHeight)
	}

	// Content never exceeds the trimmed height.
	for _, op := range res.Ops {
		if tOp, ok := op.(TextOp); ok && tOp.Y > res.PageHeight {
			t.Fatalf("text %q at y=%.1f beyond trimmed height %.1f", tOp.Text, tOp.Y, res.PageHeight)
		}
	}
}

func TestQRPlacement(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	tpl.Content.ShowQR = true
	tpl.Layout.QR = template.Absolute(160, 240)

	res, err := e.Build(tpl, testDoc(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var found bool
	for _, op := range res.Ops {
		if img, ok := op.(ImageOp); ok && img.Source == ImageQR {
			found = true
			if img.X != 160 || img.Y != 240 {
				t.Errorf("absolute QR at (%v,%v)", img.X, img.Y)
			}
			if img.Payload == "" {
				t.Error("QR payload empty")
			}
		}
	}
	if !found {
		t.Fatal("no QR op emitted")
	}

	tpl.Content.ShowQR = false
	res, err = e.Build(tpl, testDoc(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, op := range res.Ops {
		if img, ok := op.(ImageOp); ok && img.Source == ImageQR {
			t.Fatal("QR emitted with the toggle off")
		}
	}
}

func TestWrapAndTruncate(t *testing.T) {
	f := FontSpec{Family: "Helvetica", Size: 10}
	lines := wrap("a reasonably long description that needs several lines", f, 30)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for _, l := range lines {
		if textWidth(l, f) > 30 {
			t.Errorf("line %q exceeds column width", l)
		}
	}

	if got := truncate("short", f, 50); got != "short" {
		t.Errorf("truncate changed a fitting string: %q", got)
	}
	long := truncate("an extremely long cell value that cannot fit", f, 20)
	if !strings.HasSuffix(long, "...") {
		t.Errorf("truncated value %q has no ellipsis", long)
	}
	if textWidth(long, f) > 20 {
		t.Errorf("truncated value still too wide")
	}
}

func TestPageNumbersOnMultiPage(t *testing.T) {
	e := NewEngine()
	tpl := template.Default(bizdoc.KindInvoice)
	res, err := e.Build(tpl, testDoc(80))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := fmt.Sprintf("Page 1 of %d", res.PageCount)
	if !strings.Contains(strings.Join(texts(res), "\n"), want) {
		t.Errorf("missing %q", want)
	}

	quiet := NewEngine(WithPageNumbers(false))
	res, err = quiet.Build(tpl, testDoc(80))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(strings.Join(texts(res), "\n"), "Page 1 of") {
		t.Error("page numbers emitted despite WithPageNumbers(false)")
	}
}
