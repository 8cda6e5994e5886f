package record

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lvillar/bizdoc"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(name, qty, rate, disc, tax string) LineItem {
	return LineItem{
		Name:        name,
		Qty:         dec(qty),
		Rate:        dec(rate),
		DiscountPct: dec(disc),
		TaxRatePct:  dec(tax),
	}
}

func TestLineItemTotals(t *testing.T) {
	li := item("Widget", "2", "500", "0", "18")
	if got := li.Gross(); !got.Equal(dec("1000")) {
		t.Errorf("gross = %s", got)
	}
	if got := li.Total(); !got.Equal(dec("1000")) {
		t.Errorf("total = %s", got)
	}
	// tax = 1000 - 1000/1.18
	want := dec("1000").Sub(dec("1000").DivRound(dec("1.18"), 12))
	if got := li.TaxComponent(); !got.Equal(want) {
		t.Errorf("tax = %s, want %s", got, want)
	}
}

func TestLineItemDiscountBeforeTax(t *testing.T) {
	// 10% discount applies to the line total before the tax
	// back-calculation.
	li := item("Widget", "1", "1000", "10", "18")
	if got := li.Total(); !got.Equal(dec("900")) {
		t.Fatalf("discounted total = %s, want 900", got)
	}
	want := dec("900").Sub(dec("900").DivRound(dec("1.18"), 12))
	if got := li.TaxComponent(); !got.Equal(want) {
		t.Errorf("tax = %s, want %s", got, want)
	}
}

func TestComputeTotals(t *testing.T) {
	doc := &Document{
		Kind: bizdoc.KindInvoice,
		Items: []LineItem{
			item("A", "2", "590", "0", "18"),
			item("B", "1", "105", "0", "5"),
		},
	}
	tot := doc.ComputeTotals()
	if !tot.Subtotal.Equal(dec("1285")) {
		t.Errorf("subtotal = %s, want 1285", tot.Subtotal)
	}
	// 1180 - 1180/1.18 = 180; 105 - 105/1.05 = 5
	if !tot.Tax.Equal(dec("185")) {
		t.Errorf("tax = %s, want 185", tot.Tax)
	}
	if !tot.Grand.Equal(dec("1285")) {
		t.Errorf("grand = %s", tot.Grand)
	}
}

// Aggregate GST must be summed as exact decimals and rounded once.
// Each line below carries a tax component just under half a paisa, so
// rounding per line would collapse the whole tax to zero while the
// canonical order yields 0.48.
func TestTaxSumThenRound(t *testing.T) {
	doc := &Document{Kind: bizdoc.KindInvoice}
	for i := 0; i < 100; i++ {
		doc.Items = append(doc.Items, item("micro", "1", "0.10", "0", "5"))
	}
	tot := doc.ComputeTotals()

	perLineRounded := decimal.Zero
	for _, li := range doc.Items {
		perLineRounded = perLineRounded.Add(li.TaxComponent().Round(2))
	}
	if !perLineRounded.IsZero() {
		t.Fatalf("per-line rounding should collapse to zero, got %s", perLineRounded)
	}
	if !tot.Tax.Equal(dec("0.48")) {
		t.Fatalf("aggregate tax = %s, want 0.48", tot.Tax)
	}
}

// For typical rates the two orders agree within a paisa.
func TestTaxRoundingAgreementTypicalRates(t *testing.T) {
	for _, rate := range []string{"5", "12", "18"} {
		doc := &Document{Kind: bizdoc.KindInvoice}
		for i := 0; i < 20; i++ {
			doc.Items = append(doc.Items, item("item", "3", "149.99", "0", rate))
		}
		tot := doc.ComputeTotals()
		perLine := decimal.Zero
		for _, li := range doc.Items {
			perLine = perLine.Add(li.TaxComponent().Round(2))
		}
		diff := tot.Tax.Sub(perLine).Abs()
		if diff.GreaterThan(dec("0.01")) {
			t.Errorf("rate %s%%: orders diverge by %s", rate, diff)
		}
	}
}

func TestValidate(t *testing.T) {
	var nilDoc *Document
	if err := nilDoc.Validate(); !errors.Is(err, bizdoc.ErrMissingRecord) {
		t.Errorf("nil doc: %v", err)
	}
	doc := &Document{Number: "INV-1", Date: time.Now()}
	if err := doc.Validate(); !errors.Is(err, bizdoc.ErrMissingRecord) {
		t.Errorf("no party: %v", err)
	}
	doc.Party = &Party{Name: "Acme Traders"}
	if err := doc.Validate(); err != nil {
		t.Errorf("valid doc: %v", err)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0", "0.00"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-42", "-42.00"},
	}
	for _, c := range cases {
		if got := FormatAmount(dec(c.in)); got != c.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatQty(t *testing.T) {
	if got := FormatQty(dec("3")); got != "3" {
		t.Errorf("got %q", got)
	}
	if got := FormatQty(dec("2.50")); got != "2.5" {
		t.Errorf("got %q", got)
	}
}

func TestAmountInWords(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0", "Zero Only"},
		{"7", "Seven Only"},
		{"42", "Forty Two Only"},
		{"100", "One Hundred Only"},
		{"1234", "One Thousand Two Hundred Thirty Four Only"},
		{"123456.50", "One Lakh Twenty Three Thousand Four Hundred Fifty Six and Fifty Paise Only"},
		{"10000000", "One Crore Only"},
	}
	for _, c := range cases {
		if got := AmountInWords(dec(c.in)); got != c.want {
			t.Errorf("AmountInWords(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}
