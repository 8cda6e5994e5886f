// Package record defines the business data rendered into a template:
// line items, the party being billed, and the computed totals. Records
// are owned by the surrounding application's data store; this package
// treats them as read-only input.
//
// All money arithmetic uses shopspring/decimal. Totals follow the
// tax-inclusive convention: a line total already contains GST and the
// tax component is back-calculated, summed across lines, and rounded
// once at the aggregate.
package record

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lvillar/bizdoc"
)

// Status is the payment status printed on a document's stamp.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Party is the customer or supplier a document is addressed to.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	TaxID   string `json:"taxId,omitempty"` // GSTIN or similar
}

// LineItem is one row of a document's item table.
type LineItem struct {
	Name        string          `json:"name"`
	Qty         decimal.Decimal `json:"qty"`
	Unit        string          `json:"unit,omitempty"`
	Rate        decimal.Decimal `json:"rate"`        // tax-inclusive unit price
	DiscountPct decimal.Decimal `json:"discountPct"` // 0..100, per line
	TaxRatePct  decimal.Decimal `json:"taxRatePct"`  // e.g. 5, 12, 18
}

// Gross returns qty × rate before discount.
func (li LineItem) Gross() decimal.Decimal {
	return li.Qty.Mul(li.Rate)
}

// Total returns the discounted, tax-inclusive line total, unrounded.
// The per-line discount applies before the tax back-calculation, for
// every document kind.
func (li LineItem) Total() decimal.Decimal {
	gross := li.Gross()
	if li.DiscountPct.IsZero() {
		return gross
	}
	factor := decimal.NewFromInt(100).Sub(li.DiscountPct).Div(decimal.NewFromInt(100))
	return gross.Mul(factor)
}

// TaxComponent returns the GST contained in the discounted line total:
// T - T/(1+r/100), unrounded. Rounding happens once at the aggregate,
// never per line.
func (li LineItem) TaxComponent() decimal.Decimal {
	total := li.Total()
	if li.TaxRatePct.IsZero() {
		return decimal.Zero
	}
	divisor := decimal.NewFromInt(1).Add(li.TaxRatePct.Div(decimal.NewFromInt(100)))
	return total.Sub(total.DivRound(divisor, 12))
}

// Document is the business record fed into a template at render time.
type Document struct {
	ID     string         `json:"id"`
	Kind   bizdoc.DocKind `json:"kind"`
	Number string         `json:"number"`
	Date   time.Time      `json:"date"`
	Party  *Party         `json:"party"`
	Items  []LineItem     `json:"items"`
	Status Status         `json:"status,omitempty"`
	Notes  string         `json:"notes,omitempty"`
}

// Totals holds the aggregate amounts of a document, each rounded to
// two decimal places.
type Totals struct {
	Subtotal decimal.Decimal // sum of discounted line totals
	Discount decimal.Decimal // total discount given
	Tax      decimal.Decimal // aggregate GST, rounded once
	Grand    decimal.Decimal // subtotal, rounded
}

// ComputeTotals sums the document's lines. Tax is summed as exact
// decimals across every line and rounded exactly once at the end;
// summing pre-rounded per-line taxes drifts on long documents and is
// deliberately not done here.
func (d *Document) ComputeTotals() Totals {
	var subtotal, discount, tax decimal.Decimal
	for _, li := range d.Items {
		subtotal = subtotal.Add(li.Total())
		discount = discount.Add(li.Gross().Sub(li.Total()))
		tax = tax.Add(li.TaxComponent())
	}
	return Totals{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Tax:      tax.Round(2),
		Grand:    subtotal.Round(2),
	}
}

// Validate reports whether the record satisfies the caller contract:
// it must exist and carry a party. A malformed template never fails a
// render, but a missing record always does.
func (d *Document) Validate() error {
	if d == nil || d.Party == nil || d.Party.Name == "" {
		return bizdoc.ErrMissingRecord
	}
	return nil
}

// Clone returns a deep copy sharing no state with the receiver.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Party != nil {
		party := *d.Party
		out.Party = &party
	}
	out.Items = append([]LineItem(nil), d.Items...)
	return &out
}
