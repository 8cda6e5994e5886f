package record

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lvillar/bizdoc"
)

// Sample returns a deterministic dummy document for the given kind,
// used by template previews so the editor always has something to
// render. The data never changes between calls; preview idempotence
// depends on that.
func Sample(kind bizdoc.DocKind) *Document {
	items := []LineItem{
		{
			Name:       "Premium Widget",
			Qty:        decimal.NewFromInt(4),
			Unit:       "pcs",
			Rate:       decimal.NewFromFloat(749.50),
			TaxRatePct: decimal.NewFromInt(18),
		},
		{
			Name:        "Standard Gadget with a descriptive long name",
			Qty:         decimal.NewFromInt(12),
			Unit:        "pcs",
			Rate:        decimal.NewFromFloat(120),
			DiscountPct: decimal.NewFromInt(5),
			TaxRatePct:  decimal.NewFromInt(12),
		},
		{
			Name:       "Installation Service",
			Qty:        decimal.NewFromInt(1),
			Unit:       "job",
			Rate:       decimal.NewFromFloat(1500),
			TaxRatePct: decimal.NewFromInt(18),
		},
	}
	if kind == bizdoc.KindReceipt {
		items = items[:2]
	}

	status := StatusUnpaid
	if kind == bizdoc.KindReceipt {
		status = StatusPaid
	}

	return &Document{
		ID:     "sample",
		Kind:   kind,
		Number: sampleNumber(kind),
		Date:   time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		Party: &Party{
			Name:    "Sharma Traders",
			Address: "14 Market Road\nPune 411001",
			Phone:   "+91 98765 43210",
			TaxID:   "27ABCDE1234F1Z5",
		},
		Items:  items,
		Status: status,
	}
}

func sampleNumber(kind bizdoc.DocKind) string {
	switch kind {
	case bizdoc.KindEstimate:
		return "EST-0042"
	case bizdoc.KindDebitNote:
		return "DN-0007"
	case bizdoc.KindReceipt:
		return "RCT-0118"
	case bizdoc.KindReport:
		return "RPT-2025-04"
	default:
		return "INV-0231"
	}
}
