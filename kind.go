package bizdoc

import "fmt"

// DocKind identifies one of the document kinds the module can render.
// Each kind has its own template, defaults, and rendering quirks
// (receipts use a fixed narrow paper width, reports hide the signature
// section by default, and so on).
type DocKind string

const (
	KindInvoice   DocKind = "invoice"
	KindEstimate  DocKind = "estimate"
	KindDebitNote DocKind = "debit_note"
	KindReceipt   DocKind = "receipt"
	KindReport    DocKind = "report"
)

// Kinds lists every supported document kind in a stable order.
func Kinds() []DocKind {
	return []DocKind{KindInvoice, KindEstimate, KindDebitNote, KindReceipt, KindReport}
}

// ParseKind converts a string into a DocKind.
func ParseKind(s string) (DocKind, error) {
	switch DocKind(s) {
	case KindInvoice, KindEstimate, KindDebitNote, KindReceipt, KindReport:
		return DocKind(s), nil
	}
	return "", fmt.Errorf("bizdoc: unknown document kind %q", s)
}

// Valid reports whether k is one of the supported kinds.
func (k DocKind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// Title returns the default printed heading for the kind. Templates may
// relabel it through their content settings.
func (k DocKind) Title() string {
	switch k {
	case KindEstimate:
		return "Estimate"
	case KindDebitNote:
		return "Debit Note"
	case KindReceipt:
		return "Receipt"
	case KindReport:
		return "Report"
	default:
		return "Tax Invoice"
	}
}
