package record

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords spells out a monetary amount using the Indian grouping
// system (thousand, lakh, crore), e.g. 123456.50 becomes "One Lakh
// Twenty Three Thousand Four Hundred Fifty Six and Fifty Paise Only".
func AmountInWords(v decimal.Decimal) string {
	v = v.Round(2)
	if v.IsNegative() {
		return "Minus " + AmountInWords(v.Neg())
	}

	whole := v.Truncate(0)
	paise := v.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	n := whole.IntPart()

	var b strings.Builder
	if n == 0 {
		b.WriteString("Zero")
	} else {
		writeIndian(&b, n)
	}
	if paise > 0 {
		b.WriteString(" and ")
		writeBelowThousand(&b, paise)
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// writeIndian spells n using crore/lakh/thousand groups.
func writeIndian(b *strings.Builder, n int64) {
	if cr := n / 10000000; cr > 0 {
		writeIndian(b, cr)
		pad(b)
		b.WriteString("Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		pad(b)
		writeBelowThousand(b, lakh)
		pad(b)
		b.WriteString("Lakh")
		n %= 100000
	}
	if th := n / 1000; th > 0 {
		pad(b)
		writeBelowThousand(b, th)
		pad(b)
		b.WriteString("Thousand")
		n %= 1000
	}
	if n > 0 {
		pad(b)
		writeBelowThousand(b, n)
	}
}

func writeBelowThousand(b *strings.Builder, n int64) {
	if h := n / 100; h > 0 {
		b.WriteString(ones[h])
		b.WriteString(" Hundred")
		n %= 100
		if n > 0 {
			b.WriteString(" ")
		}
	}
	switch {
	case n == 0:
	case n < 20:
		b.WriteString(ones[n])
	default:
		b.WriteString(tens[n/10])
		if n%10 > 0 {
			b.WriteString(" ")
			b.WriteString(ones[n%10])
		}
	}
}

func pad(b *strings.Builder) {
	if b.Len() > 0 {
		s := b.String()
		if !strings.HasSuffix(s, " ") {
			b.WriteString(" ")
		}
	}
}
