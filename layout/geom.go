package layout

import "github.com/lvillar/bizdoc/template"

// Page dimensions in millimeters.
const (
	A4Width      = 210.0
	A4Height     = 297.0
	LetterWidth  = 216.0
	LetterHeight = 279.0

	// receiptDraftHeight is the working page height while a receipt is
	// laid out; the final height is trimmed to the content.
	receiptDraftHeight = 4000.0
)

// mmPerPt converts font points to millimeters.
const mmPerPt = 25.4 / 72.0

// paperSize returns the page geometry for a paper selection.
func paperSize(p template.PaperSize) (w, h float64) {
	if p == template.PaperLetter {
		return LetterWidth, LetterHeight
	}
	return A4Width, A4Height
}
