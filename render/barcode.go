package render

import (
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	pdf417 "github.com/ruudk/golang-pdf417"
)

// qrSidePx is the raster size QR codes are scaled to before embedding.
// Canvases scale the bitmap again to the placed box; starting from a
// fixed, generous size keeps the modules crisp at preview zoom levels.
const qrSidePx = 256

// pdf417 geometry for the receipt barcode strip.
const (
	pdf417Columns  = 6
	pdf417Security = 2
)

// qrImage encodes payload as a QR code bitmap.
func qrImage(payload string) (image.Image, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	return barcode.Scale(code, qrSidePx, qrSidePx)
}

// pdf417Image encodes payload as a PDF417 strip at its native module
// resolution. Canvases stretch it to the placed box.
func pdf417Image(payload string) image.Image {
	return pdf417.Encode(payload, pdf417Columns, pdf417Security)
}
