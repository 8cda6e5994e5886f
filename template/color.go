package template

import (
	"fmt"
	"strings"
)

// Color is a normalized "#RRGGBB" color value. The zero value is
// treated as "unset" and repaired by Validate; a malformed value
// resolves to black at draw time rather than failing a render.
type Color string

// RGB returns the 8-bit color channels. Malformed values return black.
func (c Color) RGB() (r, g, b int) {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	var rr, gg, bb int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rr, &gg, &bb); err != nil {
		return 0, 0, 0
	}
	return rr, gg, bb
}

// Valid reports whether the value parses as "#RRGGBB".
func (c Color) Valid() bool {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return false
	}
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}

// Hex returns the canonical "#rrggbb" form.
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// or returns c when valid, otherwise the fallback.
func (c Color) or(fallback Color) Color {
	if c.Valid() {
		return c
	}
	return fallback
}
