package layout

import (
	"strings"
	"unicode"
)

// Approximate average glyph advances in em units for the built-in
// families. The layout engine cannot shape text (that is the canvases'
// job), so it estimates widths from per-class advances. The estimates
// only need to be deterministic and consistent; canvases re-measure
// with real metrics when aligning.
var familyEm = map[string]float64{
	"Helvetica": 0.51,
	"Times":     0.48,
	"Courier":   0.60,
}

// textWidth estimates the rendered width of s in millimeters.
func textWidth(s string, f FontSpec) float64 {
	em := familyEm[f.Family]
	if em == 0 {
		em = 0.51
	}
	if f.Style == "B" {
		em *= 1.06
	}
	var units float64
	for _, r := range s {
		units += glyphClass(r)
	}
	return units * em * f.Size * mmPerPt
}

// glyphClass returns a relative advance for a rune: narrow glyphs
// below 1, wide glyphs above.
func glyphClass(r rune) float64 {
	switch {
	case r == ' ':
		return 0.55
	case strings.ContainsRune("iljt.,;:'|!", r):
		return 0.55
	case strings.ContainsRune("fr()[]-", r):
		return 0.70
	case r == 'm' || r == 'w' || r == 'M' || r == 'W' || r == '@':
		return 1.45
	case unicode.IsUpper(r) || unicode.IsDigit(r):
		return 1.15
	default:
		return 1.0
	}
}

// lineHeight returns the vertical advance for a font, in millimeters.
func lineHeight(f FontSpec) float64 {
	return f.Size * 1.35 * mmPerPt
}

// ascent approximates the baseline offset from the top of a line.
func ascent(f FontSpec) float64 {
	return f.Size * 1.0 * mmPerPt
}

// wrap splits s into lines no wider than maxW millimeters, breaking on
// whitespace and falling back to rune splits for oversized words.
// Explicit newlines are honored. The result is never empty for
// non-empty input.
func wrap(s string, f FontSpec, maxW float64) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		out = append(out, wrapLine(para, f, maxW)...)
	}
	return out
}

func wrapLine(s string, f FontSpec, maxW float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	cur := ""
	flush := func() {
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
	}
	for _, w := range words {
		if textWidth(w, f) > maxW {
			// Single word wider than the column: hard-split it.
			flush()
			parts := splitRunes(w, f, maxW)
			lines = append(lines, parts[:len(parts)-1]...)
			cur = parts[len(parts)-1]
			continue
		}
		if cur == "" {
			cur = w
			continue
		}
		if textWidth(cur+" "+w, f) <= maxW {
			cur += " " + w
		} else {
			flush()
			cur = w
		}
	}
	flush()
	return lines
}

func splitRunes(w string, f FontSpec, maxW float64) []string {
	var lines []string
	cur := ""
	for _, r := range w {
		if textWidth(cur+string(r), f) > maxW && cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		cur += string(r)
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// truncate shortens s with an ellipsis so it fits maxW.
func truncate(s string, f FontSpec, maxW float64) string {
	if textWidth(s, f) <= maxW {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		if textWidth(string(runes)+"...", f) <= maxW {
			return string(runes) + "..."
		}
	}
	return string(runes)
}
