package template

// Anchor names a horizontal side of the content area.
type Anchor string

const (
	AnchorLeft   Anchor = "left"
	AnchorCenter Anchor = "center"
	AnchorRight  Anchor = "right"
)

// PlacementMode distinguishes flow-anchored placement from a literal
// coordinate override.
type PlacementMode string

const (
	// PlaceAnchored positions the element at a named side of the
	// current flow band; it participates in flow and advances the
	// vertical cursor.
	PlaceAnchored PlacementMode = "anchored"

	// PlaceAbsolute pins the element at a literal X/Y in page space;
	// the vertical cursor is not advanced.
	PlaceAbsolute PlacementMode = "absolute"
)

// Placement positions an element either by a named anchor within the
// flow, or at an absolute coordinate that bypasses flow entirely.
// Consumers switch on Mode so both cases are handled exhaustively.
type Placement struct {
	Mode   PlacementMode `json:"mode"`
	Anchor Anchor        `json:"anchor,omitempty"`
	X      float64       `json:"x,omitempty"` // mm, absolute mode only
	Y      float64       `json:"y,omitempty"` // mm, absolute mode only
}

// Anchored creates a flow placement at the named side.
func Anchored(a Anchor) Placement {
	return Placement{Mode: PlaceAnchored, Anchor: a}
}

// Absolute creates a literal-coordinate placement.
func Absolute(x, y float64) Placement {
	return Placement{Mode: PlaceAbsolute, X: x, Y: y}
}

// IsAbsolute reports whether the placement bypasses flow.
func (p Placement) IsAbsolute() bool {
	return p.Mode == PlaceAbsolute
}

// normalize repairs an unrecognized mode or anchor in place of
// rejecting the template.
func (p Placement) normalize(fallback Anchor) Placement {
	switch p.Mode {
	case PlaceAbsolute:
		if p.X < 0 {
			p.X = 0
		}
		if p.Y < 0 {
			p.Y = 0
		}
		return p
	case PlaceAnchored:
	default:
		p = Anchored(fallback)
	}
	switch p.Anchor {
	case AnchorLeft, AnchorCenter, AnchorRight:
	default:
		p.Anchor = fallback
	}
	p.X, p.Y = 0, 0
	return p
}
