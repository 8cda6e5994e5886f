package template

import (
	"fmt"
	"sort"

	"github.com/lvillar/bizdoc"
)

// Preset is a named partial template. Only the fields a preset sets
// are merged over the current template; everything else is kept.
type Preset struct {
	Name         string
	Description  string
	Colors       *Colors
	Fonts        *Fonts
	HeaderStyle  HeaderStyle
	Density      float64
	CornerRadius *float64
	Banded       *bool
	Bordered     *bool
}

var presets = map[string]Preset{
	"classic": {
		Name:        "classic",
		Description: "Indigo header, banded table rows",
		Colors: &Colors{
			Primary:         "#3f51b5",
			Secondary:       "#5c6bc0",
			TableHeaderBG:   "#3f51b5",
			TableHeaderText: "#ffffff",
			AlternateRow:    "#f5f5f5",
			BannerBG:        "#3f51b5",
			BannerText:      "#ffffff",
		},
		HeaderStyle: HeaderStandard,
		Banded:      boolPtr(true),
		Bordered:    boolPtr(true),
	},
	"modern": {
		Name:        "modern",
		Description: "Teal banner header, borderless table",
		Colors: &Colors{
			Primary:         "#00695c",
			Secondary:       "#26a69a",
			TableHeaderBG:   "#00695c",
			TableHeaderText: "#ffffff",
			AlternateRow:    "#e0f2f1",
			BannerBG:        "#00695c",
			BannerText:      "#ffffff",
		},
		HeaderStyle:  HeaderBanner,
		CornerRadius: floatPtr(4),
		Banded:       boolPtr(true),
		Bordered:     boolPtr(false),
	},
	"minimal": {
		Name:        "minimal",
		Description: "Monochrome, tight spacing, no decoration",
		Colors: &Colors{
			Primary:         "#212121",
			Secondary:       "#616161",
			TableHeaderBG:   "#ffffff",
			TableHeaderText: "#212121",
			AlternateRow:    "#ffffff",
			BannerBG:        "#ffffff",
			BannerText:      "#212121",
		},
		Fonts:        &Fonts{Title: "Times", Body: "Times"},
		HeaderStyle:  HeaderMinimal,
		Density:      0.85,
		CornerRadius: floatPtr(0),
		Banded:       boolPtr(false),
		Bordered:     boolPtr(false),
	},
	"bold": {
		Name:        "bold",
		Description: "Deep orange banner, heavy headings",
		Colors: &Colors{
			Primary:         "#bf360c",
			Secondary:       "#e64a19",
			TableHeaderBG:   "#bf360c",
			TableHeaderText: "#ffffff",
			AlternateRow:    "#fbe9e7",
			BannerBG:        "#bf360c",
			BannerText:      "#ffffff",
		},
		Fonts:       &Fonts{HeaderSize: 20},
		HeaderStyle: HeaderBanner,
		Density:     1.1,
		Banded:      boolPtr(true),
		Bordered:    boolPtr(true),
	},
}

// PresetNames returns the built-in preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupPreset returns a built-in preset by name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// ApplyPreset merges the named preset over t and returns the result.
// Document-kind post-adjustments run afterwards: receipts keep their
// forced narrow margin and capped logo size regardless of preset.
func ApplyPreset(t Template, name string) (Template, error) {
	p, ok := presets[name]
	if !ok {
		return t, fmt.Errorf("template: unknown preset %q", name)
	}

	out := t.Clone()
	if p.Colors != nil {
		out.Colors = mergeColors(out.Colors, *p.Colors)
	}
	if p.Fonts != nil {
		if p.Fonts.Title != "" {
			out.Fonts.Title = p.Fonts.Title
		}
		if p.Fonts.Body != "" {
			out.Fonts.Body = p.Fonts.Body
		}
		if p.Fonts.HeaderSize > 0 {
			out.Fonts.HeaderSize = p.Fonts.HeaderSize
		}
		if p.Fonts.BodySize > 0 {
			out.Fonts.BodySize = p.Fonts.BodySize
		}
	}
	if p.HeaderStyle != "" {
		out.Layout.HeaderStyle = p.HeaderStyle
	}
	if p.Density > 0 {
		out.Layout.Density = p.Density
	}
	if p.CornerRadius != nil {
		out.Layout.CornerRadius = *p.CornerRadius
	}
	if p.Banded != nil {
		out.Layout.Table.Banded = *p.Banded
	}
	if p.Bordered != nil {
		out.Layout.Table.Bordered = *p.Bordered
	}

	// Kind-specific post-adjustment, then the usual repair pass.
	if out.Kind == bizdoc.KindReceipt {
		out.Layout.HeaderStyle = HeaderMinimal
	}
	return Validate(out), nil
}

func mergeColors(base, over Colors) Colors {
	base.Primary = over.Primary.or(base.Primary)
	base.Secondary = over.Secondary.or(base.Secondary)
	base.Text = over.Text.or(base.Text)
	base.TableHeaderBG = over.TableHeaderBG.or(base.TableHeaderBG)
	base.TableHeaderText = over.TableHeaderText.or(base.TableHeaderText)
	base.Border = over.Border.or(base.Border)
	base.AlternateRow = over.AlternateRow.or(base.AlternateRow)
	base.BannerBG = over.BannerBG.or(base.BannerBG)
	base.BannerText = over.BannerText.or(base.BannerText)
	return base
}

func boolPtr(b bool) *bool       { return &b }
func floatPtr(f float64) *float64 { return &f }
