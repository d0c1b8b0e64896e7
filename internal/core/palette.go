package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultScheme is used for empty or unknown scheme names.
const DefaultScheme = "default"

// ColorScheme is a named, ordered palette of hex colours.
type ColorScheme struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// schemeOrder fixes the listing order of the built-in schemes.
var schemeOrder = []string{"default", "pastel", "vibrant", "monochrome", "corporate"}

var rawSchemes = map[string][]string{
	"default": {
		"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
		"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
	},
	"pastel": {
		"#a6cee3", "#b2df8a", "#fb9a99", "#fdbf6f", "#cab2d6",
		"#ffff99", "#1f78b4", "#33a02c", "#e31a1c", "#ff7f00",
	},
	"vibrant": {
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	},
	"monochrome": {
		"#08306b", "#08519c", "#2171b5", "#4292c6", "#6baed6",
		"#9ecae1", "#c6dbef", "#deebf7", "#f7fbff", "#fff",
	},
	"corporate": {
		"#003f5c", "#2f4b7c", "#665191", "#a05195", "#d45087",
		"#f95d6a", "#ff7c43", "#ffa600", "#7d8491", "#bfbfbf",
	},
}

// schemes holds the normalized palettes. Never written after init.
var schemes = mustNormalizeSchemes(rawSchemes)

func mustNormalizeSchemes(raw map[string][]string) map[string][]string {
	out := make(map[string][]string, len(raw))
	for name, colors := range raw {
		norm := make([]string, len(colors))
		for i, c := range colors {
			hex, err := NormalizeHex(c)
			if err != nil {
				panic(fmt.Sprintf("palette %s: %v", name, err))
			}
			norm[i] = hex
		}
		out[name] = norm
	}
	return out
}

// NormalizeHex converts "#rgb" or "#rrggbb" (any case) to lowercase "#rrggbb".
func NormalizeHex(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return "", fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c.Hex(), nil
}

// ColorsFor returns a copy of the named palette, or of the default palette
// when the name is unknown.
func ColorsFor(name string) []string {
	colors, ok := schemes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		colors = schemes[DefaultScheme]
	}
	out := make([]string, len(colors))
	copy(out, colors)
	return out
}

// HasScheme reports whether name is a built-in scheme.
func HasScheme(name string) bool {
	_, ok := schemes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// SchemeNames lists the built-in scheme names in display order.
func SchemeNames() []string {
	out := make([]string, len(schemeOrder))
	copy(out, schemeOrder)
	return out
}

// Schemes lists every built-in scheme with its colours.
func Schemes() []ColorScheme {
	out := make([]ColorScheme, 0, len(schemeOrder))
	for _, name := range schemeOrder {
		out = append(out, ColorScheme{Name: name, Colors: ColorsFor(name)})
	}
	return out
}
