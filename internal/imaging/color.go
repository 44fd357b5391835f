package imaging

import (
	"fmt"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r" yaml:"r"` // Red component (0-255)
	G uint8 `json:"g" yaml:"g"` // Green component (0-255)
	B uint8 `json:"b" yaml:"b"` // Blue component (0-255)
}

// Hex formats the color as "#RRGGBB".
func (c RGBColor) Hex() string {
	return strings.ToUpper(c.colorful().Hex())
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

// Blend mixes c over an existing pixel with the given opacity:
//
//	out = c*opacity + existing*(1-opacity)
//
// per channel, rounded to the nearest integer. Opacity is clamped to [0,1].
// Opacity 0 returns existing unchanged and opacity 1 returns c.
func (c RGBColor) Blend(existing RGBColor, opacity float64) RGBColor {
	switch {
	case opacity <= 0:
		return existing
	case opacity >= 1:
		return c
	}
	r, g, b := existing.colorful().BlendRgb(c.colorful(), opacity).RGB255()
	return RGBColor{R: r, G: g, B: b}
}

// Threshold holds the per-channel limits of the red predicate.
type Threshold struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// DefaultThreshold is the threshold used for user-drawn red annotations.
var DefaultThreshold = Threshold{R: 150, G: 80, B: 80}

// IsRed reports whether a pixel counts as annotation red:
// r > t.R and g < t.G and b < t.B. Alpha is not considered.
func (t Threshold) IsRed(r, g, b uint8) bool {
	return r > t.R && g < t.G && b < t.B
}

// Swatches are the named fill colors offered for solid redaction.
var Swatches = map[string]RGBColor{
	"black":      {0x00, 0x00, 0x00},
	"white":      {0xFF, 0xFF, 0xFF},
	"gray-100":   {0xF3, 0xF4, 0xF6},
	"amber-200":  {0xFD, 0xE6, 0x8A},
	"orange-300": {0xFD, 0xBA, 0x74},
	"yellow-200": {0xFE, 0xF0, 0x8A},
	"green-200":  {0xBB, 0xF7, 0xD0},
	"blue-200":   {0xBF, 0xDB, 0xFE},
	"purple-200": {0xE9, 0xD5, 0xFF},
	"pink-200":   {0xFB, 0xCF, 0xE8},
	"red-200":    {0xFE, 0xCA, 0xCA},
}

// SwatchNames returns the swatch names in sorted order.
func SwatchNames() []string {
	names := make([]string, 0, len(Swatches))
	for name := range Swatches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseColor accepts a swatch name, "#RRGGBB", "RRGGBB" or the short "#RGB"
// form.
func ParseColor(s string) (RGBColor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBColor{}, fmt.Errorf("empty color string")
	}
	if c, ok := Swatches[strings.ToLower(s)]; ok {
		return c, nil
	}
	if s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}
