package color

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/inodb/bedcolor/internal/bed"
)

// Saturation and value of generated group colors.
const (
	paletteSaturation = 0.7
	paletteValue      = 0.9
)

// GroupPalette assigns each distinct key a color with evenly spaced hues,
// in order of first appearance.
func GroupPalette(keys []string) map[string]bed.RGB {
	var distinct []string
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			distinct = append(distinct, k)
		}
	}

	palette := make(map[string]bed.RGB, len(distinct))
	for i, k := range distinct {
		hue := 360 * float64(i) / float64(len(distinct))
		c := colorful.Hsv(hue, paletteSaturation, paletteValue)
		palette[k] = bed.RGB{R: channel(c.R), G: channel(c.G), B: channel(c.B)}
	}
	return palette
}

// channel scales a [0, 1] component to a byte, truncating like int(v*255).
func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v*255)))
}

// ValidateColor checks a user supplied color string. Hex colors ("#rrggbb")
// must parse; any other non-empty string is taken as a CSS color name.
func ValidateColor(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("color is empty")
	}
	if strings.HasPrefix(s, "#") {
		if _, err := colorful.Hex(s); err != nil {
			return fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	}
	return nil
}
