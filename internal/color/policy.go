// Package color computes display colors for BED features.
//
// A Policy is a closed, stateless rule chosen once at configuration time.
// ComputeColor never fails: a feature missing the attributes a policy
// needs resolves to that policy's fallback color.
package color

import (
	"fmt"
	"math"
	"strconv"

	"github.com/inodb/bedcolor/internal/bed"
)

// Fallback colors returned when a feature lacks the attributes a policy needs.
const (
	FallbackRed    = "red"
	FallbackGreen  = "green"
	FallbackPurple = "purple"
)

// Feature types recognized by the categorical policy.
const (
	TypeCDS  = "CDS"
	TypeExon = "exon"
)

// Kind identifies a color policy.
type Kind int

const (
	KindRgbAlpha Kind = iota
	KindCategoricalType
	KindFixed
)

var kindNames = map[Kind]string{
	KindRgbAlpha:        "RgbAlpha",
	KindCategoricalType: "CategoricalType",
	KindFixed:           "Fixed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every policy kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindRgbAlpha, KindCategoricalType, KindFixed}
}

// ParseKind converts a policy name such as "RgbAlpha" to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown color policy %q", s)
}

// Policy maps a feature to a color string. The set of implementations is
// closed to this package.
type Policy interface {
	Kind() Kind
	Color(f *bed.Feature) string
	sealed()
}

// RgbAlpha blends itemRgb with an alpha derived from the score.
type RgbAlpha struct{}

// CategoricalType maps the feature type to a fixed palette.
type CategoricalType struct{}

// Fixed returns the same color for every feature.
type Fixed struct {
	Value string
}

func (RgbAlpha) Kind() Kind        { return KindRgbAlpha }
func (CategoricalType) Kind() Kind { return KindCategoricalType }
func (Fixed) Kind() Kind           { return KindFixed }

func (RgbAlpha) sealed()        {}
func (CategoricalType) sealed() {}
func (Fixed) sealed()           {}

// Color returns "rgba(R,G,B,A)" where A is score/1000 clamped to [0, 1],
// or "red" when the feature has no itemRgb or no score.
func (RgbAlpha) Color(f *bed.Feature) string {
	if f == nil || !f.HasRGB || !f.HasScore {
		return FallbackRed
	}
	c := f.ItemRGB
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B,
		strconv.FormatFloat(ScoreAlpha(f.Score), 'f', -1, 64))
}

// Color returns "red" for CDS, "green" for exon and "purple" otherwise.
func (CategoricalType) Color(f *bed.Feature) string {
	if f == nil {
		return FallbackPurple
	}
	switch f.Type {
	case TypeCDS:
		return FallbackRed
	case TypeExon:
		return FallbackGreen
	default:
		return FallbackPurple
	}
}

// Color returns the configured color.
func (p Fixed) Color(*bed.Feature) string {
	return p.Value
}

// ScoreAlpha scales a BED score from [0, 1000] to [0, 1], clamping values
// outside the range.
func ScoreAlpha(score int) float64 {
	return math.Max(0, math.Min(1, float64(score)/bed.MaxScore))
}

// ComputeColor returns the color of f under p.
func ComputeColor(f *bed.Feature, p Policy) string {
	return p.Color(f)
}
