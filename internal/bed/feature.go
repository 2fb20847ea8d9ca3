// Package bed provides BED file parsing functionality.
package bed

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Strand is the orientation of a feature. The zero value means the strand
// column was not present.
type Strand byte

// Strand values
const (
	StrandAbsent  Strand = 0
	StrandForward Strand = '+'
	StrandReverse Strand = '-'
	StrandUnknown Strand = '.'
)

// String returns the BED representation of the strand.
func (s Strand) String() string {
	if s == StrandAbsent {
		return ""
	}
	return string(rune(s))
}

// RGB is an itemRgb color hint.
type RGB struct {
	R, G, B uint8
}

// String returns the BED form "R,G,B".
func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Feature represents a single BED record. A Feature is built by the parser
// and is not modified afterwards; use the With* methods to derive copies.
type Feature struct {
	Chrom string // Reference sequence name
	Start int64  // 0-based start
	End   int64  // exclusive end

	Name     string // empty when absent
	Score    int    // valid when HasScore
	HasScore bool
	Strand   Strand

	ThickStart int64 // valid when HasThick
	ThickEnd   int64
	HasThick   bool

	ItemRGB RGB // valid when HasRGB
	HasRGB  bool

	BlockSizes  []int64 // len == BlockCount()
	BlockStarts []int64 // relative to Start

	Type string // column 13, empty when absent

	Columns int // number of columns read (3..13)
	Line    int // 1-based source line
}

// BlockCount returns the number of blocks (exons).
func (f *Feature) BlockCount() int {
	return len(f.BlockSizes)
}

// Len returns the length of the interval in bases.
func (f *Feature) Len() int64 {
	return f.End - f.Start
}

// WithItemRGB returns a copy of f carrying the given itemRgb. Records with
// fewer than 9 columns are padded so the color column can be written.
func (f *Feature) WithItemRGB(c RGB) *Feature {
	cp := f.clone()
	cp.ItemRGB = c
	cp.HasRGB = true
	if cp.Strand == StrandAbsent {
		cp.Strand = StrandUnknown
	}
	if cp.Columns < 9 {
		cp.Columns = 9
	}
	return cp
}

// WithNamePrefix returns a copy of f whose name is prefix + "_" + name.
func (f *Feature) WithNamePrefix(prefix string) *Feature {
	cp := f.clone()
	if cp.Name == "" {
		cp.Name = prefix
	} else {
		cp.Name = prefix + "_" + cp.Name
	}
	if cp.Columns < 4 {
		cp.Columns = 4
	}
	return cp
}

func (f *Feature) clone() *Feature {
	cp := *f
	if f.BlockSizes != nil {
		cp.BlockSizes = append([]int64(nil), f.BlockSizes...)
		cp.BlockStarts = append([]int64(nil), f.BlockStarts...)
	}
	return &cp
}
