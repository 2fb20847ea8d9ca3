// Package output provides colored feature output formatters.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/bedcolor/internal/bed"
)

// Columns of the tab-delimited output. The first thirteen are the BED
// columns (including the type extension column).
var tabColumns = []string{
	"#chrom",
	"chromStart",
	"chromEnd",
	"name",
	"score",
	"strand",
	"thickStart",
	"thickEnd",
	"itemRgb",
	"blockCount",
	"blockSizes",
	"blockStarts",
	"type",
	"color",
}

// TabWriter writes colored features in tab-delimited format. Every row
// carries all BED columns, with "." for absent values, followed by the color.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tabColumns, "\t") + "\n")
	return err
}

// Write writes a single feature and its color.
func (tw *TabWriter) Write(f *bed.Feature, color string) error {
	padded := *f
	padded.Columns = len(tabColumns) - 1
	if padded.Strand == bed.StrandAbsent {
		padded.Strand = bed.StrandUnknown
	}

	_, err := tw.w.WriteString(bed.Format(&padded) + "\t" + color + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
