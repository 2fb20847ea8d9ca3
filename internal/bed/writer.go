package bed

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Format serializes f as a tab-delimited BED line (without terminator)
// using exactly f.Columns columns. Absent optional values are written as
// "." ("0" for itemRgb) so that ParseLine reads them back as absent.
func Format(f *Feature) string {
	n := f.Columns
	if n < 3 {
		n = 3
	}

	fields := make([]string, 0, n)
	fields = append(fields,
		f.Chrom,
		strconv.FormatInt(f.Start, 10),
		strconv.FormatInt(f.End, 10))

	if n >= 4 {
		fields = append(fields, orDot(f.Name))
	}
	if n >= 5 {
		if f.HasScore {
			fields = append(fields, strconv.Itoa(f.Score))
		} else {
			fields = append(fields, ".")
		}
	}
	if n >= 6 {
		fields = append(fields, orDot(f.Strand.String()))
	}
	if n >= 8 {
		if f.HasThick {
			fields = append(fields,
				strconv.FormatInt(f.ThickStart, 10),
				strconv.FormatInt(f.ThickEnd, 10))
		} else {
			fields = append(fields, ".", ".")
		}
	}
	if n >= 9 {
		if f.HasRGB {
			fields = append(fields, f.ItemRGB.String())
		} else {
			fields = append(fields, "0")
		}
	}
	if n >= 12 {
		fields = append(fields,
			strconv.Itoa(f.BlockCount()),
			formatList(f.BlockSizes),
			formatList(f.BlockStarts))
	}
	if n >= 13 {
		fields = append(fields, orDot(f.Type))
	}

	return strings.Join(fields, "\t")
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

// formatList writes the UCSC form with a trailing comma. An empty list is
// written as "," so the column is never blank.
func formatList(vals []int64) string {
	if len(vals) == 0 {
		return ","
	}
	var sb strings.Builder
	for _, v := range vals {
		sb.WriteString(strconv.FormatInt(v, 10))
		sb.WriteByte(',')
	}
	return sb.String()
}

// Writer writes features as BED text.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new BED writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a single feature.
func (bw *Writer) Write(f *Feature) error {
	if _, err := bw.w.WriteString(Format(f)); err != nil {
		return err
	}
	return bw.w.WriteByte('\n')
}

// Flush flushes any buffered data.
func (bw *Writer) Flush() error {
	return bw.w.Flush()
}
