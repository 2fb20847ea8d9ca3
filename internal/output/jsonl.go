package output

import (
	"bufio"
	"errors"
	"io"
	"syscall"

	json "github.com/goccy/go-json"

	"github.com/inodb/bedcolor/internal/bed"
)

// FeatureRecord is the JSON form of a colored feature. Absent optional
// values are omitted.
type FeatureRecord struct {
	Chrom       string  `json:"chrom"`
	Start       int64   `json:"start"`
	End         int64   `json:"end"`
	Name        string  `json:"name,omitempty"`
	Score       *int    `json:"score,omitempty"`
	Strand      string  `json:"strand,omitempty"`
	ThickStart  *int64  `json:"thickStart,omitempty"`
	ThickEnd    *int64  `json:"thickEnd,omitempty"`
	ItemRGB     string  `json:"itemRgb,omitempty"`
	BlockSizes  []int64 `json:"blockSizes,omitempty"`
	BlockStarts []int64 `json:"blockStarts,omitempty"`
	Type        string  `json:"type,omitempty"`
	Color       string  `json:"color"`
	Line        int     `json:"line"`
}

// NewFeatureRecord converts a feature and its color to a FeatureRecord.
func NewFeatureRecord(f *bed.Feature, color string) FeatureRecord {
	r := FeatureRecord{
		Chrom:       f.Chrom,
		Start:       f.Start,
		End:         f.End,
		Name:        f.Name,
		Strand:      f.Strand.String(),
		BlockSizes:  f.BlockSizes,
		BlockStarts: f.BlockStarts,
		Type:        f.Type,
		Color:       color,
		Line:        f.Line,
	}
	if f.HasScore {
		score := f.Score
		r.Score = &score
	}
	if f.HasThick {
		ts, te := f.ThickStart, f.ThickEnd
		r.ThickStart, r.ThickEnd = &ts, &te
	}
	if f.HasRGB {
		r.ItemRGB = f.ItemRGB.String()
	}
	return r
}

// JSONLWriter writes one JSON object per colored feature.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a new JSON lines writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{w: bw, enc: json.NewEncoder(bw)}
}

// WriteHeader is a no-op; JSON lines have no header.
func (jw *JSONLWriter) WriteHeader() error {
	return nil
}

// Write writes a single feature and its color.
func (jw *JSONLWriter) Write(f *bed.Feature, color string) error {
	return jw.enc.Encode(NewFeatureRecord(f, color))
}

// Flush flushes any buffered data to the underlying writer.
func (jw *JSONLWriter) Flush() error {
	return jw.w.Flush()
}

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Useful when downstream consumers (like `head`) close early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
