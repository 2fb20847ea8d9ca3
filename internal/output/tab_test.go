package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/bedcolor/internal/bed"
)

func parse(t *testing.T, line string) *bed.Feature {
	t.Helper()
	f, perr := bed.ParseLine(line, 5)
	require.Nil(t, perr)
	return f
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := buf.String()
	for _, col := range []string{"#chrom", "chromStart", "itemRgb", "type", "color"} {
		assert.Contains(t, header, col)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(header), "\t"), 14)
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.Write(parse(t, "chr1\t10\t20"), "red"))
	require.NoError(t, w.Write(parse(t, "chr1\t100\t500\tJUNC1\t500\t+\t100\t500\t255,0,0\t2\t20,30,\t0,370,"), "rgba(255,0,0,0.5)"))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "chr1\t10\t20\t.\t.\t.\t.\t.\t0\t0\t\t\t.\tred", lines[0])
	assert.Equal(t, "chr1\t100\t500\tJUNC1\t500\t+\t100\t500\t255,0,0\t2\t20,30,\t0,370,\t.\trgba(255,0,0,0.5)", lines[1])
}

func TestTabWriter_RowsParseBackAsBED(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)
	f := parse(t, "chr2\t5\t9\tpeak\t7\t-")
	require.NoError(t, w.Write(f, "purple"))
	require.NoError(t, w.Flush())

	row := strings.TrimSuffix(buf.String(), "\n")
	cols := strings.Split(row, "\t")
	again, perr := bed.ParseLine(strings.Join(cols[:13], "\t"), 5)
	require.Nil(t, perr)
	assert.Equal(t, f.Name, again.Name)
	assert.Equal(t, f.Score, again.Score)
	assert.Equal(t, f.Strand, again.Strand)
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(parse(t, "chr1\t10\t20"), "red"))
	require.NoError(t, w.Write(parse(t, "chr1\t100\t500\tJUNC1\t0\t+\t110\t490\t255,0,0\t1\t400,\t0,\tCDS"), "rgba(255,0,0,0)"))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var bare map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &bare))
	assert.Equal(t, "chr1", bare["chrom"])
	assert.Equal(t, "red", bare["color"])
	assert.NotContains(t, bare, "score")
	assert.NotContains(t, bare, "strand")

	var full FeatureRecord
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &full))
	require.NotNil(t, full.Score)
	assert.Equal(t, 0, *full.Score)
	assert.Equal(t, "+", full.Strand)
	assert.Equal(t, int64(110), *full.ThickStart)
	assert.Equal(t, "255,0,0", full.ItemRGB)
	assert.Equal(t, []int64{400}, full.BlockSizes)
	assert.Equal(t, "CDS", full.Type)
	assert.Equal(t, 5, full.Line)
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(io.ErrClosedPipe))
	assert.True(t, IsBrokenPipe(fmt.Errorf("write: %w", io.ErrClosedPipe)))
	assert.False(t, IsBrokenPipe(nil))
	assert.False(t, IsBrokenPipe(io.EOF))
}
