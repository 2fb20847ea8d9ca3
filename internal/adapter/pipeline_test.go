package adapter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/bedcolor/internal/bed"
)

type recordingWriter struct {
	header  bool
	names   []string
	colors  []string
	flushed bool
	failAt  int
}

func (w *recordingWriter) WriteHeader() error {
	w.header = true
	return nil
}

func (w *recordingWriter) Write(f *bed.Feature, color string) error {
	if w.failAt > 0 && len(w.names)+1 == w.failAt {
		return errors.New("disk full")
	}
	w.names = append(w.names, f.Name)
	w.colors = append(w.colors, color)
	return nil
}

func (w *recordingWriter) Flush() error {
	w.flushed = true
	return nil
}

func manyFeatures(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "chr1\t%d\t%d\tf%d\t%d\t+\t%d\t%d\t10,20,30\n", i, i+1, i, i%1001, i, i+1)
	}
	return sb.String()
}

func TestColorAll_PreservesOrder(t *testing.T) {
	a := newAdapter(t, DefaultConfig())
	p, err := a.Parse(bed.StringSource(manyFeatures(500)))
	require.NoError(t, err)
	defer p.Close()

	w := &recordingWriter{}
	summary, err := a.ColorAll(p, w, 4)
	require.NoError(t, err)

	assert.True(t, w.header)
	assert.True(t, w.flushed)
	assert.Equal(t, 500, summary.Features)
	assert.Empty(t, summary.Skipped)
	require.Len(t, w.names, 500)
	for i, name := range w.names {
		assert.Equal(t, fmt.Sprintf("f%d", i), name)
	}
	assert.Equal(t, "rgba(10,20,30,0)", w.colors[0])
	assert.Equal(t, "rgba(10,20,30,0.25)", w.colors[250])
}

func TestColorAll_SkipCollectsDiagnostics(t *testing.T) {
	a := newAdapter(t, Config{ColorPolicy: "CategoricalType", OnMalformedRecord: "skip"})
	p, err := a.Parse(bed.StringSource(mixedInput))
	require.NoError(t, err)
	defer p.Close()

	w := &recordingWriter{}
	summary, err := a.ColorAll(p, w, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Features)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, 3, summary.Skipped[0].Line)
	assert.Equal(t, []string{"purple", "purple", "purple"}, w.colors)
}

func TestColorAll_AbortStopsAtMalformedRecord(t *testing.T) {
	a := newAdapter(t, Config{ColorPolicy: "RgbAlpha", OnMalformedRecord: "abort"})
	p, err := a.Parse(bed.StringSource(mixedInput))
	require.NoError(t, err)
	defer p.Close()

	w := &recordingWriter{}
	summary, err := a.ColorAll(p, w, 2)

	var mre *bed.MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 3, mre.Line)
	assert.Equal(t, 2, summary.Features)
	assert.False(t, w.flushed)
}

func TestColorAll_WriteError(t *testing.T) {
	a := newAdapter(t, DefaultConfig())
	p, err := a.Parse(bed.StringSource(manyFeatures(100)))
	require.NoError(t, err)
	defer p.Close()

	w := &recordingWriter{failAt: 10}
	summary, err := a.ColorAll(p, w, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 9, summary.Features)
}

func TestColorAll_Empty(t *testing.T) {
	a := newAdapter(t, DefaultConfig())
	p, err := a.Parse(bed.StringSource("# nothing here\n"))
	require.NoError(t, err)
	defer p.Close()

	w := &recordingWriter{}
	summary, err := a.ColorAll(p, w, 0)
	require.NoError(t, err)
	assert.Zero(t, summary.Features)
	assert.True(t, w.header)
	assert.True(t, w.flushed)
}

func TestOrderedCollect_OutOfOrder(t *testing.T) {
	results := make(chan WorkResult, 4)
	for _, seq := range []int{2, 0, 3, 1} {
		results <- WorkResult{Seq: seq, Color: fmt.Sprint(seq)}
	}
	close(results)

	var got []string
	require.NoError(t, OrderedCollect(results, func(r WorkResult) error {
		got = append(got, r.Color)
		return nil
	}))
	assert.Equal(t, []string{"0", "1", "2", "3"}, got)
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	results := make(chan WorkResult, 3)
	for seq := range 3 {
		results <- WorkResult{Seq: seq}
	}
	close(results)

	calls := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		calls++
		return errors.New("stop")
	})
	assert.EqualError(t, err, "stop")
	assert.Equal(t, 1, calls)
}
