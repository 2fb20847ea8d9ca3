package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/bedcolor/internal/bed"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustParse(t *testing.T, line string, n int) *bed.Feature {
	t.Helper()
	f, perr := bed.ParseLine(line, n)
	require.Nil(t, perr)
	return f
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Empty(t, s.Path())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "features.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteAndQueryFeatures(t *testing.T) {
	s := openInMemory(t)

	junction := mustParse(t, "chr1\t100\t500\tJUNC1\t500\t+\t100\t500\t255,0,0\t2\t20,30,\t0,370,", 4)
	bare := mustParse(t, "chr1\t10\t20", 9)
	other := mustParse(t, "chr2\t1\t2\tx", 1)

	require.NoError(t, s.WriteFeatures([]FeatureRow{
		{Source: "a.bed", Feature: junction, Color: "rgba(255,0,0,0.5)"},
		{Source: "a.bed", Feature: bare, Color: "red"},
		{Source: "b.bed", Feature: other, Color: "red"},
	}))

	n, err := s.FeatureCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := s.FeaturesByChrom("chr1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by start.
	assert.Equal(t, bare, rows[0].Feature)
	assert.Equal(t, "red", rows[0].Color)
	assert.Equal(t, junction, rows[1].Feature)
	assert.Equal(t, "a.bed", rows[1].Source)

	counts, err := s.ColorCounts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"red": 2, "rgba(255,0,0,0.5)": 1}, counts)

	var nullScores int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM features WHERE score IS NULL").Scan(&nullScores))
	assert.Equal(t, 2, nullScores)
}

func TestWriteFeatures_Empty(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteFeatures(nil))
}

func TestClearSource(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteFeatures([]FeatureRow{
		{Source: "a.bed", Feature: mustParse(t, "chr1\t1\t2", 1), Color: "red"},
		{Source: "b.bed", Feature: mustParse(t, "chr1\t1\t2", 1), Color: "red"},
	}))
	require.NoError(t, s.ClearSource("a.bed"))

	n, err := s.FeatureCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSink(t *testing.T) {
	s := openInMemory(t)

	// A previous export of the same source is replaced.
	require.NoError(t, s.WriteFeatures([]FeatureRow{
		{Source: "a.bed", Feature: mustParse(t, "chr9\t1\t2", 1), Color: "old"},
	}))

	sink := NewSink(s, "a.bed")
	sink.batchSize = 2

	require.NoError(t, sink.WriteHeader())
	for i, line := range []string{"chr1\t0\t1", "chr1\t1\t2", "chr1\t2\t3"} {
		require.NoError(t, sink.Write(mustParse(t, line, i+1), "purple"))
	}
	assert.Equal(t, 2, sink.Written())
	require.NoError(t, sink.Flush())
	assert.Equal(t, 3, sink.Written())

	n, err := s.FeatureCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := s.FeaturesByChrom("chr9")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSourceFingerprints(t *testing.T) {
	s := openInMemory(t)

	path := filepath.Join(t.TempDir(), "a.bed")
	require.NoError(t, os.WriteFile(path, []byte("chr1\t0\t1\n"), 0644))

	fp, err := StatFile(path)
	require.NoError(t, err)

	fresh, err := s.SourceFresh(fp)
	require.NoError(t, err)
	assert.False(t, fresh, "unknown source")

	require.NoError(t, s.RecordSource(fp, 1, 0))
	fresh, err = s.SourceFresh(fp)
	require.NoError(t, err)
	assert.True(t, fresh)

	// Re-recording replaces the row.
	require.NoError(t, s.RecordSource(fp, 1, 0))

	changed := fp
	changed.ModTime = fp.ModTime.Add(time.Second)
	fresh, err = s.SourceFresh(changed)
	require.NoError(t, err)
	assert.False(t, fresh)

	changed = fp
	changed.Size++
	fresh, err = s.SourceFresh(changed)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestStatFile_Missing(t *testing.T) {
	_, err := StatFile(filepath.Join(t.TempDir(), "missing.bed"))
	assert.Error(t, err)
}

func TestDiscardSource(t *testing.T) {
	s := openInMemory(t)
	path := filepath.Join(t.TempDir(), "a.bed")
	require.NoError(t, os.WriteFile(path, []byte("chr1\t0\t1\n"), 0o644))
	fp, err := StatFile(path)
	require.NoError(t, err)

	require.NoError(t, s.WriteFeatures([]FeatureRow{
		{Source: "b.bed", Feature: mustParse(t, "chr1\t1\t2", 1), Color: "red"},
	}))
	require.NoError(t, s.RecordSource(fp, 2, 0))

	// A run that fails after one full batch has been committed.
	sink := NewSink(s, path)
	sink.batchSize = 1
	require.NoError(t, sink.WriteHeader())
	require.NoError(t, sink.Write(mustParse(t, "chr1\t0\t1", 1), "red"))
	require.NoError(t, sink.Write(mustParse(t, "chr1\t1\t2", 2), "red"))
	require.Equal(t, 2, sink.Written())

	require.NoError(t, s.DiscardSource(path))

	n, err := s.FeatureCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "other sources are kept")

	fresh, err := s.SourceFresh(fp)
	require.NoError(t, err)
	assert.False(t, fresh)
}
