package duckdb

import (
	"github.com/inodb/bedcolor/internal/bed"
)

const defaultBatchSize = 10000

// Sink writes colored features from one source into the store. It
// replaces anything previously exported from that source. Full batches are
// committed as they fill; call Store.DiscardSource if the run fails.
type Sink struct {
	store     *Store
	source    string
	batch     []FeatureRow
	batchSize int
	written   int
}

// NewSink creates a sink for features read from source.
func NewSink(s *Store, source string) *Sink {
	return &Sink{store: s, source: source, batchSize: defaultBatchSize}
}

// WriteHeader clears rows from an earlier export of the same source.
func (k *Sink) WriteHeader() error {
	return k.store.ClearSource(k.source)
}

// Write buffers a feature, writing the batch when it is full.
func (k *Sink) Write(f *bed.Feature, color string) error {
	k.batch = append(k.batch, FeatureRow{Source: k.source, Feature: f, Color: color})
	if len(k.batch) >= k.batchSize {
		return k.Flush()
	}
	return nil
}

// Flush writes any buffered features.
func (k *Sink) Flush() error {
	if err := k.store.WriteFeatures(k.batch); err != nil {
		return err
	}
	k.written += len(k.batch)
	k.batch = k.batch[:0]
	return nil
}

// Written returns the number of features stored so far.
func (k *Sink) Written() int {
	return k.written
}
