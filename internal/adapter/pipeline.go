package adapter

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/bedcolor/internal/bed"
)

// WorkItem holds a parsed feature ready for coloring.
type WorkItem struct {
	Seq     int
	Feature *bed.Feature
}

// WorkResult holds the color computed for a single feature.
type WorkResult struct {
	Seq     int
	Feature *bed.Feature
	Color   string
}

// FeatureWriter receives colored features in input order.
type FeatureWriter interface {
	WriteHeader() error
	Write(f *bed.Feature, color string) error
	Flush() error
}

// Summary describes a completed ColorAll run.
type Summary struct {
	Features int
	Skipped  []*bed.MalformedRecordError
}

// ParallelColor colors work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (a *Adapter) ParallelColor(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- WorkResult{
					Seq:     item.Seq,
					Feature: item.Feature,
					Color:   a.ColorFor(item.Feature),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// ColorAll reads every feature from p, colors it and writes it to w in
// input order. A parse error (including a malformed record under the abort
// policy) ends the run after the features before it have been written.
func (a *Adapter) ColorAll(p *bed.Parser, w FeatureWriter, workers int) (Summary, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if err := w.WriteHeader(); err != nil {
		return Summary{}, fmt.Errorf("write header: %w", err)
	}

	items := make(chan WorkItem, 2*workers)
	var parseErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			f, err := p.Next()
			if err != nil {
				parseErr = fmt.Errorf("read feature: %w", err)
				return
			}
			if f == nil {
				return
			}
			items <- WorkItem{Seq: seq, Feature: f}
			seq++
		}
	}()

	var summary Summary
	results := a.ParallelColor(items, workers)
	if err := OrderedCollect(results, func(r WorkResult) error {
		if err := w.Write(r.Feature, r.Color); err != nil {
			return fmt.Errorf("write feature: %w", err)
		}
		summary.Features++
		return nil
	}); err != nil {
		return summary, err
	}

	summary.Skipped = p.Diagnostics()

	if parseErr != nil {
		return summary, parseErr
	}

	if summary.Features == 0 {
		a.logger.Info("0 features processed")
	}
	if len(summary.Skipped) > 0 {
		a.logger.Warn("skipped malformed records", zap.Int("count", len(summary.Skipped)))
	}

	return summary, w.Flush()
}
