// Package adapter binds the BED parser and a color policy under a stable
// name, version and configuration schema for a host to consume.
package adapter

import (
	"go.uber.org/zap"

	"github.com/inodb/bedcolor/internal/bed"
	"github.com/inodb/bedcolor/internal/color"
)

// Adapter identity
const (
	Name    = "BedColorAdapter"
	Version = "1.0.0"
)

// Adapter parses BED sources and colors features with the configured policy.
// An Adapter holds no mutable state after New and may be shared.
type Adapter struct {
	cfg         Config
	policy      color.Policy
	onMalformed bed.ErrorPolicy
	logger      *zap.Logger
}

// New validates cfg and creates an adapter.
func New(cfg Config) (*Adapter, error) {
	policy, onMalformed, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	return &Adapter{
		cfg:         cfg,
		policy:      policy,
		onMalformed: onMalformed,
		logger:      zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for warning and info messages.
func (a *Adapter) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Name returns the adapter name.
func (a *Adapter) Name() string { return Name }

// Version returns the adapter version.
func (a *Adapter) Version() string { return Version }

// Schema returns the configuration schema.
func (a *Adapter) Schema() Schema { return ConfigSchema() }

// Config returns the configuration the adapter was built from.
func (a *Adapter) Config() Config { return a.cfg }

// Policy returns the configured color policy.
func (a *Adapter) Policy() color.Policy { return a.policy }

// Parse opens src and returns a lazy feature sequence using the configured
// malformed record policy. The caller must Close the parser. Calling Parse
// again on the same source restarts from the first line.
func (a *Adapter) Parse(src bed.Source) (*bed.Parser, error) {
	p, err := bed.NewParser(src, a.onMalformed)
	if err != nil {
		return nil, err
	}
	p.SetLogger(a.logger.With(zap.String("source", src.String())))
	return p, nil
}

// ParseAll reads every feature of src. Under the skip policy it returns the
// features and the skipped-line diagnostics; under abort the first
// malformed record returns no features and that record's error.
func (a *Adapter) ParseAll(src bed.Source) ([]*bed.Feature, []*bed.MalformedRecordError, error) {
	p, err := a.Parse(src)
	if err != nil {
		return nil, nil, err
	}
	defer p.Close()

	var features []*bed.Feature
	for f, err := range p.All() {
		if err != nil {
			return nil, p.Diagnostics(), err
		}
		features = append(features, f)
	}
	return features, p.Diagnostics(), nil
}

// ColorFor returns the display color of f under the configured policy.
func (a *Adapter) ColorFor(f *bed.Feature) string {
	return color.ComputeColor(f, a.policy)
}
