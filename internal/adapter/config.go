package adapter

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/inodb/bedcolor/internal/bed"
	"github.com/inodb/bedcolor/internal/color"
)

// Option names recognized in the adapter configuration.
const (
	OptColorPolicy       = "colorPolicy"
	OptFixedColor        = "fixedColor"
	OptOnMalformedRecord = "onMalformedRecord"
)

// Config holds the adapter options.
type Config struct {
	ColorPolicy       string `mapstructure:"colorPolicy" yaml:"colorPolicy"`
	FixedColor        string `mapstructure:"fixedColor" yaml:"fixedColor,omitempty"`
	OnMalformedRecord string `mapstructure:"onMalformedRecord" yaml:"onMalformedRecord"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		ColorPolicy:       color.KindRgbAlpha.String(),
		OnMalformedRecord: bed.Skip.String(),
	}
}

// InvalidConfigurationError reports an unknown option or an option value
// the adapter cannot use.
type InvalidConfigurationError struct {
	Option string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("invalid adapter configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid adapter configuration: %s: %s", e.Option, e.Reason)
}

// DecodeConfig builds a Config from a raw option map (e.g. a viper
// sub-tree), starting from DefaultConfig. Unknown options are rejected.
// Option names match case-insensitively since viper lowercases keys.
func DecodeConfig(raw map[string]any) (Config, error) {
	cfg := DefaultConfig()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("create config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, &InvalidConfigurationError{Reason: err.Error()}
	}
	return cfg, nil
}

// resolve validates the configuration and returns the selected policies.
func (c Config) resolve() (color.Policy, bed.ErrorPolicy, error) {
	kind, err := color.ParseKind(c.ColorPolicy)
	if err != nil {
		return nil, 0, &InvalidConfigurationError{Option: OptColorPolicy, Reason: err.Error()}
	}

	var policy color.Policy
	switch kind {
	case color.KindRgbAlpha:
		policy = color.RgbAlpha{}
	case color.KindCategoricalType:
		policy = color.CategoricalType{}
	case color.KindFixed:
		if c.FixedColor == "" {
			return nil, 0, &InvalidConfigurationError{
				Option: OptFixedColor,
				Reason: "required when colorPolicy is Fixed",
			}
		}
		if err := color.ValidateColor(c.FixedColor); err != nil {
			return nil, 0, &InvalidConfigurationError{Option: OptFixedColor, Reason: err.Error()}
		}
		policy = color.Fixed{Value: c.FixedColor}
	}

	if kind != color.KindFixed && c.FixedColor != "" {
		return nil, 0, &InvalidConfigurationError{
			Option: OptFixedColor,
			Reason: fmt.Sprintf("only valid when colorPolicy is Fixed, not %s", kind),
		}
	}

	onMalformed, err := bed.ParseErrorPolicy(c.OnMalformedRecord)
	if err != nil {
		return nil, 0, &InvalidConfigurationError{Option: OptOnMalformedRecord, Reason: err.Error()}
	}

	return policy, onMalformed, nil
}

// Validate reports whether the configuration can build an adapter.
func (c Config) Validate() error {
	_, _, err := c.resolve()
	return err
}

// ValidateValues checks every option on its own. Unlike Validate it does
// not require fixedColor and colorPolicy to agree, so a partial
// configuration can be stored one option at a time.
func (c Config) ValidateValues() error {
	if _, err := color.ParseKind(c.ColorPolicy); err != nil {
		return &InvalidConfigurationError{Option: OptColorPolicy, Reason: err.Error()}
	}
	if c.FixedColor != "" {
		if err := color.ValidateColor(c.FixedColor); err != nil {
			return &InvalidConfigurationError{Option: OptFixedColor, Reason: err.Error()}
		}
	}
	if _, err := bed.ParseErrorPolicy(c.OnMalformedRecord); err != nil {
		return &InvalidConfigurationError{Option: OptOnMalformedRecord, Reason: err.Error()}
	}
	return nil
}
