package main

import (
	"maps"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/bedcolor/internal/adapter"
)

// adapterFlags are the command-line overrides of the adapter options
// configured under the "adapter" key.
type adapterFlags struct {
	colorPolicy string
	fixedColor  string
	onMalformed string
}

func (af *adapterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&af.colorPolicy, "color-policy", "", "Color policy: RgbAlpha, CategoricalType or Fixed")
	cmd.Flags().StringVar(&af.fixedColor, "fixed-color", "", "Color used by the Fixed policy")
	af.registerOnMalformed(cmd)
}

// registerOnMalformed adds only the parsing flag, for commands that do not
// compute colors.
func (af *adapterFlags) registerOnMalformed(cmd *cobra.Command) {
	cmd.Flags().StringVar(&af.onMalformed, "on-malformed", "", "Malformed record policy: skip or abort")
}

// newAdapter merges the config file with flag overrides and builds the adapter.
func (af *adapterFlags) newAdapter(cmd *cobra.Command) (*adapter.Adapter, error) {
	raw := make(map[string]any)
	if file, ok := viper.AllSettings()["adapter"].(map[string]any); ok {
		maps.Copy(raw, file)
	}

	// viper lowercases keys; overrides use the same spelling so each
	// option appears once.
	set := func(flag, option, value string) {
		if cmd.Flags().Changed(flag) {
			raw[strings.ToLower(option)] = value
		}
	}
	set("color-policy", adapter.OptColorPolicy, af.colorPolicy)
	set("fixed-color", adapter.OptFixedColor, af.fixedColor)
	set("on-malformed", adapter.OptOnMalformedRecord, af.onMalformed)

	cfg, err := adapter.DecodeConfig(raw)
	if err != nil {
		return nil, err
	}

	a, err := adapter.New(cfg)
	if err != nil {
		return nil, err
	}
	a.SetLogger(logger)

	logger.Debug("adapter configured",
		zap.String("colorPolicy", cfg.ColorPolicy),
		zap.String("onMalformedRecord", cfg.OnMalformedRecord))
	return a, nil
}
