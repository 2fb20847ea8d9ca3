package adapter

import (
	"github.com/inodb/bedcolor/internal/bed"
	"github.com/inodb/bedcolor/internal/color"
)

// Option describes one configuration option.
type Option struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Enum        []string `yaml:"enum,omitempty"`
	Default     string   `yaml:"default,omitempty"`
	RequiredIf  string   `yaml:"requiredIf,omitempty"`
	Description string   `yaml:"description"`
}

// Schema is the configuration contract an adapter exposes to its host.
type Schema struct {
	Name    string   `yaml:"name"`
	Version string   `yaml:"version"`
	Options []Option `yaml:"options"`
}

// ConfigSchema returns the schema of the options accepted by DecodeConfig.
func ConfigSchema() Schema {
	var kinds []string
	for _, k := range color.Kinds() {
		kinds = append(kinds, k.String())
	}
	def := DefaultConfig()

	return Schema{
		Name:    Name,
		Version: Version,
		Options: []Option{
			{
				Name:        OptColorPolicy,
				Type:        "enum",
				Enum:        kinds,
				Default:     def.ColorPolicy,
				Description: "Rule used to derive a feature's display color",
			},
			{
				Name:        OptFixedColor,
				Type:        "string",
				RequiredIf:  OptColorPolicy + "=" + color.KindFixed.String(),
				Description: "Color returned for every feature by the Fixed policy",
			},
			{
				Name:        OptOnMalformedRecord,
				Type:        "enum",
				Enum:        []string{bed.Skip.String(), bed.Abort.String()},
				Default:     def.OnMalformedRecord,
				Description: "Skip malformed lines with a diagnostic, or abort the stream",
			},
		},
	}
}
