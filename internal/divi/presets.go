package divi

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var presetFiles embed.FS

// CTAPreset is the fixed call-to-action row appended to every article.
type CTAPreset struct {
	Heading    string `yaml:"heading"`
	Body       string `yaml:"body"`
	ButtonURL  string `yaml:"button_url"`
	ButtonText string `yaml:"button_text"`
}

// Presets holds the pinned values of the fixed template.
type Presets struct {
	CTA    CTAPreset     `yaml:"cta"`
	Slider SliderOptions `yaml:"slider"`
}

// LoadPresets reads the embedded fixed-template presets.
func LoadPresets() (*Presets, error) {
	data, err := presetFiles.ReadFile("presets/fixed_template.yaml")
	if err != nil {
		return nil, fmt.Errorf("read template presets: %w", err)
	}

	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal template presets: %w", err)
	}

	return &p, nil
}
