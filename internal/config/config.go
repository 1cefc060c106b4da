// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/kml2geojson/internal/geo"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the root configuration file structure.
type Config struct {
	OutDir string  `yaml:"out_dir,omitempty" json:"-"`
	Output Output  `yaml:"output,omitempty" json:"output"`
	Layers []Layer `yaml:"layers" json:"layers"`
}

// Output controls how feature collections are encoded.
type Output struct {
	Format string `yaml:"format,omitempty" json:"format"`
	Indent int    `yaml:"indent,omitempty" json:"indent"`
	Minify bool   `yaml:"minify,omitempty" json:"minify,omitempty"`
	BBox   bool   `yaml:"bbox,omitempty" json:"bbox,omitempty"`
}

// Layer is one KML source converted by the loader and served by the server.
type Layer struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// defining KML directly in config.yaml
	Inline string `yaml:"kml,omitempty" json:"-"`

	Name    string   `yaml:"name" json:"name"`
	Source  string   `yaml:"source,omitempty" json:"-"` // file path or http(s) URL, KML or KMZ
	Filter  string   `yaml:"filter,omitempty" json:"filter,omitempty"`
	Aliases []string `yaml:"aliases,omitempty" json:"-"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutDir == "" {
		c.OutDir = "layers"
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatJSON
	}
}

// Validate reports configuration mistakes that would break the loader.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output.Format {
	case FormatJSON, FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("output.format %q: want json or yaml", c.Output.Format))
	}
	if c.Output.Indent < 0 {
		errs = append(errs, errors.New("output.indent must not be negative"))
	}

	names := make(map[string]bool)
	for i, l := range c.Layers {
		if l.Name == "" {
			errs = append(errs, fmt.Errorf("layers[%d]: name is required", i))
			continue
		}
		for _, n := range append([]string{l.Name}, l.Aliases...) {
			if names[n] {
				errs = append(errs, fmt.Errorf("layers[%d]: duplicate name or alias %q", i, n))
			}
			names[n] = true
		}
		if l.Source == "" && l.Inline == "" {
			errs = append(errs, fmt.Errorf("layer %q: source or kml is required", l.Name))
		}
		if l.Filter != "" {
			if _, err := geo.ParseBound(l.Filter); err != nil {
				errs = append(errs, fmt.Errorf("layer %q: %w", l.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}
