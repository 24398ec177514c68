// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names the coordinate value a dataset holds.
type Kind string

const (
	KindPosition         Kind = "position"
	KindLinearRing       Kind = "linear_ring"
	KindPolygonRingArray Kind = "polygon_ring_array"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindPosition, KindLinearRing, KindPolygonRingArray}

// ParseKind resolves a kind name, accepting a few short aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "position", "pos":
		return KindPosition, nil
	case "linear_ring", "linearring", "ring":
		return KindLinearRing, nil
	case "polygon_ring_array", "polygon", "rings":
		return KindPolygonRingArray, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

// Config represents the root configuration file structure.
type Config struct {
	Datasets    []Dataset `yaml:"datasets" json:"datasets"`
	Concurrency int       `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	Cascade     bool      `yaml:"cascade,omitempty" json:"cascade,omitempty"`
}

// Dataset is a single coordinate value to check, read from Source or
// inlined as Coordinates.
type Dataset struct {
	// defining coordinates directly in config.yaml
	Coordinates yaml.Node `yaml:"coordinates,omitempty" json:"-"`

	Name   string `yaml:"name" json:"name"`
	Kind   Kind   `yaml:"kind" json:"kind"`
	Source string `yaml:"source,omitempty" json:"source,omitempty"` // file path or http(s) URL
}

// Inline reports whether the dataset carries its coordinates in the config.
func (d Dataset) Inline() bool {
	return d.Coordinates.Kind != 0
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Datasets {
		if cfg.Datasets[i].Kind == "" {
			continue
		}
		if kind, err := ParseKind(string(cfg.Datasets[i].Kind)); err == nil {
			cfg.Datasets[i].Kind = kind
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every dataset is named once, has a known kind and
// exactly one of source or coordinates.
func (c *Config) Validate() error {
	var errs []string

	if c.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("concurrency must not be negative, got %d", c.Concurrency))
	}

	seen := make(map[string]bool, len(c.Datasets))
	for i, d := range c.Datasets {
		label := fmt.Sprintf("datasets[%d]", i)
		if d.Name == "" {
			errs = append(errs, label+": name is required")
		} else {
			label = fmt.Sprintf("datasets[%d] (%s)", i, d.Name)
			if seen[d.Name] {
				errs = append(errs, label+": duplicate name")
			}
			seen[d.Name] = true
		}

		if _, err := ParseKind(string(d.Kind)); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", label, err))
		}

		switch {
		case d.Source == "" && !d.Inline():
			errs = append(errs, label+": one of source or coordinates is required")
		case d.Source != "" && d.Inline():
			errs = append(errs, label+": source and coordinates are mutually exclusive")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Find returns the dataset with the given name.
func (c *Config) Find(name string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.Name == name {
			return d, true
		}
	}

	return Dataset{}, false
}
