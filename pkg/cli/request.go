package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Plan describes a bench run loaded from a YAML or JSON file. Fields left
// empty are taken from the active profile.
type Plan struct {
	// Profile overrides the buffer and workload settings
	Profile Profile `yaml:"profile" json:"profile"`

	// PayloadSize is the payload length of each bench record in bytes
	PayloadSize int `yaml:"payload_size,omitempty" json:"payload_size,omitempty"`

	// DurationLimitMS aborts the run after this many milliseconds; 0 means
	// no limit
	DurationLimitMS int `yaml:"duration_limit_ms,omitempty" json:"duration_limit_ms,omitempty"`
}

// Merge returns base with every non-zero plan field applied on top.
func (p *Plan) Merge(base Profile) Profile {
	o := p.Profile
	if o.Name != "" {
		base.Name = o.Name
	}
	if o.Capacity != 0 {
		base.Capacity = o.Capacity
	}
	if o.Chunk != 0 {
		base.Chunk = o.Chunk
	}
	if o.TimeoutMS != 0 {
		base.TimeoutMS = o.TimeoutMS
	}
	if o.IntervalMS != 0 {
		base.IntervalMS = o.IntervalMS
	}
	if o.Producers != 0 {
		base.Producers = o.Producers
	}
	if o.Consumers != 0 {
		base.Consumers = o.Consumers
	}
	if o.Records != 0 {
		base.Records = o.Records
	}
	return base
}

// LoadRequest loads a request from a YAML or JSON file into the provided struct
func LoadRequest(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	return ParseRequest(data, path, v)
}

// ParseRequest parses request data based on file extension or content
func ParseRequest(data []byte, filename string, v any) error {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, v); err != nil {
			if err2 := json.Unmarshal(data, v); err2 != nil {
				return fmt.Errorf("failed to parse file (tried YAML and JSON)")
			}
		}
	}

	return nil
}
