package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".ringbuf"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Config represents the main configuration structure for a CLI app
type Config struct {
	// AppName is the application name (e.g., "ringbuf")
	AppName string `yaml:"-" json:"-"`

	// CurrentProfile is the name of the currently active profile
	CurrentProfile string `yaml:"current_profile,omitempty" json:"current_profile,omitempty"`

	// Profiles is a map of profile name to buffer settings
	Profiles map[string]*Profile `yaml:"profiles,omitempty" json:"profiles,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Profile holds the buffer and workload settings used by demo and bench.
// Zero fields fall back to DefaultProfile.
type Profile struct {
	// Name is the profile name
	Name string `yaml:"name" json:"name"`

	// Capacity is the buffer size in bytes
	Capacity int `yaml:"capacity,omitempty" json:"capacity,omitempty"`

	// Chunk is the size of each producer write in bytes
	Chunk int `yaml:"chunk,omitempty" json:"chunk,omitempty"`

	// TimeoutMS is the per-call timeout in milliseconds; 0 waits forever
	TimeoutMS int `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`

	// IntervalMS is the pause between consumer reads in the demo
	IntervalMS int `yaml:"interval_ms,omitempty" json:"interval_ms,omitempty"`

	// Producers is the number of concurrent writers in bench
	Producers int `yaml:"producers,omitempty" json:"producers,omitempty"`

	// Consumers is the number of concurrent readers in bench
	Consumers int `yaml:"consumers,omitempty" json:"consumers,omitempty"`

	// Records is the number of records each bench producer writes
	Records int `yaml:"records,omitempty" json:"records,omitempty"`
}

// DefaultProfile returns the built-in settings, matching the classic
// 100-byte producer/consumer demo.
func DefaultProfile() Profile {
	return Profile{
		Name:       "default",
		Capacity:   100,
		Chunk:      10,
		IntervalMS: 1000,
		Producers:  4,
		Consumers:  2,
		Records:    10000,
	}
}

// WithDefaults returns a copy of p with zero fields taken from
// DefaultProfile. TimeoutMS is kept as is, since zero is meaningful.
func (p Profile) WithDefaults() Profile {
	d := DefaultProfile()
	if p.Name == "" {
		p.Name = d.Name
	}
	if p.Capacity == 0 {
		p.Capacity = d.Capacity
	}
	if p.Chunk == 0 {
		p.Chunk = d.Chunk
	}
	if p.IntervalMS == 0 {
		p.IntervalMS = d.IntervalMS
	}
	if p.Producers == 0 {
		p.Producers = d.Producers
	}
	if p.Consumers == 0 {
		p.Consumers = d.Consumers
	}
	if p.Records == 0 {
		p.Records = d.Records
	}
	return p
}

// Validate checks that the profile describes a usable workload.
func (p Profile) Validate() error {
	switch {
	case p.Capacity <= 0:
		return fmt.Errorf("profile %q: capacity must be positive", p.Name)
	case p.Chunk <= 0:
		return fmt.Errorf("profile %q: chunk must be positive", p.Name)
	case p.Chunk > p.Capacity:
		return fmt.Errorf("profile %q: chunk %d exceeds capacity %d", p.Name, p.Chunk, p.Capacity)
	case p.TimeoutMS < 0:
		return fmt.Errorf("profile %q: timeout_ms must not be negative", p.Name)
	case p.Producers <= 0 || p.Consumers <= 0:
		return fmt.Errorf("profile %q: producers and consumers must be positive", p.Name)
	}
	return nil
}

// Timeout returns the per-call timeout as a duration.
func (p Profile) Timeout() time.Duration {
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

// Interval returns the demo read interval as a duration.
func (p Profile) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// LoadConfig loads or creates configuration for the specified app
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Profiles:   make(map[string]*Profile),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}
	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// AddProfile adds or replaces a profile
func (c *Config) AddProfile(name string, p *Profile) error {
	p.Name = name
	if err := p.WithDefaults().Validate(); err != nil {
		return err
	}
	c.Profiles[name] = p
	return c.Save()
}

// DeleteProfile removes a profile
func (c *Config) DeleteProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return c.Save()
}

// UseProfile sets the current profile
func (c *Config) UseProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	c.CurrentProfile = name
	return c.Save()
}

// GetProfile returns a specific profile
func (c *Config) GetProfile(name string) (*Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// ResolveProfile returns the named profile, or the current one if name is
// empty, with defaults applied. With neither a name nor a current profile it
// returns DefaultProfile.
func (c *Config) ResolveProfile(name string) (Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}
	if name == "" {
		return DefaultProfile(), nil
	}
	p, err := c.GetProfile(name)
	if err != nil {
		return Profile{}, err
	}
	return p.WithDefaults(), nil
}

// ListProfiles returns all profile names in sorted order
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
