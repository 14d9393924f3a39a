package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"unilist/parser"
)

// Default settings applied for fields left empty in the config file.
const (
	DefaultCacheTTLSeconds   = 86400 // 24 hours
	DefaultMaxRetries        = 3
	DefaultRetryDelaySeconds = 5
	DefaultTimeoutSeconds    = 30
	DefaultUserAgent         = "unilist/1.0"
	DefaultParallelDownloads = 5
	DefaultOutputFile        = "unified-list.txt"
)

// Manager handles configuration loading and access.
type Manager struct {
	current    *Config
	configPath string
}

// NewManager creates a new configuration manager.
func NewManager(path string) *Manager {
	return &Manager{
		configPath: path,
		current:    &Config{},
	}
}

// Load reads the configuration file from disk, applies defaults and
// validates it. Validation failures are fatal: the pipeline cannot run
// without metadata, sources and sections.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var newConfig Config
	if err := yaml.Unmarshal(data, &newConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	newConfig.applyDefaults()
	if err := newConfig.validate(); err != nil {
		return err
	}

	m.current = &newConfig
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.current
}

func (c *Config) applyDefaults() {
	if c.Settings.CacheTTLSeconds <= 0 {
		c.Settings.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.Settings.MaxRetries <= 0 {
		c.Settings.MaxRetries = DefaultMaxRetries
	}
	if c.Settings.RetryDelaySeconds <= 0 {
		c.Settings.RetryDelaySeconds = DefaultRetryDelaySeconds
	}
	if c.Settings.TimeoutSeconds <= 0 {
		c.Settings.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = DefaultUserAgent
	}
	if c.Settings.ParallelDownloads <= 0 {
		c.Settings.ParallelDownloads = DefaultParallelDownloads
	}
	if c.Settings.OutputFile == "" {
		c.Settings.OutputFile = DefaultOutputFile
	}

	// Sources without an explicit priority keep declaration order.
	for i := range c.Sources {
		if c.Sources[i].Priority == 0 {
			c.Sources[i].Priority = i + 1
		}
	}
}

func (c *Config) validate() error {
	for _, field := range []struct{ name, value string }{
		{"metadata.title", c.Metadata.Title},
		{"metadata.description", c.Metadata.Description},
		{"metadata.author", c.Metadata.Author},
	} {
		if field.value == "" {
			return fmt.Errorf("missing required config field: %s", field.name)
		}
	}

	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources defined in configuration")
	}
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source #%d is missing a name", i+1)
		}
		if src.Type == "" {
			return fmt.Errorf("source %q is missing a type", src.Name)
		}
		if src.URL == "" {
			return fmt.Errorf("source %q is missing a url", src.Name)
		}
	}

	if len(c.Sections) == 0 {
		return fmt.Errorf("no sections defined in configuration")
	}
	for _, sec := range c.Sections {
		if sec.Name == "" {
			return fmt.Errorf("section with empty name in configuration")
		}
		if len(sec.RuleTypes) == 0 {
			return fmt.Errorf("section %q lists no rule types", sec.Name)
		}
	}

	return nil
}

// EnabledSources returns enabled sources sorted by priority. The sort
// is stable so equal priorities keep declaration order.
func (c *Config) EnabledSources() []Source {
	var enabled []Source
	for _, s := range c.Sources {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})
	return enabled
}

// SectionForType finds the first section that contains the given rule
// type, or nil if no section claims it.
func (c *Config) SectionForType(t parser.RuleType) *Section {
	for i := range c.Sections {
		for _, rt := range c.Sections[i].RuleTypes {
			if rt == t {
				return &c.Sections[i]
			}
		}
	}
	return nil
}
