package config

import (
	"time"

	"unilist/parser"
)

// Durations in Settings are plain seconds in the config file
// (cache_ttl: 86400), converted through the accessor methods.

// Config represents the top-level configuration structure.
type Config struct {
	Metadata        Metadata  `yaml:"metadata"`
	Settings        Settings  `yaml:"settings"`
	Sources         []Source  `yaml:"sources"`
	Sections        []Section `yaml:"sections"`
	ExcludePatterns []string  `yaml:"exclude_patterns,omitempty"`
}

// Metadata describes the generated list header fields.
type Metadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Homepage    string `yaml:"homepage,omitempty"`
	Expires     string `yaml:"expires,omitempty"` // e.g. "2 days"
}

// Settings holds fetch and output tuning knobs.
type Settings struct {
	CacheTTLSeconds   int    `yaml:"cache_ttl,omitempty"`
	MaxRetries        int    `yaml:"max_retries,omitempty"`
	RetryDelaySeconds int    `yaml:"retry_delay,omitempty"`
	TimeoutSeconds    int    `yaml:"timeout,omitempty"`
	UserAgent         string `yaml:"user_agent,omitempty"`
	ParallelDownloads int    `yaml:"parallel_downloads,omitempty"`
	OutputFile        string `yaml:"output_file,omitempty"`
	// EmitEmptySections keeps section headings in the output even when
	// optimization left them with no rules.
	EmitEmptySections bool `yaml:"emit_empty_sections,omitempty"`
}

// CacheTTL returns the cache time-to-live as a duration.
func (s Settings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// RetryDelay returns the delay between fetch attempts.
func (s Settings) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Source represents a single upstream filter list.
type Source struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"` // dialect name, e.g. "AdGuard", "Hosts File"
	URL      string `yaml:"url"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority,omitempty"`
}

// Section groups rule types under one heading in the output list.
// Section order in the config is significant: it decides which rule
// wins when the optimizer breaks ties.
type Section struct {
	Name      string            `yaml:"name"`
	RuleTypes []parser.RuleType `yaml:"rule_types"`
}
