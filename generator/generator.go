// Package generator renders the optimized rule sequence into the
// final filter list text with a metadata header and per-section
// blocks.
package generator

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"unilist/config"
	"unilist/parser"
)

// Stats reports what the generator wrote.
type Stats struct {
	TotalRules  int
	Sections    map[string]int
	LastUpdated string
}

// Generator assembles the output list.
type Generator struct {
	cfg *config.Config
	now func() time.Time
}

// New creates a generator for the given configuration.
func New(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg, now: time.Now}
}

// Render produces the complete list text: header, then one block per
// configured section. Each rule is re-classified to find its section;
// rules no section claims are skipped. Empty sections are omitted
// unless settings.emit_empty_sections is set.
func (g *Generator) Render(rules []string) (string, Stats) {
	stats := Stats{
		Sections:    make(map[string]int, len(g.cfg.Sections)),
		LastUpdated: g.now().UTC().Format("2006-01-02 15:04 UTC"),
	}

	bySection := make(map[string][]string, len(g.cfg.Sections))
	counted := 0
	for _, rule := range rules {
		section := g.cfg.SectionForType(parser.Classify(rule))
		if section == nil {
			continue
		}
		bySection[section.Name] = append(bySection[section.Name], rule)
		counted++
	}

	var b strings.Builder
	g.writeHeader(&b, counted, stats.LastUpdated)

	for _, section := range g.cfg.Sections {
		members := bySection[section.Name]
		if len(members) == 0 && !g.cfg.Settings.EmitEmptySections {
			continue
		}
		b.WriteString("\n! ")
		b.WriteString(section.Name)
		b.WriteString("\n")
		for _, rule := range members {
			b.WriteString(rule)
			b.WriteString("\n")
		}
		stats.Sections[section.Name] = len(members)
	}

	stats.TotalRules = counted
	return b.String(), stats
}

// WriteFile renders the list and persists it, creating the parent
// directory when needed.
func (g *Generator) WriteFile(path string, rules []string) (Stats, error) {
	text, stats := g.Render(rules)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stats, fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return stats, fmt.Errorf("failed to write list: %w", err)
	}

	log.Printf("Wrote %d rules to %s", stats.TotalRules, path)
	return stats, nil
}

func (g *Generator) writeHeader(b *strings.Builder, total int, updated string) {
	meta := g.cfg.Metadata
	fmt.Fprintf(b, "! Title: %s\n", meta.Title)
	fmt.Fprintf(b, "! Description: %s\n", meta.Description)
	fmt.Fprintf(b, "! Author: %s\n", meta.Author)
	if meta.Homepage != "" {
		fmt.Fprintf(b, "! Homepage: %s\n", meta.Homepage)
	}
	fmt.Fprintf(b, "! Last updated: %s\n", updated)
	fmt.Fprintf(b, "! Total rules: %d\n", total)
	if meta.Expires != "" {
		fmt.Fprintf(b, "! Expires: %s\n", meta.Expires)
	}
	if meta.Homepage != "" {
		b.WriteString("!\n! Please report issues or contribute at:\n")
		fmt.Fprintf(b, "! %s\n", meta.Homepage)
	}
}
