package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"unilist/config"
	"unilist/parser"
)

func testConfig() *config.Config {
	return &config.Config{
		Metadata: config.Metadata{
			Title:       "Unified Test List",
			Description: "A list for tests",
			Author:      "tester",
			Homepage:    "https://example.com/list",
			Expires:     "2 days",
		},
		Sections: []config.Section{
			{
				Name: "Network Blocking",
				RuleTypes: []parser.RuleType{
					parser.RuleTypeBasicBlock,
					parser.RuleTypeException,
				},
			},
			{
				Name: "Cosmetic",
				RuleTypes: []parser.RuleType{
					parser.RuleTypeElementHide,
				},
			},
			{
				Name: "Parameter Cleaning",
				RuleTypes: []parser.RuleType{
					parser.RuleTypeParamRemoval,
				},
			},
		},
	}
}

func fixedTimeGenerator(cfg *config.Config) *Generator {
	g := New(cfg)
	g.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 30, 0, 0, time.UTC)
	}
	return g
}

func TestRenderHeader(t *testing.T) {
	t.Parallel()

	g := fixedTimeGenerator(testConfig())
	text, stats := g.Render([]string{"||ads.example.com^"})

	for _, want := range []string{
		"! Title: Unified Test List\n",
		"! Description: A list for tests\n",
		"! Author: tester\n",
		"! Homepage: https://example.com/list\n",
		"! Last updated: 2026-08-30 12:30 UTC\n",
		"! Total rules: 1\n",
		"! Expires: 2 days\n",
		"! Please report issues or contribute at:\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("header missing %q in:\n%s", want, text)
		}
	}
	if stats.TotalRules != 1 {
		t.Fatalf("total = %d, want 1", stats.TotalRules)
	}
}

func TestRenderSections(t *testing.T) {
	t.Parallel()

	g := fixedTimeGenerator(testConfig())
	text, stats := g.Render([]string{
		"||ads.example.com^",
		"@@||safe.example.com^",
		"example.com##.banner",
	})

	netIdx := strings.Index(text, "! Network Blocking\n")
	cosIdx := strings.Index(text, "! Cosmetic\n")
	if netIdx < 0 || cosIdx < 0 {
		t.Fatalf("section headings missing in:\n%s", text)
	}
	if netIdx > cosIdx {
		t.Fatalf("sections out of declared order")
	}

	network := text[netIdx:cosIdx]
	for _, rule := range []string{"||ads.example.com^\n", "@@||safe.example.com^\n"} {
		if !strings.Contains(network, rule) {
			t.Fatalf("network section missing %q:\n%s", rule, network)
		}
	}
	if !strings.Contains(text[cosIdx:], "example.com##.banner\n") {
		t.Fatalf("cosmetic section missing its rule:\n%s", text)
	}

	if stats.Sections["Network Blocking"] != 2 || stats.Sections["Cosmetic"] != 1 {
		t.Fatalf("section stats = %v", stats.Sections)
	}
	if !strings.HasSuffix(text, "\n") {
		t.Fatalf("output must be newline-terminated")
	}
}

func TestRenderEmptySectionPolicy(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	g := fixedTimeGenerator(cfg)
	text, _ := g.Render([]string{"||ads.example.com^"})
	if strings.Contains(text, "! Parameter Cleaning\n") {
		t.Fatalf("empty section emitted while emit_empty_sections is off:\n%s", text)
	}

	cfg.Settings.EmitEmptySections = true
	text, stats := fixedTimeGenerator(cfg).Render([]string{"||ads.example.com^"})
	if !strings.Contains(text, "! Parameter Cleaning\n") {
		t.Fatalf("empty section missing while emit_empty_sections is on:\n%s", text)
	}
	if stats.Sections["Parameter Cleaning"] != 0 {
		t.Fatalf("empty section count = %d, want 0", stats.Sections["Parameter Cleaning"])
	}
}

func TestRenderSkipsUnsectionedRules(t *testing.T) {
	t.Parallel()

	g := fixedTimeGenerator(testConfig())
	// Regex rules have no section in this config.
	text, stats := g.Render([]string{"||ads.example.com^", "/ads[0-9]+/"})

	if strings.Contains(text, "/ads[0-9]+/") {
		t.Fatalf("unsectioned rule leaked into output:\n%s", text)
	}
	if stats.TotalRules != 1 {
		t.Fatalf("total = %d, want 1", stats.TotalRules)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "list.txt")

	g := fixedTimeGenerator(testConfig())
	stats, err := g.WriteFile(path, []string{"||ads.example.com^"})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if stats.TotalRules != 1 {
		t.Fatalf("total = %d, want 1", stats.TotalRules)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "||ads.example.com^\n") {
		t.Fatalf("written file missing rule:\n%s", data)
	}
}
