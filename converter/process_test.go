package converter

import (
	"testing"

	"unilist/config"
	"unilist/parser"
)

func processConfig() *config.Config {
	return &config.Config{
		Sections: []config.Section{
			{
				Name: "Network Blocking",
				RuleTypes: []parser.RuleType{
					parser.RuleTypeBasicBlock,
					parser.RuleTypeNetworkOption,
					parser.RuleTypeException,
				},
			},
			{
				Name: "Cosmetic",
				RuleTypes: []parser.RuleType{
					parser.RuleTypeElementHide,
					parser.RuleTypeExtendedCSS,
				},
			},
		},
	}
}

func TestProcessRulesGroupsByType(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	sources := []SourceRules{
		{
			Name:    "list-a",
			Dialect: DialectAdBlockPlus,
			Lines: []string{
				"||ads.example.com^",
				"||example.com^$third-party",
				"example.com##.banner",
				"@@||safe.example.com^",
			},
		},
	}

	grouped, stats := c.ProcessRules(sources, processConfig())

	if got := grouped[parser.RuleTypeBasicBlock]; len(got) != 1 || got[0] != "||ads.example.com^" {
		t.Fatalf("basic block group = %v", got)
	}
	if got := grouped[parser.RuleTypeNetworkOption]; len(got) != 1 || got[0] != "||example.com^$third-party" {
		t.Fatalf("network option group = %v", got)
	}
	if got := grouped[parser.RuleTypeElementHide]; len(got) != 1 || got[0] != "example.com##.banner" {
		t.Fatalf("element hide group = %v", got)
	}
	if got := grouped[parser.RuleTypeException]; len(got) != 1 || got[0] != "@@||safe.example.com^" {
		t.Fatalf("exception group = %v", got)
	}
	if stats.Unique != 4 {
		t.Fatalf("unique = %d, want 4", stats.Unique)
	}
}

func TestProcessRulesCrossSourceDedup(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	sources := []SourceRules{
		{
			Name:    "hosts-list",
			Dialect: DialectHostsFile,
			Lines:   []string{"0.0.0.0 ads.example.com"},
		},
		{
			Name:    "abp-list",
			Dialect: DialectAdBlockPlus,
			// Converts to the same text the hosts line produced.
			Lines: []string{"||ads.example.com^"},
		},
	}

	grouped, stats := c.ProcessRules(sources, processConfig())

	if got := grouped[parser.RuleTypeBasicBlock]; len(got) != 1 || got[0] != "||ads.example.com^" {
		t.Fatalf("dedup across sources failed: %v", got)
	}
	if stats.Unique != 1 {
		t.Fatalf("unique = %d, want 1", stats.Unique)
	}
	if stats.Converted != 1 {
		t.Fatalf("converted = %d, want 1", stats.Converted)
	}
}

func TestProcessRulesDropsUnsectionedTypes(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	sources := []SourceRules{
		{
			Name:    "mixed",
			Dialect: DialectAdBlockPlus,
			Lines: []string{
				"||ads.example.com^",
				// Regex rules have no section in this config.
				"/ads/[0-9]+/",
			},
		},
	}

	grouped, stats := c.ProcessRules(sources, processConfig())

	if stats.Dropped != 1 {
		t.Fatalf("dropped = %d, want 1", stats.Dropped)
	}
	if _, ok := grouped[parser.RuleTypeRegexBlock]; ok {
		t.Fatalf("regex group must not exist when no section claims it")
	}
}
