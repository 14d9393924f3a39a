package converter

import (
	"log"

	"unilist/config"
	"unilist/parser"
)

// SourceRules is one fetched source: its pre-filtered rule lines plus
// the dialect they are written in.
type SourceRules struct {
	Name    string
	Dialect string
	Lines   []string
}

// ProcessStats summarizes a ProcessRules run.
type ProcessStats struct {
	Sources   int
	Lines     int
	Converted int // rules rewritten by a transform
	Unique    int // distinct rules after cross-source dedup
	Dropped   int // unclassifiable or outside configured sections
}

// ProcessRules converts and classifies rules from all sources into
// type-keyed groups. Sources are processed in the given order and a
// rule converted identically from two sources is only kept once, so
// earlier sources win. Rules whose type no section claims are dropped.
func (c *Converter) ProcessRules(sources []SourceRules, cfg *config.Config) (map[parser.RuleType][]string, ProcessStats) {
	grouped := make(map[parser.RuleType][]string)
	for _, section := range cfg.Sections {
		for _, t := range section.RuleTypes {
			if _, ok := grouped[t]; !ok {
				grouped[t] = nil
			}
		}
	}

	stats := ProcessStats{Sources: len(sources)}
	seen := make(map[string]struct{})

	for _, src := range sources {
		converted := 0
		kept := 0
		for _, line := range src.Lines {
			stats.Lines++

			rule, status := c.Convert(line, src.Dialect)
			if rule == "" {
				stats.Dropped++
				continue
			}
			if status == StatusConverted {
				converted++
			}

			if _, dup := seen[rule]; dup {
				continue
			}

			t := parser.Classify(rule)
			if !t.Supported() {
				stats.Dropped++
				continue
			}
			group, wanted := grouped[t]
			if !wanted {
				stats.Dropped++
				continue
			}

			grouped[t] = append(group, rule)
			seen[rule] = struct{}{}
			kept++
		}
		stats.Converted += converted
		log.Printf("Processed %d rules from '%s' (%s): %d kept, %d converted",
			len(src.Lines), src.Name, src.Dialect, kept, converted)
	}

	stats.Unique = len(seen)
	return grouped, stats
}
