// Package optimizer reduces grouped rules to a minimal, deterministic
// sequence: it removes duplicates, redundant network rules and
// exceptions with nothing to except.
package optimizer

import (
	"sort"
	"strings"

	"unilist/config"
	"unilist/parser"
)

// Stats counts what each optimization stage removed.
type Stats struct {
	Input      int
	Duplicates int
	Redundant  int
	Conflicts  int
	Final      int
}

// Optimize runs the full pipeline over type-grouped rules and returns
// the surviving rules in deterministic order. It is pure over its
// inputs: same groups and sections always produce the same sequence.
func Optimize(grouped map[parser.RuleType][]string, sections []config.Section) ([]string, Stats) {
	flat := flatten(grouped, sections)
	stats := Stats{Input: len(flat)}

	deduped := dedupe(flat, &stats)
	pruned := dropRedundant(deduped, &stats)
	resolved := resolveConflicts(pruned, &stats)

	sortRules(resolved)
	stats.Final = len(resolved)
	return resolved, stats
}

// flatten concatenates grouped rules in section declaration order.
// This order is what later stages use to break ties: the first
// occurrence of equivalent rules is the one that survives.
func flatten(grouped map[parser.RuleType][]string, sections []config.Section) []string {
	var flat []string
	for _, section := range sections {
		for _, t := range section.RuleTypes {
			flat = append(flat, grouped[t]...)
		}
	}
	return flat
}

// dedupe keeps the first rule per dedup key (text before the first
// "$"), so rules differing only in option modifiers collapse into the
// earliest one.
func dedupe(rules []string, stats *Stats) []string {
	seen := make(map[string]struct{}, len(rules))
	kept := rules[:0:0]
	for _, rule := range rules {
		key := parser.DedupKey(rule)
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, rule)
	}
	return kept
}

// dropRedundant keeps one rule per stripped domain among plain network
// rules. Element hiding rules and wildcard domains are exempt: their
// coverage is not comparable by domain alone.
func dropRedundant(rules []string, stats *Stats) []string {
	byDomain := make(map[string]struct{}, len(rules))
	kept := rules[:0:0]
	for _, rule := range rules {
		if strings.Contains(rule, "##") || strings.Contains(rule, "#@#") {
			kept = append(kept, rule)
			continue
		}

		domain := ruleDomain(rule)
		if strings.Contains(domain, "*") {
			kept = append(kept, rule)
			continue
		}

		if _, dup := byDomain[domain]; dup {
			stats.Redundant++
			continue
		}
		byDomain[domain] = struct{}{}
		kept = append(kept, rule)
	}
	return kept
}

// ruleDomain reduces a network rule to its domain: leading "|" markers
// stripped, body cut at the first "^" or "/". Options after the
// separator never widen a rule's domain, so "||a.com^$domain=b.com"
// and "||a.com^" both reduce to "a.com".
func ruleDomain(rule string) string {
	s := strings.TrimLeft(rule, "|")
	if i := strings.IndexAny(s, "^/"); i >= 0 {
		s = s[:i]
	}
	return s
}

// resolveConflicts drops exception rules whose stripped text has no
// matching blocking rule: an exception with nothing to except is
// noise.
func resolveConflicts(rules []string, stats *Stats) []string {
	blocking := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		if !parser.IsException(rule) {
			blocking[rule] = struct{}{}
		}
	}

	kept := rules[:0:0]
	for _, rule := range rules {
		if parser.IsException(rule) {
			if _, ok := blocking[strings.TrimPrefix(rule, "@@")]; !ok {
				stats.Conflicts++
				continue
			}
		}
		kept = append(kept, rule)
	}
	return kept
}

// sortRules orders rules by the length of the text before the first
// "/" and then lexically. The key is arbitrary but stable, which makes
// output reproducible across runs.
func sortRules(rules []string) {
	sort.Slice(rules, func(i, j int) bool {
		li, lj := prefixLen(rules[i]), prefixLen(rules[j])
		if li != lj {
			return li < lj
		}
		return rules[i] < rules[j]
	})
}

func prefixLen(rule string) int {
	if i := strings.Index(rule, "/"); i >= 0 {
		return i
	}
	return len(rule)
}
