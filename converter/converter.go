package converter

import (
	"regexp"
	"strings"
)

// Status describes how a rule was handled by Convert.
type Status int

const (
	// StatusConverted means a transform rewrote the rule.
	StatusConverted Status = iota
	// StatusDirect means a table entry matched with no transform; the
	// rule is compatible as-is.
	StatusDirect
	// StatusAssumed means no table entry matched; the rule passes
	// through unchanged and is assumed compatible.
	StatusAssumed
)

type compiledEntry struct {
	re        *regexp.Regexp
	transform Transform
}

// Converter rewrites rules into uBlock Origin syntax. The table is
// compiled once at construction; Convert is pure after that.
type Converter struct {
	dialects map[string][]compiledEntry
}

// NewConverter compiles the embedded conversion table.
func NewConverter() *Converter {
	c := &Converter{dialects: make(map[string][]compiledEntry, len(conversionTable))}
	for dialect, entries := range conversionTable {
		compiled := make([]compiledEntry, 0, len(entries))
		for _, entry := range entries {
			compiled = append(compiled, compiledEntry{
				re:        compilePattern(entry.Match),
				transform: transforms[entry.Transform],
			})
		}
		c.dialects[dialect] = compiled
	}
	return c
}

// Convert rewrites a rule from the given source dialect. Conversion is
// best-effort: an unknown dialect or an unmatched rule passes through
// unchanged, and callers must treat the result as valid output.
func (c *Converter) Convert(rule, dialect string) (string, Status) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return "", StatusAssumed
	}

	for _, entry := range c.dialects[dialect] {
		if !entry.re.MatchString(rule) {
			continue
		}
		if entry.transform == nil {
			return rule, StatusDirect
		}
		out := entry.transform(rule)
		if out == rule {
			return rule, StatusDirect
		}
		return out, StatusConverted
	}

	return rule, StatusAssumed
}

// compilePattern compiles the restricted wildcard grammar into an
// anchored regexp: "*" matches any run of characters, everything else
// is literal.
func compilePattern(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for i, part := range strings.Split(pattern, "*") {
		if i > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
