package parser

import (
	"regexp"
	"strings"

	"github.com/miekg/dns"
)

var hostsLineRE = regexp.MustCompile(`^(0\.0\.0\.0|127\.0\.0\.1)\s+([a-z0-9.-]+)$`)

// Classify maps a rule line to its rule type. The predicate order
// below is the authoritative tie-break for rules that would satisfy
// several predicates; changing it changes classification outcomes.
func Classify(rule string) RuleType {
	rule = strings.TrimSpace(rule)
	if rule == "" || strings.HasPrefix(rule, "!") {
		return RuleTypeUnclassifiable
	}

	// Exception prefix takes precedence over everything, including the
	// blocking-prefix test below.
	if IsException(rule) {
		return RuleTypeException
	}

	if m := hostsLineRE.FindStringSubmatch(rule); m != nil {
		if _, ok := dns.IsDomainName(m[2]); ok {
			return RuleTypeHostsFormat
		}
	}

	// Element hiding family. More specific selector forms are checked
	// before plain element hiding because the categories overlap.
	if strings.Contains(rule, "##") {
		switch {
		case strings.Contains(rule, ":has("),
			strings.Contains(rule, ":not("),
			strings.Contains(rule, ":is("):
			return RuleTypeExtendedCSS
		case strings.Contains(rule, "##+js"):
			return RuleTypeScriptletInject
		case strings.Contains(rule, "##^"):
			return RuleTypeHTMLFilter
		}
		return RuleTypeElementHide
	}

	// Option-based rules.
	switch {
	case strings.Contains(rule, "$redirect="):
		return RuleTypeRedirect
	case strings.Contains(rule, "$removeparam="):
		return RuleTypeParamRemoval
	case strings.Contains(rule, "$domain="):
		return RuleTypeDomainScoped
	case strings.Contains(rule, "$"):
		return RuleTypeNetworkOption
	}

	if len(rule) > 1 && strings.HasPrefix(rule, "/") && strings.HasSuffix(rule, "/") {
		return RuleTypeRegexBlock
	}

	if strings.HasPrefix(rule, "||") && strings.Contains(rule, "^") {
		return RuleTypeBasicBlock
	}

	// Anything else that is not a comment or blank line is treated as
	// a basic blocking pattern.
	return RuleTypeBasicBlock
}
