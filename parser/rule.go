package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleType identifies the kind of filter list rule.
type RuleType int

const (
	RuleTypeUnclassifiable RuleType = iota // comments, blank lines
	RuleTypeBasicBlock                     // ||example.com^
	RuleTypeDomainScoped                   // $domain=... network rules
	RuleTypeElementHide                    // example.com##.ad
	RuleTypeException                      // @@||example.com^
	RuleTypeRegexBlock                     // /ads[0-9]+/
	RuleTypeResourceReplace                // resource replacement
	RuleTypeScriptletInject                // example.com##+js(aopr, x)
	RuleTypeHTMLFilter                     // example.com##^script:has-text(ads)
	RuleTypeHostsFormat                    // 0.0.0.0 ads.example.com
	RuleTypeDNSBlock                       // DNS-level blocking, not supported in output
	RuleTypeExtendedCSS                    // ##.ad:has(.banner)
	RuleTypeNetworkOption                  // ||example.com^$third-party
	RuleTypeDynamicRule                    // condition-dependent rules, unused
	RuleTypeParamRemoval                   // $removeparam=...
	RuleTypeRedirect                       // $redirect=...
)

var ruleTypeNames = map[RuleType]string{
	RuleTypeUnclassifiable:  "unclassifiable",
	RuleTypeBasicBlock:      "basic-block",
	RuleTypeDomainScoped:    "domain-scoped",
	RuleTypeElementHide:     "element-hide",
	RuleTypeException:       "exception",
	RuleTypeRegexBlock:      "regex-block",
	RuleTypeResourceReplace: "resource-replace",
	RuleTypeScriptletInject: "scriptlet-inject",
	RuleTypeHTMLFilter:      "html-filter",
	RuleTypeHostsFormat:     "hosts-format",
	RuleTypeDNSBlock:        "dns-block",
	RuleTypeExtendedCSS:     "extended-css",
	RuleTypeNetworkOption:   "network-option",
	RuleTypeDynamicRule:     "dynamic-rule",
	RuleTypeParamRemoval:    "param-removal",
	RuleTypeRedirect:        "redirect",
}

var ruleTypesByName = func() map[string]RuleType {
	m := make(map[string]RuleType, len(ruleTypeNames))
	for t, name := range ruleTypeNames {
		m[name] = t
	}
	return m
}()

// String returns the stable config-facing name of the rule type.
func (t RuleType) String() string {
	if name, ok := ruleTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("rule-type(%d)", int(t))
}

// Supported reports whether rules of this type may appear in the
// generated list. DNS-level blocking and dynamic rules are carried in
// the taxonomy but never emitted.
func (t RuleType) Supported() bool {
	switch t {
	case RuleTypeUnclassifiable, RuleTypeDNSBlock, RuleTypeDynamicRule:
		return false
	}
	return true
}

// ParseRuleType resolves a config-facing rule type name.
func ParseRuleType(name string) (RuleType, error) {
	if t, ok := ruleTypesByName[strings.TrimSpace(name)]; ok {
		return t, nil
	}
	return RuleTypeUnclassifiable, fmt.Errorf("unknown rule type %q", name)
}

// UnmarshalYAML decodes a rule type from its name.
func (t *RuleType) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseRuleType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes a rule type as its name.
func (t RuleType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// IsException reports whether a rule carries the exception prefix.
func IsException(rule string) bool {
	return strings.HasPrefix(rule, "@@")
}

// DedupKey returns the portion of a rule preceding its first option
// separator. Rules sharing a dedup key differ only in their option
// modifiers.
func DedupKey(rule string) string {
	base, _, _ := strings.Cut(rule, "$")
	return base
}
