package converter

import (
	"regexp"
	"strings"

	"github.com/miekg/dns"
)

// Transform rewrites a rule's text. Transforms are pure and
// best-effort: input that does not have the expected shape is
// returned unchanged, never rejected.
type Transform func(rule string) string

// Registered transform identifiers used by the conversion table.
const (
	TransformCSSHiding        = "css-hiding"
	TransformScriptlet        = "scriptlet"
	TransformRedirectResource = "redirect-resource"
	TransformBareToNetwork    = "bare-to-network"
	TransformWildcardDomain   = "wildcard-domain"
	TransformParamRemoval     = "param-removal"
	TransformHostsStrip       = "hosts-strip"
	TransformStrictBlock      = "strict-block"
)

var transforms = map[string]Transform{
	TransformCSSHiding:        convertCSSHiding,
	TransformScriptlet:        convertScriptlet,
	TransformRedirectResource: convertRedirectResource,
	TransformBareToNetwork:    convertBareToNetwork,
	TransformWildcardDomain:   convertWildcardDomain,
	TransformParamRemoval:     convertParamRemoval,
	TransformHostsStrip:       convertHostsStrip,
	TransformStrictBlock:      convertStrictBlock,
}

var (
	cssHidingRE = regexp.MustCompile(`#\$#\s*(.+?)\s*\{\s*display:\s*none\s*!important;?\s*\}`)
	scriptletRE = regexp.MustCompile(`#%#//scriptlet\("([^"]+)"(?:,\s*"([^"]*)")?\)`)
	hostsIPRE   = regexp.MustCompile(`^(0\.0\.0\.0|127\.0\.0\.1)\s+`)
)

// scriptletNames maps AdGuard scriptlet names to their uBlock Origin
// equivalents. Unknown names pass through unchanged.
var scriptletNames = map[string]string{
	"abort-on-property-read":      "aopr",
	"abort-on-property-write":     "aopw",
	"abort-current-inline-script": "acis",
	"set-constant":                "set",
	"json-prune":                  "json-prune",
}

// redirectResources maps AdGuard redirect resource names to uBlock
// Origin resource names.
var redirectResources = map[string]string{
	"nooptext":  "1x1.gif",
	"noopjs":    "noop.js",
	"noopframe": "empty.html",
}

// convertCSSHiding rewrites AdGuard CSS injection hiding rules
// (domain#$#.sel { display: none !important; }) into plain element
// hiding (domain##.sel).
func convertCSSHiding(rule string) string {
	return cssHidingRE.ReplaceAllString(rule, "##$1")
}

// convertScriptlet rewrites AdGuard scriptlet injection into uBlock
// ##+js syntax, mapping scriptlet names where they differ.
func convertScriptlet(rule string) string {
	m := scriptletRE.FindStringSubmatch(rule)
	if m == nil {
		return rule
	}

	name := m[1]
	if mapped, ok := scriptletNames[name]; ok {
		name = mapped
	}

	domain, _, _ := strings.Cut(rule, "#")
	if m[2] == "" {
		return domain + "##+js(" + name + ")"
	}
	return domain + "##+js(" + name + ", " + m[2] + ")"
}

// convertRedirectResource maps AdGuard redirect resource names inside
// a $redirect= rule to their uBlock equivalents.
func convertRedirectResource(rule string) string {
	base, value, found := strings.Cut(rule, "$redirect=")
	if !found {
		return rule
	}
	for adguard, ubo := range redirectResources {
		if strings.Contains(value, adguard) {
			return base + "$redirect=" + strings.Replace(value, adguard, ubo, 1)
		}
	}
	return rule
}

// convertBareToNetwork wraps a rule lacking a network-filter envelope
// as ||rule^.
func convertBareToNetwork(rule string) string {
	if strings.HasPrefix(rule, "||") || strings.Contains(rule, "^") {
		return rule
	}
	return "||" + rule + "^"
}

// convertWildcardDomain collapses a *domain* wildcard form into
// ||domain^. A rule without leading/trailing stars is treated as a
// bare domain and wrapped the same way.
func convertWildcardDomain(rule string) string {
	core := strings.Trim(rule, "*")
	if core == "" {
		return rule
	}
	return convertBareToNetwork(core)
}

// convertParamRemoval rewrites ClearURLs parameter rules into
// $removeparam syntax. Two shapes are handled: domain/?param* and the
// bare {param} form.
func convertParamRemoval(rule string) string {
	if strings.HasPrefix(rule, "{") && strings.HasSuffix(rule, "}") {
		param := strings.Trim(rule, "{}")
		if param == "" {
			return rule
		}
		return "||*$removeparam=" + param
	}

	domain, param, found := strings.Cut(rule, "/?")
	if !found || param == "" {
		return rule
	}
	param = strings.ReplaceAll(param, "*", "")
	return domain + "$removeparam=/" + param + ".*/i"
}

// convertHostsStrip strips a leading blocking IP token from a hosts
// line and wraps the remaining hostname as ||host^. Pi-hole bare
// domain lines take the same path without the IP prefix.
func convertHostsStrip(rule string) string {
	host := strings.TrimSpace(hostsIPRE.ReplaceAllString(rule, ""))
	if host == "" || strings.ContainsAny(host, " \t|^$#*/") {
		return rule
	}
	if _, ok := dns.IsDomainName(host); !ok {
		return rule
	}
	return "||" + host + "^"
}

// convertStrictBlock rewrites a Privacy Badger learned domain
// (domain/*) into a strict blocking filter.
func convertStrictBlock(rule string) string {
	domain := strings.TrimSuffix(rule, "/*")
	if domain == "" || strings.Contains(domain, "/") {
		return rule
	}
	return "||" + domain + "^$all"
}
