// Package converter rewrites filter rules from their source dialect
// into uBlock Origin syntax using an ordered pattern table.
package converter

// Dialect names accepted as source types in the configuration.
const (
	DialectAdBlockPlus   = "AdBlock Plus"
	DialectAdGuard       = "AdGuard"
	DialectGhostery      = "Ghostery"
	DialectClearURLs     = "ClearURLs"
	DialectPrivacyBadger = "Privacy Badger"
	DialectPiHole        = "Pi-hole"
	DialectUBlockOrigin  = "uBlock Origin"
	DialectHostsFile     = "Hosts File"
)

// ConversionRule is one entry of the conversion table. Match uses a
// restricted wildcard grammar: "*" matches any run of characters,
// every other character is literal. Transform names a registered
// transform function; empty means the rule is directly compatible.
type ConversionRule struct {
	Match     string
	Transform string
}

// conversionTable maps a dialect to its ordered conversion rules.
// Order is significant: the first matching entry wins, so specific
// patterns must come before catch-alls.
var conversionTable = map[string][]ConversionRule{
	DialectAdBlockPlus: {
		{Match: "@@*"},
		{Match: "||*^*"},
		{Match: "*##*"},
		{Match: "/*/"},
		{Match: "*$*"},
	},
	DialectUBlockOrigin: {
		{Match: "@@*"},
		{Match: "||*^*"},
		{Match: "*##*"},
		{Match: "/*/"},
		{Match: "*$*"},
	},
	DialectAdGuard: {
		{Match: "*#$#*", Transform: TransformCSSHiding},
		{Match: "*#%#//scriptlet(*", Transform: TransformScriptlet},
		{Match: "*$redirect=*", Transform: TransformRedirectResource},
		{Match: "*##*"},
		{Match: "*$removeparam=*"},
	},
	DialectGhostery: {
		{Match: "@@*"},
		{Match: "||*^*"},
		// Path-bearing rules like example.com/tracker.js only need the
		// network envelope.
		{Match: "*.*/*", Transform: TransformBareToNetwork},
		// Catch-all handles both *domain* wildcard forms and bare
		// domains; the transform trims star runs before wrapping.
		{Match: "*", Transform: TransformWildcardDomain},
	},
	DialectClearURLs: {
		{Match: "*/?*", Transform: TransformParamRemoval},
		{Match: "{*}", Transform: TransformParamRemoval},
	},
	DialectPrivacyBadger: {
		{Match: "*", Transform: TransformStrictBlock},
	},
	DialectPiHole: {
		{Match: "0.0.0.0 *", Transform: TransformHostsStrip},
		{Match: "127.0.0.1 *", Transform: TransformHostsStrip},
		{Match: "*", Transform: TransformHostsStrip},
	},
	DialectHostsFile: {
		{Match: "0.0.0.0 *", Transform: TransformHostsStrip},
		{Match: "127.0.0.1 *", Transform: TransformHostsStrip},
	},
}
