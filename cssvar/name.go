package cssvar

import "strings"

// Name is a custom property's identifier, interned as a plain string,
// with its leading "--" already stripped. It is never stored with the
// prefix anywhere in this package.
type Name string

// ParseName strips the mandatory "--" prefix off a custom property
// identifier. The tokenizer has already guaranteed s is a well-formed
// CSS identifier; this only enforces the custom-property grammar
// (https://drafts.csswg.org/css-variables/#typedef-custom-property-name).
func ParseName(s string) (Name, bool) {
	if strings.HasPrefix(s, "--") {
		return Name(s[2:]), true
	}
	return "", false
}
