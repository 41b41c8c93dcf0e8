package cssvar

import (
	"errors"
	"strings"
)

// ErrEmptyValue is returned when a custom property's declaration value
// contains no tokens at all.
var ErrEmptyValue = errors.New("cssvar: custom property value must not be empty")

// ErrMalformedValue is returned when the declaration-value grammar is
// violated: a stray unmatched closing bracket, a bad string, a bad url,
// or a var() function missing its leading identifier.
var ErrMalformedValue = errors.New("cssvar: malformed declaration value")

// SpecifiedValue is the parsed, but not yet substituted, value of a
// single custom-property declaration. It owns the exact source text of
// the value — whitespace and comments included — plus everything the
// rest of the engine needs without re-tokenizing it: the serialization
// types of its first and last tokens, and the set of other custom
// property names it references via var().
type SpecifiedValue struct {
	CSS            string
	FirstTokenType SerializationType
	LastTokenType  SerializationType
	References     map[Name]struct{}
}

// String returns the value's stored CSS text verbatim.
func (v *SpecifiedValue) String() string { return v.CSS }

// ParseSpecifiedValue consumes a custom property's declaration value
// from input (everything up to, but not including, an unescaped "!" or
// ";"), recording every name referenced through var().
func ParseSpecifiedValue(input string) (*SpecifiedValue, error) {
	c := NewCursor(input)
	start := c.Position()
	refs := map[Name]struct{}{}
	first, last, err := parseDeclarationValue(c, refs)
	if err != nil {
		return nil, err
	}
	return &SpecifiedValue{
		CSS:            c.Slice(start, c.Position()),
		FirstTokenType: first,
		LastTokenType:  last,
		References:     refs,
	}, nil
}

// parseDeclarationValue parses https://drafts.csswg.org/css-syntax-3/#typedef-declaration-value:
// a run of tokens up to (but not past) an unescaped top-level "!" or ";".
// refs may be nil, meaning references are not being tracked at this call
// site (used when re-parsing a value whose references were already
// recorded by the outer SpecifiedValue).
func parseDeclarationValue(c *Cursor, refs map[Name]struct{}) (first, last SerializationType, err error) {
	cbErr := c.ParseUntilBefore(isBangOrSemicolon, func(sub *Cursor) error {
		if sub.AtEnd() {
			return ErrEmptyValue
		}
		f, l, e := parseDeclarationValueBlock(sub, refs)
		first, last = f, l
		return e
	})
	return first, last, cbErr
}

// parseDeclarationValueBlock is like parseDeclarationValue, but accepts
// "!" and ";" since they are only invalid at the top level of a
// declaration (this is what's recursed into for fallbacks and nested
// blocks, where the outer ParseUntilBefore already drew that boundary).
func parseDeclarationValueBlock(c *Cursor, refs map[Name]struct{}) (first, last SerializationType, err error) {
	first, last = SerializationNothing, SerializationNothing
	for {
		tok, ok := c.NextIncludingWhitespaceAndComments()
		if !ok {
			break
		}
		t := tok.SerializationType()
		if first == SerializationNothing {
			first = t
		}
		last = t

		switch tok.Type {
		case TokenBadURL, TokenBadString, TokenCloseParen, TokenCloseSquare, TokenCloseCurly:
			return first, last, ErrMalformedValue

		case TokenFunction:
			if strings.EqualFold(tok.Value, "var") {
				if err := c.ParseNestedBlock(func(sub *Cursor) error {
					return parseVarFunction(sub, refs)
				}); err != nil {
					return first, last, err
				}
			} else {
				if err := c.ParseNestedBlock(func(sub *Cursor) error {
					_, _, e := parseDeclarationValueBlock(sub, refs)
					return e
				}); err != nil {
					return first, last, err
				}
			}

		case TokenOpenParen, TokenOpenSquare, TokenOpenCurly:
			if err := c.ParseNestedBlock(func(sub *Cursor) error {
				_, _, e := parseDeclarationValueBlock(sub, refs)
				return e
			}); err != nil {
				return first, last, err
			}
		}
	}
	return first, last, nil
}

// parseVarFunction parses the inside of a var(...) function: a custom
// property name, and an optional comma-separated fallback value. If the
// function is well-formed, its referenced name is recorded into refs
// (when non-nil); the fallback's own references are collected into the
// same set, at any depth.
func parseVarFunction(c *Cursor, refs map[Name]struct{}) error {
	ident, ok := c.ExpectIdent()
	if !ok {
		return ErrMalformedValue
	}
	name, ok := ParseName(ident)
	if !ok {
		return ErrMalformedValue
	}
	if c.ExpectComma() {
		if _, _, err := parseDeclarationValue(c, refs); err != nil {
			return err
		}
	}
	if refs != nil {
		refs[name] = struct{}{}
	}
	return nil
}
