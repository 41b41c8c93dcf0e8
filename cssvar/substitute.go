package cssvar

import (
	"errors"
	"strings"
)

// ErrInvalidAtComputedValueTime is returned by Substitute when a value
// contains an unresolvable var() — one whose referenced custom property
// is absent from the computed map (removed by a cycle, or never
// declared) and that has no fallback to fall back on.
var ErrInvalidAtComputedValueTime = errors.New("cssvar: value is invalid at computed-value time")

// runState tracks the plain, not-yet-substituted run of source text
// that substituteBlock is accumulating: where it started, and the
// serialization types of its first and most recently seen tokens. It
// is threaded by pointer through every level of recursion into nested
// functions and brackets, because a var() found several levels deep
// must flush everything back to wherever the still-open run began,
// which may be several enclosing blocks up — not just its own block.
type runState struct {
	start     Position
	firstType SerializationType
	lastType  SerializationType
	open      bool
}

// flush appends the run collected so far, if any, to acc as a single
// fragment ending just before end, and closes the run. Because Slice
// works from raw source offsets rather than token-by-token
// reconstruction, this correctly carries along every token the walk
// passed over without individually inspecting it — opening and closing
// brackets of nested, var()-free blocks included.
func (r *runState) flush(c *Cursor, acc *accumulator, end Position) {
	if !r.open {
		return
	}
	if r.start != end {
		acc.push(c.Slice(r.start, end), r.firstType, r.lastType)
	}
	r.open = false
}

// substituteBlock walks c's tokens, copying them into acc unchanged
// except for var() functions, which it flushes around and replaces:
// with resolve's result when the referenced name resolves, or
// otherwise with its own fallback (itself substituted the same way),
// or fails outright if neither is available. Nested functions and
// bracketed groups are recursed into, sharing the same run and acc, so
// a var() at any depth is found and substituted correctly.
func substituteBlock(c *Cursor, run *runState, acc *accumulator, resolve func(Name) (ComputedValue, bool)) error {
	for {
		before := c.Position()
		tok, ok := c.NextIncludingWhitespaceAndComments()
		if !ok {
			return nil
		}
		t := tok.SerializationType()
		if !run.open {
			run.start = before
			run.firstType = t
			run.open = true
		}

		switch tok.Type {
		case TokenBadURL, TokenBadString, TokenCloseParen, TokenCloseSquare, TokenCloseCurly:
			return ErrMalformedValue

		case TokenFunction:
			if strings.EqualFold(tok.Value, "var") {
				// run.lastType still holds the token before this one —
				// the var() function itself never entered the run.
				run.flush(c, acc, before)
				var inner error
				if err := c.ParseNestedBlock(func(sub *Cursor) error {
					inner = substituteVarFunction(sub, acc, resolve)
					return nil
				}); err != nil {
					return err
				}
				if inner != nil {
					return inner
				}
				continue
			}
			if err := c.ParseNestedBlock(func(sub *Cursor) error {
				return substituteBlock(sub, run, acc, resolve)
			}); err != nil {
				return err
			}
			run.lastType = SerializationCloseBracket

		case TokenOpenParen, TokenOpenSquare, TokenOpenCurly:
			if err := c.ParseNestedBlock(func(sub *Cursor) error {
				return substituteBlock(sub, run, acc, resolve)
			}); err != nil {
				return err
			}
			run.lastType = SerializationCloseBracket

		default:
			run.lastType = t
		}
	}
}

// substituteVarFunction handles the inside of one var(...) call: the
// referenced name, and an optional comma-separated fallback.
func substituteVarFunction(c *Cursor, acc *accumulator, resolve func(Name) (ComputedValue, bool)) error {
	ident, ok := c.ExpectIdent()
	if !ok {
		return ErrMalformedValue
	}
	name, ok := ParseName(ident)
	if !ok {
		return ErrMalformedValue
	}
	hasFallback := c.ExpectComma()

	if value, ok := resolve(name); ok {
		acc.pushValue(value)
		return nil
	}
	if !hasFallback {
		return ErrInvalidAtComputedValueTime
	}

	// Whitespace right after the comma is not part of the fallback.
	for {
		p := c.Position()
		if tok, ok := c.NextIncludingWhitespaceAndComments(); !ok || tok.Type != TokenWhitespace {
			c.Reset(p)
			break
		}
	}

	run := &runState{}
	if err := substituteBlock(c, run, acc, resolve); err != nil {
		return err
	}
	run.flush(c, acc, c.Position())
	return nil
}

// substituteOne computes and memoizes the fully substituted value of
// name into computed, recursing into whatever other names it
// references on demand — declaration order in the source has no
// bearing on dependency order, so each name is resolved the first time
// something needs it, by whichever path reaches it first. invalid
// remembers names already found to be invalid at computed-value time,
// so a var() referencing one of them fails immediately on a later
// lookup instead of re-walking its value. If substitution fails and
// inherited holds a value for name, that value is used in its place
// instead of dropping the property outright.
func substituteOne(name Name, specified SpecifiedMap, inherited ComputedMap, computed ComputedMap, invalid map[Name]struct{}) (ComputedValue, bool) {
	if v, ok := computed[name]; ok {
		return v, true
	}
	if _, bad := invalid[name]; bad {
		return ComputedValue{}, false
	}

	value, ok := specified[name]
	if !ok {
		return ComputedValue{}, false
	}
	if value.References == nil {
		v := ComputedValue{CSS: value.CSS, FirstTokenType: value.FirstTokenType, LastTokenType: value.LastTokenType}
		computed[name] = v
		return v, true
	}

	resolve := func(ref Name) (ComputedValue, bool) {
		return substituteOne(ref, specified, inherited, computed, invalid)
	}

	c := NewCursor(value.CSS)
	var acc accumulator
	run := &runState{}
	err := substituteBlock(c, run, &acc, resolve)
	if err == nil {
		run.flush(c, &acc, c.Position())
	}
	if err != nil {
		if v, ok := inherited[name]; ok {
			computed[name] = v
			return v, true
		}
		invalid[name] = struct{}{}
		return ComputedValue{}, false
	}

	v := acc.value()
	computed[name] = v
	return v, true
}

// SubstituteAll computes the complete ComputedMap for one element from
// its cycle-free specified custom properties, seeding anything that
// wasn't freshly declared straight from the parent's already-computed
// value. Names that turn out invalid at computed-value time fall back
// to the parent's computed value if one exists; otherwise they are
// simply left out of the result.
func SubstituteAll(specified SpecifiedMap, inherited ComputedMap) ComputedMap {
	computed := make(ComputedMap, len(specified))
	for name, value := range specified {
		if value.References == nil {
			if v, ok := inherited[name]; ok {
				computed[name] = v
			} else {
				computed[name] = ComputedValue{CSS: value.CSS, FirstTokenType: value.FirstTokenType, LastTokenType: value.LastTokenType}
			}
		}
	}
	invalid := make(map[Name]struct{})
	for name := range specified {
		substituteOne(name, specified, inherited, computed, invalid)
	}
	return computed
}

// Substitute resolves every var() reference in input — the pending
// value of an ordinary (non-custom) property — against an element's
// already-computed custom properties, and returns the fully
// substituted CSS text. It returns ErrInvalidAtComputedValueTime when a
// var() neither resolves nor has a usable fallback; the caller is
// responsible for then treating the declaration per whichever recovery
// rule applies to the property it belongs to (shorthand vs.
// longhand).
func Substitute(input string, computed ComputedMap) (string, error) {
	c := NewCursor(input)
	var acc accumulator
	run := &runState{}
	resolve := func(name Name) (ComputedValue, bool) {
		v, ok := computed[name]
		return v, ok
	}
	if err := substituteBlock(c, run, &acc, resolve); err != nil {
		return "", err
	}
	run.flush(c, &acc, c.Position())
	return acc.value().CSS, nil
}
