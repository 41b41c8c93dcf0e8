package cssvar

// ComputedValue is a custom property's value with every var() reference
// already resolved: just a raw CSS slice and the serialization types of
// its endpoints, needed so it can itself be spliced into a larger
// computed value without fusing tokens. A ComputedMap is frozen once
// FinishCascade returns it — nothing in this package ever mutates an
// entry after insertion.
type ComputedValue struct {
	CSS            string
	FirstTokenType SerializationType
	LastTokenType  SerializationType
}

// String returns the value's stored CSS text verbatim.
func (v ComputedValue) String() string { return v.CSS }

// ComputedMap is the result of one element's cascade: every custom
// property name declared on it (directly, or inherited) mapped to its
// fully substituted value. Names that sit in a dependency cycle, or
// that turned out invalid at computed-value time with nothing to fall
// back to, are simply absent — "initial value" is represented as
// non-membership rather than an explicit tombstone.
//
// Go's map type doesn't distinguish shared-immutable from
// exclusively-owned; the convention enforced by this package is that
// once a ComputedMap comes out of FinishCascade, callers treat it as
// read-only and may safely hand the same map to every child element
// that inherits it without copying.
type ComputedMap map[Name]ComputedValue

// BorrowedSpecifiedValue is a custom property's specified value as seen
// during one element's cascade: either a value just declared on this
// element (References set), or one inherited unmodified from the
// parent's ComputedMap (References nil — its var()s, if it had any,
// were already resolved when the parent's computed map was built, so it
// has no outgoing edges left to walk).
type BorrowedSpecifiedValue struct {
	CSS            string
	FirstTokenType SerializationType
	LastTokenType  SerializationType
	References     map[Name]struct{} // nil means "not tracked", not "empty"
}

// SpecifiedMap accumulates one element's custom property declarations
// during a cascade, seeded from the parent's ComputedMap on first use.
type SpecifiedMap map[Name]BorrowedSpecifiedValue

// DeclaredKind distinguishes the four things a custom property
// declaration can be, per the CSS-wide keyword grammar restricted to
// what's legal for a custom property.
type DeclaredKind int

const (
	// DeclaredValue carries an ordinary parsed value.
	DeclaredValue DeclaredKind = iota
	// DeclaredInitial represents the "initial" keyword: the property is
	// removed from the map, which is how "initial value" is represented.
	DeclaredInitial
	// DeclaredInherit represents the "inherit" keyword: a no-op, since
	// the map is already seeded with the inherited value.
	DeclaredInherit
	// DeclaredWithVariables is never legal for a custom property. A
	// non-custom property's value can be "pending substitution" before
	// the style system resolves its var()s, but a custom property's own
	// value never is — Cascade panics if it ever receives one, since
	// that can only happen from caller misuse.
	DeclaredWithVariables
)

// Declared is a tagged union over the four DeclaredKinds.
type Declared struct {
	Kind  DeclaredKind
	Value *SpecifiedValue // only meaningful when Kind == DeclaredValue
}

// Cascade folds one declaration into customProperties, which is
// lazily initialized (seeded from inherited) on first use. Per CSS
// cascade order, the first declaration cascade sees for a given name
// wins; seen tracks which names have already been decided for this
// element so later calls for the same name are ignored. The caller is
// responsible for invoking Cascade with declarations in winning-first
// cascade order.
func Cascade(customProperties *SpecifiedMap, inherited ComputedMap, seen map[Name]struct{}, name Name, declared Declared) {
	if _, already := seen[name]; already {
		return
	}
	seen[name] = struct{}{}

	if *customProperties == nil {
		m := make(SpecifiedMap, len(inherited))
		for k, v := range inherited {
			m[k] = BorrowedSpecifiedValue{
				CSS:            v.CSS,
				FirstTokenType: v.FirstTokenType,
				LastTokenType:  v.LastTokenType,
				References:     nil,
			}
		}
		*customProperties = m
	}

	switch declared.Kind {
	case DeclaredValue:
		(*customProperties)[name] = BorrowedSpecifiedValue{
			CSS:            declared.Value.CSS,
			FirstTokenType: declared.Value.FirstTokenType,
			LastTokenType:  declared.Value.LastTokenType,
			References:     declared.Value.References,
		}
	case DeclaredInitial:
		delete(*customProperties, name)
	case DeclaredInherit:
		// The seed already carries the inherited value; nothing to do.
	case DeclaredWithVariables:
		panic("cssvar: WithVariables is not a legal declared value for a custom property")
	}
}

// FinishCascade completes one element's cascade: if no custom property
// declarations were seen at all, the element shares its parent's
// ComputedMap outright (no allocation, no copy). Otherwise it removes
// dependency cycles and substitutes every remaining var(), returning a
// new, frozen ComputedMap.
func FinishCascade(specified SpecifiedMap, inherited ComputedMap) ComputedMap {
	if specified == nil {
		return inherited
	}
	RemoveCycles(specified)
	return SubstituteAll(specified, inherited)
}
