package cssvar

import "testing"

func specMap(entries map[Name][]Name) SpecifiedMap {
	m := make(SpecifiedMap, len(entries))
	for name, refs := range entries {
		var refSet map[Name]struct{}
		if refs != nil {
			refSet = make(map[Name]struct{}, len(refs))
			for _, r := range refs {
				refSet[r] = struct{}{}
			}
		}
		m[name] = BorrowedSpecifiedValue{CSS: string(name), References: refSet}
	}
	return m
}

func TestRemoveCyclesDirectCycle(t *testing.T) {
	// S2: --a: var(--b); --b: var(--a); --c: 1px.
	m := specMap(map[Name][]Name{
		"a": {"b"},
		"b": {"a"},
		"c": {},
	})
	RemoveCycles(m)

	if _, ok := m["a"]; ok {
		t.Errorf("a survived cycle removal")
	}
	if _, ok := m["b"]; ok {
		t.Errorf("b survived cycle removal")
	}
	if _, ok := m["c"]; !ok {
		t.Errorf("c removed, but it is not part of any cycle")
	}
}

func TestRemoveCyclesSelfLoop(t *testing.T) {
	m := specMap(map[Name][]Name{"a": {"a"}})
	RemoveCycles(m)
	if _, ok := m["a"]; ok {
		t.Errorf("self-referencing a survived cycle removal")
	}
}

func TestRemoveCyclesIndirectCycle(t *testing.T) {
	m := specMap(map[Name][]Name{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	})
	RemoveCycles(m)
	for _, name := range []Name{"a", "b", "c"} {
		if _, ok := m[name]; ok {
			t.Errorf("%s survived cycle removal", name)
		}
	}
}

func TestRemoveCyclesNonCyclicChainSurvives(t *testing.T) {
	m := specMap(map[Name][]Name{
		"a": {"b"},
		"b": {"c"},
		"c": {},
	})
	RemoveCycles(m)
	for _, name := range []Name{"a", "b", "c"} {
		if _, ok := m[name]; !ok {
			t.Errorf("%s was removed, but the graph is acyclic", name)
		}
	}
}

func TestRemoveCyclesMultipleDisjointCycles(t *testing.T) {
	m := specMap(map[Name][]Name{
		"a": {"b"}, "b": {"a"},
		"x": {"y"}, "y": {"x"},
		"z": {},
	})
	RemoveCycles(m)
	for _, name := range []Name{"a", "b", "x", "y"} {
		if _, ok := m[name]; ok {
			t.Errorf("%s survived cycle removal", name)
		}
	}
	if _, ok := m["z"]; !ok {
		t.Errorf("z removed, but it is not part of any cycle")
	}
}

func TestRemoveCyclesIgnoresInheritedEntries(t *testing.T) {
	// An entry with References == nil (seeded from inherited) has no
	// outgoing edges and can't be part of a cycle, even if something
	// else points at it.
	m := SpecifiedMap{
		"a": BorrowedSpecifiedValue{CSS: "red", References: nil},
		"b": BorrowedSpecifiedValue{CSS: "var(--a)", References: map[Name]struct{}{"a": {}}},
	}
	RemoveCycles(m)
	if _, ok := m["a"]; !ok {
		t.Errorf("inherited entry a removed")
	}
	if _, ok := m["b"]; !ok {
		t.Errorf("b removed, but it only points to an acyclic inherited entry")
	}
}

func TestRemoveCyclesDependentOnCycleSurvivesCycleRemoval(t *testing.T) {
	// d references a, which is itself in a cycle with b. d is not part of
	// the cycle and must survive this pass; it becomes invalid at
	// computed-value time later, during substitution, not here.
	m := specMap(map[Name][]Name{
		"a": {"b"},
		"b": {"a"},
		"d": {"a"},
	})
	RemoveCycles(m)
	if _, ok := m["d"]; !ok {
		t.Errorf("d removed by cycle removal, but it is not itself on a cycle")
	}
	if _, ok := m["a"]; ok {
		t.Errorf("a survived cycle removal")
	}
}
