package cssvar

// RemoveCycles deletes every custom property in m that participates in
// a var() reference cycle, direct or indirect, leaving the rest of the
// map untouched. A property that only refers to a cyclic one (without
// itself being part of the cycle) survives — it becomes invalid at
// computed-value time later instead, during substitution, which is
// where its own fallback (if any) gets a chance to run.
//
// This walks the reference graph depth-first with a recursive visit
// closure, keeping the current path in an explicit stack and coloring
// each name white (unvisited), gray (on the current path) or black (fully explored, known acyclic or already resolved as
// part of a reported cycle). Finding an edge into a gray name means
// everything from that name to the top of the stack forms a cycle.
func RemoveCycles(m SpecifiedMap) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[Name]int, len(m))
	var inCycle map[Name]struct{}

	var stack []Name
	onStack := make(map[Name]int) // name -> index in stack

	var visit func(name Name)
	visit = func(name Name) {
		if color[name] == black {
			return
		}
		if color[name] == gray {
			start := onStack[name]
			if inCycle == nil {
				inCycle = make(map[Name]struct{})
			}
			for _, n := range stack[start:] {
				inCycle[n] = struct{}{}
			}
			return
		}

		value, ok := m[name]
		if !ok || value.References == nil {
			color[name] = black
			return
		}

		color[name] = gray
		onStack[name] = len(stack)
		stack = append(stack, name)

		for ref := range value.References {
			visit(ref)
		}

		stack = stack[:len(stack)-1]
		delete(onStack, name)
		color[name] = black
	}

	for name := range m {
		if color[name] == white {
			visit(name)
		}
	}

	for name := range inCycle {
		delete(m, name)
	}
}
