package toc

// Nest arranges a flat heading sequence into a forest. A heading becomes a
// child of the nearest preceding heading with a strictly smaller level, so
// runs of equal levels stay siblings. Sibling order is never changed and the
// input is not modified.
func Nest(flat []Heading) []Heading {
	// Children are tracked as indices into flat until the whole sequence has
	// been placed, then materialized by value.
	children := make([][]int, len(flat))
	var roots, stack []int

	for i, h := range flat {
		// Pop until we find a parent with lower level.
		for len(stack) > 0 && flat[stack[len(stack)-1]].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, i)
		} else {
			parent := stack[len(stack)-1]
			children[parent] = append(children[parent], i)
		}
		stack = append(stack, i)
	}

	var build func(idx []int) []Heading
	build = func(idx []int) []Heading {
		if len(idx) == 0 {
			return nil
		}
		out := make([]Heading, 0, len(idx))
		for _, i := range idx {
			h := flat[i]
			h.Children = build(children[i])
			out = append(out, h)
		}
		return out
	}
	return build(roots)
}

// Build extracts and nests the headings of markdown.
func Build(markdown string) []Heading {
	return Nest(ExtractHeadings(markdown))
}

// Count returns the number of headings in the forest.
func Count(forest []Heading) int {
	n := 0
	for _, h := range forest {
		n += 1 + Count(h.Children)
	}
	return n
}
