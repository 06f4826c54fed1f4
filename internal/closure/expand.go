package closure

import "sort"

// Set is an unordered collection of codes.
type Set map[Code]struct{}

// NewSet builds a Set from the given codes.
func NewSet(codes ...Code) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether code is in the set.
func (s Set) Has(code Code) bool {
	_, ok := s[code]
	return ok
}

// Add inserts code into the set.
func (s Set) Add(code Code) {
	s[code] = struct{}{}
}

// Sorted returns the set's codes in lexicographic order.
func (s Set) Sorted() []Code {
	out := make([]Code, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Expand computes the closure of seeds over the store's two relations: every
// code reachable through subtype edges, with redirects resolved at each step
// rather than in a final pass. The result keeps both the retired and the
// replacement identifier whenever a redirect fires, since downstream data
// may key on either form.
//
// The base set is the seeds plus the direct redirects of each seed, so a
// seed that has itself been retired contributes its replacements from the
// start. Each iteration then walks the frontier: the children of every
// frontier code, the redirects of those children, and the redirects of the
// frontier code itself. Carrying frontier redirects forward is what lets
// redirect chains (old -> mid -> new) resolve one hop per iteration.
//
// Only codes not already expanded survive into the next frontier, so the
// loop terminates on any finite relation, cycles included. Codes in exclude
// are dropped wherever they surface; exclude may be nil.
func Expand(seeds []Code, store *Store, exclude Set) Set {
	expanded := make(Set)
	frontier := make(Set)

	admit := func(dst Set, code Code) {
		if code == "" || exclude.Has(code) {
			return
		}
		dst.Add(code)
	}

	for _, seed := range seeds {
		admit(frontier, seed)
		for _, r := range store.RedirectsOf(seed) {
			admit(frontier, r)
		}
	}
	for code := range frontier {
		expanded.Add(code)
	}

	for len(frontier) > 0 {
		next := make(Set)
		for code := range frontier {
			for _, r := range store.RedirectsOf(code) {
				admit(next, r)
			}
			for _, child := range store.ChildrenOf(code) {
				admit(next, child)
				for _, r := range store.RedirectsOf(child) {
					admit(next, r)
				}
			}
		}

		fresh := make(Set)
		for code := range next {
			if !expanded.Has(code) {
				fresh.Add(code)
				expanded.Add(code)
			}
		}
		frontier = fresh
	}

	return expanded
}
