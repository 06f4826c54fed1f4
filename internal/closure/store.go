package closure

import "strings"

// Code identifies a single classification concept. Codes are opaque: they
// are compared for set membership only, never parsed or ordered beyond
// their plain string form.
type Code string

// Pair is one directed edge of an input relation, From pointing at To.
// For the subtype relation From is the parent; for the history relation
// From is the retired code.
type Pair struct {
	From string
	To   string
}

// Store holds the subtype hierarchy and the history (redirect) relation in
// memory, plus an optional code-to-term table for annotating output. It is
// built once from complete bulk loads and never mutated afterwards, so any
// number of goroutines may read it concurrently without locking.
type Store struct {
	children  map[Code][]Code
	redirects map[Code][]Code
	terms     map[Code]string
}

// NewStore builds a Store from the full subtype and history relations.
// Codes are whitespace-trimmed on the way in so every later lookup uses the
// same canonical form; pairs with an empty side are dropped. A retired code
// may carry several replacements, so redirects accumulate into a set per
// old code rather than overwriting.
func NewStore(subtype, history []Pair, terms map[string]string) *Store {
	s := &Store{
		children:  buildRelation(subtype),
		redirects: buildRelation(history),
		terms:     make(map[Code]string, len(terms)),
	}
	for code, term := range terms {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		s.terms[Code(code)] = strings.TrimSpace(term)
	}
	return s
}

func buildRelation(pairs []Pair) map[Code][]Code {
	seen := make(map[Code]map[Code]bool)
	rel := make(map[Code][]Code)
	for _, p := range pairs {
		from := Code(strings.TrimSpace(p.From))
		to := Code(strings.TrimSpace(p.To))
		if from == "" || to == "" {
			continue
		}
		if seen[from] == nil {
			seen[from] = make(map[Code]bool)
		}
		if seen[from][to] {
			continue
		}
		seen[from][to] = true
		rel[from] = append(rel[from], to)
	}
	return rel
}

// ChildrenOf returns the direct subtype children of code. A code with no
// children yields nil; absence is a normal terminal condition, not an
// error.
func (s *Store) ChildrenOf(code Code) []Code {
	return s.children[code]
}

// RedirectsOf returns the replacement codes recorded for a retired code,
// or nil if the code has never been redirected.
func (s *Store) RedirectsOf(code Code) []Code {
	return s.redirects[code]
}

// TermOf returns the preferred term recorded for code, reporting whether
// one is known.
func (s *Store) TermOf(code Code) (string, bool) {
	term, ok := s.terms[code]
	return term, ok
}

// EdgeCounts reports the number of subtype edges and redirect edges held,
// for startup logging.
func (s *Store) EdgeCounts() (subtype, redirect int) {
	for _, cs := range s.children {
		subtype += len(cs)
	}
	for _, rs := range s.redirects {
		redirect += len(rs)
	}
	return subtype, redirect
}
