// Package ebnflex matches text against the lexical productions of an EBNF
// grammar.
//
// A Matcher computes every way a production can match a prefix of its input,
// so unlike a greedy scanner it handles repetitions followed by an item the
// repetition could also consume.
package ebnflex

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Matcher matches input against the productions of a grammar. A Matcher is
// not safe for concurrent use.
type Matcher struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey][]int
	visiting map[memoKey]bool
}

// NewMatcher returns a matcher for the productions of grammar.
func NewMatcher(grammar ebnf.Grammar) *Matcher {
	return &Matcher{grammar: grammar}
}

// Match reports whether the whole of text is derived by the named
// production.
func (m *Matcher) Match(name, text string) (bool, error) {
	ends, err := m.matchAt(name, text)
	if err != nil {
		return false, err
	}
	for _, end := range ends {
		if end == len(text) {
			return true, nil
		}
	}
	return false, nil
}

// Longest returns the length in bytes of the longest prefix of text derived
// by the named production, or -1 if no prefix matches.
func (m *Matcher) Longest(name, text string) (int, error) {
	ends, err := m.matchAt(name, text)
	if err != nil {
		return -1, err
	}
	if len(ends) == 0 {
		return -1, nil
	}
	return ends[len(ends)-1], nil
}

func (m *Matcher) matchAt(name, text string) ([]int, error) {
	if _, ok := m.grammar[name]; !ok {
		return nil, fmt.Errorf("production %s not found", name)
	}
	m.input = text
	m.memo = make(map[memoKey][]int)
	m.visiting = make(map[memoKey]bool)
	return m.tryMatchName(name, 0), nil
}

// tryMatch returns the sorted set of offsets at which expr can end when it
// starts at offset.
func (m *Matcher) tryMatch(expr ebnf.Expression, offset int) []int {
	if expr == nil {
		return []int{offset}
	}

	switch e := expr.(type) {
	case *ebnf.Name:
		return m.tryMatchName(e.String, offset)

	case *ebnf.Token:
		return m.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return m.tryMatchRange(e, offset)

	case ebnf.Alternative:
		var ends []int
		for _, alt := range e {
			ends = union(ends, m.tryMatch(alt, offset))
		}
		return ends

	case ebnf.Sequence:
		ends := []int{offset}
		for _, item := range e {
			var next []int
			for _, start := range ends {
				next = union(next, m.tryMatch(item, start))
			}
			if len(next) == 0 {
				return nil
			}
			ends = next
		}
		return ends

	case *ebnf.Group:
		return m.tryMatch(e.Body, offset)

	case *ebnf.Option:
		return union([]int{offset}, m.tryMatch(e.Body, offset))

	case *ebnf.Repetition:
		ends := []int{offset}
		frontier := []int{offset}
		for len(frontier) > 0 {
			var next []int
			for _, start := range frontier {
				for _, end := range m.tryMatch(e.Body, start) {
					if end > start && !contains(ends, end) {
						next = union(next, []int{end})
					}
				}
			}
			ends = union(ends, next)
			frontier = next
		}
		return ends
	}

	return nil
}

func (m *Matcher) tryMatchName(name string, offset int) []int {
	key := memoKey{name: name, offset: offset}
	if ends, ok := m.memo[key]; ok {
		return ends
	}
	// Left recursion at the same offset cannot contribute a new match.
	if m.visiting[key] {
		return nil
	}

	prod, ok := m.grammar[name]
	if !ok {
		return nil
	}

	m.visiting[key] = true
	ends := m.tryMatch(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = ends
	return ends
}

// tryMatchToken matches a literal. ebnf.Token values are already unquoted.
func (m *Matcher) tryMatchToken(s string, offset int) []int {
	if len(m.input)-offset < len(s) || m.input[offset:offset+len(s)] != s {
		return nil
	}
	return []int{offset + len(s)}
}

func (m *Matcher) tryMatchRange(r *ebnf.Range, offset int) []int {
	if offset >= len(m.input) {
		return nil
	}
	lo, _ := utf8.DecodeRuneInString(r.Begin.String)
	hi, _ := utf8.DecodeRuneInString(r.End.String)
	ch, size := utf8.DecodeRuneInString(m.input[offset:])
	if ch == utf8.RuneError && size <= 1 {
		return nil
	}
	if ch < lo || ch > hi {
		return nil
	}
	return []int{offset + size}
}

func union(a, b []int) []int {
	if len(b) == 0 {
		return a
	}
	out := append(append([]int(nil), a...), b...)
	sort.Ints(out)
	j := 0
	for i, v := range out {
		if i == 0 || v != out[j-1] {
			out[j] = v
			j++
		}
	}
	return out[:j]
}

func contains(xs []int, x int) bool {
	i := sort.SearchInts(xs, x)
	return i < len(xs) && xs[i] == x
}
