// Package parse recognizes sn token sequences with an Earley parser driven
// directly by an EBNF grammar.
//
// Syntactic productions (capitalized names) are compiled to plain BNF rules.
// Lexical productions (lower-case names) are terminals: a token matches one
// when its source text is derived by the production, as decided by ebnflex.
// Quoted tokens in syntactic productions match tokens with the same text.
package parse

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

type symbolKind int

const (
	nonterminal symbolKind = iota
	lexical
	literal
)

type symbol struct {
	kind symbolKind
	name string
}

func (s symbol) String() string {
	if s.kind == literal {
		return fmt.Sprintf("%q", s.name)
	}
	return s.name
}

// Rule is a BNF rule Name = RHS.
type Rule struct {
	Name string
	RHS  []symbol
}

func (r *Rule) String() string {
	if len(r.RHS) == 0 {
		return r.Name + " = ε ."
	}
	parts := make([]string, len(r.RHS))
	for i, s := range r.RHS {
		parts[i] = s.String()
	}
	return r.Name + " = " + strings.Join(parts, " ") + " ."
}

// Grammar is an EBNF grammar compiled to BNF rules.
type Grammar struct {
	start    string
	source   ebnf.Grammar
	order    []string
	rules    map[string][]*Rule
	nullable map[string]bool
	fresh    map[string]int
}

// Compile translates the syntactic productions of g reachable from start
// into BNF. Options and repetitions become fresh nonterminals named after
// the production they occur in.
func Compile(g ebnf.Grammar, start string) (*Grammar, error) {
	if _, ok := g[start]; !ok {
		return nil, fmt.Errorf("start production %s not found", start)
	}
	if isLexical(start) {
		return nil, fmt.Errorf("start production %s is lexical", start)
	}

	c := &Grammar{
		start:  start,
		source: g,
		rules:  make(map[string][]*Rule),
		fresh:  make(map[string]int),
	}

	names := make([]string, 0, len(g))
	for name := range g {
		if !isLexical(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.addProduction(name, g[name].Expr); err != nil {
			return nil, err
		}
	}
	c.computeNullable()
	return c, nil
}

// Start returns the start production.
func (g *Grammar) Start() string {
	return g.start
}

// Rules returns the rules for name in definition order.
func (g *Grammar) Rules(name string) []*Rule {
	return g.rules[name]
}

// Nullable reports whether the nonterminal name derives the empty sequence.
func (g *Grammar) Nullable(name string) bool {
	return g.nullable[name]
}

// String renders all rules, one per line, grouped by nonterminal.
func (g *Grammar) String() string {
	var b strings.Builder
	for _, name := range g.order {
		for _, r := range g.rules[name] {
			b.WriteString(r.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (g *Grammar) addRule(name string, rhs []symbol) {
	if _, ok := g.rules[name]; !ok {
		g.order = append(g.order, name)
	}
	g.rules[name] = append(g.rules[name], &Rule{Name: name, RHS: rhs})
}

func (g *Grammar) addProduction(name string, expr ebnf.Expression) error {
	if alt, ok := expr.(ebnf.Alternative); ok {
		for _, e := range alt {
			rhs, err := g.sequence(name, e)
			if err != nil {
				return err
			}
			g.addRule(name, rhs)
		}
		return nil
	}
	rhs, err := g.sequence(name, expr)
	if err != nil {
		return err
	}
	g.addRule(name, rhs)
	return nil
}

func (g *Grammar) freshName(owner string) string {
	g.fresh[owner]++
	return fmt.Sprintf("%s.%d", owner, g.fresh[owner])
}

// sequence flattens expr into a list of symbols.
func (g *Grammar) sequence(owner string, expr ebnf.Expression) ([]symbol, error) {
	if expr == nil {
		return nil, nil
	}
	seq, ok := expr.(ebnf.Sequence)
	if !ok {
		s, err := g.symbol(owner, expr)
		if err != nil {
			return nil, err
		}
		return []symbol{s}, nil
	}

	var out []symbol
	for _, item := range seq {
		s, err := g.symbol(owner, item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// symbol returns a single symbol standing for expr, introducing a fresh
// nonterminal when expr is not a plain name or token.
func (g *Grammar) symbol(owner string, expr ebnf.Expression) (symbol, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		if _, ok := g.source[e.String]; !ok {
			return symbol{}, fmt.Errorf("%s: undefined production %s", e.Pos(), e.String)
		}
		if isLexical(e.String) {
			return symbol{kind: lexical, name: e.String}, nil
		}
		return symbol{kind: nonterminal, name: e.String}, nil

	case *ebnf.Token:
		return symbol{kind: literal, name: e.String}, nil

	case *ebnf.Group:
		return g.bodySymbol(owner, e.Body)

	case ebnf.Alternative, ebnf.Sequence:
		name := g.freshName(owner)
		if err := g.addProduction(name, e); err != nil {
			return symbol{}, err
		}
		return symbol{kind: nonterminal, name: name}, nil

	case *ebnf.Option:
		name := g.freshName(owner)
		g.addRule(name, nil)
		if err := g.addProduction(name, e.Body); err != nil {
			return symbol{}, err
		}
		return symbol{kind: nonterminal, name: name}, nil

	case *ebnf.Repetition:
		// N = ε | N body, left recursive so the chart stays small.
		name := g.freshName(owner)
		self := symbol{kind: nonterminal, name: name}
		g.addRule(name, nil)
		body, err := g.bodySymbol(owner, e.Body)
		if err != nil {
			return symbol{}, err
		}
		g.addRule(name, []symbol{self, body})
		return self, nil

	case *ebnf.Range:
		return symbol{}, fmt.Errorf("%s: character range in syntactic production %s", e.Pos(), owner)
	}

	return symbol{}, fmt.Errorf("%s: unsupported expression %T", expr.Pos(), expr)
}

// bodySymbol is symbol for the body of a group or repetition.
func (g *Grammar) bodySymbol(owner string, body ebnf.Expression) (symbol, error) {
	switch body.(type) {
	case *ebnf.Name, *ebnf.Token:
		return g.symbol(owner, body)
	}
	name := g.freshName(owner)
	if err := g.addProduction(name, body); err != nil {
		return symbol{}, err
	}
	return symbol{kind: nonterminal, name: name}, nil
}

func (g *Grammar) computeNullable() {
	g.nullable = make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for name, rules := range g.rules {
			if g.nullable[name] {
				continue
			}
			for _, r := range rules {
				if g.allNullable(r.RHS) {
					g.nullable[name] = true
					changed = true
					break
				}
			}
		}
	}
}

func (g *Grammar) allNullable(rhs []symbol) bool {
	for _, s := range rhs {
		if s.kind != nonterminal || !g.nullable[s.name] {
			return false
		}
	}
	return true
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
