package parse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/sn/ebnflex"
	"github.com/dhamidi/sn/sn/parser"
)

// Item is an Earley item: a rule, how much of it has been recognized and
// the chart position where recognition started.
type Item struct {
	Rule   *Rule
	Dot    int
	Origin int
}

func (it Item) complete() bool {
	return it.Dot >= len(it.Rule.RHS)
}

func (it Item) next() symbol {
	return it.Rule.RHS[it.Dot]
}

func (it Item) advance() Item {
	return Item{Rule: it.Rule, Dot: it.Dot + 1, Origin: it.Origin}
}

func (it Item) String() string {
	var b strings.Builder
	b.WriteString(it.Rule.Name)
	b.WriteString(" =")
	for i, s := range it.Rule.RHS {
		if i == it.Dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(s.String())
	}
	if it.complete() {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, " (%d)", it.Origin)
	return b.String()
}

// ItemSet is one column of the chart. Items are kept in insertion order.
type ItemSet struct {
	items []Item
	seen  map[Item]bool
}

func newItemSet() *ItemSet {
	return &ItemSet{seen: make(map[Item]bool)}
}

func (s *ItemSet) Add(it Item) {
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

func (s *ItemSet) Items() []Item {
	return s.items
}

func (s *ItemSet) Len() int {
	return len(s.items)
}

// SyntaxError is returned when the token sequence is not in the language.
// Index is the position of the first token that could not be scanned, or
// the number of tokens when the input ended early.
type SyntaxError struct {
	Index int
	Found parser.Token
	AtEnd bool
}

func (e *SyntaxError) Error() string {
	if e.AtEnd {
		return fmt.Sprintf("parse error at %s: unexpected end of input", e.Found.Pos())
	}
	return fmt.Sprintf("parse error at %s: unexpected %s", e.Found.Pos(), e.Found)
}

// EarleyParser recognizes one token sequence. Use Grammar.Recognize unless
// the chart is needed.
type EarleyParser struct {
	grammar *Grammar
	matcher *ebnflex.Matcher
	tokens  []parser.Token
	chart   []*ItemSet
	matches map[matchKey]bool
}

type matchKey struct {
	name    string
	literal string
}

// NewEarleyParser prepares a recognizer for tokens. A trailing TokenEOF is
// ignored.
func NewEarleyParser(g *Grammar, tokens []parser.Token) *EarleyParser {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == parser.TokenEOF {
		tokens = tokens[:n-1]
	}
	return &EarleyParser{
		grammar: g,
		matcher: ebnflex.NewMatcher(g.source),
		tokens:  tokens,
		matches: make(map[matchKey]bool),
	}
}

// Recognize reports whether tokens form a sentence of the start
// production. It returns nil on success and a *SyntaxError otherwise.
func (g *Grammar) Recognize(tokens []parser.Token) error {
	return NewEarleyParser(g, tokens).Parse()
}

// Chart returns the item sets built by the last call to Parse.
func (p *EarleyParser) Chart() []*ItemSet {
	return p.chart
}

// Parse runs the recognizer.
func (p *EarleyParser) Parse() error {
	n := len(p.tokens)
	p.chart = make([]*ItemSet, n+1)
	for i := range p.chart {
		p.chart[i] = newItemSet()
	}

	for _, r := range p.grammar.Rules(p.grammar.start) {
		p.chart[0].Add(Item{Rule: r})
	}

	for i := 0; i <= n; i++ {
		set := p.chart[i]
		for j := 0; j < set.Len(); j++ {
			it := set.items[j]
			switch {
			case it.complete():
				p.complete(it, i)
			case it.next().kind == nonterminal:
				p.predict(it, i)
			default:
				p.scan(it, i)
			}
		}
		if i < n && p.chart[i+1].Len() == 0 {
			return &SyntaxError{Index: i, Found: p.tokens[i]}
		}
	}

	for _, it := range p.chart[n].items {
		if it.Origin == 0 && it.complete() && it.Rule.Name == p.grammar.start {
			return nil
		}
	}
	return &SyntaxError{Index: n, Found: p.endToken(), AtEnd: true}
}

func (p *EarleyParser) predict(it Item, i int) {
	name := it.next().name
	for _, r := range p.grammar.Rules(name) {
		p.chart[i].Add(Item{Rule: r, Origin: i})
	}
	// Aycock and Horspool: a nullable nonterminal may be skipped right away,
	// since its empty completion may already have been processed.
	if p.grammar.Nullable(name) {
		p.chart[i].Add(it.advance())
	}
}

func (p *EarleyParser) scan(it Item, i int) {
	if i >= len(p.tokens) {
		return
	}
	if p.matchTerminal(it.next(), p.tokens[i]) {
		p.chart[i+1].Add(it.advance())
	}
}

func (p *EarleyParser) complete(it Item, i int) {
	origin := p.chart[it.Origin]
	for j := 0; j < origin.Len(); j++ {
		waiting := origin.items[j]
		if waiting.complete() {
			continue
		}
		next := waiting.next()
		if next.kind == nonterminal && next.name == it.Rule.Name {
			p.chart[i].Add(waiting.advance())
		}
	}
}

func (p *EarleyParser) matchTerminal(s symbol, tok parser.Token) bool {
	if s.kind == literal {
		return tok.Literal == s.name
	}
	key := matchKey{name: s.name, literal: tok.Literal}
	if ok, seen := p.matches[key]; seen {
		return ok
	}
	ok, err := p.matcher.Match(s.name, tok.Literal)
	ok = ok && err == nil
	p.matches[key] = ok
	return ok
}

func (p *EarleyParser) endToken() parser.Token {
	end := parser.Position{Line: 1, Column: 1}
	if n := len(p.tokens); n > 0 {
		end = p.tokens[n-1].Span.End
	}
	return parser.Token{Kind: parser.TokenEOF, Span: parser.Span{Start: end, End: end}}
}
