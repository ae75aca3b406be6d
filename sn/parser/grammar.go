package parser

import (
	"bytes"
	_ "embed"

	"golang.org/x/exp/ebnf"
)

// GrammarStart is the start production of the expression grammar.
const GrammarStart = "Expression"

//go:embed grammar.ebnf
var grammarSource []byte

// GrammarSource returns the EBNF text of the grammar the parser accepts.
func GrammarSource() []byte {
	return bytes.Clone(grammarSource)
}

// Grammar parses and verifies the embedded grammar.
func Grammar() (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse("grammar.ebnf", bytes.NewReader(grammarSource))
	if err != nil {
		return nil, err
	}
	if err := ebnf.Verify(grammar, GrammarStart); err != nil {
		return nil, err
	}
	return grammar, nil
}
