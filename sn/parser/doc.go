// Package parser implements the front end of the sn expression language: a
// lexer that turns source bytes into tokens and a recursive-descent parser
// that turns tokens into an expression tree.
//
// # Overview
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (Expr)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// Both stages are pure functions of their input. They hold no global state
// and may run concurrently on distinct inputs.
//
// # Lexing
//
// Whitespace, line comments (// to end of line) and block comments
// (/* to */, not nested) are skipped. Operators are matched longest first,
// so "<=" is one token and "a::b" scans as identifier, "::", identifier. A
// dot joins a number only when a digit follows it: "1.5" is a Float while
// "1." is an Int followed by a Dot. Strings have no escape sequences and may
// span lines. Identifiers are scanned as a maximal run before the keyword
// table is consulted, so "letter" is an identifier and "let" a keyword.
//
// Lines and columns are 1-based. Columns count bytes.
//
// # Grammar
//
// The parser accepts exactly the grammar in grammar.ebnf, lowest binding
// power first:
//
//	Expression = LogicOr .
//	LogicOr    = LogicAnd { "||" LogicAnd } .
//	LogicAnd   = Equality { "&&" Equality } .
//	Equality   = Comparison { ( "==" | "!=" ) Comparison } .
//	Comparison = Term { ( "<" | "<=" | ">" | ">=" ) Term } .
//	Term       = Factor { ( "+" | "-" ) Factor } .
//	Factor     = Unary { ( "*" | "/" ) Unary } .
//	Unary      = "-" Unary | Primary .
//	Primary    = Literal | "(" Expression ")" .
//
// Binary operators are left-associative. Parentheses produce a Grouping
// node. Identifiers and the reserved keywords let, record, if, do and else
// have no production yet and are rejected with an Unsupported error.
//
// # Usage
//
//	tokens, err := parser.Tokenize(src)
//	if err != nil {
//	    return err // *parser.LexError
//	}
//	expr, err := parser.Parse(tokens)
//	if err != nil {
//	    return err // *parser.ParseError
//	}
//
// For interactive input, ParseExpression wraps an io.Reader and IsComplete
// tells whether more lines are needed before calling Finish.
package parser
