package parser

import (
	"fmt"
	"strconv"
	"strings"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Grouping
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace

	// Separators
	TokenSemicolon
	TokenColonColon
	TokenColon
	TokenComma
	TokenDot
	TokenPipe

	// Operators
	TokenAssign
	TokenEQ
	TokenMinus
	TokenPlus
	TokenStar
	TokenSlash
	TokenLE
	TokenGE
	TokenLT
	TokenGT
	TokenNE
	TokenOr
	TokenAnd
	TokenArrow

	// Literals
	TokenIdent
	TokenString
	TokenInt
	TokenFloat
	TokenBool

	// Keywords
	TokenLet
	TokenRecord
	TokenIf
	TokenDo
	TokenElse
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:        "EOF",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenSemicolon:  ";",
	TokenColonColon: "::",
	TokenColon:      ":",
	TokenComma:      ",",
	TokenDot:        ".",
	TokenPipe:       "|",
	TokenAssign:     "=",
	TokenEQ:         "==",
	TokenMinus:      "-",
	TokenPlus:       "+",
	TokenStar:       "*",
	TokenSlash:      "/",
	TokenLE:         "<=",
	TokenGE:         ">=",
	TokenLT:         "<",
	TokenGT:         ">",
	TokenNE:         "!=",
	TokenOr:         "||",
	TokenAnd:        "&&",
	TokenArrow:      "->",
	TokenIdent:      "Identifier",
	TokenString:     "String",
	TokenInt:        "Int",
	TokenFloat:      "Float",
	TokenBool:       "Bool",
	TokenLet:        "let",
	TokenRecord:     "record",
	TokenIf:         "if",
	TokenDo:         "do",
	TokenElse:       "else",
}

// String returns the canonical display form of the kind: the symbol for
// punctuation and operators, the keyword for keywords and the class name
// for literal kinds.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsLiteral reports whether tokens of this kind carry a payload.
func (k TokenKind) IsLiteral() bool {
	switch k {
	case TokenIdent, TokenString, TokenInt, TokenFloat, TokenBool:
		return true
	}
	return false
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenLet && k <= TokenElse
}

// Token is a classified unit of source text. Which payload field is
// meaningful depends on Kind: Text for identifiers and strings, Int, Float
// and Bool for the respective literal kinds.
type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string

	Text  string
	Int   int64
	Float float64
	Bool  bool
}

// Pos returns the position of the token's first character.
func (t Token) Pos() Position {
	return t.Span.Start
}

// Value returns the payload of a literal or identifier token, or nil.
func (t Token) Value() any {
	switch t.Kind {
	case TokenIdent, TokenString:
		return t.Text
	case TokenInt:
		return t.Int
	case TokenFloat:
		return t.Float
	case TokenBool:
		return t.Bool
	}
	return nil
}

// Spelling renders the token back to source text. For literal kinds the
// payload is re-rendered, so scanning the result yields an equal value.
func (t Token) Spelling() string {
	switch t.Kind {
	case TokenIdent:
		return t.Text
	case TokenString:
		return `"` + t.Text + `"`
	case TokenInt:
		return strconv.FormatInt(t.Int, 10)
	case TokenFloat:
		return FormatFloat(t.Float)
	case TokenBool:
		return strconv.FormatBool(t.Bool)
	case TokenEOF:
		return ""
	}
	return t.Kind.String()
}

func (t Token) String() string {
	if t.Kind.IsLiteral() {
		return fmt.Sprintf("%s(%s)", t.Kind, t.Spelling())
	}
	return t.Kind.String()
}

// FormatFloat renders f so that it always scans back as a Float token:
// plain decimal notation with at least one fractional digit.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var keywords = map[string]TokenKind{
	"let":    TokenLet,
	"record": TokenRecord,
	"if":     TokenIf,
	"do":     TokenDo,
	"else":   TokenElse,
	"true":   TokenBool,
	"false":  TokenBool,
}

// LookupKeyword classifies a complete identifier run. Only whole-word
// matches are keywords.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
