package parser

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedChar       = errors.New("unexpected character")
	ErrUnterminatedString   = errors.New("unterminated string")
	ErrUnterminatedComment  = errors.New("unterminated comment")
	ErrNumberOutOfRange     = errors.New("number out of range")
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrUnsupported          = errors.New("unsupported construct")
)

type LexErrorKind int

const (
	UnexpectedChar LexErrorKind = iota
	UnterminatedString
	UnterminatedComment
	NumberOutOfRange
)

var lexErrorSentinels = map[LexErrorKind]error{
	UnexpectedChar:      ErrUnexpectedChar,
	UnterminatedString:  ErrUnterminatedString,
	UnterminatedComment: ErrUnterminatedComment,
	NumberOutOfRange:    ErrNumberOutOfRange,
}

func (k LexErrorKind) String() string {
	if err, ok := lexErrorSentinels[k]; ok {
		return err.Error()
	}
	return "lexical error"
}

// LexError reports a lexical error at the position of the offending
// character, or at the opening delimiter for unterminated strings and
// comments.
type LexError struct {
	Kind LexErrorKind
	Pos  Position
	// Char is the offending character for UnexpectedChar.
	Char rune
	// Literal is the offending source text for NumberOutOfRange.
	Literal string
}

func (e *LexError) Error() string {
	switch e.Kind {
	case UnexpectedChar:
		return fmt.Sprintf("%s: %s %q", e.Pos, e.Kind, e.Char)
	case NumberOutOfRange:
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Literal)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Kind)
}

func (e *LexError) Is(target error) bool {
	return lexErrorSentinels[e.Kind] == target
}

type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	UnexpectedEndOfInput
	Unsupported
)

var parseErrorSentinels = map[ParseErrorKind]error{
	UnexpectedToken:      ErrUnexpectedToken,
	UnexpectedEndOfInput: ErrUnexpectedEndOfInput,
	Unsupported:          ErrUnsupported,
}

func (k ParseErrorKind) String() string {
	if err, ok := parseErrorSentinels[k]; ok {
		return err.Error()
	}
	return "syntax error"
}

// ParseError reports a syntax error. Index is the parser cursor at the
// time of failure: the index of the offending token, or the length of the
// token sequence when the input ended early.
//
// Running out of tokens is always reported as UnexpectedEndOfInput, with
// Expected naming what was missing. A missing ")" at the end of "(1" is
// therefore UnexpectedEndOfInput with Expected ")", not UnexpectedToken.
// Nesting beyond MaxDepth is reported as Unsupported.
type ParseError struct {
	Kind      ParseErrorKind
	Expected  string
	Found     Token
	Construct string
	Pos       Position
	Index     int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("%s: %s %s, expected %s", e.Pos, e.Kind, e.Found, e.Expected)
	case UnexpectedEndOfInput:
		return fmt.Sprintf("%s: %s, expected %s", e.Pos, e.Kind, e.Expected)
	case Unsupported:
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Construct)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Kind)
}

func (e *ParseError) Is(target error) bool {
	return parseErrorSentinels[e.Kind] == target
}
