package workspace

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dhamidi/sn/sn/parser"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

const (
	SourceLexer  = "lexer"
	SourceParser = "parser"
)

type Diagnostic struct {
	Path     string
	Span     parser.Span
	Severity Severity
	Source   string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Path, d.Span.Start.Line, d.Span.Start.Column, d.Severity, d.Message)
}

// Document is the analysed state of one source file. Expr is nil whenever
// Diagnostics contains an error.
type Document struct {
	Path        string
	Content     []byte
	Tokens      []parser.Token
	Expr        parser.Expr
	Diagnostics []Diagnostic
}

// Analyze scans and parses content. Every lexical error is reported; the
// parser only runs when scanning succeeded and reports its first error.
func Analyze(path string, content []byte) *Document {
	doc := &Document{Path: path, Content: content}

	tokens, lexErrs := parser.NewLexer(content, path).TokenizeAll()
	doc.Tokens = tokens
	for _, err := range lexErrs {
		doc.Diagnostics = append(doc.Diagnostics, lexDiagnostic(path, err))
	}
	if len(lexErrs) > 0 {
		return doc
	}

	if len(tokens) == 0 {
		pos := parser.Position{File: path, Line: 1, Column: 1}
		doc.Diagnostics = append(doc.Diagnostics, Diagnostic{
			Path:     path,
			Span:     parser.Span{Start: pos, End: pos},
			Severity: SeverityWarning,
			Source:   SourceParser,
			Message:  "document contains no expression",
		})
		return doc
	}

	expr, err := parser.New(tokens, parser.WithFile(path)).Parse()
	if err != nil {
		doc.Diagnostics = append(doc.Diagnostics, parseDiagnostic(path, err))
		return doc
	}
	doc.Expr = expr
	return doc
}

func lexDiagnostic(path string, err *parser.LexError) Diagnostic {
	end := err.Pos
	switch err.Kind {
	case parser.UnexpectedChar:
		width := len(string(err.Char))
		end.Offset += width
		end.Column += width
	case parser.NumberOutOfRange:
		end.Offset += len(err.Literal)
		end.Column += len(err.Literal)
	default:
		end.Offset++
		end.Column++
	}
	return Diagnostic{
		Path:     path,
		Span:     parser.Span{Start: err.Pos, End: end},
		Severity: SeverityError,
		Source:   SourceLexer,
		Message:  messageWithoutPosition(err),
	}
}

func parseDiagnostic(path string, err error) Diagnostic {
	d := Diagnostic{
		Path:     path,
		Severity: SeverityError,
		Source:   SourceParser,
		Message:  err.Error(),
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		d.Span = parseErr.Found.Span
		d.Message = messageWithoutPosition(parseErr)
	}
	return d
}

// messageWithoutPosition strips the "line:col: " prefix; diagnostics carry
// their position separately.
func messageWithoutPosition(err error) string {
	msg := err.Error()
	var pos parser.Position
	switch e := err.(type) {
	case *parser.LexError:
		pos = e.Pos
	case *parser.ParseError:
		pos = e.Pos
	default:
		return msg
	}
	prefix := pos.String() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

func (d *Document) HasErrors() bool {
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// TokenAt returns the token covering the 1-based line and byte column.
func (d *Document) TokenAt(line, column int) (parser.Token, bool) {
	for _, tok := range d.Tokens {
		start, end := tok.Span.Start, tok.Span.End
		if before(line, column, start.Line, start.Column) {
			break
		}
		if before(line, column, end.Line, end.Column) {
			return tok, true
		}
	}
	return parser.Token{}, false
}

func before(line, column, otherLine, otherColumn int) bool {
	return line < otherLine || (line == otherLine && column < otherColumn)
}

// Line returns the text of the 1-based line without its newline.
func (d *Document) Line(n int) string {
	lines := bytes.Split(d.Content, []byte("\n"))
	if n <= 0 || n > len(lines) {
		return ""
	}
	return string(bytes.TrimSuffix(lines[n-1], []byte("\r")))
}
