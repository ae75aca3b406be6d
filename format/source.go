package format

import (
	"io"
	"strings"

	"github.com/dhamidi/sn/sn/parser"
)

// Binding power of each precedence level, loosest first.
const (
	precOr = iota + 1
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precPrimary
)

var binaryPrecedence = map[parser.TokenKind]int{
	parser.TokenOr:    precOr,
	parser.TokenAnd:   precAnd,
	parser.TokenEQ:    precEquality,
	parser.TokenNE:    precEquality,
	parser.TokenLT:    precComparison,
	parser.TokenLE:    precComparison,
	parser.TokenGT:    precComparison,
	parser.TokenGE:    precComparison,
	parser.TokenPlus:  precTerm,
	parser.TokenMinus: precTerm,
	parser.TokenStar:  precFactor,
	parser.TokenSlash: precFactor,
}

func precedence(expr parser.Expr) int {
	switch n := expr.(type) {
	case *parser.Binary:
		return binaryPrecedence[n.Op]
	case *parser.Unary:
		return precUnary
	}
	return precPrimary
}

// SourcePrinter renders a tree back to canonical source text. Binary
// operators are surrounded by single spaces. Parentheses from the input are
// kept as written; further parentheses are only added where a hand-built
// tree would otherwise parse differently.
type SourcePrinter struct {
	sb strings.Builder
}

func (p *SourcePrinter) Print(expr parser.Expr) string {
	p.sb.Reset()
	p.printExpr(expr, 0)
	return p.sb.String()
}

func (p *SourcePrinter) printExpr(expr parser.Expr, min int) {
	wrap := precedence(expr) < min
	if wrap {
		p.sb.WriteByte('(')
	}

	switch n := expr.(type) {
	case *parser.Literal:
		p.sb.WriteString(n.Value.String())
	case *parser.Grouping:
		p.sb.WriteByte('(')
		p.printExpr(n.Inner, 0)
		p.sb.WriteByte(')')
	case *parser.Unary:
		p.sb.WriteString(n.Op.String())
		p.printExpr(n.Operand, precUnary)
	case *parser.Binary:
		prec := binaryPrecedence[n.Op]
		p.printExpr(n.Left, prec)
		p.sb.WriteByte(' ')
		p.sb.WriteString(n.Op.String())
		p.sb.WriteByte(' ')
		// left-associative: an equal-precedence right operand needs parens
		p.printExpr(n.Right, prec+1)
	}

	if wrap {
		p.sb.WriteByte(')')
	}
}

func Source(expr parser.Expr) string {
	var p SourcePrinter
	return p.Print(expr)
}

// PrettyPrint parses src and returns it in canonical form followed by a
// newline.
func PrettyPrint(src []byte, file string) ([]byte, error) {
	tokens, err := parser.NewLexer(src, file).Tokenize()
	if err != nil {
		return nil, err
	}
	expr, err := parser.New(tokens, parser.WithFile(file)).Parse()
	if err != nil {
		return nil, err
	}
	return []byte(Source(expr) + "\n"), nil
}

type SourceEncoder struct {
	w io.Writer
}

func NewSourceEncoder(w io.Writer) *SourceEncoder {
	return &SourceEncoder{w: w}
}

func (e *SourceEncoder) Encode(expr parser.Expr) error {
	_, err := io.WriteString(e.w, Source(expr)+"\n")
	return err
}
