package parser

import (
	"fmt"
	"strconv"
)

// Expr is a node of the expression tree. The set of implementations is
// closed: *Literal, *Unary, *Binary and *Grouping.
type Expr interface {
	Span() Span
	String() string
	exprNode()
}

// LiteralValue is the payload of a Literal: StringValue, IntValue,
// FloatValue or BoolValue.
type LiteralValue interface {
	// Kind is the token kind the value is spelled with.
	Kind() TokenKind
	String() string
	literalValue()
}

type (
	StringValue string
	IntValue    int64
	FloatValue  float64
	BoolValue   bool
)

func (StringValue) Kind() TokenKind { return TokenString }
func (IntValue) Kind() TokenKind    { return TokenInt }
func (FloatValue) Kind() TokenKind  { return TokenFloat }
func (BoolValue) Kind() TokenKind   { return TokenBool }

func (v StringValue) String() string { return `"` + string(v) + `"` }
func (v IntValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v FloatValue) String() string  { return FormatFloat(float64(v)) }
func (v BoolValue) String() string   { return strconv.FormatBool(bool(v)) }

func (StringValue) literalValue() {}
func (IntValue) literalValue()    {}
func (FloatValue) literalValue()  {}
func (BoolValue) literalValue()   {}

type Literal struct {
	Value LiteralValue
	Pos   Span
}

type Unary struct {
	Op      TokenKind
	Operand Expr
	Pos     Span
}

type Binary struct {
	Op    TokenKind
	Left  Expr
	Right Expr
	Pos   Span
}

// Grouping is a parenthesized expression. It only affects the shape of the
// tree, never its meaning.
type Grouping struct {
	Inner Expr
	Pos   Span
}

func (n *Literal) Span() Span  { return n.Pos }
func (n *Unary) Span() Span    { return n.Pos }
func (n *Binary) Span() Span   { return n.Pos }
func (n *Grouping) Span() Span { return n.Pos }

func (*Literal) exprNode()  {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Grouping) exprNode() {}

func (n *Literal) String() string {
	return "Literal(" + n.Value.String() + ")"
}

func (n *Unary) String() string {
	return fmt.Sprintf("Unary(%s, %s)", n.Op, n.Operand)
}

func (n *Binary) String() string {
	return fmt.Sprintf("Binary(%s, %s, %s)", n.Op, n.Left, n.Right)
}

func (n *Grouping) String() string {
	return fmt.Sprintf("Grouping(%s)", n.Inner)
}

var unaryOperators = map[TokenKind]bool{
	TokenMinus: true,
}

var binaryOperators = map[TokenKind]bool{
	TokenOr:    true,
	TokenAnd:   true,
	TokenEQ:    true,
	TokenNE:    true,
	TokenLT:    true,
	TokenLE:    true,
	TokenGT:    true,
	TokenGE:    true,
	TokenPlus:  true,
	TokenMinus: true,
	TokenStar:  true,
	TokenSlash: true,
}

func IsUnaryOperator(k TokenKind) bool {
	return unaryOperators[k]
}

func IsBinaryOperator(k TokenKind) bool {
	return binaryOperators[k]
}

func NewLiteral(v LiteralValue) *Literal {
	return &Literal{Value: v}
}

func NewUnary(op TokenKind, operand Expr) (*Unary, error) {
	if !IsUnaryOperator(op) {
		return nil, fmt.Errorf("%s is not a unary operator", op)
	}
	if operand == nil {
		return nil, fmt.Errorf("unary %s: missing operand", op)
	}
	return &Unary{Op: op, Operand: operand}, nil
}

func NewBinary(op TokenKind, left, right Expr) (*Binary, error) {
	if !IsBinaryOperator(op) {
		return nil, fmt.Errorf("%s is not a binary operator", op)
	}
	if left == nil || right == nil {
		return nil, fmt.Errorf("binary %s: missing operand", op)
	}
	return &Binary{Op: op, Left: left, Right: right}, nil
}

func NewGrouping(inner Expr) (*Grouping, error) {
	if inner == nil {
		return nil, fmt.Errorf("grouping: missing expression")
	}
	return &Grouping{Inner: inner}, nil
}

// Children returns the direct sub-expressions of n, left to right.
func Children(n Expr) []Expr {
	switch n := n.(type) {
	case *Unary:
		return []Expr{n.Operand}
	case *Binary:
		return []Expr{n.Left, n.Right}
	case *Grouping:
		return []Expr{n.Inner}
	}
	return nil
}

// Inspect traverses the tree depth-first in pre-order. If f returns false
// the children of that node are skipped.
func Inspect(n Expr, f func(Expr) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func Depth(n Expr) int {
	if n == nil {
		return 0
	}
	max := 0
	for _, child := range Children(n) {
		if d := Depth(child); d > max {
			max = d
		}
	}
	return max + 1
}
