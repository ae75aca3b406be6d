package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnary(t *testing.T) {
	one := NewLiteral(IntValue(1))

	u, err := NewUnary(TokenMinus, one)
	require.NoError(t, err)
	assert.Equal(t, "Unary(-, Literal(1))", u.String())

	_, err = NewUnary(TokenPlus, one)
	assert.Error(t, err)

	_, err = NewUnary(TokenMinus, nil)
	assert.Error(t, err)
}

func TestNewBinary(t *testing.T) {
	one := NewLiteral(IntValue(1))
	two := NewLiteral(FloatValue(2))

	b, err := NewBinary(TokenSlash, one, two)
	require.NoError(t, err)
	assert.Equal(t, "Binary(/, Literal(1), Literal(2.0))", b.String())

	for _, op := range []TokenKind{TokenAssign, TokenArrow, TokenPipe, TokenDot, TokenInt} {
		_, err := NewBinary(op, one, two)
		assert.Error(t, err, "operator %s", op)
	}
}

func TestLiteralValues(t *testing.T) {
	tests := []struct {
		value    LiteralValue
		kind     TokenKind
		expected string
	}{
		{StringValue("hi"), TokenString, `Literal("hi")`},
		{IntValue(-3), TokenInt, "Literal(-3)"},
		{FloatValue(1.25), TokenFloat, "Literal(1.25)"},
		{BoolValue(true), TokenBool, "Literal(true)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.expected, NewLiteral(tt.value).String())
		})
	}
}

func TestInspect(t *testing.T) {
	expr, err := Parse(mustTokenize(t, "(1 + 2) * -3"))
	require.NoError(t, err)

	var visited []string
	Inspect(expr, func(n Expr) bool {
		switch n := n.(type) {
		case *Binary:
			visited = append(visited, "Binary "+n.Op.String())
		case *Unary:
			visited = append(visited, "Unary "+n.Op.String())
		case *Grouping:
			visited = append(visited, "Grouping")
		case *Literal:
			visited = append(visited, n.Value.String())
		}
		return true
	})
	assert.Equal(t, []string{"Binary *", "Grouping", "Binary +", "1", "2", "Unary -", "3"}, visited)

	var count int
	Inspect(expr, func(n Expr) bool {
		count++
		_, isGroup := n.(*Grouping)
		return !isGroup
	})
	assert.Equal(t, 4, count)
}

func TestDepth(t *testing.T) {
	expr, err := Parse(mustTokenize(t, "1 + (2 * 3)"))
	require.NoError(t, err)
	assert.Equal(t, 4, Depth(expr))
	assert.Equal(t, 0, Depth(nil))
}
