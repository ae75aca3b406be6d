package parser

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTokenize(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := Tokenize([]byte(input))
	require.NoError(t, err)
	return tokens
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "Literal(42)"},
		{"3.5", "Literal(3.5)"},
		{`"hi"`, `Literal("hi")`},
		{"true", "Literal(true)"},
		{"1 + 2 * 3", "Binary(+, Literal(1), Binary(*, Literal(2), Literal(3)))"},
		{"10 - 5 - 2", "Binary(-, Binary(-, Literal(10), Literal(5)), Literal(2))"},
		{"8 / 4 / 2", "Binary(/, Binary(/, Literal(8), Literal(4)), Literal(2))"},
		{"(1 + 2) * 3", "Binary(*, Grouping(Binary(+, Literal(1), Literal(2))), Literal(3))"},
		{"((1))", "Grouping(Grouping(Literal(1)))"},
		{"- - 1", "Unary(-, Unary(-, Literal(1)))"},
		{"-1 * 2", "Binary(*, Unary(-, Literal(1)), Literal(2))"},
		{"1 - -2", "Binary(-, Literal(1), Unary(-, Literal(2)))"},
		{"1 < 2 == true", "Binary(==, Binary(<, Literal(1), Literal(2)), Literal(true))"},
		{"1 <= 2 != 3 >= 4", "Binary(!=, Binary(<=, Literal(1), Literal(2)), Binary(>=, Literal(3), Literal(4)))"},
		{"1 || 2 && 3", "Binary(||, Literal(1), Binary(&&, Literal(2), Literal(3)))"},
		{"1 && 2 || 3 && 4", "Binary(||, Binary(&&, Literal(1), Literal(2)), Binary(&&, Literal(3), Literal(4)))"},
		{"1 + 2 > 3 * 4", "Binary(>, Binary(+, Literal(1), Literal(2)), Binary(*, Literal(3), Literal(4)))"},
		{`"a" + 1.5`, `Binary(+, Literal("a"), Literal(1.5))`},
		{"/* c */ 1 // d", "Literal(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(mustTokenize(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, expr.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input     string
		kind      ParseErrorKind
		expected  string
		construct string
		index     int
	}{
		{"", UnexpectedEndOfInput, "expression", "", 0},
		{"1 + ", UnexpectedEndOfInput, "expression", "", 2},
		{"1 + -", UnexpectedEndOfInput, "expression", "", 3},
		{"(1", UnexpectedEndOfInput, ")", "", 2},
		{"(1 2", UnexpectedToken, ")", "", 2},
		{"1 2", UnexpectedToken, "end of input", "", 1},
		{"1 )", UnexpectedToken, "end of input", "", 1},
		{")", UnexpectedToken, "expression", "", 0},
		{"* 2", UnexpectedToken, "expression", "", 0},
		{"1 + = 2", UnexpectedToken, "expression", "", 2},
		{"()", UnexpectedToken, "expression", "", 1},
		{"x + 1", Unsupported, "", "variable reference", 0},
		{"f(1)", Unsupported, "", "function call", 0},
		{"let", Unsupported, "", "let binding", 0},
		{"record", Unsupported, "", "record declaration", 0},
		{"1 + if", Unsupported, "", "if expression", 2},
		{"do", Unsupported, "", "do block", 0},
		{"(else)", Unsupported, "", "else branch", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(mustTokenize(t, tt.input))
			require.Error(t, err)
			assert.Nil(t, expr)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.kind, parseErr.Kind)
			assert.Equal(t, tt.expected, parseErr.Expected)
			assert.Equal(t, tt.construct, parseErr.Construct)
			assert.Equal(t, tt.index, parseErr.Index)
		})
	}
}

func TestParseErrorSentinels(t *testing.T) {
	_, err := Parse(mustTokenize(t, "1 +"))
	assert.ErrorIs(t, err, ErrUnexpectedEndOfInput)
	assert.NotErrorIs(t, err, ErrUnexpectedToken)

	_, err = Parse(mustTokenize(t, "(1 2"))
	assert.ErrorIs(t, err, ErrUnexpectedToken)

	_, err = Parse(mustTokenize(t, "let"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParseNestingLimit(t *testing.T) {
	tests := []struct {
		name string
		src  func(n int) string
	}{
		{"groupings", func(n int) string {
			return strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
		}},
		{"unary", func(n int) string {
			return strings.Repeat("-", n) + "1"
		}},
		{"mixed", func(n int) string {
			return strings.Repeat("-(", n/2) + "1" + strings.Repeat(")", n/2)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(mustTokenize(t, tt.src(MaxDepth)))
			require.NoError(t, err)
			assert.Equal(t, MaxDepth+1, Depth(expr))

			_, err = Parse(mustTokenize(t, tt.src(MaxDepth+2)))
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, Unsupported, parseErr.Kind)
			assert.Equal(t, "nesting deeper than 1000", parseErr.Construct)
			assert.Equal(t, MaxDepth, parseErr.Index)
		})
	}
}

func TestParseVeryDeepInputFails(t *testing.T) {
	const n = 300000
	src := strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	_, err := ParseExpression(strings.NewReader(src)).Finish()
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Parse(mustTokenize(t, strings.Repeat("-", n)+"1"))
	assert.ErrorIs(t, err, ErrUnsupported)

	// The parser is reusable after hitting the limit.
	p := New(mustTokenize(t, strings.Repeat("(", MaxDepth+1)+"1"+strings.Repeat(")", MaxDepth+1)))
	_, err = p.Parse()
	require.ErrorIs(t, err, ErrUnsupported)
	p = New(mustTokenize(t, "((1))"))
	_, err = p.Parse()
	assert.NoError(t, err)
}

func TestParseErrorPosition(t *testing.T) {
	_, err := New(mustTokenize(t, "(1\n  2"), WithFile("a.sn")).Parse()
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Pos.Line)
	assert.Equal(t, 3, parseErr.Pos.Column)
	assert.Equal(t, TokenInt, parseErr.Found.Kind)
	assert.Equal(t, "2:3: unexpected token Int(2), expected )", parseErr.Error())

	// At end of input the error points just past the last token.
	_, err = Parse(mustTokenize(t, "1 +"))
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, Position{Offset: 3, Line: 1, Column: 4}, parseErr.Pos)
	assert.Equal(t, TokenEOF, parseErr.Found.Kind)
	assert.Equal(t, "1:4: unexpected end of input, expected expression", parseErr.Error())
}

func TestParseSpans(t *testing.T) {
	expr, err := Parse(mustTokenize(t, "(1 + 22) * -3"))
	require.NoError(t, err)

	bin, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, 1, bin.Span().Start.Column)
	assert.Equal(t, 14, bin.Span().End.Column)

	group, ok := bin.Left.(*Grouping)
	require.True(t, ok)
	assert.Equal(t, 1, group.Span().Start.Column)
	assert.Equal(t, 9, group.Span().End.Column)

	unary, ok := bin.Right.(*Unary)
	require.True(t, ok)
	assert.Equal(t, 12, unary.Span().Start.Column)
}

func TestParseAcceptsTrailingEOF(t *testing.T) {
	l := NewLexer([]byte("1 + 2"), "")
	var tokens []Token
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}

	expr, err := Parse(tokens)
	require.NoError(t, err)
	assert.Equal(t, "Binary(+, Literal(1), Literal(2))", expr.String())
}

func TestParseDoesNotMutateTokens(t *testing.T) {
	tokens := mustTokenize(t, "1 + 2 * (3 - 4)")
	saved := append([]Token(nil), tokens...)

	_, err := Parse(tokens)
	require.NoError(t, err)
	assert.Equal(t, saved, tokens)
}

// Parsing the re-spelled token stream must give the same tree.
func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3",
		"(1.50 + 2) * -3 / 4",
		`"x" == "y" || true && false`,
		"((1)) < 2",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tokens := mustTokenize(t, input)
			first, err := Parse(tokens)
			require.NoError(t, err)

			var spellings []string
			for _, tok := range tokens {
				spellings = append(spellings, tok.Spelling())
			}
			second, err := Parse(mustTokenize(t, strings.Join(spellings, " ")))
			require.NoError(t, err)
			assert.Equal(t, first.String(), second.String())
		})
	}
}

func TestParseConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens, err := Tokenize([]byte("1 + 2 * 3"))
			if err != nil {
				return
			}
			expr, err := Parse(tokens)
			if err != nil {
				return
			}
			results[i] = expr.String()
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "Binary(+, Literal(1), Binary(*, Literal(2), Literal(3)))", got)
	}
}

func TestParseExpressionReader(t *testing.T) {
	p := ParseExpression(strings.NewReader("1 + 2"), WithFile("repl"))
	require.True(t, p.IsComplete())

	expr, err := p.Finish()
	require.NoError(t, err)
	assert.Equal(t, "Binary(+, Literal(1), Literal(2))", expr.String())
	assert.Equal(t, "repl", expr.Span().Start.File)

	p.Reset(strings.NewReader("1 @"))
	_, err = p.Finish()
	assert.ErrorIs(t, err, ErrUnexpectedChar)
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		input    string
		complete bool
	}{
		{"", false},
		{"  // only a comment", false},
		{"1 +", false},
		{"(1 + 2", false},
		{"-", false},
		{`"abc`, false},
		{"1 /* open", false},
		{"1 + 2", true},
		{"(1 + 2)", true},
		{"1 )", true},
		{"1 @", true},
		{"let", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParseExpression(strings.NewReader(tt.input))
			assert.Equal(t, tt.complete, p.IsComplete())
		})
	}
}
