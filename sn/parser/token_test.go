package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind     TokenKind
		expected string
	}{
		{TokenPlus, "+"},
		{TokenLE, "<="},
		{TokenColonColon, "::"},
		{TokenArrow, "->"},
		{TokenOr, "||"},
		{TokenIdent, "Identifier"},
		{TokenFloat, "Float"},
		{TokenRecord, "record"},
		{TokenEOF, "EOF"},
		{TokenKind(-1), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestLookupKeyword(t *testing.T) {
	assert.Equal(t, TokenLet, LookupKeyword("let"))
	assert.Equal(t, TokenBool, LookupKeyword("true"))
	assert.Equal(t, TokenIdent, LookupKeyword("letter"))
	assert.Equal(t, TokenIdent, LookupKeyword("iff"))
	assert.Equal(t, TokenIdent, LookupKeyword("Let"))
}

func TestTokenString(t *testing.T) {
	tokens, err := Tokenize([]byte(`x + 1 2.5 "s" false`))
	require.NoError(t, err)

	var got []string
	for _, tok := range tokens {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{"Identifier(x)", "+", "Int(1)", "Float(2.5)", `String("s")`, "Bool(false)"}, got)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.0", FormatFloat(1))
	assert.Equal(t, "0.5", FormatFloat(0.5))
	assert.Equal(t, "100.0", FormatFloat(100))
	assert.Equal(t, "3.14159", FormatFloat(3.14159))
}

var roundTripInputs = []string{
	"1 + 2 * 3",
	"a <= b && c != d",
	`"hello world" + "x"`,
	"(1.50 - 2.0) / 007",
	"let x = record { a :: Int, b -> c | d } ; if do else",
	"true || false",
	"[1, 2, 3].x",
	"1e",
}

// Re-spelling every token and scanning the result again must reproduce the
// same kinds and payloads.
func TestTokenRoundTrip(t *testing.T) {
	for _, input := range roundTripInputs {
		t.Run(input, func(t *testing.T) {
			tokens, err := Tokenize([]byte(input))
			require.NoError(t, err)

			var spellings []string
			for _, tok := range tokens {
				spellings = append(spellings, tok.Spelling())
			}
			again, err := Tokenize([]byte(strings.Join(spellings, " ")))
			require.NoError(t, err)

			require.Equal(t, kinds(tokens), kinds(again))
			for i := range tokens {
				assert.Equal(t, tokens[i].Value(), again[i].Value(), "payload of token %d", i)
			}
		})
	}
}
