package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammar(t *testing.T) {
	grammar, err := Grammar()
	require.NoError(t, err)

	for _, name := range []string{"Expression", "LogicOr", "LogicAnd", "Equality", "Comparison", "Term", "Factor", "Unary", "Primary", "Literal"} {
		assert.Contains(t, grammar, name)
	}
	assert.NotEmpty(t, GrammarSource())
}
