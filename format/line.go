package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/sn/sn/parser"
)

// TokenLineEncoder writes one line per token:
//
//	<Token type=Int line=1 col=1 value=42>
//	<Token type=+ line=1 col=4>
type TokenLineEncoder struct {
	w      io.Writer
	tokens []parser.Token
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{w: w}
}

func (e *TokenLineEncoder) Encode(tokens []parser.Token) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenLineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.tokens {
		sb.WriteString(TokenLine(tok))
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

func TokenLine(tok parser.Token) string {
	pos := tok.Pos()
	if tok.Kind.IsLiteral() {
		return fmt.Sprintf("<Token type=%s line=%d col=%d value=%s>", tok.Kind, pos.Line, pos.Column, tok.Spelling())
	}
	return fmt.Sprintf("<Token type=%s line=%d col=%d>", tok.Kind, pos.Line, pos.Column)
}
