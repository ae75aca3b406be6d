package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/sn/sn/parser"
)

type TokenJSONEncoder struct {
	w      io.Writer
	tokens []parser.Token
}

func NewTokenJSONEncoder(w io.Writer) *TokenJSONEncoder {
	return &TokenJSONEncoder{w: w}
}

func (e *TokenJSONEncoder) Encode(tokens []parser.Token) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *TokenJSONEncoder) MarshalText() ([]byte, error) {
	data := make([]jsonToken, 0, len(e.tokens))
	for _, tok := range e.tokens {
		data = append(data, tokenToJSON(tok))
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonToken struct {
	Kind    string    `json:"kind"`
	Literal string    `json:"literal"`
	Value   any       `json:"value,omitempty"`
	Span    *jsonSpan `json:"span,omitempty"`
}

func tokenToJSON(tok parser.Token) jsonToken {
	jt := jsonToken{
		Kind:    tok.Kind.String(),
		Literal: tok.Literal,
		Span:    spanToJSON(tok.Span),
	}
	switch tok.Kind {
	case parser.TokenIdent, parser.TokenString:
		jt.Value = json.RawMessage(mustMarshal(tok.Text))
	case parser.TokenInt:
		jt.Value = json.RawMessage(mustMarshal(tok.Int))
	case parser.TokenFloat:
		jt.Value = json.RawMessage(parser.FormatFloat(tok.Float))
	case parser.TokenBool:
		jt.Value = json.RawMessage(mustMarshal(tok.Bool))
	}
	return jt
}
