package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/sn/sn/parser"
)

// Encoder writes an expression tree in one output format.
type Encoder interface {
	Encode(expr parser.Expr) error
}

// TokenEncoder writes a token sequence in one output format.
type TokenEncoder interface {
	Encode(tokens []parser.Token) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"tree", "json", "source", "compact"}

func NewEncoder(format string, w io.Writer) (Encoder, error) {
	switch format {
	case "tree":
		return NewTreeEncoder(w), nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "source":
		return NewSourceEncoder(w), nil
	case "compact":
		return NewCompactEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func NewTokenEncoder(format string, w io.Writer) (TokenEncoder, error) {
	switch format {
	case "text":
		return NewTokenLineEncoder(w), nil
	case "json":
		return NewTokenJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown token format %q", format)
}

type CompactEncoder struct {
	w io.Writer
}

func NewCompactEncoder(w io.Writer) *CompactEncoder {
	return &CompactEncoder{w: w}
}

func (e *CompactEncoder) Encode(expr parser.Expr) error {
	_, err := fmt.Fprintln(e.w, expr.String())
	return err
}
