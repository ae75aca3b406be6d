package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/sn/sn/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(expr parser.Expr) error {
	text, err := e.MarshalText(expr)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(expr parser.Expr) ([]byte, error) {
	return json.MarshalIndent(exprToJSON(expr), "", "  ")
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Span     *jsonSpan      `json:"span,omitempty"`
	Op       string         `json:"op,omitempty"`
	Type     string         `json:"type,omitempty"`
	Value    any            `json:"value,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func spanToJSON(span parser.Span) *jsonSpan {
	if span.Start.Line == 0 && span.End.Line == 0 {
		return nil
	}
	return &jsonSpan{
		Start: jsonPosition{Line: span.Start.Line, Column: span.Start.Column},
		End:   jsonPosition{Line: span.End.Line, Column: span.End.Column},
	}
}

func exprToJSON(expr parser.Expr) *astJSONNode {
	jn := &astJSONNode{Span: spanToJSON(expr.Span())}

	switch n := expr.(type) {
	case *parser.Literal:
		jn.Kind = "Literal"
		jn.Type = n.Value.Kind().String()
		jn.Value = literalJSONValue(n.Value)
	case *parser.Unary:
		jn.Kind = "Unary"
		jn.Op = n.Op.String()
	case *parser.Binary:
		jn.Kind = "Binary"
		jn.Op = n.Op.String()
	case *parser.Grouping:
		jn.Kind = "Grouping"
	}

	for _, child := range parser.Children(expr) {
		jn.Children = append(jn.Children, exprToJSON(child))
	}
	return jn
}

// literalJSONValue keeps zero values such as 0 and false in the output,
// which omitempty would otherwise drop.
func literalJSONValue(v parser.LiteralValue) any {
	switch v := v.(type) {
	case parser.StringValue:
		return json.RawMessage(mustMarshal(string(v)))
	case parser.IntValue:
		return json.RawMessage(mustMarshal(int64(v)))
	case parser.FloatValue:
		return json.RawMessage(parser.FormatFloat(float64(v)))
	case parser.BoolValue:
		return json.RawMessage(mustMarshal(bool(v)))
	}
	return nil
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
