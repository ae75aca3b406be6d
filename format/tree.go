package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/sn/sn/parser"
)

// TreeEncoder writes the debug form of a tree: one node per line, depth
// first, indented two spaces per level.
//
//	Binary +
//	  Literal Int 1
//	  Binary *
//	    Literal Int 2
//	    Literal Int 3
type TreeEncoder struct {
	w io.Writer
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(expr parser.Expr) error {
	_, err := io.WriteString(e.w, TreeString(expr))
	return err
}

func Tree(w io.Writer, expr parser.Expr) error {
	return NewTreeEncoder(w).Encode(expr)
}

func TreeString(expr parser.Expr) string {
	var sb strings.Builder
	writeTree(&sb, expr, 0)
	return sb.String()
}

func writeTree(sb *strings.Builder, expr parser.Expr, depth int) {
	if expr == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(nodeLabel(expr))
	sb.WriteByte('\n')
	for _, child := range parser.Children(expr) {
		writeTree(sb, child, depth+1)
	}
}

func nodeLabel(expr parser.Expr) string {
	switch n := expr.(type) {
	case *parser.Literal:
		return fmt.Sprintf("Literal %s %s", n.Value.Kind(), n.Value)
	case *parser.Unary:
		return "Unary " + n.Op.String()
	case *parser.Binary:
		return "Binary " + n.Op.String()
	case *parser.Grouping:
		return "Grouping"
	}
	return "Unknown"
}
