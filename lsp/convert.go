package lsp

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/sn/sn/parser"
	"github.com/dhamidi/sn/workspace"
)

// LSP positions are 0-based; columns are passed through as byte offsets
// within the line.
func toProtocolPosition(pos parser.Position) protocol.Position {
	line, column := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(column),
	}
}

func toProtocolRange(span parser.Span) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(span.Start),
		End:   toProtocolPosition(span.End),
	}
}

func toProtocolSeverity(s workspace.Severity) protocol.DiagnosticSeverity {
	if s == workspace.SeverityWarning {
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}

func toProtocolDiagnostics(diags []workspace.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := toProtocolSeverity(d.Severity)
		source := lsName + "." + d.Source
		result = append(result, protocol.Diagnostic{
			Range:    toProtocolRange(d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

func hoverText(tok parser.Token) string {
	if tok.Kind.IsLiteral() {
		return fmt.Sprintf("%s %s", tok.Kind, tok.Spelling())
	}
	if tok.Kind.IsKeyword() {
		return fmt.Sprintf("keyword %s (reserved)", tok.Kind)
	}
	return fmt.Sprintf("operator %s", tok.Kind)
}
