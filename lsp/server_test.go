package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/sn/sn/parser"
	"github.com/dhamidi/sn/workspace"
)

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func recordingContext(t *testing.T, got *[]notification) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			p, ok := params.(protocol.PublishDiagnosticsParams)
			require.True(t, ok)
			*got = append(*got, notification{method: method, params: p})
		},
	}
}

func TestToProtocolDiagnostics(t *testing.T) {
	doc := workspace.Analyze("a.sn", []byte("1 +\n  @"))
	diags := toProtocolDiagnostics(doc.Diagnostics)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, protocol.UInteger(1), d.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(2), d.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(3), d.Range.End.Character)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "sn.lexer", *d.Source)
	assert.Equal(t, "unexpected character '@'", d.Message)
}

func TestToProtocolPositionClamps(t *testing.T) {
	pos := toProtocolPosition(parser.Position{})
	assert.Equal(t, protocol.UInteger(0), pos.Line)
	assert.Equal(t, protocol.UInteger(0), pos.Character)
}

func TestDocumentLifecycle(t *testing.T) {
	ls := NewServer("test")
	var got []notification
	ctx := recordingContext(t, &got)

	path := filepath.Join(t.TempDir(), "doc.sn")
	uri := pathToURI(path)

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "(1 + 2"},
	}))
	require.Len(t, got, 1)
	assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, got[0].method)
	assert.Equal(t, uri, got[0].params.URI)
	require.Len(t, got[0].params.Diagnostics, 1)
	assert.Equal(t, "unexpected end of input, expected )", got[0].params.Diagnostics[0].Message)

	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "(1 + 2)"}},
	}))
	require.Len(t, got, 2)
	assert.Empty(t, got[1].params.Diagnostics)
	assert.NotNil(t, ls.Workspace().GetFile(path).Expr)

	hover, err := ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Equal(t, "Int 1", content.Value)
	assert.Equal(t, protocol.UInteger(1), hover.Range.Start.Character)

	hover, err = ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 2},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.Len(t, got, 3)
	assert.Empty(t, got[2].params.Diagnostics)
	assert.Nil(t, ls.Workspace().GetFile(path))
}

func TestDidSaveReadsFromDisk(t *testing.T) {
	ls := NewServer("test")
	var got []notification
	ctx := recordingContext(t, &got)

	path := filepath.Join(t.TempDir(), "saved.sn")
	require.NoError(t, os.WriteFile(path, []byte("let"), 0644))

	require.NoError(t, ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(path)},
	}))
	require.Len(t, got, 1)
	require.Len(t, got[0].params.Diagnostics, 1)
	assert.Equal(t, "unsupported construct: let binding", got[0].params.Diagnostics[0].Message)
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.sn"), []byte("1 +"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.sn"), []byte("1"), 0644))

	ls := NewServer("1.2.3")
	var got []notification
	ctx := recordingContext(t, &got)

	result, err := ls.initialize(ctx, &protocol.InitializeParams{RootPath: &dir})
	require.NoError(t, err)
	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "sn", res.ServerInfo.Name)
	assert.Equal(t, true, res.Capabilities.HoverProvider)

	require.NoError(t, ls.initialized(ctx, &protocol.InitializedParams{}))
	require.Len(t, got, 1)
	assert.Equal(t, pathToURI(filepath.Join(dir, "bad.sn")), got[0].params.URI)
}

func TestHoverText(t *testing.T) {
	tokens, err := parser.Tokenize([]byte(`"s" <= if`))
	require.NoError(t, err)
	assert.Equal(t, `String "s"`, hoverText(tokens[0]))
	assert.Equal(t, "operator <=", hoverText(tokens[1]))
	assert.Equal(t, "keyword if (reserved)", hoverText(tokens[2]))
}

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a b.sn")
	got, err := uriToPath(pathToURI(path))
	require.NoError(t, err)
	assert.Equal(t, path, got)
}
