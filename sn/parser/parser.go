package parser

import (
	"errors"
	"fmt"
	"io"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// MaxDepth bounds how many groupings and unary operators may be nested.
// Deeper input is rejected with an Unsupported error instead of exhausting
// the stack.
const MaxDepth = 1000

type Parser struct {
	file   string
	reader io.Reader
	input  []byte
	tokens []Token
	pos    int
	depth  int
	eof    Token
}

// New returns a parser over an already scanned token sequence. A trailing
// TokenEOF, as returned by Lexer.NextToken, is accepted and ignored.
func New(tokens []Token, opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	p.load(tokens)
	return p
}

// Parse parses tokens as a single expression.
func Parse(tokens []Token) (Expr, error) {
	return New(tokens).Parse()
}

// ParseExpression returns a parser that reads its source from r. Nothing is
// read until Finish or IsComplete is called.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) load(tokens []Token) {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == TokenEOF {
		tokens = tokens[:n-1]
	}
	p.tokens = tokens
	p.pos = 0

	end := Position{File: p.file, Line: 1, Column: 1}
	if n := len(tokens); n > 0 {
		end = tokens[n-1].Span.End
	}
	p.eof = Token{Kind: TokenEOF, Span: Span{Start: end, End: end}}
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	if p.reader == nil {
		p.input = []byte{}
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	p.input = data
	return nil
}

// Finish reads the remaining source, scans it and parses it as a single
// expression. Lexical errors are returned as *LexError, syntax errors as
// *ParseError.
func (p *Parser) Finish() (Expr, error) {
	if err := p.readAll(); err != nil {
		return nil, err
	}
	tokens, err := NewLexer(p.input, p.file).Tokenize()
	if err != nil {
		return nil, err
	}
	p.load(tokens)
	return p.Parse()
}

// IsComplete reports whether the source read so far forms an input that
// Finish can judge. It is false for blank input and for input that ends
// inside an expression, a string or a block comment. Any other error,
// lexical or syntactic, makes the input complete: more text cannot fix it.
func (p *Parser) IsComplete() bool {
	if err := p.readAll(); err != nil {
		return false
	}
	tokens, err := NewLexer(p.input, p.file).Tokenize()
	if err != nil {
		return !errors.Is(err, ErrUnterminatedString) && !errors.Is(err, ErrUnterminatedComment)
	}
	if len(tokens) == 0 {
		return false
	}
	_, err = New(tokens, WithFile(p.file)).Parse()
	return !errors.Is(err, ErrUnexpectedEndOfInput)
}

// Reset discards all state and prepares the parser to read from r.
func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.tokens = nil
	p.pos = 0
	p.depth = 0
	p.eof = Token{}
}

// Parse parses the whole token sequence as one expression. The token
// slice is never modified.
func (p *Parser) Parse() (Expr, error) {
	p.pos = 0
	p.depth = 0
	if p.atEnd() {
		return nil, p.errorAt(UnexpectedToken, "expression")
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorAt(UnexpectedToken, "end of input")
	}
	return expr, nil
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() Token {
	if p.atEnd() {
		return p.eof
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return !p.atEnd() && p.tokens[p.pos].Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(UnexpectedToken, kind.String())
}

// errorAt builds an error for the token under the cursor. Running out of
// tokens always yields UnexpectedEndOfInput regardless of kind.
func (p *Parser) errorAt(kind ParseErrorKind, expected string) *ParseError {
	tok := p.peek()
	if p.atEnd() {
		kind = UnexpectedEndOfInput
	}
	return &ParseError{
		Kind:     kind,
		Expected: expected,
		Found:    tok,
		Pos:      tok.Pos(),
		Index:    p.pos,
	}
}

func (p *Parser) unsupported(construct string) *ParseError {
	tok := p.peek()
	return &ParseError{
		Kind:      Unsupported,
		Found:     tok,
		Construct: construct,
		Pos:       tok.Pos(),
		Index:     p.pos,
	}
}

// enter records one more level of nesting at the current token.
func (p *Parser) enter() error {
	if p.depth >= MaxDepth {
		return p.unsupported(fmt.Sprintf("nesting deeper than %d", MaxDepth))
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseOrExpr()
}

func (p *Parser) parseOrExpr() (Expr, error) {
	return p.parseBinary(p.parseAndExpr, TokenOr)
}

func (p *Parser) parseAndExpr() (Expr, error) {
	return p.parseBinary(p.parseEqualityExpr, TokenAnd)
}

func (p *Parser) parseEqualityExpr() (Expr, error) {
	return p.parseBinary(p.parseComparisonExpr, TokenEQ, TokenNE)
}

func (p *Parser) parseComparisonExpr() (Expr, error) {
	return p.parseBinary(p.parseTermExpr, TokenLT, TokenLE, TokenGT, TokenGE)
}

func (p *Parser) parseTermExpr() (Expr, error) {
	return p.parseBinary(p.parseFactorExpr, TokenPlus, TokenMinus)
}

func (p *Parser) parseFactorExpr() (Expr, error) {
	return p.parseBinary(p.parseUnaryExpr, TokenStar, TokenSlash)
}

// parseBinary parses one left-associative precedence level: operands come
// from next, operators from ops.
func (p *Parser) parseBinary(next func() (Expr, error), ops ...TokenKind) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Binary{
			Op:    op.Kind,
			Left:  left,
			Right: right,
			Pos:   Span{Start: left.Span().Start, End: right.Span().End},
		}
	}
	return left, nil
}

func (p *Parser) parseUnaryExpr() (Expr, error) {
	if p.check(TokenMinus) {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		op := p.advance()
		operand, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &Unary{
			Op:      op.Kind,
			Operand: operand,
			Pos:     Span{Start: op.Span.Start, End: operand.Span().End},
		}, nil
	}
	return p.parsePrimary()
}

var reservedConstructs = map[TokenKind]string{
	TokenIdent:  "variable reference",
	TokenLet:    "let binding",
	TokenRecord: "record declaration",
	TokenIf:     "if expression",
	TokenDo:     "do block",
	TokenElse:   "else branch",
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenInt:
		p.advance()
		return &Literal{Value: IntValue(tok.Int), Pos: tok.Span}, nil
	case TokenFloat:
		p.advance()
		return &Literal{Value: FloatValue(tok.Float), Pos: tok.Span}, nil
	case TokenString:
		p.advance()
		return &Literal{Value: StringValue(tok.Text), Pos: tok.Span}, nil
	case TokenBool:
		p.advance()
		return &Literal{Value: BoolValue(tok.Bool), Pos: tok.Span}, nil
	case TokenLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		open := p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closing, err := p.expect(TokenRParen)
		if err != nil {
			return nil, err
		}
		return &Grouping{
			Inner: inner,
			Pos:   Span{Start: open.Span.Start, End: closing.Span.End},
		}, nil
	}

	if construct, ok := reservedConstructs[tok.Kind]; ok && !p.atEnd() {
		if tok.Kind == TokenIdent && p.isCall() {
			construct = "function call"
		}
		return nil, p.unsupported(construct)
	}
	return nil, p.errorAt(UnexpectedToken, "expression")
}

func (p *Parser) isCall() bool {
	next := p.pos + 1
	return next < len(p.tokens) && p.tokens[next].Kind == TokenLParen
}
