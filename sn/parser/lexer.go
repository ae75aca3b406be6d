package parser

import (
	"strconv"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Tokenize scans the whole input. It fails on the first lexical error and
// returns no tokens in that case.
func Tokenize(input []byte) ([]Token, error) {
	return NewLexer(input, "").Tokenize()
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// TokenizeAll scans the whole input, skipping over anything that fails to
// scan. It returns every token it could produce together with every
// lexical error, in source order.
func (l *Lexer) TokenizeAll() ([]Token, []*LexError) {
	var tokens []Token
	var errs []*LexError
	for {
		tok, err := l.next()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if tok.Kind == TokenEOF {
			return tokens, errs
		}
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token, or a token of kind TokenEOF once the
// input is exhausted. On error the lexer has already moved past the
// offending input, so scanning can resume with the next call.
func (l *Lexer) NextToken() (Token, error) {
	tok, err := l.next()
	if err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (l *Lexer) next() (Token, *LexError) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}

	start := l.Position()
	if l.atEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}, nil
	}

	ch := l.peek()
	switch {
	case isLetter(ch):
		return l.scanIdentOrKeyword(start), nil
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '"':
		return l.scanString(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) skipTrivia() *LexError {
	for !l.atEnd() {
		ch := l.peek()
		switch {
		case isWhitespace(ch):
			l.advance()
		case ch == '/' && l.peekN(1) == '/':
			// the newline is left for the next iteration
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekN(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) skipBlockComment() *LexError {
	start := l.Position()
	l.advanceN(2)
	for {
		if l.atEnd() {
			return &LexError{Kind: UnterminatedComment, Pos: start}
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return nil
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	tok := l.token(TokenIdent, start)
	tok.Kind = LookupKeyword(tok.Literal)
	switch tok.Kind {
	case TokenIdent:
		tok.Text = tok.Literal
	case TokenBool:
		tok.Bool = tok.Literal == "true"
	}
	return tok
}

func (l *Lexer) scanNumber(start Position) (Token, *LexError) {
	for isDigit(l.peek()) {
		l.advance()
	}

	// A dot only belongs to the number when a digit follows it.
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		tok := l.token(TokenFloat, start)
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return Token{}, &LexError{Kind: NumberOutOfRange, Pos: start, Literal: tok.Literal}
		}
		tok.Float = f
		return tok, nil
	}

	tok := l.token(TokenInt, start)
	i, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return Token{}, &LexError{Kind: NumberOutOfRange, Pos: start, Literal: tok.Literal}
	}
	tok.Int = i
	return tok, nil
}

func (l *Lexer) scanString(start Position) (Token, *LexError) {
	l.advance()
	from := l.pos
	for {
		if l.atEnd() {
			return Token{}, &LexError{Kind: UnterminatedString, Pos: start}
		}
		if l.peek() == '"' {
			break
		}
		l.advance()
	}
	text := string(l.input[from:l.pos])
	l.advance()

	tok := l.token(TokenString, start)
	tok.Text = text
	return tok, nil
}

func (l *Lexer) scanOperator(start Position) (Token, *LexError) {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start), nil
	case ')':
		l.advance()
		return l.token(TokenRParen, start), nil
	case '[':
		l.advance()
		return l.token(TokenLBracket, start), nil
	case ']':
		l.advance()
		return l.token(TokenRBracket, start), nil
	case '{':
		l.advance()
		return l.token(TokenLBrace, start), nil
	case '}':
		l.advance()
		return l.token(TokenRBrace, start), nil
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start), nil
	case ',':
		l.advance()
		return l.token(TokenComma, start), nil
	case '.':
		l.advance()
		return l.token(TokenDot, start), nil
	case '+':
		l.advance()
		return l.token(TokenPlus, start), nil
	case '*':
		l.advance()
		return l.token(TokenStar, start), nil
	case '/':
		l.advance()
		return l.token(TokenSlash, start), nil

	case ':':
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(TokenColonColon, start), nil
		}
		l.advance()
		return l.token(TokenColon, start), nil

	case '=':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenEQ, start), nil
		}
		l.advance()
		return l.token(TokenAssign, start), nil

	case '<':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenLE, start), nil
		}
		l.advance()
		return l.token(TokenLT, start), nil

	case '>':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start), nil
		}
		l.advance()
		return l.token(TokenGT, start), nil

	case '-':
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenArrow, start), nil
		}
		l.advance()
		return l.token(TokenMinus, start), nil

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenOr, start), nil
		}
		l.advance()
		return l.token(TokenPipe, start), nil

	case '!':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenNE, start), nil
		}

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenAnd, start), nil
		}
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
	return Token{}, &LexError{Kind: UnexpectedChar, Pos: start, Char: r}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
