package parser

// lexer scans header text into tokens. Comments and preprocessor lines are
// dropped here so the declaration parser never sees them.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// skipNoise consumes whitespace, line and block comments, and preprocessor
// directives (anything from '#' to end of line).
func (l *lexer) skipNoise() {
	for l.pos < len(l.src) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) {
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		case ch == '#':
			for l.pos < len(l.src) && l.peek() != '\n' {
				if l.peek() == '\\' && l.peekAt(1) == '\n' {
					l.advance()
				}
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func (l *lexer) next() Token {
	l.skipNoise()

	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Off: l.pos, Line: l.line, Col: l.col}
	}

	tok := Token{Off: l.pos, Line: l.line, Col: l.col}
	ch := l.peek()

	switch {
	case isIdentStart(ch):
		start := l.pos
		for l.pos < len(l.src) && isIdentPart(l.peek()) {
			l.advance()
		}
		tok.Kind = Ident
		tok.Lit = l.src[start:l.pos]

	case ch >= '0' && ch <= '9':
		// Numbers including hex and integer suffixes (0x1F, 10UL, 1.5f).
		start := l.pos
		for l.pos < len(l.src) && (isIdentPart(l.peek()) || l.peek() == '.') {
			l.advance()
		}
		tok.Kind = Number
		tok.Lit = l.src[start:l.pos]

	case ch == '"':
		start := l.pos
		l.advance()
		for l.pos < len(l.src) && l.peek() != '"' {
			if l.peek() == '\\' {
				l.advance()
			}
			l.advance()
		}
		if l.pos < len(l.src) {
			l.advance()
		}
		tok.Kind = StrLit
		tok.Lit = l.src[start:l.pos]

	case ch == '\'':
		start := l.pos
		l.advance()
		for l.pos < len(l.src) && l.peek() != '\'' {
			if l.peek() == '\\' {
				l.advance()
			}
			l.advance()
		}
		if l.pos < len(l.src) {
			l.advance()
		}
		tok.Kind = CharLit
		tok.Lit = l.src[start:l.pos]

	case ch == '.' && l.peekAt(1) == '.' && l.peekAt(2) == '.':
		l.advance()
		l.advance()
		l.advance()
		tok.Kind = Ellipsis
		tok.Lit = "..."

	case (ch == '<' && l.peekAt(1) == '<') || (ch == '>' && l.peekAt(1) == '>'):
		start := l.pos
		l.advance()
		l.advance()
		tok.Kind = Shift
		tok.Lit = l.src[start:l.pos]

	default:
		l.advance()
		tok.Kind = Punct
		tok.Lit = string(ch)
	}

	return tok
}

// lex tokenizes the whole input. The EOF token is always present as the
// final element.
func lex(src string) []Token {
	l := newLexer(src)
	var toks []Token
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}
