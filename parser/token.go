package parser

// TokenKind classifies a lexed token.
type TokenKind int

const (
	EOF TokenKind = iota
	Ident
	Number
	CharLit
	StrLit
	Punct    // single-character punctuation: ; , ( ) { } = * | & + - ~ etc.
	Shift    // << or >>
	Ellipsis // ...
)

// Token is a single lexical unit of header text. Off is the byte offset of
// the token's first character in the source, used to recover raw text spans.
type Token struct {
	Kind TokenKind
	Lit  string
	Off  int
	Line int
	Col  int
}

func (t Token) is(lit string) bool {
	return t.Lit == lit
}
