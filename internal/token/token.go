package token

// TokenType identifies the lexical class of a token.
type TokenType string

// Token is one lexeme with its source position. Lexeme holds the raw
// source text; Literal holds the interpreted value when it differs.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT TokenType = "IDENT"
	INT   TokenType = "INT"

	EQ       TokenType = "=="
	ELLIPSIS TokenType = "..."
	ARROW    TokenType = "->"
	DOT      TokenType = "."
	COMMA    TokenType = ","
	COLON    TokenType = ":"
	TILDE    TokenType = "~"
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LT       TokenType = "<"
	GT       TokenType = ">"

	SIGNATURE TokenType = "SIGNATURE"
	WHERE     TokenType = "WHERE"
	TUPLE     TokenType = "TUPLE"
	PARAMS    TokenType = "PARAMS"
	FN        TokenType = "FN"
)

var keywords = map[string]TokenType{
	"signature": SIGNATURE,
	"where":     WHERE,
	"tuple":     TUPLE,
	"params":    PARAMS,
	"fn":        FN,
}

// LookupIdent returns the keyword type for ident, or IDENT when it is not
// a keyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
