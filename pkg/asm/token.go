package asm

import "fmt"

// ---------------------------------------------------------------------------
// Token types for VVM assembly
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenNewline

	// Literals and references
	TokenInteger    // 42, -7
	TokenFloat      // 3.14, -1.5e10
	TokenString     // "hello"
	TokenIdentifier // alloc, i64v, loop_start
	TokenRegister   // %0, @3, *1
	TokenUserType   // $0

	// Delimiters
	TokenAssign // =
	TokenColon  // :
	TokenComma  // ,
	TokenLParen // (
	TokenRParen // )
	TokenLBrace // {
	TokenRBrace // }
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenError:      "ERROR",
	TokenNewline:    "NEWLINE",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenIdentifier: "IDENTIFIER",
	TokenRegister:   "REGISTER",
	TokenUserType:   "USER_TYPE",
	TokenAssign:     "=",
	TokenColon:      ":",
	TokenComma:      ",",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// String returns a compact representation for diagnostics.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
