// Package token defines the lexical tokens of the clip search query
// language: free-text words, quoted phrases, numbers, filter punctuation,
// and the positions attached to each of them.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int

const (
	// EOF terminates every token sequence exactly once.
	EOF TokenType = iota

	// Literals
	WORD   // valorant, counter-strike, last-week
	PHRASE // "epic comeback" (quotes stripped, escapes resolved)
	NUMBER // 10, 2025

	// Punctuation and operators
	COLON      // :
	NEGATION   // - (only in negation context)
	LPAREN     // (
	RPAREN     // )
	RANGE      // ..
	COMPARISON // > >= < <= =

	// Keywords
	OR
)

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:        "EOF",
	WORD:       "WORD",
	PHRASE:     "PHRASE",
	NUMBER:     "NUMBER",
	COLON:      ":",
	NEGATION:   "-",
	LPAREN:     "(",
	RPAREN:     ")",
	RANGE:      "..",
	COMPARISON: "COMPARISON",
	OR:         "OR",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// keywords maps lowercase keyword strings to their token types.
// The query language reserves a single word: OR.
var keywords = map[string]TokenType{
	"or": OR,
}

// LookupWord returns the token type for a scanned word. Keywords are
// matched case-insensitively; everything else is a plain WORD.
func LookupWord(word string) TokenType {
	if tok, ok := keywords[strings.ToLower(word)]; ok {
		return tok
	}
	return WORD
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
