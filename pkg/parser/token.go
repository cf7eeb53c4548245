package parser

// This file provides token type aliases for use inside the package.

import "github.com/subculture-collective/clipper-sub005/pkg/token"

// TokenType is an alias for token.TokenType.
type TokenType = token.TokenType

// Token is an alias for token.Token.
type Token = token.Token

// Position is an alias for token.Position.
type Position = token.Position

// Span is an alias for token.Span.
type Span = token.Span

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for token conventions
const (
	TOKEN_EOF        = token.EOF
	TOKEN_WORD       = token.WORD
	TOKEN_PHRASE     = token.PHRASE
	TOKEN_NUMBER     = token.NUMBER
	TOKEN_COLON      = token.COLON
	TOKEN_NEGATION   = token.NEGATION
	TOKEN_LPAREN     = token.LPAREN
	TOKEN_RPAREN     = token.RPAREN
	TOKEN_RANGE      = token.RANGE
	TOKEN_COMPARISON = token.COMPARISON
	TOKEN_OR         = token.OR
)
