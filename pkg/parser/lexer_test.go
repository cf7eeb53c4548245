package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// tok is a compact expectation for a lexed token.
type tok struct {
	typ token.TokenType
	lit string
}

func lex(t *testing.T, input string) []token.Token {
	t.Helper()
	tokens := parser.Tokenize(input)
	require.NotEmpty(t, tokens)
	require.Equal(t, token.EOF, tokens[len(tokens)-1].Type, "token stream must end with EOF")
	return tokens
}

// assertTokens checks types and literals, ignoring the trailing EOF.
func assertTokens(t *testing.T, input string, want []tok) {
	t.Helper()
	tokens := lex(t, input)
	got := tokens[:len(tokens)-1]
	require.Len(t, got, len(want), "tokens for %q", input)
	for i, w := range want {
		assert.Equal(t, w.typ, got[i].Type, "token %d type for %q", i, input)
		assert.Equal(t, w.lit, got[i].Literal, "token %d literal for %q", i, input)
	}
}

func TestTokenizeBasic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "empty input",
			input: "",
			want:  []tok{},
		},
		{
			name:  "whitespace only",
			input: " \t\r\n  ",
			want:  []tok{},
		},
		{
			name:  "single word",
			input: "valorant",
			want:  []tok{{token.WORD, "valorant"}},
		},
		{
			name:  "two words",
			input: "epic comeback",
			want:  []tok{{token.WORD, "epic"}, {token.WORD, "comeback"}},
		},
		{
			name:  "filter shape",
			input: "game:valorant",
			want:  []tok{{token.WORD, "game"}, {token.COLON, ":"}, {token.WORD, "valorant"}},
		},
		{
			name:  "number",
			input: "42",
			want:  []tok{{token.NUMBER, "42"}},
		},
		{
			name:  "parens",
			input: "(game:valorant)",
			want: []tok{
				{token.LPAREN, "("},
				{token.WORD, "game"},
				{token.COLON, ":"},
				{token.WORD, "valorant"},
				{token.RPAREN, ")"},
			},
		},
		{
			name:  "underscore word",
			input: "team_liquid",
			want:  []tok{{token.WORD, "team_liquid"}},
		},
		{
			name:  "word with digits",
			input: "faker123",
			want:  []tok{{token.WORD, "faker123"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.want)
		})
	}
}

func TestTokenizeKeywordOr(t *testing.T) {
	tests := []struct {
		input string
		want  []tok
	}{
		{"or", []tok{{token.OR, "or"}}},
		{"OR", []tok{{token.OR, "OR"}}},
		{"Or", []tok{{token.OR, "Or"}}},
		{"ore", []tok{{token.WORD, "ore"}}},
		{"orbit", []tok{{token.WORD, "orbit"}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertTokens(t, tt.input, tt.want)
		})
	}
}

// ---------- Negation Context ----------

func TestTokenizeNegation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "at start of input",
			input: "-fortnite",
			want:  []tok{{token.NEGATION, "-"}, {token.WORD, "fortnite"}},
		},
		{
			name:  "after space",
			input: "epic -fortnite",
			want:  []tok{{token.WORD, "epic"}, {token.NEGATION, "-"}, {token.WORD, "fortnite"}},
		},
		{
			name:  "after tab",
			input: "epic\t-fortnite",
			want:  []tok{{token.WORD, "epic"}, {token.NEGATION, "-"}, {token.WORD, "fortnite"}},
		},
		{
			name:  "after newline",
			input: "epic\n-fortnite",
			want:  []tok{{token.WORD, "epic"}, {token.NEGATION, "-"}, {token.WORD, "fortnite"}},
		},
		{
			name:  "after open paren",
			input: "(-is:nsfw)",
			want: []tok{
				{token.LPAREN, "("},
				{token.NEGATION, "-"},
				{token.WORD, "is"},
				{token.COLON, ":"},
				{token.WORD, "nsfw"},
				{token.RPAREN, ")"},
			},
		},
		{
			name:  "hyphen inside word",
			input: "counter-strike",
			want:  []tok{{token.WORD, "counter-strike"}},
		},
		{
			name:  "hyphen after colon joins word",
			input: "game:-foo",
			want:  []tok{{token.WORD, "game"}, {token.COLON, ":"}, {token.WORD, "-foo"}},
		},
		{
			name:  "before quoted phrase",
			input: `-"bad clip"`,
			want:  []tok{{token.NEGATION, "-"}, {token.PHRASE, "bad clip"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.want)
		})
	}
}

// ---------- Phrases ----------

func TestTokenizePhrases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "simple phrase",
			input: `"epic comeback"`,
			want:  []tok{{token.PHRASE, "epic comeback"}},
		},
		{
			name:  "escaped quote",
			input: `"say \"gg\" now"`,
			want:  []tok{{token.PHRASE, `say "gg" now`}},
		},
		{
			name:  "escaped backslash",
			input: `"a\\b"`,
			want:  []tok{{token.PHRASE, `a\b`}},
		},
		{
			name:  "empty phrase",
			input: `""`,
			want:  []tok{{token.PHRASE, ""}},
		},
		{
			name:  "unterminated phrase keeps accumulated text",
			input: `"never closed`,
			want:  []tok{{token.PHRASE, "never closed"}},
		},
		{
			name:  "phrase then word",
			input: `"League of Legends" epic`,
			want:  []tok{{token.PHRASE, "League of Legends"}, {token.WORD, "epic"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.want)
		})
	}
}

// ---------- Comparison and Range Operators ----------

func TestTokenizeOperators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "greater than",
			input: "views:>1000",
			want: []tok{
				{token.WORD, "views"},
				{token.COLON, ":"},
				{token.COMPARISON, ">"},
				{token.NUMBER, "1000"},
			},
		},
		{
			name:  "greater or equal",
			input: "karma:>=100",
			want: []tok{
				{token.WORD, "karma"},
				{token.COLON, ":"},
				{token.COMPARISON, ">="},
				{token.NUMBER, "100"},
			},
		},
		{
			name:  "less than",
			input: "<5",
			want:  []tok{{token.COMPARISON, "<"}, {token.NUMBER, "5"}},
		},
		{
			name:  "less or equal",
			input: "<=5",
			want:  []tok{{token.COMPARISON, "<="}, {token.NUMBER, "5"}},
		},
		{
			name:  "equals",
			input: "=5",
			want:  []tok{{token.COMPARISON, "="}, {token.NUMBER, "5"}},
		},
		{
			name:  "range",
			input: "duration:10..60",
			want: []tok{
				{token.WORD, "duration"},
				{token.COLON, ":"},
				{token.NUMBER, "10"},
				{token.RANGE, ".."},
				{token.NUMBER, "60"},
			},
		},
		{
			name:  "stray single dot is discarded",
			input: "a.b",
			want:  []tok{{token.WORD, "a"}, {token.WORD, "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.want)
		})
	}
}

func TestTokenizeDateSplitsAtHyphen(t *testing.T) {
	// A leading digit run lexes as NUMBER; the hyphen is not in negation
	// context, so the rest continues as one word. The parser rejoins the
	// two when a date filter expects an ISO value.
	assertTokens(t, "after:2025-01-01", []tok{
		{token.WORD, "after"},
		{token.COLON, ":"},
		{token.NUMBER, "2025"},
		{token.WORD, "-01-01"},
	})
}

func TestTokenizeSkipsUnrecognizedChars(t *testing.T) {
	assertTokens(t, "epic @#$ win", []tok{
		{token.WORD, "epic"},
		{token.WORD, "win"},
	})
}

// ---------- Positions ----------

func TestTokenizePositions(t *testing.T) {
	tokens := lex(t, "game:valorant -epic")
	require.Len(t, tokens, 6) // WORD COLON WORD NEGATION WORD EOF

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 5, Offset: 4}, tokens[1].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 6, Offset: 5}, tokens[2].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 15, Offset: 14}, tokens[3].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 16, Offset: 15}, tokens[4].Pos)
}

func TestTokenizePositionsAcrossLines(t *testing.T) {
	tokens := lex(t, "epic\nwin")
	require.Len(t, tokens, 3)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 1, Offset: 5}, tokens[1].Pos)
}

func TestTokenizeSingleEOF(t *testing.T) {
	tokens := lex(t, "")
	require.Len(t, tokens, 1)
	assert.Equal(t, token.EOF, tokens[0].Type)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
}
