package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		tokenType token.TokenType
		want      string
	}{
		{token.EOF, "EOF"},
		{token.WORD, "WORD"},
		{token.PHRASE, "PHRASE"},
		{token.NUMBER, "NUMBER"},
		{token.COLON, ":"},
		{token.NEGATION, "-"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.RANGE, ".."},
		{token.COMPARISON, "COMPARISON"},
		{token.OR, "OR"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.tokenType.String())
	}

	assert.Equal(t, "TOKEN(99)", token.TokenType(99).String(), "unknown types fall back to numeric form")
}

func TestLookupWord(t *testing.T) {
	assert.Equal(t, token.OR, token.LookupWord("or"))
	assert.Equal(t, token.OR, token.LookupWord("OR"))
	assert.Equal(t, token.OR, token.LookupWord("Or"))
	assert.Equal(t, token.WORD, token.LookupWord("valorant"))
	assert.Equal(t, token.WORD, token.LookupWord("ore"), "prefix of a keyword is still a word")
}

func TestLookupFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  token.FilterName
		ok    bool
	}{
		{"lowercase", "game", token.FilterGame, true},
		{"uppercase", "GAME", token.FilterGame, true},
		{"mixed case", "VoTeS", token.FilterVotes, true},
		{"unknown", "gamer", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := token.LookupFilter(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFilterNames(t *testing.T) {
	names := token.FilterNames()
	require.Len(t, names, 15)
	assert.Equal(t, token.FilterGame, names[0])
	assert.Equal(t, token.FilterType, names[len(names)-1])

	for _, n := range names {
		assert.True(t, token.IsFilterName(string(n)))
	}

	// Returned slice is a copy; mutating it must not corrupt the set.
	names[0] = "mutated"
	assert.True(t, token.IsFilterName("game"))
}

func TestPosition(t *testing.T) {
	p := token.Position{Line: 1, Column: 5, Offset: 4}
	assert.True(t, p.IsValid())
	assert.Equal(t, "1:5", p.String())

	assert.False(t, token.Position{}.IsValid())
}

func TestSpanContains(t *testing.T) {
	s := token.Span{
		Start: token.Position{Line: 1, Column: 1, Offset: 0},
		End:   token.Position{Line: 1, Column: 5, Offset: 4},
	}

	assert.True(t, s.IsValid())
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4), "span end is exclusive")
	assert.False(t, s.Contains(-1))
}
