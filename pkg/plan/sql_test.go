package plan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
	"github.com/subculture-collective/clipper-sub005/pkg/plan"
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

func mustParse(t *testing.T, input string) *parser.Query {
	t.Helper()
	q, err := parser.Parse(input)
	require.NoError(t, err)
	return q
}

func sqlPlan(t *testing.T, input string) *plan.SQLPlan {
	t.Helper()
	p, err := plan.SQL(mustParse(t, input), plan.DefaultOptions())
	require.NoError(t, err)
	return p
}

func TestSQLEmptyQuery(t *testing.T) {
	p := sqlPlan(t, "")
	assert.Empty(t, p.Where)
	assert.Empty(t, p.Args)
	assert.Empty(t, p.OrderBy)
	assert.Equal(t, []string{"clips"}, p.Targets)
}

func TestSQLNilQuery(t *testing.T) {
	_, err := plan.SQL(nil, plan.DefaultOptions())
	require.ErrorIs(t, err, plan.ErrNilQuery)
}

func TestSQLFreeTextTerms(t *testing.T) {
	p := sqlPlan(t, "epic win")
	assert.Equal(t, "search_vector @@ to_tsquery('english', $1)", p.Where)
	assert.Equal(t, []any{"epic:* & win:*"}, p.Args)
}

func TestSQLQuotedPhraseKeepsAdjacency(t *testing.T) {
	p := sqlPlan(t, `"epic comeback"`)
	assert.Equal(t, []any{"(epic:* <-> comeback:*)"}, p.Args)
}

func TestSQLNegatedTerm(t *testing.T) {
	p := sqlPlan(t, "epic -boring")
	assert.Equal(t, []any{"epic:* & !boring:*"}, p.Args)
}

func TestSQLTermsAreSanitized(t *testing.T) {
	p := sqlPlan(t, `"rocket & league!"`)
	assert.Equal(t, []any{"(rocket:* <-> league:*)"}, p.Args)
}

func TestSQLFilters(t *testing.T) {
	tests := []struct {
		input string
		where string
		args  []any
	}{
		{"game:valorant", "game_name ILIKE $1", []any{"valorant"}},
		{"creator:ninja", "creator_name ILIKE $1", []any{"ninja"}},
		{"broadcaster:shroud", "broadcaster_name ILIKE $1", []any{"shroud"}},
		{"language:en", "language = $1", []any{"en"}},
		{"role:admin", "submitter_role = $1", []any{"admin"}},
		{"votes:>100", "vote_score > $1", []any{int64(100)}},
		{"views:>=50", "view_count >= $1", []any{int64(50)}},
		{"karma:<10", "submitter_karma < $1", []any{int64(10)}},
		{"duration:<=60", "duration <= $1", []any{int64(60)}},
		{"votes:5", "vote_score = $1", []any{int64(5)}},
		{"duration:10..60", "duration BETWEEN $1 AND $2", []any{int64(10), int64(60)}},
		{"is:featured", "is_featured = $1", []any{true}},
		{"-is:nsfw", "NOT (is_nsfw = $1)", []any{true}},
		{"-game:fortnite", "NOT (game_name ILIKE $1)", []any{"fortnite"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := sqlPlan(t, tt.input)
			assert.Equal(t, tt.where, p.Where)
			assert.Equal(t, tt.args, p.Args)
		})
	}
}

func TestSQLEscapesLikeWildcards(t *testing.T) {
	p := sqlPlan(t, `game:"50% off_deal"`)
	assert.Equal(t, []any{`50\% off\_deal`}, p.Args)
}

func TestSQLAbsoluteDate(t *testing.T) {
	p := sqlPlan(t, "after:2025-06-15")
	assert.Equal(t, "created_at >= $1", p.Where)
	require.Len(t, p.Args, 1)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), p.Args[0])
}

func TestSQLBeforeDate(t *testing.T) {
	p := sqlPlan(t, "before:2025-01-01")
	assert.Equal(t, "created_at <= $1", p.Where)
}

func TestSQLRelativeDate(t *testing.T) {
	opts := plan.DefaultOptions()
	opts.Now = time.Date(2026, 8, 22, 15, 4, 5, 0, time.UTC)
	p, err := plan.SQL(mustParse(t, "after:last-week"), opts)
	require.NoError(t, err)
	require.Len(t, p.Args, 1)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), p.Args[0])
}

func TestSQLTagSubquery(t *testing.T) {
	p := sqlPlan(t, "tag:clutch")
	assert.Contains(t, p.Where, "EXISTS (SELECT 1 FROM clip_tags")
	assert.Contains(t, p.Where, "clips.id")
	assert.Equal(t, []any{"clutch"}, p.Args)
}

func TestSQLOrClause(t *testing.T) {
	p := sqlPlan(t, "game:valorant OR game:apex")
	assert.Equal(t, "(game_name ILIKE $1 OR game_name ILIKE $2)", p.Where)
	assert.Equal(t, []any{"valorant", "apex"}, p.Args)
}

func TestSQLGroupJoinsWithAnd(t *testing.T) {
	p := sqlPlan(t, "(game:valorant creator:ninja)")
	assert.Equal(t, "(game_name ILIKE $1 AND creator_name ILIKE $2)", p.Where)
}

func TestSQLGroupedOrBesideFilter(t *testing.T) {
	p := sqlPlan(t, "(game:valorant OR game:apex) is:featured")
	assert.Equal(t, "((game_name ILIKE $1 OR game_name ILIKE $2)) AND is_featured = $3", p.Where)
	assert.Equal(t, []any{"valorant", "apex", true}, p.Args)
}

func TestSQLTermsAndFiltersCombine(t *testing.T) {
	p := sqlPlan(t, "epic game:valorant votes:>5")
	assert.Equal(t,
		"search_vector @@ to_tsquery('english', $1) AND game_name ILIKE $2 AND vote_score > $3",
		p.Where)
	assert.Equal(t, []any{"epic:*", "valorant", int64(5)}, p.Args)
}

func TestSQLSortDirective(t *testing.T) {
	tests := []struct {
		input   string
		orderBy string
	}{
		{"game:valorant sort:recent", "created_at DESC"},
		{"game:valorant sort:popular", "view_count DESC"},
		{"game:valorant sort:relevance", ""},
		{"game:valorant", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := sqlPlan(t, tt.input)
			assert.Equal(t, tt.orderBy, p.OrderBy)
			assert.Equal(t, "game_name ILIKE $1", p.Where)
		})
	}
}

func TestSQLTypeDirective(t *testing.T) {
	assert.Equal(t, []string{"users"}, sqlPlan(t, "type:users").Targets)
	assert.Equal(t, []string{"clips", "users", "games", "tags"}, sqlPlan(t, "type:all").Targets)
	assert.Equal(t, []string{"clips"}, sqlPlan(t, "epic").Targets)
}

func TestSQLDirectiveInsideGroupFails(t *testing.T) {
	_, err := plan.SQL(mustParse(t, "(sort:recent)"), plan.DefaultOptions())
	require.ErrorIs(t, err, plan.ErrUnsupportedNode)
}

func TestSQLNegatedDirectiveFails(t *testing.T) {
	_, err := plan.SQL(mustParse(t, "-sort:recent"), plan.DefaultOptions())
	require.ErrorIs(t, err, plan.ErrUnsupportedNode)
}

func TestSQLFilterNotAllowed(t *testing.T) {
	opts := plan.DefaultOptions()
	opts.AllowedFilters = []token.FilterName{token.FilterGame}

	_, err := plan.SQL(mustParse(t, "creator:ninja"), opts)
	require.ErrorIs(t, err, plan.ErrFilterNotAllowed)

	p, err := plan.SQL(mustParse(t, "game:valorant"), opts)
	require.NoError(t, err)
	assert.Equal(t, "game_name ILIKE $1", p.Where)
}

func TestSQLMaxDepthExceeded(t *testing.T) {
	leaf := parser.FilterExpr(&parser.Filter{
		Name:  token.FilterGame,
		Value: &parser.StringValue{Value: "valorant"},
	})
	nest := func(n int) *parser.Query {
		expr := leaf
		for i := 0; i < n; i++ {
			expr = &parser.GroupedFilter{Filters: []parser.FilterExpr{expr}}
		}
		return &parser.Query{Terms: []parser.Term{}, Filters: []parser.FilterExpr{expr}}
	}

	_, err := plan.SQL(nest(10), plan.DefaultOptions())
	require.NoError(t, err)

	_, err = plan.SQL(nest(11), plan.DefaultOptions())
	require.ErrorIs(t, err, plan.ErrMaxDepthExceeded)
}

func TestSQLCustomFieldMapping(t *testing.T) {
	opts := plan.DefaultOptions()
	opts.FieldMapping[token.FilterGame] = "title"
	p, err := plan.SQL(mustParse(t, "game:valorant"), opts)
	require.NoError(t, err)
	assert.Equal(t, "title ILIKE $1", p.Where)
}

func TestSQLUnmappedFilterUsesItsName(t *testing.T) {
	p, err := plan.SQL(mustParse(t, "game:valorant"), plan.Options{})
	require.NoError(t, err)
	assert.Equal(t, "game ILIKE $1", p.Where)
}
