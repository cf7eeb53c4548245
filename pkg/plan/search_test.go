package plan_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
	"github.com/subculture-collective/clipper-sub005/pkg/plan"
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

func searchPlan(t *testing.T, input string) *plan.SearchPlan {
	t.Helper()
	p, err := plan.Search(mustParse(t, input), plan.DefaultOptions())
	require.NoError(t, err)
	return p
}

// mustClauses unwraps the bool query element for assertions on its clauses.
func mustClauses(t *testing.T, p *plan.SearchPlan, key string) []any {
	t.Helper()
	boolQ, ok := p.Query["bool"].(map[string]any)
	require.True(t, ok, "expected a bool query, got %v", p.Query)
	clauses, ok := boolQ[key].([]any)
	require.True(t, ok, "expected bool.%s, got %v", key, boolQ)
	return clauses
}

func TestSearchEmptyQuery(t *testing.T) {
	p := searchPlan(t, "")
	assert.Equal(t, map[string]any{"match_all": map[string]any{}}, p.Query)
	assert.Empty(t, p.Sort)
	assert.Equal(t, []string{"clips"}, p.Targets)
}

func TestSearchNilQuery(t *testing.T) {
	_, err := plan.Search(nil, plan.DefaultOptions())
	require.ErrorIs(t, err, plan.ErrNilQuery)
}

func TestSearchTermMatchesFuzzily(t *testing.T) {
	p := searchPlan(t, "epic")
	must := mustClauses(t, p, "must")
	require.Len(t, must, 1)
	assert.Equal(t, map[string]any{"multi_match": map[string]any{
		"query":     "epic",
		"fields":    []string{"title", "description"},
		"fuzziness": "AUTO",
	}}, must[0])
}

func TestSearchQuotedPhrase(t *testing.T) {
	p := searchPlan(t, `"epic comeback"`)
	must := mustClauses(t, p, "must")
	require.Len(t, must, 1)
	assert.Equal(t, map[string]any{"multi_match": map[string]any{
		"query":  "epic comeback",
		"fields": []string{"title", "description"},
		"type":   "phrase",
	}}, must[0])
}

func TestSearchNegatedTermGoesToMustNot(t *testing.T) {
	p := searchPlan(t, "-boring")
	mustNot := mustClauses(t, p, "must_not")
	require.Len(t, mustNot, 1)
	boolQ := p.Query["bool"].(map[string]any)
	assert.NotContains(t, boolQ, "must")
}

func TestSearchSingleFieldUsesMatch(t *testing.T) {
	opts := plan.DefaultOptions()
	opts.SearchFields = []string{"title"}

	p, err := plan.Search(mustParse(t, "epic"), opts)
	require.NoError(t, err)
	must := mustClauses(t, p, "must")
	assert.Equal(t, map[string]any{"match": map[string]any{
		"title": map[string]any{"query": "epic", "fuzziness": "AUTO"},
	}}, must[0])

	p, err = plan.Search(mustParse(t, `"epic comeback"`), opts)
	require.NoError(t, err)
	must = mustClauses(t, p, "must")
	assert.Equal(t, map[string]any{"match_phrase": map[string]any{
		"title": "epic comeback",
	}}, must[0])
}

func TestSearchFilterClauses(t *testing.T) {
	tests := []struct {
		input  string
		clause map[string]any
	}{
		{"game:valorant", map[string]any{"term": map[string]any{"game_name": "valorant"}}},
		{"language:en", map[string]any{"term": map[string]any{"language": "en"}}},
		{"tag:clutch", map[string]any{"term": map[string]any{"tags": "clutch"}}},
		{"is:featured", map[string]any{"term": map[string]any{"is_featured": true}}},
		{"votes:5", map[string]any{"term": map[string]any{"vote_score": int64(5)}}},
		{"votes:>100", map[string]any{"range": map[string]any{"vote_score": map[string]any{"gt": int64(100)}}}},
		{"views:>=50", map[string]any{"range": map[string]any{"view_count": map[string]any{"gte": int64(50)}}}},
		{"karma:<10", map[string]any{"range": map[string]any{"submitter_karma": map[string]any{"lt": int64(10)}}}},
		{"duration:<=60", map[string]any{"range": map[string]any{"duration": map[string]any{"lte": int64(60)}}}},
		{"duration:10..60", map[string]any{"range": map[string]any{"duration": map[string]any{"gte": int64(10), "lte": int64(60)}}}},
		{"after:2025-06-15", map[string]any{"range": map[string]any{"created_at": map[string]any{"gte": "2025-06-15"}}}},
		{"before:2025-01-01", map[string]any{"range": map[string]any{"created_at": map[string]any{"lte": "2025-01-01"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := searchPlan(t, tt.input)
			must := mustClauses(t, p, "must")
			require.Len(t, must, 1)
			assert.Equal(t, tt.clause, must[0])
		})
	}
}

func TestSearchRelativeDate(t *testing.T) {
	opts := plan.DefaultOptions()
	opts.Now = time.Date(2026, 8, 22, 15, 4, 5, 0, time.UTC)
	p, err := plan.Search(mustParse(t, "after:yesterday"), opts)
	require.NoError(t, err)
	must := mustClauses(t, p, "must")
	assert.Equal(t, map[string]any{"range": map[string]any{
		"created_at": map[string]any{"gte": "2026-08-21"},
	}}, must[0])
}

func TestSearchNegatedFilter(t *testing.T) {
	p := searchPlan(t, "-game:fortnite")
	must := mustClauses(t, p, "must")
	require.Len(t, must, 1)
	assert.Equal(t, map[string]any{"bool": map[string]any{
		"must_not": []any{map[string]any{"term": map[string]any{"game_name": "fortnite"}}},
	}}, must[0])
}

func TestSearchOrBecomesShould(t *testing.T) {
	p := searchPlan(t, "game:valorant OR game:apex")
	must := mustClauses(t, p, "must")
	require.Len(t, must, 1)
	assert.Equal(t, map[string]any{"bool": map[string]any{
		"should": []any{
			map[string]any{"term": map[string]any{"game_name": "valorant"}},
			map[string]any{"term": map[string]any{"game_name": "apex"}},
		},
		"minimum_should_match": 1,
	}}, must[0])
}

func TestSearchGroupBecomesNestedBool(t *testing.T) {
	p := searchPlan(t, "(game:valorant creator:ninja)")
	must := mustClauses(t, p, "must")
	require.Len(t, must, 1)
	assert.Equal(t, map[string]any{"bool": map[string]any{
		"must": []any{
			map[string]any{"term": map[string]any{"game_name": "valorant"}},
			map[string]any{"term": map[string]any{"creator_name": "ninja"}},
		},
	}}, must[0])
}

func TestSearchSortDirective(t *testing.T) {
	p := searchPlan(t, "game:valorant sort:recent")
	assert.Equal(t, []map[string]string{{"created_at": "desc"}}, p.Sort)

	p = searchPlan(t, "game:valorant sort:relevance")
	assert.Empty(t, p.Sort)
}

func TestSearchTypeDirective(t *testing.T) {
	assert.Equal(t, []string{"games"}, searchPlan(t, "type:games").Targets)
	assert.Equal(t, []string{"clips", "users", "games", "tags"}, searchPlan(t, "type:all").Targets)
}

func TestSearchDirectiveInsideOrFails(t *testing.T) {
	_, err := plan.Search(mustParse(t, "game:valorant OR sort:recent"), plan.DefaultOptions())
	require.ErrorIs(t, err, plan.ErrUnsupportedNode)
}

func TestSearchFilterNotAllowed(t *testing.T) {
	opts := plan.DefaultOptions()
	opts.AllowedFilters = []token.FilterName{token.FilterGame, token.FilterVotes}
	_, err := plan.Search(mustParse(t, "creator:ninja"), opts)
	require.ErrorIs(t, err, plan.ErrFilterNotAllowed)
}

func TestSearchMaxDepthExceeded(t *testing.T) {
	expr := parser.FilterExpr(&parser.Filter{
		Name:  token.FilterGame,
		Value: &parser.StringValue{Value: "valorant"},
	})
	for i := 0; i < 11; i++ {
		expr = &parser.GroupedFilter{Filters: []parser.FilterExpr{expr}}
	}
	q := &parser.Query{Terms: []parser.Term{}, Filters: []parser.FilterExpr{expr}}
	_, err := plan.Search(q, plan.DefaultOptions())
	require.ErrorIs(t, err, plan.ErrMaxDepthExceeded)
}

func TestSearchPlanMarshalsToJSON(t *testing.T) {
	p := searchPlan(t, `"epic comeback" game:valorant OR game:apex -is:nsfw sort:recent`)
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"minimum_should_match":1`)
	assert.Contains(t, string(raw), `"sort":[{"created_at":"desc"}]`)
}
