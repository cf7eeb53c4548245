// Package plan lowers parsed clip-search queries into backend execution
// plans. It is the bridge between the query language and the two engines
// that actually run searches: PostgreSQL (full-text over the clips table)
// and OpenSearch (the bool-query DSL).
//
// The package is deliberately side-effect free. SQL produces a parameterized
// WHERE clause plus ordered args, Search produces a JSON-marshalable query
// body, and neither talks to a database. Callers own connection handling,
// pagination, and result decoding.
//
// # Usage
//
//	q, err := parser.Parse(`game:valorant votes:>100 "epic save"`)
//	if err != nil {
//		return err
//	}
//	p, err := plan.SQL(q, plan.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	rows, err := db.Query("SELECT * FROM clips WHERE "+p.Where, p.Args...)
//
// Both planners walk the same AST. Directives that do not belong in a WHERE
// clause (sort, type) are lifted out of the top-level filter list and
// surface as SQLPlan.OrderBy / SearchPlan.Sort and Targets.
package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// Planning errors. Callers match with errors.Is.
var (
	ErrNilQuery            = errors.New("plan: nil query")
	ErrFilterNotAllowed    = errors.New("plan: filter not allowed")
	ErrMaxDepthExceeded    = errors.New("plan: max depth exceeded")
	ErrUnsupportedNode     = errors.New("plan: unsupported node")
	ErrUnknownRelativeDate = errors.New("plan: unknown relative date")
)

// DefaultMaxDepth caps filter group nesting during planning. It matches the
// parser's default so any query the parser accepts can also be planned.
const DefaultMaxDepth = 10

// Options control how a query is lowered.
type Options struct {
	// AllowedFilters restricts which filters may appear in the query.
	// Empty means every known filter is allowed.
	AllowedFilters []token.FilterName

	// FieldMapping maps filter names to backend columns or document fields.
	// Names absent from the map fall back to their literal spelling.
	FieldMapping map[token.FilterName]string

	// Table is the relation free-text terms and tag subqueries correlate
	// against in SQL plans.
	Table string

	// SearchFields are the document fields free-text terms match against
	// in search plans.
	SearchFields []string

	// MaxDepth caps group nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// Now anchors relative dates such as after:last-week. The zero value
	// means the wall clock at planning time.
	Now time.Time
}

// DefaultOptions returns options wired for the clips search schema.
func DefaultOptions() Options {
	return Options{
		FieldMapping: map[token.FilterName]string{
			token.FilterGame:        "game_name",
			token.FilterCreator:     "creator_name",
			token.FilterBroadcaster: "broadcaster_name",
			token.FilterLanguage:    "language",
			token.FilterDuration:    "duration",
			token.FilterViews:       "view_count",
			token.FilterVotes:       "vote_score",
			token.FilterAfter:       "created_at",
			token.FilterBefore:      "created_at",
			token.FilterKarma:       "submitter_karma",
			token.FilterRole:        "submitter_role",
		},
		Table:        "clips",
		SearchFields: []string{"title", "description"},
		MaxDepth:     DefaultMaxDepth,
	}
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) table() string {
	if o.Table == "" {
		return "clips"
	}
	return o.Table
}

func (o Options) searchFields() []string {
	if len(o.SearchFields) == 0 {
		return []string{"title", "description"}
	}
	return o.SearchFields
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) allowed(name token.FilterName) bool {
	if len(o.AllowedFilters) == 0 {
		return true
	}
	for _, f := range o.AllowedFilters {
		if f == name {
			return true
		}
	}
	return false
}

// field resolves a filter name to its backend column or document field.
func (o Options) field(name token.FilterName) string {
	if col, ok := o.FieldMapping[name]; ok {
		return col
	}
	return string(name)
}

// flagFields maps is: flag values to their boolean columns. The is filter
// has no single column, so it bypasses Options.FieldMapping.
var flagFields = map[string]string{
	"featured": "is_featured",
	"nsfw":     "is_nsfw",
}

// searchTargets maps type: values to the backends' search targets. The
// value doubles as table name and index name.
var searchTargets = map[string][]string{
	"clips": {"clips"},
	"users": {"users"},
	"games": {"games"},
	"tags":  {"tags"},
	"all":   {"clips", "users", "games", "tags"},
}

// DefaultTargets is the search target used when a query carries no type
// filter.
var DefaultTargets = []string{"clips"}

// sortColumns maps sort: values to SQL ORDER BY clauses. Relevance is
// absent on purpose: an empty OrderBy tells the caller to keep its own
// rank ordering.
var sortColumns = map[string]string{
	"recent":  "created_at DESC",
	"popular": "view_count DESC",
}

// sortFields maps sort: values to OpenSearch sort clauses. Relevance is
// absent so the engine's _score ordering applies.
var sortFields = map[string]map[string]string{
	"recent":  {"created_at": "desc"},
	"popular": {"view_count": "desc"},
}

func targetsFor(value string) []string {
	if t, ok := searchTargets[value]; ok {
		out := make([]string, len(t))
		copy(out, t)
		return out
	}
	return []string{value}
}

// isDirective reports whether a filter steers the plan rather than
// narrowing the result set.
func isDirective(name token.FilterName) bool {
	return name == token.FilterSort || name == token.FilterType
}

func misplacedDirective(name token.FilterName) error {
	return fmt.Errorf("%w: %s filter must appear at the top level and cannot be negated", ErrUnsupportedNode, name)
}
