package plan

import (
	"fmt"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// SearchPlan is an OpenSearch query body for a clip-search query. Query
// marshals directly into the "query" element of a search request.
type SearchPlan struct {
	Query   map[string]any      `json:"query"`
	Sort    []map[string]string `json:"sort,omitempty"`
	Targets []string            `json:"targets"`
}

// Search lowers a parsed query into an OpenSearch bool query. Free-text
// terms become match clauses over the configured search fields, filters
// become term and range clauses, OR becomes should with
// minimum_should_match, negation becomes must_not.
func Search(q *parser.Query, opts Options) (*SearchPlan, error) {
	if q == nil {
		return nil, ErrNilQuery
	}
	b := &searchBuilder{opts: opts}

	var must, mustNot []any
	for _, t := range q.Terms {
		clause := b.textClause(t)
		if t.Negated {
			mustNot = append(mustNot, clause)
		} else {
			must = append(must, clause)
		}
	}

	var sort []map[string]string
	targets := append([]string(nil), DefaultTargets...)
	for _, expr := range q.Filters {
		if f, ok := expr.(*parser.Filter); ok && isDirective(f.Name) && !f.Negated {
			if !opts.allowed(f.Name) {
				return nil, fmt.Errorf("%w: %s", ErrFilterNotAllowed, f.Name)
			}
			value, ok := enumValueOf(f.Value)
			if !ok {
				return nil, fmt.Errorf("%w: %s filter carries a non-enum value", ErrUnsupportedNode, f.Name)
			}
			switch f.Name {
			case token.FilterSort:
				if field, ok := sortFields[value]; ok {
					sort = append(sort, field)
				}
			case token.FilterType:
				targets = targetsFor(value)
			}
			continue
		}
		clause, err := b.filterExpr(expr, 0)
		if err != nil {
			return nil, err
		}
		must = append(must, clause)
	}

	return &SearchPlan{
		Query:   boolQuery(must, mustNot),
		Sort:    sort,
		Targets: targets,
	}, nil
}

type searchBuilder struct {
	opts Options
}

// boolQuery assembles the top-level query element. A query with no clauses
// matches everything.
func boolQuery(must, mustNot []any) map[string]any {
	if len(must) == 0 && len(mustNot) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}
	clause := map[string]any{}
	if len(must) > 0 {
		clause["must"] = must
	}
	if len(mustNot) > 0 {
		clause["must_not"] = mustNot
	}
	return map[string]any{"bool": clause}
}

// textClause builds the match clause for one free-text term. Quoted terms
// require word adjacency, bare terms match fuzzily.
func (b *searchBuilder) textClause(t parser.Term) map[string]any {
	fields := b.opts.searchFields()
	if len(fields) == 1 {
		if t.Quoted {
			return map[string]any{"match_phrase": map[string]any{fields[0]: t.Value}}
		}
		return map[string]any{"match": map[string]any{fields[0]: map[string]any{
			"query":     t.Value,
			"fuzziness": "AUTO",
		}}}
	}
	body := map[string]any{
		"query":  t.Value,
		"fields": fields,
	}
	if t.Quoted {
		body["type"] = "phrase"
	} else {
		body["fuzziness"] = "AUTO"
	}
	return map[string]any{"multi_match": body}
}

func (b *searchBuilder) filterExpr(expr parser.FilterExpr, depth int) (map[string]any, error) {
	switch node := expr.(type) {
	case *parser.Filter:
		return b.filter(node)
	case *parser.GroupedFilter:
		return b.group(node, depth)
	case *parser.BooleanExpr:
		left, err := b.filterExpr(node.Left, depth)
		if err != nil {
			return nil, err
		}
		right, err := b.filterExpr(node.Right, depth)
		if err != nil {
			return nil, err
		}
		return map[string]any{"bool": map[string]any{
			"should":               []any{left, right},
			"minimum_should_match": 1,
		}}, nil
	case nil:
		return nil, fmt.Errorf("%w: nil filter expression", ErrUnsupportedNode)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedNode, expr)
	}
}

func (b *searchBuilder) group(g *parser.GroupedFilter, depth int) (map[string]any, error) {
	depth++
	if depth > b.opts.maxDepth() {
		return nil, fmt.Errorf("%w: filter groups nested beyond %d levels", ErrMaxDepthExceeded, b.opts.maxDepth())
	}
	if len(g.Filters) == 0 {
		return map[string]any{"match_all": map[string]any{}}, nil
	}
	must := make([]any, 0, len(g.Filters))
	for _, child := range g.Filters {
		clause, err := b.filterExpr(child, depth)
		if err != nil {
			return nil, err
		}
		must = append(must, clause)
	}
	return map[string]any{"bool": map[string]any{"must": must}}, nil
}

func (b *searchBuilder) filter(f *parser.Filter) (map[string]any, error) {
	if isDirective(f.Name) {
		return nil, misplacedDirective(f.Name)
	}
	if !b.opts.allowed(f.Name) {
		return nil, fmt.Errorf("%w: %s", ErrFilterNotAllowed, f.Name)
	}
	clause, err := b.clause(f)
	if err != nil {
		return nil, err
	}
	if f.Negated {
		return map[string]any{"bool": map[string]any{"must_not": []any{clause}}}, nil
	}
	return clause, nil
}

func (b *searchBuilder) clause(f *parser.Filter) (map[string]any, error) {
	switch v := f.Value.(type) {
	case *parser.StringValue:
		if f.Name == token.FilterTag {
			return map[string]any{"term": map[string]any{"tags": v.Value}}, nil
		}
		return map[string]any{"term": map[string]any{b.opts.field(f.Name): v.Value}}, nil
	case *parser.FlagValue:
		col, ok := flagFields[v.Flag]
		if !ok {
			return nil, fmt.Errorf("%w: unknown flag %q", ErrUnsupportedNode, v.Flag)
		}
		return map[string]any{"term": map[string]any{col: true}}, nil
	case *parser.RangeValue:
		return b.rangeClause(f.Name, v)
	case *parser.DateValue:
		t, err := resolveDate(v, b.opts.now())
		if err != nil {
			return nil, err
		}
		op := "gte"
		if f.Name == token.FilterBefore {
			op = "lte"
		}
		field := b.opts.field(f.Name)
		return map[string]any{"range": map[string]any{field: map[string]any{
			op: t.Format(isoDateLayout),
		}}}, nil
	case nil:
		return nil, fmt.Errorf("%w: filter %s has no value", ErrUnsupportedNode, f.Name)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedNode, f.Value)
	}
}

var rangeOps = map[string]string{
	">":  "gt",
	">=": "gte",
	"<":  "lt",
	"<=": "lte",
}

func (b *searchBuilder) rangeClause(name token.FilterName, v *parser.RangeValue) (map[string]any, error) {
	field := b.opts.field(name)
	if op, ok := rangeOps[v.Op]; ok {
		bound := v.Min
		if v.Op == "<" || v.Op == "<=" {
			bound = v.Max
		}
		if bound == nil {
			return nil, fmt.Errorf("%w: malformed range on %s", ErrUnsupportedNode, name)
		}
		return map[string]any{"range": map[string]any{field: map[string]any{op: *bound}}}, nil
	}
	switch v.Op {
	case "=":
		if v.Min != nil {
			return map[string]any{"term": map[string]any{field: *v.Min}}, nil
		}
	case "":
		if v.Min != nil && v.Max != nil {
			return map[string]any{"range": map[string]any{field: map[string]any{
				"gte": *v.Min,
				"lte": *v.Max,
			}}}, nil
		}
	}
	return nil, fmt.Errorf("%w: malformed range on %s", ErrUnsupportedNode, name)
}
