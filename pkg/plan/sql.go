package plan

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// SQLPlan is a parameterized PostgreSQL predicate for a clip-search query.
type SQLPlan struct {
	// Where is the predicate body without the WHERE keyword. Empty when
	// the query has no terms and no filters.
	Where string `json:"where"`

	// Args are the positional arguments referenced by $1..$n placeholders
	// in Where, in placeholder order.
	Args []any `json:"args"`

	// OrderBy is the ORDER BY body requested through sort:. Empty means
	// the caller keeps its relevance ordering.
	OrderBy string `json:"orderBy,omitempty"`

	// Targets are the tables to search, derived from type:.
	Targets []string `json:"targets"`
}

// SQL lowers a parsed query into a PostgreSQL plan. Free-text terms become
// a single to_tsquery predicate over search_vector, filters become column
// predicates joined with AND.
func SQL(q *parser.Query, opts Options) (*SQLPlan, error) {
	if q == nil {
		return nil, ErrNilQuery
	}
	b := &sqlBuilder{opts: opts}

	var fragments []string
	if frag := b.termsPredicate(q.Terms); frag != "" {
		fragments = append(fragments, frag)
	}

	orderBy := ""
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
				orderBy = sortColumns[value]
			case token.FilterType:
				targets = targetsFor(value)
			}
			continue
		}
		frag, err := b.filterExpr(expr, 0)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
	}

	return &SQLPlan{
		Where:   strings.Join(fragments, " AND "),
		Args:    b.args,
		OrderBy: orderBy,
		Targets: targets,
	}, nil
}

type sqlBuilder struct {
	opts Options
	args []any
}

// placeholder registers an argument and returns its $n reference.
func (b *sqlBuilder) placeholder(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

// termsPredicate folds all free-text terms into one full-text predicate.
// Quoted phrases keep word adjacency with the followed-by operator, negated
// terms are excluded with !.
func (b *sqlBuilder) termsPredicate(terms []parser.Term) string {
	var parts []string
	for _, t := range terms {
		lexemes := tsLexemes(t.Value)
		if len(lexemes) == 0 {
			continue
		}
		for i := range lexemes {
			lexemes[i] += ":*"
		}
		expr := lexemes[0]
		if len(lexemes) > 1 {
			expr = "(" + strings.Join(lexemes, " <-> ") + ")"
		}
		if t.Negated {
			expr = "!" + expr
		}
		parts = append(parts, expr)
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("search_vector @@ to_tsquery('english', %s)", b.placeholder(strings.Join(parts, " & ")))
}

func (b *sqlBuilder) filterExpr(expr parser.FilterExpr, depth int) (string, error) {
	switch node := expr.(type) {
	case *parser.Filter:
		return b.filter(node)
	case *parser.GroupedFilter:
		return b.group(node, depth)
	case *parser.BooleanExpr:
		left, err := b.filterExpr(node.Left, depth)
		if err != nil {
			return "", err
		}
		right, err := b.filterExpr(node.Right, depth)
		if err != nil {
			return "", err
		}
		return "(" + left + " OR " + right + ")", nil
	case nil:
		return "", fmt.Errorf("%w: nil filter expression", ErrUnsupportedNode)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedNode, expr)
	}
}

func (b *sqlBuilder) group(g *parser.GroupedFilter, depth int) (string, error) {
	depth++
	if depth > b.opts.maxDepth() {
		return "", fmt.Errorf("%w: filter groups nested beyond %d levels", ErrMaxDepthExceeded, b.opts.maxDepth())
	}
	if len(g.Filters) == 0 {
		return "(TRUE)", nil
	}
	fragments := make([]string, 0, len(g.Filters))
	for _, child := range g.Filters {
		frag, err := b.filterExpr(child, depth)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, frag)
	}
	return "(" + strings.Join(fragments, " AND ") + ")", nil
}

func (b *sqlBuilder) filter(f *parser.Filter) (string, error) {
	if isDirective(f.Name) {
		return "", misplacedDirective(f.Name)
	}
	if !b.opts.allowed(f.Name) {
		return "", fmt.Errorf("%w: %s", ErrFilterNotAllowed, f.Name)
	}
	frag, err := b.predicate(f)
	if err != nil {
		return "", err
	}
	if f.Negated {
		return "NOT (" + frag + ")", nil
	}
	return frag, nil
}

func (b *sqlBuilder) predicate(f *parser.Filter) (string, error) {
	switch v := f.Value.(type) {
	case *parser.StringValue:
		if f.Name == token.FilterTag {
			return b.tagPredicate(v.Value), nil
		}
		if parser.ValueKindOf(f.Name) == parser.ValueKindEnum {
			return fmt.Sprintf("%s = %s", b.opts.field(f.Name), b.placeholder(v.Value)), nil
		}
		return fmt.Sprintf("%s ILIKE %s", b.opts.field(f.Name), b.placeholder(escapeLike(v.Value))), nil
	case *parser.FlagValue:
		col, ok := flagFields[v.Flag]
		if !ok {
			return "", fmt.Errorf("%w: unknown flag %q", ErrUnsupportedNode, v.Flag)
		}
		return fmt.Sprintf("%s = %s", col, b.placeholder(true)), nil
	case *parser.RangeValue:
		return b.rangePredicate(f.Name, v)
	case *parser.DateValue:
		t, err := resolveDate(v, b.opts.now())
		if err != nil {
			return "", err
		}
		op := ">="
		if f.Name == token.FilterBefore {
			op = "<="
		}
		return fmt.Sprintf("%s %s %s", b.opts.field(f.Name), op, b.placeholder(t)), nil
	case nil:
		return "", fmt.Errorf("%w: filter %s has no value", ErrUnsupportedNode, f.Name)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedNode, f.Value)
	}
}

func (b *sqlBuilder) rangePredicate(name token.FilterName, v *parser.RangeValue) (string, error) {
	col := b.opts.field(name)
	switch v.Op {
	case ">", ">=":
		if v.Min != nil {
			return fmt.Sprintf("%s %s %s", col, v.Op, b.placeholder(*v.Min)), nil
		}
	case "<", "<=":
		if v.Max != nil {
			return fmt.Sprintf("%s %s %s", col, v.Op, b.placeholder(*v.Max)), nil
		}
	case "=":
		if v.Min != nil {
			return fmt.Sprintf("%s = %s", col, b.placeholder(*v.Min)), nil
		}
	case "":
		if v.Min != nil && v.Max != nil {
			return fmt.Sprintf("%s BETWEEN %s AND %s", col, b.placeholder(*v.Min), b.placeholder(*v.Max)), nil
		}
	}
	return "", fmt.Errorf("%w: malformed range on %s", ErrUnsupportedNode, name)
}

// tagPredicate matches clips carrying the tag through the join table.
func (b *sqlBuilder) tagPredicate(value string) string {
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM clip_tags ct JOIN tags t ON t.id = ct.tag_id WHERE ct.clip_id = %s.id AND t.name ILIKE %s)",
		b.opts.table(), b.placeholder(escapeLike(value)),
	)
}

// enumValueOf extracts the validated enum string a directive filter carries.
func enumValueOf(v parser.FilterValue) (string, bool) {
	s, ok := v.(*parser.StringValue)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// escapeLike neutralizes LIKE wildcards so filter values match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// tsLexemes splits free text into to_tsquery-safe lexemes. Characters with
// meaning in tsquery syntax act as separators.
func tsLexemes(s string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		w := strings.Trim(cur.String(), "-_")
		cur.Reset()
		if w != "" {
			words = append(words, strings.ToLower(w))
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return words
}
