package parser

import "github.com/subculture-collective/clipper-sub005/pkg/token"

// Query is the root of a parsed search query: free-text terms plus filter
// expressions, combined with an implicit AND. The tree is plain data,
// immutable after Parse returns, and marshals directly to JSON for
// downstream consumers.
type Query struct {
	Terms   []Term       `json:"terms"`
	Filters []FilterExpr `json:"filters"`
}

// Term is a free-text search token, optionally quoted and optionally
// negated. Value holds the unescaped text.
type Term struct {
	Value   string         `json:"value"`
	Negated bool           `json:"negated,omitempty"`
	Quoted  bool           `json:"quoted,omitempty"`
	Pos     token.Position `json:"pos"`
}

// FilterExpr is the closed set of filter expression variants:
// *Filter, *GroupedFilter and *BooleanExpr.
type FilterExpr interface {
	filterExprNode()
}

// Filter is a single name:value clause, e.g. game:valorant or -is:nsfw.
type Filter struct {
	Name    token.FilterName `json:"name"`
	Value   FilterValue      `json:"value"`
	Negated bool             `json:"negated,omitempty"`
	Pos     token.Position   `json:"pos"`
}

// GroupedFilter is a parenthesized sub-list of filter expressions.
// An empty group () is legal and carries an empty list.
type GroupedFilter struct {
	Filters []FilterExpr   `json:"filters"`
	Pos     token.Position `json:"pos"`
}

// BooleanExpr combines two filter expressions with OR. Chains are
// right-associative: A OR B OR C parses as A OR (B OR C).
type BooleanExpr struct {
	Op    string         `json:"operator"` // always "OR"
	Left  FilterExpr     `json:"left"`
	Right FilterExpr     `json:"right"`
	Pos   token.Position `json:"pos"`
}

func (*Filter) filterExprNode()        {}
func (*GroupedFilter) filterExprNode() {}
func (*BooleanExpr) filterExprNode()   {}

// FilterValue is the closed set of filter value variants:
// *RangeValue, *DateValue, *FlagValue and *StringValue. Which variant a
// filter produces depends only on the filter name.
type FilterValue interface {
	filterValueNode()
}

// RangeValue is a numeric comparison or interval, used by the
// duration/views/votes/karma filters. A bare number N is normalized to
// {Op:"=", Min:N, Max:N}; a min..max literal sets both bounds and no
// operator.
type RangeValue struct {
	Op  string `json:"operator,omitempty"` // one of > >= < <= =, or empty for min..max
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

// DateValue is a calendar date or relative-date keyword, used by the
// after/before filters. Date holds either an ISO YYYY-MM-DD literal or one
// of the relative keywords (today, yesterday, last-week, last-month,
// last-year).
type DateValue struct {
	Date     string `json:"date"`
	Relative bool   `json:"isRelative,omitempty"`
}

// FlagValue is a boolean attribute flag, used by the is filter.
type FlagValue struct {
	Flag string `json:"flag"`
}

// StringValue is a verbatim string value, used by game/creator/
// broadcaster/tag directly and by sort/type/language/role after enum
// validation. Quoted records whether the value came from a quoted phrase.
type StringValue struct {
	Value  string `json:"value"`
	Quoted bool   `json:"quoted,omitempty"`
}

func (*RangeValue) filterValueNode()  {}
func (*DateValue) filterValueNode()   {}
func (*FlagValue) filterValueNode()   {}
func (*StringValue) filterValueNode() {}

// comparisonOps is the closed set of comparison operators a RangeValue
// may carry.
var comparisonOps = map[string]struct{}{
	">":  {},
	">=": {},
	"<":  {},
	"<=": {},
	"=":  {},
}

// IsComparisonOp returns true if s is a recognized comparison operator.
func IsComparisonOp(s string) bool {
	_, ok := comparisonOps[s]
	return ok
}

// relativeDates is the closed set of relative-date keywords accepted by
// the after/before filters.
var relativeDates = map[string]struct{}{
	"today":      {},
	"yesterday":  {},
	"last-week":  {},
	"last-month": {},
	"last-year":  {},
}

// IsRelativeDate returns true if s is a relative-date keyword, matched
// case-insensitively by the caller passing a lowercased value.
func IsRelativeDate(s string) bool {
	_, ok := relativeDates[s]
	return ok
}

// RelativeDates returns the relative-date keyword set in a stable order.
func RelativeDates() []string {
	return []string{"today", "yesterday", "last-week", "last-month", "last-year"}
}
