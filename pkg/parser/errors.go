package parser

import (
	"fmt"
	"strings"

	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// Code identifies one of the closed set of query parse error kinds.
type Code string

// The closed error code taxonomy. Every error the parser raises carries
// exactly one of these codes.
const (
	CodeInvalidFilterName   Code = "QE001"
	CodeMissingFilterValue  Code = "QE002"
	CodeInvalidDateFormat   Code = "QE003"
	CodeInvalidRange        Code = "QE004"
	CodeUnclosedQuote       Code = "QE005"
	CodeInvalidComparisonOp Code = "QE006"
	CodeQueryTooLong        Code = "QE007"
	CodeTooManyFilters      Code = "QE008"
	CodeNestingTooDeep      Code = "QE009"
	CodeInvalidEnumValue    Code = "QE010"
	CodeTooManyOrClauses    Code = "QE011"
	CodeTooManyTerms        Code = "QE012"
)

// QueryError is a structured parse error: a code from the closed
// taxonomy, a human-readable message, the source position and span where
// known, and remediation suggestions ready to show a user. It marshals
// directly to JSON for API responses.
type QueryError struct {
	Code        Code            `json:"code"`
	Message     string          `json:"message"`
	Pos         *token.Position `json:"position,omitempty"`
	Span        *token.Span     `json:"location,omitempty"`
	Suggestions []string        `json:"suggestions"`
}

// Error implements the error interface with a one-line summary.
func (e *QueryError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("parse error at line %d, column %d: %s [%s]", e.Pos.Line, e.Pos.Column, e.Message, e.Code)
	}
	return fmt.Sprintf("parse error: %s [%s]", e.Message, e.Code)
}

// Format returns the full human-readable rendition: code, message,
// position when present, and the suggestion list as bullets.
func (e *QueryError) Format() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Pos != nil {
		fmt.Fprintf(&b, " (line %d, column %d)", e.Pos.Line, e.Pos.Column)
	}
	for _, s := range e.Suggestions {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

// usageExamples gives one idiomatic usage per filter, shown in error
// suggestions so the fix is copy-pasteable.
var usageExamples = map[token.FilterName]string{
	token.FilterGame:        `game:valorant`,
	token.FilterCreator:     `creator:shroud`,
	token.FilterBroadcaster: `broadcaster:pokimane`,
	token.FilterTag:         `tag:clutch`,
	token.FilterLanguage:    `language:en`,
	token.FilterDuration:    `duration:10..60`,
	token.FilterViews:       `views:>1000`,
	token.FilterVotes:       `votes:>10`,
	token.FilterAfter:       `after:2025-01-01`,
	token.FilterBefore:      `before:last-week`,
	token.FilterIs:          `is:featured`,
	token.FilterSort:        `sort:recent`,
	token.FilterKarma:       `karma:>=100`,
	token.FilterRole:        `role:moderator`,
	token.FilterType:        `type:clips`,
}

// usageExample returns the usage suggestion for a filter name, falling
// back to a generic form for names outside the closed set.
func usageExample(name token.FilterName) string {
	if ex, ok := usageExamples[name]; ok {
		return "example: " + ex
	}
	return fmt.Sprintf("example: %s:value", name)
}

// wordSpan derives the source span of a plain word or number token, whose
// source length equals its literal length.
func wordSpan(pos token.Position, literal string) *token.Span {
	return &token.Span{
		Start: pos,
		End: token.Position{
			Line:   pos.Line,
			Column: pos.Column + len(literal),
			Offset: pos.Offset + len(literal),
		},
	}
}

// NewInvalidFilterNameError reports an unrecognized filter name. The
// suggestions open with fuzzy "did you mean" candidates and always close
// with the full valid-filter list.
func NewInvalidFilterNameError(name string, pos token.Position) *QueryError {
	suggestions := make([]string, 0, 4)
	for _, match := range topSuggestions(name, 3) {
		suggestions = append(suggestions, fmt.Sprintf("did you mean %q?", match))
	}
	suggestions = append(suggestions,
		"valid filters: "+strings.Join(token.FilterNameStrings(), ", "))

	return &QueryError{
		Code:        CodeInvalidFilterName,
		Message:     fmt.Sprintf("unknown filter %q", name),
		Pos:         &pos,
		Span:        wordSpan(pos, name),
		Suggestions: suggestions,
	}
}

// NewMissingFilterValueError reports a filter with no usable value after
// the colon.
func NewMissingFilterValueError(name token.FilterName, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeMissingFilterValue,
		Message: fmt.Sprintf("filter %q requires a value", name),
		Pos:     &pos,
		Suggestions: []string{
			usageExample(name),
		},
	}
}

// NewInvalidDateFormatError reports a date value that is neither a real
// ISO calendar date nor a relative-date keyword.
func NewInvalidDateFormatError(name token.FilterName, value string, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeInvalidDateFormat,
		Message: fmt.Sprintf("invalid date %q for filter %q", value, name),
		Pos:     &pos,
		Span:    wordSpan(pos, value),
		Suggestions: []string{
			fmt.Sprintf("use ISO format: %s:2025-01-01", name),
			"or a relative date: " + strings.Join(RelativeDates(), ", "),
		},
	}
}

// NewInvalidRangeError reports a min..max range whose minimum exceeds its
// maximum.
func NewInvalidRangeError(min, max int64, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeInvalidRange,
		Message: fmt.Sprintf("invalid range %d..%d: minimum is greater than maximum", min, max),
		Pos:     &pos,
		Suggestions: []string{
			fmt.Sprintf("write the smaller bound first: %d..%d", max, min),
			"example: votes:10..100",
		},
	}
}

// NewUnclosedQuoteError reports a phrase missing its closing quote.
func NewUnclosedQuoteError(pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeUnclosedQuote,
		Message: "unclosed quote in phrase",
		Pos:     &pos,
		Suggestions: []string{
			`close the phrase with a double quote: "epic comeback"`,
		},
	}
}

// NewInvalidComparisonOpError reports a comparison operator applied to a
// filter that does not take numeric values.
func NewInvalidComparisonOpError(name token.FilterName, op string, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeInvalidComparisonOp,
		Message: fmt.Sprintf("comparison operator %q is not valid for filter %q", op, name),
		Pos:     &pos,
		Suggestions: []string{
			usageExample(name),
			"comparison operators work with numeric filters: views, votes, duration, karma",
		},
	}
}

// NewQueryTooLongError reports an input exceeding the configured maximum
// length. Raised before tokenization, so it carries no position.
func NewQueryTooLongError(length, max int) *QueryError {
	return &QueryError{
		Code:    CodeQueryTooLong,
		Message: fmt.Sprintf("query is %d characters long (maximum %d)", length, max),
		Suggestions: []string{
			"shorten the query or split it into separate searches",
		},
	}
}

// NewTooManyFiltersError reports a query exceeding the configured filter
// count.
func NewTooManyFiltersError(max int, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeTooManyFilters,
		Message: fmt.Sprintf("too many filters (maximum %d)", max),
		Pos:     &pos,
		Suggestions: []string{
			"remove some filters or combine alternatives with OR: game:valorant OR game:csgo",
		},
	}
}

// NewNestingTooDeepError reports filter groups nested beyond the
// configured depth.
func NewNestingTooDeepError(max int, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeNestingTooDeep,
		Message: fmt.Sprintf("filter groups nested too deeply (maximum depth %d)", max),
		Pos:     &pos,
		Suggestions: []string{
			"flatten the grouping: (game:valorant OR game:csgo) is:featured",
		},
	}
}

// NewInvalidEnumValueError reports a value outside a filter's fixed value
// set. The valid set is always listed in the suggestions.
func NewInvalidEnumValueError(name token.FilterName, value string, valid []string, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeInvalidEnumValue,
		Message: fmt.Sprintf("invalid value %q for filter %q", value, name),
		Pos:     &pos,
		Span:    wordSpan(pos, value),
		Suggestions: []string{
			fmt.Sprintf("valid values for %s: %s", name, strings.Join(valid, ", ")),
			usageExample(name),
		},
	}
}

// NewTooManyOrClausesError reports a query exceeding the configured OR
// clause count.
func NewTooManyOrClausesError(max int, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeTooManyOrClauses,
		Message: fmt.Sprintf("too many OR clauses (maximum %d)", max),
		Pos:     &pos,
		Suggestions: []string{
			"reduce the number of OR alternatives",
		},
	}
}

// NewTooManyTermsError reports a query exceeding the configured free-text
// term count.
func NewTooManyTermsError(max int, pos token.Position) *QueryError {
	return &QueryError{
		Code:    CodeTooManyTerms,
		Message: fmt.Sprintf("too many search terms (maximum %d)", max),
		Pos:     &pos,
		Suggestions: []string{
			`quote multi-word phrases to count them as one term: "epic comeback"`,
		},
	}
}
