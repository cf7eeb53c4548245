package parser

// CodeInfo describes one error code for documentation surfaces: the CLI
// codes command and the HTTP codes endpoint.
type CodeInfo struct {
	Code        Code   `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

// codeRegistry lists every code in taxonomy order. Example holds a query
// that triggers the code, where one exists.
var codeRegistry = []CodeInfo{
	{
		Code:        CodeInvalidFilterName,
		Name:        "INVALID_FILTER_NAME",
		Description: "The name before the colon is not a recognized filter.",
		Example:     `gme:valorant`,
	},
	{
		Code:        CodeMissingFilterValue,
		Name:        "MISSING_FILTER_VALUE",
		Description: "A filter has no usable value after the colon.",
		Example:     `game:`,
	},
	{
		Code:        CodeInvalidDateFormat,
		Name:        "INVALID_DATE_FORMAT",
		Description: "A date filter value is neither a real YYYY-MM-DD calendar date nor a relative keyword.",
		Example:     `after:2025-13-45`,
	},
	{
		Code:        CodeInvalidRange,
		Name:        "INVALID_RANGE",
		Description: "A numeric range's minimum exceeds its maximum.",
		Example:     `duration:60..10`,
	},
	{
		Code:        CodeUnclosedQuote,
		Name:        "UNCLOSED_QUOTE",
		Description: "Reserved for phrases missing their closing quote. The lexer currently recovers by taking the phrase text through the end of the input, so parsing does not raise this code.",
	},
	{
		Code:        CodeInvalidComparisonOp,
		Name:        "INVALID_COMPARISON_OPERATOR",
		Description: "A comparison operator was applied to a filter that does not take numeric values.",
		Example:     `game:>valorant`,
	},
	{
		Code:        CodeQueryTooLong,
		Name:        "QUERY_TOO_LONG",
		Description: "The raw query exceeds the configured maximum length.",
	},
	{
		Code:        CodeTooManyFilters,
		Name:        "TOO_MANY_FILTERS",
		Description: "The query holds more filters than the configured maximum.",
	},
	{
		Code:        CodeNestingTooDeep,
		Name:        "NESTING_TOO_DEEP",
		Description: "Parenthesized filter groups nest beyond the configured maximum depth.",
	},
	{
		Code:        CodeInvalidEnumValue,
		Name:        "INVALID_ENUM_VALUE",
		Description: "A fixed-value filter was given a value outside its valid set.",
		Example:     `sort:newest`,
	},
	{
		Code:        CodeTooManyOrClauses,
		Name:        "TOO_MANY_OR_CLAUSES",
		Description: "The query chains more OR alternatives than the configured maximum.",
	},
	{
		Code:        CodeTooManyTerms,
		Name:        "TOO_MANY_TERMS",
		Description: "The query holds more free-text terms than the configured maximum.",
	},
}

// AllCodes returns the full code registry in taxonomy order.
func AllCodes() []CodeInfo {
	out := make([]CodeInfo, len(codeRegistry))
	copy(out, codeRegistry)
	return out
}

// LookupCode returns the registry entry for a code.
func LookupCode(code Code) (CodeInfo, bool) {
	for _, info := range codeRegistry {
		if info.Code == code {
			return info, true
		}
	}
	return CodeInfo{}, false
}

// Name returns the registry name for the code, or the raw code string for
// codes outside the taxonomy.
func (c Code) Name() string {
	if info, ok := LookupCode(c); ok {
		return info.Name
	}
	return string(c)
}
