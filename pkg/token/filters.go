package token

import "strings"

// FilterName identifies one of the recognized search filters.
// Names are always stored lowercase; user input is matched
// case-insensitively through LookupFilter.
type FilterName string

// The closed set of filter names the query language understands.
const (
	FilterGame        FilterName = "game"
	FilterCreator     FilterName = "creator"
	FilterBroadcaster FilterName = "broadcaster"
	FilterTag         FilterName = "tag"
	FilterLanguage    FilterName = "language"
	FilterDuration    FilterName = "duration"
	FilterViews       FilterName = "views"
	FilterVotes       FilterName = "votes"
	FilterAfter       FilterName = "after"
	FilterBefore      FilterName = "before"
	FilterIs          FilterName = "is"
	FilterSort        FilterName = "sort"
	FilterKarma       FilterName = "karma"
	FilterRole        FilterName = "role"
	FilterType        FilterName = "type"
)

// filterNames lists every filter in declaration order, for stable
// listings and suggestion output.
var filterNames = []FilterName{
	FilterGame,
	FilterCreator,
	FilterBroadcaster,
	FilterTag,
	FilterLanguage,
	FilterDuration,
	FilterViews,
	FilterVotes,
	FilterAfter,
	FilterBefore,
	FilterIs,
	FilterSort,
	FilterKarma,
	FilterRole,
	FilterType,
}

// filterSet indexes the closed set for lookup.
var filterSet = func() map[FilterName]struct{} {
	m := make(map[FilterName]struct{}, len(filterNames))
	for _, n := range filterNames {
		m[n] = struct{}{}
	}
	return m
}()

// LookupFilter matches name against the closed filter set,
// case-insensitively. The returned FilterName is normalized to lowercase.
func LookupFilter(name string) (FilterName, bool) {
	n := FilterName(strings.ToLower(name))
	_, ok := filterSet[n]
	return n, ok
}

// IsFilterName returns true if name is a recognized filter,
// matched case-insensitively.
func IsFilterName(name string) bool {
	_, ok := LookupFilter(name)
	return ok
}

// FilterNames returns the closed filter set in declaration order.
func FilterNames() []FilterName {
	out := make([]FilterName, len(filterNames))
	copy(out, filterNames)
	return out
}

// FilterNameStrings returns the closed filter set as plain strings,
// for error suggestions and completion.
func FilterNameStrings() []string {
	out := make([]string, len(filterNames))
	for i, n := range filterNames {
		out[i] = string(n)
	}
	return out
}
