package parser

import (
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// FilterInfo describes one filter for documentation surfaces: the CLI
// filters command and the HTTP filters endpoint.
type FilterInfo struct {
	Name        token.FilterName `json:"name"`
	Kind        ValueKind        `json:"kind"`
	Values      []string         `json:"values,omitempty"`
	Example     string           `json:"example"`
	Description string           `json:"description"`
}

var filterDescriptions = map[token.FilterName]string{
	token.FilterGame:        "Game the clip was taken from.",
	token.FilterCreator:     "Username of the person who created the clip.",
	token.FilterBroadcaster: "Username of the channel the clip was taken from.",
	token.FilterTag:         "Tag attached to the clip.",
	token.FilterLanguage:    "Broadcast language code.",
	token.FilterDuration:    "Clip length in seconds.",
	token.FilterViews:       "View count.",
	token.FilterVotes:       "Vote score.",
	token.FilterAfter:       "Clips created on or after a date.",
	token.FilterBefore:      "Clips created on or before a date.",
	token.FilterIs:          "Boolean clip attributes.",
	token.FilterSort:        "Result ordering.",
	token.FilterKarma:       "Karma of the submitting user.",
	token.FilterRole:        "Role of the submitting user.",
	token.FilterType:        "Which entity collections to search.",
}

// AllFilters returns one entry per recognized filter, in canonical
// listing order. Enum and flag filters carry their fixed value sets.
func AllFilters() []FilterInfo {
	names := token.FilterNames()
	out := make([]FilterInfo, 0, len(names))
	for _, name := range names {
		info := FilterInfo{
			Name:        name,
			Kind:        ValueKindOf(name),
			Example:     usageExamples[name],
			Description: filterDescriptions[name],
		}
		switch info.Kind {
		case ValueKindEnum:
			info.Values, _ = EnumValues(name)
		case ValueKindFlag:
			info.Values = FlagValues()
		}
		out = append(out, info)
	}
	return out
}
