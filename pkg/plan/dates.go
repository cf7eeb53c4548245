package plan

import (
	"fmt"
	"time"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// isoDateLayout is the wire format for absolute dates in queries and plans.
const isoDateLayout = "2006-01-02"

// ResolveRelativeDate turns a relative date keyword into a concrete point
// in time, anchored at the midnight of now in now's location.
func ResolveRelativeDate(keyword string, now time.Time) (time.Time, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch keyword {
	case "today":
		return day, nil
	case "yesterday":
		return day.AddDate(0, 0, -1), nil
	case "last-week":
		return day.AddDate(0, 0, -7), nil
	case "last-month":
		return day.AddDate(0, -1, 0), nil
	case "last-year":
		return day.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownRelativeDate, keyword)
	}
}

// resolveDate materializes a date filter value as a time.Time.
func resolveDate(v *parser.DateValue, now time.Time) (time.Time, error) {
	if v.Relative {
		return ResolveRelativeDate(v.Date, now)
	}
	t, err := time.Parse(isoDateLayout, v.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrUnsupportedNode, v.Date)
	}
	return t, nil
}
