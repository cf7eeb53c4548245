// Package format renders parsed queries back into canonical query text.
//
// The canonical form is a single line: free-text terms first, filters
// second, single spaces between elements, lowercase filter names, tight
// operators, and quotes only where the content needs them. Formatting a
// query and parsing the result yields the same structure, so the formatter
// can act as a query normalizer.
package format

import (
	"strconv"
	"strings"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// Format renders a query in canonical form. A nil or empty query formats
// as the empty string.
func Format(q *parser.Query) string {
	if q == nil {
		return ""
	}
	p := &printer{}
	for _, t := range q.Terms {
		p.element()
		p.term(t)
	}
	for _, f := range q.Filters {
		p.element()
		p.filterExpr(f)
	}
	return p.String()
}

// printer accumulates canonical query text.
type printer struct {
	out strings.Builder
}

func (p *printer) String() string {
	return p.out.String()
}

func (p *printer) write(s string) {
	p.out.WriteString(s)
}

// element separates top-level query elements with a single space.
func (p *printer) element() {
	if p.out.Len() > 0 {
		p.write(" ")
	}
}

func (p *printer) term(t parser.Term) {
	if t.Negated {
		p.write("-")
	}
	p.text(t.Value, t.Quoted)
}

func (p *printer) filterExpr(expr parser.FilterExpr) {
	switch node := expr.(type) {
	case *parser.Filter:
		p.filter(node)
	case *parser.GroupedFilter:
		p.group(node)
	case *parser.BooleanExpr:
		p.filterExpr(node.Left)
		p.write(" OR ")
		p.filterExpr(node.Right)
	}
}

func (p *printer) filter(f *parser.Filter) {
	if f.Negated {
		p.write("-")
	}
	p.write(string(f.Name))
	p.write(":")
	p.value(f.Value)
}

func (p *printer) group(g *parser.GroupedFilter) {
	p.write("(")
	for i, child := range g.Filters {
		if i > 0 {
			p.write(" ")
		}
		p.filterExpr(child)
	}
	p.write(")")
}

func (p *printer) value(v parser.FilterValue) {
	switch val := v.(type) {
	case *parser.RangeValue:
		p.rangeValue(val)
	case *parser.DateValue:
		p.write(val.Date)
	case *parser.FlagValue:
		p.write(val.Flag)
	case *parser.StringValue:
		p.text(val.Value, val.Quoted)
	}
}

func (p *printer) rangeValue(v *parser.RangeValue) {
	switch v.Op {
	case ">", ">=":
		if v.Min != nil {
			p.write(v.Op)
			p.write(strconv.FormatInt(*v.Min, 10))
		}
	case "<", "<=":
		if v.Max != nil {
			p.write(v.Op)
			p.write(strconv.FormatInt(*v.Max, 10))
		}
	case "=":
		if v.Min != nil {
			p.write(strconv.FormatInt(*v.Min, 10))
		}
	default:
		if v.Min != nil && v.Max != nil {
			p.write(strconv.FormatInt(*v.Min, 10))
			p.write("..")
			p.write(strconv.FormatInt(*v.Max, 10))
		}
	}
}

// text writes a term or string value, quoting when the original was quoted
// or the content would not survive a bare round trip.
func (p *printer) text(s string, quoted bool) {
	if quoted || needsQuoting(s) {
		p.write(`"`)
		p.write(escapeQuotes(s))
		p.write(`"`)
		return
	}
	p.write(s)
}

func needsQuoting(s string) bool {
	return s == "" || strings.ContainsAny(s, " \t\r\n\"():")
}

func escapeQuotes(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
