package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/subculture-collective/clipper-sub005/internal/cli/output"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// errInvalidQuery drives the non-zero exit after diagnostics have already
// been rendered.
var errInvalidQuery = errors.New("invalid query")

// renderQueryError prints a parse failure in the active output mode.
// The returned error carries the exit status, not the message.
func renderQueryError(r *output.Renderer, err error) error {
	var qe *parser.QueryError
	if !errors.As(err, &qe) {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if jsonErr := r.JSON(map[string]any{"error": qe}); jsonErr != nil {
			return jsonErr
		}
		return errInvalidQuery
	}

	styles := r.Styles()
	for i, line := range strings.Split(qe.Format(), "\n") {
		if i == 0 {
			r.Println(styles.Error.Render(line))
			continue
		}
		r.Println(styles.Muted.Render(line))
	}
	return errInvalidQuery
}

// writeJSONBlock writes v as an indented JSON code block for markdown
// consumers.
func writeJSONBlock(r *output.Renderer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	r.Println("```json")
	r.Println(strings.TrimRight(buf.String(), "\n"))
	r.Println("```")
	return nil
}

// writeQueryTree renders the parsed query as an indented tree.
func writeQueryTree(r *output.Renderer, q *parser.Query) {
	styles := r.Styles()

	r.Println(styles.Title.Render("Query"))

	r.Println(styles.Header.Render(fmt.Sprintf("  Terms (%d)", len(q.Terms))))
	for _, t := range q.Terms {
		label := t.Value
		if t.Quoted {
			label = strconv.Quote(t.Value)
		}
		if t.Negated {
			label = "-" + label
		}
		line := "    " + label
		if note := termNote(t); note != "" {
			line += " " + styles.Muted.Render(note)
		}
		r.Println(line)
	}

	r.Println(styles.Header.Render(fmt.Sprintf("  Filters (%d)", len(q.Filters))))
	for _, f := range q.Filters {
		writeFilterExpr(r, f, 2)
	}
}

func termNote(t parser.Term) string {
	var notes []string
	if t.Quoted {
		notes = append(notes, "phrase")
	}
	if t.Negated {
		notes = append(notes, "negated")
	}
	notes = append(notes, fmt.Sprintf("@%d:%d", t.Pos.Line, t.Pos.Column))
	return "(" + strings.Join(notes, ", ") + ")"
}

func writeFilterExpr(r *output.Renderer, expr parser.FilterExpr, depth int) {
	styles := r.Styles()
	indent := strings.Repeat("  ", depth)

	switch node := expr.(type) {
	case *parser.Filter:
		label := filterLabel(node)
		note := styles.Muted.Render(fmt.Sprintf("(%s, @%d:%d)", parser.ValueKindOf(node.Name), node.Pos.Line, node.Pos.Column))
		r.Println(indent + label + " " + note)
	case *parser.GroupedFilter:
		r.Println(indent + styles.Bold.Render("group"))
		for _, child := range node.Filters {
			writeFilterExpr(r, child, depth+1)
		}
	case *parser.BooleanExpr:
		r.Println(indent + styles.Bold.Render(node.Op))
		writeFilterExpr(r, node.Left, depth+1)
		writeFilterExpr(r, node.Right, depth+1)
	}
}

// filterLabel renders a filter the way it is written in a query.
func filterLabel(f *parser.Filter) string {
	var b strings.Builder
	if f.Negated {
		b.WriteString("-")
	}
	b.WriteString(string(f.Name))
	b.WriteString(":")
	b.WriteString(valueLabel(f.Value))
	return b.String()
}

func valueLabel(v parser.FilterValue) string {
	switch val := v.(type) {
	case *parser.RangeValue:
		switch val.Op {
		case ">", ">=":
			if val.Min != nil {
				return val.Op + strconv.FormatInt(*val.Min, 10)
			}
		case "<", "<=":
			if val.Max != nil {
				return val.Op + strconv.FormatInt(*val.Max, 10)
			}
		case "=":
			if val.Min != nil {
				return strconv.FormatInt(*val.Min, 10)
			}
		default:
			if val.Min != nil && val.Max != nil {
				return fmt.Sprintf("%d..%d", *val.Min, *val.Max)
			}
		}
	case *parser.DateValue:
		return val.Date
	case *parser.FlagValue:
		return val.Flag
	case *parser.StringValue:
		if val.Quoted {
			return strconv.Quote(val.Value)
		}
		return val.Value
	}
	return ""
}
