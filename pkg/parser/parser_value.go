package parser

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// ValueKind names the value form a filter takes.
type ValueKind string

// The value forms, one per FilterValue variant plus enum, which shares
// StringValue after validation.
const (
	ValueKindRange  ValueKind = "range"
	ValueKindDate   ValueKind = "date"
	ValueKindFlag   ValueKind = "flag"
	ValueKindEnum   ValueKind = "enum"
	ValueKindString ValueKind = "string"
)

// ValueKindOf returns the value form for a filter name. The mapping is
// fixed per name and not configurable.
func ValueKindOf(name token.FilterName) ValueKind {
	switch name {
	case token.FilterDuration, token.FilterViews, token.FilterVotes, token.FilterKarma:
		return ValueKindRange
	case token.FilterAfter, token.FilterBefore:
		return ValueKindDate
	case token.FilterIs:
		return ValueKindFlag
	case token.FilterSort, token.FilterType, token.FilterLanguage, token.FilterRole:
		return ValueKindEnum
	default:
		return ValueKindString
	}
}

// enumValues holds the fixed value set of each enum filter, in listing
// order for error suggestions.
var enumValues = map[token.FilterName][]string{
	token.FilterSort:     {"relevance", "recent", "popular"},
	token.FilterType:     {"clips", "users", "games", "tags", "all"},
	token.FilterRole:     {"user", "moderator", "admin"},
	token.FilterLanguage: {"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh"},
}

// flagValues holds the values the is filter accepts.
var flagValues = []string{"featured", "nsfw"}

// EnumValues returns the fixed value set for an enum filter, in listing
// order. ok is false for filters taking other value forms.
func EnumValues(name token.FilterName) ([]string, bool) {
	valid, ok := enumValues[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(valid), true
}

// FlagValues returns the values the is filter accepts.
func FlagValues() []string {
	return slices.Clone(flagValues)
}

// parseFilterValue dispatches on the filter's value form. The cursor
// stands on the first token after the colon.
func (p *Parser) parseFilterValue(name token.FilterName) (FilterValue, error) {
	switch ValueKindOf(name) {
	case ValueKindRange:
		return p.parseRangeValue(name)
	case ValueKindDate:
		return p.parseDateValue(name)
	case ValueKindFlag:
		return p.parseFlagValue(name)
	case ValueKindEnum:
		return p.parseEnumValue(name)
	default:
		return p.parseStringValue(name)
	}
}

// parseRangeValue parses a numeric value: a comparison (>10), an interval
// (10..100), or a bare number, which normalizes to an equality pinning
// both bounds.
func (p *Parser) parseRangeValue(name token.FilterName) (FilterValue, error) {
	switch {
	case p.check(TOKEN_COMPARISON):
		op := p.advance().Literal
		numTok := p.current()
		if numTok.Type != TOKEN_NUMBER {
			return nil, NewMissingFilterValueError(name, numTok.Pos)
		}
		p.advance()
		return rangeForOp(op, parseNumber(numTok.Literal)), nil

	case p.check(TOKEN_NUMBER):
		loTok := p.advance()
		lo := parseNumber(loTok.Literal)
		if !p.match(TOKEN_RANGE) {
			return rangeForOp("=", lo), nil
		}
		hiTok := p.current()
		if hiTok.Type != TOKEN_NUMBER {
			return nil, NewMissingFilterValueError(name, hiTok.Pos)
		}
		p.advance()
		hi := parseNumber(hiTok.Literal)
		if lo > hi {
			return nil, NewInvalidRangeError(lo, hi, loTok.Pos)
		}
		return &RangeValue{Min: &lo, Max: &hi}, nil

	default:
		return nil, NewMissingFilterValueError(name, p.current().Pos)
	}
}

// rangeForOp builds the range for a comparison operator. Lower-bound
// operators fill Min, upper-bound operators fill Max, and equality pins
// both bounds to the same number.
func rangeForOp(op string, n int64) *RangeValue {
	v := &RangeValue{Op: op}
	switch op {
	case ">", ">=":
		v.Min = &n
	case "<", "<=":
		v.Max = &n
	default:
		lo, hi := n, n
		v.Min, v.Max = &lo, &hi
	}
	return v
}

// parseNumber converts a NUMBER literal to int64. The lexer guarantees
// the literal is all ASCII digits; values beyond the int64 range clamp to
// the maximum rather than failing.
func parseNumber(lit string) int64 {
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return n // ParseInt returns the clamped maximum on range errors
	}
	return n
}

// parseDateValue parses an ISO calendar date or a relative-date keyword.
func (p *Parser) parseDateValue(name token.FilterName) (FilterValue, error) {
	tok := p.current()
	switch tok.Type {
	case TOKEN_WORD:
		lower := strings.ToLower(tok.Literal)
		if IsRelativeDate(lower) {
			p.advance()
			return &DateValue{Date: lower, Relative: true}, nil
		}
		if isISODate(tok.Literal) {
			p.advance()
			return &DateValue{Date: tok.Literal}, nil
		}
		return nil, NewInvalidDateFormatError(name, tok.Literal, tok.Pos)

	case TOKEN_NUMBER:
		// The lexer splits 2025-01-01 into NUMBER(2025) WORD(-01-01);
		// rejoin the pieces before validating.
		if next := p.peekAt(1); next.Type == TOKEN_WORD {
			combined := tok.Literal + next.Literal
			if isISODate(combined) {
				p.advance()
				p.advance()
				return &DateValue{Date: combined}, nil
			}
			return nil, NewInvalidDateFormatError(name, combined, tok.Pos)
		}
		return nil, NewInvalidDateFormatError(name, tok.Literal, tok.Pos)

	case TOKEN_COMPARISON:
		return nil, NewInvalidComparisonOpError(name, tok.Literal, tok.Pos)

	default:
		return nil, NewMissingFilterValueError(name, tok.Pos)
	}
}

// isoDateRe matches the YYYY-MM-DD shape; calendar validity is checked
// separately.
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// isISODate returns true if s is a YYYY-MM-DD string naming a real
// calendar date.
func isISODate(s string) bool {
	if !isoDateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// parseFlagValue parses the is filter's value against the flag set.
func (p *Parser) parseFlagValue(name token.FilterName) (FilterValue, error) {
	tok := p.current()
	switch tok.Type {
	case TOKEN_WORD, TOKEN_PHRASE, TOKEN_NUMBER:
		flag := strings.ToLower(tok.Literal)
		if !slices.Contains(flagValues, flag) {
			return nil, NewInvalidEnumValueError(name, tok.Literal, FlagValues(), tok.Pos)
		}
		p.advance()
		return &FlagValue{Flag: flag}, nil
	case TOKEN_COMPARISON:
		return nil, NewInvalidComparisonOpError(name, tok.Literal, tok.Pos)
	default:
		return nil, NewMissingFilterValueError(name, tok.Pos)
	}
}

// parseEnumValue parses a value against the filter's fixed value set.
// Valid values come out lowercased as StringValue.
func (p *Parser) parseEnumValue(name token.FilterName) (FilterValue, error) {
	valid := enumValues[name]
	tok := p.current()
	switch tok.Type {
	case TOKEN_WORD, TOKEN_PHRASE, TOKEN_NUMBER:
		value := strings.ToLower(tok.Literal)
		if !slices.Contains(valid, value) {
			return nil, NewInvalidEnumValueError(name, tok.Literal, slices.Clone(valid), tok.Pos)
		}
		p.advance()
		return &StringValue{Value: value, Quoted: tok.Type == TOKEN_PHRASE}, nil
	case TOKEN_COMPARISON:
		return nil, NewInvalidComparisonOpError(name, tok.Literal, tok.Pos)
	default:
		return nil, NewMissingFilterValueError(name, tok.Pos)
	}
}

// parseStringValue takes a word, number, or quoted phrase verbatim.
func (p *Parser) parseStringValue(name token.FilterName) (FilterValue, error) {
	tok := p.current()
	switch tok.Type {
	case TOKEN_WORD, TOKEN_NUMBER:
		p.advance()
		return &StringValue{Value: tok.Literal}, nil
	case TOKEN_PHRASE:
		p.advance()
		return &StringValue{Value: tok.Literal, Quoted: true}, nil
	case TOKEN_COMPARISON:
		return nil, NewInvalidComparisonOpError(name, tok.Literal, tok.Pos)
	default:
		return nil, NewMissingFilterValueError(name, tok.Pos)
	}
}
