// Package parser turns a clip search query string into a validated query
// tree: free-text terms plus typed name:value filters, with structured
// errors carrying positions and remediation suggestions.
//
// # Usage
//
//	query, err := parser.Parse(`game:valorant -is:nsfw "epic comeback"`)
//	if err != nil {
//	    var qerr *parser.QueryError
//	    if errors.As(err, &qerr) {
//	        // render qerr.Format() or marshal qerr to JSON
//	    }
//	}
//
// # Grammar Overview
//
// The parser implements a recursive descent parser over the token stream:
//
//	query             → (filterExpr | term)* EOF
//	filterExpr(level) → (group(level) | filter) [OR filterExpr(level)]
//	group(level)      → '(' filterExpr(level+1)* ')'
//	filter            → ['-'] WORD ':' value
//	term              → ['-'] any non-structural token
//
// Which value form a filter takes depends only on its name: numeric
// ranges for duration/views/votes/karma, dates for after/before, flags
// for is, fixed value sets for sort/type/language/role, verbatim strings
// for everything else.
//
// Parsing is fail-fast: the first violation aborts the parse and returns
// a *QueryError from the closed code taxonomy. Limits on query length,
// filter count, OR clauses, nesting depth and term count are enforced
// incrementally, so the earliest violation in token order is the one
// reported.
package parser

import (
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// Default parsing limits.
const (
	DefaultMaxQueryLength  = 1000
	DefaultMaxFilters      = 50
	DefaultMaxNestingDepth = 10
	DefaultMaxOrClauses    = 20
	DefaultMaxTerms        = 100
)

// Config holds the parsing limits. The zero value of any field means
// "use the default", so a partially filled Config is valid.
type Config struct {
	MaxQueryLength  int `json:"max_query_length" koanf:"max_query_length"`
	MaxFilters      int `json:"max_filters" koanf:"max_filters"`
	MaxNestingDepth int `json:"max_nesting_depth" koanf:"max_nesting_depth"`
	MaxOrClauses    int `json:"max_or_clauses" koanf:"max_or_clauses"`
	MaxTerms        int `json:"max_terms" koanf:"max_terms"`
}

// DefaultConfig returns the default parsing limits.
func DefaultConfig() Config {
	return Config{
		MaxQueryLength:  DefaultMaxQueryLength,
		MaxFilters:      DefaultMaxFilters,
		MaxNestingDepth: DefaultMaxNestingDepth,
		MaxOrClauses:    DefaultMaxOrClauses,
		MaxTerms:        DefaultMaxTerms,
	}
}

// withDefaults fills unset limits with their defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxQueryLength <= 0 {
		c.MaxQueryLength = d.MaxQueryLength
	}
	if c.MaxFilters <= 0 {
		c.MaxFilters = d.MaxFilters
	}
	if c.MaxNestingDepth <= 0 {
		c.MaxNestingDepth = d.MaxNestingDepth
	}
	if c.MaxOrClauses <= 0 {
		c.MaxOrClauses = d.MaxOrClauses
	}
	if c.MaxTerms <= 0 {
		c.MaxTerms = d.MaxTerms
	}
	return c
}

// Parse parses a raw query string with the default limits. On failure it
// returns a *QueryError for the first violation; no partial query is
// returned.
func Parse(input string) (*Query, error) {
	return ParseWithConfig(input, Config{})
}

// ParseWithConfig parses a raw query string with explicit limits. The
// length limit applies to the raw input and is checked before
// tokenization.
func ParseWithConfig(input string, cfg Config) (*Query, error) {
	cfg = cfg.withDefaults()
	if len(input) > cfg.MaxQueryLength {
		return nil, NewQueryTooLongError(len(input), cfg.MaxQueryLength)
	}
	return NewParser(Tokenize(input), cfg).Parse()
}

// Parser is a single-pass recursive descent parser over a token
// sequence. It holds only call-local state, so distinct calls never
// interact and concurrent use of separate parsers is safe.
type Parser struct {
	tokens []token.Token
	pos    int
	config Config

	filterCount int
	orCount     int
	termCount   int
}

// NewParser wraps an already-lexed token sequence. The sequence must end
// with an EOF token, as Tokenize guarantees.
func NewParser(tokens []token.Token, cfg Config) *Parser {
	return &Parser{tokens: tokens, config: cfg.withDefaults()}
}

// Parse consumes the token sequence and builds the query tree.
func (p *Parser) Parse() (*Query, error) {
	query := &Query{
		Terms:   []Term{},
		Filters: []FilterExpr{},
	}

	for !p.check(TOKEN_EOF) {
		switch {
		case p.filterAhead(), p.check(TOKEN_LPAREN):
			expr, err := p.parseFilterExpr(0)
			if err != nil {
				return nil, err
			}
			query.Filters = append(query.Filters, expr)
		default:
			term, ok, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			if ok {
				query.Terms = append(query.Terms, term)
			}
		}
	}
	return query, nil
}

// ---------- Token Helpers ----------

// current returns the token under the cursor without consuming it.
func (p *Parser) current() token.Token {
	return p.peekAt(0)
}

// peekAt returns the token n positions ahead, clamped to the trailing EOF.
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	return p.tokens[i]
}

// advance consumes the current token and returns it, never moving past EOF.
func (p *Parser) advance() token.Token {
	tok := p.current()
	if tok.Type != TOKEN_EOF {
		p.pos++
	}
	return tok
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.current().Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// filterAhead returns true if the upcoming tokens form the start of a
// filter: WORD COLON, optionally preceded by NEGATION.
func (p *Parser) filterAhead() bool {
	if p.check(TOKEN_WORD) && p.peekAt(1).Type == TOKEN_COLON {
		return true
	}
	return p.check(TOKEN_NEGATION) &&
		p.peekAt(1).Type == TOKEN_WORD &&
		p.peekAt(2).Type == TOKEN_COLON
}

// ---------- Productions ----------

// parseTerm consumes one free-text term. Any non-structural token counts
// as a term, so stray punctuation searches literally instead of erroring.
// A NEGATION immediately before EOF carries no term at all; ok is false
// in that case.
func (p *Parser) parseTerm() (Term, bool, error) {
	start := p.current().Pos

	negated := false
	if p.match(TOKEN_NEGATION) {
		negated = true
		if p.check(TOKEN_EOF) {
			return Term{}, false, nil
		}
	}

	tok := p.advance()

	p.termCount++
	if p.termCount > p.config.MaxTerms {
		return Term{}, false, NewTooManyTermsError(p.config.MaxTerms, start)
	}

	return Term{
		Value:   tok.Literal,
		Negated: negated,
		Quoted:  tok.Type == TOKEN_PHRASE,
		Pos:     start,
	}, true, nil
}

// parseFilterExpr parses one filter expression at the given nesting
// level: a group or a single filter, optionally chained with OR. OR is
// right-associative, so A OR B OR C becomes A OR (B OR C).
func (p *Parser) parseFilterExpr(level int) (FilterExpr, error) {
	start := p.current().Pos

	var left FilterExpr
	var err error
	if p.check(TOKEN_LPAREN) {
		left, err = p.parseGroup(level)
	} else {
		left, err = p.parseFilter()
	}
	if err != nil {
		return nil, err
	}

	if !p.check(TOKEN_OR) {
		return left, nil
	}
	orTok := p.advance()

	p.orCount++
	if p.orCount > p.config.MaxOrClauses {
		return nil, NewTooManyOrClausesError(p.config.MaxOrClauses, orTok.Pos)
	}

	right, err := p.parseFilterExpr(level)
	if err != nil {
		return nil, err
	}
	return &BooleanExpr{Op: "OR", Left: left, Right: right, Pos: start}, nil
}

// parseGroup parses a parenthesized list of filter expressions. An empty
// group () is legal. A group left open at EOF closes implicitly.
func (p *Parser) parseGroup(level int) (FilterExpr, error) {
	lparen := p.advance()

	level++
	if level > p.config.MaxNestingDepth {
		return nil, NewNestingTooDeepError(p.config.MaxNestingDepth, lparen.Pos)
	}

	group := &GroupedFilter{
		Filters: []FilterExpr{},
		Pos:     lparen.Pos,
	}
	for !p.check(TOKEN_RPAREN) && !p.check(TOKEN_EOF) {
		expr, err := p.parseFilterExpr(level)
		if err != nil {
			return nil, err
		}
		group.Filters = append(group.Filters, expr)
	}
	p.match(TOKEN_RPAREN)
	return group, nil
}

// parseFilter parses ['-'] WORD ':' value. The name is validated against
// the closed filter set before anything after the colon is looked at.
func (p *Parser) parseFilter() (FilterExpr, error) {
	start := p.current().Pos

	negated := p.match(TOKEN_NEGATION)

	nameTok := p.current()
	if nameTok.Type != TOKEN_WORD {
		return nil, NewInvalidFilterNameError(nameTok.Literal, nameTok.Pos)
	}
	name, ok := token.LookupFilter(nameTok.Literal)
	if !ok {
		return nil, NewInvalidFilterNameError(nameTok.Literal, nameTok.Pos)
	}
	p.advance()

	if !p.match(TOKEN_COLON) {
		return nil, NewMissingFilterValueError(name, nameTok.Pos)
	}

	p.filterCount++
	if p.filterCount > p.config.MaxFilters {
		return nil, NewTooManyFiltersError(p.config.MaxFilters, nameTok.Pos)
	}

	value, err := p.parseFilterValue(name)
	if err != nil {
		return nil, err
	}
	return &Filter{Name: name, Value: value, Negated: negated, Pos: start}, nil
}
