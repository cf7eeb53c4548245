package parser

import (
	"strings"
	"unicode"

	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// Lexer tokenizes a search query string.
//
// The lexer never fails: unterminated phrases are emitted with whatever was
// scanned, and unrecognized characters are skipped without a token. All
// grammar-level validation is deferred to the parser.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// prevChar returns the character before the current one, or 0 at the start
// of input.
func (l *Lexer) prevChar() byte {
	if l.pos == 0 {
		return 0
	}
	return l.input[l.pos-1]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		pos := l.currentPos()

		switch l.ch {
		case 0:
			return Token{Type: TOKEN_EOF, Literal: "", Pos: pos}

		case '(':
			l.readChar()
			return Token{Type: TOKEN_LPAREN, Literal: "(", Pos: pos}

		case ')':
			l.readChar()
			return Token{Type: TOKEN_RPAREN, Literal: ")", Pos: pos}

		case ':':
			l.readChar()
			return Token{Type: TOKEN_COLON, Literal: ":", Pos: pos}

		case '"':
			return Token{Type: TOKEN_PHRASE, Literal: l.readPhrase(), Pos: pos}

		case '-':
			if l.inNegationContext() {
				l.readChar()
				return Token{Type: TOKEN_NEGATION, Literal: "-", Pos: pos}
			}
			// Plain word character outside negation context (counter-strike).
			lit := l.readWord()
			return Token{Type: token.LookupWord(lit), Literal: lit, Pos: pos}

		case '>':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Type: TOKEN_COMPARISON, Literal: ">=", Pos: pos}
			}
			l.readChar()
			return Token{Type: TOKEN_COMPARISON, Literal: ">", Pos: pos}

		case '<':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Type: TOKEN_COMPARISON, Literal: "<=", Pos: pos}
			}
			l.readChar()
			return Token{Type: TOKEN_COMPARISON, Literal: "<", Pos: pos}

		case '=':
			l.readChar()
			return Token{Type: TOKEN_COMPARISON, Literal: "=", Pos: pos}

		case '.':
			if l.peekChar() == '.' {
				l.readChar()
				l.readChar()
				return Token{Type: TOKEN_RANGE, Literal: "..", Pos: pos}
			}
			// Stray dot carries no meaning; drop it.
			l.readChar()
			continue

		default:
			switch {
			case isDigit(l.ch):
				return Token{Type: TOKEN_NUMBER, Literal: l.readNumber(), Pos: pos}
			case isWordStart(l.ch):
				lit := l.readWord()
				return Token{Type: token.LookupWord(lit), Literal: lit, Pos: pos}
			default:
				// Unrecognized characters are skipped, never surfaced.
				l.readChar()
				continue
			}
		}
	}
}

// inNegationContext reports whether a '-' at the current position negates
// the following token. That holds at the start of input and after
// whitespace or an opening parenthesis; everywhere else the hyphen belongs
// to a word.
func (l *Lexer) inNegationContext() bool {
	if l.pos == 0 {
		return true
	}
	switch l.prevChar() {
	case ' ', '\t', '\r', '\n', '(':
		return true
	}
	return false
}

// skipWhitespace skips runs of space, tab, CR and LF.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readPhrase reads a double-quoted phrase. A backslash escapes the next
// character, so \" yields a literal quote and \\ a literal backslash.
// If the input ends before the closing quote, the accumulated text is
// returned as-is.
func (l *Lexer) readPhrase() string {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		switch l.ch {
		case '\\':
			l.readChar()
			if l.ch != 0 {
				result.WriteByte(l.ch)
				l.readChar()
			}
		case '"':
			l.readChar() // skip closing quote
			return result.String()
		default:
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String()
}

// readWord reads a run of word characters. Hyphens count as word
// characters here, which keeps tokens like counter-strike and last-month
// whole; whether a leading '-' is a negation is decided before this is
// called.
func (l *Lexer) readWord() string {
	start := l.pos
	for isWordChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a run of ASCII digits.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isWordStart returns true if ch can begin a word.
func isWordStart(ch byte) bool {
	return isLetter(ch) || ch == '_'
}

// isWordChar returns true if ch can continue a word.
func isWordChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-'
}

// Tokenize returns all tokens from the input. The returned slice always
// ends with exactly one EOF token.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens
}
