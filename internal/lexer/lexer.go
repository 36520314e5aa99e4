// Package lexer implements an indentation-sensitive tokenizer: a
// single forward pass that augments the raw character stream with
// synthetic Indent/Dedent/Newline tokens.
package lexer

import (
	"github.com/sirupsen/logrus"

	"mython/internal/token"
)

const spacesPerLevel = 2

// keywords is the lexer's local name for token.Keywords; both refer to
// the same map.
var keywords = token.Keywords

// Lexer converts a byte stream into a complete token sequence on
// construction, per the §4.1 contract: "on construction it eagerly
// produces a complete token sequence terminated by Eof".
type Lexer struct {
	source []byte
	pos    int
	line   int

	indentLevel int
	isNewLine   bool

	tokens []token.Token
	cursor int

	log *logrus.Entry
}

// New scans source eagerly and returns a Lexer positioned before the
// first token.
func New(source string) *Lexer {
	l := &Lexer{
		source:    []byte(source),
		line:      1,
		isNewLine: true,
		log:       logrus.WithField("component", "lexer"),
	}
	l.scan()
	return l
}

// Tokens returns the complete token sequence, terminated by Eof.
func (l *Lexer) Tokens() []token.Token {
	return l.tokens
}

// Current returns the token at the cursor without advancing it.
func (l *Lexer) Current() token.Token {
	if l.cursor >= len(l.tokens) {
		return token.Simple(token.EOF, l.line)
	}
	return l.tokens[l.cursor]
}

// Advance returns the next token and moves the cursor forward, clamping
// at Eof once the sequence is exhausted.
func (l *Lexer) Advance() token.Token {
	t := l.Current()
	if l.cursor < len(l.tokens) {
		l.cursor++
	}
	return t
}

func (l *Lexer) scan() {
	for l.pos < len(l.source) {
		if l.isNewLine {
			l.handleLineStart()
		}
		l.scanToken()
	}
	l.flushDedents()
	if len(l.tokens) > 0 && !isLineBreakKind(l.tokens[len(l.tokens)-1].Kind) {
		l.emit(token.Simple(token.NEWLINE, l.line))
	}
	l.emit(token.Simple(token.EOF, l.line))
}

func isLineBreakKind(k token.Kind) bool {
	return k == token.NEWLINE || k == token.INDENT || k == token.DEDENT
}

// handleLineStart measures leading spaces at a physical line start and
// emits the Indent/Dedent tokens their count implies. A blank or
// whitespace-only line discards the spaces and leaves isNewLine set so
// the caller's next scanToken processes the line's '\n' normally,
// producing no indentation tokens for it.
func (l *Lexer) handleLineStart() {
	start := l.pos
	for l.pos < len(l.source) && l.source[l.pos] == ' ' {
		l.pos++
	}
	count := l.pos - start

	if l.pos >= len(l.source) || l.source[l.pos] == '\n' {
		l.pos = start
		return
	}

	l.isNewLine = false
	l.setIndent(count / spacesPerLevel)
}

func (l *Lexer) setIndent(newLevel int) {
	for l.indentLevel < newLevel {
		l.indentLevel++
		l.emit(token.Simple(token.INDENT, l.line))
	}
	for l.indentLevel > newLevel {
		l.indentLevel--
		l.emit(token.Simple(token.DEDENT, l.line))
	}
}

func (l *Lexer) flushDedents() {
	l.setIndent(0)
}

func (l *Lexer) scanToken() {
	c := l.source[l.pos]
	switch {
	case c == ' ':
		for l.pos < len(l.source) && l.source[l.pos] == ' ' {
			l.pos++
		}
	case c == '#':
		for l.pos < len(l.source) && l.source[l.pos] != '\n' {
			l.pos++
		}
	case c == '\'' || c == '"':
		l.scanString(c)
	case isDigit(c):
		l.scanNumber()
	case isIdentStart(c):
		l.scanIdent()
	case c == '\n':
		l.pos++
		l.line++
		l.isNewLine = true
		if len(l.tokens) == 0 {
			return
		}
		if l.tokens[len(l.tokens)-1].Kind != token.NEWLINE {
			l.emit(token.Simple(token.NEWLINE, l.line-1))
		}
	case c == '=' && l.peekIs('='):
		l.pos += 2
		l.emit(token.Simple(token.EQ, l.line))
	case c == '!' && l.peekIs('='):
		l.pos += 2
		l.emit(token.Simple(token.NOTEQ, l.line))
	case c == '<' && l.peekIs('='):
		l.pos += 2
		l.emit(token.Simple(token.LESSEQ, l.line))
	case c == '>' && l.peekIs('='):
		l.pos += 2
		l.emit(token.Simple(token.GREATEREQ, l.line))
	default:
		l.pos++
		l.emit(token.CharTok(c, l.line))
	}
}

func (l *Lexer) peekIs(c byte) bool {
	return l.pos+1 < len(l.source) && l.source[l.pos+1] == c
}

func (l *Lexer) scanString(quote byte) {
	l.pos++ // opening quote
	var buf []byte
	for l.pos < len(l.source) && l.source[l.pos] != quote {
		c := l.source[l.pos]
		if c == '\\' && l.pos+1 < len(l.source) {
			switch l.source[l.pos+1] {
			case '\'':
				buf = append(buf, '\'')
			case '"':
				buf = append(buf, '"')
			case 'n':
				buf = append(buf, '\n')
			case 't':
				buf = append(buf, '\t')
			case '\\':
				buf = append(buf, '\\')
			default:
				buf = append(buf, c, l.source[l.pos+1])
			}
			l.pos += 2
			continue
		}
		if c == '\n' {
			l.line++
		}
		buf = append(buf, c)
		l.pos++
	}
	if l.pos < len(l.source) {
		l.pos++ // closing quote
	} else {
		l.log.WithField("line", l.line).Debug("unterminated string, read to EOF")
	}
	l.emit(token.String(string(buf), l.line))
}

func (l *Lexer) scanNumber() {
	start := l.pos
	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.pos++
	}
	var n int64
	for _, c := range l.source[start:l.pos] {
		n = n*10 + int64(c-'0')
	}
	l.emit(token.Number(n, l.line))
}

func (l *Lexer) scanIdent() {
	start := l.pos
	for l.pos < len(l.source) && isIdentCont(l.source[l.pos]) {
		l.pos++
	}
	name := string(l.source[start:l.pos])
	if kind, ok := keywords[name]; ok {
		l.emit(token.Simple(kind, l.line))
		return
	}
	l.emit(token.Ident(name, l.line))
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentCont(c byte) bool  { return isIdentStart(c) || isDigit(c) }

func (l *Lexer) emit(t token.Token) {
	l.tokens = append(l.tokens, t)
}
