package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mython/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestIndentDedentBalance(t *testing.T) {
	src := "if a:\n  b\n  c\nd\n"
	toks := New(src).Tokens()

	want := []token.Kind{
		token.IF, token.IDENT, token.CHAR, token.NEWLINE,
		token.INDENT, token.IDENT, token.NEWLINE,
		token.IDENT, token.NEWLINE,
		token.DEDENT, token.IDENT, token.NEWLINE,
		token.EOF,
	}
	require.Equal(t, want, kinds(toks))
	require.Equal(t, byte(':'), toks[2].Char)
}

func TestNoConsecutiveNewlines(t *testing.T) {
	src := "x = 1\n\n\nprint x\n"
	toks := New(src).Tokens()
	for i := 1; i < len(toks); i++ {
		if toks[i].Kind == token.NEWLINE {
			require.NotEqual(t, token.NEWLINE, toks[i-1].Kind, "two adjacent Newline tokens at index %d", i)
		}
	}
}

func TestIndentCountsBalance(t *testing.T) {
	src := "class C:\n  def f(self):\n    return 1\nprint 1\n"
	toks := New(src).Tokens()
	var indents, dedents int
	for _, tk := range toks {
		switch tk.Kind {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	require.Equal(t, indents, dedents)
}

func TestBlankLinesProduceNoExtraTokens(t *testing.T) {
	src := "x = 1\n\n   \ny = 2\n"
	toks := New(src).Tokens()
	require.Equal(t, []token.Kind{
		token.IDENT, token.CHAR, token.NUMBER, token.NEWLINE,
		token.IDENT, token.CHAR, token.NUMBER, token.NEWLINE,
		token.EOF,
	}, kinds(toks))
}

func TestTwoCharOperators(t *testing.T) {
	src := "a == b\na != b\na <= b\na >= b\n"
	toks := New(src).Tokens()
	require.Equal(t, []token.Kind{
		token.IDENT, token.EQ, token.IDENT, token.NEWLINE,
		token.IDENT, token.NOTEQ, token.IDENT, token.NEWLINE,
		token.IDENT, token.LESSEQ, token.IDENT, token.NEWLINE,
		token.IDENT, token.GREATEREQ, token.IDENT, token.NEWLINE,
		token.EOF,
	}, kinds(toks))
}

func TestStringEscapes(t *testing.T) {
	src := `"a\n\t\"b\\c"` + "\n"
	toks := New(src).Tokens()
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "a\n\t\"b\\c", toks[0].Str)
}

func TestUnterminatedStringReadsToEOF(t *testing.T) {
	src := `"abc`
	toks := New(src).Tokens()
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "abc", toks[0].Str)
	require.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

func TestCommentsAreIgnored(t *testing.T) {
	src := "x = 1 # a trailing comment\n"
	toks := New(src).Tokens()
	require.Equal(t, []token.Kind{
		token.IDENT, token.CHAR, token.NUMBER, token.NEWLINE, token.EOF,
	}, kinds(toks))
}

func TestKeywordRecognition(t *testing.T) {
	src := "class return if else def print and or not None True False\n"
	toks := New(src).Tokens()
	want := []token.Kind{
		token.CLASS, token.RETURN, token.IF, token.ELSE, token.DEF, token.PRINT,
		token.AND, token.OR, token.NOT, token.NONE, token.TRUE, token.FALSE,
		token.NEWLINE, token.EOF,
	}
	require.Equal(t, want, kinds(toks))
}

func TestAdvanceAndCurrent(t *testing.T) {
	l := New("x\n")
	require.Equal(t, token.IDENT, l.Current().Kind)
	first := l.Advance()
	require.Equal(t, "x", first.Str)
	require.Equal(t, token.NEWLINE, l.Current().Kind)
}

func TestIndentWidthRoundsDown(t *testing.T) {
	// 3 spaces is not a multiple of 2; it rounds down to one indent level.
	src := "if a:\n   b\nc\n"
	toks := New(src).Tokens()
	require.Equal(t, []token.Kind{
		token.IF, token.IDENT, token.CHAR, token.NEWLINE,
		token.INDENT, token.IDENT, token.NEWLINE,
		token.DEDENT, token.IDENT, token.NEWLINE,
		token.EOF,
	}, kinds(toks))
}
