package lexer

import (
	"testing"

	"github.com/go-ecma3/ecma3/internal/token"
)

func tokens(t *testing.T, src string) []token.Token {
	t.Helper()
	l := NewFromString(src, "<test>")
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if errs := l.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	return toks
}

func TestPunctuatorsLongestMatch(t *testing.T) {
	toks := tokens(t, ">>>= >>= === !== <<= ++ -- && ||")
	want := []token.Kind{
		token.URSHIFTEQ, token.RSHIFTEQ, token.SEQ, token.SNE,
		token.LSHIFTEQ, token.PLUSPLUS, token.MINUSMINUS, token.LOGAND, token.LOGOR, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	toks := tokens(t, "var x = function(y) { return y; }")
	want := []token.Kind{
		token.VAR, token.IDENT, token.ASSIGN, token.FUNCTION, token.LPAREN,
		token.IDENT, token.RPAREN, token.LBRACE, token.RETURN, token.IDENT,
		token.SEMI, token.RBRACE, token.EOF,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v, want %v (all: %v)", i, toks[i].Kind, k, toks)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := []string{"0", "3.14", "0x1F", "1e10", "1.5e-3", ".5"}
	for _, c := range cases {
		toks := tokens(t, c)
		if toks[0].Kind != token.NUMBER || toks[0].Literal != c {
			t.Errorf("scanning %q: got %+v", c, toks[0])
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := tokens(t, `"a\nb\tcA"`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("got %v", toks[0])
	}
	want := "a\nb\tcA"
	if toks[0].Literal != want {
		t.Errorf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestLineContinuation(t *testing.T) {
	toks := tokens(t, "\"a\\\nb\"")
	if toks[0].Literal != "ab" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestAutomaticSemicolonInsertionHint(t *testing.T) {
	toks := tokens(t, "a\nb")
	// toks: IDENT(a) IDENT(b) EOF
	if toks[1].PrecededByLineTerminator != true {
		t.Errorf("expected PrecededByLineTerminator on second token")
	}
	if toks[0].PrecededByLineTerminator {
		t.Errorf("first token should not be marked preceded by line terminator")
	}
}

func TestDivisionVsRegexRelex(t *testing.T) {
	// "a / b" - division context
	l := NewFromString("a / b", "<test>")
	if k := l.Next().Kind; k != token.IDENT {
		t.Fatalf("got %v", k)
	}
	if k := l.Next().Kind; k != token.SLASH {
		t.Fatalf("expected SLASH, got %v", k)
	}

	// regex context: parser explicitly requests NextRegexp after '='
	l2 := NewFromString("/abc/g", "<test>")
	tok := l2.NextRegexp()
	if tok.Kind != token.REGEXP || tok.Literal != "/abc/g" {
		t.Fatalf("got %+v", tok)
	}
}

func TestLineComment(t *testing.T) {
	toks := tokens(t, "1 // comment\n2")
	if toks[0].Kind != token.NUMBER || toks[1].Kind != token.NUMBER {
		t.Fatalf("got %v", toks)
	}
	if !toks[1].PrecededByLineTerminator {
		t.Errorf("expected line terminator flag across comment+newline")
	}
}

func TestBlockComment(t *testing.T) {
	toks := tokens(t, "1 /* a\nb */ 2")
	if toks[0].Kind != token.NUMBER || toks[1].Kind != token.NUMBER {
		t.Fatalf("got %v", toks)
	}
	if !toks[1].PrecededByLineTerminator {
		t.Errorf("block comment spanning a newline should count as a line terminator for ASI")
	}
}

func TestFutureReservedWordsAreDistinctTokens(t *testing.T) {
	toks := tokens(t, "class")
	if toks[0].Kind != token.CLASS {
		t.Fatalf("got %v", toks[0].Kind)
	}
	if !token.IsFutureReserved(toks[0].Kind) {
		t.Errorf("expected CLASS to be future-reserved")
	}
}
