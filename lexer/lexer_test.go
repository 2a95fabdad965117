package lexer

import (
	"testing"

	"tinybasic/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []token.Kind, want []token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanOperators(t *testing.T) {
	lex := New("== != < <= > >= + - * / % = ^")
	toks, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []token.Kind{
		token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.ASSIGN, token.CARET, token.EOF,
	}
	assertKinds(t, kinds(toks), want)
}

func TestScanKeywordsCaseInsensitive(t *testing.T) {
	lex := New("PRINT Print print WHILE wend")
	toks, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []token.Kind{token.PRINT, token.PRINT, token.PRINT, token.WHILE, token.WEND, token.EOF}
	assertKinds(t, kinds(toks), want)
	for _, tok := range toks[:3] {
		if tok.Text != "print" {
			t.Errorf("keyword text = %q, want lower-case print", tok.Text)
		}
	}
}

func TestScanNewlinesAndComments(t *testing.T) {
	lex := New("LET X = 1 ' a comment\nPRINT X")
	toks, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.NEWLINE,
		token.PRINT, token.IDENT, token.EOF,
	}
	assertKinds(t, kinds(toks), want)
}

func TestScanStringLiteral(t *testing.T) {
	lex := New(`PRINT "hello world"`)
	toks, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if toks[1].Kind != token.STRING || toks[1].Text != "hello world" {
		t.Errorf("string token = %+v", toks[1])
	}
}

func TestScanNumberLiterals(t *testing.T) {
	lex := New("42 3.14")
	toks, err := lex.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if toks[0].Text != "42" || toks[1].Text != "3.14" {
		t.Errorf("number texts = %q, %q", toks[0].Text, toks[1].Text)
	}
}

func TestScanUnknownCharacterFaults(t *testing.T) {
	lex := New("LET X = @")
	_, err := lex.Scan()
	if err == nil {
		t.Fatal("expected a tokenization fault for '@'")
	}
	lexErr, ok := err.(Error)
	if !ok {
		t.Fatalf("error type = %T, want lexer.Error", err)
	}
	if lexErr.Char != '@' {
		t.Errorf("fault char = %q, want '@'", lexErr.Char)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	lex := New(`PRINT "unterminated`)
	_, err := lex.Scan()
	if err == nil {
		t.Fatal("expected a tokenization fault for the unterminated string")
	}
}
