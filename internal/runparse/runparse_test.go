package runparse

import (
	"testing"

	"github.com/go-logo/qlogo/internal/datum"
)

func words(ss ...string) []datum.Datum {
	out := make([]datum.Datum, len(ss))
	for i, s := range ss {
		out[i] = datum.NewWordFromString(s)
	}
	return out
}

func printables(t *testing.T, toks []datum.Datum) []string {
	t.Helper()
	out := make([]string, len(toks))
	for i, d := range toks {
		w, ok := d.(*datum.Word)
		if !ok {
			t.Fatalf("token %d is %T, not *datum.Word", i, d)
		}
		out[i] = w.Printable()
	}
	return out
}

func assertTokens(t *testing.T, l *datum.List, want []string) {
	t.Helper()
	got := printables(t, Tokens(l, 0, 1))
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDecomposeSimpleArithmetic(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("2*2+3"))
	assertTokens(t, l, []string{"2", "*", "2", "+", "3"})
}

func TestDecomposeColonAndExpr(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString(":a+1"))
	assertTokens(t, l, []string{":a", "+", "1"})
}

func TestDecomposeQuotedName(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString(`"hello`))
	assertTokens(t, l, []string{`"hello`})
}

func TestDecomposeComparisonOperators(t *testing.T) {
	for _, tc := range []struct {
		word string
		want []string
	}{
		{":n=0", []string{":n", "=", "0"}},
		{":n<>0", []string{":n", "<>", "0"}},
		{":n<=5", []string{":n", "<=", "5"}},
		{":n>=5", []string{":n", ">=", "5"}},
	} {
		l := datum.NewList(datum.NewWordFromString(tc.word))
		assertTokens(t, l, tc.want)
	}
}

func TestDecomposeInfixMinusIsBinary(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString(":i-1"))
	assertTokens(t, l, []string{":i", "-", "1"})
}

func TestDecomposeWordStartingWithMinus(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("-5"))
	assertTokens(t, l, []string{"0", "--", "5"})
}

func TestDecomposeLoneMinusPassesThrough(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("-"))
	assertTokens(t, l, []string{"-"})
}

func TestDecomposeSignedNumberAfterOperator(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("3*-2"))
	assertTokens(t, l, []string{"3", "*", "-2"})
}

func TestDecomposeParens(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString(`(mr`), datum.NewWordFromString(`:n-1`))
	assertTokens(t, l, []string{"(", "mr", ":n", "-", "1"})
}

func TestDecomposeSlotAccess(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("?3"))
	assertTokens(t, l, []string{"(", "?", "3", ")"})
}

func TestDecomposeBareQuestionMark(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("?"))
	assertTokens(t, l, []string{"?"})
}

func TestDecomposeFloatAndExponent(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("1.5e-3"))
	assertTokens(t, l, []string{"1.5e-3"})
}

func TestDecomposeForeverSpecialPassesThrough(t *testing.T) {
	w := datum.NewEscapedWord("a+b", true)
	l := datum.NewList(w)
	got := Tokens(l, 0, 1)
	if len(got) != 1 || got[0] != datum.Datum(w) {
		t.Fatalf("expected forever-special word to pass through unchanged")
	}
}

func TestDecomposeNestedListPassesThrough(t *testing.T) {
	sub := datum.NewList(datum.NewWordFromString("hello"))
	l := datum.NewList(sub)
	got := Tokens(l, 0, 1)
	if len(got) != 1 || got[0] != datum.Datum(sub) {
		t.Fatalf("expected nested list to pass through unchanged")
	}
}

func TestTokensAreMemoized(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("1+2"))
	first := Tokens(l, 0, 5)
	if !l.CacheValid(0) {
		t.Fatalf("expected cache to be valid against an older workspace timestamp")
	}
	second := Tokens(l, 0, 99)
	if len(first) != len(second) {
		t.Fatalf("expected memoized result to be reused rather than recomputed")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("memoized token %d differs between calls", i)
		}
	}
}

func TestTokensRecomputeAfterMutation(t *testing.T) {
	l := datum.NewList(datum.NewWordFromString("1+2"))
	Tokens(l, 0, 5)
	l.SetFirst(datum.NewWordFromString("3*4"))
	got := printables(t, Tokens(l, 5, 6))
	want := []string{"3", "*", "4"}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("got %v, want %v", got, want)
	}
}
