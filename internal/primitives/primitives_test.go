package primitives_test

import (
	"strings"
	"testing"

	"github.com/go-logo/qlogo/internal/catalogue"
	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/evaluator"
	"github.com/go-logo/qlogo/internal/primitives"
	"github.com/go-logo/qlogo/internal/reader"
	"github.com/go-logo/qlogo/internal/terminal"
	"github.com/go-logo/qlogo/internal/turtle"
	"github.com/go-logo/qlogo/internal/workspace"
)

// lineSource feeds a single fixed line to a reader.Reader, the way a real
// Terminal would feed one line of typed input.
type lineSource struct {
	line string
	used bool
}

func (s *lineSource) ReadRawLine(prompt string) (string, bool) {
	if s.used {
		return "", false
	}
	s.used = true
	return s.line, true
}

// harness wires one full pipeline (reader -> runparse -> parser ->
// evaluator) over an in-memory terminal, the way cmd/qlogo wires the real
// one, so these tests exercise primitives through actual Logo source text
// rather than hand-built ASTs.
type harness struct {
	cat  *catalogue.Catalogue
	ws   *workspace.Workspace
	trt  turtle.Turtle
	term *terminal.Stdio
	ev   *evaluator.Evaluator
}

func newHarness() *harness {
	cat := catalogue.New()
	primitives.Register(cat)
	ws := workspace.New()
	trt := turtle.NewHeadless()
	out := &strings.Builder{}
	term := terminal.NewStdio(strings.NewReader(""), out)
	rdr := reader.New(term)
	ev := evaluator.New(cat, ws, trt, term, rdr)
	return &harness{cat: cat, ws: ws, trt: trt, term: term, ev: ev}
}

// run parses and evaluates one line of top-level source, returning the
// output of its last statement (NoValue if none output) and any error.
func (h *harness) run(t *testing.T, src string) (datum.Datum, *datum.ErrorDatum) {
	t.Helper()
	rdr := reader.New(&lineSource{line: src})
	line, errd := rdr.ReadListWithPrompt("", false)
	if errd != nil {
		return nil, errd
	}
	l, ok := line.(*datum.List)
	if !ok {
		t.Fatalf("%q: reader did not return a List", src)
	}
	nodes, errd := h.ev.ParseBody(l)
	if errd != nil {
		return nil, errd
	}
	sig, errd := h.ev.EvalBody(nodes)
	if errd != nil {
		return nil, errd
	}
	if sig.Kind == catalogue.SignalOutput {
		return sig.Value, nil
	}
	return datum.NoValue, nil
}

func TestArithmeticPrimitives(t *testing.T) {
	h := newHarness()
	cases := []struct {
		src  string
		want float64
	}{
		{"OUTPUT SUM 2 3", 5},
		{"OUTPUT DIFFERENCE 10 4", 6},
		{"OUTPUT PRODUCT 3 4", 12},
		{"OUTPUT QUOTIENT 12 4", 3},
		{"OUTPUT REMAINDER 10 3", 1},
		{"OUTPUT MINUS 5", -5},
		{"OUTPUT 2 + 3 * 4", 14},
	}
	for _, c := range cases {
		got, errd := h.run(t, c.src)
		if errd != nil {
			t.Fatalf("%q: %s", c.src, errd.Message())
		}
		w, ok := got.(*datum.Word)
		if !ok {
			t.Fatalf("%q: want a Word, got %T", c.src, got)
		}
		n, ok := w.Number()
		if !ok || n != c.want {
			t.Fatalf("%q: want %v, got %v", c.src, c.want, n)
		}
	}
}

func TestComparisonPrimitives(t *testing.T) {
	h := newHarness()
	cases := []struct {
		src  string
		want bool
	}{
		{"OUTPUT 3 < 4", true},
		{"OUTPUT 3 > 4", false},
		{"OUTPUT 3 = 3", true},
		{"OUTPUT 3 <> 3", false},
		{"OUTPUT 3 <= 3", true},
		{"OUTPUT 4 >= 3", true},
	}
	for _, c := range cases {
		got, errd := h.run(t, c.src)
		if errd != nil {
			t.Fatalf("%q: %s", c.src, errd.Message())
		}
		w, ok := got.(*datum.Word)
		if !ok {
			t.Fatalf("%q: want a Word, got %T", c.src, got)
		}
		want := "FALSE"
		if c.want {
			want = "TRUE"
		}
		if w.UpperKey() != want {
			t.Fatalf("%q: want %s, got %s", c.src, want, w.Printable())
		}
	}
}

func TestMakeAndThing(t *testing.T) {
	h := newHarness()
	if _, errd := h.run(t, `MAKE "X 41`); errd != nil {
		t.Fatalf("MAKE: %s", errd.Message())
	}
	got, errd := h.run(t, "OUTPUT THING \"X")
	if errd != nil {
		t.Fatalf("THING: %s", errd.Message())
	}
	w := got.(*datum.Word)
	if n, _ := w.Number(); n != 41 {
		t.Fatalf("want 41, got %v", n)
	}
}

func TestIfIfelse(t *testing.T) {
	h := newHarness()
	got, errd := h.run(t, `OUTPUT IFELSE 3 < 4 [ OUTPUT "YES ] [ OUTPUT "NO ]`)
	if errd != nil {
		t.Fatalf("IFELSE: %s", errd.Message())
	}
	w := got.(*datum.Word)
	if w.Printable() != "YES" {
		t.Fatalf("want YES, got %s", w.Printable())
	}
}

func TestRepeatAccumulates(t *testing.T) {
	h := newHarness()
	if errd := run2(t, h, `MAKE "TOTAL 0`); errd != nil {
		t.Fatalf("MAKE: %s", errd.Message())
	}
	if errd := run2(t, h, `REPEAT 5 [ MAKE "TOTAL SUM THING "TOTAL 1 ]`); errd != nil {
		t.Fatalf("REPEAT: %s", errd.Message())
	}
	got, errd := h.run(t, `OUTPUT THING "TOTAL`)
	if errd != nil {
		t.Fatalf("THING: %s", errd.Message())
	}
	if n, _ := got.(*datum.Word).Number(); n != 5 {
		t.Fatalf("want 5, got %v", n)
	}
}

func run2(t *testing.T, h *harness, src string) *datum.ErrorDatum {
	_, errd := h.run(t, src)
	return errd
}

func TestCatchThrow(t *testing.T) {
	h := newHarness()
	got, errd := h.run(t, `OUTPUT CATCH "OOPS [ (THROW "OOPS 99) ]`)
	if errd != nil {
		t.Fatalf("CATCH: %s", errd.Message())
	}
	if n, _ := got.(*datum.Word).Number(); n != 99 {
		t.Fatalf("want 99, got %v", got)
	}
}

func TestCatchThrowUncaught(t *testing.T) {
	h := newHarness()
	_, errd := h.run(t, `OUTPUT CATCH "OTHER [ THROW "OOPS 99 ]`)
	if errd == nil {
		t.Fatal("expected an uncaught THROW to propagate")
	}
}

func TestListPrimitives(t *testing.T) {
	h := newHarness()
	cases := []struct {
		src  string
		want string
	}{
		{`OUTPUT FIRST [ A B C ]`, "A"},
		{`OUTPUT LAST [ A B C ]`, "C"},
		{`OUTPUT WORD "AB "CD`, "ABCD"},
		{`OUTPUT COUNT [ A B C ]`, "3"},
	}
	for _, c := range cases {
		got, errd := h.run(t, c.src)
		if errd != nil {
			t.Fatalf("%q: %s", c.src, errd.Message())
		}
		if datum.Print(got, -1, -1) != c.want {
			t.Fatalf("%q: want %s, got %s", c.src, c.want, datum.Print(got, -1, -1))
		}
	}
}

func TestForwardMovesTurtle(t *testing.T) {
	h := newHarness()
	if _, errd := h.run(t, "FORWARD 10"); errd != nil {
		t.Fatalf("FORWARD: %s", errd.Message())
	}
	x, y := h.trt.Position()
	if x != 0 || y != 10 {
		t.Fatalf("want (0,10), got (%v,%v)", x, y)
	}
}

func TestAllNamesIncludesRegisteredPrimitives(t *testing.T) {
	h := newHarness()
	names := h.cat.AllNames()
	found := false
	for _, n := range names {
		if n == "SUM" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected ALLNAMES to include SUM")
	}
}
