package datum

import "testing"

func TestWordNumberConversion(t *testing.T) {
	tests := []struct {
		input    string
		wantNum  float64
		wantOK   bool
	}{
		{"12", 12, true},
		{"3.5", 3.5, true},
		{"-2", -2, true},
		{"hello", 0, false},
		{"", 0, false},
	}

	for i, tt := range tests {
		w := NewWordFromString(tt.input)
		n, ok := w.Number()
		if ok != tt.wantOK {
			t.Fatalf("tests[%d] - ok wrong. input=%q expected=%v, got=%v", i, tt.input, tt.wantOK, ok)
		}
		if ok && n != tt.wantNum {
			t.Fatalf("tests[%d] - value wrong. input=%q expected=%v, got=%v", i, tt.input, tt.wantNum, n)
		}
	}
}

func TestWordEqualPrefersNumeric(t *testing.T) {
	a := NewNumber(5)
	b := NewWordFromString("5")
	if !Equal(a, b, false) {
		t.Fatalf("expected numeric word 5 to equal string word \"5\"")
	}
	if !Equal(b, a, false) {
		t.Fatalf("Equal should be symmetric for numeric/string words")
	}
}

func TestWordEqualCaseFolding(t *testing.T) {
	a := NewWordFromString("Hello")
	b := NewWordFromString("hello")
	if Equal(a, b, false) {
		t.Fatalf("expected case-sensitive comparison to differ")
	}
	if !Equal(a, b, true) {
		t.Fatalf("expected ignoreCase comparison to match")
	}
}

func TestListConsAndSize(t *testing.T) {
	l := NewList(NewWordFromString("a"), NewWordFromString("b"), NewWordFromString("c"))
	if l.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", l.Size())
	}
	if got := l.First().(*Word).Printable(); got != "a" {
		t.Fatalf("First() = %q, want %q", got, "a")
	}
	if got := l.Last().(*Word).Printable(); got != "c" {
		t.Fatalf("Last() = %q, want %q", got, "c")
	}
}

func TestListSelfReferenceDoesNotHang(t *testing.T) {
	l := NewList(NewWordFromString("hello"), NewWordFromString("there"))
	l.SetFirst(l)

	items := l.Items()
	if len(items) != 2 {
		t.Fatalf("Items() returned %d elements, want 2", len(items))
	}
	if !IsMember(l, l, false) {
		t.Fatalf("expected a self-referencing list's first element to be itself")
	}
}

func TestListRestCycleDoesNotHang(t *testing.T) {
	l := NewList(NewWordFromString("a"), NewWordFromString("b"))
	l.SetRest(l)

	items := l.Items()
	if len(items) == 0 {
		t.Fatalf("Items() on a rest-cyclic list returned nothing")
	}
}

func TestListEqualCyclic(t *testing.T) {
	a := NewList(NewWordFromString("hello"), NewWordFromString("there"))
	a.SetFirst(a)
	b := NewList(NewWordFromString("hello"), NewWordFromString("there"))
	b.SetFirst(b)

	if !Equal(a, b, false) {
		t.Fatalf("expected two structurally identical cyclic lists to be Equal")
	}
}

func TestIsIdentical(t *testing.T) {
	a := NewList(NewWordFromString("x"))
	b := NewList(NewWordFromString("x"))
	if IsIdentical(a, b) {
		t.Fatalf("two freshly built lists with the same contents must not be .EQ?")
	}
	if !IsIdentical(a, a) {
		t.Fatalf("a list must be .EQ? to itself")
	}
}

func TestPrintUnravelsTopLevelList(t *testing.T) {
	l := NewList(NewWordFromString("a"), NewWordFromString("b"))
	if got, want := Print(l, -1, -1), "a b"; got != want {
		t.Fatalf("Print(top-level list) = %q, want %q", got, want)
	}
}

func TestShowBracketsTopLevelList(t *testing.T) {
	l := NewList(NewWordFromString("a"), NewWordFromString("b"))
	if got, want := Show(l, -1, -1), "[a b]"; got != want {
		t.Fatalf("Show(top-level list) = %q, want %q", got, want)
	}
}

func TestShowNestedListBrackets(t *testing.T) {
	inner := NewList(NewWordFromString("notafunc"))
	outer := NewList(NewWordFromString("f"), inner)
	if got, want := Show(outer, -1, -1), "[f [notafunc]]"; got != want {
		t.Fatalf("Show(nested list) = %q, want %q", got, want)
	}
}

func TestPrintDepthLimitElides(t *testing.T) {
	l := NewList(NewWordFromString("hello"), NewWordFromString("there"))
	if got, want := Show(l, 0, -1), "..."; got != want {
		t.Fatalf("Show with depth limit 0 = %q, want %q", got, want)
	}
}

func TestShowCyclicList(t *testing.T) {
	// Mirrors the canonical scenario: make "a [hello there], .setfirst :a :a,
	// show :a => "[... there]".
	a := NewList(NewWordFromString("hello"), NewWordFromString("there"))
	a.SetFirst(a)
	got := Show(a, 5, -1)
	want := "[... there]"
	if got != want {
		t.Fatalf("Show(cyclic list) = %q, want %q", got, want)
	}
}

func TestErrorDatumAsList(t *testing.T) {
	line := NewList(NewWordFromString("notafunc"))
	e := NewErrorDatum(13, "I don't know how to notafunc", "f", line)
	got := Show(e.AsList(), -1, -1)
	want := "[13 I don't know how to notafunc f [notafunc]]"
	if got != want {
		t.Fatalf("ErrorDatum.AsList() rendered %q, want %q", got, want)
	}
}

func TestArrayOriginAndItemAt(t *testing.T) {
	a := NewArrayFromItems([]Datum{NewWordFromString("x"), NewWordFromString("y")}, 0)
	if !a.IndexInRange(0) || !a.IndexInRange(1) || a.IndexInRange(2) {
		t.Fatalf("IndexInRange wrong for origin-0 array")
	}
	if got := a.ItemAt(1).(*Word).Printable(); got != "y" {
		t.Fatalf("ItemAt(1) = %q, want %q", got, "y")
	}
	if got, want := Show(a, -1, -1), "{x y}@0"; got != want {
		t.Fatalf("Show(array) = %q, want %q", got, want)
	}
}

func TestProcedureArity(t *testing.T) {
	opt := OptionalParam{Name: "i", Default: NewLiteral(NewNumber(1))}
	p := NewProcedure("mr", []string{"n"}, []OptionalParam{opt}, "rest", nil)
	if p.MinArgs != 1 {
		t.Fatalf("MinArgs = %d, want 1", p.MinArgs)
	}
	if p.MaxArgs != -1 {
		t.Fatalf("MaxArgs = %d, want -1 (rest parameter present)", p.MaxArgs)
	}
	if !p.AcceptsArity(1) || !p.AcceptsArity(5) {
		t.Fatalf("procedure with a rest parameter should accept any arity >= MinArgs")
	}
	if p.AcceptsArity(0) {
		t.Fatalf("procedure should reject arity below MinArgs")
	}
}

func TestPoolTracksLiveCounts(t *testing.T) {
	DefaultPool().Reset()
	before := DefaultPool().Live(KindWord)
	w := NewWordFromString("x")
	if got := DefaultPool().Live(KindWord); got != before+1 {
		t.Fatalf("Live(KindWord) = %d, want %d", got, before+1)
	}
	w.Release()
	if got := DefaultPool().Live(KindWord); got != before {
		t.Fatalf("Live(KindWord) after Release = %d, want %d", got, before)
	}
}
