package reader

import (
	"testing"

	"github.com/go-logo/qlogo/internal/datum"
)

// fakeSource replays a fixed sequence of lines, like a script fed to a
// terminal; prompts are ignored (tests assert on content, not prompting).
type fakeSource struct {
	lines []string
	pos   int
}

func (f *fakeSource) ReadRawLine(prompt string) (string, bool) {
	if f.pos >= len(f.lines) {
		return "", false
	}
	line := f.lines[f.pos]
	f.pos++
	return line, true
}

func wordsOf(t *testing.T, d datum.Datum) []string {
	t.Helper()
	l, ok := d.(*datum.List)
	if !ok {
		t.Fatalf("expected a *datum.List, got %T", d)
	}
	var out []string
	for _, item := range l.Items() {
		out = append(out, datum.Show(item, -1, -1))
	}
	return out
}

func TestReadListWithPromptSimple(t *testing.T) {
	r := New(&fakeSource{lines: []string{"forward 100 right 90"}})
	d, errd := r.ReadListWithPrompt("? ", true)
	if errd != nil {
		t.Fatalf("unexpected error: %v", errd.Message())
	}
	got := wordsOf(t, d)
	want := []string{"forward", "100", "right", "90"}
	if len(got) != len(want) {
		t.Fatalf("word count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadListWithPromptNestedBrackets(t *testing.T) {
	r := New(&fakeSource{lines: []string{"if :n=0 [output []] output se :i (list \"mr :n-1 :i)"}})
	d, errd := r.ReadListWithPrompt("? ", true)
	if errd != nil {
		t.Fatalf("unexpected error: %v", errd.Message())
	}
	l := d.(*datum.List)
	if l.Size() == 0 {
		t.Fatalf("expected a non-empty list")
	}
	foundSublist := false
	for _, item := range l.Items() {
		if _, ok := item.(*datum.List); ok {
			foundSublist = true
		}
	}
	if !foundSublist {
		t.Fatalf("expected at least one nested list among %v", wordsOf(t, d))
	}
}

func TestReadListUnexpectedSquareError(t *testing.T) {
	r := New(&fakeSource{lines: []string{"print 1]"}})
	_, errd := r.ReadListWithPrompt("? ", true)
	if errd == nil {
		t.Fatalf("expected an UnexpectedSquare error")
	}
	if errd.Code != 26 {
		t.Fatalf("error code = %d, want 26 (UnexpectedSquare)", errd.Code)
	}
}

func TestReadListMultilineContinuation(t *testing.T) {
	r := New(&fakeSource{lines: []string{"print [hello", "world]"}})
	d, errd := r.ReadListWithPrompt("? ", true)
	if errd != nil {
		t.Fatalf("unexpected error: %v", errd.Message())
	}
	got := wordsOf(t, d)
	if len(got) != 2 || got[0] != "print" || got[1] != "[hello world]" {
		t.Fatalf("got %v, want [print [hello world]]", got)
	}
}

func TestReadListTildeContinuation(t *testing.T) {
	r := New(&fakeSource{lines: []string{"print 1 + ~", "2"}})
	d, errd := r.ReadListWithPrompt("? ", true)
	if errd != nil {
		t.Fatalf("unexpected error: %v", errd.Message())
	}
	got := wordsOf(t, d)
	want := []string{"print", "1", "+", "2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadListForeverSpecialWord(t *testing.T) {
	r := New(&fakeSource{lines: []string{"make \"x |hello there|"}})
	d, errd := r.ReadListWithPrompt("? ", true)
	if errd != nil {
		t.Fatalf("unexpected error: %v", errd.Message())
	}
	l := d.(*datum.List)
	items := l.Items()
	last, ok := items[len(items)-1].(*datum.Word)
	if !ok {
		t.Fatalf("expected last item to be a Word, got %T", items[len(items)-1])
	}
	if !last.ForeverSpecial() {
		t.Fatalf("expected the |...|-quoted word to be forever-special")
	}
	if got, want := last.Printable(), "hello there"; got != want {
		t.Fatalf("Printable() = %q, want %q", got, want)
	}
}

func TestReadCharAndRawLine(t *testing.T) {
	r := New(&fakeSource{lines: []string{"ab"}})
	first := r.ReadChar()
	w, ok := first.(*datum.Word)
	if !ok || w.Printable() != "a" {
		t.Fatalf("ReadChar() = %v, want Word(a)", first)
	}
	second := r.ReadChar()
	if second.(*datum.Word).Printable() != "b" {
		t.Fatalf("ReadChar() second call = %v, want Word(b)", second)
	}
	third := r.ReadChar()
	if third.(*datum.Word).Printable() != "\n" {
		t.Fatalf("ReadChar() third call = %v, want Word(\\n)", third)
	}
	if got := r.ReadChar(); !datum.IsNoValue(got) {
		t.Fatalf("ReadChar() at EOF = %v, want NoValue", got)
	}
}

func TestReadRawLineWithPromptAtEOF(t *testing.T) {
	r := New(&fakeSource{lines: nil})
	if got := r.ReadRawLineWithPrompt("? "); !datum.IsNoValue(got) {
		t.Fatalf("ReadRawLineWithPrompt() at EOF = %v, want NoValue", got)
	}
}
