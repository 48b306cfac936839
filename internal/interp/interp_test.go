package interp_test

import (
	"strings"
	"testing"

	"github.com/go-logo/qlogo/internal/interp"
	"github.com/go-logo/qlogo/internal/terminal"
	"github.com/go-logo/qlogo/internal/turtle"
)

func newInterp(t *testing.T, source string) (*interp.Interp, *strings.Builder) {
	t.Helper()
	out := &strings.Builder{}
	term := terminal.NewStdio(strings.NewReader(source), out)
	in := interp.New(term, turtle.NewHeadless())
	in.Prompt = ""
	return in, out
}

func TestDefineAndCallProcedure(t *testing.T) {
	src := "TO DOUBLE :N\nOUTPUT SUM :N :N\nEND\nPRINT DOUBLE 21\n"
	in, out := newInterp(t, src)
	if errd := in.RunAll(); errd != nil {
		t.Fatalf("RunAll: %s", errd.Message())
	}
	if got := strings.TrimSpace(out.String()); got != "42" {
		t.Fatalf("want 42, got %q", got)
	}
}

func TestProcedureWithGoto(t *testing.T) {
	src := "TO COUNTDOWN :N\n" +
		"MAKE \"N :N\n" +
		"LOOP:\n" +
		"PRINT THING \"N\n" +
		"IF EQUALP THING \"N 0 [ STOP ]\n" +
		"MAKE \"N DIFFERENCE THING \"N 1\n" +
		"GOTO LOOP\n" +
		"END\n" +
		"COUNTDOWN 3\n"
	in, out := newInterp(t, src)
	if errd := in.RunAll(); errd != nil {
		t.Fatalf("RunAll: %s", errd.Message())
	}
	want := "3\n2\n1\n0\n"
	if out.String() != want {
		t.Fatalf("want %q, got %q", want, out.String())
	}
}

func TestRunLineAtEnd(t *testing.T) {
	in, _ := newInterp(t, "")
	_, atEnd, errd := in.RunLine()
	if errd != nil {
		t.Fatalf("RunLine: %s", errd.Message())
	}
	if !atEnd {
		t.Fatal("expected atEnd on empty input")
	}
}

func TestRunAllStopsOnUnknownName(t *testing.T) {
	in, _ := newInterp(t, "NOTAPROCEDURE 1 2\n")
	errd := in.RunAll()
	if errd == nil {
		t.Fatal("expected an error for an unknown name")
	}
}

func TestMacroTrampoline(t *testing.T) {
	src := ".MACRO MR :N :I\n" +
		"IF EQUALP :N 0 [ OUTPUT [] ]\n" +
		"OUTPUT SENTENCE :I (LIST \"MR (DIFFERENCE :N 1) :I)\n" +
		"END\n" +
		"MR 3 [ PRINT \"x ]\n"
	in, out := newInterp(t, src)
	if errd := in.RunAll(); errd != nil {
		t.Fatalf("RunAll: %s", errd.Message())
	}
	want := "x\nx\nx\n"
	if out.String() != want {
		t.Fatalf("want %q, got %q", want, out.String())
	}
}

func TestMacroReturningNonListErrors(t *testing.T) {
	src := ".MACRO BAD\n" +
		"OUTPUT 5\n" +
		"END\n" +
		"BAD\n"
	in, _ := newInterp(t, src)
	errd := in.RunAll()
	if errd == nil {
		t.Fatal("expected an error when a macro outputs a non-List")
	}
}

func TestDefineRejectsRedefiningPrimitive(t *testing.T) {
	in, _ := newInterp(t, "TO SUM :A :B\nEND\n")
	errd := in.RunAll()
	if errd == nil {
		t.Fatal("expected an error defining TO over a primitive name")
	}
}
