package primitives_test

import (
	"os"
	"strings"
	"testing"

	"github.com/go-logo/qlogo/internal/datum"
)

// chdirTemp switches into a fresh temp directory for the duration of the
// test, restoring the original working directory on cleanup -- SAVE/LOAD/
// DRIBBLE take bare filenames here rather than full paths, since '/' is a
// runparse boundary rune (it doubles as the division operator) and would
// otherwise be split out of a literal path argument.
func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chdirTemp(t)

	h1 := newHarness()
	if _, errd := h1.run(t, `MAKE "X 5`); errd != nil {
		t.Fatalf("MAKE: %s", errd.Message())
	}
	if _, errd := h1.run(t, `PPROP "COLORS "RED 1`); errd != nil {
		t.Fatalf("PPROP: %s", errd.Message())
	}
	if _, errd := h1.run(t, `SAVE "workspace.lg`); errd != nil {
		t.Fatalf("SAVE: %s", errd.Message())
	}

	h2 := newHarness()
	if _, errd := h2.run(t, `LOAD "workspace.lg`); errd != nil {
		t.Fatalf("LOAD: %s", errd.Message())
	}
	got, errd := h2.run(t, `OUTPUT THING "X`)
	if errd != nil {
		t.Fatalf("THING: %s", errd.Message())
	}
	if datum.Print(got, -1, -1) != "5" {
		t.Fatalf("want X to be 5, got %s", datum.Print(got, -1, -1))
	}
	v, ok := h2.ws.Gprop("COLORS", "RED")
	if !ok || datum.Print(v, -1, -1) != "1" {
		t.Fatalf("want COLORS RED to be 1, got %v (found=%v)", v, ok)
	}
}

func TestDribbleAppendsTranscript(t *testing.T) {
	chdirTemp(t)

	h := newHarness()
	if _, errd := h.run(t, `DRIBBLE "log.txt`); errd != nil {
		t.Fatalf("DRIBBLE: %s", errd.Message())
	}
	if _, errd := h.run(t, `PRINT "hello`); errd != nil {
		t.Fatalf("PRINT: %s", errd.Message())
	}
	if _, errd := h.run(t, `NODRIBBLE`); errd != nil {
		t.Fatalf("NODRIBBLE: %s", errd.Message())
	}

	content, err := os.ReadFile("log.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(content), "hello") {
		t.Fatalf("want dribble transcript to contain hello, got %q", content)
	}
}

func TestDribbleRejectsWhileAlreadyDribbling(t *testing.T) {
	chdirTemp(t)

	h := newHarness()
	if _, errd := h.run(t, `DRIBBLE "one.txt`); errd != nil {
		t.Fatalf("DRIBBLE: %s", errd.Message())
	}
	if _, errd := h.run(t, `DRIBBLE "two.txt`); errd == nil {
		t.Fatal("expected an error dribbling while already dribbling")
	}
	h.term.StopDribble()
}
