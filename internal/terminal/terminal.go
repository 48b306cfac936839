// Package terminal defines the console/editor collaborator contract (§6):
// the evaluator's I/O primitives (PRINT/TYPE/READLIST/READWORD/DRIBBLE) talk
// to a Terminal, never directly to os.Stdin/Stdout, so a GUI front end or a
// test double can be swapped in. Stdio is the reference implementation, and
// also implements reader.LineSource so internal/reader's prompt-driven
// reads come straight from it.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Terminal is the console contract FORWARD's sibling primitives (PRINT,
// TYPE, READLIST, READWORD, DRIBBLE) drive.
type Terminal interface {
	PrintToConsole(s string)
	ReadRawLineWithPrompt(prompt string) (line string, ok bool)
	ReadChar() (ch rune, ok bool)

	SetDribble(w io.WriteCloser)
	IsDribbling() bool
	// StopDribble closes any open dribble file and clears it; a no-op if not
	// currently dribbling.
	StopDribble()

	AtEnd() bool
	KeyQueueHasChars() bool
}

// Stdio is a line-buffered Terminal over an arbitrary reader/writer pair
// (os.Stdin/os.Stdout in cmd/qlogo, an in-memory buffer in tests).
type Stdio struct {
	in     *bufio.Reader
	out    io.Writer
	dribble io.WriteCloser
	atEnd  bool
}

// NewStdio builds a Stdio terminal reading from in and writing to out.
func NewStdio(in io.Reader, out io.Writer) *Stdio {
	return &Stdio{in: bufio.NewReader(in), out: out}
}

func (s *Stdio) PrintToConsole(text string) {
	fmt.Fprint(s.out, text)
	if s.dribble != nil {
		fmt.Fprint(s.dribble, text)
	}
}

// ReadRawLineWithPrompt implements the reader.LineSource contract directly:
// internal/reader.Reader is built over a Stdio the same way it is built
// over any other LineSource.
func (s *Stdio) ReadRawLineWithPrompt(prompt string) (string, bool) {
	if prompt != "" {
		fmt.Fprint(s.out, prompt)
	}
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		s.atEnd = true
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// ReadRawLine satisfies reader.LineSource.
func (s *Stdio) ReadRawLine(prompt string) (string, bool) {
	return s.ReadRawLineWithPrompt(prompt)
}

func (s *Stdio) ReadChar() (rune, bool) {
	r, _, err := s.in.ReadRune()
	if err != nil {
		s.atEnd = true
		return 0, false
	}
	return r, true
}

func (s *Stdio) SetDribble(w io.WriteCloser) { s.dribble = w }
func (s *Stdio) IsDribbling() bool           { return s.dribble != nil }

func (s *Stdio) StopDribble() {
	if s.dribble != nil {
		s.dribble.Close()
		s.dribble = nil
	}
}

func (s *Stdio) AtEnd() bool             { return s.atEnd }
func (s *Stdio) KeyQueueHasChars() bool  { return s.in.Buffered() > 0 }
