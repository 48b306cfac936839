// Package reader implements the text-stream front end (§4.2): turning a
// prompt-driven line source into Datum values, with no knowledge yet of
// operator precedence or procedure dispatch -- that is runparse's (C3) and
// the parser's (C4) job.
package reader

import (
	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/errtab"
)

// LineSource is the text-stream contract the reader is built against: a
// prompted line reader for READWORD/READLIST/READRAWLINE, used directly by
// Reader.ReadChar too. ReadChar buffers one line at a time; the line-based
// reads take their next line straight from the source and do not see
// characters ReadChar has buffered but not yet returned.
type LineSource interface {
	// ReadRawLine returns the next line of input (without its trailing
	// newline), after writing prompt. ok is false at end-of-stream.
	ReadRawLine(prompt string) (line string, ok bool)
}

// Reader adapts a LineSource into the four read_* operations (§4.2).
type Reader struct {
	src LineSource

	charBuf []rune
	charPos int
	charEOF bool
}

// New builds a Reader over src.
func New(src LineSource) *Reader {
	return &Reader{src: src}
}

// ReadRawLineWithPrompt implements `read_raw_line_with_prompt`: one Word
// with no escape/comment/bracket processing, or NoValue at end-of-stream.
func (r *Reader) ReadRawLineWithPrompt(prompt string) datum.Datum {
	line, ok := r.src.ReadRawLine(prompt)
	if !ok {
		return datum.NoValue
	}
	return datum.NewWordFromString(line)
}

// ReadChar implements `read_char`: a single-character Word, or NoValue at
// end-of-stream. Lines are separated by a synthetic newline character so
// callers can detect line boundaries the same way a real terminal would.
func (r *Reader) ReadChar() datum.Datum {
	if r.charPos >= len(r.charBuf) {
		if r.charEOF {
			return datum.NoValue
		}
		line, ok := r.src.ReadRawLine("")
		if !ok {
			r.charEOF = true
			return datum.NoValue
		}
		r.charBuf = append([]rune(line), '\n')
		r.charPos = 0
	}
	ch := r.charBuf[r.charPos]
	r.charPos++
	return datum.NewWordFromString(string(ch))
}

// ReadWordWithPrompt implements `read_word_with_prompt`: one Word built from
// an entire line, with `\X` escapes resolved but tildes and vertical bars
// left as literal characters (they are only structurally significant to
// ReadListWithPrompt's continuation/forever-special handling).
func (r *Reader) ReadWordWithPrompt(prompt string) datum.Datum {
	line, ok := r.src.ReadRawLine(prompt)
	if !ok {
		return datum.NoValue
	}
	return datum.NewEscapedWord(resolveBackslashes(line), false)
}

// ReadListWithPrompt implements `read_list_with_prompt`: the bracketed
// content of one (or several continued) logical lines, per §4.2's lexical
// rules. Returns NoValue if the stream ends before any token is read.
func (r *Reader) ReadListWithPrompt(prompt string, allowMultiline bool) (datum.Datum, *datum.ErrorDatum) {
	line, ok := r.src.ReadRawLine(prompt)
	if !ok {
		return datum.NoValue, nil
	}
	sc := &scanner{runes: []rune(line), src: r.src, allowMultiline: allowMultiline}
	items, errd := sc.scanUntil(0)
	if errd != nil {
		return nil, errd
	}
	return datum.NewList(items...), nil
}

func resolveBackslashes(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			i++
			if code, ok := datum.EncodeRune(runes[i]); ok {
				out = append(out, code)
			} else {
				out = append(out, runes[i])
			}
			continue
		}
		out = append(out, runes[i])
	}
	return string(out)
}

func bracketError(code errtab.Code) *datum.ErrorDatum {
	return datum.NewErrorDatum(int(code), errtab.Message(code), "", nil)
}
