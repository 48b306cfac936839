package reader

import (
	"strconv"
	"strings"

	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/errtab"
)

// scanner tokenizes one logical line (transparently requesting continuation
// lines from src as needed) into the bracket-structured Datum sequence
// ReadListWithPrompt returns. It never splits a composite word like
// `2*2+3` -- that is runparse's job (§4.3).
type scanner struct {
	runes          []rune
	pos            int
	src            LineSource
	allowMultiline bool
}

func (sc *scanner) atEnd() bool { return sc.pos >= len(sc.runes) }

func (sc *scanner) peek() rune { return sc.runes[sc.pos] }

func (sc *scanner) advance() rune {
	ch := sc.runes[sc.pos]
	sc.pos++
	return ch
}

func (sc *scanner) skipSpaces() {
	for !sc.atEnd() && isSpace(sc.peek()) {
		sc.advance()
	}
}

// appendLine joins a continuation line onto the buffer the way pressing
// Enter mid-input would: the line break becomes an ordinary word
// separator. Tilde-glued word continuation (scanWord) bypasses this and
// concatenates directly, since that is mid-word gluing, not a line break.
func (sc *scanner) appendLine(line string) {
	sc.runes = append(sc.runes, ' ')
	sc.runes = append(sc.runes, []rune(line)...)
}

// scanUntil collects items until it sees closer (']' or '}'), or, if
// closer is 0, until the (possibly continued) logical line runs out.
func (sc *scanner) scanUntil(closer rune) ([]datum.Datum, *datum.ErrorDatum) {
	var items []datum.Datum
	for {
		sc.skipSpaces()
		if sc.atEnd() {
			if closer == 0 {
				return items, nil
			}
			if !sc.allowMultiline {
				return nil, bracketErrorFor(closer)
			}
			more, ok := sc.src.ReadRawLine(continuationPrompt(closer))
			if !ok {
				return nil, bracketErrorFor(closer)
			}
			sc.appendLine(more)
			continue
		}

		switch ch := sc.peek(); ch {
		case ']':
			if closer == ']' {
				sc.advance()
				return items, nil
			}
			return nil, bracketError(errtab.UnexpectedSquare)
		case '}':
			if closer == '}' {
				sc.advance()
				return items, nil
			}
			return nil, bracketError(errtab.UnexpectedBrace)
		case '[':
			sc.advance()
			sub, errd := sc.scanUntil(']')
			if errd != nil {
				return nil, errd
			}
			items = append(items, datum.NewList(sub...))
		case '{':
			sc.advance()
			sub, errd := sc.scanUntil('}')
			if errd != nil {
				return nil, errd
			}
			origin := 1
			if n, ok := sc.tryReadOrigin(); ok {
				origin = n
			}
			items = append(items, datum.NewArrayFromItems(sub, origin))
		case ';':
			if sc.consumeComment() {
				if !sc.allowMultiline {
					return nil, bracketErrorFor(closer)
				}
				more, ok := sc.src.ReadRawLine(continuationPrompt(closer))
				if !ok {
					if closer == 0 {
						return items, nil
					}
					return nil, bracketErrorFor(closer)
				}
				sc.appendLine(more)
			}
			// else: rest of physical line consumed; loop re-evaluates
			// atEnd()/closer on the next iteration exactly as if we'd hit
			// a plain end-of-line.
		case '|':
			w, errd := sc.scanForeverSpecial()
			if errd != nil {
				return nil, errd
			}
			items = append(items, w)
		default:
			items = append(items, sc.scanWord())
		}
	}
}

// scanWord reads one contiguous run of non-boundary characters as a single
// Word, gluing a continuation line on if the line ends in an un-escaped
// `~` (§4.2).
func (sc *scanner) scanWord() *datum.Word {
	var raw []rune
	for {
		if sc.atEnd() {
			if len(raw) > 0 && raw[len(raw)-1] == '~' && sc.allowMultiline {
				raw = raw[:len(raw)-1]
				if more, ok := sc.src.ReadRawLine("~ "); ok {
					sc.runes = append(sc.runes, []rune(more)...)
					continue
				}
			}
			break
		}
		ch := sc.peek()
		if isSpace(ch) || isBoundary(ch) {
			break
		}
		if ch == '\\' && sc.pos+1 < len(sc.runes) {
			sc.advance()
			nxt := sc.advance()
			if code, ok := datum.EncodeRune(nxt); ok {
				raw = append(raw, code)
			} else {
				raw = append(raw, nxt)
			}
			continue
		}
		raw = append(raw, ch)
		sc.advance()
	}
	return datum.NewEscapedWord(string(raw), false)
}

// scanForeverSpecial reads a `|...|`-delimited word: every interior
// character is raw-encoded regardless of backslash (only `\|` is special,
// escaping a literal bar so it doesn't end the quote), per §4.2.
func (sc *scanner) scanForeverSpecial() (*datum.Word, *datum.ErrorDatum) {
	sc.advance() // opening |
	var raw []rune
	for {
		if sc.atEnd() {
			if !sc.allowMultiline {
				return datum.NewEscapedWord(string(raw), true), nil
			}
			more, ok := sc.src.ReadRawLine("| ")
			if !ok {
				return datum.NewEscapedWord(string(raw), true), nil
			}
			if code, ok := datum.EncodeRune('\n'); ok {
				raw = append(raw, code)
			}
			sc.runes = append(sc.runes, []rune(more)...)
			continue
		}
		if sc.peek() == '\\' && sc.pos+1 < len(sc.runes) && sc.runes[sc.pos+1] == '|' {
			sc.advance()
			sc.advance()
			if code, ok := datum.EncodeRune('|'); ok {
				raw = append(raw, code)
			}
			continue
		}
		ch := sc.advance()
		if ch == '|' {
			return datum.NewEscapedWord(string(raw), true), nil
		}
		if code, ok := datum.EncodeRune(ch); ok {
			raw = append(raw, code)
		} else {
			raw = append(raw, ch)
		}
	}
}

// tryReadOrigin reads an optional `@N` suffix right after a closing `}`.
func (sc *scanner) tryReadOrigin() (int, bool) {
	if sc.atEnd() || sc.peek() != '@' {
		return 0, false
	}
	mark := sc.pos
	sc.advance()
	start := sc.pos
	for !sc.atEnd() && isDigit(sc.peek()) {
		sc.advance()
	}
	if sc.pos == start {
		sc.pos = mark
		return 0, false
	}
	n, _ := strconv.Atoi(string(sc.runes[start:sc.pos]))
	return n, true
}

// consumeComment consumes a `;` comment to end of (remaining) line and
// reports whether it ended in `~`, meaning the comment continues onto the
// next physical line.
func (sc *scanner) consumeComment() bool {
	sc.advance() // ';'
	rest := string(sc.runes[sc.pos:])
	sc.pos = len(sc.runes)
	return strings.HasSuffix(strings.TrimRight(rest, " \t"), "~")
}

func isSpace(ch rune) bool { return ch == ' ' || ch == '\t' }

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isBoundary(ch rune) bool {
	switch ch {
	case '[', ']', '{', '}', '|', ';':
		return true
	default:
		return false
	}
}

func bracketErrorFor(closer rune) *datum.ErrorDatum {
	switch closer {
	case '}':
		return bracketError(errtab.UnexpectedBrace)
	default:
		return bracketError(errtab.UnexpectedSquare)
	}
}

func continuationPrompt(closer rune) string {
	switch closer {
	case ']':
		return "] "
	case '}':
		return "} "
	default:
		return "~ "
	}
}
