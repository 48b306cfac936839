// Package runparse implements the composite-word decomposition pass (§4.3):
// turning a reader-produced List like [if :n=0 [output 0]] into one where
// every composite Word (":n=0") has been split into the separate tokens
// (":n", "=", "0") the parser (C4) expects, while nested Lists, Arrays, and
// forever-special Words pass through untouched.
package runparse

import (
	"strconv"

	"github.com/go-logo/qlogo/internal/datum"
)

// boundary runes: each one always ends a run of identifier characters and is
// itself tokenized (as a standalone operator/paren/quote/colon/slot marker).
// Parens are included here, not in the reader (§4.2 leaves "(" / ")" as
// ordinary word characters; decomposing them is explicitly runparse's job).
func isBoundary(r rune) bool {
	switch r {
	case '(', ')', '+', '-', '*', '/', '%', '=', '<', '>', '"', ':', '?':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Tokens returns l's runparsed token stream, consulting/populating the
// List's own memoized cache (§4.3) first, which counts as valid while its
// stamp is newer than workspaceTimestamp (list.go's CacheValid/SetTokenCache
// contract). stamp is the value the cache will be stamped with on a
// (re)computation; callers pass the catalogue's timestamp for both, except
// the evaluator, which stamps one past it so the cache stays valid until the
// catalogue's timestamp next advances.
func Tokens(l *datum.List, workspaceTimestamp, stamp int64) []datum.Datum {
	if l.CacheValid(workspaceTimestamp) {
		if cached := l.TokenCache(); cached != nil {
			return cached
		}
	}
	var out []datum.Datum
	for _, item := range l.Items() {
		out = append(out, decomposeItem(item)...)
	}
	l.SetTokenCache(out, stamp)
	return out
}

// TokensAsList is Tokens wrapped back into a List, for callers (the parser)
// that want a token stream expressed the same way source is.
func TokensAsList(l *datum.List, workspaceTimestamp, stamp int64) *datum.List {
	return datum.NewList(Tokens(l, workspaceTimestamp, stamp)...)
}

// decomposeItem expands one reader-level element into zero or more
// parser-level tokens. Only plain (non-forever-special) Words are ever split;
// everything else -- nested Lists, Arrays, forever-special Words -- passes
// through as a single token unchanged.
func decomposeItem(item datum.Datum) []datum.Datum {
	w, ok := item.(*datum.Word)
	if !ok {
		return []datum.Datum{item}
	}
	if w.ForeverSpecial() || w.IsNumberSourced() {
		return []datum.Datum{item}
	}
	return decomposeWord(w.Raw())
}

// decomposeWord splits the raw (tokenizer-safe) text of one composite Word
// into its constituent tokens per §4.3's rules. Operating on the raw form
// (rather than Printable) means a character entered via `\+` or inside a
// forever-special context stays a raw control code, never mistaken for the
// live operator rune it displays as.
func decomposeWord(raw string) []datum.Datum {
	runes := []rune(raw)
	var out []datum.Datum

	i := 0
	expectValue := true

	// Leading '-' on a word that isn't literally "-" is unary negation:
	// rewrite as 0 -- <rest>, then keep scanning the remainder normally.
	if len(runes) > 1 && runes[0] == '-' {
		out = append(out, datum.NewWordFromString("0"))
		out = append(out, datum.NewEscapedWord("--", false))
		i = 1
		expectValue = true
	}

	for i < len(runes) {
		ch := runes[i]

		switch {
		case ch == '"':
			j := i + 1
			for j < len(runes) && !isBoundary(runes[j]) {
				j++
			}
			out = append(out, datum.NewEscapedWord(string(runes[i:j]), false))
			i = j
			expectValue = false

		case ch == ':':
			j := i + 1
			for j < len(runes) && !isBoundary(runes[j]) {
				j++
			}
			out = append(out, datum.NewEscapedWord(string(runes[i:j]), false))
			i = j
			expectValue = false

		case ch == '?':
			j := i + 1
			for j < len(runes) && isDigit(runes[j]) {
				j++
			}
			if j > i+1 {
				n, _ := strconv.Atoi(string(runes[i+1 : j]))
				out = append(out,
					datum.NewEscapedWord("(", false),
					datum.NewEscapedWord("?", false),
					datum.NewNumber(float64(n)),
					datum.NewEscapedWord(")", false),
				)
			} else {
				out = append(out, datum.NewEscapedWord("?", false))
			}
			i = j
			expectValue = false

		case (ch == '-' || ch == '+') && expectValue && numberLookahead(runes, i):
			tok, next, ok := scanNumber(runes, i)
			if ok {
				out = append(out, datum.NewNumber(mustParseNumber(tok)))
				i = next
				expectValue = false
			} else {
				out = append(out, datum.NewEscapedWord(tok, false))
				i = next
				expectValue = true
			}

		case isDigit(ch):
			tok, next, ok := scanNumber(runes, i)
			if ok {
				out = append(out, datum.NewNumber(mustParseNumber(tok)))
			} else {
				out = append(out, datum.NewEscapedWord(tok, false))
			}
			i = next
			expectValue = false

		case isOperatorRune(ch):
			tok, next := scanOperator(runes, i)
			out = append(out, datum.NewEscapedWord(tok, false))
			i = next
			expectValue = tok != ")"

		default:
			j := i
			for j < len(runes) && !isBoundary(runes[j]) {
				j++
			}
			if j == i {
				// A lone boundary rune that fell through every case above
				// (shouldn't happen given the switch order, but never loop
				// forever): emit it as a one-character token and advance.
				j++
			}
			out = append(out, datum.NewEscapedWord(string(runes[i:j]), false))
			i = j
			expectValue = false
		}
	}

	return out
}

func isOperatorRune(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '=', '<', '>', '(', ')':
		return true
	default:
		return false
	}
}

// scanOperator matches the longest operator token starting at i: the
// two-character forms first ("<=", ">=", "<>", "--"), then single characters
// including the two parenthesis tokens.
func scanOperator(runes []rune, i int) (string, int) {
	if i+1 < len(runes) {
		two := string(runes[i : i+2])
		switch two {
		case "<=", ">=", "<>", "--":
			return two, i + 2
		}
	}
	return string(runes[i]), i + 1
}

// numberLookahead reports whether a '+'/'-' at i is immediately followed by
// digits or a decimal point, i.e. is plausibly the sign of a number literal
// rather than a bare operator. Only consulted when expectValue is true, so
// this never misreads a binary "a-b" as a signed number.
func numberLookahead(runes []rune, i int) bool {
	j := i + 1
	if j >= len(runes) {
		return false
	}
	return isDigit(runes[j]) || runes[j] == '.'
}

// scanNumber matches the numeric literal grammar of §4.3: optional sign,
// integer part, optional '.' + fractional part (at least one digit on
// either side), optional [eE][+-]?digits.
func scanNumber(runes []rune, i int) (string, int, bool) {
	start := i
	if i < len(runes) && (runes[i] == '+' || runes[i] == '-') {
		i++
	}
	intStart := i
	for i < len(runes) && isDigit(runes[i]) {
		i++
	}
	intDigits := i - intStart

	hasFrac := false
	if i < len(runes) && runes[i] == '.' {
		save := i
		i++
		fracStart := i
		for i < len(runes) && isDigit(runes[i]) {
			i++
		}
		if intDigits > 0 || i > fracStart {
			hasFrac = true
		} else {
			i = save
		}
	}

	if intDigits == 0 && !hasFrac {
		// Nothing number-shaped here after all; the caller falls back to
		// treating the sign as a one-character operator token instead.
		return string(runes[start]), start + 1, false
	}

	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		save := i
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		expStart := j
		for j < len(runes) && isDigit(runes[j]) {
			j++
		}
		if j > expStart {
			i = j
		} else {
			i = save
		}
	}

	return string(runes[start:i]), i, true
}

func mustParseNumber(s string) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
