package datum

// encodeTable and decodeTable implement the raw/displayed character mapping
// of §4.1: special punctuation entered inside `|...|` or after `\` is
// substituted with a control-range code point so the reader/runparser never
// re-tokenizes it, and the substitution is undone when the Word is printed.
var encodeTable = map[rune]rune{
	':':  2,
	' ':  3,
	'\t': 4,
	'\n': 5,
	'(':  6,
	'?':  11,
	'+':  14,
	'~':  15,
	')':  16,
	'[':  17,
	']':  18,
	'-':  19,
	'*':  20,
	'/':  21,
	'=':  22,
	'<':  23,
	'>':  24,
	'"':  25,
	'\\': 26,
	';':  28,
	'|':  29,
	'{':  30,
	'}':  31,
}

var decodeTable map[rune]rune

func init() {
	decodeTable = make(map[rune]rune, len(encodeTable))
	for display, code := range encodeTable {
		decodeTable[code] = display
	}
}

// EncodeRune returns the raw control-code substitute for a display
// character and true if that character is one of the escapable specials.
func EncodeRune(ch rune) (rune, bool) {
	code, ok := encodeTable[ch]
	return code, ok
}

// DecodeRune returns the display character for a raw control code and true
// if code is one of the substituted control-range values.
func DecodeRune(code rune) (rune, bool) {
	ch, ok := decodeTable[code]
	return ch, ok
}

// NeedsEscape reports whether ch is one of the characters that must be
// preceded by a backslash when printed outside `|...|` (§4.1 rendering
// rules): the raw-encodable punctuation set plus space/tab/newline.
func NeedsEscape(ch rune) bool {
	_, ok := encodeTable[ch]
	return ok
}

// rawEncode substitutes every escapable character in s with its raw control
// code. Used when a reader escape (`\X` or inside `|...|`) protects a
// character from further tokenization.
func rawEncode(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if code, ok := encodeTable[r]; ok {
			out = append(out, code)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// rawDecode reverses rawEncode, restoring display characters from their raw
// control-code substitutes. Characters below 0x20 that are not in the table
// (true control characters) pass through unchanged.
func rawDecode(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if ch, ok := decodeTable[r]; ok {
			out = append(out, ch)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// hasRawControl reports whether s contains any character below ASCII 0x20,
// i.e. whether it carries raw-encoded specials that must be printed via
// `|...|` per the Word rendering rules.
func hasRawControl(s string) bool {
	for _, r := range s {
		if r < 0x20 {
			return true
		}
	}
	return false
}
