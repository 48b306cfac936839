package datum

import "strconv"

// Print renders d the way the `PRINT`/`TYPE` family does: a top-level List
// is unraveled (no enclosing brackets), everything nested inside it is
// still bracketed. depthLimit/widthLimit implement PRINTDEPTHLIMIT and
// PRINTWIDTHLIMIT (§4.1, §8); pass -1 for "no limit".
func Print(d Datum, depthLimit, widthLimit int) string {
	if l, ok := d.(*List); ok {
		return renderListBody(l, depthLimit, widthLimit, map[*List]bool{})
	}
	return render(d, depthLimit, widthLimit, map[*List]bool{})
}

// Show renders d the way `SHOW` does: a List is always bracketed, even at
// the top level (§8 scenario 5/6).
func Show(d Datum, depthLimit, widthLimit int) string {
	return render(d, depthLimit, widthLimit, map[*List]bool{})
}

func render(d Datum, depth, width int, seen map[*List]bool) string {
	switch v := d.(type) {
	case nil:
		return ""
	case noValue:
		return ""
	case *Word:
		return RenderWord(v, false, width)
	case *List:
		if depth == 0 {
			return "..."
		}
		if seen[v] {
			return "..."
		}
		seen[v] = true
		body := renderListBody(v, depth-1, width, seen)
		delete(seen, v)
		return "[" + body + "]"
	case *Array:
		return renderArray(v, depth, width, seen)
	case *ASTNode:
		return v.DisplayName()
	case *Procedure:
		return v.Name
	case *ErrorDatum:
		return Print(v.AsList(), depth, width)
	default:
		return ""
	}
}

// renderListBody renders l's elements space-joined, without enclosing
// brackets. Rest-chain cycles (built via SetRest) are caught by the local
// visited set; a sublist that is itself an element (built via SetFirst, or
// naturally nested) recurses through render, which carries the ancestor
// `seen` set for that case.
func renderListBody(l *List, depth, width int, seen map[*List]bool) string {
	var parts []string
	visited := map[*List]bool{}
	cur := l
	for !cur.IsEmpty() {
		if visited[cur] {
			parts = append(parts, "...")
			break
		}
		visited[cur] = true
		parts = append(parts, render(cur.first, depth, width, seen))
		cur = cur.rest
	}
	return joinSpace(parts)
}

func renderArray(a *Array, depth, width int, seen map[*List]bool) string {
	parts := make([]string, 0, len(a.items))
	for _, item := range a.items {
		parts = append(parts, render(item, depth, width, seen))
	}
	out := "{" + joinSpace(parts) + "}"
	if a.origin != 1 {
		out += "@" + strconv.Itoa(a.origin)
	}
	return out
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// RenderWord implements the §4.1 Word rendering rules directly so callers
// that need fine control (e.g. FULLTEXT re-emission) can bypass Print/Show.
func RenderWord(w *Word, full bool, widthLimit int) string {
	raw := w.Raw()
	if full && hasRawControl(raw) {
		return "|" + rawDecode(raw) + "|"
	}

	text := w.Printable()
	if !full && widthLimit >= 0 {
		limit := widthLimit
		if limit < 10 {
			limit = 10
		}
		r := []rune(text)
		if len(r) > limit {
			text = string(r[:limit]) + "..."
		}
	}
	if !full {
		return text
	}

	var out []rune
	for _, r := range text {
		if NeedsEscape(r) {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
