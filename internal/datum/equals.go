package datum

// Equal implements `EQUAL?` / `=`: structural equality with optional
// ASCII-only case folding (§3, §9). Word equality prefers numeric
// comparison when either operand is number-sourced and successfully
// numeric; List equality is element-wise and cycle-safe; Array, ASTNode,
// Procedure and ErrorDatum fall back to reference identity, matching
// UCBLogo's treatment of non-printable/non-list aggregates.
func Equal(a, b Datum, ignoreCase bool) bool {
	return equalGuarded(a, b, ignoreCase, nil)
}

type listPair struct{ a, b *List }

func equalGuarded(a, b Datum, ignoreCase bool, seen map[listPair]bool) bool {
	if IsNoValue(a) || IsNoValue(b) {
		return IsNoValue(a) && IsNoValue(b)
	}

	switch av := a.(type) {
	case *Word:
		bv, ok := b.(*Word)
		if !ok {
			return false
		}
		return wordEqual(av, bv, ignoreCase)
	case *List:
		bv, ok := b.(*List)
		if !ok {
			return false
		}
		return listEqual(av, bv, ignoreCase, seen)
	default:
		return a == b
	}
}

func wordEqual(a, b *Word, ignoreCase bool) bool {
	an, aok := a.Number()
	bn, bok := b.Number()
	if (a.numSource || aok) && (b.numSource || bok) && aok && bok {
		return an == bn
	}
	as, bs := a.Printable(), b.Printable()
	if ignoreCase {
		as, bs = asciiUpper(as), asciiUpper(bs)
	}
	return as == bs
}

func listEqual(a, b *List, ignoreCase bool, seen map[listPair]bool) bool {
	if a == b {
		return true
	}
	if a.length != b.length {
		return false
	}
	if seen == nil {
		seen = make(map[listPair]bool)
	}
	pair := listPair{a, b}
	if seen[pair] {
		// Already comparing this exact pair further up the recursion: two
		// structures that loop back to a point they already agreed on are
		// equal at that point (co-inductive equality for cyclic lists).
		return true
	}
	seen[pair] = true

	ac, bc := a, b
	for !ac.IsEmpty() {
		if bc.IsEmpty() {
			return false
		}
		if !equalGuarded(ac.first, bc.first, ignoreCase, seen) {
			return false
		}
		ac, bc = ac.rest, bc.rest
	}
	return bc.IsEmpty()
}
