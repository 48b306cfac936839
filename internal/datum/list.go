package datum

// List is a singly-linked cons cell: First holds the head element, Rest
// points at the tail List. The canonical empty list has First == nil and
// Rest == nil. Lists may share tails, and -- via SetFirst/SetRest -- may be
// made self-referential; printing and equality both guard against that
// (print.go, equals.go).
//
// length, cacheTimestamp, tokenCache and astCache implement the parse-cache
// memoization described in §3/§4.3/§4.4: a List used as Logo source code
// caches its runparsed token stream and parsed AST, keyed by a timestamp
// that the catalogue bumps on every procedure definition/erasure.
type List struct {
	refs refs

	first Datum
	rest  *List
	length int

	cacheTimestamp int64
	tokenCache     []Datum
	astCache       []Datum
}

var _ Datum = (*List)(nil)
var _ Aggregate = (*List)(nil)

func (l *List) Kind() Kind { return KindList }

// NewEmptyList returns a fresh empty list (`[]`).
func NewEmptyList() *List {
	return &List{refs: newRefs(KindList)}
}

// Cons prepends first onto rest, sharing rest's structure. rest may be nil,
// meaning the empty list.
func Cons(first Datum, rest *List) *List {
	if rest == nil {
		rest = NewEmptyList()
	}
	return &List{refs: newRefs(KindList), first: first, rest: rest, length: rest.length + 1}
}

// NewList builds a fresh List from a slice of elements, tail to head.
func NewList(items ...Datum) *List {
	l := NewEmptyList()
	for i := len(items) - 1; i >= 0; i-- {
		l = Cons(items[i], l)
	}
	return l
}

func (l *List) Retain() *List  { l.refs.retain(); return l }
func (l *List) Release()       { l.refs.release() }
func (l *List) RefCount() int32 { return l.refs.refCount() }

func (l *List) IsEmpty() bool { return l.first == nil && l.rest == nil }

// Size returns the maintained length; O(1) even for cyclic lists.
func (l *List) Size() int { return l.length }

func (l *List) First() Datum {
	if l.IsEmpty() {
		return NoValue
	}
	return l.first
}

func (l *List) Rest() *List {
	if l.IsEmpty() {
		return l
	}
	return l.rest
}

// Last returns the final element, or NoValue if empty.
func (l *List) Last() Datum {
	if l.IsEmpty() {
		return NoValue
	}
	cur := l
	for !cur.rest.IsEmpty() {
		cur = cur.rest
	}
	return cur.first
}

// ButLast returns a fresh List containing every element but the last.
func (l *List) ButLast() *List {
	if l.IsEmpty() {
		return l
	}
	items := l.Items()
	return NewList(items[:len(items)-1]...)
}

// Items materializes the list into a slice. Guarded against a SetRest-built
// cycle by tracking visited cells directly rather than trusting length as a
// preallocation hint -- length is pinned to a large sentinel on
// self-reference (SetRest) precisely so callers must not treat it as a real
// size.
func (l *List) Items() []Datum {
	prealloc := l.length
	if prealloc > 1024 {
		prealloc = 0
	}
	out := make([]Datum, 0, prealloc)
	seen := map[*List]bool{}
	cur := l
	for !cur.IsEmpty() {
		if seen[cur] {
			break
		}
		seen[cur] = true
		out = append(out, cur.first)
		cur = cur.rest
	}
	return out
}

// IndexInRange reports whether the 1-based index i addresses an element.
func (l *List) IndexInRange(i int) bool { return i >= 1 && i <= l.length }

// ItemAt returns the 1-based i'th element. Callers must check
// IndexInRange first.
func (l *List) ItemAt(i int) Datum {
	cur := l
	for n := 1; n < i; n++ {
		cur = cur.rest
	}
	return cur.first
}

// IsMember reports shallow membership: d equals some direct element of l.
func IsMember(l *List, d Datum, ignoreCase bool) bool {
	for _, item := range l.Items() {
		if Equal(item, d, ignoreCase) {
			return true
		}
	}
	return false
}

// Contains reports deep membership: d occurs anywhere in l or any sublist.
func Contains(l *List, d Datum, ignoreCase bool) bool {
	for _, item := range l.Items() {
		if Equal(item, d, ignoreCase) {
			return true
		}
		if sub, ok := item.(*List); ok {
			if Contains(sub, d, ignoreCase) {
				return true
			}
		}
	}
	return false
}

// SetFirst mutates the head element in place (`.SETFIRST`). This, along
// with SetRest, is the one sanctioned way to build a self-referential list
// (§3); it resets the parse-cache timestamp since the List's contents
// changed (§4.3).
func (l *List) SetFirst(d Datum) {
	l.first = d
	l.invalidate()
}

// SetRest mutates the tail in place (`.SETBF`); rest may be l itself.
func (l *List) SetRest(rest *List) {
	l.rest = rest
	if rest == l {
		l.length = 1 << 30 // self-reference: treat as unbounded, printing guards via renderListBody's visited set
	} else {
		l.length = 1 + rest.length
	}
	l.invalidate()
}

// SetItem mutates the 1-based i'th element in place (`.SETITEM`).
func (l *List) SetItem(i int, d Datum) {
	cur := l
	for n := 1; n < i; n++ {
		cur = cur.rest
	}
	cur.first = d
	l.invalidate()
}

func (l *List) invalidate() {
	l.cacheTimestamp = 0
	l.tokenCache = nil
	l.astCache = nil
}

// CacheValid reports whether the memoized cache (runparse tokens or parsed
// AST, whichever the caller is about to consult) is still fresh against the
// workspace's last-mutation timestamp (§4.3: valid iff strictly greater).
func (l *List) CacheValid(workspaceTimestamp int64) bool {
	return l.cacheTimestamp > workspaceTimestamp
}

// TokenCache/SetTokenCache and ASTCache/SetASTCache store the runparser and
// parser memoization results respectively; SetTokenCache/SetASTCache bump
// the List's cacheTimestamp to stamp, which the caller obtains from the
// workspace's current mutation counter.
func (l *List) TokenCache() []Datum { return l.tokenCache }

func (l *List) SetTokenCache(tokens []Datum, stamp int64) {
	l.tokenCache = tokens
	l.cacheTimestamp = stamp
}

func (l *List) ASTCache() []Datum { return l.astCache }

func (l *List) SetASTCache(ast []Datum, stamp int64) {
	l.astCache = ast
	l.cacheTimestamp = stamp
}
