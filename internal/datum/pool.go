package datum

// Pool tracks allocation bookkeeping for the NODES primitive: the number of
// currently-live Datum values and the high-water mark ever reached, broken
// down by Kind. The teacher's small-object pool (internal/interp/runtime
// pool.go in go-dws) exists purely for allocator throughput; per Design
// Notes §9 that choice is not load-bearing here; only the two counters it
// would let us report are. A single global Pool is sufficient because the
// evaluator is single-threaded and cooperative (§5).
type Pool struct {
	live      [7]int
	highWater [7]int
}

var defaultPool = &Pool{}

// DefaultPool returns the process-wide allocation counters.
func DefaultPool() *Pool { return defaultPool }

func (p *Pool) track(k Kind) {
	p.live[k]++
	if p.live[k] > p.highWater[k] {
		p.highWater[k] = p.live[k]
	}
}

func (p *Pool) untrack(k Kind) {
	if p.live[k] > 0 {
		p.live[k]--
	}
}

// Live returns the number of currently-live Datum values of the given Kind.
func (p *Pool) Live(k Kind) int { return p.live[k] }

// HighWater returns the highest live count ever observed for the given Kind.
func (p *Pool) HighWater(k Kind) int { return p.highWater[k] }

// TotalLive sums live counts across all kinds, the number NODES reports.
func (p *Pool) TotalLive() int {
	n := 0
	for _, v := range p.live {
		n += v
	}
	return n
}

// TotalHighWater sums high-water counts across all kinds.
func (p *Pool) TotalHighWater() int {
	n := 0
	for _, v := range p.highWater {
		n += v
	}
	return n
}

// Reset clears all counters. Exposed for tests only.
func (p *Pool) Reset() {
	p.live = [7]int{}
	p.highWater = [7]int{}
}

// refCounted wraps a refs value; no Datum variant embeds it. Every variant
// (Word, List, Array, ASTNode, Procedure, ErrorDatum) embeds refs directly,
// which implements the reference counting described in Design Notes §9
// option (b): cycles created via
// .SETFIRST/.SETBF/.SETITEM simply never reach a refcount of zero, so they
// leak by design rather than by bug.
type refCounted struct {
	kind refs
}

type refs struct {
	count int32
	kind  Kind
}

func newRefs(k Kind) refs {
	defaultPool.track(k)
	return refs{count: 1, kind: k}
}

// retain increments the reference count, mirroring RefCountManager.IncrementRef
// in the teacher; each variant's exported Retain returns its receiver for
// chaining.
func (r *refs) retain() { r.count++ }

// release decrements the reference count; once it reaches zero the value is
// untracked from the pool. Callers holding an aggregate are responsible for
// releasing their children -- a cycle keeps
// at least one incoming reference forever and so never reaches zero.
func (r *refs) release() bool {
	if r.count <= 0 {
		return false
	}
	r.count--
	if r.count == 0 {
		defaultPool.untrack(r.kind)
		return true
	}
	return false
}

func (r *refs) refCount() int32 { return r.count }
