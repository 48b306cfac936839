// Package catalogue implements the procedure/primitive registry (§4.5): the
// name->dispatch-target lookup the parser (C4) consults to turn a bare
// identifier into a primitive handler call or a user-procedure invocation,
// plus the workspace-introspection operations (ARITY, PROCEDURE?, ALLNAMES,
// BURY/UNBURY, ERASE) built on top of it.
//
// Machine is the narrow interpreter surface a primitive Handler needs
// (running nested expressions, reaching workspace/turtle/terminal/reader).
// Handlers and this package depend only on Machine, never on the concrete
// evaluator type, which is what keeps catalogue -> evaluator from being an
// import cycle: the evaluator package imports catalogue and implements
// Machine, not the other way around.
package catalogue

import (
	"sort"

	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/reader"
	"github.com/go-logo/qlogo/internal/terminal"
	"github.com/go-logo/qlogo/internal/turtle"
	"github.com/go-logo/qlogo/internal/workspace"
)

// SignalKind tags the non-local control-flow outcome of running a statement
// body (§4.6): a plain fall-through, or one of STOP/OUTPUT/.MAYBEOUTPUT
// (collapsed to SignalOutput, the distinction is only which primitive
// raised it) /GOTO threaded back to the enclosing call.
type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalStop
	SignalOutput
	SignalGoto
)

// Signal is what EvalBody returns: the kind, and, for SignalOutput, the
// output value; for SignalGoto, the destination tag.
type Signal struct {
	Kind  SignalKind
	Value datum.Datum
	Tag   string
}

// Machine is the interpreter surface primitives are written against.
type Machine interface {
	EvalExpr(node *datum.ASTNode) (datum.Datum, *datum.ErrorDatum)
	EvalBody(body []*datum.ASTNode) (Signal, *datum.ErrorDatum)
	CallProcedure(proc *datum.Procedure, args []datum.Datum) (datum.Datum, *datum.ErrorDatum)

	// ParseBody compiles (or reuses the memoized compilation of) a
	// bracketed instruction list, such as a CATCH/IF/REPEAT body, against
	// the enclosing procedure's tag index (for any nested GOTO), whatever
	// that enclosing procedure currently is (see CurrentProcedure).
	ParseBody(l *datum.List) ([]*datum.ASTNode, *datum.ErrorDatum)
	CurrentProcedure() *datum.Procedure

	Workspace() *workspace.Workspace
	Turtle() turtle.Turtle
	Terminal() terminal.Terminal
	Reader() *reader.Reader
	Catalogue() *Catalogue

	// Throw implements CATCH/THROW's dynamic search: Throw returns the
	// ErrorDatum to propagate if no enclosing CATCH matches tag.
	Throw(tag string, value datum.Datum) *datum.ErrorDatum

	// Signal lets a control-flow primitive (IF/REPEAT/CATCH and similar)
	// forward a Signal its nested EvalBody call produced (STOP/OUTPUT/GOTO)
	// out through its own Handler, whose return shape is otherwise just
	// (Datum, *ErrorDatum): the evaluator carries the Signal home inside
	// the returned ErrorDatum and unwraps it again one level up, in its own
	// EvalBody, so the signal keeps propagating outward exactly as if the
	// primitive's instruction list had been inlined directly into the
	// enclosing body (§4.6 -- STOP/OUTPUT/GOTO always target the innermost
	// enclosing procedure call, never just the nearest bracketed list).
	Signal(sig Signal) *datum.ErrorDatum
}

// Handler is a primitive's Go implementation. args have already been
// evaluated (unless Entry.SpecialForm -- see below), and ran through the
// parser's arity check.
type Handler func(m Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum)

// Entry describes one primitive: its arity contract (§4.4's defaultArgs
// model) and its Go handler. SpecialForm marks TO-like commands whose
// arguments are the remaining raw tokens on the source line, unevaluated
// (§4.4); the parser, not this package, implements that token-consumption
// rule, but it consults SpecialForm to decide whether to.
type Entry struct {
	Name        string
	MinArgs     int
	DefaultArgs int
	MaxArgs     int // -1 means unbounded (a rest/vararg primitive)
	SpecialForm bool
	Handler     Handler
}

// Catalogue is the name->dispatch-target registry: primitives (fixed at
// startup by internal/primitives) plus user procedures (mutated by TO/END,
// .MACRO/.DEFMACRO, ERASE at runtime).
type Catalogue struct {
	primitives map[string]*Entry
	procedures map[string]*datum.Procedure
	buried     map[string]bool
	timestamp  int64
}

// New returns an empty Catalogue; primitives are registered separately via
// RegisterPrimitive (internal/primitives does this at startup).
func New() *Catalogue {
	return &Catalogue{
		primitives: map[string]*Entry{},
		procedures: map[string]*datum.Procedure{},
		buried:     map[string]bool{},
	}
}

func key(name string) string { return datum.NewWordFromString(name).UpperKey() }

// RegisterPrimitive adds e under its own (case-folded) name.
func (c *Catalogue) RegisterPrimitive(e *Entry) {
	c.primitives[key(e.Name)] = e
}

// LookupPrimitive returns the primitive entry for name, if any.
func (c *Catalogue) LookupPrimitive(name string) (*Entry, bool) {
	e, ok := c.primitives[key(name)]
	return e, ok
}

// LookupProcedure returns the user-defined procedure for name, if any.
func (c *Catalogue) LookupProcedure(name string) (*datum.Procedure, bool) {
	p, ok := c.procedures[key(name)]
	return p, ok
}

// DefineProcedure installs (or replaces) a user procedure and bumps the
// catalogue's mutation timestamp, invalidating every List's parse cache
// that is stamped at or before it (§4.3/§4.4).
func (c *Catalogue) DefineProcedure(p *datum.Procedure) {
	c.procedures[key(p.Name)] = p
	c.timestamp++
}

// EraseProcedure removes a user procedure, reporting whether one existed.
func (c *Catalogue) EraseProcedure(name string) bool {
	k := key(name)
	if _, ok := c.procedures[k]; !ok {
		return false
	}
	delete(c.procedures, k)
	delete(c.buried, k)
	c.timestamp++
	return true
}

// Timestamp is the value runparse/parser stamp a List's cache with, and
// compare against on the next lookup (§4.3).
func (c *Catalogue) Timestamp() int64 { return c.timestamp }

// IsProcedure/IsPrimitive/IsMacro answer the *? introspection primitives.
func (c *Catalogue) IsProcedure(name string) bool {
	_, isPrim := c.primitives[key(name)]
	_, isProc := c.procedures[key(name)]
	return isPrim || isProc
}

func (c *Catalogue) IsPrimitive(name string) bool {
	_, ok := c.primitives[key(name)]
	return ok
}

func (c *Catalogue) IsMacro(name string) bool {
	p, ok := c.procedures[key(name)]
	return ok && p.IsMacro
}

// Arity returns a procedure or primitive's (min, default, max) argument
// counts, matching ARITY's reported shape.
func (c *Catalogue) Arity(name string) (min, def, max int, ok bool) {
	if e, found := c.primitives[key(name)]; found {
		return e.MinArgs, e.DefaultArgs, e.MaxArgs, true
	}
	if p, found := c.procedures[key(name)]; found {
		return p.MinArgs, p.DefArgs, p.MaxArgs, true
	}
	return 0, 0, 0, false
}

// AllNames returns every known name (primitives and procedures), sorted, as
// ALLNAMES reports them.
func (c *Catalogue) AllNames() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range c.primitives {
		if !seen[e.Name] {
			seen[e.Name] = true
			out = append(out, e.Name)
		}
	}
	for _, p := range c.procedures {
		if !seen[p.Name] {
			seen[p.Name] = true
			out = append(out, p.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Bury/Unbury/IsBuried back BURY/UNBURY: a buried name is skipped by
// ProcedureNames (and so by SAVE) but still callable; AllNames still lists it.
func (c *Catalogue) Bury(name string)   { c.buried[key(name)] = true }
func (c *Catalogue) Unbury(name string) { delete(c.buried, key(name)) }
func (c *Catalogue) IsBuried(name string) bool { return c.buried[key(name)] }

// ProcedureNames returns every unburied user-defined procedure name, sorted,
// for SAVE's PROCEDURES section (§6) -- primitives never appear, since they
// have no source text to re-emit.
func (c *Catalogue) ProcedureNames() []string {
	out := make([]string, 0, len(c.procedures))
	for k, p := range c.procedures {
		if c.buried[k] {
			continue
		}
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out
}

// ProcedureText round-trips a user procedure's original source text
// (§9's PROCEDURE.TEXT/FULLTEXT, supplemented from original_source/'s
// qlogo/workspace/procedures.cpp).
func (c *Catalogue) ProcedureText(name string) (string, bool) {
	p, ok := c.procedures[key(name)]
	if !ok {
		return "", false
	}
	return p.Source, true
}
