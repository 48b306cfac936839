// Package workspace implements the dynamic-scope variable/property-list
// storage described in §4.5: a stack of frames, each a case-insensitive
// name->Datum map, searched outward from the currently executing procedure
// to the global frame (Logo variables are dynamically, not lexically,
// scoped).
package workspace

import (
	"sort"

	"github.com/go-logo/qlogo/internal/datum"
)

// testState tracks the three-valued outcome TEST/IFTRUE/IFFALSE share
// (§4.6): untested, or the last TEST result.
type testState int

const (
	testUnset testState = iota
	testTrue
	testFalse
)

// Frame is one procedure-call's local scope: its own variables, its own
// REPCOUNT (REPEAT/FOREVER nest, each with an independently saved/restored
// counter), its own TEST result, and the explicit-slot (? / ?1 / ?2 ...)
// argument list a macro or named-slot call binds.
type Frame struct {
	procName string
	vars     map[string]datum.Datum
	parent   *Frame

	test     testState
	repcount int

	explicitSlots []datum.Datum
}

func newFrame(procName string, parent *Frame) *Frame {
	return &Frame{procName: procName, vars: map[string]datum.Datum{}, parent: parent, repcount: -1}
}

// Workspace is the interpreter's mutable global state: the frame stack,
// property lists, and the mutation timestamp the parse caches (§4.3/§4.4)
// are keyed against.
type Workspace struct {
	global  *Frame
	current *Frame

	plists map[string]map[string]datum.Datum

	timestamp int64
	pausing   bool
}

// New builds a Workspace with just the global frame active.
func New() *Workspace {
	g := newFrame("", nil)
	return &Workspace{global: g, current: g, plists: map[string]map[string]datum.Datum{}}
}

func key(name string) string {
	w := datum.NewWordFromString(name)
	return w.UpperKey()
}

// PushFrame enters a new local scope (a procedure call), returning it so the
// caller can pop it again when the call returns.
func (w *Workspace) PushFrame(procName string) *Frame {
	f := newFrame(procName, w.current)
	w.current = f
	return f
}

// PopFrame leaves the current scope, restoring its parent. No-op (and
// programmer-error-tolerant) if called with no local frame active.
func (w *Workspace) PopFrame() {
	if w.current.parent != nil {
		w.current = w.current.parent
	}
}

// CurrentFrame returns the innermost active scope.
func (w *Workspace) CurrentFrame() *Frame { return w.current }

// InProcedure reports whether execution is currently inside some
// procedure's local frame (as opposed to top level).
func (w *Workspace) InProcedure() bool { return w.current != w.global }

// DatumForName looks up name (case-insensitively) starting at the current
// frame and walking outward to global, matching dynamic scoping (§4.5).
func (w *Workspace) DatumForName(name string) (datum.Datum, bool) {
	k := key(name)
	for f := w.current; f != nil; f = f.parent {
		if v, ok := f.vars[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetDatumForName implements MAKE's dynamic-scope rule: if name is already
// bound somewhere on the frame chain, update it in place there; otherwise
// create it fresh in the global frame.
func (w *Workspace) SetDatumForName(name string, v datum.Datum) {
	k := key(name)
	for f := w.current; f != nil; f = f.parent {
		if _, ok := f.vars[k]; ok {
			f.vars[k] = v
			return
		}
	}
	w.global.vars[k] = v
}

// SetVarAsLocal implements LOCAL: binds name in the current frame only,
// shadowing any outer binding for the remainder of this procedure call.
func (w *Workspace) SetVarAsLocal(name string, v datum.Datum) {
	w.current.vars[key(name)] = v
}

// SetVarAsGlobal forces name's binding into the global frame regardless of
// any local shadow (used by primitives with explicit global semantics).
func (w *Workspace) SetVarAsGlobal(name string, v datum.Datum) {
	w.global.vars[key(name)] = v
}

// IsNameDefined reports whether name is bound anywhere on the frame chain.
func (w *Workspace) IsNameDefined(name string) bool {
	_, ok := w.DatumForName(name)
	return ok
}

// ExplicitSlots/SetExplicitSlots back the `?`/`?N` named-slot mechanism for
// the current frame.
func (f *Frame) ExplicitSlots() []datum.Datum           { return f.explicitSlots }
func (f *Frame) SetExplicitSlots(slots []datum.Datum)   { f.explicitSlots = slots }

// TestResult/SetTestResult back TEST/IFTRUE/IFFALSE (§4.6): the outcome is
// frame-local, matching UCBLogo's per-procedure-call TEST state.
func (f *Frame) TestResult() (result, isSet bool) {
	return f.test == testTrue, f.test != testUnset
}

func (f *Frame) SetTestResult(v bool) {
	if v {
		f.test = testTrue
	} else {
		f.test = testFalse
	}
}

// RepCount/SetRepCount back REPCOUNT inside REPEAT/FOREVER; -1 means "not
// inside a REPEAT" for this frame, matching UCBLogo's reported value.
func (f *Frame) RepCount() int         { return f.repcount }
func (f *Frame) SetRepCount(n int)     { f.repcount = n }

// Pprop/Gprop/Remprop/Plist/IsPlist implement the property-list primitives
// (§4.5): a two-level map keyed by uppercased plist name, then uppercased
// property name.
func (w *Workspace) Pprop(plistName, propName string, v datum.Datum) {
	pn := key(plistName)
	m, ok := w.plists[pn]
	if !ok {
		m = map[string]datum.Datum{}
		w.plists[pn] = m
	}
	m[key(propName)] = v
}

func (w *Workspace) Gprop(plistName, propName string) (datum.Datum, bool) {
	m, ok := w.plists[key(plistName)]
	if !ok {
		return nil, false
	}
	v, ok := m[key(propName)]
	return v, ok
}

func (w *Workspace) Remprop(plistName, propName string) {
	if m, ok := w.plists[key(plistName)]; ok {
		delete(m, key(propName))
	}
}

func (w *Workspace) IsPlist(plistName string) bool {
	m, ok := w.plists[key(plistName)]
	return ok && len(m) > 0
}

// Plist returns plistName's properties as alternating name/value Datums, the
// shape PLIST reports. Property names come back upper-cased since that is
// all the two-level map retains.
func (w *Workspace) Plist(plistName string) []datum.Datum {
	m, ok := w.plists[key(plistName)]
	if !ok {
		return nil
	}
	out := make([]datum.Datum, 0, len(m)*2)
	for name, v := range m {
		out = append(out, datum.NewWordFromString(name), v)
	}
	return out
}

// Timestamp/Bump implement a workspace mutation counter. Nothing in this
// repository calls Bump; the parse caches (`list.go`'s
// CacheValid/SetTokenCache/SetASTCache, §4.3) are keyed against the
// catalogue's timestamp instead.
func (w *Workspace) Timestamp() int64 { return w.timestamp }

func (w *Workspace) Bump() int64 {
	w.timestamp++
	return w.timestamp
}

// Pausing/SetPausing guards PAUSE re-entrancy: ERRACT invoking PAUSE from
// inside a PAUSE that is itself running ERRACT would otherwise recurse
// forever (§9, "already pausing", grounded on QLogo's kernel_controlstructures.cpp).
func (w *Workspace) Pausing() bool     { return w.pausing }
func (w *Workspace) SetPausing(v bool) { w.pausing = v }

// GlobalVarNames returns every name bound in the global frame, sorted, for
// SAVE's MAKE-form snapshot (§6); names set only inside a still-active local
// frame are deliberately excluded, matching SAVE's "current workspace state"
// semantics rather than a point-in-time call-stack dump.
func (w *Workspace) GlobalVarNames() []string {
	names := make([]string, 0, len(w.global.vars))
	for k := range w.global.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// GlobalVar looks up name directly in the global frame (as opposed to
// DatumForName's dynamic-scope walk), for SAVE re-emitting exactly the names
// GlobalVarNames reported.
func (w *Workspace) GlobalVar(name string) (datum.Datum, bool) {
	v, ok := w.global.vars[key(name)]
	return v, ok
}

// PlistNames returns every non-empty property list's name, sorted, for
// SAVE's PPROP-form snapshot (§6).
func (w *Workspace) PlistNames() []string {
	names := make([]string, 0, len(w.plists))
	for name, props := range w.plists {
		if len(props) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
