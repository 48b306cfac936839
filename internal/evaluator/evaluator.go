// Package evaluator implements the tree-walking execution engine (C7,
// §4.6): statement sequencing, procedure-call frames, CATCH/THROW via the
// ordinary *datum.ErrorDatum return channel (a THROW is simply an
// ErrorDatum tagged with its catch tag, propagated like any other error
// until a matching CATCH consumes it), GOTO/TAG intra-procedure jumps, and
// PAUSE/CONTINUE's nested-REPL re-entrancy guard.
package evaluator

import (
	"strings"

	"github.com/go-logo/qlogo/internal/catalogue"
	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/errtab"
	"github.com/go-logo/qlogo/internal/parser"
	"github.com/go-logo/qlogo/internal/reader"
	"github.com/go-logo/qlogo/internal/runparse"
	"github.com/go-logo/qlogo/internal/terminal"
	"github.com/go-logo/qlogo/internal/turtle"
	"github.com/go-logo/qlogo/internal/workspace"
)

// TraceEvent is emitted to an attached Tracer on GOTO jumps; PAUSE and CATCH
// emit no events (SPEC_FULL's AMBIENT STACK logging section): a narrow hook,
// not a structured-logging dependency, matching the teacher carrying none
// for this concern either.
type TraceEvent struct {
	Kind string // "goto"
	Detail string
}

// Tracer receives TraceEvents; nil means tracing is off.
type Tracer func(TraceEvent)

// Evaluator is the concrete catalogue.Machine implementation tying every
// collaborator together.
type Evaluator struct {
	ws   *workspace.Workspace
	cat  *catalogue.Catalogue
	trt  turtle.Turtle
	term terminal.Terminal
	rdr  *reader.Reader

	tracer Tracer

	callDepth int
	procStack []*datum.Procedure
}

var _ catalogue.Machine = (*Evaluator)(nil)

// MaxCallDepth guards against runaway recursion the way UCBLogo's stack
// overflow error does (§4.8, errtab.StackOverflow).
const MaxCallDepth = 4000

// New builds an Evaluator over the given collaborators.
func New(cat *catalogue.Catalogue, ws *workspace.Workspace, trt turtle.Turtle, term terminal.Terminal, rdr *reader.Reader) *Evaluator {
	return &Evaluator{cat: cat, ws: ws, trt: trt, term: term, rdr: rdr}
}

// SetTracer attaches (or clears, with nil) a trace hook.
func (e *Evaluator) SetTracer(t Tracer) { e.tracer = t }

func (e *Evaluator) trace(kind, detail string) {
	if e.tracer != nil {
		e.tracer(TraceEvent{Kind: kind, Detail: detail})
	}
}

func (e *Evaluator) Workspace() *workspace.Workspace  { return e.ws }
func (e *Evaluator) Turtle() turtle.Turtle            { return e.trt }
func (e *Evaluator) Terminal() terminal.Terminal      { return e.term }
func (e *Evaluator) Reader() *reader.Reader           { return e.rdr }
func (e *Evaluator) Catalogue() *catalogue.Catalogue  { return e.cat }

// CurrentProcedure returns the procedure whose call frame is innermost, or
// nil at top level.
func (e *Evaluator) CurrentProcedure() *datum.Procedure {
	if len(e.procStack) == 0 {
		return nil
	}
	return e.procStack[len(e.procStack)-1]
}

// ParseBody runparses and parses l's contents into a statement body, using
// this evaluator's catalogue and (if currently inside one) the enclosing
// procedure, so a CATCH/IF/REPEAT block's bracketed instruction list can be
// compiled on first use exactly like a procedure body is (§4.3/§4.4).
func (e *Evaluator) ParseBody(l *datum.List) ([]*datum.ASTNode, *datum.ErrorDatum) {
	proc := e.CurrentProcedure()
	stamp := e.cat.Timestamp()
	if l.CacheValid(stamp) {
		if cached := l.ASTCache(); cached != nil {
			out := make([]*datum.ASTNode, len(cached))
			for i, d := range cached {
				out[i] = d.(*datum.ASTNode)
			}
			return out, nil
		}
	}
	tokens := runparse.Tokens(l, stamp, stamp+1)
	body, errd := parser.ParseStatements(tokens, e.cat, proc)
	if errd != nil {
		return nil, errd
	}
	cacheable := make([]datum.Datum, len(body))
	for i, n := range body {
		cacheable[i] = n
	}
	l.SetASTCache(cacheable, stamp+1)
	return body, nil
}

// EvalExpr evaluates one expression node to a Datum value.
func (e *Evaluator) EvalExpr(node *datum.ASTNode) (datum.Datum, *datum.ErrorDatum) {
	switch node.Op {
	case datum.OpLiteral:
		return node.Literal, nil

	case datum.OpValueOf:
		v, ok := e.ws.DatumForName(node.VarName)
		if !ok {
			return nil, datum.NewErrorDatum(int(errtab.NoValue), node.VarName+" has "+errtab.Message(errtab.NoValue), node.VarName, nil)
		}
		return v, nil

	case datum.OpGoto:
		return nil, datum.NewErrorDatum(int(errtab.NotInsideProcedure), "GOTO "+errtab.Message(errtab.NotInsideProcedure), "", nil)

	case datum.OpBuiltin:
		return e.evalBuiltin(node)

	case datum.OpUserCall:
		return e.evalUserCall(node)
	}
	return datum.NoValue, nil
}

func (e *Evaluator) evalArgs(children []*datum.ASTNode) ([]datum.Datum, *datum.ErrorDatum) {
	out := make([]datum.Datum, len(children))
	for i, c := range children {
		v, errd := e.EvalExpr(c)
		if errd != nil {
			return nil, errd
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) evalBuiltin(node *datum.ASTNode) (datum.Datum, *datum.ErrorDatum) {
	if strings.HasPrefix(node.BuiltinName, parser.GetSetPrefix) {
		varName := strings.TrimPrefix(node.BuiltinName, parser.GetSetPrefix)
		args, errd := e.evalArgs(node.Children)
		if errd != nil {
			return nil, errd
		}
		e.ws.SetDatumForName(varName, args[0])
		return datum.NoValue, nil
	}

	entry, ok := e.cat.LookupPrimitive(node.BuiltinName)
	if !ok {
		return nil, datum.NewErrorDatum(int(errtab.NoHow), errtab.Message(errtab.NoHow)+" "+node.BuiltinName, node.BuiltinName, nil)
	}

	var args []datum.Datum
	if entry.SpecialForm {
		args = make([]datum.Datum, len(node.Children))
		for i, c := range node.Children {
			args[i] = c.Literal
		}
	} else {
		var errd *datum.ErrorDatum
		args, errd = e.evalArgs(node.Children)
		if errd != nil {
			return nil, errd
		}
	}
	return entry.Handler(e, args)
}

func (e *Evaluator) evalUserCall(node *datum.ASTNode) (datum.Datum, *datum.ErrorDatum) {
	proc, ok := e.cat.LookupProcedure(node.ProcName)
	if !ok {
		return nil, datum.NewErrorDatum(int(errtab.NoHow), errtab.Message(errtab.NoHow)+" "+node.ProcName, node.ProcName, nil)
	}
	args, errd := e.evalArgs(node.Children)
	if errd != nil {
		return nil, errd
	}
	return e.callAndTrampoline(proc, args)
}

// callAndTrampoline runs proc, and, if it is a macro (§4.7/§9.5), repeatedly
// reruns its List output as instructions in the CALLER's frame rather than
// returning it as a value -- CallProcedure has already popped proc's own
// frame by the time we get here, which is exactly what "runs in the
// caller's frame" requires. A macro that returns anything but a List is
// errtab.MacroReturnedNotList; STOP/GOTO raised by the trampolined body
// still propagate outward via Signal, same as any other nested body.
func (e *Evaluator) callAndTrampoline(proc *datum.Procedure, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	v, errd := e.CallProcedure(proc, args)
	if errd != nil {
		return nil, errd
	}
	if !proc.IsMacro {
		return v, nil
	}
	l, ok := v.(*datum.List)
	if !ok {
		return nil, datum.NewErrorDatum(int(errtab.MacroReturnedNotList), proc.Name+" "+errtab.Message(errtab.MacroReturnedNotList), proc.Name, nil)
	}
	body, errd := e.ParseBody(l)
	if errd != nil {
		return nil, errd
	}
	sig, errd := e.EvalBody(body)
	if errd != nil {
		return nil, errd
	}
	switch sig.Kind {
	case catalogue.SignalOutput:
		return sig.Value, nil
	case catalogue.SignalStop, catalogue.SignalGoto:
		return nil, e.Signal(sig)
	default:
		return datum.NoValue, nil
	}
}

// CallProcedure pushes a frame, binds required/optional/rest parameters,
// runs the body (resolving any GOTO against proc's own TagLines, §4.4), and
// returns the OUTPUT value, or NoValue for a STOP/fall-off-the-end command
// call.
func (e *Evaluator) CallProcedure(proc *datum.Procedure, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	if !proc.AcceptsArity(len(args)) {
		if len(args) < proc.MinArgs {
			return nil, datum.NewErrorDatum(int(errtab.NotEnough), errtab.Message(errtab.NotEnough)+" to "+proc.Name, proc.Name, nil)
		}
		return nil, datum.NewErrorDatum(int(errtab.TooMany), errtab.Message(errtab.TooMany)+" to "+proc.Name, proc.Name, nil)
	}

	e.callDepth++
	if e.callDepth > MaxCallDepth {
		e.callDepth--
		return nil, datum.NewErrorDatum(int(errtab.StackOverflow), errtab.Message(errtab.StackOverflow), proc.Name, nil)
	}
	defer func() { e.callDepth-- }()

	frame := e.ws.PushFrame(proc.Name)
	defer e.ws.PopFrame()
	e.procStack = append(e.procStack, proc)
	defer func() { e.procStack = e.procStack[:len(e.procStack)-1] }()

	i := 0
	for _, name := range proc.Required {
		frame.SetExplicitSlots(append(frame.ExplicitSlots(), args[i]))
		e.ws.SetVarAsLocal(name, args[i])
		i++
	}
	for _, opt := range proc.Optional {
		if i < len(args) {
			e.ws.SetVarAsLocal(opt.Name, args[i])
			i++
		} else if opt.Default != nil {
			v, errd := e.EvalExpr(opt.Default)
			if errd != nil {
				return nil, errd
			}
			e.ws.SetVarAsLocal(opt.Name, v)
		} else {
			e.ws.SetVarAsLocal(opt.Name, datum.NoValue)
		}
	}
	if proc.Rest != "" {
		e.ws.SetVarAsLocal(proc.Rest, datum.NewList(args[i:]...))
	}

	idx := 0
	for {
		sig, errd := e.evalBodyFrom(proc.Body, idx)
		if errd != nil {
			return nil, errd
		}
		switch sig.Kind {
		case catalogue.SignalGoto:
			target, known := proc.TagLines[strings.ToUpper(sig.Tag)]
			if !known {
				return nil, datum.NewErrorDatum(int(errtab.DoesntLike), sig.Tag+" "+errtab.Message(errtab.DoesntLike)+" for GOTO", proc.Name, nil)
			}
			e.trace("goto", sig.Tag)
			idx = target
			continue
		case catalogue.SignalOutput:
			return sig.Value, nil
		default:
			return datum.NoValue, nil
		}
	}
}

// EvalBody runs body from its first statement, returning the signal the
// first STOP/OUTPUT/.MAYBEOUTPUT/GOTO statement raises, or SignalNone if
// every statement ran to completion without one.
func (e *Evaluator) EvalBody(body []*datum.ASTNode) (catalogue.Signal, *datum.ErrorDatum) {
	return e.evalBodyFrom(body, 0)
}

func (e *Evaluator) evalBodyFrom(body []*datum.ASTNode, start int) (catalogue.Signal, *datum.ErrorDatum) {
	for i := start; i < len(body); i++ {
		node := body[i]
		if node.Op == datum.OpGoto {
			return catalogue.Signal{Kind: catalogue.SignalGoto, Tag: node.Tag}, nil
		}
		if sig, matched, errd := e.signalName(node); matched {
			return sig, errd
		}
		_, errd := e.EvalExpr(node)
		if errd != nil {
			if sig, ok := unwrapSignal(errd); ok {
				return sig, nil
			}
			return catalogue.Signal{}, errd
		}
	}
	return catalogue.Signal{Kind: catalogue.SignalNone}, nil
}

// signalName recognizes STOP/OUTPUT/.MAYBEOUTPUT statements, which the
// primitives package registers as ordinary OpBuiltin nodes but which must
// be intercepted here (rather than just returning a Datum) so their effect
// threads out of the enclosing body as a Signal (§4.6). Reports matched so
// the caller knows to stop walking the body even when errd is nil but sig
// is SignalNone-shaped some other way; an error evaluating OUTPUT's own
// argument is either a genuine error (propagated untouched) or a Signal
// that argument expression itself raised (unwrapped and forwarded, so e.g.
// `OUTPUT IFELSE ... [OUTPUT "A] [OUTPUT "B]` correctly threads the inner
// OUTPUT out instead of silently discarding it).
func (e *Evaluator) signalName(node *datum.ASTNode) (catalogue.Signal, bool, *datum.ErrorDatum) {
	if node.Op != datum.OpBuiltin {
		return catalogue.Signal{}, false, nil
	}
	switch strings.ToUpper(node.BuiltinName) {
	case "STOP":
		return catalogue.Signal{Kind: catalogue.SignalStop}, true, nil
	case "OUTPUT", ".MAYBEOUTPUT":
		if len(node.Children) != 1 {
			return catalogue.Signal{}, false, nil
		}
		v, errd := e.EvalExpr(node.Children[0])
		if errd != nil {
			if sig, ok := unwrapSignal(errd); ok {
				return sig, true, nil
			}
			return catalogue.Signal{}, true, errd
		}
		return catalogue.Signal{Kind: catalogue.SignalOutput, Value: v}, true, nil
	default:
		return catalogue.Signal{}, false, nil
	}
}

// Throw implements THROW's half of CATCH/THROW (§4.6): builds the tagged
// ErrorDatum that propagates up the ordinary error-return channel until a
// CATCH primitive (internal/primitives) recognizes a matching tag and
// consumes it.
func (e *Evaluator) Throw(tag string, value datum.Datum) *datum.ErrorDatum {
	errd := datum.NewErrorDatum(int(errtab.Throw), errtab.Message(errtab.Throw)+" \""+tag, "", nil).WithTag(tag)
	errd.Output = value
	return errd
}

// signalTag marks an ErrorDatum built by Signal: a Signal smuggled through a
// Handler's (Datum, *ErrorDatum) return shape, never a real Logo-level
// error. Chosen so no THROW'd tag (always built from a Word, never
// containing NUL) can ever collide with it, which keeps CATCH from ever
// mistakenly intercepting a STOP/OUTPUT/GOTO in flight.
const signalTag = "\x00qlogo-signal"

// Signal lets a control-flow primitive's Handler (IF, REPEAT, CATCH, and
// similar, in internal/primitives) forward a Signal its own nested EvalBody
// call produced, since a Handler can otherwise only return a plain Datum.
// The enclosing evalBodyFrom (one level up, whatever that is: the procedure
// body itself, or another nested control primitive) recognizes and unwraps
// this the moment it comes back from EvalExpr, so the Signal keeps
// propagating outward as if the primitive's instruction list had simply been
// inlined into its caller (§4.6).
func (e *Evaluator) Signal(sig catalogue.Signal) *datum.ErrorDatum {
	errd := datum.NewErrorDatum(int(errtab.Throw), "", "", nil).WithTag(signalTag)
	errd.SignalKind = int(sig.Kind)
	errd.SignalValue = sig.Value
	errd.SignalTag = sig.Tag
	return errd
}

// unwrapSignal reports whether errd is a Signal built by Signal, and returns
// it if so.
func unwrapSignal(errd *datum.ErrorDatum) (catalogue.Signal, bool) {
	if errd == nil || errd.Tag() != signalTag {
		return catalogue.Signal{}, false
	}
	return catalogue.Signal{
		Kind:  catalogue.SignalKind(errd.SignalKind),
		Value: errd.SignalValue,
		Tag:   errd.SignalTag,
	}, true
}
