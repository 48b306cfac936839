// Package interp is the top-level facade (§2's system overview) tying the
// reader, runparser, parser, catalogue, workspace, evaluator, turtle, and
// terminal together: one Interp per running program, offering RunLine (one
// top-level statement) and REPL (a prompt-driven loop), with TO/.MACRO/
// .DEFMACRO procedure definition handled here (via internal/procdef) rather
// than in the catalogue (see DESIGN.md's Open Question on why).
package interp

import (
	"github.com/go-logo/qlogo/internal/catalogue"
	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/evaluator"
	"github.com/go-logo/qlogo/internal/parser"
	"github.com/go-logo/qlogo/internal/primitives"
	"github.com/go-logo/qlogo/internal/procdef"
	"github.com/go-logo/qlogo/internal/reader"
	"github.com/go-logo/qlogo/internal/runparse"
	"github.com/go-logo/qlogo/internal/terminal"
	"github.com/go-logo/qlogo/internal/turtle"
	"github.com/go-logo/qlogo/internal/workspace"
)

// Interp is one running Logo session's full collaborator set.
type Interp struct {
	Catalogue *catalogue.Catalogue
	Workspace *workspace.Workspace
	Turtle    turtle.Turtle
	Terminal  terminal.Terminal
	Reader    *reader.Reader
	Evaluator *evaluator.Evaluator

	Prompt string

	// DumpAST, if set, is invoked with each top-level line's freshly parsed
	// statement nodes right before they run (cmd/qlogo's --dump-ast flag).
	DumpAST func(nodes []*datum.ASTNode)
}

// New builds an Interp with every primitive from internal/primitives
// registered, over the given terminal and turtle (trt may be a *turtle.Headless
// or nil if FORWARD/RIGHT should raise NoGraphics).
func New(term terminal.Terminal, trt turtle.Turtle) *Interp {
	cat := catalogue.New()
	primitives.Register(cat)
	ws := workspace.New()
	rdr := reader.New(term)
	ev := evaluator.New(cat, ws, trt, term, rdr)
	return &Interp{
		Catalogue: cat,
		Workspace: ws,
		Turtle:    trt,
		Terminal:  term,
		Reader:    rdr,
		Evaluator: ev,
		Prompt:    "? ",
	}
}

// SetTracer attaches a trace hook (--trace) to the evaluator.
func (in *Interp) SetTracer(t evaluator.Tracer) { in.Evaluator.SetTracer(t) }

// RunLine reads, runparses, parses, and evaluates one top-level line,
// intercepting a leading "TO" into procedure definition (§4.4/§9) instead
// of ordinary evaluation. Returns the line's output value (NoValue if
// none), or nil with atEnd true once the input stream is exhausted.
func (in *Interp) RunLine() (result datum.Datum, atEnd bool, errd *datum.ErrorDatum) {
	line, errd := in.Reader.ReadListWithPrompt(in.Prompt, true)
	if errd != nil {
		return nil, false, errd
	}
	if datum.IsNoValue(line) {
		return nil, true, nil
	}
	l, ok := line.(*datum.List)
	if !ok || l.IsEmpty() {
		return datum.NoValue, false, nil
	}
	if first, ok := l.First().(*datum.Word); ok {
		if isDefine, isMacro := procdef.Keyword(first.Printable()); isDefine {
			if errd := procdef.Define(l, in.Terminal, in.Catalogue, isMacro); errd != nil {
				return nil, false, errd
			}
			return datum.NoValue, false, nil
		}
	}

	toks := runparse.Tokens(l, in.Catalogue.Timestamp(), in.Catalogue.Timestamp())
	nodes, errd := parser.ParseStatements(toks, in.Catalogue, nil)
	if errd != nil {
		return nil, false, errd
	}
	if in.DumpAST != nil {
		in.DumpAST(nodes)
	}
	sig, errd := in.Evaluator.EvalBody(nodes)
	if errd != nil {
		return nil, false, errd
	}
	if sig.Kind == catalogue.SignalOutput {
		return sig.Value, false, nil
	}
	return datum.NoValue, false, nil
}

// REPL runs RunLine in a loop, printing each error to the terminal and
// SHOWing any top-level output, until the input stream ends.
func (in *Interp) REPL() {
	for {
		result, atEnd, errd := in.RunLine()
		if atEnd {
			return
		}
		if errd != nil {
			in.Terminal.PrintToConsole(errd.Message() + "\n")
			continue
		}
		if !datum.IsNoValue(result) {
			in.Terminal.PrintToConsole(datum.Show(result, -1, -1) + "\n")
		}
	}
}

// RunAll drains the input stream via RunLine, stopping at the first error
// (used by `qlogo run file.logo`, where a script error should abort rather
// than fall back to interactive recovery).
func (in *Interp) RunAll() *datum.ErrorDatum {
	for {
		_, atEnd, errd := in.RunLine()
		if errd != nil {
			return errd
		}
		if atEnd {
			return nil
		}
	}
}
