package primitives

import (
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"

	"github.com/go-logo/qlogo/internal/catalogue"
	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/errtab"
	"github.com/go-logo/qlogo/internal/parser"
	"github.com/go-logo/qlogo/internal/procdef"
	"github.com/go-logo/qlogo/internal/reader"
	"github.com/go-logo/qlogo/internal/runparse"
)

// --- SAVE/LOAD/DRIBBLE (§6 persisted state) ---------------------------------

// valueSource renders v the way it must appear as a MAKE/PPROP argument in
// re-readable SAVE output: a Word needs its `"` literal prefix restored (SAVE
// never stores a bare value, only the expression that reproduces it), while a
// List already SHOWs bracketed.
func valueSource(v datum.Datum) string {
	if w, ok := asWord(v); ok {
		return "\"" + w.Printable()
	}
	return datum.Show(v, -1, -1)
}

// defaultExprText renders one optional parameter's default expression for a
// reconstructed TO/.MACRO header; only literal defaults round-trip exactly,
// a non-literal default (a nested expression) falls back to its AST display
// name, which is the best SAVE can do without an expression-to-source
// unparser of its own.
func defaultExprText(n *datum.ASTNode) string {
	if n.Op == datum.OpLiteral {
		return valueSource(n.Literal)
	}
	return n.DisplayName()
}

// procedureListing reconstructs a full TO/.MACRO ... END block for p. Only
// the body is stored verbatim (Procedure.Source); the header is rebuilt from
// the parameter lists since nothing else retains its original text.
func procedureListing(p *datum.Procedure) string {
	keyword := "TO"
	if p.IsMacro {
		keyword = ".MACRO"
	}

	var b strings.Builder
	b.WriteString(keyword)
	b.WriteString(" ")
	b.WriteString(p.Name)
	for _, name := range p.Required {
		b.WriteString(" :")
		b.WriteString(name)
	}
	for _, opt := range p.Optional {
		b.WriteString(" [:")
		b.WriteString(opt.Name)
		if opt.Default != nil {
			b.WriteString(" ")
			b.WriteString(defaultExprText(opt.Default))
		}
		b.WriteString("]")
	}
	if p.Rest != "" {
		b.WriteString(" [:")
		b.WriteString(p.Rest)
		b.WriteString("]")
	}
	b.WriteString("\n")
	if p.Source != "" {
		b.WriteString(p.Source)
		b.WriteString("\n")
	}
	b.WriteString("END\n")
	return b.String()
}

// workspaceSource emits SAVE's full re-readable listing: every unburied
// procedure, then a MAKE per global variable, then a PPROP per non-empty
// property-list entry (§6).
func workspaceSource(m catalogue.Machine) string {
	cat := m.Catalogue()
	ws := m.Workspace()

	var b strings.Builder
	for _, name := range cat.ProcedureNames() {
		p, ok := cat.LookupProcedure(name)
		if !ok {
			continue
		}
		b.WriteString(procedureListing(p))
		b.WriteString("\n")
	}
	for _, name := range ws.GlobalVarNames() {
		v, ok := ws.GlobalVar(name)
		if !ok {
			continue
		}
		b.WriteString("MAKE \"")
		b.WriteString(name)
		b.WriteString(" ")
		b.WriteString(valueSource(v))
		b.WriteString("\n")
	}
	for _, name := range ws.PlistNames() {
		props := ws.Plist(name)
		for i := 0; i+1 < len(props); i += 2 {
			propName, ok := asWord(props[i])
			if !ok {
				continue
			}
			b.WriteString("PPROP \"")
			b.WriteString(name)
			b.WriteString(" \"")
			b.WriteString(propName.Printable())
			b.WriteString(" ")
			b.WriteString(valueSource(props[i+1]))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func primSave(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "SAVE")
	}
	pf, err := renameio.NewPendingFile(w.Printable(), renameio.WithPermissions(0o644))
	if err != nil {
		return nil, datum.NewErrorDatum(int(errtab.Filesystem), errors.Wrap(err, "SAVE").Error(), "SAVE", nil)
	}
	defer pf.Cleanup()
	if _, err := pf.Write([]byte(workspaceSource(m))); err != nil {
		return nil, datum.NewErrorDatum(int(errtab.Filesystem), errors.Wrap(err, "SAVE").Error(), "SAVE", nil)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return nil, datum.NewErrorDatum(int(errtab.Filesystem), errors.Wrap(err, "SAVE").Error(), "SAVE", nil)
	}
	return datum.NoValue, nil
}

// sliceSource replays a file's lines already read into memory, one at a
// time, against either a reader.LineSource (bracket-aware top-level line
// parsing) or a procdef.LineSource (raw body-line pulls for TO/.MACRO) --
// LOAD needs both roles for exactly the same reason internal/interp's one
// live terminal.Terminal does.
type sliceSource struct {
	lines []string
	pos   int
}

func (s *sliceSource) ReadRawLine(prompt string) (string, bool) {
	return s.ReadRawLineWithPrompt(prompt)
}

func (s *sliceSource) ReadRawLineWithPrompt(prompt string) (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true
}

func primLoad(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "LOAD")
	}
	raw, err := os.ReadFile(w.Printable())
	if err != nil {
		return nil, datum.NewErrorDatum(int(errtab.CantOpen), errors.Wrap(err, "LOAD").Error(), "LOAD", nil)
	}
	src := &sliceSource{lines: strings.Split(string(raw), "\n")}
	cat := m.Catalogue()

	for {
		rdr := reader.New(src)
		line, errd := rdr.ReadListWithPrompt("", true)
		if errd != nil {
			return nil, errd
		}
		if datum.IsNoValue(line) {
			return datum.NoValue, nil
		}
		l, ok := line.(*datum.List)
		if !ok || l.IsEmpty() {
			continue
		}
		if first, ok := l.First().(*datum.Word); ok {
			if isDefine, isMacro := procdef.Keyword(first.Printable()); isDefine {
				if errd := procdef.Define(l, src, cat, isMacro); errd != nil {
					return nil, errd
				}
				continue
			}
		}
		toks := runparse.Tokens(l, cat.Timestamp(), cat.Timestamp())
		nodes, errd := parser.ParseStatements(toks, cat, nil)
		if errd != nil {
			return nil, errd
		}
		if _, errd := m.EvalBody(nodes); errd != nil {
			return nil, errd
		}
	}
}

func primDribble(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "DRIBBLE")
	}
	if m.Terminal().IsDribbling() {
		return nil, datum.NewErrorDatum(int(errtab.AlreadyDribbling), errtab.Message(errtab.AlreadyDribbling), "DRIBBLE", nil)
	}
	f, err := os.OpenFile(w.Printable(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, datum.NewErrorDatum(int(errtab.CantOpen), errors.Wrap(err, "DRIBBLE").Error(), "DRIBBLE", nil)
	}
	m.Terminal().SetDribble(f)
	return datum.NoValue, nil
}

func primNodribble(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	m.Terminal().StopDribble()
	return datum.NoValue, nil
}
