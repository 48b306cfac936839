// Package primitives registers the representative catalogue of built-in
// commands and operations SPEC_FULL's DOMAIN STACK names: control flow,
// procedure management, datum operations, variables, arithmetic, property
// lists, workspace introspection, I/O, and the turtle primitives (FORWARD,
// BACK, RIGHT, LEFT, PENUP, PENDOWN, HOME, SETXY, SETHEADING, CLEARSCREEN)
// that exercise the turtle contract end to end.
package primitives

import (
	"strings"

	"github.com/go-logo/qlogo/internal/catalogue"
	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/errtab"
)

// Register installs every primitive in this package into cat.
func Register(cat *catalogue.Catalogue) {
	for _, e := range entries {
		cat.RegisterPrimitive(e)
	}
	for alias, target := range aliases {
		if e, ok := cat.LookupPrimitive(target); ok {
			clone := *e
			clone.Name = alias
			cat.RegisterPrimitive(&clone)
		}
	}
}

var aliases = map[string]string{
	"BF": "BUTFIRST",
	"BL": "BUTLAST",
	"SE": "SENTENCE",
	"PR": "PRINT",
	"FD": "FORWARD",
	"RT": "RIGHT",
	"LT": "LEFT",
	"BK": "BACK",
	"PU": "PENUP",
	"PD": "PENDOWN",
	"CS": "CLEARSCREEN",
	"SETH": "SETHEADING",
	"IFT":  "IFTRUE",
	"IFF":  "IFFALSE",
}

// --- small shared helpers -------------------------------------------------

func trueWord() *datum.Word  { return datum.NewWordFromString("TRUE") }
func falseWord() *datum.Word { return datum.NewWordFromString("FALSE") }

func boolWord(b bool) *datum.Word {
	if b {
		return trueWord()
	}
	return falseWord()
}

func isTrue(d datum.Datum) bool {
	w, ok := d.(*datum.Word)
	return ok && w.UpperKey() == "TRUE"
}

func asWord(d datum.Datum) (*datum.Word, bool) {
	w, ok := d.(*datum.Word)
	return w, ok
}

func asList(d datum.Datum) (*datum.List, bool) {
	l, ok := d.(*datum.List)
	return l, ok
}

func asNumber(d datum.Datum) (float64, *datum.ErrorDatum) {
	w, ok := d.(*datum.Word)
	if !ok {
		return 0, doesntLikeInput(d, "")
	}
	n, ok := w.Number()
	if !ok {
		return 0, doesntLikeInput(d, "")
	}
	return n, nil
}

func doesntLikeInput(d datum.Datum, procName string) *datum.ErrorDatum {
	return datum.NewErrorDatum(int(errtab.DoesntLike), datum.Show(d, -1, -1)+" "+errtab.Message(errtab.DoesntLike), procName, nil)
}

// entries is the full primitive table. Arity fields follow catalogue.Entry
// (§4.4): MinArgs/DefaultArgs/MaxArgs, MaxArgs -1 meaning unbounded.
var entries = []*catalogue.Entry{
	// -- control flow ------------------------------------------------------
	{Name: "IF", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primIf},
	{Name: "IFELSE", MinArgs: 3, DefaultArgs: 3, MaxArgs: 3, Handler: primIfElse},
	{Name: "TEST", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primTest},
	{Name: "IFTRUE", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primIfTrue},
	{Name: "IFFALSE", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primIfFalse},
	{Name: "REPEAT", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primRepeat},
	{Name: "FOREVER", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primForever},
	{Name: "CATCH", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primCatch},
	{Name: "THROW", MinArgs: 1, DefaultArgs: 1, MaxArgs: 2, Handler: primThrow},
	{Name: "STOP", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primStopStub},
	{Name: "OUTPUT", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primOutputStub},
	{Name: ".MAYBEOUTPUT", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primOutputStub},
	{Name: "PAUSE", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primPause},
	{Name: "CONTINUE", MinArgs: 0, DefaultArgs: 0, MaxArgs: 1, Handler: primContinue},
	{Name: "ERASE", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primErase},

	// -- datum operations ----------------------------------------------------
	{Name: "FIRST", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primFirst},
	{Name: "BUTFIRST", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primButFirst},
	{Name: "LAST", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primLast},
	{Name: "BUTLAST", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primButLast},
	{Name: "ITEM", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primItem},
	{Name: "FPUT", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primFput},
	{Name: "LPUT", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primLput},
	{Name: "WORD", MinArgs: 0, DefaultArgs: 2, MaxArgs: -1, Handler: primWord},
	{Name: "SENTENCE", MinArgs: 0, DefaultArgs: 2, MaxArgs: -1, Handler: primSentence},
	{Name: "LIST", MinArgs: 0, DefaultArgs: 2, MaxArgs: -1, Handler: primList},
	{Name: "COUNT", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primCount},
	{Name: "EMPTYP", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primEmptyp},
	{Name: "WORDP", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primWordp},
	{Name: "LISTP", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primListp},
	{Name: "NUMBERP", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primNumberp},
	{Name: "EQUALP", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primEqualp},
	{Name: "NOTEQUALP", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primNotEqualp},
	{Name: "LESSP", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primLessp},
	{Name: "GREATERP", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primGreaterp},
	{Name: "LESSEQUALP", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primLessEqualp},
	{Name: "GREATEREQUALP", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primGreaterEqualp},
	{Name: ".EQ", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primDotEq},

	// -- variables -----------------------------------------------------------
	{Name: "MAKE", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primMake},
	{Name: "LOCAL", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primLocal},
	{Name: "THING", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primThing},

	// -- arithmetic ------------------------------------------------------
	{Name: "SUM", MinArgs: 1, DefaultArgs: 2, MaxArgs: -1, Handler: primSum},
	{Name: "DIFFERENCE", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primDifference},
	{Name: "PRODUCT", MinArgs: 1, DefaultArgs: 2, MaxArgs: -1, Handler: primProduct},
	{Name: "QUOTIENT", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primQuotient},
	{Name: "REMAINDER", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primRemainder},
	{Name: "MINUS", MinArgs: 1, DefaultArgs: 1, MaxArgs: 2, Handler: primMinus},

	// -- property lists --------------------------------------------------
	{Name: "PPROP", MinArgs: 3, DefaultArgs: 3, MaxArgs: 3, Handler: primPprop},
	{Name: "GPROP", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primGprop},
	{Name: "REMPROP", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primRemprop},
	{Name: "PLIST", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primPlist},

	// -- workspace introspection ------------------------------------------
	{Name: "ARITY", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primArity},
	{Name: "PROCEDUREP", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primProcedurep},
	{Name: "PRIMITIVEP", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primPrimitivep},
	{Name: "ALLNAMES", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primAllNames},
	{Name: "BURY", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primBury},
	{Name: "UNBURY", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primUnbury},
	{Name: "NODES", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primNodes},

	// -- I/O ---------------------------------------------------------------
	{Name: "PRINT", MinArgs: 0, DefaultArgs: 1, MaxArgs: -1, Handler: primPrint},
	{Name: "SHOW", MinArgs: 0, DefaultArgs: 1, MaxArgs: -1, Handler: primShow},
	{Name: "TYPE", MinArgs: 0, DefaultArgs: 1, MaxArgs: -1, Handler: primType},
	{Name: "READLIST", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primReadlist},
	{Name: "READWORD", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primReadword},
	{Name: "SAVE", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primSave},
	{Name: "LOAD", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primLoad},
	{Name: "DRIBBLE", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primDribble},
	{Name: "NODRIBBLE", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primNodribble},

	// -- turtle graphics (§6) -----------------------------------------------
	{Name: "FORWARD", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primForward},
	{Name: "BACK", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primBack},
	{Name: "RIGHT", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primRight},
	{Name: "LEFT", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primLeft},
	{Name: "PENUP", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primPenUp},
	{Name: "PENDOWN", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primPenDown},
	{Name: "HOME", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primHome},
	{Name: "SETXY", MinArgs: 2, DefaultArgs: 2, MaxArgs: 2, Handler: primSetXY},
	{Name: "SETHEADING", MinArgs: 1, DefaultArgs: 1, MaxArgs: 1, Handler: primSetHeading},
	{Name: "CLEARSCREEN", MinArgs: 0, DefaultArgs: 0, MaxArgs: 0, Handler: primClearScreen},
}

// --- control flow ----------------------------------------------------------

// runBranch runs a bracketed instruction list and reports the outcome: any
// STOP/OUTPUT/GOTO inside it is not this primitive's own return value, it
// belongs to the procedure the primitive itself is running in (§4.6), so the
// caller must forward it with m.Signal rather than interpret it locally.
func runBranch(m catalogue.Machine, branch datum.Datum, procName string) (catalogue.Signal, *datum.ErrorDatum) {
	l, ok := asList(branch)
	if !ok {
		return catalogue.Signal{}, doesntLikeInput(branch, procName)
	}
	body, errd := m.ParseBody(l)
	if errd != nil {
		return catalogue.Signal{}, errd
	}
	return m.EvalBody(body)
}

func primIf(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	if !isTrue(args[0]) {
		return datum.NoValue, nil
	}
	sig, errd := runBranch(m, args[1], "IF")
	if errd != nil {
		return nil, errd
	}
	if sig.Kind != catalogue.SignalNone {
		return nil, m.Signal(sig)
	}
	return datum.NoValue, nil
}

func primIfElse(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	branch := args[1]
	if !isTrue(args[0]) {
		branch = args[2]
	}
	sig, errd := runBranch(m, branch, "IFELSE")
	if errd != nil {
		return nil, errd
	}
	if sig.Kind != catalogue.SignalNone {
		return nil, m.Signal(sig)
	}
	return datum.NoValue, nil
}

func primTest(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	m.Workspace().CurrentFrame().SetTestResult(isTrue(args[0]))
	return datum.NoValue, nil
}

func primIfTrue(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return runIfTest(m, args[0], true)
}

func primIfFalse(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return runIfTest(m, args[0], false)
}

func runIfTest(m catalogue.Machine, branch datum.Datum, want bool) (datum.Datum, *datum.ErrorDatum) {
	result, set := m.Workspace().CurrentFrame().TestResult()
	if !set {
		return nil, datum.NewErrorDatum(int(errtab.NoTest), errtab.Message(errtab.NoTest), "", nil)
	}
	if result != want {
		return datum.NoValue, nil
	}
	sig, errd := runBranch(m, branch, "IFTRUE")
	if errd != nil {
		return nil, errd
	}
	if sig.Kind != catalogue.SignalNone {
		return nil, m.Signal(sig)
	}
	return datum.NoValue, nil
}

func primRepeat(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	n, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	l, ok := asList(args[1])
	if !ok {
		return nil, doesntLikeInput(args[1], "REPEAT")
	}
	body, errd := m.ParseBody(l)
	if errd != nil {
		return nil, errd
	}
	frame := m.Workspace().CurrentFrame()
	saved := frame.RepCount()
	defer frame.SetRepCount(saved)
	for i := 1; i <= int(n); i++ {
		frame.SetRepCount(i)
		sig, errd := m.EvalBody(body)
		if errd != nil {
			return nil, errd
		}
		if sig.Kind != catalogue.SignalNone {
			return nil, m.Signal(sig)
		}
	}
	return datum.NoValue, nil
}

func primForever(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	l, ok := asList(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "FOREVER")
	}
	body, errd := m.ParseBody(l)
	if errd != nil {
		return nil, errd
	}
	frame := m.Workspace().CurrentFrame()
	saved := frame.RepCount()
	defer frame.SetRepCount(saved)
	for i := 1; ; i++ {
		frame.SetRepCount(i)
		sig, errd := m.EvalBody(body)
		if errd != nil {
			return nil, errd
		}
		if sig.Kind != catalogue.SignalNone {
			return nil, m.Signal(sig)
		}
	}
}

// primCatch implements CATCH (§4.6): runs the body, and if it raises an
// ErrorDatum whose Tag matches (case-insensitively) or the catch tag is
// "ERROR" (which matches any error), consumes it and returns its carried
// Output value (or NoValue).
func primCatch(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	tagWord, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "CATCH")
	}
	tag := tagWord.Printable()
	l, ok := asList(args[1])
	if !ok {
		return nil, doesntLikeInput(args[1], "CATCH")
	}
	body, errd := m.ParseBody(l)
	if errd != nil {
		return nil, errd
	}
	sig, errd := m.EvalBody(body)
	if errd == nil {
		if sig.Kind != catalogue.SignalNone {
			return nil, m.Signal(sig)
		}
		return datum.NoValue, nil
	}
	if strings.EqualFold(errd.Tag(), tag) || strings.EqualFold(tag, "ERROR") {
		if errd.Output != nil {
			return errd.Output, nil
		}
		return datum.NoValue, nil
	}
	return nil, errd
}

func primThrow(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	tagWord, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "THROW")
	}
	var value datum.Datum
	if len(args) > 1 {
		value = args[1]
	}
	errd := m.Throw(tagWord.Printable(), value)
	return nil, errd
}

// primStopStub/primOutputStub are only ever invoked if STOP/OUTPUT appear
// somewhere other than a direct body statement (the normal case is
// intercepted by the evaluator's EvalBody before the handler runs, see
// evaluator.signalName); reaching the handler means a nested misuse.
func primStopStub(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return nil, datum.NewErrorDatum(int(errtab.NotInsideProcedure), "STOP "+errtab.Message(errtab.NotInsideProcedure), "", nil)
}

func primOutputStub(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return args[0], nil
}

// primPause implements PAUSE's nested-REPL re-entrancy guard (§9): ERRACT
// invoking PAUSE while already pausing raises an error instead of
// recursing.
func primPause(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	ws := m.Workspace()
	if ws.Pausing() {
		return nil, datum.NewErrorDatum(int(errtab.NotInsideProcedure), "already pausing", "", nil)
	}
	ws.SetPausing(true)
	defer ws.SetPausing(false)

	for {
		line, errd := m.Reader().ReadListWithPrompt("Pause> ", true)
		if errd != nil {
			return nil, errd
		}
		if datum.IsNoValue(line) {
			return datum.NoValue, nil
		}
		l, ok := asList(line)
		if !ok || l.IsEmpty() {
			continue
		}
		if first, ok := l.First().(*datum.Word); ok && strings.EqualFold(first.Printable(), "CONTINUE") {
			rest := l.Rest()
			if !rest.IsEmpty() {
				return rest.First(), nil
			}
			return datum.NoValue, nil
		}
		body, errd := m.ParseBody(l)
		if errd != nil {
			m.Terminal().PrintToConsole(errd.Message() + "\n")
			continue
		}
		sig, errd := m.EvalBody(body)
		if errd != nil {
			m.Terminal().PrintToConsole(errd.Message() + "\n")
			continue
		}
		switch sig.Kind {
		case catalogue.SignalOutput:
			return sig.Value, nil
		case catalogue.SignalStop, catalogue.SignalGoto:
			return nil, m.Signal(sig)
		}
	}
}

// primContinue is only reached if CONTINUE is called outside an active
// PAUSE loop (the loop above recognizes it directly as a line of input);
// that is itself an error.
func primContinue(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return nil, datum.NewErrorDatum(int(errtab.NotInsideProcedure), "CONTINUE "+errtab.Message(errtab.NotInsideProcedure), "", nil)
}

func primErase(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "ERASE")
	}
	m.Catalogue().EraseProcedure(w.Printable())
	return datum.NoValue, nil
}

// --- datum operations --------------------------------------------------

func primFirst(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	switch v := args[0].(type) {
	case *datum.Word:
		if v.IsEmpty() {
			return nil, doesntLikeInput(args[0], "FIRST")
		}
		return v.First(), nil
	case *datum.List:
		if v.IsEmpty() {
			return nil, doesntLikeInput(args[0], "FIRST")
		}
		return v.First(), nil
	case *datum.Array:
		if v.IsEmpty() || !v.IndexInRange(v.Origin()) {
			return nil, doesntLikeInput(args[0], "FIRST")
		}
		return v.ItemAt(v.Origin()), nil
	}
	return nil, doesntLikeInput(args[0], "FIRST")
}

func primButFirst(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	switch v := args[0].(type) {
	case *datum.Word:
		return v.ButFirst(), nil
	case *datum.List:
		return v.Rest(), nil
	}
	return nil, doesntLikeInput(args[0], "BUTFIRST")
}

func primLast(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	switch v := args[0].(type) {
	case *datum.Word:
		if v.IsEmpty() {
			return nil, doesntLikeInput(args[0], "LAST")
		}
		return v.Last(), nil
	case *datum.List:
		if v.IsEmpty() {
			return nil, doesntLikeInput(args[0], "LAST")
		}
		return v.Last(), nil
	}
	return nil, doesntLikeInput(args[0], "LAST")
}

func primButLast(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	switch v := args[0].(type) {
	case *datum.Word:
		return v.ButLast(), nil
	case *datum.List:
		return v.ButLast(), nil
	}
	return nil, doesntLikeInput(args[0], "BUTLAST")
}

func primItem(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	n, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	i := int(n)
	switch v := args[1].(type) {
	case *datum.Word:
		if !v.IndexInRange(i) {
			return nil, doesntLikeInput(args[0], "ITEM")
		}
		return v.ItemAt(i), nil
	case *datum.List:
		if !v.IndexInRange(i) {
			return nil, doesntLikeInput(args[0], "ITEM")
		}
		return v.ItemAt(i), nil
	case *datum.Array:
		if !v.IndexInRange(i) {
			return nil, doesntLikeInput(args[0], "ITEM")
		}
		return v.ItemAt(i), nil
	}
	return nil, doesntLikeInput(args[1], "ITEM")
}

func primFput(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	l, ok := asList(args[1])
	if !ok {
		return nil, doesntLikeInput(args[1], "FPUT")
	}
	return datum.Cons(args[0], l), nil
}

func primLput(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	l, ok := asList(args[1])
	if !ok {
		return nil, doesntLikeInput(args[1], "LPUT")
	}
	items := append(append([]datum.Datum{}, l.Items()...), args[0])
	return datum.NewList(items...), nil
}

func primWord(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	var sb strings.Builder
	for _, a := range args {
		w, ok := asWord(a)
		if !ok {
			return nil, doesntLikeInput(a, "WORD")
		}
		sb.WriteString(w.Printable())
	}
	return datum.NewWordFromString(sb.String()), nil
}

func primSentence(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	var items []datum.Datum
	for _, a := range args {
		if l, ok := asList(a); ok {
			items = append(items, l.Items()...)
		} else {
			items = append(items, a)
		}
	}
	return datum.NewList(items...), nil
}

func primList(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return datum.NewList(args...), nil
}

func primCount(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	switch v := args[0].(type) {
	case *datum.Word:
		return datum.NewNumber(float64(v.Size())), nil
	case *datum.List:
		return datum.NewNumber(float64(v.Size())), nil
	case *datum.Array:
		return datum.NewNumber(float64(v.Size())), nil
	}
	return nil, doesntLikeInput(args[0], "COUNT")
}

func primEmptyp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	switch v := args[0].(type) {
	case *datum.Word:
		return boolWord(v.IsEmpty()), nil
	case *datum.List:
		return boolWord(v.IsEmpty()), nil
	}
	return boolWord(false), nil
}

func primWordp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	_, ok := args[0].(*datum.Word)
	return boolWord(ok), nil
}

func primListp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	_, ok := args[0].(*datum.List)
	return boolWord(ok), nil
}

func primNumberp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := args[0].(*datum.Word)
	if !ok {
		return boolWord(false), nil
	}
	_, isNum := w.Number()
	return boolWord(isNum), nil
}

func primEqualp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return boolWord(datum.Equal(args[0], args[1], true)), nil
}

func primNotEqualp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return boolWord(!datum.Equal(args[0], args[1], true)), nil
}

func primLessp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	a, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	b, errd := asNumber(args[1])
	if errd != nil {
		return nil, errd
	}
	return boolWord(a < b), nil
}

func primGreaterp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	a, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	b, errd := asNumber(args[1])
	if errd != nil {
		return nil, errd
	}
	return boolWord(a > b), nil
}

func primLessEqualp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	a, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	b, errd := asNumber(args[1])
	if errd != nil {
		return nil, errd
	}
	return boolWord(a <= b), nil
}

func primGreaterEqualp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	a, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	b, errd := asNumber(args[1])
	if errd != nil {
		return nil, errd
	}
	return boolWord(a >= b), nil
}

func primDotEq(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return boolWord(datum.IsIdentical(args[0], args[1])), nil
}

// --- variables -----------------------------------------------------------

func primMake(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "MAKE")
	}
	m.Workspace().SetDatumForName(w.Printable(), args[1])
	return datum.NoValue, nil
}

func primLocal(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	switch v := args[0].(type) {
	case *datum.Word:
		m.Workspace().SetVarAsLocal(v.Printable(), datum.NoValue)
	case *datum.List:
		for _, item := range v.Items() {
			if w, ok := item.(*datum.Word); ok {
				m.Workspace().SetVarAsLocal(w.Printable(), datum.NoValue)
			}
		}
	default:
		return nil, doesntLikeInput(args[0], "LOCAL")
	}
	return datum.NoValue, nil
}

func primThing(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "THING")
	}
	v, ok := m.Workspace().DatumForName(w.Printable())
	if !ok {
		return nil, datum.NewErrorDatum(int(errtab.NoValue), w.Printable()+" "+errtab.Message(errtab.NoValue), "", nil)
	}
	return v, nil
}

// --- arithmetic -----------------------------------------------------------

func primSum(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	total := 0.0
	for _, a := range args {
		n, errd := asNumber(a)
		if errd != nil {
			return nil, errd
		}
		total += n
	}
	return datum.NewNumber(total), nil
}

func primDifference(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	a, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	b, errd := asNumber(args[1])
	if errd != nil {
		return nil, errd
	}
	return datum.NewNumber(a - b), nil
}

func primProduct(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	total := 1.0
	for _, a := range args {
		n, errd := asNumber(a)
		if errd != nil {
			return nil, errd
		}
		total *= n
	}
	return datum.NewNumber(total), nil
}

func primQuotient(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	a, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	b, errd := asNumber(args[1])
	if errd != nil {
		return nil, errd
	}
	if b == 0 {
		return nil, doesntLikeInput(args[1], "QUOTIENT")
	}
	return datum.NewNumber(a / b), nil
}

func primRemainder(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	a, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	b, errd := asNumber(args[1])
	if errd != nil {
		return nil, errd
	}
	if b == 0 {
		return nil, doesntLikeInput(args[1], "REMAINDER")
	}
	return datum.NewNumber(float64(int(a) % int(b))), nil
}

func primMinus(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	if len(args) == 2 {
		a, errd := asNumber(args[0])
		if errd != nil {
			return nil, errd
		}
		b, errd := asNumber(args[1])
		if errd != nil {
			return nil, errd
		}
		return datum.NewNumber(a - b), nil
	}
	n, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	return datum.NewNumber(-n), nil
}

// --- property lists --------------------------------------------------------

func primPprop(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	plist, ok1 := asWord(args[0])
	prop, ok2 := asWord(args[1])
	if !ok1 || !ok2 {
		return nil, doesntLikeInput(args[0], "PPROP")
	}
	m.Workspace().Pprop(plist.Printable(), prop.Printable(), args[2])
	return datum.NoValue, nil
}

func primGprop(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	plist, ok1 := asWord(args[0])
	prop, ok2 := asWord(args[1])
	if !ok1 || !ok2 {
		return nil, doesntLikeInput(args[0], "GPROP")
	}
	v, ok := m.Workspace().Gprop(plist.Printable(), prop.Printable())
	if !ok {
		return datum.NewEmptyList(), nil
	}
	return v, nil
}

func primRemprop(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	plist, ok1 := asWord(args[0])
	prop, ok2 := asWord(args[1])
	if !ok1 || !ok2 {
		return nil, doesntLikeInput(args[0], "REMPROP")
	}
	m.Workspace().Remprop(plist.Printable(), prop.Printable())
	return datum.NoValue, nil
}

func primPlist(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	plist, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "PLIST")
	}
	return datum.NewList(m.Workspace().Plist(plist.Printable())...), nil
}

// --- workspace introspection -------------------------------------------

func primArity(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "ARITY")
	}
	min, def, max, ok := m.Catalogue().Arity(w.Printable())
	if !ok {
		return nil, datum.NewErrorDatum(int(errtab.NoHow), errtab.Message(errtab.NoHow)+" "+w.Printable(), "", nil)
	}
	return datum.NewList(datum.NewNumber(float64(min)), datum.NewNumber(float64(def)), datum.NewNumber(float64(max))), nil
}

func primProcedurep(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return boolWord(false), nil
	}
	return boolWord(m.Catalogue().IsProcedure(w.Printable())), nil
}

func primPrimitivep(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return boolWord(false), nil
	}
	return boolWord(m.Catalogue().IsPrimitive(w.Printable())), nil
}

func primAllNames(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	names := m.Catalogue().AllNames()
	items := make([]datum.Datum, len(names))
	for i, n := range names {
		items[i] = datum.NewWordFromString(n)
	}
	return datum.NewList(items...), nil
}

func primBury(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "BURY")
	}
	m.Catalogue().Bury(w.Printable())
	return datum.NoValue, nil
}

func primUnbury(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	w, ok := asWord(args[0])
	if !ok {
		return nil, doesntLikeInput(args[0], "UNBURY")
	}
	m.Catalogue().Unbury(w.Printable())
	return datum.NoValue, nil
}

func primNodes(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	p := datum.DefaultPool()
	return datum.NewList(
		datum.NewWordFromString("LIVE"), datum.NewNumber(float64(p.TotalLive())),
		datum.NewWordFromString("HIGHWATER"), datum.NewNumber(float64(p.TotalHighWater())),
	), nil
}

// --- I/O -------------------------------------------------------------------

func primPrint(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = datum.Print(a, -1, -1)
	}
	m.Terminal().PrintToConsole(strings.Join(parts, " ") + "\n")
	return datum.NoValue, nil
}

func primShow(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = datum.Show(a, -1, -1)
	}
	m.Terminal().PrintToConsole(strings.Join(parts, " ") + "\n")
	return datum.NoValue, nil
}

func primType(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = datum.Print(a, -1, -1)
	}
	m.Terminal().PrintToConsole(strings.Join(parts, " "))
	return datum.NoValue, nil
}

func primReadlist(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	d, errd := m.Reader().ReadListWithPrompt("", true)
	if errd != nil {
		return nil, errd
	}
	return d, nil
}

func primReadword(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	return m.Reader().ReadWordWithPrompt(""), nil
}

// --- turtle graphics ---------------------------------------------------

func primForward(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	n, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().Forward(n)
	return datum.NoValue, nil
}

func primBack(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	n, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().Forward(-n)
	return datum.NoValue, nil
}

func primRight(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	n, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().Rotate(n)
	return datum.NoValue, nil
}

func primLeft(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	n, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().Rotate(-n)
	return datum.NoValue, nil
}

func primPenUp(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().PenUp()
	return datum.NoValue, nil
}

func primPenDown(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().PenDown()
	return datum.NoValue, nil
}

func primHome(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().Home()
	return datum.NoValue, nil
}

func primSetXY(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	x, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	y, errd := asNumber(args[1])
	if errd != nil {
		return nil, errd
	}
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().SetXY(x, y)
	return datum.NoValue, nil
}

func primSetHeading(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	n, errd := asNumber(args[0])
	if errd != nil {
		return nil, errd
	}
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().SetHeading(n)
	return datum.NoValue, nil
}

func primClearScreen(m catalogue.Machine, args []datum.Datum) (datum.Datum, *datum.ErrorDatum) {
	if m.Turtle() == nil {
		return nil, datum.NewErrorDatum(int(errtab.NoGraphics), errtab.Message(errtab.NoGraphics), "", nil)
	}
	m.Turtle().ClearCanvas()
	m.Turtle().Home()
	return datum.NoValue, nil
}
