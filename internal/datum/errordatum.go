package datum

import (
	"fmt"
	"strings"

	xgxerror "github.com/xgx-io/xgx-error"
)

// logoCodeField/logoTagField stash the UCBLogo-numbered error code and an
// optional CATCH tag onto the wrapped xgxerror.Error's structured context,
// so the same value can answer both `errors.Is`-style checks and `ERROR`'s
// numeric-code contract (§4.8).
var (
	logoCodeField = xgxerror.FieldOf[int]("logo_code")
	logoTagField  = xgxerror.FieldOf[string]("logo_tag")
)

// ErrorDatum is the Datum wrapper around a thrown/caught error (§4.8): the
// value CATCH binds its variable to, and that ERROR reconstructs as a list.
type ErrorDatum struct {
	refs refs

	Err xgxerror.Error

	Code     int
	ProcName string

	// LineTokens holds the source line (as read, unevaluated) on which the
	// error occurred -- the 4th member of the `ERROR` report list. Empty if
	// the error happened at top level outside any procedure body.
	LineTokens *List

	// Output holds a value carried by `(THROW "ERROR value)`, nil otherwise.
	Output Datum

	// SignalKind/SignalValue/SignalTag let a control-flow primitive's Handler
	// smuggle a pending STOP/OUTPUT/GOTO signal through the (Datum,
	// *ErrorDatum) return shape (see evaluator.Evaluator.Signal); zero value
	// (SignalKind 0) when this ErrorDatum is an ordinary error. Kept as plain
	// fields rather than a catalogue.Signal to avoid datum importing
	// catalogue.
	SignalKind  int
	SignalValue Datum
	SignalTag   string
}

var _ Datum = (*ErrorDatum)(nil)

func (e *ErrorDatum) Kind() Kind { return KindError }

func (e *ErrorDatum) Retain() *ErrorDatum { e.refs.retain(); return e }
func (e *ErrorDatum) Release()           { e.refs.release() }
func (e *ErrorDatum) RefCount() int32    { return e.refs.refCount() }

// NewErrorDatum builds an ErrorDatum for the given numbered error kind and
// message, attributed to procName and the source line it occurred on
// (lineTokens may be nil/empty for top-level errors, §4.8).
func NewErrorDatum(code int, message, procName string, lineTokens *List) *ErrorDatum {
	xe := xgxerror.New(message).Code(xgxerror.Code(fmt.Sprintf("logo_%d", code)))
	xe = logoCodeField.Set(xe, code)
	if lineTokens == nil {
		lineTokens = NewEmptyList()
	}
	return &ErrorDatum{refs: newRefs(KindError), Err: xe, Code: code, ProcName: procName, LineTokens: lineTokens}
}

// WithTag returns a copy tagged for a specific CATCH label (default "ERROR").
func (e *ErrorDatum) WithTag(tag string) *ErrorDatum {
	n := *e
	n.Err = logoTagField.Set(e.Err, tag)
	return &n
}

// Tag returns the CATCH label this error targets, defaulting to "ERROR".
func (e *ErrorDatum) Tag() string {
	if t, ok := logoTagField.Get(e.Err); ok {
		return t
	}
	return "ERROR"
}

// Message returns the human-readable error text (without the numeric code).
func (e *ErrorDatum) Message() string {
	return e.Err.Error()
}

// AsList renders the UCBLogo `ERROR` report: error number, the message as
// its own space-separated words (not a single quoted word -- §8 scenario 2
// shows `I don't know how to notafunc` unbarred inside the list), the
// offending procedure name (the empty word at top level), and the source
// line the error occurred on.
func (e *ErrorDatum) AsList() *List {
	items := []Datum{NewNumber(float64(e.Code))}
	for _, w := range strings.Fields(e.Message()) {
		items = append(items, NewWordFromString(w))
	}
	items = append(items, NewWordFromString(e.ProcName), e.LineTokens)
	return NewList(items...)
}
