// Package errtab is the authoritative numbered-error table (§4.8, §7, §8
// scenario 2): the numbers ERROR reports must match this table exactly, so
// they live here as named constants rather than being re-derived from
// xgxerror's string-typed Code wherever an error is raised.
package errtab

// Code is a UCBLogo-numbered error kind.
type Code int

const (
	StackOverflow             Code = 2
	TurtleBounds              Code = 3
	DoesntLike                Code = 4
	DidntOutput               Code = 5
	NotEnough                 Code = 6
	TooMany                   Code = 8
	UnexpectedParen           Code = 9
	ParenNF                   Code = 10
	NoValue                   Code = 11
	NotInsideProcedure        Code = 12
	NoHow                     Code = 13
	NoCatch                   Code = 14
	AlreadyDefined            Code = 15
	AlreadyDribbling          Code = 17
	Filesystem                Code = 18
	IsPrimitive               Code = 22
	ToInProc                  Code = 23
	ToInPause                 Code = 24
	NoTest                    Code = 25
	UnexpectedSquare          Code = 26
	UnexpectedBrace           Code = 27
	NoGraphics                Code = 28
	AlreadyOpen               Code = 29
	CantOpen                  Code = 30
	NotOpen                   Code = 31
	AlreadyFilling            Code = 33
	Throw                     Code = 35
	CustomThrow               Code = 35
	InsideRunresult           Code = 38
	NoApply                   Code = 39
	MacroReturnedNotList      Code = 40
	ListHasMultipleExpressions Code = 43
)

// names gives each code a stable diagnostic label, used by Message below and
// by anything formatting `(thing "ERROR)`-style debug output.
var names = map[Code]string{
	StackOverflow:              "stack overflow",
	TurtleBounds:               "turtle out of bounds",
	DoesntLike:                 "doesn't like that as input",
	DidntOutput:                "didn't output",
	NotEnough:                  "not enough inputs",
	TooMany:                    "too many inputs",
	UnexpectedParen:            "unexpected )",
	ParenNF:                    "expected )",
	NoValue:                    "no value",
	NotInsideProcedure:         "not inside a procedure",
	NoHow:                      "I don't know how to",
	NoCatch:                    "no CATCH for this THROW",
	AlreadyDefined:             "already defined",
	AlreadyDribbling:           "already dribbling",
	Filesystem:                 "file system error",
	IsPrimitive:                "is a primitive",
	ToInProc:                   "can't use TO inside a procedure",
	ToInPause:                  "can't use TO inside a PAUSE",
	NoTest:                     "no TEST in use",
	UnexpectedSquare:           "unexpected ]",
	UnexpectedBrace:            "unexpected }",
	NoGraphics:                 "no graphics support",
	AlreadyOpen:                "already open",
	CantOpen:                   "can't open file",
	NotOpen:                    "not open",
	AlreadyFilling:             "already filling",
	Throw:                      "THROW",
	InsideRunresult:            "can't do that inside RUNRESULT",
	NoApply:                    "can't apply that",
	MacroReturnedNotList:       "macro didn't output a list",
	ListHasMultipleExpressions: "list has more than one expression",
}

// Message returns the canonical diagnostic label for c, or "error" if c is
// not in the table (custom THROW tags carry their own message instead).
func Message(c Code) string {
	if m, ok := names[c]; ok {
		return m
	}
	return "error"
}
