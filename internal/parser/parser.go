// Package parser implements the precedence-climbing expression/command
// grammar (§4.4): turning a runparsed token stream into the AST the
// evaluator (C7) walks. Command dispatch consults a catalogue.Catalogue to
// decide whether a bare identifier names a primitive, a user procedure, an
// ALLOWGETSET-style implicit setter/getter, or is simply unknown.
package parser

import (
	"strings"

	"github.com/go-logo/qlogo/internal/catalogue"
	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/errtab"
)

// getSetPrefix marks a synthetic ASTNode.BuiltinName built for the
// ALLOWGETSET fallback (§4.4): an unknown name starting with "SET" and
// longer than 3 characters is treated as a setter for the variable named by
// the remainder, rather than raising "I don't know how to". The evaluator
// recognizes this prefix specially, since no catalogue primitive is
// actually registered under it.
const getSetPrefix = "SET:"

// GetSetPrefix exposes getSetPrefix to the evaluator without requiring it
// to guess the parser's internal convention.
const GetSetPrefix = getSetPrefix

// Parser walks one runparsed token stream. proc is the enclosing procedure
// body being parsed, used only for GOTO tag resolution; nil at top level.
type Parser struct {
	toks        []datum.Datum
	pos         int
	cat         *catalogue.Catalogue
	proc        *datum.Procedure
	allowGetSet bool
}

// New builds a Parser over tokens (as produced by runparse.Tokens),
// dispatching identifiers against cat. proc is nil when parsing top-level
// (non-procedure-body) input.
func New(tokens []datum.Datum, cat *catalogue.Catalogue, proc *datum.Procedure) *Parser {
	return &Parser{toks: tokens, cat: cat, proc: proc, allowGetSet: true}
}

// ParseStatements parses the entire token stream as a sequence of
// top-level statements (each one Exp, per §4.4's grammar -- a "statement"
// and an "expression" are not structurally distinct productions: a bare
// command is just an Exp whose Term bottomed out in Command_default).
func ParseStatements(tokens []datum.Datum, cat *catalogue.Catalogue, proc *datum.Procedure) ([]*datum.ASTNode, *datum.ErrorDatum) {
	p := New(tokens, cat, proc)
	var out []*datum.ASTNode
	for !p.atEnd() {
		node, errd := p.parseExp()
		if errd != nil {
			return nil, errd
		}
		out = append(out, node)
	}
	return out, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *Parser) peek() datum.Datum {
	if p.atEnd() {
		return nil
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() datum.Datum {
	d := p.toks[p.pos]
	p.pos++
	return d
}

// peekWord returns the current token as a plain (non-quote/colon/number)
// Word and true, or ("", false) if the current position isn't one.
func (p *Parser) peekWord() (string, bool) {
	if p.atEnd() {
		return "", false
	}
	w, ok := p.toks[p.pos].(*datum.Word)
	if !ok || w.IsNumberSourced() {
		return "", false
	}
	text := w.Raw()
	if strings.HasPrefix(text, `"`) || strings.HasPrefix(text, ":") {
		return "", false
	}
	return w.Printable(), true
}

// matchOp consumes the current token if it is exactly one of ops
// (case-sensitive: operator tokens are always produced in their literal
// punctuation form by runparse, never case-folded).
func (p *Parser) matchOp(ops ...string) (string, bool) {
	text, ok := p.peekWord()
	if !ok {
		return "", false
	}
	for _, op := range ops {
		if text == op {
			p.advance()
			return op, true
		}
	}
	return "", false
}

func notEnough(opName string) *datum.ErrorDatum {
	return datum.NewErrorDatum(int(errtab.NotEnough), errtab.Message(errtab.NotEnough)+" to "+opName, "", nil)
}

func tooMany(name string) *datum.ErrorDatum {
	return datum.NewErrorDatum(int(errtab.TooMany), errtab.Message(errtab.TooMany)+" to "+name, "", nil)
}

func noHow(name string) *datum.ErrorDatum {
	return datum.NewErrorDatum(int(errtab.NoHow), errtab.Message(errtab.NoHow)+" "+name, "", nil)
}

func doesntLike(thing, context string) *datum.ErrorDatum {
	return datum.NewErrorDatum(int(errtab.DoesntLike), thing+" "+errtab.Message(errtab.DoesntLike)+" for "+context, "", nil)
}

func parenErr(code errtab.Code) *datum.ErrorDatum {
	return datum.NewErrorDatum(int(code), errtab.Message(code), "", nil)
}

// parseExp implements the Exp production: Sum (comparison Sum)*.
func (p *Parser) parseExp() (*datum.ASTNode, *datum.ErrorDatum) {
	left, errd := p.parseSum()
	if errd != nil {
		return nil, errd
	}
	for {
		op, ok := p.matchOp("=", "<>", "<=", ">=", "<", ">")
		if !ok {
			return left, nil
		}
		if p.atEnd() {
			return nil, notEnough(op)
		}
		right, errd := p.parseSum()
		if errd != nil {
			return nil, errd
		}
		left = datum.NewBuiltinCall(0, comparisonName(op), left, right)
	}
}

func comparisonName(op string) string {
	switch op {
	case "=":
		return "EQUALP"
	case "<>":
		return "NOTEQUALP"
	case "<":
		return "LESSP"
	case ">":
		return "GREATERP"
	case "<=":
		return "LESSEQUALP"
	case ">=":
		return "GREATEREQUALP"
	default:
		return op
	}
}

// parseSum implements Sum: Mul (('+'|'-') Mul)*.
func (p *Parser) parseSum() (*datum.ASTNode, *datum.ErrorDatum) {
	left, errd := p.parseMul()
	if errd != nil {
		return nil, errd
	}
	for {
		op, ok := p.matchOp("+", "-")
		if !ok {
			return left, nil
		}
		if p.atEnd() {
			return nil, notEnough(op)
		}
		right, errd := p.parseMul()
		if errd != nil {
			return nil, errd
		}
		name := "SUM"
		if op == "-" {
			name = "DIFFERENCE"
		}
		left = datum.NewBuiltinCall(0, name, left, right)
	}
}

// parseMul implements Mul: UMinus (('*'|'/'|'%') UMinus)*.
func (p *Parser) parseMul() (*datum.ASTNode, *datum.ErrorDatum) {
	left, errd := p.parseUMinus()
	if errd != nil {
		return nil, errd
	}
	for {
		op, ok := p.matchOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		if p.atEnd() {
			return nil, notEnough(op)
		}
		right, errd := p.parseUMinus()
		if errd != nil {
			return nil, errd
		}
		name := map[string]string{"*": "PRODUCT", "/": "QUOTIENT", "%": "REMAINDER"}[op]
		left = datum.NewBuiltinCall(0, name, left, right)
	}
}

// parseUMinus implements UMinus: Term ('--' Term)* -- the synthetic binary
// token runparse emits for a word-leading unary minus (`0 -- 5`).
func (p *Parser) parseUMinus() (*datum.ASTNode, *datum.ErrorDatum) {
	left, errd := p.parseTerm()
	if errd != nil {
		return nil, errd
	}
	for {
		_, ok := p.matchOp("--")
		if !ok {
			return left, nil
		}
		if p.atEnd() {
			return nil, notEnough("--")
		}
		right, errd := p.parseTerm()
		if errd != nil {
			return nil, errd
		}
		left = datum.NewBuiltinCall(0, "MINUS", left, right)
	}
}

// parseTerm implements Term: the base case of the precedence ladder.
func (p *Parser) parseTerm() (*datum.ASTNode, *datum.ErrorDatum) {
	if p.atEnd() {
		return nil, notEnough("expression")
	}

	switch tok := p.peek().(type) {
	case *datum.List:
		p.advance()
		return datum.NewLiteral(tok), nil
	case *datum.Array:
		p.advance()
		return datum.NewLiteral(tok), nil
	case *datum.Word:
		if tok.IsNumberSourced() {
			p.advance()
			return datum.NewLiteral(tok), nil
		}
		raw := tok.Raw()
		switch {
		case strings.HasPrefix(raw, `"`):
			p.advance()
			return datum.NewLiteral(datum.NewWordFromString(strings.TrimPrefix(tok.Printable(), `"`))), nil
		case strings.HasPrefix(raw, ":"):
			p.advance()
			return datum.NewValueOf(strings.TrimPrefix(tok.Printable(), ":")), nil
		case tok.Printable() == "(":
			return p.parseParenthesized()
		default:
			return p.parseCommandDefault()
		}
	}
	return nil, doesntLike(datum.Print(p.peek(), -1, -1), "that")
}

// parseParenthesized implements '(' (Command_vararg | Exp) ')'.
func (p *Parser) parseParenthesized() (*datum.ASTNode, *datum.ErrorDatum) {
	p.advance() // '('
	if p.atEnd() {
		return nil, parenErr(errtab.ParenNF)
	}
	if name, ok := p.peekWord(); ok && p.cat.IsProcedure(name) {
		p.advance()
		node, errd := p.parseVarargDispatch(name)
		if errd != nil {
			return nil, errd
		}
		return node, nil
	}
	inner, errd := p.parseExp()
	if errd != nil {
		return nil, errd
	}
	if p.atEnd() {
		return nil, parenErr(errtab.ParenNF)
	}
	if text, ok := p.peekWord(); !ok || text != ")" {
		return nil, parenErr(errtab.UnexpectedParen)
	}
	p.advance()
	return inner, nil
}

// parseVarargDispatch collects expressions until ')' for a parenthesized
// variable-arity call (§4.4's Command_vararg).
func (p *Parser) parseVarargDispatch(name string) (*datum.ASTNode, *datum.ErrorDatum) {
	var children []*datum.ASTNode
	for {
		if p.atEnd() {
			return nil, parenErr(errtab.ParenNF)
		}
		if text, ok := p.peekWord(); ok && text == ")" {
			p.advance()
			break
		}
		child, errd := p.parseExp()
		if errd != nil {
			return nil, errd
		}
		children = append(children, child)
	}
	return p.buildCall(name, children, true)
}

// parseCommandDefault implements Command_default: a bare identifier,
// dispatched against the catalogue and given exactly its default-arity
// count of expression arguments (§4.4), except GOTO, whose single argument
// is a literal tag Word consumed unevaluated.
func (p *Parser) parseCommandDefault() (*datum.ASTNode, *datum.ErrorDatum) {
	name, _ := p.peekWord()
	p.advance()

	if strings.EqualFold(name, "GOTO") {
		return p.parseGoto()
	}

	entry, isPrim := p.cat.LookupPrimitive(name)
	_, isProc := p.cat.LookupProcedure(name)

	switch {
	case isPrim && entry.SpecialForm:
		return p.collectRawTokens(name), nil
	case isPrim:
		children, errd := p.collectExpressions(name, entry.DefaultArgs)
		if errd != nil {
			return nil, errd
		}
		return p.buildCall(name, children, false)
	case isProc:
		_, def, _, _ := p.cat.Arity(name)
		children, errd := p.collectExpressions(name, def)
		if errd != nil {
			return nil, errd
		}
		return p.buildCall(name, children, false)
	default:
		return p.dispatchUnknown(name)
	}
}

// collectExpressions parses exactly n expressions in a row (the
// fixed-arity, non-parenthesized call shape), raising notEnough directly if
// the token stream runs out partway through.
func (p *Parser) collectExpressions(name string, n int) ([]*datum.ASTNode, *datum.ErrorDatum) {
	children := make([]*datum.ASTNode, 0, n)
	for i := 0; i < n; i++ {
		if p.atEnd() {
			return nil, notEnough(name)
		}
		child, errd := p.parseExp()
		if errd != nil {
			return nil, errd
		}
		children = append(children, child)
	}
	return children, nil
}

// collectRawTokens implements the "special form" argument rule (§4.4):
// consume every remaining token in the current statement as unevaluated
// literal children, used by special-form primitives (defaultArgs < 0).
func (p *Parser) collectRawTokens(name string) *datum.ASTNode {
	var children []*datum.ASTNode
	for !p.atEnd() {
		children = append(children, datum.NewLiteral(p.advance()))
	}
	return datum.NewBuiltinCall(0, name, children...)
}

// buildCall applies the post-arity-check (§4.4) and constructs the node.
// isVararg callers (parseVarargDispatch) collect arguments up to `)` without
// counting them, so this shared min/max check is their only arity check
// (catalogue.Arity's MaxArgs is -1 for unbounded primitives).
func (p *Parser) buildCall(name string, children []*datum.ASTNode, isVararg bool) (*datum.ASTNode, *datum.ErrorDatum) {
	min, _, max, ok := p.cat.Arity(name)
	if ok {
		if children == nil && min > 0 {
			return nil, notEnough(name)
		}
		if len(children) < min {
			return nil, notEnough(name)
		}
		if max >= 0 && len(children) > max {
			return nil, tooMany(name)
		}
	}
	if p.cat.IsPrimitive(name) {
		return datum.NewBuiltinCall(0, name, children...), nil
	}
	return datum.NewUserCall(name, children...), nil
}

// dispatchUnknown implements ALLOWGETSET's implicit setter/getter fallback,
// or "I don't know how to" if the name can't be read as either.
func (p *Parser) dispatchUnknown(name string) (*datum.ASTNode, *datum.ErrorDatum) {
	if p.allowGetSet && len(name) > 3 && strings.EqualFold(name[:3], "SET") {
		if p.atEnd() {
			return nil, notEnough(name)
		}
		arg, errd := p.parseExp()
		if errd != nil {
			return nil, errd
		}
		varName := name[3:]
		return datum.NewBuiltinCall(0, getSetPrefix+varName, arg), nil
	}
	if p.allowGetSet {
		return datum.NewValueOf(name), nil
	}
	return nil, noHow(name)
}

// parseGoto implements GOTO tag resolution (§4.4): the argument must be a
// bare Word naming a tag in the enclosing procedure's TagLines index.
func (p *Parser) parseGoto() (*datum.ASTNode, *datum.ErrorDatum) {
	if p.atEnd() {
		return nil, notEnough("GOTO")
	}
	tagName, ok := p.peekWord()
	if !ok {
		return nil, doesntLike(datum.Print(p.peek(), -1, -1), "GOTO")
	}
	p.advance()
	if p.proc != nil {
		if _, known := p.proc.TagLines[strings.ToUpper(tagName)]; !known {
			return nil, doesntLike(tagName, "GOTO")
		}
	}
	return datum.NewGoto(tagName), nil
}
