// Package procdef implements TO/END and .MACRO/.DEFMACRO procedure
// definition (§4.4, §9): the two-pass body-line reader is common to a live
// top-level session (internal/interp, reading raw lines off the terminal
// as they're typed) and LOAD's file replay (internal/primitives, reading
// raw lines already sitting in a buffer) -- both just hand Define a
// different LineSource.
package procdef

import (
	"strings"

	"github.com/go-logo/qlogo/internal/catalogue"
	"github.com/go-logo/qlogo/internal/datum"
	"github.com/go-logo/qlogo/internal/errtab"
	"github.com/go-logo/qlogo/internal/parser"
	"github.com/go-logo/qlogo/internal/reader"
	"github.com/go-logo/qlogo/internal/runparse"
)

// LineSource is the narrow raw-line contract a procedure body is read from.
// terminal.Terminal satisfies this directly; LOAD instead plays it back
// against a file already read into memory.
type LineSource interface {
	ReadRawLineWithPrompt(prompt string) (string, bool)
}

// singleLineSource replays one fixed raw line, then reports end-of-stream;
// used to runparse/parse one already-read body line in isolation, through
// the same reader.Reader machinery a top-level line goes through.
type singleLineSource struct {
	line string
	used bool
}

func (s *singleLineSource) ReadRawLine(prompt string) (string, bool) {
	if s.used {
		return "", false
	}
	s.used = true
	return s.line, true
}

// isTagLine reports whether a raw body line is a bare `name:` TAG
// pseudo-statement (§4.4's GOTO target), rather than an ordinary
// instruction.
func isTagLine(raw string) (string, bool) {
	fields := strings.Fields(raw)
	if len(fields) != 1 {
		return "", false
	}
	f := fields[0]
	if len(f) < 2 || !strings.HasSuffix(f, ":") {
		return "", false
	}
	return strings.ToUpper(strings.TrimSuffix(f, ":")), true
}

// Keyword reports whether word opens a procedure definition (TO, .MACRO,
// .DEFMACRO) and, if so, whether the resulting procedure is a macro (§9.5:
// "Record isMacro if the defining command was .MACRO or .DEFMACRO").
func Keyword(word string) (isDefine, isMacro bool) {
	switch strings.ToUpper(word) {
	case "TO":
		return true, false
	case ".MACRO", ".DEFMACRO":
		return true, true
	default:
		return false, false
	}
}

// Define implements TO/.MACRO/.DEFMACRO: header has already been read as
// one bracket-aware line (so `[:opt default]`/`[:rest]` groups arrived as
// nested Lists); it reads subsequent *raw* lines directly from src (a
// procedure body's statement lines are not bracket-grouped input) until one
// whose sole word is END, then builds and registers the resulting
// *datum.Procedure against cat, with IsMacro set as isMacro directs.
//
// GOTO may jump forward to a tag appearing later in the body, so tag names
// are collected in a first pass over the raw lines and seeded into the
// Procedure's TagLines before any line is parsed -- parseGoto only checks
// that a name is known, not yet at its final Body index, which a second
// pass fills in as each line's statements are actually parsed.
func Define(header *datum.List, src LineSource, cat *catalogue.Catalogue, isMacro bool) *datum.ErrorDatum {
	items := header.Items()
	if len(items) < 2 {
		return datum.NewErrorDatum(int(errtab.NotEnough), errtab.Message(errtab.NotEnough)+" to TO", "TO", nil)
	}
	nameWord, ok := items[1].(*datum.Word)
	if !ok {
		return datum.NewErrorDatum(int(errtab.DoesntLike), datum.Print(items[1], -1, -1)+" "+errtab.Message(errtab.DoesntLike), "TO", nil)
	}
	name := nameWord.Printable()
	if cat.IsPrimitive(name) {
		return datum.NewErrorDatum(int(errtab.IsPrimitive), name+" "+errtab.Message(errtab.IsPrimitive), "TO", nil)
	}

	var required []string
	var optional []datum.OptionalParam
	rest := ""
	for _, item := range items[2:] {
		switch v := item.(type) {
		case *datum.Word:
			required = append(required, strings.TrimPrefix(v.Printable(), ":"))
		case *datum.List:
			sub := v.Items()
			if len(sub) == 0 {
				continue
			}
			pw, ok := sub[0].(*datum.Word)
			if !ok {
				continue
			}
			pname := strings.TrimPrefix(pw.Printable(), ":")
			if len(sub) == 1 {
				rest = pname
				continue
			}
			defTokens := runparse.Tokens(datum.NewList(sub[1:]...), cat.Timestamp(), cat.Timestamp())
			defNodes, errd := parser.ParseStatements(defTokens, cat, nil)
			if errd != nil {
				return errd
			}
			if len(defNodes) == 0 {
				continue
			}
			optional = append(optional, datum.OptionalParam{Name: pname, Default: defNodes[0]})
		}
	}

	proc := datum.NewProcedure(name, required, optional, rest, nil)
	proc.IsMacro = isMacro

	var rawLines []string
	for {
		raw, ok := src.ReadRawLineWithPrompt("")
		if !ok {
			return datum.NewErrorDatum(int(errtab.NotEnough), "END "+errtab.Message(errtab.NotEnough), name, nil)
		}
		fields := strings.Fields(raw)
		if len(fields) == 1 && strings.EqualFold(fields[0], "END") {
			break
		}
		rawLines = append(rawLines, raw)
	}

	tagLines := map[string]int{}
	for _, raw := range rawLines {
		if tag, ok := isTagLine(raw); ok {
			tagLines[tag] = 0
		}
	}
	proc.IndexTags(tagLines)

	var body []*datum.ASTNode
	for _, raw := range rawLines {
		if tag, ok := isTagLine(raw); ok {
			tagLines[tag] = len(body)
			continue
		}
		rdr := reader.New(&singleLineSource{line: raw})
		line, errd := rdr.ReadListWithPrompt("", false)
		if errd != nil {
			return errd
		}
		lst, ok := line.(*datum.List)
		if !ok {
			continue
		}
		toks := runparse.Tokens(lst, cat.Timestamp(), cat.Timestamp())
		nodes, errd := parser.ParseStatements(toks, cat, proc)
		if errd != nil {
			return errd
		}
		body = append(body, nodes...)
	}
	proc.IndexTags(tagLines)
	proc.Body = body
	proc.Source = strings.Join(rawLines, "\n")
	cat.DefineProcedure(proc)
	return nil
}
