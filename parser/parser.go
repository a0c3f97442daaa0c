// Package parser implements the line-oriented state machine that drives
// the lexer and feeds productions to the trie builder. The state machine
// is written as an explicit state variable dispatched in a loop, the
// equivalent the original's goto-threaded automaton that spec.md §9
// endorses, in the same spirit as tsqlparser/parser.go's curToken-driven
// dispatch loop.
package parser

import (
	"fmt"
	"os"

	"github.com/gocompose/xcompose/lexer"
	"github.com/gocompose/xcompose/locale"
	"github.com/gocompose/xcompose/mapfile"
	"github.com/gocompose/xcompose/scanner"
	"github.com/gocompose/xcompose/token"
	"github.com/gocompose/xcompose/trie"
)

// MaxIncludeDepth bounds how many nested `include` statements are
// followed before the parser gives up (spec.md §4.C.1).
const MaxIncludeDepth = 5

// maxErrors bounds how many UNEXPECTED-token errors a single parse may
// accumulate before it aborts outright (spec.md §4.C).
const maxErrors = 10

type state int

const (
	stInitial state = iota
	stInitialEOL
	stInclude
	stIncludeEOL
	stLHS
	stRHS
	stFail
	stFinished
)

// Diagnostic is one parser-emitted message, tagged with severity so the
// caller's logger can route it appropriately (spec.md §7).
type Diagnostic struct {
	Warning bool
	Message string
}

// Parser drives the state machine over one file's scanner, inserting
// accepted productions into Table and opening included files as needed.
type Parser struct {
	Table *trie.Table
	Paths locale.Paths

	diagnostics []Diagnostic
	numErrors   int
}

// New creates a Parser that inserts productions into table.
func New(table *trie.Table, paths locale.Paths) *Parser {
	if paths == nil {
		paths = locale.Env{}
	}
	return &Parser{Table: table, Paths: paths}
}

// Diagnostics returns every warning/error emitted so far.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diagnostics
}

func (p *Parser) warn(format string, args ...any) {
	p.diagnostics = append(p.diagnostics, Diagnostic{Warning: true, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) errorf(format string, args ...any) {
	p.diagnostics = append(p.diagnostics, Diagnostic{Message: fmt.Sprintf(format, args...)})
}

// ParseBuffer compiles one Compose source, attributing diagnostics to
// fileName. It returns false if the file failed to parse (too many
// errors, or a resource-bound violation); diagnostics are always
// available via Diagnostics regardless of the outcome.
func (p *Parser) ParseBuffer(buf []byte, fileName string) bool {
	return p.parse(scanner.New(buf, fileName), 0)
}

func (p *Parser) parse(s *scanner.Scanner, includeDepth int) bool {
	var production trie.Production
	var pendingInclude string
	st := stInitial

	for {
		switch st {
		case stInitial, stInitialEOL:
			production = trie.Production{}
			tok := lexer.Lex(s)
			switch tok.Type {
			case token.END_OF_LINE:
				st = stInitialEOL
			case token.EOF:
				st = stFinished
			case token.INCLUDE:
				st = stInclude
			case token.LHS_KEYSYM:
				production.LHS = append(production.LHS, tok.Keysym)
				st = stLHS
			default:
				if tok.Type != token.ERROR {
					p.errorf("%s:%d:%d: unexpected token", s.FileName, tok.Line, tok.Column)
				} else {
					p.errorf("%s", tok.String)
				}
				st = p.unexpected(s, tok.Type)
			}

		case stInclude:
			tok := lexer.LexIncludeString(s, p.Table.Locale, p.Paths)
			if tok.Type == token.INCLUDE_STRING {
				pendingInclude = tok.String
				st = stIncludeEOL
			} else {
				if tok.Type == token.ERROR {
					p.errorf("%s", tok.String)
				}
				st = p.unexpected(s, tok.Type)
			}

		case stIncludeEOL:
			tok := lexer.Lex(s)
			if tok.Type == token.END_OF_LINE {
				if !p.doInclude(s, pendingInclude, includeDepth) {
					return false
				}
				st = stInitial
			} else {
				if tok.Type == token.ERROR {
					p.errorf("%s", tok.String)
				}
				st = p.unexpected(s, tok.Type)
			}

		case stLHS:
			tok := lexer.Lex(s)
			switch tok.Type {
			case token.LHS_KEYSYM:
				if len(production.LHS)+1 > trie.MaxLHSLen {
					p.warn("%s:%d:%d: too many keysyms (%d) on left-hand side; skipping line", s.FileName, tok.Line, tok.Column, trie.MaxLHSLen+1)
					st = p.skip(s, tok.Type)
				} else {
					production.LHS = append(production.LHS, tok.Keysym)
					st = stLHS
				}
			case token.COLON:
				if len(production.LHS) == 0 {
					p.warn("%s:%d:%d: expected at least one keysym on left-hand side; skipping line", s.FileName, tok.Line, tok.Column)
					st = p.skip(s, tok.Type)
				} else {
					st = stRHS
				}
			default:
				if tok.Type == token.ERROR {
					p.errorf("%s", tok.String)
				}
				st = p.unexpected(s, tok.Type)
			}

		case stRHS:
			tok := lexer.Lex(s)
			switch tok.Type {
			case token.STRING:
				if production.HasString {
					p.warn("%s:%d:%d: right-hand side can have at most one string; skipping line", s.FileName, tok.Line, tok.Column)
					st = p.skip(s, tok.Type)
					continue
				}
				if tok.String == "" {
					p.warn("%s:%d:%d: right-hand side string must not be empty; skipping line", s.FileName, tok.Line, tok.Column)
					st = p.skip(s, tok.Type)
					continue
				}
				if len(tok.String) > trie.MaxRHSStringLen {
					p.warn("%s:%d:%d: right-hand side string is too long; skipping line", s.FileName, tok.Line, tok.Column)
					st = p.skip(s, tok.Type)
					continue
				}
				production.String = tok.String
				production.HasString = true
				st = stRHS

			case token.RHS_KEYSYM:
				if production.HasKeysym {
					p.warn("%s:%d:%d: right-hand side can have at most one keysym; skipping line", s.FileName, tok.Line, tok.Column)
					st = p.skip(s, tok.Type)
					continue
				}
				production.Keysym = tok.Keysym
				production.HasKeysym = true
				// Deliberate fall-through to END_OF_LINE handling, per
				// spec.md §9: a trailing RHS_KEYSYM finalizes the
				// production without requiring a following newline.
				fallthrough

			case token.END_OF_LINE:
				if !production.HasString && !production.HasKeysym {
					p.warn("%s:%d:%d: right-hand side must have at least one of string or keysym; skipping line", s.FileName, tok.Line, tok.Column)
					st = p.skip(s, tok.Type)
					continue
				}
				for _, w := range trie.Insert(p.Table, production) {
					p.warn("%s:%d:%d: %s", s.FileName, tok.Line, tok.Column, w)
				}
				st = stInitial

			default:
				if tok.Type == token.ERROR {
					p.errorf("%s", tok.String)
				}
				st = p.unexpected(s, tok.Type)
			}

		case stFail:
			p.errorf("%s: failed to parse file", s.FileName)
			return false

		case stFinished:
			return true
		}
	}
}

// unexpected records an UNEXPECTED-token error and decides whether to
// recover (skip to end of line) or fail outright once too many
// accumulate. last is the offending token's type, passed on to skip.
func (p *Parser) unexpected(s *scanner.Scanner, last token.Type) state {
	p.numErrors++
	if p.numErrors <= maxErrors {
		return p.skip(s, last)
	}
	p.errorf("%s: too many errors", s.FileName)
	return stFail
}

// skip consumes tokens until END_OF_LINE or EOF, then resumes at
// INITIAL. last is the token type already consumed by the caller (so a
// line that errors out on its very last token doesn't lex past EOF).
func (p *Parser) skip(s *scanner.Scanner, last token.Type) state {
	for last != token.END_OF_LINE && last != token.EOF {
		last = lexer.Lex(s).Type
	}
	return stInitial
}

func (p *Parser) doInclude(s *scanner.Scanner, path string, includeDepth int) bool {
	if includeDepth >= MaxIncludeDepth {
		p.errorf("%s:%d:%d: maximum include depth (%d) exceeded; maybe there is an include loop?", s.FileName, s.TokenLine, s.TokenColumn, MaxIncludeDepth)
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		p.errorf("%s: failed to open included Compose file %q: %v", s.FileName, path, err)
		return false
	}
	defer f.Close()

	buf, err := mapfile.Map(f)
	if err != nil {
		p.errorf("%s: failed to map included Compose file %q: %v", s.FileName, path, err)
		return false
	}
	defer mapfile.Unmap(buf)

	return p.parse(scanner.New(buf, path), includeDepth+1)
}
