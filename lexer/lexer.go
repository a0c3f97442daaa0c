// Package lexer implements the two lexing modes of the XCompose grammar
// over a scanner.Scanner: the general token lexer and the include-path
// lexer that is only ever invoked right after an INCLUDE token.
package lexer

import (
	"os"
	"unicode/utf8"

	"github.com/gocompose/xcompose/keysym"
	"github.com/gocompose/xcompose/locale"
	"github.com/gocompose/xcompose/scanner"
	"github.com/gocompose/xcompose/token"
)

func errTok(s *scanner.Scanner, format string, args ...any) token.Token {
	return token.Token{
		Type:   token.ERROR,
		String: s.Errorf(format, args...),
		Line:   s.TokenLine,
		Column: s.TokenColumn,
	}
}

func tok(s *scanner.Scanner, typ token.Type) token.Token {
	return token.Token{Type: typ, Line: s.TokenLine, Column: s.TokenColumn}
}

// Lex scans one general token: EOF, END_OF_LINE, INCLUDE,
// LHS_KEYSYM, COLON, STRING, RHS_KEYSYM, or ERROR.
func Lex(s *scanner.Scanner) token.Token {
skipMoreWhitespaceAndComments:
	for scanner.IsSpace(s.Peek()) {
		if s.Next() == '\n' {
			return token.Token{Type: token.END_OF_LINE, Line: s.Line() - 1}
		}
	}

	if s.Chr('#') {
		for !s.Eof() && !s.Eol() {
			s.Next()
		}
		goto skipMoreWhitespaceAndComments
	}

	if s.Eof() {
		return token.Token{Type: token.EOF, Line: s.Line(), Column: s.Column()}
	}

	s.ResetScratch()

	// LHS keysym literal: <name>
	if s.Chr('<') {
		for s.Peek() != '>' && !s.Eol() {
			if !s.BufAppend(s.Next()) {
				return errTok(s, "keysym literal is too long")
			}
		}
		if !s.Chr('>') {
			return errTok(s, "unterminated keysym literal")
		}
		name := string(s.Scratch())
		ks, ok := keysym.Lookup(name)
		if !ok {
			return errTok(s, "unrecognized keysym %q on left-hand side", name)
		}
		return token.Token{Type: token.LHS_KEYSYM, Keysym: ks, Line: s.TokenLine, Column: s.TokenColumn}
	}

	if s.Chr(':') {
		return tok(s, token.COLON)
	}

	// String literal.
	if s.Chr('"') {
		for !s.Eof() && !s.Eol() && s.Peek() != '"' {
			if s.Chr('\\') {
				switch {
				case s.Chr('\\'):
					if !s.BufAppend('\\') {
						return errTok(s, "string literal is too long")
					}
				case s.Chr('"'):
					if !s.BufAppend('"') {
						return errTok(s, "string literal is too long")
					}
				case s.Chr('x') || s.Chr('X'):
					if o, ok := s.Hex(); ok {
						if !s.BufAppend(o) {
							return errTok(s, "string literal is too long")
						}
					}
					// else: the escape is dropped; no diagnostic is emitted.
				default:
					if o, ok := s.Oct(); ok {
						if !s.BufAppend(o) {
							return errTok(s, "string literal is too long")
						}
					} else {
						// Unknown \<c>: drop the escape and the character
						// itself (neither is copied); no diagnostic is
						// emitted.
						s.Next()
					}
				}
			} else {
				if !s.BufAppend(s.Next()) {
					return errTok(s, "string literal is too long")
				}
			}
		}
		if !s.Chr('"') {
			return errTok(s, "unterminated string literal")
		}
		if len(s.Scratch()) > 255 {
			return errTok(s, "string literal is too long")
		}
		str := string(s.Scratch())
		if !isValidUTF8(str) {
			return errTok(s, "string literal is not a valid UTF-8 string")
		}
		return token.Token{Type: token.STRING, String: str, Line: s.TokenLine, Column: s.TokenColumn}
	}

	// Identifier: RHS keysym or "include".
	if scanner.IsAlpha(s.Peek()) || s.Peek() == '_' {
		for scanner.IsAlnum(s.Peek()) || s.Peek() == '_' {
			if !s.BufAppend(s.Next()) {
				return errTok(s, "identifier is too long")
			}
		}
		name := string(s.Scratch())
		if name == "include" {
			return tok(s, token.INCLUDE)
		}
		ks, ok := keysym.Lookup(name)
		if !ok {
			return errTok(s, "unrecognized keysym %q on right-hand side", name)
		}
		return token.Token{Type: token.RHS_KEYSYM, Keysym: ks, Line: s.TokenLine, Column: s.TokenColumn}
	}

	for !s.Eof() && !s.Eol() {
		s.Next()
	}
	return errTok(s, "unrecognized token")
}

// isValidUTF8 reports whether s decodes cleanly as UTF-8 — the check the
// grammar requires after closing a string literal.
func isValidUTF8(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		i += size
	}
	return true
}

// LexIncludeString scans the include-path token, only ever called
// immediately after an INCLUDE token. It expands %H/%L/%S/%% macros using
// the HOME environment variable, paths (the locale path resolver) and loc
// (the locale name %L is resolved for).
func LexIncludeString(s *scanner.Scanner, loc string, paths locale.Paths) token.Token {
	for scanner.IsSpace(s.Peek()) {
		if s.Next() == '\n' {
			return token.Token{Type: token.END_OF_LINE, Line: s.Line() - 1}
		}
	}

	s.ResetScratch()

	if !s.Chr('"') {
		return errTok(s, "include statement must be followed by a path")
	}

	for !s.Eof() && !s.Eol() && s.Peek() != '"' {
		if s.Chr('%') {
			switch {
			case s.Chr('%'):
				s.BufAppend('%')
			case s.Chr('H'):
				home, ok := os.LookupEnv("HOME")
				if !ok {
					return errTok(s, "%%H was used in an include statement, but the HOME environment variable is not set")
				}
				if !s.BufAppends(home) {
					return errTok(s, "include path after expanding %%H is too long")
				}
			case s.Chr('L'):
				p, err := paths.LocaleComposeFile(loc)
				if err != nil {
					return errTok(s, "failed to expand %%L to the locale Compose file")
				}
				if !s.BufAppends(p) {
					return errTok(s, "include path after expanding %%L is too long")
				}
			case s.Chr('S'):
				if !s.BufAppends(paths.XLocaleDir()) {
					return errTok(s, "include path after expanding %%S is too long")
				}
			default:
				return errTok(s, "unknown %% format (%c) in include statement", s.Peek())
			}
		} else {
			s.BufAppend(s.Next())
		}
	}
	if !s.Chr('"') {
		return errTok(s, "unterminated include statement")
	}
	return token.Token{Type: token.INCLUDE_STRING, String: string(s.Scratch()), Line: s.TokenLine, Column: s.TokenColumn}
}
