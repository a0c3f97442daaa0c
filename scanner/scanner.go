// Package scanner implements the byte/line/column cursor shared by the
// general and include-path lexers. It is adapted from the cursor style of
// tsqlparser's Lexer (readChar/peekChar, line/column bookkeeping on '\n')
// generalized to bytes rather than runes, since Compose files only need
// byte-level escape decoding.
package scanner

import "fmt"

// scratchCap bounds how large a single lexed token (keysym name, string
// literal, include path) may grow before it is rejected as "too long".
const scratchCap = 1024

// Scanner is a cursor over a fixed input buffer.
type Scanner struct {
	FileName string
	buf      []byte
	pos      int
	line     int
	column   int

	TokenLine   int
	TokenColumn int

	scratch    [scratchCap]byte
	scratchPos int

	HadError bool
}

// New creates a Scanner over buf, attributing diagnostics to fileName.
func New(buf []byte, fileName string) *Scanner {
	return &Scanner{
		FileName: fileName,
		buf:      buf,
		line:     1,
		column:   1,
	}
}

// Line and Column report the cursor's current position (1-based).
func (s *Scanner) Line() int   { return s.line }
func (s *Scanner) Column() int { return s.column }

// Eof reports whether the cursor is past the last byte.
func (s *Scanner) Eof() bool {
	return s.pos >= len(s.buf)
}

// Peek returns the byte under the cursor, or 0 at EOF.
func (s *Scanner) Peek() byte {
	if s.Eof() {
		return 0
	}
	return s.buf[s.pos]
}

// Eol reports whether the cursor is at a newline or EOF — both terminate
// lexing of a single-line token (keysym literal, string literal, include
// path).
func (s *Scanner) Eol() bool {
	return s.Eof() || s.Peek() == '\n'
}

// Next consumes and returns the byte under the cursor, advancing line and
// column bookkeeping on '\n'.
func (s *Scanner) Next() byte {
	c := s.Peek()
	if !s.Eof() {
		s.pos++
	}
	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

// Chr consumes and returns true if the byte under the cursor equals c;
// otherwise the cursor is left untouched and false is returned.
func (s *Scanner) Chr(c byte) bool {
	if s.Peek() == c {
		s.Next()
		return true
	}
	return false
}

// IsSpace, IsAlpha, IsAlnum, IsDigit are the character-class predicates
// the grammar needs. IsSpace also accepts '\n'; callers check each
// consumed space for '\n' so END_OF_LINE can be emitted.
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func IsAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func IsAlnum(c byte) bool {
	return IsAlpha(c) || IsDigit(c)
}

func isOctalDigit(c byte) bool {
	return c >= '0' && c <= '7'
}

func isHexDigit(c byte) bool {
	return IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// Oct decodes 1-3 octal digits following a '\' already consumed by the
// caller. It reports false if no octal digit follows.
func (s *Scanner) Oct() (byte, bool) {
	if !isOctalDigit(s.Peek()) {
		return 0, false
	}
	var v int
	for i := 0; i < 3 && isOctalDigit(s.Peek()); i++ {
		v = v*8 + int(s.Next()-'0')
	}
	return byte(v), true
}

// Hex decodes 1-2 hex digits following a '\x'/'\X' already consumed by
// the caller. It reports false if no hex digit follows.
func (s *Scanner) Hex() (byte, bool) {
	if !isHexDigit(s.Peek()) {
		return 0, false
	}
	var v int
	for i := 0; i < 2 && isHexDigit(s.Peek()); i++ {
		v = v*16 + int(hexVal(s.Next()))
	}
	return byte(v), true
}

// ResetScratch starts a new token's scratch buffer at the cursor's
// current position, recording TokenLine/TokenColumn for diagnostics.
func (s *Scanner) ResetScratch() {
	s.TokenLine = s.line
	s.TokenColumn = s.column
	s.scratchPos = 0
}

// BufAppend appends one byte to the scratch buffer, returning false on
// overflow (the "too long" error case throughout the grammar).
func (s *Scanner) BufAppend(c byte) bool {
	if s.scratchPos >= scratchCap {
		return false
	}
	s.scratch[s.scratchPos] = c
	s.scratchPos++
	return true
}

// BufAppends appends every byte of str, stopping (and returning false) on
// overflow.
func (s *Scanner) BufAppends(str string) bool {
	for i := 0; i < len(str); i++ {
		if !s.BufAppend(str[i]) {
			return false
		}
	}
	return true
}

// Scratch returns the bytes accumulated in the scratch buffer so far.
func (s *Scanner) Scratch() []byte {
	return s.scratch[:s.scratchPos]
}

// Errorf formats a scanner diagnostic with file:line:column attribution,
// matching scanner_err's "%s:%d:%d: ..." style. It does not raise; callers
// decide warn vs error severity and log accordingly.
func (s *Scanner) Errorf(format string, args ...any) string {
	s.HadError = true
	return fmt.Sprintf("%s:%d:%d: %s", s.FileName, s.TokenLine, s.TokenColumn, fmt.Sprintf(format, args...))
}
