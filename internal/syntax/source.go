package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// The whole file is read into memory; the reader state is a small value
// so the scanner can snapshot and restore it for one-token rollback.
type source struct {
	buf      []byte // source buffer (entire file)
	filename string // source file name

	cursor

	// Error handling
	errh func(line, col uint32, msg string)
}

// cursor is the restorable part of a source.
type cursor struct {
	line uint32 // current line number (1-based)
	col  uint32 // current column number (1-based, byte offset)
	ch   rune   // current character, -1 for EOF
	offs int    // byte offset just past ch
}

// newSource creates a new source from an io.Reader.
// The errh function is called for each error; if nil, errors are silently ignored.
func newSource(filename string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{
		filename: filename,
		cursor:   cursor{line: 1, col: 0, ch: -1},
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.error("error reading source file: " + err.Error())
		s.ch = -1
		return s
	}

	s.nextch()
	return s
}

// nextch reads the next character and updates the position.
// (line, col) always refer to s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
	s.offs += width
}

// peek returns the character after s.ch without consuming anything.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

// isLetter reports whether r is a letter (a-z, A-Z, or _).
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isHexDigit reports whether r is a hexadecimal digit.
func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

// lower returns the lowercase version of an ASCII letter.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// isWhitespace reports whether r is a blank other than newline.
// Newlines terminate statements and are scanned as _EOL.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}
