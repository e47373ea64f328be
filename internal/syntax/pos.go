package syntax

import "fmt"

// Pos represents a position in a source file.
// The zero value is an invalid position; synthesized nodes carry it.
type Pos struct {
	filename string // source file name
	line     uint32 // 1-based line number
	col      uint32 // 1-based column number (byte offset in line)
}

// NewPos creates a new Pos with the given filename, line, and column.
func NewPos(filename string, line, col uint32) Pos {
	return Pos{filename: filename, line: line, col: col}
}

// String formats the position the way diagnostics print it: "file(line:col)".
func (p Pos) String() string {
	if p.filename != "" {
		return fmt.Sprintf("%s(%d:%d)", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("(%d:%d)", p.line, p.col)
}

// IsValid reports whether the position is valid (line > 0).
func (p Pos) IsValid() bool {
	return p.line > 0
}

// Line returns the 1-based line number.
func (p Pos) Line() uint32 {
	return p.line
}

// Col returns the 1-based column number.
func (p Pos) Col() uint32 {
	return p.col
}

// Filename returns the source file name.
func (p Pos) Filename() string {
	return p.filename
}

// Before reports whether p is strictly before q in the same file.
// Positions in different files, or invalid positions, are never before each other.
func (p Pos) Before(q Pos) bool {
	if !p.IsValid() || !q.IsValid() || p.filename != q.filename {
		return false
	}
	return p.line < q.line || p.line == q.line && p.col < q.col
}

// SameLine reports whether p and q are on the same line of the same file.
func (p Pos) SameLine(q Pos) bool {
	return p.filename == q.filename && p.line == q.line
}
