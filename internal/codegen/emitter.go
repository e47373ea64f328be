package codegen

import (
	"fmt"
	"io"
	"strings"
)

// emitter wraps an io.Writer with helpers for emitting C text.
type emitter struct {
	w      io.Writer
	err    error // first write error
	indent int   // current indentation depth
	tmp    int   // counter for compiler temporaries (__t0, __t1, ...)
}

// emit writes a formatted line at the current indentation.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, strings.Repeat("\t", e.indent)+format+"\n", args...)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// emitComment writes a comment line.
func (e *emitter) emitComment(text string) {
	e.emit("/* %s */", text)
}

// emitLabel writes a label at the enclosing indentation.
func (e *emitter) emitLabel(name string) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "%s%s:;\n", strings.Repeat("\t", max(e.indent-1, 0)), name)
}

// open writes line and indents the following lines.
func (e *emitter) open(format string, args ...interface{}) {
	e.emit(format, args...)
	e.indent++
}

// close dedents and writes line.
func (e *emitter) close(format string, args ...interface{}) {
	e.indent--
	e.emit(format, args...)
}

// nextTmp returns the next compiler temporary name.
func (e *emitter) nextTmp() string {
	name := fmt.Sprintf("__t%d", e.tmp)
	e.tmp++
	return name
}
