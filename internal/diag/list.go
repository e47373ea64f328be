package diag

import (
	"fmt"
	"io"

	"github.com/you-not-fish/runc/internal/syntax"
)

// List is the ordered error list shared by all compilation phases.
// Each phase starts by checking Len and returns when it is non-zero.
type List struct {
	errs    []*Error
	sources Sources
}

// NewList returns an empty list that fills in source lines from sources.
// sources may be nil.
func NewList(sources Sources) *List {
	return &List{sources: sources}
}

// Add appends err. An error on the same line as the previous one is
// dropped unless it is forced.
func (l *List) Add(err *Error) {
	if n := len(l.errs); n > 0 && !err.Force {
		last := l.errs[n-1]
		if last.Pos.Filename() == err.Pos.Filename() && last.Pos.Line() == err.Pos.Line() {
			return
		}
	}
	if err.Line == "" && l.sources != nil {
		err.Line = l.sources.Line(err.Pos)
	}
	l.errs = append(l.errs, err)
}

// Errorf appends an error at pos for the token tok.
func (l *List) Errorf(pos syntax.Pos, tok, format string, args ...interface{}) {
	l.Add(&Error{Pos: pos, Token: tok, Msg: fmt.Sprintf(format, args...)})
}

// Forcef appends an error that is kept even if the previous error is on
// the same line.
func (l *List) Forcef(pos syntax.Pos, tok, format string, args ...interface{}) {
	l.Add(&Error{Pos: pos, Token: tok, Msg: fmt.Sprintf(format, args...), Force: true})
}

// SyntaxHandler returns a parser error handler feeding the list.
func (l *List) SyntaxHandler() syntax.ErrorHandler {
	return func(err *syntax.SyntaxError) {
		l.Add(FromSyntax(err))
	}
}

// Len returns the number of errors.
func (l *List) Len() int { return len(l.errs) }

// Errors returns the errors in the order they were reported.
func (l *List) Errors() []*Error { return l.errs }

// Err returns the first error, or nil.
func (l *List) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l.errs[0]
}

// Messages returns the error messages, mostly for tests.
func (l *List) Messages() []string {
	msgs := make([]string, len(l.errs))
	for i, e := range l.errs {
		msgs[i] = e.Msg
	}
	return msgs
}

// Fprint renders every error, separated by blank lines.
func (l *List) Fprint(w io.Writer) {
	for i, e := range l.errs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		e.Fprint(w)
	}
}
