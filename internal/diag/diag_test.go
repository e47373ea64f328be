package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/runc/internal/syntax"
)

func pos(line, col uint32) syntax.Pos {
	return syntax.NewPos("a.run", line, col)
}

func TestListSameLineDedup(t *testing.T) {
	l := NewList(nil)
	l.Errorf(pos(1, 1), "x", MsgUnknownName)
	l.Errorf(pos(1, 5), "y", MsgUnknownName)
	l.Errorf(pos(2, 1), "z", MsgUnknownName)
	assert.Equal(t, 2, l.Len())

	l.Forcef(pos(2, 4), "w", MsgUnknownType)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{MsgUnknownName, MsgUnknownName, MsgUnknownType}, l.Messages())
}

func TestListDedupIsPerFile(t *testing.T) {
	l := NewList(nil)
	l.Errorf(syntax.NewPos("a.run", 3, 1), "", "first")
	l.Errorf(syntax.NewPos("b.run", 3, 1), "", "second")
	assert.Equal(t, 2, l.Len())
}

func TestListErr(t *testing.T) {
	l := NewList(nil)
	assert.NoError(t, l.Err())
	l.Errorf(pos(4, 2), "q", "boom")
	require.Error(t, l.Err())
	assert.Equal(t, "a.run(4:2): boom", l.Err().Error())
}

func TestSyntaxHandler(t *testing.T) {
	l := NewList(nil)
	_, errs := syntax.ParseString("a.run", "main {\na b\n}\n")
	require.Len(t, errs, 1)
	h := l.SyntaxHandler()
	h(errs[0])
	require.Equal(t, 1, l.Len())
	assert.Equal(t, syntax.MsgExpectEOL, l.Errors()[0].Msg)
	assert.Equal(t, "b", l.Errors()[0].Token)
}

func TestFprint(t *testing.T) {
	src := Sources{}
	src.Add("a.run", "main {\n\tvar x = foo\n}\n")
	l := NewList(src)
	l.Errorf(pos(2, 10), "foo", MsgUnknownName)

	var buf bytes.Buffer
	l.Fprint(&buf)
	want := "Error: Unknown name\n" +
		" File: a.run(2:10)\n" +
		"Token: foo\n" +
		" Code: \tvar x = foo\n" +
		"       \t        ^^^\n"
	assert.Equal(t, want, buf.String())
}

func TestFprintWithoutSource(t *testing.T) {
	e := &Error{Pos: pos(1, 1), Msg: "bad"}
	var buf bytes.Buffer
	e.Fprint(&buf)
	assert.Equal(t, "Error: bad\n File: a.run(1:1)\n", buf.String())
}

func TestSourcesLine(t *testing.T) {
	s := Sources{}
	s.Add("a.run", "one\r\ntwo")
	assert.Equal(t, "two", s.Line(pos(2, 1)))
	assert.Equal(t, "", s.Line(pos(3, 1)))
	assert.Equal(t, "", s.Line(syntax.NewPos("b.run", 1, 1)))
}

func TestCaret(t *testing.T) {
	assert.Equal(t, "  ^", caret("abc", 3, 0))
	assert.Equal(t, "^^", caret("ab", 1, 2))
}
