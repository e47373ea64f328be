package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/you-not-fish/runc/internal/syntax"
)

func number(name string, float bool) *syntax.ClassDecl {
	return &syntax.ClassDecl{Name: name, Primitive: true, Number: true, Float: float, NativeName: name}
}

func class(name string, base *syntax.ClassDecl) *syntax.ClassDecl {
	return &syntax.ClassDecl{Name: name, Base: base}
}

func TestCompatible(t *testing.T) {
	u := NewUniverse()
	i := number("int", false)
	f := number("f64", true)
	str := &syntax.ClassDecl{Name: "string", Primitive: true, NativeName: "char*"}
	b := &syntax.ClassDecl{Name: "bool", Primitive: true, NativeName: "bool"}
	a := class("A", nil)
	a2 := class("A", nil)
	c := class("C", nil)

	tests := []struct {
		name string
		x, y *syntax.ClassDecl
		want bool
	}{
		{"same", a, a, true},
		{"numeric pair", i, f, true},
		{"null to object", u.Null, a, true},
		{"object to null", a, u.Null, true},
		{"null to pointer native", u.Null, str, true},
		{"null to bool", u.Null, b, false},
		{"any", u.Any, b, true},
		{"textual name", a, a2, true},
		{"unrelated", a, c, false},
		{"bool vs int", b, i, false},
		{"nil", nil, a, false},
		{"void vs any", u.Void, u.Any, false},
		{"void vs void", u.Void, u.Void, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compatible(tt.x, tt.y))
		})
	}
}

func TestCompatibleReflexiveAndNumericSymmetric(t *testing.T) {
	nums := []*syntax.ClassDecl{
		number("int", false), number("i8", false), number("u64", false),
		number("f32", true), number("f64", true), number("char", false),
	}
	for _, x := range nums {
		assert.True(t, Compatible(x, x), x.Name)
		for _, y := range nums {
			if Compatible(x, y) != Compatible(y, x) {
				t.Errorf("Compatible(%s, %s) is not symmetric", x.Name, y.Name)
			}
		}
	}
}

func TestSubclassAndAssignable(t *testing.T) {
	a := class("A", nil)
	b := class("B", a)
	c := class("C", b)
	iface := &syntax.ClassDecl{Name: "I", Kind: syntax.KindInterface}
	sub := &syntax.ClassDecl{Name: "J", Kind: syntax.KindInterface, Interfaces: []*syntax.ClassDecl{iface}}
	a.Interfaces = []*syntax.ClassDecl{sub}

	assert.True(t, IsSubclass(b, a))
	assert.True(t, IsSubclass(c, a))
	assert.False(t, IsSubclass(a, b))
	assert.False(t, IsSubclass(a, a))
	assert.True(t, IsSubclass(c, iface), "interfaces of bases and extended interfaces count")

	assert.True(t, AssignableTo(c, a))
	assert.False(t, AssignableTo(a, c))
	assert.False(t, Compatible(b, a), "subclassing is not compatibility")
}

func TestBaseDepthAndChain(t *testing.T) {
	a := class("A", nil)
	b := class("B", a)
	c := class("C", b)

	assert.Equal(t, 0, BaseDepth(a))
	assert.Equal(t, 2, BaseDepth(c))
	assert.Equal(t, []*syntax.ClassDecl{c, b, a}, Chain(c))
}

func TestEnumIsNumeric(t *testing.T) {
	e := &syntax.ClassDecl{Name: "Color", Kind: syntax.KindEnum}
	assert.True(t, IsNumeric(e))
	assert.True(t, Compatible(e, number("int", false)))
	assert.False(t, Nullable(e))
}

func TestNullable(t *testing.T) {
	arr := &syntax.ClassDecl{Name: "int[]", Elem: number("int", false)}
	assert.True(t, Nullable(arr))
	assert.True(t, Nullable(class("A", nil)))
	assert.False(t, Nullable(number("int", false)))
	assert.True(t, Nullable(&syntax.ClassDecl{Name: "pointer", Primitive: true, NativeName: "void*"}))
}

func TestWider(t *testing.T) {
	i := number("int", false)
	i8 := number("i8", false)
	f32 := number("f32", true)
	f64 := number("f64", true)

	assert.Same(t, i, Wider(i8, i))
	assert.Same(t, i, Wider(i, i8))
	assert.Same(t, f32, Wider(i, f32))
	assert.Same(t, f64, Wider(f32, f64))
}

func TestUniverse(t *testing.T) {
	u := NewUniverse()
	i := number("int", false)
	assert.True(t, u.Set(i))
	assert.False(t, u.Set(class("Point", nil)))
	assert.Same(t, i, u.Lookup("int"))
	assert.Same(t, i, u.Literal(syntax.HexLit))
	assert.Same(t, u.Null, u.Literal(syntax.NullLit))
	assert.Same(t, u.Any, u.Lookup("any"))
	assert.Nil(t, u.Lookup("Point"))
	assert.Equal(t, "void*", u.Null.RealName())
	assert.Equal(t, "void", u.Void.RealName())
	assert.False(t, Nullable(u.Void))
}
