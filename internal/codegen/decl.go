package codegen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/rtabi"
	"github.com/you-not-fish/runc/internal/syntax"
)

func (g *generator) enums() {
	first := true
	for _, c := range g.classes {
		if !c.IsEnum() {
			continue
		}
		if first {
			g.e.emitLine()
			first = false
		}
		for _, d := range c.Members {
			if m, ok := d.(*syntax.EnumMember); ok {
				g.e.emit("#define %s %d", m.Real, m.Index)
			}
		}
	}
}

// structs writes the forward typedefs and the bodies of every class
// emitted as a struct. A derived struct embeds its base as first member,
// a root struct starts with the object header.
func (g *generator) structs() {
	list := g.structClasses()
	if len(list) == 0 {
		return
	}
	g.e.emitLine()
	for _, c := range list {
		g.e.emit("typedef struct %s %s;", c.Real, c.Real)
	}
	for _, c := range list {
		g.e.emitLine()
		g.e.open("struct %s {", c.Real)
		if c.Base != nil && isStruct(c.Base) {
			g.e.emit("%s %s;", c.Base.Real, rtabi.BaseField)
		} else {
			g.e.emit("%s %s;", rtabi.ObjectType, rtabi.HeaderField)
		}
		for _, d := range g.members(c) {
			switch d := d.(type) {
			case *syntax.VarDecl:
				if !d.Static {
					g.e.emit("%s;", g.declarator(d.Class, d.Real, d.ArrayLen))
				}
			case *syntax.PropertyDecl:
				if d.Simple && !d.Static {
					g.e.emit("%s %s;", cType(d.Type.Type()), d.Real)
				}
			}
		}
		g.e.close("};")
	}
}

// declarator returns "T name" or "T name[len]" for a fixed C array.
func (g *generator) declarator(c *syntax.ClassDecl, name string, arrayLen syntax.Expr) string {
	if arrayLen != nil {
		return fmt.Sprintf("%s %s[%s]", cType(c), name, g.expr(arrayLen))
	}
	return cType(c) + " " + name
}

// statics returns the used static storage: module variables of user
// modules, static fields and static simple properties.
func (g *generator) statics() []syntax.Decl {
	var list []syntax.Decl
	for _, v := range g.reg.Globals {
		if v.Used() {
			list = append(list, v)
		}
	}
	for _, v := range g.reg.Statics {
		if v.Used() {
			list = append(list, v)
		}
	}
	for _, c := range g.classes {
		for _, d := range g.members(c) {
			if p, ok := d.(*syntax.PropertyDecl); ok && p.Simple && p.Static && p.Used() {
				list = append(list, p)
			}
		}
	}
	return list
}

func (g *generator) globals() {
	list := g.statics()
	if len(list) == 0 {
		return
	}
	g.e.emitLine()
	for _, d := range list {
		switch d := d.(type) {
		case *syntax.VarDecl:
			g.e.emit("%s;", g.declarator(d.Class, d.Real, d.ArrayLen))
		case *syntax.PropertyDecl:
			g.e.emit("%s %s;", cType(d.Type.Type()), d.Real)
		}
	}
}

// signature returns the C declarator of fn. Methods take the receiver
// first; a variadic parameter becomes a count followed by "...".
func (g *generator) signature(fn *syntax.FuncDecl) string {
	var params []string
	if fn.IsMethod() {
		params = append(params, cType(fn.Owner)+" "+rtabi.This)
	}
	for _, p := range fn.Params {
		if p.Variadic {
			params = append(params, "int "+rtabi.VariadicCount(p.Real), "...")
			continue
		}
		params = append(params, g.paramType(p)+" "+p.Real)
	}
	if len(params) == 0 {
		params = []string{"void"}
	}
	return fmt.Sprintf("%s %s(%s)", resultType(fn), fn.Real, strings.Join(params, ", "))
}

func (g *generator) prototypes() {
	g.e.emitLine()
	g.e.emit("static void %s(void);", rtabi.FnInit)
	for _, fn := range g.funcs {
		g.e.emit("%s;", g.signature(fn))
	}
}

// rtti writes the member tables of every used class and the type table
// indexed by class id.
func (g *generator) rtti() {
	n := max(g.reg.NumClasses(), 1)
	g.e.emitLine()
	for _, c := range g.classes {
		if members := g.rttiMembers(c); len(members) > 0 {
			g.e.open("static const %s __rtti_members_%d[] = {", rtabi.TypeMember, c.ID)
			for _, m := range members {
				g.e.emit("%s,", m)
			}
			g.e.close("};")
		}
		if ifaces := interfaces(c); len(ifaces) > 0 {
			ids := make([]string, len(ifaces))
			for i, iface := range ifaces {
				ids[i] = fmt.Sprint(iface.ID)
			}
			g.e.emit("static const int __rtti_ifaces_%d[] = {%s};", c.ID, strings.Join(ids, ", "))
		}
	}

	g.e.open("const %s %s[%d] = {", rtabi.TypeStruct, rtabi.TypeTable, n)
	for _, c := range g.classes {
		base := rtabi.NoBase
		if c.Base != nil {
			base = c.Base.ID
		}
		members, nmembers := "NULL", len(g.rttiMembers(c))
		if nmembers > 0 {
			members = fmt.Sprintf("__rtti_members_%d", c.ID)
		}
		ifaces, nifaces := "NULL", len(interfaces(c))
		if nifaces > 0 {
			ifaces = fmt.Sprintf("__rtti_ifaces_%d", c.ID)
		}
		g.e.emit("[%d] = {%s, %d, %d, %s, %d, %s, %d, %s},",
			c.ID, cString(c.Name), c.ID, base, sizeOf(c), nmembers, members, nifaces, ifaces)
	}
	g.e.close("};")
	g.e.emit("const int %s = %d;", rtabi.TypeCount, n)
}

// rttiMembers returns the member descriptors of c: its own fields, used
// methods keyed for dynamic dispatch and static storage.
func (g *generator) rttiMembers(c *syntax.ClassDecl) []string {
	var list []string
	if isStruct(c) {
		for _, d := range g.members(c) {
			switch d := d.(type) {
			case *syntax.VarDecl:
				if d.Static {
					if d.Used() {
						list = append(list, fmt.Sprintf("{%s, %d, 0, (void*)&%s}", cString(d.Name), rtabi.MemberStatic, d.Real))
					}
					continue
				}
				if d.ArrayLen == nil {
					list = append(list, fmt.Sprintf("{%s, %d, offsetof(%s, %s), NULL}", cString(d.Name), rtabi.MemberField, c.Real, d.Real))
				}
			case *syntax.PropertyDecl:
				if d.Simple && !d.Static {
					list = append(list, fmt.Sprintf("{%s, %d, offsetof(%s, %s), NULL}", cString(d.Name), rtabi.MemberField, c.Real, d.Real))
				}
			}
		}
	}
	for _, fn := range g.methods[c] {
		if fn.Used() && emitted(fn) && fn.IsMethod() && fn.Kind != syntax.FuncCtor {
			list = append(list, fmt.Sprintf("{%s, %d, 0, (void*)%s}", cString(build.MethodKey(fn)), rtabi.MemberMethod, fn.Real))
		}
	}
	return list
}

// interfaces returns the interfaces c implements directly and those they
// extend.
func interfaces(c *syntax.ClassDecl) []*syntax.ClassDecl {
	var list []*syntax.ClassDecl
	seen := map[*syntax.ClassDecl]bool{}
	var add func(i *syntax.ClassDecl)
	add = func(i *syntax.ClassDecl) {
		if seen[i] || len(seen) > 64 {
			return
		}
		seen[i] = true
		list = append(list, i)
		for _, j := range i.Interfaces {
			add(j)
		}
	}
	for _, i := range c.Interfaces {
		add(i)
	}
	return list
}

func sizeOf(c *syntax.ClassDecl) string {
	switch {
	case c.IsInterface():
		return "0"
	case isStruct(c):
		return "sizeof(" + c.Real + ")"
	}
	return "sizeof(" + cType(c) + ")"
}

// cString quotes s as a C string literal.
func cString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
