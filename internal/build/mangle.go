package build

import (
	"strings"

	"github.com/you-not-fish/runc/internal/syntax"
)

// EntryName is the emitted name of the entry function.
const EntryName = "run_main"

// paramSuffix returns the overload suffix of a parameter list: one
// "_Type" per parameter, "_variadic" for the variadic one.
func paramSuffix(params []*syntax.Param) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteByte('_')
		switch {
		case p.Variadic:
			b.WriteString("variadic")
		case p.Type != nil:
			b.WriteString(typeSuffix(p.Type))
		default:
			b.WriteString("_")
		}
	}
	return b.String()
}

func typeSuffix(t *syntax.TypeExpr) string {
	if t.Array {
		return t.Name + "_array"
	}
	return t.Name
}

// funcName returns the emitted name of fn.
//
//	free function    name_T1_T2
//	method           Class_name_T1
//	constructor      Class_this_T1
//	operator         Class_operator_add_T1
//	property         Class_prop_get, Class_prop_set
//	indexer          Class_index_get_K, Class_index_set_K
//	entry            run_main
func funcName(fn *syntax.FuncDecl) string {
	switch fn.Kind {
	case syntax.FuncMain:
		return EntryName
	case syntax.FuncGetter, syntax.FuncSetter:
		suffix := "_get"
		if fn.Kind == syntax.FuncSetter {
			suffix = "_set"
		}
		if _, ok := fn.Property.(*syntax.IndexerDecl); ok {
			// the key is the first parameter of both accessors
			return ownerPrefix(fn) + "index" + suffix + paramSuffix(fn.Params[:1])
		}
		return ownerPrefix(fn) + fn.Name + suffix
	case syntax.FuncOperator:
		return ownerPrefix(fn) + "operator_" + fn.Op.OpName() + paramSuffix(fn.Params)
	}
	return ownerPrefix(fn) + fn.Name + paramSuffix(fn.Params)
}

func ownerPrefix(fn *syntax.FuncDecl) string {
	if fn.Owner == nil {
		return ""
	}
	return fn.Owner.Name + "_"
}

// varName returns the emitted name of a variable, field or parameter.
func varName(v *syntax.VarDecl) string {
	if v.Static && v.Owner != nil {
		return "_" + v.Owner.Name + "_" + v.Name
	}
	return "_" + v.Name
}

// MethodKey returns the name that identifies a member function across the
// classes implementing an interface: its emitted name without the owner
// prefix, e.g. "area" or "name_get".
func MethodKey(fn *syntax.FuncDecl) string {
	return strings.TrimPrefix(fn.Real, ownerPrefix(fn))
}
