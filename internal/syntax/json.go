package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}
	kind, attrs := describe(node)
	m := map[string]interface{}{
		"type": kind,
		"pos":  node.Pos().String(),
	}
	if attrs != "" {
		m["attrs"] = attrs
	}
	if x, ok := node.(Expr); ok && x.Type() != nil {
		m["class"] = x.Type().Name
	}
	if d, ok := node.(Decl); ok && d.RealName() != "" {
		m["real"] = d.RealName()
	}

	var children []interface{}
	eachChild(node, func(child Node) {
		children = append(children, toJSON(child))
	})
	if len(children) > 0 {
		m["children"] = children
	}
	return m
}
