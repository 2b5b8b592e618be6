package query

import (
	"fmt"
	"strings"
)

// RenderDOT renders the expression tree in Graphviz DOT format, for
// inspecting what a query parsed and normalized to.
func RenderDOT(expr Expr) string {
	var b strings.Builder
	b.WriteString("digraph expression {\n")

	next := 0
	var walk func(e Expr) string
	walk = func(e Expr) string {
		id := fmt.Sprintf("n%d", next)
		next++
		switch node := e.(type) {
		case *AndExpr:
			fmt.Fprintf(&b, "  %s [label=\"and\"];\n", id)
			fmt.Fprintf(&b, "  %s -> %s;\n", id, walk(node.Left))
			fmt.Fprintf(&b, "  %s -> %s;\n", id, walk(node.Right))
		case *OrExpr:
			fmt.Fprintf(&b, "  %s [label=\"or\"];\n", id)
			fmt.Fprintf(&b, "  %s -> %s;\n", id, walk(node.Left))
			fmt.Fprintf(&b, "  %s -> %s;\n", id, walk(node.Right))
		case *NotExpr:
			fmt.Fprintf(&b, "  %s [label=\"not\"];\n", id)
			fmt.Fprintf(&b, "  %s -> %s;\n", id, walk(node.Expr))
		case *Predicate:
			label := strings.ReplaceAll(node.String(), "\"", "\\\"")
			fmt.Fprintf(&b, "  %s [label=\"%s\" shape=box];\n", id, label)
		}
		return id
	}
	walk(expr)

	b.WriteString("}\n")
	return b.String()
}
