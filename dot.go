package alu

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// WriteDOT writes the expression graph rooted at expr to w in Graphviz DOT
// format. Shared nodes are written once. Edges point from operand to operator
// and are labeled for the IF condition and the DIV divisor.
func WriteDOT(w io.Writer, expr Expr) error {
	bw := bufio.NewWriter(w)

	// Assign identifiers in depth-first order so output is deterministic.
	ids := make(map[Expr]int)
	var nodes []Expr
	InspectExpr(expr, func(e Expr) bool {
		ids[e] = len(nodes)
		nodes = append(nodes, e)
		return true
	})

	fmt.Fprintln(bw, "digraph N {")
	for i, node := range nodes {
		fmt.Fprintf(bw, "\tn%d [label=%q];\n", i, dotLabel(node))
	}
	for i, node := range nodes {
		node, ok := node.(*BinaryExpr)
		if !ok {
			continue
		}

		switch node.Op {
		case OpIf:
			fmt.Fprintf(bw, "\tn%d -> n%d [label=\"condition\"];\n", ids[node.LHS], i)
			fmt.Fprintf(bw, "\tn%d -> n%d;\n", ids[node.RHS], i)
		case OpDiv:
			fmt.Fprintf(bw, "\tn%d -> n%d;\n", ids[node.LHS], i)
			fmt.Fprintf(bw, "\tn%d -> n%d [label=\"divide by\"];\n", ids[node.RHS], i)
		default:
			fmt.Fprintf(bw, "\tn%d -> n%d;\n", ids[node.LHS], i)
			fmt.Fprintf(bw, "\tn%d -> n%d;\n", ids[node.RHS], i)
		}
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

// DOT returns the DOT representation of the expression graph rooted at expr.
func DOT(expr Expr) string {
	var buf bytes.Buffer
	if err := WriteDOT(&buf, expr); err != nil {
		panic(err) // bytes.Buffer writes do not fail
	}
	return buf.String()
}

// dotLabel returns the node label: the operator for binary nodes, otherwise
// the node's string form.
func dotLabel(expr Expr) string {
	switch expr := expr.(type) {
	case *BinaryExpr:
		if expr.Op == OpEql {
			return "="
		}
		return expr.Op.String()
	default:
		return expr.String()
	}
}
