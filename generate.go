package alu

import (
	"bytes"
	"fmt"
	"go/token"

	"golang.org/x/tools/imports"
)

// GenerateGo returns formatted Go source for package pkg declaring a
// Stage(idx int, w, z int64) int64 function. Each case of the function
// evaluates exprs[idx] with input0 bound to w and the variable z0 bound to z.
//
// Nodes shared within a stage expression are hoisted into local variables.
func GenerateGo(pkg string, exprs []Expr) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("alu: invalid package name: %q", pkg)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "// Code generated by alu generate. DO NOT EDIT.")
	fmt.Fprintln(&buf, "")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)

	fmt.Fprintln(&buf, "// Stage returns the value of z after running subprogram idx")
	fmt.Fprintln(&buf, "// with input w and incoming z.")
	fmt.Fprintln(&buf, "func Stage(idx int, w, z int64) int64 {")
	fmt.Fprintln(&buf, "switch idx {")
	for i, expr := range exprs {
		fmt.Fprintf(&buf, "case %d:\n", i)
		if err := writeGoStage(&buf, expr); err != nil {
			return nil, fmt.Errorf("alu: stage %d: %w", i, err)
		}
	}
	fmt.Fprintln(&buf, "default:")
	buf.WriteString(`panic(fmt.Sprintf("stage out of range: %d", idx))` + "\n")
	fmt.Fprintln(&buf, "}")
	fmt.Fprintln(&buf, "}")
	fmt.Fprint(&buf, goHelpers)

	// Adds the fmt import and formats the source.
	return imports.Process(pkg+".go", buf.Bytes(), nil)
}

const goHelpers = `
func eql(a, b int64) int64 {
	if a == b {
		return 1
	}
	return 0
}

func neql(a, b int64) int64 {
	if a != b {
		return 1
	}
	return 0
}

func cond(c, v int64) int64 {
	if c != 0 {
		return v
	}
	return 0
}
`

// writeGoStage writes the statements for a single case of the Stage switch.
func writeGoStage(buf *bytes.Buffer, expr Expr) error {
	// Count parents so shared binary nodes can be hoisted.
	refs := make(map[Expr]int)
	InspectExpr(expr, func(e Expr) bool {
		if e, ok := e.(*BinaryExpr); ok {
			refs[e.LHS]++
			refs[e.RHS]++
		}
		return true
	})

	g := &goStageWriter{buf: buf, refs: refs, names: make(map[Expr]string)}
	s, err := g.expr(expr)
	if err != nil {
		return err
	}
	fmt.Fprintf(buf, "return %s\n", s)
	return nil
}

type goStageWriter struct {
	buf   *bytes.Buffer
	refs  map[Expr]int
	names map[Expr]string
}

// expr returns the Go expression for e, first emitting assignments for any
// shared sub-expressions.
func (g *goStageWriter) expr(e Expr) (string, error) {
	if name, ok := g.names[e]; ok {
		return name, nil
	}

	switch e := e.(type) {
	case *ConstantExpr:
		return e.String(), nil
	case *InputExpr:
		if e.Index != 0 {
			return "", fmt.Errorf("unsupported input: %s", e)
		}
		return "w", nil
	case *VarExpr:
		if e.Register != Z {
			return "", fmt.Errorf("unsupported variable: %s", e)
		}
		return "z", nil
	case *BinaryExpr:
		lhs, err := g.expr(e.LHS)
		if err != nil {
			return "", err
		}
		rhs, err := g.expr(e.RHS)
		if err != nil {
			return "", err
		}

		var s string
		switch e.Op {
		case OpEql:
			s = fmt.Sprintf("eql(%s, %s)", lhs, rhs)
		case OpNeql:
			s = fmt.Sprintf("neql(%s, %s)", lhs, rhs)
		case OpIf:
			s = fmt.Sprintf("cond(%s, %s)", lhs, rhs)
		default:
			s = fmt.Sprintf("(%s %s %s)", lhs, e.Op, rhs)
		}

		if g.refs[e] > 1 {
			name := fmt.Sprintf("t%d", len(g.names))
			fmt.Fprintf(g.buf, "%s := %s\n", name, s)
			g.names[e] = name
			return name, nil
		}
		return s, nil
	default:
		panic("unreachable")
	}
}
