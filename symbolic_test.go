package alu_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/benbjohnson/alu"
	"github.com/davecgh/go-spew/spew"
)

func TestSymbolicExecution(t *testing.T) {
	t.Run("Binary", func(t *testing.T) {
		regs, err := alu.SymbolicExecution(MustReadProgram(t, "binary.alu"))
		if err != nil {
			t.Fatal(err)
		}

		for _, tt := range []struct {
			r   alu.Register
			exp string
		}{
			{alu.W, "((((input0 / 2) / 2) / 2) % 2)"},
			{alu.X, "(((input0 / 2) / 2) % 2)"},
			{alu.Y, "((input0 / 2) % 2)"},
			{alu.Z, "(input0 % 2)"},
		} {
			if got := regs[tt.r].String(); got != tt.exp {
				t.Fatalf("%s=%s, expected %s", tt.r, got, tt.exp)
			}
		}
	})

	t.Run("Negate", func(t *testing.T) {
		regs, err := alu.SymbolicExecution(MustReadProgram(t, "negate.alu"))
		if err != nil {
			t.Fatal(err)
		} else if got, exp := regs[alu.X].String(), "(input0 * -1)"; got != exp {
			t.Fatalf("x=%s, expected %s", got, exp)
		} else if got, exp := regs[alu.W].String(), "0"; got != exp {
			t.Fatalf("w=%s, expected %s", got, exp)
		}
	})

	t.Run("Shared", func(t *testing.T) {
		// "add y w" with y == 0 binds y to the same node as w.
		regs, err := alu.SymbolicExecution(alu.MustParseProgram("inp w\ndiv w 2\nadd y w\n"))
		if err != nil {
			t.Fatal(err)
		} else if regs[alu.W] != regs[alu.Y] {
			t.Fatalf("expected shared node: %s", spew.Sdump(regs))
		}
	})

	t.Run("ErrInvalidInstruction", func(t *testing.T) {
		program := []alu.Instruction{{Op: alu.MUL, A: alu.LiteralOperand(2), B: alu.LiteralOperand(2)}}
		if _, err := alu.SymbolicExecution(program); !errors.Is(err, alu.ErrInvalidInstruction) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrInvalidOperand", func(t *testing.T) {
		program := []alu.Instruction{alu.Input(alu.W), alu.Add(alu.Z, alu.RegisterOperand(9))}

		var ierr *alu.InvalidInstructionError
		if _, err := alu.SymbolicExecution(program); !errors.As(err, &ierr) {
			t.Fatalf("unexpected error: %v", err)
		} else if got, exp := ierr.Index, 1; got != exp {
			t.Fatalf("index=%d, expected %d", got, exp)
		}
	})
}

// Ensure symbolic results evaluate to the same registers as concrete execution.
func TestSymbolicExecution_Agreement(t *testing.T) {
	program := MustReadProgram(t, "monad.alu")

	optimized, err := alu.SymbolicExecution(program)
	if err != nil {
		t.Fatal(err)
	}

	e := alu.NewSymbolicExecutor()
	e.Optimize = false
	raw, err := e.Execute(program)
	if err != nil {
		t.Fatal(err)
	}

	if alu.NodeCount(optimized[alu.Z]) >= alu.NodeCount(raw[alu.Z]) {
		t.Fatalf("expected fewer nodes: %d >= %d", alu.NodeCount(optimized[alu.Z]), alu.NodeCount(raw[alu.Z]))
	}

	rnd := rand.New(rand.NewSource(0))
	for i := 0; i < 200; i++ {
		inputs := RandomDigits(rnd, 14)
		exp, err := alu.Run(program, inputs)
		if err != nil {
			t.Fatal(err)
		}

		for r := alu.W; r <= alu.Z; r++ {
			if got, err := alu.Evaluate(optimized[r], inputs); err != nil {
				t.Fatal(err)
			} else if got != exp[r] {
				t.Fatalf("inputs=%v: optimized %s=%d, expected %d", inputs, r, got, exp[r])
			}

			if got, err := alu.Evaluate(raw[r], inputs); err != nil {
				t.Fatal(err)
			} else if got != exp[r] {
				t.Fatalf("inputs=%v: raw %s=%d, expected %d", inputs, r, got, exp[r])
			}
		}
	}
}

func TestSymbolicExecutor_Reset(t *testing.T) {
	e := alu.NewSymbolicExecutor()
	if _, err := e.Execute(alu.MustParseProgram("inp w\ninp x")); err != nil {
		t.Fatal(err)
	}
	e.Reset()

	regs, err := e.Execute(alu.MustParseProgram("inp y"))
	if err != nil {
		t.Fatal(err)
	} else if got, exp := regs.String(), "w = 0\nx = 0\ny = input0\nz = 0\n"; got != exp {
		t.Fatalf("registers=%q, expected %q", got, exp)
	}
}

func TestStageExprs(t *testing.T) {
	program := MustReadProgram(t, "monad.alu")
	subprograms, err := alu.Split(program, 14)
	if err != nil {
		t.Fatal(err)
	}

	exprs, err := alu.StageExprs(subprograms)
	if err != nil {
		t.Fatal(err)
	} else if got, exp := len(exprs), 14; got != exp {
		t.Fatalf("len=%d, expected %d", got, exp)
	}

	// Each closed form must match running the subprogram from a seeded z.
	rnd := rand.New(rand.NewSource(0))
	for i, expr := range exprs {
		if inputs := alu.FindInputs(expr); len(inputs) != 1 || inputs[0] != 0 {
			t.Fatalf("stage %d: unexpected inputs: %v", i, inputs)
		}

		for j := 0; j < 50; j++ {
			z, w := rnd.Int63n(26*26*26), 1+rnd.Int63n(9)

			var m alu.Machine
			m.SetRegister(alu.Z, z)
			if err := m.Run(subprograms[i], []int64{w}); err != nil {
				t.Fatal(err)
			}

			ee := alu.NewExprEvaluator([]int64{w})
			ee.SetVar(alu.Z, z)
			if got, err := ee.Evaluate(expr); err != nil {
				t.Fatal(err)
			} else if exp := m.Register(alu.Z); got != exp {
				t.Fatalf("stage %d: z=%d w=%d: got %d, expected %d", i, z, w, got, exp)
			}
		}
	}
}
