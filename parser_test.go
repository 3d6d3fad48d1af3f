package alu_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/benbjohnson/alu"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

// MustReadProgram parses the program in testdata/name. Fatal on error.
func MustReadProgram(tb testing.TB, name string) []alu.Instruction {
	tb.Helper()
	buf, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		tb.Fatal(err)
	}
	program, err := alu.ParseProgram(string(buf))
	if err != nil {
		tb.Fatal(err)
	}
	return program
}

func TestParseProgram(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		program, err := alu.ParseProgram("inp w\nadd z w\n\nmod z -2\n  eql x   y  \n")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(program, []alu.Instruction{
			alu.Input(alu.W),
			alu.Add(alu.Z, alu.RegisterOperand(alu.W)),
			alu.Mod(alu.Z, alu.LiteralOperand(-2)),
			alu.Eql(alu.X, alu.RegisterOperand(alu.Y)),
		}); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if program, err := alu.ParseProgram("\n\n"); err != nil {
			t.Fatal(err)
		} else if len(program) != 0 {
			t.Fatalf("unexpected program: %s", spew.Sdump(program))
		}
	})

	t.Run("CRLF", func(t *testing.T) {
		program, err := alu.ParseProgram("inp w\r\nmul w 3\r\n")
		if err != nil {
			t.Fatal(err)
		} else if got, exp := len(program), 2; got != exp {
			t.Fatalf("len=%d, expected %d", got, exp)
		} else if got, exp := program[1].String(), "mul w 3"; got != exp {
			t.Fatalf("instr=%q, expected %q", got, exp)
		}
	})

	t.Run("Testdata", func(t *testing.T) {
		if got, exp := len(MustReadProgram(t, "binary.alu")), 11; got != exp {
			t.Fatalf("len=%d, expected %d", got, exp)
		}
		if got, exp := alu.CountInputs(MustReadProgram(t, "monad.alu")), 14; got != exp {
			t.Fatalf("inputs=%d, expected %d", got, exp)
		}
	})

	t.Run("ErrParse", func(t *testing.T) {
		for _, tt := range []struct {
			name string
			text string
			line int
			msg  string
		}{
			{"UnknownOpcode", "inp w\nsub w 1", 2, `unknown opcode "sub"`},
			{"InpArity", "inp w x", 1, "inp expects 1 operand"},
			{"BinaryArity", "add w", 1, "add expects 2 operands"},
			{"TooManyOperands", "add w 1 2", 1, "add expects 2 operands"},
			{"InvalidRegister", "\ninp q", 2, `invalid register "q"`},
			{"LiteralDestination", "add 1 w", 1, `invalid register "1"`},
			{"InvalidOperand", "add w 1x", 1, `invalid operand "1x"`},
			{"BareMinus", "add w -", 1, `invalid operand "-"`},
			{"Overflow", "add w 99999999999999999999", 1, `integer out of range "99999999999999999999"`},
		} {
			t.Run(tt.name, func(t *testing.T) {
				_, err := alu.ParseProgram(tt.text)
				if !errors.Is(err, alu.ErrParse) {
					t.Fatalf("unexpected error: %v", err)
				}

				var perr *alu.ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("unexpected error type: %T", err)
				} else if got, exp := perr.Line, tt.line; got != exp {
					t.Fatalf("line=%d, expected %d", got, exp)
				} else if got, exp := perr.Message, tt.msg; got != exp {
					t.Fatalf("message=%q, expected %q", got, exp)
				}
			})
		}
	})
}

func TestMustParseProgram(t *testing.T) {
	t.Run("Panic", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		alu.MustParseProgram("jmp 1")
	})
}

func TestInstruction_String(t *testing.T) {
	for _, s := range []string{"inp w", "add x -7", "mul y z", "div z 26", "mod x 26", "eql x w"} {
		if got := alu.MustParseProgram(s)[0].String(); got != s {
			t.Fatalf("String()=%q, expected %q", got, s)
		}
	}
}

func TestRegister(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		if got, exp := alu.Z.String(), "z"; got != exp {
			t.Fatalf("String()=%q, expected %q", got, exp)
		} else if got, exp := alu.Register(9).String(), "Register<9>"; got != exp {
			t.Fatalf("String()=%q, expected %q", got, exp)
		}
	})
	t.Run("IsValid", func(t *testing.T) {
		if !alu.W.IsValid() || !alu.Z.IsValid() {
			t.Fatal("expected valid")
		} else if alu.Register(-1).IsValid() || alu.Register(4).IsValid() {
			t.Fatal("expected invalid")
		}
	})
}
