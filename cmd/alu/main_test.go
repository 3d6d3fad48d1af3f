package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benbjohnson/alu"
)

// TestingMain is a test wrapper for Main that captures output.
type TestingMain struct {
	*Main
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// NewTestingMain returns a new instance of Main writing to in-memory buffers.
func NewTestingMain() *TestingMain {
	m := &TestingMain{Main: NewMain()}
	m.Main.Stdout = &m.Stdout
	m.Main.Stderr = &m.Stderr
	return m
}

// Testdata returns the path to a file in the module's testdata directory.
func Testdata(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func TestMain_Run(t *testing.T) {
	t.Run("Run", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"run", Testdata("binary.alu"), "3"}); err != nil {
			t.Fatal(err)
		} else if got, exp := m.Stdout.String(), "w=0 x=0 y=1 z=1\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("RunDigitString", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"run", Testdata("monad.alu"), "92967699949891"}); err != nil {
			t.Fatal(err)
		} else if !strings.HasSuffix(m.Stdout.String(), " z=0\n") {
			t.Fatalf("unexpected stdout: %q", m.Stdout.String())
		}
	})

	t.Run("Simplify", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"simplify", Testdata("binary.alu"), "-r", "y"}); err != nil {
			t.Fatal(err)
		} else if got, exp := m.Stdout.String(), "((input0 / 2) % 2)\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("SimplifyAll", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"simplify", Testdata("negate.alu")}); err != nil {
			t.Fatal(err)
		} else if got, exp := m.Stdout.String(), "w = 0\nx = (input0 * -1)\ny = 0\nz = 0\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("SimplifyStages", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"simplify", "--stages", Testdata("short.alu")}); err != nil {
			t.Fatal(err)
		} else if got, exp := strings.Count(m.Stdout.String(), "stage "), 4; got != exp {
			t.Fatalf("stages=%d, expected %d:\n%s", got, exp, m.Stdout.String())
		}
	})

	t.Run("DOT", func(t *testing.T) {
		buf, err := os.ReadFile(Testdata("binary.alu"))
		if err != nil {
			t.Fatal(err)
		}
		regs, err := alu.SymbolicExecution(alu.MustParseProgram(string(buf)))
		if err != nil {
			t.Fatal(err)
		}

		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"dot", Testdata("binary.alu")}); err != nil {
			t.Fatal(err)
		} else if got, exp := m.Stdout.String(), alu.DOT(regs[alu.Z]); got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("Generate", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "stages.go")

		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"generate", Testdata("short.alu"), "-o", output, "--package", "monad"}); err != nil {
			t.Fatal(err)
		}

		buf, err := os.ReadFile(output)
		if err != nil {
			t.Fatal(err)
		} else if !bytes.Contains(buf, []byte("package monad\n")) {
			t.Fatalf("unexpected output:\n%s", buf)
		}
	})

	t.Run("Solve", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"solve", Testdata("short.alu"), "--digits", "4", "--prune", "divisors"}); err != nil {
			t.Fatal(err)
		} else if got, exp := m.Stdout.String(), "max: 9967\nmin: 3411\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("SolveConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "alu.yaml")
		if err := os.WriteFile(path, []byte("digits: 4\nprune: none\n"), 0666); err != nil {
			t.Fatal(err)
		}

		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"solve", "--config", path, Testdata("short.alu")}); err != nil {
			t.Fatal(err)
		} else if got, exp := m.Stdout.String(), "max: 9967\nmin: 3411\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("Verbose", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"solve", "-v", "--digits", "4", Testdata("short.alu")}); err != nil {
			t.Fatal(err)
		} else if !strings.Contains(m.Stderr.String(), "[stage] 4/4") {
			t.Fatalf("unexpected stderr: %s", m.Stderr.String())
		}
	})

	t.Run("Dump", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"run", "--dump", Testdata("negate.alu"), "2"}); err != nil {
			t.Fatal(err)
		} else if !strings.Contains(m.Stderr.String(), "alu.Instruction") {
			t.Fatalf("unexpected stderr: %s", m.Stderr.String())
		}
	})

	t.Run("ErrNoSolution", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "none.alu")
		if err := os.WriteFile(path, []byte("inp w\nadd z w\n"), 0666); err != nil {
			t.Fatal(err)
		}

		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"solve", "--digits", "1", path}); !errors.Is(err, ErrNoSolution) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrWrongSubprogramCount", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"solve", Testdata("short.alu")}); !errors.Is(err, alu.ErrWrongSubprogramCount) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrInvalidRegister", func(t *testing.T) {
		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"dot", "-r", "q", Testdata("binary.alu")}); err == nil || err.Error() != `invalid register: "q"` {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrParse", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.alu")
		if err := os.WriteFile(path, []byte("inp w\nsub w 1\n"), 0666); err != nil {
			t.Fatal(err)
		}

		m := NewTestingMain()
		if err := m.Run(context.Background(), []string{"run", path, "1"}); !errors.Is(err, alu.ErrParse) {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
