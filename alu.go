package alu

import (
	"errors"
	"fmt"
)

// Register identifies one of the four ALU registers.
type Register int

// ALU registers.
const (
	W Register = iota
	X
	Y
	Z
)

// RegisterN is the number of ALU registers.
const RegisterN = 4

var registerNames = [...]string{W: "w", X: "x", Y: "y", Z: "z"}

// String returns the register letter.
func (r Register) String() string {
	if r >= 0 && int(r) < len(registerNames) {
		return registerNames[r]
	}
	return fmt.Sprintf("Register<%d>", int(r))
}

// IsValid returns true if r is one of w, x, y, or z.
func (r Register) IsValid() bool {
	return r >= W && r <= Z
}

// ParseRegister returns the register for a register letter.
func ParseRegister(s string) (Register, bool) {
	switch s {
	case "w":
		return W, true
	case "x":
		return X, true
	case "y":
		return Y, true
	case "z":
		return Z, true
	default:
		return 0, false
	}
}

var (
	ErrParse                = errors.New("alu: parse error")
	ErrNoInputLeft          = errors.New("alu: no input left for inp instruction")
	ErrInvalidInstruction   = errors.New("alu: invalid instruction")
	ErrWrongSubprogramCount = errors.New("alu: wrong subprogram count")
	ErrTooManyDigits        = errors.New("alu: too many digits")
)

// ParseError is returned when a line of a program listing cannot be parsed.
type ParseError struct {
	Line    int    // 1-based line number
	Text    string // original line
	Message string
}

// Error returns the formatted error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("alu: parse error: line %d: %s: %q", e.Line, e.Message, e.Text)
}

// Is allows errors.Is(err, ErrParse).
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// InvalidInstructionError is returned when an instruction has an invalid shape,
// such as a literal destination operand.
type InvalidInstructionError struct {
	Index int
	Instr Instruction
}

// Error returns the formatted error message.
func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("alu: invalid instruction #%d: %s", e.Index, e.Instr)
}

// Is allows errors.Is(err, ErrInvalidInstruction).
func (e *InvalidInstructionError) Is(target error) bool { return target == ErrInvalidInstruction }

// SubprogramCountError is returned when a program does not split into the
// expected number of per-input subprograms.
type SubprogramCountError struct {
	Got, Expected int
}

// Error returns the formatted error message.
func (e *SubprogramCountError) Error() string {
	return fmt.Sprintf("alu: wrong subprogram count: %d, expected %d", e.Got, e.Expected)
}

// Is allows errors.Is(err, ErrWrongSubprogramCount).
func (e *SubprogramCountError) Is(target error) bool { return target == ErrWrongSubprogramCount }

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
