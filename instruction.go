package alu

import (
	"fmt"
	"strconv"
)

// Opcode represents an ALU instruction kind.
type Opcode int

// ALU opcodes.
const (
	INP Opcode = iota + 1
	ADD
	MUL
	DIV
	MOD
	EQL
)

var opcodes = [...]string{
	INP: "inp",
	ADD: "add",
	MUL: "mul",
	DIV: "div",
	MOD: "mod",
	EQL: "eql",
}

// String returns the opcode keyword.
func (op Opcode) String() string {
	if op > 0 && int(op) < len(opcodes) && opcodes[op] != "" {
		return opcodes[op]
	}
	return fmt.Sprintf("Opcode<%d>", int(op))
}

// Operand is either a register reference or an integer literal.
type Operand struct {
	Register  Register
	Value     int64
	IsLiteral bool
}

// RegisterOperand returns an operand referencing r.
func RegisterOperand(r Register) Operand {
	return Operand{Register: r}
}

// LiteralOperand returns an operand holding the constant v.
func LiteralOperand(v int64) Operand {
	return Operand{Value: v, IsLiteral: true}
}

// IsValid returns true if o is a literal or references a valid register.
func (o Operand) IsValid() bool {
	return o.IsLiteral || o.Register.IsValid()
}

// String returns the operand as it appears in a listing.
func (o Operand) String() string {
	if o.IsLiteral {
		return strconv.FormatInt(o.Value, 10)
	}
	return o.Register.String()
}

// Instruction represents a single parsed ALU instruction. B is unused for INP.
type Instruction struct {
	Op Opcode
	A  Operand
	B  Operand
}

// String returns the instruction in listing syntax.
func (instr Instruction) String() string {
	if instr.Op == INP {
		return fmt.Sprintf("%s %s", instr.Op, instr.A)
	}
	return fmt.Sprintf("%s %s %s", instr.Op, instr.A, instr.B)
}

// Input returns an "inp r" instruction.
func Input(r Register) Instruction {
	return Instruction{Op: INP, A: RegisterOperand(r)}
}

// Add returns an "add r b" instruction.
func Add(r Register, b Operand) Instruction { return Instruction{Op: ADD, A: RegisterOperand(r), B: b} }

// Mul returns a "mul r b" instruction.
func Mul(r Register, b Operand) Instruction { return Instruction{Op: MUL, A: RegisterOperand(r), B: b} }

// Div returns a "div r b" instruction.
func Div(r Register, b Operand) Instruction { return Instruction{Op: DIV, A: RegisterOperand(r), B: b} }

// Mod returns a "mod r b" instruction.
func Mod(r Register, b Operand) Instruction { return Instruction{Op: MOD, A: RegisterOperand(r), B: b} }

// Eql returns an "eql r b" instruction.
func Eql(r Register, b Operand) Instruction { return Instruction{Op: EQL, A: RegisterOperand(r), B: b} }

// CountInputs returns the number of INP instructions in program.
func CountInputs(program []Instruction) int {
	var n int
	for _, instr := range program {
		if instr.Op == INP {
			n++
		}
	}
	return n
}
