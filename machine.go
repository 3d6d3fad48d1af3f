package alu

import (
	"bytes"
	"fmt"
)

// Registers holds the concrete value of every ALU register, indexed by Register.
type Registers [RegisterN]int64

// String returns the registers as "w=0 x=0 y=0 z=0".
func (r Registers) String() string {
	var buf bytes.Buffer
	for i, v := range r {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%s=%d", Register(i), v)
	}
	return buf.String()
}

// Machine is a concrete ALU interpreter. The zero value is ready to use.
//
// A machine is not safe for concurrent use; the staged search gives each
// worker its own machine.
type Machine struct {
	regs Registers
}

// NewMachine returns a new machine with all registers set to zero.
func NewMachine() *Machine {
	return &Machine{}
}

// Reset sets all registers back to zero.
func (m *Machine) Reset() {
	m.regs = Registers{}
}

// Registers returns a copy of the current register values.
func (m *Machine) Registers() Registers { return m.regs }

// Register returns the value of register r.
func (m *Machine) Register(r Register) int64 { return m.regs[r] }

// SetRegister sets register r to v.
func (m *Machine) SetRegister(r Register, v int64) { m.regs[r] = v }

// Run executes program against the registers, consuming inputs for every INP
// instruction. Registers are not reset beforehand so callers can seed state.
//
// Division and modulo by zero are not checked and panic like any Go integer
// division.
func (m *Machine) Run(program []Instruction, inputs []int64) error {
	var next int
	for i := range program {
		instr := &program[i]
		if instr.A.IsLiteral || !instr.A.Register.IsValid() {
			return &InvalidInstructionError{Index: i, Instr: *instr}
		} else if instr.Op != INP && !instr.B.IsValid() {
			return &InvalidInstructionError{Index: i, Instr: *instr}
		}
		dst := &m.regs[instr.A.Register]

		switch instr.Op {
		case INP:
			if next >= len(inputs) {
				return ErrNoInputLeft
			}
			*dst = inputs[next]
			next++
		case ADD:
			*dst += m.value(instr.B)
		case MUL:
			*dst *= m.value(instr.B)
		case DIV:
			*dst /= m.value(instr.B)
		case MOD:
			*dst %= m.value(instr.B)
		case EQL:
			if *dst == m.value(instr.B) {
				*dst = 1
			} else {
				*dst = 0
			}
		default:
			return &InvalidInstructionError{Index: i, Instr: *instr}
		}
	}
	return nil
}

// value returns the concrete value of an operand.
func (m *Machine) value(o Operand) int64 {
	if o.IsLiteral {
		return o.Value
	}
	return m.regs[o.Register]
}

// Run is a convenience function that runs program on a fresh machine.
func Run(program []Instruction, inputs []int64) (Registers, error) {
	var m Machine
	if err := m.Run(program, inputs); err != nil {
		return Registers{}, err
	}
	return m.Registers(), nil
}
