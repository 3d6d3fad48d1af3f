package alu

import (
	"bytes"
	"fmt"
)

// SymbolicRegisters holds the expression bound to every register, indexed by Register.
type SymbolicRegisters [RegisterN]Expr

// String returns one "r = expr" line per register.
func (r SymbolicRegisters) String() string {
	var buf bytes.Buffer
	for i, expr := range r {
		fmt.Fprintf(&buf, "%s = %s\n", Register(i), expr)
	}
	return buf.String()
}

// SymbolicExecutor executes programs over expression nodes instead of
// concrete integers.
type SymbolicExecutor struct {
	regs   SymbolicRegisters
	inputN int

	// Apply simplification rules while building nodes. Defaults to true.
	Optimize bool
}

// NewSymbolicExecutor returns an executor with every register bound to zero.
func NewSymbolicExecutor() *SymbolicExecutor {
	e := &SymbolicExecutor{Optimize: true}
	e.Reset()
	return e
}

// Reset binds every register back to the constant zero and restarts input numbering.
func (e *SymbolicExecutor) Reset() {
	zero := NewConstantExpr(0)
	for i := range e.regs {
		e.regs[i] = zero
	}
	e.inputN = 0
}

// SetRegister binds register r to expr before execution, typically a VarExpr
// when analyzing a subprogram that starts from an unknown state.
func (e *SymbolicExecutor) SetRegister(r Register, expr Expr) {
	assert(r.IsValid(), "invalid register: %d", r)
	e.regs[r] = expr
}

// Registers returns the current register bindings.
func (e *SymbolicExecutor) Registers() SymbolicRegisters { return e.regs }

// Execute runs program and returns the final register bindings. Execution
// continues from the current bindings so it may be called repeatedly.
func (e *SymbolicExecutor) Execute(program []Instruction) (SymbolicRegisters, error) {
	for i, instr := range program {
		if err := e.executeInstruction(instr); err == ErrInvalidInstruction {
			return SymbolicRegisters{}, &InvalidInstructionError{Index: i, Instr: instr}
		} else if err != nil {
			return SymbolicRegisters{}, err
		}
	}
	return e.regs, nil
}

func (e *SymbolicExecutor) executeInstruction(instr Instruction) error {
	if instr.A.IsLiteral || !instr.A.Register.IsValid() {
		return ErrInvalidInstruction
	} else if instr.Op != INP && !instr.B.IsValid() {
		return ErrInvalidInstruction
	}

	switch instr.Op {
	case INP:
		return e.executeInputInstr(instr)
	case ADD:
		return e.executeBinaryInstr(instr, OpAdd)
	case MUL:
		return e.executeBinaryInstr(instr, OpMul)
	case DIV:
		return e.executeBinaryInstr(instr, OpDiv)
	case MOD:
		return e.executeBinaryInstr(instr, OpMod)
	case EQL:
		return e.executeBinaryInstr(instr, OpEql)
	default:
		return ErrInvalidInstruction
	}
}

func (e *SymbolicExecutor) executeInputInstr(instr Instruction) error {
	e.regs[instr.A.Register] = NewInputExpr(e.inputN)
	e.inputN++
	return nil
}

func (e *SymbolicExecutor) executeBinaryInstr(instr Instruction, op BinaryOp) error {
	lhs, rhs := e.regs[instr.A.Register], e.eval(instr.B)
	if e.Optimize {
		e.regs[instr.A.Register] = NewBinaryExpr(op, lhs, rhs)
	} else {
		e.regs[instr.A.Register] = NewRawBinaryExpr(op, lhs, rhs)
	}
	return nil
}

// eval returns the expression bound to an operand.
func (e *SymbolicExecutor) eval(o Operand) Expr {
	if o.IsLiteral {
		return NewConstantExpr(o.Value)
	}
	return e.regs[o.Register]
}

// SymbolicExecution runs program symbolically from an all-zero state.
func SymbolicExecution(program []Instruction) (SymbolicRegisters, error) {
	return NewSymbolicExecutor().Execute(program)
}

// StageExprs returns the simplified expression of register z after each
// subprogram, with the subprogram's input as input0 and the incoming value
// of z as the variable z0. All other registers start at zero.
func StageExprs(subprograms [][]Instruction) ([]Expr, error) {
	exprs := make([]Expr, len(subprograms))
	for i, sub := range subprograms {
		e := NewSymbolicExecutor()
		e.SetRegister(Z, NewVarExpr(Z))
		regs, err := e.Execute(sub)
		if err != nil {
			return nil, fmt.Errorf("subprogram %d: %w", i, err)
		}
		exprs[i] = regs[Z]
	}
	return exprs, nil
}
