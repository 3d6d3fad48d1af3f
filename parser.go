package alu

import (
	"strconv"
	"strings"
)

// ParseProgram parses a program listing with one instruction per line.
// Blank lines are skipped.
func ParseProgram(text string) ([]Instruction, error) {
	var program []Instruction
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		instr, err := parseInstruction(line)
		if err != nil {
			err.Line, err.Text = i+1, strings.TrimRight(line, "\r")
			return nil, err
		}
		program = append(program, instr)
	}
	return program, nil
}

// MustParseProgram parses text. Panic on error.
func MustParseProgram(text string) []Instruction {
	program, err := ParseProgram(text)
	if err != nil {
		panic(err)
	}
	return program
}

// parseInstruction parses a single non-blank line.
func parseInstruction(line string) (Instruction, *ParseError) {
	fields := strings.Fields(line)

	var op Opcode
	switch fields[0] {
	case "inp":
		op = INP
	case "add":
		op = ADD
	case "mul":
		op = MUL
	case "div":
		op = DIV
	case "mod":
		op = MOD
	case "eql":
		op = EQL
	default:
		return Instruction{}, &ParseError{Message: "unknown opcode " + strconv.Quote(fields[0])}
	}

	// The opcode determines the arity of the rest of the line.
	if op == INP {
		if len(fields) != 2 {
			return Instruction{}, &ParseError{Message: "inp expects 1 operand"}
		}
	} else if len(fields) != 3 {
		return Instruction{}, &ParseError{Message: op.String() + " expects 2 operands"}
	}

	r, ok := ParseRegister(fields[1])
	if !ok {
		return Instruction{}, &ParseError{Message: "invalid register " + strconv.Quote(fields[1])}
	}
	instr := Instruction{Op: op, A: RegisterOperand(r)}
	if op == INP {
		return instr, nil
	}

	b, err := parseOperand(fields[2])
	if err != nil {
		return Instruction{}, err
	}
	instr.B = b
	return instr, nil
}

// parseOperand parses a register letter or an optionally negative decimal integer.
func parseOperand(s string) (Operand, *ParseError) {
	if r, ok := ParseRegister(s); ok {
		return RegisterOperand(r), nil
	}

	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return Operand{}, &ParseError{Message: "invalid operand " + strconv.Quote(s)}
	}
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return Operand{}, &ParseError{Message: "invalid operand " + strconv.Quote(s)}
		}
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Operand{}, &ParseError{Message: "integer out of range " + strconv.Quote(s)}
	}
	return LiteralOperand(v), nil
}
