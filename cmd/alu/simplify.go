package main

import (
	"context"
	"fmt"
	"log"

	"github.com/benbjohnson/alu"
	"github.com/spf13/cobra"
)

// SimplifyCommand represents a command for printing simplified register expressions.
type SimplifyCommand struct {
	m *Main

	Register string
	Stages   bool
}

// NewSimplifyCommand returns a new instance of SimplifyCommand.
func NewSimplifyCommand(m *Main) *SimplifyCommand {
	return &SimplifyCommand{m: m}
}

// Command returns the cobra command for "simplify".
func (cmd *SimplifyCommand) Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "simplify PROGRAM",
		Short: "print the symbolic expression of each register",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context(), args[0])
		},
	}
	c.Flags().StringVarP(&cmd.Register, "register", "r", "", "only print this register")
	c.Flags().BoolVar(&cmd.Stages, "stages", false, "print z after each subprogram with incoming z as z0")
	return c
}

// Run executes the "simplify" subcommand.
func (cmd *SimplifyCommand) Run(ctx context.Context, path string) error {
	program, err := cmd.m.ReadProgram(path)
	if err != nil {
		return err
	}

	if cmd.Stages {
		return cmd.runStages(program)
	}

	regs, err := alu.SymbolicExecution(program)
	if err != nil {
		return err
	}

	if cmd.Register == "" {
		fmt.Fprint(cmd.m.Stdout, regs)
		return nil
	}

	r, ok := alu.ParseRegister(cmd.Register)
	if !ok {
		return fmt.Errorf("invalid register: %q", cmd.Register)
	}
	log.Printf("[exec] %s: nodes=%d", r, alu.NodeCount(regs[r]))
	fmt.Fprintln(cmd.m.Stdout, regs[r])
	return nil
}

func (cmd *SimplifyCommand) runStages(program []alu.Instruction) error {
	subprograms, err := alu.Split(program, alu.CountInputs(program))
	if err != nil {
		return err
	}

	exprs, err := alu.StageExprs(subprograms)
	if err != nil {
		return err
	}
	for i, expr := range exprs {
		fmt.Fprintf(cmd.m.Stdout, "stage %d: z = %s\n", i, expr)
	}
	return nil
}
