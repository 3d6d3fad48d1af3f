package main

import (
	"context"
	"fmt"

	"github.com/benbjohnson/alu"
	"github.com/spf13/cobra"
)

// DOTCommand represents a command for exporting a register expression graph.
type DOTCommand struct {
	m *Main

	Register string
}

// NewDOTCommand returns a new instance of DOTCommand.
func NewDOTCommand(m *Main) *DOTCommand {
	return &DOTCommand{m: m}
}

// Command returns the cobra command for "dot".
func (cmd *DOTCommand) Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "dot PROGRAM",
		Short: "write a register expression as a Graphviz DOT graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context(), args[0])
		},
	}
	c.Flags().StringVarP(&cmd.Register, "register", "r", "z", "register to export")
	return c
}

// Run executes the "dot" subcommand.
func (cmd *DOTCommand) Run(ctx context.Context, path string) error {
	r, ok := alu.ParseRegister(cmd.Register)
	if !ok {
		return fmt.Errorf("invalid register: %q", cmd.Register)
	}

	program, err := cmd.m.ReadProgram(path)
	if err != nil {
		return err
	}

	regs, err := alu.SymbolicExecution(program)
	if err != nil {
		return err
	}
	return alu.WriteDOT(cmd.m.Stdout, regs[r])
}
