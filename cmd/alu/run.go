package main

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/benbjohnson/alu"
	"github.com/spf13/cobra"
)

// RunCommand represents a command for executing a program with concrete inputs.
type RunCommand struct {
	m *Main
}

// NewRunCommand returns a new instance of RunCommand.
func NewRunCommand(m *Main) *RunCommand {
	return &RunCommand{m: m}
}

// Command returns the cobra command for "run".
func (cmd *RunCommand) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "run PROGRAM [INPUT...]",
		Short: "execute a program and print the final registers",
		Long: `Execute a program and print the final registers.

Each input is an integer consumed by one inp instruction. If a single input is
passed to a program that reads more than one, its decimal digits are used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context(), args[0], args[1:])
		},
	}
}

// Run executes the program at path with args as input.
func (cmd *RunCommand) Run(ctx context.Context, path string, args []string) error {
	program, err := cmd.m.ReadProgram(path)
	if err != nil {
		return err
	}

	inputs, err := parseInputs(args, alu.CountInputs(program))
	if err != nil {
		return err
	}
	log.Printf("[exec] inputs=%v", inputs)

	regs, err := alu.Run(program, inputs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.m.Stdout, regs)
	return nil
}

// parseInputs parses integer arguments. A single multi-digit argument is
// expanded into its digits when the program reads n > 1 inputs.
func parseInputs(args []string, n int) ([]int64, error) {
	if len(args) == 1 && n > 1 && len(args[0]) == n {
		inputs := make([]int64, n)
		for i, ch := range args[0] {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("invalid digit string: %q", args[0])
			}
			inputs[i] = int64(ch - '0')
		}
		return inputs, nil
	}

	inputs := make([]int64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid input: %q", arg)
		}
		inputs[i] = v
	}
	return inputs, nil
}
