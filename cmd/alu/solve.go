package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/benbjohnson/alu"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// ErrNoSolution is returned when no digit string is accepted by the program.
var ErrNoSolution = errors.New("no accepted input found")

// SolveCommand represents a command for finding the largest and smallest
// accepted digit strings of a program.
type SolveCommand struct {
	m *Main

	Digits    int
	MinDigit  int64
	MaxDigit  int64
	Workers   int
	Prune     string
	PruneBase int64
}

// NewSolveCommand returns a new instance of SolveCommand.
func NewSolveCommand(m *Main) *SolveCommand {
	return &SolveCommand{m: m}
}

// Command returns the cobra command for "solve".
func (cmd *SolveCommand) Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "solve PROGRAM",
		Short: "find the largest and smallest inputs that leave z at zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			config, err := cmd.m.ReadConfig()
			if err != nil {
				return err
			}
			cmd.applyFlags(c, &config)
			return cmd.Run(c.Context(), args[0], config)
		},
	}

	def := DefaultConfig()
	flags := c.Flags()
	flags.IntVar(&cmd.Digits, "digits", def.Digits, "number of input digits")
	flags.Int64Var(&cmd.MinDigit, "min-digit", def.MinDigit, "smallest digit tried")
	flags.Int64Var(&cmd.MaxDigit, "max-digit", def.MaxDigit, "largest digit tried")
	flags.IntVar(&cmd.Workers, "workers", def.Workers, "maximum goroutines per stage")
	flags.StringVar(&cmd.Prune, "prune", def.Prune, "pruning mode: none, fixed or divisors")
	flags.Int64Var(&cmd.PruneBase, "prune-base", def.PruneBase, "bound base for fixed pruning")
	return c
}

// applyFlags overrides config with every flag set on the command line.
func (cmd *SolveCommand) applyFlags(c *cobra.Command, config *Config) {
	flags := c.Flags()
	if flags.Changed("digits") {
		config.Digits = cmd.Digits
	}
	if flags.Changed("min-digit") {
		config.MinDigit = cmd.MinDigit
	}
	if flags.Changed("max-digit") {
		config.MaxDigit = cmd.MaxDigit
	}
	if flags.Changed("workers") {
		config.Workers = cmd.Workers
	}
	if flags.Changed("prune") {
		config.Prune = cmd.Prune
	}
	if flags.Changed("prune-base") {
		config.PruneBase = cmd.PruneBase
	}
}

// Run executes the "solve" subcommand.
func (cmd *SolveCommand) Run(ctx context.Context, path string, config Config) error {
	program, err := cmd.m.ReadProgram(path)
	if err != nil {
		return err
	}

	s, err := config.Searcher()
	if err != nil {
		return err
	}
	s.Logger = log.Default()

	// Progress is redrawn in place so only show it on an interactive terminal.
	if f, ok := cmd.m.Stderr.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		s.Progress = func(p alu.Progress) {
			fmt.Fprintf(f, "\rstage %d/%d: %d states", p.Stage+1, p.Stages, p.States)
			if p.Stage == p.Stages-1 {
				fmt.Fprintln(f)
			}
		}
	}

	sol, err := s.Solve(ctx, program)
	if err != nil {
		return err
	} else if !sol.Found {
		return ErrNoSolution
	}

	fmt.Fprintf(cmd.m.Stdout, "max: %d\n", sol.Max)
	fmt.Fprintf(cmd.m.Stdout, "min: %d\n", sol.Min)
	return nil
}
