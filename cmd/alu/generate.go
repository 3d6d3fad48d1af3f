package main

import (
	"context"
	"log"
	"os"

	"github.com/benbjohnson/alu"
	"github.com/spf13/cobra"
)

// GenerateCommand represents a command for generating Go source from the
// per-subprogram closed forms of a program.
type GenerateCommand struct {
	m *Main

	Output  string
	Package string
}

// NewGenerateCommand returns a new instance of GenerateCommand.
func NewGenerateCommand(m *Main) *GenerateCommand {
	return &GenerateCommand{m: m}
}

// Command returns the cobra command for "generate".
func (cmd *GenerateCommand) Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "generate PROGRAM",
		Short: "generate a Go function computing z for each subprogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context(), args[0])
		},
	}
	c.Flags().StringVarP(&cmd.Output, "output", "o", "", "output file (default stdout)")
	c.Flags().StringVar(&cmd.Package, "package", "stages", "package name of generated source")
	return c
}

// Run executes the "generate" subcommand.
func (cmd *GenerateCommand) Run(ctx context.Context, path string) error {
	program, err := cmd.m.ReadProgram(path)
	if err != nil {
		return err
	}

	subprograms, err := alu.Split(program, alu.CountInputs(program))
	if err != nil {
		return err
	}
	exprs, err := alu.StageExprs(subprograms)
	if err != nil {
		return err
	}

	src, err := alu.GenerateGo(cmd.Package, exprs)
	if err != nil {
		return err
	}

	if cmd.Output == "" {
		_, err := cmd.m.Stdout.Write(src)
		return err
	}
	log.Printf("[generate] %s: stages=%d bytes=%d", cmd.Output, len(exprs), len(src))
	return os.WriteFile(cmd.Output, src, 0666)
}
