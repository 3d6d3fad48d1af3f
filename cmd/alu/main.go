package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/benbjohnson/alu"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func main() {
	m := NewMain()
	if err := m.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program and the flags shared by every command.
type Main struct {
	Verbose    bool
	ConfigPath string
	Dump       bool

	Stdout io.Writer
	Stderr io.Writer
}

// NewMain returns a new instance of Main attached to the process streams.
func NewMain() *Main {
	return &Main{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run parses args and executes the matching command.
func (m *Main) Run(ctx context.Context, args []string) error {
	cmd := m.Command()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// Command returns the root command with every subcommand attached.
func (m *Main) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "alu",
		Short: "Alu is a tool for running and analyzing ALU programs.",
		Long: strings.TrimSpace(`
Alu is a tool for running and analyzing ALU programs.

Programs are plain text listings with one instruction per line using the
inp, add, mul, div, mod & eql opcodes over the registers w, x, y & z.
`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFlags(0)
			log.SetPrefix("")
			if m.Verbose {
				log.SetOutput(m.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}
	root.SetOut(m.Stdout)
	root.SetErr(m.Stderr)

	flags := root.PersistentFlags()
	flags.BoolVarP(&m.Verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&m.ConfigPath, "config", "", "path to YAML config file (default "+DefaultConfigPath+" if present)")
	flags.BoolVar(&m.Dump, "dump", false, "dump the parsed program to stderr")

	root.AddCommand(
		NewRunCommand(m).Command(),
		NewSimplifyCommand(m).Command(),
		NewDOTCommand(m).Command(),
		NewGenerateCommand(m).Command(),
		NewSolveCommand(m).Command(),
	)
	return root
}

// ReadProgram parses the program listing at path.
func (m *Main) ReadProgram(path string) ([]alu.Instruction, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	program, err := alu.ParseProgram(string(buf))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("[parse] %s: instructions=%d inputs=%d", path, len(program), alu.CountInputs(program))

	if m.Dump {
		spew.Fdump(m.Stderr, program)
	}
	return program, nil
}

// ReadConfig reads the config file named by --config. Without the flag, the
// default path is used if it exists.
func (m *Main) ReadConfig() (Config, error) {
	if m.ConfigPath != "" {
		return ReadConfigFile(m.ConfigPath, true)
	}
	return ReadConfigFile(DefaultConfigPath, false)
}
