package alu

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultDigits is the number of input digits read by a monad program.
const DefaultDigits = 14

// MaxDigits is the largest number of digits whose decimal value fits in an int64.
const MaxDigits = 18

// Split splits program into n subprograms that each start with an INP
// instruction. Instructions before the first INP are kept at the start of the
// first subprogram. Returns a *SubprogramCountError if program does not read
// exactly n inputs.
func Split(program []Instruction, n int) ([][]Instruction, error) {
	if got := CountInputs(program); got != n {
		return nil, &SubprogramCountError{Got: got, Expected: n}
	} else if n == 0 {
		return nil, nil
	}

	subprograms := make([][]Instruction, 0, n)
	var start int
	var seen bool // true once the first INP is found; earlier instructions are prelude
	for i, instr := range program {
		if instr.Op != INP {
			continue
		} else if seen {
			subprograms = append(subprograms, program[start:i])
			start = i
		}
		seen = true
	}
	return append(subprograms, program[start:]), nil
}

// PruneMode selects how the staged search discards states that cannot reach
// z == 0 by the end of the program.
type PruneMode int

// Pruning modes.
const (
	// Keep every reachable state.
	PruneNone PruneMode = iota

	// After stage k of n keep |z| < PruneBase^(n-1-k). Assumes every
	// subprogram divides z by at most PruneBase.
	PruneFixed

	// After stage k keep |z| below the product of every literal divisor
	// applied to z by the remaining subprograms. Assumes z never shrinks
	// except through division.
	PruneDivisors
)

var pruneModes = [...]string{
	PruneNone:     "none",
	PruneFixed:    "fixed",
	PruneDivisors: "divisors",
}

// String returns the name of the mode.
func (m PruneMode) String() string {
	if m >= 0 && int(m) < len(pruneModes) {
		return pruneModes[m]
	}
	return fmt.Sprintf("PruneMode<%d>", int(m))
}

// ParsePruneMode returns the mode for a name returned by PruneMode.String().
func ParsePruneMode(s string) (PruneMode, error) {
	for i, name := range pruneModes {
		if name == s {
			return PruneMode(i), nil
		}
	}
	return 0, fmt.Errorf("alu: invalid prune mode: %q", s)
}

// Progress describes a completed stage of the staged search.
type Progress struct {
	Stage       int // zero-based
	Stages      int
	States      int // distinct z values after the stage
	Transitions int
	Elapsed     time.Duration
}

// Searcher finds the largest and smallest digit strings for which a program
// ends with z == 0 by building a table of reachable z values per input digit.
type Searcher struct {
	// Number of input digits, and therefore subprograms, expected.
	Digits int

	// Inclusive range of digits tried at every position.
	MinDigit int64
	MaxDigit int64

	// Maximum goroutines per stage and incoming states handled by each task.
	Workers   int
	ChunkSize int

	Prune     PruneMode
	PruneBase int64

	// Called after each stage completes, from the calling goroutine.
	Progress func(Progress)

	// Optional trace output.
	Logger *log.Logger
}

// NewSearcher returns a searcher configured for monad programs.
func NewSearcher() *Searcher {
	return &Searcher{
		Digits:    DefaultDigits,
		MinDigit:  MinInputDigit,
		MaxDigit:  MaxInputDigit,
		Workers:   runtime.GOMAXPROCS(0),
		ChunkSize: 4096,
		Prune:     PruneFixed,
		PruneBase: 26,
	}
}

// Solution holds the result of a staged search.
type Solution struct {
	Max   int64
	Min   int64
	Found bool // false if no digit string is accepted

	Tables []*Table
}

// Solve splits program into per-digit subprograms, builds every stage table,
// and returns the extremal accepted digit strings.
func (s *Searcher) Solve(ctx context.Context, program []Instruction) (*Solution, error) {
	subprograms, err := Split(program, s.Digits)
	if err != nil {
		return nil, err
	}

	tables, err := s.BuildTables(ctx, subprograms)
	if err != nil {
		return nil, err
	}

	sol := &Solution{Tables: tables}
	if hi, ok := Max(tables); ok {
		lo, _ := Min(tables)
		sol.Max, sol.Min, sol.Found = hi, lo, true
	}
	s.logf("[solve] found=%v max=%d min=%d", sol.Found, sol.Max, sol.Min)
	return sol, nil
}

// BuildTables returns one table per subprogram. Table k holds every z value
// reachable after subprogram k from the initial z == 0, subject to pruning.
func (s *Searcher) BuildTables(ctx context.Context, subprograms [][]Instruction) ([]*Table, error) {
	if len(subprograms) > MaxDigits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyDigits, len(subprograms), MaxDigits)
	} else if s.MinDigit < 0 || s.MinDigit > s.MaxDigit || s.MaxDigit > 9 {
		return nil, fmt.Errorf("alu: invalid digit range: %d-%d", s.MinDigit, s.MaxDigit)
	} else if s.Prune == PruneFixed && s.PruneBase < 2 {
		return nil, fmt.Errorf("alu: invalid prune base: %d", s.PruneBase)
	}
	bounds := s.bounds(subprograms)

	tables := make([]*Table, 0, len(subprograms))
	incoming := []int64{0}
	for k, sub := range subprograms {
		t := time.Now()
		table, err := s.buildStage(ctx, sub, incoming, bounds[k])
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", k, err)
		}
		tables = append(tables, table)
		incoming = table.Keys()

		p := Progress{
			Stage:       k,
			Stages:      len(subprograms),
			States:      table.Len(),
			Transitions: table.TransitionN(),
			Elapsed:     time.Since(t),
		}
		s.logf("[stage] %d/%d: states=%d transitions=%d bound=%d elapsed=%s", k+1, p.Stages, p.States, p.Transitions, bounds[k], p.Elapsed)
		if s.Progress != nil {
			s.Progress(p)
		}
	}
	return tables, nil
}

// buildStage runs sub for every incoming z and digit and collects the
// resulting states below bound. Chunks of incoming states are processed in
// parallel and merged afterward.
func (s *Searcher) buildStage(ctx context.Context, sub []Instruction, incoming []int64, bound int64) (*Table, error) {
	chunkSize := s.ChunkSize
	if chunkSize <= 0 {
		chunkSize = len(incoming)
	}
	var chunks [][]int64
	for i := 0; i < len(incoming); i += chunkSize {
		chunks = append(chunks, incoming[i:min(i+chunkSize, len(incoming))])
	}

	partials := make([]map[int64][]Transition, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var m Machine
			var input [1]int64
			local := make(map[int64][]Transition)
			for _, z := range chunk {
				for d := s.MinDigit; d <= s.MaxDigit; d++ {
					m.Reset()
					m.SetRegister(Z, z)
					input[0] = d
					if err := m.Run(sub, input[:]); err != nil {
						return err
					}

					next := m.Register(Z)
					if bound != unbounded && (next <= -bound || next >= bound) {
						continue
					}
					local[next] = append(local[next], Transition{Digit: d, Prev: z})
				}
			}
			partials[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[int64][]Transition)
	for _, local := range partials {
		for z, a := range local {
			merged[z] = append(merged[z], a...)
		}
	}
	return NewTable(merged), nil
}

// unbounded disables the bound check for a stage.
const unbounded = math.MaxInt64

// bounds returns the exclusive bound on |z| after each subprogram. A bound
// that saturates is treated as unbounded.
func (s *Searcher) bounds(subprograms [][]Instruction) []int64 {
	n := len(subprograms)
	bounds := make([]int64, n)
	for k := range bounds {
		bounds[k] = unbounded
	}

	switch s.Prune {
	case PruneFixed:
		b := int64(1)
		for k := n - 1; k >= 0; k-- {
			bounds[k] = b
			b = saturatingMul(b, s.PruneBase)
		}
	case PruneDivisors:
		b := int64(1)
		for k := n - 1; k >= 0; k-- {
			bounds[k] = b
			b = saturatingMul(b, zDivisor(subprograms[k]))
		}
	}
	return bounds
}

// zDivisor returns the product of the absolute value of every literal that
// divides register z in sub.
func zDivisor(sub []Instruction) int64 {
	d := int64(1)
	for _, instr := range sub {
		if instr.Op == DIV && !instr.A.IsLiteral && instr.A.Register == Z && instr.B.IsLiteral {
			if v := instr.B.Value; v < 0 {
				d = saturatingMul(d, -v)
			} else if v > 0 {
				d = saturatingMul(d, v)
			}
		}
	}
	return d
}

// saturatingMul returns a*b for positive a & b, capped at math.MaxInt64.
func saturatingMul(a, b int64) int64 {
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func (s *Searcher) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// Max returns the largest number whose digits lead from z == 0 before the
// first table to z == 0 after the last. Returns false if none exists.
func Max(tables []*Table) (int64, bool) {
	return newBacktracker(tables, func(a, b int64) bool { return a > b }).solve()
}

// Min returns the smallest number whose digits lead from z == 0 before the
// first table to z == 0 after the last. Returns false if none exists.
func Min(tables []*Table) (int64, bool) {
	return newBacktracker(tables, func(a, b int64) bool { return a < b }).solve()
}

// backtracker walks stage tables backward from the final z == 0 state.
type backtracker struct {
	tables []*Table
	better func(a, b int64) bool
	memo   map[stageKey]stageResult
}

type stageKey struct {
	stage int
	z     int64
}

type stageResult struct {
	value int64
	ok    bool
}

func newBacktracker(tables []*Table, better func(a, b int64) bool) *backtracker {
	return &backtracker{
		tables: tables,
		better: better,
		memo:   make(map[stageKey]stageResult),
	}
}

func (b *backtracker) solve() (int64, bool) {
	return b.best(len(b.tables)-1, 0)
}

// best returns the preferred number formed by the digits of stages 0..stage
// that ends with the given z after stage.
func (b *backtracker) best(stage int, z int64) (int64, bool) {
	if stage < 0 {
		return 0, z == 0
	}

	key := stageKey{stage: stage, z: z}
	if r, ok := b.memo[key]; ok {
		return r.value, r.ok
	}

	var r stageResult
	for _, tr := range b.tables[stage].Get(z) {
		prefix, ok := b.best(stage-1, tr.Prev)
		if !ok {
			continue
		}
		if v := prefix*10 + tr.Digit; !r.ok || b.better(v, r.value) {
			r = stageResult{value: v, ok: true}
		}
	}
	b.memo[key] = r
	return r.value, r.ok
}

// Digits returns the n least significant decimal digits of v, most
// significant first.
func Digits(v int64, n int) []int64 {
	a := make([]int64, n)
	for i := n - 1; i >= 0; i-- {
		a[i] = v % 10
		v /= 10
	}
	return a
}

// Verify runs program with digits as input and returns true if z ends at zero.
func Verify(program []Instruction, digits []int64) (bool, error) {
	regs, err := Run(program, digits)
	if err != nil {
		return false, err
	}
	return regs[Z] == 0, nil
}
