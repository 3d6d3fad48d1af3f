package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/benbjohnson/alu"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no --config flag is passed.
const DefaultConfigPath = "alu.yaml"

// Config represents the search settings read from a YAML file.
type Config struct {
	Digits    int    `yaml:"digits"`
	MinDigit  int64  `yaml:"min_digit"`
	MaxDigit  int64  `yaml:"max_digit"`
	Workers   int    `yaml:"workers"`
	Prune     string `yaml:"prune"`
	PruneBase int64  `yaml:"prune_base"`
}

// DefaultConfig returns the settings for a 14-digit monad program.
func DefaultConfig() Config {
	return Config{
		Digits:    alu.DefaultDigits,
		MinDigit:  alu.MinInputDigit,
		MaxDigit:  alu.MaxInputDigit,
		Workers:   runtime.GOMAXPROCS(0),
		Prune:     alu.PruneFixed.String(),
		PruneBase: 26,
	}
}

// ReadConfigFile returns the default config overlaid with the file at path.
// A missing file is only an error if required is true.
func ReadConfigFile(path string, required bool) (Config, error) {
	config := DefaultConfig()

	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return config, nil
	} else if err != nil {
		return config, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Searcher returns a searcher configured by c.
func (c Config) Searcher() (*alu.Searcher, error) {
	prune, err := alu.ParsePruneMode(c.Prune)
	if err != nil {
		return nil, err
	} else if c.Digits <= 0 {
		return nil, fmt.Errorf("digits must be positive: %d", c.Digits)
	} else if c.Digits > alu.MaxDigits {
		return nil, fmt.Errorf("digits must be at most %d: %d", alu.MaxDigits, c.Digits)
	}

	s := alu.NewSearcher()
	s.Digits = c.Digits
	s.MinDigit, s.MaxDigit = c.MinDigit, c.MaxDigit
	s.Workers = c.Workers
	s.Prune, s.PruneBase = prune, c.PruneBase
	return s, nil
}
