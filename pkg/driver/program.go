package driver

import (
	"fmt"
	"strings"

	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/parser"
	"pel/interpreter-go/pkg/samples"
	"pel/interpreter-go/pkg/source"
)

// Program is a parsed entry file ready to step.
type Program struct {
	// Path is the file on disk; empty for embedded samples.
	Path       string
	File       *source.File
	Statements []ast.Statement
}

// LoadProgram reads and parses a program from disk. Syntax errors are
// returned as parser.ErrorList alongside the loaded file so callers can
// render them.
func LoadProgram(path string) (*Program, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	return parseProgram(path, file)
}

// LoadSample parses one of the embedded sample programs.
func LoadSample(name string) (*Program, error) {
	file, err := samples.Load(name)
	if err != nil {
		return nil, err
	}
	return parseProgram("", file)
}

func parseProgram(path string, file *source.File) (*Program, error) {
	stmts, err := parser.ParseProgram(file)
	prog := &Program{Path: path, File: file, Statements: stmts}
	if err != nil {
		return prog, err
	}
	return prog, nil
}

// ResolveEntry picks the program to run: an explicit sample, an explicit
// file argument, or the program named in the config, in that order.
func ResolveEntry(cfg *Config, args []string, sample string) (*Program, error) {
	switch {
	case sample != "" && len(args) > 0:
		return nil, fmt.Errorf("cannot combine --sample with a file argument")
	case sample != "":
		return LoadSample(sample)
	case len(args) > 1:
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(args[1:], " "))
	case len(args) == 1:
		return LoadProgram(args[0])
	case cfg != nil && cfg.Program != "":
		return LoadProgram(cfg.Program)
	default:
		return nil, fmt.Errorf("no program given and no program configured in %s", ConfigFileName)
	}
}
