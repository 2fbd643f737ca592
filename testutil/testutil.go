package testutil

import (
	"strings"
	"testing"

	"github.com/kestrel-lang/kestrel/analysis/cfg"
	"github.com/kestrel-lang/kestrel/ir"
)

// ParseProg parses inline textual IR, failing the test on error.
func ParseProg(t *testing.T, src string) *ir.Program {
	t.Helper()
	prog, err := ir.Parse("inline", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

// LoadProg reads a .kir fixture from disk, failing the test on error.
func LoadProg(t *testing.T, path string) *ir.Program {
	t.Helper()
	prog, err := ir.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

// MustFn retrieves a function by name, failing the test when absent.
func MustFn(t *testing.T, prog *ir.Program, name string) *ir.Fn {
	t.Helper()
	fn := prog.FnByName(name)
	if fn == nil {
		t.Fatalf("no function with the name %s was found", name)
	}
	return fn
}

// BuildCFG builds the control-flow graph of a function, failing the
// test on malformed input.
func BuildCFG(t *testing.T, fn *ir.Fn) *cfg.Graph {
	t.Helper()
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatal(err)
	}
	return g
}
