package utils

import (
	"flag"
	"fmt"
	"log"
	"os"
)

type options struct {
	task          string
	function      string
	outputFormat  string
	outputName    string
	minlen        uint
	nodesep       float64
	warnOwnership bool
	noColorize    bool
	verbose       bool
}

const (
	_INSERT_DESTRUCTORS = iota
	_PRINT_IR
	_CFG_TO_DOT
	_FLOW_TO_DOT
	_CAN_PARSE
)

var task = []struct{ flag, explanation string }{{
	"insert-destructors",
	"Run the ownership analysis and insert destructor calls, then print the transformed IR",
}, {
	"print-ir",
	"Parse the input and pretty-print it back (syntax check)",
}, {
	"cfg-to-dot",
	"Create a dot graph for the control-flow graph of the targeted function",
}, {
	"flow-to-dot",
	"Create a dot graph for the CFG annotated with the ownership flow sets",
}, {
	"can-parse",
	"Parse the input only; the exit status reports success",
}}

var opts = &options{}

type optInterface struct{}

type taskInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) Function() string {
	return opts.function
}
func (optInterface) OutputFormat() string {
	return opts.outputFormat
}
func (optInterface) OutputName() string {
	return opts.outputName
}
func (optInterface) Minlen() uint {
	return opts.minlen
}
func (optInterface) Nodesep() float64 {
	return opts.nodesep
}
func (optInterface) WarnOwnership() bool {
	return opts.warnOwnership
}
func (optInterface) NoColorize() bool {
	return opts.noColorize
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) OnVerbose(do func()) {
	if opts.verbose {
		do()
	}
}
func (optInterface) Task() taskInterface {
	return taskInterface{}
}
func (taskInterface) IsInsertDestructors() bool {
	return opts.task == task[_INSERT_DESTRUCTORS].flag
}
func (taskInterface) IsPrintIR() bool {
	return opts.task == task[_PRINT_IR].flag
}
func (taskInterface) IsCfgToDot() bool {
	return opts.task == task[_CFG_TO_DOT].flag
}
func (taskInterface) IsFlowToDot() bool {
	return opts.task == task[_FLOW_TO_DOT].flag
}
func (taskInterface) IsCanParse() bool {
	return opts.task == task[_CAN_PARSE].flag
}

func init() {
	taskFlag := "\n"
	for _, task := range task {
		taskFlag += task.flag + " -- " + task.explanation + "\n"
	}
	taskFlag += "\n"

	flag.StringVar(&(opts.task), "task", task[_INSERT_DESTRUCTORS].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.StringVar(&(opts.function), "fun", "", "target a specific function w. r. t. the given task. Empty targets all functions.")
	flag.StringVar(&(opts.outputFormat), "format", "svg", "output file format for rendered graphs [svg | png | jpg | ...]")
	flag.StringVar(&(opts.outputName), "output", "", "base name for rendered graph files. Defaults to a temporary file.")
	flag.UintVar(&(opts.minlen), "minlen", 2, "Minimum edge length (for wider output).")
	flag.Float64Var(&(opts.nodesep), "nodesep", 0.35, "Minimum space between two adjacent nodes in the same rank (for taller output).")
	flag.BoolVar(&(opts.warnOwnership), "warn-ownership", false, "Warn when a bit-wise copy reads an uninitialized record symbol")
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "Enable verbose logging")
}

// ParseArgs parses command line flags and returns the positional input
// file. Missing input is a usage error.
func ParseArgs() string {
	flag.Parse()

	valid := false
	for _, t := range task {
		if opts.task == t.flag {
			valid = true
		}
	}
	if !valid {
		log.Fatalf("unknown task %q", opts.task)
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] FILE.kir\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	return flag.Arg(0)
}
