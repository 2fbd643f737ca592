package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kestrel-lang/kestrel/ir"
	"github.com/kestrel-lang/kestrel/utils"

	"github.com/fatih/color"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func main() {
	path := utils.ParseArgs()

	prog, err := ir.ParseFile(path)
	if err != nil {
		red := utils.CanColorize(color.New(color.FgRed).Sprint)
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}

	switch {
	case task.IsCanParse():
		green := utils.CanColorize(color.New(color.FgGreen).Sprint)
		fmt.Printf("%s %s\n", path, green("parses"))

	case task.IsPrintIR():
		fmt.Print(ir.Print(prog))

	case task.IsCfgToDot():
		cfgToDotPipeline(prog)

	case task.IsFlowToDot():
		flowToDotPipeline(prog)

	case task.IsInsertDestructors():
		insertDestructorsPipeline(prog)

	default:
		log.Fatalf("unhandled task")
	}
}
