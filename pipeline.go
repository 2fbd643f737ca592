package main

import (
	"fmt"
	"log"
	"time"

	"github.com/kestrel-lang/kestrel/analysis/cfg"
	"github.com/kestrel-lang/kestrel/analysis/ownership"
	"github.com/kestrel-lang/kestrel/ir"
	"github.com/kestrel-lang/kestrel/utils"
)

// targetFunctions resolves the -fun flag against the program's function
// table. An empty flag targets every function with a body.
func targetFunctions(prog *ir.Program) []*ir.Fn {
	if name := opts.Function(); name != "" {
		fn := prog.FnByName(name)
		if fn == nil {
			log.Fatalf("no function with the name %s was found", name)
		}
		if fn.IsPrototype() {
			log.Fatalf("function %s is a prototype", name)
		}
		return []*ir.Fn{fn}
	}

	var fns []*ir.Fn
	for _, fn := range prog.Funcs {
		if !fn.IsPrototype() {
			fns = append(fns, fn)
		}
	}
	return fns
}

// insertDestructorsPipeline runs the ownership analysis over the whole
// program and prints the transformed IR.
func insertDestructorsPipeline(prog *ir.Program) {
	log.Println("Building destructor registry...")
	destructors := ir.BuildDestroyMap(prog)
	log.Printf("Destructor registry done (%d entries)", destructors.Len())

	log.Println("Inserting destructors...")
	start := time.Now()
	err := ownership.InsertAutoCopyAutoDestroy(prog, ownership.Config{
		WarnOwnership: opts.WarnOwnership(),
		Destructors:   destructors,
	})
	if err != nil {
		log.Fatalln(err)
	}
	utils.TimeTrack(start, "Destructor insertion")
	fmt.Println()

	fmt.Print(ir.Print(prog))
}

// flowToDotPipeline renders the CFG of each targeted function with the
// ownership flow sets at its block boundaries.
func flowToDotPipeline(prog *ir.Program) {
	conf := ownership.Config{
		WarnOwnership: opts.WarnOwnership(),
		Destructors:   ir.BuildDestroyMap(prog),
	}

	fns := targetFunctions(prog)
	for _, fn := range fns {
		outName := opts.OutputName()
		if outName != "" && len(fns) > 1 {
			outName = outName + "_" + fn.Name
		}
		img, err := ownership.VisualizeOwnership(fn, conf, outName, opts.OutputFormat())
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("Rendered ownership flow of %s to %s\n", fn.Name, img)
	}
}

// cfgToDotPipeline renders the CFG of the targeted functions.
func cfgToDotPipeline(prog *ir.Program) {
	var graphs []*cfg.Graph
	for _, fn := range targetFunctions(prog) {
		g, err := cfg.Build(fn)
		if err != nil {
			log.Fatalln(err)
		}
		graphs = append(graphs, g)
	}

	img, err := cfg.Visualize(graphs)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("Rendered CFG to %s\n", img)
}
