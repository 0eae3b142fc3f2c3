// main.go - headless runner for the rasterizer's end-to-end scenarios
// (spec §8 S1-S6), reporting pass/fail and per-scenario timing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	only := flag.String("only", "", "run a single scenario by name (e.g. S1), default: all")
	verbose := flag.Bool("v", false, "no effect: failure messages always name the pixel and its value")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lumenray-bench [options]\n\nRuns the S1-S6 rasterizer scenarios headlessly.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  lumenray-bench\n")
		fmt.Fprintf(os.Stderr, "  lumenray-bench -only S1 -v\n")
	}
	flag.Parse()

	scenarios := allScenarios()

	failures := 0
	for _, sc := range scenarios {
		if *only != "" && sc.name != *only {
			continue
		}
		start := time.Now()
		err := sc.run(*verbose)
		elapsed := time.Since(start)
		if err != nil {
			failures++
			fmt.Printf("FAIL %-4s %-40s (%v): %v\n", sc.name, sc.description, elapsed, err)
		} else {
			fmt.Printf("PASS %-4s %-40s (%v)\n", sc.name, sc.description, elapsed)
		}
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d scenario(s) failed\n", failures)
		os.Exit(1)
	}
}
