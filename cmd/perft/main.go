package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/samber/lo"

	"chess-search/rules"
	"chess-search/rules/dragon"
	"chess-search/rules/goose"
)

func newPosition(backend, fen string) (rules.Position, error) {
	switch backend {
	case "dragon":
		return dragon.FromFEN(fen)
	case "goose":
		return goose.FromFEN(fen)
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

func main() {
	fen := flag.String("fen", goose.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	backend := flag.String("backend", "dragon", "dragon, goose, or both to cross-check")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	if *backend == "both" {
		os.Exit(crossCheck(*fen, *depth))
	}

	pos, err := newPosition(*backend, *fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "position error: %v\n", err)
		os.Exit(2)
	}

	if *divide {
		div := rules.Divide(pos, *depth)
		var sum uint64
		for _, m := range sortedKeys(div) {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += rules.Perft(pos, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)
}

// crossCheck compares the divide output of both backends and returns the
// process exit code.
func crossCheck(fen string, depth int) int {
	d, err := dragon.FromFEN(fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "position error: %v\n", err)
		return 2
	}
	g, err := goose.FromFEN(fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "position error: %v\n", err)
		return 2
	}

	dragonDiv, gooseDiv := rules.Divide(d, depth), rules.Divide(g, depth)
	moves := lo.Union(lo.Keys(dragonDiv), lo.Keys(gooseDiv))
	sort.Strings(moves)

	mismatches := 0
	var total uint64
	for _, m := range moves {
		dn, dok := dragonDiv[m]
		gn, gok := gooseDiv[m]
		if dok != gok || dn != gn {
			mismatches++
			fmt.Printf("%s: dragon=%d goose=%d\n", m, dn, gn)
		}
		total += dn
	}
	if mismatches > 0 {
		fmt.Printf("%d root moves differ\n", mismatches)
		return 1
	}
	fmt.Printf("backends agree: depth %d nodes %d\n", depth, total)
	return 0
}

func sortedKeys(m map[string]uint64) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
