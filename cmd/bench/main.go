package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"chess-search/engine"
	"chess-search/rules/dragon"
)

var defaultSuite = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
	"3qk3/8/1np1pn2/3p4/4PN2/1BN5/3R4/3Q2K1 w - - 0 1",
}

type benchResult struct {
	fen     string
	res     engine.SearchResult
	elapsed time.Duration
}

func loadSuite(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fens = append(fens, line)
	}
	return fens, scanner.Err()
}

func main() {
	depthFlag := flag.Int("depth", 4, "search depth in plies")
	suiteFlag := flag.String("suite", "", "file with one FEN per line (empty = built-in suite)")
	workers := flag.Int("workers", runtime.NumCPU(), "positions searched in parallel")
	qcapFlag := flag.Int("qcap", engine.DefaultQuiescenceCap, "quiescence plies below the horizon")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *depthFlag <= 0 {
		log.Fatal().Int("depth", *depthFlag).Msg("depth must be positive")
	}

	suite := defaultSuite
	if *suiteFlag != "" {
		var err error
		if suite, err = loadSuite(*suiteFlag); err != nil {
			log.Fatal().Err(err).Msg("reading suite")
		}
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	fmt.Printf("bench: positions=%d depth=%d workers=%d\n", len(suite), *depthFlag, *workers)

	results := make([]benchResult, len(suite))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	startAll := time.Now()
	for i, fen := range suite {
		i, fen := i, fen
		g.Go(func() error {
			// Engines are not shared: each search gets its own tables.
			pos, err := dragon.FromFEN(fen)
			if err != nil {
				return fmt.Errorf("position %d: %w", i+1, err)
			}
			cfg := engine.DefaultConfig()
			cfg.QuiescenceCap = *qcapFlag
			cfg.Logger = log.Logger.With().Int("position", i+1).Logger()

			start := time.Now()
			res, err := engine.New(cfg).GetBestMoveContext(ctx, pos, *depthFlag, pos.SideToMove())
			if err != nil {
				return fmt.Errorf("position %d: %w", i+1, err)
			}
			results[i] = benchResult{fen: fen, res: res, elapsed: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("bench failed")
	}
	wall := time.Since(startAll)

	for i, r := range results {
		fmt.Printf("%2d: bestmove %-6s score %-10s depth %d nodes %d qnodes %d cutoffs %d first %.2f time=%v\n",
			i+1, r.res.Move, engine.FormatScore(r.res.Score), r.res.Depth, r.res.Nodes, r.res.QNodes,
			r.res.Stats.BetaCutoffs, r.res.Stats.FirstMoveRate(), r.elapsed)
	}

	nodes := lo.SumBy(results, func(r benchResult) uint64 { return r.res.Nodes + r.res.QNodes })
	cpu := lo.SumBy(results, func(r benchResult) time.Duration { return r.elapsed })
	slowest := lo.MaxBy(results, func(a, b benchResult) bool { return a.elapsed > b.elapsed })
	fmt.Printf("total nodes: %d\n", nodes)
	fmt.Printf("search time: %v wall: %v nps: %.0f\n", cpu, wall, float64(nodes)/wall.Seconds())
	fmt.Printf("slowest: %q %v\n", slowest.fen, slowest.elapsed)
}
