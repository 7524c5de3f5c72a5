package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chess-search/engine"
	"chess-search/rules"
	"chess-search/rules/dragon"
	"chess-search/rules/goose"
)

func main() {
	depthFlag := flag.Int("depth", 5, "search depth in plies")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	backendFlag := flag.String("backend", "dragon", "rules backend: dragon or goose")
	qcapFlag := flag.Int("qcap", engine.DefaultQuiescenceCap, "quiescence plies below the horizon")
	evalFlag := flag.String("eval", "", "JSON file with evaluation weights")
	pruneFlag := flag.Bool("see", false, "skip quiescence captures that lose material")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	fen := goose.StartFEN
	if *fenFlag != "" {
		fen = *fenFlag
	}

	var (
		pos rules.Position
		err error
	)
	switch *backendFlag {
	case "dragon":
		pos, err = dragon.FromFEN(fen)
	case "goose":
		pos, err = goose.FromFEN(fen)
	default:
		log.Fatal().Str("backend", *backendFlag).Msg("unknown backend")
	}
	if err != nil {
		log.Fatal().Err(err).Str("fen", fen).Msg("bad position")
	}

	cfg := engine.DefaultConfig()
	cfg.QuiescenceCap = *qcapFlag
	cfg.PruneLosingCaptures = *pruneFlag
	cfg.Logger = log.Logger
	if *evalFlag != "" {
		if cfg.Eval, err = engine.LoadEvalParams(*evalFlag); err != nil {
			log.Fatal().Err(err).Msg("loading evaluation weights")
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

	// Ctrl-C returns the last completed iteration.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := engine.New(cfg)
	start := time.Now()
	res, err := e.GetBestMoveContext(ctx, pos, *depthFlag, pos.SideToMove())
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
	elapsed := time.Since(start)

	for _, it := range res.Iterations {
		fmt.Printf("info depth %d score %s nodes %d qnodes %d pv %s\n",
			it.Depth, engine.FormatScore(it.Score), it.Nodes, it.QNodes, engine.PVLine{Moves: it.PV})
	}
	switch res.Terminal {
	case engine.TerminalCheckmate, engine.TerminalStalemate:
		fmt.Printf("info string %s\n", res.Terminal)
	}
	log.Debug().EmbedObject(res.Stats).Float64("first_move_rate", res.Stats.FirstMoveRate()).Msg("cut-statistics")
	nps := float64(res.Nodes+res.QNodes) / elapsed.Seconds()
	fmt.Printf("info time %d nps %.0f\n", elapsed.Milliseconds(), nps)
	fmt.Printf("bestmove %s\n", res.Move)
}
