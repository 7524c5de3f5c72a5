package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"chess-search/engine"
	"chess-search/game"
	"chess-search/rules"
	"chess-search/storage"
)

const help = `commands:
  <move>        play a move in UCI text, e.g. e2e4 or e7e8q
  go            let the engine move for the side to move
  undo          take back the last move
  new           start again from the initial position
  depth <n>     set the engine search depth
  fen | moves | status | pgn
  save          archive the game
  list          list archived games
  load <id>     replay an archived game
  quit`

type player struct {
	session *game.Session
	store   *storage.Store
	human   rules.Color
	cfg     engine.Config
	fen     string
	depth   int
	saved   bool
}

func main() {
	depthFlag := flag.Int("depth", game.DefaultDepth, "engine search depth in plies")
	fenFlag := flag.String("fen", "", "start position (empty = startpos)")
	colorFlag := flag.String("color", "white", "the side you play: white or black")
	dbFlag := flag.String("db", "", "directory of the game archive (empty = no archive)")
	persist := flag.Bool("persist", false, "keep killer and history tables between engine moves")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	p := &player{human: rules.White, depth: *depthFlag, fen: *fenFlag}
	if strings.ToLower(*colorFlag) == "black" {
		p.human = rules.Black
	}
	p.cfg = engine.DefaultConfig()
	p.cfg.PersistHeuristics = *persist
	p.cfg.Logger = log.Logger

	if err := p.run(*dbFlag, os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("play")
	}
}

// run plays games until quit. The archive is closed before it returns.
func (p *player) run(dir string, in io.Reader) error {
	if dir != "" {
		store, err := storage.Open(dir)
		if err != nil {
			return fmt.Errorf("opening game archive: %w", err)
		}
		defer store.Close()
		p.store = store
	}

	if err := p.newGame(p.fen, nil); err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	fmt.Println(help)
	p.replyIfEngineToMove()
	p.loop(bufio.NewScanner(in))
	return nil
}

func (p *player) newGame(fen string, moves []string) error {
	opts := []game.Option{game.WithDepth(p.depth), game.WithLogger(log.Logger)}
	if fen != "" {
		opts = append(opts, game.WithStartFEN(fen))
	}
	s, err := game.NewSession(engine.New(p.cfg), opts...)
	if err != nil {
		return err
	}
	for _, m := range moves {
		if err := s.MakeMove(m); err != nil {
			return fmt.Errorf("replaying %s: %w", m, err)
		}
	}
	p.session = s
	p.saved = false
	return nil
}

func (p *player) loop(scanner *bufio.Scanner) {
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "quit":
			return
		case "help":
			fmt.Println(help)
		case "go":
			p.engineMove()
		case "undo":
			if err := p.session.TakeBack(); err != nil {
				fmt.Println(err)
			}
			fmt.Println(p.session.FEN())
		case "new":
			if err := p.newGame(p.fen, nil); err != nil {
				fmt.Println(err)
				continue
			}
			p.replyIfEngineToMove()
		case "depth":
			if len(tokens) < 2 {
				fmt.Println("usage: depth <n>")
				continue
			}
			d, err := strconv.Atoi(tokens[1])
			if err != nil || d < 1 {
				fmt.Println("depth must be a positive number")
				continue
			}
			p.depth = d
			moves := lo.Map(p.session.Moves(), func(m rules.Move, _ int) string { return m.String() })
			if err := p.newGame(p.session.StartFEN(), moves); err != nil {
				fmt.Println(err)
			}
		case "fen":
			fmt.Println(p.session.FEN())
		case "moves":
			fmt.Println(engine.PVLine{Moves: p.session.Moves()})
		case "status":
			fmt.Printf("%s to move, %s, result %s\n", p.session.Turn(), p.session.Status(), p.session.Result())
		case "pgn":
			p.printPGN()
		case "save":
			p.save()
		case "list":
			p.list()
		case "load":
			if len(tokens) < 2 {
				fmt.Println("usage: load <id>")
				continue
			}
			p.load(tokens[1])
		default:
			if err := p.session.MakeMove(tokens[0]); err != nil {
				fmt.Println(err)
				continue
			}
			p.afterMove()
			p.replyIfEngineToMove()
		}
	}
}

func (p *player) replyIfEngineToMove() {
	if p.session.Status() == game.Ongoing && p.session.Turn() != p.human {
		p.engineMove()
	}
}

func (p *player) engineMove() {
	m, err := p.session.EngineMove()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("engine plays", m)
	p.afterMove()
}

func (p *player) afterMove() {
	if p.session.InCheck() {
		fmt.Println("check")
	}
	if st := p.session.Status(); st != game.Ongoing {
		fmt.Printf("game over: %s %s\n", st, p.session.Result())
		if p.store != nil && !p.saved {
			p.save()
		}
	}
}

func (p *player) tags() game.Tags {
	white, black := "engine", "engine"
	if p.human == rules.White {
		white = "human"
	} else {
		black = "human"
	}
	return game.Tags{
		"White": white,
		"Black": black,
		"Date":  time.Now().Format("2006.01.02"),
	}
}

func (p *player) printPGN() {
	pgn, err := p.session.PGN(p.tags())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(pgn)
}

func (p *player) save() {
	if p.store == nil {
		fmt.Println("no archive: start with -db <dir>")
		return
	}
	tags := p.tags()
	pgn, err := p.session.PGN(tags)
	if err != nil {
		log.Warn().Err(err).Msg("pgn export failed")
	}
	rec := &storage.GameRecord{
		White:    tags["White"],
		Black:    tags["Black"],
		StartFEN: p.session.StartFEN(),
		Moves:    lo.Map(p.session.Moves(), func(m rules.Move, _ int) string { return m.String() }),
		Result:   p.session.Result(),
		Status:   p.session.Status().String(),
		Depth:    p.session.Depth(),
		PGN:      pgn,
	}
	if err := p.store.SaveGame(rec); err != nil {
		fmt.Println(err)
		return
	}
	p.saved = true
	fmt.Println("saved game", rec.ID)
}

func (p *player) list() {
	if p.store == nil {
		fmt.Println("no archive: start with -db <dir>")
		return
	}
	games, err := p.store.ListGames()
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, g := range games {
		fmt.Printf("%s  %s  %s-%s  %s  %d moves\n",
			g.ID, g.PlayedAt.Format(time.DateTime), g.White, g.Black, g.Result, len(g.Moves))
	}
}

func (p *player) load(id string) {
	if p.store == nil {
		fmt.Println("no archive: start with -db <dir>")
		return
	}
	rec, err := p.store.LoadGame(id)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := p.newGame(rec.StartFEN, rec.Moves); err != nil {
		fmt.Println(err)
		return
	}
	p.saved = true
	fmt.Println(p.session.FEN())
}
