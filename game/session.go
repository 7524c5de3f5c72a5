package game

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/rs/zerolog"

	"chess-search/engine"
	"chess-search/rules"
	"chess-search/rules/dragon"
	"chess-search/rules/goose"
)

const DefaultDepth = 4

// RepetitionLimit is the number of occurrences of one position that draws the
// game.
const RepetitionLimit = 5

var (
	ErrGameOver     = errors.New("game is over")
	ErrNoMoveToUndo = errors.New("no move to take back")
)

type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	FiftyMove
	InsufficientMaterial
	Repetition
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMove:
		return "fifty-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	case Repetition:
		return "fivefold repetition"
	}
	return "ongoing"
}

// Backend builds a position from FEN.
type Backend func(fen string) (rules.Position, error)

// DragonBackend is the default Backend.
func DragonBackend(fen string) (rules.Position, error) {
	pos, err := dragon.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	return pos, nil
}

type Option func(*Session)

func WithDepth(depth int) Option {
	return func(s *Session) { s.depth = depth }
}

func WithStartFEN(fen string) Option {
	return func(s *Session) { s.startFEN = fen }
}

func WithBackend(b Backend) Option {
	return func(s *Session) { s.backend = b }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Session is a game between any mix of human and engine moves.
type Session struct {
	eng      *engine.Engine
	backend  Backend
	startFEN string
	depth    int
	log      zerolog.Logger

	pos   rules.Position
	moves []rules.Move
	undos []func()
	// keys[i] identifies the position before moves[i]; the last entry is the
	// current position.
	keys []string
}

func NewSession(eng *engine.Engine, opts ...Option) (*Session, error) {
	s := &Session{
		eng:      eng,
		backend:  DragonBackend,
		startFEN: goose.StartFEN,
		depth:    DefaultDepth,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset returns to the starting position and clears the engine heuristics.
func (s *Session) Reset() error {
	pos, err := s.backend(s.startFEN)
	if err != nil {
		return fmt.Errorf("start position: %w", err)
	}
	s.pos = pos
	s.moves = s.moves[:0]
	s.undos = s.undos[:0]
	s.keys = append(s.keys[:0], positionKey(pos))
	s.eng.Reset()
	return nil
}

// MakeMove plays a move given in UCI text for the side to move.
func (s *Session) MakeMove(text string) error {
	if s.Status() != Ongoing {
		return ErrGameOver
	}
	m, err := rules.FindMove(s.pos.LegalMoves(), text)
	if err != nil {
		return err
	}
	s.play(m)
	return nil
}

// EngineMove searches the current position and plays the best move found.
func (s *Session) EngineMove() (rules.Move, error) {
	if st := s.Status(); st != Ongoing {
		return rules.NoMove, fmt.Errorf("%w: %v", ErrGameOver, st)
	}
	res, err := s.eng.GetBestMove(s.pos, s.depth, s.pos.SideToMove())
	if err != nil {
		return rules.NoMove, err
	}
	if res.Move.IsNone() {
		return rules.NoMove, fmt.Errorf("%w: %v", ErrGameOver, res.Terminal)
	}
	s.log.Debug().
		Str("move", res.Move.String()).
		Str("score", engine.FormatScore(res.Score)).
		Int("depth", res.Depth).
		Msg("engine-move")
	s.play(res.Move)
	return res.Move, nil
}

func (s *Session) play(m rules.Move) {
	s.undos = append(s.undos, s.pos.Apply(m))
	s.moves = append(s.moves, m)
	s.keys = append(s.keys, positionKey(s.pos))
}

// TakeBack undoes the last move.
func (s *Session) TakeBack() error {
	n := len(s.undos)
	if n == 0 {
		return ErrNoMoveToUndo
	}
	s.undos[n-1]()
	s.undos = s.undos[:n-1]
	s.moves = s.moves[:n-1]
	s.keys = s.keys[:n]
	return nil
}

func (s *Session) Status() Status {
	if len(s.pos.LegalMoves()) == 0 {
		if s.pos.InCheck() {
			return Checkmate
		}
		return Stalemate
	}
	if s.pos.HalfmoveClock() >= 100 {
		return FiftyMove
	}
	if insufficientMaterial(s.pos) {
		return InsufficientMaterial
	}
	if s.repetitions() >= RepetitionLimit {
		return Repetition
	}
	return Ongoing
}

// repetitions counts the occurrences of the current position in the game.
func (s *Session) repetitions() int {
	current := s.keys[len(s.keys)-1]
	n := 0
	for _, k := range s.keys {
		if k == current {
			n++
		}
	}
	return n
}

// positionKey is the FEN without its move counters: placement, side to
// move, castling rights and en passant square.
func positionKey(pos rules.Position) string {
	fields := strings.Fields(pos.FEN())
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// Result is the PGN result token.
func (s *Session) Result() string {
	switch s.Status() {
	case Checkmate:
		if s.pos.SideToMove() == rules.White {
			return "0-1"
		}
		return "1-0"
	case Ongoing:
		return "*"
	}
	return "1/2-1/2"
}

func (s *Session) FEN() string              { return s.pos.FEN() }
func (s *Session) StartFEN() string         { return s.startFEN }
func (s *Session) Turn() rules.Color        { return s.pos.SideToMove() }
func (s *Session) InCheck() bool            { return s.pos.InCheck() }
func (s *Session) Position() rules.Position { return s.pos.Clone() }
func (s *Session) Depth() int               { return s.depth }

// Moves returns the moves played so far.
func (s *Session) Moves() []rules.Move {
	return append([]rules.Move(nil), s.moves...)
}

const (
	lightSquares uint64 = 0x55aa55aa55aa55aa
	darkSquares         = ^lightSquares
)

// insufficientMaterial reports the dead positions: bare kings, a single minor
// piece, or one bishop each on the same square colour.
func insufficientMaterial(pos rules.Position) bool {
	w, b := pos.Bitboards(rules.White), pos.Bitboards(rules.Black)
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	wMinor := bits.OnesCount64(w.Knights | w.Bishops)
	bMinor := bits.OnesCount64(b.Knights | b.Bishops)
	switch {
	case wMinor+bMinor <= 1:
		return true
	case w.Knights|b.Knights == 0 && wMinor == 1 && bMinor == 1:
		bishops := w.Bishops | b.Bishops
		return bishops&lightSquares == 0 || bishops&darkSquares == 0
	}
	return false
}
