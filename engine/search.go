package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"chess-search/rules"
)

// ErrSearchStopped is returned when Stop or the context ends a search before
// its first iteration completes.
var ErrSearchStopped = errors.New("search stopped")

// Terminal describes how a search ended.
type Terminal int

const (
	TerminalNone Terminal = iota
	TerminalCheckmate
	TerminalStalemate
	TerminalDepthExhausted
)

func (t Terminal) String() string {
	switch t {
	case TerminalCheckmate:
		return "checkmate"
	case TerminalStalemate:
		return "stalemate"
	case TerminalDepthExhausted:
		return "depth-exhausted"
	}
	return "none"
}

// Iteration is the outcome of one completed iterative-deepening pass.
type Iteration struct {
	Depth  int
	Score  Score
	Nodes  uint64
	QNodes uint64
	PV     []rules.Move
}

type SearchResult struct {
	Move     rules.Move
	Score    Score
	Depth    int
	Terminal Terminal
	Nodes    uint64
	QNodes   uint64
	PV       []rules.Move
	Stats    CutStatistics
	// Stopped is set when the search ended early on Stop or context end.
	Stopped    bool
	Iterations []Iteration
}

// Engine runs bounded-depth searches. It owns its killer and history tables
// and must not be used from more than one goroutine at a time, with the
// exception of Stop.
type Engine struct {
	cfg     Config
	eval    *Evaluator
	orderer *MoveOrderer
	log     zerolog.Logger
	stop    atomic.Bool

	// per call
	ctx      context.Context
	pos      rules.Position
	nodes    uint64
	qnodes   uint64
	stopped  bool
	rootBest rules.Move
	rootHint rules.Move
	cutStats CutStatistics
}

func New(cfg Config) *Engine {
	cfg.normalize()
	return &Engine{
		cfg:     cfg,
		eval:    NewEvaluator(cfg.Eval),
		orderer: NewMoveOrderer(cfg.HistoryCap),
		log:     cfg.Logger,
	}
}

func (e *Engine) Config() Config        { return e.cfg }
func (e *Engine) Evaluator() *Evaluator { return e.eval }
func (e *Engine) Orderer() *MoveOrderer { return e.orderer }

// Reset clears killers and history regardless of PersistHeuristics.
func (e *Engine) Reset() {
	e.orderer.Clear()
}

// Stop asks a running search to return its last completed iteration.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// GetBestMove searches pos to maxDepth plies for colorToMove. Terminal root
// positions are reported in the result, not as errors.
func (e *Engine) GetBestMove(pos rules.Position, maxDepth int, colorToMove rules.Color) (SearchResult, error) {
	return e.GetBestMoveContext(context.Background(), pos, maxDepth, colorToMove)
}

func (e *Engine) GetBestMoveContext(ctx context.Context, pos rules.Position, maxDepth int, colorToMove rules.Color) (SearchResult, error) {
	if maxDepth < 1 {
		return SearchResult{}, fmt.Errorf("%w: got %d", ErrInvalidDepth, maxDepth)
	}
	if maxDepth > MaxDepth {
		e.log.Warn().Int("requested", maxDepth).Int("max", MaxDepth).Msg("search-depth-clamped")
		maxDepth = MaxDepth
	}
	if err := pos.Validate(); err != nil {
		return SearchResult{}, &PositionError{FEN: pos.FEN(), Err: err}
	}
	if side := pos.SideToMove(); side != colorToMove {
		return SearchResult{}, &PositionError{
			FEN: pos.FEN(),
			Err: fmt.Errorf("asked to move for %v but %v is to move", colorToMove, side),
		}
	}

	e.initSearch(ctx, pos)
	defer func() { e.pos, e.ctx = nil, nil }()

	var result SearchResult
	if len(pos.LegalMoves()) == 0 {
		result.Terminal = TerminalStalemate
		result.Score = DrawScore
		if pos.InCheck() {
			result.Terminal = TerminalCheckmate
			result.Score = MatedIn(0)
		}
		e.log.Info().Str("fen", pos.FEN()).Stringer("terminal", result.Terminal).Msg("search-terminal-root")
		return result, nil
	}

	completed := 0
	for depth := 1; depth <= maxDepth; depth++ {
		var pvLine PVLine
		e.rootBest = rules.NoMove
		score, err := e.alphaBeta(depth, 0, -Infinity, Infinity, &pvLine)
		if err != nil {
			if errors.Is(err, ErrSearchStopped) && completed > 0 {
				result.Stopped = true
				break
			}
			return SearchResult{}, err
		}
		completed = depth

		it := Iteration{Depth: depth, Score: score, Nodes: e.nodes, QNodes: e.qnodes, PV: pvLine.Clone().Moves}
		result.Iterations = append(result.Iterations, it)
		e.log.Debug().
			Int("depth", depth).
			Str("score", FormatScore(score)).
			Uint64("nodes", e.nodes).
			Uint64("qnodes", e.qnodes).
			Str("pv", pvLine.String()).
			Msg("search-iteration")

		// A proven mate is only replaced by an equal or faster one.
		if result.Move == rules.NoMove || !result.Score.IsMate() || (score.IsMate() && score >= result.Score) {
			result.Move = e.rootBest
			result.Score = score
			result.Depth = depth
			result.PV = it.PV
		}
		e.rootHint = result.Move

		if result.Score >= MateThreshold {
			break
		}
	}

	result.Terminal = TerminalDepthExhausted
	result.Nodes = e.nodes
	result.QNodes = e.qnodes
	result.Stats = e.cutStats
	e.log.Info().
		Str("move", result.Move.String()).
		Str("score", FormatScore(result.Score)).
		Int("depth", result.Depth).
		Uint64("nodes", result.Nodes).
		Bool("stopped", result.Stopped).
		Msg("search-complete")
	return result, nil
}

func (e *Engine) initSearch(ctx context.Context, pos rules.Position) {
	if !e.cfg.PersistHeuristics {
		e.orderer.Clear()
	}
	e.ctx = ctx
	e.pos = pos
	e.nodes, e.qnodes = 0, 0
	e.stopped = false
	e.stop.Store(false)
	e.rootBest, e.rootHint = rules.NoMove, rules.NoMove
	e.cutStats = CutStatistics{}
}

// shouldStop polls the stop flag and the context every 2048 nodes.
func (e *Engine) shouldStop() bool {
	if e.stopped {
		return true
	}
	if (e.nodes+e.qnodes)&2047 == 0 {
		e.stopped = e.stop.Load() || e.ctx.Err() != nil
	}
	return e.stopped
}

// evaluate returns the static score from the side to move's view.
func (e *Engine) evaluate() Score {
	return e.eval.Evaluate(e.pos) * colorSign(e.pos.SideToMove())
}

// alphaBeta is a fail-soft negamax PVS search. The returned score may lie
// outside [alpha, beta]; it is a bound in that case.
func (e *Engine) alphaBeta(depth, ply int, alpha, beta Score, pvLine *PVLine) (Score, error) {
	if e.shouldStop() {
		return 0, ErrSearchStopped
	}
	e.nodes++
	pvLine.Clear()

	if ply >= MaxPly {
		return e.evaluate(), nil
	}

	legalMoves := e.pos.LegalMoves()
	if len(legalMoves) == 0 {
		if e.pos.InCheck() {
			return MatedIn(ply), nil
		}
		return DrawScore, nil
	}
	if ply > 0 && e.pos.HalfmoveClock() >= 100 {
		return DrawScore, nil
	}

	if depth <= 0 {
		return e.quiescence(alpha, beta, ply, 0)
	}

	moves := e.orderer.Order(legalMoves, e.pos, ply)
	if ply == 0 {
		moves = hoistMove(moves, e.rootHint)
	}

	bestScore := -Infinity
	var childPVLine PVLine
	for i, move := range moves {
		unapply := e.pos.Apply(move)
		var score Score
		var err error
		if i == 0 {
			score, err = e.alphaBeta(depth-1, ply+1, -beta, -alpha, &childPVLine)
			score = -score
		} else {
			score, err = e.searchMoveWithPVS(depth, ply, alpha, beta, &childPVLine)
		}
		unapply()
		if err != nil {
			return 0, err
		}

		if score > bestScore {
			bestScore = score
			if ply == 0 {
				e.rootBest = move
			}
		}
		if score > alpha {
			alpha = score
			pvLine.Update(move, childPVLine)
		}
		if score >= beta {
			e.cutStats.BetaCutoffs++
			if i == 0 {
				e.cutStats.FirstMoveCutoffs++
			}
			if move.IsQuiet() {
				e.orderer.Killers.InsertKiller(move, ply)
				e.orderer.History.Add(move, depth)
			}
			return bestScore, nil
		}
		childPVLine.Clear()
	}
	return bestScore, nil
}

// searchMoveWithPVS searches a non-first move with a null window and repeats
// with the full window when the result falls inside (alpha, beta).
func (e *Engine) searchMoveWithPVS(depth, ply int, alpha, beta Score, childPVLine *PVLine) (Score, error) {
	score, err := e.alphaBeta(depth-1, ply+1, -alpha-1, -alpha, childPVLine)
	if err != nil {
		return 0, err
	}
	score = -score
	if score > alpha && score < beta {
		e.cutStats.Researches++
		childPVLine.Clear()
		score, err = e.alphaBeta(depth-1, ply+1, -beta, -alpha, childPVLine)
		if err != nil {
			return 0, err
		}
		score = -score
	}
	return score, nil
}

// quiescence resolves captures and promotions below the horizon. qdepth
// counts plies since the horizon and is capped by Config.QuiescenceCap.
func (e *Engine) quiescence(alpha, beta Score, ply, qdepth int) (Score, error) {
	if e.shouldStop() {
		return 0, ErrSearchStopped
	}
	e.qnodes++
	e.cutStats.MaxQuiescenceDepth = Max(e.cutStats.MaxQuiescenceDepth, qdepth)

	standpat := e.evaluate()
	if qdepth >= e.cfg.QuiescenceCap || ply >= MaxPly {
		return standpat, nil
	}
	if standpat >= beta {
		e.cutStats.QStandPatCutoffs++
		return beta, nil
	}
	if standpat > alpha {
		alpha = standpat
	}

	bestScore := standpat
	moves := e.orderer.OrderCaptures(e.pos.CaptureMoves(), e.pos)
	for _, move := range moves {
		if e.cfg.PruneLosingCaptures && move.IsCapture() && see(e.pos, move) < 0 {
			continue
		}
		unapply := e.pos.Apply(move)
		score, err := e.quiescence(-beta, -alpha, ply+1, qdepth+1)
		unapply()
		if err != nil {
			return 0, err
		}
		score = -score

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			e.cutStats.QBetaCutoffs++
			return score, nil
		}
		if score > alpha {
			alpha = score
		}
	}
	return bestScore, nil
}

// hoistMove moves m to the front of moves, keeping the rest in order.
func hoistMove(moves []rules.Move, m rules.Move) []rules.Move {
	if m == rules.NoMove {
		return moves
	}
	for i, mv := range moves {
		if mv == m {
			copy(moves[1:i+1], moves[:i])
			moves[0] = m
			break
		}
	}
	return moves
}
