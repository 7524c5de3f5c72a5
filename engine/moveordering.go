package engine

import (
	"sort"

	"chess-search/rules"
)

/*
Move ordering tiers, highest first:
  - captures, most valuable victim / least valuable attacker
  - quiet promotions, by promoted piece
  - killers of the ply, newest first
  - everything else by history score
Inside a tier ties go to the destination nearer the centre, then to the
generator's order.
*/
const (
	captureTier   int64 = 4
	promotionTier int64 = 3
	killerTier    int64 = 2
	quietTier     int64 = 1

	tierShift    = 48
	primaryShift = 8
	// keeps victim-attacker differences non-negative
	primaryBias int64 = 1 << 20
)

// Piece values used only to rank moves; the king sorts last as an attacker.
var orderingValue = [7]int64{
	rules.Pawn:   100,
	rules.Knight: 320,
	rules.Bishop: 330,
	rules.Rook:   500,
	rules.Queen:  900,
	rules.King:   2000,
}

// MoveOrderer ranks moves using the killer and history tables it owns.
type MoveOrderer struct {
	Killers KillerTable
	History *HistoryTable
}

func NewMoveOrderer(historyCap int32) *MoveOrderer {
	return &MoveOrderer{History: NewHistoryTable(historyCap)}
}

type move struct {
	move  rules.Move
	score int64
}

// Order returns a new slice with moves best-first for node ply.
func (o *MoveOrderer) Order(moves []rules.Move, pos rules.Position, ply int) []rules.Move {
	return sortScored(moves, func(m rules.Move) int64 { return o.scoreMove(m, ply) })
}

// OrderCaptures ranks quiescence moves by MVV-LVA alone.
func (o *MoveOrderer) OrderCaptures(moves []rules.Move, pos rules.Position) []rules.Move {
	return sortScored(moves, scoreTactical)
}

func sortScored(moves []rules.Move, score func(rules.Move) int64) []rules.Move {
	list := make([]move, len(moves))
	for i, m := range moves {
		list[i] = move{move: m, score: score(m)}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })
	out := make([]rules.Move, len(list))
	for i := range list {
		out[i] = list[i].move
	}
	return out
}

func (o *MoveOrderer) scoreMove(m rules.Move, ply int) int64 {
	if !m.IsQuiet() {
		return scoreTactical(m)
	}
	if slot := o.Killers.slot(m, ply); slot >= 0 {
		return killerTier<<tierShift | int64(1-slot)<<primaryShift
	}
	return quietTier<<tierShift | int64(o.History.Score(m))<<primaryShift | centreBonus(m.To)
}

func scoreTactical(m rules.Move) int64 {
	if m.IsCapture() {
		mvvLva := orderingValue[m.Captured] - orderingValue[m.Piece] + primaryBias
		return captureTier<<tierShift | mvvLva<<primaryShift | centreBonus(m.To)
	}
	if m.IsPromotion() {
		return promotionTier<<tierShift | orderingValue[m.Promotion]<<primaryShift | centreBonus(m.To)
	}
	return centreBonus(m.To)
}

// centreBonus is 6 minus the Manhattan distance from sq to the nearest
// centre square.
func centreBonus(sq rules.Square) int64 {
	df := Max(3-sq.File(), sq.File()-4)
	dr := Max(3-sq.Rank(), sq.Rank()-4)
	return int64(6 - Max(df, 0) - Max(dr, 0))
}

// Clear resets both heuristic tables.
func (o *MoveOrderer) Clear() {
	o.Killers.ClearKillers()
	o.History.Clear()
}
