package engine

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"chess-search/rules"
)

// Score is a centipawn value. Evaluate returns it from White's point of view,
// the search from the side to move's.
type Score int32

const (
	MaxDepth         = 64
	MaxQuiescenceCap = 32
	// MaxPly bounds recursion: full-width plies plus quiescence plies.
	MaxPly = MaxDepth + MaxQuiescenceCap + 1

	MateScore     Score = 99999
	MateThreshold Score = MateScore - MaxPly
	Infinity      Score = MateScore + 1
	DrawScore     Score = 0
)

// MatedIn is the score of the side to move being checkmated at ply.
func MatedIn(ply int) Score { return -(MateScore - Score(ply)) }

// IsMate reports whether s encodes a forced mate for either side.
func (s Score) IsMate() bool { return abs(s) >= MateThreshold }

// MatePlies returns the number of plies to mate for a mate score, signed
// positive when the side to move delivers it.
func (s Score) MatePlies() int {
	if s > 0 {
		return int(MateScore - s)
	}
	return -int(MateScore + s)
}

// FormatScore renders s as "cp N" or "mate N" (moves, negative when mated).
func FormatScore(s Score) string {
	if !s.IsMate() {
		return fmt.Sprintf("cp %d", s)
	}
	plies := s.MatePlies()
	if s > 0 {
		return fmt.Sprintf("mate %d", (Max(0, plies)+1)/2)
	}
	return fmt.Sprintf("mate %d", -(Max(0, -plies)+1)/2)
}

// colorSign maps a White-relative score to the given side's view.
func colorSign(c rules.Color) Score {
	if c == rules.White {
		return 1
	}
	return -1
}

// PVLine is a principal variation, root move first.
type PVLine struct {
	Moves []rules.Move
}

func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

// Update sets the line to move followed by the child's line.
func (pv *PVLine) Update(move rules.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv PVLine) Clone() PVLine {
	return PVLine{Moves: append([]rules.Move(nil), pv.Moves...)}
}

// GetPVMove returns the first move of the line or rules.NoMove.
func (pv PVLine) GetPVMove() rules.Move {
	if len(pv.Moves) == 0 {
		return rules.NoMove
	}
	return pv.Moves[0]
}

func (pv PVLine) String() string {
	return strings.Join(lo.Map(pv.Moves, func(m rules.Move, _ int) string { return m.String() }), " ")
}
