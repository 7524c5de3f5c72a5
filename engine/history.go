package engine

import "chess-search/rules"

/*
HISTORY
A quiet move that caused a beta cutoff gets depth*depth added to its
(piece, destination) entry. Once any entry reaches the cap the whole table
is halved.
*/
type HistoryTable struct {
	scores [7][64]int32
	limit  int32
}

func NewHistoryTable(limit int32) *HistoryTable {
	if limit <= 0 {
		limit = DefaultHistoryCap
	}
	return &HistoryTable{limit: limit}
}

// Score returns the history value for a move.
func (h *HistoryTable) Score(m rules.Move) int32 {
	return h.scores[m.Piece][m.To]
}

// Add credits a quiet cutoff at depth.
func (h *HistoryTable) Add(m rules.Move, depth int) {
	if depth <= 0 {
		return
	}
	entry := &h.scores[m.Piece][m.To]
	*entry += int32(depth * depth)
	if *entry >= h.limit {
		h.age()
	}
}

// Age the values in the history table by halving them.
func (h *HistoryTable) age() {
	for p := range h.scores {
		for sq := range h.scores[p] {
			h.scores[p][sq] = Min(h.scores[p][sq]/2, h.limit-1)
		}
	}
}

// Clear the values in the history table.
func (h *HistoryTable) Clear() {
	h.scores = [7][64]int32{}
}

// Max returns the largest entry.
func (h *HistoryTable) Max() (best int32) {
	for p := range h.scores {
		for _, v := range h.scores[p] {
			best = Max(best, v)
		}
	}
	return best
}
