package engine

import "github.com/rs/zerolog"

// CutStatistics collects counts for each cutoff mechanism of one search.
type CutStatistics struct {
	BetaCutoffs        uint64
	FirstMoveCutoffs   uint64
	Researches         uint64
	QStandPatCutoffs   uint64
	QBetaCutoffs       uint64
	MaxQuiescenceDepth int
}

// FirstMoveRate is the share of beta cutoffs produced by the first move tried.
func (c CutStatistics) FirstMoveRate() float64 {
	if c.BetaCutoffs == 0 {
		return 0
	}
	return float64(c.FirstMoveCutoffs) / float64(c.BetaCutoffs)
}

func (c CutStatistics) MarshalZerologObject(ev *zerolog.Event) {
	ev.Uint64("beta_cutoffs", c.BetaCutoffs).
		Uint64("first_move_cutoffs", c.FirstMoveCutoffs).
		Uint64("researches", c.Researches).
		Uint64("q_standpat_cutoffs", c.QStandPatCutoffs).
		Uint64("q_beta_cutoffs", c.QBetaCutoffs).
		Int("max_q_depth", c.MaxQuiescenceDepth)
}
