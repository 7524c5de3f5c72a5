package engine

import "github.com/rs/zerolog"

const (
	DefaultQuiescenceCap = 8
	DefaultHistoryCap    = 10000
)

// Config holds the tunables of an Engine.
type Config struct {
	// QuiescenceCap bounds the capture-only plies below the horizon.
	// Zero disables quiescence; leaves are then evaluated statically.
	QuiescenceCap int
	// HistoryCap is the value at which the history table is halved.
	HistoryCap int32
	// PruneLosingCaptures skips quiescence captures that lose material by
	// static exchange evaluation.
	PruneLosingCaptures bool
	// PersistHeuristics keeps killers and history between GetBestMove calls.
	PersistHeuristics bool
	Eval              EvalParams
	Logger            zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		QuiescenceCap: DefaultQuiescenceCap,
		HistoryCap:    DefaultHistoryCap,
		Eval:          DefaultEvalParams(),
		Logger:        zerolog.Nop(),
	}
}

func (c *Config) normalize() {
	c.QuiescenceCap = Clamp(c.QuiescenceCap, 0, MaxQuiescenceCap)
	if c.HistoryCap <= 0 {
		c.HistoryCap = DefaultHistoryCap
	}
}
