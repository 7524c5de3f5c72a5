package engine

import "chess-search/rules"

// KillerTable keeps two quiet cutoff moves per ply, newest first.
type KillerTable struct {
	KillerMoves [MaxPly + 1][2]rules.Move
}

// InsertKiller records move at ply. A move already in slot 1 is promoted to
// slot 0; nothing is stored twice.
func (k *KillerTable) InsertKiller(move rules.Move, ply int) {
	if ply < 0 || ply > MaxPly {
		return
	}
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

// Killers returns the killers of ply, newest first, without empty slots.
func (k *KillerTable) Killers(ply int) []rules.Move {
	if ply < 0 || ply > MaxPly {
		return nil
	}
	out := make([]rules.Move, 0, 2)
	for _, m := range k.KillerMoves[ply] {
		if m != rules.NoMove {
			out = append(out, m)
		}
	}
	return out
}

// slot returns 0 or 1 for a killer at ply, -1 otherwise.
func (k *KillerTable) slot(move rules.Move, ply int) int {
	if move == rules.NoMove || ply < 0 || ply > MaxPly {
		return -1
	}
	switch move {
	case k.KillerMoves[ply][0]:
		return 0
	case k.KillerMoves[ply][1]:
		return 1
	}
	return -1
}

// Clear the killer moves table.
func (k *KillerTable) ClearKillers() {
	for ply := range k.KillerMoves {
		k.KillerMoves[ply][0] = rules.NoMove
		k.KillerMoves[ply][1] = rules.NoMove
	}
}
