package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"chess-search/rules"
)

// EvalParams holds every evaluator weight. Tables are a1-first from White's
// side; Black reads them through FlipView.
type EvalParams struct {
	PieceValues [7]int32 `json:"piece_values"`

	PawnPST   [64]int32 `json:"pawn_pst"`
	KnightPST [64]int32 `json:"knight_pst"`
	BishopPST [64]int32 `json:"bishop_pst"`
	RookPST   [64]int32 `json:"rook_pst"`
	QueenPST  [64]int32 `json:"queen_pst"`
	KingPSTMG [64]int32 `json:"king_pst_mg"`
	KingPSTEG [64]int32 `json:"king_pst_eg"`

	// MobilityWeight is applied per reachable square for N, B, R and Q.
	MobilityWeight [7]int32 `json:"mobility_weight"`

	DoubledPawnPenaltyMG  int32 `json:"doubled_pawn_mg"`
	DoubledPawnPenaltyEG  int32 `json:"doubled_pawn_eg"`
	IsolatedPawnPenaltyMG int32 `json:"isolated_pawn_mg"`
	IsolatedPawnPenaltyEG int32 `json:"isolated_pawn_eg"`

	CastledKingBonusMG    int32 `json:"castled_king_mg"`
	CastledKingBonusEG    int32 `json:"castled_king_eg"`
	PawnShieldBonusMG     int32 `json:"pawn_shield_mg"`
	PawnShieldBonusEG     int32 `json:"pawn_shield_eg"`
	OpenKingFilePenaltyMG int32 `json:"open_king_file_mg"`
	OpenKingFilePenaltyEG int32 `json:"open_king_file_eg"`
}

// DefaultEvalParams returns the hand-set weights.
func DefaultEvalParams() EvalParams {
	return EvalParams{
		PieceValues: [7]int32{
			rules.Pawn:   100,
			rules.Knight: 320,
			rules.Bishop: 330,
			rules.Rook:   500,
			rules.Queen:  900,
		},
		PawnPST:   defaultPawnPST,
		KnightPST: defaultKnightPST,
		BishopPST: defaultBishopPST,
		RookPST:   defaultRookPST,
		QueenPST:  defaultQueenPST,
		KingPSTMG: defaultKingPSTMG,
		KingPSTEG: defaultKingPSTEG,
		MobilityWeight: [7]int32{
			rules.Knight: 2,
			rules.Bishop: 2,
			rules.Rook:   2,
			rules.Queen:  2,
		},
		DoubledPawnPenaltyMG:  20,
		DoubledPawnPenaltyEG:  20,
		IsolatedPawnPenaltyMG: 15,
		IsolatedPawnPenaltyEG: 15,
		CastledKingBonusMG:    20,
		PawnShieldBonusMG:     10,
		OpenKingFilePenaltyMG: 15,
	}
}

// LoadEvalParams reads weights written by SaveEvalParams. Fields missing from
// the file keep their default values.
func LoadEvalParams(path string) (EvalParams, error) {
	p := DefaultEvalParams()
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

// SaveEvalParams writes p as indented JSON through a temp file rename.
func SaveEvalParams(path string, p EvalParams) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var defaultPawnPST = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var defaultKnightPST = [64]int32{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var defaultBishopPST = [64]int32{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var defaultRookPST = [64]int32{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var defaultQueenPST = [64]int32{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var defaultKingPSTMG = [64]int32{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var defaultKingPSTEG = [64]int32{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}
