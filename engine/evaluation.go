package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"

	"chess-search/rules"
)

// Board indexing and bit masks for evaluation
var FlipView = [64]int{
	56, 57, 58, 59, 60, 61, 62, 63,
	48, 49, 50, 51, 52, 53, 54, 55,
	40, 41, 42, 43, 44, 45, 46, 47,
	32, 33, 34, 35, 36, 37, 38, 39,
	24, 25, 26, 27, 28, 29, 30, 31,
	16, 17, 18, 19, 20, 21, 22, 23,
	8, 9, 10, 11, 12, 13, 14, 15,
	0, 1, 2, 3, 4, 5, 6, 7,
}

const (
	bitboardFileA uint64 = 0x0101010101010101
	bitboardFileH uint64 = 0x8080808080808080
	firstRankMask uint64 = 0x00000000000000ff
)

var onlyFile [8]uint64
var knightMoves [64]uint64

// Game phase weights for interpolation
const (
	PawnPhase   = 0
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = PawnPhase*16 + KnightPhase*4 + BishopPhase*4 + RookPhase*4 + QueenPhase*2
)

func init() {
	for f := 0; f < 8; f++ {
		onlyFile[f] = bitboardFileA << f
	}
	for sq := 0; sq < 64; sq++ {
		bb := uint64(1) << sq
		notA, notAB := ^bitboardFileA, ^(bitboardFileA | bitboardFileA<<1)
		notH, notGH := ^bitboardFileH, ^(bitboardFileH | bitboardFileH>>1)
		knightMoves[sq] = (bb<<17)&notA | (bb<<15)&notH | (bb<<10)&notAB | (bb<<6)&notGH |
			(bb>>17)&notH | (bb>>15)&notA | (bb>>10)&notGH | (bb>>6)&notAB
	}
}

// Evaluator scores positions statically. It holds no search state and is
// safe to share between goroutines.
type Evaluator struct {
	p EvalParams
}

func NewEvaluator(p EvalParams) *Evaluator {
	return &Evaluator{p: p}
}

func (e *Evaluator) Params() EvalParams { return e.p }

// Evaluate returns the score of pos from White's point of view.
func (e *Evaluator) Evaluate(pos rules.Position) Score {
	w, b := pos.Bitboards(rules.White), pos.Bitboards(rules.Black)
	return e.evaluateBitboards(&w, &b)
}

func (e *Evaluator) evaluateBitboards(w, b *rules.Bitboards) Score {
	var mgScore, egScore int32

	materialW := countMaterial(w, &e.p.PieceValues)
	materialB := countMaterial(b, &e.p.PieceValues)
	mgScore += materialW - materialB
	egScore += materialW - materialB

	pstMG, pstEG := e.pieceSquareScores(w, b)
	mgScore += pstMG
	egScore += pstEG

	mobility := e.mobility(w, b) - e.mobility(b, w)
	mgScore += mobility
	egScore += mobility

	doubledMG, doubledEG := pawnDoublingPenalties(w.Pawns, b.Pawns, e.p.DoubledPawnPenaltyMG, e.p.DoubledPawnPenaltyEG)
	isolatedMG, isolatedEG := isolatedPawnPenalty(w.Pawns, b.Pawns, e.p.IsolatedPawnPenaltyMG, e.p.IsolatedPawnPenaltyEG)
	mgScore += doubledMG + isolatedMG
	egScore += doubledEG + isolatedEG

	kingMG, kingEG := e.kingSafety(w, b)
	mgScore += kingMG
	egScore += kingEG

	piecePhase := GetPiecePhase(w, b)
	mgWeight := int32(piecePhase)
	egWeight := int32(TotalPhase - piecePhase)
	return Score((mgScore*mgWeight + egScore*egWeight) / TotalPhase)
}

/* ============= MATERIAL + PHASE ============= */

// GetPiecePhase returns the non-pawn material phase, TotalPhase at the start.
func GetPiecePhase(w, b *rules.Bitboards) (phase int) {
	phase += bits.OnesCount64(w.Knights|b.Knights) * KnightPhase
	phase += bits.OnesCount64(w.Bishops|b.Bishops) * BishopPhase
	phase += bits.OnesCount64(w.Rooks|b.Rooks) * RookPhase
	phase += bits.OnesCount64(w.Queens|b.Queens) * QueenPhase
	return Min(phase, TotalPhase)
}

func countMaterial(bb *rules.Bitboards, values *[7]int32) (material int32) {
	for p := rules.Pawn; p <= rules.Queen; p++ {
		material += int32(bits.OnesCount64(bb.ByPiece(p))) * values[p]
	}
	return material
}

/* ============= PIECE-SQUARE TABLES ============= */

func (e *Evaluator) pieceSquareScores(w, b *rules.Bitboards) (mgScore, egScore int32) {
	tables := [...]struct {
		piece  rules.Piece
		mg, eg *[64]int32
	}{
		{rules.Pawn, &e.p.PawnPST, &e.p.PawnPST},
		{rules.Knight, &e.p.KnightPST, &e.p.KnightPST},
		{rules.Bishop, &e.p.BishopPST, &e.p.BishopPST},
		{rules.Rook, &e.p.RookPST, &e.p.RookPST},
		{rules.Queen, &e.p.QueenPST, &e.p.QueenPST},
		{rules.King, &e.p.KingPSTMG, &e.p.KingPSTEG},
	}
	for _, t := range tables {
		mg, eg := countPieceTables(w.ByPiece(t.piece), b.ByPiece(t.piece), t.mg, t.eg)
		mgScore += mg
		egScore += eg
	}
	return mgScore, egScore
}

func countPieceTables(wPieceBB uint64, bPieceBB uint64, ptm *[64]int32, pte *[64]int32) (mgScore int32, egScore int32) {
	for x := wPieceBB; x != 0; x &= x - 1 {
		idx := bits.TrailingZeros64(x)
		mgScore += ptm[idx]
		egScore += pte[idx]
	}
	for x := bPieceBB; x != 0; x &= x - 1 {
		revView := FlipView[bits.TrailingZeros64(x)]
		mgScore -= ptm[revView]
		egScore -= pte[revView]
	}
	return mgScore, egScore
}

/* ============= MOBILITY ============= */

// mobility counts pseudo-legal destinations not occupied by own pieces.
func (e *Evaluator) mobility(own, opp *rules.Bitboards) (score int32) {
	occ := own.All | opp.All
	for x := own.Knights; x != 0; x &= x - 1 {
		sq := bits.TrailingZeros64(x)
		score += int32(bits.OnesCount64(knightMoves[sq]&^own.All)) * e.p.MobilityWeight[rules.Knight]
	}
	for x := own.Bishops; x != 0; x &= x - 1 {
		sq := uint8(bits.TrailingZeros64(x))
		moves := dragontoothmg.CalculateBishopMoveBitboard(sq, occ) &^ own.All
		score += int32(bits.OnesCount64(moves)) * e.p.MobilityWeight[rules.Bishop]
	}
	for x := own.Rooks; x != 0; x &= x - 1 {
		sq := uint8(bits.TrailingZeros64(x))
		moves := dragontoothmg.CalculateRookMoveBitboard(sq, occ) &^ own.All
		score += int32(bits.OnesCount64(moves)) * e.p.MobilityWeight[rules.Rook]
	}
	for x := own.Queens; x != 0; x &= x - 1 {
		sq := uint8(bits.TrailingZeros64(x))
		moves := (dragontoothmg.CalculateBishopMoveBitboard(sq, occ) | dragontoothmg.CalculateRookMoveBitboard(sq, occ)) &^ own.All
		score += int32(bits.OnesCount64(moves)) * e.p.MobilityWeight[rules.Queen]
	}
	return score
}

/* ============= PAWN STRUCTURE ============= */

func pawnDoublingPenalties(wPawns, bPawns uint64, penaltyMG, penaltyEG int32) (doubledMG, doubledEG int32) {
	var wDoubledPawnCount, bDoubledPawnCount int32
	for i := 0; i < 8; i++ {
		currFile := onlyFile[i]
		wDoubledPawnCount += int32(Max(bits.OnesCount64(wPawns&currFile)-1, 0))
		bDoubledPawnCount += int32(Max(bits.OnesCount64(bPawns&currFile)-1, 0))
	}
	doubledMG = (bDoubledPawnCount - wDoubledPawnCount) * penaltyMG
	doubledEG = (bDoubledPawnCount - wDoubledPawnCount) * penaltyEG
	return doubledMG, doubledEG
}

func isolatedPawnPenalty(wPawns, bPawns uint64, penaltyMG, penaltyEG int32) (isolatedMG, isolatedEG int32) {
	wIsolated := int32(bits.OnesCount64(isolatedPawns(wPawns)))
	bIsolated := int32(bits.OnesCount64(isolatedPawns(bPawns)))
	isolatedMG = (bIsolated - wIsolated) * penaltyMG
	isolatedEG = (bIsolated - wIsolated) * penaltyEG
	return isolatedMG, isolatedEG
}

// isolatedPawns returns the pawns with no friendly pawn on an adjacent file.
func isolatedPawns(pawns uint64) (isolated uint64) {
	for f := 0; f < 8; f++ {
		onFile := pawns & onlyFile[f]
		if onFile == 0 {
			continue
		}
		var neighbours uint64
		if f > 0 {
			neighbours |= onlyFile[f-1]
		}
		if f < 7 {
			neighbours |= onlyFile[f+1]
		}
		if pawns&neighbours == 0 {
			isolated |= onFile
		}
	}
	return isolated
}

/* ============= KING SAFETY ============= */

func (e *Evaluator) kingSafety(w, b *rules.Bitboards) (mg, eg int32) {
	wMG, wEG := e.kingSafetySide(w.Kings, w.Pawns, w.Rooks)
	bMG, bEG := e.kingSafetySide(bits.ReverseBytes64(b.Kings), bits.ReverseBytes64(b.Pawns), bits.ReverseBytes64(b.Rooks))
	return wMG - bMG, wEG - bEG
}

// kingSafetySide scores one king seen from White's side of the board; Black's
// bitboards are passed flipped.
func (e *Evaluator) kingSafetySide(king, pawns, rooks uint64) (mg, eg int32) {
	if king == 0 {
		return 0, 0
	}
	sq := bits.TrailingZeros64(king)
	file, rank := sq&7, sq>>3

	if rank == 0 && isCastledKing(file, rooks&firstRankMask) {
		mg += e.p.CastledKingBonusMG
		eg += e.p.CastledKingBonusEG
	}

	kingFiles := onlyFile[file]
	if file > 0 {
		kingFiles |= onlyFile[file-1]
	}
	if file < 7 {
		kingFiles |= onlyFile[file+1]
	}

	if rank < 7 {
		shieldRank := firstRankMask << (8 * (rank + 1))
		shield := int32(bits.OnesCount64(pawns & kingFiles & shieldRank))
		mg += shield * e.p.PawnShieldBonusMG
		eg += shield * e.p.PawnShieldBonusEG
	}

	var openFiles int32
	for f := Max(file-1, 0); f <= Min(file+1, 7); f++ {
		if pawns&onlyFile[f] == 0 {
			openFiles++
		}
	}
	mg -= openFiles * e.p.OpenKingFilePenaltyMG
	eg -= openFiles * e.p.OpenKingFilePenaltyEG
	return mg, eg
}

// isCastledKing reports a king on g1, c1 or b1 with no own back-rank rook
// shut in between it and its corner.
func isCastledKing(file int, backRankRooks uint64) bool {
	switch file {
	case 6:
		return backRankRooks&(1<<7) == 0
	case 1, 2:
		return backRankRooks&((uint64(1)<<file)-1) == 0
	}
	return false
}
