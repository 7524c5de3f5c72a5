package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"

	"chess-search/rules"
)

var seePieceValue = [7]int32{
	rules.Pawn:   100,
	rules.Knight: 300,
	rules.Bishop: 300,
	rules.Rook:   500,
	rules.Queen:  900,
	rules.King:   5000,
}

var kingMoves [64]uint64

func init() {
	for sq := 0; sq < 64; sq++ {
		bb := uint64(1) << sq
		west := (bb >> 1) &^ bitboardFileH
		east := (bb << 1) &^ bitboardFileA
		row := bb | west | east
		kingMoves[sq] = (row | row<<8 | row>>8) &^ bb
	}
}

// see returns the static exchange value of capture m for the side to move:
// the material balance once every recapture on the target square has been
// played out, least valuable attacker first, with either side free to stop.
func see(pos rules.Position, m rules.Move) int32 {
	bbs := [2]rules.Bitboards{pos.Bitboards(rules.White), pos.Bitboards(rules.Black)}
	side := pos.SideToMove()
	occ := bbs[rules.White].All | bbs[rules.Black].All

	if m.Flags&rules.FlagEnPassant != 0 {
		behind := m.To - 8
		if side == rules.Black {
			behind = m.To + 8
		}
		occ &^= uint64(1) << behind
	}

	var gain [32]int32
	depth := 0
	gain[depth] = seePieceValue[m.Captured]
	attacker := m.Piece
	fromBB := uint64(1) << m.From

	for fromBB != 0 && depth < len(gain)-1 {
		depth++
		gain[depth] = seePieceValue[attacker] - gain[depth-1]
		// Neither side can improve on the result from here.
		if Max(-gain[depth-1], gain[depth]) < 0 {
			break
		}
		occ &^= fromBB
		side = side.Other()
		fromBB, attacker = leastValuableAttacker(attackersTo(m.To, occ, &bbs)&bbs[side].All, &bbs[side])
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -Max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// attackersTo returns the pieces of both sides in occ that attack sq. Sliders
// are recomputed against occ, so pieces behind a capturer show up once it has
// left the line.
func attackersTo(sq rules.Square, occ uint64, bbs *[2]rules.Bitboards) uint64 {
	w, b := &bbs[rules.White], &bbs[rules.Black]
	target := uint64(1) << sq

	whitePawns := ((target>>7)&^bitboardFileA | (target>>9)&^bitboardFileH) & w.Pawns
	blackPawns := ((target<<7)&^bitboardFileH | (target<<9)&^bitboardFileA) & b.Pawns

	diagonal := w.Bishops | w.Queens | b.Bishops | b.Queens
	orthogonal := w.Rooks | w.Queens | b.Rooks | b.Queens

	attackers := whitePawns | blackPawns
	attackers |= knightMoves[sq] & (w.Knights | b.Knights)
	attackers |= kingMoves[sq] & (w.Kings | b.Kings)
	attackers |= dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ) & diagonal
	attackers |= dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ) & orthogonal
	return attackers & occ
}

func leastValuableAttacker(attackers uint64, bb *rules.Bitboards) (uint64, rules.Piece) {
	for p := rules.Pawn; p <= rules.King; p++ {
		if subset := attackers & bb.ByPiece(p); subset != 0 {
			return uint64(1) << bits.TrailingZeros64(subset), p
		}
	}
	return 0, rules.NoPiece
}
