package goose

import (
	"fmt"
	"math/bits"
	"strings"

	gm "github.com/Oliverans/GooseEngineMG/goosemg"

	"chess-search/rules"
)

const rankMask1, rankMask8 = uint64(0xFF), uint64(0xFF) << 56

// ValidateFEN parses fen and rejects positions that cannot occur in a legal
// game. Both backends run their input through it.
func ValidateFEN(fen string) (*gm.Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: %q has %d fields", rules.ErrBadFEN, fen, len(fields))
	}
	if fields[1] != "w" && fields[1] != "b" {
		return nil, fmt.Errorf("%w: side to move %q", rules.ErrBadFEN, fields[1])
	}
	b, err := gm.ParseFEN(strings.Join(fields, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rules.ErrBadFEN, err)
	}
	if err := validateBoard(b); err != nil {
		return nil, err
	}
	return b, nil
}

func validateBoard(b *gm.Board) error {
	if !b.Validate() {
		return fmt.Errorf("%w: board state does not match its bitboards", rules.ErrInconsistent)
	}
	for _, c := range [2]struct {
		name string
		bb   rules.Bitboards
	}{{"white", boardBitboards(b, gm.White)}, {"black", boardBitboards(b, gm.Black)}} {
		if n := bits.OnesCount64(c.bb.Kings); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", rules.ErrInconsistent, c.name, n)
		}
		if n := bits.OnesCount64(c.bb.Pawns); n > 8 {
			return fmt.Errorf("%w: %s has %d pawns", rules.ErrInconsistent, c.name, n)
		}
		if n := bits.OnesCount64(c.bb.All); n > 16 {
			return fmt.Errorf("%w: %s has %d pieces", rules.ErrInconsistent, c.name, n)
		}
		if c.bb.Pawns&(rankMask1|rankMask8) != 0 {
			return fmt.Errorf("%w: %s pawn on the back rank", rules.ErrInconsistent, c.name)
		}
	}
	if b.InCheck(1 - b.SideToMove()) {
		return fmt.Errorf("%w: side not to move is in check", rules.ErrInconsistent)
	}
	return nil
}

func toColor(c rules.Color) gm.Color {
	if c == rules.White {
		return gm.White
	}
	return gm.Black
}

func boardBitboards(b *gm.Board, c gm.Color) rules.Bitboards {
	bb := b.Bitboards(c)
	return rules.Bitboards{
		Pawns:   bb.Pawns,
		Knights: bb.Knights,
		Bishops: bb.Bishops,
		Rooks:   bb.Rooks,
		Queens:  bb.Queens,
		Kings:   bb.Kings,
		All:     bb.All,
	}
}
