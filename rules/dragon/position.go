// Package dragon adapts github.com/dylhunn/dragontoothmg to rules.Position.
// It is the default backend.
package dragon

import (
	"github.com/dylhunn/dragontoothmg"

	"chess-search/rules"
	"chess-search/rules/goose"
)

var _ rules.Position = (*Position)(nil)

type Position struct {
	board dragontoothmg.Board
}

// FromFEN validates fen and returns a position ready for search.
func FromFEN(fen string) (*Position, error) {
	if _, err := goose.ValidateFEN(fen); err != nil {
		return nil, err
	}
	return &Position{board: dragontoothmg.ParseFen(fen)}, nil
}

func (p *Position) SideToMove() rules.Color {
	if p.board.Wtomove {
		return rules.White
	}
	return rules.Black
}

func (p *Position) LegalMoves() []rules.Move {
	raw := p.board.GenerateLegalMoves()
	out := make([]rules.Move, 0, len(raw))
	for _, m := range raw {
		out = append(out, p.convert(m))
	}
	return out
}

func (p *Position) CaptureMoves() []rules.Move {
	raw := p.board.GenerateLegalMoves()
	out := make([]rules.Move, 0, 8)
	for _, m := range raw {
		if mv := p.convert(m); !mv.IsQuiet() {
			out = append(out, mv)
		}
	}
	return out
}

func (p *Position) Apply(m rules.Move) func() {
	return p.board.Apply(dragontoothmg.Move(m.Code))
}

func (p *Position) InCheck() bool { return p.board.OurKingInCheck() }

func (p *Position) IsCheckmate() bool {
	return p.board.OurKingInCheck() && len(p.board.GenerateLegalMoves()) == 0
}

func (p *Position) IsStalemate() bool {
	return !p.board.OurKingInCheck() && len(p.board.GenerateLegalMoves()) == 0
}

func (p *Position) HalfmoveClock() int { return int(p.board.Halfmoveclock) }

func (p *Position) Bitboards(c rules.Color) rules.Bitboards {
	if c == rules.White {
		return convertBitboards(p.board.White)
	}
	return convertBitboards(p.board.Black)
}

func (p *Position) Validate() error {
	_, err := goose.ValidateFEN(p.board.ToFen())
	return err
}

func (p *Position) FEN() string { return p.board.ToFen() }

// Clone copies the board by value; dragontoothmg boards hold no references.
func (p *Position) Clone() rules.Position {
	return &Position{board: p.board}
}

func (p *Position) convert(m dragontoothmg.Move) rules.Move {
	us, them := &p.board.White, &p.board.Black
	if !p.board.Wtomove {
		us, them = them, us
	}
	from, to := rules.Square(m.From()), rules.Square(m.To())
	out := rules.Move{
		From:      from,
		To:        to,
		Piece:     pieceOn(us, from),
		Captured:  pieceOn(them, to),
		Promotion: rules.Piece(m.Promote()),
		Code:      uint32(m),
	}
	switch {
	case out.Piece == rules.Pawn && out.Captured == rules.NoPiece && from.File() != to.File():
		out.Captured = rules.Pawn
		out.Flags |= rules.FlagEnPassant
	case out.Piece == rules.King && (int(to)-int(from) == 2 || int(from)-int(to) == 2):
		out.Flags |= rules.FlagCastle
	}
	if out.Captured != rules.NoPiece {
		out.Flags |= rules.FlagCapture
	}
	if out.Promotion != rules.NoPiece {
		out.Flags |= rules.FlagPromotion
	}
	return out
}

func pieceOn(bb *dragontoothmg.Bitboards, sq rules.Square) rules.Piece {
	bit := uint64(1) << sq
	switch {
	case bb.All&bit == 0:
		return rules.NoPiece
	case bb.Pawns&bit != 0:
		return rules.Pawn
	case bb.Knights&bit != 0:
		return rules.Knight
	case bb.Bishops&bit != 0:
		return rules.Bishop
	case bb.Rooks&bit != 0:
		return rules.Rook
	case bb.Queens&bit != 0:
		return rules.Queen
	case bb.Kings&bit != 0:
		return rules.King
	}
	return rules.NoPiece
}

func convertBitboards(bb dragontoothmg.Bitboards) rules.Bitboards {
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
