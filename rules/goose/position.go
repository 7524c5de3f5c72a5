// Package goose adapts the GooseEngineMG move generator to rules.Position.
package goose

import (
	gm "github.com/Oliverans/GooseEngineMG/goosemg"

	"chess-search/rules"
)

// StartFEN is the standard initial position.
const StartFEN = gm.FENStartPos

var _ rules.Position = (*Position)(nil)

type Position struct {
	board *gm.Board
}

// FromFEN validates fen and returns a position ready for search.
func FromFEN(fen string) (*Position, error) {
	b, err := ValidateFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Position{board: b}, nil
}

func (p *Position) SideToMove() rules.Color {
	if p.board.SideToMove() == gm.White {
		return rules.White
	}
	return rules.Black
}

func (p *Position) LegalMoves() []rules.Move {
	return convertMoves(p.board.GenerateMoves())
}

func (p *Position) CaptureMoves() []rules.Move {
	out := convertMoves(p.board.GenerateCaptures())
	for _, m := range p.board.GenerateQuiets() {
		if m.PromotionPiece() != gm.NoPiece {
			out = append(out, convertMove(m))
		}
	}
	return out
}

func (p *Position) Apply(m rules.Move) func() {
	mv := gm.Move(m.Code)
	ok, st := p.board.MakeMove(mv)
	if !ok {
		// MakeMove already restored the board.
		return func() {}
	}
	return func() { p.board.UnmakeMove(mv, st) }
}

func (p *Position) InCheck() bool     { return p.board.InCheck(p.board.SideToMove()) }
func (p *Position) IsCheckmate() bool { return p.board.InCheckmate() }
func (p *Position) IsStalemate() bool { return p.board.InStalemate() }
func (p *Position) HalfmoveClock() int {
	return p.board.HalfmoveClock()
}

func (p *Position) Bitboards(c rules.Color) rules.Bitboards {
	return boardBitboards(p.board, toColor(c))
}

func (p *Position) Validate() error { return validateBoard(p.board) }

func (p *Position) FEN() string { return p.board.ToFEN() }

func (p *Position) Clone() rules.Position {
	b, err := gm.ParseFEN(p.board.ToFEN())
	if err != nil {
		panic("goose: board produced an unparsable FEN: " + err.Error())
	}
	return &Position{board: b}
}

func convertMoves(moves []gm.Move) []rules.Move {
	out := make([]rules.Move, 0, len(moves))
	for _, m := range moves {
		out = append(out, convertMove(m))
	}
	return out
}

func convertMove(m gm.Move) rules.Move {
	out := rules.Move{
		From:      rules.Square(m.From()),
		To:        rules.Square(m.To()),
		Piece:     rules.Piece(m.MovedPiece().Type()),
		Captured:  rules.Piece(m.CapturedPiece().Type()),
		Promotion: rules.Piece(m.PromotionPieceType()),
		Code:      uint32(m),
	}
	switch m.Flags() {
	case gm.FlagCastle:
		out.Flags |= rules.FlagCastle
	case gm.FlagEnPassant:
		out.Flags |= rules.FlagEnPassant
		out.Captured = rules.Pawn
	}
	if out.Captured != rules.NoPiece {
		out.Flags |= rules.FlagCapture
	}
	if out.Promotion != rules.NoPiece {
		out.Flags |= rules.FlagPromotion
	}
	return out
}
