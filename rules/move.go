package rules

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrBadMoveText  = errors.New("malformed move text")
	ErrBadFEN       = errors.New("invalid FEN")
	ErrInconsistent = errors.New("inconsistent position")
)

type MoveFlags uint8

const (
	FlagCapture MoveFlags = 1 << iota
	FlagCastle
	FlagEnPassant
	FlagPromotion
)

// Move is a comparable move value. Code carries the backend's own encoding so
// the position that generated the move can apply it without re-deriving it.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	Promotion Piece
	Flags     MoveFlags
	Code      uint32
}

// NoMove is the zero Move.
var NoMove Move

func (m Move) IsNone() bool      { return m == NoMove }
func (m Move) IsCapture() bool   { return m.Flags&FlagCapture != 0 }
func (m Move) IsPromotion() bool { return m.Flags&FlagPromotion != 0 }

// IsQuiet reports whether the move neither captures nor promotes.
func (m Move) IsQuiet() bool { return m.Flags&(FlagCapture|FlagPromotion) == 0 }

// String returns UCI long algebraic text, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPiece {
		s += string(m.Promotion.Letter())
	}
	return s
}

// FindMove returns the move in moves whose UCI text equals text.
func FindMove(moves []Move, text string) (Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 4 && len(text) != 5 {
		return NoMove, fmt.Errorf("%q: %w", text, ErrBadMoveText)
	}
	if _, ok := ParseSquare(text[0:2]); !ok {
		return NoMove, fmt.Errorf("%q: %w", text, ErrBadMoveText)
	}
	if _, ok := ParseSquare(text[2:4]); !ok {
		return NoMove, fmt.Errorf("%q: %w", text, ErrBadMoveText)
	}
	if len(text) == 5 && !strings.ContainsRune("nbrq", rune(text[4])) {
		return NoMove, fmt.Errorf("%q: %w", text, ErrBadMoveText)
	}
	for _, m := range moves {
		if m.String() == text {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%s: %w", text, ErrIllegalMove)
}
