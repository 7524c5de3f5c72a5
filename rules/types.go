package rules

// Color is the side to move.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Piece is a colorless piece kind. The numbering matches both backends.
type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

// Letter returns the lower-case letter used in UCI promotion suffixes.
func (p Piece) Letter() byte {
	if int(p) >= len(pieceLetters) {
		return '?'
	}
	return pieceLetters[p]
}

// Square indexes the board a1 = 0, b1 = 1, ... h8 = 63.
type Square uint8

func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

// Mirror flips the square vertically (a1 <-> a8).
func (s Square) Mirror() Square { return s ^ 56 }

func (s Square) String() string {
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare reads algebraic text such as "e4".
func ParseSquare(text string) (Square, bool) {
	if len(text) != 2 {
		return 0, false
	}
	f, r := text[0], text[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return 0, false
	}
	return Square(int(r-'1')*8 + int(f-'a')), true
}

// Bitboards lists one color's pieces, bit i set for square i.
type Bitboards struct {
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64
	All     uint64
}

// ByPiece returns the bitboard for a piece kind.
func (bb Bitboards) ByPiece(p Piece) uint64 {
	switch p {
	case Pawn:
		return bb.Pawns
	case Knight:
		return bb.Knights
	case Bishop:
		return bb.Bishops
	case Rook:
		return bb.Rooks
	case Queen:
		return bb.Queens
	case King:
		return bb.Kings
	}
	return 0
}

// Set places a piece of kind p on sq.
func (bb *Bitboards) Set(p Piece, sq Square) {
	bit := uint64(1) << sq
	switch p {
	case Pawn:
		bb.Pawns |= bit
	case Knight:
		bb.Knights |= bit
	case Bishop:
		bb.Bishops |= bit
	case Rook:
		bb.Rooks |= bit
	case Queen:
		bb.Queens |= bit
	case King:
		bb.Kings |= bit
	default:
		return
	}
	bb.All |= bit
}
