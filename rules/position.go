package rules

// Position is the rules collaborator the search is written against. A
// Position is mutated only through Apply, and calling the returned undo
// restores it exactly.
type Position interface {
	SideToMove() Color
	// LegalMoves returns every legal move for the side to move.
	LegalMoves() []Move
	// CaptureMoves returns the legal captures and promotions.
	CaptureMoves() []Move
	Apply(m Move) (undo func())
	InCheck() bool
	IsCheckmate() bool
	IsStalemate() bool
	Bitboards(c Color) Bitboards
	HalfmoveClock() int
	// Validate reports ErrBadFEN or ErrInconsistent for positions that cannot
	// arise in a legal game.
	Validate() error
	FEN() string
	Clone() Position
}

// PieceAt returns the piece kind and color on sq, or NoPiece.
func PieceAt(pos Position, sq Square) (Piece, Color) {
	bit := uint64(1) << sq
	for _, c := range [2]Color{White, Black} {
		bb := pos.Bitboards(c)
		if bb.All&bit == 0 {
			continue
		}
		for p := Pawn; p <= King; p++ {
			if bb.ByPiece(p)&bit != 0 {
				return p, c
			}
		}
	}
	return NoPiece, White
}

// Perft counts the leaf nodes of the legal move tree to depth.
func Perft(pos Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := pos.Apply(m)
		nodes += Perft(pos, depth-1)
		undo()
	}
	return nodes
}

// Divide returns the perft count below each root move, keyed by UCI text.
func Divide(pos Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range pos.LegalMoves() {
		undo := pos.Apply(m)
		out[m.String()] = Perft(pos, depth-1)
		undo()
	}
	return out
}
