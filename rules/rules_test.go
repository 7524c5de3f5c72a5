package rules_test

import (
	"errors"
	"testing"

	"chess-search/rules"
	"chess-search/rules/dragon"
	"chess-search/rules/goose"
)

const (
	startFEN     = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemateFEN = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
)

type backend struct {
	name string
	load func(fen string) (rules.Position, error)
}

var backends = []backend{
	{"dragon", func(fen string) (rules.Position, error) { return dragon.FromFEN(fen) }},
	{"goose", func(fen string) (rules.Position, error) { return goose.FromFEN(fen) }},
}

func mustLoad(t *testing.T, be backend, fen string) rules.Position {
	t.Helper()
	pos, err := be.load(fen)
	if err != nil {
		t.Fatalf("%s: load %q: %v", be.name, fen, err)
	}
	return pos
}

func TestPerft(t *testing.T) {
	cases := []struct {
		fen   string
		depth int
		want  uint64
	}{
		{startFEN, 1, 20},
		{startFEN, 2, 400},
		{startFEN, 3, 8902},
		{kiwipeteFEN, 1, 48},
		{kiwipeteFEN, 2, 2039},
		{"k7/8/8/3pP3/8/8/8/7K w - d6 0 2", 1, 5},
		{"1n5k/P7/8/8/8/8/8/7K w - - 0 1", 1, 11},
	}
	for _, be := range backends {
		for _, tc := range cases {
			pos := mustLoad(t, be, tc.fen)
			if got := rules.Perft(pos, tc.depth); got != tc.want {
				t.Fatalf("%s: perft(%q, %d) = %d, want %d", be.name, tc.fen, tc.depth, got, tc.want)
			}
		}
	}
}

func TestApplyUndoRestoresPosition(t *testing.T) {
	for _, be := range backends {
		pos := mustLoad(t, be, kiwipeteFEN)
		before := pos.FEN()
		for _, m := range pos.LegalMoves() {
			undo := pos.Apply(m)
			if pos.SideToMove() != rules.Black {
				t.Fatalf("%s: side to move after %s is %v", be.name, m, pos.SideToMove())
			}
			undo()
			if got := pos.FEN(); got != before {
				t.Fatalf("%s: after %s/undo FEN = %q, want %q", be.name, m, got, before)
			}
		}
	}
}

func TestTerminalStatus(t *testing.T) {
	for _, be := range backends {
		mate := mustLoad(t, be, foolsMateFEN)
		if !mate.InCheck() || !mate.IsCheckmate() || mate.IsStalemate() {
			t.Fatalf("%s: fool's mate: check=%v mate=%v stalemate=%v", be.name, mate.InCheck(), mate.IsCheckmate(), mate.IsStalemate())
		}
		if n := len(mate.LegalMoves()); n != 0 {
			t.Fatalf("%s: fool's mate has %d legal moves", be.name, n)
		}

		stale := mustLoad(t, be, stalemateFEN)
		if stale.InCheck() || stale.IsCheckmate() || !stale.IsStalemate() {
			t.Fatalf("%s: stalemate: check=%v mate=%v stalemate=%v", be.name, stale.InCheck(), stale.IsCheckmate(), stale.IsStalemate())
		}
		if stale.SideToMove() != rules.Black {
			t.Fatalf("%s: stalemate side to move = %v", be.name, stale.SideToMove())
		}
	}
}

func TestMoveDecoding(t *testing.T) {
	for _, be := range backends {
		pos := mustLoad(t, be, kiwipeteFEN)
		moves := pos.LegalMoves()

		castle, err := rules.FindMove(moves, "e1g1")
		if err != nil {
			t.Fatalf("%s: %v", be.name, err)
		}
		if castle.Flags&rules.FlagCastle == 0 || castle.Piece != rules.King {
			t.Fatalf("%s: e1g1 decoded as %+v", be.name, castle)
		}

		capture, err := rules.FindMove(moves, "e5f7")
		if err != nil {
			t.Fatalf("%s: %v", be.name, err)
		}
		if !capture.IsCapture() || capture.Piece != rules.Knight || capture.Captured != rules.Pawn {
			t.Fatalf("%s: e5f7 decoded as %+v", be.name, capture)
		}

		quiet, err := rules.FindMove(moves, "a2a3")
		if err != nil {
			t.Fatalf("%s: %v", be.name, err)
		}
		if !quiet.IsQuiet() || quiet.Piece != rules.Pawn {
			t.Fatalf("%s: a2a3 decoded as %+v", be.name, quiet)
		}
	}
}

func TestCaptureMovesIncludePromotions(t *testing.T) {
	for _, be := range backends {
		pos := mustLoad(t, be, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")
		caps := pos.CaptureMoves()
		var promos, captures int
		for _, m := range caps {
			if m.IsQuiet() {
				t.Fatalf("%s: quiet move %s among captures", be.name, m)
			}
			if m.IsPromotion() {
				promos++
			}
			if m.IsCapture() {
				captures++
			}
		}
		// a8=N/B/R/Q and axb8=N/B/R/Q
		if promos != 8 || captures != 4 {
			t.Fatalf("%s: promotions=%d captures=%d", be.name, promos, captures)
		}
	}
}

func TestEnPassantDecoding(t *testing.T) {
	for _, be := range backends {
		pos := mustLoad(t, be, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
		m, err := rules.FindMove(pos.LegalMoves(), "e5d6")
		if err != nil {
			t.Fatalf("%s: %v", be.name, err)
		}
		if m.Flags&rules.FlagEnPassant == 0 || m.Captured != rules.Pawn {
			t.Fatalf("%s: e5d6 decoded as %+v", be.name, m)
		}
	}
}

func TestInvalidPositions(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want error
	}{
		{"garbage", "not a fen", rules.ErrBadFEN},
		{"side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1", rules.ErrBadFEN},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1", rules.ErrInconsistent},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1", rules.ErrInconsistent},
		{"pawn on back rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1", rules.ErrInconsistent},
		{"opponent in check", "4k3/8/8/8/8/8/4R3/4K3 w - - 0 1", rules.ErrInconsistent},
	}
	for _, be := range backends {
		for _, tc := range cases {
			_, err := be.load(tc.fen)
			if !errors.Is(err, tc.want) {
				t.Fatalf("%s/%s: err = %v, want %v", be.name, tc.name, err, tc.want)
			}
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	for _, be := range backends {
		pos := mustLoad(t, be, startFEN)
		clone := pos.Clone()
		m, err := rules.FindMove(clone.LegalMoves(), "e2e4")
		if err != nil {
			t.Fatalf("%s: %v", be.name, err)
		}
		clone.Apply(m)
		if pos.FEN() == clone.FEN() {
			t.Fatalf("%s: clone shares state with its source", be.name)
		}
		if pos.SideToMove() != rules.White {
			t.Fatalf("%s: source side to move changed", be.name)
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	d := mustLoad(t, backends[0], kiwipeteFEN)
	g := mustLoad(t, backends[1], kiwipeteFEN)
	dd, gd := rules.Divide(d, 2), rules.Divide(g, 2)
	if len(dd) != len(gd) {
		t.Fatalf("root move counts differ: %d vs %d", len(dd), len(gd))
	}
	for mv, n := range dd {
		if gd[mv] != n {
			t.Fatalf("divide %s: dragon %d goose %d", mv, n, gd[mv])
		}
	}
	if d.Bitboards(rules.White) != g.Bitboards(rules.White) || d.Bitboards(rules.Black) != g.Bitboards(rules.Black) {
		t.Fatalf("bitboards differ between backends")
	}
}

func TestBitboardsAndSideFollowMoves(t *testing.T) {
	d := mustLoad(t, backends[0], kiwipeteFEN)
	g := mustLoad(t, backends[1], kiwipeteFEN)
	for _, dm := range d.LegalMoves() {
		gm, err := rules.FindMove(g.LegalMoves(), dm.String())
		if err != nil {
			t.Fatalf("goose: %v", err)
		}
		undoD, undoG := d.Apply(dm), g.Apply(gm)
		for _, c := range []rules.Color{rules.White, rules.Black} {
			if d.Bitboards(c) != g.Bitboards(c) {
				t.Fatalf("after %s: %v bitboards differ", dm, c)
			}
		}
		if g.SideToMove() != rules.Black || g.InCheck() != d.InCheck() {
			t.Fatalf("after %s: goose side %v check %v, dragon check %v", dm, g.SideToMove(), g.InCheck(), d.InCheck())
		}
		undoG()
		undoD()
		if g.SideToMove() != rules.White {
			t.Fatalf("undo %s left %v to move", dm, g.SideToMove())
		}
	}
}
