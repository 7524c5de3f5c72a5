package engine

import (
	"context"
	"math/bits"
	"testing"

	"chess-search/rules"
)

const defendedPawnFEN = "4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1"

func findMove(t *testing.T, pos rules.Position, text string) rules.Move {
	t.Helper()
	m, err := rules.FindMove(pos.LegalMoves(), text)
	if err != nil {
		t.Fatalf("%s: %v", text, err)
	}
	return m
}

func TestSEE(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
		want int32
	}{
		{"undefended pawn", "4k3/8/8/3p4/8/8/8/3QK3 w - - 0 1", "d1d5", 100},
		{"queen takes defended pawn", defendedPawnFEN, "d1d5", -800},
		{"even trade after queen recapture", "6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1", "c4e6", 0},
		{"rooks behind rooks", "3rk3/3r4/8/3p4/8/8/3R4/3RK3 w - - 0 1", "d2d5", -400},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", 100},
	}
	for _, tc := range cases {
		pos := mustPosition(t, tc.fen)
		if got := see(pos, findMove(t, pos, tc.move)); got != tc.want {
			t.Fatalf("%s: see(%s) = %d want %d", tc.name, tc.move, got, tc.want)
		}
	}
}

func TestKingMoves(t *testing.T) {
	a1, _ := rules.ParseSquare("a1")
	h8, _ := rules.ParseSquare("h8")
	e4, _ := rules.ParseSquare("e4")
	for sq, want := range map[rules.Square]int{a1: 3, h8: 3, e4: 8} {
		if got := bits.OnesCount64(kingMoves[sq]); got != want {
			t.Fatalf("king on %s has %d moves want %d", sq, got, want)
		}
	}
}

func TestPruneLosingCaptures(t *testing.T) {
	for _, prune := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.PruneLosingCaptures = prune
		e := New(cfg)
		pos := mustPosition(t, defendedPawnFEN)
		e.initSearch(context.Background(), pos)

		standpat := e.evaluate()
		score, err := e.quiescence(-Infinity, Infinity, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if prune && (e.qnodes != 1 || score != standpat) {
			t.Fatalf("pruned: qnodes %d score %d standpat %d", e.qnodes, score, standpat)
		}
		if !prune && e.qnodes == 1 {
			t.Fatalf("unpruned quiescence did not search Qxd5")
		}
	}
}
