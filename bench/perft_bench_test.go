package bench

import (
	"testing"

	"chess-search/rules"
	"chess-search/rules/dragon"
	"chess-search/rules/goose"
)

const (
	startFEN    = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6FEN     = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
)

var backends = map[string]func(string) (rules.Position, error){
	"dragon": func(fen string) (rules.Position, error) { return dragon.FromFEN(fen) },
	"goose":  func(fen string) (rules.Position, error) { return goose.FromFEN(fen) },
}

func mustPosition(b *testing.B, backend, fen string) rules.Position {
	pos, err := backends[backend](fen)
	if err != nil {
		b.Fatalf("FromFEN: %v", err)
	}
	return pos
}

func benchPerft(b *testing.B, backend, fen string, depth int) {
	pos := mustPosition(b, backend, fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rules.Perft(pos, depth)
	}
}

func BenchmarkPerft_Initial_D4_Dragon(b *testing.B) { benchPerft(b, "dragon", startFEN, 4) }
func BenchmarkPerft_Initial_D4_Goose(b *testing.B)  { benchPerft(b, "goose", startFEN, 4) }

func BenchmarkPerft_Kiwipete_D3_Dragon(b *testing.B) { benchPerft(b, "dragon", kiwipeteFEN, 3) }
func BenchmarkPerft_Kiwipete_D3_Goose(b *testing.B)  { benchPerft(b, "goose", kiwipeteFEN, 3) }

func benchGenerateMoves(b *testing.B, backend, fen string, captures bool) {
	pos := mustPosition(b, backend, fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if captures {
			_ = pos.CaptureMoves()
		} else {
			_ = pos.LegalMoves()
		}
	}
}

func BenchmarkGenerateMoves_Pos6_Dragon(b *testing.B) {
	benchGenerateMoves(b, "dragon", pos6FEN, false)
}

func BenchmarkGenerateMoves_Pos6_Goose(b *testing.B) {
	benchGenerateMoves(b, "goose", pos6FEN, false)
}

func BenchmarkGenerateCaptures_Kiwipete_Dragon(b *testing.B) {
	benchGenerateMoves(b, "dragon", kiwipeteFEN, true)
}

func BenchmarkGenerateCaptures_Kiwipete_Goose(b *testing.B) {
	benchGenerateMoves(b, "goose", kiwipeteFEN, true)
}
