package bench

import (
	"testing"

	"chess-search/engine"
)

func BenchmarkEvaluate_Kiwipete(b *testing.B) {
	pos := mustPosition(b, "dragon", kiwipeteFEN)
	ev := engine.NewEvaluator(engine.DefaultEvalParams())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ev.Evaluate(pos)
	}
}

func benchSearch(b *testing.B, fen string, depth int) {
	pos := mustPosition(b, "dragon", fen)
	e := engine.New(engine.DefaultConfig())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.GetBestMove(pos, depth, pos.SideToMove()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch_Initial_D4(b *testing.B)  { benchSearch(b, startFEN, 4) }
func BenchmarkSearch_Kiwipete_D3(b *testing.B) { benchSearch(b, kiwipeteFEN, 3) }
func BenchmarkSearch_Pos6_D3(b *testing.B)     { benchSearch(b, pos6FEN, 3) }
