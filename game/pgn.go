package game

import (
	"fmt"

	"github.com/notnil/chess"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chess-search/rules/goose"
)

// Tags are extra PGN header pairs, written after the Result tag.
type Tags map[string]string

// PGN replays the game through notnil/chess and returns it in SAN.
func (s *Session) PGN(tags Tags) (string, error) {
	var opts []func(*chess.Game)
	if s.startFEN != goose.StartFEN {
		fen, err := chess.FEN(s.startFEN)
		if err != nil {
			return "", fmt.Errorf("pgn start position: %w", err)
		}
		opts = append(opts, fen)
	}
	g := chess.NewGame(opts...)
	for i, m := range s.moves {
		mv, err := chess.UCINotation{}.Decode(g.Position(), m.String())
		if err != nil {
			return "", fmt.Errorf("pgn move %d %s: %w", i+1, m, err)
		}
		if err := g.Move(mv); err != nil {
			return "", fmt.Errorf("pgn move %d %s: %w", i+1, m, err)
		}
	}
	if s.Status() == FiftyMove && g.Outcome() == chess.NoOutcome {
		if err := g.Draw(chess.FiftyMoveRule); err != nil {
			return "", fmt.Errorf("pgn draw claim: %w", err)
		}
	}

	g.AddTagPair("Result", s.Result())
	if len(opts) > 0 {
		g.AddTagPair("SetUp", "1")
		g.AddTagPair("FEN", s.startFEN)
	}
	keys := maps.Keys(tags)
	slices.Sort(keys)
	for _, k := range keys {
		g.AddTagPair(k, tags[k])
	}
	return g.String(), nil
}
