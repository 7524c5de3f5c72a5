package storage

import (
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadGame(t *testing.T) {
	s := openTestStore(t)
	rec := &GameRecord{
		White:  "human",
		Black:  "engine",
		Moves:  []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		Result: "0-1",
		Status: "checkmate",
		Depth:  4,
	}
	if err := s.SaveGame(rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" || rec.PlayedAt.IsZero() {
		t.Fatalf("SaveGame did not fill ID and time: %+v", rec)
	}

	got, err := s.LoadGame(rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Result != "0-1" || len(got.Moves) != 4 || got.Moves[3] != "d8h4" || !got.PlayedAt.Equal(rec.PlayedAt) {
		t.Fatalf("loaded %+v", got)
	}
}

func TestLoadMissingGame(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadGame("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("got %v want ErrGameNotFound", err)
	}
}

func TestListAndDeleteGames(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"b", "a", "c"} {
		rec := &GameRecord{ID: id, Result: "*", PlayedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.SaveGame(rec); err != nil {
			t.Fatal(err)
		}
	}

	games, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 3 || games[0].ID != "a" || games[1].ID != "b" || games[2].ID != "c" {
		t.Fatalf("list: %+v", games)
	}

	if err := s.DeleteGame("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadGame("b"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("deleted game still loads: %v", err)
	}
	games, err = s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("after delete: %d games", len(games))
	}
}

func TestSaveGameOverwrites(t *testing.T) {
	s := openTestStore(t)
	rec := &GameRecord{ID: "g1", Result: "*"}
	if err := s.SaveGame(rec); err != nil {
		t.Fatal(err)
	}
	rec.Result = "1-0"
	if err := s.SaveGame(rec); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadGame("g1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Result != "1-0" {
		t.Fatalf("result %s", got.Result)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame(&GameRecord{ID: "persisted", Result: "1/2-1/2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.LoadGame("persisted")
	if err != nil {
		t.Fatal(err)
	}
	if got.Result != "1/2-1/2" {
		t.Fatalf("result %s", got.Result)
	}
}
