// Package storage archives finished games in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const gamePrefix = "game/"

var ErrGameNotFound = errors.New("game not found")

// GameRecord is one archived game. Moves are UCI text.
type GameRecord struct {
	ID       string    `json:"id"`
	White    string    `json:"white"`
	Black    string    `json:"black"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`
	Result   string    `json:"result"`
	Status   string    `json:"status"`
	Depth    int       `json:"depth"`
	PGN      string    `json:"pgn"`
	PlayedAt time.Time `json:"played_at"`
}

// Store wraps BadgerDB for the game archive.
type Store struct {
	db *badger.DB
}

// Open opens or creates an archive in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return open(opts)
}

// OpenInMemory opens an archive that lives only as long as the Store.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open game archive: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// SaveGame stores rec, assigning an ID and timestamp when they are empty.
func (s *Store) SaveGame(rec *GameRecord) error {
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	if rec.ID == "" {
		rec.ID = strconv.FormatInt(rec.PlayedAt.UnixNano(), 36)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame returns the game with id or ErrGameNotFound.
func (s *Store) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteGame removes a game. Deleting a missing game is not an error.
func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}

// ListGames returns every archived game in key order.
func (s *Store) ListGames() ([]GameRecord, error) {
	var out []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})

	return out, err
}
