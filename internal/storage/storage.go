package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessengine/internal/board"
	"github.com/hailam/chessengine/internal/book"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	bookPrefix     = "book/"
)

// Preferences stores the engine settings that flags do not override.
type Preferences struct {
	EngineColor      string    `json:"engine_color"` // "white" or "black"
	Depth            int       `json:"depth"`
	BookPath         string    `json:"book_path"`
	TablebaseEnabled bool      `json:"tablebase_enabled"`
	TablebaseURL     string    `json:"tablebase_url"` // empty selects the Lichess default
	LastPlayed       time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		EngineColor:      "black",
		Depth:            4,
		TablebaseEnabled: true,
	}
}

// Color returns the engine colour, black unless the preference says white.
func (p *Preferences) Color() board.Color {
	if p.EngineColor == "white" {
		return board.White
	}
	return board.Black
}

// Outcome is how a finished game went for the engine.
type Outcome int

const (
	EngineWon Outcome = iota
	EngineLost
	Drawn
)

// GameResult represents the result of a completed game.
type GameResult struct {
	Outcome  Outcome
	Reason   string // "checkmate", "stalemate", "threefold repetition", ...
	Plies    int
	Duration time.Duration
}

// GameStats stores game statistics.
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	EngineWins     int            `json:"engine_wins"`
	EngineLosses   int            `json:"engine_losses"`
	Draws          int            `json:"draws"`
	ByReason       map[string]int `json:"by_reason"`
	TotalPlies     int            `json:"total_plies"`
	LongestGame    int            `json:"longest_game"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics.
func NewGameStats() *GameStats {
	return &GameStats{ByReason: make(map[string]int)}
}

// WinRate returns the engine's win rate as a percentage (0-100).
func (s *GameStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.EngineWins) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true until MarkFirstLaunchComplete is called.
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})
	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves preferences, stamping LastPlayed.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returning defaults if none are saved.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	return prefs, s.getJSON(keyPreferences, prefs)
}

// SaveStats saves game statistics.
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returning empty stats if none are saved.
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if err := s.getJSON(keyStats, stats); err != nil {
		return nil, err
	}
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics.
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration
	stats.TotalPlies += result.Plies
	stats.LongestGame = max(stats.LongestGame, result.Plies)
	if result.Reason != "" {
		stats.ByReason[result.Reason]++
	}

	switch result.Outcome {
	case EngineWon:
		stats.EngineWins++
		stats.CurrentStreak++
		stats.LongestWinStrk = max(stats.LongestWinStrk, stats.CurrentStreak)
	case EngineLost:
		stats.EngineLosses++
		stats.CurrentStreak = 0
	default:
		stats.Draws++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes key into v, leaving v untouched when the key is missing.
func (s *Storage) getJSON(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// Book positions are stored one per key: bookPrefix followed by the
// big-endian Zobrist key. The value is a run of 6-byte entries: from, to
// and a big-endian uint32 count.
const bookEntrySize = 6

func bookKey(key uint64) []byte {
	k := make([]byte, len(bookPrefix)+8)
	copy(k, bookPrefix)
	binary.BigEndian.PutUint64(k[len(bookPrefix):], key)
	return k
}

// SaveBook replaces the stored book with b.
func (s *Storage) SaveBook(b *book.Book) error {
	if err := s.db.DropPrefix([]byte(bookPrefix)); err != nil {
		return fmt.Errorf("storage: clear book: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range b.Keys() {
		entries := b.Entries(key)
		val := make([]byte, 0, len(entries)*bookEntrySize)
		for _, e := range entries {
			val = append(val, byte(e.Move.From), byte(e.Move.To))
			val = binary.BigEndian.AppendUint32(val, uint32(e.Count))
		}
		if err := wb.Set(bookKey(key), val); err != nil {
			return fmt.Errorf("storage: save book: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("storage: save book: %w", err)
	}
	return nil
}

// LoadBook reads the stored book. An empty book is returned when none is
// stored.
func (s *Storage) LoadBook() (*book.Book, error) {
	b := book.New()
	prefix := []byte(bookPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: prefix})
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			k := item.Key()
			if len(k) != len(bookPrefix)+8 {
				return fmt.Errorf("storage: malformed book key %q", k)
			}
			key := binary.BigEndian.Uint64(k[len(bookPrefix):])

			err := item.Value(func(val []byte) error {
				if len(val)%bookEntrySize != 0 {
					return fmt.Errorf("storage: malformed book value for key %d", key)
				}
				for i := 0; i < len(val); i += bookEntrySize {
					m := book.Move{From: board.Square(val[i]), To: board.Square(val[i+1])}
					b.Add(key, m, int(binary.BigEndian.Uint32(val[i+2:])))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
