// Package book implements an opening book of moves weighted by how often
// they were played from each position.
package book

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/hailam/chessengine/internal/board"
)

// Smoothing pulls sampling weights toward their average: 0 samples in
// proportion to play counts, 1 uniformly.
const Smoothing = 0.1

// Move is a book move by origin and destination. Castling is the king's
// two-square move; promotions are not distinguished.
type Move struct {
	From board.Square
	To   board.Square
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// Entry represents a single book entry.
type Entry struct {
	Move  Move
	Count int
}

// Book maps Zobrist keys to the moves played from that position. A Book is
// not safe for concurrent use.
type Book struct {
	entries map[uint64][]Entry
	rng     *rand.Rand
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]Entry),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SetRand replaces the random source used by SampleMove.
func (b *Book) SetRand(r *rand.Rand) {
	b.rng = r
}

// Add records count plays of m from the position with the given key.
func (b *Book) Add(key uint64, m Move, count int) {
	if count <= 0 {
		return
	}
	entries := b.entries[key]
	for i := range entries {
		if entries[i].Move == m {
			entries[i].Count += count
			return
		}
	}
	b.entries[key] = append(entries, Entry{Move: m, Count: count})
}

// Merge adds every entry of other to b.
func (b *Book) Merge(other *Book) {
	for _, key := range other.Keys() {
		for _, e := range other.entries[key] {
			b.Add(key, e.Move, e.Count)
		}
	}
}

// HasMoves reports whether the position has book moves.
func (b *Book) HasMoves(key uint64) bool {
	if b == nil {
		return false
	}
	return len(b.entries[key]) > 0
}

// Entries returns the book moves for the position, most played first.
func (b *Book) Entries(key uint64) []Entry {
	if b == nil {
		return nil
	}
	result := slices.Clone(b.entries[key])
	slices.SortFunc(result, func(x, y Entry) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Move.From, y.Move.From); c != 0 {
			return c
		}
		return cmp.Compare(x.Move.To, y.Move.To)
	})
	return result
}

// SampleMove picks a book move for the position at random, weighted by the
// smoothed play counts.
func (b *Book) SampleMove(key uint64) (Move, bool) {
	entries := b.Entries(key)
	if len(entries) == 0 {
		return Move{}, false
	}

	weights, sum := smoothWeights(entries, Smoothing)
	if sum <= 0 {
		return entries[0].Move, true
	}

	r := b.rng.Float64() * sum
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return entries[i].Move, true
		}
	}

	// Fallback to last entry
	return entries[len(entries)-1].Move, true
}

// smoothWeights moves every count toward the average by strength. The
// total is unchanged.
func smoothWeights(entries []Entry, strength float64) ([]float64, float64) {
	weights := make([]float64, len(entries))
	sum := 0.0
	for i, e := range entries {
		weights[i] = float64(e.Count)
		sum += weights[i]
	}
	avg := sum / float64(len(weights))
	for i := range weights {
		weights[i] += (avg - weights[i]) * strength
	}
	return weights, sum
}

// Keys returns the positions in the book in ascending key order.
func (b *Book) Keys() []uint64 {
	if b == nil {
		return nil
	}
	keys := make([]uint64, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
