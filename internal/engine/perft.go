package engine

import (
	"slices"
	"strings"

	"github.com/hailam/chessengine/internal/board"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
// All moves are applied as probes.
func Perft(b *board.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var nodes uint64
	for _, m := range b.PseudolegalMoves() {
		if !b.IsLegal(m) {
			continue
		}
		b.ApplyMove(m, true)
		nodes += Perft(b, depth-1)
		b.UndoMove()
	}
	return nodes
}

// DivideEntry is the node count below one root move.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// Divide runs Perft below each legal root move, sorted by UCI string.
func Divide(b *board.Board, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}

	var entries []DivideEntry
	for _, m := range b.LegalMoves() {
		b.ApplyMove(m, true)
		entries = append(entries, DivideEntry{Move: m, Nodes: Perft(b, depth-1)})
		b.UndoMove()
	}
	slices.SortFunc(entries, func(x, y DivideEntry) int {
		return strings.Compare(x.Move.String(), y.Move.String())
	})
	return entries
}
