package engine

import (
	"math"

	"github.com/hailam/chessengine/internal/board"
)

// Search constants
const (
	// MateScore is the score for mating at the root. A mate found n plies
	// down scores MateScore-n, so faster mates are preferred.
	MateScore = 100_000

	// DefaultDepth is the fixed search depth in plies.
	DefaultDepth = 4
)

// Searcher performs a fixed-depth alpha-beta search. Moves are tried in
// generation order and applied as probes, so the game's repetition history
// and fifty-move counter are left alone.
type Searcher struct {
	board *board.Board
	side  board.Color // the maximizing side
	best  board.Move
	nodes uint64
}

// NewSearcher creates a searcher over b.
func NewSearcher(b *board.Board) *Searcher {
	return &Searcher{board: b, best: board.NoMove}
}

// Nodes returns the number of moves played by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search returns the best move for the side to move and its score from that
// side's point of view. The move is NoMove when there is no legal move or
// depth is zero.
func (s *Searcher) Search(depth int) (board.Move, int) {
	s.side = s.board.SideToMove()
	s.best = board.NoMove
	s.nodes = 0

	score := s.alphaBeta(depth, 0, math.MinInt32, math.MaxInt32, true)
	return s.best, score
}

func (s *Searcher) alphaBeta(depth, ply, alpha, beta int, maximizing bool) int {
	if depth == 0 {
		return Evaluate(s.board, s.side)
	}

	b := s.board
	noMoves := true
	for _, m := range b.PseudolegalMoves() {
		if !b.IsLegal(m) {
			continue
		}
		noMoves = false
		s.nodes++

		b.ApplyMove(m, true)
		score := s.alphaBeta(depth-1, ply+1, alpha, beta, !maximizing)
		b.UndoMove()

		if maximizing {
			if score > alpha {
				alpha = score
				if ply == 0 {
					s.best = m
				}
			}
		} else if score < beta {
			beta = score
		}

		if alpha >= beta {
			break
		}
	}

	if noMoves {
		if !b.IsInCheck() {
			return 0 // stalemate
		}
		if maximizing {
			return ply - MateScore
		}
		return MateScore - ply
	}

	if maximizing {
		return alpha
	}
	return beta
}
