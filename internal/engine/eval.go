package engine

import (
	"slices"

	"github.com/hailam/chessengine/internal/board"
)

// Material values in centipawns, indexed by piece type.
var pieceValues = [6]int{
	board.Pawn:   100,
	board.Knight: 325,
	board.Bishop: 325,
	board.Rook:   525,
	board.Queen:  1000,
	board.King:   0,
}

// Piece-square tables from white's point of view, rank 8 first.
// Black reads them with the rank flipped.
var pst = [6][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	// Middlegame table; there is no endgame switch.
	board.King: {
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	},
}

// Opening development heuristic.
const (
	openingMoves  = 8  // applies while the full-move number is at most this
	repeatPenalty = 20 // per move of an already moved piece
	queenPenalty  = 20 // per queen move
)

func pstIndex(c board.Color, sq board.Square) int {
	if c == board.White {
		return 8*(7-sq.Rank()) + sq.File()
	}
	return 8*sq.Rank() + sq.File()
}

// Evaluate returns the static score of the position from side's point of
// view: material plus piece-square bonuses, minus the opening penalty.
func Evaluate(b *board.Board, side board.Color) int {
	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		p := b.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		pt := p.Type()
		v := pieceValues[pt] + pst[pt][pstIndex(p.Color(), sq)]
		if p.Color() == side {
			score += v
		} else {
			score -= v
		}
	}

	if b.FullMoveNumber() <= openingMoves {
		score -= openingPenalty(b.History(), side)
	}
	return score
}

// openingPenalty walks the undo history, search probes included, and
// charges side for moving a piece it already moved and for every queen
// move. Pieces are told apart by identity.
func openingPenalty(history []board.UndoRecord, side board.Color) int {
	penalty := 0
	moved := make([]board.PieceID, 0, 16)
	for _, rec := range history {
		if rec.MoverColor != side {
			continue
		}
		if slices.Contains(moved, rec.Move.Mover) {
			penalty += repeatPenalty
		} else {
			moved = append(moved, rec.Move.Mover)
		}
		if rec.MoverKind == board.Queen {
			penalty += queenPenalty
		}
	}
	return penalty
}
