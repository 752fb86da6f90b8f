package board

import (
	"fmt"
	"slices"
)

// PseudolegalMoves returns the moves of the side to move that obey piece
// movement and occupancy, without checking whether the own king is left in
// check.
func (b *Board) PseudolegalMoves() []Move {
	us := b.sideToMove
	moves := make([]Move, 0, 48)

	for sq := A1; sq <= H8; sq++ {
		id := b.cells[sq].occupant
		if id == NoPieceID || b.pieces[id].color != us {
			continue
		}
		p := &b.pieces[id]
		for _, to := range p.moves {
			if p.kind == Pawn && (to.Rank() == 0 || to.Rank() == 7) {
				for _, promo := range promotionKinds {
					m := newMove(PromotionMove, id, sq, to)
					m.Promo = promo
					moves = append(moves, m)
				}
				continue
			}
			moves = append(moves, newMove(PlainMove, id, sq, to))
		}
		if p.kind == King && p.castle {
			moves = b.appendCastling(moves, id)
		}
	}

	for _, m := range b.epMoves {
		if b.pieces[m.Mover].color == us {
			moves = append(moves, m)
		}
	}
	return moves
}

// appendCastling pairs a castle-eligible king with every castle-eligible
// rook of its color on the same rank that has only empty squares between.
func (b *Board) appendCastling(moves []Move, king PieceID) []Move {
	k := &b.pieces[king]
	rank := k.sq.Rank()
	kfile := k.sq.File()

	for file := 0; file < 8; file++ {
		rsq := NewSquare(file, rank)
		rook := b.cells[rsq].occupant
		if rook == NoPieceID {
			continue
		}
		r := &b.pieces[rook]
		if r.kind != Rook || r.color != k.color || !r.castle {
			continue
		}

		lo, hi := min(file, kfile), max(file, kfile)
		blocked := false
		for f := lo + 1; f < hi; f++ {
			if b.cells[NewSquare(f, rank)].occupant != NoPieceID {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		dir := 1
		if file < kfile {
			dir = -1
		}
		kingTo, ok := k.sq.Offset(2*dir, 0)
		if !ok {
			continue
		}
		rookTo, _ := k.sq.Offset(dir, 0)

		m := newMove(CastlingMove, king, k.sq, kingTo)
		m.Rook = rook
		m.RookFrom = rsq
		m.RookTo = rookTo
		moves = append(moves, m)
	}
	return moves
}

// IsLegal reports whether the pseudo-legal move m leaves the mover's king
// safe. Castling also requires the king not to start in, or pass through,
// an attacked square.
func (b *Board) IsLegal(m Move) bool {
	us := b.sideToMove
	them := us.Other()

	if m.Kind == CastlingMove && b.attacked(m.From, them) {
		return false
	}

	b.ApplyMove(m, true)
	defer b.UndoMove()

	if b.attacked(b.kingSquare(us), them) {
		return false
	}
	if m.Kind == CastlingMove && b.attacked(m.RookTo, them) {
		return false
	}
	return true
}

// LegalMoves returns the pseudo-legal moves that pass IsLegal, in
// generation order.
func (b *Board) LegalMoves() []Move {
	moves := b.PseudolegalMoves()
	return slices.DeleteFunc(moves, func(m Move) bool { return !b.IsLegal(m) })
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	for _, m := range b.PseudolegalMoves() {
		if b.IsLegal(m) {
			return true
		}
	}
	return false
}

// IsInCheck reports whether the side to move's king is attacked.
func (b *Board) IsInCheck() bool {
	us := b.sideToMove
	return b.attacked(b.kingSquare(us), us.Other())
}

// attacked scans the cached move lists of by's pieces. Pawns are tested
// by capture geometry since their cached lists hold pushes and only
// occupied diagonals.
func (b *Board) attacked(sq Square, by Color) bool {
	for from := A1; from <= H8; from++ {
		id := b.cells[from].occupant
		if id == NoPieceID {
			continue
		}
		p := &b.pieces[id]
		if p.color != by {
			continue
		}
		if p.kind == Pawn {
			if from.Rank()+by.forward() == sq.Rank() && abs(from.File()-sq.File()) == 1 {
				return true
			}
			continue
		}
		if slices.Contains(p.moves, sq) {
			return true
		}
	}
	return false
}

// kingSquare locates c's king. A missing king is a broken invariant.
func (b *Board) kingSquare(c Color) Square {
	for sq := A1; sq <= H8; sq++ {
		id := b.cells[sq].occupant
		if id != NoPieceID && b.pieces[id].kind == King && b.pieces[id].color == c {
			return sq
		}
	}
	panic(fmt.Sprintf("board: no %s king", c))
}
