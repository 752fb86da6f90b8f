package board

import "slices"

// ApplyMove plays m, which must be pseudo-legal in the current position.
// A probe is a speculative move that will be undone: it neither resets the
// fifty-move counter nor enters the repetition history.
func (b *Board) ApplyMove(m Move, probe bool) {
	z := b.zobrist
	us := b.sideToMove
	them := us.Other()
	mover := b.pieces[m.Mover]

	capSq := m.To
	if m.Kind == EnPassantMove {
		capSq = m.Captured
	}
	captured := b.cells[capSq].occupant

	rec := UndoRecord{
		Move:           m,
		From:           mover.sq,
		MoverKind:      mover.kind,
		MoverColor:     us,
		EnPassantMoves: slices.Clone(b.epMoves),
		HalfMove:       b.halfMove,
		EPFile:         b.epFile,
		FENEPFile:      b.fenEPFile,
		Castling:       b.castling,
		Key:            b.key,
		CapturedKind:   NoPieceType,
		MoverCastle:    mover.castle,
	}
	var capKind PieceType = NoPieceType
	if captured != NoPieceID {
		capKind = b.pieces[captured].kind
		rec.CapturedKind = capKind
		rec.CapturedCastle = b.pieces[captured].castle
	}
	b.undo = append(b.undo, rec)

	// Stale en-passant target.
	b.fenEPFile = 0
	b.key ^= z.enPassant[b.epFile]
	b.epFile = 0

	oldRights := b.castling
	if mover.castle {
		switch mover.kind {
		case King:
			b.castling &^= kingRights(us)
		case Rook:
			b.castling &^= rookRight(mover.sq)
		}
	}
	if captured != NoPieceID && capKind == Rook && rec.CapturedCastle {
		b.castling &^= rookRight(capSq)
	}
	if b.castling != oldRights {
		b.key ^= z.Castling(oldRights) ^ z.Castling(b.castling)
	}

	b.halfMove++

	b.epMoves = b.epMoves[:0]
	if mover.kind == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		b.registerEnPassant(us, m.From, m.To)
	}
	b.key ^= z.enPassant[b.epFile]

	switch m.Kind {
	case PromotionMove:
		if !isPromotionKind(m.Promo) {
			panic("board: unsupported promotion to " + m.Promo.String())
		}
		b.key ^= z.pieces[Pawn][us][m.From]
		b.setOccupant(m.From, NoPieceID)
		if captured != NoPieceID {
			b.key ^= z.pieces[capKind][them][m.To]
			b.setOccupant(m.To, NoPieceID)
			b.release(captured)
		}
		id := b.alloc(m.Promo, us, m.To, false)
		b.attach(id)
		b.setOccupant(m.To, id)
		b.key ^= z.pieces[m.Promo][us][m.To]

	default:
		b.key ^= z.pieces[mover.kind][us][m.From] ^ z.pieces[mover.kind][us][m.To]
		if captured != NoPieceID && m.Kind != EnPassantMove {
			b.key ^= z.pieces[capKind][them][m.To]
		}
		b.setOccupant(m.To, m.Mover)
		b.setOccupant(m.From, NoPieceID)
		b.moveTo(m.Mover, m.To)
		if captured != NoPieceID && m.Kind != EnPassantMove {
			b.release(captured)
		}

		switch m.Kind {
		case EnPassantMove:
			b.key ^= z.pieces[Pawn][them][m.Captured]
			b.setOccupant(m.Captured, NoPieceID)
			b.release(captured)
		case CastlingMove:
			b.key ^= z.pieces[Rook][us][m.RookFrom] ^ z.pieces[Rook][us][m.RookTo]
			b.setOccupant(m.RookTo, m.Rook)
			b.setOccupant(m.RookFrom, NoPieceID)
			b.moveTo(m.Rook, m.RookTo)
		}
	}

	b.key ^= z.black
	b.sideToMove = them
	if us == Black {
		b.fullMove++
	}

	if !probe {
		if mover.kind == Pawn || captured != NoPieceID {
			b.halfMove = 0
		}
		b.history[b.key]++
		b.undo[len(b.undo)-1].Recorded = true
	}
}

// registerEnPassant records the en-passant captures made possible by a
// double step of a pawn of color c from -> to.
func (b *Board) registerEnPassant(c Color, from, to Square) {
	b.fenEPFile = to.File() + 1
	target := NewSquare(to.File(), (from.Rank()+to.Rank())/2)
	for _, df := range [2]int{-1, 1} {
		adj, ok := to.Offset(df, 0)
		if !ok {
			continue
		}
		id := b.cells[adj].occupant
		if id == NoPieceID || b.pieces[id].kind != Pawn || b.pieces[id].color == c {
			continue
		}
		m := newMove(EnPassantMove, id, adj, target)
		m.Captured = to
		b.epMoves = append(b.epMoves, m)
		if b.epFile == 0 {
			b.epFile = to.File() + 1
		}
	}
}

// UndoMove takes back the last applied move. It panics when there is none.
func (b *Board) UndoMove() {
	n := len(b.undo)
	if n == 0 {
		panic("board: undo with empty history")
	}
	rec := b.undo[n-1]
	b.undo = b.undo[:n-1]
	m := rec.Move
	us := rec.MoverColor
	them := us.Other()

	if rec.Recorded {
		if b.history[b.key]--; b.history[b.key] <= 0 {
			delete(b.history, b.key)
		}
	}

	b.fenEPFile = rec.FENEPFile
	b.epFile = rec.EPFile
	b.halfMove = rec.HalfMove
	b.epMoves = rec.EnPassantMoves
	b.castling = rec.Castling
	b.key = rec.Key

	switch m.Kind {
	case EnPassantMove:
		b.setOccupant(rec.From, m.Mover)
		b.setOccupant(m.To, NoPieceID)
		b.moveTo(m.Mover, rec.From)
		id := b.alloc(Pawn, them, m.Captured, false)
		b.attach(id)
		b.setOccupant(m.Captured, id)

	default:
		if m.Kind == PromotionMove {
			promoted := b.cells[m.To].occupant
			b.setOccupant(m.To, NoPieceID)
			b.release(promoted)
		}
		if rec.CapturedKind != NoPieceType {
			id := b.alloc(rec.CapturedKind, them, m.To, rec.CapturedCastle)
			b.attach(id)
			b.setOccupant(m.To, id)
		} else if m.Kind != PromotionMove {
			b.setOccupant(m.To, NoPieceID)
		}
		b.moveToWithCastle(m.Mover, rec.From, rec.MoverCastle)
		b.setOccupant(rec.From, m.Mover)

		if m.Kind == CastlingMove {
			b.setOccupant(m.RookTo, NoPieceID)
			b.moveToWithCastle(m.Rook, m.RookFrom, true)
			b.setOccupant(m.RookFrom, m.Rook)
		}
	}

	b.sideToMove = us
	if us == Black {
		b.fullMove--
	}
}

func isPromotionKind(pt PieceType) bool {
	return pt == Knight || pt == Bishop || pt == Rook || pt == Queen
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
