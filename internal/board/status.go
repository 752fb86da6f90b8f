package board

// Status classifies the position for the side to move.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	ThreefoldRepetition
	InsufficientMaterial
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "draw by fifty-move rule"
	case ThreefoldRepetition:
		return "draw by threefold repetition"
	case InsufficientMaterial:
		return "draw by insufficient material"
	default:
		return "ongoing"
	}
}

// GameOver reports whether s ends the game.
func (s Status) GameOver() bool {
	return s != Ongoing
}

// Status returns the state of the game. Mate and stalemate take precedence
// over the draw rules.
func (b *Board) Status() Status {
	if !b.HasLegalMoves() {
		if b.IsInCheck() {
			return Checkmate
		}
		return Stalemate
	}
	switch {
	case b.IsFiftyMoveDraw():
		return FiftyMoveDraw
	case b.IsThreefoldRepetition():
		return ThreefoldRepetition
	case b.IsInsufficientMaterial():
		return InsufficientMaterial
	}
	return Ongoing
}

// IsCheckmate returns true if the position is checkmate.
func (b *Board) IsCheckmate() bool {
	return b.IsInCheck() && !b.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (b *Board) IsStalemate() bool {
	return !b.IsInCheck() && !b.HasLegalMoves()
}

// IsFiftyMoveDraw reports whether fifty moves passed without a pawn move or
// capture.
func (b *Board) IsFiftyMoveDraw() bool {
	return b.halfMove >= 100
}

// IsThreefoldRepetition reports whether the current position occurred at
// least three times in real play.
func (b *Board) IsThreefoldRepetition() bool {
	return b.history[b.key] >= 3
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (b *Board) IsInsufficientMaterial() bool {
	var minors [2]int
	for sq := A1; sq <= H8; sq++ {
		id := b.cells[sq].occupant
		if id == NoPieceID {
			continue
		}
		p := &b.pieces[id]
		switch p.kind {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[p.color]++
		}
	}

	// K vs K, K+minor vs K
	if minors[White]+minors[Black] == 0 {
		return true
	}
	if minors[White] <= 1 && minors[Black] == 0 {
		return true
	}
	return minors[Black] <= 1 && minors[White] == 0
}
