package board

import (
	"fmt"
	"strings"
)

// MoveKind tags the variant of a Move.
type MoveKind uint8

const (
	PlainMove MoveKind = iota
	CastlingMove
	EnPassantMove
	PromotionMove
)

func (k MoveKind) String() string {
	switch k {
	case CastlingMove:
		return "castling"
	case EnPassantMove:
		return "en passant"
	case PromotionMove:
		return "promotion"
	default:
		return "plain"
	}
}

// Move is a tagged move. The fields beyond Mover/From/To are only
// meaningful for their kind: Rook* for castling, Captured for en passant,
// Promo for promotion.
type Move struct {
	Kind  MoveKind
	Mover PieceID
	From  Square
	To    Square

	Rook     PieceID
	RookFrom Square
	RookTo   Square

	Captured Square
	Promo    PieceType
}

// NoMove is the zero value for "no move".
var NoMove = Move{
	Mover:    NoPieceID,
	From:     NoSquare,
	To:       NoSquare,
	Rook:     NoPieceID,
	RookFrom: NoSquare,
	RookTo:   NoSquare,
	Captured: NoSquare,
	Promo:    NoPieceType,
}

func newMove(kind MoveKind, mover PieceID, from, to Square) Move {
	m := NoMove
	m.Kind = kind
	m.Mover = mover
	m.From = from
	m.To = to
	return m
}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return m.Mover == NoPieceID
}

// Equal compares moves by kind, mover identity and destination. Promotions
// also compare the target kind.
func (m Move) Equal(o Move) bool {
	if m.Kind != o.Kind || m.Mover != o.Mover || m.To != o.To {
		return false
	}
	return m.Kind != PromotionMove || m.Promo == o.Promo
}

// String returns the move in UCI notation (e.g., "e2e4", "e7e8q").
// Castling is written as the king's move.
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Kind == PromotionMove {
		s += string(m.Promo.Char())
	}
	return s
}

// ParseMove parses a UCI move string and returns the matching legal move.
func (b *Board) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	if m, ok := b.FindLegalMove(from, to, promo); ok {
		return m, nil
	}
	return NoMove, fmt.Errorf("illegal move: %s", s)
}

// FindLegalMove returns the legal move from -> to. For promotions promo
// selects the target kind; NoPieceType picks a queen.
func (b *Board) FindLegalMove(from, to Square, promo PieceType) (Move, bool) {
	if promo == NoPieceType {
		promo = Queen
	}
	for _, m := range b.LegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.Kind == PromotionMove && m.Promo != promo {
			continue
		}
		return m, true
	}
	return NoMove, false
}
