package board

import (
	"fmt"
	"strings"
)

// SAN converts a legal move of the current position to Standard Algebraic
// Notation.
func (b *Board) SAN(m Move) string {
	if m.IsNone() {
		return "-"
	}

	var sb strings.Builder

	switch {
	case m.Kind == CastlingMove && m.To > m.From:
		sb.WriteString("O-O")
	case m.Kind == CastlingMove:
		sb.WriteString("O-O-O")
	default:
		pt := b.pieces[m.Mover].kind

		// Piece letter (not for pawns)
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(b.disambiguation(m, pt))
		}

		// Capture marker
		if b.isCapture(m) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.Kind == PromotionMove {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promo])
		}
	}

	// Check/checkmate marker
	b.ApplyMove(m, true)
	if b.IsInCheck() {
		if b.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	b.UndoMove()

	return sb.String()
}

func (b *Board) isCapture(m Move) bool {
	return m.Kind == EnPassantMove || b.cells[m.To].occupant != NoPieceID
}

// disambiguation returns the origin file, rank or square needed when
// another piece of the same type can reach the same square.
func (b *Board) disambiguation(m Move, pt PieceType) string {
	var candidates []Square
	for _, other := range b.LegalMoves() {
		if other.To != m.To || other.From == m.From || other.Kind == CastlingMove {
			continue
		}
		if b.pieces[other.Mover].kind == pt {
			candidates = append(candidates, other.From)
		}
	}

	// No ambiguity
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + m.From.File()))
	}
	if !sameRank {
		return string(rune('1' + m.From.Rank()))
	}
	return m.From.String()
}

// ParseSAN parses a SAN string and returns the matching legal move.
func (b *Board) ParseSAN(s string) (Move, error) {
	s = strings.TrimSpace(s)
	orig := s

	// Remove check/checkmate and annotation markers
	s = strings.TrimRight(s, "+#!?")

	legal := b.LegalMoves()

	// Handle castling
	switch s {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		kingSide := len(s) == 3
		for _, m := range legal {
			if m.Kind == CastlingMove && (m.To > m.From) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("illegal move: %s", orig)
	}

	// Parse promotion
	promo := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 && idx+1 < len(s) {
		switch s[idx+1] {
		case 'N':
			promo = Knight
		case 'B':
			promo = Bishop
		case 'R':
			promo = Rook
		case 'Q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece in %s", orig)
		}
		s = s[:idx]
	}

	// Remove capture marker
	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	// Determine piece type
	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NoMove, fmt.Errorf("invalid piece letter in %s", orig)
		}
		s = s[1:]
	}

	// Parse destination (last 2 characters)
	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid move: %s", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	// Parse disambiguation (file, rank, or both)
	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		if c >= 'a' && c <= 'h' {
			disambigFile = int(c - 'a')
		} else if c >= '1' && c <= '8' {
			disambigRank = int(c - '1')
		}
	}

	for _, m := range legal {
		if m.To != dest || m.Kind == CastlingMove {
			continue
		}
		if b.pieces[m.Mover].kind != pt {
			continue
		}
		if disambigFile >= 0 && m.From.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && m.From.Rank() != disambigRank {
			continue
		}
		if isCapture && !b.isCapture(m) {
			continue
		}
		if m.Kind == PromotionMove {
			want := promo
			if want == NoPieceType {
				want = Queen
			}
			if m.Promo != want {
				continue
			}
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("illegal move: %s", orig)
}
