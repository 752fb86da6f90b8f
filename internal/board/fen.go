package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a new board using the default Zobrist
// table. Fields may be separated by spaces or underscores.
func ParseFEN(fen string) (*Board, error) {
	return ParseFENWithZobrist(fen, DefaultZobrist())
}

// ParseFENWithZobrist is ParseFEN with an explicit Zobrist table.
func ParseFENWithZobrist(fen string, z *Zobrist) (*Board, error) {
	parts := strings.FieldsFunc(fen, func(r rune) bool { return r == ' ' || r == '_' })
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b := NewBoardWithZobrist(z)

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("invalid FEN: side to move %q", parts[1])
	}

	// Parse castling rights (field 2)
	rights, err := parseCastlingRights(parts[2])
	if err != nil {
		return nil, err
	}
	b.grantCastleFlags(rights)

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("invalid FEN: half-move clock %q", parts[4])
		}
		b.halfMove = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("invalid FEN: full-move number %q", parts[5])
		}
		b.fullMove = fmn
	}

	for c := White; c <= Black; c++ {
		if n := b.countKings(c); n != 1 {
			return nil, fmt.Errorf("invalid FEN: %s has %d kings", c, n)
		}
	}

	b.finishSetup()

	if them := b.sideToMove.Other(); b.attacked(b.kingSquare(them), b.sideToMove) {
		return nil, fmt.Errorf("invalid FEN: side not to move is in check")
	}

	// Parse en passant square (field 3). Registration needs the subscribed
	// board, and the key is recomputed afterwards.
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid FEN: en passant square %q", parts[3])
		}
		b.setEnPassantTarget(sq)
		b.key = z.FromScratch(b)
		clear(b.history)
		b.history[b.key] = 1
	}

	return b, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid FEN: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("invalid FEN: too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("invalid FEN: piece character %c", c)
			}
			if piece.Type() == Pawn && (rank == 0 || rank == 7) {
				return fmt.Errorf("invalid FEN: pawn on rank %d", rank+1)
			}
			b.place(piece.Type(), piece.Color(), NewSquare(file, rank), false)
			file++
		}

		if file != 8 {
			return fmt.Errorf("invalid FEN: %d squares in rank %d", file, rank+1)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(castling string) (CastlingRights, error) {
	if castling == "-" {
		return NoCastling, nil
	}

	var cr CastlingRights
	for _, c := range castling {
		switch c {
		case 'K':
			cr |= WhiteKingSideCastle
		case 'Q':
			cr |= WhiteQueenSideCastle
		case 'k':
			cr |= BlackKingSideCastle
		case 'q':
			cr |= BlackQueenSideCastle
		default:
			return 0, fmt.Errorf("invalid FEN: castling character %c", c)
		}
	}
	return cr, nil
}

// grantCastleFlags marks the kings and corner rooks named by cr as castle
// eligible. Rights whose pieces are missing are dropped by finishSetup.
func (b *Board) grantCastleFlags(cr CastlingRights) {
	grant := func(sq Square, kind PieceType, c Color) {
		id := b.cells[sq].occupant
		if id != NoPieceID && b.pieces[id].kind == kind && b.pieces[id].color == c {
			b.pieces[id].castle = true
		}
	}
	if cr&(WhiteKingSideCastle|WhiteQueenSideCastle) != 0 {
		grant(E1, King, White)
	}
	if cr&WhiteKingSideCastle != 0 {
		grant(H1, Rook, White)
	}
	if cr&WhiteQueenSideCastle != 0 {
		grant(A1, Rook, White)
	}
	if cr&(BlackKingSideCastle|BlackQueenSideCastle) != 0 {
		grant(E8, King, Black)
	}
	if cr&BlackKingSideCastle != 0 {
		grant(H8, Rook, Black)
	}
	if cr&BlackQueenSideCastle != 0 {
		grant(A8, Rook, Black)
	}
}

func (b *Board) countKings(c Color) int {
	n := 0
	for sq := A1; sq <= H8; sq++ {
		id := b.cells[sq].occupant
		if id != NoPieceID && b.pieces[id].kind == King && b.pieces[id].color == c {
			n++
		}
	}
	return n
}

// setEnPassantTarget registers en-passant captures for a FEN target square.
// The target is ignored when no pawn stands in front of it.
func (b *Board) setEnPassantTarget(target Square) {
	them := b.sideToMove.Other()
	dir := them.forward()
	to, ok := target.Offset(0, dir)
	if !ok {
		return
	}
	from, ok := target.Offset(0, -dir)
	if !ok {
		return
	}
	id := b.cells[to].occupant
	if id == NoPieceID || b.pieces[id].kind != Pawn || b.pieces[id].color != them {
		return
	}
	b.epMoves = b.epMoves[:0]
	b.registerEnPassant(them, from, to)
}

// FEN returns the standard space-separated FEN of the position.
func (b *Board) FEN() string {
	return b.fen(' ')
}

// TablebaseFEN returns the FEN with underscores between fields, the form
// used in tablebase query strings.
func (b *Board) TablebaseFEN() string {
	return b.fen('_')
}

func (b *Board) fen(sep byte) string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := b.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(sep)
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(sep)
	sb.WriteString(b.castling.String())

	// En passant
	sb.WriteByte(sep)
	sb.WriteString(b.fenEPSquare())

	// Half-move clock and full-move number
	sb.WriteByte(sep)
	sb.WriteString(strconv.Itoa(b.halfMove))
	sb.WriteByte(sep)
	sb.WriteString(strconv.Itoa(b.fullMove))

	return sb.String()
}

// fenEPSquare returns the square behind the last double-stepped pawn, or
// "-".
func (b *Board) fenEPSquare() string {
	if b.fenEPFile == 0 {
		return "-"
	}
	rank := 6
	if b.sideToMove == Black {
		rank = 3
	}
	return fmt.Sprintf("%c%d", 'a'+b.fenEPFile-1, rank)
}
