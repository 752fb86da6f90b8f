package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// rookRight returns the right tied to a rook on its home corner.
func rookRight(sq Square) CastlingRights {
	switch sq {
	case A1:
		return WhiteQueenSideCastle
	case H1:
		return WhiteKingSideCastle
	case A8:
		return BlackQueenSideCastle
	case H8:
		return BlackKingSideCastle
	}
	return NoCastling
}

func kingRights(c Color) CastlingRights {
	if c == White {
		return WhiteKingSideCastle | WhiteQueenSideCastle
	}
	return BlackKingSideCastle | BlackQueenSideCastle
}

// UndoRecord is everything ApplyMove cannot otherwise reverse.
type UndoRecord struct {
	Move       Move
	From       Square
	MoverKind  PieceType
	MoverColor Color

	EnPassantMoves []Move
	HalfMove       int
	EPFile         int
	FENEPFile      int
	Castling       CastlingRights
	Key            uint64

	CapturedKind   PieceType // NoPieceType when nothing was captured
	CapturedCastle bool
	MoverCastle    bool

	// Recorded is set when the move counted towards repetition history.
	Recorded bool
}

// Board is one chess position plus the history needed to take moves back.
// A Board is not safe for concurrent use.
type Board struct {
	cells  [64]cell
	pieces []piece
	free   []PieceID

	sideToMove Color
	castling   CastlingRights
	epFile     int // hash form: set only when a capture is possible
	fenEPFile  int // FEN form: set after every double step
	epMoves    []Move
	halfMove   int
	fullMove   int

	zobrist *Zobrist
	key     uint64
	history map[uint64]int
	undo    []UndoRecord
}

// NewBoard returns an empty board with white to move, hashed with the
// default Zobrist table.
func NewBoard() *Board {
	return NewBoardWithZobrist(DefaultZobrist())
}

// NewBoardWithZobrist returns an empty board hashed with z.
func NewBoardWithZobrist(z *Zobrist) *Board {
	b := &Board{
		sideToMove: White,
		fullMove:   1,
		zobrist:    z,
		history:    make(map[uint64]int),
		pieces:     make([]piece, 0, 32),
	}
	for i := range b.cells {
		b.cells[i].occupant = NoPieceID
	}
	b.key = z.FromScratch(b)
	return b
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartPosition returns the standard initial position.
func StartPosition() *Board {
	return StartPositionWithZobrist(DefaultZobrist())
}

// StartPositionWithZobrist returns the initial position hashed with z.
func StartPositionWithZobrist(z *Zobrist) *Board {
	b := NewBoardWithZobrist(z)
	for file := 0; file < 8; file++ {
		b.place(backRank[file], White, NewSquare(file, 0), true)
		b.place(Pawn, White, NewSquare(file, 1), false)
		b.place(Pawn, Black, NewSquare(file, 6), false)
		b.place(backRank[file], Black, NewSquare(file, 7), true)
	}
	b.finishSetup()
	return b
}

// place puts a piece on an empty cell without notifications. finishSetup
// must run before the board is used.
func (b *Board) place(kind PieceType, c Color, sq Square, castle bool) PieceID {
	id := b.alloc(kind, c, sq, castle)
	b.cells[sq].occupant = id
	return id
}

// finishSetup subscribes every placed piece and derives rights and key.
func (b *Board) finishSetup() {
	for sq := A1; sq <= H8; sq++ {
		if id := b.cells[sq].occupant; id != NoPieceID {
			b.attach(id)
		}
	}
	b.castling = b.castlingFromFlags()
	b.key = b.zobrist.FromScratch(b)
	clear(b.history)
	b.history[b.key] = 1
}

// AddPiece puts a new piece on sq, replacing any occupant. Castling rights
// and the key are recomputed from the resulting layout.
func (b *Board) AddPiece(kind PieceType, c Color, sq Square, castle bool) PieceID {
	if kind >= NoPieceType || c >= NoColor || !sq.IsValid() {
		panic(fmt.Sprintf("board: invalid piece %v %v on %v", c, kind, sq))
	}
	old := b.cells[sq].occupant
	id := b.alloc(kind, c, sq, castle)
	b.attach(id)
	b.setOccupant(sq, id)
	if old != NoPieceID {
		b.release(old)
	}
	b.castling = b.castlingFromFlags()
	b.key = b.zobrist.FromScratch(b)
	return id
}

// castlingFromFlags derives rights from castle-eligible kings and rooks on
// their home squares.
func (b *Board) castlingFromFlags() CastlingRights {
	var cr CastlingRights
	eligible := func(sq Square, kind PieceType, c Color) bool {
		id := b.cells[sq].occupant
		if id == NoPieceID {
			return false
		}
		p := &b.pieces[id]
		return p.kind == kind && p.color == c && p.castle
	}
	if eligible(E1, King, White) {
		if eligible(H1, Rook, White) {
			cr |= WhiteKingSideCastle
		}
		if eligible(A1, Rook, White) {
			cr |= WhiteQueenSideCastle
		}
	}
	if eligible(E8, King, Black) {
		if eligible(H8, Rook, Black) {
			cr |= BlackKingSideCastle
		}
		if eligible(A8, Rook, Black) {
			cr |= BlackQueenSideCastle
		}
	}
	return cr
}

// SideToMove returns the color to move.
func (b *Board) SideToMove() Color { return b.sideToMove }

// Castling returns the current castling rights.
func (b *Board) Castling() CastlingRights { return b.castling }

// EnPassantFile returns the hash-form en-passant file: 0 when no capture is
// possible, else 1-8.
func (b *Board) EnPassantFile() int { return b.epFile }

// HalfMoveClock returns the fifty-move counter.
func (b *Board) HalfMoveClock() int { return b.halfMove }

// FullMoveNumber returns the full-move counter, starting at 1.
func (b *Board) FullMoveNumber() int { return b.fullMove }

// Key returns the running Zobrist key.
func (b *Board) Key() uint64 { return b.key }

// Zobrist returns the table the board hashes with.
func (b *Board) Zobrist() *Zobrist { return b.zobrist }

// Repetitions returns how often key occurred in real (non-probe) play.
func (b *Board) Repetitions(key uint64) int { return b.history[key] }

// History returns the undo records, oldest first. The slice must not be
// modified.
func (b *Board) History() []UndoRecord { return b.undo }

// PieceAt returns the piece on sq, or NoPiece.
func (b *Board) PieceAt(sq Square) Piece {
	id := b.cells[sq].occupant
	if id == NoPieceID {
		return NoPiece
	}
	return NewPiece(b.pieces[id].kind, b.pieces[id].color)
}

// PieceIDAt returns the identity of the piece on sq, or NoPieceID.
func (b *Board) PieceIDAt(sq Square) PieceID { return b.cells[sq].occupant }

// Kind returns the type of piece id.
func (b *Board) Kind(id PieceID) PieceType { return b.pieces[id].kind }

// ColorOf returns the color of piece id.
func (b *Board) ColorOf(id PieceID) Color { return b.pieces[id].color }

// SquareOf returns the square of piece id.
func (b *Board) SquareOf(id PieceID) Square { return b.pieces[id].sq }

// CanCastle reports the castle eligibility of a king or rook.
func (b *Board) CanCastle(id PieceID) bool { return b.pieces[id].castle }

// PieceMoves returns a copy of the cached pseudo-legal destinations of id.
func (b *Board) PieceMoves(id PieceID) []Square {
	return append([]Square(nil), b.pieces[id].moves...)
}

// PieceCount returns the number of pieces on the board.
func (b *Board) PieceCount() int {
	n := 0
	for sq := A1; sq <= H8; sq++ {
		if b.cells[sq].occupant != NoPieceID {
			n++
		}
	}
	return n
}

// String returns an ASCII diagram of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := b.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.fenEPSquare())
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.halfMove)
	fmt.Fprintf(&sb, "Full move: %d\n", b.fullMove)
	fmt.Fprintf(&sb, "Hash: %016x\n", b.key)
	return sb.String()
}
