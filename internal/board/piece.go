package board

import "slices"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// forward returns the rank direction pawns of this color advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// promotionKinds lists promotion targets in generation order.
var promotionKinds = [4]PieceType{Rook, Queen, Bishop, Knight}

// Piece combines PieceType and Color into a single value.
// Encoded as: pieceType + color*6
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn) + Piece(White)*6
	WhiteKnight Piece = Piece(Knight) + Piece(White)*6
	WhiteBishop Piece = Piece(Bishop) + Piece(White)*6
	WhiteRook   Piece = Piece(Rook) + Piece(White)*6
	WhiteQueen  Piece = Piece(Queen) + Piece(White)*6
	WhiteKing   Piece = Piece(King) + Piece(White)*6
	BlackPawn   Piece = Piece(Pawn) + Piece(Black)*6
	BlackKnight Piece = Piece(Knight) + Piece(Black)*6
	BlackBishop Piece = Piece(Bishop) + Piece(Black)*6
	BlackRook   Piece = Piece(Rook) + Piece(Black)*6
	BlackQueen  Piece = Piece(Queen) + Piece(Black)*6
	BlackKing   Piece = Piece(King) + Piece(Black)*6
	NoPiece     Piece = 12
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	chars := "PNBRQKpnbrqk"
	return string(chars[p])
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// PieceID identifies a piece in the board's arena. IDs are reused in LIFO
// order, so a piece captured and restored by undo gets its old ID back.
type PieceID int16

// NoPieceID marks an empty cell or an absent piece.
const NoPieceID PieceID = -1

// piece is an arena entry. Sliders keep their reachable squares split by
// ray so a change on one ray only rebuilds that ray.
type piece struct {
	kind      PieceType
	color     Color
	sq        Square
	castle    bool // king and rook only
	firstRank bool // pawn only

	reach    []Square
	rays     [][]Square
	rayMoves [][]Square
	moves    []Square
}

// alloc takes a slot from the free list, or grows the arena. The piece is
// neither placed nor subscribed.
func (b *Board) alloc(kind PieceType, c Color, sq Square, castle bool) PieceID {
	var id PieceID
	if n := len(b.free); n > 0 {
		id = b.free[n-1]
		b.free = b.free[:n-1]
	} else {
		id = PieceID(len(b.pieces))
		b.pieces = append(b.pieces, piece{})
	}

	p := &b.pieces[id]
	p.kind = kind
	p.color = c
	p.sq = sq
	p.castle = castle && (kind == King || kind == Rook)
	p.firstRank = kind == Pawn && isPawnStart(c, sq)
	p.reach = p.reach[:0]
	p.rays = p.rays[:0]
	p.rayMoves = p.rayMoves[:0]
	p.moves = p.moves[:0]
	return id
}

// release returns a slot to the free list.
func (b *Board) release(id PieceID) {
	b.free = append(b.free, id)
}

func isPawnStart(c Color, sq Square) bool {
	return (c == White && sq.Rank() == 1) || (c == Black && sq.Rank() == 6)
}

// attach subscribes the piece to its reachable cells and rebuilds its move
// list from scratch.
func (b *Board) attach(id PieceID) {
	b.computeReach(id)
	p := &b.pieces[id]
	for _, sq := range p.reach {
		b.cells[sq].subscribe(id)
	}
	b.recompute(id)
}

// detach stops the piece listening to any cell.
func (b *Board) detach(id PieceID) {
	p := &b.pieces[id]
	for _, sq := range p.reach {
		b.cells[sq].unsubscribe(id)
	}
	p.reach = p.reach[:0]
}

// moveTo relocates the piece's bookkeeping (not the cells) and clears its
// castle eligibility.
func (b *Board) moveTo(id PieceID, sq Square) {
	b.moveToWithCastle(id, sq, false)
}

// moveToWithCastle is moveTo with an explicit castle flag, used by undo.
func (b *Board) moveToWithCastle(id PieceID, sq Square, castle bool) {
	b.detach(id)
	p := &b.pieces[id]
	p.sq = sq
	p.castle = castle && (p.kind == King || p.kind == Rook)
	if p.kind == Pawn {
		p.firstRank = isPawnStart(p.color, sq)
	}
	b.attach(id)
}

// computeReach fills the reachable set, ignoring occupancy.
func (b *Board) computeReach(id PieceID) {
	p := &b.pieces[id]
	p.reach = p.reach[:0]
	switch p.kind {
	case Pawn:
		p.reach = pawnReach(p.reach, p.color, p.sq, p.firstRank)
	case Knight:
		p.reach = leaperReach(p.reach, p.sq, knightOffsets[:])
	case King:
		p.reach = leaperReach(p.reach, p.sq, kingOffsets[:])
	case Bishop, Rook, Queen:
		p.rays = sliderRays(p.rays, p.sq, sliderDirections(p.kind))
		for _, ray := range p.rays {
			p.reach = append(p.reach, ray...)
		}
	}
}

// recompute rebuilds the whole move list from the reachable set.
func (b *Board) recompute(id PieceID) {
	p := &b.pieces[id]
	switch p.kind {
	case Pawn:
		p.moves = p.moves[:0]
		b.pawnPushes(id)
		for _, sq := range p.reach {
			if sq.File() != p.sq.File() && b.isEnemy(sq, p.color) {
				p.moves = append(p.moves, sq)
			}
		}
	case Knight, King:
		p.moves = p.moves[:0]
		for _, sq := range p.reach {
			if !b.isFriend(sq, p.color) {
				p.moves = append(p.moves, sq)
			}
		}
	default:
		for len(p.rayMoves) < len(p.rays) {
			p.rayMoves = append(p.rayMoves, nil)
		}
		p.rayMoves = p.rayMoves[:len(p.rays)]
		for i := range p.rays {
			b.walkRay(id, i)
		}
		b.joinRays(id)
	}
}

// squareChanged is the notification handler: sq, one of the piece's
// reachable cells, went from oldColor to newColor.
func (b *Board) squareChanged(id PieceID, sq Square, oldColor, newColor Color) {
	p := &b.pieces[id]
	switch p.kind {
	case Pawn:
		if sq.File() == p.sq.File() {
			p.moves = slices.DeleteFunc(p.moves, func(s Square) bool { return s.File() == p.sq.File() })
			b.pawnPushes(id)
			return
		}
		if i := slices.Index(p.moves, sq); i >= 0 {
			p.moves = slices.Delete(p.moves, i, i+1)
		}
		if newColor != NoColor && newColor != p.color {
			p.moves = append(p.moves, sq)
		}
	case Knight, King:
		if i := slices.Index(p.moves, sq); i >= 0 {
			p.moves = slices.Delete(p.moves, i, i+1)
		}
		if newColor != p.color {
			p.moves = append(p.moves, sq)
		}
	default:
		for i, ray := range p.rays {
			if slices.Contains(ray, sq) {
				b.walkRay(id, i)
				b.joinRays(id)
				return
			}
		}
	}
}

func (b *Board) isEnemy(sq Square, c Color) bool {
	id := b.cells[sq].occupant
	return id != NoPieceID && b.pieces[id].color != c
}

func (b *Board) isFriend(sq Square, c Color) bool {
	id := b.cells[sq].occupant
	return id != NoPieceID && b.pieces[id].color == c
}
