package board

// DefaultZobristSeed seeds the table shared by boards built without an
// explicit Zobrist.
const DefaultZobristSeed uint64 = 0x98F107A2BEEF1234

// Zobrist holds the random keys for position hashing. A table is read-only
// after construction and may be shared between boards and goroutines.
type Zobrist struct {
	pieces    [6][2][64]uint64 // [PieceType][Color][Square]
	castling  [16]uint64       // indexed by CastlingRights
	enPassant [9]uint64        // 0 for none, else file+1
	black     uint64           // XOR when black to move
}

var defaultZobrist = NewZobrist(DefaultZobristSeed)

// DefaultZobrist returns the table built from DefaultZobristSeed.
func DefaultZobrist() *Zobrist {
	return defaultZobrist
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = DefaultZobristSeed
	}
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// NewZobrist generates a table from seed. Equal seeds give identical tables.
func NewZobrist(seed uint64) *Zobrist {
	rng := newPRNG(seed)
	z := &Zobrist{}

	for pt := Pawn; pt <= King; pt++ {
		for c := White; c <= Black; c++ {
			for sq := A1; sq <= H8; sq++ {
				z.pieces[pt][c][sq] = rng.next()
			}
		}
	}
	for i := range z.castling {
		z.castling[i] = rng.next()
	}
	for i := range z.enPassant {
		z.enPassant[i] = rng.next()
	}
	z.black = rng.next()

	return z
}

// Piece returns the key for a piece on a square.
func (z *Zobrist) Piece(pt PieceType, c Color, sq Square) uint64 {
	return z.pieces[pt][c][sq]
}

// Castling returns the key for a castling-rights vector.
func (z *Zobrist) Castling(cr CastlingRights) uint64 {
	return z.castling[cr&AllCastling]
}

// EnPassant returns the key for an en-passant file (0 = none, 1-8).
func (z *Zobrist) EnPassant(file int) uint64 {
	return z.enPassant[file]
}

// BlackToMove returns the side-to-move key.
func (z *Zobrist) BlackToMove() uint64 {
	return z.black
}

// FromScratch computes the key of b without using its running key. The
// en-passant term is always present, index 0 when no capture is possible.
func (z *Zobrist) FromScratch(b *Board) uint64 {
	var key uint64
	for sq := A1; sq <= H8; sq++ {
		id := b.cells[sq].occupant
		if id == NoPieceID {
			continue
		}
		p := &b.pieces[id]
		key ^= z.pieces[p.kind][p.color][sq]
	}
	key ^= z.Castling(b.castling)
	key ^= z.enPassant[b.epFile]
	if b.sideToMove == Black {
		key ^= z.black
	}
	return key
}
