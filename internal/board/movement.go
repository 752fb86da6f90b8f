package board

type offset struct{ df, dr int }

var knightOffsets = [8]offset{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8]offset{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

var (
	rookDirections   = []offset{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	bishopDirections = []offset{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	queenDirections  = append(append([]offset{}, rookDirections...), bishopDirections...)
)

func sliderDirections(pt PieceType) []offset {
	switch pt {
	case Rook:
		return rookDirections
	case Bishop:
		return bishopDirections
	default:
		return queenDirections
	}
}

// pawnReach appends forward one, forward two from the starting rank, and
// both capture diagonals.
func pawnReach(dst []Square, c Color, sq Square, firstRank bool) []Square {
	dir := c.forward()
	if to, ok := sq.Offset(0, dir); ok {
		dst = append(dst, to)
	}
	if firstRank {
		if to, ok := sq.Offset(0, 2*dir); ok {
			dst = append(dst, to)
		}
	}
	for _, df := range [2]int{-1, 1} {
		if to, ok := sq.Offset(df, dir); ok {
			dst = append(dst, to)
		}
	}
	return dst
}

func leaperReach(dst []Square, sq Square, offsets []offset) []Square {
	for _, o := range offsets {
		if to, ok := sq.Offset(o.df, o.dr); ok {
			dst = append(dst, to)
		}
	}
	return dst
}

// sliderRays walks each direction to the board edge. Inner slices of dst
// are reused.
func sliderRays(dst [][]Square, sq Square, dirs []offset) [][]Square {
	for len(dst) < len(dirs) {
		dst = append(dst, nil)
	}
	dst = dst[:len(dirs)]
	for i, d := range dirs {
		ray := dst[i][:0]
		for to, ok := sq.Offset(d.df, d.dr); ok; to, ok = to.Offset(d.df, d.dr) {
			ray = append(ray, to)
		}
		dst[i] = ray
	}
	return dst
}

// pawnPushes appends the pawn's forward moves given current occupancy.
func (b *Board) pawnPushes(id PieceID) {
	p := &b.pieces[id]
	dir := p.color.forward()
	one, ok := p.sq.Offset(0, dir)
	if !ok || b.cells[one].occupant != NoPieceID {
		return
	}
	p.moves = append(p.moves, one)
	if !p.firstRank {
		return
	}
	if two, ok := p.sq.Offset(0, 2*dir); ok && b.cells[two].occupant == NoPieceID {
		p.moves = append(p.moves, two)
	}
}

// walkRay rebuilds the move cache of ray i: empty squares up to the first
// occupied one, which is included when it holds an enemy.
func (b *Board) walkRay(id PieceID, i int) {
	p := &b.pieces[id]
	moves := p.rayMoves[i][:0]
	for _, sq := range p.rays[i] {
		occ := b.cells[sq].occupant
		if occ == NoPieceID {
			moves = append(moves, sq)
			continue
		}
		if b.pieces[occ].color != p.color {
			moves = append(moves, sq)
		}
		break
	}
	p.rayMoves[i] = moves
}

// joinRays rebuilds the exported move list from the per-ray caches.
func (b *Board) joinRays(id PieceID) {
	p := &b.pieces[id]
	p.moves = p.moves[:0]
	for _, ray := range p.rayMoves {
		p.moves = append(p.moves, ray...)
	}
}
