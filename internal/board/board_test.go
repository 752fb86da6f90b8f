package board

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

var testPositions = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
}

// snapshot renders everything undo must restore, including piece identities.
func snapshot(b *Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s key=%016x ep=%d\n", b.FEN(), b.key, b.epFile)

	ep := make([]string, 0, len(b.epMoves))
	for _, m := range b.epMoves {
		ep = append(ep, fmt.Sprintf("%s#%d", m, m.Mover))
	}
	slices.Sort(ep)
	fmt.Fprintf(&sb, "epMoves=%v\n", ep)

	for sq := A1; sq <= H8; sq++ {
		id := b.cells[sq].occupant
		if id == NoPieceID {
			continue
		}
		p := &b.pieces[id]
		moves := slices.Clone(p.moves)
		slices.Sort(moves)
		fmt.Fprintf(&sb, "%s #%d %s castle=%v %v\n", sq, id, NewPiece(p.kind, p.color), p.castle, moves)
	}

	for _, k := range slices.Sorted(maps.Keys(b.history)) {
		fmt.Fprintf(&sb, "h %016x=%d\n", k, b.history[k])
	}
	return sb.String()
}

// moveCache renders the cached destinations of every piece, by square.
func moveCache(b *Board) string {
	var sb strings.Builder
	for sq := A1; sq <= H8; sq++ {
		id := b.PieceIDAt(sq)
		if id == NoPieceID {
			continue
		}
		moves := b.PieceMoves(id)
		slices.Sort(moves)
		fmt.Fprintf(&sb, "%s %s %v\n", sq, b.PieceAt(sq), moves)
	}
	return sb.String()
}

func legalStrings(b *Board) []string {
	var out []string
	for _, m := range b.LegalMoves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func mustParse(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func mustMove(t *testing.T, b *Board, uci string) Move {
	t.Helper()
	m, err := b.ParseMove(uci)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v\n%s", uci, err, b)
	}
	return m
}

func play(t *testing.T, b *Board, moves ...string) {
	t.Helper()
	for _, s := range moves {
		b.ApplyMove(mustMove(t, b, s), false)
	}
}

// keyWalk probes every line to depth and checks the running key against a
// full recomputation at each node.
func keyWalk(t *testing.T, b *Board, depth int) {
	t.Helper()
	if got, want := b.Key(), b.Zobrist().FromScratch(b); got != want {
		t.Fatalf("running key %016x, from scratch %016x\n%s", got, want, b)
	}
	if depth == 0 {
		return
	}
	for _, m := range b.LegalMoves() {
		b.ApplyMove(m, true)
		keyWalk(t, b, depth-1)
		b.UndoMove()
	}
}

func TestZobristIncremental(t *testing.T) {
	for _, fen := range testPositions {
		t.Run(fen, func(t *testing.T) {
			keyWalk(t, mustParse(t, fen), 2)
		})
	}
}

func TestRandomGamesKeepCachesConsistent(t *testing.T) {
	for seed := uint64(1); seed <= 8; seed++ {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*7919))
			b := StartPosition()
			start := snapshot(b)

			plies := 0
			for ; plies < 120; plies++ {
				legal := b.LegalMoves()
				if len(legal) == 0 {
					break
				}
				b.ApplyMove(legal[rng.IntN(len(legal))], false)

				if got, want := b.Key(), b.Zobrist().FromScratch(b); got != want {
					t.Fatalf("ply %d: running key %016x, from scratch %016x", plies, got, want)
				}

				fresh := mustParse(t, b.FEN())
				if got, want := moveCache(b), moveCache(fresh); got != want {
					t.Fatalf("ply %d: incremental cache differs from rebuild\ngot:\n%s\nwant:\n%s", plies, got, want)
				}
				if got, want := legalStrings(b), legalStrings(fresh); !slices.Equal(got, want) {
					t.Fatalf("ply %d: legal moves %v, rebuilt %v", plies, got, want)
				}
				if b.Key() != fresh.Key() {
					t.Fatalf("ply %d: key %016x, rebuilt %016x", plies, b.Key(), fresh.Key())
				}
			}

			for range plies {
				b.UndoMove()
			}
			if got := snapshot(b); got != start {
				t.Errorf("undoing the game did not restore the start\ngot:\n%s\nwant:\n%s", got, start)
			}
		})
	}
}

func TestUndoRestoresPosition(t *testing.T) {
	for _, fen := range testPositions {
		t.Run(fen, func(t *testing.T) {
			b := mustParse(t, fen)
			before := snapshot(b)
			for _, m := range b.LegalMoves() {
				for _, probe := range []bool{true, false} {
					b.ApplyMove(m, probe)
					b.UndoMove()
					if got := snapshot(b); got != before {
						t.Fatalf("%s (probe=%v) not undone\ngot:\n%s\nwant:\n%s", m, probe, got, before)
					}
				}
			}
		})
	}
}

func TestUndoEmptyHistoryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	StartPosition().UndoMove()
}

func TestDoubleStepWithoutCapture(t *testing.T) {
	b := StartPosition()
	play(t, b, "e2e4")

	if b.EnPassantFile() != 0 {
		t.Errorf("EnPassantFile() = %d, want 0 with no adjacent pawn", b.EnPassantFile())
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := b.FEN(); got != want {
		t.Errorf("FEN() = %q, want %q", got, want)
	}
}

func TestEnPassantWindow(t *testing.T) {
	b := mustParse(t, "rnbqkbnr/pppppppp/8/4P3/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2")
	play(t, b, "d7d5")

	if b.EnPassantFile() != 4 {
		t.Fatalf("EnPassantFile() = %d, want 4", b.EnPassantFile())
	}
	victim := b.PieceIDAt(D5)
	m := mustMove(t, b, "e5d6")
	if m.Kind != EnPassantMove || m.Captured != D5 {
		t.Fatalf("e5d6 = %+v, want en passant capturing d5", m)
	}

	b.ApplyMove(m, false)
	if b.PieceAt(D5) != NoPiece || b.PieceAt(D6) != WhitePawn {
		t.Errorf("after exd6: d5=%v d6=%v", b.PieceAt(D5), b.PieceAt(D6))
	}
	if b.HalfMoveClock() != 0 {
		t.Errorf("HalfMoveClock() = %d after capture", b.HalfMoveClock())
	}
	b.UndoMove()
	if b.PieceIDAt(D5) != victim || b.PieceAt(D5) != BlackPawn {
		t.Errorf("undo restored d5 as #%d %v, want #%d", b.PieceIDAt(D5), b.PieceAt(D5), victim)
	}

	// The window closes after one move.
	play(t, b, "g1f3", "h7h6")
	for _, m := range b.LegalMoves() {
		if m.Kind == EnPassantMove {
			t.Errorf("en passant %s still offered", m)
		}
	}
	if b.EnPassantFile() != 0 {
		t.Errorf("EnPassantFile() = %d, want 0", b.EnPassantFile())
	}
}

func TestEnPassantExposingKing(t *testing.T) {
	// Capturing e.p. would clear the fifth rank between the rook and king.
	b := mustParse(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	for _, m := range b.LegalMoves() {
		if m.Kind == EnPassantMove {
			t.Errorf("illegal en passant %s offered", m)
		}
	}
	if b.EnPassantFile() != 4 {
		t.Errorf("EnPassantFile() = %d, want 4", b.EnPassantFile())
	}
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		legal []string
		not   []string
	}{
		{"both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"e1g1", "e1c1"}, nil},
		{"step-over attacked", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", []string{"e1c1"}, []string{"e1g1"}},
		{"destination attacked", "r3k2r/8/8/8/8/8/6r1/R3K2R w KQkq - 0 1", []string{"e1c1"}, []string{"e1g1"}},
		{"out of check", "4r1k1/8/8/8/8/8/8/R3K2R w KQ - 0 1", nil, []string{"e1g1", "e1c1"}},
		{"blocked", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", []string{"e1g1"}, []string{"e1c1"}},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", nil, []string{"e1g1", "e1c1"}},
		{"black", "r3k2r/8/8/8/8/8/8/R3K2R b kq - 0 1", []string{"e8g8", "e8c8"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			legal := legalStrings(b)
			for _, s := range tc.legal {
				if !slices.Contains(legal, s) {
					t.Errorf("%s not legal, got %v", s, legal)
				}
			}
			for _, s := range tc.not {
				if slices.Contains(legal, s) {
					t.Errorf("%s should be illegal", s)
				}
			}
		})
	}
}

func TestCastlingApplyAndUndo(t *testing.T) {
	b := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	before := snapshot(b)
	rook := b.PieceIDAt(H1)

	m := mustMove(t, b, "e1g1")
	if m.Kind != CastlingMove || m.Rook != rook || m.RookTo != F1 {
		t.Fatalf("e1g1 = %+v", m)
	}
	b.ApplyMove(m, false)

	if b.PieceAt(G1) != WhiteKing || b.PieceIDAt(F1) != rook {
		t.Errorf("after O-O: g1=%v f1=#%d", b.PieceAt(G1), b.PieceIDAt(F1))
	}
	if got := b.Castling().String(); got != "kq" {
		t.Errorf("Castling() = %s, want kq", got)
	}
	if b.CanCastle(rook) {
		t.Error("castled rook still castle eligible")
	}

	b.UndoMove()
	if got := snapshot(b); got != before {
		t.Errorf("undo O-O\ngot:\n%s\nwant:\n%s", got, before)
	}
}

func TestRookCaptureClearsRights(t *testing.T) {
	b := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	play(t, b, "a1a8")
	if got := b.Castling().String(); got != "Kk" {
		t.Errorf("Castling() = %s, want Kk", got)
	}
	if got, want := b.Key(), b.Zobrist().FromScratch(b); got != want {
		t.Errorf("key %016x, want %016x", got, want)
	}
	b.UndoMove()
	if got := b.Castling(); got != AllCastling {
		t.Errorf("Castling() after undo = %s", got)
	}
}

func TestPromotion(t *testing.T) {
	b := mustParse(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")

	var kinds []PieceType
	for _, m := range b.LegalMoves() {
		if m.Kind == PromotionMove {
			kinds = append(kinds, m.Promo)
		}
	}
	slices.Sort(kinds)
	if want := []PieceType{Knight, Bishop, Rook, Queen}; !slices.Equal(kinds, want) {
		t.Fatalf("promotion kinds %v, want %v", kinds, want)
	}

	pawn := b.PieceIDAt(A7)
	b.ApplyMove(mustMove(t, b, "a7a8q"), false)
	if b.PieceAt(A8) != WhiteQueen || b.PieceAt(A7) != NoPiece {
		t.Errorf("after a8=Q: a8=%v a7=%v", b.PieceAt(A8), b.PieceAt(A7))
	}
	if b.PieceIDAt(A8) == pawn {
		t.Error("promoted piece reused the pawn's identity")
	}
	if !b.IsInCheck() {
		t.Error("queen on a8 should check the a1 king")
	}
	if got, want := b.Key(), b.Zobrist().FromScratch(b); got != want {
		t.Errorf("key %016x, want %016x", got, want)
	}

	b.UndoMove()
	if b.PieceIDAt(A7) != pawn || b.PieceAt(A7) != WhitePawn || b.PieceAt(A8) != NoPiece {
		t.Errorf("undo: a7=#%d %v a8=%v", b.PieceIDAt(A7), b.PieceAt(A7), b.PieceAt(A8))
	}
}

func TestUnsupportedPromotionPanics(t *testing.T) {
	b := mustParse(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	m := mustMove(t, b, "a7a8q")
	m.Promo = King

	defer func() {
		if recover() == nil {
			t.Error("expected panic for promotion to king")
		}
	}()
	b.ApplyMove(m, true)
}

func TestCaptureRestoresIdentity(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		sq   Square
	}{
		{"plain", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", D5},
		{"promotion", "1r6/P7/8/8/8/8/8/k6K w - - 0 1", "a7b8q", B8},
		{"underpromotion", "1r6/P7/8/8/8/8/8/k6K w - - 0 1", "a7b8n", B8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			victim := b.PieceIDAt(tc.sq)
			kind := b.Kind(victim)
			before := snapshot(b)

			b.ApplyMove(mustMove(t, b, tc.move), false)
			b.UndoMove()

			if b.PieceIDAt(tc.sq) != victim || b.Kind(victim) != kind {
				t.Errorf("restored #%d, want #%d", b.PieceIDAt(tc.sq), victim)
			}
			if got := snapshot(b); got != before {
				t.Errorf("undo\ngot:\n%s\nwant:\n%s", got, before)
			}
		})
	}
}

func TestRepetition(t *testing.T) {
	b := StartPosition()
	start := b.Key()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	play(t, b, shuffle...)
	if got := b.Repetitions(start); got != 2 {
		t.Fatalf("Repetitions() = %d, want 2", got)
	}
	if b.IsThreefoldRepetition() {
		t.Fatal("threefold after two occurrences")
	}

	play(t, b, shuffle...)
	if !b.IsThreefoldRepetition() {
		t.Fatal("expected threefold repetition")
	}
	if got := b.Status(); got != ThreefoldRepetition {
		t.Errorf("Status() = %v, want %v", got, ThreefoldRepetition)
	}

	b.UndoMove()
	if got := b.Repetitions(start); got != 2 {
		t.Errorf("Repetitions() after undo = %d, want 2", got)
	}
}

func TestProbeDoesNotRecord(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 10 1")

	b.ApplyMove(mustMove(t, b, "e2e4"), true)
	if got := b.Repetitions(b.Key()); got != 0 {
		t.Errorf("probe recorded %d repetitions", got)
	}
	if got := b.HalfMoveClock(); got != 11 {
		t.Errorf("probe HalfMoveClock() = %d, want 11", got)
	}
	if b.History()[0].Recorded {
		t.Error("probe undo record marked as recorded")
	}
	b.UndoMove()
	if got := b.HalfMoveClock(); got != 10 {
		t.Errorf("HalfMoveClock() after undo = %d, want 10", got)
	}

	b.ApplyMove(mustMove(t, b, "e2e4"), false)
	if got := b.HalfMoveClock(); got != 0 {
		t.Errorf("HalfMoveClock() after pawn move = %d, want 0", got)
	}
	if got := b.Repetitions(b.Key()); got != 1 {
		t.Errorf("Repetitions() = %d, want 1", got)
	}
}

func TestFiftyMoveDraw(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/8/4K2R w - - 99 80")
	if b.IsFiftyMoveDraw() {
		t.Fatal("draw before the hundredth half-move")
	}
	play(t, b, "h1h2")
	if !b.IsFiftyMoveDraw() {
		t.Fatalf("HalfMoveClock() = %d, want draw", b.HalfMoveClock())
	}
	if got := b.Status(); got != FiftyMoveDraw {
		t.Errorf("Status() = %v, want %v", got, FiftyMoveDraw)
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/8/8/8/8/K6k w - - 0 1", true},
		{"8/8/8/8/8/8/8/KB5k w - - 0 1", true},
		{"8/8/8/8/8/8/8/KN5k w - - 0 1", true},
		{"8/8/8/8/8/8/1R6/K6k w - - 0 1", false},
		{"8/8/8/8/8/8/P7/K6k w - - 0 1", false},
		{"8/8/8/8/8/8/8/KB4nk w - - 0 1", false},
	}

	for _, tc := range tests {
		t.Run(tc.fen, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			if got := b.IsInsufficientMaterial(); got != tc.want {
				t.Errorf("IsInsufficientMaterial() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"4k3/8/8/8/8/8/8/4K2R w K - 37 60",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			b := mustParse(t, fen)
			if got := b.FEN(); got != fen {
				t.Errorf("FEN() = %q", got)
			}
		})
	}
}

func TestTablebaseFEN(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/8/4K2R_w_K_-_0_1")
	want := "4k3/8/8/8/8/8/8/4K2R_w_K_-_0_1"
	if got := b.TablebaseFEN(); got != want {
		t.Errorf("TablebaseFEN() = %q, want %q", got, want)
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"8/8/8/8/8/8/8/8 w - -",
		"4k3/8/8/8/8/8/4K3 w - - 0 1",
		"P3k3/8/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/9/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 x - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 w X - 0 1",
		"4k3/8/8/8/8/8/8/4K3 w - z9 0 1",
		"4k3/8/8/8/8/8/8/4K3 w - - -1 1",
		"4kk2/8/8/8/8/8/8/4K3 w - - 0 1",
		"8/8/8/8/8/8/8/KR5k w - - 0 1",
		"4k3/8/8/8/8/8/8/4K2r b - - 0 1",
	}

	for _, fen := range bad {
		t.Run(fen, func(t *testing.T) {
			if _, err := ParseFEN(fen); err == nil {
				t.Errorf("ParseFEN(%q) succeeded", fen)
			}
		})
	}
}

func TestNewZobristDeterministic(t *testing.T) {
	a, b := NewZobrist(42), NewZobrist(42)
	if *a != *b {
		t.Error("equal seeds gave different tables")
	}
	if *NewZobrist(43) == *a {
		t.Error("different seeds gave identical tables")
	}
	if *NewZobrist(0) != *DefaultZobrist() {
		t.Error("zero seed should fall back to the default seed")
	}

	pos, err := ParseFENWithZobrist(StartFEN, a)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Key() == StartPosition().Key() {
		t.Error("custom table produced the default key")
	}
	if pos.Key() != a.FromScratch(pos) {
		t.Error("key does not match the board's own table")
	}
}

func TestAddPiece(t *testing.T) {
	b := NewBoard()
	b.AddPiece(King, White, E1, true)
	b.AddPiece(Rook, White, H1, true)
	b.AddPiece(Rook, White, A1, false)
	b.AddPiece(King, Black, E8, false)

	if got := b.Castling(); got != WhiteKingSideCastle {
		t.Errorf("Castling() = %s, want K", got)
	}
	if got, want := b.Key(), b.Zobrist().FromScratch(b); got != want {
		t.Errorf("key %016x, want %016x", got, want)
	}
	if got := b.PieceCount(); got != 4 {
		t.Errorf("PieceCount() = %d, want 4", got)
	}

	// Replacing an occupant notifies the pieces watching the square.
	rook := b.PieceIDAt(H1)
	b.AddPiece(Pawn, Black, H4, false)
	if moves := b.PieceMoves(rook); slices.Contains(moves, H5) || !slices.Contains(moves, H4) {
		t.Errorf("rook moves %v should stop at the h4 pawn", moves)
	}
}

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		uci  string
		want string
	}{
		{StartFEN, "e2e4", "e4"},
		{StartFEN, "g1f3", "Nf3"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
		{"4k3/8/8/8/8/8/8/R4RK1 w - - 0 1", "a1d1", "Rad1"},
		{"8/P7/8/8/8/8/8/k6K w - - 0 1", "a7a8q", "a8=Q+"},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", "exd5"},
		{"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3", "e5d6", "exd6"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			m := mustMove(t, b, tc.uci)
			if got := b.SAN(m); got != tc.want {
				t.Errorf("SAN(%s) = %q, want %q", tc.uci, got, tc.want)
			}
			parsed, err := b.ParseSAN(tc.want)
			if err != nil {
				t.Fatalf("ParseSAN(%q): %v", tc.want, err)
			}
			if !parsed.Equal(m) {
				t.Errorf("ParseSAN(%q) = %s, want %s", tc.want, parsed, m)
			}
		})
	}
}

func TestParseSANPromotionDefault(t *testing.T) {
	b := mustParse(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	m, err := b.ParseSAN("a8")
	if err != nil {
		t.Fatal(err)
	}
	if m.Promo != Queen {
		t.Errorf("a8 promoted to %v, want Queen", m.Promo)
	}
	m, err = b.ParseSAN("a8=N")
	if err != nil {
		t.Fatal(err)
	}
	if m.Promo != Knight {
		t.Errorf("a8=N promoted to %v", m.Promo)
	}
	if _, err := b.ParseSAN("Nf3"); err == nil {
		t.Error("ParseSAN accepted a move with no such piece")
	}
}

func TestParseMoveErrors(t *testing.T) {
	b := StartPosition()
	for _, s := range []string{"", "e2", "e2e5", "z2e4", "e2e4x", "e1g1"} {
		if _, err := b.ParseMove(s); err == nil {
			t.Errorf("ParseMove(%q) succeeded", s)
		}
	}
}

func TestMoveEqual(t *testing.T) {
	b := mustParse(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	q := mustMove(t, b, "a7a8q")
	n := mustMove(t, b, "a7a8n")
	if q.Equal(n) {
		t.Error("promotions to different kinds compare equal")
	}
	if !q.Equal(q) {
		t.Error("move not equal to itself")
	}
	if !NoMove.IsNone() || q.IsNone() {
		t.Error("IsNone mismatch")
	}
	if got := NoMove.String(); got != "0000" {
		t.Errorf("NoMove.String() = %q", got)
	}
}
