package board

import "testing"

// Perft counts the number of leaf nodes at the given depth.
// This is the standard way to verify move generation correctness.
func perft(b *Board, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range b.PseudolegalMoves() {
		if !b.IsLegal(m) {
			continue
		}
		b.ApplyMove(m, true)
		nodes += perft(b, depth-1)
		b.UndoMove()
	}
	return nodes
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	b := StartPosition()

	tests := []struct {
		depth    int
		expected int64
		long     bool
	}{
		{1, 20, false},
		{2, 400, false},
		{3, 8902, false},
		{4, 197281, true},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if tc.long && testing.Short() {
				t.Skip("skipping deep perft in short mode")
			}
			got := perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftKiwipete tests the famous Kiwipete position with many edge cases.
// FEN: r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -
func TestPerftKiwipete(t *testing.T) {
	b, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
		long     bool
	}{
		{1, 48, false},
		{2, 2039, false},
		{3, 97862, true},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if tc.long && testing.Short() {
				t.Skip("skipping deep perft in short mode")
			}
			got := perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPosition3 covers en passant, pins along ranks and promotions.
func TestPerftPosition3(t *testing.T) {
	b, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPosition4 exercises promotions with captures and castling rights
// lost to captured rooks.
func TestPerftPosition4(t *testing.T) {
	b, err := ParseFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 6},
		{2, 264},
		{3, 9467},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}
