// Package board implements the chess board as a grid of observable cells.
//
// Every piece keeps a cached list of pseudo-legal destinations. Pieces
// subscribe to the cells they could reach; when a cell's occupant changes the
// subscribers are notified synchronously and patch only the affected part of
// their cache.
package board

import (
	"fmt"
	"slices"
)

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
// Rank 0 is white's back rank.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Offset returns the square df files and dr ranks away.
// The second result is false when that square is off the board.
func (sq Square) Offset(df, dr int) (Square, bool) {
	f, r := sq.File()+df, sq.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

// cell is one board square: an optional occupant and the pieces listening
// for changes to it.
type cell struct {
	occupant    PieceID
	subscribers []PieceID
}

func (c *cell) subscribe(id PieceID) {
	c.subscribers = append(c.subscribers, id)
}

func (c *cell) unsubscribe(id PieceID) {
	if i := slices.Index(c.subscribers, id); i >= 0 {
		c.subscribers = slices.Delete(c.subscribers, i, i+1)
	}
}

// occupant returns the piece on sq, or NoPieceID.
func (b *Board) occupant(sq Square) PieceID {
	return b.cells[sq].occupant
}

// setOccupant replaces the occupant of sq. The outgoing piece stops
// listening to all of its cells, then every subscriber of sq is told about
// the colour change.
func (b *Board) setOccupant(sq Square, id PieceID) {
	c := &b.cells[sq]
	old := c.occupant
	c.occupant = id

	oldColor, newColor := NoColor, NoColor
	if old != NoPieceID {
		oldColor = b.pieces[old].color
		b.detach(old)
	}
	if id != NoPieceID {
		newColor = b.pieces[id].color
	}

	for _, sub := range c.subscribers {
		b.squareChanged(sub, sq, oldColor, newColor)
	}
}
