// Package tablebase looks up small endgames in an endgame tablebase.
package tablebase

import (
	"context"
	"fmt"
	"strings"
)

// MaxPieces is the largest number of pieces, kings included, covered by
// the online tablebase.
const MaxPieces = 7

// WDL represents Win/Draw/Loss result.
type WDL int

const (
	WDLLoss WDL = -2
	WDLDraw WDL = 0
	WDLWin  WDL = 2
)

func (w WDL) String() string {
	switch w {
	case WDLWin:
		return "win"
	case WDLLoss:
		return "loss"
	default:
		return "draw"
	}
}

// Result is a tablebase verdict, from the point of view of the side to move.
type Result struct {
	Found    bool
	WDL      WDL
	DTZ      int      // Distance to zeroing move (pawn move or capture)
	Mainline []string // Best play in UCI notation
}

// BestMove returns the first move of the mainline. Drawn positions report
// no move so the caller falls back to its own search.
func (r Result) BestMove() (string, bool) {
	if !r.Found || r.WDL == WDLDraw || len(r.Mainline) == 0 {
		return "", false
	}
	return r.Mainline[0], true
}

// Prober is the interface for tablebase probing.
type Prober interface {
	// Probe looks up a position given as FEN, fields separated by spaces
	// or underscores. An unknown position is a Result with Found unset
	// and a nil error.
	Probe(ctx context.Context, fen string) (Result, error)

	// MaxPieces returns the maximum number of pieces supported.
	MaxPieces() int
}

// WDLToScore converts a WDL result to a search score on a scale where
// mateScore is an immediate mate.
func WDLToScore(wdl WDL, mateScore, ply int) int {
	switch wdl {
	case WDLWin:
		return mateScore - ply
	case WDLLoss:
		return -mateScore + ply
	default:
		return 0
	}
}

// NoopProber is a prober that always returns "not found".
// Use this as a placeholder when tablebases are not available.
type NoopProber struct{}

func (NoopProber) Probe(context.Context, string) (Result, error) {
	return Result{}, nil
}

func (NoopProber) MaxPieces() int {
	return 0
}

// sideToMove extracts the side-to-move field of a FEN.
func sideToMove(fen string) (string, error) {
	fields := strings.FieldsFunc(fen, func(r rune) bool { return r == ' ' || r == '_' })
	if len(fields) < 2 || (fields[1] != "w" && fields[1] != "b") {
		return "", fmt.Errorf("tablebase: invalid FEN %q", fen)
	}
	return fields[1], nil
}
