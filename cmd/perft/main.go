// Command perft counts the leaf nodes of the legal move tree of a position
// and optionally checks the counts against dragontoothmg.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dylhunn/dragontoothmg"

	"github.com/hailam/chessengine/internal/board"
	"github.com/hailam/chessengine/internal/engine"
)

var (
	fen    = flag.String("fen", board.StartFEN, "position to count from")
	depth  = flag.Int("depth", 4, "depth in plies")
	divide = flag.Bool("divide", false, "print the count below each root move")
	verify = flag.Bool("verify", false, "compare every count with dragontoothmg")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "perft:", err)
		os.Exit(1)
	}
}

func run() error {
	b, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}
	if *depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", *depth)
	}

	start := time.Now()
	entries := engine.Divide(b, *depth)
	elapsed := time.Since(start)

	var oracle map[string]uint64
	if *verify {
		oracle = oracleDivide(*fen, *depth)
	}

	var total uint64
	mismatches := 0
	for _, e := range entries {
		total += e.Nodes
		mark := ""
		if oracle != nil {
			want, ok := oracle[e.Move.String()]
			if !ok || want != e.Nodes {
				mark = fmt.Sprintf("  MISMATCH (dragontoothmg %d)", want)
				mismatches++
			}
			delete(oracle, e.Move.String())
		}
		if *divide || mark != "" {
			fmt.Printf("%s: %s%s\n", e.Move, humanize.Comma(int64(e.Nodes)), mark)
		}
	}
	for m, n := range oracle {
		fmt.Printf("%s: missing (dragontoothmg %d)\n", m, n)
		mismatches++
	}

	fmt.Printf("\nNodes: %s\n", humanize.Comma(int64(total)))
	fmt.Printf("Time: %v\n", elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf("NPS: %s\n", humanize.Comma(int64(float64(total)/secs)))
	}

	if mismatches > 0 {
		return fmt.Errorf("%d root moves disagree with dragontoothmg", mismatches)
	}
	if *verify {
		fmt.Println("Verified against dragontoothmg")
	}
	return nil
}

func oracleDivide(fen string, depth int) map[string]uint64 {
	ob := dragontoothmg.ParseFen(fen)
	counts := make(map[string]uint64)
	for _, m := range ob.GenerateLegalMoves() {
		unapply := ob.Apply(m)
		counts[m.String()] = oraclePerft(&ob, depth-1)
		unapply()
	}
	return counts
}

func oraclePerft(ob *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range ob.GenerateLegalMoves() {
		unapply := ob.Apply(m)
		nodes += oraclePerft(ob, depth-1)
		unapply()
	}
	return nodes
}
