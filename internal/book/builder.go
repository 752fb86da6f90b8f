package book

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/zstd"
	"github.com/notnil/chess"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessengine/internal/board"
)

const (
	// MaxPly is how many plies of each game enter the book.
	MaxPly = 10
	// MinGamePlies is the length a game must exceed to be used.
	MinGamePlies = 20
)

// Builder accumulates book entries from recorded games.
type Builder struct {
	book    *Book
	zobrist *board.Zobrist
	log     logr.Logger
	games   int
	skipped int
}

// NewBuilder creates a builder whose keys come from z, which must be the
// table the playing board uses.
func NewBuilder(z *board.Zobrist, log logr.Logger) *Builder {
	return &Builder{book: New(), zobrist: z, log: log}
}

// Book returns the book built so far.
func (bl *Builder) Book() *Book { return bl.book }

// Games returns the number of games added to the book.
func (bl *Builder) Games() int { return bl.games }

// Skipped returns the number of games that were too short or unplayable.
func (bl *Builder) Skipped() int { return bl.skipped }

// AddGame replays the opening of a game from the start position and records
// each move under the key of the position it was played from.
func (bl *Builder) AddGame(moves []*chess.Move) error {
	if len(moves) <= MinGamePlies {
		bl.skipped++
		return nil
	}

	b := board.StartPositionWithZobrist(bl.zobrist)

	type played struct {
		key  uint64
		move Move
	}
	line := make([]played, 0, MaxPly)
	for ply, cm := range moves[:min(MaxPly, len(moves))] {
		from, to := board.Square(cm.S1()), board.Square(cm.S2())
		m, ok := b.FindLegalMove(from, to, promoKind(cm.Promo()))
		if !ok {
			bl.skipped++
			return fmt.Errorf("ply %d: %s%s is not legal", ply+1, from, to)
		}
		line = append(line, played{key: b.Key(), move: Move{From: from, To: to}})
		b.ApplyMove(m, false)
	}

	for _, p := range line {
		bl.book.Add(p.key, p.move, 1)
	}
	bl.games++
	return nil
}

// AddPGN adds every game in a PGN stream. Games that cannot be replayed are
// logged and skipped; a malformed stream stops the scan with an error.
func (bl *Builder) AddPGN(ctx context.Context, r io.Reader) error {
	scanner := chess.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		game := scanner.Next()
		// The scanner yields a blank game at the end of the stream.
		if len(game.Moves()) == 0 && len(game.TagPairs()) == 0 {
			continue
		}
		if err := bl.AddGame(game.Moves()); err != nil {
			bl.log.V(1).Info("skipping game", "reason", err.Error())
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("book: pgn: %w", err)
	}
	return nil
}

// AddFile adds the games of a PGN file, zstd-compressed if it ends in ".zst".
func (bl *Builder) AddFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if isCompressed(path) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("book: %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	if err := bl.AddPGN(ctx, r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	bl.log.Info("added games", "file", path, "games", bl.games, "skipped", bl.skipped)
	return nil
}

// BuildFiles builds one book from several PGN files, reading up to parallel
// files at once. The result does not depend on the order the files finish.
func BuildFiles(ctx context.Context, paths []string, z *board.Zobrist, log logr.Logger, parallel int) (*Book, error) {
	if parallel < 1 {
		parallel = 1
	}
	builders := make([]*Builder, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range paths {
		g.Go(func() error {
			bl := NewBuilder(z, log)
			if err := bl.AddFile(ctx, path); err != nil {
				return err
			}
			builders[i] = bl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := New()
	for _, bl := range builders {
		result.Merge(bl.Book())
	}
	return result, nil
}

func promoKind(pt chess.PieceType) board.PieceType {
	switch pt {
	case chess.Rook:
		return board.Rook
	case chess.Bishop:
		return board.Bishop
	case chess.Knight:
		return board.Knight
	default:
		return board.NoPieceType
	}
}
