package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/hailam/chessengine/internal/board"
	"github.com/hailam/chessengine/internal/book"
	"github.com/hailam/chessengine/internal/tablebase"
)

var (
	// ErrNoLegalMoves is returned when a move is requested in a finished game.
	ErrNoLegalMoves = errors.New("engine: no legal moves")

	// ErrUnmappedMove is returned when a book or tablebase move is not a
	// legal move on the board.
	ErrUnmappedMove = errors.New("engine: move does not map to a legal move")
)

// Book is the opening book the engine consults before searching.
type Book interface {
	HasMoves(key uint64) bool
	SampleMove(key uint64) (book.Move, bool)
}

// Source tells where a move came from.
type Source int

const (
	SourceSearch Source = iota
	SourceBook
	SourceTablebase
)

func (s Source) String() string {
	switch s {
	case SourceBook:
		return "book"
	case SourceTablebase:
		return "tablebase"
	default:
		return "search"
	}
}

// Result is the engine's answer to a move request.
type Result struct {
	Move   board.Move
	Source Source
	Score  int    // from the engine's side; 0 for book moves
	Nodes  uint64 // moves played by the search
}

// Options configures an Engine. Nil collaborators are skipped.
type Options struct {
	Depth     int
	Book      Book
	Tablebase tablebase.Prober
	Logger    logr.Logger
}

// Engine picks moves for one side of a game. It owns no goroutines; see
// Worker for running it off the caller's goroutine.
type Engine struct {
	board     *board.Board
	color     board.Color
	depth     int
	book      Book
	usingBook bool
	tb        tablebase.Prober
	searcher  *Searcher
	log       logr.Logger
}

// New creates an engine playing color on b.
func New(b *board.Board, color board.Color, opts Options) *Engine {
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	e := &Engine{
		board:     b,
		color:     color,
		book:      opts.Book,
		usingBook: opts.Book != nil,
		tb:        opts.Tablebase,
		searcher:  NewSearcher(b),
		log:       log,
	}
	e.SetDepth(opts.Depth)
	return e
}

// Board returns the board the engine plays on.
func (e *Engine) Board() *board.Board { return e.board }

// Color returns the side the engine plays.
func (e *Engine) Color() board.Color { return e.color }

// Depth returns the search depth in plies.
func (e *Engine) Depth() int { return e.depth }

// SetDepth sets the search depth; values below 1 select DefaultDepth.
func (e *Engine) SetDepth(depth int) {
	if depth < 1 {
		depth = DefaultDepth
	}
	e.depth = depth
}

// InBook reports whether the engine still consults the opening book.
// Once a position has no book moves the book is not asked again.
func (e *Engine) InBook() bool { return e.usingBook }

// NextMove chooses a move for the side to move without playing it. The book
// is tried first, then the tablebase, then the search. Book and tablebase
// failures are logged and fall through to the next source, except for a
// cancelled ctx and moves that do not map to a legal move.
func (e *Engine) NextMove(ctx context.Context) (Result, error) {
	b := e.board
	if !b.HasLegalMoves() {
		return Result{}, ErrNoLegalMoves
	}

	if e.usingBook {
		if res, ok, err := e.bookMove(); err != nil || ok {
			return res, err
		}
	}

	if e.tb != nil && b.PieceCount() <= e.tb.MaxPieces() {
		res, ok, err := e.tablebaseMove(ctx)
		if err != nil || ok {
			return res, err
		}
	}

	move, score := e.searcher.Search(e.depth)
	if move.IsNone() {
		// Unreachable with legal moves and depth >= 1.
		move = b.LegalMoves()[0]
	}
	e.log.V(1).Info("search move", "move", move.String(), "score", score, "nodes", e.searcher.Nodes(), "depth", e.depth)
	return Result{Move: move, Source: SourceSearch, Score: score, Nodes: e.searcher.Nodes()}, nil
}

func (e *Engine) bookMove() (Result, bool, error) {
	key := e.board.Key()
	if !e.book.HasMoves(key) {
		e.usingBook = false
		e.log.V(1).Info("out of book", "key", key)
		return Result{}, false, nil
	}

	bm, ok := e.book.SampleMove(key)
	if !ok {
		e.usingBook = false
		return Result{}, false, nil
	}
	m, ok := e.board.FindLegalMove(bm.From, bm.To, board.NoPieceType)
	if !ok {
		return Result{}, false, fmt.Errorf("%w: book move %s", ErrUnmappedMove, bm)
	}
	e.log.V(1).Info("book move", "move", m.String())
	return Result{Move: m, Source: SourceBook}, true, nil
}

func (e *Engine) tablebaseMove(ctx context.Context) (Result, bool, error) {
	fen := e.board.TablebaseFEN()
	res, err := e.tb.Probe(ctx, fen)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, false, ctxErr
		}
		e.log.Error(err, "tablebase probe failed", "fen", fen)
		return Result{}, false, nil
	}

	uci, ok := res.BestMove()
	if !ok {
		return Result{}, false, nil
	}
	m, err := e.board.ParseMove(uci)
	if err != nil {
		return Result{}, false, fmt.Errorf("%w: tablebase move %s", ErrUnmappedMove, uci)
	}
	score := tablebase.WDLToScore(res.WDL, MateScore, 0)
	e.log.V(1).Info("tablebase move", "move", m.String(), "wdl", res.WDL.String(), "dtz", res.DTZ)
	return Result{Move: m, Source: SourceTablebase, Score: score}, true, nil
}

// CountMoves returns the number of leaf nodes of the legal move tree to
// depth.
func (e *Engine) CountMoves(depth int) uint64 {
	return Perft(e.board, depth)
}
