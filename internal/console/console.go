// Package console implements a line-oriented front end for playing against
// the engine.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/hailam/chessengine/internal/board"
	"github.com/hailam/chessengine/internal/engine"
	"github.com/hailam/chessengine/internal/storage"
	"github.com/hailam/chessengine/internal/tablebase"
)

// Recorder stores finished games.
type Recorder interface {
	RecordGame(storage.GameResult) error
}

// Config holds what the console needs to start engines.
type Config struct {
	EngineColor board.Color
	Depth       int
	Book        engine.Book
	Tablebase   tablebase.Prober
	Recorder    Recorder
	Logger      logr.Logger
}

// Console reads commands from in and writes replies to out. The engine and
// its board live on a worker; the console only touches them through it.
type Console struct {
	in  io.Reader
	out io.Writer
	cfg Config
	log logr.Logger

	worker *engine.Worker
	posted chan func()
	color  board.Color

	started  time.Time
	recorded bool
}

// New creates a console. Call Run to start the session.
func New(in io.Reader, out io.Writer, cfg Config) *Console {
	log := cfg.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	if cfg.Tablebase == nil {
		cfg.Tablebase = tablebase.NoopProber{}
	}
	return &Console{
		in:     in,
		out:    out,
		cfg:    cfg,
		log:    log,
		posted: make(chan func(), 16),
	}
}

// Run processes commands until quit, end of input or ctx is done. Input is
// read on its own goroutine so a cancelled ctx ends an idle session.
func (c *Console) Run(ctx context.Context) error {
	c.newGame(board.StartPosition(), c.cfg.EngineColor)
	defer func() { c.worker.Stop() }()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
		readErr <- scanner.Err()
	}()

	c.printf("chessengine ready, engine plays %s. Type help for commands.\n", colorName(c.color))
	c.engineTurn(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if quit := c.dispatch(ctx, line); quit {
				return nil
			}
		}
	}
}

// dispatch runs one command line and reports whether the session ends.
func (c *Console) dispatch(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	parts := strings.Fields(line)
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		c.handleHelp()
	case "new":
		c.handleNew(ctx, args)
	case "fen":
		c.handleFEN(ctx, args)
	case "move":
		c.handleMove(ctx, args)
	case "go":
		c.handleGo(ctx)
	case "undo":
		c.handleUndo()
	case "moves":
		c.handleMoves()
	case "d":
		c.handleDisplay()
	case "perft":
		c.handlePerft(args)
	case "status":
		c.handleStatus()
	default:
		// A bare move is the same as "move <move>".
		c.handleMove(ctx, parts)
	}
	return false
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// newGame replaces the worker with one playing color on b.
func (c *Console) newGame(b *board.Board, color board.Color) {
	if c.worker != nil {
		c.worker.Stop()
	}
	e := engine.New(b, color, engine.Options{
		Depth:     c.cfg.Depth,
		Book:      c.cfg.Book,
		Tablebase: c.cfg.Tablebase,
		Logger:    c.log,
	})
	c.worker = engine.NewWorker(e, func(f func()) { c.posted <- f })
	c.worker.Start()
	c.color = color
	c.started = time.Now()
	c.recorded = false
}

// wait runs posted callbacks until done reports true. Callbacks only run
// here, on the console goroutine.
func (c *Console) wait(done func() bool) {
	for !done() {
		f := <-c.posted
		f()
	}
}

// with runs fn on the worker and waits for it.
func (c *Console) with(fn func(*engine.Engine)) error {
	var (
		finished bool
		err      error
	)
	c.worker.Run(fn, func(e error) {
		finished, err = true, e
	})
	c.wait(func() bool { return finished })
	return err
}

func (c *Console) handleHelp() {
	c.printf(`commands:
  new [white|black]   start a new game, engine playing the given colour
  fen <fen>           set up a position
  move <move>         play a move in UCI (e2e4) or SAN (Nf3); "move" may be omitted
  go                  let the engine move for the side to move
  undo                take back the last move
  moves               list legal moves
  d                   show the board
  perft <depth>       count leaf nodes of the move tree
  status              show the game state
  quit                leave
`)
}

func parseColor(s string) (board.Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return board.White, nil
	case "black", "b":
		return board.Black, nil
	}
	return board.NoColor, fmt.Errorf("unknown colour %q", s)
}

func colorName(c board.Color) string {
	return strings.ToLower(c.String())
}

func (c *Console) handleNew(ctx context.Context, args []string) {
	color := c.color
	if len(args) > 0 {
		var err error
		if color, err = parseColor(args[0]); err != nil {
			c.printf("error: %v\n", err)
			return
		}
	}
	c.newGame(board.StartPosition(), color)
	c.printf("new game, engine plays %s\n", colorName(color))
	c.engineTurn(ctx)
}

func (c *Console) handleFEN(ctx context.Context, args []string) {
	b, err := board.ParseFEN(strings.Join(args, " "))
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}
	c.newGame(b, c.color)
	c.printf("%s\n", b.FEN())
	c.engineTurn(ctx)
}

// handleMove plays the player's move, then lets the engine reply.
func (c *Console) handleMove(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.printf("error: usage: move <move>\n")
		return
	}

	var (
		san    string
		status board.Status
		err    error
	)
	runErr := c.with(func(e *engine.Engine) {
		b := e.Board()
		if status = b.Status(); status.GameOver() {
			return
		}
		m, perr := b.ParseMove(args[0])
		if perr != nil {
			if m, perr = b.ParseSAN(args[0]); perr != nil {
				err = fmt.Errorf("illegal or unknown move %q", args[0])
				return
			}
		}
		san = b.SAN(m)
		b.ApplyMove(m, false)
		status = b.Status()
	})
	switch {
	case runErr != nil:
		c.printf("error: %v\n", runErr)
		return
	case err != nil:
		c.printf("error: %v\n", err)
		return
	case san == "":
		c.printf("game over: %s\n", status)
		return
	}

	c.printf("you played %s\n", san)
	if c.reportEnd(status) {
		return
	}
	c.engineTurn(ctx)
}

func (c *Console) handleGo(ctx context.Context) {
	c.playEngineMove(ctx)
}

// engineTurn moves for the engine when it is its turn.
func (c *Console) engineTurn(ctx context.Context) {
	var toMove board.Color
	var over bool
	if err := c.with(func(e *engine.Engine) {
		toMove = e.Board().SideToMove()
		over = e.Board().Status().GameOver()
	}); err != nil {
		c.printf("error: %v\n", err)
		return
	}
	if toMove == c.color && !over {
		c.playEngineMove(ctx)
	}
}

// playEngineMove asks the worker for a move and plays it.
func (c *Console) playEngineMove(ctx context.Context) {
	var (
		res      engine.Result
		err      error
		answered bool
	)
	start := time.Now()
	c.worker.RequestMove(ctx, func(r engine.Result, e error) {
		res, err, answered = r, e, true
	})
	c.wait(func() bool { return answered })

	if errors.Is(err, engine.ErrNoLegalMoves) {
		c.handleStatus()
		return
	}
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}

	var san string
	var status board.Status
	if err := c.with(func(e *engine.Engine) {
		san = e.Board().SAN(res.Move)
		e.Board().ApplyMove(res.Move, false)
		status = e.Board().Status()
	}); err != nil {
		c.printf("error: %v\n", err)
		return
	}

	c.printf("engine plays %s (%s", san, res.Source)
	if res.Source == engine.SourceSearch {
		c.printf(", score %d, %s nodes", res.Score, humanize.Comma(int64(res.Nodes)))
	}
	c.printf(", %s)\n", time.Since(start).Round(time.Millisecond))
	c.reportEnd(status)
}

// reportEnd announces a finished game and records it once.
func (c *Console) reportEnd(status board.Status) bool {
	if !status.GameOver() {
		return false
	}

	var (
		plies  int
		loser  board.Color
		result string
	)
	if err := c.with(func(e *engine.Engine) {
		plies = len(e.Board().History())
		loser = e.Board().SideToMove()
	}); err != nil {
		c.printf("error: %v\n", err)
		return true
	}

	outcome := storage.Drawn
	result = "1/2-1/2"
	if status == board.Checkmate {
		result = "1-0"
		if loser == board.White {
			result = "0-1"
		}
		outcome = storage.EngineWon
		if loser == c.color {
			outcome = storage.EngineLost
		}
	}
	c.printf("game over: %s %s\n", status, result)

	if c.cfg.Recorder != nil && !c.recorded {
		c.recorded = true
		err := c.cfg.Recorder.RecordGame(storage.GameResult{
			Outcome:  outcome,
			Reason:   status.String(),
			Plies:    plies,
			Duration: time.Since(c.started),
		})
		if err != nil {
			c.log.Error(err, "recording game failed")
		}
	}
	return true
}

func (c *Console) handleUndo() {
	var undone string
	if err := c.with(func(e *engine.Engine) {
		b := e.Board()
		hist := b.History()
		if len(hist) == 0 {
			return
		}
		undone = hist[len(hist)-1].Move.String()
		b.UndoMove()
	}); err != nil {
		c.printf("error: %v\n", err)
		return
	}
	if undone == "" {
		c.printf("nothing to undo\n")
		return
	}
	c.recorded = false
	c.printf("took back %s\n", undone)
}

func (c *Console) handleMoves() {
	var sans []string
	if err := c.with(func(e *engine.Engine) {
		b := e.Board()
		for _, m := range b.LegalMoves() {
			sans = append(sans, b.SAN(m))
		}
	}); err != nil {
		c.printf("error: %v\n", err)
		return
	}
	if len(sans) == 0 {
		c.printf("no legal moves\n")
		return
	}
	c.printf("%s\n", strings.Join(sans, " "))
}

func (c *Console) handleDisplay() {
	var text, fen string
	if err := c.with(func(e *engine.Engine) {
		text, fen = e.Board().String(), e.Board().FEN()
	}); err != nil {
		c.printf("error: %v\n", err)
		return
	}
	c.printf("%sFEN: %s\n", text, fen)
}

func (c *Console) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			c.printf("error: invalid depth %q\n", args[0])
			return
		}
		depth = d
	}

	var (
		nodes    uint64
		err      error
		answered bool
	)
	start := time.Now()
	c.worker.RequestCount(depth, func(n uint64, e error) {
		nodes, err, answered = n, e, true
	})
	c.wait(func() bool { return answered })
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}

	elapsed := time.Since(start)
	c.printf("Nodes: %s\n", humanize.Comma(int64(nodes)))
	c.printf("Time: %v\n", elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		c.printf("NPS: %s\n", humanize.Comma(int64(float64(nodes)/secs)))
	}
}

func (c *Console) handleStatus() {
	var (
		status  board.Status
		toMove  board.Color
		inCheck bool
	)
	if err := c.with(func(e *engine.Engine) {
		b := e.Board()
		status, toMove, inCheck = b.Status(), b.SideToMove(), b.IsInCheck()
	}); err != nil {
		c.printf("error: %v\n", err)
		return
	}
	switch {
	case status.GameOver():
		c.printf("%s\n", status)
	case inCheck:
		c.printf("%s to move, in check\n", colorName(toMove))
	default:
		c.printf("%s to move\n", colorName(toMove))
	}
}
