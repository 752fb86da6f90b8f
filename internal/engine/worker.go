package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
)

var (
	// ErrWorkerStopped is delivered to requests made after Stop or still
	// queued when the worker stopped.
	ErrWorkerStopped = errors.New("engine: worker stopped")

	// ErrCommandPanicked wraps a panic raised while running a command.
	ErrCommandPanicked = errors.New("engine: command panicked")
)

// command is one queued request. exec runs on the worker goroutine and
// returns the callback invocation; fail builds the invocation for an error.
type command struct {
	exec func() func()
	fail func(error) func()
}

// Worker runs an Engine on its own goroutine. Requests are queued without
// bound and executed one at a time in arrival order; the engine's board is
// only touched from the worker goroutine while it runs.
//
// Callbacks are passed to post, which lets the host run them on its own
// goroutine. With a nil post they run on the worker goroutine.
type Worker struct {
	engine *Engine
	post   func(func())
	log    logr.Logger

	mu      sync.Mutex
	queue   []command
	started bool
	stopped bool

	wake chan struct{}
	done chan struct{}
}

// NewWorker creates a worker for e. Call Start to begin processing.
func NewWorker(e *Engine, post func(func())) *Worker {
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Worker{
		engine: e,
		post:   post,
		log:    e.log.WithName("worker"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the worker goroutine. Calling it again has no effect.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.loop()
}

// Stop makes the worker exit once the current command, if any, finishes.
// Queued commands fail with ErrWorkerStopped. Stop does not wait; use Done.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	started := w.started
	w.mu.Unlock()

	if started {
		w.signal()
		return
	}
	w.drain()
	close(w.done)
}

// Done is closed when the worker has stopped.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// RequestMove asks for the engine's next move. The search runs to
// completion once started; ctx only bounds the tablebase lookup.
func (w *Worker) RequestMove(ctx context.Context, cb func(Result, error)) {
	w.enqueue(command{
		exec: func() func() {
			res, err := w.engine.NextMove(ctx)
			return func() { cb(res, err) }
		},
		fail: func(err error) func() {
			return func() { cb(Result{}, err) }
		},
	})
}

// RequestCount asks for the number of leaf nodes of the legal move tree to
// depth.
func (w *Worker) RequestCount(depth int, cb func(uint64, error)) {
	w.enqueue(command{
		exec: func() func() {
			n := w.engine.CountMoves(depth)
			return func() { cb(n, nil) }
		},
		fail: func(err error) func() {
			return func() { cb(0, err) }
		},
	})
}

// Run queues fn with exclusive access to the engine and its board. Hosts
// use it to play and take back moves between requests. cb may be nil.
func (w *Worker) Run(fn func(*Engine), cb func(error)) {
	if cb == nil {
		cb = func(error) {}
	}
	w.enqueue(command{
		exec: func() func() {
			fn(w.engine)
			return func() { cb(nil) }
		},
		fail: func(err error) func() {
			return func() { cb(err) }
		},
	})
}

func (w *Worker) enqueue(c command) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		w.post(c.fail(ErrWorkerStopped))
		return
	}
	w.queue = append(w.queue, c)
	w.mu.Unlock()
	w.signal()
}

func (w *Worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Worker) loop() {
	defer close(w.done)
	for {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			w.drain()
			return
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			<-w.wake
			continue
		}
		c := w.queue[0]
		w.queue[0] = command{}
		w.queue = w.queue[1:]
		w.mu.Unlock()

		w.post(w.execute(c))
	}
}

// execute runs c, turning a panic into an error for its callback. The
// board is rewound to where it was before the command.
func (w *Worker) execute(c command) (deliver func()) {
	b := w.engine.Board()
	mark := len(b.History())
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrCommandPanicked, r)
			w.log.Error(err, "command failed")
			w.rewind(mark)
			deliver = c.fail(err)
		}
	}()
	return c.exec()
}

func (w *Worker) rewind(mark int) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error(fmt.Errorf("%v", r), "rewind failed", "mark", mark)
		}
	}()
	b := w.engine.Board()
	for len(b.History()) > mark {
		b.UndoMove()
	}
}

func (w *Worker) drain() {
	w.mu.Lock()
	pending := w.queue
	w.queue = nil
	w.mu.Unlock()
	for _, c := range pending {
		w.post(c.fail(ErrWorkerStopped))
	}
}
