package tablebase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr"
)

const krkFEN = "8/8/8/8/8/8/1R6/K6k_w_-_-_0_1"

func TestNoopProber(t *testing.T) {
	prober := NoopProber{}

	if prober.MaxPieces() != 0 {
		t.Errorf("NoopProber MaxPieces should be 0, got %d", prober.MaxPieces())
	}

	result, err := prober.Probe(context.Background(), krkFEN)
	if err != nil || result.Found {
		t.Errorf("NoopProber should not find anything, got %+v, %v", result, err)
	}
	if _, ok := result.BestMove(); ok {
		t.Error("NoopProber result has a best move")
	}
}

func TestWDLToScore(t *testing.T) {
	tests := []struct {
		wdl  WDL
		ply  int
		want int
	}{
		{WDLWin, 0, 1000},
		{WDLWin, 3, 997},
		{WDLDraw, 5, 0},
		{WDLLoss, 2, -998},
	}

	for _, tc := range tests {
		t.Run(tc.wdl.String(), func(t *testing.T) {
			if got := WDLToScore(tc.wdl, 1000, tc.ply); got != tc.want {
				t.Errorf("WDLToScore(%v, 1000, %d) = %d, want %d", tc.wdl, tc.ply, got, tc.want)
			}
		})
	}
}

// newServer serves body for every request and counts the calls.
func newServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if got := r.URL.Query().Get("fen"); got == "" {
			t.Errorf("request without fen: %s", r.URL)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLichessProber(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		status   int
		body     string
		want     Result
		bestMove string
	}{
		{
			name:   "win",
			fen:    krkFEN,
			status: http.StatusOK,
			body:   `{"mainline":[{"uci":"b2g2","san":"Rg2","dtz":-15}],"winner":"w","dtz":16}`,
			want:   Result{Found: true, WDL: WDLWin, DTZ: 16, Mainline: []string{"b2g2"}},

			bestMove: "b2g2",
		},
		{
			name:   "loss",
			fen:    "8/8/8/8/8/8/1R6/K6k_b_-_-_0_1",
			status: http.StatusOK,
			body:   `{"mainline":[{"uci":"h1g1","san":"Kg1","dtz":15}],"winner":"w","dtz":-16}`,
			want:   Result{Found: true, WDL: WDLLoss, DTZ: -16, Mainline: []string{"h1g1"}},

			bestMove: "h1g1",
		},
		{
			name:   "draw",
			fen:    "8/8/8/8/8/8/8/KN5k_w_-_-_0_1",
			status: http.StatusOK,
			body:   `{"mainline":[],"winner":null,"dtz":0}`,
			want:   Result{Found: true, WDL: WDLDraw},
		},
		{
			name:   "not found",
			fen:    krkFEN,
			status: http.StatusBadRequest,
			body:   `invalid fen`,
			want:   Result{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, tc.status, tc.body, nil)
			lp := NewLichessProber(srv.URL, logr.Discard())

			got, err := lp.Probe(context.Background(), tc.fen)
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}
			if got.Found != tc.want.Found || got.WDL != tc.want.WDL || got.DTZ != tc.want.DTZ ||
				!slices.Equal(got.Mainline, tc.want.Mainline) {
				t.Errorf("Probe() = %+v, want %+v", got, tc.want)
			}

			move, ok := got.BestMove()
			if ok != (tc.bestMove != "") || move != tc.bestMove {
				t.Errorf("BestMove() = %q, %v, want %q", move, ok, tc.bestMove)
			}
		})
	}
}

func TestLichessProberErrors(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"mainline":`, nil)
	lp := NewLichessProber(srv.URL, logr.Discard())

	if _, err := lp.Probe(context.Background(), krkFEN); err == nil {
		t.Error("expected error for truncated body")
	}
	if _, err := lp.Probe(context.Background(), "8/8/8"); err == nil {
		t.Error("expected error for FEN without side to move")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lp.Probe(ctx, krkFEN); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled probe returned %v", err)
	}
}

func TestLichessProberDefaultURL(t *testing.T) {
	lp := NewLichessProber("", logr.Discard())
	if lp.baseURL != DefaultLichessURL {
		t.Errorf("baseURL = %q", lp.baseURL)
	}
	if lp.MaxPieces() != MaxPieces {
		t.Errorf("MaxPieces() = %d", lp.MaxPieces())
	}
}

func TestCachedProber(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.StatusOK, `{"mainline":[{"uci":"b2g2","san":"Rg2","dtz":-15}],"winner":"w","dtz":16}`, &calls)

	cp, err := NewCachedProber(NewLichessProber(srv.URL, logr.Discard()), 16)
	if err != nil {
		t.Fatal(err)
	}
	defer cp.Close()

	for i := 0; i < 3; i++ {
		result, err := cp.Probe(context.Background(), krkFEN)
		if err != nil {
			t.Fatal(err)
		}
		if move, _ := result.BestMove(); move != "b2g2" {
			t.Fatalf("probe %d: best move %q", i, move)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
	if rate := cp.HitRate(); rate < 66 || rate > 67 {
		t.Errorf("HitRate() = %.2f, want 66.67", rate)
	}

	cp.Clear()
	if cp.HitRate() != 0 {
		t.Error("Clear() kept statistics")
	}
}

func TestCachedProberSkipsMisses(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, http.StatusNotFound, "", &calls)

	cp, err := NewCachedProber(NewLichessProber(srv.URL, logr.Discard()), 16)
	if err != nil {
		t.Fatal(err)
	}
	defer cp.Close()

	for i := 0; i < 2; i++ {
		if result, err := cp.Probe(context.Background(), krkFEN); err != nil || result.Found {
			t.Fatalf("Probe() = %+v, %v", result, err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}
