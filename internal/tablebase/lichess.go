package tablebase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"
)

// DefaultLichessURL is the mainline endpoint of the Lichess tablebase.
const DefaultLichessURL = "http://tablebase.lichess.ovh/standard/mainline"

// LichessProber uses the Lichess tablebase API for online lookups.
// Note: This requires network access and has rate limits.
type LichessProber struct {
	client    *http.Client
	baseURL   string
	maxPieces int
	log       logr.Logger
}

// NewLichessProber creates a prober for the mainline endpoint at baseURL,
// or DefaultLichessURL when baseURL is empty.
func NewLichessProber(baseURL string, log logr.Logger) *LichessProber {
	if baseURL == "" {
		baseURL = DefaultLichessURL
	}
	return &LichessProber{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL:   baseURL,
		maxPieces: MaxPieces,
		log:       log,
	}
}

// Lichess mainline response structure
type mainlineResponse struct {
	Mainline []struct {
		UCI string `json:"uci"`
		SAN string `json:"san"`
		DTZ int    `json:"dtz"`
	} `json:"mainline"`
	Winner *string `json:"winner"` // "w", "b" or null for a draw
	DTZ    int     `json:"dtz"`
}

// Probe asks the mainline endpoint about fen. A non-200 response means the
// position is unknown; transport and decoding failures are errors.
func (lp *LichessProber) Probe(ctx context.Context, fen string) (Result, error) {
	side, err := sideToMove(fen)
	if err != nil {
		return Result{}, err
	}

	u := lp.baseURL + "?" + url.Values{"fen": {fen}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("tablebase: %w", err)
	}

	resp, err := lp.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("tablebase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		lp.log.V(1).Info("tablebase lookup failed", "status", resp.StatusCode, "fen", fen)
		return Result{}, nil
	}

	var body mainlineResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("tablebase: decode response: %w", err)
	}

	result := Result{Found: true, WDL: WDLDraw, DTZ: body.DTZ}
	if body.Winner != nil {
		result.WDL = WDLLoss
		if *body.Winner == side {
			result.WDL = WDLWin
		}
	}
	for _, m := range body.Mainline {
		result.Mainline = append(result.Mainline, m.UCI)
	}
	return result, nil
}

func (lp *LichessProber) MaxPieces() int {
	return lp.maxPieces
}
