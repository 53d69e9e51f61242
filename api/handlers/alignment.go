package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/aria-lang/protalign-go/internal/config"
	"github.com/aria-lang/protalign-go/internal/sequence"
	"github.com/aria-lang/protalign-go/internal/significance"
	"github.com/aria-lang/protalign-go/pkg/protalign"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

var errTooManyTrials = errors.New("too many trials")

// AlignmentRequest represents an alignment request. Omitted fields fall
// back to the server configuration.
type AlignmentRequest struct {
	ID1       string `json:"id1"`
	ID2       string `json:"id2"`
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
	GapCost   *int   `json:"gap_cost,omitempty"`
	Trials    *int   `json:"trials,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
}

// AlignmentResponse represents the response for a local alignment.
type AlignmentResponse struct {
	ID1          string               `json:"id1"`
	ID2          string               `json:"id2"`
	Score        int                  `json:"score"`
	Query        string               `json:"query"`
	Match        string               `json:"match"`
	Reference    string               `json:"reference"`
	Start1       int                  `json:"start1"`
	End1         int                  `json:"end1"`
	Start2       int                  `json:"start2"`
	End2         int                  `json:"end2"`
	Identity     float64              `json:"identity"`
	CIGAR        string               `json:"cigar"`
	Matches      int                  `json:"matches"`
	Positives    int                  `json:"positives"`
	Mismatches   int                  `json:"mismatches"`
	Gaps         int                  `json:"gaps"`
	Significance *significance.Result `json:"significance,omitempty"`
}

// ScoreResponse represents the response for score-only alignment.
type ScoreResponse struct {
	Score int `json:"score"`
}

// Alignment serves the alignment endpoints with server-wide defaults.
type Alignment struct {
	Config *config.Config
}

// NewAlignment creates alignment handlers. A nil cfg uses config.Default.
func NewAlignment(cfg *config.Config) *Alignment {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Alignment{Config: cfg}
}

// parsed is a decoded and validated alignment request.
type parsed struct {
	seq1, seq2 *protalign.Sequence
	opts       protalign.Options
}

// parse decodes and validates an alignment request. Trial settings are
// checked only when withTrials is set; otherwise they are dropped.
func (h *Alignment) parse(r *http.Request, withTrials bool) (*parsed, error) {
	var req AlignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &badRequestError{msg: "invalid request body"}
	}

	if req.ID1 == "" {
		req.ID1 = "seq1"
	}
	if req.ID2 == "" {
		req.ID2 = "seq2"
	}

	seq1, err := sequence.WithMetadata(req.Sequence1, req.ID1, "")
	if err == nil {
		err = sequence.RequireNonEmpty(seq1)
	}
	if err != nil {
		return nil, fmt.Errorf("sequence1: %w", err)
	}

	seq2, err := sequence.WithMetadata(req.Sequence2, req.ID2, "")
	if err == nil {
		err = sequence.RequireNonEmpty(seq2)
	}
	if err != nil {
		return nil, fmt.Errorf("sequence2: %w", err)
	}

	cfg := *h.Config
	if req.GapCost != nil {
		cfg.GapCost = *req.GapCost
	}
	if req.Trials != nil {
		cfg.Trials = *req.Trials
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	if !withTrials {
		cfg.Trials = 0
	} else if err := cfg.ValidateTrials(cfg.Trials); err != nil {
		var trialErr *significance.InvalidTrialCountError
		if errors.As(err, &trialErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errTooManyTrials, err)
	}

	scoring, err := cfg.Scoring()
	if err != nil {
		return nil, err
	}

	return &parsed{
		seq1: seq1,
		seq2: seq2,
		opts: protalign.Options{
			Scoring: scoring,
			Trials:  cfg.Trials,
			Workers: cfg.Workers,
			Seed:    cfg.Seed,
		},
	}, nil
}

// badRequestError marks a malformed body.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func (h *Alignment) fail(w http.ResponseWriter, err error) {
	var bad *badRequestError
	if errors.As(err, &bad) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: bad.msg})
		return
	}
	writeError(w, "", err)
}

// Local handles local alignment requests, including the optional
// permutation test.
func (h *Alignment) Local(w http.ResponseWriter, r *http.Request) {
	p, err := h.parse(r, true)
	if err != nil {
		h.fail(w, err)
		return
	}

	cmp, err := protalign.Compare(r.Context(), p.seq1, p.seq2, p.opts)
	if err != nil {
		h.fail(w, err)
		return
	}

	a := cmp.Alignment
	writeJSON(w, http.StatusOK, AlignmentResponse{
		ID1:          cmp.ID1,
		ID2:          cmp.ID2,
		Score:        a.Score,
		Query:        a.Query,
		Match:        a.Match,
		Reference:    a.Reference,
		Start1:       a.Start1,
		End1:         a.End1,
		Start2:       a.Start2,
		End2:         a.End2,
		Identity:     a.Identity(),
		CIGAR:        a.ToCIGAR(),
		Matches:      a.MatchCount(),
		Positives:    a.PositiveCount(),
		Mismatches:   a.MismatchCount(),
		Gaps:         a.TotalGaps(),
		Significance: cmp.Significance,
	})
}

// Score handles score-only requests. Trial fields are ignored, including
// values the server would otherwise reject.
func (h *Alignment) Score(w http.ResponseWriter, r *http.Request) {
	p, err := h.parse(r, false)
	if err != nil {
		h.fail(w, err)
		return
	}

	score, err := protalign.Score(p.seq1, p.seq2, p.opts.Scoring)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ScoreResponse{Score: score})
}

// Report handles requests for the plain-text report.
func (h *Alignment) Report(w http.ResponseWriter, r *http.Request) {
	p, err := h.parse(r, true)
	if err != nil {
		h.fail(w, err)
		return
	}

	cmp, err := protalign.Compare(r.Context(), p.seq1, p.seq2, p.opts)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := protalign.WriteReport(w, cmp); err != nil {
		log.Printf("[%s] writing report: %v", chimiddleware.GetReqID(r.Context()), err)
	}
}
