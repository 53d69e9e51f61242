// Package handlers provides HTTP handlers for the protalign API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aria-lang/protalign-go/internal/alignment"
	"github.com/aria-lang/protalign-go/internal/sequence"
	"github.com/aria-lang/protalign-go/internal/significance"
	"github.com/aria-lang/protalign-go/pkg/protalign"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes it as JSON. Input errors
// are 400; everything else is 500.
func writeError(w http.ResponseWriter, prefix string, err error) {
	msg := err.Error()
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	writeJSON(w, statusFor(err), ErrorResponse{Error: msg})
}

func statusFor(err error) int {
	var seqErr sequence.SequenceError
	var gapErr *alignment.InvalidGapCostError
	var trialErr *significance.InvalidTrialCountError
	switch {
	case errors.As(err, &seqErr), errors.As(err, &gapErr), errors.As(err, &trialErr):
		return http.StatusBadRequest
	case errors.Is(err, errTooManyTrials):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// ValidateResponse represents the response for sequence validation.
type ValidateResponse struct {
	Valid       bool           `json:"valid"`
	Length      int            `json:"length"`
	Composition map[string]int `json:"composition,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// ValidateHandler reports whether a sequence is a valid protein and, if
// so, its residue composition.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	seq, err := protalign.NewSequence(req.Sequence)
	if err == nil {
		err = sequence.RequireNonEmpty(seq)
	}
	if err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false, Length: len(req.Sequence), Error: err.Error()})
		return
	}

	comp := make(map[string]int)
	for residue, n := range seq.Composition() {
		comp[string(residue)] = n
	}

	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:       true,
		Length:      seq.Len(),
		Composition: comp,
	})
}
