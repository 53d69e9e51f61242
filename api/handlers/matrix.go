package handlers

import (
	"net/http"

	"github.com/aria-lang/protalign-go/internal/alignment"
	"github.com/go-chi/chi/v5"
)

// MatrixScoreResponse represents one substitution matrix lookup.
type MatrixScoreResponse struct {
	Matrix string `json:"matrix"`
	A      string `json:"a"`
	B      string `json:"b"`
	Score  int    `json:"score"`
}

// MatrixScoreHandler returns the BLOSUM62 score for the residues in the
// {a} and {b} URL parameters.
func MatrixScoreHandler(w http.ResponseWriter, r *http.Request) {
	a, b := chi.URLParam(r, "a"), chi.URLParam(r, "b")
	if len(a) != 1 || len(b) != 1 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "residues must be single characters"})
		return
	}

	m := alignment.BLOSUM62()
	score, err := m.Score(a[0], b[0])
	if err != nil {
		writeError(w, "", err)
		return
	}

	writeJSON(w, http.StatusOK, MatrixScoreResponse{
		Matrix: m.Name(),
		A:      a,
		B:      b,
		Score:  score,
	})
}
