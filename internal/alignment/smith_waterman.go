package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/protalign-go/internal/sequence"
)

// Cell is a position in a score matrix together with its value.
type Cell struct {
	Score int
	I     int
	J     int
}

// ScoreMatrix is the filled Smith-Waterman matrix H for a query/reference
// pair. It has Rows = len(query)+1 and Cols = len(reference)+1; row 0 and
// column 0 are zero and no cell is negative. A ScoreMatrix is never
// modified after BuildScoreMatrix returns.
type ScoreMatrix struct {
	Rows int
	Cols int

	cells     []int
	query     string
	reference string
	q, r      []uint8
	scoring   *Scoring
}

// BuildScoreMatrix fills the local-alignment score matrix:
//
//	H[i][j] = max(0,
//	              H[i-1][j-1] + score(query[i-1], reference[j-1]),
//	              H[i-1][j]   + gap,
//	              H[i][j-1]   + gap)
//
// A nil scoring selects DefaultProtein. Residues outside the alphabet fail
// with a *sequence.InvalidResidueError before any cell is computed.
//
// Contract:
//
//	requires scoring == nil or scoring.Gap <= 0
//	ensures result.Rows == len(query)+1 and result.Cols == len(reference)+1
//	ensures result.At(i, j) >= 0 for every cell
func BuildScoreMatrix(query, reference string, scoring *Scoring) (*ScoreMatrix, error) {
	if scoring == nil {
		scoring = DefaultProtein()
	}
	if scoring.Gap > 0 {
		return nil, &InvalidGapCostError{Gap: scoring.Gap}
	}

	q, err := scoring.Matrix.Encode(query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	r, err := scoring.Matrix.Encode(reference)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	// Both inputs are ASCII once encoded.
	query, reference = strings.ToUpper(query), strings.ToUpper(reference)

	m, n := len(q), len(r)
	h := &ScoreMatrix{
		Rows:      m + 1,
		Cols:      n + 1,
		cells:     make([]int, (m+1)*(n+1)),
		query:     query,
		reference: reference,
		q:         q,
		r:         r,
		scoring:   scoring,
	}

	gap := scoring.Gap
	cols := n + 1
	for i := 1; i <= m; i++ {
		prev := h.cells[(i-1)*cols : i*cols]
		curr := h.cells[i*cols : (i+1)*cols]
		qi := q[i-1]
		for j := 1; j <= n; j++ {
			best := 0
			if diag := prev[j-1] + scoring.Matrix.ScoreIndex(qi, r[j-1]); diag > best {
				best = diag
			}
			if up := prev[j] + gap; up > best {
				best = up
			}
			if left := curr[j-1] + gap; left > best {
				best = left
			}
			curr[j] = best
		}
	}

	return h, nil
}

// At returns H[i][j].
func (h *ScoreMatrix) At(i, j int) int {
	return h.cells[i*h.Cols+j]
}

// Row returns a copy of row i.
func (h *ScoreMatrix) Row(i int) []int {
	row := make([]int, h.Cols)
	copy(row, h.cells[i*h.Cols:(i+1)*h.Cols])
	return row
}

// Query returns the upper-cased query residues.
func (h *ScoreMatrix) Query() string {
	return h.query
}

// Reference returns the upper-cased reference residues.
func (h *ScoreMatrix) Reference() string {
	return h.reference
}

// Best returns the maximum cell over the whole matrix, last row and column
// included. Ties go to the first cell in row-major order. When no cell is
// positive the zero Cell is returned.
//
// Contract:
//
//	ensures result.Score == max(At(i, j)) over the whole matrix
//	ensures no cell before result in row-major order holds result.Score
func (h *ScoreMatrix) Best() Cell {
	best := Cell{}
	for i := 1; i < h.Rows; i++ {
		row := h.cells[i*h.Cols : (i+1)*h.Cols]
		for j := 1; j < h.Cols; j++ {
			if row[j] > best.Score {
				best = Cell{Score: row[j], I: i, J: j}
			}
		}
	}
	return best
}

// Provenance reports which neighbour produced H[i][j], testing diagonal,
// then up, then left. Cells with value 0 (and the border) report Stop.
func (h *ScoreMatrix) Provenance(i, j int) AlignDirection {
	if i <= 0 || j <= 0 {
		return Stop
	}
	v := h.At(i, j)
	if v == 0 {
		return Stop
	}
	if v == h.At(i-1, j-1)+h.scoring.Matrix.ScoreIndex(h.q[i-1], h.r[j-1]) {
		return Diagonal
	}
	if v == h.At(i-1, j)+h.scoring.Gap {
		return Up
	}
	return Left
}

// Traceback walks from end back to the first zero cell and returns the
// alignment ending there. The result is newly allocated and owned by the
// caller.
//
// Contract:
//
//	requires end is a cell of h
//	ensures len(result.Query) == len(result.Match) == len(result.Reference)
//	ensures result.Score == h.At(end.I, end.J)
func (h *ScoreMatrix) Traceback(end Cell) *Alignment {
	i, j := end.I, end.J
	capacity := i + j
	query := make([]byte, 0, capacity)
	match := make([]byte, 0, capacity)
	reference := make([]byte, 0, capacity)

	for {
		switch h.Provenance(i, j) {
		case Diagonal:
			a, b := h.query[i-1], h.reference[j-1]
			query = append(query, a)
			reference = append(reference, b)
			switch {
			case a == b:
				match = append(match, a)
			case h.scoring.Matrix.ScoreIndex(h.q[i-1], h.r[j-1]) > 0:
				match = append(match, Positive)
			default:
				match = append(match, ' ')
			}
			i--
			j--
			continue
		case Up:
			query = append(query, h.query[i-1])
			match = append(match, ' ')
			reference = append(reference, Gap)
			i--
			continue
		case Left:
			query = append(query, Gap)
			match = append(match, ' ')
			reference = append(reference, h.reference[j-1])
			j--
			continue
		}
		break
	}

	reverseBytes(query)
	reverseBytes(match)
	reverseBytes(reference)

	a := &Alignment{
		Query:     string(query),
		Match:     string(match),
		Reference: string(reference),
		Score:     h.At(end.I, end.J),
		Start1:    i,
		End1:      end.I,
		Start2:    j,
		End2:      end.J,
	}
	if a.IsEmpty() {
		a.Start1, a.End1, a.Start2, a.End2 = 0, 0, 0, 0
	}
	return a
}

// reverseBytes reverses b in place.
func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// SmithWaterman performs local alignment of seq1 (query) against seq2
// (reference). Empty sequences produce an empty, zero-score alignment.
//
// Contract:
//
//	requires seq1 != nil and seq2 != nil
//	ensures result.Score >= 0
//	ensures result.Score == AlignmentScoreOnly(seq1, seq2, scoring)
func SmithWaterman(seq1, seq2 *sequence.Sequence, scoring *Scoring) (*Alignment, error) {
	h, err := Build(seq1, seq2, scoring)
	if err != nil {
		return nil, err
	}
	return h.Traceback(h.Best()), nil
}

// Build is BuildScoreMatrix over two sequences.
func Build(seq1, seq2 *sequence.Sequence, scoring *Scoring) (*ScoreMatrix, error) {
	if seq1 == nil || seq2 == nil {
		return nil, fmt.Errorf("sequences must not be nil")
	}
	return BuildScoreMatrix(seq1.Residues, seq2.Residues, scoring)
}

// LocalScore returns the best local alignment score of two encoded
// sequences using two rows of working memory. It always equals
// BuildScoreMatrix(...).Best().Score for the same input.
func LocalScore(a, b []uint8, scoring *Scoring) int {
	return localScore(a, b, scoring, make([]int, len(b)+1), make([]int, len(b)+1))
}

// localScore is LocalScore with caller-provided rows of length len(b)+1.
func localScore(a, b []uint8, scoring *Scoring, prevRow, currRow []int) int {
	for j := range prevRow {
		prevRow[j] = 0
	}
	currRow[0] = 0

	gap := scoring.Gap
	maxScore := 0

	for i := 0; i < len(a); i++ {
		ai := a[i]
		for j := 1; j <= len(b); j++ {
			best := 0
			if diag := prevRow[j-1] + scoring.Matrix.ScoreIndex(ai, b[j-1]); diag > best {
				best = diag
			}
			if up := prevRow[j] + gap; up > best {
				best = up
			}
			if left := currRow[j-1] + gap; left > best {
				best = left
			}
			currRow[j] = best

			if best > maxScore {
				maxScore = best
			}
		}

		prevRow, currRow = currRow, prevRow
	}

	return maxScore
}

// Scorer computes local scores repeatedly against one fixed query, reusing
// its working rows. A Scorer is not safe for concurrent use; give each
// goroutine its own.
type Scorer struct {
	query   []uint8
	scoring *Scoring
	prev    []int
	curr    []int
}

// NewScorer creates a Scorer for an encoded query.
func NewScorer(query []uint8, scoring *Scoring) *Scorer {
	return &Scorer{query: query, scoring: scoring}
}

// Score returns the best local score of the query against reference.
func (s *Scorer) Score(reference []uint8) int {
	if cap(s.prev) < len(reference)+1 {
		s.prev = make([]int, len(reference)+1)
		s.curr = make([]int, len(reference)+1)
	}
	return localScore(s.query, reference, s.scoring, s.prev[:len(reference)+1], s.curr[:len(reference)+1])
}

// AlignmentScoreOnly calculates the alignment score without traceback.
//
// Contract:
//
//	requires seq1 != nil and seq2 != nil
//	ensures result == Build(seq1, seq2, scoring).Best().Score
func AlignmentScoreOnly(seq1, seq2 *sequence.Sequence, scoring *Scoring) (int, error) {
	if scoring == nil {
		scoring = DefaultProtein()
	}
	if scoring.Gap > 0 {
		return 0, &InvalidGapCostError{Gap: scoring.Gap}
	}
	if seq1 == nil || seq2 == nil {
		return 0, fmt.Errorf("sequences must not be nil")
	}

	a, err := scoring.Matrix.Encode(seq1.Residues)
	if err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	b, err := scoring.Matrix.Encode(seq2.Residues)
	if err != nil {
		return 0, fmt.Errorf("reference: %w", err)
	}

	return LocalScore(a, b, scoring), nil
}
