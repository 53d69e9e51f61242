// Package alignment provides Smith-Waterman local alignment of protein
// sequences scored with a substitution matrix and a linear gap cost.
package alignment

import (
	"fmt"
	"unicode/utf8"

	"github.com/aria-lang/protalign-go/internal/sequence"
)

// AlignDirection represents a traceback step in the score matrix.
type AlignDirection int

const (
	// Stop represents the end of a local alignment
	Stop AlignDirection = iota
	// Diagonal represents an aligned residue pair
	Diagonal
	// Up represents a gap in the reference
	Up
	// Left represents a gap in the query
	Left
)

func (d AlignDirection) String() string {
	switch d {
	case Stop:
		return "stop"
	case Diagonal:
		return "diagonal"
	case Up:
		return "up"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// DefaultGapCost is the linear penalty applied per gap position.
const DefaultGapCost = -4

// noResidue marks bytes outside the alphabet in the index table.
const noResidue = 0xff

// SubstitutionMatrix is an immutable symmetric table of pairwise residue
// scores over sequence.Alphabet.
type SubstitutionMatrix struct {
	name   string
	scores [sequence.AlphabetSize][sequence.AlphabetSize]int
}

// residueIndex maps both upper and lower case letters to their row in the
// matrix. Built once; never written afterwards.
var residueIndex = func() (t [256]uint8) {
	for i := range t {
		t[i] = noResidue
	}
	for i := 0; i < len(sequence.Alphabet); i++ {
		c := sequence.Alphabet[i]
		t[c] = uint8(i)
		t[c+('a'-'A')] = uint8(i)
	}
	return t
}()

var blosum62 = &SubstitutionMatrix{
	name: "BLOSUM62",
	scores: [sequence.AlphabetSize][sequence.AlphabetSize]int{
		//A   R   N   D   C   Q   E   G   H   I   L   K   M   F   P   S   T   W   Y   V
		{4, -1, -2, -2, 0, -1, -1, 0, -2, -1, -1, -1, -1, -2, -1, 1, 0, -3, -2, 0},
		{-1, 5, 0, -2, -3, 1, 0, -2, 0, -3, -2, 2, -1, -3, -2, -1, -1, -3, -2, -3},
		{-2, 0, 6, 1, -3, 0, 0, 0, 1, -3, -3, 0, -2, -3, -2, 1, 0, -4, -2, -3},
		{-2, -2, 1, 6, -3, 0, 2, -1, -1, -3, -4, -1, -3, -3, -1, 0, -1, -4, -3, -3},
		{0, -3, -3, -3, 9, -3, -4, -3, -3, -1, -1, -3, -1, -2, -3, -1, -1, -2, -2, -1},
		{-1, 1, 0, 0, -3, 5, 2, -2, 0, -3, -2, 1, 0, -3, -1, 0, -1, -2, -1, -2},
		{-1, 0, 0, 2, -4, 2, 5, -2, 0, -3, -3, 1, -2, -3, -1, 0, -1, -3, -2, -2},
		{0, -2, 0, -1, -3, -2, -2, 6, -2, -4, -4, -2, -3, -3, -2, 0, -2, -2, -3, -3},
		{-2, 0, 1, -1, -3, 0, 0, -2, 8, -3, -3, -1, -2, -1, -2, -1, -2, -2, 2, -3},
		{-1, -3, -3, -3, -1, -3, -3, -4, -3, 4, 2, -3, 1, 0, -3, -2, -1, -3, -1, 3},
		{-1, -2, -3, -4, -1, -2, -3, -4, -3, 2, 4, -2, 2, 0, -3, -2, -1, -2, -1, 1},
		{-1, 2, 0, -1, -3, 1, 1, -2, -1, -3, -2, 5, -1, -3, -1, 0, -1, -3, -2, -2},
		{-1, -1, -2, -3, -1, 0, -2, -3, -2, 1, 2, -1, 5, 0, -2, -1, -1, -1, -1, 1},
		{-2, -3, -3, -3, -2, -3, -3, -3, -1, 0, 0, -3, 0, 6, -4, -2, -2, 1, 3, -1},
		{-1, -2, -2, -1, -3, -1, -1, -2, -2, -3, -3, -1, -2, -4, 7, -1, -1, -4, -3, -2},
		{1, -1, 1, 0, -1, 0, 0, 0, -1, -2, -2, 0, -1, -2, -1, 4, 1, -3, -2, -2},
		{0, -1, 0, -1, -1, -1, -1, -2, -2, -1, -1, -1, -1, -2, -1, 1, 5, -2, -2, 0},
		{-3, -3, -4, -4, -2, -2, -3, -2, -2, -3, -2, -3, -1, 1, -4, -3, -2, 11, 2, -3},
		{-2, -2, -2, -3, -2, -1, -2, -3, 2, -1, -1, -2, -1, 3, -3, -2, -2, 2, 7, -1},
		{0, -3, -3, -3, -1, -2, -2, -3, -3, 3, 1, -2, 1, -1, -2, -2, 0, -3, -1, 4},
	},
}

// BLOSUM62 returns the standard BLOSUM62 substitution matrix. The returned
// value is shared and must not be modified.
func BLOSUM62() *SubstitutionMatrix {
	return blosum62
}

// Name returns the matrix name.
func (m *SubstitutionMatrix) Name() string {
	return m.name
}

// Score returns the substitution score for two residues. Lookup is
// case-insensitive; a symbol outside the alphabet is an error.
func (m *SubstitutionMatrix) Score(a, b byte) (int, error) {
	ia, ib := residueIndex[a], residueIndex[b]
	if ia == noResidue {
		return 0, &sequence.InvalidResidueError{Position: -1, Found: rune(a)}
	}
	if ib == noResidue {
		return 0, &sequence.InvalidResidueError{Position: -1, Found: rune(b)}
	}
	return m.scores[ia][ib], nil
}

// ScoreIndex returns the score for two residues already encoded by Encode.
func (m *SubstitutionMatrix) ScoreIndex(a, b uint8) int {
	return m.scores[a][b]
}

// Encode translates residues into matrix indices. Only the ASCII letters
// of the alphabet are accepted, in either case; any other byte, including
// the start of a multi-byte UTF-8 symbol, is an error.
func (m *SubstitutionMatrix) Encode(residues string) ([]uint8, error) {
	encoded := make([]uint8, len(residues))
	for i := 0; i < len(residues); i++ {
		idx := residueIndex[residues[i]]
		if idx == noResidue {
			found, _ := utf8.DecodeRuneInString(residues[i:])
			return nil, &sequence.InvalidResidueError{Position: i, Found: found}
		}
		encoded[i] = idx
	}
	return encoded, nil
}

func (m *SubstitutionMatrix) String() string {
	return fmt.Sprintf("SubstitutionMatrix { name: %s, alphabet: %s }", m.name, sequence.Alphabet)
}

// InvalidGapCostError is returned for a positive gap cost.
type InvalidGapCostError struct {
	Gap int
}

func (e *InvalidGapCostError) Error() string {
	return fmt.Sprintf("gap cost must be <= 0, got %d", e.Gap)
}

// Scoring bundles a substitution matrix with a linear gap cost.
type Scoring struct {
	Matrix *SubstitutionMatrix
	Gap    int
}

// NewScoring creates scoring parameters with validation. A nil matrix
// selects BLOSUM62.
//
// Contract:
//
//	requires gap <= 0
//	ensures result.Matrix != nil
func NewScoring(matrix *SubstitutionMatrix, gap int) (*Scoring, error) {
	if gap > 0 {
		return nil, &InvalidGapCostError{Gap: gap}
	}
	if matrix == nil {
		matrix = blosum62
	}
	return &Scoring{Matrix: matrix, Gap: gap}, nil
}

// DefaultProtein returns BLOSUM62 with the default linear gap cost.
func DefaultProtein() *Scoring {
	return &Scoring{Matrix: blosum62, Gap: DefaultGapCost}
}

func (s *Scoring) String() string {
	return fmt.Sprintf("Scoring { matrix: %s, gap: %d }", s.Matrix.Name(), s.Gap)
}
