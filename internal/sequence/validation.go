package sequence

import "fmt"

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is required to be non-empty.
type EmptySequenceError struct {
	ID string
}

func (e *EmptySequenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("sequence %q must have at least one residue", e.ID)
	}
	return "sequence must have at least one residue"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidResidueError is returned when a symbol outside the amino-acid
// alphabet is encountered. Position is -1 when the symbol was looked up
// on its own rather than as part of a sequence.
type InvalidResidueError struct {
	Position int
	Found    rune
}

func (e *InvalidResidueError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("invalid residue '%c'", e.Found)
	}
	return fmt.Sprintf("invalid residue '%c' at position %d", e.Found, e.Position)
}

func (e *InvalidResidueError) IsSequenceError() {}

// ValidateProtein validates that a string contains only the 20 standard
// amino acids. Lowercase input is accepted.
func ValidateProtein(residues string) error {
	for i, r := range residues {
		if !IsValidResidue(r) {
			return &InvalidResidueError{Position: i, Found: r}
		}
	}
	return nil
}

// IsValidResidue checks if a character is one of the 20 standard amino acids.
func IsValidResidue(c rune) bool {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c < 128 && validResidues[c]
}
