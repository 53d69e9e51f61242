// Package sequence provides protein sequence types with validation.
//
// A Sequence holds residues from the 20 standard amino acids. Input is
// case-insensitive and normalized to upper case at construction time;
// after that a Sequence is treated as immutable.
package sequence

import (
	"fmt"
	"strings"
)

// Alphabet lists the 20 standard amino acids in BLOSUM row order.
const Alphabet = "ARNDCQEGHILKMFPSTWYV"

// AlphabetSize is the number of residues in Alphabet.
const AlphabetSize = len(Alphabet)

var validResidues = func() (t [128]bool) {
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = true
	}
	return t
}()

// Sequence represents a validated protein sequence.
//
// An empty Sequence is valid: aligning against nothing is well defined and
// scores zero. Use RequireNonEmpty at input boundaries that need residues.
type Sequence struct {
	Residues    string
	ID          string
	Description string
}

// New creates a new protein sequence with validation. Residues are
// checked before they are upper-cased, so only ASCII letters are folded.
//
// Contract:
//
//	requires every residue in Alphabet, either case
//	ensures result.Residues == upper(residues)
func New(residues string) (*Sequence, error) {
	if err := ValidateProtein(residues); err != nil {
		return nil, err
	}

	return &Sequence{Residues: strings.ToUpper(residues)}, nil
}

// WithID creates a new sequence with an identifier.
func WithID(residues, id string) (*Sequence, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	seq, err := New(residues)
	if err != nil {
		return nil, err
	}

	seq.ID = id
	return seq, nil
}

// WithMetadata creates a new sequence with full metadata.
func WithMetadata(residues, id, description string) (*Sequence, error) {
	seq, err := New(residues)
	if err != nil {
		return nil, err
	}

	seq.ID = id
	seq.Description = description
	return seq, nil
}

// RequireNonEmpty returns an EmptySequenceError if seq has no residues.
func RequireNonEmpty(seq *Sequence) error {
	if seq == nil || seq.IsEmpty() {
		id := ""
		if seq != nil {
			id = seq.ID
		}
		return &EmptySequenceError{ID: id}
	}
	return nil
}

// Len returns the length of the sequence.
func (s *Sequence) Len() int {
	return len(s.Residues)
}

// IsEmpty reports whether the sequence has no residues.
func (s *Sequence) IsEmpty() bool {
	return len(s.Residues) == 0
}

// Composition counts each residue of the sequence. Residues that do not
// occur are omitted.
func (s *Sequence) Composition() map[byte]int {
	counts := make(map[byte]int)
	for i := 0; i < len(s.Residues); i++ {
		counts[s.Residues[i]]++
	}
	return counts
}

func (s *Sequence) String() string {
	if len(s.Residues) <= 20 {
		return fmt.Sprintf("Sequence(%s)", s.Residues)
	}
	return fmt.Sprintf("Sequence(%s...%s, len=%d)",
		s.Residues[:10], s.Residues[len(s.Residues)-10:], len(s.Residues))
}
