package alignment

import (
	"fmt"
	"strings"
)

// Gap is the symbol placed in a track opposite an inserted residue.
const Gap = '-'

// Positive marks a mismatched pair with a positive substitution score in
// the match track.
const Positive = '+'

// Alignment is the result of a local alignment between a query and a
// reference sequence.
//
// Query, Match and Reference always have equal length. Start1/Start2 are the
// 0-based positions of the first aligned residue; End1/End2 are exclusive.
// An alignment with Score 0 is empty.
type Alignment struct {
	Query     string
	Match     string
	Reference string
	Score     int
	Start1    int
	End1      int
	Start2    int
	End2      int
}

// IsEmpty reports whether the alignment has no columns.
func (a *Alignment) IsEmpty() bool {
	return len(a.Query) == 0
}

// Length returns the number of alignment columns.
func (a *Alignment) Length() int {
	return len(a.Query)
}

// Identity returns the fraction of columns holding identical residues.
func (a *Alignment) Identity() float64 {
	if len(a.Query) == 0 {
		return 0.0
	}
	return float64(a.MatchCount()) / float64(len(a.Query))
}

// MatchCount returns the number of identical residue pairs.
func (a *Alignment) MatchCount() int {
	count := 0
	for i := 0; i < len(a.Query); i++ {
		if a.Query[i] == a.Reference[i] && a.Query[i] != Gap {
			count++
		}
	}
	return count
}

// PositiveCount returns the number of pairs with a positive substitution
// score, identities included.
func (a *Alignment) PositiveCount() int {
	count := 0
	for i := 0; i < len(a.Match); i++ {
		if a.Match[i] != ' ' {
			count++
		}
	}
	return count
}

// MismatchCount returns the number of non-identical residue pairs.
func (a *Alignment) MismatchCount() int {
	count := 0
	for i := 0; i < len(a.Query); i++ {
		if a.Query[i] != a.Reference[i] &&
			a.Query[i] != Gap && a.Reference[i] != Gap {
			count++
		}
	}
	return count
}

// GapsQuery returns the number of gaps in the query track.
func (a *Alignment) GapsQuery() int {
	return strings.Count(a.Query, string(Gap))
}

// GapsReference returns the number of gaps in the reference track.
func (a *Alignment) GapsReference() int {
	return strings.Count(a.Reference, string(Gap))
}

// TotalGaps returns the total number of gaps.
func (a *Alignment) TotalGaps() int {
	return a.GapsQuery() + a.GapsReference()
}

// GapOpenings counts runs of consecutive gaps in either track.
func (a *Alignment) GapOpenings() int {
	openings := 0
	inGap1, inGap2 := false, false

	for i := 0; i < len(a.Query); i++ {
		if a.Query[i] == Gap && !inGap1 {
			openings++
			inGap1 = true
		} else if a.Query[i] != Gap {
			inGap1 = false
		}

		if a.Reference[i] == Gap && !inGap2 {
			openings++
			inGap2 = true
		} else if a.Reference[i] != Gap {
			inGap2 = false
		}
	}

	return openings
}

// ToCIGAR generates an extended CIGAR string (=, X, I, D) with the query as
// the read.
func (a *Alignment) ToCIGAR() string {
	if len(a.Query) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := 0; i < len(a.Query); i++ {
		var op byte
		switch {
		case a.Query[i] == Gap:
			op = 'D'
		case a.Reference[i] == Gap:
			op = 'I'
		case a.Query[i] == a.Reference[i]:
			op = '='
		default:
			op = 'X'
		}

		if op == currentOp {
			count++
			continue
		}
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
		currentOp = op
		count = 1
	}
	fmt.Fprintf(&cigar, "%d%c", count, currentOp)

	return cigar.String()
}

// Format returns the three tracks stacked, without wrapping.
func (a *Alignment) Format() string {
	return fmt.Sprintf("%s\n%s\n%s\nScore: %d\nIdentity: %.1f%%\nCIGAR: %s",
		a.Query, a.Match, a.Reference, a.Score, a.Identity()*100, a.ToCIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { score: %d, identity: %.1f%%, length: %d, query: [%d,%d), reference: [%d,%d) }",
		a.Score, a.Identity()*100, a.Length(), a.Start1, a.End1, a.Start2, a.End2)
}
