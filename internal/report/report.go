// Package report renders alignment results as plain text.
//
// Layout:
//
//	COMPARISON OF <id1> AND <id2>
//
//	Score:<score>
//
//	Alignment:
//	<id1>:	<pos>	<query, 60 columns>
//				<match>
//	<id2>:	<pos>	<reference>
//
//	... further 60-column blocks, separated by blank lines ...
//
//	Score Matrix:          (only when both sequences are shorter than 15)
//	[0, 0, 0]
//	...
//
//	p-value: <p>           (only when a permutation test was run)
//
// Position counters are 0-based and advance past every residue printed in
// the block, skipping gaps.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aria-lang/protalign-go/internal/alignment"
	"github.com/aria-lang/protalign-go/internal/significance"
)

const (
	// Width is the number of alignment columns per block.
	Width = 60
	// MatrixDumpLimit is the exclusive sequence length below which the
	// score matrix is printed.
	MatrixDumpLimit = 15
)

// Report holds everything rendered for one comparison.
type Report struct {
	ID1       string
	ID2       string
	Alignment *alignment.Alignment
	// Matrix is optional; when set and both sequences are short it is dumped.
	Matrix *alignment.ScoreMatrix
	// Significance is nil when no permutation test was run.
	Significance *significance.Result
}

// Write renders r to w.
func Write(w io.Writer, r *Report) error {
	if r == nil || r.Alignment == nil {
		return fmt.Errorf("report has no alignment")
	}

	var buf bytes.Buffer
	a := r.Alignment

	fmt.Fprintf(&buf, "COMPARISON OF %s AND %s\n\n", r.ID1, r.ID2)
	fmt.Fprintf(&buf, "Score:%d\n\n", a.Score)
	buf.WriteString("Alignment:\n")

	if a.IsEmpty() {
		buf.WriteString("(no positive-scoring local alignment)\n")
	} else {
		writeBlocks(&buf, r.ID1, r.ID2, a)
	}

	if h := r.Matrix; h != nil && h.Rows-1 < MatrixDumpLimit && h.Cols-1 < MatrixDumpLimit {
		buf.WriteString("\nScore Matrix:\n")
		for i := 0; i < h.Rows; i++ {
			buf.WriteString(formatRow(h.Row(i)))
			buf.WriteByte('\n')
		}
	}

	if s := r.Significance; s != nil {
		fmt.Fprintf(&buf, "\np-value: %s\n", strconv.FormatFloat(s.PValue, 'f', -1, 64))
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// String renders r, or returns the error text if it cannot be rendered.
func (r *Report) String() string {
	var sb strings.Builder
	if err := Write(&sb, r); err != nil {
		return err.Error()
	}
	return sb.String()
}

// writeBlocks writes the three tracks in Width-column blocks.
func writeBlocks(buf *bytes.Buffer, id1, id2 string, a *alignment.Alignment) {
	i, j := a.Start1, a.Start2

	for start := 0; start < len(a.Query); start += Width {
		end := start + Width
		if end > len(a.Query) {
			end = len(a.Query)
		}
		if start > 0 {
			buf.WriteByte('\n')
		}

		q, m, ref := a.Query[start:end], a.Match[start:end], a.Reference[start:end]
		fmt.Fprintf(buf, "%s:\t%d\t%s\n", id1, i, q)
		fmt.Fprintf(buf, "\t\t\t%s\n", m)
		fmt.Fprintf(buf, "%s:\t%d\t%s\n", id2, j, ref)

		i += len(q) - strings.Count(q, string(alignment.Gap))
		j += len(ref) - strings.Count(ref, string(alignment.Gap))
	}
}

// formatRow formats a matrix row as [a, b, c].
func formatRow(row []int) string {
	parts := make([]string, len(row))
	for k, v := range row {
		parts[k] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
