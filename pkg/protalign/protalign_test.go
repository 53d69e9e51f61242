package protalign

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aria-lang/protalign-go/internal/sequence"
	"github.com/aria-lang/protalign-go/internal/significance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFASTA(t *testing.T) {
	input := `; comment line
>sp|P1 first protein
MKVL
aagw*

>P2
HEAGAWGHEE
`
	seqs, err := ParseFASTA(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, seqs, 2)

	assert.Equal(t, "sp|P1", seqs[0].ID)
	assert.Equal(t, "first protein", seqs[0].Description)
	assert.Equal(t, "MKVLAAGW", seqs[0].Residues)
	assert.Equal(t, "P2", seqs[1].ID)
	assert.Equal(t, "HEAGAWGHEE", seqs[1].Residues)
}

func TestParseFASTAErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errType interface{}
	}{
		{"empty record", ">a\n>b\nMKV\n", &sequence.EmptySequenceError{}},
		{"invalid residue", ">a\nMKB\n", nil},
		{"data before header", "MKV\n>a\nMKV\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFASTA(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.errType != nil {
				assert.IsType(t, tt.errType, err)
			}
		})
	}

	_, err := ParseFASTA(strings.NewReader(">a\nMKB\n"))
	var ire *sequence.InvalidResidueError
	assert.ErrorAs(t, err, &ire)
}

func TestReadFirstFASTA(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.fa")
	require.NoError(t, os.WriteFile(path, []byte(">q1\nMKVL\n>q2\nAAAA\n"), 0o644))

	seq, err := ReadFirstFASTA(path)
	require.NoError(t, err)
	assert.Equal(t, "q1", seq.ID)
	assert.Equal(t, "MKVL", seq.Residues)

	empty := filepath.Join(dir, "empty.fa")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	_, err = ReadFirstFASTA(empty)
	assert.Error(t, err)

	_, err = ReadFirstFASTA(filepath.Join(dir, "missing.fa"))
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	q, _ := NewSequenceWithID("AA", "q")
	r, _ := NewSequenceWithID("AA", "r")

	cmp, err := Compare(context.Background(), q, r, Options{})
	require.NoError(t, err)
	assert.Equal(t, 8, cmp.Alignment.Score)
	assert.Nil(t, cmp.Significance)
	assert.Equal(t, 3, cmp.Matrix.Rows)

	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, cmp))
	assert.Contains(t, sb.String(), "COMPARISON OF q AND r")
	assert.Contains(t, sb.String(), "Score Matrix:")
	assert.NotContains(t, sb.String(), "p-value")
}

func TestCompareWithTrials(t *testing.T) {
	q, _ := NewSequenceWithID("AAAA", "q")
	r, _ := NewSequenceWithID("AAAA", "r")

	calls := 0
	cmp, err := Compare(context.Background(), q, r, Options{
		Trials:  7,
		Workers: 1,
		Seed:    5,
		OnTrial: func(int) { calls++ },
	})
	require.NoError(t, err)
	require.NotNil(t, cmp.Significance)
	assert.Equal(t, 7, calls)
	assert.Equal(t, 16, cmp.Significance.Observed)
	assert.Equal(t, 1.0, cmp.Significance.PValue)

	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, cmp))
	assert.Contains(t, sb.String(), "p-value: 1\n")
}

func TestCompareErrors(t *testing.T) {
	q, _ := NewSequence("AA")

	_, err := Compare(context.Background(), q, q, Options{Trials: -1})
	assert.IsType(t, &significance.InvalidTrialCountError{}, err)

	bad, err := NewScoring(3)
	assert.Error(t, err)
	assert.Nil(t, bad)
}

func TestScoreAndAlign(t *testing.T) {
	q, _ := NewSequence("HEAGAWGHEE")
	r, _ := NewSequence("PAWHEAE")

	a, err := Align(q, r)
	require.NoError(t, err)

	s, err := Score(q, r, DefaultScoring())
	require.NoError(t, err)
	assert.Equal(t, a.Score, s)

	scoring, err := NewScoring(-8)
	require.NoError(t, err)
	b, err := AlignWithScoring(q, r, scoring)
	require.NoError(t, err)
	assert.LessOrEqual(t, b.Score, a.Score)

	p, err := PValue(context.Background(), q, r, nil, 10, 1)
	require.NoError(t, err)
	assert.Greater(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), Version())
}
