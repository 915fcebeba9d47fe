package seqverify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyFile(t *testing.T) {
	dir := t.TempDir()
	readPath := filepath.Join(dir, "clone.fastq")
	require.NoError(t, os.WriteFile(readPath, []byte("@clone1\nACGTACGTGGGG\n+\nIIIIIIIIIIII\n"), 0o644))
	partsPath := filepath.Join(dir, "design.fasta")
	require.NoError(t, os.WriteFile(partsPath, []byte(">p promoter\nACGTACGT\n>g gene\nGGGG\n"), 0o644))

	parts, err := ReadParts(partsPath)
	require.NoError(t, err)

	resp, err := VerifyFile(context.Background(), readPath, parts)
	require.NoError(t, err)
	assert.Equal(t, "clone1", resp.ParseResult.ReadName)
	assert.Equal(t, 100.0, resp.Alignment.OverallSimilarity)
	assert.Equal(t, Gene, resp.Alignment.PartResults[1].Type)

	resp, err = VerifyFile(context.Background(), readPath, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Alignment)

	_, err = VerifyFile(context.Background(), filepath.Join(dir, "missing.ab1"), nil)
	require.Error(t, err)
}

func TestDecodeAndInspect(t *testing.T) {
	content := []byte("@r\nACGN\n+\n#I5I\n")

	read, err := DecodeRead("r.fq", content)
	require.NoError(t, err)
	assert.Equal(t, FASTQ, read.Format())
	assert.Equal(t, []int{2, 40, 20, 40}, read.Quality())

	report, err := Inspect("r.fq", content)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sequence.NCount)

	_, err = DecodeRead("r.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAlign(t *testing.T) {
	a, err := Align(context.Background(), "ACGTACGT", []Part{{Name: "a", Sequence: "ACGT"}, {Name: "b", Sequence: "ACGT"}})
	require.NoError(t, err)
	assert.Equal(t, "8=", a.CIGAR())

	_, err = Align(context.Background(), "ACGT", nil)
	assert.ErrorIs(t, err, ErrMalformedRequest)

	long := strings.Repeat("A", NewImporter().Limits.MaxQueryBases+1)
	_, err = Align(context.Background(), long, []Part{{Name: "a", Sequence: "ACGT"}})
	assert.ErrorIs(t, err, ErrMalformedRequest)
}

func TestNewSequence(t *testing.T) {
	seq, err := NewSequence("ggcc")
	require.NoError(t, err)
	assert.Equal(t, 1.0, seq.GCContent())

	_, err = NewSequence("")
	require.Error(t, err)
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), Version())
	assert.Equal(t, 5, DefaultScoring().MatchScore)
}
