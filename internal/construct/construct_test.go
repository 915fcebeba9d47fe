package construct

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertftenbosch/tenbio/internal/alignment"
)

var sampleParts = []Part{
	{Name: "pTac", Type: Promoter, Sequence: "AATTGTGAGCGGATAACAATT"},
	{Name: "B0034", Type: RBS, Sequence: "AAAGAGGAGAAA"},
	{Name: "GFP", Type: Gene, Sequence: "ATGGTGAGCAAGGGCGAGGAG"},
	{Name: "B0015", Type: Terminator, Sequence: "CCAGGCATCAAATAAAACGAAAGGCTCAGTCGAAAGACTGGGCCTTTCGTTTTATCTG"},
}

func TestNew(t *testing.T) {
	c, err := New(sampleParts)
	require.NoError(t, err)

	assert.Equal(t, 21+12+21+58, c.Len())
	assert.Equal(t, []Span{{0, 21}, {21, 33}, {33, 54}, {54, 112}}, c.Spans())
	assert.True(t, strings.HasPrefix(c.Reference(), "AATTGTGAGC"))

	for i, s := range c.Spans() {
		assert.Equal(t, len(sampleParts[i].Sequence), s.Len())
	}
}

func TestNewUpperCases(t *testing.T) {
	c, err := New([]Part{{Name: "p", Sequence: "acgt"}})
	require.NoError(t, err)
	assert.Equal(t, "ACGT", c.Reference())
	assert.Equal(t, "ACGT", c.Parts()[0].Sequence)
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name     string
		parts    []Part
		wantPart int
	}{
		{"nil parts", nil, -1},
		{"empty list", []Part{}, -1},
		{"empty sequence", []Part{{Name: "a", Sequence: "ACGT"}, {Name: "b"}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.parts)
			require.ErrorIs(t, err, ErrMalformedRequest)

			var mr *MalformedRequestError
			require.ErrorAs(t, err, &mr)
			assert.Equal(t, tt.wantPart, mr.Part)
		})
	}
}

func TestPartAt(t *testing.T) {
	c, err := New([]Part{{Name: "a", Sequence: "AAA"}, {Name: "b", Sequence: "C"}, {Name: "c", Sequence: "GG"}})
	require.NoError(t, err)

	want := []int{0, 0, 0, 1, 2, 2}
	for pos, idx := range want {
		assert.Equal(t, idx, c.PartAt(pos), "pos %d", pos)
	}
	assert.Equal(t, -1, c.PartAt(-1))
	assert.Equal(t, -1, c.PartAt(6))
}

func TestSegmentPerfectRead(t *testing.T) {
	c, err := New(sampleParts)
	require.NoError(t, err)

	a, err := alignment.NeedlemanWunsch(context.Background(), c.Reference(), c.Reference())
	require.NoError(t, err)

	results := c.Segment(a)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, sampleParts[i].Name, r.Name)
		assert.Equal(t, sampleParts[i].Type, r.Type)
		assert.Equal(t, len(sampleParts[i].Sequence), r.Length)
		assert.Equal(t, 100.0, r.Similarity)
	}
}

func TestSegmentPartialRead(t *testing.T) {
	c, err := New(sampleParts)
	require.NoError(t, err)

	// read covers the promoter and RBS only
	query := sampleParts[0].Sequence + sampleParts[1].Sequence
	a, err := alignment.NeedlemanWunsch(context.Background(), query, c.Reference())
	require.NoError(t, err)

	results := c.Segment(a)
	assert.Equal(t, 100.0, results[0].Similarity)
	assert.Equal(t, 100.0, results[1].Similarity)
	// deletion columns count against the parts the read did not reach
	assert.Equal(t, 0.0, results[2].Similarity)
	assert.Equal(t, 0.0, results[3].Similarity)
	assert.Equal(t, 21, results[2].Columns)
}

func TestSegmentPrefixReadSharingConstructTail(t *testing.T) {
	// the read is the promoter alone, and its last six bases also end the terminator
	c, err := New([]Part{
		{Name: "pL", Type: Promoter, Sequence: "TTGACAATTAATCATCGGCT"},
		{Name: "gfp", Type: Gene, Sequence: "ATGAGTAAAGGAGAAGAACTTTTCACTGGA"},
		{Name: "T1", Type: Terminator, Sequence: "CCAGGCATCAAATAAAACGAAAGGCTCAGTCGGCT"},
	})
	require.NoError(t, err)

	a, err := alignment.NeedlemanWunsch(context.Background(), c.Parts()[0].Sequence, c.Reference())
	require.NoError(t, err)

	results := c.Segment(a)
	assert.Equal(t, 100.0, results[0].Similarity)
	assert.Equal(t, 0.0, results[1].Similarity)
	assert.Equal(t, 0.0, results[2].Similarity)
	assert.Equal(t, 35, results[2].Columns)
}

func TestSegmentInsertionsUnattributed(t *testing.T) {
	c, err := New([]Part{{Name: "a", Sequence: "GATTACA"}, {Name: "b", Sequence: "GATTACA"}})
	require.NoError(t, err)

	a, err := alignment.NeedlemanWunsch(context.Background(), "GATTACCAGATTACA", c.Reference())
	require.NoError(t, err)
	require.Equal(t, 1, a.Insertions())

	results := c.Segment(a)
	total := 0
	for _, r := range results {
		total += r.Columns
	}
	assert.Equal(t, a.Length()-a.Insertions(), total)
	assert.Equal(t, 100.0, results[0].Similarity)
	assert.Equal(t, 100.0, results[1].Similarity)
}

func TestSegmentZeroColumns(t *testing.T) {
	c, err := New([]Part{{Name: "a", Sequence: "ACGT"}})
	require.NoError(t, err)

	results := c.Segment(&alignment.Alignment{})
	assert.Equal(t, 0.0, results[0].Similarity)
	assert.Equal(t, 0, results[0].Columns)
}

func TestSegmentMismatch(t *testing.T) {
	c, err := New([]Part{{Name: "a", Sequence: "ACGTACGT"}, {Name: "b", Sequence: "TTTT"}})
	require.NoError(t, err)

	a, err := alignment.NeedlemanWunsch(context.Background(), "ACGTACGTTTAT", c.Reference())
	require.NoError(t, err)

	results := c.Segment(a)
	assert.Equal(t, 100.0, results[0].Similarity)
	assert.Equal(t, 75.0, results[1].Similarity)
}

func TestParseFASTA(t *testing.T) {
	input := `>pTac promoter
AATTGTGAGC
GGATAACAATT

>B0034 RBS
AAAGAGGAGAAA
>spacer
ACGT
`
	parts, err := ParseFASTA(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parts, 3)

	assert.Equal(t, Part{Name: "pTac", Type: Promoter, Sequence: "AATTGTGAGCGGATAACAATT"}, parts[0])
	assert.Equal(t, Part{Name: "B0034", Type: RBS, Sequence: "AAAGAGGAGAAA"}, parts[1])
	assert.Equal(t, Part{Name: "spacer", Type: Other, Sequence: "ACGT"}, parts[2])

	_, err = ParseFASTA(strings.NewReader("ACGT\n>a\nAC\n"))
	require.Error(t, err)

	_, err = ParseFASTA(strings.NewReader(">\nAC\n"))
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	parts, err := Parse([]byte(`  [{"name":"GFP","type":"gene","sequence":"ATGGTG"}]`))
	require.NoError(t, err)
	assert.Equal(t, []Part{{Name: "GFP", Type: Gene, Sequence: "ATGGTG"}}, parts)

	parts, err = Parse([]byte(">GFP gene\nATGGTG\n"))
	require.NoError(t, err)
	assert.Equal(t, []Part{{Name: "GFP", Type: Gene, Sequence: "ATGGTG"}}, parts)

	_, err = Parse([]byte(`[{"name":`))
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.fasta")
	require.NoError(t, os.WriteFile(path, []byte(">a gene\nACGT\n"), 0o644))

	parts, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, parts, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
