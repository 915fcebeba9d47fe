package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertftenbosch/tenbio/internal/alignment"
	"github.com/robertftenbosch/tenbio/internal/construct"
	"github.com/robertftenbosch/tenbio/internal/reads"
)

var parts = []construct.Part{
	{Name: "p1", Type: construct.Promoter, Sequence: "ACGTACGT"},
	{Name: "g1", Type: construct.Gene, Sequence: "TTTTGGGG"},
}

func fastq(name, seq string) []byte {
	return []byte("@" + name + "\n" + seq + "\n+\n" + strings.Repeat("I", len(seq)) + "\n")
}

func TestImportDecodeOnly(t *testing.T) {
	im := NewImporter(DefaultLimits(), nil)

	resp, err := im.Import(context.Background(), Request{
		Filename: "sample.fastq",
		Content:  fastq("read1 extra", "ACGTN"),
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Alignment)
	assert.Equal(t, ParseResult{
		Sequence:       "ACGTN",
		AvgQuality:     40,
		Format:         reads.FormatFASTQ,
		ReadName:       "read1",
		NumReads:       1,
		SequenceLength: 5,
	}, resp.ParseResult)
}

func TestImportVerify(t *testing.T) {
	im := NewImporter(DefaultLimits(), nil)

	resp, err := im.Import(context.Background(), Request{
		Filename: "sample.fq",
		Content:  fastq("r", "ACGTACGTTTTTGGGG"),
		Parts:    parts,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Alignment)

	a := resp.Alignment
	assert.Equal(t, 100.0, a.OverallSimilarity)
	assert.Equal(t, 100.0, a.CoveragePercent)
	assert.Equal(t, 16, a.MatchingBases)
	assert.Equal(t, 16, a.ReferenceLength)
	assert.Equal(t, 16, a.QueryLength)
	require.Len(t, a.PartResults, 2)
	assert.Equal(t, "p1", a.PartResults[0].Name)
	assert.Equal(t, construct.Gene, a.PartResults[1].Type)
	assert.Equal(t, 8, a.PartResults[1].Length)
	assert.Equal(t, 100.0, a.PartResults[1].Similarity)
}

func TestImportResponseJSON(t *testing.T) {
	im := NewImporter(DefaultLimits(), nil)

	resp, err := im.Import(context.Background(), Request{
		Filename: "sample.fastq",
		Content:  fastq("r", "ACGTACGTTTTTGGGA"),
		Parts:    parts,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	for _, key := range []string{"sequence", "avg_quality", "format", "read_name", "num_reads", "sequence_length"} {
		assert.Contains(t, doc["parse_result"], key)
	}
	for _, key := range []string{"overall_similarity", "coverage_percent", "matching_bases", "reference_length", "query_length", "part_results"} {
		assert.Contains(t, doc["alignment"], key)
	}
	assert.Equal(t, 93.8, doc["alignment"]["overall_similarity"])

	partsJSON := doc["alignment"]["part_results"].([]any)
	first := partsJSON[1].(map[string]any)
	assert.Equal(t, map[string]any{"name": "g1", "type": "gene", "length": 8.0, "similarity": 87.5}, first)
}

func TestImportDeterministic(t *testing.T) {
	im := NewImporter(DefaultLimits(), nil)
	req := Request{
		Filename: "sample.fastq",
		Content:  fastq("r", "ACGTACGTTTTAGGG"),
		Parts:    parts,
	}

	first, err := im.Import(context.Background(), req)
	require.NoError(t, err)
	want, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := im.Import(context.Background(), req)
		require.NoError(t, err)
		got, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}
}

func TestImportDecodeOnlyJSONHasNullAlignment(t *testing.T) {
	im := NewImporter(DefaultLimits(), nil)

	resp, err := im.Import(context.Background(), Request{Filename: "a.fastq", Content: fastq("r", "AC")})
	require.NoError(t, err)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"alignment":null`)
}

func TestImportErrors(t *testing.T) {
	small := DefaultLimits()
	small.MaxQueryBases = 4
	small.MaxReferenceBases = 10
	small.MaxUploadBytes = 64

	tests := []struct {
		name    string
		limits  Limits
		req     Request
		wantErr error
	}{
		{
			name:    "unsupported format",
			limits:  DefaultLimits(),
			req:     Request{Filename: "notes.txt", Content: []byte("hello")},
			wantErr: reads.ErrUnsupportedFormat,
		},
		{
			name:    "malformed fastq",
			limits:  DefaultLimits(),
			req:     Request{Filename: "a.fastq", Content: []byte("@r\nACGT\n+\nII\n")},
			wantErr: reads.ErrMalformedRead,
		},
		{
			name:    "empty parts list",
			limits:  DefaultLimits(),
			req:     Request{Filename: "a.fastq", Content: fastq("r", "ACGT"), Parts: []construct.Part{}},
			wantErr: construct.ErrMalformedRequest,
		},
		{
			name:    "part without sequence",
			limits:  DefaultLimits(),
			req:     Request{Filename: "a.fastq", Content: fastq("r", "ACGT"), Parts: []construct.Part{{Name: "x"}}},
			wantErr: construct.ErrMalformedRequest,
		},
		{
			name:    "upload too large",
			limits:  small,
			req:     Request{Filename: "a.fastq", Content: fastq("r", strings.Repeat("A", 40))},
			wantErr: reads.ErrTooLarge,
		},
		{
			name:    "read too long",
			limits:  small,
			req:     Request{Filename: "a.fastq", Content: fastq("r", "ACGTA"), Parts: parts[:1]},
			wantErr: construct.ErrMalformedRequest,
		},
		{
			name:    "construct too long",
			limits:  small,
			req:     Request{Filename: "a.fastq", Content: fastq("r", "ACGT"), Parts: parts},
			wantErr: construct.ErrMalformedRequest,
		},
		{
			name:    "too many cells",
			limits:  Limits{MaxCells: 10},
			req:     Request{Filename: "a.fastq", Content: fastq("r", "ACGT"), Parts: parts[:1]},
			wantErr: alignment.ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := NewImporter(tt.limits, nil)
			resp, err := im.Import(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
		})
	}
}

func TestImportCellLimitIsMalformedRequest(t *testing.T) {
	im := NewImporter(Limits{MaxCells: 10}, nil)
	_, err := im.Import(context.Background(), Request{Filename: "a.fastq", Content: fastq("r", "ACGT"), Parts: parts[:1]})
	require.ErrorIs(t, err, construct.ErrMalformedRequest)
}

func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := NewImporter(DefaultLimits(), nil)
	_, err := im.Import(ctx, Request{Filename: "a.fastq", Content: fastq("r", "ACGT"), Parts: parts})
	require.ErrorIs(t, err, context.Canceled)
}

func TestImportDetailed(t *testing.T) {
	im := NewImporter(DefaultLimits(), alignment.DefaultDNA())

	_, detail, err := im.ImportDetailed(context.Background(), Request{Filename: "a.fastq", Content: fastq("r", "ACGT")})
	require.NoError(t, err)
	assert.Nil(t, detail.Verification)
	assert.Equal(t, "ACGT", detail.Decoded.Read.Sequence())

	_, detail, err = im.ImportDetailed(context.Background(), Request{Filename: "a.fastq", Content: fastq("r", "ACGT"), Parts: parts})
	require.NoError(t, err)
	require.NotNil(t, detail.Verification)
	assert.Equal(t, 16, detail.Verification.Construct.Len())
}

func TestWriteSAM(t *testing.T) {
	im := NewImporter(DefaultLimits(), nil)
	_, detail, err := im.ImportDetailed(context.Background(), Request{
		Filename: "a.fastq",
		Content:  fastq("r1", "GGACGTACGT"),
		Parts:    parts[:1],
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSAM(&buf, "", detail.Decoded.Read, detail.Verification))

	out := buf.String()
	assert.Contains(t, out, "@SQ\tSN:construct\tLN:8")

	var record []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.HasPrefix(line, "@") {
			record = strings.Split(line, "\t")
		}
	}
	require.GreaterOrEqual(t, len(record), 11)
	assert.Equal(t, "r1", record[0])
	assert.Equal(t, "0", record[1])
	assert.Equal(t, "construct", record[2])
	assert.Equal(t, "1", record[3])
	assert.Equal(t, "2S8=", record[5])
	assert.Equal(t, "GGACGTACGT", record[9])
	assert.Equal(t, strings.Repeat("I", 10), record[10])
	// soft clips are not edits
	assert.Contains(t, out, "NM:i:0")
	assert.Contains(t, out, "AS:i:29")
}

func TestWriteSAMEditDistanceMatchesCigar(t *testing.T) {
	im := NewImporter(DefaultLimits(), nil)
	_, detail, err := im.ImportDetailed(context.Background(), Request{
		Filename: "a.fastq",
		Content:  fastq("r2", "ACGTTCGTTTTTG"),
		Parts:    parts,
	})
	require.NoError(t, err)
	require.Equal(t, "4=1X8=3D", detail.Verification.Alignment.CIGAR())

	var buf bytes.Buffer
	require.NoError(t, WriteSAM(&buf, "", detail.Decoded.Read, detail.Verification))

	out := buf.String()
	assert.Contains(t, out, "\t4=1X8=\t")
	assert.Contains(t, out, "NM:i:1")
}

func TestWriteSAMEmptyRead(t *testing.T) {
	im := NewImporter(DefaultLimits(), nil)
	_, detail, err := im.ImportDetailed(context.Background(), Request{
		Filename: "a.fastq",
		Content:  []byte("@empty\n\n+\n\n"),
		Parts:    parts[:1],
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSAM(&buf, "ref", detail.Decoded.Read, detail.Verification))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.True(t, strings.HasPrefix(line, "@"), line)
	}
	assert.Contains(t, buf.String(), "SN:ref")
}
