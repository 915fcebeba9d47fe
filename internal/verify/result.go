package verify

import (
	"github.com/robertftenbosch/tenbio/internal/alignment"
	"github.com/robertftenbosch/tenbio/internal/construct"
	"github.com/robertftenbosch/tenbio/internal/reads"
)

// ParseResult describes the decoded read.
type ParseResult struct {
	Sequence       string       `json:"sequence"`
	AvgQuality     float64      `json:"avg_quality"`
	Format         reads.Format `json:"format"`
	ReadName       string       `json:"read_name"`
	NumReads       int          `json:"num_reads"`
	SequenceLength int          `json:"sequence_length"`
}

// NewParseResult summarises a decoded file.
func NewParseResult(d *reads.Decoded) ParseResult {
	return ParseResult{
		Sequence:       d.Read.Sequence(),
		AvgQuality:     d.Read.AverageQuality(),
		Format:         d.Read.Format(),
		ReadName:       d.Read.Name(),
		NumReads:       d.NumReads,
		SequenceLength: d.Read.Len(),
	}
}

// AlignmentResult is the outcome of aligning a read against a construct.
type AlignmentResult struct {
	OverallSimilarity float64                `json:"overall_similarity"`
	CoveragePercent   float64                `json:"coverage_percent"`
	MatchingBases     int                    `json:"matching_bases"`
	ReferenceLength   int                    `json:"reference_length"`
	QueryLength       int                    `json:"query_length"`
	PartResults       []construct.PartResult `json:"part_results"`
}

// NewAlignmentResult derives the reported figures from an alignment.
func NewAlignmentResult(a *alignment.Alignment, c *construct.Construct) *AlignmentResult {
	return &AlignmentResult{
		OverallSimilarity: a.OverallSimilarity(),
		CoveragePercent:   a.Coverage(),
		MatchingBases:     a.MatchingBases(),
		ReferenceLength:   a.ReferenceLength,
		QueryLength:       a.QueryLength,
		PartResults:       c.Segment(a),
	}
}

// Response is the full import result. Alignment is nil in decode-only mode.
type Response struct {
	ParseResult ParseResult      `json:"parse_result"`
	Alignment   *AlignmentResult `json:"alignment"`
}

// Verification keeps the intermediate values of a verify run for callers
// that render more than the Response, such as SAM export.
type Verification struct {
	Result    *AlignmentResult
	Alignment *alignment.Alignment
	Construct *construct.Construct
}
