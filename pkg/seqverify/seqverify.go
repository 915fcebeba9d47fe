// Package seqverify provides a high-level API for checking sequencing reads
// against a designed construct.
//
// Example usage:
//
//	parts, err := seqverify.ReadParts("design.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := seqverify.VerifyFile(ctx, "clone3.ab1", parts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Similarity: %.1f%%\n", resp.Alignment.OverallSimilarity)
package seqverify

import (
	"context"
	"fmt"
	"os"

	"github.com/robertftenbosch/tenbio/internal/alignment"
	"github.com/robertftenbosch/tenbio/internal/construct"
	"github.com/robertftenbosch/tenbio/internal/reads"
	"github.com/robertftenbosch/tenbio/internal/sequence"
	"github.com/robertftenbosch/tenbio/internal/stats"
	"github.com/robertftenbosch/tenbio/internal/verify"
)

// Re-export types for convenience
type (
	Part            = construct.Part
	PartType        = construct.PartType
	PartResult      = construct.PartResult
	Sequence        = sequence.Sequence
	Read            = reads.Read
	Format          = reads.Format
	Alignment       = alignment.Alignment
	ScoringMatrix   = alignment.ScoringMatrix
	Limits          = verify.Limits
	Importer        = verify.Importer
	Request         = verify.Request
	Response        = verify.Response
	ParseResult     = verify.ParseResult
	AlignmentResult = verify.AlignmentResult
	ReadReport      = stats.ReadReport
)

// Formats
const (
	FASTQ = reads.FormatFASTQ
	AB1   = reads.FormatAB1
)

// Part types
const (
	Promoter   = construct.Promoter
	RBS        = construct.RBS
	Gene       = construct.Gene
	Terminator = construct.Terminator
	Other      = construct.Other
)

// Error sentinels, for use with errors.Is.
var (
	ErrUnsupportedFormat = reads.ErrUnsupportedFormat
	ErrMalformedRead     = reads.ErrMalformedRead
	ErrMalformedRequest  = construct.ErrMalformedRequest
	ErrTooLarge          = reads.ErrTooLarge
)

// NewImporter creates an Importer with the default limits and scoring.
func NewImporter() *Importer {
	return verify.NewImporter(verify.DefaultLimits(), nil)
}

// DefaultScoring returns the verification scoring scheme.
func DefaultScoring() *ScoringMatrix {
	return alignment.DefaultDNA()
}

// NewSequence validates a DNA sequence.
func NewSequence(bases string) (*Sequence, error) {
	return sequence.New(bases)
}

// DecodeRead decodes FASTQ or AB1 content, possibly gzip or zstd
// compressed.
func DecodeRead(filename string, content []byte) (*Read, error) {
	d, err := reads.Decode(filename, content)
	if err != nil {
		return nil, err
	}
	return d.Read, nil
}

// ReadParts loads parts from a JSON or FASTA file.
func ReadParts(filename string) ([]Part, error) {
	return construct.ReadFile(filename)
}

// Align aligns query end to end against the concatenated parts, within the
// default limits. Exceeding a limit is ErrMalformedRequest.
func Align(ctx context.Context, query string, parts []Part) (*Alignment, error) {
	v, err := NewImporter().Verify(ctx, query, parts)
	if err != nil {
		return nil, err
	}
	return v.Alignment, nil
}

// VerifyFile decodes a read file and aligns it against parts. Nil parts
// only decodes.
func VerifyFile(ctx context.Context, filename string, parts []Part) (*Response, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewImporter().Import(ctx, Request{Filename: filename, Content: content, Parts: parts})
}

// Inspect decodes content and summarises the read.
func Inspect(filename string, content []byte) (*ReadReport, error) {
	d, err := reads.Decode(filename, content)
	if err != nil {
		return nil, err
	}
	return stats.FromRead(d, stats.ReportOptions{}), nil
}

// Version returns the seqverify version.
func Version() string {
	return "0.3.0"
}

// Info returns information about seqverify.
func Info() string {
	return fmt.Sprintf(`seqverify v%s - Sequencing Read Verification

Checks Sanger traces and FASTQ reads against a designed construct.

Features:
  - FASTQ and ABIF (.ab1) decoding, gzip and zstd aware
  - Affine-gap global alignment with N-neutral scoring
  - Per-part similarity across promoters, RBSs, genes and terminators
  - Read quality reports and SAM export
`, Version())
}
