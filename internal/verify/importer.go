// Package verify composes read decoding, alignment and part segmentation
// into a single import operation.
//
// An import has two modes. Without parts it only decodes the file. With
// parts (even an empty list, which is rejected) it also aligns the read
// against the concatenated construct and reports per-part similarity.
package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/robertftenbosch/tenbio/internal/alignment"
	"github.com/robertftenbosch/tenbio/internal/construct"
	"github.com/robertftenbosch/tenbio/internal/reads"
)

// Limits bound the work a single request may cause.
type Limits struct {
	MaxUploadBytes    int64 `mapstructure:"upload-bytes"`
	MaxQueryBases     int   `mapstructure:"query-bases"`
	MaxReferenceBases int   `mapstructure:"reference-bases"`
	MaxCells          int64 `mapstructure:"cells"`
}

// DefaultLimits: 50 MiB uploads, 20 000 base reads, 100 000 base
// constructs and 40 million alignment cells.
func DefaultLimits() Limits {
	return Limits{
		MaxUploadBytes:    50 << 20,
		MaxQueryBases:     20_000,
		MaxReferenceBases: 100_000,
		MaxCells:          40_000_000,
	}
}

// Request is one import. Parts == nil selects decode-only mode.
type Request struct {
	Filename string
	Content  []byte
	Parts    []construct.Part
}

// Importer runs imports. It holds no per-request state and is safe for
// concurrent use.
type Importer struct {
	Limits  Limits
	Scoring *alignment.ScoringMatrix
}

// NewImporter creates an Importer; a nil scoring uses alignment.DefaultDNA.
func NewImporter(limits Limits, scoring *alignment.ScoringMatrix) *Importer {
	if scoring == nil {
		scoring = alignment.DefaultDNA()
	}
	return &Importer{Limits: limits, Scoring: scoring}
}

// Import decodes the file and, when parts are given, verifies the read
// against them.
func (im *Importer) Import(ctx context.Context, req Request) (*Response, error) {
	resp, _, err := im.ImportDetailed(ctx, req)
	return resp, err
}

// ImportDetailed is Import that also returns the decoded read and the
// verification internals. The Verification is nil in decode-only mode.
func (im *Importer) ImportDetailed(ctx context.Context, req Request) (*Response, *Detail, error) {
	decoded, err := im.Decode(req.Filename, req.Content)
	if err != nil {
		return nil, nil, err
	}

	resp := &Response{ParseResult: NewParseResult(decoded)}
	detail := &Detail{Decoded: decoded}
	if req.Parts == nil {
		return resp, detail, nil
	}

	v, err := im.Verify(ctx, decoded.Read.Sequence(), req.Parts)
	if err != nil {
		return nil, nil, err
	}
	resp.Alignment = v.Result
	detail.Verification = v

	return resp, detail, nil
}

// Detail carries the values behind a Response.
type Detail struct {
	Decoded      *reads.Decoded
	Verification *Verification
}

// Decode decodes a file within the upload limit.
func (im *Importer) Decode(filename string, content []byte) (*reads.Decoded, error) {
	dec := reads.Decoder{MaxSize: im.Limits.MaxUploadBytes}
	return dec.Decode(filename, content)
}

// Verify aligns query against the construct built from parts.
func (im *Importer) Verify(ctx context.Context, query string, parts []construct.Part) (*Verification, error) {
	c, err := construct.New(parts)
	if err != nil {
		return nil, err
	}

	if max := im.Limits.MaxQueryBases; max > 0 && len(query) > max {
		return nil, construct.Malformed(fmt.Sprintf("read of %d bases exceeds the %d base limit", len(query), max), nil)
	}
	if max := im.Limits.MaxReferenceBases; max > 0 && c.Len() > max {
		return nil, construct.Malformed(fmt.Sprintf("construct of %d bases exceeds the %d base limit", c.Len(), max), nil)
	}

	al := alignment.Aligner{Scoring: im.Scoring, MaxCells: im.Limits.MaxCells}
	a, err := al.Align(ctx, query, c.Reference())
	switch {
	case errors.Is(err, alignment.ErrTooLarge), errors.Is(err, alignment.ErrEmptyReference):
		return nil, construct.Malformed(err.Error(), err)
	case err != nil:
		return nil, err
	}

	return &Verification{
		Result:    NewAlignmentResult(a, c),
		Alignment: a,
		Construct: c,
	}, nil
}
