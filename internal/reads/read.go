// Package reads decodes sequencing instrument output into a single Read.
//
// Two formats are understood: FASTQ text (four lines per record, Phred+33
// qualities) and ABIF capillary traces. Sniff decides which decoder applies;
// Decode runs it. Compressed uploads are inflated first.
package reads

import (
	"fmt"

	"github.com/robertftenbosch/tenbio/internal/quality"
	"github.com/robertftenbosch/tenbio/internal/sequence"
)

// Format identifies the file format a read was decoded from.
type Format string

// Supported formats.
const (
	FormatFASTQ Format = "fastq"
	FormatAB1   Format = "ab1"
)

func (f Format) String() string {
	return string(f)
}

// Read is a called nucleotide sequence with one Phred score per base.
// It is immutable once constructed.
type Read struct {
	name     string
	sequence string
	quality  []int
	format   Format
}

// NewRead validates and builds a Read. bases must already be upper-case
// A, C, G, T or N, and len(bases) must equal len(scores).
func NewRead(name, bases string, scores []int, format Format) (*Read, error) {
	if len(bases) != len(scores) {
		return nil, fmt.Errorf("sequence length %d does not match quality length %d", len(bases), len(scores))
	}
	for i := 0; i < len(bases); i++ {
		if !sequence.IsCall(bases[i]) {
			return nil, &sequence.InvalidBaseError{Position: i, Found: rune(bases[i])}
		}
	}
	q, err := quality.New(scores)
	if err != nil {
		return nil, err
	}

	return &Read{name: name, sequence: bases, quality: q.Values, format: format}, nil
}

// Name returns the read name.
func (r *Read) Name() string {
	return r.name
}

// Sequence returns the called bases.
func (r *Read) Sequence() string {
	return r.sequence
}

// Quality returns a copy of the per-base Phred scores.
func (r *Read) Quality() []int {
	out := make([]int, len(r.quality))
	copy(out, r.quality)
	return out
}

// Scores returns the qualities as quality.Scores for summary statistics.
func (r *Read) Scores() *quality.Scores {
	return &quality.Scores{Values: r.Quality()}
}

// Format returns the format the read was decoded from.
func (r *Read) Format() Format {
	return r.format
}

// Len returns the number of bases.
func (r *Read) Len() int {
	return len(r.sequence)
}

// AverageQuality is the mean Phred score rounded to one decimal, 0 for an
// empty read.
func (r *Read) AverageQuality() float64 {
	return (&quality.Scores{Values: r.quality}).MeanRounded()
}

func (r *Read) String() string {
	return fmt.Sprintf("Read { name: %s, format: %s, len: %d }", r.name, r.format, len(r.sequence))
}

// Decoded is the outcome of decoding a file: the first read plus the number
// of records the file held.
type Decoded struct {
	Read     *Read
	NumReads int
	// Trace is set for AB1 input only.
	Trace *TraceInfo
}
