// Package stats provides statistical summaries for a decoded read.
//
// The summaries back the inspect report: base composition, quality
// distribution and the stretches of low-confidence calls a user should look
// at before trusting an alignment.
package stats

import (
	"fmt"

	"github.com/robertftenbosch/tenbio/internal/quality"
	"github.com/robertftenbosch/tenbio/internal/reads"
	"github.com/robertftenbosch/tenbio/internal/sequence"
)

// Defaults for low-quality run detection.
const (
	DefaultLowQualityThreshold = quality.QMedium
	DefaultMinRunLength        = 5
)

// SequenceStats represents statistics for a single sequence.
type SequenceStats struct {
	Length       int     `json:"length"`
	GCContent    float64 `json:"gc_content"`
	ATContent    float64 `json:"at_content"`
	ACount       int     `json:"a"`
	CCount       int     `json:"c"`
	GCount       int     `json:"g"`
	TCount       int     `json:"t"`
	NCount       int     `json:"n"`
	HasAmbiguous bool    `json:"has_ambiguous"`
}

// FromBases calculates statistics for an upper-case base string, which may
// be empty.
func FromBases(bases string) *SequenceStats {
	return FromSequence(&sequence.Sequence{Bases: bases})
}

// FromSequence calculates statistics for a sequence.
func FromSequence(seq *sequence.Sequence) *SequenceStats {
	counts := seq.BaseCounts()

	atContent := 0.0
	if seq.Len() > 0 {
		atContent = float64(counts.A+counts.T) / float64(seq.Len())
	}

	return &SequenceStats{
		Length:       seq.Len(),
		GCContent:    seq.GCContent(),
		ATContent:    atContent,
		ACount:       counts.A,
		CCount:       counts.C,
		GCount:       counts.G,
		TCount:       counts.T,
		NCount:       counts.N,
		HasAmbiguous: seq.HasAmbiguous(),
	}
}

func (s *SequenceStats) String() string {
	return fmt.Sprintf(`SequenceStats {
  length: %d
  GC content: %.1f%%
  AT content: %.1f%%
  A: %d, C: %d, G: %d, T: %d, N: %d
}`, s.Length, s.GCContent*100, s.ATContent*100,
		s.ACount, s.CCount, s.GCount, s.TCount, s.NCount)
}

// QualityDistribution counts bases per quality category.
type QualityDistribution struct {
	PoorCount      int `json:"poor"`
	LowCount       int `json:"low"`
	MediumCount    int `json:"medium"`
	HighCount      int `json:"high"`
	ExcellentCount int `json:"excellent"`
	Total          int `json:"total"`
}

// FromScores bins each base's score into its category.
func FromScores(values []int) *QualityDistribution {
	dist := &QualityDistribution{Total: len(values)}

	for _, q := range values {
		switch {
		case q >= quality.QExcellent:
			dist.ExcellentCount++
		case q >= quality.QHigh:
			dist.HighCount++
		case q >= quality.QMedium:
			dist.MediumCount++
		case q >= quality.QLow:
			dist.LowCount++
		default:
			dist.PoorCount++
		}
	}

	return dist
}

// AcceptableRatio returns proportion of bases at or above medium quality.
func (d *QualityDistribution) AcceptableRatio() float64 {
	acceptable := d.MediumCount + d.HighCount + d.ExcellentCount
	if d.Total == 0 {
		return 0.0
	}
	return float64(acceptable) / float64(d.Total)
}

func (d *QualityDistribution) String() string {
	return fmt.Sprintf(`QualityDistribution {
  Poor (Q<10): %d
  Low (Q10-20): %d
  Medium (Q20-30): %d
  High (Q30-40): %d
  Excellent (Q40+): %d
}`, d.PoorCount, d.LowCount, d.MediumCount, d.HighCount, d.ExcellentCount)
}

// ReadReport summarises one decoded read.
type ReadReport struct {
	Name           string               `json:"read_name"`
	Format         reads.Format         `json:"format"`
	NumReads       int                  `json:"num_reads"`
	Sequence       *SequenceStats       `json:"sequence"`
	Quality        *quality.Stats       `json:"quality"`
	Distribution   *QualityDistribution `json:"quality_distribution"`
	LowQualityRuns []quality.Run        `json:"low_quality_runs"`
	ExpectedErrors float64              `json:"expected_errors"`
	Trace          *reads.TraceInfo     `json:"trace,omitempty"`
}

// ReportOptions tunes low-quality run detection.
type ReportOptions struct {
	Threshold    int
	MinRunLength int
}

// FromRead builds the report for a decoded file. Zero options take the
// defaults.
func FromRead(d *reads.Decoded, opts ReportOptions) *ReadReport {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultLowQualityThreshold
	}
	if opts.MinRunLength <= 0 {
		opts.MinRunLength = DefaultMinRunLength
	}

	r := d.Read
	scores := r.Scores()

	return &ReadReport{
		Name:           r.Name(),
		Format:         r.Format(),
		NumReads:       d.NumReads,
		Sequence:       FromBases(r.Sequence()),
		Quality:        scores.Statistics(),
		Distribution:   FromScores(scores.Values),
		LowQualityRuns: scores.LowQualityRuns(opts.Threshold, opts.MinRunLength),
		ExpectedErrors: scores.ExpectedErrors(),
		Trace:          d.Trace,
	}
}

// ExtraReads reports how many records in the file were ignored.
func (r *ReadReport) ExtraReads() int {
	if r.NumReads <= 1 {
		return 0
	}
	return r.NumReads - 1
}
