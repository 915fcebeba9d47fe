// Package quality provides Phred quality score handling for sequencing reads.
//
// Phred quality scores are logarithmically related to base-calling error probabilities:
//
//	Q = -10 * log10(P_error)
//
// Common thresholds:
//
//	Q10 = 90% accuracy
//	Q20 = 99% accuracy
//	Q30 = 99.9% accuracy (typical threshold for "high quality")
//	Q40 = 99.99% accuracy
//
// FASTQ text uses the fixed Phred+33 offset. Capillary traces carry raw
// scores, which go through New directly.
package quality

import (
	"fmt"
	"math"
	"sort"
)

// Constants for Phred scores. PhredMax is the largest value Phred+33 text
// can express ('~').
const (
	PhredMin = 0
	PhredMax = 93

	// PhredOffset is the ASCII offset of FASTQ quality text.
	PhredOffset = 33
)

// Quality thresholds
const (
	QLow       = 10 // 90% accuracy
	QMedium    = 20 // 99% accuracy
	QHigh      = 30 // 99.9% accuracy
	QExcellent = 40 // 99.99% accuracy
)

// Category represents quality category.
type Category int

const (
	// Poor represents quality < 10
	Poor Category = iota
	// Low represents quality 10-20
	Low
	// Medium represents quality 20-30
	Medium
	// High represents quality 30-40
	High
	// Excellent represents quality >= 40
	Excellent
)

func (c Category) String() string {
	switch c {
	case Poor:
		return "Poor"
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	case Excellent:
		return "Excellent"
	default:
		return "Unknown"
	}
}

// MarshalText lets a Category appear by name in JSON reports.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// QualityError is the base error type for quality operations.
type QualityError interface {
	error
	IsQualityError()
}

// ScoreOutOfRangeError is returned when a score is out of valid range.
type ScoreOutOfRangeError struct {
	Position int
	Score    int
}

func (e *ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("score %d at position %d is out of range [%d, %d]", e.Score, e.Position, PhredMin, PhredMax)
}
func (e *ScoreOutOfRangeError) IsQualityError() {}

// InvalidEncodingError is returned when a quality encoding character is invalid.
type InvalidEncodingError struct {
	Position int
	Char     rune
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("invalid quality character '%c' at position %d", e.Char, e.Position)
}
func (e *InvalidEncodingError) IsQualityError() {}

// Scores represents quality scores for a sequencing read.
//
// Each score corresponds to a base in a sequence. An empty set is valid and
// belongs to an empty read.
type Scores struct {
	Values []int
}

// New creates quality scores from an array of integers.
func New(scores []int) (*Scores, error) {
	for i, score := range scores {
		if score < PhredMin || score > PhredMax {
			return nil, &ScoreOutOfRangeError{Position: i, Score: score}
		}
	}

	// Make a copy to avoid external mutation
	values := make([]int, len(scores))
	copy(values, scores)

	return &Scores{Values: values}, nil
}

// FromPhred33 creates quality scores from a Phred+33 encoded string.
//
// Each ASCII character maps to a quality score: Q = ord(char) - 33. Valid
// characters run from '!' (Q0) to '~' (Q93).
func FromPhred33(encoded string) (*Scores, error) {
	if i := ValidPhred33(encoded); i >= 0 {
		return nil, &InvalidEncodingError{Position: i, Char: rune(encoded[i])}
	}

	scores := make([]int, len(encoded))
	for i := 0; i < len(encoded); i++ {
		scores[i] = int(encoded[i]) - PhredOffset
	}

	return &Scores{Values: scores}, nil
}

// ValidPhred33 reports the position of the first character outside the
// Phred+33 range, or -1.
func ValidPhred33(encoded string) int {
	for i := 0; i < len(encoded); i++ {
		if encoded[i] < '!' || encoded[i] > '~' {
			return i
		}
	}
	return -1
}

// Len returns the number of quality scores.
func (s *Scores) Len() int {
	return len(s.Values)
}

// Average calculates the average quality score, 0 for an empty set.
func (s *Scores) Average() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0
	for _, score := range s.Values {
		sum += score
	}
	return float64(sum) / float64(len(s.Values))
}

// MeanRounded is the average rounded to one decimal place. This is the value
// reported as a read's average quality.
func (s *Scores) MeanRounded() float64 {
	return Round1(s.Average())
}

// Median calculates the median quality score.
func (s *Scores) Median() int {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]int, len(s.Values))
	copy(sorted, s.Values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Min returns the minimum quality score.
func (s *Scores) Min() int {
	if len(s.Values) == 0 {
		return 0
	}
	min := s.Values[0]
	for _, score := range s.Values[1:] {
		if score < min {
			min = score
		}
	}
	return min
}

// Max returns the maximum quality score.
func (s *Scores) Max() int {
	if len(s.Values) == 0 {
		return 0
	}
	max := s.Values[0]
	for _, score := range s.Values[1:] {
		if score > max {
			max = score
		}
	}
	return max
}

// CountAtOrAbove counts scores at or above a threshold.
func (s *Scores) CountAtOrAbove(threshold int) int {
	count := 0
	for _, score := range s.Values {
		if score >= threshold {
			count++
		}
	}
	return count
}

// HighQualityRatio calculates the proportion of high-quality bases (Q >= 30).
func (s *Scores) HighQualityRatio() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return float64(s.CountAtOrAbove(QHigh)) / float64(len(s.Values))
}

// Categorize categorizes the overall quality of the read.
func (s *Scores) Categorize() Category {
	avg := s.Average()

	if avg >= float64(QExcellent) {
		return Excellent
	} else if avg >= float64(QHigh) {
		return High
	} else if avg >= float64(QMedium) {
		return Medium
	} else if avg >= float64(QLow) {
		return Low
	}
	return Poor
}

// ScoreToProbability converts a Phred score to error probability.
//
// P_error = 10^(-Q/10)
func ScoreToProbability(score int) (float64, error) {
	if score < PhredMin || score > PhredMax {
		return 0, fmt.Errorf("score %d out of range [%d, %d]", score, PhredMin, PhredMax)
	}
	return math.Pow(10.0, float64(-score)/10.0), nil
}

// ExpectedErrors sums the error probabilities of all bases. Scores outside
// the Phred range contribute nothing.
func (s *Scores) ExpectedErrors() float64 {
	total := 0.0
	for _, score := range s.Values {
		if p, err := ScoreToProbability(score); err == nil {
			total += p
		}
	}
	return total
}

// Run is a half-open stretch [Start, End) of consecutive bases.
type Run struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bases in the run.
func (r Run) Len() int {
	return r.End - r.Start
}

// LowQualityRuns finds stretches of at least minLen consecutive bases scoring
// below threshold. Runs are reported in read order.
func (s *Scores) LowQualityRuns(threshold, minLen int) []Run {
	if minLen < 1 {
		minLen = 1
	}
	runs := make([]Run, 0)
	start := -1
	for i, score := range s.Values {
		if score < threshold {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minLen {
			runs = append(runs, Run{Start: start, End: i})
		}
		start = -1
	}
	if start >= 0 && len(s.Values)-start >= minLen {
		runs = append(runs, Run{Start: start, End: len(s.Values)})
	}
	return runs
}

// Statistics calculates quality statistics.
func (s *Scores) Statistics() *Stats {
	return &Stats{
		Count:            len(s.Values),
		MinScore:         s.Min(),
		MaxScore:         s.Max(),
		Mean:             s.MeanRounded(),
		Median:           s.Median(),
		HighQualityRatio: s.HighQualityRatio(),
		Category:         s.Categorize(),
	}
}

func (s *Scores) String() string {
	return fmt.Sprintf("QualityScores { len: %d, avg: %.1f }", len(s.Values), s.Average())
}

// Stats represents quality statistics summary.
type Stats struct {
	Count            int      `json:"count"`
	MinScore         int      `json:"min"`
	MaxScore         int      `json:"max"`
	Mean             float64  `json:"mean"`
	Median           int      `json:"median"`
	HighQualityRatio float64  `json:"high_quality_ratio"`
	Category         Category `json:"category"`
}

func (s *Stats) String() string {
	return fmt.Sprintf("QualityStats { count: %d, min: %d, max: %d, mean: %.1f, median: %d, high_quality_ratio: %.2f%% }",
		s.Count, s.MinScore, s.MaxScore, s.Mean, s.Median, s.HighQualityRatio*100)
}

// Round1 rounds x to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
