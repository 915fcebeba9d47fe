package alignment

import (
	"fmt"
	"math"
	"strings"

	"github.com/robertftenbosch/tenbio/internal/sequence"
)

// Op is the kind of an alignment column.
type Op uint8

const (
	// Match pairs identical A, C, G or T bases
	Match Op = iota
	// Mismatch pairs two query and reference bases that are not a match,
	// including any pairing with N
	Mismatch
	// Insertion is a query base against a gap
	Insertion
	// Deletion is a reference base against a gap
	Deletion
)

func (o Op) String() string {
	switch o {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// Column is one column of the edit script. The position on the gapped side
// is -1.
type Column struct {
	Op       Op
	QueryPos int
	RefPos   int
}

// Alignment is a global alignment of a query read against a reference.
type Alignment struct {
	Columns         []Column
	Score           int
	Query           string
	Reference       string
	QueryLength     int
	ReferenceLength int
}

// Length returns the number of alignment columns.
func (a *Alignment) Length() int {
	return len(a.Columns)
}

// MatchingBases returns the number of match columns.
func (a *Alignment) MatchingBases() int {
	return a.count(Match)
}

// MismatchCount returns the number of mismatch columns.
func (a *Alignment) MismatchCount() int {
	return a.count(Mismatch)
}

// Insertions returns the number of query bases aligned to gaps.
func (a *Alignment) Insertions() int {
	return a.count(Insertion)
}

// Deletions returns the number of reference bases aligned to gaps.
func (a *Alignment) Deletions() int {
	return a.count(Deletion)
}

func (a *Alignment) count(op Op) int {
	n := 0
	for _, c := range a.Columns {
		if c.Op == op {
			n++
		}
	}
	return n
}

// CoveredReferenceBases counts reference positions paired with a query base.
func (a *Alignment) CoveredReferenceBases() int {
	return a.count(Match) + a.count(Mismatch)
}

// OverallSimilarity is the identity as a percentage rounded to one decimal.
func (a *Alignment) OverallSimilarity() float64 {
	return RoundPercent(a.MatchingBases(), len(a.Columns))
}

// Coverage is the percentage of reference positions paired with a query
// base, rounded to one decimal.
func (a *Alignment) Coverage() float64 {
	return RoundPercent(a.CoveredReferenceBases(), a.ReferenceLength)
}

// GapOpenings counts the number of gap openings.
func (a *Alignment) GapOpenings() int {
	openings := 0
	prev := Match
	for _, c := range a.Columns {
		if (c.Op == Insertion || c.Op == Deletion) && c.Op != prev {
			openings++
		}
		prev = c.Op
	}
	return openings
}

// AlignedStrings renders the query and reference rows with '-' for gaps.
func (a *Alignment) AlignedStrings() (string, string) {
	var q, r strings.Builder
	q.Grow(len(a.Columns))
	r.Grow(len(a.Columns))
	for _, c := range a.Columns {
		if c.QueryPos >= 0 {
			q.WriteByte(a.Query[c.QueryPos])
		} else {
			q.WriteByte('-')
		}
		if c.RefPos >= 0 {
			r.WriteByte(a.Reference[c.RefPos])
		} else {
			r.WriteByte('-')
		}
	}
	return q.String(), r.String()
}

// Format returns a formatted string representation of the alignment.
func (a *Alignment) Format() string {
	aligned1, aligned2 := a.AlignedStrings()

	var matchLine strings.Builder
	for _, c := range a.Columns {
		switch c.Op {
		case Match:
			matchLine.WriteByte('|')
		case Mismatch:
			matchLine.WriteByte('.')
		default:
			matchLine.WriteByte(' ')
		}
	}

	return fmt.Sprintf("Read: %s\n      %s\nRef:  %s\nScore: %d\nSimilarity: %.1f%%\nCoverage: %.1f%%\nCIGAR: %s",
		aligned1, matchLine.String(), aligned2,
		a.Score, a.OverallSimilarity(), a.Coverage(), a.CIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { score: %d, similarity: %.1f%%, length: %d }",
		a.Score, a.OverallSimilarity(), a.Length())
}

// RoundPercent returns num/den*100 rounded to one decimal, 0 when den is 0.
func RoundPercent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*1000) / 10
}

// columnOp classifies a paired column.
func columnOp(q, r byte) Op {
	if q == r && sequence.IsUnambiguous(q) {
		return Match
	}
	return Mismatch
}
