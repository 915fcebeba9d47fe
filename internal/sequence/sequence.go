// Package sequence provides nucleotide sequence types with validation.
//
// Reads decoded from instrument files and the parts of a reference construct
// are both carried as upper-case strings over the DNA alphabet. Validation
// happens once, at construction time.
package sequence

import "strings"

// Sequence represents a validated, non-empty DNA sequence.
type Sequence struct {
	Bases string
}

// New creates a new DNA sequence with validation.
func New(bases string) (*Sequence, error) {
	normalized, err := Normalize(bases)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, &EmptySequenceError{}
	}

	return &Sequence{Bases: normalized}, nil
}

// Normalize upper-cases bases and checks that they are read calls.
// Unlike New it accepts the empty string.
func Normalize(bases string) (string, error) {
	normalized := strings.ToUpper(bases)
	if err := ValidateCalls(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// Len returns the length of the sequence.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// HasAmbiguous checks if the sequence contains any ambiguous bases (N).
func (s *Sequence) HasAmbiguous() bool {
	return strings.ContainsRune(s.Bases, 'N')
}

// GCContent calculates the GC content (proportion of G and C bases).
func (s *Sequence) GCContent() float64 {
	return GCContent(s.Bases)
}

// GCContent returns the proportion of G and C in bases, 0 for an empty string.
func GCContent(bases string) float64 {
	if len(bases) == 0 {
		return 0.0
	}

	gcCount := 0
	for i := 0; i < len(bases); i++ {
		switch bases[i] {
		case 'G', 'C', 'g', 'c':
			gcCount++
		}
	}

	return float64(gcCount) / float64(len(bases))
}

// BaseCounts holds the count of each base type.
type BaseCounts struct {
	A int
	C int
	G int
	T int
	N int
}

// BaseCounts returns the count of each base type.
func (s *Sequence) BaseCounts() BaseCounts {
	return CountBases(s.Bases)
}

// CountBases counts A, C, G, T and N in an upper-case base string.
// Other symbols are ignored.
func CountBases(bases string) BaseCounts {
	counts := BaseCounts{}

	for i := 0; i < len(bases); i++ {
		switch bases[i] {
		case 'A':
			counts.A++
		case 'C':
			counts.C++
		case 'G':
			counts.G++
		case 'T':
			counts.T++
		case 'N':
			counts.N++
		}
	}

	return counts
}

// Total returns the total count of all bases.
func (bc BaseCounts) Total() int {
	return bc.A + bc.C + bc.G + bc.T + bc.N
}

func (s *Sequence) String() string {
	return s.Bases
}
