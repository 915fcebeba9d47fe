// Package alignment aligns a sequencing read end to end against a reference
// construct.
//
// The aligner is a three-state Gotoh variant of Needleman-Wunsch with affine
// gap costs: a gap of k columns costs GapOpenPenalty + (k-1)*GapExtendPenalty.
// Any symbol other than A, C, G or T scores zero against everything, so
// uncalled read positions neither help nor hurt.
package alignment

import (
	"fmt"

	"github.com/robertftenbosch/tenbio/internal/sequence"
)

// ScoringMatrix represents the scoring parameters for alignment.
type ScoringMatrix struct {
	MatchScore       int `json:"match" mapstructure:"match"`
	MismatchPenalty  int `json:"mismatch" mapstructure:"mismatch"`
	GapOpenPenalty   int `json:"gap_open" mapstructure:"gap-open"`
	GapExtendPenalty int `json:"gap_extend" mapstructure:"gap-extend"`
}

// NewScoringMatrix creates a new scoring matrix with validation.
func NewScoringMatrix(match, mismatch, gapOpen, gapExtend int) (*ScoringMatrix, error) {
	s := &ScoringMatrix{
		MatchScore:       match,
		MismatchPenalty:  mismatch,
		GapOpenPenalty:   gapOpen,
		GapExtendPenalty: gapExtend,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the sign conventions: a positive match score and
// non-positive penalties.
func (s *ScoringMatrix) Validate() error {
	if s.MatchScore <= 0 {
		return fmt.Errorf("match score must be positive")
	}
	if s.MismatchPenalty > 0 {
		return fmt.Errorf("mismatch penalty should be <= 0")
	}
	if s.GapOpenPenalty > 0 {
		return fmt.Errorf("gap open penalty should be <= 0")
	}
	if s.GapExtendPenalty > 0 {
		return fmt.Errorf("gap extend penalty should be <= 0")
	}
	return nil
}

// DefaultDNA returns the scoring used for read verification: match +5,
// mismatch -4, gap open -10, gap extend -1.
func DefaultDNA() *ScoringMatrix {
	return &ScoringMatrix{
		MatchScore:       5,
		MismatchPenalty:  -4,
		GapOpenPenalty:   -10,
		GapExtendPenalty: -1,
	}
}

// Score returns the score for pairing two upper-case bases.
func (s *ScoringMatrix) Score(a, b byte) int {
	if !sequence.IsUnambiguous(a) || !sequence.IsUnambiguous(b) {
		return 0
	}
	if a == b {
		return s.MatchScore
	}
	return s.MismatchPenalty
}

// GapCost returns the total score of a gap of length k.
func (s *ScoringMatrix) GapCost(k int) int {
	if k <= 0 {
		return 0
	}
	return s.GapOpenPenalty + (k-1)*s.GapExtendPenalty
}

// String returns a string representation of the scoring matrix.
func (s *ScoringMatrix) String() string {
	return fmt.Sprintf("ScoringMatrix { match: %d, mismatch: %d, gap_open: %d, gap_extend: %d }",
		s.MatchScore, s.MismatchPenalty, s.GapOpenPenalty, s.GapExtendPenalty)
}
