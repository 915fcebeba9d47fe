package alignment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmptyReference is returned when asked to align against nothing.
var ErrEmptyReference = errors.New("reference sequence is empty")

// ErrTooLarge is matched by *SizeError.
var ErrTooLarge = errors.New("alignment too large")

// SizeError is returned when the dynamic programming table would exceed
// the configured number of cells.
type SizeError struct {
	Cells int64
	Limit int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("alignment needs %d cells, limit is %d", e.Cells, e.Limit)
}

// Is reports whether target is ErrTooLarge.
func (e *SizeError) Is(target error) bool {
	return target == ErrTooLarge
}

// DP states. Insertion consumes a query base, deletion a reference base.
const (
	stateM uint8 = iota
	stateI
	stateD
)

// Traceback cell layout: the predecessor state of M in bits 0-1, of I in
// bits 2-3, of D in bits 4-5.
const (
	shiftM = 0
	shiftI = 2
	shiftD = 4
)

const negInf = math.MinInt32 / 2

// Aligner holds scoring and size limits for global alignment.
type Aligner struct {
	Scoring *ScoringMatrix
	// MaxCells bounds (len(query)+1)*(len(reference)+1). Zero means no limit.
	MaxCells int64
}

// NeedlemanWunsch aligns query end to end against reference with the
// default scoring and no size limit.
func NeedlemanWunsch(ctx context.Context, query, reference string) (*Alignment, error) {
	return Aligner{}.Align(ctx, query, reference)
}

// Align computes the optimal global alignment of query against reference.
//
// Both inputs are upper-cased. Among equally scoring paths, extending a gap
// is preferred over opening one and a substitution is preferred over a gap;
// between the two gap kinds an insertion is preferred over a deletion. At the
// final cell the order is reversed: a trailing deletion, then a trailing
// insertion, then a substitution. The result is therefore deterministic.
//
// An empty query yields one deletion column per reference base. An empty
// reference is an error. ctx is checked once per row.
func (al Aligner) Align(ctx context.Context, query, reference string) (*Alignment, error) {
	scoring := al.Scoring
	if scoring == nil {
		scoring = DefaultDNA()
	}
	if len(reference) == 0 {
		return nil, ErrEmptyReference
	}

	q := strings.ToUpper(query)
	r := strings.ToUpper(reference)
	m, n := len(q), len(r)

	cells := int64(m+1) * int64(n+1)
	if al.MaxCells > 0 && cells > al.MaxCells {
		return nil, &SizeError{Cells: cells, Limit: al.MaxCells}
	}

	open, ext := scoring.GapOpenPenalty, scoring.GapExtendPenalty
	width := n + 1
	trace := make([]uint8, cells)

	prevM, prevI, prevD := make([]int, width), make([]int, width), make([]int, width)
	curM, curI, curD := make([]int, width), make([]int, width), make([]int, width)

	// row 0: only leading deletions are reachable
	prevM[0], prevI[0], prevD[0] = 0, negInf, negInf
	for j := 1; j <= n; j++ {
		prevM[j], prevI[j] = negInf, negInf
		if j == 1 {
			prevD[j] = open
			trace[j] = stateM << shiftD
		} else {
			prevD[j] = prevD[j-1] + ext
			trace[j] = stateD << shiftD
		}
	}

	for i := 1; i <= m; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := i * width
		qb := q[i-1]

		// column 0: only leading insertions are reachable
		curM[0], curD[0] = negInf, negInf
		if i == 1 {
			curI[0] = open
			trace[row] = stateM << shiftI
		} else {
			curI[0] = prevI[0] + ext
			trace[row] = stateI << shiftI
		}

		for j := 1; j <= n; j++ {
			var cell uint8

			// M: best of the three states on the diagonal, M first
			best, from := prevM[j-1], stateM
			if prevI[j-1] > best {
				best, from = prevI[j-1], stateI
			}
			if prevD[j-1] > best {
				best, from = prevD[j-1], stateD
			}
			curM[j] = best + scoring.Score(qb, r[j-1])
			cell |= from << shiftM

			// I: extend, then open from M, then open from D
			best, from = prevI[j]+ext, stateI
			if v := prevM[j] + open; v > best {
				best, from = v, stateM
			}
			if v := prevD[j] + open; v > best {
				best, from = v, stateD
			}
			curI[j] = best
			cell |= from << shiftI

			// D: extend, then open from M, then open from I
			best, from = curD[j-1]+ext, stateD
			if v := curM[j-1] + open; v > best {
				best, from = v, stateM
			}
			if v := curI[j-1] + open; v > best {
				best, from = v, stateI
			}
			curD[j] = best
			cell |= from << shiftD

			trace[row+j] = cell
		}

		prevM, curM = curM, prevM
		prevI, curI = curI, prevI
		prevD, curD = curD, prevD
	}

	// final state: D, then I, then M, so a read that stops early keeps its
	// trailing deletion at the end instead of splitting it
	score, state := prevD[n], stateD
	if prevI[n] > score {
		score, state = prevI[n], stateI
	}
	if prevM[n] > score {
		score, state = prevM[n], stateM
	}

	return &Alignment{
		Columns:         traceback(trace, q, r, state),
		Score:           score,
		Query:           q,
		Reference:       r,
		QueryLength:     m,
		ReferenceLength: n,
	}, nil
}

// traceback walks the predecessor bits from (m, n) back to the origin.
func traceback(trace []uint8, q, r string, state uint8) []Column {
	m, n := len(q), len(r)
	width := n + 1
	cols := make([]Column, 0, m+n)

	i, j := m, n
	for i > 0 || j > 0 {
		cell := trace[i*width+j]
		switch state {
		case stateM:
			cols = append(cols, Column{Op: columnOp(q[i-1], r[j-1]), QueryPos: i - 1, RefPos: j - 1})
			state = (cell >> shiftM) & 3
			i--
			j--
		case stateI:
			cols = append(cols, Column{Op: Insertion, QueryPos: i - 1, RefPos: -1})
			state = (cell >> shiftI) & 3
			i--
		default:
			cols = append(cols, Column{Op: Deletion, QueryPos: -1, RefPos: j - 1})
			state = (cell >> shiftD) & 3
			j--
		}
	}

	for a, b := 0, len(cols)-1; a < b; a, b = a+1, b-1 {
		cols[a], cols[b] = cols[b], cols[a]
	}
	return cols
}

// GlobalAlignmentScoreOnly calculates the global alignment score without
// traceback, in linear space.
func GlobalAlignmentScoreOnly(query, reference string, scoring *ScoringMatrix) (int, error) {
	if scoring == nil {
		scoring = DefaultDNA()
	}
	if len(reference) == 0 {
		return 0, ErrEmptyReference
	}

	q, r := strings.ToUpper(query), strings.ToUpper(reference)
	m, n := len(q), len(r)
	open, ext := scoring.GapOpenPenalty, scoring.GapExtendPenalty

	prevM, prevI, prevD := make([]int, n+1), make([]int, n+1), make([]int, n+1)
	curM, curI, curD := make([]int, n+1), make([]int, n+1), make([]int, n+1)

	prevM[0], prevI[0], prevD[0] = 0, negInf, negInf
	for j := 1; j <= n; j++ {
		prevM[j], prevI[j] = negInf, negInf
		prevD[j] = scoring.GapCost(j)
	}

	for i := 1; i <= m; i++ {
		curM[0], curI[0], curD[0] = negInf, scoring.GapCost(i), negInf
		for j := 1; j <= n; j++ {
			curM[j] = max3(prevM[j-1], prevI[j-1], prevD[j-1]) + scoring.Score(q[i-1], r[j-1])
			curI[j] = max3(prevI[j]+ext, prevM[j]+open, prevD[j]+open)
			curD[j] = max3(curD[j-1]+ext, curM[j-1]+open, curI[j-1]+open)
		}
		prevM, curM = curM, prevM
		prevI, curI = curI, prevI
		prevD, curD = curD, prevD
	}

	return max3(prevM[n], prevI[n], prevD[n]), nil
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
