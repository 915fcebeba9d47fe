package alignment

import "github.com/biogo/hts/sam"

var cigarTypes = [...]sam.CigarOpType{
	Match:     sam.CigarEqual,
	Mismatch:  sam.CigarMismatch,
	Insertion: sam.CigarInsertion,
	Deletion:  sam.CigarDeletion,
}

// Cigar returns the edit script as extended CIGAR operations (=, X, I, D),
// with runs of the same operation merged.
func (a *Alignment) Cigar() sam.Cigar {
	return cigarOf(a.Columns)
}

// CIGAR returns the edit script as an extended CIGAR string.
func (a *Alignment) CIGAR() string {
	if len(a.Columns) == 0 {
		return ""
	}
	return a.Cigar().String()
}

func cigarOf(cols []Column) sam.Cigar {
	var cigar sam.Cigar
	for k := 0; k < len(cols); {
		op := cols[k].Op
		run := 1
		for k+run < len(cols) && cols[k+run].Op == op {
			run++
		}
		cigar = append(cigar, sam.NewCigarOp(cigarTypes[op], run))
		k += run
	}
	return cigar
}

// ClippedCigar is the CIGAR of a record placed on the reference. Columns
// before the first or after the last paired base are not operations:
// insertions there become soft clips and deletions there move the start or
// are dropped. It returns the zero-based reference start and the CIGAR, or
// -1 and nil if no query base is paired with the reference.
func (a *Alignment) ClippedCigar() (int, sam.Cigar) {
	first, last := -1, -1
	for k, c := range a.Columns {
		if c.Op == Match || c.Op == Mismatch {
			if first < 0 {
				first = k
			}
			last = k
		}
	}
	if first < 0 {
		return -1, nil
	}

	lead, trail := 0, 0
	for _, c := range a.Columns[:first] {
		if c.Op == Insertion {
			lead++
		}
	}
	for _, c := range a.Columns[last+1:] {
		if c.Op == Insertion {
			trail++
		}
	}

	var cigar sam.Cigar
	if lead > 0 {
		cigar = append(cigar, sam.NewCigarOp(sam.CigarSoftClipped, lead))
	}
	cigar = append(cigar, cigarOf(a.Columns[first:last+1])...)
	if trail > 0 {
		cigar = append(cigar, sam.NewCigarOp(sam.CigarSoftClipped, trail))
	}

	return a.Columns[first].RefPos, cigar
}
