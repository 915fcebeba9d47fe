package verify

import (
	"fmt"
	"io"

	"github.com/biogo/hts/sam"

	"github.com/robertftenbosch/tenbio/internal/reads"
)

// DefaultReferenceName names the construct in exported SAM headers.
const DefaultReferenceName = "construct"

// unknown mapping quality
const mapQUnavailable = 255

// WriteSAM writes a single-record SAM file describing how read aligned to
// the construct in v. Insertions before the first or after the last aligned
// base become soft clips. A read with no aligned base is written unmapped;
// an empty read yields a header only.
func WriteSAM(w io.Writer, refName string, read *reads.Read, v *Verification) error {
	if refName == "" {
		refName = DefaultReferenceName
	}

	ref, err := sam.NewReference(refName, "", "", v.Construct.Len(), nil, nil)
	if err != nil {
		return fmt.Errorf("sam reference: %w", err)
	}
	h, err := sam.NewHeader(nil, []*sam.Reference{ref})
	if err != nil {
		return fmt.Errorf("sam header: %w", err)
	}
	sw, err := sam.NewWriter(w, h, sam.FlagDecimal)
	if err != nil {
		return fmt.Errorf("sam writer: %w", err)
	}
	if read.Len() == 0 {
		return nil
	}

	qual := make([]byte, read.Len())
	for i, q := range read.Quality() {
		qual[i] = byte(q)
	}

	pos, cigar := v.Alignment.ClippedCigar()
	var rec *sam.Record
	if pos < 0 {
		rec, err = sam.NewRecord(read.Name(), nil, nil, -1, -1, 0, 0, nil, []byte(read.Sequence()), qual, nil)
		if err == nil {
			rec.Flags |= sam.Unmapped
		}
	} else {
		var aux []sam.Aux
		aux, err = alignmentTags(v.Alignment.Score, cigar)
		if err != nil {
			return err
		}
		rec, err = sam.NewRecord(read.Name(), ref, nil, pos, -1, 0, mapQUnavailable, cigar, []byte(read.Sequence()), qual, aux)
	}
	if err != nil {
		return fmt.Errorf("sam record: %w", err)
	}

	return sw.Write(rec)
}

// alignmentTags returns the AS (score) and NM (edit distance) tags. NM is
// taken from the emitted CIGAR, so soft clips and dropped end deletions do
// not count.
func alignmentTags(score int, cigar sam.Cigar) ([]sam.Aux, error) {
	as, err := sam.NewAux(sam.NewTag("AS"), score)
	if err != nil {
		return nil, fmt.Errorf("sam AS tag: %w", err)
	}
	nm, err := sam.NewAux(sam.NewTag("NM"), editDistance(cigar))
	if err != nil {
		return nil, fmt.Errorf("sam NM tag: %w", err)
	}
	return []sam.Aux{as, nm}, nil
}

func editDistance(cigar sam.Cigar) int {
	n := 0
	for _, op := range cigar {
		switch op.Type() {
		case sam.CigarMismatch, sam.CigarInsertion, sam.CigarDeletion:
			n += op.Len()
		}
	}
	return n
}
