package construct

import "github.com/robertftenbosch/tenbio/internal/alignment"

// PartResult is the per-part share of an alignment.
type PartResult struct {
	Name       string   `json:"name"`
	Type       PartType `json:"type"`
	Length     int      `json:"length"`
	Similarity float64  `json:"similarity"`
	Matches    int      `json:"-"`
	Columns    int      `json:"-"`
}

// Segment attributes every alignment column with a reference coordinate
// (match, mismatch, deletion) to the part containing it. Insertion columns
// belong to no part. Similarity is matches over attributed columns, as a
// percentage rounded to one decimal, and 0 for a part no column reached.
// Results follow construct order.
func (c *Construct) Segment(a *alignment.Alignment) []PartResult {
	results := make([]PartResult, len(c.parts))
	for i, p := range c.parts {
		results[i] = PartResult{Name: p.Name, Type: p.Type, Length: len(p.Sequence)}
	}

	for _, col := range a.Columns {
		if col.RefPos < 0 {
			continue
		}
		part := c.PartAt(col.RefPos)
		if part < 0 {
			continue
		}

		results[part].Columns++
		if col.Op == alignment.Match {
			results[part].Matches++
		}
	}

	for i := range results {
		results[i].Similarity = alignment.RoundPercent(results[i].Matches, results[i].Columns)
	}
	return results
}
