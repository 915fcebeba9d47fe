// Package construct models a reference construct: an ordered list of named
// genetic parts whose sequences, concatenated, form the reference a read is
// aligned against. It maps alignment columns back onto the parts.
package construct

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformedRequest is matched by *MalformedRequestError.
var ErrMalformedRequest = errors.New("malformed request")

// MalformedRequestError reports an unusable reference construct or
// alignment request. Part is the zero-based index of the offending part, or
// -1 when the problem is not tied to one part.
type MalformedRequestError struct {
	Part   int
	Reason string
	Err    error
}

func (e *MalformedRequestError) Error() string {
	if e.Part >= 0 {
		return fmt.Sprintf("malformed request: part %d: %s", e.Part, e.Reason)
	}
	return "malformed request: " + e.Reason
}

// Is reports whether target is ErrMalformedRequest.
func (e *MalformedRequestError) Is(target error) bool {
	return target == ErrMalformedRequest
}

func (e *MalformedRequestError) Unwrap() error {
	return e.Err
}

// Malformed builds a MalformedRequestError not tied to a part.
func Malformed(reason string, err error) error {
	return &MalformedRequestError{Part: -1, Reason: reason, Err: err}
}

// PartType is the kind of a genetic part.
type PartType string

// Known part types. Other values are carried through unchanged.
const (
	Promoter   PartType = "promoter"
	RBS        PartType = "rbs"
	Gene       PartType = "gene"
	Terminator PartType = "terminator"
	Other      PartType = "other"
)

// Part is one element of a construct.
type Part struct {
	Name     string   `json:"name"`
	Type     PartType `json:"type"`
	Sequence string   `json:"sequence"`
}

// Span is the half-open range [Start, End) a part occupies in the
// concatenated reference.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bases in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether pos lies in the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Construct is an immutable ordered list of parts with their coordinate
// table.
type Construct struct {
	parts     []Part
	spans     []Span
	reference string
}

// New builds a Construct. Part sequences are upper-cased; parts must be
// present and each must have a non-empty sequence.
func New(parts []Part) (*Construct, error) {
	if len(parts) == 0 {
		return nil, Malformed("construct has no parts", nil)
	}

	c := &Construct{
		parts: make([]Part, len(parts)),
		spans: make([]Span, len(parts)),
	}

	var ref strings.Builder
	for i, p := range parts {
		if len(p.Sequence) == 0 {
			return nil, &MalformedRequestError{Part: i, Reason: fmt.Sprintf("part %q has no sequence to align against", p.Name)}
		}
		p.Sequence = strings.ToUpper(p.Sequence)

		start := ref.Len()
		ref.WriteString(p.Sequence)
		c.parts[i] = p
		c.spans[i] = Span{Start: start, End: ref.Len()}
	}
	c.reference = ref.String()

	return c, nil
}

// Parts returns a copy of the parts in construct order.
func (c *Construct) Parts() []Part {
	out := make([]Part, len(c.parts))
	copy(out, c.parts)
	return out
}

// Spans returns a copy of the coordinate table, aligned with Parts.
func (c *Construct) Spans() []Span {
	out := make([]Span, len(c.spans))
	copy(out, c.spans)
	return out
}

// Reference returns the concatenated, upper-cased reference sequence.
func (c *Construct) Reference() string {
	return c.reference
}

// Len returns the reference length.
func (c *Construct) Len() int {
	return len(c.reference)
}

// PartAt returns the index of the part containing reference position pos,
// or -1 if pos is outside the reference.
func (c *Construct) PartAt(pos int) int {
	i := sort.Search(len(c.spans), func(i int) bool { return c.spans[i].End > pos })
	if i == len(c.spans) || !c.spans[i].Contains(pos) {
		return -1
	}
	return i
}
