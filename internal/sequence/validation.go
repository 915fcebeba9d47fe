package sequence

import (
	"fmt"
	"unicode/utf8"
)

// EmptySequenceError is returned when a sequence has no bases.
type EmptySequenceError struct{}

func (e *EmptySequenceError) Error() string {
	return "sequence must have at least one base"
}

// InvalidBaseError reports the first symbol that is not a read call.
// Position is a byte offset.
type InvalidBaseError struct {
	Position int
	Found    rune
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid base '%c' at position %d", e.Found, e.Position)
}

// IsCall reports whether c is a read call: upper-case A, C, G or T, or the
// N every ambiguity code collapses to. Lower case and the other IUPAC codes
// are nucleotide codes but not calls.
func IsCall(c byte) bool {
	call, ok := CallBase(c)
	return ok && call == c
}

// ValidateCalls checks that bases holds read calls only.
func ValidateCalls(bases string) error {
	for i := 0; i < len(bases); i++ {
		if !IsCall(bases[i]) {
			r, _ := utf8.DecodeRuneInString(bases[i:])
			return &InvalidBaseError{Position: i, Found: r}
		}
	}
	return nil
}
