package reads

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedRead     = errors.New("malformed read")
)

// UnsupportedFormatError is returned when neither the filename nor the
// content identifies a known read format.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Unsupported file format: %s. Use .fastq, .fq, or .ab1", e.Filename)
}

// Is reports whether target is ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// MalformedReadError is returned when content of a recognised format is
// structurally invalid. Record is the zero-based FASTQ record index; Tag names
// the trace tag at fault, when there is one.
type MalformedReadError struct {
	Format Format
	Record int
	Tag    string
	Reason string
	Err    error
}

func (e *MalformedReadError) Error() string {
	switch {
	case e.Tag != "":
		return fmt.Sprintf("malformed %s read (tag %s): %s", e.Format, e.Tag, e.Reason)
	case e.Format == FormatFASTQ:
		return fmt.Sprintf("malformed %s read at record %d: %s", e.Format, e.Record, e.Reason)
	case e.Format == "":
		return "malformed read: " + e.Reason
	default:
		return fmt.Sprintf("malformed %s read: %s", e.Format, e.Reason)
	}
}

// Is reports whether target is ErrMalformedRead.
func (e *MalformedReadError) Is(target error) bool {
	return target == ErrMalformedRead
}

func (e *MalformedReadError) Unwrap() error {
	return e.Err
}

func fastqError(record int, format string, args ...interface{}) error {
	return &MalformedReadError{Format: FormatFASTQ, Record: record, Reason: fmt.Sprintf(format, args...)}
}

func traceError(tag string, format string, args ...interface{}) error {
	return &MalformedReadError{Format: FormatAB1, Tag: tag, Reason: fmt.Sprintf(format, args...)}
}
