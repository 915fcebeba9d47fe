package reads

import (
	"strings"

	"github.com/robertftenbosch/tenbio/internal/quality"
	"github.com/robertftenbosch/tenbio/internal/sequence"
)

// DecodeFASTQ decodes the first record of FASTQ content and counts the rest.
//
// Every record is checked: header starting with '@', separator starting
// with '+', nucleotide sequence, Phred+33 quality of the same length. Only
// the first record becomes the Read. Ambiguity codes are called as N.
func DecodeFASTQ(filename string, content []byte) (*Decoded, error) {
	lines := splitLines(string(content))
	if len(lines) == 0 {
		return nil, fastqError(0, "no reads found")
	}

	numReads := (len(lines) + 3) / 4
	var first *Read
	for rec := 0; rec < numReads; rec++ {
		if (rec+1)*4 > len(lines) {
			return nil, fastqError(rec, "incomplete record: expected 4 lines, found %d", len(lines)-rec*4)
		}
		group := lines[rec*4 : rec*4+4]

		r, err := parseRecord(rec, group, filename)
		if err != nil {
			return nil, err
		}
		if rec == 0 {
			first = r
		}
	}

	return &Decoded{Read: first, NumReads: numReads}, nil
}

func parseRecord(rec int, group []string, filename string) (*Read, error) {
	header, bases, sep, qual := group[0], group[1], group[2], group[3]

	if !strings.HasPrefix(header, "@") {
		return nil, fastqError(rec, "header line must start with '@'")
	}
	if !strings.HasPrefix(sep, "+") {
		return nil, fastqError(rec, "separator line must start with '+'")
	}

	calls, bad := sequence.Calls(bases)
	if bad >= 0 {
		return nil, fastqError(rec, "invalid base %q at position %d", bases[bad], bad)
	}
	if len(bases) != len(qual) {
		return nil, fastqError(rec, "sequence length %d does not match quality length %d", len(bases), len(qual))
	}
	scores, err := quality.FromPhred33(qual)
	if err != nil {
		return nil, &MalformedReadError{Format: FormatFASTQ, Record: rec, Reason: err.Error(), Err: err}
	}

	name := readName(header)
	if name == "" {
		name = stem(filename)
	}

	r, err := NewRead(name, calls, scores.Values, FormatFASTQ)
	if err != nil {
		return nil, &MalformedReadError{Format: FormatFASTQ, Record: rec, Reason: err.Error(), Err: err}
	}
	return r, nil
}

// readName is the header without '@', cut at the first whitespace.
func readName(header string) string {
	name := strings.TrimPrefix(header, "@")
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return name
}

// splitLines splits on LF, drops CR line endings and trailing blank lines.
// Blank lines that complete a four-line record are kept, since an empty read
// has an empty sequence and quality line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		if len(lines)%4 == 0 && !blank(lines[len(lines)-4:]) {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return lines
}

func blank(lines []string) bool {
	for _, l := range lines {
		if l != "" {
			return false
		}
	}
	return true
}
