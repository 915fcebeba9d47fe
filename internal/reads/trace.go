package reads

import (
	"errors"

	"github.com/robertftenbosch/tenbio/internal/abif"
	"github.com/robertftenbosch/tenbio/internal/quality"
	"github.com/robertftenbosch/tenbio/internal/sequence"
)

// Tags read from a trace, in order of preference. The "2" variants hold the
// edited calls and win over the original basecaller output.
var (
	baseTags    = []string{"PBAS2", "PBAS1"}
	qualityTags = []string{"PCON2", "PCON1"}
	sampleTag   = "SMPL1"
)

// DecodeTrace decodes an ABIF trace into a single Read. Mixed-base calls
// (R, Y, K, ...) become N. The read is named after the sample, falling back
// to the filename stem.
func DecodeTrace(filename string, content []byte) (*Decoded, error) {
	f, err := abif.Parse(content)
	if err != nil {
		var fe *abif.FormatError
		if errors.As(err, &fe) {
			return nil, &MalformedReadError{Format: FormatAB1, Tag: fe.Tag, Reason: fe.Reason, Err: err}
		}
		return nil, &MalformedReadError{Format: FormatAB1, Reason: err.Error(), Err: err}
	}

	baseEntry, baseTag, ok := f.First(baseTags...)
	if !ok {
		return nil, traceError(baseTags[0], "missing called bases")
	}
	qualEntry, qualTag, ok := f.First(qualityTags...)
	if !ok {
		return nil, traceError(qualityTags[0], "missing quality values")
	}

	rawBases := baseEntry.Bytes()
	calls, bad := sequence.Calls(string(rawBases))
	if bad >= 0 {
		return nil, traceError(baseTag, "invalid base call %q at position %d", rawBases[bad], bad)
	}

	rawQual := qualEntry.Bytes()
	if len(rawQual) != len(rawBases) {
		return nil, traceError(qualTag, "%d quality values for %d bases", len(rawQual), len(rawBases))
	}
	scores := make([]int, len(rawQual))
	for i, q := range rawQual {
		if int(q) > quality.PhredMax {
			return nil, traceError(qualTag, "quality %d at position %d out of range", q, i)
		}
		scores[i] = int(q)
	}

	name := ""
	if e, _, ok := f.First(sampleTag); ok {
		if s, err := e.String(); err == nil {
			name = s
		}
	}
	if name == "" {
		name = stem(filename)
	}

	r, err := NewRead(name, calls, scores, FormatAB1)
	if err != nil {
		return nil, &MalformedReadError{Format: FormatAB1, Reason: err.Error(), Err: err}
	}
	return &Decoded{Read: r, NumReads: 1, Trace: traceInfo(f)}, nil
}

// TraceInfo summarises the analyzed signal stored in a trace.
type TraceInfo struct {
	Tags       int `json:"tags"`
	Channels   int `json:"channels"`
	Points     int `json:"points"`
	PeakSignal int `json:"peak_signal"`
}

// analyzed dye channels are DATA9 to DATA12
const (
	firstSignalChannel = 9
	lastSignalChannel  = 12
)

// traceInfo reads the analyzed channels. A channel that is missing or not a
// short array is skipped; the calls do not depend on it.
func traceInfo(f *abif.File) *TraceInfo {
	info := &TraceInfo{Tags: f.Len()}
	for n := int32(firstSignalChannel); n <= lastSignalChannel; n++ {
		e, ok := f.Lookup("DATA", n)
		if !ok {
			continue
		}
		values, err := e.Int16s()
		if err != nil {
			continue
		}

		info.Channels++
		if len(values) > info.Points {
			info.Points = len(values)
		}
		for _, v := range values {
			if int(v) > info.PeakSignal {
				info.PeakSignal = int(v)
			}
		}
	}
	return info
}
