package reads

// Decoder turns uploaded file content into a Read.
type Decoder struct {
	// MaxSize bounds the content, after inflation, in bytes. Zero means no
	// limit.
	MaxSize int64
}

// Decode inflates compressed content, sniffs the format and runs the
// matching decoder.
func (d Decoder) Decode(filename string, content []byte) (*Decoded, error) {
	if d.MaxSize > 0 && int64(len(content)) > d.MaxSize {
		return nil, &TooLargeError{Limit: d.MaxSize}
	}

	name, data, err := Inflate(filename, content, d.MaxSize)
	if err != nil {
		return nil, err
	}

	format, err := Sniff(name, data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatAB1:
		return DecodeTrace(name, data)
	default:
		return DecodeFASTQ(name, data)
	}
}

// Decode decodes content without a size limit.
func Decode(filename string, content []byte) (*Decoded, error) {
	return Decoder{}.Decode(filename, content)
}
