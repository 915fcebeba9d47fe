package reads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrTooLarge is matched by *TooLargeError.
var ErrTooLarge = errors.New("file too large")

// TooLargeError is returned when an upload, before or after inflation,
// exceeds the size limit.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file exceeds the %d byte limit", e.Limit)
}

// Is reports whether target is ErrTooLarge.
func (e *TooLargeError) Is(target error) bool {
	return target == ErrTooLarge
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

var compressionSuffixes = []string{".gz", ".gzip", ".zst", ".zstd"}

// Inflate detects gzip or zstd content by its magic number and decompresses
// it, reading at most limit bytes (0 means no limit). The compression suffix
// is stripped from the returned filename. Plain content is returned as is.
func Inflate(filename string, content []byte, limit int64) (string, []byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch {
	case bytes.HasPrefix(content, gzipMagic):
		var gr *gzip.Reader
		gr, err = gzip.NewReader(bytes.NewReader(content))
		if err == nil {
			defer gr.Close()
			r = gr
		}
	case bytes.HasPrefix(content, zstdMagic):
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(bytes.NewReader(content))
		if err == nil {
			defer zr.Close()
			r = zr
		}
	default:
		return filename, content, nil
	}
	if err != nil {
		return "", nil, &MalformedReadError{Reason: "corrupt compressed stream", Err: err}
	}

	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", nil, &MalformedReadError{Reason: "corrupt compressed stream", Err: err}
	}
	if limit > 0 && int64(len(out)) > limit {
		return "", nil, &TooLargeError{Limit: limit}
	}

	return stripCompressionSuffix(filename), out, nil
}

func stripCompressionSuffix(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range compressionSuffixes {
		if ext == s {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}
