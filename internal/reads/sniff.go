package reads

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/robertftenbosch/tenbio/internal/abif"
)

var extensions = map[string]Format{
	".fastq": FormatFASTQ,
	".fq":    FormatFASTQ,
	".ab1":   FormatAB1,
	".abi":   FormatAB1,
	".abif":  FormatAB1,
}

// Sniff decides the format of a file from its name and content. A known
// extension wins; otherwise the content is inspected for the ABIF signature
// or FASTQ's '@' header and '+' separator.
func Sniff(filename string, content []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}

	if bytes.HasPrefix(content, []byte(abif.Magic)) {
		return FormatAB1, nil
	}
	if looksLikeFASTQ(content) {
		return FormatFASTQ, nil
	}

	return "", &UnsupportedFormatError{Filename: filename}
}

func looksLikeFASTQ(content []byte) bool {
	if len(content) == 0 || content[0] != '@' {
		return false
	}
	// the separator can only follow the header line
	nl := bytes.IndexByte(content, '\n')
	if nl < 0 {
		return false
	}
	rest := content[nl+1:]
	return bytes.HasPrefix(rest, []byte("+")) || bytes.Contains(rest, []byte("\n+"))
}

// stem is the filename without directory and final extension.
func stem(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
