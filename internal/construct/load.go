package construct

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseJSON reads parts from a JSON array of {name, type, sequence} objects.
func ParseJSON(r io.Reader) ([]Part, error) {
	var parts []Part
	if err := json.NewDecoder(r).Decode(&parts); err != nil {
		return nil, fmt.Errorf("decoding parts: %w", err)
	}
	return parts, nil
}

// ParseFASTA reads parts from FASTA. The header holds the part name and,
// optionally, its type: ">B0034 rbs". Sequence lines are joined.
func ParseFASTA(r io.Reader) ([]Part, error) {
	parts := make([]Part, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var current *Part
	var bases strings.Builder

	flush := func() {
		if current != nil {
			current.Sequence = bases.String()
			parts = append(parts, *current)
			bases.Reset()
		}
	}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		if line[0] == '>' {
			flush()

			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: part header has no name", lineNum)
			}
			current = &Part{Name: fields[0], Type: Other}
			if len(fields) > 1 {
				current.Type = PartType(strings.ToLower(fields[1]))
			}
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d: sequence before first '>' header", lineNum)
		}
		bases.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading parts: %w", err)
	}

	return parts, nil
}

// Parse reads parts in either format. Content whose first non-space byte is
// '[' is JSON, anything else FASTA.
func Parse(data []byte) ([]Part, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return ParseJSON(bytes.NewReader(trimmed))
	}
	return ParseFASTA(bytes.NewReader(data))
}

// ReadFile reads parts from a JSON or FASTA file.
func ReadFile(filename string) ([]Part, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return Parse(data)
}
