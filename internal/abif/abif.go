// Package abif reads the tagged binary container written by capillary
// sequencers (Applied Biosystems ABIF, usually with an .ab1 extension).
//
// The file starts with the magic "ABIF", a version number and a root
// directory entry pointing at the directory proper. Every directory entry
// names a tag (four characters plus a number) and locates its data. Parse
// keeps the raw bytes of each entry and decodes them only when asked.
//
// All integers are big-endian.
package abif

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Magic is the four-byte signature at the start of every ABIF file.
const Magic = "ABIF"

const (
	headerSize = 34 // magic, version, root entry
	entrySize  = 28
	rootOffset = 6
)

// Element types used by the tags this package decodes.
const (
	TypeByte    int16 = 1
	TypeChar    int16 = 2
	TypeWord    int16 = 3
	TypeShort   int16 = 4
	TypeLong    int16 = 5
	TypeFloat   int16 = 7
	TypeDouble  int16 = 8
	TypePString int16 = 18
	TypeCString int16 = 19
	TypeDir     int16 = 1023
)

// FormatError reports a structural problem in the container. Tag is empty
// when the problem is in the header or directory itself.
type FormatError struct {
	Tag    string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Tag == "" {
		return "abif: " + e.Reason
	}
	return fmt.Sprintf("abif: tag %s: %s", e.Tag, e.Reason)
}

// Entry is one directory entry together with the bytes it points at.
type Entry struct {
	Name        string
	Number      int32
	ElemType    int16
	ElemSize    int16
	NumElements int32
	DataSize    int32
	DataOffset  int32
	DataHandle  int32

	data []byte
}

// Tag returns the entry's tag in the usual NAME+number form, e.g. "PBAS2".
func (e *Entry) Tag() string {
	return TagName(e.Name, e.Number)
}

// TagName formats a tag name and number.
func TagName(name string, number int32) string {
	return fmt.Sprintf("%s%d", name, number)
}

// Bytes returns the raw data of the entry. The slice aliases the parsed
// file and must not be modified.
func (e *Entry) Bytes() []byte {
	return e.data
}

// String decodes a char, pString or cString entry.
func (e *Entry) String() (string, error) {
	switch e.ElemType {
	case TypeChar, TypeByte:
		return string(e.data), nil
	case TypePString:
		if len(e.data) == 0 {
			return "", nil
		}
		n := int(e.data[0])
		if n > len(e.data)-1 {
			return "", &FormatError{Tag: e.Tag(), Reason: "pString length exceeds data"}
		}
		return string(e.data[1 : 1+n]), nil
	case TypeCString:
		if i := bytes.IndexByte(e.data, 0); i >= 0 {
			return string(e.data[:i]), nil
		}
		return string(e.data), nil
	default:
		return "", &FormatError{Tag: e.Tag(), Reason: fmt.Sprintf("element type %d is not a string", e.ElemType)}
	}
}

// Int16s decodes a short array.
func (e *Entry) Int16s() ([]int16, error) {
	if e.ElemType != TypeShort {
		return nil, &FormatError{Tag: e.Tag(), Reason: fmt.Sprintf("element type %d is not short", e.ElemType)}
	}
	if len(e.data)%2 != 0 {
		return nil, &FormatError{Tag: e.Tag(), Reason: "odd data size for short array"}
	}
	out := make([]int16, len(e.data)/2)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(e.data[2*i:]))
	}
	return out, nil
}

// File is a parsed ABIF container.
type File struct {
	Version uint16
	entries []Entry
	index   map[string]int
}

// Parse reads the header and directory of data. Entry bytes are checked to
// lie within data but are not decoded.
func Parse(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, &FormatError{Reason: "file shorter than header"}
	}
	if string(data[:4]) != Magic {
		return nil, &FormatError{Reason: "missing ABIF signature"}
	}

	f := &File{
		Version: binary.BigEndian.Uint16(data[4:6]),
		index:   make(map[string]int),
	}

	root := readEntry(data[rootOffset : rootOffset+entrySize])
	count := int(root.NumElements)
	dirOffset := int(root.DataOffset)
	if count < 0 || dirOffset < 0 {
		return nil, &FormatError{Reason: "negative directory size or offset"}
	}
	if count > (len(data)-dirOffset)/entrySize || dirOffset > len(data) {
		return nil, &FormatError{Reason: "directory extends beyond end of file"}
	}

	f.entries = make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		raw := data[dirOffset+i*entrySize : dirOffset+(i+1)*entrySize]
		e := readEntry(raw)

		if e.DataSize < 0 {
			return nil, &FormatError{Tag: e.Tag(), Reason: "negative data size"}
		}
		if e.DataSize <= 4 {
			// small payloads live in the offset field itself
			e.data = raw[20 : 20+e.DataSize]
		} else {
			start := int64(e.DataOffset)
			end := start + int64(e.DataSize)
			if start < 0 || end > int64(len(data)) {
				return nil, &FormatError{Tag: e.Tag(), Reason: "data offset out of bounds"}
			}
			e.data = data[start:end]
		}

		tag := e.Tag()
		if _, dup := f.index[tag]; !dup {
			f.index[tag] = len(f.entries)
		}
		f.entries = append(f.entries, e)
	}

	return f, nil
}

func readEntry(b []byte) Entry {
	return Entry{
		Name:        string(b[0:4]),
		Number:      int32(binary.BigEndian.Uint32(b[4:8])),
		ElemType:    int16(binary.BigEndian.Uint16(b[8:10])),
		ElemSize:    int16(binary.BigEndian.Uint16(b[10:12])),
		NumElements: int32(binary.BigEndian.Uint32(b[12:16])),
		DataSize:    int32(binary.BigEndian.Uint32(b[16:20])),
		DataOffset:  int32(binary.BigEndian.Uint32(b[20:24])),
		DataHandle:  int32(binary.BigEndian.Uint32(b[24:28])),
	}
}

// Lookup returns the first entry with the given name and number.
func (f *File) Lookup(name string, number int32) (*Entry, bool) {
	i, ok := f.index[TagName(name, number)]
	if !ok {
		return nil, false
	}
	return &f.entries[i], true
}

// First returns the first of the given tags present in the file, along with
// the tag that matched. Tags are tried in order.
func (f *File) First(tags ...string) (*Entry, string, bool) {
	for _, tag := range tags {
		if i, ok := f.index[tag]; ok {
			return &f.entries[i], tag, true
		}
	}
	return nil, "", false
}

// Len returns the number of directory entries.
func (f *File) Len() int {
	return len(f.entries)
}
