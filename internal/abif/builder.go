package abif

import (
	"bytes"
	"encoding/binary"
)

// Builder assembles a minimal ABIF container. It is used to produce
// synthetic traces and to round-trip edited files.
type Builder struct {
	Version uint16
	entries []Entry
}

// NewBuilder returns a Builder with the common version 101.
func NewBuilder() *Builder {
	return &Builder{Version: 101}
}

// Add appends an entry. The element count is derived from elemSize.
func (b *Builder) Add(name string, number int32, elemType, elemSize int16, data []byte) *Builder {
	count := int32(len(data))
	if elemSize > 1 {
		count = int32(len(data)) / int32(elemSize)
	}
	b.entries = append(b.entries, Entry{
		Name:        name,
		Number:      number,
		ElemType:    elemType,
		ElemSize:    elemSize,
		NumElements: count,
		DataSize:    int32(len(data)),
		data:        data,
	})
	return b
}

// AddChars appends a char array entry such as PBAS.
func (b *Builder) AddChars(name string, number int32, s string) *Builder {
	return b.Add(name, number, TypeChar, 1, []byte(s))
}

// AddPString appends a length-prefixed string entry such as SMPL.
func (b *Builder) AddPString(name string, number int32, s string) *Builder {
	data := append([]byte{byte(len(s))}, s...)
	return b.Add(name, number, TypePString, 1, data)
}

// AddShorts appends a short array entry.
func (b *Builder) AddShorts(name string, number int32, values []int16) *Builder {
	data := make([]byte, 2*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint16(data[2*i:], uint16(v))
	}
	return b.Add(name, number, TypeShort, 2, data)
}

// Bytes lays out header, data and directory.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	_ = binary.Write(&buf, binary.BigEndian, b.Version)
	buf.Write(make([]byte, entrySize)) // root entry, patched below

	offsets := make([]int32, len(b.entries))
	for i, e := range b.entries {
		if e.DataSize > 4 {
			offsets[i] = int32(buf.Len())
			buf.Write(e.data)
		}
	}

	dirOffset := int32(buf.Len())
	for i, e := range b.entries {
		buf.Write(entryBytes(e, offsets[i]))
	}

	out := buf.Bytes()
	root := Entry{
		Name:        "tdir",
		Number:      1,
		ElemType:    TypeDir,
		ElemSize:    entrySize,
		NumElements: int32(len(b.entries)),
		DataSize:    int32(len(b.entries) * entrySize),
	}
	copy(out[rootOffset:], entryBytes(root, dirOffset))
	return out
}

func entryBytes(e Entry, offset int32) []byte {
	raw := make([]byte, entrySize)
	copy(raw[0:4], e.Name)
	binary.BigEndian.PutUint32(raw[4:8], uint32(e.Number))
	binary.BigEndian.PutUint16(raw[8:10], uint16(e.ElemType))
	binary.BigEndian.PutUint16(raw[10:12], uint16(e.ElemSize))
	binary.BigEndian.PutUint32(raw[12:16], uint32(e.NumElements))
	binary.BigEndian.PutUint32(raw[16:20], uint32(e.DataSize))
	if e.DataSize <= 4 {
		copy(raw[20:24], e.data)
	} else {
		binary.BigEndian.PutUint32(raw[20:24], uint32(offset))
	}
	binary.BigEndian.PutUint32(raw[24:28], uint32(e.DataHandle))
	return raw
}
