package fonts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/go-text/typesetting/font/opentype"
)

var (
	collectionMagic = []byte("ttcf")
	glyfTag         = opentype.NewTag('g', 'l', 'y', 'f')
)

// isCollection reports whether data is a TrueType/OpenType collection.
func isCollection(data []byte) bool {
	return bytes.HasPrefix(data, collectionMagic)
}

// extractFirstFace returns the first face of a font collection as a
// standalone sfnt file. The PDF backend only embeds single-face files.
func extractFirstFace(data []byte) ([]byte, error) {
	loaders, err := opentype.NewLoaders(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read font collection: %w", err)
	}
	if len(loaders) == 0 {
		return nil, fmt.Errorf("font collection has no faces")
	}
	ld := loaders[0]

	tags := ld.Tables()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	tables := make([][]byte, len(tags))
	for i, tag := range tags {
		raw, err := ld.RawTable(tag)
		if err != nil {
			return nil, fmt.Errorf("read table %s: %w", tag, err)
		}
		tables[i] = raw
	}

	version := uint32(0x00010000)
	if !ld.HasTable(glyfTag) {
		version = uint32(opentype.NewTag('O', 'T', 'T', 'O'))
	}
	return writeSFNT(version, tags, tables), nil
}

// writeSFNT serialises tables into an sfnt file with a fresh table directory.
func writeSFNT(version uint32, tags []opentype.Tag, tables [][]byte) []byte {
	numTables := len(tags)
	entrySelector := 0
	for 1<<(entrySelector+1) <= numTables {
		entrySelector++
	}
	searchRange := (1 << entrySelector) * 16

	var out bytes.Buffer
	header := make([]byte, 12)
	binary.BigEndian.PutUint32(header[0:], version)
	binary.BigEndian.PutUint16(header[4:], uint16(numTables))
	binary.BigEndian.PutUint16(header[6:], uint16(searchRange))
	binary.BigEndian.PutUint16(header[8:], uint16(entrySelector))
	binary.BigEndian.PutUint16(header[10:], uint16(numTables*16-searchRange))
	out.Write(header)

	offset := 12 + 16*numTables
	for i, tag := range tags {
		record := make([]byte, 16)
		binary.BigEndian.PutUint32(record[0:], uint32(tag))
		binary.BigEndian.PutUint32(record[4:], tableChecksum(tables[i]))
		binary.BigEndian.PutUint32(record[8:], uint32(offset))
		binary.BigEndian.PutUint32(record[12:], uint32(len(tables[i])))
		out.Write(record)
		offset += padded(len(tables[i]))
	}

	for _, table := range tables {
		out.Write(table)
		out.Write(make([]byte, padded(len(table))-len(table)))
	}
	return out.Bytes()
}

func padded(n int) int {
	return (n + 3) &^ 3
}

func tableChecksum(table []byte) uint32 {
	var sum uint32
	for i := 0; i < len(table); i += 4 {
		var word [4]byte
		copy(word[:], table[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}
