package fonts

import (
	"bytes"
	"encoding/binary"

	"github.com/go-text/typesetting/font/opentype"
)

var (
	headTag = opentype.NewTag('h', 'e', 'a', 'd')
	os2Tag  = opentype.NewTag('O', 'S', '/', '2')
)

// Ascent returns the OS/2 typographic ascender of f scaled to size points.
// This is the distance the PDF backend puts between a top-aligned text cell
// and its baseline. Fonts without the needed tables report 0.
func (f *ResolvedFont) Ascent(size float64) float64 {
	ld, err := opentype.NewLoader(bytes.NewReader(f.Data))
	if err != nil {
		return 0
	}
	head, err := ld.RawTable(headTag)
	if err != nil || len(head) < 20 {
		return 0
	}
	unitsPerEm := binary.BigEndian.Uint16(head[18:])
	os2, err := ld.RawTable(os2Tag)
	if err != nil || len(os2) < 70 || unitsPerEm == 0 {
		return 0
	}
	ascender := int16(binary.BigEndian.Uint16(os2[68:]))
	return float64(ascender) * size / float64(unitsPerEm)
}
