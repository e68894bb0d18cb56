package fonts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
)

var cffTag = opentype.NewTag('C', 'F', 'F', ' ')

// errCFFOutlines marks fonts whose glyphs are CFF outlines. The PDF backend
// only embeds TrueType (glyf) outlines.
var errCFFOutlines = errors.New("has CFF outlines, which are not supported")

// probeResult describes what a font file offers for a piece of text.
type probeResult struct {
	Missing int // code points of the text without a glyph
}

// probeFont checks that data is a single-face font the PDF backend can embed
// and counts how many code points of text it lacks.
func probeFont(data []byte, text string) (probeResult, error) {
	ld, err := opentype.NewLoader(bytes.NewReader(data))
	if err != nil {
		return probeResult{}, fmt.Errorf("parse font: %w", err)
	}
	if !ld.HasTable(glyfTag) {
		if ld.HasTable(cffTag) {
			return probeResult{}, errCFFOutlines
		}
		return probeResult{}, errors.New("font has no TrueType outlines")
	}

	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return probeResult{}, fmt.Errorf("parse font: %w", err)
	}

	var res probeResult
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			continue
		}
		if _, ok := face.NominalGlyph(r); !ok {
			res.Missing++
		}
	}
	return res, nil
}
