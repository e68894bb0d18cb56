package watermark

// Tile spacing bounds in points.
const (
	minSpacingX = 180
	maxSpacingX = 600
	minSpacingY = 120
	maxSpacingY = 400
)

// DefaultSpacing returns the tile spacing for a font size:
// clamp(size*6, 180, 600) horizontally and clamp(size*3, 120, 400) vertically.
func DefaultSpacing(fontSize float64) (x, y int) {
	return clamp(int(fontSize*6), minSpacingX, maxSpacingX),
		clamp(int(fontSize*3), minSpacingY, maxSpacingY)
}

// Spacing returns the spec's tile spacing, filling in defaults.
func (s Spec) Spacing() (x, y int) {
	x, y = DefaultSpacing(s.FontSize)
	if s.SpacingX != nil {
		x = *s.SpacingX
	}
	if s.SpacingY != nil {
		y = *s.SpacingY
	}
	return x, y
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// point is a position in PDF user space (origin bottom-left).
type point struct {
	X, Y float64
}

// tileGrid returns the tile anchors covering a width x height page, row by
// row from the bottom-left corner.
func tileGrid(width, height float64, stepX, stepY int) []point {
	if stepX <= 0 || stepY <= 0 {
		return nil
	}
	var pts []point
	for y := 0; y < int(height); y += stepY {
		for x := 0; x < int(width); x += stepX {
			pts = append(pts, point{float64(x), float64(y)})
		}
	}
	return pts
}
