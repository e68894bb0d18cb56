// Package watermark renders one-page watermark overlays.
package watermark

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

// Kind selects what the watermark draws.
type Kind int

const (
	// KindText draws a line of text.
	KindText Kind = iota
	// KindImage draws a raster image.
	KindImage
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Default watermark parameters.
const (
	DefaultOpacity  = 0.3
	DefaultRotation = 45
	DefaultFontSize = 40
	DefaultScale    = 0.5
	DefaultColor    = "#808080"
)

// RGB is an 8-bit fill color.
type RGB struct {
	R, G, B uint8
}

// Spec describes one watermark. Build it once and do not modify it afterwards.
type Spec struct {
	Kind     Kind
	Content  string // text, or the image file path
	Opacity  float64
	Rotation float64 // degrees, counter-clockwise
	FontSize float64
	Color    RGB
	Tiled    bool
	SpacingX *int // tile spacing in points, nil for the default
	SpacingY *int
	FontPath string // explicit font file, empty for automatic lookup
	Scale    float64 // image width as a fraction of the page width
}

// NewTextSpec returns a text watermark with default parameters.
func NewTextSpec(text string) Spec {
	return Spec{
		Kind:     KindText,
		Content:  text,
		Opacity:  DefaultOpacity,
		Rotation: DefaultRotation,
		FontSize: DefaultFontSize,
		Color:    RGB{128, 128, 128},
		Scale:    DefaultScale,
	}
}

// NewImageSpec returns an image watermark with default parameters.
func NewImageSpec(imagePath string) Spec {
	s := NewTextSpec(imagePath)
	s.Kind = KindImage
	return s
}

// Validate checks the spec and returns a CONFIG_ERROR describing the first problem.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindText, KindImage:
	default:
		return configErr("unknown watermark kind %d", int(s.Kind))
	}
	if strings.TrimSpace(s.Content) == "" {
		if s.Kind == KindImage {
			return configErr("image path must not be empty")
		}
		return configErr("watermark text must not be empty")
	}
	if math.IsNaN(s.Opacity) || s.Opacity < 0 || s.Opacity > 1 {
		return configErr("opacity must be between 0 and 1, got %v", s.Opacity)
	}
	if math.IsNaN(s.Rotation) || math.IsInf(s.Rotation, 0) {
		return configErr("rotation must be a finite number of degrees")
	}
	if s.Kind == KindText && !(s.FontSize > 0) {
		return configErr("font size must be positive, got %v", s.FontSize)
	}
	if s.SpacingX != nil && *s.SpacingX <= 0 {
		return configErr("spacing-x must be a positive integer, got %d", *s.SpacingX)
	}
	if s.SpacingY != nil && *s.SpacingY <= 0 {
		return configErr("spacing-y must be a positive integer, got %d", *s.SpacingY)
	}
	if s.Kind == KindImage {
		if s.Tiled {
			return configErr("tiled mode is only supported for text watermarks")
		}
		if !(s.Scale > 0) || s.Scale > 1 {
			return configErr("scale must be in (0, 1], got %v", s.Scale)
		}
	}
	return nil
}

// NormalizedRotation returns the rotation reduced to [0, 360).
func (s Spec) NormalizedRotation() float64 {
	r := math.Mod(s.Rotation, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// ParseColor parses "#rrggbb", "#rgb" or the same without the leading '#'.
func ParseColor(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return RGB{}, configErr("invalid color %q, expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, configErr("invalid color %q, expected #rrggbb", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func configErr(format string, args ...interface{}) error {
	return types.NewAppError(types.ErrConfig, fmt.Sprintf(format, args...), nil)
}
