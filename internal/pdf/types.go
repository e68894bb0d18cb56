// Package pdf reads page geometry from PDF documents and stamps one-page
// overlays onto every page of a document.
package pdf

import "fmt"

// PageGeometry is a page size in PDF points.
type PageGeometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LetterGeometry is US Letter, used for documents without pages.
var LetterGeometry = PageGeometry{Width: 612, Height: 792}

// Valid reports whether both dimensions are positive.
func (g PageGeometry) Valid() bool {
	return g.Width > 0 && g.Height > 0
}

// String returns "WxH" in points.
func (g PageGeometry) String() string {
	return fmt.Sprintf("%.2fx%.2f", g.Width, g.Height)
}
