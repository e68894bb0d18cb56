package watermark

import (
	"bytes"
	"fmt"
	"io"

	gopdf "github.com/VantageDataChat/GoPDF2"
	"golang.org/x/text/unicode/norm"

	"github.com/franklee83/ppt2pdf-plus/internal/fonts"
	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/pdf"
	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

// Renderer produces one-page watermark documents.
type Renderer struct {
	Resolver *fonts.Resolver
}

// NewRenderer creates a renderer that looks fonts up through resolver.
func NewRenderer(resolver *fonts.Resolver) *Renderer {
	return &Renderer{Resolver: resolver}
}

// ResolveFont returns the font a text watermark will be drawn with.
// Image watermarks need no font and get nil.
func (r *Renderer) ResolveFont(spec Spec) (*fonts.ResolvedFont, error) {
	if spec.Kind != KindText {
		return nil, nil
	}
	if r.Resolver == nil {
		r.Resolver = &fonts.Resolver{Registry: fonts.NewRegistry()}
	}
	return r.Resolver.Resolve(norm.NFC.String(spec.Content), spec.FontPath)
}

// Render validates spec, resolves its font and writes the overlay to outputPath.
func (r *Renderer) Render(spec Spec, page pdf.PageGeometry, outputPath string) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	font, err := r.ResolveFont(spec)
	if err != nil {
		return err
	}
	return r.RenderWithFont(spec, font, page, outputPath)
}

// RenderWithFont writes the overlay using an already resolved font.
// The output has exactly one page of the given geometry.
func (r *Renderer) RenderWithFont(spec Spec, font *fonts.ResolvedFont, page pdf.PageGeometry, outputPath string) error {
	var buf bytes.Buffer
	if err := r.WriteTo(&buf, spec, font, page); err != nil {
		return err
	}
	if err := pdf.WriteFileAtomic(outputPath, buf.Bytes()); err != nil {
		return types.NewAppError(types.ErrRender, "failed to write watermark document", err)
	}
	logger.Debug("watermark document written",
		logger.String("path", outputPath),
		logger.String("kind", spec.Kind.String()),
		logger.Bool("tiled", spec.Tiled))
	return nil
}

// WriteTo renders the overlay into w.
func (r *Renderer) WriteTo(w io.Writer, spec Spec, font *fonts.ResolvedFont, page pdf.PageGeometry) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if !page.Valid() {
		return types.NewAppError(types.ErrRender, fmt.Sprintf("invalid page size %.2fx%.2f", page.Width, page.Height), nil)
	}

	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{
		Unit:     gopdf.UnitPT,
		PageSize: gopdf.Rect{W: page.Width, H: page.Height},
	})
	doc.AddPage()

	var err error
	switch spec.Kind {
	case KindText:
		if font == nil {
			font = fonts.DefaultFont()
		}
		err = drawText(doc, spec, font, page)
	case KindImage:
		err = drawImage(doc, spec, page)
	}
	if err != nil {
		logger.Error("failed to draw watermark", err, logger.String("kind", spec.Kind.String()))
		if types.CodeOf(err) != "" {
			return err
		}
		return types.NewAppError(types.ErrRender, "failed to render watermark", err)
	}

	if err := doc.Write(w); err != nil {
		return types.NewAppError(types.ErrRender, "failed to serialise watermark document", err)
	}
	return nil
}

func drawText(doc *gopdf.GoPdf, spec Spec, font *fonts.ResolvedFont, page pdf.PageGeometry) error {
	if err := doc.AddTTFFontData(font.Name, font.Data); err != nil {
		return fmt.Errorf("embed font %s: %w", font.Name, err)
	}
	if err := doc.SetFont(font.Name, "", spec.FontSize); err != nil {
		return fmt.Errorf("select font %s: %w", font.Name, err)
	}
	doc.SetTextColor(spec.Color.R, spec.Color.G, spec.Color.B)

	text := norm.NFC.String(spec.Content)
	width, err := doc.MeasureTextWidth(text)
	if err != nil {
		return fmt.Errorf("measure text: %w", err)
	}
	ascent := font.Ascent(spec.FontSize)

	anchors := []point{{page.Width / 2, page.Height / 2}}
	if spec.Tiled {
		sx, sy := spec.Spacing()
		anchors = tileGrid(page.Width, page.Height, sx, sy)
	}

	opacity := &gopdf.Transparency{Alpha: spec.Opacity, BlendModeType: gopdf.NormalBlendMode}
	rotation := spec.NormalizedRotation()
	for _, p := range anchors {
		// gopdf measures y from the top edge. The anchor is the text baseline,
		// which a top-aligned cell places one ascent below its origin.
		x, y := p.X, page.Height-p.Y
		if rotation != 0 {
			doc.Rotate(rotation, x, y)
		}
		doc.SetXY(x-width/2, y-ascent)
		cell := &gopdf.Rect{W: width, H: spec.FontSize}
		if err := doc.CellWithOption(cell, text, gopdf.CellOption{
			Align:        gopdf.Left | gopdf.Top,
			Transparency: opacity,
		}); err != nil {
			return fmt.Errorf("draw text: %w", err)
		}
		if rotation != 0 {
			doc.RotateReset()
		}
	}

	logger.Debug("text watermark drawn",
		logger.String("font", font.Name),
		logger.Int("instances", len(anchors)),
		logger.Float64("rotation", rotation))
	return nil
}
