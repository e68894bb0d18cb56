package watermark

import (
	"bytes"
	"fmt"
	"image"
	"os"

	gopdf "github.com/VantageDataChat/GoPDF2"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/pdf"
	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

// loadImage decodes an image file, applies its EXIF orientation and
// re-encodes it as PNG for embedding.
func loadImage(path string) (image.Image, []byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, types.NewAppError(types.ErrFileNotFound, fmt.Sprintf("image file not found: %s", path), err)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, types.NewAppError(types.ErrConfig, fmt.Sprintf("cannot decode image %s", path), err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, nil, fmt.Errorf("encode image: %w", err)
	}
	return img, buf.Bytes(), nil
}

// imageBox returns the placement of an image of size iw x ih: scale times
// the page width wide, aspect preserved, no taller than the page, centered.
// x and y are measured from the top-left corner.
func imageBox(iw, ih int, scale float64, page pdf.PageGeometry) (x, y, w, h float64) {
	w = page.Width * scale
	h = w * float64(ih) / float64(iw)
	if h > page.Height {
		h = page.Height
		w = h * float64(iw) / float64(ih)
	}
	return (page.Width - w) / 2, (page.Height - h) / 2, w, h
}

func drawImage(doc *gopdf.GoPdf, spec Spec, page pdf.PageGeometry) error {
	img, data, err := loadImage(spec.Content)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return types.NewAppError(types.ErrConfig, fmt.Sprintf("image %s is empty", spec.Content), nil)
	}

	holder, err := gopdf.ImageHolderByBytes(data)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	x, y, w, h := imageBox(bounds.Dx(), bounds.Dy(), spec.Scale, page)
	opts := gopdf.ImageOptions{
		X:           x,
		Y:           y,
		Rect:        &gopdf.Rect{W: w, H: h},
		DegreeAngle: spec.NormalizedRotation(),
		Transparency: &gopdf.Transparency{
			Alpha:         spec.Opacity,
			BlendModeType: gopdf.NormalBlendMode,
		},
	}
	if err := doc.ImageByHolderWithOptions(holder, opts); err != nil {
		return fmt.Errorf("draw image: %w", err)
	}

	logger.Debug("image watermark drawn",
		logger.String("image", spec.Content),
		logger.Float64("width", w),
		logger.Float64("height", h))
	return nil
}
