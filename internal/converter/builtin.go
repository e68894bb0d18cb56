package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	gopdf "github.com/VantageDataChat/GoPDF2"
	goppt "github.com/VantageDataChat/GoPPT"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/pdf"
)

// pxToPt converts pixels rendered at 96 DPI to PDF points.
const pxToPt = 72.0 / 96.0

func builtinSupports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pptx")
}

type renderOutcome struct {
	images []image.Image
	err    error
}

// runBuiltin renders every slide to an image and writes one PDF page per
// slide. Rendering runs in a goroutine that is abandoned at the deadline.
func (c *Converter) runBuiltin(ctx context.Context, inputPath, outputDir string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	done := make(chan renderOutcome, 1)
	go func() {
		images, err := renderSlides(inputPath, c.opts.RenderWidth, c.opts.FontDirs)
		done <- renderOutcome{images: images, err: err}
	}()

	var out renderOutcome
	select {
	case <-ctx.Done():
		return c.builtinInterrupted(ctx)
	case out = <-done:
	}
	if out.err != nil {
		return failed(EngineBuiltin, out.err, fmt.Sprintf("builtin conversion failed: %v", out.err))
	}

	data, err := assemblePDF(out.images)
	if err != nil {
		return failed(EngineBuiltin, err, fmt.Sprintf("builtin conversion failed: %v", err))
	}
	if ctx.Err() != nil {
		return c.builtinInterrupted(ctx)
	}

	pdfPath := expectedPDFPath(inputPath, outputDir)
	if err := pdf.WriteFileAtomic(pdfPath, data); err != nil {
		return failed(EngineBuiltin, err, fmt.Sprintf("cannot write %s: %v", pdfPath, err))
	}
	return Result{
		Status:     StatusSucceeded,
		Engine:     EngineBuiltin,
		PDFPath:    pdfPath,
		Diagnostic: fmt.Sprintf("rendered %d slides", len(out.images)),
	}
}

func (c *Converter) builtinInterrupted(ctx context.Context) Result {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{
			Status:     StatusTimedOut,
			Engine:     EngineBuiltin,
			Diagnostic: fmt.Sprintf("slide rendering timed out after %s", c.opts.Timeout),
			Cause:      ctx.Err(),
		}
	}
	return failed(EngineBuiltin, ctx.Err(), "conversion cancelled")
}

// renderSlides renders all slides of a .pptx file.
func renderSlides(path string, width int, fontDirs []string) (images []image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			images = nil
			err = fmt.Errorf("pptx render panic: %v", r)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presentation: %w", err)
	}
	pres, err := goppt.ReadFrom(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse presentation: %w", err)
	}
	defer pres.Close()

	slides := pres.Slides()
	if len(slides) == 0 {
		return nil, errors.New("presentation has no slides")
	}

	opts := goppt.DefaultRenderOptions()
	opts.Width = width
	opts.FontDirs = fontDirs
	opts.FontCache = goppt.NewFontCache(fontDirs...)

	images, err = pres.SlidesToImages(opts)
	if err == nil && len(images) == len(slides) {
		return images, nil
	}
	logger.Warn("batch slide rendering failed, rendering one by one", logger.Err(err))

	images = make([]image.Image, len(slides))
	for i := range slides {
		img, err := pres.SlideToImage(i, opts)
		if err != nil {
			return nil, fmt.Errorf("render slide %d: %w", i+1, err)
		}
		images[i] = img
	}
	return images, nil
}

// assemblePDF writes one page per image, each page sized to its image.
func assemblePDF(images []image.Image) ([]byte, error) {
	if len(images) == 0 {
		return nil, errors.New("no slides to write")
	}

	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: pageRect(images[0])})
	for i, img := range images {
		rect := pageRect(img)
		doc.AddPageWithOption(gopdf.PageOption{PageSize: &rect})
		if err := doc.ImageFrom(img, 0, 0, &rect); err != nil {
			return nil, fmt.Errorf("place slide %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pageRect(img image.Image) gopdf.Rect {
	b := img.Bounds()
	return gopdf.Rect{W: float64(b.Dx()) * pxToPt, H: float64(b.Dy()) * pxToPt}
}
