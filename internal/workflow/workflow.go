// Package workflow wires conversion, watermark rendering and page
// composition into the three command-line operations.
package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/franklee83/ppt2pdf-plus/internal/converter"
	"github.com/franklee83/ppt2pdf-plus/internal/fonts"
	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/pdf"
	"github.com/franklee83/ppt2pdf-plus/internal/types"
	"github.com/franklee83/ppt2pdf-plus/internal/watermark"
)

const watermarkFileName = "watermark.pdf"

// Workflow runs the conversion and watermark operations.
type Workflow struct {
	Converter *converter.Converter
	Renderer  *watermark.Renderer
	// TempRoot is where the per-run temporary directory is created; empty
	// means the system default.
	TempRoot string
}

// New creates a Workflow.
func New(conv *converter.Converter, renderer *watermark.Renderer) *Workflow {
	return &Workflow{Converter: conv, Renderer: renderer}
}

// WatermarkOptions are the inputs of Watermark.
type WatermarkOptions struct {
	InputPath  string
	OutputPath string
	Spec       watermark.Spec
}

// ConvertOptions are the inputs of Convert.
type ConvertOptions struct {
	InputPath string
	OutputDir string // empty means the input's directory
}

// ConvertAndWatermarkOptions are the inputs of ConvertAndWatermark.
type ConvertAndWatermarkOptions struct {
	InputPath  string
	OutputPath string
	Spec       watermark.Spec
}

// Convert converts a presentation and returns the PDF path.
func (w *Workflow) Convert(ctx context.Context, opts ConvertOptions) (string, error) {
	res := w.Converter.Convert(ctx, opts.InputPath, opts.OutputDir)
	if err := res.Err(); err != nil {
		return "", err
	}
	return res.PDFPath, nil
}

// Watermark stamps opts.Spec onto every page of opts.InputPath and writes
// opts.OutputPath. The font is resolved before any document is read.
func (w *Workflow) Watermark(ctx context.Context, opts WatermarkOptions) error {
	if err := opts.Spec.Validate(); err != nil {
		return err
	}
	if opts.OutputPath == "" {
		return types.NewAppError(types.ErrConfig, "output path is required", nil)
	}
	font, err := w.Renderer.ResolveFont(opts.Spec)
	if err != nil {
		return err
	}

	tmpDir, err := w.makeTempDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	return w.stamp(ctx, opts.InputPath, opts.OutputPath, opts.Spec, font, tmpDir)
}

// ConvertAndWatermark converts a presentation into a temporary directory,
// watermarks the result and writes opts.OutputPath. Intermediate files are
// removed whether or not the run succeeds.
func (w *Workflow) ConvertAndWatermark(ctx context.Context, opts ConvertAndWatermarkOptions) error {
	if err := opts.Spec.Validate(); err != nil {
		return err
	}
	if opts.OutputPath == "" {
		return types.NewAppError(types.ErrConfig, "output path is required", nil)
	}
	font, err := w.Renderer.ResolveFont(opts.Spec)
	if err != nil {
		return err
	}

	tmpDir, err := w.makeTempDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	convDir := filepath.Join(tmpDir, "converted")
	res := w.Converter.Convert(ctx, opts.InputPath, convDir)
	if err := res.Err(); err != nil {
		return err
	}
	logger.Debug("converted presentation", logger.String("pdf", res.PDFPath))

	return w.stamp(ctx, res.PDFPath, opts.OutputPath, opts.Spec, font, tmpDir)
}

// stamp renders the overlay into tmpDir and composes it onto inputPath.
func (w *Workflow) stamp(ctx context.Context, inputPath, outputPath string, spec watermark.Spec, font *fonts.ResolvedFont, tmpDir string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("watermark cancelled: %w", err)
	}

	page, err := pdf.ReadPageGeometry(inputPath)
	if err != nil {
		return err
	}
	logger.Debug("target page geometry", logger.String("size", page.String()))

	overlay := filepath.Join(tmpDir, watermarkFileName)
	if err := w.Renderer.RenderWithFont(spec, font, page, overlay); err != nil {
		return err
	}
	return pdf.ApplyWatermark(inputPath, overlay, outputPath)
}

func (w *Workflow) makeTempDir() (string, error) {
	dir, err := os.MkdirTemp(w.TempRoot, "ppt2pdf-*")
	if err != nil {
		return "", types.NewAppError(types.ErrDocumentIO, "cannot create temporary directory", err)
	}
	return dir, nil
}
