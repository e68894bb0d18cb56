package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	apptypes "github.com/franklee83/ppt2pdf-plus/internal/types"
)

// stampDescription places the overlay page unscaled and unrotated at the
// page center. The overlay carries its own transparency.
const stampDescription = "scalefactor:1 abs, rotation:0, opacity:1, position:c"

// ApplyWatermark stamps page 1 of watermarkPath on top of every page of
// sourcePath, in page order, and writes the result to outputPath.
// An existing output file is replaced.
func ApplyWatermark(sourcePath, watermarkPath, outputPath string) error {
	logger.Info("applying watermark",
		logger.String("input", filepath.Base(sourcePath)),
		logger.String("output", outputPath))

	src, err := os.Open(sourcePath)
	if err != nil {
		return apptypes.NewAppError(apptypes.ErrDocumentNotFound,
			fmt.Sprintf("cannot open input PDF: %s", sourcePath), err)
	}
	defer src.Close()

	if _, err := os.Stat(watermarkPath); err != nil {
		return apptypes.NewAppError(apptypes.ErrDocumentNotFound,
			fmt.Sprintf("cannot open watermark document: %s", watermarkPath), err)
	}
	wmPages, err := PageCount(watermarkPath)
	if err != nil {
		return apptypes.NewAppError(apptypes.ErrDocumentInvalid, "watermark document is not a valid PDF", err)
	}
	if wmPages < 1 {
		return apptypes.NewAppError(apptypes.ErrDocumentInvalid, "watermark document has no pages", nil)
	}

	wm, err := api.PDFWatermark(watermarkPath, stampDescription, true, false, types.POINTS)
	if err != nil {
		return apptypes.NewAppError(apptypes.ErrDocumentInvalid, "failed to prepare watermark stamp", err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(src, &out, nil, wm, relaxedConfig()); err != nil {
		logger.Error("failed to stamp pages", err, logger.String("input", sourcePath))
		return apptypes.NewAppError(apptypes.ErrDocumentInvalid,
			fmt.Sprintf("failed to watermark %s", sourcePath), err)
	}

	want, err := PageCount(sourcePath)
	if err != nil {
		return apptypes.NewAppError(apptypes.ErrDocumentInvalid, "cannot count pages of input PDF", err)
	}
	got, err := PageCountBytes(out.Bytes())
	if err != nil || got != want {
		return apptypes.NewAppErrorWithDetails(apptypes.ErrDocumentIO, "watermarked document is incomplete",
			fmt.Sprintf("expected %d pages, got %d", want, got), err)
	}

	if err := WriteFileAtomic(outputPath, out.Bytes()); err != nil {
		logger.Error("failed to write output", err, logger.String("output", outputPath))
		return apptypes.NewAppError(apptypes.ErrDocumentIO,
			fmt.Sprintf("cannot write output PDF: %s", outputPath), err)
	}

	logger.Info("watermark applied", logger.Int("pages", want), logger.String("output", outputPath))
	return nil
}
