package cli

import (
	"strings"

	"github.com/franklee83/ppt2pdf-plus/internal/types"
	"github.com/franklee83/ppt2pdf-plus/internal/watermark"
)

// CommonArgs are accepted by every command.
type CommonArgs struct {
	Verbose bool   `arg:"-v,--verbose" help:"print debug logs to stderr"`
	LogFile string `arg:"--log-file" placeholder:"PATH" help:"also write logs to this file"`
	Config  string `arg:"--config" placeholder:"PATH" help:"config file (default $PPT2PDF_CONFIG or ~/.config/ppt2pdf-plus/config.json)"`
}

// ConversionArgs select and bound the conversion engine.
type ConversionArgs struct {
	Engine  string `arg:"--engine" placeholder:"ENGINE" help:"auto, libreoffice or builtin (default from config, else auto)"`
	Timeout *int   `arg:"--timeout" placeholder:"SECONDS" help:"conversion timeout in seconds (default 300)"`
}

// WatermarkArgs describe the watermark.
type WatermarkArgs struct {
	Text     string  `arg:"--text" help:"watermark text"`
	Image    string  `arg:"--image" placeholder:"PATH" help:"watermark image"`
	Opacity  float64 `arg:"--opacity" default:"0.3" help:"opacity between 0 and 1"`
	Rotation float64 `arg:"--rotation" default:"45" help:"rotation in degrees"`
	FontSize float64 `arg:"--font-size" default:"40" help:"font size in points"`
	FontPath string  `arg:"--font-path" placeholder:"PATH" help:"font file for the watermark text"`
	Color    string  `arg:"--color" default:"#808080" help:"text color as #rrggbb"`
	Scale    float64 `arg:"--scale" default:"0.5" help:"image width as a fraction of the page width"`
	Tiled    bool    `arg:"--tiled" help:"repeat the text across the page"`
	SpacingX *int    `arg:"--spacing-x" placeholder:"N" help:"horizontal tile spacing in points"`
	SpacingY *int    `arg:"--spacing-y" placeholder:"N" help:"vertical tile spacing in points"`
}

// Spec builds the watermark spec. Exactly one of --text and --image must be set.
func (a WatermarkArgs) Spec() (watermark.Spec, error) {
	hasText := strings.TrimSpace(a.Text) != ""
	hasImage := strings.TrimSpace(a.Image) != ""
	switch {
	case hasText && hasImage:
		return watermark.Spec{}, types.NewAppError(types.ErrConfig, "specify either --text or --image, not both", nil)
	case !hasText && !hasImage:
		return watermark.Spec{}, types.NewAppError(types.ErrConfig, "must specify either --text or --image", nil)
	}

	var spec watermark.Spec
	if hasText {
		spec = watermark.NewTextSpec(a.Text)
		color, err := watermark.ParseColor(a.Color)
		if err != nil {
			return watermark.Spec{}, err
		}
		spec.Color = color
	} else {
		spec = watermark.NewImageSpec(a.Image)
	}
	spec.Opacity = a.Opacity
	spec.Rotation = a.Rotation
	spec.FontSize = a.FontSize
	spec.FontPath = a.FontPath
	spec.Scale = a.Scale
	spec.Tiled = a.Tiled
	spec.SpacingX = a.SpacingX
	spec.SpacingY = a.SpacingY

	if err := spec.Validate(); err != nil {
		return watermark.Spec{}, err
	}
	return spec, nil
}

// ConvertCommand is the ppt2pdf command line.
type ConvertCommand struct {
	Input     string `arg:"positional,required" placeholder:"INPUT_FILE" help:"presentation to convert"`
	OutputDir string `arg:"-o,--output-dir" placeholder:"DIR" help:"output directory (default: the input's directory)"`
	ConversionArgs
	CommonArgs
}

// Description is shown in --help.
func (ConvertCommand) Description() string {
	return "Convert a PPT/PPTX presentation to PDF."
}

// WatermarkCommand is the pdfwatermark command line.
type WatermarkCommand struct {
	Input  string `arg:"positional,required" placeholder:"INPUT_PDF" help:"PDF to watermark"`
	Output string `arg:"-o,--output,required" placeholder:"OUTPUT_PDF" help:"where to write the watermarked PDF"`
	WatermarkArgs
	CommonArgs
}

// Description is shown in --help.
func (WatermarkCommand) Description() string {
	return "Add a text or image watermark to every page of a PDF."
}

// ConvertWatermarkCommand is the ppt2pdf-watermark command line.
type ConvertWatermarkCommand struct {
	Input  string `arg:"positional,required" placeholder:"INPUT_FILE" help:"presentation to convert"`
	Output string `arg:"-o,--output,required" placeholder:"OUTPUT_PDF" help:"where to write the watermarked PDF"`
	ConversionArgs
	WatermarkArgs
	CommonArgs
}

// Description is shown in --help.
func (ConvertWatermarkCommand) Description() string {
	return "Convert a presentation to PDF and watermark every page."
}
