// Package converter turns presentation files into PDF, either through a
// headless LibreOffice process or with the builtin slide renderer.
package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

// Engine names a conversion backend.
type Engine string

const (
	// EngineAuto uses LibreOffice when installed and the builtin renderer otherwise.
	EngineAuto Engine = "auto"
	// EngineLibreOffice always runs LibreOffice.
	EngineLibreOffice Engine = "libreoffice"
	// EngineBuiltin renders .pptx slides in-process.
	EngineBuiltin Engine = "builtin"
)

// DefaultTimeout bounds one conversion.
const DefaultTimeout = 300 * time.Second

// DefaultRenderWidth is the slide width in pixels used by the builtin engine.
const DefaultRenderWidth = 1920

// ParseEngine validates an engine name.
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(name))); e {
	case "":
		return EngineAuto, nil
	case EngineAuto, EngineLibreOffice, EngineBuiltin:
		return e, nil
	default:
		return "", types.NewAppError(types.ErrConfig,
			fmt.Sprintf("unknown engine %q (expected auto, libreoffice or builtin)", name), nil)
	}
}

// Options configures a Converter.
type Options struct {
	Engine      Engine
	BinaryPath  string        // LibreOffice executable, empty for lookup
	Timeout     time.Duration // zero means DefaultTimeout
	RenderWidth int           // builtin engine slide width, zero means DefaultRenderWidth
	FontDirs    []string      // extra font directories for the builtin engine
	Diag        io.Writer     // receives "Warning: ..." lines, nil discards them
}

// Converter runs conversions. It holds no per-conversion state.
type Converter struct {
	opts     Options
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
}

// New creates a Converter, filling in defaults.
func New(opts Options) *Converter {
	if opts.Engine == "" {
		opts.Engine = EngineAuto
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RenderWidth <= 0 {
		opts.RenderWidth = DefaultRenderWidth
	}
	return &Converter{opts: opts, lookPath: exec.LookPath, stat: os.Stat}
}

// knownInstallPaths are LibreOffice locations outside PATH.
var knownInstallPaths = map[string][]string{
	"darwin":  {"/Applications/LibreOffice.app/Contents/MacOS/soffice"},
	"windows": {`C:\Program Files\LibreOffice\program\soffice.exe`, `C:\Program Files (x86)\LibreOffice\program\soffice.exe`},
}

// FindBinary locates the LibreOffice executable: the configured path, then
// "libreoffice" and "soffice" on PATH, then well-known install locations.
func (c *Converter) FindBinary() (string, bool) {
	if c.opts.BinaryPath != "" {
		if p, err := c.lookPath(c.opts.BinaryPath); err == nil {
			return p, true
		}
		logger.Warn("configured LibreOffice binary not usable", logger.String("path", c.opts.BinaryPath))
		if c.opts.Diag != nil {
			fmt.Fprintf(c.opts.Diag, "Warning: configured LibreOffice binary %s is not usable, searching PATH instead.\n", c.opts.BinaryPath)
		}
	}
	for _, name := range []string{"libreoffice", "soffice"} {
		if p, err := c.lookPath(name); err == nil {
			return p, true
		}
	}
	for _, p := range knownInstallPaths[runtime.GOOS] {
		if info, err := c.stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Convert converts inputPath to PDF in outputDir (the input's directory when
// empty). The PDF is named after the input file with a .pdf extension.
func (c *Converter) Convert(ctx context.Context, inputPath, outputDir string) Result {
	if abs, err := filepath.Abs(inputPath); err == nil {
		inputPath = abs
	}
	info, err := os.Stat(inputPath)
	if err != nil || info.IsDir() {
		return failed(c.opts.Engine,
			types.NewAppError(types.ErrFileNotFound, fmt.Sprintf("input file not found: %s", inputPath), err),
			fmt.Sprintf("input file not found: %s", inputPath))
	}
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	} else if abs, err := filepath.Abs(outputDir); err == nil {
		outputDir = abs
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return failed(c.opts.Engine, err, fmt.Sprintf("cannot create output directory %s: %v", outputDir, err))
	}

	engine, binary, res, ok := c.pickEngine(inputPath)
	if !ok {
		return res
	}

	logger.Info("converting presentation",
		logger.String("input", inputPath),
		logger.String("outputDir", outputDir),
		logger.String("engine", string(engine)),
		logger.Float64("timeoutSeconds", c.opts.Timeout.Seconds()))

	start := time.Now()
	switch engine {
	case EngineLibreOffice:
		res = c.runLibreOffice(ctx, binary, inputPath, outputDir)
	default:
		res = c.runBuiltin(ctx, inputPath, outputDir)
	}

	if res.Succeeded() {
		logger.Info("conversion finished",
			logger.String("pdf", res.PDFPath),
			logger.Int64("elapsedMs", time.Since(start).Milliseconds()))
	} else {
		logger.Error("conversion failed", res.Err(),
			logger.String("status", res.Status.String()),
			logger.String("engine", string(engine)))
	}
	return res
}

// pickEngine resolves EngineAuto and checks that the chosen engine can run.
func (c *Converter) pickEngine(inputPath string) (Engine, string, Result, bool) {
	switch c.opts.Engine {
	case EngineBuiltin:
		if !builtinSupports(inputPath) {
			return "", "", failed(EngineBuiltin, nil,
				fmt.Sprintf("the builtin engine only converts .pptx files: %s", filepath.Base(inputPath))), false
		}
		return EngineBuiltin, "", Result{}, true
	case EngineLibreOffice:
		binary, ok := c.FindBinary()
		if !ok {
			return "", "", failed(EngineLibreOffice, nil,
				"LibreOffice not found. Install LibreOffice or set libreoffice_path in the config file."), false
		}
		return EngineLibreOffice, binary, Result{}, true
	default:
		if binary, ok := c.FindBinary(); ok {
			return EngineLibreOffice, binary, Result{}, true
		}
		if builtinSupports(inputPath) {
			logger.Info("LibreOffice not found, using builtin renderer")
			return EngineBuiltin, "", Result{}, true
		}
		return "", "", failed(EngineAuto, nil,
			"LibreOffice not found and the builtin engine only converts .pptx files. Install LibreOffice."), false
	}
}

// runLibreOffice runs "<binary> --headless --convert-to pdf --outdir <dir> <input>".
func (c *Converter) runLibreOffice(ctx context.Context, binary, inputPath, outputDir string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "--headless", "--convert-to", "pdf", "--outdir", outputDir, inputPath)
	cmd.WaitDelay = 2 * time.Second
	hideWindowOnWindows(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := combineOutput(stdout.Bytes(), stderr.Bytes())

	if ctx.Err() == context.DeadlineExceeded {
		return Result{
			Status:     StatusTimedOut,
			Engine:     EngineLibreOffice,
			Diagnostic: fmt.Sprintf("LibreOffice conversion timed out after %s", c.opts.Timeout),
			Cause:      ctx.Err(),
		}
	}
	if err != nil {
		diag := "LibreOffice conversion failed"
		if msg := decodeOutput(stderr.Bytes()); strings.TrimSpace(msg) != "" {
			diag += ": " + strings.TrimSpace(msg)
		} else {
			diag += ": " + err.Error()
		}
		return failed(EngineLibreOffice, err, diag)
	}

	pdfPath := expectedPDFPath(inputPath, outputDir)
	if _, err := os.Stat(pdfPath); err != nil {
		diag := fmt.Sprintf("Expected PDF not created: %s", pdfPath)
		if output != "" {
			diag += "\n" + output
		}
		return failed(EngineLibreOffice, err, diag)
	}

	logger.Debug("LibreOffice output", logger.String("output", output))
	return Result{Status: StatusSucceeded, Engine: EngineLibreOffice, PDFPath: pdfPath, Diagnostic: output}
}

// expectedPDFPath is where a converter writes the PDF for inputPath.
func expectedPDFPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+".pdf")
}
