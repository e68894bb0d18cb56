package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	gopdf "github.com/VantageDataChat/GoPDF2"

	"github.com/franklee83/ppt2pdf-plus/internal/converter"
	"github.com/franklee83/ppt2pdf-plus/internal/fonts"
	"github.com/franklee83/ppt2pdf-plus/internal/pdf"
	"github.com/franklee83/ppt2pdf-plus/internal/types"
	"github.com/franklee83/ppt2pdf-plus/internal/watermark"
)

func writeFixturePDF(t *testing.T, path string, pages int) {
	t.Helper()
	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: *gopdf.PageSizeA4})
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Line(20, 20, 500, 800)
	}
	if err := doc.WritePdf(path); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

// newWorkflow returns a workflow whose font lookup sees no system fonts and
// whose temporary directories live under a test directory.
func newWorkflow(t *testing.T, conv *converter.Converter) (*Workflow, string) {
	t.Helper()
	resolver := &fonts.Resolver{Registry: fonts.NewRegistry(), Getenv: func(string) string { return "" }}
	if conv == nil {
		conv = converter.New(converter.Options{})
	}
	w := New(conv, watermark.NewRenderer(resolver))
	w.TempRoot = t.TempDir()
	return w, w.TempRoot
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWatermark(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "report.pdf")
	writeFixturePDF(t, input, 4)

	tests := []struct {
		name   string
		modify func(*watermark.Spec)
	}{
		{"centered", func(*watermark.Spec) {}},
		{"tiled", func(s *watermark.Spec) { s.Tiled = true }},
		{"invisible", func(s *watermark.Spec) { s.Opacity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, tmpRoot := newWorkflow(t, nil)
			spec := watermark.NewTextSpec("CONFIDENTIAL")
			tt.modify(&spec)
			output := filepath.Join(dir, tt.name+".pdf")

			err := w.Watermark(context.Background(), WatermarkOptions{InputPath: input, OutputPath: output, Spec: spec})
			if err != nil {
				t.Fatalf("Watermark failed: %v", err)
			}
			if n, err := pdf.PageCount(output); err != nil || n != 4 {
				t.Errorf("output pages = %d, %v; want 4", n, err)
			}
			assertEmptyDir(t, tmpRoot)
		})
	}
}

func TestWatermark_Errors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.pdf")
	writeFixturePDF(t, input, 1)

	tests := []struct {
		name     string
		input    string
		spec     watermark.Spec
		wantCode types.ErrorCode
	}{
		{"invalid opacity", input, func() watermark.Spec { s := watermark.NewTextSpec("x"); s.Opacity = -1; return s }(), types.ErrConfig},
		// The font check runs before the missing input is noticed.
		{"CJK without font", filepath.Join(dir, "missing.pdf"), watermark.NewTextSpec("绝密"), types.ErrFontNotFound},
		{"missing input", filepath.Join(dir, "missing.pdf"), watermark.NewTextSpec("DRAFT"), types.ErrDocumentNotFound},
		{"missing image", input, watermark.NewImageSpec(filepath.Join(dir, "logo.png")), types.ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, tmpRoot := newWorkflow(t, nil)
			output := filepath.Join(dir, "out-"+tt.name+".pdf")
			err := w.Watermark(context.Background(), WatermarkOptions{InputPath: tt.input, OutputPath: output, Spec: tt.spec})
			if !types.IsCode(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
			if _, err := os.Stat(output); err == nil {
				t.Error("output must not exist after a failure")
			}
			assertEmptyDir(t, tmpRoot)
		})
	}
}

// fakeConverter writes a script that "converts" by copying fixture.
func fakeConverter(t *testing.T, dir, fixture string, exitCode int) *converter.Converter {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script converters need a POSIX shell")
	}
	script := fmt.Sprintf(`#!/bin/sh
outdir=""
while [ $# -gt 1 ]; do
  if [ "$1" = "--outdir" ]; then outdir="$2"; shift; fi
  shift
done
if [ %d -ne 0 ]; then echo "conversion exploded" >&2; exit %d; fi
name=$(basename "$1")
cp %q "$outdir/${name%%.*}.pdf"
`, exitCode, exitCode, fixture)
	bin := filepath.Join(dir, "fake-libreoffice")
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return converter.New(converter.Options{Engine: converter.EngineLibreOffice, BinaryPath: bin, Timeout: 10 * time.Second})
}

func TestConvertAndWatermark(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.pdf")
	writeFixturePDF(t, fixture, 3)
	input := filepath.Join(dir, "slides.pptx")
	if err := os.WriteFile(input, []byte("pptx"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("success", func(t *testing.T) {
		w, tmpRoot := newWorkflow(t, fakeConverter(t, dir, fixture, 0))
		output := filepath.Join(dir, "final", "slides-watermarked.pdf")
		spec := watermark.NewTextSpec("INTERNAL")
		spec.Tiled = true

		if err := w.ConvertAndWatermark(context.Background(), ConvertAndWatermarkOptions{InputPath: input, OutputPath: output, Spec: spec}); err != nil {
			t.Fatalf("ConvertAndWatermark failed: %v", err)
		}
		if n, err := pdf.PageCount(output); err != nil || n != 3 {
			t.Errorf("output pages = %d, %v; want 3", n, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "slides.pdf")); err == nil {
			t.Error("intermediate PDF must not be written next to the input")
		}
		assertEmptyDir(t, tmpRoot)
	})

	t.Run("conversion failure", func(t *testing.T) {
		w, tmpRoot := newWorkflow(t, fakeConverter(t, dir, fixture, 3))
		output := filepath.Join(dir, "never.pdf")
		err := w.ConvertAndWatermark(context.Background(), ConvertAndWatermarkOptions{InputPath: input, OutputPath: output, Spec: watermark.NewTextSpec("X")})
		if !types.IsCode(err, types.ErrConversion) {
			t.Fatalf("error = %v, want CONVERSION_ERROR", err)
		}
		assertEmptyDir(t, tmpRoot)
	})
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.pdf")
	writeFixturePDF(t, fixture, 2)
	input := filepath.Join(dir, "talk.odp")
	if err := os.WriteFile(input, []byte("odp"), 0644); err != nil {
		t.Fatal(err)
	}

	w, _ := newWorkflow(t, fakeConverter(t, dir, fixture, 0))
	outDir := filepath.Join(dir, "pdfs")
	got, err := w.Convert(context.Background(), ConvertOptions{InputPath: input, OutputDir: outDir})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if got != filepath.Join(outDir, "talk.pdf") {
		t.Errorf("Convert returned %q", got)
	}
}
