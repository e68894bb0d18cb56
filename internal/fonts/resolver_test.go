package fonts

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

func noEnv(string) string { return "" }

func TestResolver_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	valid := writeFont(t, dir, "Go-Regular.ttf", goregular.TTF)
	broken := writeFont(t, dir, "broken.ttf", []byte("garbage"))

	tests := []struct {
		name     string
		path     string
		wantCode types.ErrorCode
	}{
		{"valid file", valid, ""},
		{"missing file", filepath.Join(dir, "nope.ttf"), types.ErrConfig},
		{"directory", dir, types.ErrConfig},
		{"unloadable file", broken, types.ErrRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{Registry: NewRegistry(), Getenv: noEnv}
			f, err := r.Resolve("机密", tt.path)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Resolve failed: %v", err)
				}
				if f.Path != valid || f.Fallback {
					t.Errorf("unexpected font %+v", f.Name)
				}
				return
			}
			if !types.IsCode(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestResolver_MissingExplicitPathMessage(t *testing.T) {
	r := &Resolver{Registry: NewRegistry(), Getenv: noEnv}
	_, err := r.Resolve("hello", "/definitely/not/here.ttf")
	if err == nil || !strings.Contains(err.Error(), "CJK font path not found: /definitely/not/here.ttf") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestResolver_FallbackForLatinText(t *testing.T) {
	var diag bytes.Buffer
	r := &Resolver{Registry: NewRegistry(), Getenv: noEnv, Diag: &diag}

	f, err := r.Resolve("CONFIDENTIAL", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !f.Fallback {
		t.Error("expected the default face")
	}
	if diag.Len() != 0 {
		t.Errorf("unexpected diagnostics %q", diag.String())
	}
}

func TestResolver_FontNotFoundForCJK(t *testing.T) {
	r := &Resolver{Registry: NewRegistry(), Getenv: noEnv}

	_, err := r.Resolve("草稿", "")
	if !types.IsCode(err, types.ErrFontNotFound) {
		t.Fatalf("error = %v, want FONT_NOT_FOUND", err)
	}
	if !strings.Contains(err.Error(), "fonts-wqy-microhei") {
		t.Errorf("message should carry install guidance: %v", err)
	}
}

func TestResolver_EnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	valid := writeFont(t, dir, "Env.ttf", goregular.TTF)

	t.Run("valid", func(t *testing.T) {
		r := &Resolver{
			Registry: NewRegistry(),
			Getenv:   func(k string) string { return map[string]string{EnvFontPath: valid}[k] },
		}
		f, err := r.Resolve("机密", "")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if f.Path != valid {
			t.Errorf("Path = %q, want %q", f.Path, valid)
		}
	})

	t.Run("missing warns and falls back", func(t *testing.T) {
		var diag bytes.Buffer
		missing := filepath.Join(dir, "gone.ttf")
		r := &Resolver{
			Registry: NewRegistry(),
			Getenv:   func(k string) string { return map[string]string{EnvFontPath: missing}[k] },
			Diag:     &diag,
		}
		f, err := r.Resolve("CONFIDENTIAL", "")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !f.Fallback {
			t.Error("expected the default face")
		}
		want := "Warning: CJK font path in PPT2PDF_CJK_FONT was not found: " + missing
		if !strings.Contains(diag.String(), want) {
			t.Errorf("diagnostics %q missing %q", diag.String(), want)
		}
	})

	t.Run("missing with CJK text carries warning", func(t *testing.T) {
		r := &Resolver{
			Registry: NewRegistry(),
			Getenv:   func(k string) string { return map[string]string{EnvFontPath: "/nope.ttf"}[k] },
		}
		_, err := r.Resolve("机密", "")
		if !types.IsCode(err, types.ErrFontNotFound) {
			t.Fatalf("error = %v, want FONT_NOT_FOUND", err)
		}
		if !strings.Contains(err.Error(), "PPT2PDF_CJK_FONT was not found") {
			t.Errorf("message should carry the env warning: %v", err)
		}
	})
}

func TestResolver_CandidatesThenScan(t *testing.T) {
	dir := t.TempDir()
	broken := writeFont(t, dir, "candidates/broken.ttf", []byte("garbage"))
	good := writeFont(t, dir, "candidates/good.ttf", goregular.TTF)
	scanned := writeFont(t, dir, "fonts/noto/NotoSansCJKsc-Regular.ttf", goregular.TTF)

	t.Run("first loadable candidate wins", func(t *testing.T) {
		var diag bytes.Buffer
		r := &Resolver{
			Registry: NewRegistry(),
			Platform: Platform{
				CandidatePaths: []string{filepath.Join(dir, "missing.ttf"), broken, good},
				FontDirs:       []string{filepath.Join(dir, "fonts")},
			},
			Getenv: noEnv,
			Diag:   &diag,
		}
		f, err := r.Resolve("机密", "")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if f.Path != good {
			t.Errorf("Path = %q, want %q", f.Path, good)
		}
		if !strings.Contains(diag.String(), "Failed to load CJK font from "+broken) {
			t.Errorf("expected a warning for the broken candidate, got %q", diag.String())
		}
	})

	t.Run("scan when no candidate exists", func(t *testing.T) {
		r := &Resolver{
			Registry: NewRegistry(),
			Platform: Platform{FontDirs: []string{filepath.Join(dir, "fonts")}},
			Getenv:   noEnv,
		}
		f, err := r.Resolve("機密", "")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if f.Path != scanned {
			t.Errorf("Path = %q, want %q", f.Path, scanned)
		}
	})
}

// cffOnlyFont returns an OpenType font whose outlines live in a CFF table.
func cffOnlyFont() []byte {
	head := make([]byte, 54)
	head[18], head[19] = 0x03, 0xE8 // unitsPerEm 1000
	return writeSFNT(uint32(opentype.NewTag('O', 'T', 'T', 'O')),
		[]opentype.Tag{cffTag, headTag},
		[][]byte{[]byte("placeholder charstrings"), head})
}

func TestResolver_CFFFontsAreExplained(t *testing.T) {
	dir := t.TempDir()
	candidate := writeFont(t, dir, "candidates/NotoSansCJKsc-Regular.otf", cffOnlyFont())
	scanned := writeFont(t, dir, "fonts/noto/NotoSansCJK-Regular.otf", cffOnlyFont())

	t.Run("not found message names every rejected font", func(t *testing.T) {
		r := &Resolver{
			Registry: NewRegistry(),
			Platform: Platform{
				CandidatePaths: []string{candidate},
				FontDirs:       []string{filepath.Join(dir, "fonts")},
			},
			Getenv: noEnv,
		}
		_, err := r.Resolve("机密", "")
		if !types.IsCode(err, types.ErrFontNotFound) {
			t.Fatalf("error = %v, want FONT_NOT_FOUND", err)
		}
		for _, path := range []string{candidate, scanned} {
			want := "CJK font " + path + " has CFF outlines, which are not supported"
			if !strings.Contains(err.Error(), want) {
				t.Errorf("message missing %q: %v", want, err)
			}
		}
	})

	t.Run("latin fallback warns", func(t *testing.T) {
		var diag bytes.Buffer
		r := &Resolver{
			Registry: NewRegistry(),
			Platform: Platform{FontDirs: []string{filepath.Join(dir, "fonts")}},
			Getenv:   noEnv,
			Diag:     &diag,
		}
		f, err := r.Resolve("DRAFT", "")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !f.Fallback {
			t.Error("expected the default face")
		}
		if !strings.Contains(diag.String(), "Warning: CJK font "+scanned+" has CFF outlines") {
			t.Errorf("diagnostics %q missing the CFF warning", diag.String())
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		r := &Resolver{Registry: NewRegistry(), Getenv: noEnv}
		_, err := r.Resolve("机密", candidate)
		if !types.IsCode(err, types.ErrRender) {
			t.Fatalf("error = %v, want RENDER_ERROR", err)
		}
		if !strings.Contains(err.Error(), "has CFF outlines") {
			t.Errorf("message should explain the rejection: %v", err)
		}
	})
}
