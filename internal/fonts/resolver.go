package fonts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

// EnvFontPath names the environment variable holding a CJK font override.
const EnvFontPath = "PPT2PDF_CJK_FONT"

const installGuidance = "Install a TrueType-outline CJK font and provide it via --font-path or set PPT2PDF_CJK_FONT. " +
	"Example installs: Linux `sudo apt-get install fonts-wqy-microhei fonts-arphic-uming`; " +
	"macOS ships PingFang and STHeiti in /System/Library/Fonts. " +
	"CFF-outline fonts such as Noto Sans CJK .otf/.ttc are not supported."

// Resolver picks the font used to draw watermark text.
type Resolver struct {
	Registry *Registry
	Platform Platform
	// Getenv reads environment variables; nil means os.Getenv.
	Getenv func(string) string
	// Diag receives "Warning: ..." lines; nil discards them.
	Diag io.Writer
}

// NewResolver creates a resolver over the platform's usual font locations.
func NewResolver(reg *Registry, platform Platform, diag io.Writer) *Resolver {
	return &Resolver{Registry: reg, Platform: platform, Diag: diag}
}

// Resolve returns the font to use for text. Sources are tried in order:
// explicitPath, $PPT2PDF_CJK_FONT, well-known platform paths, then a scan of
// the platform font directories. When nothing is found, CJK text fails with
// ErrFontNotFound and other text gets the bundled default face.
func (r *Resolver) Resolve(text, explicitPath string) (*ResolvedFont, error) {
	if r.Registry == nil {
		r.Registry = NewRegistry()
	}
	var warnings []string

	if explicitPath != "" {
		path := expandHome(explicitPath)
		if !isFile(path) {
			return nil, types.NewAppError(types.ErrConfig,
				fmt.Sprintf("CJK font path not found: %s. Provide a valid font file with --font-path or unset it.", path), nil)
		}
		f, err := r.Registry.register(path, text)
		if err != nil {
			logger.Error("failed to load explicit font", err, logger.String("path", path))
			if errors.Is(err, errCFFOutlines) {
				return nil, types.NewAppError(types.ErrRender,
					fmt.Sprintf("CJK font %s %s. Provide a TrueType-outline font with --font-path.", path, errCFFOutlines), err)
			}
			return nil, types.NewAppError(types.ErrRender,
				fmt.Sprintf("Failed to load CJK font from %s. Try a TrueType .ttf or .ttc font, or provide a different --font-path.", path), err)
		}
		return f, nil
	}

	if env := r.getenv(EnvFontPath); env != "" {
		path := expandHome(env)
		if !isFile(path) {
			warnings = append(warnings, fmt.Sprintf("CJK font path in %s was not found: %s.", EnvFontPath, path))
		} else if f, err := r.Registry.register(path, text); err != nil {
			logger.Debug("env font rejected", logger.String("path", path), logger.Err(err))
			warnings = append(warnings, rejection(path, err)+fmt.Sprintf(" (set in %s).", EnvFontPath))
		} else {
			r.flush(warnings)
			return f, nil
		}
	}

	for _, path := range r.Platform.CandidatePaths {
		path = expandHome(path)
		if !isFile(path) {
			continue
		}
		f, err := r.Registry.register(path, text)
		if err != nil {
			logger.Debug("candidate font rejected", logger.String("path", path), logger.Err(err))
			warnings = append(warnings, rejection(path, err)+".")
			continue
		}
		r.flush(warnings)
		return f, nil
	}

	for _, path := range scanFontDirs(r.Platform.FontDirs) {
		f, err := r.Registry.register(path, text)
		if err != nil {
			logger.Debug("scanned font rejected", logger.String("path", path), logger.Err(err))
			warnings = append(warnings, rejection(path, err)+".")
			continue
		}
		r.flush(warnings)
		return f, nil
	}

	if HasCJKText(text) {
		msg := "No CJK font found to render the watermark text."
		if len(warnings) > 0 {
			msg += " " + strings.Join(warnings, " ")
		}
		return nil, types.NewAppError(types.ErrFontNotFound, msg+" "+installGuidance, nil)
	}

	r.flush(warnings)
	logger.Debug("using default font", logger.String("name", DefaultFontName))
	return DefaultFont(), nil
}

// rejection describes why the font at path could not be used.
func rejection(path string, err error) string {
	if errors.Is(err, errCFFOutlines) {
		return fmt.Sprintf("CJK font %s %s", path, errCFFOutlines)
	}
	return "Failed to load CJK font from " + path
}

func (r *Resolver) getenv(key string) string {
	if r.Getenv != nil {
		return r.Getenv(key)
	}
	return os.Getenv(key)
}

// flush prints accumulated warnings to the diagnostic stream.
func (r *Resolver) flush(warnings []string) {
	for _, w := range warnings {
		logger.Warn(w)
		if r.Diag != nil {
			fmt.Fprintf(r.Diag, "Warning: %s\n", w)
		}
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
