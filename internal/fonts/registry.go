package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
)

// FontNamePrefix prefixes every font identifier handed to the PDF backend.
const FontNamePrefix = "PPT2PDFCJK_"

// DefaultFontName is the identifier of the bundled fallback face.
const DefaultFontName = "GoRegular"

// ResolvedFont is a font ready to be embedded by the PDF backend.
type ResolvedFont struct {
	Name     string // identifier registered with the backend
	Path     string // source file, empty for the bundled face
	Data     []byte // single-face TrueType data
	Fallback bool   // true for the bundled default face
}

// Registry caches registered fonts by identifier. Entries are never removed.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	fonts map[string]*ResolvedFont
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fonts: make(map[string]*ResolvedFont)}
}

// FontName returns the identifier used for the font file at path.
func FontName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FontNamePrefix + strings.ReplaceAll(stem, " ", "_")
}

// Register loads the font file at path and caches it. Registering the same
// identifier again returns the cached entry. Collections (.ttc) contribute
// their first face.
func (r *Registry) Register(path string) (*ResolvedFont, error) {
	return r.register(path, "")
}

func (r *Registry) register(path, text string) (*ResolvedFont, error) {
	name := FontName(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[name]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	if isCollection(data) {
		data, err = extractFirstFace(data)
		if err != nil {
			return nil, err
		}
	}

	res, err := probeFont(data, text)
	if err != nil {
		return nil, err
	}
	if res.Missing > 0 {
		logger.Debug("font lacks glyphs for part of the text",
			logger.String("font", name),
			logger.Int("missing", res.Missing))
	}

	f := &ResolvedFont{Name: name, Path: path, Data: data}
	r.fonts[name] = f
	logger.Debug("font registered", logger.String("name", name), logger.String("path", path))
	return f, nil
}

// Len returns the number of registered fonts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fonts)
}

// DefaultFont returns the bundled Go Regular face.
func DefaultFont() *ResolvedFont {
	return &ResolvedFont{Name: DefaultFontName, Data: goregular.TTF, Fallback: true}
}
