package pdf

import (
	"errors"
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

// ReadPageGeometry returns the size of the first page of the document at
// path. A document without pages yields LetterGeometry.
func ReadPageGeometry(path string) (PageGeometry, error) {
	if _, err := os.Stat(path); err != nil {
		return PageGeometry{}, types.NewAppError(types.ErrDocumentNotFound,
			fmt.Sprintf("input PDF not found: %s", path), err)
	}

	dims, err := api.PageDimsFile(path)
	if err == nil && len(dims) > 0 {
		g := PageGeometry{Width: dims[0].Width, Height: dims[0].Height}
		if g.Valid() {
			logger.Debug("page geometry read", logger.String("path", path), logger.String("size", g.String()))
			return g, nil
		}
	}
	if err != nil {
		logger.Debug("pdfcpu could not read page dims, trying MediaBox", logger.String("path", path), logger.Err(err))
	}

	g, pages, lerr := mediaBoxOfFirstPage(path)
	switch {
	case lerr == nil && g.Valid():
		return g, nil
	case lerr == nil && pages == 0:
		logger.Info("document has no pages, using US Letter", logger.String("path", path))
		return LetterGeometry, nil
	case lerr == nil:
		lerr = errors.New("first page has no usable MediaBox")
	}
	return PageGeometry{}, types.NewAppError(types.ErrDocumentInvalid,
		fmt.Sprintf("cannot read page size of %s", path), lerr)
}

// mediaBoxOfFirstPage reads the (possibly inherited) MediaBox of page 1.
func mediaBoxOfFirstPage(path string) (g PageGeometry, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := lpdf.Open(path)
	if err != nil {
		return PageGeometry{}, 0, err
	}
	defer f.Close()

	pages = r.NumPage()
	if pages == 0 {
		return PageGeometry{}, 0, nil
	}

	for v := r.Page(1).V; v.Kind() == lpdf.Dict; v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() != lpdf.Array || box.Len() != 4 {
			continue
		}
		llx, lly := box.Index(0).Float64(), box.Index(1).Float64()
		urx, ury := box.Index(2).Float64(), box.Index(3).Float64()
		return PageGeometry{Width: abs(urx - llx), Height: abs(ury - lly)}, pages, nil
	}
	return PageGeometry{}, pages, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
