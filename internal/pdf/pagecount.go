package pdf

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
)

// PageCount returns the number of pages of the document at path.
// ledongthuc/pdf is tried first and pdfcpu is used when it fails.
func PageCount(path string) (int, error) {
	n, err := pageCountLedongthuc(func() (*lpdf.Reader, func(), error) {
		f, r, err := lpdf.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { f.Close() }, nil
	})
	if err == nil {
		return n, nil
	}
	logger.Debug("ledongthuc page count failed, using pdfcpu", logger.String("path", path), logger.Err(err))

	n, err = api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages of %s: %w", path, err)
	}
	return n, nil
}

// PageCountBytes returns the number of pages of an in-memory document.
func PageCountBytes(data []byte) (int, error) {
	n, err := pageCountLedongthuc(func() (*lpdf.Reader, func(), error) {
		r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
		return r, func() {}, err
	})
	if err == nil {
		return n, nil
	}

	n, err = api.PageCount(bytes.NewReader(data), relaxedConfig())
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

func pageCountLedongthuc(open func() (*lpdf.Reader, func(), error)) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	r, closeFn, err := open()
	if err != nil {
		return 0, err
	}
	defer closeFn()
	return r.NumPage(), nil
}

// relaxedConfig is the pdfcpu configuration used for all operations.
func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
