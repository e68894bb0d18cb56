package pdf

import (
	"os"
	"path/filepath"
	"testing"

	gopdf "github.com/VantageDataChat/GoPDF2"
)

// writeFixturePDF writes a document with the given page count and size.
func writeFixturePDF(t *testing.T, dir, name string, pages int, size PageGeometry) string {
	t.Helper()
	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: gopdf.Rect{W: size.Width, H: size.Height}})
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Line(10, 10, size.Width-10, size.Height-10)
	}
	path := filepath.Join(dir, name)
	if err := doc.WritePdf(path); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func writeGarbage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	return path
}
