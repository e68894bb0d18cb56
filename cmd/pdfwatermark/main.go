// Command pdfwatermark adds a text or image watermark to a PDF.
package main

import (
	"os"

	"github.com/franklee83/ppt2pdf-plus/internal/cli"
)

func main() {
	os.Exit(cli.RunWatermark(os.Args[1:], cli.StdIO()))
}
