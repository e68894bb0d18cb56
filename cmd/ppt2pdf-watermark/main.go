// Command ppt2pdf-watermark converts a presentation to PDF and watermarks it.
package main

import (
	"os"

	"github.com/franklee83/ppt2pdf-plus/internal/cli"
)

func main() {
	os.Exit(cli.RunConvertWatermark(os.Args[1:], cli.StdIO()))
}
