// Command ppt2pdf converts a presentation to PDF.
package main

import (
	"os"

	"github.com/franklee83/ppt2pdf-plus/internal/cli"
)

func main() {
	os.Exit(cli.RunConvert(os.Args[1:], cli.StdIO()))
}
