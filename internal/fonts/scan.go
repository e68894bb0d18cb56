package fonts

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
)

// maxScanDepth is how many directory levels below a font dir are searched.
const maxScanDepth = 2

var fontExts = map[string]bool{".otf": true, ".ttf": true, ".ttc": true}

// familyHints are lower-cased substrings of CJK font file names.
var familyHints = []string{
	"notosanscjk",
	"notoserifcjk",
	"sourcehansans",
	"sourcehanserif",
	"noto sans cjk",
	"noto serif cjk",
	"pingfang",
	"hiragino sans",
	"stheiti",
	"heiti",
	"simsun",
	"simhei",
	"msyh",
	"microsoft yahei",
	"malgungothic",
	"applegothic",
	"wqy",
	"wenquanyi",
	"uming",
}

func looksLikeCJKFont(name string) bool {
	lower := strings.ToLower(name)
	if !fontExts[filepath.Ext(lower)] {
		return false
	}
	for _, hint := range familyHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// scanFontDirs returns CJK-looking font files found under dirs, in walk
// order. Missing or unreadable directories are skipped.
func scanFontDirs(dirs []string) []string {
	var found []string
	for _, root := range dirs {
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Debug("skipping unreadable font path", logger.String("path", path), logger.Err(err))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if depth(root, path) > maxScanDepth {
					return fs.SkipDir
				}
				return nil
			}
			if looksLikeCJKFont(d.Name()) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			logger.Debug("font directory scan stopped", logger.String("dir", root), logger.Err(err))
		}
	}
	return found
}

// depth returns how many levels path lies below root.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
