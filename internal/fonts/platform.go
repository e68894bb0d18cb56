package fonts

import "path/filepath"

// Platform lists where CJK fonts are usually installed.
type Platform struct {
	CandidatePaths []string // well-known CJK font files, tried in order
	FontDirs       []string // directories scanned for CJK font families
}

// DefaultPlatform returns the well-known font locations for goos.
// home and windir may be empty.
func DefaultPlatform(goos, home, windir string) Platform {
	var p Platform
	switch goos {
	case "darwin":
		p.CandidatePaths = []string{
			"/System/Library/Fonts/PingFang.ttc",
			"/System/Library/Fonts/STHeiti Medium.ttc",
			"/System/Library/Fonts/Supplemental/Heiti TC.ttc",
			"/Library/Fonts/NotoSansCJKsc-Regular.otf",
			"/Library/Fonts/NotoSansCJK-Regular.ttc",
		}
		p.FontDirs = []string{
			"/System/Library/Fonts",
			"/System/Library/Fonts/Supplemental",
			"/Library/Fonts",
		}
		if home != "" {
			p.CandidatePaths = append(p.CandidatePaths, filepath.Join(home, "Library", "Fonts", "NotoSansCJKsc-Regular.otf"))
			p.FontDirs = append(p.FontDirs, filepath.Join(home, "Library", "Fonts"))
		}
	case "windows":
		p.CandidatePaths = []string{
			"C:/Windows/Fonts/msyh.ttc",
			"C:/Windows/Fonts/msyh.ttf",
			"C:/Windows/Fonts/simsun.ttc",
			"C:/Windows/Fonts/simhei.ttf",
			"C:/Windows/Fonts/msjh.ttc",
			"C:/Windows/Fonts/malgun.ttf",
		}
		if windir != "" {
			p.FontDirs = []string{filepath.Join(windir, "Fonts")}
		}
	default:
		p.CandidatePaths = []string{
			"/usr/share/fonts/opentype/noto/NotoSansCJKsc-Regular.otf",
			"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
			"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
			"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
			"/usr/share/fonts/opentype/source-han-sans/SourceHanSansSC-Regular.otf",
			"/usr/share/fonts/truetype/arphic/uming.ttc",
		}
		p.FontDirs = []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			p.FontDirs = append(p.FontDirs,
				filepath.Join(home, ".fonts"),
				filepath.Join(home, ".local", "share", "fonts"))
		}
	}
	return p
}

// WithExtra returns a copy of p with extra candidates and scan directories appended.
func (p Platform) WithExtra(paths, dirs []string) Platform {
	out := Platform{
		CandidatePaths: append(append([]string(nil), p.CandidatePaths...), paths...),
		FontDirs:       append(append([]string(nil), p.FontDirs...), dirs...),
	}
	return out
}
