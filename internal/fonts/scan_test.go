package fonts

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
)

func TestLooksLikeCJKFont(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"NotoSansCJKsc-Regular.otf", true},
		{"NotoSerifCJK-Bold.ttc", true},
		{"wqy-microhei.ttc", true},
		{"PingFang.ttc", true},
		{"Microsoft YaHei.ttf", true},
		{"msyh.ttc", true},
		{"DejaVuSans.ttf", false},
		{"NotoSansCJK.woff2", false},
		{"wqy-readme.txt", false},
	}
	for _, tt := range tests {
		if got := looksLikeCJKFont(tt.name); got != tt.want {
			t.Errorf("looksLikeCJKFont(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScanFontDirs_DepthLimit(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"wqy-zenhei.ttc",
		"a/NotoSansCJK-Regular.ttc",
		"a/b/SourceHanSansSC-Regular.otf",
		"a/b/c/uming.ttc",
		"a/DejaVuSans.ttf",
	} {
		writeFont(t, root, rel, []byte("x"))
	}

	got := scanFontDirs([]string{root, filepath.Join(root, "missing")})
	for i := range got {
		rel, _ := filepath.Rel(root, got[i])
		got[i] = filepath.ToSlash(rel)
	}
	sort.Strings(got)

	want := []string{
		"a/NotoSansCJK-Regular.ttc",
		"a/b/SourceHanSansSC-Regular.otf",
		"wqy-zenhei.ttc",
	}
	if len(got) != len(want) {
		t.Fatalf("scan = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scan[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultPlatform(t *testing.T) {
	tests := []struct {
		goos       string
		wantPath   string
		wantDirLen int
	}{
		{"darwin", "/System/Library/Fonts/PingFang.ttc", 4},
		{"windows", "C:/Windows/Fonts/msyh.ttc", 1},
		{"linux", "/usr/share/fonts/opentype/noto/NotoSansCJKsc-Regular.otf", 4},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			p := DefaultPlatform(tt.goos, "/home/u", `C:\Windows`)
			if len(p.CandidatePaths) == 0 || p.CandidatePaths[0] != tt.wantPath {
				t.Errorf("first candidate = %v", p.CandidatePaths)
			}
			if len(p.FontDirs) != tt.wantDirLen {
				t.Errorf("font dirs = %v", p.FontDirs)
			}
		})
	}

	if p := DefaultPlatform("linux", "", ""); len(p.FontDirs) != 2 {
		t.Errorf("without home expected 2 dirs, got %v", p.FontDirs)
	}

	extra := DefaultPlatform("linux", "", "").WithExtra([]string{"/x.ttf"}, []string{"/fonts"})
	if extra.CandidatePaths[len(extra.CandidatePaths)-1] != "/x.ttf" || extra.FontDirs[len(extra.FontDirs)-1] != "/fonts" {
		t.Errorf("WithExtra did not append: %+v", extra)
	}
}

func TestScanFontDirs_LogsUnreadableDirs(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	found := writeFont(t, dir, "open/wqy-microhei.ttc", []byte("x"))
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0755); err != nil {
		t.Fatal(err)
	}
	writeFont(t, locked, "uming.ttf", []byte("x"))
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	var console bytes.Buffer
	if err := logger.Init(logger.Config{Level: logger.LevelDebug, Console: &console}); err != nil {
		t.Fatalf("logger.Init failed: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	got := scanFontDirs([]string{dir})
	if len(got) != 1 || got[0] != found {
		t.Errorf("scanFontDirs = %v, want [%s]", got, found)
	}
	if !strings.Contains(console.String(), "skipping unreadable font path path="+locked) {
		t.Errorf("expected a debug entry for %s, got %q", locked, console.String())
	}
}
