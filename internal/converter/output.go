package converter

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// decodeOutput returns converter output as UTF-8. Output that is not valid
// UTF-8 is assumed to be GBK, the console code page of Chinese Windows.
func decodeOutput(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(decoded)
}

// combineOutput joins stdout and stderr, skipping empty parts.
func combineOutput(stdout, stderr []byte) string {
	var parts []string
	if s := strings.TrimSpace(decodeOutput(stdout)); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(decodeOutput(stderr)); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}
