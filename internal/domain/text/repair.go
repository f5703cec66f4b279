package text

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RepairDoubleEncoding undoes one layer of UTF-8 text that was decoded as Latin-1
// and re-encoded ("SÃ£o Paulo" -> "São Paulo"). Text that cannot be reversed is
// returned unchanged, so clean input passes through untouched.
func RepairDoubleEncoding(s string) string {
	if s == "" || isASCII(s) {
		return s
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return s
	}
	if !utf8.ValidString(raw) {
		return s
	}
	return raw
}

// NeedsRepair reports whether s looks double-encoded.
func NeedsRepair(s string) bool {
	return RepairDoubleEncoding(s) != s
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
