package config

import (
	"strings"
	"unicode"
)

const badFileName = "_bad_file_name_"

// cleanFileName drops control characters and characters from forbidden set,
// trims spaces and leading dots.
func cleanFileName(in, forbidden string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(forbidden, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(strings.TrimSpace(out), ".")
	if len(out) == 0 {
		return badFileName
	}
	return out
}
