package config

import (
	"strings"
	"unicode"
)

const badFileName = "_bad_file_name_"

// CleanFileName removes characters not allowed in file names on current
// platform together with control characters. Result is never empty.
func CleanFileName(in string) string {
	out := trimFileName(strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(forbiddenFileChars, sym) {
			return -1
		}
		return sym
	}, in))
	if len(out) == 0 {
		out = badFileName
	}
	return out
}
