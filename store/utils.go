package store

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	allowedExtensions = map[string]struct{}{
		".pdf": {},
		".txt": {},
	}

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
)

// Allowed reports whether name carries a supported document extension.
func Allowed(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// SecureName reduces an uploaded filename to a flat, ASCII-only name that is
// safe to use as a document id. It returns "" when nothing usable remains.
func SecureName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return ' '
		case r > unicode.MaxASCII:
			return -1
		default:
			return r
		}
	}, name)

	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	return name
}
