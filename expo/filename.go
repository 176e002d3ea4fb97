package expo

import (
	"strings"
	"unicode"
)

// BadgeFilename returns "{name}.pdf", or "badge.pdf" when name is blank.
// Path separators and control characters are replaced.
func BadgeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"':
			return '-'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "badge"
	}
	return name + ".pdf"
}
