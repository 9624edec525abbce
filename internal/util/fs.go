package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// forbidden lists characters that are illegal or awkward in file names on at
// least one supported OS.
const forbidden = `"#$%'*,.:;<>?\^|~/` + "`"

// SanitizeFilename cleans a string to be safe as a filename:
// - Drop forbidden and control characters
// - Collapse runs of whitespace into one space
// - Truncate to a reasonable length (~200 runes)
// Spaces are kept so titles stay readable in a directory listing.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) || strings.ContainsRune(forbidden, r) {
			continue
		}
		b.WriteRune(r)
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	const maxRunes = 200
	if utf8.RuneCountInString(s) > maxRunes {
		s = strings.TrimSpace(string([]rune(s)[:maxRunes]))
	}
	if s == "" {
		return "untitled"
	}
	return s
}

// ExtensionForMime returns the container extension for a MIME type such as
// `video/mp4; codecs="avc1.42001E, mp4a.40.2"`. Unknown types map to "mp4".
func ExtensionForMime(mime string) string {
	mime = strings.TrimSpace(mime)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if i := strings.IndexByte(mime, '/'); i >= 0 && i+1 < len(mime) {
		return strings.ToLower(mime[i+1:])
	}
	return "mp4"
}

// DefaultFilename composes the file name a variant is saved under.
func DefaultFilename(title, mime string) string {
	return SanitizeFilename(title) + "." + ExtensionForMime(mime)
}
