package storage

import "strings"

// Slugify converts an arbitrary string into a filesystem-safe token:
// lowercase, hyphen-separated, ASCII alphanumerics only. Runs of
// non-alphanumeric characters collapse into a single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
