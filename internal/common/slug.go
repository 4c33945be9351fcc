package common

import (
	"strings"
	"unicode"
)

// Slugify joins the parts into a lowercase hyphenated slug. The result is
// deterministic: the same parts always produce the same slug, which is what
// makes vehicle slugs a pure function of (brand, model, code).
func Slugify(parts ...string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen

	for _, part := range parts {
		for _, r := range strings.ToLower(part) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
				lastHyphen = false
				continue
			}
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
