package utils

import "strings"

// --- Date Sanitization ---

// dateSanitizer rewrites a raw header date for use in a filename: colons
// become hyphens, spaces become underscores, every "в" is removed. The
// letter-level removal also eats the "в" inside month abbreviations
// ("фев" comes out "фе"); existing exports carry these names, so the
// behavior is kept.
var dateSanitizer = strings.NewReplacer(":", "-", " ", "_", "в", "")

// SanitizeDate cleans a raw message date into a filename-safe suffix.
func SanitizeDate(raw string) string {
	return strings.TrimSpace(dateSanitizer.Replace(raw))
}
