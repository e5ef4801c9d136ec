package cache

import (
	"strings"
	"unicode"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// keyNamespace is the leading segment shared by every report key.
const keyNamespace = "report"

// ReportKey builds the cache key for one report of one owner:
// "report::<owner>::<kind>". Both segments are sanitized so the separator
// cannot appear inside them.
func ReportKey(ownerID, kind string) string {
	return keyNamespace + KeySeparator + sanitizeSegment(ownerID) + KeySeparator + sanitizeSegment(kind)
}

// OwnerPrefix returns the key prefix covering every report key scoped to the
// given owner. Handing this to Store.DeleteByPrefix clears all of the owner's
// reports without touching other owners.
func OwnerPrefix(ownerID string) string {
	return keyNamespace + KeySeparator + sanitizeSegment(ownerID) + KeySeparator
}

// sanitizeSegment maps an opaque identifier to a form that is safe inside a
// cache key. Letters, digits, '-', '.', '@' and '/' pass through unchanged.
// Every other rune, and the literal '_', is hex-escaped byte by byte as "_xx",
// so a bare '_' in the output can only ever start an escape. The encoding is
// therefore collision-free: distinct identifiers always map to distinct
// segments, and the "::" separator cannot be forged from the outside. An empty
// identifier becomes "_", which no escaped form can produce.
func sanitizeSegment(s string) string {
	if s == "" {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '_':
			b.WriteString("_5f")
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '.' || r == '@' || r == '/':
			b.WriteRune(r)
		default:
			escapeRune(&b, r)
		}
	}

	return b.String()
}

const hexDigits = "0123456789abcdef"

func escapeRune(b *strings.Builder, r rune) {
	encoded := string(r)
	for i := 0; i < len(encoded); i++ {
		b.WriteByte('_')
		b.WriteByte(hexDigits[encoded[i]>>4])
		b.WriteByte(hexDigits[encoded[i]&0x0f])
	}
}
