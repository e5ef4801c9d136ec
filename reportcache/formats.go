package reportcache

import "strings"

// formatNames maps well-known content types to the short format names used
// in the breakdown report. Content types outside this map fall back to their
// subtype.
var formatNames = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpeg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",

	"application/pdf":    "pdf",
	"application/zip":    "zip",
	"application/gzip":   "gzip",
	"application/json":   "json",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"application/vnd.ms-excel": "xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "xlsx",

	"text/plain": "txt",
	"text/csv":   "csv",
	"text/html":  "html",

	"audio/mpeg": "mp3",
	"video/mp4":  "mp4",
}

// FormatKey resolves a content type to the normalized format name used by the
// breakdown report. Resolution order: the static mapping above, then the
// subtype portion of the content type. The boolean reports whether a usable
// key was produced; a missing or malformed content type returns false and the
// item is skipped by the reduction.
func FormatKey(contentType string) (string, bool) {
	ct := strings.TrimSpace(contentType)
	if ct == "" {
		return "", false
	}

	// Strip media type parameters ("text/plain; charset=utf-8").
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	ct = strings.ToLower(ct)

	if name, ok := formatNames[ct]; ok {
		return name, true
	}

	parts := strings.SplitN(ct, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
