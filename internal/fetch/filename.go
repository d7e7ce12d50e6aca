package fetch

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// DefaultDownloadName is used when neither the Content-Disposition header
// nor the URL path yields a filename.
const DefaultDownloadName = "download.bin"

var (
	// RFC 5987 extended form: filename*=charset'lang'percent-encoded-value.
	cdExtendedRe = regexp.MustCompile(`(?i)filename\*\s*=\s*[^']+'[^']*'([^;]+)`)

	// Plain form: filename="value" or filename=value.
	cdPlainRe = regexp.MustCompile(`(?i)filename\s*=\s*"?([^";]+)"?`)
)

// FilenameFromContentDisposition extracts a filename from a
// Content-Disposition header value. The RFC 5987 extended form is
// preferred over the plain form because the portal's file server encodes
// Hangul filenames that way. Returns an empty string when neither form is
// present.
func FilenameFromContentDisposition(cd string) string {
	if cd == "" {
		return ""
	}
	if m := cdExtendedRe.FindStringSubmatch(cd); m != nil {
		if decoded, err := url.PathUnescape(m[1]); err == nil {
			return decoded
		}
		return m[1]
	}
	if m := cdPlainRe.FindStringSubmatch(cd); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// filenameFromURL derives a filename from the final request URL's path
// basename, percent-decoded. Returns an empty string when the path has no
// usable basename.
func filenameFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	if decoded, err := url.PathUnescape(base); err == nil {
		return decoded
	}
	return base
}

// pathUnsafe are the characters replaced by SafeFilename.
const pathUnsafe = `/\:*?"<>|`

// SafeFilename replaces path-unsafe characters with underscores and trims
// surrounding whitespace so the name can be written to any filesystem.
func SafeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(pathUnsafe, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
