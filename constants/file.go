package constants

import "strings"

// AllowedImageExtensions holds the accepted notice image extensions.
var AllowedImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// MaxImageBytes caps uploaded notice images at 10 MB.
const MaxImageBytes = 10 << 20

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedImageExt reports whether a file extension is accepted for upload.
func IsAllowedImageExt(ext string) bool {
	_, ok := AllowedImageExtensions[NormalizeExt(ext)]
	return ok
}

// IsImageContentType reports whether a sniffed MIME type is an image.
func IsImageContentType(ct string) bool {
	return strings.HasPrefix(ct, "image/")
}
