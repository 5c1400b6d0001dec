package constants

import "strings"

// Format is the coarse file classification used to pick an extraction strategy.
type Format string

const (
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
)

// AllowedExtensions holds the file extensions accepted for upload.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
	"tiff": {},
	"tif":  {},
	"bmp":  {},
}

// mimeByExt maps normalized extensions to media types.
var mimeByExt = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"tiff": "image/tiff",
	"tif":  "image/tiff",
	"bmp":  "image/bmp",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat classifies an extension; anything that is not a PDF is
// treated as an image so extraction can still be attempted.
func MapExtToFormat(ext string) Format {
	if NormalizeExt(ext) == "pdf" {
		return PDF
	}
	return IMAGE
}

// MapExtToMIME returns the media type for an extension. The mapping is total:
// unknown extensions fall back to image/jpeg rather than failing.
func MapExtToMIME(ext string) string {
	if mt, ok := mimeByExt[NormalizeExt(ext)]; ok {
		return mt
	}
	return "image/jpeg"
}

// IsAllowedExt reports whether the extension is accepted for upload.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
