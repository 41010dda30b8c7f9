package constants

import "strings"

// Document formats understood by the ingest layer.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
	TXT   = "TXT"
	DOCX  = "DOCX"
	XLSX  = "XLSX"
)

// FileTypes holds the formats a batch upload may contain.
var FileTypes = []string{PDF, IMAGE, TXT, DOCX, XLSX}

// AllowedExtensions holds the file extensions accepted for upload.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
	"webp": {},
	"gif":  {},
	"txt":  {},
	"md":   {},
	"docx": {},
	"xlsx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized or raw extension onto one of the document formats.
// Unknown extensions map to "".
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "bmp", "tif", "tiff", "webp", "gif":
		return IMAGE
	case "txt", "md":
		return TXT
	case "docx":
		return DOCX
	case "xlsx":
		return XLSX
	}
	return ""
}

// IsAllowedExt reports whether an upload with this extension is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
