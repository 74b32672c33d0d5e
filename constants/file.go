package constants

import "strings"

// Format is the detected document family used for backend dispatch.
type Format string

const (
	PDF         Format = "PDF"
	IMAGE       Format = "IMAGE"
	SPREADSHEET Format = "SPREADSHEET"
	WORD        Format = "WORD"
	TEXT        Format = "TEXT"
	UNKNOWN     Format = "UNKNOWN"
)

var extToFormat = map[string]Format{
	"pdf": PDF,

	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"png":  IMAGE,
	"bmp":  IMAGE,
	"gif":  IMAGE,
	"webp": IMAGE,
	"tif":  IMAGE,
	"tiff": IMAGE,

	"xlsx": SPREADSHEET,
	"xlsm": SPREADSHEET,
	"xltx": SPREADSHEET,
	"xltm": SPREADSHEET,

	"docx": WORD,

	"txt":      TEXT,
	"text":     TEXT,
	"csv":      TEXT,
	"tsv":      TEXT,
	"md":       TEXT,
	"markdown": TEXT,
	"log":      TEXT,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its document format.
// Unrecognized extensions map to UNKNOWN; the dispatcher decides what
// to do with those.
func MapExtToFormat(ext string) Format {
	if f, ok := extToFormat[NormalizeExt(ext)]; ok {
		return f
	}
	return UNKNOWN
}
