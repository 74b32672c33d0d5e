package document

import (
	"os"
	"path/filepath"

	"docfusion/constants"
)

// Document is an immutable reference to a source file under extraction.
type Document struct {
	Path     string
	Filename string
	Format   constants.Format
	Size     int64
}

// FromPath stats the file and detects its format from the extension.
func FromPath(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, err
	}
	name := filepath.Base(path)
	return Document{
		Path:     path,
		Filename: name,
		Format:   constants.MapExtToFormat(filepath.Ext(name)),
		Size:     info.Size(),
	}, nil
}
