package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"

	"docfusion/internal/document"
)

// fallbackEncodings are tried in order after UTF-8. GB18030 and
// Shift-JIS reject most foreign byte sequences outright; Windows-1252
// comes last because it accepts nearly anything.
var fallbackEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"gb18030", simplifiedchinese.GB18030},
	{"shift-jis", japanese.ShiftJIS},
	{"windows-1252", charmap.Windows1252},
}

// RawTextAdapter decodes plain-text documents, trying an ordered list
// of encodings until one decodes cleanly. The whole content is returned
// as page 1.
type RawTextAdapter struct{}

func NewRawTextAdapter() *RawTextAdapter { return &RawTextAdapter{} }

func (a *RawTextAdapter) Name() document.Backend { return document.BackendRawText }

func (a *RawTextAdapter) Available() bool { return true }

func (a *RawTextAdapter) Attempt(ctx context.Context, doc document.Document, _ Options) Attempt {
	start := time.Now()

	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return failed(document.BackendRawText, err)
	}

	text, name, err := decodeText(data)
	if err != nil {
		return failed(document.BackendRawText, err)
	}

	att := Attempt{
		Backend: document.BackendRawText,
		Status:  StatusOK,
		Text:    text,
		Pages:   []Page{{Number: 1, Text: text}},
		Elapsed: time.Since(start),
	}
	att.Metadata.PageCount = 1
	if name != "utf-8" {
		att.Warnings = append(att.Warnings, "decoded as "+name)
	}
	return att
}

// decodeText tries UTF-8 first, then the legacy code pages. A decode
// counts as failed if the transformer errors or the output contains
// replacement runes.
func decodeText(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}
	for _, fe := range fallbackEncodings {
		decoded, err := fe.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		return string(decoded), fe.name, nil
	}
	return "", "", fmt.Errorf("no supported text encoding could decode the content")
}
