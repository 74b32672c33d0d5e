package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docfusion/constants"
	"docfusion/internal/document"
)

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t xml:space="preserve"> paragraph</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>item</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>qty</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>apple</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>3</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>pear</w:t></w:r></w:p></w:tc>
        <w:tc><w:p></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>Closing line</w:t></w:r></w:p>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestParseDocx(t *testing.T) {
	path := writeDocx(t, sampleDocumentXML)
	content, err := parseDocx(path)
	require.NoError(t, err)

	assert.Equal(t, "First paragraph\nSecond paragraph\nClosing line", content.Text)
	require.Len(t, content.Tables, 1)
	tbl := content.Tables[0]
	assert.Equal(t, []string{"item", "qty"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"apple", "3"}, tbl.Rows[0])
	// the empty cell still yields a rectangular row
	assert.Equal(t, []string{"pear", ""}, tbl.Rows[1])
}

func TestParseDocxWideRowWidensHeaders(t *testing.T) {
	const wideTableXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>item</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>qty</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>apple</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>3</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>note</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`
	path := writeDocx(t, wideTableXML)
	content, err := parseDocx(path)
	require.NoError(t, err)

	require.Len(t, content.Tables, 1)
	tbl := content.Tables[0]
	assert.Equal(t, []string{"item", "qty", ""}, tbl.Headers)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"apple", "3", "note"}, tbl.Rows[0])
}

func TestParseDocxMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = parseDocx(path)
	assert.Error(t, err)
}

func TestTabularAdapterWord(t *testing.T) {
	path := writeDocx(t, sampleDocumentXML)
	doc := document.Document{Path: path, Filename: "sample.docx", Format: constants.WORD}

	att := NewTabularAdapter(nil).Attempt(context.Background(), doc, Options{})
	assert.Equal(t, StatusOK, att.Status)
	assert.Contains(t, att.Text, "First paragraph")
	require.Len(t, att.Tables, 1)
	require.Len(t, att.Pages, 1)
	assert.Equal(t, 1, att.Metadata.PageCount)
}

func TestTabularAdapterWordUnreadable(t *testing.T) {
	doc := document.Document{Path: "/nonexistent.docx", Format: constants.WORD}
	att := NewTabularAdapter(nil).Attempt(context.Background(), doc, Options{})
	assert.Equal(t, StatusFailed, att.Status)
}
