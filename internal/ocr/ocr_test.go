package ocr

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	calls  [][]string
	stdout map[string]string // keyed by binary name
	errs   map[string]error
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if err := s.errs[name]; err != nil {
		return nil, []byte("boom"), err
	}
	return []byte(s.stdout[name]), nil, nil
}

func TestExtractPDFTextLayer(t *testing.T) {
	r := &stubRunner{stdout: map[string]string{"pdftotext": "page one\ftwo\fthree"}}
	e := newExtractor(Config{}, r, nil)

	res, err := e.ExtractPDF(context.Background(), "/tmp/in.pdf", false, nil)
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 3, res.Pages)
	assert.Contains(t, res.Text, "page one")

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"pdftotext", "-layout", "-enc", "UTF-8", "-eol", "unix", "/tmp/in.pdf", "-"}, r.calls[0])
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	// empty text layer forces the raster path, which fails in the stub
	// because no PNGs appear; what matters is that pdftoppm was invoked
	r := &stubRunner{stdout: map[string]string{"pdftotext": "   \n"}}
	e := newExtractor(Config{DPI: 150}, r, nil)

	res, err := e.ExtractPDF(context.Background(), "/tmp/scan.pdf", false, nil)
	require.Error(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)

	require.Len(t, r.calls, 2)
	assert.Equal(t, "pdftoppm", r.calls[1][0])
	assert.Contains(t, r.calls[1], "-r")
	assert.Contains(t, r.calls[1], "150")
}

func TestForceOCRSkipsTextLayer(t *testing.T) {
	r := &stubRunner{errs: map[string]error{"pdftoppm": fmt.Errorf("no pdftoppm")}}
	e := newExtractor(Config{}, r, nil)

	_, err := e.ExtractPDF(context.Background(), "/tmp/in.pdf", true, nil)
	require.Error(t, err)
	for _, call := range r.calls {
		assert.NotEqual(t, "pdftotext", call[0])
	}
}

func TestExtractImageLanguageHints(t *testing.T) {
	r := &stubRunner{stdout: map[string]string{"tesseract": "こんにちは"}}
	e := newExtractor(Config{Languages: []string{"eng"}, TessdataDir: "/usr/share/tessdata"}, r, nil)

	res, err := e.ExtractImage(context.Background(), "/tmp/scan.png", []string{"jpn", "eng"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "jpn+eng", res.Language)
	assert.Equal(t, "こんにちは", res.Text)

	require.Len(t, r.calls, 1)
	call := strings.Join(r.calls[0], " ")
	assert.Contains(t, call, "-l jpn+eng")
	assert.Contains(t, call, "--tessdata-dir /usr/share/tessdata")
}

func TestBoxNoiseStripped(t *testing.T) {
	r := &stubRunner{stdout: map[string]string{"tesseract": "total ─────── 12.00"}}
	e := newExtractor(Config{}, r, nil)

	res, err := e.ExtractImage(context.Background(), "/tmp/scan.png", nil)
	require.NoError(t, err)
	assert.Equal(t, "total  12.00", res.Text)
}
