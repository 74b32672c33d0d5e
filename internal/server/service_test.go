package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docfusion/internal/common"
	"docfusion/internal/extract"
	"docfusion/internal/fusion"
	"docfusion/internal/pipeline"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := common.ServerConfig{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	}
	proc := pipeline.NewProcessor(common.PipelineConfig{
		BackendTimeout: time.Second,
		WorkerLimit:    2,
		CharBudget:     10000,
		TableRowCap:    100,
	}, []extract.Adapter{extract.NewRawTextAdapter()}, nil, nil)
	return New(cfg, proc, nil, nil)
}

func TestStatusEndpoint(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/ocr/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Service  string          `json:"service"`
		Adapters map[string]bool `json:"adapters"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "docfusion", body.Service)
	assert.True(t, body.Adapters["raw_text"])
}

func TestUploadTextDocument(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello from upload"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/ocr/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res fusion.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "hello from upload", res.FullText)
	assert.Equal(t, fusion.StatusSuccess, res.ProcessingInfo.Status)
	assert.Equal(t, "notes.txt", res.DocumentMetadata.Filename)
	require.Len(t, res.Pages, 1)
}

func TestUploadMissingFile(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("force_ocr", "true"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/ocr/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeName("../../etc/passwd"))
	assert.Equal(t, "my_report_v2.pdf", sanitizeName("my report v2.pdf"))
	assert.Equal(t, "upload", sanitizeName(""))
}
