package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"docfusion/internal/common"
	"docfusion/internal/document"
	"docfusion/internal/extract"
)

var unsafeNameChars = regexp.MustCompile(`[^\w.\-]+`)

// handleUpload accepts one multipart document and runs the pipeline on
// it synchronously. The uploaded bytes live in a temp file that is
// removed once processing finishes.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.writeError(w, common.NewAppError("BAD_UPLOAD", "could not parse multipart form", common.ErrInvalidInput))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, common.NewAppError("BAD_UPLOAD", "missing file field", common.ErrInvalidInput))
		return
	}
	defer file.Close()

	path, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.writeError(w, common.WrapError(err, "store upload"))
		return
	}
	defer os.Remove(path)

	doc, err := document.FromPath(path)
	if err != nil {
		s.writeError(w, common.WrapError(err, "stat upload"))
		return
	}
	doc.Filename = sanitizeName(header.Filename)

	opts := optionsFromForm(r)
	res, err := s.proc.Process(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleStatus reports which backends are configured, without running
// any extraction.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	adapters := map[string]bool{}
	for name, a := range s.proc.Adapters() {
		adapters[string(name)] = a.Available()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service":  "docfusion",
		"adapters": adapters,
	})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, common.NewAppError("NO_STORE", "job store not configured", common.ErrNotFound))
		return
	}
	jobs, err := s.store.Recent(r.Context(), 50)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// saveUpload writes the upload into the configured directory under a
// collision-free sanitized name. The caller removes the file.
func (s *Server) saveUpload(src io.Reader, name string) (string, error) {
	path := filepath.Join(s.cfg.UploadDir, uuid.NewString()+"-"+sanitizeName(name))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = unsafeNameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}

// optionsFromForm maps the request's toggles onto extraction options.
// Backends default to enabled; an explicit false disables them.
func optionsFromForm(r *http.Request) extract.Options {
	opts := extract.Options{
		ForceOCR: formBool(r, "force_ocr", false),
	}
	if lang := strings.TrimSpace(r.FormValue("language")); lang != "" {
		for _, l := range strings.Split(lang, ",") {
			if l = strings.TrimSpace(l); l != "" {
				opts.Languages = append(opts.Languages, l)
			}
		}
	}
	toggles := map[string]document.Backend{
		"use_pdf_text": document.BackendPDFText,
		"use_ocr":      document.BackendOCR,
		"use_vision":   document.BackendVision,
		"use_tabular":  document.BackendTabular,
		"use_raw_text": document.BackendRawText,
	}
	for field, backend := range toggles {
		if !formBool(r, field, true) {
			opts.Disabled = append(opts.Disabled, backend)
		}
	}
	return opts
}

func formBool(r *http.Request, field string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(r.FormValue(field))) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
