package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var errTooLarge = errors.New("file exceeds max size")

// handleOutline parses one upload and answers with its outline.
// ?format=tree nests the headings instead of returning a flat list.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	file.Close()
	filename, data, err := s.readUpload(header)
	if err != nil {
		uploadError(w, err)
		return
	}

	out, err := s.orchestrator.Outline(r.Context(), filename, data)
	switch out.Status {
	case pipeline.StatusSkipped:
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case pipeline.StatusFailed:
		jsonError(w, "outline failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("X-Outline-Status", string(out.Status))
	if r.URL.Query().Get("format") == "tree" {
		tree := out.Result.Outline.Tree()
		if tree == nil {
			tree = []*doctree.Node{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"title": out.Result.Title,
			"tree":  tree,
		})
		return
	}
	writeJSON(w, http.StatusOK, out.Result)
}

// readUpload checks the extension and size of one uploaded file and reads it.
func (s *Server) readUpload(fh *multipart.FileHeader) (string, []byte, error) {
	filename := sanitizeFilename(fh.Filename)
	if !parser.IsSupportedExtension(filename) {
		return filename, nil, fmt.Errorf("%w: %s", parser.ErrUnsupported, filepath.Ext(filename))
	}

	f, err := fh.Open()
	if err != nil {
		return filename, nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return filename, nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return filename, nil, fmt.Errorf("%w (%d bytes)", errTooLarge, s.cfg.MaxUploadBytes)
	}
	return filename, data, nil
}

func uploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, parser.ErrUnsupported):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errTooLarge):
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
