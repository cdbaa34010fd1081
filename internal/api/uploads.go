package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/examprep/internal/parser"
)

// maxUploadFiles caps how many papers one request may carry.
const maxUploadFiles = 20

type uploadError struct {
	msg  string
	code int
}

func (e *uploadError) Error() string { return e.msg }

// readUploads parses a multipart request and returns every "files" (or
// "files[]") part. Files with unsupported extensions are rejected here so
// the client learns about them before any analysis starts.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) ([]parser.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &uploadError{fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge}
		}
		return nil, &uploadError{"invalid multipart form: " + err.Error(), http.StatusBadRequest}
	}

	files := append(r.MultipartForm.File["files"], r.MultipartForm.File["files[]"]...)
	if len(files) == 0 {
		return nil, &uploadError{"please upload at least one exam paper", http.StatusBadRequest}
	}
	if len(files) > maxUploadFiles {
		return nil, &uploadError{fmt.Sprintf("too many files (max %d)", maxUploadFiles), http.StatusBadRequest}
	}

	var total int64
	uploads := make([]parser.Upload, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			return nil, &uploadError{fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest}
		}

		f, err := fh.Open()
		if err != nil {
			return nil, &uploadError{"failed to open " + filename, http.StatusBadRequest}
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			return nil, &uploadError{"failed to read " + filename, http.StatusInternalServerError}
		}
		total += int64(len(data))
		if total > s.cfg.MaxUploadBytes {
			return nil, &uploadError{fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge}
		}
		uploads = append(uploads, parser.Upload{Filename: filename, Data: data})
	}
	return uploads, nil
}

func removeMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func writeUploadError(w http.ResponseWriter, err error) {
	var uerr *uploadError
	if errors.As(err, &uerr) {
		jsonError(w, uerr.msg, uerr.code)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

// formInt reads an optional positive integer form value.
func formInt(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
