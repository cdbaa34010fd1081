package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/examprep/internal/parser"
	"github.com/dgallion1/examprep/internal/pipeline"
)

// maxNumTopics bounds num_topics so one request cannot ask for an unbounded
// ranking.
const maxNumTopics = 50

type topicsRequest struct {
	Text      string `json:"text"`
	NumTopics int    `json:"num_topics"`
}

type topicsResponse struct {
	pipeline.Result
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message,omitempty"`
}

func (s *Server) handlePredictTopics(w http.ResponseWriter, r *http.Request) {
	var req topicsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := checkNumTopics(req.NumTopics); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.predict(w, r, req.Text, req.NumTopics, nil)
}

func (s *Server) handlePredictUpload(w http.ResponseWriter, r *http.Request) {
	defer removeMultipart(r)
	uploads, err := s.readUploads(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	n, err := formInt(r, "num_topics")
	if err == nil {
		err = checkNumTopics(n)
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	text, warnings, err := parser.ExtractText(uploads, parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !parser.HasText(text) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    parser.NoTextExtracted,
			"warnings": warnings,
		})
		return
	}
	s.predict(w, r, text, n, warnings)
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request, text string, n int, warnings []string) {
	res, err := s.topics.PredictTopics(r.Context(), text, n)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoValidInput) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Warn("topic prediction aborted", "error", err)
		jsonError(w, "topic prediction aborted: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	resp := topicsResponse{Result: res, Warnings: warnings}
	switch res.Source {
	case pipeline.SourceEmpty:
		resp.Message = "No topics found in the provided text."
	case pipeline.SourceFallback:
		resp.Message = "AI analysis unavailable; topics were derived locally from keyword frequency."
	case pipeline.SourceFailed:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  res.Failure,
			"result": res,
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func checkNumTopics(n int) error {
	if n < 0 || n > maxNumTopics {
		return fmt.Errorf("num_topics must be between 1 and %d", maxNumTopics)
	}
	return nil
}
