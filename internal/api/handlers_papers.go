package api

import (
	"fmt"
	"net/http"

	"github.com/dgallion1/examprep/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitPapers(w http.ResponseWriter, r *http.Request) {
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

	job := pipeline.NewJob(uploads, n)
	if err := s.runner.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":    snap.ID,
		"status":    snap.Status,
		"filenames": snap.Filenames,
		"poll_url":  fmt.Sprintf("/api/papers/%s/status", snap.ID),
	})
}

func (s *Server) handlePaperStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.runner.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
