package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/examprep/internal/tutor"
)

// maxTutorBody caps plan and explain request bodies.
const maxTutorBody = 1 << 20

type planRequest struct {
	Topics         []string `json:"topics"`
	TopicsText     string   `json:"topics_text"` // comma-separated alternative to Topics
	HoursPerDay    float64  `json:"hours_per_day"`
	DaysUntilExam  int      `json:"days_until_exam"`
	Intensity      string   `json:"intensity"`
	BreakFrequency string   `json:"break_frequency"`
	PriorityTopics []string `json:"priority_topics"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTutorBody)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	topics := req.Topics
	if len(topics) == 0 && req.TopicsText != "" {
		topics = tutor.ParseTopicList(req.TopicsText)
	}

	plan, err := s.tutor.GeneratePlan(r.Context(), topics, req.HoursPerDay, req.DaysUntilExam, tutor.PlanOptions{
		Intensity:      req.Intensity,
		BreakFrequency: req.BreakFrequency,
		PriorityTopics: req.PriorityTopics,
	})
	if err != nil {
		s.tutorError(w, "Error generating study plan: ", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type explainRequest struct {
	Concept         string `json:"concept"`
	Level           string `json:"level"`
	Context         string `json:"context"`
	Style           string `json:"style"`
	Audience        string `json:"audience"`
	IncludeExamples *bool  `json:"include_examples"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTutorBody)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	level, err := tutor.ParseLevel(req.Level)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ex, err := s.tutor.Explain(r.Context(), req.Concept, level, tutor.ExplainOptions{
		Context:      req.Context,
		Style:        req.Style,
		Audience:     req.Audience,
		OmitExamples: req.IncludeExamples != nil && !*req.IncludeExamples,
	})
	if err != nil {
		s.tutorError(w, "Error: ", err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) tutorError(w http.ResponseWriter, prefix string, err error) {
	switch {
	case errors.Is(err, tutor.ErrNoTopics), errors.Is(err, tutor.ErrInvalidBudget), errors.Is(err, tutor.ErrNoConcept):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, tutor.ErrUnavailable):
		jsonError(w, prefix+err.Error(), http.StatusServiceUnavailable)
	default:
		s.log.Warn("tutor generation failed", "error", err)
		jsonError(w, prefix+err.Error(), http.StatusBadGateway)
	}
}
