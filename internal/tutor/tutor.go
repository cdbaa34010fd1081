// Package tutor builds study plans and concept explanations on top of the
// completion service. Prompts are fixed templates; the model's Markdown is
// returned as is, plus an HTML rendering.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	ErrNoTopics      = errors.New("please provide at least one topic")
	ErrInvalidBudget = errors.New("hours per day and days until exam must be positive")
	ErrNoConcept     = errors.New("please provide a concept to explain")
	ErrUnavailable   = errors.New("completion service unavailable")
	// ErrGeneration wraps any completion failure while generating text.
	ErrGeneration = errors.New("generation failed")
)

// Completer is the part of completion.Client the tutor needs.
type Completer interface {
	Complete(ctx context.Context, prompt string, timeout time.Duration) (string, error)
}

// Service generates plans and explanations.
type Service struct {
	llm     Completer
	timeout time.Duration
	log     *slog.Logger
}

// NewService creates a tutor. llm may be nil, in which case every
// generation fails with ErrUnavailable.
func NewService(llm Completer, timeout time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{llm: llm, timeout: timeout, log: log}
}

func (s *Service) generate(ctx context.Context, kind, prompt string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, ErrUnavailable)
	}
	start := time.Now()
	text, err := s.llm.Complete(ctx, prompt, s.timeout)
	if err != nil {
		s.log.Warn("generation failed", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	s.log.Info("generated", "kind", kind, "duration_ms", time.Since(start).Milliseconds(), "chars", len(text))
	return text, nil
}
