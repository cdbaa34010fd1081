package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Provider sends one prompt to a generative text model.
type Provider interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
	Name() string
}

var (
	// ErrTimeout means no reply arrived within the caller's budget.
	ErrTimeout = errors.New("completion service timed out")
	// ErrEmptyResponse means the service succeeded but returned no text.
	ErrEmptyResponse = errors.New("completion service returned empty response")
)

// ServiceError covers transport, authentication, and quota failures.
type ServiceError struct {
	Provider   string
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s service error (status %d): %s", e.Provider, e.StatusCode, truncate(msg, 200))
	}
	return fmt.Sprintf("%s service error: %s", e.Provider, truncate(msg, 200))
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient service failure.
func IsRetryable(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Retryable
}

// Client wraps a Provider with a caller-measured timeout, uniform failure
// classification, and latency tracking. It does not interpret the text.
type Client struct {
	provider Provider
	model    string
	timeout  time.Duration
	log      *slog.Logger

	Stats *LLMStats
}

func NewClient(provider Provider, model string, timeout time.Duration, stats *LLMStats, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if stats == nil {
		stats = NewLLMStats(time.Hour)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		provider: provider,
		model:    model,
		timeout:  timeout,
		log:      log,
		Stats:    stats,
	}
}

// Model returns the target model identifier.
func (c *Client) Model() string { return c.model }

// Provider returns the provider name.
func (c *Client) Provider() string { return c.provider.Name() }

type reply struct {
	text string
	err  error
}

// Complete sends prompt and waits at most timeout (the client default when
// timeout <= 0). The wait is measured here, so a provider that ignores its
// context still yields ErrTimeout on schedule. Cancellation of ctx returns
// ctx.Err().
func (c *Client) Complete(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan reply, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: &ServiceError{Provider: c.provider.Name(), Message: fmt.Sprintf("panic: %v", r)}}
			}
		}()
		text, err := c.provider.Complete(callCtx, prompt, c.model)
		done <- reply{text: text, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		text, err := c.classify(ctx, r)
		c.Stats.RecordOutcome(time.Since(start).Milliseconds(), outcomeOf(err))
		return text, err
	case <-timer.C:
		c.Stats.RecordOutcome(time.Since(start).Milliseconds(), OutcomeTimeout)
		c.log.Warn("completion call timed out", "provider", c.provider.Name(), "timeout", timeout)
		return "", ErrTimeout
	case <-ctx.Done():
		c.Stats.RecordOutcome(time.Since(start).Milliseconds(), OutcomeTimeout)
		return "", ctx.Err()
	}
}

func (c *Client) classify(ctx context.Context, r reply) (string, error) {
	if r.err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(r.err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		var svcErr *ServiceError
		if errors.As(r.err, &svcErr) {
			return "", svcErr
		}
		return "", &ServiceError{Provider: c.provider.Name(), Err: r.err}
	}
	if strings.TrimSpace(r.text) == "" {
		return "", ErrEmptyResponse
	}
	return r.text, nil
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrTimeout), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeFailed
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
