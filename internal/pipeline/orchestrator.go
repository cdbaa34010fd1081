package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/examprep/internal/chunker"
	"github.com/dgallion1/examprep/internal/completion"
	"github.com/dgallion1/examprep/internal/config"
	"github.com/dgallion1/examprep/internal/doctree"
	"github.com/dgallion1/examprep/internal/extract"
)

// Options bounds one prediction.
type Options struct {
	ChunkSize        int
	CallTimeout      time.Duration
	Budget           time.Duration
	MaxConcurrent    int
	MaxRetries       int
	DefaultNumTopics int
}

// OptionsFromConfig maps the service configuration onto pipeline options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		ChunkSize:        cfg.ChunkSize,
		CallTimeout:      cfg.CallTimeout,
		Budget:           cfg.PipelineBudget,
		MaxConcurrent:    cfg.MaxConcurrentChunks,
		MaxRetries:       cfg.MaxRetries,
		DefaultNumTopics: cfg.DefaultNumTopics,
	}
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = chunker.DefaultChunkSize
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 30 * time.Second
	}
	if o.Budget <= 0 {
		o.Budget = 90 * time.Second
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 1
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.DefaultNumTopics <= 0 {
		o.DefaultNumTopics = 10
	}
	return o
}

// Orchestrator turns exam text into a ranked topic list: chunk, ask the
// completion service per chunk, parse, aggregate, and fall back to keyword
// frequency when the service cannot deliver.
type Orchestrator struct {
	client *completion.Client
	opts   Options
	log    *slog.Logger

	backoff func(attempt int) time.Duration
}

// NewOrchestrator creates an orchestrator. A nil client means the completion
// service is known to be unavailable and every request uses the fallback.
func NewOrchestrator(client *completion.Client, opts Options, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		client:  client,
		opts:    opts.withDefaults(),
		log:     log,
		backoff: Backoff,
	}
}

// Request is one topic prediction.
type Request struct {
	Text      string
	NumTopics int
	Observer  Observer
}

// PredictTopics returns the n most important topics in text.
func (o *Orchestrator) PredictTopics(ctx context.Context, text string, n int) (Result, error) {
	return o.Analyze(ctx, Request{Text: text, NumTopics: n})
}

// Analyze runs a prediction and reports stages to req.Observer. The only
// errors are a ValidationError for empty input and the caller's own context
// error; every service failure is folded into the Result.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, &ValidationError{Field: "text", Message: "please provide exam paper text"}
	}
	n := req.NumTopics
	if n <= 0 {
		n = o.opts.DefaultNumTopics
	}
	notify := req.Observer
	if notify == nil {
		notify = func(Stage, int, int) {}
	}

	if o.client == nil {
		return o.fallback(req.Text, n, "completion service unavailable", Result{}, notify), nil
	}

	notify(StageChunking, 0, 0)
	chunks := chunker.ChunkText(req.Text, chunker.Config{ChunkSize: o.opts.ChunkSize})
	total := len(chunks)
	log := o.log.With("chunks", total, "num_topics", n)
	log.Info("chunked exam text", "chunk_size", o.opts.ChunkSize)

	budgetCtx, cancel := context.WithTimeout(ctx, o.opts.Budget)
	defer cancel()

	notify(StageAnalyzing, 0, total)
	perChunk := make([][]extract.Topic, total)
	errs := make([]error, total)
	var done atomic.Int32

	var g errgroup.Group
	g.SetLimit(o.opts.MaxConcurrent)
	for _, chunk := range chunks {
		g.Go(func() error {
			perChunk[chunk.Index], errs[chunk.Index] = o.processChunk(budgetCtx, chunk, total, n)
			notify(StageAnalyzing, int(done.Add(1)), total)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Chunks: total}
	succeeded, budgetHit := 0, false
	for i, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if errors.Is(err, context.DeadlineExceeded) {
			budgetHit = true
		}
		log.Warn("chunk failed", "chunk", i, "error", err)
		res.FailedChunks = append(res.FailedChunks, ChunkFailure{Index: i, Error: err.Error()})
	}

	// The deadline can pass after the last chunk returns; that alone does
	// not discard a complete set of results.
	if budgetHit && budgetCtx.Err() != nil {
		return o.fallback(req.Text, n, fmt.Sprintf("pipeline budget of %s exceeded", o.opts.Budget), res, notify), nil
	}
	if succeeded == 0 {
		return o.fallback(req.Text, n, "all chunks failed", res, notify), nil
	}

	notify(StageAggregating, total, total)
	res.Topics = extract.Aggregate(perChunk, n)
	res.Source = SourceAI
	if len(res.Topics) == 0 {
		res.Source = SourceEmpty
	}
	log.Info("topics aggregated", "topics", len(res.Topics), "failed_chunks", len(res.FailedChunks), "source", res.Source)
	notify(StageDone, total, total)
	return res, nil
}

func (o *Orchestrator) processChunk(ctx context.Context, chunk doctree.Chunk, total, n int) ([]extract.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prompt := extract.BuildChunkPrompt(n, chunk.Index, total, chunk.Text)
	o.log.Debug("sending chunk", "chunk", chunk.Index, "est_tokens", chunker.EstimateTokens(prompt))

	var raw string
	var err error
	for attempt := 0; ; attempt++ {
		raw, err = o.client.Complete(ctx, prompt, o.opts.CallTimeout)
		if err == nil {
			break
		}
		if !IsRetryable(err) || attempt >= o.opts.MaxRetries {
			return nil, err
		}
		o.log.Warn("retryable completion error", "chunk", chunk.Index, "attempt", attempt, "error", err)
		select {
		case <-time.After(o.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return extract.ParseTopics(raw)
}

func (o *Orchestrator) fallback(text string, n int, reason string, res Result, notify Observer) Result {
	o.log.Warn("using local keyword fallback", "reason", reason)
	notify(StageFallback, res.Chunks, res.Chunks)
	res.FallbackReason = reason
	res.Topics = extract.Fallback(text, n)
	res.Source = SourceFallback
	if len(res.Topics) == 0 {
		res.Source = SourceFailed
		res.Failure = fmt.Sprintf("%s and no keywords could be derived from the text", reason)
	}
	notify(StageDone, res.Chunks, res.Chunks)
	return res
}
