package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/examprep/internal/parser"
)

// Worker processes a single analysis job.
type Worker struct {
	topics     *Orchestrator
	log        *slog.Logger
	parserOpts parser.Options
}

func NewWorker(topics *Orchestrator, log *slog.Logger, parserOpts parser.Options) *Worker {
	return &Worker{
		topics:     topics,
		log:        log,
		parserOpts: parserOpts,
	}
}

// Process extracts text from the job's uploads, then predicts topics.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: extract text. The raw bytes are released here.
	job.SetStatus(StatusExtractingText, "extracting text")
	text, warnings, err := parser.ExtractText(job.TakeUploads(), w.parserOpts)
	if err != nil {
		log.Error("text extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting text")
		return
	}
	if len(warnings) > 0 {
		log.Warn("extraction warnings", "count", len(warnings))
		job.AddWarnings(warnings...)
	}
	if !parser.HasText(text) {
		job.AddError(parser.NoTextExtracted)
		job.SetStatus(StatusFailed, "extracting text")
		return
	}

	// Phase 2: chunk, analyze, aggregate.
	res, err := w.topics.Analyze(ctx, Request{
		Text:      text,
		NumTopics: job.NumTopics,
		Observer: func(stage Stage, done, total int) {
			if status, ok := statusForStage(stage); ok {
				job.SetStatus(status, string(stage))
			}
			if total > 0 {
				job.SetChunkProgress(done, total)
			}
		},
	})
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			log.Error("analysis aborted", "error", err)
		}
		job.AddError(fmt.Sprintf("analysis: %s", err))
		job.SetStatus(StatusFailed, "analyzing")
		return
	}
	for _, f := range res.FailedChunks {
		job.AddError(fmt.Sprintf("chunk %d: %s", f.Index, f.Error))
	}
	job.Complete(res)
	log.Info("job complete", "source", res.Source, "topics", len(res.Topics))
}
