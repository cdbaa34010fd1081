package pipeline

import (
	"errors"

	"github.com/dgallion1/examprep/internal/extract"
)

// ErrNoValidInput is matched by every ValidationError.
var ErrNoValidInput = errors.New("no valid input")

// ValidationError rejects a request before any completion call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrNoValidInput }

// Source tags where the topics of a Result came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
	SourceFailed   Source = "failed"
	SourceEmpty    Source = "empty"
)

// Stage is a step of a single topic prediction.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageChunking    Stage = "chunking"
	StageAnalyzing   Stage = "analyzing"
	StageAggregating Stage = "aggregating"
	StageFallback    Stage = "fallback"
	StageDone        Stage = "done"
)

// Observer receives stage transitions and chunk progress. It may be called
// from several goroutines when chunks run in parallel.
type Observer func(stage Stage, chunksDone, totalChunks int)

// ChunkFailure records why one chunk contributed no candidates.
type ChunkFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// Result is the outcome of PredictTopics. Source distinguishes model output,
// locally derived keywords, a valid-but-empty analysis, and a failure.
type Result struct {
	Topics         []extract.Topic `json:"topics"`
	Source         Source          `json:"source"`
	Chunks         int             `json:"chunks"`
	FailedChunks   []ChunkFailure  `json:"failed_chunks,omitempty"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
	Failure        string          `json:"failure,omitempty"`
}
