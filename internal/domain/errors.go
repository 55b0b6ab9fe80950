package domain

import (
	"errors"
	"fmt"
)

// ErrNoWork is returned by a claim attempt when the sheet holds no
// unclaimed rows with input facts. It signals an empty queue, not a
// failure.
var ErrNoWork = errors.New("no unclaimed leads available")

// Stage identifies one pipeline step.
type Stage string

const (
	StageClaim    Stage = "claim"
	StageAnalyze  Stage = "analyze"
	StageBuild    Stage = "build"
	StagePublish  Stage = "publish"
	StageNotify   Stage = "notify"
	StageFinalize Stage = "finalize"
)

// StageError marks a failure inside one pipeline stage. The orchestrator
// downgrades it into a row-level failed status; it never crashes the
// process.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the stage it occurred in.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// AsStageError unwraps err into a *StageError if it is one.
func AsStageError(err error) (*StageError, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// TruncateNote bounds a diagnostic message before it is written to the
// notes column, so a pathological upstream error cannot blow up a cell.
func TruncateNote(msg string, max int) string {
	if max <= 0 || len(msg) <= max {
		return msg
	}
	return msg[:max]
}
