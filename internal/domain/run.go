package domain

import "time"

// RunStatus is the outcome of one pipeline run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusNoWork  RunStatus = "no_work"
	RunStatusFailed  RunStatus = "failed" // a stage failed; the row was marked accordingly
	RunStatusError   RunStatus = "error"  // the job store itself was unreachable
)

// PipelineRun is the persisted record of one orchestrator run, kept as
// an audit ledger alongside the spreadsheet.
type PipelineRun struct {
	ID          string     `gorm:"type:text;primaryKey" json:"id"`
	Trigger     string     `gorm:"type:text;not null" json:"trigger"` // webhook, cli
	RowNumber   int        `gorm:"default:0" json:"row_number"`
	Status      RunStatus  `gorm:"type:text;index;default:running" json:"status"`
	LastStage   Stage      `gorm:"type:text" json:"last_stage,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMs  int64      `gorm:"default:0" json:"duration_ms"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for PipelineRun.
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}

// RunReport is what RunOnce hands back to its caller: which row was
// worked, how far it got, and how it ended.
type RunReport struct {
	Status     RunStatus
	RowNumber  int
	LastStage  Stage
	PreviewURL string
	Err        error
}
