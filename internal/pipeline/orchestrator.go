package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
)

// LeadStore is the orchestrator's view of the spreadsheet job queue.
type LeadStore interface {
	FindUnclaimed(ctx context.Context) (*domain.Lead, error)
	Claim(ctx context.Context, lead *domain.Lead, now time.Time) error
	Finalize(ctx context.Context, rowNumber int, facts *domain.DerivedFacts, status string) error
	MarkFailed(ctx context.Context, rowNumber int, facts *domain.DerivedFacts, note string) error
}

// Analyzer produces a score/color summary from a prospect's website.
type Analyzer interface {
	Analyze(ctx context.Context, websiteURL string) (*domain.AnalysisResult, error)
}

// PreviewBuilder renders the branded preview site.
type PreviewBuilder interface {
	Build(ctx context.Context, lead *domain.Lead, analysis *domain.AnalysisResult) (*domain.PreviewSite, error)
}

// Publisher pushes a preview site and resolves its public URL.
type Publisher interface {
	Publish(ctx context.Context, site *domain.PreviewSite) (*domain.PublishResult, error)
}

// Notifier composes the outreach email and exports the campaign row.
type Notifier interface {
	Notify(ctx context.Context, lead *domain.Lead, analysis *domain.AnalysisResult, publish *domain.PublishResult, slug string) (*domain.NotifyResult, error)
}

// RunRecorder persists run history. Recording is best-effort: a ledger
// failure never fails the pipeline.
type RunRecorder interface {
	RecordStart(ctx context.Context, run *domain.PipelineRun) error
	RecordFinish(ctx context.Context, run *domain.PipelineRun) error
}

// Config holds orchestrator settings.
type Config struct {
	StageTimeout time.Duration
	NotesMaxLen  int
}

// Orchestrator drives exactly one lead through the stage sequence,
// persisting after every stage, and guarantees the row ends in a
// terminal status.
type Orchestrator struct {
	store        LeadStore
	analyzer     Analyzer
	builder      PreviewBuilder
	publisher    Publisher
	notifier     Notifier
	recorder     RunRecorder
	logger       *logger.Logger
	stageTimeout time.Duration
	notesMaxLen  int
	now          func() time.Time
}

// New creates an Orchestrator. recorder may be nil to disable the run
// ledger.
func New(
	store LeadStore,
	analyzer Analyzer,
	builder PreviewBuilder,
	publisher Publisher,
	notifier Notifier,
	recorder RunRecorder,
	log *logger.Logger,
	cfg *Config,
) *Orchestrator {
	stageTimeout := cfg.StageTimeout
	if stageTimeout <= 0 {
		stageTimeout = 2 * time.Minute
	}
	notesMaxLen := cfg.NotesMaxLen
	if notesMaxLen <= 0 {
		notesMaxLen = 200
	}
	return &Orchestrator{
		store:        store,
		analyzer:     analyzer,
		builder:      builder,
		publisher:    publisher,
		notifier:     notifier,
		recorder:     recorder,
		logger:       log,
		stageTimeout: stageTimeout,
		notesMaxLen:  notesMaxLen,
		now:          time.Now,
	}
}

// RunOnce claims the first unclaimed lead and drives it through
// Analyze, Build, Publish, and Notify, then finalizes the row. A stage
// failure short-circuits the rest, persists partial facts with a
// bounded diagnostic note, and never retries. A store transport failure
// is fatal to the run.
func (o *Orchestrator) RunOnce(ctx context.Context, trigger string) *domain.RunReport {
	run := &domain.PipelineRun{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		Status:    domain.RunStatusRunning,
		StartedAt: o.now(),
	}
	ctx = logger.SetRunID(ctx, run.ID)
	o.recordStart(ctx, run)

	report := o.execute(ctx, run)

	run.Status = report.Status
	run.RowNumber = report.RowNumber
	run.LastStage = report.LastStage
	if report.Err != nil {
		run.Error = domain.TruncateNote(report.Err.Error(), o.notesMaxLen)
	}
	completed := o.now()
	run.CompletedAt = &completed
	run.DurationMs = completed.Sub(run.StartedAt).Milliseconds()
	o.recordFinish(ctx, run)

	logger.With(logger.Fields{
		logger.FieldStatus:     string(report.Status),
		logger.FieldDurationMs: run.DurationMs,
	}).Info(ctx, "Pipeline run finished: row=%d, last_stage=%s", report.RowNumber, report.LastStage)

	return report
}

func (o *Orchestrator) execute(ctx context.Context, run *domain.PipelineRun) *domain.RunReport {
	// Claim.
	lead, err := o.claim(ctx)
	if errors.Is(err, domain.ErrNoWork) {
		logger.CtxInfo(ctx, "No unclaimed leads found, nothing to do")
		return &domain.RunReport{Status: domain.RunStatusNoWork, LastStage: domain.StageClaim}
	}
	if err != nil {
		logger.CtxError(ctx, "Claim failed: %v", err)
		return &domain.RunReport{Status: domain.RunStatusError, LastStage: domain.StageClaim, Err: err}
	}

	ctx = logger.SetRow(ctx, lead.RowNumber)
	logger.CtxInfo(ctx, "Processing lead: business=%s, website=%s, email=%s",
		lead.BusinessName, lead.Website, lead.Email)

	facts := &domain.DerivedFacts{}

	// Analyze. Derived cells are write-once: a value already on the row
	// from an earlier partial run wins over the freshly computed one.
	analysis, err := o.analyze(ctx, lead)
	if err != nil {
		return o.failStage(ctx, lead, facts, domain.StageAnalyze, err)
	}
	facts.Score = firstNonEmpty(lead.Score, strconv.Itoa(analysis.Score))
	facts.PrimaryColor = firstNonEmpty(lead.PrimaryColor, analysis.PrimaryColor)
	facts.SecondaryColor = firstNonEmpty(lead.SecondaryColor, analysis.SecondaryColor)
	facts.ScreenshotURL = firstNonEmpty(lead.ScreenshotURL, analysis.ScreenshotRef)
	facts.Notes = firstNonEmpty(lead.Notes, analysis.Notes)

	// Build preview.
	site, err := o.build(ctx, lead, analysis)
	if err != nil {
		return o.failStage(ctx, lead, facts, domain.StageBuild, err)
	}

	// Publish.
	pub, err := o.publish(ctx, site)
	if err != nil {
		return o.failStage(ctx, lead, facts, domain.StagePublish, err)
	}
	facts.PreviewURL = firstNonEmpty(lead.PreviewURL, pub.URL)
	if !pub.Confirmed {
		note := "Preview deployment unconfirmed at publish time."
		if facts.Notes != "" {
			note = facts.Notes + " " + note
		}
		facts.Notes = note
	}

	// Notify.
	notified, err := o.notify(ctx, lead, analysis, pub, site.Slug)
	if err != nil {
		return o.failStage(ctx, lead, facts, domain.StageNotify, err)
	}
	facts.EmailBody = firstNonEmpty(lead.EmailBody, notified.EmailBody)
	if facts.ScreenshotURL == "" {
		facts.ScreenshotURL = notified.ScreenshotURL
	}

	// Finalize: one batched write of everything plus the terminal status.
	if err := o.finalize(ctx, lead, facts); err != nil {
		logger.CtxError(ctx, "Finalize failed: %v", err)
		return &domain.RunReport{
			Status:    domain.RunStatusError,
			RowNumber: lead.RowNumber,
			LastStage: domain.StageFinalize,
			Err:       err,
		}
	}

	return &domain.RunReport{
		Status:     domain.RunStatusSuccess,
		RowNumber:  lead.RowNumber,
		LastStage:  domain.StageFinalize,
		PreviewURL: pub.URL,
	}
}

// RunBatch calls RunOnce until the queue drains or max runs complete.
// A store transport error stops the batch; a single failed lead does
// not.
func (o *Orchestrator) RunBatch(ctx context.Context, trigger string, max int) []*domain.RunReport {
	var reports []*domain.RunReport
	for i := 0; max <= 0 || i < max; i++ {
		if ctx.Err() != nil {
			break
		}
		report := o.RunOnce(ctx, trigger)
		if report.Status == domain.RunStatusNoWork {
			break
		}
		reports = append(reports, report)
		if report.Status == domain.RunStatusError {
			break
		}
	}
	return reports
}

func (o *Orchestrator) claim(ctx context.Context) (*domain.Lead, error) {
	ctx = logger.SetStage(ctx, string(domain.StageClaim))
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	lead, err := o.store.FindUnclaimed(ctx)
	if err != nil {
		return nil, err
	}
	if err := o.store.Claim(ctx, lead, o.now()); err != nil {
		return nil, fmt.Errorf("failed to write claim marker: %w", err)
	}
	return lead, nil
}

func (o *Orchestrator) analyze(ctx context.Context, lead *domain.Lead) (*domain.AnalysisResult, error) {
	ctx = logger.SetStage(ctx, string(domain.StageAnalyze))
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()
	return o.analyzer.Analyze(ctx, lead.Website)
}

func (o *Orchestrator) build(ctx context.Context, lead *domain.Lead, analysis *domain.AnalysisResult) (*domain.PreviewSite, error) {
	ctx = logger.SetStage(ctx, string(domain.StageBuild))
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()
	return o.builder.Build(ctx, lead, analysis)
}

func (o *Orchestrator) publish(ctx context.Context, site *domain.PreviewSite) (*domain.PublishResult, error) {
	ctx = logger.SetStage(ctx, string(domain.StagePublish))
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()
	return o.publisher.Publish(ctx, site)
}

func (o *Orchestrator) notify(ctx context.Context, lead *domain.Lead, analysis *domain.AnalysisResult, pub *domain.PublishResult, slug string) (*domain.NotifyResult, error) {
	ctx = logger.SetStage(ctx, string(domain.StageNotify))
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()
	return o.notifier.Notify(ctx, lead, analysis, pub, slug)
}

func (o *Orchestrator) finalize(ctx context.Context, lead *domain.Lead, facts *domain.DerivedFacts) error {
	ctx = logger.SetStage(ctx, string(domain.StageFinalize))
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()
	return o.store.Finalize(ctx, lead.RowNumber, facts, domain.StatusEmailSent)
}

// firstNonEmpty returns existing when the cell already holds a value,
// otherwise the freshly computed one.
func firstNonEmpty(existing, computed string) string {
	if existing != "" {
		return existing
	}
	return computed
}

// failStage records a stage failure on the row: partial facts, the
// error status, and a truncated note. The claim marker stays, so the
// row needs operator intervention before it can run again.
func (o *Orchestrator) failStage(ctx context.Context, lead *domain.Lead, facts *domain.DerivedFacts, stage domain.Stage, cause error) *domain.RunReport {
	stageErr := domain.NewStageError(stage, cause)
	logger.CtxError(ctx, "Stage failed: stage=%s, error=%v", stage, cause)

	note := domain.TruncateNote(fmt.Sprintf("Error: %s", stageErr.Error()), o.notesMaxLen)
	facts.Notes = "" // the note replaces any analysis commentary on failure

	markCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()
	if err := o.store.MarkFailed(markCtx, lead.RowNumber, facts, note); err != nil {
		logger.CtxError(ctx, "Failed to mark row as failed: %v", err)
		return &domain.RunReport{
			Status:    domain.RunStatusError,
			RowNumber: lead.RowNumber,
			LastStage: stage,
			Err:       err,
		}
	}

	return &domain.RunReport{
		Status:    domain.RunStatusFailed,
		RowNumber: lead.RowNumber,
		LastStage: stage,
		Err:       stageErr,
	}
}

func (o *Orchestrator) recordStart(ctx context.Context, run *domain.PipelineRun) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordStart(ctx, run); err != nil {
		logger.CtxWarn(ctx, "Failed to record run start: %v", err)
	}
}

func (o *Orchestrator) recordFinish(ctx context.Context, run *domain.PipelineRun) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordFinish(ctx, run); err != nil {
		logger.CtxWarn(ctx, "Failed to record run finish: %v", err)
	}
}
