package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
)

// Runner is what the Manager guards; in production it is the
// Orchestrator.
type Runner interface {
	RunBatch(ctx context.Context, trigger string, max int) []*domain.RunReport
}

// Manager converts at-least-once trigger delivery into at-most-one
// concurrent pipeline execution. A trigger that arrives while a run is
// in flight is dropped, not queued.
type Manager struct {
	runner   Runner
	batchMax int
	logger   *logger.Logger

	mu         sync.Mutex
	running    bool
	startedAt  time.Time
	lastStatus domain.RunStatus
	bootTime   time.Time
}

// NewManager creates a Manager around the given runner. batchMax caps
// how many leads a single trigger may process; zero means drain the
// queue.
func NewManager(runner Runner, batchMax int, log *logger.Logger) *Manager {
	return &Manager{
		runner:   runner,
		batchMax: batchMax,
		logger:   log,
		bootTime: time.Now(),
	}
}

// TriggerResult is the synchronous answer to a trigger call, returned
// before the pipeline finishes.
type TriggerResult struct {
	Accepted  bool      `json:"accepted"`
	Reason    string    `json:"reason,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// StatusSnapshot is a read-only view of the run state.
type StatusSnapshot struct {
	IsRunning        bool             `json:"is_running"`
	LastRunStartedAt *time.Time       `json:"last_run_started_at,omitempty"`
	LastRunStatus    domain.RunStatus `json:"last_run_status,omitempty"`
	UptimeSeconds    int64            `json:"uptime_seconds"`
}

// Trigger starts a pipeline run as a detached background task if none
// is in flight, answering immediately either way.
func (m *Manager) Trigger(trigger string) TriggerResult {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.logger.WithField("trigger", trigger).Warn("Trigger rejected, a run is already in flight")
		return TriggerResult{Accepted: false, Reason: "already running"}
	}
	m.running = true
	m.startedAt = time.Now()
	m.lastStatus = domain.RunStatusRunning
	startedAt := m.startedAt
	m.mu.Unlock()

	m.logger.WithField("trigger", trigger).Info("Trigger accepted, starting pipeline run")

	// Detached from the request context so an HTTP disconnect cannot
	// cancel a run mid-flight.
	go m.run(context.Background(), trigger)

	return TriggerResult{Accepted: true, StartedAt: startedAt}
}

func (m *Manager) run(ctx context.Context, trigger string) {
	reports := m.runner.RunBatch(ctx, trigger, m.batchMax)

	// An empty queue is a clean completion; otherwise the worst
	// per-lead outcome wins.
	status := domain.RunStatusSuccess
	for _, report := range reports {
		switch report.Status {
		case domain.RunStatusError:
			status = domain.RunStatusError
		case domain.RunStatusFailed:
			if status != domain.RunStatusError {
				status = domain.RunStatusFailed
			}
		}
	}

	m.mu.Lock()
	m.running = false
	m.lastStatus = status
	m.mu.Unlock()
}

// Snapshot returns the current run state plus process uptime.
func (m *Manager) Snapshot() StatusSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := StatusSnapshot{
		IsRunning:     m.running,
		UptimeSeconds: int64(time.Since(m.bootTime).Seconds()),
	}
	if !m.startedAt.IsZero() {
		t := m.startedAt
		snap.LastRunStartedAt = &t
	}
	if m.lastStatus != "" {
		snap.LastRunStatus = m.lastStatus
	}
	return snap
}
