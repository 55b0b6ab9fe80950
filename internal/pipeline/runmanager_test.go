package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
)

// blockingRunner blocks inside RunBatch until released, so tests can
// observe the manager's in-flight state deterministically.
type blockingRunner struct {
	started  chan struct{}
	release  chan struct{}
	statuses []domain.RunStatus

	mu      sync.Mutex
	calls   int
	lastMax int
}

func newBlockingRunner(statuses ...domain.RunStatus) *blockingRunner {
	return &blockingRunner{
		started:  make(chan struct{}, 10),
		release:  make(chan struct{}),
		statuses: statuses,
	}
}

func (r *blockingRunner) RunBatch(ctx context.Context, trigger string, max int) []*domain.RunReport {
	r.mu.Lock()
	r.calls++
	r.lastMax = max
	r.mu.Unlock()
	r.started <- struct{}{}
	<-r.release

	var reports []*domain.RunReport
	for _, status := range r.statuses {
		if status == domain.RunStatusNoWork {
			break
		}
		reports = append(reports, &domain.RunReport{Status: status})
	}
	return reports
}

func (r *blockingRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *blockingRunner) batchMax() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastMax
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestManagerRejectsConcurrentTriggers(t *testing.T) {
	runner := newBlockingRunner(domain.RunStatusSuccess)
	m := NewManager(runner, 1, logger.NewDefault())

	first := m.Trigger("webhook")
	if !first.Accepted {
		t.Fatalf("first trigger rejected: %s", first.Reason)
	}
	<-runner.started

	// Every trigger while the run is in flight is dropped.
	for i := 0; i < 3; i++ {
		res := m.Trigger("webhook")
		if res.Accepted {
			t.Fatal("trigger accepted while a run is in flight")
		}
		if res.Reason != "already running" {
			t.Errorf("Reason = %q, want %q", res.Reason, "already running")
		}
	}

	snap := m.Snapshot()
	if !snap.IsRunning {
		t.Error("Snapshot says not running while the run is in flight")
	}

	close(runner.release)
	waitFor(t, func() bool { return !m.Snapshot().IsRunning })

	if got := runner.callCount(); got != 1 {
		t.Errorf("runner invoked %d times, want 1", got)
	}
}

func TestManagerAcceptsAfterCompletion(t *testing.T) {
	runner := newBlockingRunner(domain.RunStatusSuccess)
	m := NewManager(runner, 1, logger.NewDefault())

	if res := m.Trigger("webhook"); !res.Accepted {
		t.Fatalf("first trigger rejected: %s", res.Reason)
	}
	<-runner.started
	close(runner.release)
	waitFor(t, func() bool { return !m.Snapshot().IsRunning })

	runner.release = make(chan struct{})
	if res := m.Trigger("webhook"); !res.Accepted {
		t.Fatalf("trigger after completion rejected: %s", res.Reason)
	}
	<-runner.started
	close(runner.release)
	waitFor(t, func() bool { return !m.Snapshot().IsRunning })

	if got := runner.callCount(); got != 2 {
		t.Errorf("runner invoked %d times, want 2", got)
	}
}

func TestManagerConcurrentTriggerRace(t *testing.T) {
	runner := newBlockingRunner(domain.RunStatusSuccess)
	m := NewManager(runner, 1, logger.NewDefault())

	const goroutines = 16
	var wg sync.WaitGroup
	accepted := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Trigger("webhook").Accepted {
				accepted <- struct{}{}
			}
		}()
	}
	wg.Wait()

	if len(accepted) != 1 {
		t.Errorf("%d concurrent triggers accepted, want exactly 1", len(accepted))
	}

	<-runner.started
	close(runner.release)
	waitFor(t, func() bool { return !m.Snapshot().IsRunning })
}

func TestManagerSnapshotLifecycle(t *testing.T) {
	runner := newBlockingRunner(domain.RunStatusFailed)
	m := NewManager(runner, 1, logger.NewDefault())

	// Before any run.
	snap := m.Snapshot()
	if snap.IsRunning {
		t.Error("IsRunning = true before any trigger")
	}
	if snap.LastRunStartedAt != nil {
		t.Error("LastRunStartedAt set before any trigger")
	}

	res := m.Trigger("webhook")
	if !res.Accepted {
		t.Fatalf("trigger rejected: %s", res.Reason)
	}
	<-runner.started

	snap = m.Snapshot()
	if !snap.IsRunning {
		t.Error("IsRunning = false during a run")
	}
	if snap.LastRunStatus != domain.RunStatusRunning {
		t.Errorf("LastRunStatus = %s during a run, want running", snap.LastRunStatus)
	}
	if snap.LastRunStartedAt == nil {
		t.Error("LastRunStartedAt not set during a run")
	}

	close(runner.release)
	waitFor(t, func() bool { return !m.Snapshot().IsRunning })

	snap = m.Snapshot()
	if snap.LastRunStatus != domain.RunStatusFailed {
		t.Errorf("LastRunStatus = %s after failed run, want failed", snap.LastRunStatus)
	}
}

func TestManagerNoWorkReportsSuccess(t *testing.T) {
	runner := newBlockingRunner(domain.RunStatusNoWork)
	m := NewManager(runner, 1, logger.NewDefault())

	if res := m.Trigger("webhook"); !res.Accepted {
		t.Fatalf("trigger rejected: %s", res.Reason)
	}
	<-runner.started
	close(runner.release)
	waitFor(t, func() bool { return !m.Snapshot().IsRunning })

	if got := m.Snapshot().LastRunStatus; got != domain.RunStatusSuccess {
		t.Errorf("LastRunStatus = %s, want success for an empty queue", got)
	}
}

func TestManagerForwardsBatchMax(t *testing.T) {
	runner := newBlockingRunner(domain.RunStatusSuccess)
	m := NewManager(runner, 5, logger.NewDefault())

	if res := m.Trigger("webhook"); !res.Accepted {
		t.Fatalf("trigger rejected: %s", res.Reason)
	}
	<-runner.started
	close(runner.release)
	waitFor(t, func() bool { return !m.Snapshot().IsRunning })

	if got := runner.batchMax(); got != 5 {
		t.Errorf("runner received max = %d, want 5", got)
	}
}

func TestManagerBatchStatusSummary(t *testing.T) {
	testCases := []struct {
		name     string
		statuses []domain.RunStatus
		want     domain.RunStatus
	}{
		{
			name:     "all succeed",
			statuses: []domain.RunStatus{domain.RunStatusSuccess, domain.RunStatusSuccess},
			want:     domain.RunStatusSuccess,
		},
		{
			name:     "one lead fails",
			statuses: []domain.RunStatus{domain.RunStatusSuccess, domain.RunStatusFailed},
			want:     domain.RunStatusFailed,
		},
		{
			name:     "transport error outranks a failed lead",
			statuses: []domain.RunStatus{domain.RunStatusFailed, domain.RunStatusError},
			want:     domain.RunStatusError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runner := newBlockingRunner(tc.statuses...)
			m := NewManager(runner, 0, logger.NewDefault())

			if res := m.Trigger("webhook"); !res.Accepted {
				t.Fatalf("trigger rejected: %s", res.Reason)
			}
			<-runner.started
			close(runner.release)
			waitFor(t, func() bool { return !m.Snapshot().IsRunning })

			if got := m.Snapshot().LastRunStatus; got != tc.want {
				t.Errorf("LastRunStatus = %s, want %s", got, tc.want)
			}
		})
	}
}
