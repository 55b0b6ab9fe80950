package publisher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
)

// memStore is an in-memory ArtifactStore for tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStore) GetURL(key string) string { return "https://cdn.example.com/" + key }

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func testConfig(apiBase string) *Config {
	return &Config{
		RepoAPIBase:   apiBase,
		Owner:         "Hinderager",
		ProjectPrefix: "web-agency-outreach",
		PreviewDomain: "vercel.app",
		BranchPrefix:  "feature/",
		PollInterval:  time.Millisecond,
		PollAttempts:  2,
		Timeout:       5 * time.Second,
	}
}

func TestPreviewURL(t *testing.T) {
	p := New(newMemStore(), testConfig("http://unused"), logger.NewDefault())

	testCases := []struct {
		name   string
		branch string
		want   string
	}{
		{
			name:   "slash sanitized to hyphen",
			branch: "feature/acme-movers",
			want:   "https://web-agency-outreach-git-feature-acme-movers-hinderager.vercel.app",
		},
		{
			name:   "plain branch",
			branch: "main",
			want:   "https://web-agency-outreach-git-main-hinderager.vercel.app",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.PreviewURL(tc.branch)
			if got != tc.want {
				t.Errorf("PreviewURL(%q) = %q, want %q", tc.branch, got, tc.want)
			}
		})
	}
}

func TestPublishUploadsAndCreatesBranch(t *testing.T) {
	var branchReqs []branchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/branches" {
			var req branchRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad branch request: %v", err)
			}
			branchReqs = append(branchReqs, req)
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := newMemStore()
	p := New(store, testConfig(srv.URL), logger.NewDefault())

	site := &domain.PreviewSite{
		Slug:         "acme-movers",
		BusinessName: "Acme Movers",
		HTML:         []byte("<html></html>"),
		Content:      []byte("{}"),
	}
	result, err := p.Publish(context.Background(), site)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if result.Branch != "feature/acme-movers" {
		t.Errorf("Branch = %q, want %q", result.Branch, "feature/acme-movers")
	}
	wantURL := "https://web-agency-outreach-git-feature-acme-movers-hinderager.vercel.app"
	if result.URL != wantURL {
		t.Errorf("URL = %q, want %q", result.URL, wantURL)
	}
	// The probe target is unreachable from tests, so the deployment
	// stays unconfirmed but the URL is still returned.
	if result.Confirmed {
		t.Error("Confirmed = true for an unreachable deployment")
	}

	if len(branchReqs) != 1 {
		t.Fatalf("got %d branch requests, want 1", len(branchReqs))
	}
	if branchReqs[0].Name != "feature/acme-movers" || branchReqs[0].Base != "main" {
		t.Errorf("branch request = %+v, want feature/acme-movers off main", branchReqs[0])
	}

	for _, key := range []string{"prospects/acme-movers/index.html", "prospects/acme-movers/content.json"} {
		if ok, _ := store.Exists(context.Background(), key); !ok {
			t.Errorf("missing uploaded object %s", key)
		}
	}
}

func TestPublishBranchConflictIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	p := New(newMemStore(), testConfig(srv.URL), logger.NewDefault())
	site := &domain.PreviewSite{Slug: "acme-movers", HTML: []byte("x"), Content: []byte("{}")}

	result, err := p.Publish(context.Background(), site)
	if err != nil {
		t.Fatalf("Publish failed on existing branch: %v", err)
	}
	if result.Branch != "feature/acme-movers" {
		t.Errorf("Branch = %q, want %q", result.Branch, "feature/acme-movers")
	}
}

func TestPublishBranchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	store := newMemStore()
	p := New(store, testConfig(srv.URL), logger.NewDefault())
	site := &domain.PreviewSite{Slug: "acme-movers", HTML: []byte("x"), Content: []byte("{}")}

	if _, err := p.Publish(context.Background(), site); err == nil {
		t.Fatal("expected error when branch creation is rejected")
	}

	// The uploaded payload is cleaned up so a retry starts fresh.
	for _, key := range []string{"prospects/acme-movers/index.html", "prospects/acme-movers/content.json"} {
		if ok, _ := store.Exists(context.Background(), key); ok {
			t.Errorf("orphaned object %s left behind after branch failure", key)
		}
	}
}

func TestPollUntil(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds immediately", func(t *testing.T) {
		calls := 0
		ok := pollUntil(ctx, time.Millisecond, 3, func(context.Context) bool {
			calls++
			return true
		})
		if !ok || calls != 1 {
			t.Errorf("ok=%v calls=%d, want true after 1 call", ok, calls)
		}
	})

	t.Run("succeeds on last attempt", func(t *testing.T) {
		calls := 0
		ok := pollUntil(ctx, time.Millisecond, 3, func(context.Context) bool {
			calls++
			return calls == 3
		})
		if !ok || calls != 3 {
			t.Errorf("ok=%v calls=%d, want true after 3 calls", ok, calls)
		}
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		ok := pollUntil(ctx, time.Millisecond, 4, func(context.Context) bool {
			calls++
			return false
		})
		if ok {
			t.Error("ok = true, want false")
		}
		if calls != 4 {
			t.Errorf("calls = %d, want exactly 4", calls)
		}
	})

	t.Run("zero attempts", func(t *testing.T) {
		ok := pollUntil(ctx, time.Millisecond, 0, func(context.Context) bool {
			t.Error("check must not run with zero attempts")
			return true
		})
		if ok {
			t.Error("ok = true, want false")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		ok := pollUntil(cancelled, time.Millisecond, 3, func(context.Context) bool {
			return true
		})
		if ok {
			t.Error("ok = true, want false on cancelled context")
		}
	})
}
