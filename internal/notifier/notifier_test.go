package notifier

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
)

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

func testNotifier(store *memStore) *Notifier {
	return New(store, &Config{
		SenderName:      "Eric",
		ExportKeyPrefix: "exports",
	}, logger.NewDefault())
}

func testInputs() (*domain.Lead, *domain.AnalysisResult, *domain.PublishResult) {
	lead := &domain.Lead{
		RowNumber:    4,
		FirstName:    "Jane",
		Email:        "jane@acmemovers.com",
		City:         "Boise",
		BusinessName: "Acme Movers",
		Website:      "https://acmemovers.com",
	}
	analysis := &domain.AnalysisResult{
		Score:          55,
		PrimaryColor:   "#0ea5e9",
		SecondaryColor: "#111827",
	}
	publish := &domain.PublishResult{
		Branch:    "feature/acme-movers",
		URL:       "https://web-agency-outreach-git-feature-acme-movers-hinderager.vercel.app",
		Confirmed: true,
	}
	return lead, analysis, publish
}

func TestNotifyEmailBody(t *testing.T) {
	lead, analysis, publish := testInputs()
	n := testNotifier(newMemStore())

	result, err := n.Notify(context.Background(), lead, analysis, publish, "acme-movers")
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	for _, want := range []string{
		"Hi Jane,",
		"Acme Movers",
		"Boise",
		"#0ea5e9",
		"#111827",
		"55/100",
		publish.URL,
		"Best regards,\nEric",
	} {
		if !strings.Contains(result.EmailBody, want) {
			t.Errorf("email body missing %q", want)
		}
	}
}

func TestNotifyGreetingFallsBackToBusinessName(t *testing.T) {
	lead, analysis, publish := testInputs()
	lead.FirstName = ""
	n := testNotifier(newMemStore())

	result, err := n.Notify(context.Background(), lead, analysis, publish, "acme-movers")
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if !strings.Contains(result.EmailBody, "Hi Acme,") {
		t.Error("greeting did not fall back to the first word of the business name")
	}
}

func TestNotifyExportCSV(t *testing.T) {
	lead, analysis, publish := testInputs()
	store := newMemStore()
	n := testNotifier(store)

	result, err := n.Notify(context.Background(), lead, analysis, publish, "acme-movers")
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if result.ExportKey != "exports/acme-movers.csv" {
		t.Errorf("ExportKey = %q, want %q", result.ExportKey, "exports/acme-movers.csv")
	}
	if result.ExportURL != "https://cdn.example.com/exports/acme-movers.csv" {
		t.Errorf("ExportURL = %q, want the store's public URL", result.ExportURL)
	}
	wantShot := publish.URL + "/prospects/acme-movers/hero.png"
	if result.ScreenshotURL != wantShot {
		t.Errorf("ScreenshotURL = %q, want %q", result.ScreenshotURL, wantShot)
	}

	raw, ok := store.objects[result.ExportKey]
	if !ok {
		t.Fatal("export CSV was not uploaded")
	}

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("uploaded CSV does not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("CSV has %d rows, want header + 1 record", len(records))
	}

	wantHeader := []string{"email", "first_name", "company", "domain", "city", "preview_url", "screenshot_url", "email_body"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}

	row := records[1]
	if row[0] != "jane@acmemovers.com" {
		t.Errorf("email = %q", row[0])
	}
	if row[2] != "Acme Movers" {
		t.Errorf("company = %q", row[2])
	}
	if row[5] != publish.URL {
		t.Errorf("preview_url = %q", row[5])
	}
	// The CSV body is the short export note, not the long proposal.
	if !strings.Contains(row[7], "I mocked up a modern hero") {
		t.Errorf("email_body column carries the wrong template: %q", row[7])
	}
	if !strings.Contains(row[7], "— Eric") {
		t.Errorf("email_body missing sender sign-off: %q", row[7])
	}
}

func TestNotifyEmptyPreviewURL(t *testing.T) {
	lead, analysis, publish := testInputs()
	publish.URL = ""
	n := testNotifier(newMemStore())

	result, err := n.Notify(context.Background(), lead, analysis, publish, "acme-movers")
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if result.ScreenshotURL != "" {
		t.Errorf("ScreenshotURL = %q, want empty without a preview URL", result.ScreenshotURL)
	}
}
