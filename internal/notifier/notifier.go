package notifier

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
	"github.com/Hinderager/web-agency-outreach/internal/storage"
)

// exportHeader is the campaign-tool import schema.
var exportHeader = []string{
	"email", "first_name", "company", "domain", "city",
	"preview_url", "screenshot_url", "email_body",
}

// Notifier composes the personalized outreach email and exports the
// lead as a campaign import CSV.
type Notifier struct {
	store  storage.ArtifactStore
	cfg    *Config
	logger *logger.Logger
}

// Config holds notifier settings.
type Config struct {
	SenderName      string
	ExportKeyPrefix string
}

// New creates a Notifier.
func New(store storage.ArtifactStore, cfg *Config, log *logger.Logger) *Notifier {
	return &Notifier{store: store, cfg: cfg, logger: log}
}

// Notify renders the proposal email and uploads a one-row import CSV
// for the lead. The sheet write happens later, in the orchestrator's
// finalize step.
func (n *Notifier) Notify(ctx context.Context, lead *domain.Lead, analysis *domain.AnalysisResult, publish *domain.PublishResult, slug string) (*domain.NotifyResult, error) {
	data := newEmailData(lead, analysis, publish.URL, n.cfg.SenderName)

	proposal, err := renderTemplate(proposalTmpl, data)
	if err != nil {
		return nil, err
	}
	exportBody, err := renderTemplate(exportBodyTmpl, data)
	if err != nil {
		return nil, err
	}

	screenshotURL := ""
	if publish.URL != "" {
		screenshotURL = fmt.Sprintf("%s/prospects/%s/hero.png", publish.URL, slug)
	}

	record := []string{
		lead.Email,
		data.FirstName,
		lead.BusinessName,
		lead.Website,
		lead.City,
		publish.URL,
		screenshotURL,
		exportBody,
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	if err := w.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write export row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export CSV: %w", err)
	}

	exportKey := fmt.Sprintf("%s/%s.csv", n.cfg.ExportKeyPrefix, slug)
	if err := n.store.Upload(ctx, exportKey, bytes.NewReader(buf.Bytes()),
		int64(buf.Len()), "text/csv"); err != nil {
		return nil, fmt.Errorf("failed to upload export CSV: %w", err)
	}

	exportURL := n.store.GetURL(exportKey)
	logger.CtxInfo(ctx, "Exported campaign CSV: key=%s, url=%s, email=%s", exportKey, exportURL, lead.Email)

	return &domain.NotifyResult{
		EmailBody:     proposal,
		ScreenshotURL: screenshotURL,
		ExportKey:     exportKey,
		ExportURL:     exportURL,
	}, nil
}
