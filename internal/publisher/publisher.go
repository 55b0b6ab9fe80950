package publisher

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
	"github.com/Hinderager/web-agency-outreach/internal/storage"
)

// Publisher turns a rendered preview site into a publicly reachable URL:
// it uploads the payload, creates an isolated branch on the hosting
// platform, and resolves the deployment URL by convention.
type Publisher struct {
	store  storage.ArtifactStore
	http   *resty.Client
	cfg    *Config
	logger *logger.Logger
}

// Config holds publisher settings.
type Config struct {
	RepoAPIBase   string
	RepoToken     string
	Owner         string
	ProjectPrefix string
	PreviewDomain string
	BranchPrefix  string
	PollInterval  time.Duration
	PollAttempts  int
	Timeout       time.Duration
}

// New creates a Publisher.
func New(store storage.ArtifactStore, cfg *Config, log *logger.Logger) *Publisher {
	client := resty.New()
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)
	if cfg.RepoToken != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.RepoToken)
	}
	client.SetHeader("Content-Type", "application/json")

	return &Publisher{
		store:  store,
		http:   client,
		cfg:    cfg,
		logger: log,
	}
}

// branchRequest is the hosting platform's create-branch payload.
type branchRequest struct {
	Name string `json:"name"`
	Base string `json:"base"`
}

// Publish commits the preview payload under its slug, pushes an isolated
// branch, and resolves the public URL. The URL is returned even when the
// deployment has not answered a liveness probe yet; Confirmed records
// which case occurred.
func (p *Publisher) Publish(ctx context.Context, site *domain.PreviewSite) (*domain.PublishResult, error) {
	prefix := fmt.Sprintf("prospects/%s", site.Slug)

	if err := p.store.Upload(ctx, prefix+"/index.html",
		bytes.NewReader(site.HTML), int64(len(site.HTML)), "text/html"); err != nil {
		return nil, fmt.Errorf("failed to upload preview payload: %w", err)
	}
	if err := p.store.Upload(ctx, prefix+"/content.json",
		bytes.NewReader(site.Content), int64(len(site.Content)), "application/json"); err != nil {
		return nil, fmt.Errorf("failed to upload preview content: %w", err)
	}

	branch := p.cfg.BranchPrefix + site.Slug
	if err := p.createBranch(ctx, branch); err != nil {
		// Without a branch the uploaded payload is unreachable; remove
		// it so a retry starts from a clean slate.
		p.removeArtifacts(ctx, prefix)
		return nil, err
	}

	url := p.PreviewURL(branch)

	confirmed := pollUntil(ctx, p.cfg.PollInterval, p.cfg.PollAttempts, func(ctx context.Context) bool {
		return p.probe(ctx, url)
	})
	if confirmed {
		logger.CtxInfo(ctx, "Deployment is live: url=%s", url)
	} else {
		logger.CtxWarn(ctx, "Deployment not confirmed within poll budget, proceeding anyway: url=%s", url)
	}

	return &domain.PublishResult{
		Branch:    branch,
		URL:       url,
		Confirmed: confirmed,
	}, nil
}

// createBranch asks the hosting platform for an isolated branch off the
// default one. An already-exists conflict is treated as success so a
// re-run of a cleared row does not fail here.
func (p *Publisher) createBranch(ctx context.Context, branch string) error {
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(branchRequest{Name: branch, Base: "main"}).
		Post(p.cfg.RepoAPIBase + "/branches")
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	if resp.StatusCode() == 409 {
		logger.CtxWarn(ctx, "Branch already exists, reusing it: branch=%s", branch)
		return nil
	}
	if resp.IsError() {
		return fmt.Errorf("hosting platform returned HTTP %d creating branch %s: %s",
			resp.StatusCode(), branch, string(resp.Body()))
	}
	logger.CtxInfo(ctx, "Created branch: branch=%s", branch)
	return nil
}

// removeArtifacts deletes the uploaded preview objects, best effort.
func (p *Publisher) removeArtifacts(ctx context.Context, prefix string) {
	for _, key := range []string{prefix + "/index.html", prefix + "/content.json"} {
		if err := p.store.Delete(ctx, key); err != nil {
			logger.CtxWarn(ctx, "Failed to delete orphaned artifact: key=%s, err=%v", key, err)
		}
	}
}

// PreviewURL constructs the deployment URL from the platform's naming
// convention: project prefix, sanitized branch, and account suffix.
func (p *Publisher) PreviewURL(branch string) string {
	sanitized := strings.ReplaceAll(branch, "/", "-")
	return fmt.Sprintf("https://%s-git-%s-%s.%s",
		p.cfg.ProjectPrefix, sanitized, strings.ToLower(p.cfg.Owner), p.cfg.PreviewDomain)
}

// probe does a lightweight existence check against the deployment.
func (p *Publisher) probe(ctx context.Context, url string) bool {
	resp, err := p.http.R().SetContext(ctx).Head(url)
	return err == nil && !resp.IsError()
}
