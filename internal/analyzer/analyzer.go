package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
)

// Default brand colors used when a site yields nothing usable.
const (
	DefaultPrimaryColor   = "#0ea5e9"
	DefaultSecondaryColor = "#111827"
)

// Analyzer fetches a prospect's public website and produces a score and
// brand-color summary for the preview builder.
type Analyzer struct {
	http    *resty.Client
	maxBody int
	logger  *logger.Logger
}

// Config holds analyzer settings.
type Config struct {
	Timeout   time.Duration
	MaxBodyKB int
	UserAgent string
}

// New creates an Analyzer.
func New(cfg *Config, log *logger.Logger) *Analyzer {
	client := resty.New()
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	maxBody := cfg.MaxBodyKB * 1024
	if maxBody <= 0 {
		maxBody = 2 << 20
	}

	return &Analyzer{
		http:    client,
		maxBody: maxBody,
		logger:  log,
	}
}

var (
	titleRe    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	viewportRe = regexp.MustCompile(`(?i)<meta[^>]+name=["']viewport["']`)
	descRe     = regexp.MustCompile(`(?i)<meta[^>]+name=["']description["']`)
	ogImageRe  = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']+)["']`)
)

// Analyze fetches the website and derives score, brand colors, and an
// optional screenshot reference. It fails on unreachable sites or
// non-success responses; the caller treats that as a stage failure.
func (a *Analyzer) Analyze(ctx context.Context, websiteURL string) (*domain.AnalysisResult, error) {
	pageURL := normalizeURL(websiteURL)
	if pageURL == "" {
		return nil, fmt.Errorf("empty website URL")
	}

	resp, err := a.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("site %s returned HTTP %d", pageURL, resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > a.maxBody {
		body = body[:a.maxBody]
	}
	html := string(body)

	primary, secondary := extractBrandColors(html)

	screenshotRef := ""
	if m := ogImageRe.FindStringSubmatch(html); m != nil {
		screenshotRef = resolveRef(pageURL, m[1])
		// A hero image is a better brand signal than stylesheet hexes
		// when the markup carried none.
		if primary == DefaultPrimaryColor {
			if imgPrimary, imgSecondary, ok := a.colorsFromImage(ctx, screenshotRef); ok {
				primary, secondary = imgPrimary, imgSecondary
			}
		}
	}

	score := scorePage(html, len(body))

	result := &domain.AnalysisResult{
		Score:          score,
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		ScreenshotRef:  screenshotRef,
		Notes:          fmt.Sprintf("Analysis completed. Performance score: %d/100", score),
	}

	logger.With(logger.Fields{
		logger.FieldStatus: "ok",
	}).Info(ctx, "Analyzed website: url=%s, score=%d, primary=%s, secondary=%s",
		pageURL, score, primary, secondary)

	return result, nil
}

// colorsFromImage downloads and decodes the hero image and samples its
// dominant colors. Failures are soft: the caller keeps its defaults.
func (a *Analyzer) colorsFromImage(ctx context.Context, imageURL string) (string, string, bool) {
	resp, err := a.http.R().SetContext(ctx).Get(imageURL)
	if err != nil || resp.IsError() {
		return "", "", false
	}
	img, _, err := image.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", "", false
	}
	colors := dominantColors(img, 2)
	if len(colors) < 2 {
		return "", "", false
	}
	return colors[0], colors[1], true
}

// scorePage derives a deterministic 0-100 quality score from page
// structure signals.
func scorePage(html string, bodyLen int) int {
	score := 40
	if titleRe.MatchString(html) {
		score += 15
	}
	if viewportRe.MatchString(html) {
		score += 15
	}
	if descRe.MatchString(html) {
		score += 10
	}
	if strings.Contains(html, "https://") {
		score += 10
	}
	// Lean pages load faster.
	if bodyLen < 256*1024 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// normalizeURL ensures the URL has a scheme.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// resolveRef resolves a possibly relative asset reference against the
// page URL, so a root-relative ref lands on the origin rather than
// under the page's path.
func resolveRef(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(refURL).String()
}
