package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
)

// Builder renders branded preview sites. Given identical inputs it
// produces identical output.
type Builder struct {
	tmpl   *template.Template
	logger *logger.Logger
}

// NewBuilder creates a Builder with the compiled site template.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{
		tmpl:   template.Must(template.New("preview").Parse(previewTemplate)),
		logger: log,
	}
}

// siteContent is the content.json document consumed by the preview app.
type siteContent struct {
	CompanyName string       `json:"companyName"`
	Title       string       `json:"title"`
	Brand       brandContent `json:"brand"`
	Assets      assetContent `json:"assets"`
	Screenshot  string       `json:"screenshot"`
}

type brandContent struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type assetContent struct {
	LogoURL *string `json:"logoUrl"`
}

// templateData carries business facts into the preview template.
type templateData struct {
	BusinessName   string
	City           string
	Email          string
	Industry       string
	PrimaryColor   string
	SecondaryColor string
	Score          string
}

// Build renders the preview site for a lead using its analysis result.
func (b *Builder) Build(ctx context.Context, lead *domain.Lead, analysis *domain.AnalysisResult) (*domain.PreviewSite, error) {
	slug := Slugify(lead.BusinessName)
	if slug == "" {
		return nil, fmt.Errorf("business name %q yields an empty slug", lead.BusinessName)
	}

	data := templateData{
		BusinessName:   lead.BusinessName,
		City:           lead.City,
		Email:          lead.Email,
		Industry:       InferIndustry(lead.BusinessName, lead.Website),
		PrimaryColor:   analysis.PrimaryColor,
		SecondaryColor: analysis.SecondaryColor,
		Score:          strconv.Itoa(analysis.Score),
	}

	var html bytes.Buffer
	if err := b.tmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render preview for %s: %w", slug, err)
	}

	content, err := json.MarshalIndent(siteContent{
		CompanyName: lead.BusinessName,
		Title:       lead.BusinessName,
		Brand: brandContent{
			Primary:   analysis.PrimaryColor,
			Secondary: analysis.SecondaryColor,
		},
		Assets:     assetContent{},
		Screenshot: fmt.Sprintf("/prospects/%s/hero.png", slug),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode content for %s: %w", slug, err)
	}

	logger.CtxInfo(ctx, "Built preview site: slug=%s, industry=%s, bytes=%d",
		slug, data.Industry, html.Len())

	return &domain.PreviewSite{
		Slug:         slug,
		BusinessName: lead.BusinessName,
		HTML:         html.Bytes(),
		Content:      content,
	}, nil
}
