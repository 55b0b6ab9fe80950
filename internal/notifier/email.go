package notifier

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
)

// proposalTemplate is the personalized outreach proposal written to the
// lead's email-body column. Fixed structure; absent fields are
// null-coalesced by the caller, never branched on.
const proposalTemplate = `Hi {{.FirstName}},

I came across {{.BusinessName}} and was impressed by your work in {{.City}}. Your website at {{.Website}} shows great potential, and I noticed some opportunities that could help you stand out even more in your market.

Based on my analysis of your site, I've identified several areas where we could enhance your online presence:

• **Design Optimization**: Your current branding uses {{.PrimaryColor}} as a primary color, which works well. We could explore complementing this with {{.SecondaryColor}} for better visual hierarchy.

• **Performance Score**: Your site currently scores {{.Score}}/100 on our analysis. We typically help businesses like yours achieve 90+ scores, which directly impacts search rankings and user experience.

• **Local Market Advantage**: Being based in {{.City}}, you have a unique opportunity to dominate local search results with the right SEO strategy.

I've prepared a custom preview of what your enhanced website could look like: {{.PreviewURL}}

Would you be open to a 15-minute call this week to discuss how we've helped similar businesses in your industry increase their leads by 40-60%?

Best regards,
{{.SenderName}}

P.S. I'm only taking on 3 new clients this month, so if this interests you, let's connect soon.`

// exportBodyTemplate is the short note that rides along in the campaign
// import CSV.
const exportBodyTemplate = `Hi {{.FirstName}},

I mocked up a modern hero for {{.BusinessName}} using your current brand cues.

Preview: {{.PreviewURL}}

If helpful, I can deliver the full live site in 7 days and make SEO-improving updates monthly.

— {{.SenderName}}`

var (
	proposalTmpl   = template.Must(template.New("proposal").Parse(proposalTemplate))
	exportBodyTmpl = template.Must(template.New("export_body").Parse(exportBodyTemplate))
)

// emailData carries every fact the templates may reference.
type emailData struct {
	FirstName      string
	BusinessName   string
	City           string
	Website        string
	PrimaryColor   string
	SecondaryColor string
	Score          string
	PreviewURL     string
	SenderName     string
}

func newEmailData(lead *domain.Lead, analysis *domain.AnalysisResult, previewURL, sender string) emailData {
	return emailData{
		FirstName:      lead.Greeting(),
		BusinessName:   lead.BusinessName,
		City:           lead.City,
		Website:        lead.Website,
		PrimaryColor:   analysis.PrimaryColor,
		SecondaryColor: analysis.SecondaryColor,
		Score:          fmt.Sprintf("%d", analysis.Score),
		PreviewURL:     previewURL,
		SenderName:     sender,
	}
}

func renderTemplate(tmpl *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
