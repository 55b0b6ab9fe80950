package domain

import "strings"

// LeadState represents the lifecycle state of a lead as it moves through
// the outreach pipeline. A lead is Unclaimed until a run writes its claim
// marker, advances one state per completed stage, and terminates in either
// LeadStateDone or LeadStateFailed.
type LeadState string

const (
	LeadStateUnclaimed LeadState = "unclaimed"
	LeadStateClaimed   LeadState = "claimed"
	LeadStateAnalyzed  LeadState = "analyzed"
	LeadStatePreviewed LeadState = "previewed"
	LeadStatePublished LeadState = "published"
	LeadStateNotified  LeadState = "notified"
	LeadStateDone      LeadState = "done"
	LeadStateFailed    LeadState = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s LeadState) Terminal() bool {
	return s == LeadStateDone || s == LeadStateFailed
}

// Sheet status strings written to the status column. These are
// human-facing values shown to whoever is watching the spreadsheet.
const (
	StatusProcessing = "processing"
	StatusEmailSent  = "email sent"
	StatusError      = "error"
)

// Lead is one outreach prospect, backed by a single spreadsheet row.
// Input facts are set when the row is created and never mutated by the
// pipeline; derived facts are each written exactly once by one stage.
type Lead struct {
	// RowNumber is the 1-based sheet row backing this lead. Immutable
	// once claimed.
	RowNumber int

	// ClaimedAt holds the raw claim-marker cell. Non-empty means the
	// row has been picked up by a run and is no longer eligible.
	ClaimedAt string

	// Status is the raw status-column cell.
	Status string

	// Input facts.
	FirstName    string
	LastName     string
	Email        string
	City         string
	BusinessName string
	Website      string

	// Derived facts, populated stage by stage. Already-present values
	// (from an earlier partial run) are never overwritten.
	Score          string
	PrimaryColor   string
	SecondaryColor string
	ScreenshotURL  string
	PreviewURL     string
	EmailBody      string
	Notes          string
}

// HasInputFacts reports whether the row carries enough data to be worth
// claiming. A row with an empty claim marker but no facts is a blank
// line, not a lead.
func (l *Lead) HasInputFacts() bool {
	return strings.TrimSpace(l.Email) != "" ||
		strings.TrimSpace(l.BusinessName) != "" ||
		strings.TrimSpace(l.Website) != ""
}

// Greeting returns the first name to address the prospect by, falling
// back to the first word of the business name, then "there".
func (l *Lead) Greeting() string {
	if name := strings.TrimSpace(l.FirstName); name != "" {
		return name
	}
	if fields := strings.Fields(l.BusinessName); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}

// AnalysisResult is the output of the Analyze stage.
type AnalysisResult struct {
	Score          int    // 0-100
	PrimaryColor   string // hex triple, e.g. #0ea5e9
	SecondaryColor string // hex triple
	ScreenshotRef  string // optional reference to a captured hero image
	Notes          string // free-text observations
}

// PreviewSite is the output of the Build Preview stage: a slug-addressed
// rendered one-pager ready for publishing.
type PreviewSite struct {
	Slug         string
	BusinessName string
	HTML         []byte
	Content      []byte // content.json consumed by the preview app
}

// PublishResult is the output of the Publish stage. Confirmed reports
// whether the deployment answered a liveness probe before the poll
// budget ran out; the URL is returned either way.
type PublishResult struct {
	Branch    string
	URL       string
	Confirmed bool
}

// NotifyResult is the output of the Notify stage.
type NotifyResult struct {
	EmailBody     string
	ScreenshotURL string
	ExportKey     string // storage key of the generated import CSV
	ExportURL     string // public URL of the same object
}

// DerivedFacts collects everything the stages produced for one lead, in
// the shape the finalize write expects. Empty fields are skipped so a
// partial run never clears a previously written cell.
type DerivedFacts struct {
	Score          string
	PrimaryColor   string
	SecondaryColor string
	ScreenshotURL  string
	PreviewURL     string
	EmailBody      string
	Notes          string
}
