package sheet

import (
	"context"
	"time"

	"github.com/Hinderager/web-agency-outreach/internal/domain"
	"github.com/Hinderager/web-agency-outreach/internal/logger"
)

// LeadStore reads and writes leads on top of the raw cell client. It is
// the only writer to the sheet during a pipeline run; exclusivity comes
// from the run lock, not from the store.
type LeadStore struct {
	client *Client
	logger *logger.Logger
}

// NewLeadStore creates a LeadStore bound to the given client.
func NewLeadStore(client *Client, log *logger.Logger) *LeadStore {
	return &LeadStore{client: client, logger: log}
}

func (s *LeadStore) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// FindUnclaimed scans the sheet top to bottom and returns the first row
// with an empty claim marker and non-empty input facts. Returns
// domain.ErrNoWork when the queue is empty. Rows that carry a claim
// marker but no terminal status are logged for operator review and
// never re-claimed automatically.
func (s *LeadStore) FindUnclaimed(ctx context.Context) (*domain.Lead, error) {
	rows, err := s.client.ReadRange(ctx, leadRange)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, domain.ErrNoWork
	}

	var found *domain.Lead
	anomalies := 0
	// Row 1 is the header.
	for i := 1; i < len(rows); i++ {
		lead := parseRow(rows[i], i+1)
		if lead.ClaimedAt != "" {
			if lead.Status != domain.StatusEmailSent && lead.Status != domain.StatusError {
				anomalies++
			}
			continue
		}
		if found == nil && lead.HasInputFacts() {
			found = lead
		}
	}

	if anomalies > 0 {
		s.log(ctx).WithField(logger.FieldCount, anomalies).
			Warn("Found claimed rows without terminal status, they need operator review")
	}
	if found == nil {
		return nil, domain.ErrNoWork
	}
	return found, nil
}

// Claim writes the claim marker and the intermediate "processing"
// status in one batch. After this the row is invisible to future scans
// regardless of how the run ends.
func (s *LeadStore) Claim(ctx context.Context, lead *domain.Lead, now time.Time) error {
	marker := now.Format("1/2/2006")
	updates := []CellUpdate{
		{Address: A1(FieldClaimedAt, lead.RowNumber), Value: marker},
		{Address: A1(FieldStatus, lead.RowNumber), Value: domain.StatusProcessing},
	}
	if err := s.client.BatchWrite(ctx, updates); err != nil {
		return err
	}
	lead.ClaimedAt = marker
	lead.Status = domain.StatusProcessing
	s.log(ctx).WithFields(logger.Fields{
		logger.FieldRow: lead.RowNumber,
		"business":      lead.BusinessName,
	}).Info("Claimed lead")
	return nil
}

// Finalize writes every non-empty derived fact plus the terminal status
// in a single batched update, giving sheet viewers an all-or-nothing
// snapshot of the run's output.
func (s *LeadStore) Finalize(ctx context.Context, rowNumber int, facts *domain.DerivedFacts, status string) error {
	updates := factUpdates(rowNumber, facts)
	updates = append(updates, CellUpdate{Address: A1(FieldStatus, rowNumber), Value: status})
	if err := s.client.BatchWrite(ctx, updates); err != nil {
		return err
	}
	s.log(ctx).WithFields(logger.Fields{
		logger.FieldRow:    rowNumber,
		logger.FieldStatus: status,
		logger.FieldCount:  len(updates),
	}).Info("Finalized lead row")
	return nil
}

// MarkFailed records a stage failure on the row: partial derived facts,
// the error status, and a bounded diagnostic note. The claim marker is
// left in place so the row is not re-selected.
func (s *LeadStore) MarkFailed(ctx context.Context, rowNumber int, facts *domain.DerivedFacts, note string) error {
	updates := factUpdates(rowNumber, facts)
	updates = append(updates,
		CellUpdate{Address: A1(FieldStatus, rowNumber), Value: domain.StatusError},
		CellUpdate{Address: A1(FieldNotes, rowNumber), Value: note},
	)
	return s.client.BatchWrite(ctx, updates)
}

// factUpdates converts non-empty derived facts into cell updates. Empty
// facts are skipped so previously written cells are never cleared.
func factUpdates(rowNumber int, facts *domain.DerivedFacts) []CellUpdate {
	if facts == nil {
		return nil
	}
	var updates []CellUpdate
	add := func(field Field, value string) {
		if value != "" {
			updates = append(updates, CellUpdate{Address: A1(field, rowNumber), Value: value})
		}
	}
	add(FieldScore, facts.Score)
	add(FieldPrimaryColor, facts.PrimaryColor)
	add(FieldSecondaryColor, facts.SecondaryColor)
	add(FieldScreenshotURL, facts.ScreenshotURL)
	add(FieldPreviewURL, facts.PreviewURL)
	add(FieldEmailBody, facts.EmailBody)
	add(FieldNotes, facts.Notes)
	return updates
}

// parseRow maps a raw sheet row onto a Lead. rowNumber is 1-based.
func parseRow(row []string, rowNumber int) *domain.Lead {
	return &domain.Lead{
		RowNumber:      rowNumber,
		ClaimedAt:      cell(row, FieldClaimedAt),
		Status:         cell(row, FieldStatus),
		FirstName:      cell(row, FieldFirstName),
		LastName:       cell(row, FieldLastName),
		Email:          cell(row, FieldEmail),
		City:           cell(row, FieldCity),
		BusinessName:   cell(row, FieldBusinessName),
		Website:        cell(row, FieldWebsite),
		Score:          cell(row, FieldScore),
		PrimaryColor:   cell(row, FieldPrimaryColor),
		SecondaryColor: cell(row, FieldSecondaryColor),
		ScreenshotURL:  cell(row, FieldScreenshotURL),
		PreviewURL:     cell(row, FieldPreviewURL),
		EmailBody:      cell(row, FieldEmailBody),
		Notes:          cell(row, FieldNotes),
	}
}
