package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a thin wrapper over the spreadsheet values REST API. It
// knows nothing about leads; it reads and writes ranges of cells.
type Client struct {
	http          *resty.Client
	spreadsheetID string
}

// ClientConfig holds connection settings for the sheet backend.
type ClientConfig struct {
	BaseURL       string
	SpreadsheetID string
	APIToken      string
	Timeout       time.Duration
}

// valueRange mirrors the values API payload for a single range.
type valueRange struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// batchUpdateRequest is the body of a values:batchUpdate call.
type batchUpdateRequest struct {
	ValueInputOption string       `json:"valueInputOption"`
	Data             []valueRange `json:"data"`
}

// apiError mirrors the error envelope returned by the values API.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a sheet API client.
func NewClient(cfg *ClientConfig) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	if cfg.APIToken != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIToken)
	}
	client.SetHeader("Content-Type", "application/json")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	return &Client{
		http:          client,
		spreadsheetID: cfg.SpreadsheetID,
	}
}

// ReadRange fetches the cell values of an A1-notation range. Rows may be
// ragged: trailing empty cells are omitted by the API.
func (c *Client) ReadRange(ctx context.Context, rng string) ([][]string, error) {
	var result valueRange
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr).
		Get(fmt.Sprintf("/%s/values/%s", c.spreadsheetID, rng))
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rng, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("sheet API returned HTTP %d reading %s: %s",
			resp.StatusCode(), rng, apiErr.Error.Message)
	}
	return result.Values, nil
}

// WriteCell writes a single value to one cell.
func (c *Client) WriteCell(ctx context.Context, address, value string) error {
	body := valueRange{
		Range:  address,
		Values: [][]string{{value}},
	}
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("valueInputOption", "RAW").
		SetBody(body).
		SetError(&apiErr).
		Put(fmt.Sprintf("/%s/values/%s", c.spreadsheetID, address))
	if err != nil {
		return fmt.Errorf("failed to write cell %s: %w", address, err)
	}
	if resp.IsError() {
		return fmt.Errorf("sheet API returned HTTP %d writing %s: %s",
			resp.StatusCode(), address, apiErr.Error.Message)
	}
	return nil
}

// CellUpdate is one range/value pair of a batched write.
type CellUpdate struct {
	Address string
	Value   string
}

// BatchWrite writes all updates in a single request so external viewers
// see them land together.
func (c *Client) BatchWrite(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	req := batchUpdateRequest{
		ValueInputOption: "RAW",
		Data:             make([]valueRange, 0, len(updates)),
	}
	for _, u := range updates {
		req.Data = append(req.Data, valueRange{
			Range:  u.Address,
			Values: [][]string{{u.Value}},
		})
	}
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetError(&apiErr).
		Post(fmt.Sprintf("/%s/values:batchUpdate", c.spreadsheetID))
	if err != nil {
		return fmt.Errorf("failed to batch write %d cells: %w", len(updates), err)
	}
	if resp.IsError() {
		return fmt.Errorf("sheet API returned HTTP %d on batch write: %s",
			resp.StatusCode(), apiErr.Error.Message)
	}
	return nil
}
