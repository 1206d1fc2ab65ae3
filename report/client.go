// Package report sends finalized moisture-content records to the external
// report generator and returns the generated workbook.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-geofal-humedad/models"
)

// ErrDisabled is returned when no generator URL is configured.
var ErrDisabled = errors.New("report generator not configured")

// maxReportSize caps the workbook read from the generator.
const maxReportSize = 32 << 20

// Generator produces a report file from a finalized record.
type Generator interface {
	Generate(ctx context.Context, rec models.Humedad) ([]byte, error)
}

// Client posts records to an HTTP report generator.
type Client struct {
	url  string
	http *http.Client
}

// New returns a Client for url. An empty url yields a client whose Generate
// always returns ErrDisabled.
func New(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// Generate posts rec as JSON and returns the response body.
func (c *Client) Generate(ctx context.Context, rec models.Humedad) ([]byte, error) {
	if c.url == "" {
		return nil, ErrDisabled
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("report: encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("report: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report: post: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReportSize))
	if err != nil {
		return nil, fmt.Errorf("report: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report: generator returned %d: %s", resp.StatusCode, truncate(data, 200))
	}
	return data, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
