// Package specialbilling is the HTTP facade over the special-billing export
// service, which tracks exported kWh for enrolled plants.
package specialbilling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"heliogen/internal/config"
	"heliogen/internal/domain"
	"heliogen/internal/port"
)

// Client implements port.SpecialBillingRegistry against the special-billing REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a special-billing registry client from the registry config.
func NewClient(cfg *config.RegistryConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.SpecialBillingBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ port.SpecialBillingRegistry = (*Client)(nil)

func (c *Client) ExportedKWh(ctx context.Context, plantID string, year, month int) (float64, error) {
	path := fmt.Sprintf("%s/api/v1/exports/%s/%d/%d", c.baseURL, url.PathEscape(plantID), year, month)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling special-billing registry: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, domain.ErrExportDataUnavailable
	default:
		return 0, fmt.Errorf("special-billing registry error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			ExportedKWh float64 `json:"exported_kwh"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}
	if !envelope.Success {
		return 0, domain.ErrExportDataUnavailable
	}
	return envelope.Data.ExportedKWh, nil
}
