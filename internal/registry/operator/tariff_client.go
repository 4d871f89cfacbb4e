// Package operator is the HTTP facade over the distribution-operator
// registry, which publishes one tariff per operator per month.
package operator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"heliogen/internal/config"
	"heliogen/internal/domain"
	"heliogen/internal/port"
)

// Client implements port.OperatorRegistry against the operator registry REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an operator registry client from the registry config.
func NewClient(cfg *config.RegistryConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.OperatorBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ port.OperatorRegistry = (*Client)(nil)

func (c *Client) TariffByOperatorAndMonth(ctx context.Context, operatorID int64, month int) (*domain.OperatorTariff, error) {
	path := fmt.Sprintf("%s/api/v1/operators/%d/tariffs/%d", c.baseURL, operatorID, month)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling operator registry: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrTariffNotFound
	default:
		return nil, fmt.Errorf("operator registry error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Success bool                  `json:"success"`
		Data    domain.OperatorTariff `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !envelope.Success {
		return nil, domain.ErrTariffNotFound
	}
	return &envelope.Data, nil
}
