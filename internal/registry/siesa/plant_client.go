// Package siesa is the HTTP facade over the plant master-data integration
// service. It owns plant identity, unit pricing, and special-billing
// enrollment lookups.
package siesa

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

// Client implements port.PlantRegistry against the plant registry REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a plant registry client from the registry config.
func NewClient(cfg *config.RegistryConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.PlantBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ port.PlantRegistry = (*Client)(nil)

func (c *Client) PlantIDByName(ctx context.Context, name string) (string, error) {
	var out struct {
		PlantID string `json:"plant_id"`
	}
	path := "/api/v1/plants/resolve?name=" + url.QueryEscape(name)
	if err := c.get(ctx, path, &out); err != nil {
		return "", err
	}
	return out.PlantID, nil
}

func (c *Client) PlantNameByID(ctx context.Context, plantID string) (string, error) {
	var out struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/api/v1/plants/"+url.PathEscape(plantID), &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

func (c *Client) OperatorIDByPlant(ctx context.Context, plantID string) (int64, error) {
	var out struct {
		OperatorID int64 `json:"operator_id"`
	}
	if err := c.get(ctx, "/api/v1/plants/"+url.PathEscape(plantID)+"/operator", &out); err != nil {
		return 0, err
	}
	return out.OperatorID, nil
}

func (c *Client) UnitValueByPlant(ctx context.Context, plantID string) (float64, error) {
	var out struct {
		UnitValue float64 `json:"unit_value"`
	}
	if err := c.get(ctx, "/api/v1/plants/"+url.PathEscape(plantID)+"/unit-value", &out); err != nil {
		return 0, err
	}
	return out.UnitValue, nil
}

func (c *Client) SpecialBillingEnrolled(ctx context.Context, plantID string) (bool, error) {
	var out struct {
		Enrolled bool `json:"enrolled"`
	}
	if err := c.get(ctx, "/api/v1/plants/"+url.PathEscape(plantID)+"/special-billing", &out); err != nil {
		return false, err
	}
	return out.Enrolled, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling plant registry: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("plant registry error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !envelope.Success {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}
