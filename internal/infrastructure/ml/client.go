package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/ports"
)

// Client talks to an external ML service that estimates nutrition facts.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.NutritionAnalyzer = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Analyze asks for per-100g values of a product. Fields the service
// leaves out stay nil.
func (c *Client) Analyze(ctx context.Context, product domain.Product) (domain.Nutrition, error) {
	if c.http == nil || c.endpoint == "" {
		return domain.Nutrition{}, fmt.Errorf("nutrition client misconfigured")
	}

	payload := map[string]any{
		"name":        product.DisplayName(),
		"name_ar":     product.NameAR,
		"category":    product.Category,
		"description": product.Description,
	}

	var nutrition domain.Nutrition
	if err := c.post(ctx, "/nutrition", payload, &nutrition); err != nil {
		return domain.Nutrition{}, fmt.Errorf("analyze %s: %w", product.ID, err)
	}

	return nutrition, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
