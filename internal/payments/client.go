package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client charges through the provider's REST endpoint with basic-auth
// API credentials.
type Client struct {
	endpoint   string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// NewClient returns a gateway client for the given charge endpoint.
func NewClient(endpoint, keyID, keySecret string) *Client {
	return &Client{
		endpoint:  endpoint,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// failureResponse is the provider's error envelope.
type failureResponse struct {
	Error Error `json:"error"`
}

// Charge posts the charge request and decodes either a Charge or a
// structured *Error.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("charge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var charge Charge
		if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
			return nil, fmt.Errorf("decode charge response: %w", err)
		}
		if charge.PaymentID == "" {
			return nil, fmt.Errorf("charge response missing payment id")
		}
		return &charge, nil
	}

	var failure failureResponse
	if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Error.Code == "" {
		return nil, fmt.Errorf("charge rejected with status %d", resp.StatusCode)
	}
	return nil, &failure.Error
}
