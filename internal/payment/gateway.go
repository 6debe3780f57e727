// Package payment talks to the card gateway. The core only ever needs two
// calls: create a customer from a client-side card token, then charge that
// customer an amount in minor units.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Gateway is the boundary the checkout flow charges through. Amounts are in
// minor units (pence for GBP).
type Gateway interface {
	CreateCustomer(ctx context.Context, email, cardToken string) (string, error)
	Charge(ctx context.Context, customerID string, amountMinor int64, currency, description string) (string, error)
}

// Config holds the gateway credentials and endpoint.
type Config struct {
	SecretKey string
	BaseURL   string
}

// ConfigFromEnv reads PAYMENT_SECRET_KEY and PAYMENT_API_URL.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		SecretKey: os.Getenv("PAYMENT_SECRET_KEY"),
		BaseURL:   os.Getenv("PAYMENT_API_URL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.stripe.com"
	}
	if cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("payment configuration missing: PAYMENT_SECRET_KEY is not set")
	}
	return cfg, nil
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type apiResponse struct {
	ID    string    `json:"id"`
	Error *apiError `json:"error,omitempty"`
}

// CreateCustomer registers the card token against a new gateway customer
// record and returns its id.
func (c *Client) CreateCustomer(ctx context.Context, email, cardToken string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("source", cardToken)
	return c.post(ctx, "/v1/customers", form)
}

// Charge collects amountMinor from the customer. The amount is already in
// minor units; no further scaling happens here.
func (c *Client) Charge(ctx context.Context, customerID string, amountMinor int64, currency, description string) (string, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("description", description)
	return c.post(ctx, "/v1/charges", form)
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse gateway response (%d): %s", resp.StatusCode, body)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gateway error: %s", parsed.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gateway error (%d): %s", resp.StatusCode, body)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("gateway returned no id")
	}
	return parsed.ID, nil
}
