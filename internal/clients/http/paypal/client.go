// Package paypal is a minimal client for the PayPal v1 payments REST API.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"

	ModeSandbox = "sandbox"
	ModeLive    = "live"
)

// Config selects the PayPal environment and credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	// Mode is "sandbox" or "live". Ignored when BaseURL is set.
	Mode    string
	BaseURL string
	Timeout time.Duration
}

// Client calls the payments API with an OAuth2 client-credentials token.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient validates the configuration and prepares an authenticated HTTP client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, errors.New("paypal client id and secret are required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		var err error
		if baseURL, err = BaseURLForMode(cfg.Mode); err != nil {
			return nil, err
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	base := &http.Client{Timeout: timeout}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := creds.Client(tokenCtx)
	httpClient.Timeout = timeout

	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// BaseURLForMode maps PAYPAL_MODE to the REST endpoint.
func BaseURLForMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeSandbox:
		return SandboxBaseURL, nil
	case ModeLive:
		return LiveBaseURL, nil
	default:
		return "", fmt.Errorf("unknown paypal mode %q", mode)
	}
}

// CreatePayment creates a payment awaiting payer approval.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/v1/payments/payment", req, &payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return &payment, nil
}

// ExecutePayment captures an approved payment for the given payer.
func (c *Client) ExecutePayment(ctx context.Context, paymentID, payerID string) (*Payment, error) {
	pathID, err := runtime.StyleParamWithLocation("simple", false, "paymentId", runtime.ParamLocationPath, paymentID)
	if err != nil {
		return nil, fmt.Errorf("encode payment id: %w", err)
	}
	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/v1/payments/payment/"+pathID+"/execute", executeRequest{PayerID: payerID}, &payment); err != nil {
		return nil, fmt.Errorf("execute payment: %w", err)
	}
	return &payment, nil
}

// GetPayment shows the current state of a payment.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	pathID, err := runtime.StyleParamWithLocation("simple", false, "paymentId", runtime.ParamLocationPath, paymentID)
	if err != nil {
		return nil, fmt.Errorf("encode payment id: %w", err)
	}
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/v1/payments/payment/"+pathID, nil, &payment); err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &payment, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.http == nil {
		return errors.New("paypal client not configured")
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
