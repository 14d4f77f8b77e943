package quotes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/itechcomputers/storefront/build"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Forwarder posts submitted quotes and requirement forms to the external
// sales system. It does not retry and sends no idempotency key; a failed
// forward is reported to the caller once.
type Forwarder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewForwarder(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Forwarder{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Customer is the contact block of a forwarded quote.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

type QuotePayload struct {
	Reference      string          `json:"reference"`
	Customer       Customer        `json:"customer"`
	Total          decimal.Decimal `json:"total"`
	ComponentCount int             `json:"componentCount"`
	Items          []build.Line    `json:"items"`
}

type RequirementsPayload struct {
	Reference string           `json:"reference"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Budget    *decimal.Decimal `json:"budget,omitempty"`
	Purpose   string           `json:"purpose,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

func (f *Forwarder) SendQuote(ctx context.Context, p QuotePayload) error {
	return f.post(ctx, "/quotes", p.Reference, p)
}

func (f *Forwarder) SendRequirements(ctx context.Context, p RequirementsPayload) error {
	return f.post(ctx, "/requirements", p.Reference, p)
}

func (f *Forwarder) post(ctx context.Context, path, reference string, body any) error {
	if f.baseURL == "" {
		return fmt.Errorf("quote service not configured: base URL required")
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Warn("quote service request failed", zap.Error(err), zap.String("path", path), zap.String("reference", reference))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("quote service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
