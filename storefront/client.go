// Package storefront is a typed Go client for the storefront HTTP API.
// Every response is decoded into its struct and validated before it is
// returned; a body that does not fit is reported as a *DecodeError and no
// partial value is handed out.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/itechcomputers/storefront/validation"
	"go.uber.org/zap"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: %d %s", e.Status, e.Message)
}

// DecodeError is a 2xx response whose body is not the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("storefront: decode %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProductQuery filters the product listing. Zero fields are not sent.
type ProductQuery struct {
	Offset     int
	Limit      int
	Category   string
	PriceBelow *float64
	Search     string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.PriceBelow != nil {
		v.Set("price_lt", strconv.FormatFloat(*q.PriceBelow, 'f', -1, 64))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductList, error) {
	var out ProductList
	path := "/products"
	if enc := q.values().Encode(); enc != "" {
		path += "?" + enc
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	var out ProductDetail
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Resolve sends one attribute change and returns the variant to show.
func (c *Client) Resolve(ctx context.Context, slug string, req ResolveRequest) (*Resolution, error) {
	var out Resolution
	if err := c.do(ctx, http.MethodPost, "/products/"+url.PathEscape(slug)+"/resolve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BuilderConfig(ctx context.Context) (*BuilderConfig, error) {
	var out BuilderConfig
	if err := c.do(ctx, http.MethodGet, "/pc-builder/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Components(ctx context.Context, category string) (*Slot, error) {
	var out Slot
	if err := c.do(ctx, http.MethodGet, "/pc-builder/components/"+url.PathEscape(category), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summarize prices a builder selection (category slug -> product id).
func (c *Client) Summarize(ctx context.Context, selection map[string]uint) (*Summary, error) {
	var out Summary
	body := map[string]any{"selection": selection}
	if err := c.do(ctx, http.MethodPost, "/pc-builder/summary", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitQuote(ctx context.Context, req QuoteRequest) (*QuoteReceipt, error) {
	var out QuoteReceipt
	if err := c.do(ctx, http.MethodPost, "/pc-builder/quotes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitRequirements(ctx context.Context, req RequirementsRequest) (*RequirementsReceipt, error) {
	var out RequirementsReceipt
	if err := c.do(ctx, http.MethodPost, "/pc-builder/requirements", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("storefront request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	op := method + " " + strings.SplitN(path, "?", 2)[0]
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	if err := validateBody(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func validateBody(out any) error {
	if list, ok := out.(*[]Category); ok {
		for i := range *list {
			if err := validation.Validator().Struct((*list)[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return validation.Validator().Struct(out)
}

func apiError(resp *http.Response) *APIError {
	e := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		e.Message = body.Error
		e.Fields = body.Fields
	}
	return e
}
