// Package gateway provides the HTTP client for the Diiwaan remote API.
//
// The remote service is treated as a black box: the client only knows the
// endpoint shapes and maps every failure into the error taxonomy of
// internal/errors (auth, network, server).
package gateway

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

	"github.com/rs/zerolog"

	apperrors "github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/errors"
	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/logging"
	"github.com/abasiman/Diiwaan-Mobile-App-sub003/internal/models"
)

// Customer is one row of the remote customer roster.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SummaryReport is the invoice summary returned for one customer.
type SummaryReport struct {
	Items []models.Invoice `json:"items"`
}

// LedgerReport is the ledger listing returned for one customer.
type LedgerReport struct {
	Items []models.Ledger `json:"items"`
}

// errorBody is the error envelope the API may return on non-2xx responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// Client is a bearer-token HTTP client for the Diiwaan REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client for the given API base URL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     logging.WithComponent("gateway"),
	}
}

// ListCustomers returns one page of the customer roster, in server-defined
// ascending order. Callers page while a returned page is exactly limit long
// and stop on the first short (or empty) page.
func (c *Client) ListCustomers(ctx context.Context, token string, offset, limit int) ([]Customer, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var customers []Customer
	if err := c.get(ctx, token, "/diiwaancustomers", q, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CustomerInvoiceSummary fetches a customer's invoice summary by exact name,
// case-insensitively, newest first.
func (c *Client) CustomerInvoiceSummary(ctx context.Context, token, customerName string, offset, limit int) (*SummaryReport, error) {
	q := url.Values{}
	q.Set("customer_name", customerName)
	q.Set("match", "exact")
	q.Set("case_sensitive", "false")
	q.Set("order", "created_desc")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var report SummaryReport
	if err := c.get(ctx, token, "/oilsale/summary/by-customer-name", q, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// CustomerLedger fetches a customer's ledger entries by exact name,
// case-insensitively, newest first.
func (c *Client) CustomerLedger(ctx context.Context, token, customerName string, offset, limit int) (*LedgerReport, error) {
	q := url.Values{}
	q.Set("customer_name", customerName)
	q.Set("match", "exact")
	q.Set("case_sensitive", "false")
	q.Set("order", "created_desc")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var report LedgerReport
	if err := c.get(ctx, token, "/ledger/by-customer-name", q, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SubmitReprice posts a price-update body for one oil product. The payload
// is forwarded verbatim; it was validated when the outbox row was created.
func (c *Client) SubmitReprice(ctx context.Context, token string, oilID int64, payload []byte) error {
	endpoint := fmt.Sprintf("%s/diiwaanoil/%d/reprice", c.baseURL, oilID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// get issues an authorized GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, token, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNetwork, err)
	}
	c.authorize(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.ErrServer, fmt.Errorf("decoding %s response: %w", path, err))
	}
	return nil
}

func (c *Client) authorize(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
}

// statusError maps a non-2xx response to the error taxonomy, surfacing the
// server's detail message when the body carries one.
func (c *Client) statusError(resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &body)

	code := apperrors.ErrServer
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		code = apperrors.ErrAuth
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Str("detail", body.Detail).
		Msg("remote call failed")

	return &apperrors.AppError{
		Code:   code,
		Status: resp.StatusCode,
		Detail: body.Detail,
		Err:    fmt.Errorf("remote returned status %d", resp.StatusCode),
	}
}
