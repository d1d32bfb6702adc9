// Package liveiq implements the HTTP client for the LiveIQ franchisee API.
// Authentication is two static headers per account (api-client / api-key);
// every request carries Accept: application/json and a fixed timeout.
//
// Report fetches are the failure-isolation boundary of the whole batch:
// FetchReport converts any transport, HTTP, or decode error into a Failure
// value and never propagates an error to its caller.
package liveiq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/derickschaefer/franq/internal/catalog"
	"github.com/derickschaefer/franq/internal/diaglog"
	"github.com/derickschaefer/franq/internal/model"
)

const (
	headerClient = "api-client"
	headerKey    = "api-key"

	// maxErrBody caps how much of an error response body ends up in
	// messages and the diagnostic log.
	maxErrBody = 300
)

// Client is the LiveIQ API HTTP client. Credentials are per-call, not
// per-client: one client serves every account in the run.
type Client struct {
	baseURL    string
	httpClient *http.Client
	diag       *diaglog.Log
	debug      bool
}

// NewClient creates a Client against baseURL with the given per-request
// timeout. diag receives one line per failed request.
func NewClient(baseURL string, timeout time.Duration, diag *diaglog.Log, debug bool) *Client {
	if diag == nil {
		diag = diaglog.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		diag:  diag,
		debug: debug,
	}
}

// ─── Store Discovery ──────────────────────────────────────────────────────────

// ListStores fetches the store-listing endpoint with one account's
// credentials and returns the store numbers it owns. Records without a
// restaurantNumber field are silently dropped.
func (c *Client) ListStores(ctx context.Context, clientID, clientKey string) ([]string, error) {
	raw, err := c.get(ctx, catalog.StoreListPath, clientID, clientKey)
	if err != nil {
		return nil, err
	}

	var records []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding store list: %w", err)
	}

	stores := make([]string, 0, len(records))
	for _, rec := range records {
		v, ok := rec["restaurantNumber"]
		if !ok {
			continue
		}
		if id := storeID(v); id != "" {
			stores = append(stores, id)
		}
	}
	return stores, nil
}

// storeID normalizes a restaurantNumber field, which the API returns as
// either a JSON string or a bare number.
func storeID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// ─── Report Fetch ─────────────────────────────────────────────────────────────

// FetchReport issues one GET for (report, store, date range) with the given
// credentials. It never returns an error: failures become Failure values,
// tagged upstream with the originating account and store, and are appended
// to the diagnostic log. On success the decoded body is returned unmodified
// apart from unwrapping an optional {"data": ...} envelope.
func (c *Client) FetchReport(ctx context.Context, report, storeID, startDate, endDate, clientID, clientKey string) model.FetchResult {
	path, err := catalog.Resolve(report, storeID, startDate, endDate)
	if err != nil {
		c.diag.Printf("Fetch error %s %s: %v", storeID, report, err)
		return model.FetchResult{Err: err.Error()}
	}

	raw, err := c.get(ctx, path, clientID, clientKey)
	if err != nil {
		c.diag.Printf("Fetch error %s %s: %v", storeID, report, err)
		return model.FetchResult{Err: err.Error()}
	}
	return model.FetchResult{Raw: unwrapData(raw)}
}

// unwrapData strips the optional {"data": ...} response envelope; any other
// shape is returned as-is.
func unwrapData(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimLeft(string(raw), " \t\r\n")
	if !strings.HasPrefix(trimmed, "{") {
		return raw
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}

// ─── Low-level HTTP ───────────────────────────────────────────────────────────

// get performs a single GET request. No retries: one attempt per request is
// the contract, failures surface to the caller immediately.
func (c *Client) get(ctx context.Context, path, clientID, clientKey string) (json.RawMessage, error) {
	reqURL := c.baseURL + path

	if c.debug {
		slog.Debug("liveiq request", "url", reqURL, "client", clientID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set(headerClient, clientID)
	req.Header.Set(headerKey, clientKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if c.debug {
		slog.Debug("liveiq response", "status", resp.StatusCode, "bytes", len(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, trimBody(body))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decoding response: invalid JSON (%d bytes)", len(body))
	}
	return json.RawMessage(body), nil
}

func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrBody {
		s = s[:maxErrBody] + "…"
	}
	return s
}
