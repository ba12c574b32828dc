// Package portal is a thin client for the portal's sharing REST API. Every call
// is a single attempt bounded by the client's timeout and the caller's context.
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/portal-group-access/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	sharingPath     = "/sharing/rest"
	multiTenantHost = "arcgis.com"
	maxErrorBody    = 4 << 10
)

// Client talks to one portal. It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL    string
	referer    string
	httpClient *http.Client
}

// New creates a client with its own http.Client using the given timeout.
func New(baseURL, referer string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, referer, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL, referer string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		referer:    referer,
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// SharingURL joins a path onto the portal's sharing REST root.
func (c *Client) SharingURL(path string) string {
	return c.baseURL + sharingPath + path
}

// IsMultiTenant reports whether the portal is the hosted multi-tenant cloud
// rather than a single-tenant deployment.
func (c *Client) IsMultiTenant() bool {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == multiTenantHost || strings.HasSuffix(host, "."+multiTenantHost)
}

func (c *Client) getJSON(ctx context.Context, op, endpoint, token string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("f", "json")
	if token != "" {
		params.Set("token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	return c.do(ctx, op, req, out)
}

func (c *Client) postForm(ctx context.Context, op, endpoint, token string, form url.Values, out any) error {
	if form == nil {
		form = url.Values{}
	}
	form.Set("f", "json")
	if token != "" {
		form.Set("token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(ctx, op, req, out)
}

// do sends the request and decodes the body into out. A portal error object in
// the body is returned as *Error even when the HTTP status is 200.
func (c *Client) do(ctx context.Context, op string, req *http.Request, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.PortalCallsTotal.WithLabelValues(op, metrics.Result(err)).Inc()
		metrics.PortalCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			event := log.Ctx(ctx).Debug().Err(err).Str("operation", op)
			var serr *StatusError
			if errors.As(err, &serr) {
				event = event.Str("body", serr.Body)
			}
			event.Msg("portal call failed")
		}
	}()

	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error repeats the request URL, which carries the token on GET calls.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("failed to perform %s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	var envelope struct {
		Error *Error `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	if envelope.Error != nil {
		envelope.Error.Operation = op
		return envelope.Error
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}
