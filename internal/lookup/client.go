// Package lookup is the client for the external tax registry. It performs the
// outbound call and returns a typed result or a typed failure; it never writes
// to the vendor store.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/vendor-enricher/internal/schemas"
	"github.com/jonathan/vendor-enricher/internal/types"
)

// DefaultUserAgent is the user agent string for registry requests.
const DefaultUserAgent = "VendorEnricher/1.0"

// NoRecordsMessage is the registry message for an unknown tax id.
const NoRecordsMessage = "No records found"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// Options configures the client.
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	// Timeout bounds each call. Zero means no client-side timeout; the call is
	// then only bounded by the caller's context.
	Timeout time.Duration
	// RateLimitRPS spaces calls made through this client. Set to <=0 to disable.
	RateLimitRPS float64
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client queries the registry by tax id.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	limiter   *rate.Limiter
	validator *schemas.Validator
}

// New creates a registry client.
func New(opts Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid lookup URL %q", opts.BaseURL)
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("lookup API key is required")
	}

	validator, err := schemas.NewRegistryResponseValidator()
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}

	return &Client{
		baseURL:   parsed,
		apiKey:    opts.APIKey,
		userAgent: userAgent,
		timeout:   opts.Timeout,
		http:      httpClient,
		limiter:   limiter,
		validator: validator,
	}, nil
}

// requestURL builds the query URL. The redacted form is safe to log.
func (c *Client) requestURL(taxID string) (full string, redacted string) {
	u := *c.baseURL
	q := u.Query()
	q.Set("json", "1")
	q.Set("q", taxID)

	q.Set("key", "REDACTED")
	u.RawQuery = q.Encode()
	redacted = u.String()

	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), redacted
}

// Fetch looks up taxID. A non-nil error is always a *TransportError or a
// *DecodeError; application-level outcomes (no match, other failure messages)
// are reported through the result's Status.
func (c *Client) Fetch(ctx context.Context, taxID string) (*types.LookupResult, error) {
	taxID = strings.TrimSpace(taxID)
	full, redacted := c.requestURL(taxID)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{URL: redacted, Message: "rate limiter wait aborted", Cause: err}
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, &TransportError{URL: redacted, Message: "failed to create request", Cause: scrub(err, redacted)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: redacted, Message: "HTTP request failed", Cause: scrub(err, redacted)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: redacted, Message: "failed to read response body", StatusCode: resp.StatusCode, Cause: scrub(err, redacted)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			URL:        redacted,
			Message:    fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, snippet(body)),
			StatusCode: resp.StatusCode,
		}
	}

	if err := c.validator.Validate(body); err != nil {
		return nil, &DecodeError{Message: "response does not match registry schema", Cause: err}
	}
	return decodeResult(taxID, body)
}

// scrub replaces the key-bearing URL inside *url.Error values.
func scrub(err error, redacted string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: redacted, Err: ue.Err}
	}
	return err
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
