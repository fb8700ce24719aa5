package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

// Client is a small JSON-over-HTTP helper shared by the recommender, TMDB and
// review clients. Every request is bounded by the http.Client timeout so no
// caller can block indefinitely on a dead remote.
type Client struct {
	httpc    *http.Client
	limiter  *rate.Limiter
	attempts uint
}

// NewClient returns a client whose requests time out after the given duration.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpc:    &http.Client{Timeout: timeout},
		attempts: 3,
	}
}

// WithHTTPClient swaps the underlying http.Client. Used by tests to inject a
// fake transport.
func (c *Client) WithHTTPClient(httpc *http.Client) *Client {
	c.httpc = httpc
	return c
}

// WithLimiter throttles outgoing requests, e.g. to stay under TMDB's QPS cap.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// WithAttempts overrides how many times idempotent requests are tried.
func (c *Client) WithAttempts(n uint) *Client {
	if n > 0 {
		c.attempts = n
	}
	return c
}

// GetJSON fetches url and decodes the JSON body into v. Transient failures
// (network errors, 5xx, 429) are retried.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	return c.do(ctx, http.MethodGet, url, nil, v, c.attempts)
}

// PostJSON sends body as JSON and decodes the response into v. POSTs are not
// retried: the review path is a write and must not be duplicated.
func (c *Client) PostJSON(ctx context.Context, url string, body, v any) error {
	return c.do(ctx, http.MethodPost, url, body, v, 1)
}

func (c *Client) do(ctx context.Context, method, url string, body, v any, attempts uint) error {
	op := method + " " + url

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
	}

	var raw []byte
	err := retry.Do(
		func() error {
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return retry.Unrecoverable(&Error{Kind: KindTransport, Op: op, Err: err})
				}
			}

			var reqBody io.Reader
			if payload != nil {
				reqBody = bytes.NewReader(payload)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
			if err != nil {
				return retry.Unrecoverable(&Error{Kind: KindTransport, Op: op, Err: err})
			}
			req.Header.Set("Accept", "application/json")
			if payload != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := c.httpc.Do(req)
			if err != nil {
				return &Error{Kind: KindTransport, Op: op, Err: err}
			}
			defer resp.Body.Close()

			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return &Error{Kind: KindTransport, Op: op, Err: err}
			}

			switch {
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				raw = b
				return nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				return &Error{Kind: KindStatus, Op: op, Status: resp.StatusCode}
			default:
				return retry.Unrecoverable(&Error{Kind: KindStatus, Op: op, Status: resp.StatusCode})
			}
		},
		retry.Attempts(attempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(2*time.Second),
	)
	if err != nil {
		var re *Error
		if errors.As(err, &re) {
			return re
		}
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return nil
}
