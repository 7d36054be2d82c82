package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// maxBodySize bounds how much of a provider response is buffered.
const maxBodySize = 1 << 20

// StatusError is returned for non-2xx provider responses. Body holds the
// response payload when it could be read; otherwise ReadErr is set.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
	ReadErr    error
}

func (e *StatusError) Error() string {
	if e.ReadErr != nil {
		return fmt.Sprintf("status %s (body unreadable: %v)", e.Status, e.ReadErr)
	}
	return fmt.Sprintf("status %s", e.Status)
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP lets tests inject a transport.
func NewClientWithHTTP(c *http.Client) *Client {
	return &Client{http: c}
}

// PostForm sends a form-encoded POST and returns the raw 2xx body.
func (c *Client) PostForm(ctx context.Context, endpoint string, data url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return readBody(resp)
}

// GetWithToken sends a GET authorized with a bearer token and returns the
// raw 2xx body. The token is attached by an oauth2 transport and never
// appears in returned errors.
func (c *Client) GetWithToken(ctx context.Context, endpoint, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = c.http.Timeout

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return readBody(resp)
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		if err != nil {
			se.ReadErr = err
		} else {
			se.Body = body
		}
		return nil, se
	}
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}
