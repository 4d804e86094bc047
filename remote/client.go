// Package remote talks to the spreadsheet-backed endpoints that hold the
// contest's settings, the submissions feed and the registration intake.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable wraps every transport or decoding failure of a remote call.
var ErrUnavailable = errors.New("remote source unavailable")

const maxBodySize = 16 << 20

type Client struct {
	settingsURL    string
	submissionsURL string
	intakeURL      string
	httpClient     *http.Client
}

type Options struct {
	SettingsURL    string
	SubmissionsURL string
	IntakeURL      string
	Timeout        time.Duration
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		settingsURL:    opts.SettingsURL,
		submissionsURL: opts.SubmissionsURL,
		intakeURL:      opts.IntakeURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) SettingsConfigured() bool    { return c != nil && c.settingsURL != "" }
func (c *Client) SubmissionsConfigured() bool { return c != nil && c.submissionsURL != "" }
func (c *Client) IntakeConfigured() bool      { return c != nil && c.intakeURL != "" }

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnavailable, req.URL.Host, resp.StatusCode)
	}
	return body, nil
}
