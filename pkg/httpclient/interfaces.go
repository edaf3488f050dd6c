package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client abstracts HTTP calls so callers can inject mocks or different transports.
//
// Do returns a *Response when the call resolved with an accepted status. Every
// other failure is reported as a *ClientError.
type Client interface {
	Do(ctx context.Context, cfg RequestConfig) (*Response, error)
}

// RequestConfig describes a single outgoing call.
type RequestConfig struct {
	Method  string            `json:"method,omitempty"`
	BaseURL string            `json:"base_url,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Data    any               `json:"data,omitempty"`
	Timeout time.Duration     `json:"-"`

	// ValidateStatus reports whether a status resolves the call. Nil accepts 2xx.
	ValidateStatus func(status int) bool `json:"-"`
}

// FullURL resolves URL against BaseURL the way the transport sees it.
// Absolute URLs ignore BaseURL.
func (c RequestConfig) FullURL() string {
	switch {
	case c.BaseURL == "":
		return c.URL
	case c.URL == "":
		return c.BaseURL
	case isAbsoluteURL(c.URL):
		return c.URL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.URL, "/")
}

func (c RequestConfig) acceptStatus(status int) bool {
	if c.ValidateStatus != nil {
		return c.ValidateStatus(status)
	}
	return status >= 200 && status < 300
}

func (c RequestConfig) normalized() RequestConfig {
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = http.MethodGet
	}
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.URL = strings.TrimSpace(c.URL)
	return c
}

func isAbsoluteURL(raw string) bool {
	if strings.HasPrefix(raw, "//") {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs()
}

// Response is a completed HTTP exchange.
type Response struct {
	Status     int           `json:"status"`
	StatusText string        `json:"status_text,omitempty"`
	Header     http.Header   `json:"header,omitempty"`
	Body       []byte        `json:"-"`
	Data       any           `json:"data,omitempty"`
	Config     RequestConfig `json:"config"`
}

// String renders the response for logs and diagnostics.
func (r *Response) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("HTTP %d", r.Status)
}

// RequestInfo records a request that was handed to the transport.
type RequestInfo struct {
	Method string    `json:"method"`
	URL    string    `json:"url"`
	SentAt time.Time `json:"sent_at"`
}
