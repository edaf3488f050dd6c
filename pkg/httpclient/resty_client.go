package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetPreRequestHook(markDispatched)
	return c
}

type dispatchKey struct{}

// dispatch is filled in by the pre-request hook right before the raw request
// is handed to the transport. Execute runs the hook on the calling goroutine.
type dispatch struct {
	info *RequestInfo
}

func markDispatched(_ *resty.Client, req *http.Request) error {
	d, ok := req.Context().Value(dispatchKey{}).(*dispatch)
	if !ok || d == nil {
		return nil
	}
	d.info = &RequestInfo{
		Method: req.Method,
		URL:    req.URL.String(),
		SentAt: time.Now().UTC(),
	}
	return nil
}

// Do performs the request described by cfg.
func (r *RestyClient) Do(ctx context.Context, cfg RequestConfig) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg = cfg.normalized()

	target, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	d := &dispatch{}
	req := r.client.R().SetContext(context.WithValue(ctx, dispatchKey{}, d))
	if len(cfg.Headers) > 0 {
		req.SetHeaders(cfg.Headers)
	}
	if len(cfg.Query) > 0 {
		req.SetQueryParams(cfg.Query)
	}
	if cfg.Data != nil {
		req.SetBody(cfg.Data)
	}

	resp, err := req.Execute(cfg.Method, target)
	if err != nil {
		if d.info == nil {
			return nil, setupError(ErrBadOptionValue, err.Error(), cfg, err)
		}
		return nil, transportError(err, cfg, d.info)
	}

	out := newResponse(resp, cfg)
	if !cfg.acceptStatus(out.Status) {
		return nil, statusError(out, d.info)
	}
	return out, nil
}

// validateConfig rejects configs that can never be dispatched and returns the
// resolved target URL.
func validateConfig(cfg RequestConfig) (string, error) {
	if !validMethod(cfg.Method) {
		return "", setupError(ErrBadOptionValue, fmt.Sprintf("Invalid method %q", cfg.Method), cfg, nil)
	}

	target := cfg.FullURL()
	if target == "" {
		return "", setupError(ErrInvalidURL, "Invalid URL", cfg, nil)
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", setupError(ErrInvalidURL, "Invalid URL", cfg, err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", setupError(ErrInvalidURL, "Invalid URL", cfg, nil)
	}
	return target, nil
}

func validMethod(method string) bool {
	if method == "" {
		return false
	}
	for _, r := range method {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// newResponse adapts resty.Response into a Response with decoded data.
func newResponse(resp *resty.Response, cfg RequestConfig) *Response {
	body := resp.Body()
	header := resp.Header()
	return &Response{
		Status:     resp.StatusCode(),
		StatusText: http.StatusText(resp.StatusCode()),
		Header:     header,
		Body:       body,
		Data:       decodeData(body, header.Get("Content-Type")),
		Config:     cfg,
	}
}

// decodeData returns decoded JSON for JSON bodies, the raw text otherwise,
// and nil for empty bodies.
func decodeData(body []byte, contentType string) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if isJSONContent(contentType) || json.Valid(trimmed) {
		var v any
		if err := json.Unmarshal(trimmed, &v); err == nil {
			return v
		}
	}
	return string(body)
}

func isJSONContent(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
