package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-http-envelope/pkg/envelope"
	"github.com/samvad-hq/samvad-http-envelope/pkg/httpclient"
)

type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	timeout time.Duration
	client  httpclient.Client
	policy  envelope.Policy
	typ     string
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return &httpPublisher{
		id:      cfg.ID,
		typ:     TypeHTTP,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		timeout: timeout,
		client:  httpclient.NewRestyClient(timeout),
		policy:  envelope.Policy{ScrubRequestData: func(any) any { return nil }},
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }
func (h *httpPublisher) Close() error { return nil }

// Publish posts the event as JSON. Delivery failures are classified into an
// envelope so the returned error carries a stable code.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	headers := make(map[string]string, len(h.headers)+1)
	for k, v := range h.headers {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"

	_, err := h.client.Do(ctx, httpclient.RequestConfig{
		Method:  h.method,
		URL:     h.url,
		Headers: headers,
		Data:    evt,
		Timeout: h.timeout,
	})
	if err == nil {
		return nil
	}

	res, cerr := envelope.ClassifyError(err, h.policy)
	if cerr != nil {
		return fmt.Errorf("http publish: %w", cerr)
	}
	status := 0
	if res.Context != nil {
		status = res.Context.Status
	}
	h.log.WarnObj("http publisher delivery failed", "publisher_http_error", map[string]any{
		"publisher_id": h.id,
		"code":         res.Code,
		"message":      res.Message,
		"status":       status,
	})
	return fmt.Errorf("http publish %s: %w", res.Code, err)
}
