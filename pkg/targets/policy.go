package targets

import (
	"strings"

	"github.com/samvad-hq/samvad-http-envelope/pkg/envelope"
	"github.com/samvad-hq/samvad-http-envelope/pkg/httpclient"
	"github.com/samvad-hq/samvad-http-envelope/pkg/scrub"
)

// ContextTargetKey is the Context field carrying the target id.
const ContextTargetKey = "target_id"

// Request builds the client call for the target.
func (t Target) Request() httpclient.RequestConfig {
	cfg := httpclient.RequestConfig{
		Method:  t.Method,
		BaseURL: t.BaseURL,
		URL:     t.URL,
		Headers: copyMap(t.Headers),
		Query:   copyMap(t.Query),
		Data:    t.Body,
		Timeout: t.Timeout(),
	}
	if accepted := t.acceptedStatus(); accepted != nil {
		cfg.ValidateStatus = accepted
	}
	return cfg
}

// acceptedStatus reports membership in ExpectStatus, nil when none are listed.
func (t Target) acceptedStatus() func(int) bool {
	if len(t.ExpectStatus) == 0 {
		return nil
	}
	accepted := make(map[int]struct{}, len(t.ExpectStatus))
	for _, s := range t.ExpectStatus {
		accepted[s] = struct{}{}
	}
	return func(status int) bool {
		_, ok := accepted[status]
		return ok
	}
}

// Policy derives the classification policy for the target: redaction for its
// keys, field lookups along its dotted paths, and the target id on the context.
// Without a success field in the body, a listed expect_status counts as healthy.
func (t Target) Policy() envelope.Policy {
	defaults := envelope.DefaultPolicy()
	success := splitPath(t.SuccessField)
	code := splitPath(t.CodeField)
	message := splitPath(t.MessageField)
	accepted := t.acceptedStatus()

	fields := envelope.Policy{
		IsResponseSuccess: func(data any, ctx *envelope.Context) bool {
			if v, ok := envelope.Field(data, success...); ok && len(success) > 0 {
				return envelope.Truthy(v)
			}
			if accepted != nil {
				return ctx != nil && accepted(ctx.Status)
			}
			return defaults.IsResponseSuccess(nil, ctx)
		},
		FindErrorContext: func(_ any, ctx *envelope.Context) *envelope.Context {
			return ctx.Set(ContextTargetKey, t.ID)
		},
	}
	if len(code) > 0 {
		fields.FindErrorCode = func(data any, ctx *envelope.Context) string {
			if v, ok := envelope.Field(data, code...); ok && envelope.Truthy(v) {
				return envelope.String(v)
			}
			return defaults.FindErrorCode(nil, ctx)
		}
	}
	msgFn := defaults.FindErrorMessage
	if len(message) > 0 {
		msgFn = func(data any, ctx *envelope.Context) string {
			if v, ok := envelope.Field(data, message...); ok && envelope.Truthy(v) {
				return envelope.String(v)
			}
			return defaults.FindErrorMessage(nil, ctx)
		}
	}
	fields.FindErrorMessage = scrub.HTMLMessage(msgFn)

	return scrub.Policy(t.RedactKeys...).Merge(fields)
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func copyMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
