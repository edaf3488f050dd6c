package envelope

import (
	"net/http"
	"strconv"
)

// Policy controls how Result fields are derived from raw call data.
//
// A zero Policy changes nothing: nil functions keep their defaults when merged.
// data is the response body; the functions may read ctx, and FindErrorContext
// may extend it and return it.
type Policy struct {
	// ThrowOnNonClient makes ClassifyError hand non-client errors back
	// unchanged instead of absorbing them into a Result.
	ThrowOnNonClient bool

	IsResponseSuccess func(data any, ctx *Context) bool
	FindErrorCode     func(data any, ctx *Context) string
	FindErrorMessage  func(data any, ctx *Context) string
	FindErrorContext  func(data any, ctx *Context) *Context

	ScrubRequestURL   func(url string) string
	ScrubRequestData  func(data any) any
	ScrubResponseData func(data any) any
}

var defaultPolicy = Policy{
	IsResponseSuccess: defaultIsResponseSuccess,
	FindErrorCode:     defaultFindErrorCode,
	FindErrorMessage:  defaultFindErrorMessage,
	FindErrorContext:  func(_ any, ctx *Context) *Context { return ctx },
	ScrubRequestURL:   func(url string) string { return url },
	ScrubRequestData:  func(data any) any { return data },
	ScrubResponseData: func(data any) any { return data },
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy { return defaultPolicy }

// Merge overlays the non-nil functions of each override onto p, in order.
// ThrowOnNonClient is enabled when any side enables it.
func (p Policy) Merge(overrides ...Policy) Policy {
	for _, o := range overrides {
		if o.ThrowOnNonClient {
			p.ThrowOnNonClient = true
		}
		if o.IsResponseSuccess != nil {
			p.IsResponseSuccess = o.IsResponseSuccess
		}
		if o.FindErrorCode != nil {
			p.FindErrorCode = o.FindErrorCode
		}
		if o.FindErrorMessage != nil {
			p.FindErrorMessage = o.FindErrorMessage
		}
		if o.FindErrorContext != nil {
			p.FindErrorContext = o.FindErrorContext
		}
		if o.ScrubRequestURL != nil {
			p.ScrubRequestURL = o.ScrubRequestURL
		}
		if o.ScrubRequestData != nil {
			p.ScrubRequestData = o.ScrubRequestData
		}
		if o.ScrubResponseData != nil {
			p.ScrubResponseData = o.ScrubResponseData
		}
	}
	return p
}

func resolve(overrides []Policy) Policy {
	return defaultPolicy.Merge(overrides...)
}

// StatusCode returns the default code for an HTTP status, HTTP_STATUS_UNKNOWN for 0.
func StatusCode(status int) string {
	if status == 0 {
		return StatusCodePrefix + "UNKNOWN"
	}
	return StatusCodePrefix + strconv.Itoa(status)
}

// defaultIsResponseSuccess trusts an "ok" field when the body has one and
// falls back to status 200 otherwise.
func defaultIsResponseSuccess(data any, ctx *Context) bool {
	if v, ok := Field(data, "ok"); ok {
		return Truthy(v)
	}
	return ctx != nil && ctx.Status == http.StatusOK
}

func defaultFindErrorCode(data any, ctx *Context) string {
	if v, ok := Field(data, "code"); ok && Truthy(v) {
		return String(v)
	}
	if ctx == nil {
		return StatusCode(0)
	}
	return StatusCode(ctx.Status)
}

func defaultFindErrorMessage(data any, ctx *Context) string {
	if v, ok := Field(data, "message"); ok && Truthy(v) {
		return String(v)
	}
	if ctx != nil && ctx.Message != "" {
		return ctx.Message
	}
	return ""
}
