package envelope

import (
	"encoding/json"
	"fmt"
)

// Result codes produced by the classifiers.
const (
	CodeNonClient      = "NON_AXIOS_ERROR"
	CodeNetworkFailure = "NETWORK_FAILURE"
	CodeUnknown        = "UNKNOWN"

	// StatusCodePrefix prefixes the default code derived from an HTTP status.
	StatusCodePrefix = "HTTP_STATUS_"
)

// Result is the uniform outcome of a classified response or error.
// Empty Code and Message stand for "not derivable" and encode as null.
type Result struct {
	OK      bool
	Code    string
	Message string
	Context *Context
}

// Context carries raw diagnostics about the call behind a Result.
//
// Code and Message are the low-level values reported by the client, distinct
// from Result.Code and Result.Message. Status 0 means unknown.
type Context struct {
	Status       int
	Code         string
	Message      string
	RequestURL   string
	RequestData  any
	ResponseData any

	// Error references the classified input. It is borrowed, never copied
	// or mutated, and is nil for successful responses.
	Error any

	extra map[string]any
}

var reservedKeys = map[string]struct{}{
	"status":        {},
	"code":          {},
	"message":       {},
	"request_url":   {},
	"request_data":  {},
	"response_data": {},
	"error":         {},
}

// Set attaches a custom field and returns c for chaining.
// Reserved keys of the fixed fields are ignored.
func (c *Context) Set(key string, value any) *Context {
	if c == nil {
		return nil
	}
	if _, reserved := reservedKeys[key]; reserved || key == "" {
		return c
	}
	if c.extra == nil {
		c.extra = make(map[string]any)
	}
	c.extra[key] = value
	return c
}

// Get returns a custom field set with Set.
func (c *Context) Get(key string) (any, bool) {
	if c == nil || c.extra == nil {
		return nil, false
	}
	v, ok := c.extra[key]
	return v, ok
}

// Extra returns a copy of all custom fields.
func (c *Context) Extra() map[string]any {
	if c == nil || len(c.extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(c.extra))
	for k, v := range c.extra {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the fixed fields plus every custom field at the same level.
func (c *Context) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(reservedKeys)+len(c.extra))
	for k, v := range c.extra {
		out[k] = v
	}
	out["status"] = nullableStatus(c.Status)
	out["code"] = nullable(c.Code)
	out["message"] = nullable(c.Message)
	out["request_url"] = nullable(c.RequestURL)
	out["request_data"] = c.RequestData
	out["response_data"] = c.ResponseData
	out["error"] = describe(c.Error)
	return json.Marshal(out)
}

// MarshalJSON writes the {ok, code, message, context} envelope.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		OK      bool     `json:"ok"`
		Code    any      `json:"code"`
		Message any      `json:"message"`
		Context *Context `json:"context"`
	}{
		OK:      r.OK,
		Code:    nullable(r.Code),
		Message: nullable(r.Message),
		Context: r.Context,
	})
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableStatus(status int) any {
	if status == 0 {
		return nil
	}
	return status
}

// describe renders the borrowed input without serializing its internals.
func describe(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
