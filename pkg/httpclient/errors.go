package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

// Low-level error codes carried by ClientError.Code.
const (
	ErrBadOptionValue = "ERR_BAD_OPTION_VALUE"
	ErrInvalidURL     = "ERR_INVALID_URL"
	ErrBadRequest     = "ERR_BAD_REQUEST"
	ErrBadResponse    = "ERR_BAD_RESPONSE"
	ErrCanceled       = "ERR_CANCELED"
	ErrNetwork        = "ERR_NETWORK"
	ErrNotFound       = "ENOTFOUND"
	ErrConnRefused    = "ECONNREFUSED"
	ErrConnReset      = "ECONNRESET"
	ErrTimedOut       = "ETIMEDOUT"
	ErrConnAborted    = "ECONNABORTED"
)

// ClientError is the failure type produced by Client implementations.
//
// Request is set once the request reached the transport and Response is set
// when the server answered with a status outside the accepted range. A setup
// failure carries neither.
type ClientError struct {
	Code     string
	Message  string
	Config   RequestConfig
	Request  *RequestInfo
	Response *Response
	Err      error
}

// ErrorInfo is the serialized view of a ClientError.
type ErrorInfo struct {
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message"`
	Status  int           `json:"status,omitempty"`
	Config  RequestConfig `json:"config"`
}

func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "http client error"
}

func (e *ClientError) Unwrap() error { return e.Err }

// Info serializes the error into its code, message, and request config.
func (e *ClientError) Info() ErrorInfo {
	if e == nil {
		return ErrorInfo{}
	}
	info := ErrorInfo{
		Code:    e.Code,
		Message: e.Message,
		Config:  e.Config,
	}
	if e.Response != nil {
		info.Status = e.Response.Status
	}
	return info
}

// AsClientError finds the first ClientError in err's chain.
func AsClientError(err error) (*ClientError, bool) {
	var cerr *ClientError
	if err == nil || !errors.As(err, &cerr) || cerr == nil {
		return nil, false
	}
	return cerr, true
}

func setupError(code, msg string, cfg RequestConfig, cause error) *ClientError {
	return &ClientError{Code: code, Message: msg, Config: cfg, Err: cause}
}

func statusError(resp *Response, req *RequestInfo) *ClientError {
	code := ErrBadResponse
	if resp.Status >= 400 && resp.Status < 500 {
		code = ErrBadRequest
	}
	return &ClientError{
		Code:     code,
		Message:  fmt.Sprintf("Request failed with status code %d", resp.Status),
		Config:   resp.Config,
		Request:  req,
		Response: resp,
	}
}

func transportError(err error, cfg RequestConfig, req *RequestInfo) *ClientError {
	return &ClientError{
		Code:    transportCode(err),
		Message: transportMessage(err),
		Config:  cfg,
		Request: req,
		Err:     err,
	}
}

// transportCode maps a transport failure onto a stable low-level code.
func transportCode(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return ErrCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrConnAborted
	case errors.Is(err, syscall.ECONNREFUSED):
		return ErrConnRefused
	case errors.Is(err, syscall.ECONNRESET):
		return ErrConnReset
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ErrTimedOut
		}
		return ErrNotFound
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimedOut
	}
	return ErrNetwork
}

// transportMessage strips the "Get <url>:" prefix url.Error adds.
func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}
