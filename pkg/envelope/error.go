package envelope

import (
	"errors"

	"github.com/samvad-hq/samvad-http-envelope/pkg/httpclient"
)

// Kind is the shape of a classified error.
type Kind int

const (
	// KindNonClient is a nil error or one without a ClientError in its chain.
	KindNonClient Kind = iota
	// KindResponse is a ClientError carrying a server response.
	KindResponse
	// KindNoResponse is a ClientError for a sent request that got no response.
	KindNoResponse
	// KindSetup is a ClientError raised before the request was sent.
	KindSetup
)

func (k Kind) String() string {
	switch k {
	case KindNonClient:
		return "non_client"
	case KindResponse:
		return "response"
	case KindNoResponse:
		return "no_response"
	case KindSetup:
		return "setup"
	default:
		return "unknown"
	}
}

// Classify sorts err into its Kind. Response takes precedence over Request.
func Classify(err error) (Kind, *httpclient.ClientError) {
	cerr, ok := httpclient.AsClientError(err)
	if !ok {
		return KindNonClient, nil
	}
	switch {
	case cerr.Response != nil:
		return KindResponse, cerr
	case cerr.Request != nil:
		return KindNoResponse, cerr
	default:
		return KindSetup, cerr
	}
}

// ClassifyError builds the Result for an error returned by an HTTP client.
//
// The returned error is nil unless the policy sets ThrowOnNonClient and err
// is a non-nil, non-client error, in which case err itself is returned.
func ClassifyError(err error, overrides ...Policy) (Result, error) {
	return classifyError(err, resolve(overrides))
}

func classifyError(err error, p Policy) (Result, error) {
	if isNilClientError(err) {
		err = nil
	}
	kind, cerr := Classify(err)
	if kind == KindNonClient {
		// A nil error has nothing to pass back, so it is always absorbed.
		if p.ThrowOnNonClient && err != nil {
			return Result{}, err
		}
		return nonClientResult(err), nil
	}

	info := cerr.Info()
	ctx := &Context{
		Code:    info.Code,
		Message: info.Message,
		Error:   err,
	}
	if info.Config.BaseURL != "" {
		ctx.RequestURL = p.ScrubRequestURL(info.Config.BaseURL)
	}
	if info.Config.Data != nil {
		ctx.RequestData = p.ScrubRequestData(info.Config.Data)
	}

	switch kind {
	case KindResponse:
		resp := cerr.Response
		ctx.Status = resp.Status
		if resp.Config.URL != "" {
			// The response-level URL wins over the base-only reconstruction.
			if info.Config.BaseURL != "" {
				ctx.RequestURL = p.ScrubRequestURL(concatURL(info.Config.BaseURL, resp.Config.URL))
			} else {
				ctx.RequestURL = p.ScrubRequestURL(resp.Config.URL)
			}
		}
		if resp.Data != nil {
			ctx.ResponseData = p.ScrubResponseData(resp.Data)
		}
		code := p.FindErrorCode(ctx.ResponseData, ctx)
		msg := p.FindErrorMessage(ctx.ResponseData, ctx)
		return Result{
			Code:    code,
			Message: msg,
			Context: p.FindErrorContext(ctx.ResponseData, ctx),
		}, nil

	case KindNoResponse:
		return Result{Code: CodeNetworkFailure, Message: ctx.Message, Context: ctx}, nil

	default:
		return Result{Code: CodeUnknown, Message: cerr.Message, Context: ctx}, nil
	}
}

// isNilClientError reports a nil *httpclient.ClientError stored in a non-nil error.
func isNilClientError(err error) bool {
	cerr, ok := err.(*httpclient.ClientError)
	return ok && cerr == nil
}

type codedError interface {
	ErrorCode() string
}

type coder interface {
	Code() string
}

func nonClientResult(err error) Result {
	ctx := &Context{Error: err}
	if err != nil {
		ctx.Message = err.Error()
		ctx.Code = errorCode(err)
	}
	return Result{
		Code:    CodeNonClient,
		Message: ctx.Message,
		Context: ctx,
	}
}

// errorCode extracts a code from errors that expose one.
func errorCode(err error) string {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.ErrorCode()
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}
