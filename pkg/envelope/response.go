package envelope

import (
	"net/http"

	"github.com/samvad-hq/samvad-http-envelope/pkg/httpclient"
)

// ClassifyResponse decides whether a completed response is a logical success
// and builds its Result. It never fails; a nil response classifies like an
// empty one.
func ClassifyResponse(resp *httpclient.Response, overrides ...Policy) Result {
	return classifyResponse(resp, resolve(overrides))
}

func classifyResponse(resp *httpclient.Response, p Policy) Result {
	var (
		cfg    httpclient.RequestConfig
		data   any
		status int
	)
	if resp != nil {
		cfg = resp.Config
		data = resp.Data
		status = resp.Status
	}
	if status == 0 {
		status = http.StatusOK
	}

	ctx := &Context{
		Status:       status,
		RequestURL:   p.ScrubRequestURL(concatURL(cfg.BaseURL, cfg.URL)),
		RequestData:  p.ScrubRequestData(orNil(cfg.Data)),
		ResponseData: p.ScrubResponseData(orNil(data)),
	}

	ok := p.IsResponseSuccess(data, ctx)
	if !ok && resp != nil {
		ctx.Error = resp
	}

	code := p.FindErrorCode(data, ctx)
	msg := p.FindErrorMessage(data, ctx)
	return Result{
		OK:      ok,
		Code:    code,
		Message: msg,
		Context: p.FindErrorContext(data, ctx),
	}
}

// concatURL joins base and url without inserting a separator.
func concatURL(base, url string) string {
	return base + url
}

// orNil maps falsy values to nil.
func orNil(v any) any {
	if !Truthy(v) {
		return nil
	}
	return v
}
