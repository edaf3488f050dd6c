package scrub

import "github.com/samvad-hq/samvad-http-envelope/pkg/httpclient"

type envelopeResponse struct {
	data any
	url  string
}

func (r envelopeResponse) build() *httpclient.Response {
	return &httpclient.Response{
		Status: 502,
		Data:   r.data,
		Config: httpclient.RequestConfig{
			URL:  r.url,
			Data: map[string]any{"user": "bob", "password": "hunter2"},
		},
	}
}
