package scrub

import (
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-http-envelope/pkg/envelope"
)

const errorPage = `<!DOCTYPE html>
<html><head><title>502 Bad Gateway</title><style>body{color:red}</style></head>
<body><h1>Bad Gateway</h1>
<script>track()</script>
<p>The upstream   server
returned an invalid response.</p></body></html>`

func TestHTMLSummarizesPages(t *testing.T) {
	got := HTML(0)(errorPage)
	page, ok := got.(Page)
	if !ok {
		t.Fatalf("expected Page, got %T", got)
	}
	if page.Title != "502 Bad Gateway" {
		t.Fatalf("title = %q", page.Title)
	}
	if page.Text != "Bad Gateway The upstream server returned an invalid response." {
		t.Fatalf("text = %q", page.Text)
	}
}

func TestHTMLTruncatesAndPassesThrough(t *testing.T) {
	page := HTML(3)([]byte(errorPage)).(Page)
	if page.Text != "Bad" {
		t.Fatalf("text = %q", page.Text)
	}

	for _, v := range []any{"plain text", map[string]any{"a": 1}, nil, float64(1)} {
		if got := HTML(0)(v); !sameValue(got, v) {
			t.Fatalf("non-html %v changed to %v", v, got)
		}
	}
}

func sameValue(a, b any) bool {
	if m, ok := a.(map[string]any); ok {
		n, ok := b.(map[string]any)
		return ok && len(m) == len(n)
	}
	return a == b
}

func TestHTMLMessage(t *testing.T) {
	find := HTMLMessage(nil)
	ctx := &envelope.Context{Message: "Request failed with status code 502"}

	if got := find(errorPage, ctx); got != "502 Bad Gateway" {
		t.Fatalf("raw html: got %q", got)
	}
	if got := find(Page{Title: "Down"}, ctx); got != "Down" {
		t.Fatalf("page: got %q", got)
	}
	if got := find(Page{}, ctx); got != ctx.Message {
		t.Fatalf("untitled page: got %q", got)
	}
	if got := find(map[string]any{"message": "json"}, ctx); got != "json" {
		t.Fatalf("json: got %q", got)
	}
}

func TestPolicyEndToEnd(t *testing.T) {
	resp := &envelopeResponse{
		data: errorPage,
		url:  "https://api.example.com/v1/x?token=abc",
	}
	res := envelope.ClassifyResponse(resp.build(), Policy())
	if res.OK {
		t.Fatalf("html error page should not be ok")
	}
	if res.Message != "502 Bad Gateway" {
		t.Fatalf("message = %q", res.Message)
	}
	if !strings.HasSuffix(res.Context.RequestURL, "token=REDACTED") {
		t.Fatalf("request_url = %q", res.Context.RequestURL)
	}
	if _, ok := res.Context.ResponseData.(Page); !ok {
		t.Fatalf("response_data = %T", res.Context.ResponseData)
	}
	if got := res.Context.RequestData.(map[string]any)["password"]; got != Redacted {
		t.Fatalf("request_data password = %v", got)
	}
}
