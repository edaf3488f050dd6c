package scrub

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-http-envelope/pkg/envelope"
)

// DefaultMaxText caps the text kept from an HTML body.
const DefaultMaxText = 512

// Page is the summary kept in place of an HTML response body.
type Page struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// HTML returns a ScrubResponseData function that replaces HTML bodies with
// their Page summary. Text beyond maxText runes is cut; maxText <= 0 uses
// DefaultMaxText. Non-HTML data passes through.
func HTML(maxText int) func(any) any {
	if maxText <= 0 {
		maxText = DefaultMaxText
	}
	return func(v any) any {
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case []byte:
			s = string(t)
		default:
			return v
		}
		if !looksLikeHTML(s) {
			return v
		}
		page, ok := parsePage(s)
		if !ok {
			return v
		}
		page.Text = truncate(page.Text, maxText)
		return page
	}
}

// HTMLMessage wraps a FindErrorMessage function so HTML error pages report
// their <title>. next nil uses the default message lookup.
func HTMLMessage(next func(any, *envelope.Context) string) func(any, *envelope.Context) string {
	if next == nil {
		next = envelope.DefaultPolicy().FindErrorMessage
	}
	return func(data any, ctx *envelope.Context) string {
		switch t := data.(type) {
		case Page:
			if t.Title != "" {
				return t.Title
			}
		case string:
			if looksLikeHTML(t) {
				if page, ok := parsePage(t); ok && page.Title != "" {
					return page.Title
				}
			}
		}
		return next(data, ctx)
	}
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<head") ||
		strings.Contains(head, "<body")
}

func parsePage(s string) (Page, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return Page{}, false
	}
	doc.Find("script, style, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	text := strings.Join(strings.Fields(body.Text()), " ")
	return Page{Title: title, Text: text}, true
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
