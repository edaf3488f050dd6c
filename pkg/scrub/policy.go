package scrub

import "github.com/samvad-hq/samvad-http-envelope/pkg/envelope"

// Policy bundles the URL, data and HTML scrubbers with the HTML-aware message
// lookup. Merge it over other policies to add redaction.
func Policy(keys ...string) envelope.Policy {
	data := Data(keys...)
	html := HTML(DefaultMaxText)
	return envelope.Policy{
		FindErrorMessage:  HTMLMessage(nil),
		ScrubRequestURL:   URL(keys...),
		ScrubRequestData:  data,
		ScrubResponseData: func(v any) any { return html(data(v)) },
	}
}
