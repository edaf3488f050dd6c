package scrub

import (
	"encoding/json"

	"github.com/samvad-hq/samvad-http-envelope/pkg/envelope"
)

const maxDepth = 32

// Data returns a ScrubRequestData/ScrubResponseData function that copies
// object-shaped values and masks sensitive keys at any depth.
//
// Structs and raw JSON objects come back as map[string]any. Scalars and
// strings pass through untouched.
func Data(keys ...string) func(any) any {
	set := newKeySet(keys)
	return func(v any) any {
		return redact(v, set, 0)
	}
}

func redact(v any, set keySet, depth int) any {
	if depth > maxDepth {
		return v
	}
	switch t := v.(type) {
	case nil, string, bool, float64, float32, int, int64, int32, json.Number, Page:
		return v
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = redact(item, set, depth+1)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = redact(item, set, depth+1)
		}
		return out
	case []byte:
		if m, ok := envelope.Fields(t); ok {
			return redactMap(m, set, depth)
		}
		var arr []any
		if err := json.Unmarshal(t, &arr); err == nil {
			return redact(arr, set, depth)
		}
		return v
	}

	m, ok := envelope.Fields(v)
	if !ok {
		return v
	}
	return redactMap(m, set, depth)
}

func redactMap(m map[string]any, set keySet, depth int) map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		if set.has(k) {
			out[k] = Redacted
			continue
		}
		out[k] = redact(item, set, depth+1)
	}
	return out
}
