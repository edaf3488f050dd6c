// Package scrub builds redaction functions for envelope policies.
//
// Scrubbers never mutate their input. Keys are matched case-insensitively and
// an empty key list falls back to DefaultKeys.
package scrub

import "strings"

// Redacted replaces every masked value.
const Redacted = "REDACTED"

// DefaultKeys are the field and query parameter names masked when none are given.
var DefaultKeys = []string{
	"password",
	"passwd",
	"secret",
	"client_secret",
	"token",
	"access_token",
	"refresh_token",
	"id_token",
	"api_key",
	"apikey",
	"authorization",
	"cookie",
	"signature",
}

type keySet map[string]struct{}

func newKeySet(keys []string) keySet {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	set := make(keySet, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

func (s keySet) has(key string) bool {
	_, ok := s[strings.ToLower(key)]
	return ok
}
