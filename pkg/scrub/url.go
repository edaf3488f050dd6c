package scrub

import (
	"net/url"
	"strings"
)

// URL returns a ScrubRequestURL function that masks sensitive query
// parameters and userinfo passwords. Parameter order is preserved and input
// that does not parse is returned unchanged.
func URL(keys ...string) func(string) string {
	set := newKeySet(keys)
	return func(raw string) string {
		if raw == "" {
			return raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return raw
		}

		changed := false
		if u.User != nil {
			if _, hasPassword := u.User.Password(); hasPassword {
				u.User = url.UserPassword(u.User.Username(), Redacted)
				changed = true
			}
		}
		if u.RawQuery != "" {
			if q, masked := maskQuery(u.RawQuery, set); masked {
				u.RawQuery = q
				changed = true
			}
		}
		if !changed {
			return raw
		}
		return u.String()
	}
}

func maskQuery(rawQuery string, set keySet) (string, bool) {
	parts := strings.Split(rawQuery, "&")
	masked := false
	for i, part := range parts {
		name, _, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(name)
		if err != nil {
			key = name
		}
		if set.has(key) {
			parts[i] = name + "=" + Redacted
			masked = true
		}
	}
	return strings.Join(parts, "&"), masked
}
