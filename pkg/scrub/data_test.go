package scrub

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDataMasksNestedKeys(t *testing.T) {
	in := map[string]any{
		"user":     "bob",
		"Password": "hunter2",
		"profile": map[string]any{
			"token": "abc",
			"tags":  []any{"a", map[string]any{"secret": 1}},
		},
	}
	got := Data()(in)

	want := map[string]any{
		"user":     "bob",
		"Password": Redacted,
		"profile": map[string]any{
			"token": Redacted,
			"tags":  []any{"a", map[string]any{"secret": Redacted}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if in["Password"] != "hunter2" {
		t.Fatalf("input was mutated")
	}
	if in["profile"].(map[string]any)["token"] != "abc" {
		t.Fatalf("nested input was mutated")
	}
}

func TestDataShapes(t *testing.T) {
	type login struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}
	scrub := Data()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "string", in: "token=abc", want: "token=abc"},
		{name: "number", in: float64(3), want: float64(3)},
		{name: "struct", in: login{User: "bob", Password: "x"}, want: map[string]any{"user": "bob", "password": Redacted}},
		{name: "string map", in: map[string]string{"api_key": "k", "q": "v"}, want: map[string]any{"api_key": Redacted, "q": "v"}},
		{name: "json object", in: []byte(`{"secret":"s","n":1}`), want: map[string]any{"secret": Redacted, "n": float64(1)}},
		{name: "json array", in: []byte(`[{"token":"t"}]`), want: []any{map[string]any{"token": Redacted}}},
		{name: "opaque bytes", in: []byte("plain"), want: []byte("plain")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, scrub(tt.in)); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
