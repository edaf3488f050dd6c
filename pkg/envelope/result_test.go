package envelope

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResultJSONRendersNulls(t *testing.T) {
	res := Result{
		Code: CodeNetworkFailure,
		Context: &Context{
			Code:  "ECONNREFUSED",
			Error: errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
		},
	}

	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]any{
		"ok":      false,
		"code":    "NETWORK_FAILURE",
		"message": nil,
		"context": map[string]any{
			"status":        nil,
			"code":          "ECONNREFUSED",
			"message":       nil,
			"request_url":   nil,
			"request_data":  nil,
			"response_data": nil,
			"error":         "dial tcp 127.0.0.1:1: connect: connection refused",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestContextExtraFieldsAppearVerbatim(t *testing.T) {
	ctx := (&Context{Status: 404}).
		Set("metadata", map[string]any{"errCode": 3874}).
		Set("status", "shadowed").
		Set("", "ignored")

	if _, ok := ctx.Get("status"); ok {
		t.Fatalf("reserved keys must not be stored as extras")
	}
	if len(ctx.Extra()) != 1 {
		t.Fatalf("expected one extra field, got %v", ctx.Extra())
	}

	raw, err := json.Marshal(ctx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["status"] != float64(404) {
		t.Fatalf("status = %v", got["status"])
	}
	if diff := cmp.Diff(map[string]any{"errCode": float64(3874)}, got["metadata"]); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestExtraReturnsCopy(t *testing.T) {
	ctx := (&Context{}).Set("a", 1)
	ctx.Extra()["a"] = 2
	if v, _ := ctx.Get("a"); v != 1 {
		t.Fatalf("Extra must return a copy, got %v", v)
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindNonClient:  "non_client",
		KindResponse:   "response",
		KindNoResponse: "no_response",
		KindSetup:      "setup",
		Kind(42):       "unknown",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
