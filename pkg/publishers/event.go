package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-http-envelope/pkg/envelope"
)

// Event is the payload published downstream for one probe outcome.
type Event struct {
	TargetID   string          `json:"target_id"`
	TargetName string          `json:"target_name"`
	Result     envelope.Result `json:"result"`
	// Changed reports whether the outcome differs from the previous probe.
	Changed    bool      `json:"changed"`
	ObservedAt time.Time `json:"observed_at"`
}

// NewEvent constructs an Event for the given target outcome.
func NewEvent(targetID, targetName string, res envelope.Result, changed bool) Event {
	return Event{
		TargetID:   targetID,
		TargetName: targetName,
		Result:     res,
		Changed:    changed,
		ObservedAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	ok := "false"
	if e.Result.OK {
		ok = "true"
	}
	attrs := map[string]string{
		"target_id": e.TargetID,
		"ok":        ok,
	}
	if e.Result.Code != "" {
		attrs["code"] = e.Result.Code
	}
	return attrs
}
