package envelope

import "github.com/samvad-hq/samvad-http-envelope/pkg/httpclient"

// Logger is the logging surface the Normalizer relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
}

type nopLogger struct{}

func (nopLogger) DebugObj(string, string, interface{}) {}

// Normalizer classifies outcomes with a policy merged once at construction.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	policy Policy
	log    Logger
}

// New builds a Normalizer from the default policy overlaid with p.
func New(p Policy, log Logger) *Normalizer {
	if log == nil {
		log = nopLogger{}
	}
	return &Normalizer{policy: defaultPolicy.Merge(p), log: log}
}

// Policy returns the merged policy.
func (n *Normalizer) Policy() Policy { return n.policy }

// Response classifies a completed response.
func (n *Normalizer) Response(resp *httpclient.Response) Result {
	res := classifyResponse(resp, n.policy)
	n.log.DebugObj("http response classified", "envelope", summary(res, "response"))
	return res
}

// Error classifies a client error.
func (n *Normalizer) Error(err error) (Result, error) {
	kind, _ := Classify(err)
	res, rerr := classifyError(err, n.policy)
	if rerr != nil {
		n.log.DebugObj("non-client error passed through", "envelope", map[string]any{
			"kind":  kind.String(),
			"error": rerr.Error(),
		})
		return res, rerr
	}
	n.log.DebugObj("http error classified", "envelope", summary(res, kind.String()))
	return res, nil
}

// Outcome classifies the (response, error) pair returned by a client call.
func (n *Normalizer) Outcome(resp *httpclient.Response, err error) (Result, error) {
	if err != nil {
		return n.Error(err)
	}
	return n.Response(resp), nil
}

func summary(res Result, kind string) map[string]any {
	out := map[string]any{
		"kind": kind,
		"ok":   res.OK,
		"code": res.Code,
	}
	if res.Context != nil {
		out["status"] = res.Context.Status
		out["request_url"] = res.Context.RequestURL
	}
	return out
}
