// Package envelope normalizes HTTP client outcomes into one Result shape.
//
// Every call through an httpclient.Client ends in one of two places: a
// *httpclient.Response, or an error. ClassifyResponse and ClassifyError turn
// either into a Result carrying ok, code, message, and a diagnostic Context,
// so callers never branch on what kind of failure happened.
//
// Errors are sorted into four kinds, checked in this order:
//
//	KindNonClient   the error is nil or carries no *httpclient.ClientError
//	KindResponse    the server answered with a rejected status
//	KindNoResponse  the request was sent but nothing came back
//	KindSetup       the request never left the process
//
// How codes and messages are derived from a response body is controlled by a
// Policy. Callers override individual functions; the rest keep their defaults.
//
//	res, err := envelope.ClassifyError(err, envelope.Policy{
//	    FindErrorCode: func(data any, ctx *envelope.Context) string {
//	        if v, ok := envelope.Field(data, "metadata", "errCode"); ok {
//	            return "ERR_" + envelope.String(v)
//	        }
//	        return envelope.StatusCode(ctx.Status)
//	    },
//	})
//
// Classification is pure: no I/O, no shared mutable state. The default
// policy is read-only after package initialization.
package envelope
