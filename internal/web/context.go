package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/surveybase/internal/core"
)

// withRunMetadata detaches the run from the request lifetime and tags it
// with what started it and from where. A client that disconnects mid-run
// leaves the run to finish under the service's own timeout.
func withRunMetadata(r *http.Request, trigger string) context.Context {
	ctx := context.WithoutCancel(r.Context())
	ctx = core.ContextWithTrigger(ctx, trigger)
	return core.ContextWithIPAddress(ctx, clientIP(r))
}
