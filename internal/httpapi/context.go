package httpapi

import (
	"context"
	"errors"
)

// serverBaseCtx ends when the server shuts down. Defaults to Background.
var serverBaseCtx = context.Background()

// errShuttingDown is the cancel cause of request contexts ended by shutdown.
var errShuttingDown = errors.New("server shutting down")

// SetBaseContext sets the process-level context; nil restores Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context from req that also ends once base does, so a
// request waiting for the in-flight slot gives up on shutdown. Request values
// survive. cancel must be called when the handler returns.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(req)
	stop := context.AfterFunc(base, func() { cancel(errShuttingDown) })
	return ctx, func() {
		stop()
		cancel(nil)
	}
}
