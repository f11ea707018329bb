// Package log provides slog handlers.
package log

import (
	"context"
	"log/slog"

	"github.com/dhis2-sre/campus-events/internal/middleware"
	"github.com/dhis2-sre/campus-events/pkg/model"
)

// ContextHandler adds the correlation id and the authenticated user found in the [context.Context]
// to every [slog.Record]. The attribute keys are the ones the Gin [middleware.RequestLogger] uses so
// a request log line and the log lines written while serving it can be matched up. Notification
// messages carry the correlation id of the request that queued them, so consumer logs match up too.
// Either value may be missing, for example in the reminder job.
type ContextHandler struct {
	slog.Handler
}

func New(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		Handler: handler,
	}
}

func (rh *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return rh.Handler.Enabled(ctx, level)
}

func (rh *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := middleware.GetCorrelationID(ctx); ok {
		r.AddAttrs(slog.String(middleware.RequestLoggerKeyCorrelationID, id))
	}

	if user, ok := model.GetUserFromContext(ctx); ok {
		r.AddAttrs(slog.Group(middleware.RequestLoggerKeyUser,
			slog.Uint64("id", uint64(user.ID)),
			slog.String("role", string(user.Role())),
		))
	}

	return rh.Handler.Handle(ctx, r)
}

func (rh *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return New(rh.Handler.WithAttrs(attrs))
}

func (rh *ContextHandler) WithGroup(name string) slog.Handler {
	return New(rh.Handler.WithGroup(name))
}
