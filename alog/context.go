package alog

import (
	"context"
	"log/slog"

	ctx2 "github.com/racetrack-labs/paddock/ctx"
)

const ctxAttrs ctx2.CTXKey = "paddock.log.attrs"

// AddAttr stores attr in ctx.
// Every record logged with the returned context carries it, e.g. a request id.
func AddAttr(ctx context.Context, attr slog.Attr) context.Context {
	attrs, _ := FromContext(ctx)

	next := make([]slog.Attr, 0, len(attrs)+1)
	next = append(next, attrs...)
	next = append(next, attr)

	return context.WithValue(ctx, ctxAttrs, next)
}

// FromContext returns all attributes added via AddAttr.
func FromContext(ctx context.Context) ([]slog.Attr, bool) {
	attrs, ok := ctx.Value(ctxAttrs).([]slog.Attr)

	return attrs, ok
}
