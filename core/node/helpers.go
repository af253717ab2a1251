package node

import (
	"context"

	"go.uber.org/fx"
)

// MetricsCtx is the context carrying the metrics scope of the node.
type MetricsCtx context.Context

// lifecycleCtx creates a context which will be cancelled when lifecycle stops
//
// This is a hack which we need because most of our services use contexts in a
// wrong way
func lifecycleCtx(mctx MetricsCtx, lc fx.Lifecycle) context.Context {
	ctx, cancel := context.WithCancel(mctx)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
	return ctx
}

// closeOnStop closes c when the lifecycle stops.
func closeOnStop(lc fx.Lifecycle, c interface{ Close() error }) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
}
