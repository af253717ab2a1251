package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/galleryfs/galleryfs/core/node"

	"github.com/ipfs/go-metrics-interface"
	"go.uber.org/fx"
)

// from https://stackoverflow.com/a/59348871
type valueContext struct {
	context.Context
}

func (valueContext) Deadline() (deadline time.Time, ok bool) { return }
func (valueContext) Done() <-chan struct{}                   { return nil }
func (valueContext) Err() error                              { return nil }

type BuildCfg = node.BuildCfg

// NewNode constructs and returns a Node using the given cfg.
func NewNode(ctx context.Context, cfg *BuildCfg) (*Node, error) {
	if cfg == nil || cfg.Repo == nil {
		return nil, errors.New("cannot build a node without a repo")
	}

	// save this context as the "lifetime" ctx.
	lctx := ctx

	// derive a new context that ignores cancellations from the lifetime ctx.
	ctx, cancel := context.WithCancel(valueContext{ctx})

	// add a metrics scope.
	ctx = metrics.CtxScope(ctx, "galleryfs")

	n := &Node{
		ctx: ctx,
	}

	app := fx.New(
		node.Galleryfs(ctx, cfg),

		fx.NopLogger,
		fx.Extract(n),
	)

	var once sync.Once
	var stopErr error
	n.stop = func() error {
		once.Do(func() {
			stopErr = app.Stop(context.Background())
			if stopErr != nil {
				log.Error("failure on stop: ", stopErr)
			}
			// Cancel the context _after_ the app has stopped.
			cancel()
		})
		return stopErr
	}

	go func() {
		// Shut down the application if the lifetime context is canceled.
		select {
		case <-lctx.Done():
			err := n.stop()
			if err != nil {
				log.Error("failure on stop: ", err)
			}
		case <-ctx.Done():
		}
	}()

	if app.Err() != nil {
		cancel()
		return nil, app.Err()
	}

	if err := app.Start(ctx); err != nil {
		cancel()
		return nil, err
	}

	log.Debugw("node started", "peer", n.Identity, "account", n.Scope.Account, "local-only", n.Scope.LocalOnly)
	return n, nil
}
