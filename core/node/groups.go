package node

import (
	"context"

	"github.com/galleryfs/galleryfs/repo"
	"go.uber.org/fx"
)

// BuildCfg configures the node graph.
type BuildCfg struct {
	// Repo is the repository to build the node on. Required.
	Repo repo.Repo
}

func (cfg *BuildCfg) options(ctx context.Context) fx.Option {
	return fx.Options(
		fx.Provide(func(lc fx.Lifecycle) repo.Repo {
			closeOnStop(lc, cfg.Repo)
			return cfg.Repo
		}),
		fx.Provide(func() MetricsCtx { return MetricsCtx(ctx) }),
	)
}

// Storage groups units which setup datastore based persistence and blockstore layers
var Storage = fx.Options(
	fx.Provide(RepoConfig),
	fx.Provide(Datastore),
	fx.Provide(Blockstore),
)

// Identity groups units providing cryptographic identity
var Identity = fx.Options(
	fx.Provide(PrivateKey),
	fx.Provide(PeerID),
	fx.Provide(Scope),
)

// Core groups the DAG and filesystem units
var Core = fx.Options(
	fx.Provide(BlockService),
	fx.Provide(Dag),
	fx.Provide(NewLocalOnlyStorage),
	fx.Provide(Files),
	fx.Provide(Session),
	fx.Provide(Migrator),
)

// Galleryfs builds a group of fx Options based on the passed BuildCfg
func Galleryfs(ctx context.Context, cfg *BuildCfg) fx.Option {
	if cfg == nil {
		cfg = new(BuildCfg)
	}

	return fx.Options(
		cfg.options(ctx),

		Storage,
		Identity,
		Core,
	)
}
