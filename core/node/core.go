package node

import (
	"context"

	"github.com/galleryfs/galleryfs/filesystem"
	"github.com/galleryfs/galleryfs/localfs"
	"github.com/galleryfs/galleryfs/migrate"
	"github.com/galleryfs/galleryfs/session"
	"github.com/ipfs/boxo/blockservice"
	"github.com/ipfs/boxo/blockstore"
	offline "github.com/ipfs/boxo/exchange/offline"
	"github.com/ipfs/boxo/ipld/merkledag"
	"github.com/ipfs/go-datastore"
	format "github.com/ipfs/go-ipld-format"
	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/galleryfs/galleryfs/config"
)

var log = logging.Logger("node")

const (
	// syncedNamespace and syncedKey make up /local/filesroot.
	syncedNamespace = "local"
	syncedKey       = "filesroot"
)

// BlockService creates an offline block service. Blocks never leave the
// repo.
func BlockService(lc fx.Lifecycle, bs blockstore.Blockstore) blockservice.BlockService {
	bsvc := blockservice.New(bs, offline.Exchange(bs))
	closeOnStop(lc, bsvc)
	return bsvc
}

// Dag creates the DAG service the filesystems are stored through.
func Dag(bs blockservice.BlockService) format.DAGService {
	return merkledag.NewDAGService(bs)
}

// LocalOnlyStorage keeps the local-only root reference.
type LocalOnlyStorage localfs.Storage

func NewLocalOnlyStorage(d datastore.Batching) LocalOnlyStorage {
	return localfs.NewDatastoreStorage(d, localfs.Namespace)
}

// Files opens the filesystem selected by Filesystem.Mode: the synced tree
// rooted at /local/filesroot, or the local-only tree.
func Files(mctx MetricsCtx, lc fx.Lifecycle, cfg *config.Config, d datastore.Batching, dag format.DAGService, store LocalOnlyStorage, scope filesystem.Scope) (filesystem.FileSystem, error) {
	ctx := lifecycleCtx(mctx, lc)

	if cfg.Filesystem.LocalOnly() {
		fs, err := localfs.Obtain(ctx, dag, store, scope)
		if err != nil {
			return nil, err
		}
		if err := localfs.Initialize(ctx, fs); err != nil {
			fs.Close()
			return nil, err
		}
		return fs, nil
	}

	synced := localfs.NewDatastoreStorage(d, syncedNamespace)
	return localfs.Locate(ctx, dag, synced, syncedKey, scope)
}

// Session holds the active filesystem. On stop it closes the filesystem it
// started with and the one active at that time.
func Session(lc fx.Lifecycle, fs filesystem.FileSystem) *session.Session {
	sess := session.New(fs)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			err := fs.Close()
			if cur := sess.Filesystem(); cur != nil && cur != fs {
				err = multierr.Append(err, cur.Close())
			}
			return err
		},
	})
	return sess
}

// Migrator moves the active filesystem's gallery into the local-only tree.
// The source is whatever filesystem the session holds when a migration
// runs. The local-only tree is only opened then and is closed with the
// session.
func Migrator(sess *session.Session, dag format.DAGService, store LocalOnlyStorage, scope filesystem.Scope) *migrate.Migrator {
	return &migrate.Migrator{
		Session: sess,
		Open: func(ctx context.Context) (filesystem.FileSystem, error) {
			fs, err := localfs.Obtain(ctx, dag, store, scope)
			if err != nil {
				return nil, err
			}
			log.Debugw("opened local-only filesystem", "account", scope.Account)
			return fs, nil
		},
	}
}
