// Package localfs keeps a filesystem whose root reference lives only in the
// local repository. The root CID is stored under RootKey on every publish
// and read back by Obtain on the next start.
package localfs

import (
	"context"

	"github.com/galleryfs/galleryfs/filesystem"
	"github.com/galleryfs/galleryfs/tracing"
	ipld "github.com/ipfs/go-ipld-format"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("localfs")

const (
	// Namespace is the datastore namespace local-only items are kept in.
	Namespace = "local-only"
	// RootKey is the key the root CID is stored under.
	RootKey = "local-only-fs"
)

// Obtain returns the local-only filesystem, creating and publishing an
// empty one when store holds no usable reference.
func Obtain(ctx context.Context, dag ipld.DAGService, store Storage, scope filesystem.Scope) (*FileSystem, error) {
	scope.LocalOnly = true
	return Locate(ctx, dag, store, RootKey, scope)
}

// Locate is Obtain with an explicit storage key.
func Locate(ctx context.Context, dag ipld.DAGService, store Storage, key string, scope filesystem.Scope) (*FileSystem, error) {
	ctx, span := tracing.Span(ctx, "LocalFS", "Locate")
	defer span.End()

	val, ok, err := store.GetItem(ctx, key)
	if err != nil {
		return nil, err
	}

	if ok {
		if filesystem.IsCID(val) {
			c, err := filesystem.DecodeCID(val)
			if err != nil {
				return nil, err
			}
			fs, err := filesystem.FromCID(ctx, dag, c, scope)
			if err != nil {
				return nil, err
			}
			log.Debugw("loaded root", "key", key, "cid", c)
			return Hook(fs, store, key), nil
		}
		log.Warnw("ignoring malformed root reference", "key", key, "value", val)
	}

	fs, err := filesystem.Empty(ctx, dag, scope)
	if err != nil {
		return nil, err
	}
	hooked := Hook(fs, store, key)
	c, err := hooked.Publish(ctx)
	if err != nil {
		return nil, err
	}
	log.Infow("created root", "key", key, "cid", c)
	return hooked, nil
}
