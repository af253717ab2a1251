package localfs

import (
	"context"

	"github.com/galleryfs/galleryfs/filesystem"
	"github.com/galleryfs/galleryfs/tracing"
	"github.com/ipfs/go-cid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FileSystem is a filesystem whose every publish also records the new root
// in Storage before returning.
type FileSystem struct {
	filesystem.FileSystem

	store Storage
	key   string
}

// Hook wraps fs so that Publish persists the root CID under key.
func Hook(fs filesystem.FileSystem, store Storage, key string) *FileSystem {
	return &FileSystem{FileSystem: fs, store: store, key: key}
}

// Publish flushes the tree and stores the encoded root CID. A storage
// failure fails the publish.
func (fs *FileSystem) Publish(ctx context.Context) (cid.Cid, error) {
	ctx, span := tracing.Span(ctx, "LocalFS", "Publish", trace.WithAttributes(attribute.String("key", fs.key)))
	defer span.End()

	c, err := fs.FileSystem.Publish(ctx)
	if err != nil {
		span.RecordError(err)
		return cid.Undef, err
	}
	if err := fs.store.SetItem(ctx, fs.key, filesystem.EncodeCID(c)); err != nil {
		span.RecordError(err)
		return cid.Undef, err
	}
	log.Debugw("published root", "key", fs.key, "cid", c, "localOnly", fs.Scope().LocalOnly)
	return c, nil
}
