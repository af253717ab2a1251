package core

import (
	"context"
	"io"
	"testing"

	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/filesystem"
	"github.com/galleryfs/galleryfs/gallery"
	"github.com/galleryfs/galleryfs/localfs"
	"github.com/galleryfs/galleryfs/repo"
	ds "github.com/ipfs/go-datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T, mode string) *repo.Mock {
	cfg, err := config.Init(io.Discard, "ed25519")
	require.NoError(t, err)
	cfg.Filesystem.Mode = mode
	return repo.NewMock(*cfg)
}

func TestNewNodeRequiresRepo(t *testing.T) {
	_, err := NewNode(context.Background(), &BuildCfg{})
	require.Error(t, err)
}

func TestSyncedNode(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t, config.FilesystemSynced)

	n, err := NewNode(ctx, &BuildCfg{Repo: r})
	require.NoError(t, err)
	assert.False(t, n.Scope.LocalOnly)
	assert.Contains(t, n.Scope.Account, "did:key:z6Mk")

	p := gallery.Dirs[gallery.Public].Join("a.png")
	require.NoError(t, n.Filesystem().Write(ctx, p, []byte("a")))
	c, err := n.Filesystem().Publish(ctx)
	require.NoError(t, err)

	raw, err := r.D.Get(ctx, ds.NewKey("/local/filesroot"))
	require.NoError(t, err)
	assert.Equal(t, c.String(), string(raw))
	require.NoError(t, n.Close())
}

func TestLocalOnlyNode(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t, config.FilesystemLocalOnly)

	n, err := NewNode(ctx, &BuildCfg{Repo: r})
	require.NoError(t, err)
	defer n.Close()

	assert.True(t, n.Filesystem().Scope().LocalOnly)
	for _, d := range gallery.Dirs {
		ok, err := n.Filesystem().Exists(ctx, d)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, ok, err := localfs.NewDatastoreStorage(r.D, localfs.Namespace).GetItem(ctx, localfs.RootKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNodeMigrate(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t, config.FilesystemSynced)

	n, err := NewNode(ctx, &BuildCfg{Repo: r})
	require.NoError(t, err)
	defer n.Close()

	synced := n.Filesystem()
	p := gallery.AvatarsDir.Join("me.png")
	require.NoError(t, synced.Write(ctx, p, []byte("me")))

	rep, err := n.Migrator.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Records)
	assert.NotEqual(t, synced, n.Filesystem())

	data, err := n.Filesystem().Read(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "me", string(data))

	stored, _, err := localfs.NewDatastoreStorage(r.D, localfs.Namespace).GetItem(ctx, localfs.RootKey)
	require.NoError(t, err)
	assert.Equal(t, rep.Root, stored)
	assert.True(t, filesystem.IsCID(stored))
}
