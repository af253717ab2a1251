package gallery

import (
	"context"
	"testing"

	"github.com/galleryfs/galleryfs/filesystem"
	bserv "github.com/ipfs/boxo/blockservice"
	bstore "github.com/ipfs/boxo/blockstore"
	offline "github.com/ipfs/boxo/exchange/offline"
	"github.com/ipfs/boxo/ipld/merkledag"
	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/ipfs/go-test/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS(t *testing.T) *filesystem.FS {
	db := dssync.MutexWrap(ds.NewMapDatastore())
	bs := bstore.NewBlockstore(db)
	dag := merkledag.NewDAGService(bserv.New(bs, offline.Exchange(bs)))
	fs, err := filesystem.Empty(context.Background(), dag, filesystem.Scope{})
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })
	return fs
}

func TestWellKnownPaths(t *testing.T) {
	assert.Equal(t, "/public/gallery/", Dirs[Public].String())
	assert.Equal(t, "/private/gallery/", Dirs[Private].String())
	assert.Equal(t, "/private/settings/", AccountSettingsDir.String())
	assert.Equal(t, "/private/settings/avatars/", AvatarsDir.String())
}

func TestExportEmpty(t *testing.T) {
	e := &Exporter{FS: newFS(t)}
	imgs, err := e.Images(context.Background())
	require.NoError(t, err)
	assert.Empty(t, imgs.Public)
	assert.Empty(t, imgs.Private)

	avatars, err := e.Avatars(context.Background())
	require.NoError(t, err)
	assert.Empty(t, avatars)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	fs := newFS(t)

	pub2 := random.Bytes(2048)
	pub1 := random.Bytes(1024)
	priv := random.Bytes(100)
	avatar := random.Bytes(10)
	require.NoError(t, fs.Write(ctx, Dirs[Public].Join("b.png"), pub2))
	require.NoError(t, fs.Write(ctx, Dirs[Public].Join("a.png"), pub1))
	require.NoError(t, fs.Write(ctx, Dirs[Private].Join("p.jpg"), priv))
	require.NoError(t, fs.Mkdir(ctx, Dirs[Private].JoinDir("nested")))
	require.NoError(t, fs.Write(ctx, AvatarsDir.Join("me.png"), avatar))

	e := &Exporter{FS: fs}
	imgs, err := e.Images(ctx)
	require.NoError(t, err)
	require.Len(t, imgs.Public, 2)
	assert.Equal(t, "a.png", imgs.Public[0].Path.Name())
	assert.Equal(t, pub1, imgs.Public[0].Data)
	assert.Equal(t, pub2, imgs.Public[1].Data)
	require.Len(t, imgs.Private, 1)
	assert.True(t, imgs.Private[0].Path.Equal(filesystem.File("private", "gallery", "p.jpg")))

	avatars, err := e.Avatars(ctx)
	require.NoError(t, err)
	require.Len(t, avatars, 1)
	assert.Equal(t, avatar, avatars[0].Data)
}
