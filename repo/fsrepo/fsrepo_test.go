package fsrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/galleryfs/galleryfs/config"

	ds "github.com/ipfs/go-datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(spec map[string]interface{}) *config.Config {
	return &config.Config{
		Identity:   config.Identity{PeerID: "fake"},
		Datastore:  config.Datastore{Spec: spec},
		Filesystem: config.Filesystem{Mode: config.FilesystemSynced},
	}
}

func memSpec() map[string]interface{} {
	return map[string]interface{}{"type": "mem"}
}

func TestInitIdempotent(t *testing.T) {
	path := t.TempDir()
	require.False(t, IsInitialized(path))

	require.NoError(t, Init(path, testConfig(memSpec())))
	require.True(t, IsInitialized(path))

	// a second init keeps the existing config
	other := testConfig(memSpec())
	other.Identity.PeerID = "other"
	require.NoError(t, Init(path, other))

	conf, err := ConfigAt(path)
	require.NoError(t, err)
	assert.Equal(t, "fake", conf.Identity.PeerID)
}

func TestOpenUninitialized(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrNoRepo)
}

func TestCannotOpenTwice(t *testing.T) {
	path := t.TempDir()
	require.NoError(t, Init(path, testConfig(memSpec())))

	r, err := Open(path)
	require.NoError(t, err)

	_, err = Open(path)
	require.Error(t, err, "repo lock must be held while open")
	require.Error(t, Remove(path), "should not be able to remove while open")

	require.NoError(t, r.Close())
	require.ErrorIs(t, r.Close(), ErrClosed)

	r, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, Remove(path))
}

func TestSetConfigPersists(t *testing.T) {
	path := t.TempDir()
	require.NoError(t, Init(path, testConfig(memSpec())))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	conf, err := r.Config()
	require.NoError(t, err)
	updated, err := conf.Clone()
	require.NoError(t, err)
	updated.Filesystem.Mode = config.FilesystemLocalOnly
	require.NoError(t, r.SetConfig(updated))

	onDisk, err := ConfigAt(path)
	require.NoError(t, err)
	assert.True(t, onDisk.Filesystem.LocalOnly())
}

func TestVersionMismatch(t *testing.T) {
	path := t.TempDir()
	require.NoError(t, Init(path, testConfig(memSpec())))
	require.NoError(t, writeVersion(path, RepoVersion+1))

	_, err := Open(path)
	require.Error(t, err)

	require.NoError(t, writeVersion(path, 0))
	_, err = Open(path)
	require.ErrorIs(t, err, ErrNeedMigration)
}

func TestDefaultSpecPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir()
	require.NoError(t, Init(path, testConfig(config.DefaultDatastoreConfig().Spec)))

	r, err := Open(path)
	require.NoError(t, err)
	key := ds.NewKey("/local-only/local-only-fs")
	require.NoError(t, r.Datastore().Put(ctx, key, []byte("bafy")))
	require.NoError(t, r.Close())

	_, err = os.Stat(filepath.Join(path, "blocks"))
	require.NoError(t, err, "flatfs mount should live under blocks/")

	r, err = Open(path)
	require.NoError(t, err)
	defer r.Close()
	v, err := r.Datastore().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "bafy", string(v))
}

func TestConstructDatastore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	specs := map[string]map[string]interface{}{
		"mem": memSpec(),
		"levelds": {
			"type":        "levelds",
			"path":        "ldb",
			"compression": "snappy",
		},
		"flatfs": {
			"type":      "flatfs",
			"path":      "flat",
			"sync":      false,
			"shardFunc": "/repo/flatfs/shard/v1/next-to-last/2",
		},
		"measure": {
			"type":   "measure",
			"prefix": "test.datastore",
			"child":  memSpec(),
		},
		"log": {
			"type":  "log",
			"name":  "test",
			"child": memSpec(),
		},
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			d, err := constructDatastore(dir, spec)
			require.NoError(t, err)
			defer d.Close()

			// flatfs only accepts keys that look like block keys
			key := ds.NewKey("/CIQKEY")
			require.NoError(t, d.Put(ctx, key, []byte("v")))
			has, err := d.Has(ctx, key)
			require.NoError(t, err)
			require.True(t, has)
		})
	}
}

func TestConstructDatastoreErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := constructDatastore(dir, map[string]interface{}{"type": "nope"})
	require.Error(t, err)

	_, err = constructDatastore(dir, map[string]interface{}{"type": "levelds"})
	require.Error(t, err, "path is required")

	_, err = constructDatastore(dir, map[string]interface{}{
		"type":        "levelds",
		"path":        "ldb",
		"compression": "zstd-ish",
	})
	require.Error(t, err)

	_, err = constructDatastore(dir, map[string]interface{}{
		"type":   "mount",
		"mounts": []interface{}{map[string]interface{}{"type": "mem"}},
	})
	require.Error(t, err, "mountpoint is required")
}

func TestMemTableSize(t *testing.T) {
	assert.EqualValues(t, 4<<20, memTableSize(0))
	assert.EqualValues(t, 8<<20, memTableSize(256<<20))
	assert.EqualValues(t, 64<<20, memTableSize(64<<30))
}
