package commands

import (
	"path/filepath"
	"testing"

	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/repo/fsrepo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "repo")

	out, err := doInit(dir, config.Secp256k1Key, "test,local-only")
	require.NoError(t, err)
	assert.Equal(t, dir, out.Path)
	assert.Contains(t, out.Account, "did:key:zQ3s")
	assert.Contains(t, out.Log, "secp256k1")
	assert.True(t, fsrepo.IsInitialized(dir))

	cfg, err := fsrepo.ConfigAt(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Filesystem.LocalOnly())
	assert.Equal(t, "mem", cfg.Datastore.Spec["type"])

	_, err = doInit(dir, "", "")
	require.ErrorIs(t, err, errRepoExists)
}

func TestDoInitBadProfile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "repo")
	_, err := doInit(dir, "", "nope")
	require.Error(t, err)
	assert.False(t, fsrepo.IsInitialized(dir))
}
