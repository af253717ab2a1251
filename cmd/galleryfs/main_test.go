package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/galleryfs/galleryfs/config"
	corecmds "github.com/galleryfs/galleryfs/core/commands"

	cmds "github.com/ipfs/go-ipfs-cmds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRepoPath(t *testing.T) {
	t.Setenv(config.EnvDir, "/tmp/from-env")

	req := &cmds.Request{Options: cmds.OptMap{}}
	p, err := getRepoPath(req)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", p)

	req.Options[corecmds.RepoDirOption] = "/tmp/from-flag"
	p, err = getRepoPath(req)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-flag", p)
}

func TestMakeExecutorNeedsRepo(t *testing.T) {
	env, err := buildEnv(context.Background(), &cmds.Request{Options: cmds.OptMap{
		corecmds.RepoDirOption: filepath.Join(t.TempDir(), "missing"),
	}})
	require.NoError(t, err)

	_, err = makeExecutor(&cmds.Request{Root: corecmds.Root, Command: corecmds.IDCmd}, env)
	require.ErrorIs(t, err, corecmds.ErrNotInitialized)

	_, err = makeExecutor(&cmds.Request{Root: corecmds.Root, Command: corecmds.VersionCmd}, env)
	require.NoError(t, err)
}
