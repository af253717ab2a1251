package fsutil_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/galleryfs/galleryfs/misc/fsutil"
	"github.com/stretchr/testify/require"
)

func TestDirWritableCreatesMissingDir(t *testing.T) {
	require.Error(t, fsutil.DirWritable(""))
	require.Error(t, fsutil.DirWritable("~nosuchuser/repo"))

	repoDir := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, fsutil.DirWritable(repoDir))

	fi, err := os.Stat(repoDir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	// second call probes with a temp file and cleans it up
	require.NoError(t, fsutil.DirWritable(repoDir))
	entries, err := os.ReadDir(repoDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDirWritableReadOnly(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	roDir := filepath.Join(t.TempDir(), "readonly")
	require.NoError(t, os.Mkdir(roDir, 0o500))
	require.ErrorIs(t, fsutil.DirWritable(roDir), fs.ErrPermission)
	require.ErrorIs(t, fsutil.DirWritable(filepath.Join(roDir, "child")), fs.ErrPermission)
}

func TestDirWritableRejectsFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(name, nil, 0o600))
	require.Error(t, fsutil.DirWritable(name))
}

func TestFileExists(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config")
	require.False(t, fsutil.FileExists(name))
	require.NoError(t, os.WriteFile(name, []byte("{}"), 0o600))
	require.True(t, fsutil.FileExists(name))
}

func TestExpandHome(t *testing.T) {
	dir, err := fsutil.ExpandHome("")
	require.NoError(t, err)
	require.Equal(t, "", dir)

	rel := filepath.Join("gallery", "repo")
	dir, err = fsutil.ExpandHome(rel)
	require.NoError(t, err)
	require.Equal(t, rel, dir)

	homeEnv := "HOME"
	if runtime.GOOS == "windows" {
		homeEnv = "USERPROFILE"
	}
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv(homeEnv, home)

	dir, err = fsutil.ExpandHome(filepath.Join("~", ".galleryfs"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".galleryfs"), dir)
}
