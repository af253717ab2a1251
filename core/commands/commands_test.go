package commands

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	oldcmds "github.com/galleryfs/galleryfs/commands"
	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/core"
	"github.com/galleryfs/galleryfs/repo"

	files "github.com/ipfs/boxo/files"
	cmds "github.com/ipfs/go-ipfs-cmds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectPaths(prefix string, cmd *cmds.Command, out map[string]struct{}) {
	for name, sub := range cmd.Subcommands {
		path := prefix + " " + name
		out[path] = struct{}{}
		collectPaths(path, sub, out)
	}
}

func TestCommands(t *testing.T) {
	list := []string{
		"galleryfs files",
		"galleryfs files ls",
		"galleryfs files mkdir",
		"galleryfs files read",
		"galleryfs files rm",
		"galleryfs files stat",
		"galleryfs files write",
		"galleryfs id",
		"galleryfs init",
		"galleryfs migrate",
		"galleryfs onboarding",
		"galleryfs onboarding set",
		"galleryfs onboarding status",
		"galleryfs stats",
		"galleryfs version",
	}

	cmdSet := make(map[string]struct{})
	collectPaths("galleryfs", Root, cmdSet)

	var got []string
	for p := range cmdSet {
		got = append(got, p)
	}
	sort.Strings(got)
	assert.Equal(t, list, got)
}

func TestTaglines(t *testing.T) {
	var check func(path string, cmd *cmds.Command)
	check = func(path string, cmd *cmds.Command) {
		assert.NotEmpty(t, cmd.Helptext.Tagline, path)
		for name, sub := range cmd.Subcommands {
			check(path+" "+name, sub)
		}
	}
	check("galleryfs", Root)
}

func TestDoesNotUseRepo(t *testing.T) {
	v, ok := GetDoesNotUseRepo(InitCmd.Extra)
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = GetDoesNotUseRepo(MigrateCmd.Extra)
	assert.False(t, ok)
}

// testEnv builds a command context around an in-memory repo.
func testEnv(t *testing.T) (*oldcmds.Context, *repo.Mock) {
	cfg, err := config.Init(io.Discard, config.Ed25519Key)
	require.NoError(t, err)
	r := repo.NewMock(*cfg)

	env := &oldcmds.Context{
		ConstructNode: func() (*core.Node, error) {
			return core.NewNode(context.Background(), &core.BuildCfg{Repo: r})
		},
	}
	t.Cleanup(env.Close)
	return env, r
}

func execute(t *testing.T, env *oldcmds.Context, path []string, args []string, f files.Directory) (interface{}, error) {
	req, err := cmds.NewRequest(context.Background(), path, cmds.OptMap{}, args, f, Root)
	require.NoError(t, err)

	re, res := cmds.NewChanResponsePair(req)
	errCh := make(chan error, 1)
	go func() {
		err := cmds.NewExecutor(Root).Execute(req, re, env)
		if err != nil {
			// argument errors are returned before the emitter is closed
			_ = re.CloseWithError(err)
		}
		errCh <- err
	}()

	var out interface{}
	for {
		v, err := res.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if execErr := <-errCh; execErr != nil {
				return nil, execErr
			}
			return nil, err
		}
		out = v
	}
	return out, <-errCh
}

func TestIdCommand(t *testing.T) {
	env, _ := testEnv(t)
	out, err := execute(t, env, []string{"id"}, nil, nil)
	require.NoError(t, err)

	id := out.(*IdOutput)
	assert.True(t, strings.HasPrefix(id.Account, "did:key:z6Mk"))
	assert.Equal(t, config.FilesystemSynced, id.Mode)
	assert.True(t, strings.HasPrefix(id.AgentVersion, "galleryfs/"))
}

func TestMigrateCommand(t *testing.T) {
	env, r := testEnv(t)

	data := files.NewMapDirectory(map[string]files.Node{
		"data": files.NewBytesFile([]byte("cat")),
	})
	_, err := execute(t, env, []string{"files", "write"}, []string{"/public/gallery/cat.png"}, data)
	require.NoError(t, err)

	_, err = execute(t, env, []string{"onboarding", "set"}, nil, nil)
	require.NoError(t, err)

	out, err := execute(t, env, []string{"migrate"}, nil, nil)
	require.NoError(t, err)
	mig := out.(*MigrateOutput)
	assert.Equal(t, 1, mig.Records)
	assert.EqualValues(t, 3, mig.Bytes)

	cfg, err := r.Config()
	require.NoError(t, err)
	assert.True(t, cfg.Filesystem.LocalOnly())

	out, err = execute(t, env, []string{"onboarding", "status"}, nil, nil)
	require.NoError(t, err)
	assert.True(t, out.(*OnboardingOutput).Viewed)

	out, err = execute(t, env, []string{"files", "stat"}, nil, nil)
	require.NoError(t, err)
	assert.True(t, out.(*filesStatOutput).LocalOnly)
	assert.Equal(t, mig.Root, out.(*filesStatOutput).Root)

	out, err = execute(t, env, []string{"id"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, config.FilesystemLocalOnly, out.(*IdOutput).Mode)

	_, err = execute(t, env, []string{"migrate"}, nil, nil)
	require.ErrorIs(t, err, errAlreadyLocalOnly)
}

func TestFilesLsCommand(t *testing.T) {
	env, _ := testEnv(t)

	_, err := execute(t, env, []string{"files", "mkdir"}, []string{"/private/gallery/2024"}, nil)
	require.NoError(t, err)

	out, err := execute(t, env, []string{"files", "ls"}, []string{"/private/gallery"}, nil)
	require.NoError(t, err)
	ls := out.(*filesLsOutput)
	require.Len(t, ls.Entries, 1)
	assert.Equal(t, "2024", ls.Entries[0].Name)
	assert.Equal(t, "directory", ls.Entries[0].Type)

	_, err = execute(t, env, []string{"files", "ls"}, []string{"/elsewhere/"}, nil)
	require.Error(t, err)
}
