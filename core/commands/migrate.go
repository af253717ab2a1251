package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/core/commands/cmdenv"

	humanize "github.com/dustin/go-humanize"
	cmds "github.com/ipfs/go-ipfs-cmds"
)

var errAlreadyLocalOnly = errors.New("the active filesystem is already local-only")

type MigrateOutput struct {
	Records int
	Bytes   int64
	Root    string
}

var MigrateCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Move the gallery into the local-only filesystem.",
		ShortDescription: `
Copies the public and private gallery images, the account avatars and the
get-started flag from the synced filesystem into the local-only filesystem,
then switches the repo to local-only mode.

Files already present in the local-only filesystem under the same paths are
replaced. Running the command again after a failure is safe.
`,
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}
		if fs := n.Filesystem(); fs != nil && fs.Scope().LocalOnly {
			return errAlreadyLocalOnly
		}

		rep, err := n.Migrator.Migrate(req.Context)
		if err != nil {
			return err
		}

		cfg, err := n.Repo.Config()
		if err != nil {
			return err
		}
		cfg.Filesystem.Mode = config.FilesystemLocalOnly
		if err := n.Repo.SetConfig(cfg); err != nil {
			return fmt.Errorf("migration finished but the mode could not be saved: %w", err)
		}

		return cmds.EmitOnce(res, &MigrateOutput{
			Records: rep.Records,
			Bytes:   rep.Bytes,
			Root:    rep.Root,
		})
	},
	Type: MigrateOutput{},
	Encoders: cmds.EncoderMap{
		cmds.Text: cmds.MakeTypedEncoder(func(req *cmds.Request, w io.Writer, out *MigrateOutput) error {
			_, err := fmt.Fprintf(w, "migrated %d files (%s)\nlocal-only root: %s\n",
				out.Records, humanize.Bytes(uint64(out.Bytes)), out.Root)
			return err
		}),
	},
}
