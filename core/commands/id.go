package commands

import (
	"fmt"
	"io"

	version "github.com/galleryfs/galleryfs"
	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/core/commands/cmdenv"

	cmds "github.com/ipfs/go-ipfs-cmds"
)

type IdOutput struct {
	ID           string
	Account      string
	Mode         string
	AgentVersion string
}

var IDCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Show the account identity.",
		ShortDescription: `
Prints the peer ID of the repo key, the did:key account the filesystems are
scoped to and the filesystem mode.
`,
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}

		mode := config.FilesystemSynced
		if fs := n.Filesystem(); fs != nil && fs.Scope().LocalOnly {
			mode = config.FilesystemLocalOnly
		}
		return cmds.EmitOnce(res, &IdOutput{
			ID:           n.Identity.String(),
			Account:      n.Scope.Account,
			Mode:         mode,
			AgentVersion: version.GetUserAgentVersion(),
		})
	},
	Type: IdOutput{},
	Encoders: cmds.EncoderMap{
		cmds.Text: cmds.MakeTypedEncoder(func(req *cmds.Request, w io.Writer, out *IdOutput) error {
			_, err := fmt.Fprintf(w, "ID:      %s\nAccount: %s\nMode:    %s\nAgent:   %s\n", out.ID, out.Account, out.Mode, out.AgentVersion)
			return err
		}),
	},
}
