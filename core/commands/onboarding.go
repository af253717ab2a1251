package commands

import (
	"fmt"
	"io"

	"github.com/galleryfs/galleryfs/core/commands/cmdenv"

	cmds "github.com/ipfs/go-ipfs-cmds"
)

type OnboardingOutput struct {
	Viewed bool
}

var OnboardingCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Show or record the get-started flag.",
		ShortDescription: `
The flag is kept in the filesystem at /public/viewed-get-started, so it moves
with the gallery.
`,
	},
	Subcommands: map[string]*cmds.Command{
		"status": onboardingStatusCmd,
		"set":    onboardingSetCmd,
	},
}

var onboardingEncoders = cmds.EncoderMap{
	cmds.Text: cmds.MakeTypedEncoder(func(req *cmds.Request, w io.Writer, out *OnboardingOutput) error {
		_, err := fmt.Fprintf(w, "viewed: %t\n", out.Viewed)
		return err
	}),
}

var onboardingStatusCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Show whether the get-started screen was viewed.",
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}

		viewed, err := n.Session.GetStartedViewed(req.Context)
		if err != nil {
			return err
		}
		return cmds.EmitOnce(res, &OnboardingOutput{Viewed: viewed})
	},
	Type:     OnboardingOutput{},
	Encoders: onboardingEncoders,
}

var onboardingSetCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Record that the get-started screen was viewed.",
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}

		if err := n.Session.SetGetStartedViewed(req.Context); err != nil {
			return err
		}
		return cmds.EmitOnce(res, &OnboardingOutput{Viewed: n.Session.ViewedCell().Get()})
	},
	Type:     OnboardingOutput{},
	Encoders: onboardingEncoders,
}
