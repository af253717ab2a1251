package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/core/commands/cmdenv"
	"github.com/galleryfs/galleryfs/repo/fsrepo"

	cmds "github.com/ipfs/go-ipfs-cmds"
)

const (
	algorithmOptionName = "algorithm"
	profileOptionName   = "profile"
)

// InitOutput describes a freshly initialized repo.
type InitOutput struct {
	Path    string
	PeerID  string
	Account string
	Log     string
}

var InitCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Initializes galleryfs config file.",
		ShortDescription: `
Initializes galleryfs configuration files and generates a new keypair.

If you are going to run galleryfs in a throwaway setting, use the 'test'
profile to keep everything in memory:

    galleryfs init --profile=test

Available profiles: flatfs (default), badgerds, pebbleds, test, local-only.
Several profiles can be given, separated by commas.
`,
	},
	Options: []cmds.Option{
		cmds.StringOption(algorithmOptionName, "a", "Cryptographic algorithm to use for key generation.").WithDefault(config.Ed25519Key),
		cmds.StringOption(profileOptionName, "p", "Apply profile settings to config. Multiple profiles can be separated by ','"),
	},
	Extra: CreateCmdExtras(SetDoesNotUseRepo(true)),
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		repoRoot, err := cmdenv.GetConfigRoot(env)
		if err != nil {
			return err
		}

		algorithm, _ := req.Options[algorithmOptionName].(string)
		profiles, _ := req.Options[profileOptionName].(string)

		out, err := doInit(repoRoot, algorithm, profiles)
		if err != nil {
			return err
		}
		return cmds.EmitOnce(res, out)
	},
	Type: InitOutput{},
	Encoders: cmds.EncoderMap{
		cmds.Text: cmds.MakeTypedEncoder(func(req *cmds.Request, w io.Writer, out *InitOutput) error {
			fmt.Fprint(w, out.Log)
			fmt.Fprintf(w, "initializing galleryfs node at %s\n", out.Path)
			fmt.Fprintf(w, "account: %s\n", out.Account)
			return nil
		}),
	},
}

var errRepoExists = errors.New(`galleryfs configuration file already exists!
Reinitializing would overwrite your keys.`)

func doInit(repoRoot, algorithm, profiles string) (*InitOutput, error) {
	if fsrepo.IsInitialized(repoRoot) {
		return nil, errRepoExists
	}

	var buf bytes.Buffer
	conf, err := config.Init(&buf, algorithm)
	if err != nil {
		return nil, err
	}

	if err := applyProfiles(conf, profiles); err != nil {
		return nil, err
	}

	if err := fsrepo.Init(repoRoot, conf); err != nil {
		return nil, err
	}

	did, err := conf.Identity.DID()
	if err != nil {
		return nil, err
	}

	return &InitOutput{
		Path:    repoRoot,
		PeerID:  conf.Identity.PeerID,
		Account: did,
		Log:     buf.String(),
	}, nil
}

func applyProfiles(conf *config.Config, profiles string) error {
	if profiles == "" {
		return nil
	}

	for _, profile := range strings.Split(profiles, ",") {
		transformer, ok := config.Profiles[profile]
		if !ok {
			return fmt.Errorf("invalid configuration profile: %s", profile)
		}

		if err := transformer.Transform(conf); err != nil {
			return err
		}
	}
	return nil
}
