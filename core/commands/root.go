package commands

import (
	"errors"

	cmds "github.com/ipfs/go-ipfs-cmds"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("core/commands")

var ErrNotInitialized = errors.New("galleryfs repo not initialized, please run 'galleryfs init'")

const (
	RepoDirOption = "repo-dir"
	DebugOption   = "debug"
)

var Root = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline:  "Keep a photo gallery in a content-addressed filesystem.",
		Synopsis: "galleryfs [--repo-dir=<path> | --debug | --help | -h] <command> ...",
		Subcommands: `
BASIC COMMANDS
  init          Initialize a local galleryfs repository
  id            Show the account identity
  version       Show galleryfs version information

FILESYSTEM COMMANDS
  files         Read and write files of the active filesystem
  migrate       Move the gallery into the local-only filesystem
  onboarding    Show or record the get-started flag

TOOL COMMANDS
  stats         Show datastore metrics

Use 'galleryfs <command> --help' to learn more about each command.

galleryfs uses a repository in the local file system. By default, the repo is
located at ~/.galleryfs. To change the repo location, set the $GALLERYFS_PATH
environment variable:

  export GALLERYFS_PATH=/path/to/galleryfs/repo

EXIT STATUS

The CLI will exit with one of the following values:

0     Successful execution.
1     Failed executions.
`,
	},
	Options: []cmds.Option{
		cmds.StringOption(RepoDirOption, "Path to the repository directory to use."),
		cmds.BoolOption(DebugOption, "D", "Operate in debug mode."),
		cmds.BoolOption(cmds.OptLongHelp, "Show the full command help text."),
		cmds.BoolOption(cmds.OptShortHelp, "Show a short version of the command help text."),

		// global options, added to every command
		cmds.OptionEncodingType,
		cmds.OptionStreamChannels,
		cmds.OptionTimeout,
	},
}

var rootSubcommands = map[string]*cmds.Command{
	"init":       InitCmd,
	"id":         IDCmd,
	"files":      FilesCmd,
	"migrate":    MigrateCmd,
	"onboarding": OnboardingCmd,
	"stats":      StatsCmd,
	"version":    VersionCmd,
}

func init() {
	Root.Subcommands = rootSubcommands
}
