package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/galleryfs/galleryfs/core/commands/cmdenv"
	"github.com/galleryfs/galleryfs/filesystem"

	humanize "github.com/dustin/go-humanize"
	files "github.com/ipfs/boxo/files"
	cmds "github.com/ipfs/go-ipfs-cmds"
)

var FilesCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Interact with the active filesystem.",
		ShortDescription: `
Files live below two branches, /public and /private. A trailing slash marks
a directory path:

    galleryfs files mkdir /public/gallery/
    galleryfs files write /public/gallery/cat.png ./cat.png
    galleryfs files ls /public/gallery/

Every command that changes the tree publishes the new root.
`,
	},
	Subcommands: map[string]*cmds.Command{
		"mkdir": filesMkdirCmd,
		"ls":    filesLsCmd,
		"read":  filesReadCmd,
		"write": filesWriteCmd,
		"rm":    filesRmCmd,
		"stat":  filesStatCmd,
	},
}

type filesStatOutput struct {
	Root      string
	Account   string
	LocalOnly bool
}

const filesSizeOptionName = "size"

func parsePathArg(req *cmds.Request) (filesystem.Path, error) {
	return filesystem.ParsePath(req.Arguments[0])
}

// parseDirArg reads the path argument as a directory, with or without the
// trailing slash.
func parseDirArg(req *cmds.Request) (filesystem.Path, error) {
	return filesystem.ParsePath(strings.TrimSuffix(req.Arguments[0], "/") + "/")
}

var filesMkdirCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Make directories, with parents.",
	},
	Arguments: []cmds.Argument{
		cmds.StringArg("path", true, false, "Path to dir to make."),
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}
		p, err := parseDirArg(req)
		if err != nil {
			return err
		}

		fs := n.Filesystem()
		if err := fs.Mkdir(req.Context, p); err != nil {
			return err
		}
		_, err = fs.Publish(req.Context)
		return err
	},
}

type filesLsOutput struct {
	Entries []filesLsEntry
}

type filesLsEntry struct {
	Name string
	Type string
	Size int64
	Hash string
}

var filesLsCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "List directories.",
	},
	Arguments: []cmds.Argument{
		cmds.StringArg("path", true, false, "Path of the directory to list."),
	},
	Options: []cmds.Option{
		cmds.BoolOption(filesSizeOptionName, "s", "Print sizes in human readable format."),
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}
		p, err := parseDirArg(req)
		if err != nil {
			return err
		}

		entries, err := n.Filesystem().Ls(req.Context, p)
		if err != nil {
			return err
		}

		out := &filesLsOutput{Entries: make([]filesLsEntry, 0, len(entries))}
		for _, e := range entries {
			typ := "file"
			if e.Kind == filesystem.KindDirectory {
				typ = "directory"
			}
			le := filesLsEntry{Name: e.Name, Type: typ, Size: e.Size}
			if e.Cid.Defined() {
				le.Hash = e.Cid.String()
			}
			out.Entries = append(out.Entries, le)
		}
		return cmds.EmitOnce(res, out)
	},
	Type: filesLsOutput{},
	Encoders: cmds.EncoderMap{
		cmds.Text: cmds.MakeTypedEncoder(func(req *cmds.Request, w io.Writer, out *filesLsOutput) error {
			human, _ := req.Options[filesSizeOptionName].(bool)
			tw := tabwriter.NewWriter(w, 1, 2, 1, ' ', 0)
			for _, e := range out.Entries {
				name := cmdenv.EscNonPrint(e.Name)
				if e.Type == "directory" {
					name += "/"
				}
				size := fmt.Sprint(e.Size)
				if human {
					size = humanize.Bytes(uint64(e.Size))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, size, e.Hash)
			}
			return tw.Flush()
		}),
	},
}

var filesReadCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Read a file to stdout.",
	},
	Arguments: []cmds.Argument{
		cmds.StringArg("path", true, false, "Path to file to be read."),
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}
		p, err := parsePathArg(req)
		if err != nil {
			return err
		}

		data, err := n.Filesystem().Read(req.Context, p)
		if err != nil {
			return err
		}
		return res.Emit(bytes.NewReader(data))
	},
}

var filesWriteCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Replace a file with the given data.",
		ShortDescription: `
Writes the contents of a local file (or stdin) to the given path, replacing
what was there and creating missing directories.

    galleryfs files write /private/gallery/me.jpg ./me.jpg
    cat me.jpg | galleryfs files write /private/gallery/me.jpg
`,
	},
	Arguments: []cmds.Argument{
		cmds.StringArg("path", true, false, "Path to write to."),
		cmds.FileArg("data", true, false, "Data to write.").EnableStdin(),
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}
		p, err := parsePathArg(req)
		if err != nil {
			return err
		}

		it := req.Files.Entries()
		if !it.Next() {
			if it.Err() != nil {
				return it.Err()
			}
			return errors.New("expected a file argument")
		}
		file := files.FileFromEntry(it)
		if file == nil {
			return errors.New("expected a file argument")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return err
		}

		fs := n.Filesystem()
		if err := fs.Write(req.Context, p, data); err != nil {
			return err
		}
		_, err = fs.Publish(req.Context)
		return err
	},
}

var filesRmCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Remove a file or directory.",
	},
	Arguments: []cmds.Argument{
		cmds.StringArg("path", true, false, "File or directory to remove."),
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}
		p, err := parsePathArg(req)
		if err != nil {
			return err
		}

		fs := n.Filesystem()
		if err := fs.Rm(req.Context, p); err != nil {
			return err
		}
		_, err = fs.Publish(req.Context)
		return err
	},
}

var filesStatCmd = &cmds.Command{
	Helptext: cmds.HelpText{
		Tagline: "Show the root of the active filesystem.",
	},
	Run: func(req *cmds.Request, res cmds.ResponseEmitter, env cmds.Environment) error {
		n, err := cmdenv.GetNode(env)
		if err != nil {
			return err
		}

		fs := n.Filesystem()
		c, err := fs.Publish(req.Context)
		if err != nil {
			return err
		}
		scope := fs.Scope()
		return cmds.EmitOnce(res, &filesStatOutput{
			Root:      filesystem.EncodeCID(c),
			Account:   scope.Account,
			LocalOnly: scope.LocalOnly,
		})
	},
	Type: filesStatOutput{},
	Encoders: cmds.EncoderMap{
		cmds.Text: cmds.MakeTypedEncoder(func(req *cmds.Request, w io.Writer, out *filesStatOutput) error {
			_, err := fmt.Fprintf(w, "%s\nAccount: %s\nLocalOnly: %t\n", out.Root, out.Account, out.LocalOnly)
			return err
		}),
	},
}
