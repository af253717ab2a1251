// Package filesystem is a typed, content-addressed filesystem handle built
// on an MFS tree. Every change stays in memory until Publish returns the CID
// of the new root.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	chunker "github.com/ipfs/boxo/chunker"
	"github.com/ipfs/boxo/ipld/merkledag"
	ft "github.com/ipfs/boxo/ipld/unixfs"
	"github.com/ipfs/boxo/ipld/unixfs/importer/balanced"
	"github.com/ipfs/boxo/ipld/unixfs/importer/helpers"
	uio "github.com/ipfs/boxo/ipld/unixfs/io"
	"github.com/ipfs/boxo/mfs"
	"github.com/ipfs/go-cid"
	ipld "github.com/ipfs/go-ipld-format"
	logging "github.com/ipfs/go-log/v2"
	mh "github.com/multiformats/go-multihash"
)

var log = logging.Logger("filesystem")

// FilePrefix is the CID format of file nodes: dag-pb CIDv0 over sha2-256,
// the same format MFS uses for directories.
var FilePrefix = cid.Prefix{
	Version:  0,
	Codec:    cid.DagProtobuf,
	MhType:   mh.SHA2_256,
	MhLength: -1,
}

// Scope names the account a tree belongs to and whether it may leave the
// device.
type Scope struct {
	// Account is the DID of the owning identity.
	Account   string
	LocalOnly bool
}

// Entry is one item of a directory listing.
type Entry struct {
	Name string
	Kind Kind
	Size int64
	Cid  cid.Cid
}

// FileSystem is the handle the rest of the program works against.
type FileSystem interface {
	Scope() Scope
	Mkdir(ctx context.Context, p Path) error
	Exists(ctx context.Context, p Path) (bool, error)
	Read(ctx context.Context, p Path) ([]byte, error)
	Write(ctx context.Context, p Path, data []byte) error
	Ls(ctx context.Context, p Path) ([]Entry, error)
	Rm(ctx context.Context, p Path) error
	// Publish commits pending changes and returns the CID of the new root.
	Publish(ctx context.Context) (cid.Cid, error)
	io.Closer
}

// FS is the MFS backed FileSystem.
type FS struct {
	mu    sync.Mutex
	dag   ipld.DAGService
	root  *mfs.Root
	scope Scope
}

var _ FileSystem = (*FS)(nil)

// Empty creates a tree holding only the public and private branch
// directories. Nothing is published.
func Empty(ctx context.Context, dag ipld.DAGService, scope Scope) (*FS, error) {
	nd := ft.EmptyDirNode()
	if err := dag.Add(ctx, nd); err != nil {
		return nil, fmt.Errorf("failure writing to dagstore: %w", err)
	}

	fs, err := newFS(ctx, dag, nd, scope)
	if err != nil {
		return nil, err
	}
	for _, b := range []Branch{Public, Private} {
		if err := fs.Mkdir(ctx, Directory(string(b))); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// FromCID loads the tree rooted at c.
func FromCID(ctx context.Context, dag ipld.DAGService, c cid.Cid, scope Scope) (*FS, error) {
	rnd, err := dag.Get(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error loading filesystem root from DAG: %w", err)
	}

	pbnd, ok := rnd.(*merkledag.ProtoNode)
	if !ok {
		return nil, merkledag.ErrNotProtobuf
	}

	return newFS(ctx, dag, pbnd, scope)
}

func newFS(ctx context.Context, dag ipld.DAGService, nd *merkledag.ProtoNode, scope Scope) (*FS, error) {
	root, err := mfs.NewRoot(ctx, dag, nd, nil)
	if err != nil {
		return nil, err
	}
	return &FS{dag: dag, root: root, scope: scope}, nil
}

func (fs *FS) Scope() Scope { return fs.scope }

// Mkdir creates p and any missing parents. An existing directory is not an
// error.
func (fs *FS) Mkdir(ctx context.Context, p Path) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsDirectory() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, p)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.mkdirAll(p)
}

func (fs *FS) mkdirAll(p Path) error {
	existing, err := mfs.Lookup(fs.root, p.mfsPath())
	switch {
	case err == nil:
		if _, ok := existing.(*mfs.Directory); !ok {
			return fmt.Errorf("%s exists and is not a directory", p)
		}
		return nil
	case errors.Is(err, os.ErrNotExist):
	default:
		return err
	}

	return mfs.Mkdir(fs.root, p.mfsPath(), mfs.MkdirOpts{Mkparents: true})
}

// Exists reports whether anything lives at p.
func (fs *FS) Exists(ctx context.Context, p Path) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, err := mfs.Lookup(fs.root, p.mfsPath())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Read returns the whole content of the file at p.
func (fs *FS) Read(ctx context.Context, p Path) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !p.IsFile() {
		return nil, fmt.Errorf("%w: %s", ErrNotFile, p)
	}

	fs.mu.Lock()
	fsn, err := mfs.Lookup(fs.root, p.mfsPath())
	if err != nil {
		fs.mu.Unlock()
		return nil, err
	}
	fi, ok := fsn.(*mfs.File)
	if !ok {
		fs.mu.Unlock()
		return nil, fmt.Errorf("%s was not a file", p)
	}
	nd, err := fi.GetNode()
	fs.mu.Unlock()
	if err != nil {
		return nil, err
	}

	r, err := uio.NewDagReader(ctx, nd, fs.dag)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Write replaces the file at p with data, creating parent directories.
func (fs *FS) Write(ctx context.Context, p Path, data []byte) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsFile() {
		return fmt.Errorf("%w: %s", ErrNotFile, p)
	}

	dbp := helpers.DagBuilderParams{
		Dagserv:    fs.dag,
		Maxlinks:   helpers.DefaultLinksPerBlock,
		CidBuilder: FilePrefix,
	}
	db, err := dbp.New(chunker.DefaultSplitter(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("building file dag: %w", err)
	}
	nd, err := balanced.Layout(db)
	if err != nil {
		return fmt.Errorf("building file dag: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent := p.Parent()
	if err := fs.mkdirAll(parent); err != nil {
		return err
	}
	pdir, err := fs.lookupDir(parent)
	if err != nil {
		return err
	}

	child, err := pdir.Child(p.Name())
	switch {
	case err == nil:
		if _, isDir := child.(*mfs.Directory); isDir {
			return fmt.Errorf("cannot write file %s: a directory has that name", p)
		}
		if err := pdir.Unlink(p.Name()); err != nil {
			return err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return err
	}

	log.Debugw("write", "path", p.String(), "cid", nd.Cid(), "size", len(data))
	return pdir.AddChild(p.Name(), nd)
}

// Ls lists the directory at p in name order.
func (fs *FS) Ls(ctx context.Context, p Path) ([]Entry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !p.IsDirectory() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, p)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.lookupDir(p)
	if err != nil {
		return nil, err
	}
	listing, err := dir.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(listing))
	for _, l := range listing {
		e := Entry{Name: l.Name, Kind: KindFile, Size: l.Size}
		if l.Type == int(mfs.TDir) {
			e.Kind = KindDirectory
		}
		if l.Hash != "" {
			if c, err := cid.Decode(l.Hash); err == nil {
				e.Cid = c
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Rm removes the file or directory (recursively) at p. Branch roots cannot
// be removed.
func (fs *FS) Rm(ctx context.Context, p Path) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(p.segments) == 1 {
		return fmt.Errorf("cannot remove branch root %s", p)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	pdir, err := fs.lookupDir(p.Parent())
	if err != nil {
		return err
	}
	return pdir.Unlink(p.Name())
}

// Publish syncs the in-memory tree to the DAG service and returns the root
// CID. It does not persist the CID anywhere.
func (fs *FS) Publish(ctx context.Context) (cid.Cid, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	nd, err := fs.root.GetDirectory().GetNode()
	if err != nil {
		return cid.Undef, err
	}
	return nd.Cid(), nil
}

// Close flushes and releases the MFS root.
func (fs *FS) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.root.Close()
}

func (fs *FS) lookupDir(p Path) (*mfs.Directory, error) {
	fsn, err := mfs.Lookup(fs.root, p.mfsPath())
	if err != nil {
		return nil, err
	}
	dir, ok := fsn.(*mfs.Directory)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, p)
	}
	return dir, nil
}
