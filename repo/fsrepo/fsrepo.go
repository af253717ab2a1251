package fsrepo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	config "github.com/galleryfs/galleryfs/config"
	serialize "github.com/galleryfs/galleryfs/config/serialize"
	"github.com/galleryfs/galleryfs/misc/fsutil"
	repo "github.com/galleryfs/galleryfs/repo"

	lockfile "github.com/ipfs/go-fs-lock"
	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/multierr"
)

// LockFile is the filename of the repo lock, relative to config dir.
const LockFile = "repo.lock"

// RepoVersion is the version number that we are currently expecting to see.
var RepoVersion = 1

const versionFile = "version"

var log = logging.Logger("fsrepo")

var (
	// ErrNoRepo is returned when opening a path that holds no repo.
	ErrNoRepo = errors.New("no galleryfs repo found, please run 'galleryfs init'")
	// ErrNeedMigration is returned when the on-disk version is older.
	ErrNeedMigration = errors.New("galleryfs repo needs migration")
	// ErrClosed is returned by operations on a closed repo.
	ErrClosed = repo.ErrRepoClosed
)

// NoRepoError is returned when trying to open a repo in which one has not
// been initialized.
type NoRepoError struct {
	Path string
}

var _ error = NoRepoError{}

func (err NoRepoError) Error() string {
	return fmt.Sprintf("no galleryfs repo found in %s.\nplease run: 'galleryfs init'", err.Path)
}

func (err NoRepoError) Is(target error) bool {
	return target == ErrNoRepo
}

// FSRepo represents a galleryfs repo on disk.
type FSRepo struct {
	// has Close been called already
	closed bool
	// path is the file-system path
	path string
	// lockfile is the file system lock to prevent others from opening
	// the same fsrepo path concurrently
	lockfile io.Closer
	// mu guards config
	mu     sync.Mutex
	config *config.Config
	ds     repo.Datastore
}

var _ repo.Repo = (*FSRepo)(nil)

// Open the FSRepo at path. Returns an error if the repo is not
// initialized.
func Open(repoPath string) (repo.Repo, error) {
	return open(repoPath)
}

func open(repoPath string) (repo.Repo, error) {
	r, err := newFSRepo(repoPath)
	if err != nil {
		return nil, err
	}

	r.lockfile, err = lockfile.Lock(r.path, LockFile)
	if err != nil {
		return nil, err
	}
	keepLocked := false
	defer func() {
		// unlock on error, leave it locked on success
		if !keepLocked {
			r.lockfile.Close()
		}
	}()

	if !isInitializedUnsynced(r.path) {
		return nil, NoRepoError{Path: r.path}
	}

	ver, err := readVersion(r.path)
	if err != nil {
		return nil, err
	}
	switch {
	case ver < RepoVersion:
		return nil, fmt.Errorf("%w: found version %d, expected %d", ErrNeedMigration, ver, RepoVersion)
	case ver > RepoVersion:
		return nil, fmt.Errorf("repo version %d is newer than this binary supports (%d)", ver, RepoVersion)
	}

	if err := fsutil.DirWritable(r.path); err != nil {
		return nil, err
	}

	if err := r.openConfig(); err != nil {
		return nil, err
	}

	if err := r.openDatastore(); err != nil {
		return nil, err
	}

	keepLocked = true
	return r, nil
}

func newFSRepo(rpath string) (*FSRepo, error) {
	expPath, err := fsutil.ExpandHome(filepath.Clean(rpath))
	if err != nil {
		return nil, err
	}

	return &FSRepo{path: expPath}, nil
}

// ConfigAt returns an error if the FSRepo at the given path is not
// initialized. This function allows callers to read the config file even when
// another process is running and holding the lock.
func ConfigAt(repoPath string) (*config.Config, error) {
	configFilename, err := config.Filename(repoPath, "")
	if err != nil {
		return nil, err
	}
	return serialize.Load(configFilename)
}

// Init initializes a new FSRepo at the given path with the provided config.
func Init(repoPath string, conf *config.Config) error {
	if err := fsutil.DirWritable(repoPath); err != nil {
		return err
	}

	lk, err := lockfile.Lock(repoPath, LockFile)
	if err != nil {
		return err
	}
	defer lk.Close()

	if isInitializedUnsynced(repoPath) {
		return nil
	}

	configFilename, err := config.Filename(repoPath, "")
	if err != nil {
		return err
	}
	if err := serialize.WriteConfigFile(configFilename, conf); err != nil {
		return err
	}

	// create the datastore once so that a broken spec fails at init rather
	// than on the first command.
	d, err := constructDatastore(repoPath, conf.Datastore.Spec)
	if err != nil {
		return err
	}
	if err := d.Close(); err != nil {
		return err
	}

	if err := writeVersion(repoPath, RepoVersion); err != nil {
		return err
	}

	log.Infow("initialized repo", "path", repoPath)
	return nil
}

// LockedByOtherProcess returns true if the FSRepo is locked by another
// process. If true, then the repo cannot be opened by this process.
func LockedByOtherProcess(repoPath string) (bool, error) {
	repoPath = filepath.Clean(repoPath)
	locked, err := lockfile.Locked(repoPath, LockFile)
	if locked {
		log.Debugf("(%t)<->Lock is held at %s", locked, repoPath)
	}
	return locked, err
}

// Remove recursively removes the FSRepo at |path|.
func Remove(repoPath string) error {
	locked, err := LockedByOtherProcess(repoPath)
	if err != nil {
		return err
	}
	if locked {
		return errors.New("repo in use")
	}
	return os.RemoveAll(repoPath)
}

// IsInitialized returns true if the repo is initialized at provided |path|.
func IsInitialized(path string) bool {
	return isInitializedUnsynced(path)
}

// isInitializedUnsynced reports whether the repo is initialized. Caller must
// hold the lock.
func isInitializedUnsynced(repoPath string) bool {
	configFilename, err := config.Filename(repoPath, "")
	if err != nil {
		return false
	}
	return fsutil.FileExists(configFilename) && fsutil.FileExists(filepath.Join(repoPath, versionFile))
}

func readVersion(repoPath string) (int, error) {
	b, err := os.ReadFile(filepath.Join(repoPath, versionFile))
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("malformed repo version file: %w", err)
	}
	return v, nil
}

func writeVersion(repoPath string, v int) error {
	return os.WriteFile(filepath.Join(repoPath, versionFile), []byte(strconv.Itoa(v)+"\n"), 0o644)
}

// openConfig returns an error if the config file is not present.
func (r *FSRepo) openConfig() error {
	conf, err := ConfigAt(r.path)
	if err != nil {
		return err
	}
	r.config = conf
	return nil
}

// openDatastore returns an error if the config file is not present.
func (r *FSRepo) openDatastore() error {
	if r.config.Datastore.Spec == nil {
		return errors.New("required Datastore.Spec entry missing from config file")
	}

	d, err := constructDatastore(r.path, r.config.Datastore.Spec)
	if err != nil {
		return err
	}
	r.ds = d
	return nil
}

// Close closes the FSRepo, releasing held resources.
func (r *FSRepo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.closed = true

	var err error
	if r.ds != nil {
		err = multierr.Append(err, r.ds.Close())
	}
	err = multierr.Append(err, r.lockfile.Close())
	return err
}

// Config the current config. This function DOES NOT copy the config. The caller
// MUST NOT modify it without first calling `Clone`.
//
// Result when not Open is undefined. The method may panic if it pleases.
func (r *FSRepo) Config() (*config.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	return r.config, nil
}

// SetConfig updates the FSRepo's config. The user must not modify the config
// object after calling this method.
func (r *FSRepo) SetConfig(updated *config.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	configFilename, err := config.Filename(r.path, "")
	if err != nil {
		return err
	}
	if err := serialize.WriteConfigFile(configFilename, updated); err != nil {
		return err
	}
	r.config = updated
	return nil
}

// Datastore returns a repo-owned datastore. If FSRepo is Closed, return value
// is undefined.
func (r *FSRepo) Datastore() repo.Datastore {
	r.mu.Lock()
	d := r.ds
	r.mu.Unlock()
	return d
}

// Path returns the repo root directory.
func (r *FSRepo) Path() string {
	return r.path
}
