package repo

import (
	"errors"
	"io"

	config "github.com/galleryfs/galleryfs/config"

	ds "github.com/ipfs/go-datastore"
)

var ErrRepoClosed = errors.New("repo is closed")

// Repo is the on-disk home of a gallery: its config and the datastore that
// holds both the blocks and the root references.
type Repo interface {
	// Config returns the galleryfs configuration file from the repo. Changes
	// made to the returned config are not automatically persisted.
	Config() (*config.Config, error)

	// SetConfig persists the given configuration struct to storage.
	SetConfig(*config.Config) error

	// Datastore returns a reference to the configured data storage backend.
	Datastore() Datastore

	// Path is the repo's root directory, empty for in-memory repos.
	Path() string

	io.Closer
}

// Datastore is the interface required from a datastore to be
// acceptable to FSRepo.
type Datastore interface {
	ds.Batching // must be thread-safe
	io.Closer
}
