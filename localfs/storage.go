package localfs

import (
	"context"
	"errors"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
)

// Storage is the small key-value surface the root reference is kept in.
type Storage interface {
	// GetItem returns the value for key. A missing key is reported with
	// ok == false and a nil error.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

// DatastoreStorage keeps items in a datastore under a fixed namespace.
type DatastoreStorage struct {
	d ds.Datastore
}

var _ Storage = (*DatastoreStorage)(nil)

// NewDatastoreStorage wraps d so that every key lives below /<prefix>.
func NewDatastoreStorage(d ds.Datastore, prefix string) *DatastoreStorage {
	return &DatastoreStorage{d: namespace.Wrap(d, ds.NewKey(prefix))}
}

func (s *DatastoreStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.d.Get(ctx, ds.NewKey(key))
	if errors.Is(err, ds.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

func (s *DatastoreStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.d.Put(ctx, ds.NewKey(key), []byte(value)); err != nil {
		return err
	}
	return s.d.Sync(ctx, ds.NewKey(key))
}
