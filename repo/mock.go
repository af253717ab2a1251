package repo

import (
	"sync"

	config "github.com/galleryfs/galleryfs/config"

	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
)

// Mock is an in-memory Repo. The zero value is not usable; see NewMock.
type Mock struct {
	mu sync.Mutex
	C  config.Config
	D  Datastore
}

// NewMock returns a Mock around a thread-safe map datastore.
func NewMock(c config.Config) *Mock {
	return &Mock{
		C: c,
		D: dssync.MutexWrap(ds.NewMapDatastore()),
	}
}

func (m *Mock) Config() (*config.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.C.Clone()
}

func (m *Mock) SetConfig(updated *config.Config) error {
	c, err := updated.Clone()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.C = *c
	m.mu.Unlock()
	return nil
}

func (m *Mock) Datastore() Datastore { return m.D }

func (m *Mock) Path() string { return "" }

func (m *Mock) Close() error { return m.D.Close() }

var _ Repo = (*Mock)(nil)
