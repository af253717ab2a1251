package node

import (
	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/repo"
	"github.com/ipfs/boxo/blockstore"
	"github.com/ipfs/go-datastore"
)

// RepoConfig loads configuration from the repo
func RepoConfig(repo repo.Repo) (*config.Config, error) {
	return repo.Config()
}

// Datastore provides the datastore
func Datastore(repo repo.Repo) datastore.Batching {
	return repo.Datastore()
}

// Blockstore stores DAG blocks in the repo datastore below /blocks.
func Blockstore(d datastore.Batching) blockstore.Blockstore {
	bs := blockstore.NewBlockstore(d)
	return blockstore.NewIdStore(bs)
}
