/*
Package core implements the galleryfs node: the repo, its block storage and
the filesystems assembled on top of it.

The node is built with fx from the units in core/node; commands obtain it
through the command context and close it when they are done.
*/
package core

import (
	"context"

	"github.com/galleryfs/galleryfs/filesystem"
	"github.com/galleryfs/galleryfs/migrate"
	"github.com/galleryfs/galleryfs/repo"
	"github.com/galleryfs/galleryfs/session"
	bstore "github.com/ipfs/boxo/blockstore"
	ipld "github.com/ipfs/go-ipld-format"
	logging "github.com/ipfs/go-log/v2"
	ic "github.com/libp2p/go-libp2p/core/crypto"
	peer "github.com/libp2p/go-libp2p/core/peer"
)

var log = logging.Logger("core")

// Node is a galleryfs node.
type Node struct {
	// Self
	Identity   peer.ID
	PrivateKey ic.PrivKey
	Scope      filesystem.Scope

	// Local node
	Repo       repo.Repo
	Blockstore bstore.Blockstore
	DAG        ipld.DAGService

	// The filesystem opened at start and the session that tracks the active one
	FilesRoot filesystem.FileSystem
	Session   *session.Session
	Migrator  *migrate.Migrator

	ctx  context.Context
	stop func() error
}

// Context returns the node's context.
func (n *Node) Context() context.Context {
	if n.ctx == nil {
		n.ctx = context.TODO()
	}
	return n.ctx
}

// Filesystem returns the currently active filesystem.
func (n *Node) Filesystem() filesystem.FileSystem {
	return n.Session.Filesystem()
}

// Close calls Close() on the App object
func (n *Node) Close() error {
	return n.stop()
}
