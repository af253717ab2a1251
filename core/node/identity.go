package node

import (
	"fmt"

	"github.com/galleryfs/galleryfs/config"
	"github.com/galleryfs/galleryfs/filesystem"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

// PrivateKey loads the private key from config and checks it against the
// configured peer ID.
func PrivateKey(cfg *config.Config) (crypto.PrivKey, error) {
	sk, err := cfg.Identity.DecodePrivateKey("")
	if err != nil {
		return nil, err
	}

	id, err := peer.Decode(cfg.Identity.PeerID)
	if err != nil {
		return nil, fmt.Errorf("invalid peer id in config: %w", err)
	}
	id2, err := peer.IDFromPrivateKey(sk)
	if err != nil {
		return nil, err
	}
	if id2 != id {
		return nil, fmt.Errorf("private key in config does not match id: %s != %s", id, id2)
	}
	return sk, nil
}

// PeerID is the peer ID of the repo identity.
func PeerID(sk crypto.PrivKey) (peer.ID, error) {
	return peer.IDFromPrivateKey(sk)
}

// Scope names the account the filesystems belong to.
func Scope(cfg *config.Config, sk crypto.PrivKey) (filesystem.Scope, error) {
	did, err := config.PublicKeyDID(sk.GetPublic())
	if err != nil {
		return filesystem.Scope{}, err
	}
	return filesystem.Scope{Account: did, LocalOnly: cfg.Filesystem.LocalOnly()}, nil
}
