package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	ic "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

// Key types accepted by CreateIdentity.
const (
	Ed25519Key   = "ed25519"
	Secp256k1Key = "secp256k1"
)

// Init builds a fresh configuration: a new identity, the default datastore
// and the synced filesystem mode.
func Init(out io.Writer, keyType string) (*Config, error) {
	identity, err := CreateIdentity(out, keyType)
	if err != nil {
		return nil, err
	}

	conf := &Config{
		Identity:   identity,
		Datastore:  DefaultDatastoreConfig(),
		Filesystem: Filesystem{Mode: FilesystemSynced},
	}
	return conf, nil
}

// CreateIdentity initializes a new identity.
func CreateIdentity(out io.Writer, keyType string) (Identity, error) {
	ident := Identity{}

	var (
		sk  ic.PrivKey
		pk  ic.PubKey
		err error
	)
	switch keyType {
	case "", Ed25519Key:
		fmt.Fprintf(out, "generating ED25519 keypair...")
		sk, pk, err = ic.GenerateEd25519Key(rand.Reader)
	case Secp256k1Key:
		fmt.Fprintf(out, "generating secp256k1 keypair...")
		sk, pk, err = ic.GenerateSecp256k1Key(rand.Reader)
	default:
		return ident, fmt.Errorf("unrecognized key type: %s", keyType)
	}
	if err != nil {
		return ident, err
	}
	fmt.Fprintf(out, "done\n")

	skbytes, err := ic.MarshalPrivateKey(sk)
	if err != nil {
		return ident, err
	}
	ident.PrivKey = base64.StdEncoding.EncodeToString(skbytes)

	id, err := peer.IDFromPublicKey(pk)
	if err != nil {
		return ident, err
	}
	ident.PeerID = id.String()
	fmt.Fprintf(out, "peer identity: %s\n", ident.PeerID)
	return ident, nil
}
