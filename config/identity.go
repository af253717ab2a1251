package config

import (
	"encoding/base64"
	"errors"
	"fmt"

	ic "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"
)

const (
	IdentityTag     = "Identity"
	PrivKeyTag      = "PrivKey"
	PrivKeySelector = IdentityTag + "." + PrivKeyTag
)

// ErrUnsupportedKeyType is returned when the identity key has no did:key
// encoding.
var ErrUnsupportedKeyType = errors.New("key type has no did:key encoding")

// Identity tracks the configuration of the account identity.
type Identity struct {
	PeerID  string
	PrivKey string `json:",omitempty"`
}

// DecodePrivateKey is a helper to decode the user's PrivateKey.
func (i *Identity) DecodePrivateKey(passphrase string) (ic.PrivKey, error) {
	pkb, err := base64.StdEncoding.DecodeString(i.PrivKey)
	if err != nil {
		return nil, err
	}

	// TODO: the key is stored unencrypted; decrypt with passphrase once init
	// learns to encrypt it.
	return ic.UnmarshalPrivateKey(pkb)
}

// DID returns the did:key identifier of the identity's public key. It names
// the account the filesystems are scoped to.
func (i *Identity) DID() (string, error) {
	sk, err := i.DecodePrivateKey("")
	if err != nil {
		return "", err
	}
	return PublicKeyDID(sk.GetPublic())
}

// PublicKeyDID encodes pk as a did:key identifier: the multicodec-prefixed
// raw key in base58btc.
func PublicKeyDID(pk ic.PubKey) (string, error) {
	var codec multicodec.Code
	switch pk.Type() {
	case ic.Ed25519:
		codec = multicodec.Ed25519Pub
	case ic.Secp256k1:
		codec = multicodec.Secp256k1Pub
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKeyType, pk.Type())
	}

	raw, err := pk.Raw()
	if err != nil {
		return "", err
	}

	buf := append(varint.ToUvarint(uint64(codec)), raw...)
	enc, err := multibase.Encode(multibase.Base58BTC, buf)
	if err != nil {
		return "", err
	}
	return "did:key:" + enc, nil
}
