package config

import (
	"bytes"
	"strings"
	"testing"

	crypto_pb "github.com/libp2p/go-libp2p/core/crypto/pb"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/require"
)

func TestCreateIdentity(t *testing.T) {
	var out bytes.Buffer

	id, err := CreateIdentity(&out, Ed25519Key)
	require.NoError(t, err)
	pk, err := id.DecodePrivateKey("")
	require.NoError(t, err)
	require.Equal(t, crypto_pb.KeyType_Ed25519, pk.Type())

	pid, err := peer.IDFromPrivateKey(pk)
	require.NoError(t, err)
	require.Equal(t, id.PeerID, pid.String())
	require.Contains(t, out.String(), id.PeerID)

	id, err = CreateIdentity(&out, Secp256k1Key)
	require.NoError(t, err)
	pk, err = id.DecodePrivateKey("")
	require.NoError(t, err)
	require.Equal(t, crypto_pb.KeyType_Secp256k1, pk.Type())

	_, err = CreateIdentity(&out, "dsa")
	require.Error(t, err)
}

func TestIdentityDID(t *testing.T) {
	id, err := CreateIdentity(&bytes.Buffer{}, Ed25519Key)
	require.NoError(t, err)

	did, err := id.DID()
	require.NoError(t, err)
	// ed25519 did:key identifiers always start with z6Mk
	require.True(t, strings.HasPrefix(did, "did:key:z6Mk"), did)

	again, err := id.DID()
	require.NoError(t, err)
	require.Equal(t, did, again)

	id, err = CreateIdentity(&bytes.Buffer{}, Secp256k1Key)
	require.NoError(t, err)
	did, err = id.DID()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(did, "did:key:zQ3s"), did)
}

func TestInit(t *testing.T) {
	conf, err := Init(&bytes.Buffer{}, "")
	require.NoError(t, err)
	require.NotEmpty(t, conf.Identity.PeerID)
	require.Equal(t, FilesystemSynced, conf.Filesystem.Mode)
	require.Equal(t, "mount", conf.Datastore.Spec["type"])
}
