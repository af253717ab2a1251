package filesystem

import (
	"github.com/ipfs/go-cid"
)

// EncodeCID renders c the way root references are persisted.
func EncodeCID(c cid.Cid) string {
	return c.String()
}

// DecodeCID parses a persisted root reference.
func DecodeCID(s string) (cid.Cid, error) {
	return cid.Decode(s)
}

// IsCID reports whether s is a well-formed, defined CID.
func IsCID(s string) bool {
	c, err := cid.Decode(s)
	return err == nil && c.Defined()
}
