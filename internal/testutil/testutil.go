// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"io"

	"github.com/f3rmion/pgs/bjj"
	"github.com/f3rmion/pgs/ed25519"
	"github.com/f3rmion/pgs/group"
	"github.com/f3rmion/pgs/secp256k1"
	"github.com/zeebo/blake3"
)

// Reader returns a deterministic byte stream derived from seed. Two readers
// with the same seed yield the same bytes.
func Reader(seed string) io.Reader {
	h := blake3.New()
	_, _ = h.Write([]byte(seed))
	return h.Digest()
}

// ZeroReader yields an endless stream of zero bytes.
type ZeroReader struct{}

func (ZeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// Groups returns one instance of every supported backend.
func Groups() []group.Group {
	return []group.Group{
		&bjj.BJJ{},
		&secp256k1.Secp256k1{},
		&ed25519.Ed25519{},
	}
}
