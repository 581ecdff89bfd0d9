package pgs

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"io"
	"math/big"

	"github.com/f3rmion/pgs/group"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Hash roles. Each protocol hash is computed under its own tag.
const (
	tagPseudonym        = "pseudonym"
	tagBinding          = "binding"
	tagChallenge        = "challenge"
	tagPassword         = "password"
	tagPasswordVerifier = "password-verifier"
)

// Hasher defines the hash function used by the protocol. The group manager,
// its members and every verifier must use the same Hasher, since the
// binding exponent and the signature challenge are recomputed on both sides.
//
// Digest must apply the canonical framing implemented by writeFrame:
//
//	prefix ‖ 0x00 ‖ len(tag) ‖ tag ‖ for each field: 0x00 ‖ len(field) ‖ field
//
// where len is a 4-byte big-endian length.
type Hasher interface {
	// Name identifies the hash construction.
	Name() string
	// Digest hashes tag and fields under the canonical framing.
	Digest(tag string, fields ...[]byte) []byte
}

func writeField(w io.Writer, field []byte) {
	var hdr [5]byte // zero separator, then the length
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(field)))
	_, _ = w.Write(hdr[:])
	_, _ = w.Write(field)
}

func writeFrame(w io.Writer, prefix, tag string, fields [][]byte) {
	_, _ = io.WriteString(w, prefix)
	writeField(w, []byte(tag))
	for _, f := range fields {
		writeField(w, f)
	}
}

func sum(h hash.Hash, prefix, tag string, fields [][]byte) []byte {
	writeFrame(h, prefix, tag, fields)
	return h.Sum(nil)
}

// SHA256Hasher implements Hasher using SHA-256.
// This is the default hasher.
type SHA256Hasher struct{}

const sha256Prefix = "PGS-SHA256-v1"

// Name returns the domain prefix.
func (SHA256Hasher) Name() string {
	return sha256Prefix
}

// Digest implements Hasher.Digest.
func (SHA256Hasher) Digest(tag string, fields ...[]byte) []byte {
	return sum(sha256.New(), sha256Prefix, tag, fields)
}

// Blake2bHasher implements Hasher using Blake2b-512.
type Blake2bHasher struct {
	// Prefix is the domain separation prefix.
	// Default: "PGS-BLAKE2B512-v1"
	Prefix string
}

// NewBlake2bHasher creates a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{
		Prefix: "PGS-BLAKE2B512-v1",
	}
}

// Name returns the domain prefix.
func (h *Blake2bHasher) Name() string {
	return h.Prefix
}

// Digest implements Hasher.Digest.
func (h *Blake2bHasher) Digest(tag string, fields ...[]byte) []byte {
	hasher, _ := blake2b.New512(nil)
	return sum(hasher, h.Prefix, tag, fields)
}

// Blake3Hasher implements Hasher using BLAKE3 in extendable-output mode,
// reading a 64-byte digest.
type Blake3Hasher struct {
	// Prefix is the domain separation prefix.
	// Default: "PGS-BLAKE3-v1"
	Prefix string
}

// NewBlake3Hasher creates a Blake3Hasher with the default prefix.
func NewBlake3Hasher() *Blake3Hasher {
	return &Blake3Hasher{
		Prefix: "PGS-BLAKE3-v1",
	}
}

// Name returns the domain prefix.
func (h *Blake3Hasher) Name() string {
	return h.Prefix
}

// Digest implements Hasher.Digest.
func (h *Blake3Hasher) Digest(tag string, fields ...[]byte) []byte {
	hasher := blake3.New()
	writeFrame(hasher, h.Prefix, tag, fields)
	out := make([]byte, 64)
	if _, err := io.ReadFull(hasher.Digest(), out); err != nil {
		panic("pgs: blake3 digest: " + err.Error())
	}
	return out
}

// reversed returns a copy of b in reverse order. Digests are read as
// little-endian integers.
func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

// digestToScalar interprets a digest as a little-endian integer and reduces
// it modulo the group order.
func digestToScalar(g group.Group, digest []byte) group.Scalar {
	return g.NewScalar().SetBytesWide(reversed(digest))
}

// digestToInt interprets a digest as a little-endian integer.
func digestToInt(digest []byte) *big.Int {
	return new(big.Int).SetBytes(reversed(digest))
}

// pseudonymMask is the value XORed onto an identity: H(R ‖ GMPublic).
func pseudonymMask(h Hasher, R, gmPublic group.Point) *big.Int {
	return digestToInt(h.Digest(tagPseudonym, R.Bytes(), gmPublic.Bytes()))
}

// pseudonym computes PID = identity XOR H(R ‖ GMPublic).
func pseudonym(h Hasher, identity *big.Int, R, gmPublic group.Point) *big.Int {
	return new(big.Int).Xor(identity, pseudonymMask(h, R, gmPublic))
}

// BindingExponent computes e = H(R ‖ PID), the scalar tying a credential to
// its issuing point. The group manager, the member and the tracing
// authority all derive it through this function.
func BindingExponent(g group.Group, h Hasher, R group.Point, pid *big.Int) group.Scalar {
	return digestToScalar(g, h.Digest(tagBinding, R.Bytes(), pid.Bytes()))
}

// challenge computes H = H(P ‖ message ‖ R' ‖ A) for signing and
// verification.
func challenge(g group.Group, h Hasher, P group.Scalar, message []byte, RPrime, A group.Point) group.Scalar {
	return digestToScalar(g, h.Digest(tagChallenge, P.Bytes(), message, RPrime.Bytes(), A.Bytes()))
}

// PasswordVerifier computes PWV = H(H(identity ‖ auxSecret) ‖ S).
//
// The inner digest binds the identity and the auxiliary secret, the outer
// one binds the result to the credential scalar S. PWV is only used to
// re-authenticate a member locally; signing and verification never read it.
func PasswordVerifier(g group.Group, h Hasher, identity, auxSecret *big.Int, S group.Scalar) group.Scalar {
	inner := h.Digest(tagPassword, identity.Bytes(), auxSecret.Bytes())
	return digestToScalar(g, h.Digest(tagPasswordVerifier, inner, S.Bytes()))
}
