// Package secp256k1 implements [group.Group] over the secp256k1 curve using
// the decred dcrd secp256k1 library.
//
// Scalars are 32-byte big-endian integers below the group order. Points are
// 33-byte SEC1 compressed encodings. Reduction of wide inputs (hash digests,
// random samples) goes through saferith so every input length is handled
// the same way.
package secp256k1
