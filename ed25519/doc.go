// Package ed25519 implements [group.Group] over the prime-order subgroup
// of the edwards25519 curve, using filippo.io/edwards25519.
//
// Scalars use the 32-byte little-endian Ed25519 encoding and points the
// 32-byte compressed Edwards form. Decoding refuses non-canonical field
// encodings and any point with a small-order component.
package ed25519
