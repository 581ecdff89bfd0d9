// Package group defines abstract interfaces for the prime-order groups
// used by the pseudonymous group signature protocol in package pgs.
//
// This package provides three core interfaces that abstract over the
// mathematical operations the protocol needs:
//
//   - [Scalar]: Elements of the scalar field (integers modulo the group order)
//   - [Point]: Elements of the group (points on an elliptic curve)
//   - [Group]: Factory and utility methods for creating scalars and points
//
// # Design Philosophy
//
// The interfaces use a mutable receiver pattern for efficiency. Operations
// like Add, Mul, and ScalarMult set the receiver to the result and return it,
// allowing method chaining while minimizing allocations:
//
//	// Compute a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// Decoding never panics. Malformed input from outside the trust boundary
// is reported with an error wrapping [ErrDecoding], and [DecodePoint]
// additionally refuses the identity element.
//
// # Implementing a Group
//
// To implement these interfaces for a new elliptic curve:
//
//  1. Create a Scalar type that wraps your field element and implements [Scalar]
//  2. Create a Point type that wraps your curve point and implements [Point]
//  3. Create a Group type that implements [Group] as a factory
//
// See the bjj, secp256k1 and ed25519 packages for complete implementations.
//
// # Security Considerations
//
// Implementations must ensure:
//
//   - Scalar arithmetic is performed modulo the group order
//   - Random scalars are sampled with negligible bias from the supplied reader
//   - Points outside the prime-order subgroup are rejected in SetBytes
package group
