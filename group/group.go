package group

import (
	"io"
)

// Scalar represents an element of the scalar field associated with a
// cryptographic group. Scalars are integers modulo the group order and
// are used as exponents in scalar multiplication.
//
// All arithmetic methods use a mutable receiver pattern: they modify
// the receiver, store the result in it, and return it.
//
// Implementations must ensure all operations produce results in the
// valid range [0, order).
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// Bytes returns the canonical fixed-width encoding of the scalar.
	Bytes() []byte
	// SetBytes sets the receiver from its canonical encoding and returns it.
	// Returns an error wrapping ErrDecoding if the length is wrong or the
	// value is not reduced.
	SetBytes(data []byte) (Scalar, error)
	// SetBytesWide sets the receiver to the big-endian integer data reduced
	// modulo the group order. Any length is accepted.
	SetBytesWide(data []byte) Scalar
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
}

// Point represents an element of a cryptographic group, typically a point
// on an elliptic curve. Points support addition, subtraction, negation,
// and scalar multiplication.
//
// Like [Scalar], all arithmetic methods use a mutable receiver pattern.
//
// The identity element (zero point, point at infinity) is the additive
// identity: P + Identity = P for all points P.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical fixed-width encoding of the point.
	Bytes() []byte
	// SetBytes sets the receiver from a canonical encoding and returns it.
	// Returns an error wrapping ErrDecoding if the data does not encode an
	// element of the prime-order group.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group defines a prime-order group suitable for the pseudonymous group
// signature protocol. It provides factory methods for scalars and points,
// the group's generator, random sampling and encoding sizes.
//
// A Group implementation encapsulates all curve-specific details, allowing
// the protocol to be generic over different elliptic curves.
//
// Example usage:
//
//	g := &bjj.BJJ{}  // or any other Group implementation
//	scalar, _ := g.RandomScalar(rand.Reader)
//	point := g.NewPoint().ScalarMult(scalar, g.Generator())
type Group interface {
	// Name returns a short identifier of the group.
	Name() string
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// RandomScalar returns a uniformly random scalar read from r.
	// The result may be zero; see RandomNonZeroScalar.
	RandomScalar(r io.Reader) (Scalar, error)
	// Order returns the group order as a big-endian byte slice.
	Order() []byte
	// ScalarSize returns the length of a canonical scalar encoding.
	ScalarSize() int
	// PointSize returns the length of a canonical point encoding.
	PointSize() int
}
