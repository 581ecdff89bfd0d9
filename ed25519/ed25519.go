package ed25519

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"filippo.io/edwards25519"
	"github.com/f3rmion/pgs/group"
	"github.com/pkg/errors"
)

const (
	scalarSize = 32
	pointSize  = 32
	wideSize   = 64
)

var (
	// order is l = 2^252 + 27742317777372353535851937790883648493.
	order, _ = new(big.Int).SetString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)

	minusOne = func() *edwards25519.Scalar {
		one := make([]byte, scalarSize)
		one[0] = 1
		s, err := edwards25519.NewScalar().SetCanonicalBytes(one)
		if err != nil {
			panic(err)
		}
		return edwards25519.NewScalar().Negate(s)
	}()
)

// Scalar is an integer modulo l. Its canonical encoding is the 32-byte
// little-endian form used by Ed25519.
type Scalar struct {
	inner edwards25519.Scalar
}

func castScalar(generic group.Scalar) *Scalar {
	out, ok := generic.(*Scalar)
	if !ok {
		panic(fmt.Sprintf("ed25519: expected *Scalar, got %T", generic))
	}
	return out
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(&castScalar(a).inner, &castScalar(b).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Subtract(&castScalar(a).inner, &castScalar(b).inner)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Multiply(&castScalar(a).inner, &castScalar(b).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Negate(&castScalar(a).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	other := castScalar(a)
	if other.IsZero() {
		return nil, errors.New("ed25519: cannot invert zero scalar")
	}
	s.inner.Invert(&other.inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&castScalar(a).inner)
	return s
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes sets s from a canonical 32-byte little-endian encoding.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != scalarSize {
		return nil, errors.Wrapf(group.ErrDecoding, "ed25519 scalar: expected %d bytes, got %d", scalarSize, len(data))
	}
	if _, err := s.inner.SetCanonicalBytes(data); err != nil {
		return nil, errors.Wrapf(group.ErrDecoding, "ed25519 scalar: %v", err)
	}
	return s, nil
}

// SetBytesWide sets s to the big-endian integer data reduced modulo l.
// Unlike Bytes, the input here is big-endian so that every backend reads
// digests the same way.
func (s *Scalar) SetBytesWide(data []byte) group.Scalar {
	if len(data) <= wideSize {
		var le [wideSize]byte
		for i, b := range data {
			le[len(data)-1-i] = b
		}
		if _, err := s.inner.SetUniformBytes(le[:]); err != nil {
			panic(err)
		}
		return s
	}
	x := new(big.Int).SetBytes(data)
	x.Mod(x, order)
	be := x.FillBytes(make([]byte, scalarSize))
	le := make([]byte, scalarSize)
	for i, b := range be {
		le[scalarSize-1-i] = b
	}
	if _, err := s.inner.SetCanonicalBytes(le); err != nil {
		panic(err)
	}
	return s
}

// Equal reports whether s equals b.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(&castScalar(b).inner) == 1
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	var zero edwards25519.Scalar
	return s.inner.Equal(&zero) == 1
}

// Point is an element of the edwards25519 group.
type Point struct {
	inner edwards25519.Point
}

func newPoint() *Point {
	p := new(Point)
	p.inner.Set(edwards25519.NewIdentityPoint())
	return p
}

func castPoint(generic group.Point) *Point {
	out, ok := generic.(*Point)
	if !ok {
		panic(fmt.Sprintf("ed25519: expected *Point, got %T", generic))
	}
	return out
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&castPoint(a).inner, &castPoint(b).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Subtract(&castPoint(a).inner, &castPoint(b).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Negate(&castPoint(a).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(&castScalar(s).inner, &castPoint(q).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&castPoint(a).inner)
	return p
}

// Bytes returns the 32-byte canonical encoding of p.
func (p *Point) Bytes() []byte {
	return p.inner.Bytes()
}

// SetBytes sets p from a canonical 32-byte encoding. Non-canonical
// encodings (y >= p, or a set sign bit with x = 0) and points with a
// torsion component are rejected, so only the prime-order subgroup is
// accepted.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointSize {
		return nil, errors.Wrapf(group.ErrDecoding, "ed25519 point: expected %d bytes, got %d", pointSize, len(data))
	}
	q, err := edwards25519.NewIdentityPoint().SetBytes(data)
	if err != nil {
		return nil, errors.Wrapf(group.ErrDecoding, "ed25519 point: %v", err)
	}
	if !bytes.Equal(q.Bytes(), data) {
		return nil, errors.Wrap(group.ErrDecoding, "ed25519 point: non-canonical encoding")
	}
	// l*Q = (l-1)*Q + Q is the identity only for torsion-free Q.
	t := edwards25519.NewIdentityPoint().ScalarMult(minusOne, q)
	t.Add(t, q)
	if t.Equal(edwards25519.NewIdentityPoint()) != 1 {
		return nil, errors.Wrap(group.ErrDecoding, "ed25519 point: not in prime-order subgroup")
	}
	p.inner.Set(q)
	return p, nil
}

// Equal reports whether p equals b.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&castPoint(b).inner) == 1
}

// IsIdentity reports whether p is the identity element.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}

// Ed25519 implements [group.Group] for the prime-order subgroup of
// edwards25519.
type Ed25519 struct{}

// Name returns "edwards25519".
func (g *Ed25519) Name() string {
	return "edwards25519"
}

// NewScalar returns a new zero scalar.
func (g *Ed25519) NewScalar() group.Scalar {
	return new(Scalar)
}

// NewPoint returns a new identity point.
func (g *Ed25519) NewPoint() group.Point {
	return newPoint()
}

// Generator returns the standard Ed25519 base point.
func (g *Ed25519) Generator() group.Point {
	p := new(Point)
	p.inner.Set(edwards25519.NewGeneratorPoint())
	return p
}

// RandomScalar reads 64 bytes from r and reduces them modulo l.
func (g *Ed25519) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [wideSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "ed25519: read randomness")
	}
	s := new(Scalar)
	if _, err := s.inner.SetUniformBytes(buf[:]); err != nil {
		return nil, err
	}
	return s, nil
}

// Order returns l as a big-endian byte slice.
func (g *Ed25519) Order() []byte {
	return order.Bytes()
}

// ScalarSize returns 32.
func (g *Ed25519) ScalarSize() int {
	return scalarSize
}

// PointSize returns 32.
func (g *Ed25519) PointSize() int {
	return pointSize
}
