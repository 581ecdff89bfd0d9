package secp256k1

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	dsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/f3rmion/pgs/group"
	"github.com/pkg/errors"
)

const (
	scalarSize = 32
	pointSize  = 33
	wideSize   = 64
)

var orderModulus = saferith.ModulusFromBytes(dsecp.Params().N.Bytes())

// Scalar is an integer modulo the secp256k1 group order.
type Scalar struct {
	value dsecp.ModNScalar
}

func castScalar(generic group.Scalar) *Scalar {
	out, ok := generic.(*Scalar)
	if !ok {
		panic(fmt.Sprintf("secp256k1: expected *Scalar, got %T", generic))
	}
	return out
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.value.Add2(&castScalar(a).value, &castScalar(b).value)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var neg dsecp.ModNScalar
	neg.NegateVal(&castScalar(b).value)
	s.value.Add2(&castScalar(a).value, &neg)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.value.Mul2(&castScalar(a).value, &castScalar(b).value)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.value.NegateVal(&castScalar(a).value)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	other := castScalar(a)
	if other.value.IsZero() {
		return nil, errors.New("secp256k1: cannot invert zero scalar")
	}
	s.value.InverseValNonConst(&other.value)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.value.Set(&castScalar(a).value)
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	data := s.value.Bytes()
	return data[:]
}

// SetBytes sets s from a 32-byte big-endian encoding. Values not below
// the group order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != scalarSize {
		return nil, errors.Wrapf(group.ErrDecoding, "secp256k1 scalar: expected %d bytes, got %d", scalarSize, len(data))
	}
	var exact [scalarSize]byte
	copy(exact[:], data)
	var v dsecp.ModNScalar
	if v.SetBytes(&exact) != 0 {
		return nil, errors.Wrap(group.ErrDecoding, "secp256k1 scalar: value not reduced")
	}
	s.value.Set(&v)
	return s, nil
}

// SetBytesWide sets s to the big-endian integer data reduced modulo the
// group order.
func (s *Scalar) SetBytesWide(data []byte) group.Scalar {
	x := new(saferith.Nat).SetBytes(data)
	x.Mod(x, orderModulus)
	var buf [scalarSize]byte
	x.FillBytes(buf[:])
	s.value.SetBytes(&buf)
	return s
}

// Equal reports whether s equals b.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.value.Equals(&castScalar(b).value)
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.value.IsZero()
}

// Point is an element of the secp256k1 group in Jacobian coordinates.
type Point struct {
	value dsecp.JacobianPoint
}

func castPoint(generic group.Point) *Point {
	out, ok := generic.(*Point)
	if !ok {
		panic(fmt.Sprintf("secp256k1: expected *Point, got %T", generic))
	}
	return out
}

func isInfinity(p *dsecp.JacobianPoint) bool {
	x, y, z := p.X, p.Y, p.Z
	x.Normalize()
	y.Normalize()
	z.Normalize()
	return (x.IsZero() && y.IsZero()) || z.IsZero()
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	var out dsecp.JacobianPoint
	dsecp.AddNonConst(&castPoint(a).value, &castPoint(b).value, &out)
	p.value.Set(&out)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var neg Point
	neg.Negate(b)
	return p.Add(a, &neg)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	out := castPoint(a).value
	if isInfinity(&out) {
		p.value = dsecp.JacobianPoint{}
		return p
	}
	out.ToAffine()
	out.Y.Negate(1).Normalize()
	p.value.Set(&out)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	var out dsecp.JacobianPoint
	dsecp.ScalarMultNonConst(&castScalar(s).value, &castPoint(q).value, &out)
	p.value.Set(&out)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.value.Set(&castPoint(a).value)
	return p
}

// Bytes returns the 33-byte SEC1 compressed encoding of p. The identity
// has no SEC1 compressed form and is written as 33 zero bytes, which
// SetBytes rejects.
func (p *Point) Bytes() []byte {
	if isInfinity(&p.value) {
		return make([]byte, pointSize)
	}
	affine := p.value
	affine.ToAffine()
	return dsecp.NewPublicKey(&affine.X, &affine.Y).SerializeCompressed()
}

// SetBytes sets p from a 33-byte SEC1 compressed encoding.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointSize {
		return nil, errors.Wrapf(group.ErrDecoding, "secp256k1 point: expected %d bytes, got %d", pointSize, len(data))
	}
	pub, err := dsecp.ParsePubKey(data)
	if err != nil {
		return nil, errors.Wrapf(group.ErrDecoding, "secp256k1 point: %v", err)
	}
	pub.AsJacobian(&p.value)
	return p, nil
}

// Equal reports whether p and b are the same group element.
func (p *Point) Equal(b group.Point) bool {
	x, y := p.value, castPoint(b).value
	xInf, yInf := isInfinity(&x), isInfinity(&y)
	if xInf || yInf {
		return xInf == yInf
	}
	x.ToAffine()
	y.ToAffine()
	return x.X.Equals(&y.X) && x.Y.Equals(&y.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return isInfinity(&p.value)
}

// Secp256k1 implements [group.Group] for the secp256k1 curve.
type Secp256k1 struct{}

// Name returns "secp256k1".
func (g *Secp256k1) Name() string {
	return "secp256k1"
}

// NewScalar returns a new zero scalar.
func (g *Secp256k1) NewScalar() group.Scalar {
	return new(Scalar)
}

// NewPoint returns the point at infinity.
func (g *Secp256k1) NewPoint() group.Point {
	return new(Point)
}

// Generator returns the standard base point G.
func (g *Secp256k1) Generator() group.Point {
	var one dsecp.ModNScalar
	one.SetInt(1)
	p := new(Point)
	dsecp.ScalarBaseMultNonConst(&one, &p.value)
	return p
}

// RandomScalar reads 64 bytes from r and reduces them modulo the group
// order.
func (g *Secp256k1) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [wideSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "secp256k1: read randomness")
	}
	return new(Scalar).SetBytesWide(buf[:]), nil
}

// Order returns the group order as a big-endian byte slice.
func (g *Secp256k1) Order() []byte {
	return dsecp.Params().N.Bytes()
}

// ScalarSize returns 32.
func (g *Secp256k1) ScalarSize() int {
	return scalarSize
}

// PointSize returns 33.
func (g *Secp256k1) PointSize() int {
	return pointSize
}
