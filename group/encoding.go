package group

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrDecoding is returned when bytes do not encode a valid group element
	// or scalar.
	ErrDecoding = errors.New("group: invalid encoding")

	// ErrZeroScalar is returned when the random source keeps producing zero.
	ErrZeroScalar = errors.New("group: random source produced only zero scalars")
)

// maxSampleAttempts bounds rejection sampling of non-zero scalars. A sound
// random source hits zero with negligible probability, so running out of
// attempts means the source is broken.
const maxSampleAttempts = 64

// RandomNonZeroScalar samples scalars from r until one is non-zero.
func RandomNonZeroScalar(g Group, r io.Reader) (Scalar, error) {
	for i := 0; i < maxSampleAttempts; i++ {
		s, err := g.RandomScalar(r)
		if err != nil {
			return nil, errors.Wrap(err, "group: sample scalar")
		}
		if !s.IsZero() {
			return s, nil
		}
	}
	return nil, ErrZeroScalar
}

// DecodePoint decodes a canonical point encoding of g. Wrong lengths,
// invalid encodings and the identity element are all rejected with an
// error wrapping ErrDecoding.
func DecodePoint(g Group, data []byte) (Point, error) {
	if len(data) != g.PointSize() {
		return nil, errors.Wrapf(ErrDecoding, "%s point: expected %d bytes, got %d", g.Name(), g.PointSize(), len(data))
	}
	p, err := g.NewPoint().SetBytes(data)
	if err != nil {
		return nil, err
	}
	if p.IsIdentity() {
		return nil, errors.Wrapf(ErrDecoding, "%s point: identity element", g.Name())
	}
	return p, nil
}

// DecodeScalar decodes a canonical scalar encoding of g.
func DecodeScalar(g Group, data []byte) (Scalar, error) {
	if len(data) != g.ScalarSize() {
		return nil, errors.Wrapf(ErrDecoding, "%s scalar: expected %d bytes, got %d", g.Name(), g.ScalarSize(), len(data))
	}
	return g.NewScalar().SetBytes(data)
}

// ScalarFromUint64 returns the scalar n in g.
func ScalarFromUint64(g Group, n uint64) Scalar {
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	return g.NewScalar().SetBytesWide(buf)
}
