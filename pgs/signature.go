package pgs

import (
	"github.com/f3rmion/pgs/group"
	"github.com/pkg/errors"
)

// GroupSignature is a self-contained signature over one message. It
// carries no identity or pseudonym in the clear.
type GroupSignature struct {
	P      group.Scalar // c*e, the re-randomized binding exponent
	RPrime group.Point  // c*R
	A      group.Point  // a*G
	Ver    group.Scalar // a + c*S*H
}

// SignatureSize returns the length of an encoded signature over g.
func SignatureSize(g group.Group) int {
	return 2*g.ScalarSize() + 2*g.PointSize()
}

// MarshalBinary encodes the signature as P ‖ R' ‖ A ‖ Ver using the
// canonical fixed-width encoding of each field, with no other framing.
func (s *GroupSignature) MarshalBinary() ([]byte, error) {
	if s.P == nil || s.RPrime == nil || s.A == nil || s.Ver == nil {
		return nil, errors.Wrap(ErrInvalidInput, "marshal: incomplete signature")
	}
	fields := [][]byte{s.P.Bytes(), s.RPrime.Bytes(), s.A.Bytes(), s.Ver.Bytes()}
	n := 0
	for _, f := range fields {
		n += len(f)
	}
	out := make([]byte, 0, n)
	for _, f := range fields {
		out = append(out, f...)
	}
	return out, nil
}

// UnmarshalSignature decodes a signature produced by MarshalBinary. Any
// malformed field yields an error wrapping ErrDecoding.
func UnmarshalSignature(g group.Group, data []byte) (*GroupSignature, error) {
	if len(data) != SignatureSize(g) {
		return nil, errors.Wrapf(ErrDecoding, "signature: expected %d bytes, got %d", SignatureSize(g), len(data))
	}
	ss, ps := g.ScalarSize(), g.PointSize()

	P, err := group.DecodeScalar(g, data[:ss])
	if err != nil {
		return nil, errors.Wrap(err, "signature: P")
	}
	data = data[ss:]
	RPrime, err := group.DecodePoint(g, data[:ps])
	if err != nil {
		return nil, errors.Wrap(err, "signature: R'")
	}
	data = data[ps:]
	A, err := group.DecodePoint(g, data[:ps])
	if err != nil {
		return nil, errors.Wrap(err, "signature: A")
	}
	data = data[ps:]
	Ver, err := group.DecodeScalar(g, data)
	if err != nil {
		return nil, errors.Wrap(err, "signature: Ver")
	}

	return &GroupSignature{P: P, RPrime: RPrime, A: A, Ver: Ver}, nil
}

// Equal reports whether s and o have identical fields.
func (s *GroupSignature) Equal(o *GroupSignature) bool {
	return s.P.Equal(o.P) && s.RPrime.Equal(o.RPrime) && s.A.Equal(o.A) && s.Ver.Equal(o.Ver)
}
