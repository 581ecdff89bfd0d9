package pgs

import (
	"github.com/f3rmion/pgs/group"
	"github.com/pkg/errors"
)

// Verifier checks group signatures against the group manager public key.
// It never sees a pseudonym, identity or credential.
type Verifier struct {
	group    group.Group
	gmPublic group.Point
	hasher   Hasher
	logger   Logger
}

// NewVerifier returns a Verifier for signatures issued under gmPublic.
// The hasher option must match the group manager's.
//
// A nil group, a nil key or the identity key yields a Verifier that
// rejects every signature with ErrInvalidInput.
func NewVerifier(g group.Group, gmPublic group.Point, opts ...Option) *Verifier {
	cfg := newConfig(opts)
	v := &Verifier{
		group:  g,
		hasher: cfg.hasher,
		logger: cfg.logger,
	}
	if g == nil || gmPublic == nil || gmPublic.IsIdentity() {
		cfg.logger.Errorf("verifier: unusable group manager key")
		return v
	}
	v.gmPublic = g.NewPoint().Set(gmPublic)
	return v
}

func (v *Verifier) ready() error {
	if v.group == nil || v.gmPublic == nil {
		return errors.Wrap(ErrInvalidInput, "verifier: missing group or group manager key")
	}
	return nil
}

// PublicKey returns a copy of the group manager public key, or nil if the
// Verifier was built without a usable key.
func (v *Verifier) PublicKey() group.Point {
	if v.ready() != nil {
		return nil
	}
	return v.group.NewPoint().Set(v.gmPublic)
}

// Verify checks sig over message:
//
//	PKmu = R' + P*GMPublic
//	H    = H(P ‖ message ‖ R' ‖ A)
//	Ver*G == A + H*PKmu
//
// It returns nil on success and an error wrapping ErrSignatureInvalid
// otherwise.
func (v *Verifier) Verify(sig *GroupSignature, message []byte) error {
	if err := v.ready(); err != nil {
		return err
	}
	if sig == nil || sig.P == nil || sig.RPrime == nil || sig.A == nil || sig.Ver == nil {
		return errors.Wrap(ErrSignatureInvalid, "incomplete signature")
	}
	if sig.P.IsZero() || sig.RPrime.IsIdentity() || sig.A.IsIdentity() {
		return errors.Wrap(ErrSignatureInvalid, "degenerate signature component")
	}
	g := v.group

	PKmu := g.NewPoint().ScalarMult(sig.P, v.gmPublic)
	PKmu = g.NewPoint().Add(sig.RPrime, PKmu)

	H := challenge(g, v.hasher, sig.P, message, sig.RPrime, sig.A)

	left := g.NewPoint().ScalarMult(sig.Ver, g.Generator())
	right := g.NewPoint().ScalarMult(H, PKmu)
	right = g.NewPoint().Add(sig.A, right)

	if !left.Equal(right) {
		v.logger.Debugf("verify: equation does not hold")
		return ErrSignatureInvalid
	}
	return nil
}

// VerifyBytes decodes an encoded signature and verifies it. Decoding
// failures are returned as ErrDecoding, not as ErrSignatureInvalid.
func (v *Verifier) VerifyBytes(data, message []byte) error {
	if err := v.ready(); err != nil {
		return err
	}
	sig, err := UnmarshalSignature(v.group, data)
	if err != nil {
		return err
	}
	return v.Verify(sig, message)
}
