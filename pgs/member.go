package pgs

import (
	"io"
	"math/big"

	"github.com/f3rmion/pgs/group"
	"github.com/pkg/errors"
)

// Member is a credential issued by a GroupManager that has not been
// checked yet. Call Setup to obtain a VerifiedMember, the only type that
// can sign.
type Member struct {
	Identity *big.Int     // real identity
	R        group.Point  // r*G for the issuing ephemeral scalar r
	S        group.Scalar // r + H(R ‖ PID)*secret
	PID      *big.Int     // pseudonym
	PWV      group.Scalar // password verifier
	GMPublic group.Point  // issuing group manager public key

	group  group.Group
	hasher Hasher
}

// Group returns the group the credential lives in.
func (m *Member) Group() group.Group {
	return m.group
}

func (m *Member) complete() error {
	if m.group == nil || m.hasher == nil {
		return errors.Wrap(ErrInvalidInput, "member was not issued by a group manager")
	}
	if m.Identity == nil || m.R == nil || m.S == nil || m.PID == nil || m.PWV == nil || m.GMPublic == nil {
		return errors.Wrap(ErrCredentialInvalid, "missing credential field")
	}
	return nil
}

func (m *Member) clone() Member {
	g := m.group
	return Member{
		Identity: new(big.Int).Set(m.Identity),
		R:        g.NewPoint().Set(m.R),
		S:        g.NewScalar().Set(m.S),
		PID:      new(big.Int).Set(m.PID),
		PWV:      g.NewScalar().Set(m.PWV),
		GMPublic: g.NewPoint().Set(m.GMPublic),
		group:    g,
		hasher:   m.hasher,
	}
}

// Setup checks the credential without contacting the group manager:
//
//	S*G == R + H(R ‖ PID)*GMPublic
//
// On success it returns a VerifiedMember holding a snapshot of the
// credential and the derived public key R + e*GMPublic. Repeated calls on an
// unchanged Member return equivalent values.
func (m *Member) Setup() (*VerifiedMember, error) {
	if err := m.complete(); err != nil {
		return nil, err
	}
	g := m.group

	e := BindingExponent(g, m.hasher, m.R, m.PID)
	left := g.NewPoint().ScalarMult(m.S, g.Generator())
	right := g.NewPoint().ScalarMult(e, m.GMPublic)
	right = g.NewPoint().Add(m.R, right)

	if !left.Equal(right) {
		return nil, ErrCredentialInvalid
	}
	return &VerifiedMember{
		member:        m.clone(),
		e:             e,
		derivedPublic: right,
	}, nil
}

// Authenticate checks identity and auxSecret against the password
// verifier without involving the group manager.
func (m *Member) Authenticate(identity, auxSecret *big.Int) error {
	if err := m.complete(); err != nil {
		return err
	}
	if err := checkNatural(identity, "identity"); err != nil {
		return err
	}
	if err := checkNatural(auxSecret, "auxiliary secret"); err != nil {
		return err
	}
	if identity.Cmp(m.Identity) != 0 {
		return ErrAuthenticationFailed
	}
	if !PasswordVerifier(m.group, m.hasher, identity, auxSecret, m.S).Equal(m.PWV) {
		return ErrAuthenticationFailed
	}
	return nil
}

// VerifiedMember is a credential that passed Setup. It is immutable and
// safe for concurrent use, provided each Sign call gets a random source
// that is itself safe to read from concurrently.
type VerifiedMember struct {
	member        Member
	e             group.Scalar // H(R ‖ PID)
	derivedPublic group.Point  // R + e*GMPublic == S*G
}

// Member returns a copy of the underlying credential.
func (vm *VerifiedMember) Member() *Member {
	m := vm.member.clone()
	return &m
}

// DerivedPublic returns the member public key S*G established by Setup.
func (vm *VerifiedMember) DerivedPublic() group.Point {
	return vm.member.group.NewPoint().Set(vm.derivedPublic)
}

// Authenticate is Member.Authenticate on the verified credential.
func (vm *VerifiedMember) Authenticate(identity, auxSecret *big.Int) error {
	return vm.member.Authenticate(identity, auxSecret)
}

// Sign produces an unlinkable signature over message. Each call samples a
// blinding scalar a and a randomizer c:
//
//	A   = a*G
//	P   = c*e
//	R'  = c*R
//	S'  = c*S
//	H   = H(P ‖ message ‖ R' ‖ A)
//	Ver = a + S'*H
//
// A zero P or Ver makes the call start over with new a and c.
func (vm *VerifiedMember) Sign(rng io.Reader, message []byte) (*GroupSignature, error) {
	if rng == nil {
		return nil, errors.Wrap(ErrInvalidInput, "sign: nil random source")
	}
	m := &vm.member
	g := m.group

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		a, err := group.RandomNonZeroScalar(g, rng)
		if err != nil {
			return nil, errors.Wrap(err, "sign: sample blinding scalar")
		}
		c, err := group.RandomNonZeroScalar(g, rng)
		if err != nil {
			return nil, errors.Wrap(err, "sign: sample randomizer")
		}

		A := g.NewPoint().ScalarMult(a, g.Generator())
		P := g.NewScalar().Mul(c, vm.e)
		if P.IsZero() {
			continue
		}
		RPrime := g.NewPoint().ScalarMult(c, m.R)
		SPrime := g.NewScalar().Mul(c, m.S)

		H := challenge(g, m.hasher, P, message, RPrime, A)
		Ver := g.NewScalar().Mul(SPrime, H)
		Ver = g.NewScalar().Add(a, Ver)
		if Ver.IsZero() {
			continue
		}

		return &GroupSignature{
			P:      P,
			RPrime: RPrime,
			A:      A,
			Ver:    Ver,
		}, nil
	}
	return nil, errors.Wrapf(ErrDegenerate, "sign: %d attempts", maxAttempts)
}
