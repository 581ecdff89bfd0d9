package pgs

import (
	"io"
	"math/big"

	"github.com/f3rmion/pgs/group"
	"github.com/pkg/errors"
)

// KeyPair is the group manager's long-lived key. The secret never leaves
// the GroupManager that owns it.
type KeyPair struct {
	secret group.Scalar
	public group.Point // secret * G
}

// GroupManager holds the master key pair and issues credentials.
type GroupManager struct {
	group  group.Group
	keys   KeyPair
	hasher Hasher
	logger Logger
}

// Setup samples a fresh master secret over g and returns the group
// manager owning it.
func Setup(g group.Group, rng io.Reader, opts ...Option) (*GroupManager, error) {
	if g == nil || rng == nil {
		return nil, errors.Wrap(ErrInvalidInput, "setup: nil group or random source")
	}
	cfg := newConfig(opts)

	secret, err := group.RandomNonZeroScalar(g, rng)
	if err != nil {
		return nil, errors.Wrap(err, "setup: sample master secret")
	}
	public := g.NewPoint().ScalarMult(secret, g.Generator())

	cfg.logger.Debugf("group manager ready over %s using %s", g.Name(), cfg.hasher.Name())

	return &GroupManager{
		group:  g,
		keys:   KeyPair{secret: secret, public: public},
		hasher: cfg.hasher,
		logger: cfg.logger,
	}, nil
}

// Group returns the group the manager works over.
func (gm *GroupManager) Group() group.Group {
	return gm.group
}

// Hasher returns the hash construction shared with members and verifiers.
func (gm *GroupManager) Hasher() Hasher {
	return gm.hasher
}

// Logger returns the manager's logger.
func (gm *GroupManager) Logger() Logger {
	return gm.logger
}

// PublicKey returns a copy of the group manager public key.
func (gm *GroupManager) PublicKey() group.Point {
	return gm.group.NewPoint().Set(gm.keys.public)
}

// RegisterMember issues a credential for identity. auxSecret (typically a
// hashed password) is folded into the member's password verifier.
//
// Every call samples a fresh ephemeral scalar r:
//
//	R   = r*G
//	PID = identity XOR H(R ‖ GMPublic)
//	S   = r + H(R ‖ PID)*secret
//	PWV = PasswordVerifier(identity, auxSecret, S)
//
// A zero binding exponent, credential scalar or verifier makes the call
// start over with a new r.
func (gm *GroupManager) RegisterMember(rng io.Reader, identity, auxSecret *big.Int) (*Member, error) {
	if err := checkNatural(identity, "identity"); err != nil {
		return nil, err
	}
	if err := checkNatural(auxSecret, "auxiliary secret"); err != nil {
		return nil, err
	}
	g := gm.group

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		r, err := group.RandomNonZeroScalar(g, rng)
		if err != nil {
			return nil, errors.Wrap(err, "register: sample ephemeral scalar")
		}
		R := g.NewPoint().ScalarMult(r, g.Generator())
		if R.IsIdentity() {
			gm.logger.Debugf("register: identity R on attempt %d", attempt)
			continue
		}

		pid := pseudonym(gm.hasher, identity, R, gm.keys.public)

		e := BindingExponent(g, gm.hasher, R, pid)
		if e.IsZero() {
			gm.logger.Debugf("register: zero binding exponent on attempt %d", attempt)
			continue
		}
		S := g.NewScalar().Mul(e, gm.keys.secret)
		S = g.NewScalar().Add(r, S)
		if S.IsZero() {
			gm.logger.Debugf("register: zero credential scalar on attempt %d", attempt)
			continue
		}

		pwv := PasswordVerifier(g, gm.hasher, identity, auxSecret, S)
		if pwv.IsZero() {
			gm.logger.Debugf("register: zero password verifier on attempt %d", attempt)
			continue
		}

		return &Member{
			Identity: new(big.Int).Set(identity),
			R:        R,
			S:        S,
			PID:      pid,
			PWV:      pwv,
			GMPublic: gm.PublicKey(),
			group:    g,
			hasher:   gm.hasher,
		}, nil
	}
	return nil, errors.Wrapf(ErrDegenerate, "register: %d attempts", maxAttempts)
}

// Open recovers the identity hidden in a pseudonym issued with point R.
func (gm *GroupManager) Open(R group.Point, pid *big.Int) *big.Int {
	return new(big.Int).Xor(pid, pseudonymMask(gm.hasher, R, gm.keys.public))
}

// Links reports whether sig was produced by the holder of the credential
// issued with point R and pseudonym pid.
//
// A signature carries P = c*e and R' = c*R for the member's binding
// exponent e and a per-signature randomizer c, so the credential matches
// exactly when (P/e)*R equals R'. A zero P or an identity R' links to
// nothing, since c = 0 would match every credential.
func (gm *GroupManager) Links(sig *GroupSignature, R group.Point, pid *big.Int) bool {
	if sig == nil || sig.P == nil || sig.RPrime == nil || R == nil || pid == nil {
		return false
	}
	if sig.P.IsZero() || sig.RPrime.IsIdentity() || R.IsIdentity() {
		return false
	}
	g := gm.group
	e := BindingExponent(g, gm.hasher, R, pid)
	eInv, err := g.NewScalar().Invert(e)
	if err != nil {
		return false
	}
	c := g.NewScalar().Mul(sig.P, eInv)
	return g.NewPoint().ScalarMult(c, R).Equal(sig.RPrime)
}
