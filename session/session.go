package session

import (
	"io"
	"math/big"
	"sync"

	"github.com/f3rmion/pgs/group"
	"github.com/f3rmion/pgs/pgs"
	"github.com/pkg/errors"
)

var (
	// ErrAlreadyRegistered is returned when an identity already holds a
	// credential from this authority.
	ErrAlreadyRegistered = errors.New("session: identity already registered")

	// ErrNotFound is returned by Trace when no registered credential
	// produced the signature.
	ErrNotFound = errors.New("session: no registered member matches")

	// ErrNotReady is returned when a Holder is used before Setup succeeded.
	ErrNotReady = errors.New("session: credential not set up")
)

// registration is what the authority keeps about an issued credential.
// The credential scalar S is not retained.
type registration struct {
	identity *big.Int
	r        group.Point
	pid      *big.Int
}

// Authority wraps a group manager with an in-memory registry of issued
// credentials, so that signatures can be traced back to identities.
// Create instances using [NewAuthority]. An Authority is safe for
// concurrent use.
type Authority struct {
	mu      sync.RWMutex
	gm      *pgs.GroupManager
	rng     io.Reader
	logger  pgs.Logger
	members map[string]*registration
	order   []string
}

// NewAuthority runs group manager setup over g. rng is used for setup and
// for every later registration; reads from it are serialized.
//
// Parameters:
//   - g: The group to use (e.g., &bjj.BJJ{})
//   - rng: Random source, typically crypto/rand.Reader
//   - opts: Hasher and logger options forwarded to pgs.Setup
func NewAuthority(g group.Group, rng io.Reader, opts ...pgs.Option) (*Authority, error) {
	gm, err := pgs.Setup(g, rng, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "session: group manager setup")
	}
	return &Authority{
		gm:      gm,
		rng:     rng,
		logger:  gm.Logger(),
		members: make(map[string]*registration),
	}, nil
}

// GroupManager returns the underlying group manager for advanced use cases.
func (a *Authority) GroupManager() *pgs.GroupManager {
	return a.gm
}

// PublicKey returns the group manager public key.
func (a *Authority) PublicKey() group.Point {
	return a.gm.PublicKey()
}

// Verifier returns a verifier configured with the authority's group and
// hasher.
func (a *Authority) Verifier() *pgs.Verifier {
	return pgs.NewVerifier(a.gm.Group(), a.gm.PublicKey(),
		pgs.WithHasher(a.gm.Hasher()), pgs.WithLogger(a.logger))
}

// Len returns the number of registered members.
func (a *Authority) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.order)
}

// Register issues a credential for identity. Each identity can be
// registered once.
//
// The returned member must be handed to its owner over a confidential
// channel; it carries the credential scalar.
func (a *Authority) Register(identity, auxSecret *big.Int) (*pgs.Member, error) {
	if identity == nil {
		return nil, errors.Wrap(pgs.ErrInvalidInput, "session: nil identity")
	}
	key := identity.String()

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.members[key]; exists {
		return nil, errors.Wrapf(ErrAlreadyRegistered, "identity %s", key)
	}

	member, err := a.gm.RegisterMember(a.rng, identity, auxSecret)
	if err != nil {
		return nil, errors.Wrap(err, "session: register member")
	}

	a.members[key] = &registration{
		identity: new(big.Int).Set(identity),
		r:        a.gm.Group().NewPoint().Set(member.R),
		pid:      new(big.Int).Set(member.PID),
	}
	a.order = append(a.order, key)
	a.logger.Infof("registered member %d of %s", len(a.order), a.gm.Group().Name())

	return member, nil
}

// Trace finds the registered member that produced sig and returns its
// identity. It returns ErrNotFound if no credential links to sig.
//
// Trace does not verify sig; check it with a Verifier first.
func (a *Authority) Trace(sig *pgs.GroupSignature) (*big.Int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, key := range a.order {
		reg := a.members[key]
		if !a.gm.Links(sig, reg.r, reg.pid) {
			continue
		}
		identity := a.gm.Open(reg.r, reg.pid)
		if identity.Cmp(reg.identity) != 0 {
			// The registry and the pseudonym disagree; refuse to guess.
			a.logger.Errorf("trace: pseudonym of registration %s does not open to its identity", key)
			return nil, errors.Wrap(ErrNotFound, "inconsistent registration")
		}
		a.logger.Infof("traced signature to a registered member")
		return identity, nil
	}
	a.logger.Warnf("trace: signature links to none of %d members", len(a.order))
	return nil, ErrNotFound
}
