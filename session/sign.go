package session

import (
	"crypto/rand"
	"io"
	"math/big"
	"sync"

	"github.com/f3rmion/pgs/group"
	"github.com/f3rmion/pgs/pgs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Holder manages the lifecycle of one member credential: a one-time
// Setup followed by any number of signatures.
//
// Create holders using [NewHolder]. A Holder is safe for concurrent use.
type Holder struct {
	member *pgs.Member
	logger pgs.Logger

	rngMu sync.Mutex
	rng   io.Reader

	once     sync.Once
	verified *pgs.VerifiedMember
	setupErr error
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithRand sets the random source. The default is crypto/rand.Reader.
// Reads are serialized, so the reader need not be safe for concurrent use.
func WithRand(r io.Reader) HolderOption {
	return func(h *Holder) {
		if r != nil {
			h.rng = r
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l pgs.Logger) HolderOption {
	return func(h *Holder) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHolder wraps a credential received from an Authority.
func NewHolder(member *pgs.Member, opts ...HolderOption) *Holder {
	h := &Holder{
		member: member,
		rng:    rand.Reader,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Setup checks the credential. The check runs once; later calls return
// the first outcome.
func (h *Holder) Setup() error {
	h.once.Do(func() {
		if h.member == nil {
			h.setupErr = errors.Wrap(pgs.ErrInvalidInput, "session: nil member")
			return
		}
		h.verified, h.setupErr = h.member.Setup()
		if h.setupErr != nil {
			h.logger.Errorf("credential rejected: %v", h.setupErr)
			return
		}
		h.logger.Debugf("credential accepted")
	})
	return h.setupErr
}

// Ready reports whether Setup succeeded.
func (h *Holder) Ready() bool {
	return h.Setup() == nil
}

// PublicKey returns the derived member public key, or nil before a
// successful Setup.
func (h *Holder) PublicKey() group.Point {
	if !h.Ready() {
		return nil
	}
	return h.verified.DerivedPublic()
}

// Sign runs Setup if needed and signs message with fresh randomness.
func (h *Holder) Sign(message []byte) (*pgs.GroupSignature, error) {
	if err := h.Setup(); err != nil {
		return nil, &notReadyError{cause: err}
	}
	return h.verified.Sign(readerFunc(h.read), message)
}

// Authenticate checks identity and auxSecret against the stored password
// verifier.
func (h *Holder) Authenticate(identity, auxSecret *big.Int) error {
	if h.member == nil {
		return errors.Wrap(pgs.ErrInvalidInput, "session: nil member")
	}
	return h.member.Authenticate(identity, auxSecret)
}

func (h *Holder) read(p []byte) (int, error) {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return h.rng.Read(p)
}

// notReadyError reports a failed Setup. It matches ErrNotReady and keeps
// the original setup error in its chain.
type notReadyError struct {
	cause error
}

func (e *notReadyError) Error() string {
	return ErrNotReady.Error() + ": " + e.cause.Error()
}

func (e *notReadyError) Is(target error) bool {
	return target == ErrNotReady
}

func (e *notReadyError) Unwrap() error {
	return e.cause
}

// Cause lets errors.Cause from github.com/pkg/errors reach the setup error.
func (e *notReadyError) Cause() error {
	return e.cause
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) {
	return f(p)
}

// Verify checks an encoded signature against message.
//
// Returns nil if the signature is valid, or an error describing why it is
// not. Malformed encodings wrap pgs.ErrDecoding.
func Verify(v *pgs.Verifier, data, message []byte) error {
	if v == nil {
		return errors.Wrap(pgs.ErrInvalidInput, "session: nil verifier")
	}
	return v.VerifyBytes(data, message)
}
