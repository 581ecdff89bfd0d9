package pgs

import (
	"math/big"

	"github.com/f3rmion/pgs/group"
	"github.com/pkg/errors"
)

var (
	// ErrDecoding reports bytes that do not encode a valid group element,
	// scalar or signature. It is the same value as group.ErrDecoding.
	ErrDecoding = group.ErrDecoding

	// ErrCredentialInvalid is returned by Member.Setup when the issued
	// (R, S, PID) triple is inconsistent with the group manager public key.
	ErrCredentialInvalid = errors.New("pgs: credential invalid")

	// ErrSignatureInvalid is returned by Verifier.Verify when the
	// verification equation does not hold.
	ErrSignatureInvalid = errors.New("pgs: signature invalid")

	// ErrDegenerate is returned when every retry with fresh randomness hit a
	// zero scalar or the identity point.
	ErrDegenerate = errors.New("pgs: degenerate values, retries exhausted")

	// ErrInvalidInput reports a nil or negative argument.
	ErrInvalidInput = errors.New("pgs: invalid input")

	// ErrAuthenticationFailed is returned when an identity and auxiliary
	// secret do not reproduce a member's password verifier.
	ErrAuthenticationFailed = errors.New("pgs: authentication failed")
)

// maxAttempts bounds the retries on degenerate intermediate values.
const maxAttempts = 16

func checkNatural(x *big.Int, name string) error {
	if x == nil {
		return errors.Wrapf(ErrInvalidInput, "%s is nil", name)
	}
	if x.Sign() < 0 {
		return errors.Wrapf(ErrInvalidInput, "%s is negative", name)
	}
	return nil
}
