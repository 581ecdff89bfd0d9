// Package pgs implements a pseudonymous group signature scheme over an
// arbitrary prime-order group.
//
// A group manager issues identity-bound credentials without publishing
// the identities. Members check their credential once and then produce
// randomized signatures that a verifier attributes only to the group
// manager's public key.
//
// # Protocol
//
//  1. [Setup] samples the master secret and returns a [GroupManager].
//  2. [GroupManager.RegisterMember] issues a [Member] credential (R, S), a
//     pseudonym PID and a password verifier PWV.
//  3. [Member.Setup] checks S*G == R + H(R ‖ PID)*GMPublic and returns a
//     [VerifiedMember]. Only a VerifiedMember has a Sign method.
//  4. [VerifiedMember.Sign] produces a [GroupSignature] (P, R', A, Ver).
//  5. [Verifier.Verify] checks Ver*G == A + H*(R' + P*GMPublic).
//
// # Example
//
//	g := &secp256k1.Secp256k1{}
//	gm, _ := pgs.Setup(g, rand.Reader)
//
//	member, _ := gm.RegisterMember(rand.Reader, identity, hashedPassword)
//	signer, err := member.Setup()
//	if err != nil {
//		return err // the credential is inconsistent
//	}
//
//	sig, _ := signer.Sign(rand.Reader, message)
//
//	v := pgs.NewVerifier(g, gm.PublicKey())
//	err = v.Verify(sig, message)
//
// # Hashing
//
// All hashes go through a [Hasher] with a fixed framing: a per-hasher
// prefix, a per-role tag, and every operand preceded by a zero byte and
// its 4-byte big-endian length. Digests are read as little-endian integers
// and reduced modulo the group order. Changing any of this breaks
// compatibility between members and verifiers.
//
// # Security Considerations
//
// Ephemeral scalars are drawn from the io.Reader passed to each call and
// must never repeat; a reused randomizer links signatures and can leak the
// credential scalar.
//
// The verification equation only shows that the signer knows the discrete
// logarithm of R' + P*GMPublic. It does not show that R' was derived from a
// credential the group manager issued, so a party holding no credential
// can produce signatures that verify. Accountability comes from
// [GroupManager.Links]: a signature that links to no registered credential
// was not produced by a member.
//
// Pseudonyms mask the identity with a digest of R and the group manager
// key. Identities wider than the digest leak their high bits.
package pgs
