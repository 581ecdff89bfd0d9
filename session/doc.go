// Package session provides a stateful API on top of the [pgs] primitives.
// It keeps track of issued credentials on the group manager side and of
// credential setup on the member side, so that applications do not have to.
//
// For full control over the protocol, use the [pgs] package directly.
//
// # Group Manager
//
// An [Authority] issues credentials and remembers enough about each one to
// trace signatures back to identities later:
//
//	auth, err := session.NewAuthority(group, rand.Reader)
//	if err != nil {
//		return err
//	}
//
//	// Send member to its owner over a confidential channel
//	member, err := auth.Register(identity, hashedPassword)
//
//	// Later, given a verified signature:
//	who, err := auth.Trace(sig)
//
// # Member
//
// A [Holder] runs the credential check once and signs afterwards:
//
//	h := session.NewHolder(member)
//	if err := h.Setup(); err != nil {
//		return err // credential rejected
//	}
//	sig, err := h.Sign(message)
//
// # Verification
//
//	v := auth.Verifier()
//	err := v.Verify(sig, message)
//
// # Thread Safety
//
// Authority and Holder are safe for concurrent use. A Holder serializes
// reads from its random source.
package session
