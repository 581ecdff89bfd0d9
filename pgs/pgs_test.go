package pgs

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/f3rmion/pgs/group"
	"github.com/f3rmion/pgs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupMember(t *testing.T, g group.Group, opts ...Option) (*GroupManager, *Member, *VerifiedMember) {
	t.Helper()
	gm, err := Setup(g, rand.Reader, opts...)
	require.NoError(t, err)

	member, err := gm.RegisterMember(rand.Reader, big.NewInt(10), big.NewInt(10))
	require.NoError(t, err)

	signer, err := member.Setup()
	require.NoError(t, err)
	return gm, member, signer
}

func TestSignAndVerify(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, _, signer := setupMember(t, g)
			verifier := NewVerifier(g, gm.PublicKey())

			t.Run("MessageBinding", func(t *testing.T) {
				sig, err := signer.Sign(rand.Reader, []byte{10})
				require.NoError(t, err)

				assert.NoError(t, verifier.Verify(sig, []byte{10}))
				assert.ErrorIs(t, verifier.Verify(sig, []byte{11}), ErrSignatureInvalid)
			})

			t.Run("Messages", func(t *testing.T) {
				messages := [][]byte{
					nil,
					[]byte("hello group"),
					make([]byte, 4096),
				}
				for _, msg := range messages {
					sig, err := signer.Sign(rand.Reader, msg)
					require.NoError(t, err)
					assert.NoError(t, verifier.Verify(sig, msg))
				}
			})

			t.Run("ManyMembers", func(t *testing.T) {
				for i := int64(0); i < 5; i++ {
					id := new(big.Int).Lsh(big.NewInt(i+1), 200)
					m, err := gm.RegisterMember(rand.Reader, id, big.NewInt(i))
					require.NoError(t, err)
					s, err := m.Setup()
					require.NoError(t, err)

					sig, err := s.Sign(rand.Reader, []byte("msg"))
					require.NoError(t, err)
					assert.NoError(t, verifier.Verify(sig, []byte("msg")))
				}
			})

			t.Run("WrongGroupManager", func(t *testing.T) {
				other, err := Setup(g, rand.Reader)
				require.NoError(t, err)
				sig, err := signer.Sign(rand.Reader, []byte("msg"))
				require.NoError(t, err)

				err = NewVerifier(g, other.PublicKey()).Verify(sig, []byte("msg"))
				assert.ErrorIs(t, err, ErrSignatureInvalid)
			})
		})
	}
}

func TestTamperedSignature(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, _, signer := setupMember(t, g)
			verifier := NewVerifier(g, gm.PublicKey())
			msg := []byte("original message")

			sig, err := signer.Sign(rand.Reader, msg)
			require.NoError(t, err)
			one := group.ScalarFromUint64(g, 1)

			cases := map[string]*GroupSignature{
				"P":      {P: g.NewScalar().Add(sig.P, one), RPrime: sig.RPrime, A: sig.A, Ver: sig.Ver},
				"RPrime": {P: sig.P, RPrime: g.NewPoint().Add(sig.RPrime, g.Generator()), A: sig.A, Ver: sig.Ver},
				"A":      {P: sig.P, RPrime: sig.RPrime, A: g.NewPoint().Add(sig.A, g.Generator()), Ver: sig.Ver},
				"Ver":    {P: sig.P, RPrime: sig.RPrime, A: sig.A, Ver: g.NewScalar().Add(sig.Ver, one)},
				"ZeroP":  {P: g.NewScalar(), RPrime: sig.RPrime, A: sig.A, Ver: sig.Ver},
				"NilA":   {P: sig.P, RPrime: sig.RPrime, Ver: sig.Ver},
			}
			for name, tampered := range cases {
				t.Run(name, func(t *testing.T) {
					assert.ErrorIs(t, verifier.Verify(tampered, msg), ErrSignatureInvalid)
				})
			}
			assert.ErrorIs(t, verifier.Verify(nil, msg), ErrSignatureInvalid)
		})
	}
}

func flipByte(b []byte, i int) []byte {
	out := append([]byte{}, b...)
	out[i] ^= 0x01
	return out
}

func TestCredentialSoundness(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			_, member, _ := setupMember(t, g)

			t.Run("R", func(t *testing.T) {
				enc := member.R.Bytes()
				for _, i := range []int{0, len(enc) / 2, len(enc) - 1} {
					R, err := group.DecodePoint(g, flipByte(enc, i))
					if err != nil {
						assert.ErrorIs(t, err, ErrDecoding)
						continue
					}
					m := member.clone()
					m.R = R
					_, err = m.Setup()
					assert.ErrorIs(t, err, ErrCredentialInvalid, "byte %d", i)
				}
			})

			t.Run("S", func(t *testing.T) {
				enc := member.S.Bytes()
				for _, i := range []int{0, len(enc) / 2, len(enc) - 1} {
					S, err := group.DecodeScalar(g, flipByte(enc, i))
					if err != nil {
						assert.ErrorIs(t, err, ErrDecoding)
						continue
					}
					m := member.clone()
					m.S = S
					_, err = m.Setup()
					assert.ErrorIs(t, err, ErrCredentialInvalid, "byte %d", i)
				}
			})

			t.Run("PID", func(t *testing.T) {
				m := member.clone()
				m.PID = new(big.Int).Xor(m.PID, big.NewInt(1))
				_, err := m.Setup()
				assert.ErrorIs(t, err, ErrCredentialInvalid)
			})

			t.Run("GMPublic", func(t *testing.T) {
				m := member.clone()
				m.GMPublic = g.NewPoint().Add(m.GMPublic, g.Generator())
				_, err := m.Setup()
				assert.ErrorIs(t, err, ErrCredentialInvalid)
			})

			t.Run("Idempotent", func(t *testing.T) {
				first, err := member.Setup()
				require.NoError(t, err)
				second, err := member.Setup()
				require.NoError(t, err)
				assert.True(t, first.DerivedPublic().Equal(second.DerivedPublic()))

				// S*G is the derived public key.
				assert.True(t, first.DerivedPublic().Equal(g.NewPoint().ScalarMult(member.S, g.Generator())))
			})

			t.Run("Unissued", func(t *testing.T) {
				_, err := (&Member{}).Setup()
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		})
	}
}

func TestUnlinkability(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, member, signer := setupMember(t, g)
			msg := []byte("same message")

			sig1, err := signer.Sign(rand.Reader, msg)
			require.NoError(t, err)
			sig2, err := signer.Sign(rand.Reader, msg)
			require.NoError(t, err)

			assert.False(t, sig1.P.Equal(sig2.P))
			assert.False(t, sig1.RPrime.Equal(sig2.RPrime))
			assert.False(t, sig1.A.Equal(sig2.A))
			assert.False(t, sig1.Ver.Equal(sig2.Ver))

			// Only the credential links them back.
			assert.True(t, gm.Links(sig1, member.R, member.PID))
			assert.True(t, gm.Links(sig2, member.R, member.PID))
		})
	}
}

func TestOpenAndLinks(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, err := Setup(g, rand.Reader)
			require.NoError(t, err)

			alice, err := gm.RegisterMember(rand.Reader, big.NewInt(1001), big.NewInt(7))
			require.NoError(t, err)
			bob, err := gm.RegisterMember(rand.Reader, big.NewInt(1002), big.NewInt(7))
			require.NoError(t, err)

			assert.Equal(t, 0, gm.Open(alice.R, alice.PID).Cmp(big.NewInt(1001)))
			assert.Equal(t, 0, gm.Open(bob.R, bob.PID).Cmp(big.NewInt(1002)))
			assert.NotEqual(t, 0, alice.PID.Cmp(alice.Identity), "pseudonym should hide the identity")

			signer, err := alice.Setup()
			require.NoError(t, err)
			sig, err := signer.Sign(rand.Reader, []byte("msg"))
			require.NoError(t, err)

			assert.True(t, gm.Links(sig, alice.R, alice.PID))
			assert.False(t, gm.Links(sig, bob.R, bob.PID))
			assert.False(t, gm.Links(nil, alice.R, alice.PID))
		})
	}
}

func TestDegenerateSignatureDoesNotLink(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, member, signer := setupMember(t, g)

			// P = 0 gives c = 0, and 0*R is the identity for every credential.
			zero := &GroupSignature{
				P:      g.NewScalar(),
				RPrime: g.NewPoint(),
				A:      g.Generator(),
				Ver:    g.NewScalar(),
			}
			assert.False(t, gm.Links(zero, member.R, member.PID))

			sig, err := signer.Sign(rand.Reader, []byte("msg"))
			require.NoError(t, err)

			zeroP := *sig
			zeroP.P = g.NewScalar()
			assert.False(t, gm.Links(&zeroP, member.R, member.PID))

			identityR := *sig
			identityR.RPrime = g.NewPoint()
			assert.False(t, gm.Links(&identityR, member.R, member.PID))

			assert.False(t, gm.Links(sig, g.NewPoint(), member.PID))
			assert.True(t, gm.Links(sig, member.R, member.PID))
		})
	}
}

func TestVerifierKeyValidation(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, _, signer := setupMember(t, g)
			sig, err := signer.Sign(rand.Reader, []byte("msg"))
			require.NoError(t, err)
			data, err := sig.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, data, SignatureSize(g))

			for name, v := range map[string]*Verifier{
				"NilKey":      NewVerifier(g, nil),
				"IdentityKey": NewVerifier(g, g.NewPoint()),
				"NilGroup":    NewVerifier(nil, gm.PublicKey()),
			} {
				assert.Nil(t, v.PublicKey(), name)
				assert.ErrorIs(t, v.Verify(sig, []byte("msg")), ErrInvalidInput, name)
				assert.ErrorIs(t, v.VerifyBytes(data, []byte("msg")), ErrInvalidInput, name)
			}

			v := NewVerifier(g, gm.PublicKey())
			assert.True(t, gm.PublicKey().Equal(v.PublicKey()))
			assert.NoError(t, v.Verify(sig, []byte("msg")))
		})
	}
}

func TestSignatureWithoutCredentialDoesNotLink(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, member, _ := setupMember(t, g)
			msg := []byte("msg")

			// Pick PKmu = x*G directly: R' = x*G - P*GMPublic.
			x, err := group.RandomNonZeroScalar(g, rand.Reader)
			require.NoError(t, err)
			P, err := group.RandomNonZeroScalar(g, rand.Reader)
			require.NoError(t, err)
			a, err := group.RandomNonZeroScalar(g, rand.Reader)
			require.NoError(t, err)

			RPrime := g.NewPoint().Sub(
				g.NewPoint().ScalarMult(x, g.Generator()),
				g.NewPoint().ScalarMult(P, gm.PublicKey()),
			)
			A := g.NewPoint().ScalarMult(a, g.Generator())
			H := challenge(g, gm.Hasher(), P, msg, RPrime, A)
			Ver := g.NewScalar().Add(a, g.NewScalar().Mul(x, H))
			sig := &GroupSignature{P: P, RPrime: RPrime, A: A, Ver: Ver}

			assert.NoError(t, NewVerifier(g, gm.PublicKey()).Verify(sig, msg))
			assert.False(t, gm.Links(sig, member.R, member.PID))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			_, member, signer := setupMember(t, g)

			assert.NoError(t, member.Authenticate(big.NewInt(10), big.NewInt(10)))
			assert.NoError(t, signer.Authenticate(big.NewInt(10), big.NewInt(10)))
			assert.ErrorIs(t, member.Authenticate(big.NewInt(10), big.NewInt(11)), ErrAuthenticationFailed)
			assert.ErrorIs(t, member.Authenticate(big.NewInt(11), big.NewInt(10)), ErrAuthenticationFailed)
			assert.ErrorIs(t, member.Authenticate(big.NewInt(-1), big.NewInt(10)), ErrInvalidInput)
		})
	}
}

func TestPasswordVerifierInputs(t *testing.T) {
	g := testutil.Groups()[0]
	h := SHA256Hasher{}
	S := group.ScalarFromUint64(g, 99)
	base := PasswordVerifier(g, h, big.NewInt(1), big.NewInt(2), S)

	assert.True(t, base.Equal(PasswordVerifier(g, h, big.NewInt(1), big.NewInt(2), S)))
	assert.False(t, base.Equal(PasswordVerifier(g, h, big.NewInt(3), big.NewInt(2), S)), "identity must be bound")
	assert.False(t, base.Equal(PasswordVerifier(g, h, big.NewInt(1), big.NewInt(4), S)), "auxiliary secret must be bound")
	assert.False(t, base.Equal(PasswordVerifier(g, h, big.NewInt(1), big.NewInt(2), group.ScalarFromUint64(g, 100))), "S must be bound")
}

func TestHashToScalarDeterminism(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, member, signer := setupMember(t, g)

			e1 := BindingExponent(g, gm.Hasher(), member.R, member.PID)
			e2 := BindingExponent(g, SHA256Hasher{}, member.R, member.PID)
			assert.True(t, e1.Equal(e2))
			assert.True(t, e1.Equal(signer.e))

			P := group.ScalarFromUint64(g, 5)
			c1 := challenge(g, gm.Hasher(), P, []byte("m"), member.R, gm.PublicKey())
			c2 := challenge(g, gm.Hasher(), P, []byte("m"), member.R, gm.PublicKey())
			assert.True(t, c1.Equal(c2))
		})
	}
}

func TestFraming(t *testing.T) {
	h := SHA256Hasher{}

	// Moving a byte across an operand boundary changes the digest.
	assert.NotEqual(t, h.Digest("t", []byte("ab"), []byte("c")), h.Digest("t", []byte("a"), []byte("bc")))
	assert.NotEqual(t, h.Digest("t", []byte("x")), h.Digest("u", []byte("x")))
	assert.NotEqual(t, h.Digest("t"), h.Digest("t", nil))
	assert.Len(t, h.Digest("t"), 32)
	assert.Len(t, NewBlake2bHasher().Digest("t"), 64)
	assert.Len(t, NewBlake3Hasher().Digest("t"), 64)
}

func TestHashers(t *testing.T) {
	hashers := []Hasher{SHA256Hasher{}, NewBlake2bHasher(), NewBlake3Hasher()}

	for _, g := range testutil.Groups() {
		for _, h := range hashers {
			g, h := g, h
			t.Run(g.Name()+"/"+h.Name(), func(t *testing.T) {
				gm, _, signer := setupMember(t, g, WithHasher(h))
				msg := []byte("hasher test")
				sig, err := signer.Sign(rand.Reader, msg)
				require.NoError(t, err)

				assert.NoError(t, NewVerifier(g, gm.PublicKey(), WithHasher(h)).Verify(sig, msg))

				for _, other := range hashers {
					if other.Name() == h.Name() {
						continue
					}
					err := NewVerifier(g, gm.PublicKey(), WithHasher(other)).Verify(sig, msg)
					assert.ErrorIs(t, err, ErrSignatureInvalid, "verified under %s", other.Name())
				}
			})
		}
	}
}

func TestSeededRandomness(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			run := func() []byte {
				rng := testutil.Reader("seeded run")
				gm, err := Setup(g, rng)
				require.NoError(t, err)
				member, err := gm.RegisterMember(rng, big.NewInt(10), big.NewInt(10))
				require.NoError(t, err)
				signer, err := member.Setup()
				require.NoError(t, err)
				sig, err := signer.Sign(rng, []byte{10})
				require.NoError(t, err)

				require.NoError(t, NewVerifier(g, gm.PublicKey()).Verify(sig, []byte{10}))
				enc, err := sig.MarshalBinary()
				require.NoError(t, err)
				return enc
			}
			assert.Equal(t, run(), run())
		})
	}
}

func TestSignatureEncoding(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, _, signer := setupMember(t, g)
			verifier := NewVerifier(g, gm.PublicKey())
			msg := []byte("encoded")

			sig, err := signer.Sign(rand.Reader, msg)
			require.NoError(t, err)
			enc, err := sig.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, enc, SignatureSize(g))

			decoded, err := UnmarshalSignature(g, enc)
			require.NoError(t, err)
			assert.True(t, decoded.Equal(sig))
			assert.NoError(t, verifier.VerifyBytes(enc, msg))
			assert.ErrorIs(t, verifier.VerifyBytes(enc, []byte("other")), ErrSignatureInvalid)

			t.Run("AllZero", func(t *testing.T) {
				err := verifier.VerifyBytes(make([]byte, SignatureSize(g)), msg)
				assert.ErrorIs(t, err, ErrDecoding)
				assert.NotErrorIs(t, err, ErrSignatureInvalid)
			})

			t.Run("WrongLength", func(t *testing.T) {
				_, err := UnmarshalSignature(g, enc[:len(enc)-1])
				assert.ErrorIs(t, err, ErrDecoding)
				_, err = UnmarshalSignature(g, append(enc, 0))
				assert.ErrorIs(t, err, ErrDecoding)
			})

			t.Run("IdentityA", func(t *testing.T) {
				bad := append([]byte{}, enc...)
				off := g.ScalarSize() + g.PointSize()
				copy(bad[off:], g.NewPoint().Bytes())
				assert.ErrorIs(t, verifier.VerifyBytes(bad, msg), ErrDecoding)
			})

			t.Run("Incomplete", func(t *testing.T) {
				_, err := (&GroupSignature{P: sig.P}).MarshalBinary()
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		})
	}
}

func TestDegenerateRandomness(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			_, err := Setup(g, testutil.ZeroReader{})
			assert.ErrorIs(t, err, group.ErrZeroScalar)

			gm, member, signer := setupMember(t, g)
			_, err = gm.RegisterMember(testutil.ZeroReader{}, big.NewInt(1), big.NewInt(1))
			assert.ErrorIs(t, err, group.ErrZeroScalar)
			_, err = signer.Sign(testutil.ZeroReader{}, []byte("m"))
			assert.ErrorIs(t, err, group.ErrZeroScalar)

			// A valid credential is untouched by failed attempts.
			_, err = member.Setup()
			assert.NoError(t, err)
		})
	}
}

func TestInvalidInput(t *testing.T) {
	g := testutil.Groups()[0]
	gm, err := Setup(g, rand.Reader)
	require.NoError(t, err)

	_, err = gm.RegisterMember(rand.Reader, big.NewInt(-5), big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = gm.RegisterMember(rand.Reader, big.NewInt(5), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Setup(nil, rand.Reader)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConcurrentSign(t *testing.T) {
	for _, g := range testutil.Groups() {
		g := g
		t.Run(g.Name(), func(t *testing.T) {
			gm, _, signer := setupMember(t, g)
			verifier := NewVerifier(g, gm.PublicKey())

			const n = 16
			sigs := make([]*GroupSignature, n)
			var eg errgroup.Group
			for i := 0; i < n; i++ {
				i := i
				eg.Go(func() error {
					msg := []byte{byte(i)}
					sig, err := signer.Sign(rand.Reader, msg)
					if err != nil {
						return err
					}
					sigs[i] = sig
					return verifier.Verify(sig, msg)
				})
			}
			require.NoError(t, eg.Wait())

			seen := make(map[string]bool)
			for _, sig := range sigs {
				key := string(sig.P.Bytes())
				assert.False(t, seen[key], "randomizer reused")
				seen[key] = true
			}
		})
	}
}
