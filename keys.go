package vrf

import "fmt"

// SecretKey is the in-memory handle the prove operations need: a canonical
// nonzero scalar and its 32-byte encoding, the latter feeding the RFC 8032
// nonce derivation. Key generation and storage live outside this module.
type SecretKey struct {
	scalar  Scalar
	encoded [ScalarSize]byte
}

// NewSecretKey parses a canonical little-endian scalar. Zero is rejected
// since its public key would be the identity.
func NewSecretKey(buf []byte) (*SecretKey, error) {
	sk := &SecretKey{}
	if _, err := sk.scalar.SetCanonicalBytes(buf); err != nil {
		return nil, err
	}
	if sk.scalar.IsZero() {
		return nil, fmt.Errorf("%w: zero secret key", ErrScalarRange)
	}
	copy(sk.encoded[:], buf)
	return sk, nil
}

func (sk *SecretKey) Bytes() []byte {
	out := make([]byte, ScalarSize)
	copy(out, sk.encoded[:])
	return out
}

// Public returns the public key x*G.
func (sk *SecretKey) Public() *Point {
	return new(Point).ScalarBaseMult(&sk.scalar)
}
